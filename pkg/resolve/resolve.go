package resolve

import "strings"

// Resolver scans buffer lines for identifier-to-library bindings using a
// fixed matcher table.
type Resolver struct {
	table []BindingMatcher
}

// NewResolver creates a resolver over the given matcher table. A nil table
// falls back to the built-in one.
func NewResolver(table []BindingMatcher) *Resolver {
	if table == nil {
		table = DefaultTable()
	}
	return &Resolver{table: table}
}

// Resolve scans lines strictly backward from the end and returns the first
// binding found. The nearest declaration wins: a later rebinding of the
// same identifier shadows earlier ones, mirroring nearest-enclosing-scope
// intuition even though the scan is not scope-aware. An identifier reused
// in an unrelated function can therefore be misattributed; that is a known
// limitation of the heuristic.
//
// Cost is O(len(lines) x len(table)) with simple anchored patterns, which
// is fine at editor-buffer sizes.
func (r *Resolver) Resolve(lines []string) (Binding, bool) {
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		for _, m := range r.table {
			if ident, ok := m.Match(line); ok {
				return Binding{Identifier: ident, Library: m.Library()}, true
			}
		}
	}
	return Binding{}, false
}

// Input is the cursor-adjacent text split into its completion-relevant
// parts. With "app.ge|" (cursor at |), Base is "app", MemberPrefix is "ge"
// and HasDot is true. With "expr|", Base is "expr" and HasDot is false.
// Both parts may be empty.
type Input struct {
	Base         string
	MemberPrefix string
	HasDot       bool
}

// SplitInput walks backward from column over identifier characters to
// recover the prefix being typed, then, if a member-access dot precedes
// that run, walks back again to recover the base identifier.
func SplitInput(line string, column int) Input {
	runes := []rune(line)
	if column < 0 {
		column = 0
	}
	if column > len(runes) {
		column = len(runes)
	}

	i := column - 1
	start := i
	for i >= 0 && isIdentRune(runes[i]) {
		i--
	}
	run := string(runes[i+1 : start+1])

	if i >= 0 && runes[i] == '.' {
		i-- // skip the dot
		baseEnd := i
		for i >= 0 && isIdentRune(runes[i]) {
			i--
		}
		return Input{
			Base:         string(runes[i+1 : baseEnd+1]),
			MemberPrefix: run,
			HasDot:       true,
		}
	}

	return Input{Base: run}
}

// isIdentRune reports whether r can appear in a JavaScript identifier.
func isIdentRune(r rune) bool {
	return r == '_' || r == '$' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}
