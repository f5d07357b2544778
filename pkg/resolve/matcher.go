// Package resolve binds local identifiers to the libraries they were
// constructed from, by scanning buffer text backward from the cursor.
//
// Matching is a regex-table heuristic over raw lines, not a parse. That is
// deliberate: it covers the require/import declaration forms that matter
// for completion while staying cheap enough to run on every keystroke. The
// [BindingMatcher] interface keeps the strategy swappable, so a
// tokenizer-based resolver can replace the regex table without touching the
// completion provider.
package resolve

import (
	"fmt"
	"regexp"
)

// Binding associates a local identifier with the library it was bound to.
type Binding struct {
	Identifier string
	Library    string
}

// BindingMatcher recognizes declaration lines that bind an identifier to
// one specific library.
type BindingMatcher interface {
	// Library returns the library name this matcher recognizes.
	Library() string
	// Match tests a single line and extracts the bound identifier.
	Match(line string) (ident string, ok bool)
}

// PatternMatcher is the regex implementation of BindingMatcher. It
// recognizes three declaration shapes:
//
//	const app = require('express')
//	const app = express()
//	import app from 'express'
//
// with const/let/var interchangeable and either quote style.
type PatternMatcher struct {
	library string
	re      *regexp.Regexp
}

// NewPatternMatcher compiles the binding pattern for the given library name.
// Names containing regex metacharacters (e.g. "socket.io") are quoted.
func NewPatternMatcher(library string) *PatternMatcher {
	q := regexp.QuoteMeta(library)
	pattern := fmt.Sprintf(
		`(?:const|let|var)\s+(\w+)\s*=\s*(?:require\s*\(\s*['"]%s['"]\s*\)|%s\s*\()`+
			`|import\s+(\w+)\s+from\s+['"]%s['"]`,
		q, q, q)
	return &PatternMatcher{
		library: library,
		re:      regexp.MustCompile(pattern),
	}
}

// Library returns the matched library name.
func (m *PatternMatcher) Library() string { return m.library }

// Match extracts the bound identifier from a declaration line.
func (m *PatternMatcher) Match(line string) (string, bool) {
	groups := m.re.FindStringSubmatch(line)
	if groups == nil {
		return "", false
	}
	// Group 1 covers the require/call forms, group 2 the import form.
	if groups[1] != "" {
		return groups[1], true
	}
	if groups[2] != "" {
		return groups[2], true
	}
	return "", false
}

var _ BindingMatcher = (*PatternMatcher)(nil)

// defaultLibraries is the set of libraries with built-in binding patterns,
// in match precedence order.
var defaultLibraries = []string{
	"express",
	"axios",
	"lodash",
	"moment",
	"dayjs",
	"chalk",
	"inquirer",
	"dotenv",
	"mongoose",
	"jsonwebtoken",
	"bcrypt",
	"socket.io",
}

// DefaultTable returns pattern matchers for the built-in library set.
func DefaultTable() []BindingMatcher {
	table := make([]BindingMatcher, 0, len(defaultLibraries))
	for _, lib := range defaultLibraries {
		table = append(table, NewPatternMatcher(lib))
	}
	return table
}

// TableFor builds pattern matchers for an arbitrary library list, used when
// a catalog overlay introduces libraries outside the default table.
func TableFor(libraries []string) []BindingMatcher {
	table := make([]BindingMatcher, 0, len(libraries))
	for _, lib := range libraries {
		table = append(table, NewPatternMatcher(lib))
	}
	return table
}
