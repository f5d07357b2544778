// Package complete implements the suggestion entry point the host editor
// invokes on every completion request.
//
// The provider merges two suggestion sources: dependency names from the
// manifest snapshot, and library methods from the catalog, selected by the
// context resolver when the user is typing a member access. It never
// propagates failures to the host: an internal error yields an empty list
// and a toast, and the call always returns exactly once.
package complete

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/charmbracelet/log"

	"github.com/mvilhena/depsense/pkg/catalog"
	"github.com/mvilhena/depsense/pkg/editor"
	"github.com/mvilhena/depsense/pkg/integrations/npm"
	"github.com/mvilhena/depsense/pkg/manifest"
	"github.com/mvilhena/depsense/pkg/resolve"
)

// Icon references understood by hosts. Hosts map these to their own glyphs.
const (
	IconMethod     = "method"
	IconDependency = "package"
)

// CategoryDependency labels dependency-name suggestions; method
// suggestions are labeled "<library> method".
const CategoryDependency = "dependency"

// Suggestion is the record shape exposed to the host.
type Suggestion struct {
	DisplayText   string `json:"display_text"`
	InsertText    string `json:"insert_text"`
	RankScore     int    `json:"rank_score"`
	CategoryLabel string `json:"category_label"`
	IconRef       string `json:"icon_ref"`
	DetailHTML    string `json:"detail_html,omitempty"`
}

// SnapshotSource yields the current manifest snapshot, which may be nil
// before the first successful load.
type SnapshotSource interface {
	Snapshot() *manifest.Snapshot
}

// Enricher supplies descriptive metadata for method suggestions. The
// lookup is expected to bound its own wait and degrade to a sentinel
// record rather than fail.
type Enricher interface {
	FetchDetails(ctx context.Context, pkg string) npm.Details
}

// Provider computes suggestion lists for cursor positions.
type Provider struct {
	resolver  *resolve.Resolver
	catalog   *catalog.Catalog
	snapshots SnapshotSource
	enricher  Enricher
	notifier  editor.Notifier
	logger    *log.Logger
}

// NewProvider assembles a provider. notifier may be nil (errors are then
// only logged); a nil logger falls back to log.Default().
func NewProvider(r *resolve.Resolver, c *catalog.Catalog, snapshots SnapshotSource, enricher Enricher, notifier editor.Notifier, logger *log.Logger) *Provider {
	if logger == nil {
		logger = log.Default()
	}
	return &Provider{
		resolver:  r,
		catalog:   c,
		snapshots: snapshots,
		enricher:  enricher,
		notifier:  notifier,
		logger:    logger,
	}
}

// Provide computes the suggestion list for the cursor position. It returns
// exactly once per call even on internal failure, in which case the list
// is empty and a transient notification is emitted.
func (p *Provider) Provide(ctx context.Context, buf editor.Buffer, pos editor.Position) (suggestions []Suggestion) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("completion request failed", "err", r, "stack", string(debug.Stack()))
			if p.notifier != nil {
				p.notifier.Notify(fmt.Sprintf("completion error: %v", r))
			}
			suggestions = nil
		}
	}()

	input := resolve.SplitInput(buf.Line(pos.Row), pos.Column)
	if input.Base == "" {
		// No identifier to complete. A bare dot (member access on a call
		// result, "axios.get(url).") has nothing to bind either.
		return nil
	}

	if input.HasDot {
		if s := p.methodSuggestions(ctx, buf, pos, input); s != nil {
			return s
		}
		// No resolved or matching context: fall through to dependency-name
		// completion on the base identifier.
	}

	return p.dependencySuggestions(input.Base)
}

// methodSuggestions resolves the typed base identifier against the binding
// table and produces catalog-method suggestions when the binding matches.
func (p *Provider) methodSuggestions(ctx context.Context, buf editor.Buffer, pos editor.Position, input resolve.Input) []Suggestion {
	binding, ok := p.resolver.Resolve(buf.LinesBefore(pos.Row))
	if !ok || binding.Identifier != input.Base {
		return nil
	}
	methods := p.catalog.FilterByPrefix(binding.Library, input.MemberPrefix)
	if methods == nil {
		if _, known := p.catalog.Methods(binding.Library); !known {
			return nil
		}
		return []Suggestion{}
	}

	details := p.enricher.FetchDetails(ctx, binding.Library)

	out := make([]Suggestion, 0, len(methods))
	for _, m := range methods {
		score := m.Score
		if score == 0 {
			score = catalog.DefaultScore
		}
		out = append(out, Suggestion{
			DisplayText:   m.Name,
			InsertText:    m.Name,
			RankScore:     score,
			CategoryLabel: binding.Library + " method",
			IconRef:       IconMethod,
			DetailHTML:    detailHTML(m, binding.Library, details),
		})
	}
	return out
}

// dependencySuggestions filters the manifest snapshot's dependency names
// by the typed prefix. A nil snapshot (no manifest loaded yet) degrades to
// no suggestions.
func (p *Provider) dependencySuggestions(prefix string) []Suggestion {
	snap := p.snapshots.Snapshot()
	names := snap.FilterByPrefix(prefix)
	if len(names) == 0 {
		return nil
	}

	out := make([]Suggestion, 0, len(names))
	for _, name := range names {
		out = append(out, Suggestion{
			DisplayText:   name,
			InsertText:    name,
			RankScore:     catalog.DefaultScore,
			CategoryLabel: CategoryDependency,
			IconRef:       IconDependency,
		})
	}
	return out
}
