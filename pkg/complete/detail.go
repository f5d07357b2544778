package complete

import (
	"fmt"
	"html"

	"github.com/mvilhena/depsense/pkg/catalog"
	"github.com/mvilhena/depsense/pkg/integrations/npm"
)

// detailHTML renders the documentation panel shown next to a method
// suggestion: name, description, an example invocation, and the package's
// resolved version with a homepage link. All dynamic text is escaped; the
// catalog examples contain quotes and angle-bracket arrows.
func detailHTML(m catalog.MethodSpec, library string, d npm.Details) string {
	return fmt.Sprintf(
		`<div class="depsense-doc">`+
			`<strong>%s</strong><br>`+
			`<span class="doc-description">%s</span><br>`+
			`<span class="doc-example">Ex: <code>%s</code></span><br>`+
			`<span class="doc-package">Pkg: %s (v%s)</span><br>`+
			`<a href="%s" target="_blank">%s</a>`+
			`</div>`,
		html.EscapeString(m.Name),
		html.EscapeString(m.Description),
		html.EscapeString(m.Example),
		html.EscapeString(library),
		html.EscapeString(d.Version),
		html.EscapeString(d.Homepage),
		html.EscapeString(d.Homepage),
	)
}
