// Package catalog holds the static per-library tables of completable
// methods. The built-in data covers the common npm libraries; overlays
// loaded from TOML files can extend or replace individual entries.
package catalog

// DefaultScore is the rank applied to methods that don't configure one,
// and to dependency-name suggestions.
const DefaultScore = 600

// MethodSpec describes one completable method of a library.
type MethodSpec struct {
	Name        string `toml:"name"`
	Description string `toml:"description"`
	Example     string `toml:"example"`
	Score       int    `toml:"score"`
}

// Catalog maps library names to their method lists. Method order is
// significant: it is the tie-break order for equally ranked suggestions.
// A library may be present with zero methods, meaning it is known but
// uncataloged; dependency-name completion still applies to it.
type Catalog struct {
	entries map[string][]MethodSpec
	// names preserves insertion order for deterministic Libraries().
	names []string
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{entries: make(map[string][]MethodSpec)}
}

// Set installs the method list for a library, replacing any existing list.
func (c *Catalog) Set(library string, methods []MethodSpec) {
	if _, exists := c.entries[library]; !exists {
		c.names = append(c.names, library)
	}
	c.entries[library] = methods
}

// Methods returns the method list for library and whether the library is
// known. The returned slice must not be modified.
func (c *Catalog) Methods(library string) ([]MethodSpec, bool) {
	methods, ok := c.entries[library]
	return methods, ok
}

// Libraries returns the cataloged library names in insertion order.
func (c *Catalog) Libraries() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// FilterByPrefix returns the library's methods whose names start with
// prefix, preserving catalog order. An empty prefix returns all methods.
func (c *Catalog) FilterByPrefix(library, prefix string) []MethodSpec {
	methods, ok := c.entries[library]
	if !ok {
		return nil
	}
	var out []MethodSpec
	for _, m := range methods {
		if hasPrefix(m.Name, prefix) {
			out = append(out, m)
		}
	}
	return out
}

// Merge overlays other on top of c: libraries present in other replace the
// same library's method list in c, and new libraries are appended.
func (c *Catalog) Merge(other *Catalog) {
	for _, name := range other.names {
		c.Set(name, other.entries[name])
	}
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}
