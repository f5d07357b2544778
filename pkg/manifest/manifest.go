// Package manifest locates and parses the project's dependency manifest
// (package.json) and maintains the hash-gated snapshot cache the completion
// engine reads dependency names from.
package manifest

import (
	"bytes"
	"context"
	"encoding/json"
	"path"
	"strings"
	"time"

	"github.com/mvilhena/depsense/pkg/editor"
	"github.com/mvilhena/depsense/pkg/errors"
)

// FileName is the manifest file the locator searches for.
const FileName = "package.json"

// Snapshot is an immutable materialization of manifest-derived data.
// It is replaced wholesale on reload, never mutated in place.
type Snapshot struct {
	Path       string    `json:"path"`
	Dir        string    `json:"dir"`
	SourceHash string    `json:"source_hash"`
	// Dependencies holds declared dependency names with duplicates removed,
	// runtime dependencies first, then dev dependencies, each group in
	// manifest key order.
	Dependencies []string  `json:"dependencies"`
	LoadedAt     time.Time `json:"loaded_at"`
	// FromCache marks a snapshot rebuilt from the durable store instead of
	// a fresh parse.
	FromCache bool `json:"-"`
}

// Has reports whether name is a declared dependency.
func (s *Snapshot) Has(name string) bool {
	if s == nil {
		return false
	}
	for _, dep := range s.Dependencies {
		if dep == name {
			return true
		}
	}
	return false
}

// FilterByPrefix returns declared dependency names starting with prefix,
// preserving snapshot order.
func (s *Snapshot) FilterByPrefix(prefix string) []string {
	if s == nil {
		return nil
	}
	var out []string
	for _, dep := range s.Dependencies {
		if strings.HasPrefix(dep, prefix) {
			out = append(out, dep)
		}
	}
	return out
}

// Locate finds the project manifest among the host's enumerated files and
// returns its URL and containing directory. The first file named
// package.json wins, matching the host's enumeration order.
func Locate(ctx context.Context, enum editor.FileEnumerator) (url, dir string, err error) {
	files, err := enum.List(ctx)
	if err != nil {
		return "", "", errors.Wrap(errors.ErrCodeManifestRead, err, "enumerate project files")
	}
	for _, f := range files {
		if strings.EqualFold(f.Name, FileName) {
			return f.URL, path.Dir(f.URL), nil
		}
	}
	return "", "", errors.New(errors.ErrCodeManifestNotFound, "no %s in project", FileName)
}

// manifestFile mirrors the package.json fields the engine reads. The
// dependency maps stay raw so key order can be recovered; encoding/json
// map decoding would destroy it.
type manifestFile struct {
	Name            string          `json:"name"`
	Version         string          `json:"version"`
	Dependencies    json.RawMessage `json:"dependencies"`
	DevDependencies json.RawMessage `json:"devDependencies"`
}

// ParseDependencies extracts the ordered dependency name set from manifest
// content: runtime dependencies first, then dev dependencies, duplicates
// removed, declaration order preserved within each group.
func ParseDependencies(data []byte) ([]string, error) {
	var file manifestFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(errors.ErrCodeManifestParse, err, "parse %s", FileName)
	}

	seen := make(map[string]bool)
	var names []string
	for _, raw := range []json.RawMessage{file.Dependencies, file.DevDependencies} {
		keys, err := objectKeys(raw)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeManifestParse, err, "parse %s", FileName)
		}
		for _, k := range keys {
			if !seen[k] {
				seen[k] = true
				names = append(names, k)
			}
		}
	}
	return names, nil
}

// objectKeys returns a JSON object's keys in declaration order. A nil or
// "null" value yields no keys.
func objectKeys(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.New(errors.ErrCodeManifestParse, "dependencies is not an object")
	}

	var keys []string
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, errors.New(errors.ErrCodeManifestParse, "unexpected token in dependencies")
		}
		keys = append(keys, key)

		var value any
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
	}
	return keys, nil
}
