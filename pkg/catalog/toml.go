package catalog

import (
	"os"

	"github.com/BurntSushi/toml"
)

// overlayFile is the on-disk shape of a catalog overlay:
//
//	[[library]]
//	name = "express"
//
//	[[library.method]]
//	name = "get"
//	description = "Handle HTTP GET requests"
//	example = "app.get('/', handler)"
//	score = 900
type overlayFile struct {
	Libraries []overlayLibrary `toml:"library"`
}

type overlayLibrary struct {
	Name    string       `toml:"name"`
	Methods []MethodSpec `toml:"method"`
}

// LoadOverlay reads a TOML overlay file into a catalog. Methods without an
// explicit score get DefaultScore.
func LoadOverlay(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseOverlay(data)
}

// ParseOverlay decodes overlay TOML content.
func ParseOverlay(data []byte) (*Catalog, error) {
	var file overlayFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, err
	}

	c := New()
	for _, lib := range file.Libraries {
		methods := make([]MethodSpec, len(lib.Methods))
		for i, m := range lib.Methods {
			if m.Score == 0 {
				m.Score = DefaultScore
			}
			methods[i] = m
		}
		c.Set(lib.Name, methods)
	}
	return c, nil
}
