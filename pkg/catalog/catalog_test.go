package catalog

import "testing"

func TestBuiltin_ExpressMethods(t *testing.T) {
	c := Builtin()

	methods, ok := c.Methods("express")
	if !ok {
		t.Fatal("express missing from builtin catalog")
	}
	if len(methods) != 20 {
		t.Errorf("express has %d methods, want 20", len(methods))
	}
	if methods[0].Name != "get" || methods[0].Score != 900 {
		t.Errorf("first express method = %s/%d, want get/900", methods[0].Name, methods[0].Score)
	}
}

func TestFilterByPrefix(t *testing.T) {
	c := Builtin()

	tests := []struct {
		name    string
		library string
		prefix  string
		want    []string
	}{
		{"g prefix includes get excludes post", "express", "g", []string{"get"}},
		{"empty prefix returns all axios", "axios", "", []string{"get", "post", "put", "delete"}},
		{"no match", "axios", "zz", nil},
		{"unknown library", "fastify", "g", nil},
		{"multi match preserves order", "express", "s", []string{"set", "send", "status", "static"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.FilterByPrefix(tt.library, tt.prefix)
			if len(got) != len(tt.want) {
				t.Fatalf("FilterByPrefix(%q, %q) returned %d methods, want %d",
					tt.library, tt.prefix, len(got), len(tt.want))
			}
			for i, m := range got {
				if m.Name != tt.want[i] {
					t.Errorf("method[%d] = %q, want %q", i, m.Name, tt.want[i])
				}
			}
		})
	}
}

func TestCatalog_ZeroMethodLibrary(t *testing.T) {
	c := New()
	c.Set("leftpad", nil)

	methods, ok := c.Methods("leftpad")
	if !ok {
		t.Fatal("zero-method library should still be known")
	}
	if len(methods) != 0 {
		t.Errorf("methods = %d, want 0", len(methods))
	}
}

func TestCatalog_Merge(t *testing.T) {
	base := Builtin()
	overlay := New()
	overlay.Set("axios", []MethodSpec{{Name: "patch", Description: "Make a PATCH request", Score: 700}})
	overlay.Set("fastify", []MethodSpec{{Name: "register", Score: 600}})

	base.Merge(overlay)

	// Overlay replaces the existing library's list wholesale.
	methods, _ := base.Methods("axios")
	if len(methods) != 1 || methods[0].Name != "patch" {
		t.Errorf("axios after merge = %+v, want single patch entry", methods)
	}

	if _, ok := base.Methods("fastify"); !ok {
		t.Error("merged catalog missing new library fastify")
	}
	if _, ok := base.Methods("express"); !ok {
		t.Error("merge dropped untouched library express")
	}
}

func TestParseOverlay(t *testing.T) {
	data := []byte(`
[[library]]
name = "fastify"

[[library.method]]
name = "register"
description = "Register a plugin"
example = "app.register(plugin)"
score = 800

[[library.method]]
name = "listen"
description = "Start the server"
example = "app.listen({ port: 3000 })"
`)

	c, err := ParseOverlay(data)
	if err != nil {
		t.Fatalf("ParseOverlay failed: %v", err)
	}

	methods, ok := c.Methods("fastify")
	if !ok || len(methods) != 2 {
		t.Fatalf("fastify methods = %v, %v", methods, ok)
	}
	if methods[0].Score != 800 {
		t.Errorf("explicit score = %d, want 800", methods[0].Score)
	}
	if methods[1].Score != DefaultScore {
		t.Errorf("defaulted score = %d, want %d", methods[1].Score, DefaultScore)
	}
}

func TestParseOverlay_Invalid(t *testing.T) {
	if _, err := ParseOverlay([]byte(`[[library]`)); err == nil {
		t.Error("ParseOverlay accepted malformed TOML")
	}
}
