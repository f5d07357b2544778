package kvstore

import (
	"context"
	"os"
	"testing"
	"time"
)

// storeFactories builds each backend fresh for shared conformance tests.
// Redis is excluded: it needs a live server.
func storeFactories(t *testing.T) map[string]func() Store {
	return map[string]func() Store{
		"file": func() Store {
			s, err := NewFileStore(t.TempDir())
			if err != nil {
				t.Fatalf("NewFileStore: %v", err)
			}
			return s
		},
		"memory": func() Store { return NewMemoryStore() },
	}
}

func TestStore_GetSet(t *testing.T) {
	ctx := context.Background()
	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			s := newStore()
			defer s.Close()

			if err := s.Set(ctx, "deps:list", []byte(`["express","axios"]`), 0); err != nil {
				t.Fatalf("Set() failed: %v", err)
			}

			data, ok, err := s.Get(ctx, "deps:list")
			if err != nil {
				t.Fatalf("Get() failed: %v", err)
			}
			if !ok {
				t.Fatal("Get() returned miss for existing key")
			}
			if got := string(data); got != `["express","axios"]` {
				t.Errorf("Get() = %q", got)
			}
		})
	}
}

func TestStore_Miss(t *testing.T) {
	ctx := context.Background()
	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			s := newStore()
			defer s.Close()

			_, ok, err := s.Get(ctx, "absent")
			if err != nil {
				t.Fatalf("Get() failed: %v", err)
			}
			if ok {
				t.Error("Get() returned hit for missing key")
			}
		})
	}
}

func TestStore_Overwrite(t *testing.T) {
	ctx := context.Background()
	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			s := newStore()
			defer s.Close()

			_ = s.Set(ctx, "k", []byte("old"), 0)
			_ = s.Set(ctx, "k", []byte("new"), 0)

			data, ok, _ := s.Get(ctx, "k")
			if !ok || string(data) != "new" {
				t.Errorf("Get() = %q, %v; want \"new\", true", data, ok)
			}
		})
	}
}

func TestStore_Expiry(t *testing.T) {
	ctx := context.Background()
	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			s := newStore()
			defer s.Close()

			if err := s.Set(ctx, "ephemeral", []byte("x"), time.Millisecond); err != nil {
				t.Fatalf("Set() failed: %v", err)
			}
			time.Sleep(5 * time.Millisecond)

			_, ok, err := s.Get(ctx, "ephemeral")
			if err != nil {
				t.Fatalf("Get() failed: %v", err)
			}
			if ok {
				t.Error("Get() returned hit for expired entry")
			}
		})
	}
}

func TestStore_Delete(t *testing.T) {
	ctx := context.Background()
	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			s := newStore()
			defer s.Close()

			_ = s.Set(ctx, "k", []byte("v"), 0)
			if err := s.Delete(ctx, "k"); err != nil {
				t.Fatalf("Delete() failed: %v", err)
			}
			if _, ok, _ := s.Get(ctx, "k"); ok {
				t.Error("entry survived Delete()")
			}

			// Deleting a missing key is not an error.
			if err := s.Delete(ctx, "k"); err != nil {
				t.Errorf("Delete() of missing key = %v", err)
			}
		})
	}
}

func TestStore_DeletePrefix(t *testing.T) {
	ctx := context.Background()
	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			s := newStore()
			defer s.Close()

			_ = s.Set(ctx, "npm:express", []byte("a"), 0)
			_ = s.Set(ctx, "npm:axios", []byte("b"), 0)
			_ = s.Set(ctx, "deps:list", []byte("c"), 0)

			count, err := s.DeletePrefix(ctx, "npm:")
			if err != nil {
				t.Fatalf("DeletePrefix() failed: %v", err)
			}
			if count != 2 {
				t.Errorf("DeletePrefix() removed %d entries, want 2", count)
			}
			if _, ok, _ := s.Get(ctx, "deps:list"); !ok {
				t.Error("unrelated key removed by DeletePrefix()")
			}
		})
	}
}

func TestStore_DeletePrefix_Empty(t *testing.T) {
	ctx := context.Background()
	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			s := newStore()
			defer s.Close()

			_ = s.Set(ctx, "a", []byte("1"), 0)
			_ = s.Set(ctx, "b", []byte("2"), 0)

			count, err := s.DeletePrefix(ctx, "")
			if err != nil {
				t.Fatalf("DeletePrefix() failed: %v", err)
			}
			if count != 2 {
				t.Errorf("DeletePrefix(\"\") removed %d entries, want 2", count)
			}
		})
	}
}

func TestGetSetJSON(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	type record struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	}

	in := record{Name: "express", Version: "4.18.2"}
	if err := SetJSON(ctx, s, "npm:express", in, 0); err != nil {
		t.Fatalf("SetJSON() failed: %v", err)
	}

	var out record
	ok, err := GetJSON(ctx, s, "npm:express", &out)
	if err != nil {
		t.Fatalf("GetJSON() failed: %v", err)
	}
	if !ok {
		t.Fatal("GetJSON() returned miss")
	}
	if out != in {
		t.Errorf("GetJSON() = %+v, want %+v", out, in)
	}

	var missing record
	if ok, _ := GetJSON(ctx, s, "npm:lodash", &missing); ok {
		t.Error("GetJSON() returned hit for missing key")
	}
}

func TestHash(t *testing.T) {
	a := Hash([]byte(`{"dependencies":{}}`))
	b := Hash([]byte(`{"dependencies":{}}`))
	c := Hash([]byte(`{"dependencies":{"express":"^4"}}`))

	if a != b {
		t.Error("Hash not deterministic")
	}
	if a == c {
		t.Error("Hash collision for different content")
	}
	if len(a) != 64 {
		t.Errorf("Hash length = %d, want 64", len(a))
	}

	// Order sensitivity: swapped keys hash differently.
	if Hash([]byte(`{"a":1,"b":2}`)) == Hash([]byte(`{"b":2,"a":1}`)) {
		t.Error("Hash ignored content ordering")
	}
}

func TestFileStore_CorruptEntryIsMiss(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}

	_ = s.Set(ctx, "k", []byte("v"), 0)

	// Corrupt the entry on disk.
	if err := os.WriteFile(s.path("k"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, ok, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if ok {
		t.Error("Get() returned hit for corrupt entry")
	}
}
