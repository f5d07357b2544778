package manifest

import (
	"context"
	"sync"
	"testing"

	"github.com/mvilhena/depsense/pkg/editor"
	"github.com/mvilhena/depsense/pkg/errors"
	"github.com/mvilhena/depsense/pkg/kvstore"
)

const manifestURL = "/proj/package.json"

func newTestCache(t *testing.T, content string) (*Cache, *editor.MemProject, *kvstore.MemoryStore) {
	t.Helper()
	project := editor.NewMemProject()
	project.AddFile("package.json", manifestURL, []byte(content))
	store := kvstore.NewMemoryStore()
	return NewCache(project, project, store, nil), project, store
}

func TestCache_Load(t *testing.T) {
	c, _, _ := newTestCache(t, `{"dependencies": {"express": "^4"}, "devDependencies": {"jest": "^29"}}`)

	snap, err := c.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if snap.Path != manifestURL || snap.Dir != "/proj" {
		t.Errorf("snapshot location = %q / %q", snap.Path, snap.Dir)
	}
	if len(snap.Dependencies) != 2 || snap.Dependencies[0] != "express" || snap.Dependencies[1] != "jest" {
		t.Errorf("Dependencies = %v", snap.Dependencies)
	}
	if snap.SourceHash == "" {
		t.Error("SourceHash empty")
	}
}

func TestCache_UnchangedContentIsCacheHit(t *testing.T) {
	c, _, _ := newTestCache(t, `{"dependencies": {"express": "^4"}}`)
	ctx := context.Background()

	first, err := c.Load(ctx)
	if err != nil {
		t.Fatalf("first Load failed: %v", err)
	}
	second, err := c.Load(ctx)
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}

	// Same content, same hash: the snapshot is returned unmodified, no
	// second parse.
	if first != second {
		t.Error("second Load produced a new snapshot for unchanged content")
	}
}

func TestCache_ChangedContentReplacesSnapshot(t *testing.T) {
	c, project, _ := newTestCache(t, `{"dependencies": {"express": "^4"}}`)
	ctx := context.Background()

	first, _ := c.Load(ctx)

	project.AddFile("package.json", manifestURL, []byte(`{"dependencies": {"axios": "^1", "lodash": "^4"}}`))
	second, err := c.Load(ctx)
	if err != nil {
		t.Fatalf("Load after change failed: %v", err)
	}

	if second.SourceHash == first.SourceHash {
		t.Error("hash unchanged after content change")
	}
	want := []string{"axios", "lodash"}
	if len(second.Dependencies) != 2 || second.Dependencies[0] != want[0] || second.Dependencies[1] != want[1] {
		t.Errorf("Dependencies = %v, want %v", second.Dependencies, want)
	}
	// No mixing: nothing from the old manifest survives.
	if second.Has("express") {
		t.Error("snapshot mixes names from old and new manifest content")
	}
}

func TestCache_ParseFailureKeepsPreviousSnapshot(t *testing.T) {
	c, project, _ := newTestCache(t, `{"dependencies": {"express": "^4"}}`)
	ctx := context.Background()

	first, _ := c.Load(ctx)

	project.AddFile("package.json", manifestURL, []byte(`{not json`))
	got, err := c.Load(ctx)
	if !errors.Is(err, errors.ErrCodeManifestParse) {
		t.Fatalf("err = %v, want MANIFEST_PARSE", err)
	}
	if got != first {
		t.Error("parse failure replaced the previous snapshot")
	}
	if c.Snapshot() != first {
		t.Error("in-memory snapshot lost after parse failure")
	}
}

func TestCache_ReadFailureKeepsPreviousSnapshot(t *testing.T) {
	c, project, _ := newTestCache(t, `{"dependencies": {"express": "^4"}}`)
	ctx := context.Background()

	first, _ := c.Load(ctx)

	// The manifest vanishes: locate fails, previous snapshot is kept.
	project.RemoveFile(manifestURL)
	got, err := c.Load(ctx)
	if err == nil {
		t.Fatal("Load succeeded with no manifest")
	}
	if got != first {
		t.Error("read failure replaced the previous snapshot")
	}
}

func TestCache_RoundTripFromDurableStore(t *testing.T) {
	content := `{"dependencies": {"express": "^4", "axios": "^1"}, "devDependencies": {"jest": "^29"}}`
	project := editor.NewMemProject()
	project.AddFile("package.json", manifestURL, []byte(content))
	store := kvstore.NewMemoryStore()
	ctx := context.Background()

	first := NewCache(project, project, store, nil)
	original, err := first.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Fresh process, same store, unchanged manifest: the snapshot is
	// rebuilt from durable state with identical ordering, no parse.
	second := NewCache(project, project, store, nil)
	restored, err := second.Load(ctx)
	if err != nil {
		t.Fatalf("Load in second cache failed: %v", err)
	}

	if len(restored.Dependencies) != len(original.Dependencies) {
		t.Fatalf("restored = %v, original = %v", restored.Dependencies, original.Dependencies)
	}
	for i := range original.Dependencies {
		if restored.Dependencies[i] != original.Dependencies[i] {
			t.Errorf("ordering diverged at %d: %q vs %q",
				i, restored.Dependencies[i], original.Dependencies[i])
		}
	}
	if restored.SourceHash != original.SourceHash {
		t.Error("hash diverged across processes")
	}
	if original.FromCache {
		t.Error("parsed snapshot should not be flagged as cache-rebuilt")
	}
	if !restored.FromCache {
		t.Error("restored snapshot should be flagged as cache-rebuilt")
	}
}

func TestCache_ForceRefreshBypassesHashGate(t *testing.T) {
	c, _, _ := newTestCache(t, `{"dependencies": {"express": "^4"}}`)
	ctx := context.Background()

	first, _ := c.Load(ctx)
	refreshed, err := c.ForceRefresh(ctx)
	if err != nil {
		t.Fatalf("ForceRefresh failed: %v", err)
	}
	if refreshed == first {
		t.Error("ForceRefresh returned the cached snapshot without reparsing")
	}
	if refreshed.SourceHash != first.SourceHash {
		t.Error("content unchanged but hash differs")
	}
}

func TestCache_ReadFresh(t *testing.T) {
	c, project, _ := newTestCache(t, `{"dependencies": {"express": "^4"}}`)
	ctx := context.Background()

	_, _ = c.Load(ctx)

	// Manifest changes on disk; ReadFresh sees it without touching the
	// cached snapshot.
	project.AddFile("package.json", manifestURL, []byte(`{"dependencies": {"express": "^4", "axios": "^1"}}`))

	names, err := c.ReadFresh(ctx)
	if err != nil {
		t.Fatalf("ReadFresh failed: %v", err)
	}
	if len(names) != 2 {
		t.Errorf("names = %v, want 2 entries", names)
	}
	if snap := c.Snapshot(); snap.Has("axios") {
		t.Error("ReadFresh mutated the cached snapshot")
	}
}

func TestCache_StaleLoadDiscarded(t *testing.T) {
	c, _, _ := newTestCache(t, `{"dependencies": {"express": "^4"}}`)

	// Simulate an older load finishing after a newer one: the older
	// sequence token must not overwrite the newer snapshot.
	older := c.nextSeq()
	newer := c.nextSeq()

	newerSnap := &Snapshot{SourceHash: "new"}
	olderSnap := &Snapshot{SourceHash: "old"}

	if got := c.install(newer, newerSnap); got != newerSnap {
		t.Fatal("newer install rejected")
	}
	if got := c.install(older, olderSnap); got != newerSnap {
		t.Error("stale load overwrote a later-started load's snapshot")
	}
	if c.Snapshot() != newerSnap {
		t.Error("published snapshot is not the newer one")
	}
}

func TestCache_ConcurrentLoads(t *testing.T) {
	c, _, _ := newTestCache(t, `{"dependencies": {"express": "^4"}}`)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.Load(ctx); err != nil {
				t.Errorf("concurrent Load failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if snap := c.Snapshot(); !snap.Has("express") {
		t.Error("snapshot missing express after concurrent loads")
	}
}
