package manifest

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mvilhena/depsense/pkg/editor"
	"github.com/mvilhena/depsense/pkg/errors"
	"github.com/mvilhena/depsense/pkg/kvstore"
	"github.com/mvilhena/depsense/pkg/observability"
)

// Durable store keys for the dependency cache. The shared "deps:" prefix
// lets the engine's reset operation clear both in one sweep.
const (
	KeyDependencies = "deps:list"
	KeyHash         = "deps:hash"
	KeyPrefix       = "deps:"
)

// Cache owns the manifest snapshot lifecycle: hash-gated reloads, durable
// persistence, and last-started-load-wins sequencing.
//
// Reads return the current immutable snapshot without locking beyond a
// pointer copy; the snapshot itself is never mutated after installation.
type Cache struct {
	enum   editor.FileEnumerator
	fsys   editor.FileSystem
	store  kvstore.Store
	logger *log.Logger

	mu       sync.RWMutex
	snapshot *Snapshot
	// loadSeq tokens detect loads that were overtaken while suspended on
	// I/O: a load whose token is stale at install time discards its result
	// instead of overwriting a snapshot from a later-started load.
	loadSeq   uint64
	installed uint64
}

// NewCache creates a dependency cache over the host's file capabilities
// and the durable store. A nil logger falls back to log.Default().
func NewCache(enum editor.FileEnumerator, fsys editor.FileSystem, store kvstore.Store, logger *log.Logger) *Cache {
	if logger == nil {
		logger = log.Default()
	}
	return &Cache{enum: enum, fsys: fsys, store: store, logger: logger}
}

// Snapshot returns the current snapshot, or nil before the first
// successful load.
func (c *Cache) Snapshot() *Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot
}

// Load resolves the manifest, reloading only when its content hash differs
// from the cached one.
//
// On read or parse failure the previous snapshot is kept and returned
// alongside the error; callers on the completion path log and carry on with
// the stale snapshot rather than dropping to an empty dependency list.
func (c *Cache) Load(ctx context.Context) (*Snapshot, error) {
	snap, err := c.load(ctx, false)
	reportLoad(ctx, snap, err)
	return snap, err
}

// ForceRefresh reloads unconditionally, bypassing the hash gate. The
// installer calls it after a successful install so completions see the new
// dependency immediately.
func (c *Cache) ForceRefresh(ctx context.Context) (*Snapshot, error) {
	snap, err := c.load(ctx, true)
	reportLoad(ctx, snap, err)
	return snap, err
}

func reportLoad(ctx context.Context, snap *Snapshot, err error) {
	depCount := 0
	fromCache := false
	if snap != nil {
		depCount = len(snap.Dependencies)
		fromCache = snap.FromCache
	}
	observability.Manifest().OnLoad(ctx, depCount, fromCache, err)
}

func (c *Cache) load(ctx context.Context, force bool) (*Snapshot, error) {
	seq := c.nextSeq()

	url, dir, err := Locate(ctx, c.enum)
	if err != nil {
		return c.Snapshot(), err
	}

	content, err := c.fsys.ReadFile(ctx, url)
	if err != nil {
		c.logger.Warn("manifest read failed", "path", url, "err", err)
		return c.Snapshot(), errors.Wrap(errors.ErrCodeManifestRead, err, "read %s", url)
	}

	hash := kvstore.Hash(content)

	if !force {
		if snap := c.cachedSnapshot(ctx, url, dir, hash); snap != nil {
			return snap, nil
		}
	}

	names, err := ParseDependencies(content)
	if err != nil {
		c.logger.Warn("manifest parse failed", "path", url, "err", err)
		return c.Snapshot(), err
	}

	snap := &Snapshot{
		Path:         url,
		Dir:          dir,
		SourceHash:   hash,
		Dependencies: names,
		LoadedAt:     time.Now(),
	}

	if err := kvstore.SetJSON(ctx, c.store, KeyDependencies, names, 0); err != nil {
		c.logger.Warn("persist dependency list failed", "err", err)
	}
	if err := c.store.Set(ctx, KeyHash, []byte(hash), 0); err != nil {
		c.logger.Warn("persist manifest hash failed", "err", err)
	}

	return c.install(seq, snap), nil
}

// cachedSnapshot returns a usable snapshot when the stored hash matches the
// current content hash: the in-memory snapshot if present, otherwise one
// rebuilt from the durable dependency list (fresh process, unchanged
// manifest). Returns nil when a parse is required.
func (c *Cache) cachedSnapshot(ctx context.Context, url, dir, hash string) *Snapshot {
	stored, ok, err := c.store.Get(ctx, KeyHash)
	if err != nil || !ok || string(stored) != hash {
		return nil
	}

	c.mu.RLock()
	current := c.snapshot
	c.mu.RUnlock()
	if current != nil && current.SourceHash == hash {
		return current
	}

	var names []string
	if ok, err := kvstore.GetJSON(ctx, c.store, KeyDependencies, &names); err != nil || !ok {
		return nil
	}

	snap := &Snapshot{
		Path:         url,
		Dir:          dir,
		SourceHash:   hash,
		Dependencies: names,
		LoadedAt:     time.Now(),
		FromCache:    true,
	}
	return c.install(c.nextSeq(), snap)
}

// ReadFresh re-reads and parses the manifest directly, without consulting
// or updating the cache. The installer uses it to check membership against
// current on-disk state instead of a possibly stale snapshot.
func (c *Cache) ReadFresh(ctx context.Context) ([]string, error) {
	url, _, err := Locate(ctx, c.enum)
	if err != nil {
		return nil, err
	}
	content, err := c.fsys.ReadFile(ctx, url)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeManifestRead, err, "read %s", url)
	}
	return ParseDependencies(content)
}

func (c *Cache) nextSeq() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loadSeq++
	return c.loadSeq
}

// install publishes snap unless a later-started load already installed its
// result, in which case snap is discarded and the newer snapshot returned.
func (c *Cache) install(seq uint64, snap *Snapshot) *Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	if seq < c.installed {
		return c.snapshot
	}
	c.installed = seq
	c.snapshot = snap
	return snap
}
