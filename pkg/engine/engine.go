// Package engine assembles the completion pipeline: manifest cache,
// context resolver, catalog, metadata enricher, completion provider, and
// import watcher, wired to a host editor through the editor abstractions.
//
// The engine owns the background refresh goroutine and exposes the
// maintenance operations hosts surface as commands (cache reset, full data
// wipe). Everything else is delegated to the assembled components.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mvilhena/depsense/pkg/catalog"
	"github.com/mvilhena/depsense/pkg/complete"
	"github.com/mvilhena/depsense/pkg/editor"
	"github.com/mvilhena/depsense/pkg/errors"
	"github.com/mvilhena/depsense/pkg/installer"
	"github.com/mvilhena/depsense/pkg/integrations/npm"
	"github.com/mvilhena/depsense/pkg/kvstore"
	"github.com/mvilhena/depsense/pkg/manifest"
	"github.com/mvilhena/depsense/pkg/observability"
	"github.com/mvilhena/depsense/pkg/resolve"
)

// Options configures an Engine. Enumerator, FileSystem, and Store are
// required; everything else has a working default.
type Options struct {
	Enumerator editor.FileEnumerator
	FileSystem editor.FileSystem
	Store      kvstore.Store

	Notifier  editor.Notifier  // nil disables toasts
	Confirmer editor.Confirmer // nil declines every install prompt
	Terminal  editor.Terminal  // nil degrades installs to notify-only

	Catalog         *catalog.Catalog        // nil selects the builtin catalog
	BindingTable    []resolve.BindingMatcher // nil selects the default table
	RefreshInterval time.Duration            // <= 0 selects the default
	Registry        npm.Options
	Logger          *log.Logger
}

// Engine is the assembled completion pipeline.
type Engine struct {
	cache    *manifest.Cache
	provider *complete.Provider
	enricher *npm.Client
	watcher  *installer.Watcher
	store    kvstore.Store
	notifier editor.Notifier
	logger   *log.Logger

	refreshInterval time.Duration
	missingOnce     sync.Once

	mu     sync.Mutex
	cancel context.CancelFunc
}

// New assembles an engine. It performs no I/O; call Start to load the
// manifest and begin background refresh.
func New(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	cat := opts.Catalog
	if cat == nil {
		cat = catalog.Builtin()
	}
	table := opts.BindingTable
	if table == nil {
		table = resolve.DefaultTable()
	}
	if opts.Registry.Logger == nil {
		opts.Registry.Logger = logger
	}

	cache := manifest.NewCache(opts.Enumerator, opts.FileSystem, opts.Store, logger)
	enricher := npm.NewClient(opts.Store, opts.Registry)
	resolver := resolve.NewResolver(table)
	provider := complete.NewProvider(resolver, cat, cache, enricher, opts.Notifier, logger)

	confirmer := opts.Confirmer
	if confirmer == nil {
		confirmer = declineAll{}
	}
	watcher := installer.NewWatcher(cache, opts.Terminal, confirmer, opts.Notifier, logger)

	return &Engine{
		cache:           cache,
		provider:        provider,
		enricher:        enricher,
		watcher:         watcher,
		store:           opts.Store,
		notifier:        opts.Notifier,
		logger:          logger,
		refreshInterval: opts.RefreshInterval,
	}
}

// declineAll stands in when the host provides no confirmation prompt.
type declineAll struct{}

func (declineAll) Confirm(ctx context.Context, title, message string) (bool, error) {
	return false, nil
}

// Start loads the manifest and launches the background refresh loop. A
// missing manifest is reported once as a notification and the engine keeps
// running with catalog-only completion.
func (e *Engine) Start(ctx context.Context) {
	e.loadAndReport(ctx)

	refreshCtx, cancel := context.WithCancel(context.Background())
	e.mu.Lock()
	e.cancel = cancel
	e.mu.Unlock()
	go e.cache.AutoRefresh(refreshCtx, e.refreshInterval)
}

// Stop halts the background refresh loop. Safe to call more than once or
// before Start.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
}

// Complete computes the suggestion list for the cursor position.
func (e *Engine) Complete(ctx context.Context, buf editor.Buffer, pos editor.Position) []complete.Suggestion {
	start := time.Now()
	suggestions := e.provider.Provide(ctx, buf, pos)
	observability.Completion().OnRequest(ctx, len(suggestions), time.Since(start))
	return suggestions
}

// HandleDelta forwards a buffer edit to the import watcher.
func (e *Engine) HandleDelta(ctx context.Context, buf editor.Buffer, delta editor.Delta) {
	e.watcher.HandleDelta(ctx, buf, delta)
}

// OnFileSwitch reloads the manifest for the newly active file's project.
func (e *Engine) OnFileSwitch(ctx context.Context) {
	e.loadAndReport(ctx)
}

// OnFileSave reloads the manifest; the hash gate makes saves of files
// other than the manifest nearly free.
func (e *Engine) OnFileSave(ctx context.Context) {
	e.loadAndReport(ctx)
}

// Snapshot returns the current manifest snapshot, or nil before the first
// successful load.
func (e *Engine) Snapshot() *manifest.Snapshot {
	return e.cache.Snapshot()
}

// Metadata returns descriptive metadata for a package, degrading to a
// sentinel record rather than failing.
func (e *Engine) Metadata(ctx context.Context, pkg string) npm.Details {
	return e.enricher.FetchDetails(ctx, pkg)
}

// ResetCache removes the persisted dependency list and manifest hash, so
// the next load reparses the manifest from scratch. Package metadata is
// kept.
func (e *Engine) ResetCache(ctx context.Context) error {
	n, err := e.store.DeletePrefix(ctx, manifest.KeyPrefix)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "reset cache")
	}
	e.logger.Info("dependency cache reset", "removed", n)
	if _, err := e.cache.ForceRefresh(ctx); err != nil && !errors.Is(err, errors.ErrCodeManifestNotFound) {
		e.logger.Warn("reload after cache reset failed", "err", err)
	}
	return nil
}

// ClearData wipes every persisted record, dependency cache and package
// metadata alike, and drops the enricher's in-process memo.
func (e *Engine) ClearData(ctx context.Context) error {
	n, err := e.store.DeletePrefix(ctx, "")
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "clear data")
	}
	e.enricher.Forget()
	e.logger.Info("all persisted data cleared", "removed", n)
	return nil
}

// loadAndReport loads the manifest and surfaces a missing manifest as a
// single notification for the engine's lifetime.
func (e *Engine) loadAndReport(ctx context.Context) {
	_, err := e.cache.Load(ctx)
	if err == nil {
		return
	}
	if errors.Is(err, errors.ErrCodeManifestNotFound) {
		e.missingOnce.Do(func() {
			if e.notifier != nil {
				e.notifier.Notify("No package.json found; dependency completion disabled.")
			}
			e.logger.Info("no manifest in project")
		})
		return
	}
	e.logger.Warn("manifest load failed", "err", err)
}
