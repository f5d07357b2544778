package manifest

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultRefreshInterval is how often the background refresh re-checks the
// manifest when no filesystem events arrive.
const DefaultRefreshInterval = 60 * time.Second

// AutoRefresh reloads the cache on a fixed interval and, when the manifest
// lives on a real filesystem, on write events to it. The interval tick
// tolerates external edits the watcher misses (network filesystems, editors
// that replace files in ways fsnotify drops); the watcher makes terminal
// installs visible without waiting out the interval.
//
// Blocks until ctx is cancelled. Intended to run as a goroutine owned by
// the engine.
func (c *Cache) AutoRefresh(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	events := c.watchEvents(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-events:
		}
		if _, err := c.Load(ctx); err != nil {
			c.logger.Debug("background refresh failed", "err", err)
		}
	}
}

// watchEvents sets up an fsnotify watcher for the manifest file and returns
// a channel of change notifications. Returns a nil channel (never ready)
// when the manifest isn't locatable yet or watching isn't possible; the
// ticker alone drives refresh in that case.
func (c *Cache) watchEvents(ctx context.Context) <-chan struct{} {
	_, dir, err := Locate(ctx, c.enum)
	if err != nil {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		c.logger.Debug("manifest watch unavailable", "err", err)
		return nil
	}
	// Watch the directory, not the file: editors and npm replace
	// package.json, which drops a direct file watch.
	if err := watcher.Add(dir); err != nil {
		c.logger.Debug("manifest watch unavailable", "dir", dir, "err", err)
		watcher.Close()
		return nil
	}

	events := make(chan struct{}, 1)
	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(ev.Name) != FileName {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				select {
				case events <- struct{}{}:
				default: // a refresh is already pending
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				c.logger.Debug("manifest watch error", "err", err)
			}
		}
	}()
	return events
}
