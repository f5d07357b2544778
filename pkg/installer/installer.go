// Package installer watches buffer edits for freshly typed import
// statements and offers to install packages the manifest does not declare.
//
// The watcher is a two-state machine: it sits idle until an insert delta
// completes a line with an import or require, then moves to an
// awaiting-decision state while the user confirms the install, and returns
// to idle regardless of the outcome. At most one install command is issued
// per detected import; there is no queueing or retry.
package installer

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/mvilhena/depsense/pkg/editor"
	"github.com/mvilhena/depsense/pkg/errors"
	"github.com/mvilhena/depsense/pkg/manifest"
)

// State is the watcher's position in its decision cycle.
type State string

const (
	StateIdle             State = "idle"
	StateAwaitingDecision State = "awaiting-install-decision"
)

// Statement terminators that mark a line as complete and worth inspecting.
var triggerTexts = map[string]struct{}{
	";":  {},
	"\n": {},
}

var (
	importPattern  = regexp.MustCompile(`import\s+.+?\s+from\s+['"]([^'"]+)['"]\s*;?`)
	requirePattern = regexp.MustCompile(`(?:const|let|var)\s+\w+\s*=\s*require\s*\(\s*['"]([^'"]+)['"]\s*\)\s*;?`)
)

// ManifestSource is the slice of the dependency cache the watcher needs:
// an on-demand load, a fresh uncached read for the membership check, and a
// forced reload after a successful install.
type ManifestSource interface {
	Load(ctx context.Context) (*manifest.Snapshot, error)
	ReadFresh(ctx context.Context) ([]string, error)
	ForceRefresh(ctx context.Context) (*manifest.Snapshot, error)
}

// Watcher inspects edits and drives the install flow. Terminal may be nil;
// the install path then degrades to a notification.
type Watcher struct {
	manifest  ManifestSource
	terminal  editor.Terminal
	confirmer editor.Confirmer
	notifier  editor.Notifier
	logger    *log.Logger
	state     State
}

// NewWatcher assembles a watcher in the idle state.
func NewWatcher(m ManifestSource, term editor.Terminal, confirmer editor.Confirmer, notifier editor.Notifier, logger *log.Logger) *Watcher {
	if logger == nil {
		logger = log.Default()
	}
	return &Watcher{
		manifest:  m,
		terminal:  term,
		confirmer: confirmer,
		notifier:  notifier,
		logger:    logger,
		state:     StateIdle,
	}
}

// State reports the watcher's current state.
func (w *Watcher) State() State { return w.state }

// HandleDelta processes one buffer edit. Only insert deltas whose text is
// a statement terminator or newline are inspected; everything else is
// ignored without touching the manifest.
func (w *Watcher) HandleDelta(ctx context.Context, buf editor.Buffer, delta editor.Delta) {
	if delta.Action != editor.ActionInsert {
		return
	}
	if _, ok := triggerTexts[delta.Text]; !ok {
		return
	}

	library := ExtractImport(buf.Line(delta.Start.Row))
	if library == "" {
		return
	}

	if _, err := w.manifest.Load(ctx); err != nil {
		if errors.Is(err, errors.ErrCodeManifestNotFound) {
			w.notify("No npm project found.")
			return
		}
		w.logger.Warn("manifest load before install check failed", "err", err)
	}

	// Membership is checked against a fresh parse of the manifest, not the
	// cached snapshot, so an install finished outside the editor is seen.
	deps, err := w.manifest.ReadFresh(ctx)
	if err != nil {
		if errors.Is(err, errors.ErrCodeManifestNotFound) {
			w.notify("No npm project found.")
		} else {
			w.logger.Warn("manifest read for install check failed", "err", err)
		}
		return
	}
	for _, dep := range deps {
		if dep == library {
			return
		}
	}

	w.state = StateAwaitingDecision
	defer func() { w.state = StateIdle }()

	if err := w.install(ctx, library); err != nil {
		w.logger.Info("install not performed", "library", library, "err", err)
	}
}

// install runs one attempt: terminal check, confirmation, a single npm
// install command, and a forced cache refresh on success.
func (w *Watcher) install(ctx context.Context, library string) error {
	if w.terminal == nil {
		w.notify("Terminal not available; install " + library + " manually.")
		return errors.New(errors.ErrCodeTerminalUnavailable, "no terminal collaborator")
	}
	if !w.terminal.IsOpen() {
		if err := w.terminal.Open(); err != nil {
			w.notify("Could not open terminal; install " + library + " manually.")
			return errors.Wrap(errors.ErrCodeTerminalUnavailable, err, "open terminal")
		}
	}

	ok, err := w.confirmer.Confirm(ctx, "Install Library",
		fmt.Sprintf("Do you want to install %s via npm?", library))
	if err != nil {
		w.notify(fmt.Sprintf("Installation of %s cancelled", library))
		return errors.Wrap(errors.ErrCodeInstallDeclined, err, "confirm install of %s", library)
	}
	if !ok {
		w.notify(fmt.Sprintf("Installation of %s cancelled", library))
		return errors.New(errors.ErrCodeInstallDeclined, "user declined install of %s", library)
	}

	w.notify(fmt.Sprintf("Installing %s...", library))
	if err := w.terminal.Execute(ctx, "npm install "+library); err != nil {
		w.logger.Error("install command failed", "library", library, "err", err)
		w.notify(fmt.Sprintf("Failed to install %s. Check the terminal.", library))
		return errors.Wrap(errors.ErrCodeInstallFailed, err, "npm install %s", library)
	}
	w.notify(fmt.Sprintf("%s installed successfully!", library))

	if _, err := w.manifest.ForceRefresh(ctx); err != nil {
		w.logger.Warn("manifest refresh after install failed", "err", err)
	}
	return nil
}

func (w *Watcher) notify(msg string) {
	if w.notifier != nil {
		w.notifier.Notify(msg)
	}
}

// ExtractImport returns the module name from a completed import or require
// line, or "" when the line declares neither.
func ExtractImport(line string) string {
	line = strings.TrimSpace(line)
	if m := importPattern.FindStringSubmatch(line); m != nil {
		return m[1]
	}
	if m := requirePattern.FindStringSubmatch(line); m != nil {
		return m[1]
	}
	return ""
}
