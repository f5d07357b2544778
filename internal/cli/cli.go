// Package cli implements the depsense command-line interface.
//
// This package provides commands for querying completions against a
// project, inspecting the manifest dependency list, looking up package
// metadata, managing the persisted caches, and serving the engine over
// HTTP. The CLI is built using cobra and supports verbose logging via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - complete: Compute suggestions for a cursor position in a file
//   - deps: Show the project's manifest dependencies
//   - info: Look up package metadata from the registry
//   - cache: Manage the persisted dependency and metadata caches
//   - serve: Run the completion engine as a local HTTP sidecar
//   - demo: Interactive completion playground
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/mvilhena/depsense/pkg/buildinfo"
	"github.com/mvilhena/depsense/pkg/catalog"
	"github.com/mvilhena/depsense/pkg/editor"
	"github.com/mvilhena/depsense/pkg/engine"
	"github.com/mvilhena/depsense/pkg/kvstore"
)

// appName is the application name used for directories and display.
const appName = "depsense"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	projectDir  string
	storeKind   string
	redisAddr   string
	catalogPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Depsense provides npm-aware code completion for JavaScript projects",
		Long:         `Depsense is a contextual completion engine for JavaScript projects: it completes dependency names from package.json, resolves which imported library an identifier is bound to, and offers that library's methods with live registry metadata.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().StringVarP(&c.projectDir, "project", "p", ".", "project directory containing package.json")
	root.PersistentFlags().StringVar(&c.storeKind, "store", "file", "durable store backend (file, memory, redis)")
	root.PersistentFlags().StringVar(&c.redisAddr, "redis-addr", "localhost:6379", "redis address for --store redis")
	root.PersistentFlags().StringVar(&c.catalogPath, "catalog", "", "TOML catalog overlay file")

	root.AddCommand(c.completeCommand())
	root.AddCommand(c.depsCommand())
	root.AddCommand(c.infoCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.demoCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newStore opens the durable store selected by the --store flag.
func (c *CLI) newStore(ctx context.Context) (kvstore.Store, error) {
	switch c.storeKind {
	case "memory":
		return kvstore.NewMemoryStore(), nil
	case "redis":
		return kvstore.NewRedisStore(ctx, kvstore.RedisConfig{Addr: c.redisAddr})
	default:
		dir, err := cacheDir()
		if err != nil {
			return kvstore.NewMemoryStore(), nil
		}
		return kvstore.NewFileStore(dir)
	}
}

// newCatalog returns the builtin catalog, with the --catalog overlay merged
// on top when given.
func (c *CLI) newCatalog() (*catalog.Catalog, error) {
	cat := catalog.Builtin()
	if c.catalogPath == "" {
		return cat, nil
	}
	overlay, err := catalog.LoadOverlay(c.catalogPath)
	if err != nil {
		return nil, err
	}
	cat.Merge(overlay)
	return cat, nil
}

// newEngine assembles an engine over the project directory. The returned
// cleanup closes the store.
func (c *CLI) newEngine(ctx context.Context) (*engine.Engine, func(), error) {
	store, err := c.newStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	cat, err := c.newCatalog()
	if err != nil {
		store.Close()
		return nil, nil, err
	}

	project := editor.NewDirProject(c.projectDir)
	eng := engine.New(engine.Options{
		Enumerator: project,
		FileSystem: project,
		Store:      store,
		Notifier:   toastPrinter{},
		Confirmer:  &promptConfirmer{},
		Terminal:   &editor.ShellTerminal{Dir: c.projectDir},
		Catalog:    cat,
		Logger:     c.Logger,
	})
	return eng, func() { store.Close() }, nil
}

// cacheDir returns the cache directory using XDG standard (~/.cache/depsense/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
