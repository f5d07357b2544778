// Package pkg provides the core libraries for Depsense code completion.
//
// # Overview
//
// Depsense is a contextual completion engine for JavaScript projects. It
// draws suggestions from two collaborating sources: the project's declared
// dependency list (package.json) and a per-library catalog of method
// suggestions, selected by lightweight static analysis of the lines before
// the cursor. The pkg directory is organized into these areas:
//
//  1. [manifest] - Manifest location, parsing, and the hash-gated snapshot cache
//  2. [resolve] - Binding resolution (which library an identifier refers to)
//  3. [catalog] - Method catalogs with TOML overlays
//  4. [complete] - The suggestion provider editors call
//  5. [installer] - Import watching and npm install orchestration
//  6. [engine] - Assembly of the whole pipeline
//  7. [kvstore] - Durable key-value storage (file, memory, Redis)
//  8. [integrations/npm] - Registry metadata client with durable fallback
//  9. [editor] - Host-editor abstractions and in-memory fakes
//
// # Architecture
//
// The typical data flow through Depsense:
//
//	package.json
//	     ↓
//	[manifest] (locate, hash-gate, parse, snapshot)
//	     ↓
//	[resolve] + [catalog] (bind identifier → library → methods)
//	     ↓
//	[complete] (rank, enrich via integrations/npm)
//	     ↓
//	suggestion list → editor
//
// Independently, buffer edits flow through [installer], which detects a
// just-typed import of an undeclared package and offers to install it.
//
// # Quick Start
//
// Assemble an engine over a project directory:
//
//	import (
//	    "context"
//
//	    "github.com/mvilhena/depsense/pkg/editor"
//	    "github.com/mvilhena/depsense/pkg/engine"
//	    "github.com/mvilhena/depsense/pkg/kvstore"
//	)
//
//	project := editor.NewDirProject("/path/to/project")
//	store, _ := kvstore.NewFileStore("")
//	eng := engine.New(engine.Options{
//	    Enumerator: project,
//	    FileSystem: project,
//	    Store:      store,
//	})
//	eng.Start(context.Background())
//	defer eng.Stop()
//
//	buf := editor.NewMemBuffer("const app = require('express')", "app.ge")
//	suggestions := eng.Complete(context.Background(), buf, editor.Position{Row: 1, Column: 6})
//
// # Error Handling
//
// Failures local to a single suggestion request never escape the provider:
// they resolve to an empty list plus at most a notification. Background
// refresh failures are logged and self-heal on the next cycle. See
// [errors] for the structured error codes shared across packages.
package pkg
