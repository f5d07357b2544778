// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers can register
// hooks at startup to receive events about completion requests, manifest
// loads, and registry lookups.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, which avoids import
// cycles and keeps the engine free of observability-framework imports.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetCompletionHooks(&myCompletionHooks{})
//	    observability.SetManifestHooks(&myManifestHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Completion().OnRequest(ctx, suggestionCount, duration)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Completion Hooks
// =============================================================================

// CompletionHooks receives events from the suggestion pipeline.
type CompletionHooks interface {
	// OnRequest records one completion request and its outcome.
	OnRequest(ctx context.Context, suggestionCount int, duration time.Duration)
}

// =============================================================================
// Manifest Hooks
// =============================================================================

// ManifestHooks receives events from manifest loads.
type ManifestHooks interface {
	// OnLoad records a manifest load attempt. fromCache reports whether
	// the snapshot was rebuilt from the durable store instead of parsed.
	OnLoad(ctx context.Context, depCount int, fromCache bool, err error)
}

// =============================================================================
// Registry Hooks
// =============================================================================

// RegistryHooks receives events from package-metadata lookups.
type RegistryHooks interface {
	// OnLookup records one metadata lookup. source is where the record
	// came from: "memo", "registry", "durable", or "sentinel".
	OnLookup(ctx context.Context, pkg, source string, duration time.Duration)
}

// Lookup sources reported through RegistryHooks.OnLookup.
const (
	SourceMemo     = "memo"
	SourceRegistry = "registry"
	SourceDurable  = "durable"
	SourceSentinel = "sentinel"
)

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopCompletionHooks is a no-op implementation of CompletionHooks.
type NoopCompletionHooks struct{}

func (NoopCompletionHooks) OnRequest(context.Context, int, time.Duration) {}

// NoopManifestHooks is a no-op implementation of ManifestHooks.
type NoopManifestHooks struct{}

func (NoopManifestHooks) OnLoad(context.Context, int, bool, error) {}

// NoopRegistryHooks is a no-op implementation of RegistryHooks.
type NoopRegistryHooks struct{}

func (NoopRegistryHooks) OnLookup(context.Context, string, string, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	completionHooks CompletionHooks = NoopCompletionHooks{}
	manifestHooks   ManifestHooks   = NoopManifestHooks{}
	registryHooks   RegistryHooks   = NoopRegistryHooks{}
	hooksMu         sync.RWMutex
)

// SetCompletionHooks registers custom completion hooks.
// This should be called once at application startup.
func SetCompletionHooks(h CompletionHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		completionHooks = h
	}
}

// SetManifestHooks registers custom manifest hooks.
// This should be called once at application startup.
func SetManifestHooks(h ManifestHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		manifestHooks = h
	}
}

// SetRegistryHooks registers custom registry hooks.
// This should be called once at application startup.
func SetRegistryHooks(h RegistryHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		registryHooks = h
	}
}

// Completion returns the registered completion hooks.
func Completion() CompletionHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return completionHooks
}

// Manifest returns the registered manifest hooks.
func Manifest() ManifestHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return manifestHooks
}

// Registry returns the registered registry hooks.
func Registry() RegistryHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return registryHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	completionHooks = NoopCompletionHooks{}
	manifestHooks = NoopManifestHooks{}
	registryHooks = NoopRegistryHooks{}
}
