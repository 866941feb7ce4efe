// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about updater passes and rendering.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, so library packages never
// import an observability backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetUpdaterHooks(&myUpdaterHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Updater().OnPassStart(ctx, len(changed))
//	// ... rebuild ladders ...
//	observability.Updater().OnPassComplete(ctx, stats, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Updater Hooks
// =============================================================================

// PassStats summarizes one updater pass.
type PassStats struct {
	Changed     int // atoms reported changed by the model
	Rescanned   int // base atoms whose ladders were rebuilt
	Built       int // ladders built before merging
	Merges      int // merges performed
	Invalidated int // ladders drained from the invalid registry
	Errors      int // new ladders flagged with an error
	Chunks      int // chunks materialized
	Ladders     int // valid ladders after the pass
}

// UpdaterHooks receives events from the ladder updater.
type UpdaterHooks interface {
	// OnPassStart is called before a pass drains the changed atoms.
	OnPassStart(ctx context.Context, changed int)

	// OnPassComplete is called when a pass ends, successfully or not.
	OnPassComplete(ctx context.Context, stats PassStats, duration time.Duration, err error)

	// OnLadderError reports a new ladder flagged with an error.
	OnLadderError(ctx context.Context, ladder string, reasons []string)
}

// =============================================================================
// Render Hooks
// =============================================================================

// RenderHooks receives events from ladder rendering.
type RenderHooks interface {
	OnRenderStart(ctx context.Context, format string, ladders int)
	OnRenderComplete(ctx context.Context, format string, size int, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopUpdaterHooks is a no-op implementation of UpdaterHooks.
type NoopUpdaterHooks struct{}

func (NoopUpdaterHooks) OnPassStart(context.Context, int)                                {}
func (NoopUpdaterHooks) OnPassComplete(context.Context, PassStats, time.Duration, error) {}
func (NoopUpdaterHooks) OnLadderError(context.Context, string, []string)                 {}

// NoopRenderHooks is a no-op implementation of RenderHooks.
type NoopRenderHooks struct{}

func (NoopRenderHooks) OnRenderStart(context.Context, string, int)                          {}
func (NoopRenderHooks) OnRenderComplete(context.Context, string, int, time.Duration, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	updaterHooks UpdaterHooks = NoopUpdaterHooks{}
	renderHooks  RenderHooks  = NoopRenderHooks{}
	hooksMu      sync.RWMutex
)

// SetUpdaterHooks registers custom updater hooks.
// This should be called once at application startup before any updater runs.
func SetUpdaterHooks(h UpdaterHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		updaterHooks = h
	}
}

// SetRenderHooks registers custom render hooks.
func SetRenderHooks(h RenderHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		renderHooks = h
	}
}

// Updater returns the registered updater hooks.
func Updater() UpdaterHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return updaterHooks
}

// Render returns the registered render hooks.
func Render() RenderHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return renderHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	updaterHooks = NoopUpdaterHooks{}
	renderHooks = NoopRenderHooks{}
}
