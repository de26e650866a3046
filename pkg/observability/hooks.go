// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about issue builds, transform runs, and file I/O.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetTransformHooks(&myTransformHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Transform().OnRunStart(ctx, doc.Name, total)
//	// ... select and apply effects ...
//	observability.Transform().OnRunComplete(ctx, doc.Name, words, affected, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the page build pipeline.
type PipelineHooks interface {
	// Issue events
	OnIssueStart(ctx context.Context, placeholder, path string)
	OnIssueComplete(ctx context.Context, placeholder string, words, affected int, duration time.Duration, err error)

	// Page events
	OnPageComplete(ctx context.Context, path string, size int, duration time.Duration, err error)
}

// =============================================================================
// Transform Hooks
// =============================================================================

// TransformHooks receives events from a transform run.
type TransformHooks interface {
	// OnRunStart fires after counting, before any word is processed.
	OnRunStart(ctx context.Context, document string, words int)

	// OnWordSelected fires once per word during sequential bookkeeping.
	OnWordSelected(ctx context.Context, document string, position int, probability float64, effect string)

	// OnRunComplete fires when the run finishes or aborts.
	OnRunComplete(ctx context.Context, document string, words, affected int, duration time.Duration, err error)
}

// =============================================================================
// File Hooks
// =============================================================================

// FileHooks receives events from reading inputs and writing the page.
type FileHooks interface {
	OnRead(ctx context.Context, path string, size int, err error)
	OnWrite(ctx context.Context, path string, size int, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnIssueStart(context.Context, string, string) {}
func (NoopPipelineHooks) OnIssueComplete(context.Context, string, int, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnPageComplete(context.Context, string, int, time.Duration, error) {}

// NoopTransformHooks is a no-op implementation of TransformHooks.
type NoopTransformHooks struct{}

func (NoopTransformHooks) OnRunStart(context.Context, string, int)                      {}
func (NoopTransformHooks) OnWordSelected(context.Context, string, int, float64, string) {}
func (NoopTransformHooks) OnRunComplete(context.Context, string, int, int, time.Duration, error) {
}

// NoopFileHooks is a no-op implementation of FileHooks.
type NoopFileHooks struct{}

func (NoopFileHooks) OnRead(context.Context, string, int, error)  {}
func (NoopFileHooks) OnWrite(context.Context, string, int, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks  PipelineHooks  = NoopPipelineHooks{}
	transformHooks TransformHooks = NoopTransformHooks{}
	fileHooks      FileHooks      = NoopFileHooks{}
	hooksMu        sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup before any build.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetTransformHooks registers custom transform hooks.
func SetTransformHooks(h TransformHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		transformHooks = h
	}
}

// SetFileHooks registers custom file hooks.
func SetFileHooks(h FileHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		fileHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Transform returns the registered transform hooks.
func Transform() TransformHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return transformHooks
}

// File returns the registered file hooks.
func File() FileHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return fileHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	transformHooks = NoopTransformHooks{}
	fileHooks = NoopFileHooks{}
}
