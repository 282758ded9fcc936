// Package observability lets the binary observe the pipeline, the cache
// and the preview host without the libraries importing a logging or
// metrics backend.
//
// Libraries emit events through the registered hooks:
//
//	observability.Pipeline().OnLoadStart(ctx, path)
//	rs, err := load(path)
//	observability.Pipeline().OnLoadComplete(ctx, path, rs.Len(), time.Since(start), err)
//
// The CLI installs hooks that forward to its logger once, before the
// first command runs. Until then every hook is a no-op.
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// =============================================================================
// Hook Interfaces
// =============================================================================

// PipelineHooks receives the start and end of each pipeline stage. viz is
// "treemap" or "graph".
type PipelineHooks interface {
	OnLoadStart(ctx context.Context, source string)
	OnLoadComplete(ctx context.Context, source string, records int, d time.Duration, err error)
	OnBuildStart(ctx context.Context, viz string, records int)
	OnBuildComplete(ctx context.Context, viz string, nodes int, d time.Duration, err error)
	OnLayoutStart(ctx context.Context, viz string, nodes int)
	OnLayoutComplete(ctx context.Context, viz string, d time.Duration, err error)
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, d time.Duration, err error)
}

// CacheHooks receives cache traffic. kind is "records" or an output
// format such as "svg".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, kind string)
	OnCacheMiss(ctx context.Context, kind string)
	OnCacheSet(ctx context.Context, kind string, size int)
}

// PreviewHooks receives events from the local preview host.
type PreviewHooks interface {
	// OnRequest fires after every response.
	OnRequest(ctx context.Context, method, path string, status int, d time.Duration)
	// OnSelect fires when the page selects or clears a treemap leaf.
	OnSelect(ctx context.Context, selection string)
	// OnReload fires after the watched input file was reloaded.
	OnReload(ctx context.Context, path string, d time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnLoadStart(context.Context, string)                                {}
func (NoopPipelineHooks) OnLoadComplete(context.Context, string, int, time.Duration, error)  {}
func (NoopPipelineHooks) OnBuildStart(context.Context, string, int)                          {}
func (NoopPipelineHooks) OnBuildComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnLayoutStart(context.Context, string, int)                       {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, string, time.Duration, error)   {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                          {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopPreviewHooks is a no-op implementation of PreviewHooks.
type NoopPreviewHooks struct{}

func (NoopPreviewHooks) OnRequest(context.Context, string, string, int, time.Duration) {}
func (NoopPreviewHooks) OnSelect(context.Context, string)                              {}
func (NoopPreviewHooks) OnReload(context.Context, string, time.Duration, error)        {}

// =============================================================================
// Registry
// =============================================================================

// slot holds one registered implementation behind an atomic pointer, so
// hot paths read it without locking.
type slot[T any] struct {
	p    atomic.Pointer[T]
	noop T
}

func newSlot[T any](noop T) *slot[T] {
	s := &slot[T]{noop: noop}
	s.reset()
	return s
}

func (s *slot[T]) get() T { return *s.p.Load() }

func (s *slot[T]) set(h T) { s.p.Store(&h) }

func (s *slot[T]) reset() { s.set(s.noop) }

var (
	pipelineSlot = newSlot[PipelineHooks](NoopPipelineHooks{})
	cacheSlot    = newSlot[CacheHooks](NoopCacheHooks{})
	previewSlot  = newSlot[PreviewHooks](NoopPreviewHooks{})
)

// SetPipelineHooks registers pipeline hooks. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		pipelineSlot.set(h)
	}
}

// SetCacheHooks registers cache hooks. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		cacheSlot.set(h)
	}
}

// SetPreviewHooks registers preview host hooks. A nil h is ignored.
func SetPreviewHooks(h PreviewHooks) {
	if h != nil {
		previewSlot.set(h)
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks { return pipelineSlot.get() }

// Cache returns the registered cache hooks.
func Cache() CacheHooks { return cacheSlot.get() }

// Preview returns the registered preview host hooks.
func Preview() PreviewHooks { return previewSlot.get() }

// Reset restores the no-op hooks.
func Reset() {
	pipelineSlot.reset()
	cacheSlot.reset()
	previewSlot.reset()
}
