// Package observability provides hooks for metrics, tracing and logging.
//
// Libraries emit events through package-level hooks; main registers
// implementations at startup. Defaults are no-ops, so instrumentation costs
// nothing unless something is registered.
//
//	func main() {
//	    observability.SetPipelineHooks(observability.NewLogHooks(logger))
//	    // ... run application
//	}
//
// Libraries call hooks around each unit of work:
//
//	observability.Pipeline().OnStageStart(ctx, observability.StageCluster, n)
//	// ... cluster ...
//	observability.Pipeline().OnStageComplete(ctx, observability.StageCluster, time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// Stage names a step of a clustering run.
type Stage string

const (
	StageLoad     Stage = "load"
	StageDistance Stage = "distance"
	StageCluster  Stage = "cluster"
	StageOrder    Stage = "order"
	StageRender   Stage = "render"
)

// PipelineHooks receives events from clustering runs.
type PipelineHooks interface {
	// OnStageStart is called before a stage; items is the number of objects
	// (examples or attributes) it works on.
	OnStageStart(ctx context.Context, stage Stage, items int)
	OnStageComplete(ctx context.Context, stage Stage, duration time.Duration, err error)
}

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// TranslationHooks receives events from domain translation.
type TranslationHooks interface {
	// OnAnalyse reports a learned translation and its output width.
	OnAnalyse(ctx context.Context, attributes, width int, duration time.Duration)
	// OnTransform reports a batch of translated examples.
	OnTransform(ctx context.Context, rows int, duration time.Duration)
}

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnStageStart(context.Context, Stage, int)                     {}
func (NoopPipelineHooks) OnStageComplete(context.Context, Stage, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopTranslationHooks is a no-op implementation of TranslationHooks.
type NoopTranslationHooks struct{}

func (NoopTranslationHooks) OnAnalyse(context.Context, int, int, time.Duration) {}
func (NoopTranslationHooks) OnTransform(context.Context, int, time.Duration)    {}

var (
	pipelineHooks    PipelineHooks    = NoopPipelineHooks{}
	cacheHooks       CacheHooks       = NoopCacheHooks{}
	translationHooks TranslationHooks = NoopTranslationHooks{}
	hooksMu          sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks. Nil is ignored.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetCacheHooks registers custom cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetTranslationHooks registers custom translation hooks. Nil is ignored.
func SetTranslationHooks(h TranslationHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		translationHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Translation returns the registered translation hooks.
func Translation() TranslationHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return translationHooks
}

// Reset restores all hooks to their no-op defaults.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
	translationHooks = NoopTranslationHooks{}
}
