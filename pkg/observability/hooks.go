// Package observability lets callers watch fontnode without the libraries
// depending on a metrics or tracing backend.
//
// The catalog client, render pipeline, caches and HTTP client report events
// through package-level hooks. Every hook defaults to a no-op; an application
// installs its own once at startup:
//
//	counters := &observability.Counters{}
//	observability.Register(observability.Tee(myLogHooks, counters))
//
// Emitters fetch the current hooks at the call site:
//
//	observability.Pipeline().OnRenderStart(ctx, family, mode)
package observability

import (
	"context"
	"sync"
	"time"
)

// PipelineHooks receives catalog, variant resolution and render events.
type PipelineHooks interface {
	OnCatalogFetch(ctx context.Context, families int, duration time.Duration, err error)
	OnResolve(ctx context.Context, family, requested, resolved string, substituted bool)
	OnRenderStart(ctx context.Context, family, mode string)
	OnRenderComplete(ctx context.Context, family, mode string, width, height int, duration time.Duration, err error)
}

// CacheHooks receives cache lookups and writes. backend names the cache
// implementation ("file", "redis").
type CacheHooks interface {
	OnCacheHit(ctx context.Context, backend string)
	OnCacheMiss(ctx context.Context, backend string)
	OnCacheSet(ctx context.Context, backend string, size int)
}

// HTTPHooks receives outgoing requests to the fonts API.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)
	// OnError reports transport failures; error statuses go to OnResponse.
	OnError(ctx context.Context, method, host, path string, err error)
}

type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnCatalogFetch(context.Context, int, time.Duration, error) {}
func (NoopPipelineHooks) OnResolve(context.Context, string, string, string, bool)   {}
func (NoopPipelineHooks) OnRenderStart(context.Context, string, string)             {}

func (NoopPipelineHooks) OnRenderComplete(context.Context, string, string, int, int, time.Duration, error) {}

type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

var (
	mu            sync.RWMutex
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	httpHooks     HTTPHooks     = NoopHTTPHooks{}
)

// Register installs h for every hook interface it implements and reports
// whether it implemented any.
func Register(h any) bool {
	mu.Lock()
	defer mu.Unlock()
	ok := false
	if p, is := h.(PipelineHooks); is {
		pipelineHooks, ok = p, true
	}
	if c, is := h.(CacheHooks); is {
		cacheHooks, ok = c, true
	}
	if x, is := h.(HTTPHooks); is {
		httpHooks, ok = x, true
	}
	return ok
}

// SetPipelineHooks installs h. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		mu.Lock()
		pipelineHooks = h
		mu.Unlock()
	}
}

// SetCacheHooks installs h. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		mu.Lock()
		cacheHooks = h
		mu.Unlock()
	}
}

// SetHTTPHooks installs h. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		mu.Lock()
		httpHooks = h
		mu.Unlock()
	}
}

func Pipeline() PipelineHooks {
	mu.RLock()
	defer mu.RUnlock()
	return pipelineHooks
}

func Cache() CacheHooks {
	mu.RLock()
	defer mu.RUnlock()
	return cacheHooks
}

func HTTP() HTTPHooks {
	mu.RLock()
	defer mu.RUnlock()
	return httpHooks
}

// Reset restores the no-op hooks.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
