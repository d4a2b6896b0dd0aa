package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// Counters tallies events in memory. It implements every hook interface
// and is safe for concurrent use.
type Counters struct {
	renders       atomic.Int64
	renderErrors  atomic.Int64
	substitutions atomic.Int64
	renderNanos   atomic.Int64
	cacheHits     atomic.Int64
	cacheMisses   atomic.Int64
	cacheSets     atomic.Int64
	httpRequests  atomic.Int64
	httpErrors    atomic.Int64
}

// Stats is a point-in-time copy of [Counters].
type Stats struct {
	Renders       int64 `json:"renders"`
	RenderErrors  int64 `json:"render_errors"`
	Substitutions int64 `json:"substitutions"`
	AvgRenderMs   int64 `json:"avg_render_ms"`
	CacheHits     int64 `json:"cache_hits"`
	CacheMisses   int64 `json:"cache_misses"`
	CacheSets     int64 `json:"cache_sets"`
	HTTPRequests  int64 `json:"http_requests"`
	HTTPErrors    int64 `json:"http_errors"`
}

func (c *Counters) Snapshot() Stats {
	s := Stats{
		Renders:       c.renders.Load(),
		RenderErrors:  c.renderErrors.Load(),
		Substitutions: c.substitutions.Load(),
		CacheHits:     c.cacheHits.Load(),
		CacheMisses:   c.cacheMisses.Load(),
		CacheSets:     c.cacheSets.Load(),
		HTTPRequests:  c.httpRequests.Load(),
		HTTPErrors:    c.httpErrors.Load(),
	}
	if ok := s.Renders - s.RenderErrors; ok > 0 {
		s.AvgRenderMs = time.Duration(c.renderNanos.Load() / ok).Milliseconds()
	}
	return s
}

func (c *Counters) OnCatalogFetch(context.Context, int, time.Duration, error) {}

func (c *Counters) OnResolve(_ context.Context, _, _, _ string, substituted bool) {
	if substituted {
		c.substitutions.Add(1)
	}
}

func (c *Counters) OnRenderStart(context.Context, string, string) {}

func (c *Counters) OnRenderComplete(_ context.Context, _, _ string, _, _ int, d time.Duration, err error) {
	c.renders.Add(1)
	if err != nil {
		c.renderErrors.Add(1)
		return
	}
	c.renderNanos.Add(int64(d))
}

func (c *Counters) OnCacheHit(context.Context, string)      { c.cacheHits.Add(1) }
func (c *Counters) OnCacheMiss(context.Context, string)     { c.cacheMisses.Add(1) }
func (c *Counters) OnCacheSet(context.Context, string, int) { c.cacheSets.Add(1) }

func (c *Counters) OnRequest(context.Context, string, string, string) { c.httpRequests.Add(1) }

func (c *Counters) OnResponse(context.Context, string, string, string, int, time.Duration) {}

func (c *Counters) OnError(context.Context, string, string, string, error) { c.httpErrors.Add(1) }

// Fanout forwards each event to several hooks.
type Fanout struct {
	pipeline []PipelineHooks
	cache    []CacheHooks
	http     []HTTPHooks
}

// Tee builds a [Fanout] over hs. Each member receives the events of the
// interfaces it implements.
func Tee(hs ...any) *Fanout {
	f := &Fanout{}
	for _, h := range hs {
		if p, ok := h.(PipelineHooks); ok {
			f.pipeline = append(f.pipeline, p)
		}
		if c, ok := h.(CacheHooks); ok {
			f.cache = append(f.cache, c)
		}
		if x, ok := h.(HTTPHooks); ok {
			f.http = append(f.http, x)
		}
	}
	return f
}

func (f *Fanout) OnCatalogFetch(ctx context.Context, families int, d time.Duration, err error) {
	for _, h := range f.pipeline {
		h.OnCatalogFetch(ctx, families, d, err)
	}
}

func (f *Fanout) OnResolve(ctx context.Context, family, requested, resolved string, substituted bool) {
	for _, h := range f.pipeline {
		h.OnResolve(ctx, family, requested, resolved, substituted)
	}
}

func (f *Fanout) OnRenderStart(ctx context.Context, family, mode string) {
	for _, h := range f.pipeline {
		h.OnRenderStart(ctx, family, mode)
	}
}

func (f *Fanout) OnRenderComplete(ctx context.Context, family, mode string, width, height int, d time.Duration, err error) {
	for _, h := range f.pipeline {
		h.OnRenderComplete(ctx, family, mode, width, height, d, err)
	}
}

func (f *Fanout) OnCacheHit(ctx context.Context, backend string) {
	for _, h := range f.cache {
		h.OnCacheHit(ctx, backend)
	}
}

func (f *Fanout) OnCacheMiss(ctx context.Context, backend string) {
	for _, h := range f.cache {
		h.OnCacheMiss(ctx, backend)
	}
}

func (f *Fanout) OnCacheSet(ctx context.Context, backend string, size int) {
	for _, h := range f.cache {
		h.OnCacheSet(ctx, backend, size)
	}
}

func (f *Fanout) OnRequest(ctx context.Context, method, host, path string) {
	for _, h := range f.http {
		h.OnRequest(ctx, method, host, path)
	}
}

func (f *Fanout) OnResponse(ctx context.Context, method, host, path string, status int, d time.Duration) {
	for _, h := range f.http {
		h.OnResponse(ctx, method, host, path, status, d)
	}
}

func (f *Fanout) OnError(ctx context.Context, method, host, path string, err error) {
	for _, h := range f.http {
		h.OnError(ctx, method, host, path, err)
	}
}
