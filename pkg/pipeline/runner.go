package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ru4ls/ComfyUI-Google-Fonts/pkg/cache"
	errs "github.com/ru4ls/ComfyUI-Google-Fonts/pkg/errors"
	"github.com/ru4ls/ComfyUI-Google-Fonts/pkg/fonts"
	"github.com/ru4ls/ComfyUI-Google-Fonts/pkg/markup"
	"github.com/ru4ls/ComfyUI-Google-Fonts/pkg/observability"
	"github.com/ru4ls/ComfyUI-Google-Fonts/pkg/raster"
	"github.com/ru4ls/ComfyUI-Google-Fonts/pkg/tensor"
)

// CatalogSource supplies the font catalog. An empty catalog means the
// catalog is unavailable.
type CatalogSource interface {
	Fetch(ctx context.Context) fonts.Catalog
}

// Runner encapsulates pipeline execution with caching.
// Both CLI and node host use this to avoid duplicating the workflow.
//
// The Runner doesn't store pipeline results. Multiple goroutines can safely
// use the same Runner with different options; each capture opens its own
// browser page.
type Runner struct {
	Catalog    CatalogSource
	Rasterizer *raster.Rasterizer
	Cache      cache.Cache
	Keyer      cache.Keyer
	Logger     *log.Logger

	// CacheRenders enables reuse of captured bitmaps. Only captures whose
	// web font loaded are stored.
	CacheRenders bool

	// TempDir receives the captured PNG files.
	TempDir string
}

// NewRunner creates a runner.
// If keyer is nil, a DefaultKeyer is used.
// If c is nil, a NullCache is used (caching disabled).
func NewRunner(catalog CatalogSource, rasterizer *raster.Rasterizer, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Catalog:    catalog,
		Rasterizer: rasterizer,
		Cache:      c,
		Keyer:      keyer,
		Logger:     logger,
		TempDir:    filepath.Join(os.TempDir(), "fontnode"),
	}
}

// Families returns the family names to offer, falling back to
// [fonts.DefaultFamilies] when the catalog is unavailable.
func (r *Runner) Families(ctx context.Context) []string {
	return fonts.FamilyNames(r.catalog(ctx))
}

func (r *Runner) catalog(ctx context.Context) fonts.Catalog {
	if r.Catalog == nil {
		return nil
	}
	return r.Catalog.Fetch(ctx)
}

// Execute runs the complete catalog → resolve → markup → capture → package pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	result := &Result{}

	// Stage 1: Catalog
	catalogStart := time.Now()
	catalog := r.catalog(ctx)
	result.Stats.CatalogTime = time.Since(catalogStart)
	result.Stats.Families = len(catalog)

	// Stage 2: Resolve
	result.Resolution = r.Resolve(ctx, catalog, &opts)

	// Stage 3: Markup
	doc, err := markup.Render(opts.MarkupStyle(result.Resolution), opts.RenderText(), opts.Mode())
	if err != nil {
		return nil, err
	}
	result.Document = doc

	// Stage 4: Capture
	renderStart := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.FontFamily, opts.Geometry)
	capture, hit, err := r.CaptureWithCacheInfo(ctx, doc, opts)
	result.Stats.RenderTime = time.Since(renderStart)
	if err != nil {
		observability.Pipeline().OnRenderComplete(ctx, opts.FontFamily, opts.Geometry, 0, 0, result.Stats.RenderTime, err)
		return nil, err
	}
	observability.Pipeline().OnRenderComplete(ctx, opts.FontFamily, opts.Geometry, capture.Width, capture.Height, result.Stats.RenderTime, nil)
	result.Capture = capture
	result.CacheInfo.RenderHit = hit

	opts.Logger.Info("rendered text",
		"family", result.Resolution.Family,
		"variant", result.Resolution.Variant(),
		"size", fmt.Sprintf("%dx%d", capture.Width, capture.Height),
		"cached", hit,
		"duration", result.Stats.RenderTime)

	// Stage 5: Package
	packageStart := time.Now()
	path, err := r.writeScratch(capture, opts.FontFamily)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "write capture")
	}
	result.Path = path

	out, err := tensor.Package(path)
	if err != nil {
		_ = result.Cleanup()
		return nil, errs.Wrap(errs.ErrCodeRender, err, "package %s", filepath.Base(path))
	}
	result.Output = out
	result.Stats.PackageTime = time.Since(packageStart)

	return result, nil
}

// writeScratch stores the capture in its own directory so concurrent renders
// of one family never share a file name.
func (r *Runner) writeScratch(capture *raster.Result, family string) (string, error) {
	if err := os.MkdirAll(r.TempDir, 0o755); err != nil {
		return "", err
	}
	dir, err := os.MkdirTemp(r.TempDir, "render-")
	if err != nil {
		return "", err
	}
	path, err := capture.WriteFile(dir, family)
	if err != nil {
		os.RemoveAll(dir)
		return "", err
	}
	return path, nil
}

// Resolve matches the requested variant against the catalog and logs a
// warning when the family lacks it.
func (r *Runner) Resolve(ctx context.Context, catalog fonts.Catalog, opts *Options) fonts.Resolution {
	res := fonts.Resolve(catalog, opts.FontFamily, opts.Weight(), opts.Style())
	if res.Substituted {
		r.logger(opts).Warn("Variant not available; falling back",
			"family", res.Family,
			"requested", res.Requested,
			"using", res.Variant())
	} else if !res.Known && len(catalog) > 0 {
		r.logger(opts).Debug("Family not in catalog; rendering as requested", "family", res.Family)
	}
	observability.Pipeline().OnResolve(ctx, res.Family, string(res.Requested), string(res.Variant()), res.Substituted)
	return res
}

// CaptureWithCacheInfo paints doc. With CacheRenders set it reuses a cached
// bitmap for an identical document and geometry unless opts.Refresh is set.
func (r *Runner) CaptureWithCacheInfo(ctx context.Context, doc markup.Document, opts Options) (*raster.Result, bool, error) {
	if r.Rasterizer == nil {
		return nil, false, errs.New(errs.ErrCodeRender, "no rasterizer configured")
	}

	req := raster.Request{
		Document:    doc,
		Width:       opts.Width,
		Height:      opts.Height,
		Padding:     opts.Padding,
		Transparent: opts.TransparentBackground,
	}
	key := r.Keyer.RenderKey(renderHash(req))

	if !r.CacheRenders {
		res, err := r.Rasterizer.Capture(ctx, req)
		return res, false, err
	}

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			res := &raster.Result{PNG: data}
			if w, h, err := res.Decode(); err == nil {
				res.Width, res.Height = w, h
				return res, true, nil
			}
		}
	}

	res, err := r.Rasterizer.Capture(ctx, req)
	if err != nil {
		return nil, false, err
	}
	if res.FontLoaded {
		_ = r.Cache.Set(ctx, key, res.PNG, cache.TTLRender)
	}
	return res, false, nil
}

func renderHash(req raster.Request) string {
	p := req.Padding
	key := string(req.Document.Mode) + "\x00" + req.Document.HTML + "\x00" +
		strconv.Itoa(req.Width) + "x" + strconv.Itoa(req.Height) + "\x00" +
		fmt.Sprintf("%d,%d,%d,%d", p.Top, p.Right, p.Bottom, p.Left) + "\x00" +
		strconv.FormatBool(req.Transparent)
	return cache.Hash([]byte(key))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) logger(opts *Options) *log.Logger {
	if opts != nil && opts.Logger != nil {
		return opts.Logger
	}
	return r.Logger
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
