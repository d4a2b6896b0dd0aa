package raster

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/log"

	errs "github.com/ru4ls/ComfyUI-Google-Fonts/pkg/errors"
	"github.com/ru4ls/ComfyUI-Google-Fonts/pkg/markup"
)

// Canvas bounds shared by every geometry mode.
const (
	MinDimension = 64
	MaxDimension = 8192

	// DefaultAutoDimension is used for both sides when auto mode cannot
	// measure the content.
	DefaultAutoDimension = 512

	// DefaultSettleDelay is how long auto mode waits for web fonts to load
	// before measuring.
	DefaultSettleDelay = 1500 * time.Millisecond
)

// FilePrefix starts every file written by [Result.WriteFile].
const FilePrefix = "GoogleFontAdv_"

// Request describes one capture.
type Request struct {
	Document    markup.Document
	Width       int
	Height      int // 0 in wrap mode means measure the height
	Padding     markup.Padding
	Transparent bool
}

// Result is a captured bitmap.
type Result struct {
	PNG      []byte
	Width    int
	Height   int
	Measured Box // content box in auto-sized captures, zero otherwise

	// FontLoaded is set when the page confirmed the requested web font
	// loaded. Captures without it may show a fallback face.
	FontLoaded bool
}

// Rasterizer drives an [Engine] through the capture sequence.
// It is safe for concurrent use; every capture owns its own page.
type Rasterizer struct {
	Engine      Engine
	SettleDelay time.Duration
	Logger      *log.Logger
}

// New returns a Rasterizer with the default settle delay.
func New(engine Engine, logger *log.Logger) *Rasterizer {
	if logger == nil {
		logger = log.Default()
	}
	return &Rasterizer{Engine: engine, SettleDelay: DefaultSettleDelay, Logger: logger}
}

// Capture paints req.Document and returns the bitmap.
func (r *Rasterizer) Capture(ctx context.Context, req Request) (*Result, error) {
	if r.Engine == nil {
		return nil, errs.New(errs.ErrCodeRender, "no rendering engine configured")
	}

	page, err := r.Engine.Open(ctx)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeRender, err, "launch browser")
	}
	defer page.Close()

	switch {
	case req.Document.Mode == markup.ModeAuto:
		return r.captureAuto(ctx, page, req)
	case req.Document.Mode == markup.ModeWrap && req.Height <= 0:
		return r.captureAutoHeight(ctx, page, req)
	default:
		return r.captureFixed(ctx, page, req, req.Width, req.Height)
	}
}

func (r *Rasterizer) captureFixed(ctx context.Context, page Page, req Request, width, height int) (*Result, error) {
	if err := page.SetViewport(ctx, width, height); err != nil {
		return nil, errs.Wrap(errs.ErrCodeRender, err, "set viewport %dx%d", width, height)
	}
	if err := page.SetContent(ctx, req.Document.HTML); err != nil {
		return nil, errs.Wrap(errs.ErrCodeRender, err, "load document")
	}
	return r.screenshot(ctx, page, req, width, height, Box{})
}

func (r *Rasterizer) captureAuto(ctx context.Context, page Page, req Request) (*Result, error) {
	box, err := r.measure(ctx, page, req, MaxDimension, MaxDimension)
	if err != nil {
		return nil, err
	}

	width, height := AutoDimensions(box, req.Padding)
	if box.Empty() {
		r.Logger.Warn("Could not measure text; using default canvas", "size", fmt.Sprintf("%dx%d", width, height))
	}
	if err := page.SetViewport(ctx, width, height); err != nil {
		return nil, errs.Wrap(errs.ErrCodeRender, err, "resize viewport to %dx%d", width, height)
	}
	return r.screenshot(ctx, page, req, width, height, box)
}

func (r *Rasterizer) captureAutoHeight(ctx context.Context, page Page, req Request) (*Result, error) {
	width := clamp(req.Width)
	box, err := r.measure(ctx, page, req, width, MaxDimension)
	if err != nil {
		return nil, err
	}

	height := DefaultAutoDimension
	if !box.Empty() {
		height = clamp(int(math.Ceil(box.Height)) + req.Padding.Vertical())
	}
	if err := page.SetViewport(ctx, width, height); err != nil {
		return nil, errs.Wrap(errs.ErrCodeRender, err, "resize viewport to %dx%d", width, height)
	}
	return r.screenshot(ctx, page, req, width, height, box)
}

func (r *Rasterizer) measure(ctx context.Context, page Page, req Request, width, height int) (Box, error) {
	if err := page.SetViewport(ctx, width, height); err != nil {
		return Box{}, errs.Wrap(errs.ErrCodeRender, err, "set viewport %dx%d", width, height)
	}
	if err := page.SetContent(ctx, req.Document.HTML); err != nil {
		return Box{}, errs.Wrap(errs.ErrCodeRender, err, "load document")
	}
	if err := r.wait(ctx); err != nil {
		return Box{}, errs.Wrap(errs.ErrCodeRender, err, "wait for fonts")
	}

	selector := req.Document.Selector
	if selector == "" {
		selector = markup.ContentSelector
	}
	box, err := page.Measure(ctx, selector)
	if err != nil {
		return Box{}, errs.Wrap(errs.ErrCodeRender, err, "measure %s", selector)
	}
	return box, nil
}

func (r *Rasterizer) screenshot(ctx context.Context, page Page, req Request, width, height int, box Box) (*Result, error) {
	loaded := r.fontLoaded(ctx, page, req.Document.Family)
	data, err := page.Screenshot(ctx, req.Transparent)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeRender, err, "capture screenshot")
	}
	return &Result{PNG: data, Width: width, Height: height, Measured: box, FontLoaded: loaded}, nil
}

func (r *Rasterizer) fontLoaded(ctx context.Context, page Page, family string) bool {
	prober, ok := page.(FontProber)
	if !ok || family == "" {
		return false
	}
	loaded, err := prober.FontLoaded(ctx, family)
	if err != nil {
		r.Logger.Debug("font probe failed", "family", family, "error", err)
		return false
	}
	if !loaded {
		r.Logger.Warn("Web font did not load; capture uses a fallback face", "family", family)
	}
	return loaded
}

func (r *Rasterizer) wait(ctx context.Context) error {
	if r.SettleDelay <= 0 {
		return nil
	}
	t := time.NewTimer(r.SettleDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// AutoDimensions returns the canvas size for a measured content box:
// ceil(width)+left+right by ceil(height)+top+bottom, each clamped to
// [MinDimension, MaxDimension]. An empty box yields the default
// DefaultAutoDimension square.
func AutoDimensions(box Box, pad markup.Padding) (width, height int) {
	if box.Empty() {
		return DefaultAutoDimension, DefaultAutoDimension
	}
	width = clamp(int(math.Ceil(box.Width)) + pad.Horizontal())
	height = clamp(int(math.Ceil(box.Height)) + pad.Vertical())
	return width, height
}

func clamp(v int) int {
	return min(max(v, MinDimension), MaxDimension)
}

// Decode parses the captured PNG header and reports its pixel size.
func (res *Result) Decode() (width, height int, err error) {
	cfg, err := png.DecodeConfig(bytes.NewReader(res.PNG))
	if err != nil {
		return 0, 0, errs.Wrap(errs.ErrCodeRender, err, "decode screenshot")
	}
	return cfg.Width, cfg.Height, nil
}

// FileName returns the scratch file name for family at time t. Names only
// carry second resolution, so two captures of one family within the same
// second share a name.
func FileName(family string, t time.Time) string {
	safe := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, family)
	return fmt.Sprintf("%s%s_%d.png", FilePrefix, safe, t.Unix())
}

// WriteFile stores the PNG in dir and returns its path.
func (res *Result) WriteFile(dir, family string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, FileName(family, time.Now()))
	if err := os.WriteFile(path, res.PNG, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
