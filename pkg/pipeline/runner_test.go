package pipeline

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/ru4ls/ComfyUI-Google-Fonts/pkg/cache"
	errs "github.com/ru4ls/ComfyUI-Google-Fonts/pkg/errors"
	"github.com/ru4ls/ComfyUI-Google-Fonts/pkg/fonts"
	"github.com/ru4ls/ComfyUI-Google-Fonts/pkg/markup"
	"github.com/ru4ls/ComfyUI-Google-Fonts/pkg/raster"
	"github.com/ru4ls/ComfyUI-Google-Fonts/pkg/raster/rastertest"
)

type staticCatalog fonts.Catalog

func (c staticCatalog) Fetch(context.Context) fonts.Catalog { return fonts.Catalog(c) }

var testCatalog = staticCatalog{
	{Name: "Roboto", Variants: []string{"regular", "700", "italic"}},
	{Name: "Lobster", Variants: []string{"regular"}},
}

func newTestRunner(t *testing.T, engine raster.Engine, c cache.Cache, logOut io.Writer) *Runner {
	t.Helper()
	if logOut == nil {
		logOut = io.Discard
	}
	logger := log.New(logOut)
	rz := raster.New(engine, logger)
	rz.SettleDelay = 0

	r := NewRunner(testCatalog, rz, c, nil, logger)
	r.TempDir = t.TempDir()
	return r
}

func TestExecuteFixedTransparent(t *testing.T) {
	engine := &rastertest.Engine{}
	r := newTestRunner(t, engine, nil, nil)

	res, err := r.Execute(context.Background(), Options{
		FontFamily:            "Roboto",
		FontWeight:            "700",
		FontStyle:             "normal",
		Text:                  "Hi",
		Width:                 200,
		Height:                100,
		TransparentBackground: true,
	})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	if diff := cmp.Diff([]int{1, 100, 200, 3}, res.Output.Image.Shape); diff != "" {
		t.Errorf("image shape (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{1, 100, 200}, res.Output.Mask.Shape); diff != "" {
		t.Errorf("mask shape (-want +got):\n%s", diff)
	}

	var painted, clear int
	for _, a := range res.Output.Mask.Data {
		switch {
		case a > 0.5:
			painted++
		case a < 0.01:
			clear++
		}
	}
	if painted == 0 {
		t.Error("no painted pixels in mask")
	}
	if painted+clear != len(res.Output.Mask.Data) || clear < painted {
		t.Errorf("painted=%d clear=%d of %d; background should be transparent", painted, clear, len(res.Output.Mask.Data))
	}

	if res.Resolution.Substituted || res.Resolution.Variant() != "700" {
		t.Errorf("Resolution = %+v, want exact 700", res.Resolution)
	}
	page := engine.Pages()[0]
	if !page.Omitted {
		t.Error("transparent request should omit the page background")
	}
	if !strings.Contains(page.HTML, "background-color: transparent;") {
		t.Error("transparent request should render a transparent background")
	}
	if !strings.Contains(page.HTML, "font-weight: 700;") {
		t.Error("HTML does not use the resolved weight")
	}
	if _, err := os.Stat(res.Path); err != nil {
		t.Errorf("capture file missing: %v", err)
	}
	if err := res.Cleanup(); err != nil {
		t.Fatalf("Cleanup() error: %v", err)
	}
	if _, err := os.Stat(filepath.Dir(res.Path)); !os.IsNotExist(err) {
		t.Errorf("scratch directory left behind: %v", err)
	}
}

func TestExecuteSubstitutesMissingVariant(t *testing.T) {
	var logs bytes.Buffer
	engine := &rastertest.Engine{}
	r := newTestRunner(t, engine, nil, &logs)

	res, err := r.Execute(context.Background(), Options{
		FontFamily: "Roboto",
		FontWeight: "900",
		FontStyle:  "italic",
		Text:       "Hi",
	})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !res.Resolution.Substituted {
		t.Error("Resolution.Substituted = false, want true")
	}
	if got := res.Resolution.Variant(); got != "400" {
		t.Errorf("resolved variant = %q, want 400", got)
	}
	if !strings.Contains(logs.String(), "Variant not available") {
		t.Errorf("expected substitution warning, logs:\n%s", logs.String())
	}
	if !strings.Contains(engine.Pages()[0].HTML, "font-style: normal;") {
		t.Error("HTML does not use the substituted style")
	}
}

func TestExecuteUnknownFamilyPassesThrough(t *testing.T) {
	engine := &rastertest.Engine{}
	r := newTestRunner(t, engine, nil, nil)

	res, err := r.Execute(context.Background(), Options{FontFamily: "My Custom Font", FontWeight: "300", Text: "x"})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if res.Resolution.Known || res.Resolution.Substituted || res.Resolution.Variant() != "300" {
		t.Errorf("Resolution = %+v, want pass-through 300", res.Resolution)
	}
	if !strings.Contains(engine.Pages()[0].HTML, "family=My+Custom+Font:") {
		t.Error("stylesheet URL should use the requested family")
	}
}

func TestExecuteAutoGeometry(t *testing.T) {
	engine := &rastertest.Engine{Box: raster.Box{Width: 300, Height: 60}}
	r := newTestRunner(t, engine, nil, nil)

	res, err := r.Execute(context.Background(), Options{
		FontFamily: "Lobster",
		Text:       "Hello",
		Geometry:   "auto",
		Padding:    markup.Uniform(20),
	})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if res.Output.Width != 340 || res.Output.Height != 100 {
		t.Errorf("output = %dx%d, want 340x100", res.Output.Width, res.Output.Height)
	}
	if diff := cmp.Diff([]int{1, 100, 340}, res.Output.Mask.Shape); diff != "" {
		t.Errorf("mask shape (-want +got):\n%s", diff)
	}
}

func TestExecuteStandardCharacterSet(t *testing.T) {
	engine := &rastertest.Engine{}
	r := newTestRunner(t, engine, nil, nil)

	_, err := r.Execute(context.Background(), Options{FontFamily: "Roboto", Text: "ignored", OutputMode: OutputStandardSet})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	html := engine.Pages()[0].HTML
	if strings.Contains(html, "ignored") {
		t.Error("standard set mode rendered the custom text")
	}
	if !strings.Contains(html, "ABCDEFGHIJKLMNOPQRSTUVWXYZ<br>abcdefghijklmnopqrstuvwxyz<br>0123456789<br>") {
		t.Error("standard character set missing from HTML")
	}
}

func TestExecuteEngineFailure(t *testing.T) {
	engine := &rastertest.Engine{OpenErr: errors.New("no chrome")}
	r := newTestRunner(t, engine, nil, nil)

	_, err := r.Execute(context.Background(), Options{FontFamily: "Roboto", Text: "x"})
	if !errs.Is(err, errs.ErrCodeRender) {
		t.Errorf("Execute() error = %v, want RENDER_FAILED", err)
	}
}

func TestExecuteValidationFailure(t *testing.T) {
	engine := &rastertest.Engine{}
	r := newTestRunner(t, engine, nil, nil)

	_, err := r.Execute(context.Background(), Options{FontFamily: "Roboto", FontWeight: "heavy"})
	if !errs.Is(err, errs.ErrCodeInvalidWeight) {
		t.Errorf("Execute() error = %v, want INVALID_WEIGHT", err)
	}
	if len(engine.Pages()) != 0 {
		t.Error("invalid options should not open a page")
	}
}

func TestExecuteRenderCache(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	engine := &rastertest.Engine{}
	r := newTestRunner(t, engine, c, nil)
	r.CacheRenders = true
	defer r.Close()

	opts := Options{FontFamily: "Roboto", Text: "cache me", Width: 128, Height: 64}
	first, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}

	if first.CacheInfo.RenderHit || !second.CacheInfo.RenderHit {
		t.Errorf("RenderHit = %v/%v, want false/true", first.CacheInfo.RenderHit, second.CacheInfo.RenderHit)
	}
	if n := len(engine.Pages()); n != 1 {
		t.Errorf("opened %d pages, want 1", n)
	}
	if second.Capture.Width != 128 || second.Capture.Height != 64 {
		t.Errorf("cached size = %dx%d", second.Capture.Width, second.Capture.Height)
	}

	opts.Refresh = true
	if _, err := r.Execute(context.Background(), opts); err != nil {
		t.Fatal(err)
	}
	if n := len(engine.Pages()); n != 2 {
		t.Errorf("refresh opened %d pages total, want 2", n)
	}
}

func TestExecuteRenderCacheSkips(t *testing.T) {
	tests := []struct {
		name        string
		enabled     bool
		fontMissing bool
	}{
		{"disabled by default", false, false},
		{"fallback font not stored", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := cache.NewFileCache(t.TempDir())
			if err != nil {
				t.Fatal(err)
			}
			engine := &rastertest.Engine{FontMissing: tt.fontMissing}
			r := newTestRunner(t, engine, c, nil)
			r.CacheRenders = tt.enabled
			defer r.Close()

			opts := Options{FontFamily: "Roboto", Text: "fresh", Width: 128, Height: 64}
			for range 2 {
				res, err := r.Execute(context.Background(), opts)
				if err != nil {
					t.Fatal(err)
				}
				if res.CacheInfo.RenderHit {
					t.Error("RenderHit = true, want a fresh capture")
				}
				res.Cleanup()
			}
			if n := len(engine.Pages()); n != 2 {
				t.Errorf("opened %d pages, want 2", n)
			}
		})
	}
}

func TestFamilies(t *testing.T) {
	r := newTestRunner(t, &rastertest.Engine{}, nil, nil)
	if diff := cmp.Diff([]string{"Lobster", "Roboto"}, r.Families(context.Background())); diff != "" {
		t.Errorf("Families() (-want +got):\n%s", diff)
	}

	r.Catalog = staticCatalog(nil)
	if diff := cmp.Diff(fonts.DefaultFamilies, r.Families(context.Background())); diff != "" {
		t.Errorf("Families() fallback (-want +got):\n%s", diff)
	}
}
