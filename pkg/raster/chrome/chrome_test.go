package chrome

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/ru4ls/ComfyUI-Google-Fonts/pkg/markup"
	"github.com/ru4ls/ComfyUI-Google-Fonts/pkg/raster"
)

func findChrome(t *testing.T) string {
	t.Helper()
	if os.Getenv("FONTNODE_TEST_CHROME") == "" {
		t.Skip("set FONTNODE_TEST_CHROME=1 to run headless Chrome tests")
	}
	for _, name := range []string{"google-chrome", "chromium", "chromium-browser", "headless-shell"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	t.Skip("no Chrome binary on PATH")
	return ""
}

func TestMeasureMissingElement(t *testing.T) {
	e := &Engine{ExecPath: findChrome(t), NoSandbox: true}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	p, err := e.Open(ctx)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer p.Close()

	if err := p.SetContent(ctx, "<html><body></body></html>"); err != nil {
		t.Fatalf("SetContent() error: %v", err)
	}
	box, err := p.Measure(ctx, markup.ContentSelector)
	if err != nil {
		t.Fatalf("Measure() error: %v", err)
	}
	if !box.Empty() {
		t.Errorf("Measure() = %+v, want empty box", box)
	}
}

func TestFontLoadedWithoutStylesheet(t *testing.T) {
	e := &Engine{ExecPath: findChrome(t), NoSandbox: true}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	p, err := e.Open(ctx)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer p.Close()

	html := `<html><body><div style="font-family: 'Lobster'">Hi</div></body></html>`
	if err := p.SetContent(ctx, html); err != nil {
		t.Fatalf("SetContent() error: %v", err)
	}
	loaded, err := p.(*Page).FontLoaded(ctx, "Lobster")
	if err != nil {
		t.Fatalf("FontLoaded() error: %v", err)
	}
	if loaded {
		t.Error("FontLoaded() = true with no @font-face declared")
	}
}

func TestCaptureTransparent(t *testing.T) {
	e := &Engine{ExecPath: findChrome(t), NoSandbox: true}
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	doc, err := markup.Render(markup.Style{
		Family: "Roboto", Size: 48, Width: 200, Height: 100, Background: "transparent",
	}, "Hi", markup.ModeCentered)
	if err != nil {
		t.Fatal(err)
	}

	res, err := raster.New(e, nil).Capture(ctx, raster.Request{Document: doc, Width: 200, Height: 100, Transparent: true})
	if err != nil {
		t.Fatalf("Capture() error: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(res.PNG))
	if err != nil {
		t.Fatalf("png.Decode() error: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 100 {
		t.Errorf("bounds = %v, want 200x100", b)
	}
	if _, _, _, a := img.At(0, 0).RGBA(); a != 0 {
		t.Errorf("corner alpha = %d, want 0", a)
	}
}
