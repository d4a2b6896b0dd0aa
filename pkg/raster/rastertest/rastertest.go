// Package rastertest provides an in-memory [raster.Engine] for tests.
//
// The fake browser paints a solid block in the middle of the viewport to
// stand in for glyphs. The rest of the canvas is transparent when the
// background is omitted and opaque white otherwise.
package rastertest

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"sync"

	"github.com/ru4ls/ComfyUI-Google-Fonts/pkg/raster"
)

// Ink is the color of the painted block.
var Ink = color.NRGBA{A: 255}

// Engine is a fake [raster.Engine]. The zero value is ready to use.
type Engine struct {
	// Box is returned by Measure. A zero Box simulates a missing element.
	Box raster.Box

	// OpenErr, ContentErr and ShotErr make the corresponding step fail.
	OpenErr    error
	ContentErr error
	ShotErr    error

	// FontMissing makes FontLoaded report that the web font never arrived.
	FontMissing bool

	mu    sync.Mutex
	pages []*Page
}

// Open implements [raster.Engine].
func (e *Engine) Open(ctx context.Context) (raster.Page, error) {
	if e.OpenErr != nil {
		return nil, e.OpenErr
	}
	p := &Page{engine: e}
	e.mu.Lock()
	e.pages = append(e.pages, p)
	e.mu.Unlock()
	return p, nil
}

// Pages returns every page opened so far.
func (e *Engine) Pages() []*Page {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]*Page(nil), e.pages...)
}

// Page is a fake [raster.Page] recording what it was asked to do.
type Page struct {
	engine *Engine

	mu        sync.Mutex
	Viewports [][2]int
	HTML      string
	Measured  []string
	Omitted   bool
	Closed    bool
}

// SetViewport implements [raster.Page].
func (p *Page) SetViewport(ctx context.Context, width, height int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Viewports = append(p.Viewports, [2]int{width, height})
	return nil
}

// SetContent implements [raster.Page].
func (p *Page) SetContent(ctx context.Context, html string) error {
	if p.engine.ContentErr != nil {
		return p.engine.ContentErr
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.HTML = html
	return nil
}

// Measure implements [raster.Page].
func (p *Page) Measure(ctx context.Context, selector string) (raster.Box, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Measured = append(p.Measured, selector)
	return p.engine.Box, nil
}

// FontLoaded implements [raster.FontProber].
func (p *Page) FontLoaded(ctx context.Context, family string) (bool, error) {
	return !p.engine.FontMissing, nil
}

// Screenshot implements [raster.Page].
func (p *Page) Screenshot(ctx context.Context, omitBackground bool) ([]byte, error) {
	if p.engine.ShotErr != nil {
		return nil, p.engine.ShotErr
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.Viewports) == 0 {
		return nil, errors.New("rastertest: screenshot before viewport")
	}
	p.Omitted = omitBackground
	vp := p.Viewports[len(p.Viewports)-1]
	return Paint(vp[0], vp[1], omitBackground)
}

// Close implements [raster.Page].
func (p *Page) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Closed = true
	return nil
}

// Paint encodes a width x height PNG with an [Ink] block covering the
// middle third of the canvas.
func Paint(width, height int, transparent bool) ([]byte, error) {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	bg := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	if transparent {
		bg = color.NRGBA{}
	}
	for y := range height {
		for x := range width {
			if x >= width/3 && x < 2*width/3 && y >= height/3 && y < 2*height/3 {
				img.SetNRGBA(x, y, Ink)
			} else {
				img.SetNRGBA(x, y, bg)
			}
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
