package raster

import "context"

// Box is a measured element size in CSS pixels.
type Box struct {
	Width  float64
	Height float64
}

// Empty reports whether the box has no area.
func (b Box) Empty() bool {
	return b.Width <= 0 || b.Height <= 0
}

// Engine opens browser pages.
type Engine interface {
	// Open starts a new page session. The caller must Close it.
	Open(ctx context.Context) (Page, error)
}

// Page is a single browser tab.
type Page interface {
	// SetViewport resizes the page's layout viewport.
	SetViewport(ctx context.Context, width, height int) error

	// SetContent replaces the page's document with html.
	SetContent(ctx context.Context, html string) error

	// Measure returns the bounding box of the first element matching
	// selector. A missing element yields a zero Box and no error.
	Measure(ctx context.Context, selector string) (Box, error)

	// Screenshot captures the viewport as PNG. With omitBackground set the
	// page's default white backdrop is replaced by transparency.
	Screenshot(ctx context.Context, omitBackground bool) ([]byte, error)

	// Close tears the page down. It is safe to call more than once.
	Close() error
}

// FontProber is implemented by pages that can tell whether a web font
// finished loading.
type FontProber interface {
	// FontLoaded waits for pending font loads and reports whether a face of
	// family is loaded in the document.
	FontLoaded(ctx context.Context, family string) (bool, error)
}
