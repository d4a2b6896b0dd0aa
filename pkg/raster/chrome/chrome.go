// Package chrome implements [raster.Engine] with a headless Chrome driven
// over the DevTools protocol.
//
// Every [Engine.Open] starts a separate browser process with its own tab;
// [Page.Close] shuts the process down again.
package chrome

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/ru4ls/ComfyUI-Google-Fonts/pkg/raster"
)

// Engine launches headless Chrome instances.
type Engine struct {
	// ExecPath is the browser binary. Empty means let chromedp find one.
	ExecPath string

	// NoSandbox disables the Chrome sandbox, which containers usually need.
	NoSandbox bool
}

// Open implements [raster.Engine].
func (e *Engine) Open(ctx context.Context) (raster.Page, error) {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts,
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("font-render-hinting", "none"),
	)
	if e.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(e.ExecPath))
	}
	if e.NoSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)
	p := &Page{ctx: tabCtx, cancels: []context.CancelFunc{tabCancel, allocCancel}}

	if err := chromedp.Run(tabCtx, chromedp.Navigate("about:blank")); err != nil {
		p.Close()
		return nil, fmt.Errorf("start chrome: %w", err)
	}
	return p, nil
}

// Page is one Chrome tab.
type Page struct {
	ctx     context.Context
	cancels []context.CancelFunc
	once    sync.Once
}

func (p *Page) run(ctx context.Context, actions ...chromedp.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return chromedp.Run(p.ctx, actions...)
}

// SetViewport implements [raster.Page].
func (p *Page) SetViewport(ctx context.Context, width, height int) error {
	return p.run(ctx, chromedp.EmulateViewport(int64(width), int64(height)))
}

// SetContent implements [raster.Page].
func (p *Page) SetContent(ctx context.Context, html string) error {
	return p.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		tree, err := page.GetFrameTree().Do(ctx)
		if err != nil {
			return err
		}
		return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
	}))
}

const measureJS = `(() => {
	const el = document.querySelector(%q);
	if (!el) return {width: 0, height: 0};
	const r = el.getBoundingClientRect();
	return {width: r.width, height: r.height};
})()`

// Measure implements [raster.Page].
func (p *Page) Measure(ctx context.Context, selector string) (raster.Box, error) {
	var box struct {
		Width  float64 `json:"width"`
		Height float64 `json:"height"`
	}
	if err := p.run(ctx, chromedp.Evaluate(fmt.Sprintf(measureJS, selector), &box)); err != nil {
		return raster.Box{}, err
	}
	return raster.Box{Width: box.Width, Height: box.Height}, nil
}

const fontLoadedJS = `(async () => {
	await document.fonts.ready;
	const want = %q;
	for (const face of document.fonts) {
		if (face.family.replace(/["']/g, "") === want && face.status === "loaded") return true;
	}
	return false;
})()`

// FontLoaded implements [raster.FontProber].
func (p *Page) FontLoaded(ctx context.Context, family string) (bool, error) {
	var loaded bool
	err := p.run(ctx, chromedp.Evaluate(fmt.Sprintf(fontLoadedJS, family), &loaded,
		func(ep *runtime.EvaluateParams) *runtime.EvaluateParams { return ep.WithAwaitPromise(true) }))
	return loaded, err
}

// Screenshot implements [raster.Page].
func (p *Page) Screenshot(ctx context.Context, omitBackground bool) ([]byte, error) {
	var buf []byte
	var actions []chromedp.Action
	if omitBackground {
		actions = append(actions, chromedp.ActionFunc(transparentBackground))
	}
	actions = append(actions, chromedp.CaptureScreenshot(&buf))
	if err := p.run(ctx, actions...); err != nil {
		return nil, err
	}
	if len(buf) == 0 {
		return nil, errors.New("chrome returned an empty screenshot")
	}
	return buf, nil
}

// transparentBackground clears Chrome's default white canvas.
func transparentBackground(ctx context.Context) error {
	return emulation.SetDefaultBackgroundColorOverride().
		WithColor(&cdp.RGBA{R: 0, G: 0, B: 0, A: 0}).
		Do(ctx)
}

// Close implements [raster.Page].
func (p *Page) Close() error {
	var err error
	p.once.Do(func() {
		err = chromedp.Cancel(p.ctx)
		for _, cancel := range p.cancels {
			cancel()
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

var _ raster.Engine = (*Engine)(nil)
var _ raster.Page = (*Page)(nil)
var _ raster.FontProber = (*Page)(nil)
