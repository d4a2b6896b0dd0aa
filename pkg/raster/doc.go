// Package raster paints [markup.Document] pages into PNG bitmaps through a
// headless browser.
//
// The browser is abstracted as an [Engine] that opens [Page] sessions. Each
// call to [Rasterizer.Capture] opens a fresh page and closes it before
// returning, including on error paths; pages are never reused.
//
// Fixed geometry modes are painted once at the requested size. Auto mode
// loads the document into an oversized viewport, waits for the font
// stylesheet to settle, measures the content box and resizes the viewport
// to the measured size plus padding before capturing (see [AutoDimensions]).
//
// Engine failures are fatal for the capture and are reported with
// [errors.ErrCodeRender]; there is no retry.
//
// [markup.Document]: github.com/ru4ls/ComfyUI-Google-Fonts/pkg/markup.Document
// [errors.ErrCodeRender]: github.com/ru4ls/ComfyUI-Google-Fonts/pkg/errors.ErrCodeRender
package raster
