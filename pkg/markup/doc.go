// Package markup turns a resolved font style and a piece of text into a
// standalone HTML document that a headless browser can paint.
//
// Three layouts are supported, selected by [Mode]:
//
//   - [ModeCentered]: the body is exactly Width x Height and the text is
//     centered with flexbox, wrapping as needed.
//   - [ModeWrap]: an inner container sized to the canvas minus the per-side
//     [Padding] holds the text; overflow is clipped. A zero Height lets the
//     container grow with its content.
//   - [ModeAuto]: no fixed canvas. The container is an inline block sized to
//     its content with whitespace preserved, so only explicit newlines break
//     lines. The rasterizer measures it and sizes the screenshot to fit.
//
// Every document links the Google Fonts css2 stylesheet for the family with
// the full weight and italic axis range. If the browser cannot reach
// fonts.googleapis.com the text silently falls back to a sans-serif face.
//
// Text is escaped for &, < and > and newlines become <br> elements.
package markup
