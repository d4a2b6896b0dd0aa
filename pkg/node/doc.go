// Package node declares the font nodes published to a node graph host.
//
// Three nodes share one workflow and differ only in canvas geometry:
//
//   - GoogleFontNodeAdvanced: fixed canvas, text centered
//   - GoogleFontNodeWrap: fixed width, padded text box, optional auto height
//   - GoogleFontNodeAuto: canvas sized to the measured text plus padding
//
// Each [Definition] lists typed parameters with defaults and bounds, and
// always produces exactly two outputs, IMAGE and MASK. [Definition.Options]
// turns a host's parameter values into [pipeline.Options].
//
// [pipeline.Options]: github.com/ru4ls/ComfyUI-Google-Fonts/pkg/pipeline.Options
package node
