// Package pipeline provides the font rendering workflow shared by the CLI
// and the node host.
//
// This package implements the complete catalog → resolve → markup → capture
// → package pipeline. By centralizing this logic, every entry point resolves
// variants, sizes canvases and packages tensors the same way.
//
// # Architecture
//
// The pipeline consists of five stages:
//
//  1. Catalog: Fetch the Google Fonts catalog (once per process)
//  2. Resolve: Match the requested weight and style against the family
//  3. Markup: Build the HTML document for the geometry mode
//  4. Capture: Paint the document in a headless browser
//  5. Package: Split the bitmap into image and mask tensors
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(catalog, rasterizer, cache, nil, logger)
//	opts := pipeline.Options{
//	    FontFamily: "Roboto",
//	    Text:       "Hi",
//	    Width:      200,
//	    Height:     100,
//	    FontWeight: "700",
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	image, mask := result.Output.Image, result.Output.Mask
package pipeline

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	errs "github.com/ru4ls/ComfyUI-Google-Fonts/pkg/errors"
	"github.com/ru4ls/ComfyUI-Google-Fonts/pkg/fonts"
	"github.com/ru4ls/ComfyUI-Google-Fonts/pkg/markup"
	"github.com/ru4ls/ComfyUI-Google-Fonts/pkg/raster"
	"github.com/ru4ls/ComfyUI-Google-Fonts/pkg/tensor"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Node Host
// =============================================================================

const (
	// DefaultWidth is the default canvas width in pixels.
	DefaultWidth = 1024

	// DefaultHeight is the default canvas height in pixels.
	DefaultHeight = 512

	// DefaultFontSize is the default font size in pixels.
	DefaultFontSize = 120

	// DefaultLineHeight is the default CSS line-height multiplier.
	DefaultLineHeight = 1.2

	// DefaultTextColor is the default text color.
	DefaultTextColor = "#000000"

	// DefaultBackgroundColor is the default background color.
	DefaultBackgroundColor = "#FFFFFF"

	// DefaultText is the placeholder text offered by the nodes.
	DefaultText = "Your Text Here, its support multiple lines!"
)

// Size bounds.
const (
	MinFontSize   = 8
	MaxFontSize   = 1024
	MinLineHeight = 0.1
	MaxLineHeight = 5.0
)

// Output modes.
const (
	OutputCustomText   = "Custom Text"
	OutputStandardSet  = "Standard Character Set"
	StandardCharacters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ\nabcdefghijklmnopqrstuvwxyz\n0123456789\n!@#$%^&*()_+-=[]{}|;"
)

// OutputModes lists the accepted output modes.
var OutputModes = []string{OutputCustomText, OutputStandardSet}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one render.
// Field names follow the node parameters so that host payloads decode
// directly into this struct.
type Options struct {
	FontFamily            string         `json:"font_family"`
	OutputMode            string         `json:"output_mode,omitempty"`
	Text                  string         `json:"text"`
	Width                 int            `json:"width,omitempty"`
	Height                int            `json:"height,omitempty"` // 0 in wrap mode means fit the text
	FontSize              int            `json:"font_size,omitempty"`
	FontWeight            string         `json:"font_weight,omitempty"`
	FontStyle             string         `json:"font_style,omitempty"`
	TextAlign             string         `json:"text_align,omitempty"`
	LineHeight            float64        `json:"line_height,omitempty"`
	TextTransform         string         `json:"text_transform,omitempty"`
	TextColor             string         `json:"text_color,omitempty"`
	BackgroundColor       string         `json:"background_color,omitempty"`
	TransparentBackground bool           `json:"transparent_background"`
	Geometry              string         `json:"geometry,omitempty"`
	Padding               markup.Padding `json:"padding"`
	Refresh               bool           `json:"refresh,omitempty"` // bypass the render cache

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	weight    fonts.Weight
	style     fonts.Style
	align     markup.Align
	transform markup.Transform
	mode      markup.Mode

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Resolution is the variant that was rendered.
	Resolution fonts.Resolution

	// Document is the HTML that was painted.
	Document markup.Document

	// Capture is the raw screenshot.
	Capture *raster.Result

	// Path is the PNG written to a per-render directory below the runner's
	// TempDir. Call Cleanup once the file is no longer needed.
	Path string

	// Output holds the image and mask tensors.
	Output *tensor.Output

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Cleanup removes the scratch directory holding Path.
func (r *Result) Cleanup() error {
	if r == nil || r.Path == "" {
		return nil
	}
	return os.RemoveAll(filepath.Dir(r.Path))
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Families    int
	CatalogTime time.Duration
	RenderTime  time.Duration
	PackageTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	RenderHit bool // Whether the bitmap came from cache
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks every field and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := errs.ValidateFamilyName(o.FontFamily); err != nil {
		return err
	}

	var err error
	if o.mode, err = markup.ParseMode(o.Geometry); err != nil {
		return err
	}
	o.Geometry = string(o.mode)

	if err := o.validateOutputMode(); err != nil {
		return err
	}
	if err := o.validateGeometry(); err != nil {
		return err
	}
	if err := o.validateTypography(); err != nil {
		return err
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

func (o *Options) validateOutputMode() error {
	switch o.OutputMode {
	case "":
		o.OutputMode = OutputCustomText
	case OutputCustomText, OutputStandardSet:
	default:
		return errs.New(errs.ErrCodeInvalidInput, "invalid output_mode: %q (must be %q or %q)", o.OutputMode, OutputCustomText, OutputStandardSet)
	}
	return nil
}

func (o *Options) validateGeometry() error {
	switch o.mode {
	case markup.ModeAuto:
		// The canvas is derived from the measured text.
		o.Width, o.Height = 0, 0
	default:
		if o.Width == 0 {
			o.Width = DefaultWidth
		}
		if o.Height == 0 && o.mode != markup.ModeWrap {
			o.Height = DefaultHeight
		}
		if err := errs.ValidateIntRange("width", o.Width, raster.MinDimension, raster.MaxDimension); err != nil {
			return err
		}
		if o.Height != 0 {
			if err := errs.ValidateIntRange("height", o.Height, raster.MinDimension, raster.MaxDimension); err != nil {
				return err
			}
		}
	}

	p := o.Padding
	for _, side := range []struct {
		name string
		v    int
	}{{"padding_top", p.Top}, {"padding_right", p.Right}, {"padding_bottom", p.Bottom}, {"padding_left", p.Left}} {
		if err := errs.ValidateIntRange(side.name, side.v, 0, raster.MaxDimension); err != nil {
			return err
		}
	}
	if o.mode == markup.ModeWrap {
		if p.Horizontal() >= o.Width {
			return errs.New(errs.ErrCodeInvalidGeometry, "horizontal padding %d leaves no room in width %d", p.Horizontal(), o.Width).WithField("width")
		}
		if o.Height != 0 && p.Vertical() >= o.Height {
			return errs.New(errs.ErrCodeInvalidGeometry, "vertical padding %d leaves no room in height %d", p.Vertical(), o.Height).WithField("height")
		}
	}
	return nil
}

func (o *Options) validateTypography() error {
	if o.FontSize == 0 {
		o.FontSize = DefaultFontSize
	}
	if err := errs.ValidateIntRange("font_size", o.FontSize, MinFontSize, MaxFontSize); err != nil {
		return err
	}
	if o.LineHeight == 0 {
		o.LineHeight = DefaultLineHeight
	}
	if err := errs.ValidateFloatRange("line_height", o.LineHeight, MinLineHeight, MaxLineHeight); err != nil {
		return err
	}

	var err error
	if o.FontWeight == "" {
		o.FontWeight = fonts.WeightRegular
	}
	if o.weight, err = fonts.ParseWeight(o.FontWeight); err != nil {
		return err
	}
	if o.FontStyle == "" {
		o.FontStyle = string(fonts.StyleNormal)
	}
	if o.style, err = fonts.ParseStyle(o.FontStyle); err != nil {
		return err
	}
	if o.align, err = markup.ParseAlign(o.TextAlign); err != nil {
		return err
	}
	o.TextAlign = string(o.align)
	if o.transform, err = markup.ParseTransform(o.TextTransform); err != nil {
		return err
	}
	o.TextTransform = string(o.transform)

	if o.TextColor == "" {
		o.TextColor = DefaultTextColor
	}
	if err := errs.ValidateColor("text_color", o.TextColor); err != nil {
		return err
	}
	if o.BackgroundColor == "" {
		o.BackgroundColor = DefaultBackgroundColor
	}
	return errs.ValidateColor("background_color", o.BackgroundColor)
}

// Mode returns the parsed geometry mode. Valid after ValidateAndSetDefaults.
func (o *Options) Mode() markup.Mode { return o.mode }

// Weight returns the requested weight. Valid after ValidateAndSetDefaults.
func (o *Options) Weight() fonts.Weight { return o.weight }

// Style returns the requested style. Valid after ValidateAndSetDefaults.
func (o *Options) Style() fonts.Style { return o.style }

// RenderText returns the text to paint for the output mode.
func (o *Options) RenderText() string {
	if o.OutputMode == OutputStandardSet {
		return StandardCharacters
	}
	return o.Text
}

// EffectiveBackground returns the CSS background, which is "transparent"
// when a transparent background was requested.
func (o *Options) EffectiveBackground() string {
	if o.TransparentBackground {
		return "transparent"
	}
	return o.BackgroundColor
}

// MarkupStyle builds the markup style for the resolved variant.
func (o *Options) MarkupStyle(res fonts.Resolution) markup.Style {
	return markup.Style{
		Family:     res.Family,
		Weight:     res.Weight,
		FontStyle:  res.Style,
		Size:       o.FontSize,
		Align:      o.align,
		LineHeight: o.LineHeight,
		Transform:  o.transform,
		Color:      o.TextColor,
		Background: o.EffectiveBackground(),
		Width:      o.Width,
		Height:     o.Height,
		Padding:    o.Padding,
	}
}
