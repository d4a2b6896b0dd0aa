package node

import (
	"math"
	"slices"
	"strconv"

	errs "github.com/ru4ls/ComfyUI-Google-Fonts/pkg/errors"
	"github.com/ru4ls/ComfyUI-Google-Fonts/pkg/fonts"
	"github.com/ru4ls/ComfyUI-Google-Fonts/pkg/markup"
	"github.com/ru4ls/ComfyUI-Google-Fonts/pkg/pipeline"
	"github.com/ru4ls/ComfyUI-Google-Fonts/pkg/raster"
)

// Category groups the nodes in the host's menu.
const Category = "Ru4ls/Google Fonts"

// Node names.
const (
	Advanced = "GoogleFontNodeAdvanced"
	Wrap     = "GoogleFontNodeWrap"
	Auto     = "GoogleFontNodeAuto"
)

// Output types.
const (
	OutputImage = "IMAGE"
	OutputMask  = "MASK"
)

// ParamType is a host parameter type.
type ParamType string

const (
	TypeInt     ParamType = "INT"
	TypeFloat   ParamType = "FLOAT"
	TypeString  ParamType = "STRING"
	TypeBoolean ParamType = "BOOLEAN"
	TypeCombo   ParamType = "COMBO"
)

// Param declares one node input.
type Param struct {
	Name      string    `json:"name"`
	Type      ParamType `json:"type"`
	Default   any       `json:"default"`
	Min       *float64  `json:"min,omitempty"`
	Max       *float64  `json:"max,omitempty"`
	Step      *float64  `json:"step,omitempty"`
	Choices   []string  `json:"choices,omitempty"`
	Multiline bool      `json:"multiline,omitempty"`

	// AllowCustom accepts COMBO values outside Choices.
	AllowCustom bool `json:"allow_custom,omitempty"`
}

// Definition describes a node.
type Definition struct {
	Name        string      `json:"name"`
	DisplayName string      `json:"display_name"`
	Category    string      `json:"category"`
	Geometry    markup.Mode `json:"geometry"`
	Params      []Param     `json:"params"`
	Outputs     []string    `json:"outputs"`
}

func bound(v float64) *float64 { return &v }

func intParam(name string, def, min, max, step int) Param {
	return Param{Name: name, Type: TypeInt, Default: def,
		Min: bound(float64(min)), Max: bound(float64(max)), Step: bound(float64(step))}
}

func combo(name string, choices []string, def string) Param {
	return Param{Name: name, Type: TypeCombo, Default: def, Choices: choices}
}

func paddingParams() []Param {
	return []Param{
		intParam("padding_top", 20, 0, raster.MaxDimension, 1),
		intParam("padding_right", 20, 0, raster.MaxDimension, 1),
		intParam("padding_bottom", 20, 0, raster.MaxDimension, 1),
		intParam("padding_left", 20, 0, raster.MaxDimension, 1),
	}
}

// Definitions returns the three node definitions. families populates the
// font_family choices; pass [fonts.FamilyNames] of the catalog.
func Definitions(families []string) []Definition {
	if len(families) == 0 {
		families = fonts.DefaultFamilies
	}
	families = slices.Clone(families)

	head := []Param{
		{Name: "font_family", Type: TypeCombo, Default: families[0], Choices: families, AllowCustom: true},
		combo("output_mode", pipeline.OutputModes, pipeline.OutputCustomText),
		{Name: "text", Type: TypeString, Default: pipeline.DefaultText, Multiline: true},
	}
	typography := []Param{
		intParam("font_size", pipeline.DefaultFontSize, pipeline.MinFontSize, pipeline.MaxFontSize, 1),
		combo("font_weight", fonts.WeightChoices, fonts.WeightRegular),
		combo("font_style", fonts.StyleChoices, string(fonts.StyleNormal)),
		combo("text_align", markup.AlignChoices, string(markup.AlignCenter)),
		{Name: "line_height", Type: TypeFloat, Default: pipeline.DefaultLineHeight,
			Min: bound(pipeline.MinLineHeight), Max: bound(pipeline.MaxLineHeight), Step: bound(0.1)},
		combo("text_transform", markup.TransformChoices, string(markup.TransformNone)),
		{Name: "text_color", Type: TypeString, Default: pipeline.DefaultTextColor},
		{Name: "background_color", Type: TypeString, Default: pipeline.DefaultBackgroundColor},
		{Name: "transparent_background", Type: TypeBoolean, Default: true},
	}

	build := func(name, display string, mode markup.Mode, size, layout []Param) Definition {
		return Definition{
			Name:        name,
			DisplayName: display,
			Category:    Category,
			Geometry:    mode,
			Params:      slices.Concat(head, size, typography, layout),
			Outputs:     []string{OutputImage, OutputMask},
		}
	}

	width := intParam("width", pipeline.DefaultWidth, raster.MinDimension, raster.MaxDimension, 8)
	height := intParam("height", pipeline.DefaultHeight, raster.MinDimension, raster.MaxDimension, 8)
	// A zero height lets the wrapped text decide.
	wrapHeight := intParam("height", pipeline.DefaultHeight, 0, raster.MaxDimension, 8)

	return []Definition{
		build(Advanced, "Google Font Text Image", markup.ModeCentered, []Param{width, height}, nil),
		build(Wrap, "Google Font Text Image (Wrap)", markup.ModeWrap, []Param{width, wrapHeight}, paddingParams()),
		build(Auto, "Google Font Text Image (Auto Size)", markup.ModeAuto, nil, paddingParams()),
	}
}

// Lookup finds a definition by node name.
func Lookup(defs []Definition, name string) (Definition, bool) {
	for _, d := range defs {
		if d.Name == name {
			return d, true
		}
	}
	return Definition{}, false
}

// Param returns the declaration of the named input.
func (d Definition) Param(name string) (Param, bool) {
	for _, p := range d.Params {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

// Options converts host parameter values into pipeline options. Missing
// values take their declared defaults; unknown names and values outside the
// declared bounds or choices are rejected.
func (d Definition) Options(params map[string]any) (pipeline.Options, error) {
	for name := range params {
		if _, ok := d.Param(name); !ok {
			return pipeline.Options{}, errs.New(errs.ErrCodeInvalidInput, "%s has no parameter %q", d.Name, name).WithField(name)
		}
	}

	values := make(map[string]any, len(d.Params))
	for _, p := range d.Params {
		raw, ok := params[p.Name]
		if !ok || raw == nil {
			values[p.Name] = p.Default
			continue
		}
		v, err := p.coerce(raw)
		if err != nil {
			if e, ok := err.(*errs.Error); ok && e.Field == "" {
				e.WithField(p.Name)
			}
			return pipeline.Options{}, err
		}
		values[p.Name] = v
	}

	str := func(k string) string { s, _ := values[k].(string); return s }
	num := func(k string) int { n, _ := values[k].(int); return n }

	opts := pipeline.Options{
		FontFamily:      str("font_family"),
		OutputMode:      str("output_mode"),
		Text:            str("text"),
		Width:           num("width"),
		Height:          num("height"),
		FontSize:        num("font_size"),
		FontWeight:      str("font_weight"),
		FontStyle:       str("font_style"),
		TextAlign:       str("text_align"),
		TextTransform:   str("text_transform"),
		TextColor:       str("text_color"),
		BackgroundColor: str("background_color"),
		Geometry:        string(d.Geometry),
		Padding: markup.Padding{
			Top:    num("padding_top"),
			Right:  num("padding_right"),
			Bottom: num("padding_bottom"),
			Left:   num("padding_left"),
		},
	}
	opts.LineHeight, _ = values["line_height"].(float64)
	opts.TransparentBackground, _ = values["transparent_background"].(bool)
	return opts, nil
}

func (p Param) coerce(raw any) (any, error) {
	switch p.Type {
	case TypeInt:
		f, err := toFloat(p.Name, raw)
		if err != nil {
			return nil, err
		}
		if f != math.Trunc(f) {
			return nil, errs.New(errs.ErrCodeInvalidInput, "%s must be an integer, got %v", p.Name, raw)
		}
		if err := p.checkRange(f); err != nil {
			return nil, err
		}
		return int(f), nil
	case TypeFloat:
		f, err := toFloat(p.Name, raw)
		if err != nil {
			return nil, err
		}
		if err := p.checkRange(f); err != nil {
			return nil, err
		}
		return f, nil
	case TypeBoolean:
		switch v := raw.(type) {
		case bool:
			return v, nil
		case string:
			b, err := strconv.ParseBool(v)
			if err != nil {
				return nil, errs.New(errs.ErrCodeInvalidInput, "%s must be a boolean, got %q", p.Name, v)
			}
			return b, nil
		}
		return nil, errs.New(errs.ErrCodeInvalidInput, "%s must be a boolean, got %T", p.Name, raw)
	case TypeString, TypeCombo:
		s, ok := raw.(string)
		if !ok {
			return nil, errs.New(errs.ErrCodeInvalidInput, "%s must be a string, got %T", p.Name, raw)
		}
		if p.Type == TypeCombo && !p.AllowCustom && !slices.Contains(p.Choices, s) {
			return nil, errs.New(errs.ErrCodeInvalidInput, "%s must be one of %v, got %q", p.Name, p.Choices, s)
		}
		return s, nil
	}
	return nil, errs.New(errs.ErrCodeInternal, "parameter %s has unknown type %s", p.Name, p.Type)
}

func (p Param) checkRange(f float64) error {
	if math.IsNaN(f) || (p.Min != nil && f < *p.Min) || (p.Max != nil && f > *p.Max) {
		return errs.New(errs.ErrCodeOutOfRange, "%s must be between %g and %g, got %g", p.Name, deref(p.Min), deref(p.Max), f)
	}
	return nil
}

func deref(f *float64) float64 {
	if f == nil {
		return math.NaN()
	}
	return *f
}

func toFloat(name string, raw any) (float64, error) {
	switch v := raw.(type) {
	case float64:
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			return v, nil
		}
	case float32:
		if f := float64(v); !math.IsNaN(f) && !math.IsInf(f, 0) {
			return f, nil
		}
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return f, nil
		}
	}
	return 0, errs.New(errs.ErrCodeInvalidInput, "%s must be a number, got %#v", name, raw)
}
