package markup

import (
	"strings"

	errs "github.com/ru4ls/ComfyUI-Google-Fonts/pkg/errors"
	"github.com/ru4ls/ComfyUI-Google-Fonts/pkg/fonts"
)

// Mode selects the page geometry.
type Mode string

const (
	ModeCentered Mode = "centered"
	ModeWrap     Mode = "wrap"
	ModeAuto     Mode = "auto"
)

// Modes lists every geometry mode.
var Modes = []Mode{ModeCentered, ModeWrap, ModeAuto}

// ParseMode validates a geometry mode name.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case ModeCentered, ModeWrap, ModeAuto:
		return m, nil
	case "":
		return ModeCentered, nil
	}
	return "", errs.New(errs.ErrCodeInvalidGeometry, "unknown geometry mode %q (want centered, wrap or auto)", s)
}

// Align is the horizontal text alignment.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// AlignChoices lists the alignments in the order offered to users.
var AlignChoices = []string{string(AlignCenter), string(AlignLeft), string(AlignRight)}

// ParseAlign validates an alignment name. An empty string means center.
func ParseAlign(s string) (Align, error) {
	switch a := Align(strings.ToLower(strings.TrimSpace(s))); a {
	case AlignLeft, AlignCenter, AlignRight:
		return a, nil
	case "":
		return AlignCenter, nil
	}
	return "", errs.New(errs.ErrCodeInvalidAlign, "unknown text alignment %q", s)
}

// Justify maps the alignment to the flexbox justify-content value.
func (a Align) Justify() string {
	switch a {
	case AlignLeft:
		return "flex-start"
	case AlignRight:
		return "flex-end"
	}
	return "center"
}

// Transform is the CSS text-transform applied to the text.
type Transform string

const (
	TransformNone       Transform = "none"
	TransformUppercase  Transform = "uppercase"
	TransformLowercase  Transform = "lowercase"
	TransformCapitalize Transform = "capitalize"
)

// TransformChoices lists the text transforms in the order offered to users.
var TransformChoices = []string{
	string(TransformNone), string(TransformUppercase),
	string(TransformLowercase), string(TransformCapitalize),
}

// ParseTransform validates a text-transform name. An empty string means none.
func ParseTransform(s string) (Transform, error) {
	switch t := Transform(strings.ToLower(strings.TrimSpace(s))); t {
	case TransformNone, TransformUppercase, TransformLowercase, TransformCapitalize:
		return t, nil
	case "":
		return TransformNone, nil
	}
	return "", errs.New(errs.ErrCodeInvalidTransform, "unknown text transform %q", s)
}

// Padding is the per-side spacing in pixels around the text.
type Padding struct {
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
	Left   int `json:"left"`
}

// Uniform returns a Padding with all four sides set to n.
func Uniform(n int) Padding {
	return Padding{Top: n, Right: n, Bottom: n, Left: n}
}

// Horizontal returns Left + Right.
func (p Padding) Horizontal() int { return p.Left + p.Right }

// Vertical returns Top + Bottom.
func (p Padding) Vertical() int { return p.Top + p.Bottom }

// Style is everything the templates need besides the text.
type Style struct {
	Family     string
	Weight     fonts.Weight
	FontStyle  fonts.Style
	Size       int
	Align      Align
	LineHeight float64
	Transform  Transform
	Color      string
	Background string
	Width      int
	Height     int // 0 means auto height in wrap mode
	Padding    Padding
}
