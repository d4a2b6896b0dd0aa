package fonts

import (
	"strings"

	"github.com/ru4ls/ComfyUI-Google-Fonts/pkg/errors"
)

// Weight is a CSS font weight expressed as a three-digit numeral.
type Weight string

// Standard weights offered by the catalog.
const (
	Weight100 Weight = "100"
	Weight200 Weight = "200"
	Weight300 Weight = "300"
	Weight400 Weight = "400"
	Weight500 Weight = "500"
	Weight600 Weight = "600"
	Weight700 Weight = "700"
	Weight800 Weight = "800"
	Weight900 Weight = "900"
)

// WeightRegular is the legacy alias the catalog and node UI use for 400.
const WeightRegular = "regular"

// Weights lists every accepted weight in ascending order.
var Weights = []Weight{
	Weight100, Weight200, Weight300, Weight400, Weight500,
	Weight600, Weight700, Weight800, Weight900,
}

// WeightChoices is the weight list shown to node hosts, including the
// "regular" alias in its customary position.
var WeightChoices = []string{"100", "200", "300", WeightRegular, "400", "500", "600", "700", "800", "900"}

// ParseWeight normalizes s to a Weight. "regular" maps to "400"; any value
// outside [Weights] is rejected.
func ParseWeight(s string) (Weight, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == WeightRegular {
		return Weight400, nil
	}
	for _, w := range Weights {
		if string(w) == s {
			return w, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidWeight, "unknown font weight: %q", s)
}

// Variant returns the catalog variant string for w in style s.
func (w Weight) Variant(s Style) Variant {
	if s == StyleItalic {
		return Variant(string(w) + italicSuffix)
	}
	return Variant(w)
}

// Style is the CSS font style.
type Style string

// Supported styles.
const (
	StyleNormal Style = "normal"
	StyleItalic Style = "italic"
)

// StyleChoices lists the accepted styles.
var StyleChoices = []string{string(StyleNormal), string(StyleItalic)}

// ParseStyle validates s as a Style.
func ParseStyle(s string) (Style, error) {
	switch Style(strings.TrimSpace(strings.ToLower(s))) {
	case StyleNormal:
		return StyleNormal, nil
	case StyleItalic:
		return StyleItalic, nil
	}
	return "", errors.New(errors.ErrCodeInvalidStyle, "unknown font style: %q (must be normal or italic)", s)
}

const italicSuffix = "italic"

// Variant is a catalog variant such as "400" or "700italic".
type Variant string

// NormalizeVariant maps the catalog's legacy aliases to numeric form:
// "regular" becomes "400" and "italic" becomes "400italic".
func NormalizeVariant(v string) Variant {
	switch v {
	case WeightRegular:
		return Variant(Weight400)
	case italicSuffix:
		return Variant(string(Weight400) + italicSuffix)
	}
	return Variant(v)
}

// Split returns the weight and style encoded in v. A variant without a
// weight numeral is treated as 400.
func (v Variant) Split() (Weight, Style) {
	style := StyleNormal
	if strings.Contains(string(v), italicSuffix) {
		style = StyleItalic
	}
	w := strings.ReplaceAll(string(v), italicSuffix, "")
	if w == "" {
		w = string(Weight400)
	}
	return Weight(w), style
}
