package errors

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

// ValidateFamilyName validates a font family name before it is embedded in
// markup and stylesheet URLs.
//
// The rules are conservative:
//   - No empty names
//   - Maximum length of 128 characters
//   - No control characters
//   - No characters that could break out of a CSS string or HTML attribute
func ValidateFamilyName(name string) error {
	if err := validateFamilyName(name); err != nil {
		return err.WithField("font_family")
	}
	return nil
}

func validateFamilyName(name string) *Error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidFamily, "font family cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidFamily, "font family too long (max 128 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidFamily, "font family contains invalid control characters")
		}
	}

	if i := strings.IndexAny(name, `'"<>;{}\&`); i >= 0 {
		return New(ErrCodeInvalidFamily, "font family contains invalid character: %q", name[i])
	}

	return nil
}

var (
	hexColorRegex   = regexp.MustCompile(`^#([0-9a-fA-F]{3,4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)
	namedColorRegex = regexp.MustCompile(`^[a-zA-Z]{3,20}$`)
	funcColorRegex  = regexp.MustCompile(`^(rgb|rgba|hsl|hsla)\(\s*[0-9.%]+\s*,\s*[0-9.%]+\s*,\s*[0-9.%]+\s*(,\s*[0-9.%]+\s*)?\)$`)
)

// ValidateColor validates a CSS color value.
// Accepted forms are hex colors (#rgb, #rgba, #rrggbb, #rrggbbaa), named
// colors (e.g. "white", "transparent") and rgb()/rgba()/hsl()/hsla() with
// plain numeric arguments.
func ValidateColor(field, value string) error {
	v := strings.TrimSpace(value)
	if v == "" {
		return New(ErrCodeInvalidColor, "%s cannot be empty", field).WithField(field)
	}
	if hexColorRegex.MatchString(v) || namedColorRegex.MatchString(v) || funcColorRegex.MatchString(v) {
		return nil
	}
	return New(ErrCodeInvalidColor, "invalid %s: %q", field, value).WithField(field)
}

// ValidateIntRange checks that v lies within [min, max].
func ValidateIntRange(field string, v, min, max int) error {
	if v < min || v > max {
		return New(ErrCodeOutOfRange, "%s must be between %d and %d, got %d", field, min, max, v).WithField(field)
	}
	return nil
}

// ValidateFloatRange checks that v lies within [min, max]. NaN lies in no range.
func ValidateFloatRange(field string, v, min, max float64) error {
	if math.IsNaN(v) || v < min || v > max {
		return New(ErrCodeOutOfRange, "%s must be between %g and %g, got %g", field, min, max, v).WithField(field)
	}
	return nil
}
