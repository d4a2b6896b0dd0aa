package fonts

import "sort"

// DefaultFamilies is offered when no catalog could be loaded.
var DefaultFamilies = []string{"Arial"}

// Family is one entry of the Google Fonts catalog.
type Family struct {
	Name     string   `json:"family"`
	Variants []string `json:"variants"`
	Category string   `json:"category,omitempty"`
	Subsets  []string `json:"subsets,omitempty"`
	Version  string   `json:"version,omitempty"`
}

// NormalizedVariants returns the family's variants with legacy aliases
// mapped to numeric form, preserving catalog order. A family that lists
// no variants is treated as offering "400" only.
func (f Family) NormalizedVariants() []Variant {
	if len(f.Variants) == 0 {
		return []Variant{Variant(Weight400)}
	}
	out := make([]Variant, len(f.Variants))
	for i, v := range f.Variants {
		out[i] = NormalizeVariant(v)
	}
	return out
}

// HasVariant reports whether v is among the family's normalized variants.
func (f Family) HasVariant(v Variant) bool {
	for _, have := range f.NormalizedVariants() {
		if have == v {
			return true
		}
	}
	return false
}

// Catalog is an ordered list of font families. A Catalog is never mutated
// after it has been fetched and may be shared between goroutines.
type Catalog []Family

// Lookup finds a family by exact name.
func (c Catalog) Lookup(name string) (Family, bool) {
	for _, f := range c {
		if f.Name == name {
			return f, true
		}
	}
	return Family{}, false
}

// Names returns the family names sorted alphabetically.
func (c Catalog) Names() []string {
	names := make([]string, len(c))
	for i, f := range c {
		names[i] = f.Name
	}
	sort.Strings(names)
	return names
}

// FamilyNames returns the catalog's family names, or a copy of
// [DefaultFamilies] when the catalog is empty.
func FamilyNames(c Catalog) []string {
	if len(c) == 0 {
		return append([]string(nil), DefaultFamilies...)
	}
	return c.Names()
}
