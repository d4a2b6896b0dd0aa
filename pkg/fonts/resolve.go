package fonts

// Resolution is the outcome of matching a requested weight/style against a
// family's variants.
type Resolution struct {
	Family      string
	Weight      Weight
	Style       Style
	Requested   Variant // variant that was asked for
	Known       bool    // family was present in the catalog
	Substituted bool    // Weight/Style differ from the request
}

// Variant returns the resolved variant string.
func (r Resolution) Variant() Variant {
	return r.Weight.Variant(r.Style)
}

// Resolve finds the variant of family to render for the requested weight
// and style.
//
// If family is not in the catalog the request passes through unchanged
// with Known=false. If the family lacks the requested variant, the first
// variant it lists is used instead and Substituted is set.
func Resolve(c Catalog, family string, w Weight, s Style) Resolution {
	res := Resolution{
		Family:    family,
		Weight:    w,
		Style:     s,
		Requested: w.Variant(s),
	}

	f, ok := c.Lookup(family)
	if !ok {
		return res
	}
	res.Known = true

	if f.HasVariant(res.Requested) {
		return res
	}

	res.Weight, res.Style = f.NormalizedVariants()[0].Split()
	res.Substituted = true
	return res
}
