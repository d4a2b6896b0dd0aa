// Package fonts models the Google Fonts catalog and resolves requested
// weight/style pairs against a family's available variants.
//
// A variant is a weight numeral optionally followed by "italic", e.g. "700"
// or "300italic". The catalog API still reports the legacy aliases
// "regular" and "italic"; [NormalizeVariant] maps them to "400" and
// "400italic" before any comparison.
//
// [Resolve] never fails: an unknown family passes through unchanged, and a
// missing variant falls back to the first variant the family offers.
//
//	res := fonts.Resolve(catalog, "Roboto", fonts.Weight900, fonts.StyleItalic)
//	if res.Substituted {
//	    logger.Warn("variant not available", "requested", res.Requested, "using", res.Variant())
//	}
package fonts
