// Package googlefonts fetches the font family catalog from the Google Fonts
// Developer API.
//
// The catalog is requested once per process:
//
//	GET https://www.googleapis.com/webfonts/v1/webfonts?sort=alpha&key=<API_KEY>
//
// and only the family name and variant list of each item are kept. A
// successful result is stored in a write-once slot on the [Client]; later
// calls return it without touching the network. Failures are logged and
// reported as an empty catalog so that callers can fall back to
// [fonts.DefaultFamilies].
//
// An optional [cache.Cache] backend persists the decoded catalog across
// processes. Cache keys never include the API key.
//
// [fonts.DefaultFamilies]: github.com/ru4ls/ComfyUI-Google-Fonts/pkg/fonts.DefaultFamilies
// [cache.Cache]: github.com/ru4ls/ComfyUI-Google-Fonts/pkg/cache.Cache
package googlefonts
