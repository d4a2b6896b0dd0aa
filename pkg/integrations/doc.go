// Package integrations provides HTTP clients for remote font APIs.
//
// # Overview
//
// Each remote service has its own subpackage:
//
//   - [googlefonts]: the Google Fonts Developer API (webfonts catalog)
//
// # Shared Infrastructure
//
// The [Client] type provides shared HTTP functionality for those clients:
//   - JSON GET requests with default and per-request headers
//   - Retry with exponential backoff for transport errors and 5xx responses
//   - Response caching in any [cache.Cache] backend, keyed by namespace
//   - HTTP events reported through [observability.HTTP]
//
// Failures are classified with the sentinel errors [ErrNotFound] and
// [ErrNetwork]; callers match them with errors.Is.
//
// [googlefonts]: github.com/ru4ls/ComfyUI-Google-Fonts/pkg/integrations/googlefonts
// [cache.Cache]: github.com/ru4ls/ComfyUI-Google-Fonts/pkg/cache.Cache
// [observability.HTTP]: github.com/ru4ls/ComfyUI-Google-Fonts/pkg/observability.HTTP
package integrations
