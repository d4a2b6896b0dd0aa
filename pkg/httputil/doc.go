// Package httputil provides HTTP utilities for the font catalog client.
//
// # Retry
//
// [Retry] wraps a request with automatic retry for transient failures:
//
//   - Network errors
//   - 5xx server errors
//   - 429 responses, waiting at least the server's Retry-After
//
// Only errors wrapped in [RetryableError] are retried; the delay doubles
// after each failed attempt:
//
//	err := httputil.Retry(ctx, 3, 500*time.Millisecond, func() error {
//	    return fetchCatalog(ctx)
//	})
package httputil
