// Package httputil provides HTTP utilities for the npm registry client.
//
// # Retry
//
// [Retry] wraps HTTP requests with automatic retry for transient failures:
//
//   - Network errors
//   - 5xx server errors
//
// Only errors wrapped in [RetryableError] are retried; anything else is
// treated as permanent and returned immediately. The backoff doubles after
// each failed attempt.
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    return client.fetch(ctx, pkg, &info)
//	})
//
// Durable response caching lives in the kvstore package; registry clients
// combine the two (check the store, fetch with retry on a miss).
package httputil
