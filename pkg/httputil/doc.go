// Package httputil provides retry helpers for the backend HTTP client.
//
// [Retry] re-runs an operation with exponential backoff, but only for errors
// the caller marked as transient with [Retryable]:
//
//   - network errors (connection refused, timeouts)
//   - 5xx server errors
//
// Everything else (4xx, decode errors) is returned on the first attempt.
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    resp, err := http.Get(url)
//	    if err != nil {
//	        return httputil.Retryable(err)
//	    }
//	    ...
//	})
//
// Only the data collaborator retries; the collection view itself never
// re-requests a page on failure.
package httputil
