// Package httputil fetches remote inputs over HTTP.
//
// # Overview
//
// Graph data, themes, sequences, and overlays can be referenced by URL
// instead of a local path. This package provides the shared fetch
// machinery the CLI uses for those references:
//
//   - [IsURL]: Decide whether an input reference is remote
//   - [Fetch]: GET a document with automatic retry for transient failures
//
// # Retry
//
// [Fetch] retries network errors, 5xx responses, and 429 rate limit
// responses with exponential backoff (3 attempts, 1 second base delay).
// Missing documents surface as [ErrNotFound] and are never retried.
//
// # Usage
//
//	if httputil.IsURL(ref) {
//	    raw, err := httputil.Fetch(ctx, nil, ref)
//	    ...
//	}
package httputil
