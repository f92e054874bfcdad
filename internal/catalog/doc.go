// Package catalog provides an HTTP client for the remote character catalog.
//
// # Endpoints
//
//   - GET /character?page=N     paginated listing; info.next signals more pages
//   - GET /character/?name=TERM name filter; a 404 means "no matches"
//   - GET /character/{id}       single character; a 404 means ErrNotFound
//   - GET /character/{id,id}    several characters in one request
//
// # Failures
//
// Every error is a *Error whose Kind is one of ErrNetwork, ErrDecode or
// ErrNotFound, so callers classify with errors.Is:
//
//	page, err := client.FetchPage(ctx, 2)
//	switch {
//	case errors.Is(err, catalog.ErrDecode):
//		// malformed payload
//	case err != nil:
//		// unreachable, timed out, or non-success status
//	}
//
// A non-success response never yields a partially populated Page. Requests
// are bounded by the client timeout and expiry is reported as ErrNetwork.
// The client never retries; that is left to the user re-issuing the intent.
//
// # Tracing
//
// Each request runs inside a client span named "catalog.<op>" created from the
// global OpenTelemetry tracer provider. Without a registered provider the
// spans are no-ops.
package catalog
