package testutil

import (
	"context"
	"net/http"
	"time"

	"mediconnect/pkg/requestcontext"
)

// WithOfficer adds an authenticated officer ID to the request context,
// simulating what the auth middleware does for officer endpoints.
func WithOfficer(req *http.Request, officerID string) *http.Request {
	ctx := requestcontext.WithOfficerID(req.Context(), officerID)
	return req.WithContext(ctx)
}

// WithRequestID adds a request correlation ID to the request context.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	ctx := requestcontext.WithRequestID(req.Context(), requestID)
	return req.WithContext(ctx)
}

// WithFixedTime pins the request-scoped clock.
func WithFixedTime(req *http.Request, t time.Time) *http.Request {
	ctx := requestcontext.WithTime(req.Context(), t)
	return req.WithContext(ctx)
}

// WithContextValue adds an arbitrary key-value pair to the request context.
func WithContextValue(req *http.Request, key, value any) *http.Request {
	ctx := context.WithValue(req.Context(), key, value)
	return req.WithContext(ctx)
}
