package testutil

import (
	"net/http"

	"shelterhub/internal/platform/middleware"
)

// WithUser adds an authenticated identity to the request context. This
// simulates what the auth middleware would do for authenticated requests.
func WithUser(req *http.Request, userID, role string) *http.Request {
	return req.WithContext(middleware.WithUser(req.Context(), userID, role))
}

// WithClientMetadata adds client IP and User-Agent to the request context the
// way the metadata middleware would.
func WithClientMetadata(req *http.Request, clientIP, userAgent string) *http.Request {
	return req.WithContext(middleware.WithClientMetadata(req.Context(), clientIP, userAgent))
}
