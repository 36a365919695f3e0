package testutil

import (
	"context"
	"net/http"
)

// csrfTokenKey mirrors the context key gorilla/csrf stores the token under.
const csrfTokenKey = "gorilla.csrf.Token"

// WithCSRFToken puts a fixed token on the request so dashboard pages that
// embed csrf_token in the range form render without the CSRF middleware.
func WithCSRFToken(r *http.Request) *http.Request {
	ctx := context.WithValue(r.Context(), csrfTokenKey, "test-csrf-token-12345")
	return r.WithContext(ctx)
}
