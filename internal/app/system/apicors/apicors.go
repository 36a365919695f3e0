// Package apicors provides CORS middleware for the read-only outcomes API.
//
// The JSON endpoints carry no cookies and accept no writes, so they can be
// opened to other origins (reporting tools, notebooks) without the session
// cookie concerns that apply to the HTML pages.
package apicors

import (
	"net/http"
	"strings"
)

const (
	allowMethods = "GET, OPTIONS"
	allowHeaders = "Accept, Content-Type, X-Request-Id"
	maxAge       = "86400"
)

// Middleware returns CORS middleware for the API routes.
//
// With no origins, or with "*" among them, any origin may read. Otherwise
// only the listed origins get an Access-Control-Allow-Origin header and the
// browser blocks the rest. Preflight OPTIONS requests are answered with 204.
func Middleware(origins ...string) func(http.Handler) http.Handler {
	allowAll := len(origins) == 0
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "" {
			continue
		}
		if o == "*" {
			allowAll = true
		}
		allowed[o] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			if allowAll {
				h.Set("Access-Control-Allow-Origin", "*")
			} else if origin := r.Header.Get("Origin"); origin != "" {
				h.Add("Vary", "Origin")
				if _, ok := allowed[origin]; ok {
					h.Set("Access-Control-Allow-Origin", origin)
				}
			}
			h.Set("Access-Control-Allow-Methods", allowMethods)
			h.Set("Access-Control-Allow-Headers", allowHeaders)
			h.Set("Access-Control-Max-Age", maxAge)

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ParseOrigins splits a comma-separated origin list from configuration.
func ParseOrigins(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
