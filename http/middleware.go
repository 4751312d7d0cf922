package http

import (
	"crypto/subtle"
	"net/http"
)

// RequireStoreConfig rejects every request with a fixed 500 when the
// upstream store is not configured. It runs before any /api routing
// logic so even unknown API paths report the configuration problem.
func RequireStoreConfig(configured bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !configured {
				WriteError(w, http.StatusInternalServerError, "Missing configuration")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AdminOnly enforces the shared admin bearer token with a constant-time
// comparison. An empty configured token denies everything.
func AdminOnly(token string) func(http.Handler) http.Handler {
	expected := []byte("Bearer " + token)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := []byte(r.Header.Get("Authorization"))
			if token == "" || subtle.ConstantTimeCompare(got, expected) != 1 {
				WriteError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
