package middleware

import "net/http"

// NoStore is the directive token endpoints must send so credentials are never
// cached by intermediaries.
const NoStore = "no-store"

// CacheControl sets the Cache-Control header on GET and POST responses.
func CacheControl(directive string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodPost {
				w.Header().Set("Cache-Control", directive)
			}
			next.ServeHTTP(w, r)
		})
	}
}
