// Package middleware holds the HTTP middleware shared by all routes.
package middleware

import "net/http"

// CORS restricts cross-origin access to an explicit allow-list of
// origins. Allowed callers may use GET, POST, PATCH, DELETE and send a
// Content-Type header; any other origin receives no CORS headers at
// all, which makes the browser refuse the response.
//
// Preflight (OPTIONS) requests are answered here and never reach the
// wrapped handler.
func CORS(allowedOrigins []string, next http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = struct{}{}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Responses differ per Origin, so caches must key on it.
		w.Header().Add("Vary", "Origin")

		origin := r.Header.Get("Origin")
		if _, ok := allowed[origin]; ok {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
