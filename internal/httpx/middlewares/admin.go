package middlewares

import (
	"net/http"
)

// TokenChecker is satisfied by the admin gate.
type TokenChecker interface {
	Authorized(token string) bool
}

// RequireAdmin rejects requests that do not carry a live admin session
// token in the X-Admin-Token header.
func RequireAdmin(gate TokenChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !gate.Authorized(r.Header.Get("X-Admin-Token")) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"success":false,"error":"admin session required"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
