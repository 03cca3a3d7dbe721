package middleware

import (
	"net/http"
	"strings"

	"pet-boarding/internal/ports/auth"
)

// RequireRole corta el request si no hay claims (401) o si el rol
// no está en la allow-list (403).
func RequireRole(allowed ...auth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := GetClaims(r.Context())
			if !ok || strings.TrimSpace(claims.UserID) == "" {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			for _, role := range allowed {
				if claims.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			http.Error(w, "not a valid role", http.StatusForbidden)
		})
	}
}
