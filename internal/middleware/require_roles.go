package middleware

import (
	"encoding/json"
	"net/http"
	"strings"
)

// RequireRoles corta con 403 si el rol autenticado no está en el set permitido.
// Post-autenticación es seguro revelar el rol del caller y el set permitido.
func RequireRoles(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := GetClaims(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "Token d'authentification manquant")
				return
			}

			if _, ok := allowed[claims.Role]; !ok {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"error":    "Accès refusé. Rôles autorisés : " + strings.Join(roles, ", "),
					"userRole": claims.Role,
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
