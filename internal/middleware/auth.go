package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/refverify/engine/internal/usecase"
)

type contextKey string

const callerLabelKey contextKey = "callerLabel"

// AuthMiddleware gates the verification HTTP API behind a bearer
// credential: either a JWT service token or an API key, depending on
// which the deployment is configured with.
type AuthMiddleware struct {
	authUsecase    *usecase.AuthUsecase
	bootstrapToken string
}

// NewAuthMiddleware builds the middleware. bootstrapToken is the static
// fallback credential used when no API-key store is configured.
func NewAuthMiddleware(authUsecase *usecase.AuthUsecase, bootstrapToken string) *AuthMiddleware {
	return &AuthMiddleware{authUsecase: authUsecase, bootstrapToken: bootstrapToken}
}

// Authenticate accepts (when configured) the static bootstrap token, a
// valid service JWT, or a valid API key, checked in that order.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeUnauthorized(w, "Authorization header required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			writeUnauthorized(w, "Invalid authorization header format")
			return
		}
		credential := parts[1]

		if m.bootstrapToken != "" && credential == m.bootstrapToken {
			ctx := context.WithValue(r.Context(), callerLabelKey, "bootstrap")
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		if claims, err := m.authUsecase.ValidateServiceToken(credential); err == nil {
			ctx := context.WithValue(r.Context(), callerLabelKey, claims.Label)
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		if key, err := m.authUsecase.AuthenticateAPIKey(r.Context(), credential); err == nil {
			ctx := context.WithValue(r.Context(), callerLabelKey, key.Label)
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		writeUnauthorized(w, "Invalid or expired credential")
	})
}

// AdminOnly gates the API-key issuance endpoint: only the bootstrap
// token (the operator's own credential) may mint new keys.
func (m *AuthMiddleware) AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		label, _ := CallerLabel(r.Context())
		if label != "bootstrap" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]string{"error": "admin access required"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeUnauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// CallerLabel returns the identifying label of the authenticated caller,
// set by Authenticate.
func CallerLabel(ctx context.Context) (string, bool) {
	label, ok := ctx.Value(callerLabelKey).(string)
	return label, ok
}
