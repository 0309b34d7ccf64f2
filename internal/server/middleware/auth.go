package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/oskars/refinerywatch/internal/auth"
	"github.com/oskars/refinerywatch/internal/server/response"
)

// APIKeyConfig holds the commit proxy's API-key settings.
type APIKeyConfig struct {
	Enabled    bool
	APIKey     string
	HeaderName string
}

// DefaultAPIKeyConfig returns a disabled configuration reading X-API-Key.
func DefaultAPIKeyConfig() APIKeyConfig {
	return APIKeyConfig{HeaderName: "X-API-Key"}
}

// APIKey rejects requests that do not present the configured key in the
// configured header or as a bearer token.
func APIKey(config APIKeyConfig, logger *zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !config.Enabled {
				next.ServeHTTP(w, r)
				return
			}

			key := extractAPIKey(r, config.HeaderName)
			if key == "" || config.APIKey == "" ||
				subtle.ConstantTimeCompare([]byte(key), []byte(config.APIKey)) != 1 {
				logger.Warn().
					Str("path", r.URL.Path).
					Str("remote_addr", r.RemoteAddr).
					Bool("key_provided", key != "").
					Msg("API key authentication failed")
				response.Raw(w, http.StatusUnauthorized, map[string]string{
					"error":   "Invalid or missing API key",
					"details": "Provide a valid API key in the " + config.HeaderName + " header",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// extractAPIKey reads the key from header, falling back to Authorization.
func extractAPIKey(r *http.Request, header string) string {
	if key := r.Header.Get(header); key != "" {
		return key
	}
	authz := r.Header.Get("Authorization")
	if after, ok := strings.CutPrefix(authz, "Bearer "); ok {
		return after
	}
	return authz
}

// RequireOperator lets only requests whose context the authorizer accepts
// through. It must run after the session middleware.
func RequireOperator(a auth.Authorizer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !a.Authorized(r.Context()) {
				response.Unauthorized(w, "Login required", "Sign in to edit refinery data")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
