package auth

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"mediagate/internal/response"
)

type Config struct {
	APIKey string
}

// APIKeyMiddleware validates API key authentication
func APIKeyMiddleware(config *Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Skip auth if no API key configured (for development)
			if config.APIKey == "" {
				next.ServeHTTP(w, r)
				return
			}

			// Check Authorization header (Bearer token)
			authHeader := r.Header.Get("Authorization")
			if authHeader != "" {
				if strings.HasPrefix(authHeader, "Bearer ") {
					token := strings.TrimPrefix(authHeader, "Bearer ")
					if token == config.APIKey {
						next.ServeHTTP(w, r)
						return
					}
				}
			}

			// Check X-API-Key header
			if r.Header.Get("X-API-Key") == config.APIKey {
				next.ServeHTTP(w, r)
				return
			}

			log.Warn().Str("path", r.URL.Path).Msg("rejected request with invalid API key")
			response.WriteError(w, http.StatusUnauthorized, response.ErrUnauthorized,
				"Invalid or missing API key",
				"Provide API key via Authorization: Bearer <key> or X-API-Key: <key>")
		})
	}
}
