package middleware

import (
	"context"
	"net/http"
	"strings"

	"crypto-quote-service/internal/infrastructure/config"
	"crypto-quote-service/internal/infrastructure/logging"
)

const DefaultAPIKeyHeader = "X-API-Key"

type apiKeyContextKey struct{}

// WithAPIKey stores the presented API key in the context
func WithAPIKey(ctx context.Context, apiKey string) context.Context {
	return context.WithValue(ctx, apiKeyContextKey{}, apiKey)
}

// APIKeyFromContext returns the presented API key, or "" if none
func APIKeyFromContext(ctx context.Context) string {
	if key, ok := ctx.Value(apiKeyContextKey{}).(string); ok {
		return key
	}
	return ""
}

// AuthMiddleware extrae la API key del header configurado. No la valida:
// la validación y la cuota ocurren en el núcleo, antes de cualquier trabajo.
type AuthMiddleware struct {
	config config.AuthConfig
}

// NewAuthMiddleware creates a new auth middleware instance
func NewAuthMiddleware(cfg config.AuthConfig) *AuthMiddleware {
	if cfg.HeaderName == "" {
		cfg.HeaderName = DefaultAPIKeyHeader
	}
	return &AuthMiddleware{config: cfg}
}

// Handler wraps next, placing the API key in the request context
func (am *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if am.isUnauthenticatedPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		apiKey := strings.TrimSpace(r.Header.Get(am.config.HeaderName))
		logging.Debug(r.Context(), "API key extracted", logging.Fields{
			logging.FieldAPIKey: logging.MaskAPIKey(apiKey),
			logging.FieldPath:   r.URL.Path,
			"api_key_present":   apiKey != "",
		})

		next.ServeHTTP(w, r.WithContext(WithAPIKey(r.Context(), apiKey)))
	})
}

// isUnauthenticatedPath soporta rutas exactas y prefijos terminados en /
func (am *AuthMiddleware) isUnauthenticatedPath(path string) bool {
	for _, unauthPath := range am.config.UnauthPaths {
		if path == unauthPath {
			return true
		}
		if strings.HasSuffix(unauthPath, "/") && strings.HasPrefix(path, unauthPath) {
			return true
		}
	}
	return false
}
