package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"crypto-quote-service/internal/infrastructure/logging"
)

// Patrones comunes de ataques
var suspiciousPatterns = []string{
	"../",
	"<script",
	"select ",
	"union ",
	"drop ",
	"exec(",
	"eval(",
}

// LoggingMiddleware logs the received request at debug detail and reports
// suspicious request patterns to the security logger.
// RequestTracingMiddleware must run first so the request id is in the context.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		clientIP := ClientIP(r)

		logging.HTTP().RequestReceived(ctx, r.Method, r.URL.Path, r.UserAgent(), clientIP)

		logging.Debug(ctx, "Processing HTTP request", logging.Fields{
			"headers":              extractImportantHeaders(r),
			logging.FieldHTTPQuery: r.URL.RawQuery,
			"content_length":       r.ContentLength,
		})

		if isSuspiciousRequest(r) {
			logging.Security().InvalidRequest(ctx, clientIP, "unusual_request_pattern")
		}

		next.ServeHTTP(w, r)
	})
}

// extractImportantHeaders devuelve headers útiles para debug; nunca la API key
func extractImportantHeaders(r *http.Request) map[string]string {
	headers := make(map[string]string)
	for _, header := range []string{"Content-Type", "Accept", "X-Forwarded-For", "X-Real-IP"} {
		if value := r.Header.Get(header); value != "" {
			headers[header] = value
		}
	}
	return headers
}

func isSuspiciousRequest(r *http.Request) bool {
	path := strings.ToLower(r.URL.Path)
	query := strings.ToLower(r.URL.RawQuery)
	if unescaped, err := url.QueryUnescape(r.URL.RawQuery); err == nil {
		query = strings.ToLower(unescaped)
	}

	for _, pattern := range suspiciousPatterns {
		if strings.Contains(path, pattern) || strings.Contains(query, pattern) {
			return true
		}
	}

	// Content-Length inusualmente grande para una API de solo lectura
	return r.ContentLength > 1024*1024
}
