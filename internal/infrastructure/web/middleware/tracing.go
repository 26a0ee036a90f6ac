package middleware

import (
	"net/http"
	"strings"
	"time"

	"crypto-quote-service/internal/infrastructure/logging"
)

const (
	RequestIDHeader = "X-Request-ID"
	maxRequestIDLen = 128
)

// responseWriter captura el status code y los bytes escritos
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    int64
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if rw.statusCode == 0 {
		rw.statusCode = http.StatusOK
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// RequestTracingMiddleware assigns the correlation id used by every log line
// and error body of the request, and logs the completion of the request.
func RequestTracingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := inboundRequestID(r)
		if requestID == "" {
			requestID = logging.GenerateRequestID()
		}

		startTime := time.Now()
		remoteIP := ClientIP(r)
		ctx := logging.WithRequestID(r.Context(), requestID)
		ctx = logging.WithStartTime(ctx, startTime)
		ctx = logging.WithRemoteIP(ctx, remoteIP)

		w.Header().Set(RequestIDHeader, requestID)

		wrapped := &responseWriter{ResponseWriter: w}
		r = r.WithContext(ctx)
		next.ServeHTTP(wrapped, r)

		if wrapped.statusCode == 0 {
			wrapped.statusCode = http.StatusOK
		}
		durationMs := float64(time.Since(startTime).Nanoseconds()) / 1e6
		logging.HTTP().RequestCompleted(ctx, r.Method, r.URL.Path, wrapped.statusCode, durationMs)
	})
}

// inboundRequestID acepta un id del cliente solo si es razonable
func inboundRequestID(r *http.Request) string {
	id := strings.TrimSpace(r.Header.Get(RequestIDHeader))
	if id == "" || len(id) > maxRequestIDLen {
		return ""
	}
	for _, c := range id {
		if c < 0x21 || c > 0x7e {
			return ""
		}
	}
	return id
}

// ClientIP extrae la IP real del cliente considerando proxies
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		// X-Forwarded-For puede contener múltiples IPs, tomar la primera
		if idx := strings.Index(forwarded, ","); idx != -1 {
			forwarded = forwarded[:idx]
		}
		return strings.TrimSpace(forwarded)
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	return r.RemoteAddr
}
