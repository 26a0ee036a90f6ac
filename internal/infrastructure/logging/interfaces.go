package logging

import (
	"context"
)

// Logger define la interfaz principal para logging estructurado
type Logger interface {
	// Métodos básicos de logging por nivel
	Debug(ctx context.Context, message string, fields Fields)
	Info(ctx context.Context, message string, fields Fields)
	Warn(ctx context.Context, message string, fields Fields)
	Error(ctx context.Context, message string, fields Fields)

	// Métodos con error incluido
	InfoWithError(ctx context.Context, message string, err error, fields Fields)
	WarnWithError(ctx context.Context, message string, err error, fields Fields)
	ErrorWithError(ctx context.Context, message string, err error, fields Fields)

	// Configuración
	SetLevel(level LogLevel)
	GetLevel() LogLevel
}

// HTTPLogger especializado para logs relacionados con HTTP
type HTTPLogger interface {
	Logger

	RequestReceived(ctx context.Context, method, path, userAgent, remoteIP string)
	RequestCompleted(ctx context.Context, method, path string, statusCode int, duration float64)
	RequestFailed(ctx context.Context, method, path string, statusCode int, err error, duration float64)
}

// ExternalAPILogger especializado para logs de APIs externas
type ExternalAPILogger interface {
	Logger

	RequestStarted(ctx context.Context, service, endpoint, method string)
	RequestCompleted(ctx context.Context, service, endpoint string, statusCode int, duration float64)
	RequestFailed(ctx context.Context, service, endpoint string, statusCode int, err error, duration float64)
}

// CacheLogger especializado para logs relacionados con cache
type CacheLogger interface {
	Logger

	Hit(ctx context.Context, key string, operation string)
	Miss(ctx context.Context, key string, operation string)
	Set(ctx context.Context, key string, ttl float64)
	BatchWritten(ctx context.Context, count int, ttl float64)
	CacheError(ctx context.Context, operation, key string, err error)
}

// BusinessLogger especializado para logs de lógica de negocio
type BusinessLogger interface {
	Logger

	QuoteRequested(ctx context.Context, symbols []string)
	PriceServed(ctx context.Context, symbol string, price string, source string, stale bool)
	SymbolUnavailable(ctx context.Context, symbol string, reason string)
	RefreshCompleted(ctx context.Context, status string, symbolCount int, duration float64)
	RefreshFailed(ctx context.Context, status string, err error)
	ValidationFailed(ctx context.Context, input string, reason string)
}

// SecurityLogger especializado para logs relacionados con seguridad
type SecurityLogger interface {
	Logger

	AuthenticationFailed(ctx context.Context, apiKey string, reason string)
	QuotaExceeded(ctx context.Context, apiKey string, count, limit int64, retryAfter int)
	InvalidRequest(ctx context.Context, clientIP string, reason string)
}
