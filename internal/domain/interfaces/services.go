package interfaces

import (
	"context"

	"crypto-quote-service/internal/domain/entities"
)

// QuoteService resuelve peticiones de cotización: autenticación, caché, proveedor y fallback.
// Un error de nivel petición (auth, cuota, nada disponible) aborta la respuesta completa.
type QuoteService interface {
	GetQuotes(ctx context.Context, apiKey string, symbols []string) (*entities.QuoteResult, error)
}

// Authenticator valida la credencial y consume una unidad de cuota
type Authenticator interface {
	Authenticate(ctx context.Context, apiKey string) (*entities.Credential, *entities.QuotaDecision, error)
}

// HealthChecker reporta el estado del almacén y la antigüedad de los datos
type HealthChecker interface {
	Check(ctx context.Context) *entities.HealthReport
}

// RefreshRunner ejecuta un ciclo completo de actualización
type RefreshRunner interface {
	Run(ctx context.Context) *entities.RefreshResult
}
