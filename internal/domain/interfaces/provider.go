package interfaces

import (
	"context"

	"crypto-quote-service/internal/domain/entities"
)

// PriceProvider obtiene cotizaciones del proveedor externo.
// Los símbolos ausentes en la respuesta se omiten del resultado.
type PriceProvider interface {
	FetchPrices(ctx context.Context, symbols []string) ([]*entities.PriceSnapshot, error)
}
