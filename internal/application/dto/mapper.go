package dto

import (
	"encoding/json"
	"time"

	"crypto-quote-service/internal/domain/apperror"
	"crypto-quote-service/internal/domain/entities"
)

const (
	priceDecimals  = 2
	changeDecimals = 1
)

// QuoteMapper maneja la conversión entre entidades del dominio y DTOs.
// Es el único lugar donde se redondea.
type QuoteMapper struct{}

// NewQuoteMapper crea una nueva instancia del mapper
func NewQuoteMapper() *QuoteMapper {
	return &QuoteMapper{}
}

// FormatTimestamp renders t as RFC 3339 in UTC with a Z suffix
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// ToPriceEntry convierte un snapshot en la entrada pública
func (m *QuoteMapper) ToPriceEntry(snapshot *entities.PriceSnapshot) PriceEntry {
	name := snapshot.DisplayName
	if name == "" {
		name = entities.DisplayNameFor(snapshot.Symbol)
	}
	return PriceEntry{
		Symbol:      snapshot.Symbol,
		Name:        name,
		Price:       json.Number(snapshot.Price.StringFixed(priceDecimals)),
		Change24h:   json.Number(snapshot.Change24h.StringFixed(changeDecimals)),
		MarketCap:   snapshot.MarketCap,
		LastUpdated: FormatTimestamp(snapshot.LastUpdated),
	}
}

// ToPricesResponse mantiene el orden de la petición; los errores por símbolo van aparte
func (m *QuoteMapper) ToPricesResponse(result *entities.QuoteResult) *PricesResponse {
	resp := &PricesResponse{
		Data:      make([]PriceEntry, 0, len(result.Symbols)),
		Timestamp: FormatTimestamp(result.GeneratedAt),
	}
	for _, symbol := range result.Symbols {
		r, ok := result.Results[symbol]
		if !ok {
			continue
		}
		if r.OK() {
			resp.Data = append(resp.Data, m.ToPriceEntry(r.Snapshot))
			if r.Stale {
				resp.Stale = append(resp.Stale, symbol)
			}
			continue
		}
		if r.Err != nil {
			resp.Errors = append(resp.Errors, SymbolError{
				Symbol:  symbol,
				Code:    string(r.Err.Code),
				Message: r.Err.Message,
			})
		}
	}
	return resp
}

// ToErrorResponse convierte un error del dominio; los internos no exponen detalles
func (m *QuoteMapper) ToErrorResponse(err *apperror.Error, requestID string) *ErrorResponse {
	if requestID == "" {
		requestID = err.CorrelationID
	}
	resp := &ErrorResponse{
		Error:     err.Message,
		Code:      string(err.Code),
		Timestamp: FormatTimestamp(err.Timestamp),
		RequestID: requestID,
	}
	if err.Code != apperror.CodeInternal && err.Code != apperror.CodeStore && len(err.Details) > 0 {
		resp.Details = err.Details
	}
	if err.Code == apperror.CodeQuotaExceeded {
		retryAfter := err.RetryAfterSeconds
		resp.RetryAfter = &retryAfter
	}
	return resp
}

// ToHealthResponse convierte el reporte de salud
func (m *QuoteMapper) ToHealthResponse(report *entities.HealthReport) *HealthResponse {
	resp := &HealthResponse{
		Status:    string(report.Status),
		Timestamp: FormatTimestamp(report.Timestamp),
		Checks: HealthChecks{
			Store:           "ok",
			CacheAgeSeconds: report.CacheAgeSeconds,
		},
	}
	if !report.StoreOK {
		resp.Checks.Store = "error"
		resp.Checks.StoreError = report.StoreError
	}
	if report.LastPriceUpdate != nil {
		resp.Checks.LastPriceUpdate = FormatTimestamp(*report.LastPriceUpdate)
	}
	return resp
}

// ToRefreshResponse convierte el resultado de un refresh exitoso
func (m *QuoteMapper) ToRefreshResponse(result *entities.RefreshResult, now time.Time) *RefreshResponse {
	resp := &RefreshResponse{
		Message:    "Prices updated successfully",
		PriceCount: result.SymbolCount,
		Timestamp:  FormatTimestamp(now),
	}
	if !result.LastUpdated.IsZero() {
		resp.LastUpdated = FormatTimestamp(result.LastUpdated)
	}
	return resp
}
