package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"crypto-quote-service/internal/application/dto"
	"crypto-quote-service/internal/domain/entities"
	"crypto-quote-service/internal/domain/interfaces"
	"crypto-quote-service/internal/infrastructure/logging"
	"crypto-quote-service/internal/infrastructure/web/middleware"
)

// PricesHandler sirve las cotizaciones a través del orquestador
type PricesHandler struct {
	quotes interfaces.QuoteService
	mapper *dto.QuoteMapper
}

// NewPricesHandler creates the prices handler
func NewPricesHandler(quotes interfaces.QuoteService) *PricesHandler {
	return &PricesHandler{
		quotes: quotes,
		mapper: dto.NewQuoteMapper(),
	}
}

// GetPrices godoc
// @Summary Get prices for a list of symbols
// @Description Returns the current price, 24h change and market cap of each requested symbol. Without the symbols parameter every supported symbol is returned. Price is rounded to 2 decimals and the 24h change to 1.
// @Tags prices
// @Produce json
// @Param symbols query string false "Comma separated symbols, e.g. BTC,ETH"
// @Security ApiKeyAuth
// @Success 200 {object} dto.PricesResponse "Every symbol resolved"
// @Success 206 {object} dto.PricesResponse "Some symbols could not be resolved"
// @Failure 400 {object} dto.ErrorResponse "No supported symbol requested"
// @Failure 401 {object} dto.ErrorResponse "Missing, unknown or disabled API key"
// @Failure 429 {object} dto.ErrorResponse "Rate limit exceeded"
// @Failure 503 {object} dto.ErrorResponse "No price data available"
// @Router /api/v1/prices [get]
func (h *PricesHandler) GetPrices(w http.ResponseWriter, r *http.Request) {
	symbols := dto.ParseSymbolsParam(r.URL.Query().Get("symbols"))
	h.serve(w, r, symbols)
}

// GetPrice godoc
// @Summary Get the price of one symbol
// @Tags prices
// @Produce json
// @Param symbol path string true "Symbol, e.g. BTC"
// @Security ApiKeyAuth
// @Success 200 {object} dto.PricesResponse
// @Failure 400 {object} dto.ErrorResponse "Unsupported symbol"
// @Failure 401 {object} dto.ErrorResponse "Missing, unknown or disabled API key"
// @Failure 429 {object} dto.ErrorResponse "Rate limit exceeded"
// @Failure 503 {object} dto.ErrorResponse "No price data available"
// @Router /api/v1/prices/{symbol} [get]
func (h *PricesHandler) GetPrice(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]
	h.serve(w, r, []string{symbol})
}

func (h *PricesHandler) serve(w http.ResponseWriter, r *http.Request, symbols []string) {
	ctx := r.Context()
	apiKey := middleware.APIKeyFromContext(ctx)

	result, err := h.quotes.GetQuotes(ctx, apiKey, symbols)
	if err != nil {
		writeErrorResponse(w, r, h.mapper, err)
		return
	}

	status := statusFor(result)
	logging.Debug(ctx, "Quote request served", logging.Fields{
		logging.FieldSymbolCount: len(result.Symbols),
		"served":                 result.SuccessCount(),
		logging.FieldStale:       result.HasStale(),
	})
	writeJSONResponse(w, r, status, h.mapper.ToPricesResponse(result))
}

// statusFor es el código HTTP para un resultado sin error de nivel petición
func statusFor(result *entities.QuoteResult) int {
	if result.IsPartial() {
		return http.StatusPartialContent
	}
	return http.StatusOK
}
