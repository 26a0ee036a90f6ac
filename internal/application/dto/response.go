package dto

import "encoding/json"

// PriceEntry represents one quoted asset in the response
// @Description Current price data for a cryptocurrency
type PriceEntry struct {
	Symbol      string      `json:"symbol" example:"BTC" validate:"required"`                          // Ticker symbol
	Name        string      `json:"name" example:"Bitcoin" validate:"required"`                        // Display name
	Price       json.Number `json:"price" example:"43250.50" swaggertype:"number" validate:"required"` // Price in USD, 2 decimals
	Change24h   json.Number `json:"change24h" example:"2.3" swaggertype:"number" validate:"required"`  // 24h change percentage, 1 decimal
	MarketCap   int64       `json:"marketCap" example:"845000000000" validate:"required"`              // Market capitalization in USD
	LastUpdated string      `json:"lastUpdated" example:"2024-01-15T10:30:00Z" validate:"required"`    // When the price was fetched upstream
}

// SymbolError represents an error for a specific symbol
// @Description Error when retrieving the price of one symbol
type SymbolError struct {
	Symbol  string `json:"symbol" example:"DOGE" validate:"required"`                             // Symbol that failed
	Code    string `json:"code" example:"SERVICE_UNAVAILABLE" validate:"required"`                // Error code
	Message string `json:"message" example:"Price data unavailable for DOGE" validate:"required"` // Human readable message
}

// PricesResponse represents the response from /api/v1/prices
// @Description Prices for the requested symbols
type PricesResponse struct {
	Data      []PriceEntry  `json:"data" validate:"required"`                                     // Successfully resolved prices, in request order
	Timestamp string        `json:"timestamp" example:"2024-01-15T10:30:05Z" validate:"required"` // When the response was generated
	Stale     []string      `json:"stale,omitempty" example:"ADA"`                                // Symbols served past their freshness window
	Errors    []SymbolError `json:"errors,omitempty"`                                             // Per-symbol errors on partial success
}

// ErrorResponse represents a standard error response for endpoints
// @Description Standard error response for endpoints
type ErrorResponse struct {
	Error      string                 `json:"error" example:"Invalid API key" validate:"required"`                          // Human readable message
	Code       string                 `json:"code" example:"UNAUTHORIZED" validate:"required"`                              // Stable machine readable code
	Timestamp  string                 `json:"timestamp" example:"2024-01-15T10:30:05Z" validate:"required"`                 // When the error happened
	RequestID  string                 `json:"requestId" example:"6f1c2a9e-3b7d-4c55-9f0e-2a8d1b4c7e90" validate:"required"` // Correlation identifier
	Details    map[string]interface{} `json:"details,omitempty"`                                                            // Additional context
	RetryAfter *int                   `json:"retryAfter,omitempty" example:"42"`                                            // Seconds until the quota resets
}

// HealthChecks holds individual check results
type HealthChecks struct {
	Store           string `json:"store" example:"ok" enums:"ok,error"`                      // Store connectivity
	StoreError      string `json:"storeError,omitempty"`                                     // Store failure detail
	LastPriceUpdate string `json:"lastPriceUpdate,omitempty" example:"2024-01-15T10:30:00Z"` // Most recent price across the universe
	CacheAgeSeconds *int64 `json:"cacheAgeSeconds,omitempty" example:"120"`                  // Age of the most recent price
}

// HealthResponse represents the health check response with service status
// @Description Health check response with service status
type HealthResponse struct {
	Status    string       `json:"status" example:"healthy" validate:"required" enums:"healthy,degraded,unhealthy"` // Overall service status
	Timestamp string       `json:"timestamp" example:"2024-01-15T10:30:05Z" validate:"required"`                    // When the check was performed
	Checks    HealthChecks `json:"checks"`                                                                          // Individual checks
}

// RefreshResponse represents the result of a manual refresh
// @Description Result of a manual price refresh
type RefreshResponse struct {
	Message     string `json:"message" example:"Prices updated successfully" validate:"required"`
	PriceCount  int    `json:"priceCount" example:"20"`
	LastUpdated string `json:"lastUpdated,omitempty" example:"2024-01-15T10:30:00Z"`
	Timestamp   string `json:"timestamp" example:"2024-01-15T10:30:05Z" validate:"required"`
}
