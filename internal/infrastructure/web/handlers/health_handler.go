package handlers

import (
	"context"
	"net/http"

	"crypto-quote-service/internal/application/dto"
	"crypto-quote-service/internal/domain/entities"
)

// HealthReporter is implemented by services.HealthService
type HealthReporter interface {
	Check(ctx context.Context) *entities.HealthReport
	Ready(ctx context.Context) *entities.HealthReport
}

// HealthHandler maneja los endpoints de health check
type HealthHandler struct {
	health HealthReporter
	mapper *dto.QuoteMapper
}

// NewHealthHandler crea una nueva instancia del health handler
func NewHealthHandler(health HealthReporter) *HealthHandler {
	return &HealthHandler{
		health: health,
		mapper: dto.NewQuoteMapper(),
	}
}

// Health godoc
// @Summary Health check
// @Description Reports store reachability and the age of the newest cached price. Degraded (no data yet) still answers 200.
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse "Healthy or degraded"
// @Failure 503 {object} dto.HealthResponse "Store unreachable or prices too old"
// @Router /health [get]
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	h.write(w, r, h.health.Check(r.Context()))
}

// Ready godoc
// @Summary Readiness check
// @Description Same as /health plus an explicit store ping.
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse "Ready to receive traffic"
// @Failure 503 {object} dto.HealthResponse "Not ready"
// @Router /ready [get]
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	h.write(w, r, h.health.Ready(r.Context()))
}

func (h *HealthHandler) write(w http.ResponseWriter, r *http.Request, report *entities.HealthReport) {
	status := http.StatusOK
	if report.Status == entities.HealthUnhealthy {
		status = http.StatusServiceUnavailable
	}
	writeJSONResponse(w, r, status, h.mapper.ToHealthResponse(report))
}
