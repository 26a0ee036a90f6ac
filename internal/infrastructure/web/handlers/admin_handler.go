package handlers

import (
	"net/http"
	"time"

	"crypto-quote-service/internal/application/dto"
	"crypto-quote-service/internal/domain/apperror"
	"crypto-quote-service/internal/domain/entities"
	"crypto-quote-service/internal/domain/interfaces"
	"crypto-quote-service/internal/infrastructure/logging"
	"crypto-quote-service/internal/infrastructure/web/middleware"
)

// AdminHandler expone el refresh manual; usa la misma credencial y cuota que /prices
type AdminHandler struct {
	auth      interfaces.Authenticator
	refresher interfaces.RefreshRunner
	mapper    *dto.QuoteMapper
	now       func() time.Time
}

// NewAdminHandler creates the admin handler
func NewAdminHandler(auth interfaces.Authenticator, refresher interfaces.RefreshRunner) *AdminHandler {
	return &AdminHandler{
		auth:      auth,
		refresher: refresher,
		mapper:    dto.NewQuoteMapper(),
		now:       time.Now,
	}
}

// Refresh godoc
// @Summary Refresh every supported price now
// @Description Runs one refresh cycle against the provider and writes the whole symbol universe to the cache.
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.RefreshResponse
// @Failure 401 {object} dto.ErrorResponse "Missing, unknown or disabled API key"
// @Failure 409 {object} dto.ErrorResponse "A refresh is already running"
// @Failure 429 {object} dto.ErrorResponse "Rate limit exceeded"
// @Failure 500 {object} dto.ErrorResponse "Cache write failed"
// @Failure 502 {object} dto.ErrorResponse "Provider unreachable"
// @Router /api/v1/admin/refresh [post]
func (h *AdminHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if _, _, err := h.auth.Authenticate(ctx, middleware.APIKeyFromContext(ctx)); err != nil {
		writeErrorResponse(w, r, h.mapper, err)
		return
	}

	logging.Info(ctx, "Manual price refresh requested", nil)
	result := h.refresher.Run(ctx)

	switch result.Status {
	case entities.RefreshSuccess:
		writeJSONResponse(w, r, http.StatusOK, h.mapper.ToRefreshResponse(result, h.now()))
	case entities.RefreshUpstreamError:
		appErr := apperror.From(result.Err)
		if appErr.Code != apperror.CodeUpstream {
			appErr = apperror.Upstream(1, result.Err)
		}
		writeErrorResponse(w, r, h.mapper, appErr)
	case entities.RefreshSkipped:
		writeErrorResponse(w, r, h.mapper, apperror.Conflict("Price refresh already in progress"))
	default:
		appErr := apperror.From(result.Err)
		if appErr.Code != apperror.CodeStore {
			appErr = apperror.Store("put_batch", result.Err, false)
		}
		writeErrorResponse(w, r, h.mapper, appErr)
	}
}
