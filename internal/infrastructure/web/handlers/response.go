package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"crypto-quote-service/internal/application/dto"
	"crypto-quote-service/internal/domain/apperror"
	"crypto-quote-service/internal/infrastructure/logging"
)

// writeJSONResponse escribe una respuesta JSON
func writeJSONResponse(w http.ResponseWriter, r *http.Request, statusCode int, data interface{}) {
	body, err := json.Marshal(data)
	if err != nil {
		logging.ErrorWithError(r.Context(), "Error encoding response", err, nil)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Internal server error","code":"INTERNAL_ERROR"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_, _ = w.Write(body)
}

// writeErrorResponse convierte cualquier error en el cuerpo de error público.
// Los 429 llevan además el header Retry-After.
func writeErrorResponse(w http.ResponseWriter, r *http.Request, mapper *dto.QuoteMapper, err error) {
	appErr := apperror.From(err)
	ctx := r.Context()
	requestID := logging.GetRequestID(ctx)
	appErr.WithCorrelationID(requestID)

	status := appErr.HTTPStatus()
	if status >= http.StatusInternalServerError {
		logging.ErrorWithError(ctx, "Request failed", err, logging.Fields{
			logging.FieldErrorCode:      string(appErr.Code),
			logging.FieldHTTPStatusCode: status,
		})
	}

	if appErr.Code == apperror.CodeQuotaExceeded {
		w.Header().Set("Retry-After", strconv.Itoa(appErr.RetryAfterSeconds))
	}
	writeJSONResponse(w, r, status, mapper.ToErrorResponse(appErr, requestID))
}

// NotFound answers unknown routes with the standard error body
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeRouteError(w, r, http.StatusNotFound, "Resource not found", "NOT_FOUND")
}

// MethodNotAllowed answers known routes hit with the wrong method
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeRouteError(w, r, http.StatusMethodNotAllowed, "Method not allowed", "METHOD_NOT_ALLOWED")
}

func writeRouteError(w http.ResponseWriter, r *http.Request, status int, message, code string) {
	writeJSONResponse(w, r, status, &dto.ErrorResponse{
		Error:     message,
		Code:      code,
		Timestamp: dto.FormatTimestamp(time.Now()),
		RequestID: logging.GetRequestID(r.Context()),
	})
}
