package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"duper-mart/internal/model"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code, error
// code and message.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	logger.Error().Str("code", code).Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message})
}

// writeServiceError maps a service error onto an HTTP response. Domain
// errors carry their code to the client; anything else becomes an opaque
// internal error.
func writeServiceError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		writeError(w, statusFor(domainErr.Code), domainErr.Code, domainErr.Message, logger)
		return
	}

	logger.Error().Err(err).Msg("internal error")
	writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "internal server error", logger)
}

// statusFor maps a domain error code to an HTTP status.
func statusFor(code string) int {
	switch code {
	case model.ErrCodeUserNotFound,
		model.ErrCodeProductNotFound,
		model.ErrCodeCartNotFound,
		model.ErrCodeOrderNotFound:
		return http.StatusNotFound
	case model.ErrCodeEmptyCart,
		model.ErrCodeInvalidQuantity,
		model.ErrCodeUnknownStatus,
		model.ErrCodeInvalidJSON,
		model.ErrCodeMissingField:
		return http.StatusBadRequest
	case model.ErrCodeInsufficientStock,
		model.ErrCodeMissingPrice,
		model.ErrCodeIllegalTransition:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
