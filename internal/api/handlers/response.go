package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/agendas-medicas/backend/internal/infrastructure/observability"
	apperrors "github.com/agendas-medicas/backend/pkg/errors"
)

// Response is the envelope every route answers with.
type Response struct {
	Success   bool     `json:"success"`
	Data      any      `json:"data,omitempty"`
	Total     *int     `json:"total,omitempty"`
	Message   string   `json:"message,omitempty"`
	Criterio  any      `json:"criterio,omitempty"`
	Error     string   `json:"error,omitempty"`
	ErrorCode string   `json:"errorCode,omitempty"`
	Errors    []string `json:"errors,omitempty"`
}

// list builds a success envelope carrying a slice and its length.
func list[T any](items []T, message string) Response {
	total := len(items)
	return Response{Success: true, Data: items, Total: &total, Message: message}
}

func respondWithJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message, code string) {
	respondWithJSON(w, statusCode, Response{Success: false, Error: message, ErrorCode: code})
}

// errorResponder turns service errors into envelopes. In production the text
// of unclassified errors is hidden from clients.
type errorResponder struct {
	production bool
}

func (e errorResponder) respondWithAppError(w http.ResponseWriter, r *http.Request, err error) {
	logger := observability.LoggerFromContext(r.Context())

	if appErr, ok := apperrors.AsAppError(err); ok {
		status := appErr.StatusCode()
		event := logger.Warn()
		if status >= http.StatusInternalServerError {
			event = logger.Error()
		}
		event.Err(err).
			Str("method", r.Method).
			Str("url", r.URL.String()).
			Str("error_code", appErr.Code()).
			Msg("Request error")

		respondWithJSON(w, status, Response{
			Success:   false,
			Error:     appErr.Message,
			ErrorCode: appErr.Code(),
			Errors:    appErr.Errors,
		})
		return
	}

	logger.Error().Err(err).Str("method", r.Method).Str("url", r.URL.String()).Msg("Request error")
	message := err.Error()
	if e.production {
		message = "Error interno del servidor"
	}
	respondWithError(w, http.StatusInternalServerError, message, "INTERNAL_ERROR")
}

// decodeJSON reads a JSON request body into dst. An empty body leaves dst
// untouched.
func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return apperrors.NewValidationError("Cuerpo JSON inválido", err.Error())
}
