package handlers

import (
	"context"
	"net/http"

	"github.com/agendas-medicas/backend/internal/infrastructure/clients/externalapi"
	"github.com/agendas-medicas/backend/internal/infrastructure/observability"
	apperrors "github.com/agendas-medicas/backend/pkg/errors"
)

// ExternalAuth exposes the token cache to the diagnostic routes.
type ExternalAuth interface {
	Status() externalapi.TokenStatus
	Login(ctx context.Context) (map[string]any, error)
}

// ExternalDirectory is the remote provider API as the diagnostic routes see it.
type ExternalDirectory interface {
	Settings() externalapi.Settings
	MedicosRaw(ctx context.Context, situationType string) (any, error)
	Proxy(ctx context.Context, method, path string) (*externalapi.ProxyResult, error)
}

// ExternalHandler serves /api/external. Failures answer with a bare
// {success:false, error} body instead of the classified envelope.
type ExternalHandler struct {
	auth      ExternalAuth
	directory ExternalDirectory
}

// NewExternalHandler creates a new external API diagnostics handler
func NewExternalHandler(auth ExternalAuth, directory ExternalDirectory) *ExternalHandler {
	return &ExternalHandler{auth: auth, directory: directory}
}

// Medicos handles GET /api/external/medicos
func (h *ExternalHandler) Medicos(w http.ResponseWriter, r *http.Request) {
	data, err := h.directory.MedicosRaw(r.Context(), r.URL.Query().Get("situationType"))
	if err != nil {
		h.fail(w, r, http.StatusBadGateway, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{"success": true, "data": data})
}

// AuthStatus handles GET /api/external/auth/status
func (h *ExternalHandler) AuthStatus(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]any{"success": true, "auth": h.auth.Status()})
}

// AuthLogin handles POST /api/external/auth/login
func (h *ExternalHandler) AuthLogin(w http.ResponseWriter, r *http.Request) {
	raw, err := h.auth.Login(r.Context())
	if err != nil {
		h.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"tokens":  h.auth.Status(),
		"raw":     raw,
	})
}

// Config handles GET /api/external/config
func (h *ExternalHandler) Config(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]any{"success": true, "config": h.directory.Settings()})
}

// Proxy handles GET /api/external/proxy?path=...&method=...
func (h *ExternalHandler) Proxy(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	path := query.Get("path")
	if path == "" {
		respondWithJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": `Falta query param "path"`})
		return
	}

	result, err := h.directory.Proxy(r.Context(), query.Get("method"), path)
	if err != nil {
		h.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	respondWithJSON(w, result.Status, result)
}

func (h *ExternalHandler) fail(w http.ResponseWriter, r *http.Request, status int, err error) {
	observability.LoggerFromContext(r.Context()).Error().Err(err).
		Str("url", r.URL.String()).
		Msg("External API request failed")

	message := err.Error()
	if appErr, ok := apperrors.AsAppError(err); ok {
		message = appErr.Message
	}
	respondWithJSON(w, status, map[string]any{"success": false, "error": message})
}
