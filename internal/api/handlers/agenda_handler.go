package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/agendas-medicas/backend/internal/domain/entities"
)

// AgendaService is the slot logic the agenda routes need.
type AgendaService interface {
	List(ctx context.Context) ([]*entities.Agenda, error)
	Get(ctx context.Context, rawID string) (*entities.Agenda, error)
	ListByPrestador(ctx context.Context, rawCode string) ([]*entities.Agenda, error)
	Create(ctx context.Context, in entities.AgendaInput) (*entities.Agenda, error)
	Update(ctx context.Context, rawID string, in entities.AgendaInput) error
	Cancel(ctx context.Context, rawID, motivo string) error
	Delete(ctx context.Context, rawID string) error
	Stats(ctx context.Context) (*entities.AgendaStats, error)
}

// AgendaHandler handles appointment slot HTTP requests
type AgendaHandler struct {
	errorResponder
	service AgendaService
}

// NewAgendaHandler creates a new agenda handler
func NewAgendaHandler(service AgendaService, production bool) *AgendaHandler {
	return &AgendaHandler{errorResponder: errorResponder{production: production}, service: service}
}

// List handles GET /api/agendas
func (h *AgendaHandler) List(w http.ResponseWriter, r *http.Request) {
	agendas, err := h.service.List(r.Context())
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, list(agendas, "Agendas obtenidas correctamente"))
}

// Get handles GET /api/agendas/{id}
func (h *AgendaHandler) Get(w http.ResponseWriter, r *http.Request) {
	agenda, err := h.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, Response{Success: true, Data: agenda, Message: "Agenda obtenida correctamente"})
}

// ListByPrestador handles GET /api/agendas/prestador/{codigo_prestador}
func (h *AgendaHandler) ListByPrestador(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("codigo_prestador")
	agendas, err := h.service.ListByPrestador(r.Context(), code)
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, list(agendas, fmt.Sprintf("Agendas del prestador %s obtenidas correctamente", code)))
}

// Create handles POST /api/agendas
func (h *AgendaHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in entities.AgendaInput
	if err := decodeJSON(r, &in); err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	agenda, err := h.service.Create(r.Context(), in)
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, Response{Success: true, Data: agenda, Message: "Agenda creada correctamente"})
}

// Update handles PUT /api/agendas/{id}
func (h *AgendaHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in entities.AgendaInput
	if err := decodeJSON(r, &in); err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	if err := h.service.Update(r.Context(), r.PathValue("id"), in); err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, Response{Success: true, Message: "Agenda actualizada correctamente"})
}

// Cancel handles PUT /api/agendas/{id}/cancelar
func (h *AgendaHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Motivo string `json:"motivo"`
	}
	if err := decodeJSON(r, &body); err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	motivo := strings.TrimSpace(body.Motivo)
	if err := h.service.Cancel(r.Context(), r.PathValue("id"), motivo); err != nil {
		h.respondWithAppError(w, r, err)
		return
	}

	message := "Agenda cancelada correctamente"
	if motivo != "" {
		message += ". Motivo: " + motivo
	}
	respondWithJSON(w, http.StatusOK, Response{Success: true, Message: message})
}

// Delete handles DELETE /api/agendas/{id}
func (h *AgendaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, Response{Success: true, Message: "Agenda eliminada correctamente"})
}

// Stats handles GET /api/agendas/estadisticas
func (h *AgendaHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, Response{Success: true, Data: stats, Message: "Estadísticas de agendas generadas correctamente"})
}
