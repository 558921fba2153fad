package handlers

import (
	"context"
	"net/http"

	"github.com/agendas-medicas/backend/internal/domain/entities"
)

// AgndAgendaService is the AGND_AGENDA logic its routes need.
type AgndAgendaService interface {
	List(ctx context.Context) ([]*entities.AgndAgenda, error)
	Get(ctx context.Context, rawID string) (*entities.AgndAgenda, error)
	Create(ctx context.Context, in entities.AgndAgendaInput) (int64, error)
	Update(ctx context.Context, rawID string, in entities.AgndAgendaInput) error
	Delete(ctx context.Context, rawID string) error
}

// AgndAgendaHandler handles /api/agnd-agenda requests
type AgndAgendaHandler struct {
	errorResponder
	service AgndAgendaService
}

// NewAgndAgendaHandler creates a new AGND_AGENDA handler
func NewAgndAgendaHandler(service AgndAgendaService, production bool) *AgndAgendaHandler {
	return &AgndAgendaHandler{errorResponder: errorResponder{production: production}, service: service}
}

func (h *AgndAgendaHandler) List(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.List(r.Context())
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, list(data, "Agendas personalizadas obtenidas"))
}

func (h *AgndAgendaHandler) Get(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, Response{Success: true, Data: data})
}

func (h *AgndAgendaHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in entities.AgndAgendaInput
	if err := decodeJSON(r, &in); err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	id, err := h.service.Create(r.Context(), in)
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, Response{
		Success: true,
		Data:    map[string]int64{"codigo_agenda": id},
		Message: "Registro creado en AGND_AGENDA",
	})
}

func (h *AgndAgendaHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in entities.AgndAgendaInput
	if err := decodeJSON(r, &in); err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	if err := h.service.Update(r.Context(), r.PathValue("id"), in); err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, Response{Success: true, Message: "Registro actualizado en AGND_AGENDA"})
}

func (h *AgndAgendaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, Response{Success: true, Message: "Registro eliminado de AGND_AGENDA"})
}
