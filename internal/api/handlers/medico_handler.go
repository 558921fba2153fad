package handlers

import (
	"context"
	"net/http"

	"github.com/agendas-medicas/backend/internal/application/services"
	"github.com/agendas-medicas/backend/internal/domain/entities"
)

// MedicoService is the provider logic the médicos routes need.
type MedicoService interface {
	List(ctx context.Context, situationType string) ([]entities.MedicoExterno, error)
	Especialidades(ctx context.Context) ([]entities.EspecialidadExterna, error)
	ByEspecialidad(ctx context.Context, especialidad string) (*services.MedicoSearchResult, error)
	ByCodigoItem(ctx context.Context, rawCode string) (*services.MedicoSearchResult, error)
	ByNombre(ctx context.Context, nombre string) (*services.MedicoSearchResult, error)
	Stats(ctx context.Context) (*entities.MedicoStats, error)
}

// MedicoHandler handles provider HTTP requests
type MedicoHandler struct {
	errorResponder
	service MedicoService
}

// NewMedicoHandler creates a new medico handler
func NewMedicoHandler(service MedicoService, production bool) *MedicoHandler {
	return &MedicoHandler{errorResponder: errorResponder{production: production}, service: service}
}

// List handles GET /api/medicos?situationType=
func (h *MedicoHandler) List(w http.ResponseWriter, r *http.Request) {
	medicos, err := h.service.List(r.Context(), r.URL.Query().Get("situationType"))
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, list(medicos, ""))
}

// Especialidades handles GET /api/medicos/especialidades
func (h *MedicoHandler) Especialidades(w http.ResponseWriter, r *http.Request) {
	especialidades, err := h.service.Especialidades(r.Context())
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, list(especialidades, ""))
}

// ByEspecialidad handles GET /api/medicos/especialidad/{especialidad}
func (h *MedicoHandler) ByEspecialidad(w http.ResponseWriter, r *http.Request) {
	h.search(w, r, h.service.ByEspecialidad, r.PathValue("especialidad"))
}

// ByCodigoItem handles GET /api/medicos/item/{codigo_item}
func (h *MedicoHandler) ByCodigoItem(w http.ResponseWriter, r *http.Request) {
	h.search(w, r, h.service.ByCodigoItem, r.PathValue("codigo_item"))
}

// ByNombre handles GET /api/medicos/nombre/{nombre}
func (h *MedicoHandler) ByNombre(w http.ResponseWriter, r *http.Request) {
	h.search(w, r, h.service.ByNombre, r.PathValue("nombre"))
}

// Stats handles GET /api/medicos/estadisticas
func (h *MedicoHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, Response{Success: true, Data: stats, Message: "Estadísticas de médicos generadas correctamente"})
}

func (h *MedicoHandler) search(w http.ResponseWriter, r *http.Request,
	find func(context.Context, string) (*services.MedicoSearchResult, error), value string) {
	result, err := find(r.Context(), value)
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	total := result.Total
	respondWithJSON(w, http.StatusOK, Response{
		Success:  true,
		Data:     result.Data,
		Total:    &total,
		Message:  result.Message,
		Criterio: result.Criterio,
	})
}
