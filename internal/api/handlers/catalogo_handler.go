package handlers

import (
	"context"
	"net/http"

	"github.com/agendas-medicas/backend/internal/domain/entities"
)

// CatalogoService is the reference data the catálogos routes need.
type CatalogoService interface {
	Consultorios(ctx context.Context) ([]*entities.Consultorio, error)
	Dias(ctx context.Context) ([]*entities.Dia, error)
	Edificios(ctx context.Context) ([]*entities.Edificio, error)
	PisosByEdificio(ctx context.Context, rawCode string) ([]*entities.Piso, error)
	InvalidateCache(ctx context.Context) (bool, error)
}

// CatalogoHandler handles reference data HTTP requests
type CatalogoHandler struct {
	errorResponder
	service CatalogoService
}

// NewCatalogoHandler creates a new catalog handler
func NewCatalogoHandler(service CatalogoService, production bool) *CatalogoHandler {
	return &CatalogoHandler{errorResponder: errorResponder{production: production}, service: service}
}

func (h *CatalogoHandler) Consultorios(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.Consultorios(r.Context())
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, list(data, "Consultorios obtenidos"))
}

func (h *CatalogoHandler) Dias(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.Dias(r.Context())
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, list(data, "Días obtenidos"))
}

func (h *CatalogoHandler) Edificios(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.Edificios(r.Context())
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, list(data, "Edificios obtenidos"))
}

// Pisos handles GET /api/catalogos/edificios/{codigo_edificio}/pisos
func (h *CatalogoHandler) Pisos(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.PisosByEdificio(r.Context(), r.PathValue("codigo_edificio"))
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, list(data, "Pisos obtenidos"))
}

// InvalidateCache handles DELETE /api/catalogos/cache
func (h *CatalogoHandler) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	cached, err := h.service.InvalidateCache(r.Context())
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	message := "Caché de catálogos invalidada"
	if !cached {
		message = "Caché de catálogos no configurada"
	}
	respondWithJSON(w, http.StatusOK, Response{Success: true, Message: message})
}
