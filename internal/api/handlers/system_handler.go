package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/agendas-medicas/backend/internal/infrastructure/observability"
)

const healthProbeTimeout = 2 * time.Second

// Pinger is satisfied by the Oracle client.
type Pinger interface {
	Ping(ctx context.Context) error
}

// AppInfo is what the root route advertises.
type AppInfo struct {
	Name        string
	Version     string
	Environment string
}

// SystemHandler serves the root, health and fallback routes
type SystemHandler struct {
	db   Pinger
	info AppInfo
	now  func() time.Time
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(db Pinger, info AppInfo) *SystemHandler {
	return &SystemHandler{db: db, info: info, now: time.Now}
}

// Info handles GET /
func (h *SystemHandler) Info(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]any{
		"message":     h.info.Name,
		"version":     h.info.Version,
		"environment": h.info.Environment,
		"endpoints": map[string]any{
			"health": "/health",
			"medicos": map[string]string{
				"all":            "/api/medicos",
				"especialidades": "/api/medicos/especialidades",
				"byEspecialidad": "/api/medicos/especialidad/{especialidad}",
				"byItem":         "/api/medicos/item/{codigo_item}",
				"byNombre":       "/api/medicos/nombre/{nombre}",
				"estadisticas":   "/api/medicos/estadisticas",
			},
			"agendas":    "/api/agendas",
			"catalogos":  "/api/catalogos",
			"agndAgenda": "/api/agnd-agenda",
			"external":   "/api/external",
		},
		"timestamp": h.timestamp(),
	})
}

// Health handles GET /health
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	status, database := http.StatusOK, "up"
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthProbeTimeout)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			observability.LoggerFromContext(r.Context()).Warn().Err(err).Msg("Health check: database unreachable")
			status, database = http.StatusServiceUnavailable, "down"
		}
	}

	label := "OK"
	if status != http.StatusOK {
		label = "DEGRADED"
	}
	respondWithJSON(w, status, map[string]any{
		"status":    label,
		"timestamp": h.timestamp(),
		"database":  database,
	})
}

// NotFound answers every route nothing else matched.
func (h *SystemHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	respondWithError(w, http.StatusNotFound,
		fmt.Sprintf("Ruta %s %s no encontrada", r.Method, r.URL.Path), "ROUTE_NOT_FOUND")
}

func (h *SystemHandler) timestamp() string {
	return h.now().UTC().Format("2006-01-02T15:04:05.000Z07:00")
}
