package handlers_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agendas-medicas/backend/internal/api/handlers"
)

func TestSystemHandler_Health(t *testing.T) {
	tests := []struct {
		name     string
		pingErr  error
		status   int
		label    string
		database string
	}{
		{"database up", nil, http.StatusOK, "OK", "up"},
		{"database down", errors.New("ORA-12541"), http.StatusServiceUnavailable, "DEGRADED", "down"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := handlers.NewSystemHandler(stubPinger{err: tt.pingErr}, handlers.AppInfo{})

			w := httptest.NewRecorder()
			handler.Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.status, w.Code)
			body := decodeBody(t, w)
			assert.Equal(t, tt.label, body["status"])
			assert.Equal(t, tt.database, body["database"])
			assert.NotEmpty(t, body["timestamp"])
		})
	}
}

func TestSystemHandler_Info(t *testing.T) {
	handler := handlers.NewSystemHandler(nil, handlers.AppInfo{Name: "API de Agendas Médicas", Version: "1.0.0", Environment: "test"})

	w := httptest.NewRecorder()
	handler.Info(w, httptest.NewRequest(http.MethodGet, "/", nil))

	body := decodeBody(t, w)
	assert.Equal(t, "API de Agendas Médicas", body["message"])
	assert.Equal(t, "1.0.0", body["version"])
	assert.Equal(t, "/health", body["endpoints"].(map[string]any)["health"])
}

func TestSystemHandler_NotFound(t *testing.T) {
	handler := handlers.NewSystemHandler(nil, handlers.AppInfo{})

	w := httptest.NewRecorder()
	handler.NotFound(w, httptest.NewRequest(http.MethodPatch, "/api/nada", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Ruta PATCH /api/nada no encontrada", body["error"])
	assert.Equal(t, "ROUTE_NOT_FOUND", body["errorCode"])
}
