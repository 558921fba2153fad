package routes_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendas-medicas/backend/internal/api/handlers"
	"github.com/agendas-medicas/backend/internal/api/routes"
	"github.com/agendas-medicas/backend/internal/infrastructure/clients/externalapi"
	"github.com/agendas-medicas/backend/pkg/config"
)

type okPinger struct{}

func (okPinger) Ping(ctx context.Context) error { return nil }

type proxyDirectory struct {
	calls int
}

func (d *proxyDirectory) Settings() externalapi.Settings { return externalapi.Settings{} }

func (d *proxyDirectory) MedicosRaw(ctx context.Context, situationType string) (any, error) {
	return []any{}, nil
}

func (d *proxyDirectory) Proxy(ctx context.Context, method, path string) (*externalapi.ProxyResult, error) {
	d.calls++
	return &externalapi.ProxyResult{URL: path, Status: http.StatusOK, OK: true}, nil
}

type noAuth struct{}

func (noAuth) Status() externalapi.TokenStatus { return externalapi.TokenStatus{} }

func (noAuth) Login(ctx context.Context) (map[string]any, error) { return nil, nil }

func newTestHandler(t *testing.T, cfg *config.Config, directory *proxyDirectory) http.Handler {
	t.Helper()
	router := routes.NewRouter(routes.Handlers{
		System:   handlers.NewSystemHandler(okPinger{}, handlers.AppInfo{Name: "API de Agendas Médicas", Version: "1.0.0"}),
		External: handlers.NewExternalHandler(noAuth{}, directory),
	}, cfg, nil)
	return router.SetupRoutes()
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.CORS.AllowAll = true
	cfg.External.ProxyRateLimit = 2
	return cfg
}

func TestRouter_UnknownRoute(t *testing.T) {
	handler := newTestHandler(t, testConfig(), &proxyDirectory{})

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/desconocida", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	var body map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "Ruta GET /api/desconocida no encontrada", body["error"])
	assert.Equal(t, "ROUTE_NOT_FOUND", body["errorCode"])
}

func TestRouter_HealthAndRequestID(t *testing.T) {
	handler := newTestHandler(t, testConfig(), &proxyDirectory{})

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestRouter_CORSAllowAllReflectsOrigin(t *testing.T) {
	handler := newTestHandler(t, testConfig(), &proxyDirectory{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://intranet.local:9000")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, "http://intranet.local:9000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestRouter_CORSDevelopmentWhitelist(t *testing.T) {
	cfg := testConfig()
	cfg.CORS.AllowAll = false
	handler := newTestHandler(t, cfg, &proxyDirectory{})

	for origin, allowed := range map[string]bool{
		"http://localhost:5173": true,
		"http://evil.example":   false,
	} {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", origin)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if allowed {
			assert.Equal(t, origin, w.Header().Get("Access-Control-Allow-Origin"))
		} else {
			assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
		}
	}
}

func TestRouter_ProxyRateLimited(t *testing.T) {
	directory := &proxyDirectory{}
	handler := newTestHandler(t, testConfig(), directory)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/external/proxy?path=/medico", nil)
		req.RemoteAddr = "10.0.0.5:4000"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.Equal(t, 2, directory.calls)
}
