package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"

	"github.com/agendas-medicas/backend/internal/api/handlers"
	"github.com/agendas-medicas/backend/internal/api/middleware"
	"github.com/agendas-medicas/backend/internal/infrastructure/observability"
	"github.com/agendas-medicas/backend/pkg/config"
)

// Handlers groups every route handler the router mounts.
type Handlers struct {
	System     *handlers.SystemHandler
	Medicos    *handlers.MedicoHandler
	Agendas    *handlers.AgendaHandler
	Catalogos  *handlers.CatalogoHandler
	AgndAgenda *handlers.AgndAgendaHandler
	External   *handlers.ExternalHandler
}

// Router holds all route handlers
type Router struct {
	mux        *http.ServeMux
	handlers   Handlers
	cors       config.CORSConfig
	production bool
	proxyLimit int
	metrics    *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(h Handlers, cfg *config.Config, metrics *observability.Metrics) *Router {
	return &Router{
		mux:        http.NewServeMux(),
		handlers:   h,
		cors:       cfg.CORS,
		production: cfg.App.IsProduction(),
		proxyLimit: cfg.External.ProxyRateLimit,
		metrics:    metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	h := r.handlers

	r.mux.HandleFunc("GET /{$}", h.System.Info)
	r.mux.HandleFunc("GET /health", h.System.Health)

	// Médicos
	r.mux.HandleFunc("GET /api/medicos", h.Medicos.List)
	r.mux.HandleFunc("GET /api/medicos/especialidades", h.Medicos.Especialidades)
	r.mux.HandleFunc("GET /api/medicos/estadisticas", h.Medicos.Stats)
	r.mux.HandleFunc("GET /api/medicos/especialidad/{especialidad}", h.Medicos.ByEspecialidad)
	r.mux.HandleFunc("GET /api/medicos/item/{codigo_item}", h.Medicos.ByCodigoItem)
	r.mux.HandleFunc("GET /api/medicos/nombre/{nombre}", h.Medicos.ByNombre)

	// Agendas
	r.mux.HandleFunc("GET /api/agendas", h.Agendas.List)
	r.mux.HandleFunc("GET /api/agendas/estadisticas", h.Agendas.Stats)
	r.mux.HandleFunc("GET /api/agendas/prestador/{codigo_prestador}", h.Agendas.ListByPrestador)
	r.mux.HandleFunc("GET /api/agendas/{id}", h.Agendas.Get)
	r.mux.HandleFunc("POST /api/agendas", h.Agendas.Create)
	r.mux.HandleFunc("PUT /api/agendas/{id}", h.Agendas.Update)
	r.mux.HandleFunc("PUT /api/agendas/{id}/cancelar", h.Agendas.Cancel)
	r.mux.HandleFunc("DELETE /api/agendas/{id}", h.Agendas.Delete)

	// Catálogos
	r.mux.HandleFunc("GET /api/catalogos/consultorios", h.Catalogos.Consultorios)
	r.mux.HandleFunc("GET /api/catalogos/dias", h.Catalogos.Dias)
	r.mux.HandleFunc("GET /api/catalogos/edificios", h.Catalogos.Edificios)
	r.mux.HandleFunc("GET /api/catalogos/edificios/{codigo_edificio}/pisos", h.Catalogos.Pisos)
	r.mux.HandleFunc("DELETE /api/catalogos/cache", h.Catalogos.InvalidateCache)

	// AGND_AGENDA
	r.mux.HandleFunc("GET /api/agnd-agenda", h.AgndAgenda.List)
	r.mux.HandleFunc("GET /api/agnd-agenda/{id}", h.AgndAgenda.Get)
	r.mux.HandleFunc("POST /api/agnd-agenda", h.AgndAgenda.Create)
	r.mux.HandleFunc("PUT /api/agnd-agenda/{id}", h.AgndAgenda.Update)
	r.mux.HandleFunc("DELETE /api/agnd-agenda/{id}", h.AgndAgenda.Delete)

	// External API diagnostics
	r.mux.HandleFunc("GET /api/external/medicos", h.External.Medicos)
	r.mux.HandleFunc("GET /api/external/auth/status", h.External.AuthStatus)
	r.mux.HandleFunc("POST /api/external/auth/login", h.External.AuthLogin)
	r.mux.HandleFunc("GET /api/external/config", h.External.Config)
	r.mux.Handle("GET /api/external/proxy", r.proxyLimiter()(http.HandlerFunc(h.External.Proxy)))

	r.mux.HandleFunc("/", h.System.NotFound)

	// Last applied runs first.
	var handler http.Handler = r.mux
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.Recover(handler)
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.CORS(r.cors, r.production)(handler)

	return handler
}

// proxyLimiter caps proxy calls per client IP per minute. A non-positive
// limit disables it.
func (r *Router) proxyLimiter() func(http.Handler) http.Handler {
	if r.proxyLimit <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(r.proxyLimit, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"success":false,"error":"Demasiadas solicitudes al proxy externo","errorCode":"RATE_LIMITED"}`))
		}),
	)
}
