package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/agendas-medicas/backend/pkg/config"
)

// developmentOrigins are the local frontends allowed outside production.
var developmentOrigins = []string{
	"http://localhost:3000",
	"http://localhost:3001",
	"http://localhost:8081",
	"http://localhost:8082",
	"http://localhost:5173",
	"http://localhost:8080",
	"http://localhost:4200",
	"http://127.0.0.1:3000",
	"http://127.0.0.1:3001",
	"http://127.0.0.1:5173",
	"http://127.0.0.1:8080",
	"http://127.0.0.1:4200",
}

// CORS builds the cross-origin middleware. With AllowAll every origin is
// echoed back, otherwise only the whitelist for the environment passes.
func CORS(cfg config.CORSConfig, production bool) func(http.Handler) http.Handler {
	options := cors.Options{
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}

	switch {
	case cfg.AllowAll:
		options.AllowOriginFunc = func(r *http.Request, origin string) bool { return true }
	case production:
		options.AllowedOrigins = cfg.AllowedOrigins
	default:
		options.AllowedOrigins = developmentOrigins
	}

	return cors.Handler(options)
}
