package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/agendas-medicas/backend/internal/adapters/cache"
	"github.com/agendas-medicas/backend/internal/adapters/database"
	"github.com/agendas-medicas/backend/internal/api/handlers"
	"github.com/agendas-medicas/backend/internal/api/routes"
	"github.com/agendas-medicas/backend/internal/application/services"
	"github.com/agendas-medicas/backend/internal/domain/repositories"
	"github.com/agendas-medicas/backend/internal/infrastructure/clients/externalapi"
	"github.com/agendas-medicas/backend/internal/infrastructure/clients/oracle"
	"github.com/agendas-medicas/backend/internal/infrastructure/clients/redis"
	"github.com/agendas-medicas/backend/internal/infrastructure/observability"
	"github.com/agendas-medicas/backend/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.App.Environment, cfg.App.LogLevel)
	logger := observability.Component("api")

	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					logger.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			logger.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize metrics")
	}

	db, err := oracle.NewClient(ctx, &cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize Oracle pool")
	}
	defer db.Close()
	db.SetMetrics(metrics)

	if cfg.Database.EnsureSchema {
		if err := database.NewSchemaManager(db, cfg.Database.AgendasSequence).EnsureAgendas(ctx); err != nil {
			logger.Fatal().Err(err).Msg("Failed to prepare AGENDAS schema")
		}
	}

	catalogos := database.NewCatalogoAdapter(db, cfg.Catalog.Schema)
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Warn().Err(err).Msg("Redis unavailable, catalogs are served uncached")
		} else {
			defer redisClient.Close()
			catalogos = database.NewCachedCatalogoAdapter(catalogos, cache.NewRedisAdapter(redisClient), cfg.Catalog.CacheTTLSeconds, metrics)
			logger.Info().Str("addr", cfg.Redis.RedisAddr()).Msg("Catalog adapter wrapped with Redis cache")
		}
	}

	httpClient := &http.Client{Timeout: cfg.External.Timeout}
	tokens := externalapi.NewTokenCache(&cfg.External, httpClient, metrics)
	directory := externalapi.NewMedicosClient(&cfg.External, externalapi.NewAuthClient(tokens, httpClient, metrics))

	var medicoRepo repositories.MedicoRepository
	if cfg.Medicos.Source == config.MedicosSourceDatabase {
		medicoRepo = database.NewMedicoAdapter(db)
	}

	validator, err := services.NewAgendaValidator(cfg.Agenda.WorkdayStart, cfg.Agenda.WorkdayEnd, time.Now)
	if err != nil {
		logger.Fatal().Err(err).Msg("Invalid agenda workday")
	}

	production := cfg.App.IsProduction()
	router := routes.NewRouter(routes.Handlers{
		System: handlers.NewSystemHandler(db, handlers.AppInfo{
			Name:        cfg.App.Name,
			Version:     cfg.App.Version,
			Environment: cfg.App.Environment,
		}),
		Medicos: handlers.NewMedicoHandler(services.NewMedicoService(directory, medicoRepo, cfg.Medicos.Source), production),
		Agendas: handlers.NewAgendaHandler(services.NewAgendaService(
			database.NewAgendaAdapter(db, cfg.Database.AgendasSequence), validator, cfg.Agenda.ConflictCheckFailOpen,
		), production),
		Catalogos: handlers.NewCatalogoHandler(services.NewCatalogoService(catalogos), production),
		AgndAgenda: handlers.NewAgndAgendaHandler(services.NewAgndAgendaService(
			database.NewAgndAgendaAdapter(db, cfg.Catalog.Schema, cfg.Catalog.AgndAgendaSequence),
		), production),
		External: handlers.NewExternalHandler(tokens, directory),
	}, cfg, metrics)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().
			Str("addr", server.Addr).
			Str("environment", cfg.App.Environment).
			Str("medicos_source", cfg.Medicos.Source).
			Msg("Servidor iniciado")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("Server failed")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("Cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}
	logger.Info().Msg("Servidor detenido")
}
