package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/agendas-medicas/backend/internal/domain/entities"
	"github.com/agendas-medicas/backend/internal/domain/repositories"
	"github.com/agendas-medicas/backend/internal/infrastructure/observability"
	apperrors "github.com/agendas-medicas/backend/pkg/errors"
)

// cacheInvalidator is implemented by the cached catalog repository.
type cacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

// CatalogoService serves the consulting room reference data
type CatalogoService struct {
	repo   repositories.CatalogoRepository
	logger zerolog.Logger
}

// NewCatalogoService creates a new catalog service
func NewCatalogoService(repo repositories.CatalogoRepository) *CatalogoService {
	return &CatalogoService{
		repo:   repo,
		logger: observability.Component("catalogos"),
	}
}

func (s *CatalogoService) Consultorios(ctx context.Context) ([]*entities.Consultorio, error) {
	s.logger.Info().Msg("Obteniendo consultorios")
	data, err := s.repo.Consultorios(ctx)
	return nonNil(data), err
}

func (s *CatalogoService) Dias(ctx context.Context) ([]*entities.Dia, error) {
	s.logger.Info().Msg("Obteniendo días")
	data, err := s.repo.Dias(ctx)
	return nonNil(data), err
}

func (s *CatalogoService) Edificios(ctx context.Context) ([]*entities.Edificio, error) {
	s.logger.Info().Msg("Obteniendo edificios")
	data, err := s.repo.Edificios(ctx)
	return nonNil(data), err
}

// PisosByEdificio lists the floors of a building; rawCode must be numeric.
func (s *CatalogoService) PisosByEdificio(ctx context.Context, rawCode string) ([]*entities.Piso, error) {
	code, ok := parsePositive(rawCode)
	if !ok {
		return nil, apperrors.NewValidationError("Código de edificio inválido")
	}
	s.logger.Info().Int64("codigo_edificio", code).Msg("Obteniendo pisos por edificio")
	data, err := s.repo.PisosByEdificio(ctx, code)
	return nonNil(data), err
}

// InvalidateCache drops cached catalog entries. It reports false when the
// repository is not cached.
func (s *CatalogoService) InvalidateCache(ctx context.Context) (bool, error) {
	cached, ok := s.repo.(cacheInvalidator)
	if !ok {
		return false, nil
	}
	if err := cached.Invalidate(ctx); err != nil {
		return true, apperrors.NewInternalError("Error al invalidar caché de catálogos", err)
	}
	return true, nil
}
