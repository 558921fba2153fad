package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/agendas-medicas/backend/internal/domain/entities"
	"github.com/agendas-medicas/backend/internal/domain/repositories"
	"github.com/agendas-medicas/backend/internal/infrastructure/observability"
	"github.com/agendas-medicas/backend/pkg/config"
	apperrors "github.com/agendas-medicas/backend/pkg/errors"
)

const sinEspecialidad = "Sin especialidad"

// Criterio describes the filter applied by a provider search.
type Criterio struct {
	Tipo  string `json:"tipo"`
	Valor string `json:"valor"`
}

// MedicoSearchResult is a filtered provider list. Data holds []*entities.Medico
// or []entities.MedicoExterno depending on the configured source.
type MedicoSearchResult struct {
	Data     any
	Total    int
	Message  string
	Criterio Criterio
}

// MedicoService reads providers from the remote API or from Oracle
type MedicoService struct {
	directory repositories.MedicoDirectory
	repo      repositories.MedicoRepository
	source    string
	logger    zerolog.Logger
}

// NewMedicoService creates a new medico service. repo may be nil when source
// is external.
func NewMedicoService(directory repositories.MedicoDirectory, repo repositories.MedicoRepository, source string) *MedicoService {
	if repo == nil {
		source = config.MedicosSourceExternal
	}
	return &MedicoService{
		directory: directory,
		repo:      repo,
		source:    source,
		logger:    observability.Component("medicos"),
	}
}

// List returns the remote provider list
func (s *MedicoService) List(ctx context.Context, situationType string) ([]entities.MedicoExterno, error) {
	medicos, err := s.directory.Medicos(ctx, situationType)
	if err != nil {
		return nil, err
	}
	return nonNil(medicos), nil
}

// Especialidades returns the remote specialty list
func (s *MedicoService) Especialidades(ctx context.Context) ([]entities.EspecialidadExterna, error) {
	especialidades, err := s.directory.Especialidades(ctx)
	if err != nil {
		return nil, err
	}
	return nonNil(especialidades), nil
}

// ByEspecialidad finds providers whose specialty contains especialidad
func (s *MedicoService) ByEspecialidad(ctx context.Context, especialidad string) (*MedicoSearchResult, error) {
	especialidad = strings.TrimSpace(especialidad)
	if len([]rune(especialidad)) < 2 {
		return nil, searchError("La especialidad debe tener al menos 2 caracteres")
	}
	s.logger.Info().Str("especialidad", especialidad).Msg("Buscando médicos por especialidad")

	data, total, err := s.search(ctx, entities.MedicoFilter{Especialidad: especialidad}, func(m entities.MedicoExterno) bool {
		return containsFold(m.Especialidad(), especialidad)
	})
	if err != nil {
		return nil, err
	}
	return &MedicoSearchResult{
		Data:     data,
		Total:    total,
		Message:  fmt.Sprintf("Médicos encontrados para la especialidad: %s", especialidad),
		Criterio: Criterio{Tipo: "especialidad", Valor: especialidad},
	}, nil
}

// ByCodigoItem finds providers offering the scheduling item
func (s *MedicoService) ByCodigoItem(ctx context.Context, rawCode string) (*MedicoSearchResult, error) {
	rawCode = strings.TrimSpace(rawCode)
	code, ok := parsePositive(rawCode)
	if !ok || code <= 0 {
		return nil, searchError("El código de item debe ser un número positivo")
	}
	s.logger.Info().Int64("codigo_item", code).Msg("Buscando médicos por código de item")

	data, total, err := s.search(ctx, entities.MedicoFilter{CodigoItem: code}, func(m entities.MedicoExterno) bool {
		return m.CodigoItem() == rawCode || m.CodigoItem() == strconv.FormatInt(code, 10)
	})
	if err != nil {
		return nil, err
	}
	return &MedicoSearchResult{
		Data:     data,
		Total:    total,
		Message:  fmt.Sprintf("Médicos encontrados para el código de item: %s", rawCode),
		Criterio: Criterio{Tipo: "codigo_item", Valor: rawCode},
	}, nil
}

// ByNombre finds providers whose name contains nombre
func (s *MedicoService) ByNombre(ctx context.Context, nombre string) (*MedicoSearchResult, error) {
	nombre = strings.TrimSpace(nombre)
	if len([]rune(nombre)) < 2 {
		return nil, searchError("El nombre debe tener al menos 2 caracteres")
	}
	s.logger.Info().Str("nombre", nombre).Msg("Buscando médicos por nombre")

	data, total, err := s.search(ctx, entities.MedicoFilter{Nombre: nombre}, func(m entities.MedicoExterno) bool {
		return containsFold(m.Nombre(), nombre)
	})
	if err != nil {
		return nil, err
	}
	return &MedicoSearchResult{
		Data:     data,
		Total:    total,
		Message:  fmt.Sprintf("Médicos encontrados con el nombre: %s", nombre),
		Criterio: Criterio{Tipo: "nombre", Valor: nombre},
	}, nil
}

// Stats summarises the providers of the configured source
func (s *MedicoService) Stats(ctx context.Context) (*entities.MedicoStats, error) {
	s.logger.Info().Str("source", s.source).Msg("Generando estadísticas de médicos")
	if s.source == config.MedicosSourceDatabase {
		return s.databaseStats(ctx)
	}
	return s.externalStats(ctx)
}

func (s *MedicoService) search(ctx context.Context, filter entities.MedicoFilter, match func(entities.MedicoExterno) bool) (any, int, error) {
	if s.source == config.MedicosSourceDatabase {
		medicos, err := s.repo.List(ctx, filter)
		if err != nil {
			return nil, 0, err
		}
		medicos = nonNil(medicos)
		return medicos, len(medicos), nil
	}

	medicos, err := s.directory.Medicos(ctx, "")
	if err != nil {
		return nil, 0, err
	}
	filtered := []entities.MedicoExterno{}
	for _, medico := range medicos {
		if match(medico) {
			filtered = append(filtered, medico)
		}
	}
	return filtered, len(filtered), nil
}

func (s *MedicoService) externalStats(ctx context.Context) (*entities.MedicoStats, error) {
	medicos, err := s.directory.Medicos(ctx, "")
	if err != nil {
		return nil, err
	}
	especialidades, err := s.directory.Especialidades(ctx)
	if err != nil {
		return nil, err
	}

	stats := newMedicoStats(len(medicos), len(especialidades))
	prestadores := map[string]struct{}{}
	for _, medico := range medicos {
		stats.MedicosPorEspecialidad[orSinEspecialidad(medico.Especialidad())]++
		if code := medico.CodigoPrestador(); code != "" {
			prestadores[code] = struct{}{}
		}
	}
	stats.TotalMedicos = len(prestadores)
	for _, esp := range especialidades {
		stats.EspecialidadesDisponibles = append(stats.EspecialidadesDisponibles, esp.Descripcion)
	}
	return stats, nil
}

func (s *MedicoService) databaseStats(ctx context.Context) (*entities.MedicoStats, error) {
	medicos, err := s.repo.List(ctx, entities.MedicoFilter{})
	if err != nil {
		return nil, err
	}
	especialidades, err := s.repo.Especialidades(ctx)
	if err != nil {
		return nil, err
	}

	stats := newMedicoStats(len(medicos), len(especialidades))
	prestadores := map[int64]struct{}{}
	for _, medico := range medicos {
		stats.MedicosPorEspecialidad[orSinEspecialidad(medico.DescripcionAgendamiento)]++
		prestadores[medico.CodigoPrestador] = struct{}{}
	}
	stats.TotalMedicos = len(prestadores)
	for _, esp := range especialidades {
		stats.EspecialidadesDisponibles = append(stats.EspecialidadesDisponibles, esp.Nombre)
	}
	return stats, nil
}

func newMedicoStats(combinaciones, especialidades int) *entities.MedicoStats {
	return &entities.MedicoStats{
		TotalEspecialidades:       especialidades,
		TotalCombinaciones:        combinaciones,
		MedicosPorEspecialidad:    map[string]int{},
		EspecialidadesDisponibles: []string{},
	}
}

func orSinEspecialidad(especialidad string) string {
	if strings.TrimSpace(especialidad) == "" {
		return sinEspecialidad
	}
	return especialidad
}

func containsFold(value, term string) bool {
	return value != "" && strings.Contains(strings.ToLower(value), strings.ToLower(term))
}

func searchError(detail string) error {
	return apperrors.NewValidationError("Parámetros de búsqueda inválidos", detail)
}
