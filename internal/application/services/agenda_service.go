package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/agendas-medicas/backend/internal/domain/entities"
	"github.com/agendas-medicas/backend/internal/domain/repositories"
	"github.com/agendas-medicas/backend/internal/infrastructure/observability"
	apperrors "github.com/agendas-medicas/backend/pkg/errors"
)

// AgendaService handles appointment slot logic
type AgendaService struct {
	repo      repositories.AgendaRepository
	validator *AgendaValidator
	// failOpen lets a slot through when the conflict lookup itself fails.
	failOpen bool
	logger   zerolog.Logger
}

// NewAgendaService creates a new agenda service
func NewAgendaService(repo repositories.AgendaRepository, validator *AgendaValidator, conflictFailOpen bool) *AgendaService {
	return &AgendaService{
		repo:      repo,
		validator: validator,
		failOpen:  conflictFailOpen,
		logger:    observability.Component("agendas"),
	}
}

// List returns every slot
func (s *AgendaService) List(ctx context.Context) ([]*entities.Agenda, error) {
	s.logger.Info().Msg("Obteniendo todas las agendas")
	agendas, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return nonNil(agendas), nil
}

// Get returns one slot by its path id
func (s *AgendaService) Get(ctx context.Context, rawID string) (*entities.Agenda, error) {
	id, err := parseID(rawID, "ID de agenda inválido")
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// ListByPrestador returns the slots of one provider
func (s *AgendaService) ListByPrestador(ctx context.Context, rawCode string) ([]*entities.Agenda, error) {
	code, err := parseID(rawCode, "Código de prestador inválido")
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("codigo_prestador", code).Msg("Obteniendo agendas por prestador")
	agendas, err := s.repo.ListByPrestador(ctx, code)
	if err != nil {
		return nil, err
	}
	return nonNil(agendas), nil
}

// CheckConflict fails when the provider already holds a non-cancelled slot
// at fecha and hora. excludeID skips the slot being updated.
func (s *AgendaService) CheckConflict(ctx context.Context, codigoPrestador int64, fecha, hora string, excludeID *int64) error {
	agendas, err := s.repo.ListByPrestador(ctx, codigoPrestador)
	if err != nil {
		if s.failOpen {
			observability.LoggerFromContext(ctx).Warn().Err(err).Msg("Error validando conflicto de horario")
			return nil
		}
		return err
	}

	for _, agenda := range agendas {
		if agenda.Fecha != fecha || normalizeHora(agenda.Hora) != normalizeHora(hora) ||
			agenda.Estado == entities.AgendaStatusCancelado {
			continue
		}
		if excludeID != nil && agenda.ID == *excludeID {
			continue
		}
		return conflictError(codigoPrestador, fecha, hora)
	}
	return nil
}

// Create validates, checks for a double booking and stores a new slot.
// The stored row is returned.
func (s *AgendaService) Create(ctx context.Context, in entities.AgendaInput) (*entities.Agenda, error) {
	changes, err := s.validator.Validate(in, true)
	if err != nil {
		return nil, err
	}

	agenda := &entities.Agenda{
		CodigoPrestador: *changes.CodigoPrestador,
		Fecha:           *changes.Fecha,
		Hora:            *changes.Hora,
		Estado:          entities.AgendaStatusDisponible,
	}
	if changes.Estado != nil {
		agenda.Estado = *changes.Estado
	}

	if err := s.CheckConflict(ctx, agenda.CodigoPrestador, agenda.Fecha, agenda.Hora, nil); err != nil {
		return nil, err
	}

	observability.LoggerFromContext(ctx).Info().
		Int64("codigo_prestador", agenda.CodigoPrestador).
		Str("fecha", agenda.Fecha).
		Str("hora", agenda.Hora).
		Msg("Creando nueva agenda")

	id, err := s.repo.Create(ctx, agenda)
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeConflict) {
			return nil, conflictError(agenda.CodigoPrestador, agenda.Fecha, agenda.Hora)
		}
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// Update writes the supplied fields of a slot. When the result is an active
// slot whose provider, date or time changed, or a cancelled slot being
// reactivated, it is checked against the provider's other slots first.
func (s *AgendaService) Update(ctx context.Context, rawID string, in entities.AgendaInput) error {
	id, err := parseID(rawID, "ID de agenda inválido")
	if err != nil {
		return err
	}
	changes, err := s.validator.Validate(in, false)
	if err != nil {
		return err
	}

	var target *entities.Agenda
	if !changes.Empty() {
		current, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		target = &entities.Agenda{
			CodigoPrestador: valueOr(changes.CodigoPrestador, current.CodigoPrestador),
			Fecha:           valueOr(changes.Fecha, current.Fecha),
			Hora:            valueOr(changes.Hora, current.Hora),
			Estado:          valueOr(changes.Estado, current.Estado),
		}
		if needsConflictCheck(current, target) {
			if err := s.CheckConflict(ctx, target.CodigoPrestador, target.Fecha, target.Hora, &id); err != nil {
				return err
			}
		}
	}

	observability.LoggerFromContext(ctx).Info().Int64("id", id).Msg("Actualizando agenda")
	if err := s.repo.Update(ctx, id, changes); err != nil {
		if target != nil && apperrors.IsType(err, apperrors.ErrorTypeConflict) {
			return conflictError(target.CodigoPrestador, target.Fecha, target.Hora)
		}
		return err
	}
	return nil
}

// needsConflictCheck reports whether moving current to target can produce a
// second active slot for the same provider, date and time.
func needsConflictCheck(current, target *entities.Agenda) bool {
	if target.Estado == entities.AgendaStatusCancelado {
		return false
	}
	if current.Estado == entities.AgendaStatusCancelado {
		return true
	}
	return target.CodigoPrestador != current.CodigoPrestador ||
		target.Fecha != current.Fecha ||
		normalizeHora(target.Hora) != normalizeHora(current.Hora)
}

// Cancel marks a slot CANCELADO. Cancelling twice succeeds.
func (s *AgendaService) Cancel(ctx context.Context, rawID, motivo string) error {
	observability.LoggerFromContext(ctx).Info().Str("id", rawID).Str("motivo", motivo).Msg("Cancelando agenda")
	estado := string(entities.AgendaStatusCancelado)
	return s.Update(ctx, rawID, entities.AgendaInput{Estado: &estado})
}

// Delete removes a slot after checking it exists
func (s *AgendaService) Delete(ctx context.Context, rawID string) error {
	id, err := parseID(rawID, "ID de agenda inválido")
	if err != nil {
		return err
	}
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	observability.LoggerFromContext(ctx).Info().Int64("id", id).Msg("Eliminando agenda")
	return s.repo.Delete(ctx, id)
}

// Stats summarises every stored slot
func (s *AgendaService) Stats(ctx context.Context) (*entities.AgendaStats, error) {
	agendas, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	stats := &entities.AgendaStats{
		TotalAgendas: len(agendas),
		PorEstado:    map[string]int{},
		PorPrestador: map[string]int{},
		PorFecha:     map[string]int{},
	}
	prestadores := map[int64]struct{}{}
	for _, agenda := range agendas {
		stats.PorEstado[string(agenda.Estado)]++
		stats.PorPrestador[fmt.Sprintf("%d - %s", agenda.CodigoPrestador, agenda.NombrePrestador)]++
		stats.PorFecha[agenda.Fecha]++
		prestadores[agenda.CodigoPrestador] = struct{}{}
	}
	stats.PrestadoresUnicos = len(prestadores)
	return stats, nil
}

func conflictError(codigoPrestador int64, fecha, hora string) error {
	return apperrors.NewConflictError(fmt.Sprintf("Ya existe una agenda para el prestador %s el %s a las %s",
		strconv.FormatInt(codigoPrestador, 10), fecha, hora))
}

// normalizeHora pads "9:00" to "09:00"; other values are returned as given.
func normalizeHora(hora string) string {
	if m, err := minutesOfDay(hora); err == nil {
		return formatMinutes(m)
	}
	return hora
}

func valueOr[T any](p *T, fallback T) T {
	if p != nil {
		return *p
	}
	return fallback
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
