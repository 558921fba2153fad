package services

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/agendas-medicas/backend/internal/domain/entities"
	"github.com/agendas-medicas/backend/internal/domain/repositories"
	"github.com/agendas-medicas/backend/internal/infrastructure/observability"
	apperrors "github.com/agendas-medicas/backend/pkg/errors"
)

// agndTimeLayout is the HORA_INICIO/HORA_FIN layout, matching the
// 'YYYY-MM-DD HH24:MI' mask used when writing them.
const agndTimeLayout = "2006-01-02 15:04"

// AgndAgendaService handles EDITOR_CUSTOM.AGND_AGENDA records
type AgndAgendaService struct {
	repo     repositories.AgndAgendaRepository
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewAgndAgendaService creates a new AGND_AGENDA service
func NewAgndAgendaService(repo repositories.AgndAgendaRepository) *AgndAgendaService {
	return &AgndAgendaService{
		repo:     repo,
		validate: newValidator(),
		logger:   observability.Component("agnd_agenda"),
	}
}

func (s *AgndAgendaService) List(ctx context.Context) ([]*entities.AgndAgenda, error) {
	data, err := s.repo.List(ctx)
	return nonNil(data), err
}

func (s *AgndAgendaService) Get(ctx context.Context, rawID string) (*entities.AgndAgenda, error) {
	id, err := parseAgndID(rawID)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// Create validates and stores a record, returning its new id.
func (s *AgndAgendaService) Create(ctx context.Context, in entities.AgndAgendaInput) (int64, error) {
	changes, err := s.check(in, true)
	if err != nil {
		return 0, err
	}
	record := &entities.AgndAgenda{
		CodigoConsultorio:      *changes.CodigoConsultorio,
		CodigoPrestador:        *changes.CodigoPrestador,
		CodigoItemAgendamiento: *changes.CodigoItemAgendamiento,
		CodigoDia:              *changes.CodigoDia,
		HoraInicio:             *changes.HoraInicio,
		HoraFin:                *changes.HoraFin,
		Tipo:                   *changes.Tipo,
	}
	observability.LoggerFromContext(ctx).Info().
		Int64("codigo_prestador", record.CodigoPrestador).
		Int64("codigo_consultorio", record.CodigoConsultorio).
		Msg("Creando AGND_AGENDA")
	return s.repo.Create(ctx, record)
}

// Update writes the supplied fields. An empty payload changes nothing.
func (s *AgndAgendaService) Update(ctx context.Context, rawID string, in entities.AgndAgendaInput) error {
	id, err := parseAgndID(rawID)
	if err != nil {
		return err
	}
	changes, err := s.check(in, false)
	if err != nil {
		return err
	}
	return s.repo.Update(ctx, id, changes)
}

func (s *AgndAgendaService) Delete(ctx context.Context, rawID string) error {
	id, err := parseAgndID(rawID)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *AgndAgendaService) check(in entities.AgndAgendaInput, create bool) (entities.AgndAgendaChanges, error) {
	var (
		changes entities.AgndAgendaChanges
		errs    []string
	)

	codes := []struct {
		field  *entities.NumericField
		target **int64
		column string
	}{
		{in.CodigoConsultorio, &changes.CodigoConsultorio, "CD_CONSULTORIO"},
		{in.CodigoPrestador, &changes.CodigoPrestador, "CD_PRESTADOR"},
		{in.CodigoItemAgendamiento, &changes.CodigoItemAgendamiento, "CD_ITEM_AGENDAMENTO"},
		{in.CodigoDia, &changes.CodigoDia, "CD_DIA"},
	}
	for _, c := range codes {
		if !c.field.IsSet() && !create {
			continue
		}
		if err := s.validate.Var(c.field.String(), "positive"); err != nil {
			errs = append(errs, c.column+" requerido y positivo")
			continue
		}
		v, _ := c.field.Int64()
		*c.target = &v
	}

	horas := []struct {
		value  *string
		target **string
		column string
	}{
		{in.HoraInicio, &changes.HoraInicio, "HORA_INICIO"},
		{in.HoraFin, &changes.HoraFin, "HORA_FIN"},
	}
	for _, h := range horas {
		value := trimmed(h.value)
		if value == "" {
			if create {
				errs = append(errs, h.column+" requerida")
			}
			continue
		}
		if err := s.validate.Var(value, "fechahora"); err != nil {
			errs = append(errs, h.column+" inválida")
			continue
		}
		*h.target = &value
	}

	if in.Tipo != nil || create {
		tipo := strings.ToUpper(trimmed(in.Tipo))
		switch {
		case tipo == "" && create:
			errs = append(errs, "TIPO requerido")
		case len([]rune(tipo)) != 1:
			errs = append(errs, "TIPO debe ser un solo carácter")
		default:
			changes.Tipo = &tipo
		}
	}

	if len(errs) > 0 {
		return entities.AgndAgendaChanges{}, apperrors.NewValidationError("Datos inválidos para AGND_AGENDA", errs...)
	}
	return changes, nil
}

func parseAgndID(raw string) (int64, error) {
	id, ok := parsePositive(raw)
	if !ok {
		return 0, apperrors.NewValidationError("ID inválido")
	}
	return id, nil
}
