package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/agendas-medicas/backend/internal/domain/entities"
	apperrors "github.com/agendas-medicas/backend/pkg/errors"
)

const fechaLayout = "2006-01-02"

var (
	fechaPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	horaPattern  = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)
)

// newValidator registers the scheduling tags shared by the agenda services.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	mustRegister(v, "fecha", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if !fechaPattern.MatchString(s) {
			return false
		}
		_, err := time.Parse(fechaLayout, s)
		return err == nil
	})
	mustRegister(v, "hora", func(fl validator.FieldLevel) bool {
		return horaPattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "positive", func(fl validator.FieldLevel) bool {
		n, ok := parsePositive(fl.Field().String())
		return ok && n > 0
	})
	mustRegister(v, "fechahora", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(agndTimeLayout, strings.TrimSpace(fl.Field().String()))
		return err == nil
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("registering %s validation: %v", tag, err))
	}
}

// parsePositive parses s the way the clients send ids: integers, or decimals
// truncated toward zero.
func parsePositive(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return entities.TruncateFloat(f)
}

// parseID validates a path id.
func parseID(raw, message string) (int64, error) {
	id, ok := parsePositive(raw)
	if !ok || id <= 0 {
		return 0, apperrors.NewValidationError(message)
	}
	return id, nil
}

// AgendaValidator checks slot payloads against the format rules, the
// working day and the current date.
type AgendaValidator struct {
	validate     *validator.Validate
	workdayStart int
	workdayEnd   int
	now          func() time.Time
}

// NewAgendaValidator creates a validator for the [start, end) working day,
// both given as HH:MM.
func NewAgendaValidator(start, end string, now func() time.Time) (*AgendaValidator, error) {
	startMin, err := minutesOfDay(start)
	if err != nil {
		return nil, fmt.Errorf("inicio de jornada inválido %q: %w", start, err)
	}
	endMin, err := minutesOfDay(end)
	if err != nil {
		return nil, fmt.Errorf("fin de jornada inválido %q: %w", end, err)
	}
	if endMin <= startMin {
		return nil, fmt.Errorf("la jornada %s-%s está vacía", start, end)
	}
	if now == nil {
		now = time.Now
	}
	return &AgendaValidator{
		validate:     newValidator(),
		workdayStart: startMin,
		workdayEnd:   endMin,
		now:          now,
	}, nil
}

// Validate checks in and returns the columns it sets. On create the
// provider, date and time are mandatory. Every failed rule is reported.
func (v *AgendaValidator) Validate(in entities.AgendaInput, create bool) (entities.AgendaChanges, error) {
	var (
		changes entities.AgendaChanges
		errs    []string
	)

	fecha := trimmed(in.Fecha)
	hora := trimmed(in.Hora)
	estado := trimmed(in.Estado)

	if create {
		if !in.CodigoPrestador.IsSet() {
			errs = append(errs, "El código del prestador es requerido")
		}
		if fecha == "" {
			errs = append(errs, "La fecha es requerida")
		}
		if hora == "" {
			errs = append(errs, "La hora es requerida")
		}
	}

	if fecha != "" {
		if err := v.validate.Var(fecha, "fecha"); err != nil {
			errs = append(errs, "La fecha debe tener el formato YYYY-MM-DD")
		} else if v.beforeToday(fecha) {
			errs = append(errs, "La fecha no puede ser en el pasado")
		} else {
			changes.Fecha = &fecha
		}
	}

	if hora != "" {
		if err := v.validate.Var(hora, "hora"); err != nil {
			errs = append(errs, "La hora debe tener el formato HH:MM")
		} else if m, _ := minutesOfDay(hora); m < v.workdayStart || m >= v.workdayEnd {
			errs = append(errs, fmt.Sprintf("La hora debe estar entre %s y %s",
				formatMinutes(v.workdayStart), formatMinutes(v.workdayEnd-1)))
		} else {
			normalized := formatMinutes(m)
			changes.Hora = &normalized
		}
	}

	if estado != "" {
		if err := v.validate.Var(estado, "oneof=DISPONIBLE OCUPADO CANCELADO"); err != nil {
			errs = append(errs, "El estado debe ser: DISPONIBLE, OCUPADO o CANCELADO")
		} else {
			status := entities.AgendaStatus(estado)
			changes.Estado = &status
		}
	}

	if in.CodigoPrestador.IsSet() {
		if err := v.validate.Var(in.CodigoPrestador.String(), "positive"); err != nil {
			errs = append(errs, "El código del prestador debe ser un número positivo")
		} else {
			code, _ := in.CodigoPrestador.Int64()
			changes.CodigoPrestador = &code
		}
	}

	if len(errs) > 0 {
		return entities.AgendaChanges{}, apperrors.NewValidationError("Datos de agenda inválidos", errs...)
	}
	return changes, nil
}

func (v *AgendaValidator) beforeToday(fecha string) bool {
	now := v.now()
	day, err := time.ParseInLocation(fechaLayout, fecha, now.Location())
	if err != nil {
		return false
	}
	y, m, d := now.Date()
	return day.Before(time.Date(y, m, d, 0, 0, 0, 0, now.Location()))
}

func minutesOfDay(hhmm string) (int, error) {
	if !horaPattern.MatchString(hhmm) {
		return 0, fmt.Errorf("formato HH:MM esperado")
	}
	h, m, _ := strings.Cut(hhmm, ":")
	hours, _ := strconv.Atoi(h)
	minutes, _ := strconv.Atoi(m)
	return hours*60 + minutes, nil
}

func formatMinutes(total int) string {
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
