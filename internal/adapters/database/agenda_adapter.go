package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/rs/zerolog"

	"github.com/agendas-medicas/backend/internal/domain/entities"
	"github.com/agendas-medicas/backend/internal/domain/repositories"
	"github.com/agendas-medicas/backend/internal/infrastructure/clients/oracle"
	"github.com/agendas-medicas/backend/internal/infrastructure/observability"
	apperrors "github.com/agendas-medicas/backend/pkg/errors"
)

const agendasTable = "AGENDAS"

// AgendaAdapter implements the AgendaRepository interface over AGENDAS
type AgendaAdapter struct {
	client *oracle.Client
	db     *goqu.Database
	ids    *idGenerator
	logger zerolog.Logger
}

// NewAgendaAdapter creates a new agenda adapter. sequence names the Oracle
// sequence that issues ID_AGENDA values.
func NewAgendaAdapter(client *oracle.Client, sequence string) repositories.AgendaRepository {
	db := goqu.New(OracleDialect, client.DB())
	logger := observability.Component("database")
	return &AgendaAdapter{
		client: client,
		db:     db,
		ids: &idGenerator{
			client:   client,
			db:       db,
			sequence: sequence,
			table:    goqu.T(agendasTable),
			column:   "ID_AGENDA",
			logger:   logger,
		},
		logger: logger,
	}
}

func (a *AgendaAdapter) plainSelect() *goqu.SelectDataset {
	return a.db.Select(
		goqu.C("ID_AGENDA"),
		goqu.C("CD_PRESTADOR"),
		goqu.L("TO_CHAR(?, 'YYYY-MM-DD')", goqu.C("FECHA")),
		goqu.C("HORA"),
		goqu.C("ESTADO"),
		goqu.L("NULL"),
		goqu.L("NULL"),
	).From(agendasTable)
}

// List returns every slot, joined with PRESTADOR for name and mnemonic
func (a *AgendaAdapter) List(ctx context.Context) ([]*entities.Agenda, error) {
	defer observe(ctx, a.client, "agendas.list", time.Now())

	joined, args, err := a.db.Select(
		goqu.I("a.ID_AGENDA"),
		goqu.I("a.CD_PRESTADOR"),
		goqu.L("TO_CHAR(?, 'YYYY-MM-DD')", goqu.I("a.FECHA")),
		goqu.I("a.HORA"),
		goqu.I("a.ESTADO"),
		goqu.I("p.NM_PRESTADOR"),
		goqu.I("p.NM_MNEMONICO"),
	).From(goqu.T(agendasTable).As("a")).
		LeftJoin(goqu.T("PRESTADOR").As("p"), goqu.On(goqu.I("p.CD_PRESTADOR").Eq(goqu.I("a.CD_PRESTADOR")))).
		Order(goqu.I("a.FECHA").Asc(), goqu.I("a.HORA").Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, joined, args...)
	if err != nil {
		a.logger.Warn().Err(err).Msg("Error con JOIN, usando consulta simple")

		plain, plainArgs, buildErr := a.plainSelect().
			Order(goqu.C("FECHA").Asc(), goqu.C("HORA").Asc()).
			Prepared(true).
			ToSQL()
		if buildErr != nil {
			return nil, apperrors.NewInternalError("failed to build query", buildErr)
		}
		rows, err = a.client.DB().QueryContext(ctx, plain, plainArgs...)
		if err != nil {
			return nil, apperrors.NewDatabaseError("Error al consultar agendas", err)
		}
	}
	defer rows.Close()

	agendas, err := scanAgendas(rows)
	if err != nil {
		return nil, apperrors.NewDatabaseError("Error al consultar agendas", err)
	}
	return agendas, nil
}

// GetByID retrieves a slot by id
func (a *AgendaAdapter) GetByID(ctx context.Context, id int64) (*entities.Agenda, error) {
	defer observe(ctx, a.client, "agendas.get", time.Now())

	query, args, err := a.plainSelect().
		Where(goqu.Ex{"ID_AGENDA": id}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	agenda, err := scanAgenda(a.client.DB().QueryRowContext(ctx, query, args...))
	if isNoRows(err) {
		return nil, apperrors.NewNotFoundError("Agenda")
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError("Error al consultar agenda por ID", err)
	}
	return agenda, nil
}

// ListByPrestador returns the slots of one provider ordered by date and time
func (a *AgendaAdapter) ListByPrestador(ctx context.Context, codigoPrestador int64) ([]*entities.Agenda, error) {
	defer observe(ctx, a.client, "agendas.list_by_prestador", time.Now())

	query, args, err := a.plainSelect().
		Where(goqu.Ex{"CD_PRESTADOR": codigoPrestador}).
		Order(goqu.C("FECHA").Asc(), goqu.C("HORA").Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewDatabaseError("Error al consultar agendas por prestador", err)
	}
	defer rows.Close()

	agendas, err := scanAgendas(rows)
	if err != nil {
		return nil, apperrors.NewDatabaseError("Error al consultar agendas por prestador", err)
	}
	return agendas, nil
}

// Create inserts a slot with an id drawn from the sequence
func (a *AgendaAdapter) Create(ctx context.Context, agenda *entities.Agenda) (int64, error) {
	defer observe(ctx, a.client, "agendas.create", time.Now())

	id, err := a.ids.next(ctx)
	if err != nil {
		return 0, apperrors.NewDatabaseError("Error al crear agenda", err)
	}

	estado := agenda.Estado
	if estado == "" {
		estado = entities.AgendaStatusDisponible
	}

	query, args, err := a.db.Insert(agendasTable).Rows(goqu.Record{
		"ID_AGENDA":    id,
		"CD_PRESTADOR": agenda.CodigoPrestador,
		"FECHA":        goqu.L("TO_DATE(?, 'YYYY-MM-DD')", agenda.Fecha),
		"HORA":         agenda.Hora,
		"ESTADO":       string(estado),
	}).Prepared(true).ToSQL()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return 0, apperrors.NewConflictError("Ya existe una agenda activa para el prestador en esa fecha y hora")
		}
		a.logger.Error().Err(err).Int64("codigo_prestador", agenda.CodigoPrestador).Msg("create agenda")
		return 0, apperrors.NewDatabaseError("Error al crear agenda", err)
	}

	a.logger.Info().Int64("id_agenda", id).Int64("codigo_prestador", agenda.CodigoPrestador).Msg("Agenda creada")
	return id, nil
}

// Update writes the supplied columns plus UPDATED_AT
func (a *AgendaAdapter) Update(ctx context.Context, id int64, changes entities.AgendaChanges) error {
	defer observe(ctx, a.client, "agendas.update", time.Now())

	if changes.Empty() {
		return apperrors.NewValidationError("No hay campos para actualizar")
	}

	record := goqu.Record{"UPDATED_AT": goqu.L("SYSDATE")}
	if changes.CodigoPrestador != nil {
		record["CD_PRESTADOR"] = *changes.CodigoPrestador
	}
	if changes.Fecha != nil {
		record["FECHA"] = goqu.L("TO_DATE(?, 'YYYY-MM-DD')", *changes.Fecha)
	}
	if changes.Hora != nil {
		record["HORA"] = *changes.Hora
	}
	if changes.Estado != nil {
		record["ESTADO"] = string(*changes.Estado)
	}

	query, args, err := a.db.Update(agendasTable).
		Set(record).
		Where(goqu.Ex{"ID_AGENDA": id}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflictError("Ya existe una agenda activa para el prestador en esa fecha y hora")
		}
		return apperrors.NewDatabaseError("Error al actualizar agenda", err)
	}

	return requireAffected(result, "Agenda")
}

// Delete removes a slot
func (a *AgendaAdapter) Delete(ctx context.Context, id int64) error {
	defer observe(ctx, a.client, "agendas.delete", time.Now())

	query, args, err := a.db.Delete(agendasTable).
		Where(goqu.Ex{"ID_AGENDA": id}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewDatabaseError("Error al eliminar agenda", err)
	}

	return requireAffected(result, "Agenda")
}

func requireAffected(result sql.Result, resource string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewDatabaseError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(resource)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAgenda(row rowScanner) (*entities.Agenda, error) {
	agenda := &entities.Agenda{}
	var estado string
	var nombre, mnemonico sql.NullString

	if err := row.Scan(
		&agenda.ID,
		&agenda.CodigoPrestador,
		&agenda.Fecha,
		&agenda.Hora,
		&estado,
		&nombre,
		&mnemonico,
	); err != nil {
		return nil, err
	}

	agenda.Estado = entities.AgendaStatus(estado)
	agenda.NombrePrestador = entities.DefaultNombrePrestador
	if nombre.Valid && nombre.String != "" {
		agenda.NombrePrestador = nombre.String
	}
	agenda.Mnemonico = entities.DefaultMnemonico
	if mnemonico.Valid && mnemonico.String != "" {
		agenda.Mnemonico = mnemonico.String
	}
	return agenda, nil
}

func scanAgendas(rows *sql.Rows) ([]*entities.Agenda, error) {
	agendas := make([]*entities.Agenda, 0)
	for rows.Next() {
		agenda, err := scanAgenda(rows)
		if err != nil {
			return nil, err
		}
		agendas = append(agendas, agenda)
	}
	return agendas, rows.Err()
}
