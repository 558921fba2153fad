package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/rs/zerolog"

	"github.com/agendas-medicas/backend/internal/domain/entities"
	"github.com/agendas-medicas/backend/internal/domain/repositories"
	"github.com/agendas-medicas/backend/internal/infrastructure/clients/oracle"
	"github.com/agendas-medicas/backend/internal/infrastructure/observability"
	apperrors "github.com/agendas-medicas/backend/pkg/errors"
)

const agndDateTimeMask = "YYYY-MM-DD HH24:MI"

// AgndAgendaAdapter implements AgndAgendaRepository over <schema>.AGND_AGENDA
type AgndAgendaAdapter struct {
	client *oracle.Client
	db     *goqu.Database
	table  exp.IdentifierExpression
	ids    *idGenerator
	logger zerolog.Logger
}

// NewAgndAgendaAdapter creates a new AGND_AGENDA adapter
func NewAgndAgendaAdapter(client *oracle.Client, schema, sequence string) repositories.AgndAgendaRepository {
	db := goqu.New(OracleDialect, client.DB())
	table := goqu.T("AGND_AGENDA").Schema(schema)
	logger := observability.Component("database")
	return &AgndAgendaAdapter{
		client: client,
		db:     db,
		table:  table,
		ids: &idGenerator{
			client:   client,
			db:       db,
			sequence: schema + "." + sequence,
			table:    table,
			column:   "CD_AGENDA",
			logger:   logger,
		},
		logger: logger,
	}
}

func toDateTime(value string) exp.LiteralExpression {
	return goqu.L("TO_DATE(?, '"+agndDateTimeMask+"')", value)
}

func (a *AgndAgendaAdapter) selectAll() *goqu.SelectDataset {
	return a.db.From(a.table).Select(
		goqu.C("CD_AGENDA"),
		goqu.C("CD_CONSULTORIO"),
		goqu.C("CD_PRESTADOR"),
		goqu.C("CD_ITEM_AGENDAMENTO"),
		goqu.C("CD_DIA"),
		goqu.L("TO_CHAR(?, '"+agndDateTimeMask+"')", goqu.C("HORA_INICIO")),
		goqu.L("TO_CHAR(?, '"+agndDateTimeMask+"')", goqu.C("HORA_FIN")),
		goqu.C("TIPO"),
	)
}

func scanAgndAgenda(row rowScanner) (*entities.AgndAgenda, error) {
	a := &entities.AgndAgenda{}
	var consultorio, prestador, item, dia sql.NullInt64
	var inicio, fin, tipo sql.NullString
	if err := row.Scan(&a.Codigo, &consultorio, &prestador, &item, &dia, &inicio, &fin, &tipo); err != nil {
		return nil, err
	}
	a.CodigoConsultorio = consultorio.Int64
	a.CodigoPrestador = prestador.Int64
	a.CodigoItemAgendamiento = item.Int64
	a.CodigoDia = dia.Int64
	a.HoraInicio = inicio.String
	a.HoraFin = fin.String
	a.Tipo = tipo.String
	return a, nil
}

// List returns every record ordered by CD_AGENDA
func (a *AgndAgendaAdapter) List(ctx context.Context) ([]*entities.AgndAgenda, error) {
	defer observe(ctx, a.client, "agnd_agenda.list", time.Now())

	query, args, err := a.selectAll().Order(goqu.C("CD_AGENDA").Asc()).Prepared(true).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewDatabaseError("Error al consultar AGND_AGENDA", err)
	}
	defer rows.Close()

	agendas := make([]*entities.AgndAgenda, 0)
	for rows.Next() {
		agenda, err := scanAgndAgenda(rows)
		if err != nil {
			return nil, apperrors.NewDatabaseError("Error al consultar AGND_AGENDA", err)
		}
		agendas = append(agendas, agenda)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewDatabaseError("Error al consultar AGND_AGENDA", err)
	}
	return agendas, nil
}

// GetByID retrieves one record
func (a *AgndAgendaAdapter) GetByID(ctx context.Context, id int64) (*entities.AgndAgenda, error) {
	defer observe(ctx, a.client, "agnd_agenda.get", time.Now())

	query, args, err := a.selectAll().Where(goqu.Ex{"CD_AGENDA": id}).Prepared(true).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	agenda, err := scanAgndAgenda(a.client.DB().QueryRowContext(ctx, query, args...))
	if isNoRows(err) {
		return nil, apperrors.NewNotFoundError("AGND_AGENDA")
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError("Error al consultar AGND_AGENDA por ID", err)
	}
	return agenda, nil
}

// Create inserts a record and returns its CD_AGENDA
func (a *AgndAgendaAdapter) Create(ctx context.Context, agenda *entities.AgndAgenda) (int64, error) {
	defer observe(ctx, a.client, "agnd_agenda.create", time.Now())

	id, err := a.ids.next(ctx)
	if err != nil {
		return 0, apperrors.NewDatabaseError("Error al crear registro en AGND_AGENDA", err)
	}

	query, args, err := a.db.Insert(a.table).Rows(goqu.Record{
		"CD_AGENDA":           id,
		"CD_CONSULTORIO":      agenda.CodigoConsultorio,
		"CD_PRESTADOR":        agenda.CodigoPrestador,
		"CD_ITEM_AGENDAMENTO": agenda.CodigoItemAgendamiento,
		"CD_DIA":              agenda.CodigoDia,
		"HORA_INICIO":         toDateTime(agenda.HoraInicio),
		"HORA_FIN":            toDateTime(agenda.HoraFin),
		"TIPO":                agenda.Tipo,
	}).Prepared(true).ToSQL()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		a.logger.Error().Err(err).Int64("cd_agenda", id).Msg("AGND create")
		return 0, apperrors.NewDatabaseError("Error al crear registro en AGND_AGENDA", err)
	}
	return id, nil
}

// Update writes the supplied columns. An empty change set only checks existence.
func (a *AgndAgendaAdapter) Update(ctx context.Context, id int64, changes entities.AgndAgendaChanges) error {
	defer observe(ctx, a.client, "agnd_agenda.update", time.Now())

	if changes.Empty() {
		_, err := a.GetByID(ctx, id)
		return err
	}

	record := goqu.Record{}
	if changes.CodigoConsultorio != nil {
		record["CD_CONSULTORIO"] = *changes.CodigoConsultorio
	}
	if changes.CodigoPrestador != nil {
		record["CD_PRESTADOR"] = *changes.CodigoPrestador
	}
	if changes.CodigoItemAgendamiento != nil {
		record["CD_ITEM_AGENDAMENTO"] = *changes.CodigoItemAgendamiento
	}
	if changes.CodigoDia != nil {
		record["CD_DIA"] = *changes.CodigoDia
	}
	if changes.HoraInicio != nil {
		record["HORA_INICIO"] = toDateTime(*changes.HoraInicio)
	}
	if changes.HoraFin != nil {
		record["HORA_FIN"] = toDateTime(*changes.HoraFin)
	}
	if changes.Tipo != nil {
		record["TIPO"] = *changes.Tipo
	}

	query, args, err := a.db.Update(a.table).Set(record).Where(goqu.Ex{"CD_AGENDA": id}).Prepared(true).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewDatabaseError("Error al actualizar AGND_AGENDA", err)
	}
	return requireAffected(result, "AGND_AGENDA")
}

// Delete removes a record
func (a *AgndAgendaAdapter) Delete(ctx context.Context, id int64) error {
	defer observe(ctx, a.client, "agnd_agenda.delete", time.Now())

	query, args, err := a.db.Delete(a.table).Where(goqu.Ex{"CD_AGENDA": id}).Prepared(true).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewDatabaseError("Error al eliminar AGND_AGENDA", err)
	}
	return requireAffected(result, "AGND_AGENDA")
}
