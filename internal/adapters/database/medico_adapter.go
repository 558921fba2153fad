package database

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/agendas-medicas/backend/internal/domain/entities"
	"github.com/agendas-medicas/backend/internal/domain/repositories"
	"github.com/agendas-medicas/backend/internal/infrastructure/clients/oracle"
	apperrors "github.com/agendas-medicas/backend/pkg/errors"
)

const dbamvSchema = "DBAMV"

// MedicoAdapter reads active providers and their scheduling items from DBAMV
type MedicoAdapter struct {
	client *oracle.Client
	db     *goqu.Database
}

// NewMedicoAdapter creates a new médico adapter
func NewMedicoAdapter(client *oracle.Client) repositories.MedicoRepository {
	return &MedicoAdapter{
		client: client,
		db:     goqu.New(OracleDialect, client.DB()),
	}
}

func dbamv(table, alias string) any {
	return goqu.T(table).Schema(dbamvSchema).As(alias)
}

// List returns provider/item pairs, optionally filtered
func (a *MedicoAdapter) List(ctx context.Context, filter entities.MedicoFilter) ([]*entities.Medico, error) {
	defer observe(ctx, a.client, "medicos.list", time.Now())

	ds := a.db.From(dbamv("AGENDA_CENTRAL", "ac")).
		Select(
			goqu.I("pr.CD_PRESTADOR"),
			goqu.I("pr.NM_PRESTADOR"),
			goqu.I("pr.NM_MNEMONICO"),
			goqu.I("ia.CD_ITEM_AGENDAMENTO"),
			goqu.I("ia.DS_ITEM_AGENDAMENTO"),
		).
		Distinct().
		Join(dbamv("PRESTADOR", "pr"), goqu.On(goqu.I("pr.CD_PRESTADOR").Eq(goqu.I("ac.CD_PRESTADOR")))).
		Join(dbamv("AGENDA_CENTRAL_ITEM_AGENDA", "acia"), goqu.On(goqu.I("acia.CD_AGENDA_CENTRAL").Eq(goqu.I("ac.CD_AGENDA_CENTRAL")))).
		Join(dbamv("ITEM_AGENDAMENTO", "ia"), goqu.On(goqu.I("ia.CD_ITEM_AGENDAMENTO").Eq(goqu.I("acia.CD_ITEM_AGENDAMENTO")))).
		Where(
			goqu.I("pr.TP_SITUACAO").Eq("A"),
			goqu.I("ia.SN_ATIVO").Eq("S"),
		)

	message := "Error al consultar médicos"
	switch {
	case filter.Especialidad != "":
		ds = ds.Where(goqu.Func("LOWER", goqu.I("ia.DS_ITEM_AGENDAMENTO")).Like(likePattern(filter.Especialidad)))
		message = "Error al consultar médicos por especialidad"
	case filter.CodigoItem > 0:
		ds = ds.Where(goqu.I("ia.CD_ITEM_AGENDAMENTO").Eq(filter.CodigoItem))
		message = "Error al consultar médicos por código de item"
	case filter.Nombre != "":
		ds = ds.Where(goqu.Func("LOWER", goqu.I("pr.NM_PRESTADOR")).Like(likePattern(filter.Nombre)))
		message = "Error al consultar médicos por nombre"
	}

	query, args, err := ds.
		Order(goqu.I("pr.NM_PRESTADOR").Asc(), goqu.I("ia.DS_ITEM_AGENDAMENTO").Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewDatabaseError(message, err)
	}
	defer rows.Close()

	medicos := make([]*entities.Medico, 0)
	for rows.Next() {
		m := &entities.Medico{}
		var nombre, mnemonico, descripcion sql.NullString
		if err := rows.Scan(&m.CodigoPrestador, &nombre, &mnemonico, &m.CodigoItemAgendamiento, &descripcion); err != nil {
			return nil, apperrors.NewDatabaseError(message, err)
		}
		m.NombrePrestador = nombre.String
		m.Mnemonico = mnemonico.String
		m.DescripcionAgendamiento = descripcion.String
		medicos = append(medicos, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewDatabaseError(message, err)
	}
	return medicos, nil
}

// Especialidades returns the active scheduling items linked to an agenda
func (a *MedicoAdapter) Especialidades(ctx context.Context) ([]*entities.Especialidad, error) {
	defer observe(ctx, a.client, "medicos.especialidades", time.Now())

	query, args, err := a.db.From(dbamv("AGENDA_CENTRAL", "ac")).
		Select(goqu.I("ia.CD_ITEM_AGENDAMENTO"), goqu.I("ia.DS_ITEM_AGENDAMENTO")).
		Distinct().
		Join(dbamv("AGENDA_CENTRAL_ITEM_AGENDA", "acia"), goqu.On(goqu.I("acia.CD_AGENDA_CENTRAL").Eq(goqu.I("ac.CD_AGENDA_CENTRAL")))).
		Join(dbamv("ITEM_AGENDAMENTO", "ia"), goqu.On(goqu.I("ia.CD_ITEM_AGENDAMENTO").Eq(goqu.I("acia.CD_ITEM_AGENDAMENTO")))).
		Where(goqu.I("ia.SN_ATIVO").Eq("S")).
		Order(goqu.I("ia.DS_ITEM_AGENDAMENTO").Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewDatabaseError("Error al consultar especialidades", err)
	}
	defer rows.Close()

	especialidades := make([]*entities.Especialidad, 0)
	for rows.Next() {
		e := &entities.Especialidad{}
		var nombre sql.NullString
		if err := rows.Scan(&e.Codigo, &nombre); err != nil {
			return nil, apperrors.NewDatabaseError("Error al consultar especialidades", err)
		}
		e.Nombre = nombre.String
		especialidades = append(especialidades, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewDatabaseError("Error al consultar especialidades", err)
	}
	return especialidades, nil
}

func likePattern(term string) string {
	return "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
}
