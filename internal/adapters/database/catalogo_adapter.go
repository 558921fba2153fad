package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/agendas-medicas/backend/internal/domain/entities"
	"github.com/agendas-medicas/backend/internal/domain/repositories"
	"github.com/agendas-medicas/backend/internal/infrastructure/clients/oracle"
	apperrors "github.com/agendas-medicas/backend/pkg/errors"
)

// CatalogoAdapter reads the reference tables of the EDITOR_CUSTOM schema
type CatalogoAdapter struct {
	client *oracle.Client
	db     *goqu.Database
	schema string
}

// NewCatalogoAdapter creates a new catalog adapter for the given schema
func NewCatalogoAdapter(client *oracle.Client, schema string) repositories.CatalogoRepository {
	return &CatalogoAdapter{
		client: client,
		db:     goqu.New(OracleDialect, client.DB()),
		schema: schema,
	}
}

func (a *CatalogoAdapter) table(name string) exp.IdentifierExpression {
	return goqu.T(name).Schema(a.schema)
}

func (a *CatalogoAdapter) query(ctx context.Context, ds *goqu.SelectDataset, message string) (*sql.Rows, error) {
	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewDatabaseError(message, err)
	}
	return rows, nil
}

// Consultorios returns every consulting room
func (a *CatalogoAdapter) Consultorios(ctx context.Context) ([]*entities.Consultorio, error) {
	defer observe(ctx, a.client, "catalogos.consultorios", time.Now())
	const message = "Error al consultar consultorios"

	rows, err := a.query(ctx, a.db.From(a.table("AGND_CONSULTORIO")).
		Select("CD_CONSULTORIO", "DES_CONSULTORIO", "CD_EDIFICIO", "CD_PISO").
		Order(goqu.C("CD_CONSULTORIO").Asc()), message)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	consultorios := make([]*entities.Consultorio, 0)
	for rows.Next() {
		c := &entities.Consultorio{}
		var descripcion sql.NullString
		var edificio, piso sql.NullInt64
		if err := rows.Scan(&c.Codigo, &descripcion, &edificio, &piso); err != nil {
			return nil, apperrors.NewDatabaseError(message, err)
		}
		c.Descripcion = descripcion.String
		if edificio.Valid {
			c.CodigoEdificio = &edificio.Int64
		}
		if piso.Valid {
			c.CodigoPiso = &piso.Int64
		}
		consultorios = append(consultorios, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewDatabaseError(message, err)
	}
	return consultorios, nil
}

// Dias returns the scheduling weekdays
func (a *CatalogoAdapter) Dias(ctx context.Context) ([]*entities.Dia, error) {
	defer observe(ctx, a.client, "catalogos.dias", time.Now())
	const message = "Error al consultar días"

	rows, err := a.query(ctx, a.db.From(a.table("AGND_DIA")).
		Select("CD_DIA", "DES_DIA").
		Order(goqu.C("CD_DIA").Asc()), message)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dias := make([]*entities.Dia, 0)
	for rows.Next() {
		d := &entities.Dia{}
		var descripcion sql.NullString
		if err := rows.Scan(&d.Codigo, &descripcion); err != nil {
			return nil, apperrors.NewDatabaseError(message, err)
		}
		d.Descripcion = descripcion.String
		dias = append(dias, d)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewDatabaseError(message, err)
	}
	return dias, nil
}

// Edificios returns every building
func (a *CatalogoAdapter) Edificios(ctx context.Context) ([]*entities.Edificio, error) {
	defer observe(ctx, a.client, "catalogos.edificios", time.Now())
	const message = "Error al consultar edificios"

	rows, err := a.query(ctx, a.db.From(a.table("AGND_EDIFICIO")).
		Select("CD_EDIFICIO", "DES_EDIFICIO").
		Order(goqu.C("CD_EDIFICIO").Asc()), message)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	edificios := make([]*entities.Edificio, 0)
	for rows.Next() {
		e := &entities.Edificio{}
		var descripcion sql.NullString
		if err := rows.Scan(&e.Codigo, &descripcion); err != nil {
			return nil, apperrors.NewDatabaseError(message, err)
		}
		e.Descripcion = descripcion.String
		edificios = append(edificios, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewDatabaseError(message, err)
	}
	return edificios, nil
}

// PisosByEdificio returns the floors of one building
func (a *CatalogoAdapter) PisosByEdificio(ctx context.Context, codigoEdificio int64) ([]*entities.Piso, error) {
	defer observe(ctx, a.client, "catalogos.pisos", time.Now())
	const message = "Error al consultar pisos del edificio"

	rows, err := a.query(ctx, a.db.From(a.table("AGND_EDIFICIO_PISO")).
		Select("CD_PISO", "CD_EDIFICIO", "DES_PISO").
		Where(goqu.Ex{"CD_EDIFICIO": codigoEdificio}).
		Order(goqu.C("CD_PISO").Asc()), message)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pisos := make([]*entities.Piso, 0)
	for rows.Next() {
		p := &entities.Piso{}
		var descripcion sql.NullString
		if err := rows.Scan(&p.Codigo, &p.CodigoEdificio, &descripcion); err != nil {
			return nil, apperrors.NewDatabaseError(message, err)
		}
		p.Descripcion = descripcion.String
		pisos = append(pisos, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewDatabaseError(message, err)
	}
	return pisos, nil
}
