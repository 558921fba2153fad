package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/doug-martin/goqu/v9"
	"github.com/rs/zerolog"

	"github.com/agendas-medicas/backend/internal/infrastructure/clients/oracle"
	"github.com/agendas-medicas/backend/internal/infrastructure/observability"
	apperrors "github.com/agendas-medicas/backend/pkg/errors"
)

const activeAgendaIndex = "UQ_AGENDAS_ACTIVA"

// SchemaManager creates the AGENDAS objects owned by this service when they
// are missing. It never alters existing objects.
type SchemaManager struct {
	client   *oracle.Client
	db       *goqu.Database
	sequence string
	logger   zerolog.Logger
}

// NewSchemaManager creates a schema manager for the given id sequence
func NewSchemaManager(client *oracle.Client, sequence string) *SchemaManager {
	return &SchemaManager{
		client:   client,
		db:       goqu.New(OracleDialect, client.DB()),
		sequence: strings.ToUpper(sequence),
		logger:   observability.Component("database"),
	}
}

// EnsureAgendas creates the id sequence, the AGENDAS table and the unique
// index over active (provider, date, time) tuples.
func (m *SchemaManager) EnsureAgendas(ctx context.Context) error {
	if !validIdentifier(m.sequence) || strings.Contains(m.sequence, ".") {
		return apperrors.NewInternalError(fmt.Sprintf("nombre de secuencia inválido: %q", m.sequence), nil)
	}

	steps := []struct {
		dictionary string
		column     string
		name       string
		ddl        string
	}{
		{
			dictionary: "USER_SEQUENCES",
			column:     "SEQUENCE_NAME",
			name:       m.sequence,
			ddl:        fmt.Sprintf("CREATE SEQUENCE %s START WITH 1 INCREMENT BY 1 NOCACHE", m.sequence),
		},
		{
			dictionary: "USER_TABLES",
			column:     "TABLE_NAME",
			name:       agendasTable,
			ddl: fmt.Sprintf(`CREATE TABLE %s (
  ID_AGENDA NUMBER DEFAULT %s.NEXTVAL PRIMARY KEY,
  CD_PRESTADOR NUMBER NOT NULL,
  FECHA DATE NOT NULL,
  HORA VARCHAR2(5) NOT NULL,
  ESTADO VARCHAR2(20) DEFAULT 'DISPONIBLE',
  CREATED_AT DATE DEFAULT SYSDATE,
  UPDATED_AT DATE DEFAULT SYSDATE
)`, agendasTable, m.sequence),
		},
		{
			dictionary: "USER_INDEXES",
			column:     "INDEX_NAME",
			name:       activeAgendaIndex,
			ddl: fmt.Sprintf(`CREATE UNIQUE INDEX %s ON %s (
  CASE WHEN NVL(ESTADO, 'DISPONIBLE') <> 'CANCELADO' THEN CD_PRESTADOR END,
  CASE WHEN NVL(ESTADO, 'DISPONIBLE') <> 'CANCELADO' THEN FECHA END,
  CASE WHEN NVL(ESTADO, 'DISPONIBLE') <> 'CANCELADO' THEN HORA END
)`, activeAgendaIndex, agendasTable),
		},
	}

	for _, step := range steps {
		exists, err := m.exists(ctx, step.dictionary, step.column, step.name)
		if err != nil {
			return apperrors.NewDatabaseError("Error al verificar/crear tabla AGENDAS", err)
		}
		if exists {
			continue
		}
		m.logger.Info().Str("object", step.name).Msg("Creando objeto de esquema")
		if _, err := m.client.DB().ExecContext(ctx, step.ddl); err != nil {
			return apperrors.NewDatabaseError("Error al verificar/crear tabla AGENDAS", err)
		}
	}
	return nil
}

func (m *SchemaManager) exists(ctx context.Context, dictionary, column, name string) (bool, error) {
	query, args, err := m.db.From(dictionary).
		Select(goqu.COUNT(goqu.Star())).
		Where(goqu.Ex{column: name}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return false, err
	}

	var count int64
	if err := m.client.DB().QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}
