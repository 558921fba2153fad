package database_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendas-medicas/backend/internal/adapters/database"
	"github.com/agendas-medicas/backend/internal/domain/entities"
	"github.com/agendas-medicas/backend/internal/infrastructure/clients/oracle"
	apperrors "github.com/agendas-medicas/backend/pkg/errors"
)

var agendaColumns = []string{"ID_AGENDA", "CD_PRESTADOR", "FECHA", "HORA", "ESTADO", "NM_PRESTADOR", "NM_MNEMONICO"}

func newMockClient(t *testing.T) (*oracle.Client, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return oracle.NewFromDB(db), mock
}

func TestAgendaAdapter_List_JoinsPrestador(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := database.NewAgendaAdapter(client, "SEQ_AGENDAS")

	mock.ExpectQuery(`LEFT JOIN "PRESTADOR"`).
		WillReturnRows(sqlmock.NewRows(agendaColumns).
			AddRow(1, 5, "2030-01-20", "09:00", "DISPONIBLE", "Dra. Pérez", "DPEREZ").
			AddRow(2, 7, "2030-01-21", "10:00", "OCUPADO", nil, nil))

	agendas, err := adapter.List(context.Background())
	require.NoError(t, err)
	require.Len(t, agendas, 2)

	assert.Equal(t, int64(1), agendas[0].ID)
	assert.Equal(t, "Dra. Pérez", agendas[0].NombrePrestador)
	assert.Equal(t, "DPEREZ", agendas[0].Mnemonico)
	assert.Equal(t, entities.AgendaStatusOcupado, agendas[1].Estado)
	assert.Equal(t, entities.DefaultNombrePrestador, agendas[1].NombrePrestador)
	assert.Equal(t, entities.DefaultMnemonico, agendas[1].Mnemonico)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAgendaAdapter_List_FallsBackWithoutJoin(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := database.NewAgendaAdapter(client, "SEQ_AGENDAS")

	mock.ExpectQuery(`LEFT JOIN "PRESTADOR"`).
		WillReturnError(errors.New("ORA-00942: table or view does not exist"))
	mock.ExpectQuery(`FROM "AGENDAS" ORDER BY`).
		WillReturnRows(sqlmock.NewRows(agendaColumns).
			AddRow(3, 5, "2030-01-20", "11:00", "DISPONIBLE", nil, nil))

	agendas, err := adapter.List(context.Background())
	require.NoError(t, err)
	require.Len(t, agendas, 1)
	assert.Equal(t, entities.DefaultNombrePrestador, agendas[0].NombrePrestador)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAgendaAdapter_GetByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		client, mock := newMockClient(t)
		adapter := database.NewAgendaAdapter(client, "SEQ_AGENDAS")

		mock.ExpectQuery(`FROM "AGENDAS" WHERE`).
			WithArgs(int64(9)).
			WillReturnRows(sqlmock.NewRows(agendaColumns).
				AddRow(9, 5, "2030-01-20", "09:00", "CANCELADO", nil, nil))

		agenda, err := adapter.GetByID(context.Background(), 9)
		require.NoError(t, err)
		assert.Equal(t, int64(9), agenda.ID)
		assert.Equal(t, "2030-01-20", agenda.Fecha)
		assert.Equal(t, entities.AgendaStatusCancelado, agenda.Estado)
	})

	t.Run("not found", func(t *testing.T) {
		client, mock := newMockClient(t)
		adapter := database.NewAgendaAdapter(client, "SEQ_AGENDAS")

		mock.ExpectQuery(`FROM "AGENDAS" WHERE`).
			WillReturnRows(sqlmock.NewRows(agendaColumns))

		_, err := adapter.GetByID(context.Background(), 404)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
	})

	t.Run("database failure", func(t *testing.T) {
		client, mock := newMockClient(t)
		adapter := database.NewAgendaAdapter(client, "SEQ_AGENDAS")

		mock.ExpectQuery(`FROM "AGENDAS" WHERE`).WillReturnError(sql.ErrConnDone)

		_, err := adapter.GetByID(context.Background(), 1)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeDatabase))
	})
}

func TestAgendaAdapter_Create_UsesSequence(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := database.NewAgendaAdapter(client, "SEQ_AGENDAS")

	mock.ExpectQuery(`SEQ_AGENDAS\.NEXTVAL FROM "DUAL"`).
		WillReturnRows(sqlmock.NewRows([]string{"NEXTVAL"}).AddRow(42))
	mock.ExpectExec(`INSERT INTO "AGENDAS"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	id, err := adapter.Create(context.Background(), &entities.Agenda{
		CodigoPrestador: 5,
		Fecha:           "2030-01-20",
		Hora:            "09:00",
		Estado:          entities.AgendaStatusDisponible,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAgendaAdapter_Create_FallsBackToMax(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := database.NewAgendaAdapter(client, "SEQ_AGENDAS")

	mock.ExpectQuery(`NEXTVAL`).
		WillReturnError(errors.New("ORA-02289: sequence does not exist"))
	mock.ExpectQuery(`NVL\(MAX\("ID_AGENDA"\), 0\) \+ 1`).
		WillReturnRows(sqlmock.NewRows([]string{"ID"}).AddRow(7))
	mock.ExpectExec(`INSERT INTO "AGENDAS"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	id, err := adapter.Create(context.Background(), &entities.Agenda{CodigoPrestador: 5, Fecha: "2030-01-20", Hora: "09:00"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAgendaAdapter_Create_UniqueViolationIsConflict(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := database.NewAgendaAdapter(client, "SEQ_AGENDAS")

	mock.ExpectQuery(`NEXTVAL`).WillReturnRows(sqlmock.NewRows([]string{"NEXTVAL"}).AddRow(43))
	mock.ExpectExec(`INSERT INTO "AGENDAS"`).
		WillReturnError(errors.New("ORA-00001: unique constraint (AGENDAS.UQ_AGENDAS_ACTIVA) violated"))

	_, err := adapter.Create(context.Background(), &entities.Agenda{CodigoPrestador: 5, Fecha: "2030-01-20", Hora: "09:00"})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))
}

func TestAgendaAdapter_Update(t *testing.T) {
	estado := entities.AgendaStatusCancelado

	t.Run("writes supplied columns", func(t *testing.T) {
		client, mock := newMockClient(t)
		adapter := database.NewAgendaAdapter(client, "SEQ_AGENDAS")

		mock.ExpectExec(`UPDATE "AGENDAS" SET "ESTADO"=:1`).
			WithArgs("CANCELADO", int64(3)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := adapter.Update(context.Background(), 3, entities.AgendaChanges{Estado: &estado})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row", func(t *testing.T) {
		client, mock := newMockClient(t)
		adapter := database.NewAgendaAdapter(client, "SEQ_AGENDAS")

		mock.ExpectExec(`UPDATE "AGENDAS"`).WillReturnResult(sqlmock.NewResult(0, 0))

		err := adapter.Update(context.Background(), 3, entities.AgendaChanges{Estado: &estado})
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
	})

	t.Run("no changes", func(t *testing.T) {
		client, _ := newMockClient(t)
		adapter := database.NewAgendaAdapter(client, "SEQ_AGENDAS")

		err := adapter.Update(context.Background(), 3, entities.AgendaChanges{})
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	})
}

func TestAgendaAdapter_Delete(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := database.NewAgendaAdapter(client, "SEQ_AGENDAS")

	mock.ExpectExec(`DELETE FROM "AGENDAS" WHERE`).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "AGENDAS" WHERE`).
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, adapter.Delete(context.Background(), 3))
	err := adapter.Delete(context.Background(), 4)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}
