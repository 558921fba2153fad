package oracle

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendas-medicas/backend/pkg/config"
)

func TestConnectionParams(t *testing.T) {
	P := ConnectionParams(&config.DatabaseConfig{
		User:          "agendas",
		Password:      "secret",
		ConnectString: "db.local:1521/ORCLPDB1",
		PoolMin:       2,
		PoolMax:       10,
		PoolIncrement: 1,
		PoolTimeout:   300 * time.Second,
	})

	assert.Equal(t, "agendas", P.Username)
	assert.Equal(t, "db.local:1521/ORCLPDB1", P.ConnectString)
	assert.Equal(t, 2, P.MinSessions)
	assert.Equal(t, 10, P.MaxSessions)
	assert.Equal(t, 1, P.SessionIncrement)
	assert.Equal(t, 300*time.Second, P.SessionTimeout)
	assert.Equal(t, "secret", P.Password.Secret())
}

func TestClient_Ping(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPing()

	client := NewFromDB(db)
	assert.NoError(t, client.Ping(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
