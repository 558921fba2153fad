package database_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendas-medicas/backend/internal/adapters/database"
	"github.com/agendas-medicas/backend/internal/domain/entities"
	"github.com/agendas-medicas/backend/internal/domain/providers"
	apperrors "github.com/agendas-medicas/backend/pkg/errors"
)

func TestCatalogoAdapter_Consultorios(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := database.NewCatalogoAdapter(client, "EDITOR_CUSTOM")

	mock.ExpectQuery(`FROM "EDITOR_CUSTOM"\."AGND_CONSULTORIO" ORDER BY "CD_CONSULTORIO" ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"CD_CONSULTORIO", "DES_CONSULTORIO", "CD_EDIFICIO", "CD_PISO"}).
			AddRow(1, "Consultorio 1", 2, 3).
			AddRow(2, "Consultorio 2", nil, nil))

	consultorios, err := adapter.Consultorios(context.Background())
	require.NoError(t, err)
	require.Len(t, consultorios, 2)
	assert.Equal(t, int64(2), *consultorios[0].CodigoEdificio)
	assert.Nil(t, consultorios[1].CodigoPiso)
}

func TestCatalogoAdapter_PisosByEdificio(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := database.NewCatalogoAdapter(client, "EDITOR_CUSTOM")

	mock.ExpectQuery(`FROM "EDITOR_CUSTOM"\."AGND_EDIFICIO_PISO" WHERE`).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"CD_PISO", "CD_EDIFICIO", "DES_PISO"}).
			AddRow(1, 4, "Planta baja"))

	pisos, err := adapter.PisosByEdificio(context.Background(), 4)
	require.NoError(t, err)
	require.Len(t, pisos, 1)
	assert.Equal(t, "Planta baja", pisos[0].Descripcion)
}

func TestCatalogoAdapter_Dias_DatabaseError(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := database.NewCatalogoAdapter(client, "EDITOR_CUSTOM")

	mock.ExpectQuery(`AGND_DIA`).WillReturnError(errors.New("ORA-00942"))

	_, err := adapter.Dias(context.Background())
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "Error al consultar días", appErr.Message)
}

type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
	fail bool
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (m *memoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return nil, errors.New("connection refused")
	}
	v, ok := m.data[key]
	if !ok {
		return nil, providers.ErrCacheMiss
	}
	return v, nil
}

func (m *memoryCache) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("connection refused")
	}
	m.data[key] = value
	return nil
}

func (m *memoryCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memoryCache) DeletePattern(ctx context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "*")
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			delete(m.data, k)
		}
	}
	return nil
}

type countingCatalogo struct {
	dias  int
	pisos int
}

func (c *countingCatalogo) Consultorios(ctx context.Context) ([]*entities.Consultorio, error) {
	return []*entities.Consultorio{}, nil
}

func (c *countingCatalogo) Dias(ctx context.Context) ([]*entities.Dia, error) {
	c.dias++
	return []*entities.Dia{{Codigo: 1, Descripcion: "Lunes"}}, nil
}

func (c *countingCatalogo) Edificios(ctx context.Context) ([]*entities.Edificio, error) {
	return nil, apperrors.NewDatabaseError("Error al consultar edificios", errors.New("down"))
}

func (c *countingCatalogo) PisosByEdificio(ctx context.Context, codigoEdificio int64) ([]*entities.Piso, error) {
	c.pisos++
	return []*entities.Piso{{Codigo: 1, CodigoEdificio: codigoEdificio}}, nil
}

func TestCachedCatalogoAdapter_ReadThrough(t *testing.T) {
	inner := &countingCatalogo{}
	cache := newMemoryCache()
	adapter := database.NewCachedCatalogoAdapter(inner, cache, 600, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		dias, err := adapter.Dias(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Lunes", dias[0].Descripcion)
	}
	assert.Equal(t, 1, inner.dias)

	_, err := adapter.PisosByEdificio(ctx, 1)
	require.NoError(t, err)
	_, err = adapter.PisosByEdificio(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.pisos)

	require.NoError(t, adapter.Invalidate(ctx))
	_, err = adapter.Dias(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.dias)
}

func TestCachedCatalogoAdapter_CacheFailureFallsThrough(t *testing.T) {
	inner := &countingCatalogo{}
	cache := newMemoryCache()
	cache.fail = true
	adapter := database.NewCachedCatalogoAdapter(inner, cache, 600, nil)

	dias, err := adapter.Dias(context.Background())
	require.NoError(t, err)
	assert.Len(t, dias, 1)
}

func TestCachedCatalogoAdapter_ErrorsAreNotCached(t *testing.T) {
	cache := newMemoryCache()
	adapter := database.NewCachedCatalogoAdapter(&countingCatalogo{}, cache, 600, nil)

	_, err := adapter.Edificios(context.Background())
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeDatabase))
	assert.Empty(t, cache.data)
}
