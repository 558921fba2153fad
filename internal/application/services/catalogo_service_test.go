package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendas-medicas/backend/internal/application/services"
	"github.com/agendas-medicas/backend/internal/domain/entities"
)

type stubCatalogo struct {
	pisosFor    int64
	invalidated bool
}

func (s *stubCatalogo) Consultorios(context.Context) ([]*entities.Consultorio, error) { return nil, nil }
func (s *stubCatalogo) Dias(context.Context) ([]*entities.Dia, error) {
	return []*entities.Dia{{Codigo: 1, Descripcion: "LUNES"}}, nil
}
func (s *stubCatalogo) Edificios(context.Context) ([]*entities.Edificio, error) { return nil, nil }
func (s *stubCatalogo) PisosByEdificio(_ context.Context, code int64) ([]*entities.Piso, error) {
	s.pisosFor = code
	return []*entities.Piso{{Codigo: 1, CodigoEdificio: code, Descripcion: "PB"}}, nil
}

type invalidatingCatalogo struct{ stubCatalogo }

func (s *invalidatingCatalogo) Invalidate(context.Context) error {
	s.invalidated = true
	return nil
}

func TestCatalogoService(t *testing.T) {
	ctx := context.Background()
	repo := &stubCatalogo{}
	svc := services.NewCatalogoService(repo)

	consultorios, err := svc.Consultorios(ctx)
	require.NoError(t, err)
	assert.NotNil(t, consultorios)
	assert.Empty(t, consultorios)

	dias, err := svc.Dias(ctx)
	require.NoError(t, err)
	assert.Len(t, dias, 1)

	pisos, err := svc.PisosByEdificio(ctx, "4")
	require.NoError(t, err)
	assert.Len(t, pisos, 1)
	assert.Equal(t, int64(4), repo.pisosFor)

	_, err = svc.PisosByEdificio(ctx, "torre")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Código de edificio inválido")

	cached, err := svc.InvalidateCache(ctx)
	require.NoError(t, err)
	assert.False(t, cached)
}

func TestCatalogoService_InvalidateCache(t *testing.T) {
	repo := &invalidatingCatalogo{}
	cached, err := services.NewCatalogoService(repo).InvalidateCache(context.Background())
	require.NoError(t, err)
	assert.True(t, cached)
	assert.True(t, repo.invalidated)
}
