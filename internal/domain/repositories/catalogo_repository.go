package repositories

import (
	"context"

	"github.com/agendas-medicas/backend/internal/domain/entities"
)

// CatalogoRepository reads the EDITOR_CUSTOM reference tables
type CatalogoRepository interface {
	Consultorios(ctx context.Context) ([]*entities.Consultorio, error)
	Dias(ctx context.Context) ([]*entities.Dia, error)
	Edificios(ctx context.Context) ([]*entities.Edificio, error)
	PisosByEdificio(ctx context.Context, codigoEdificio int64) ([]*entities.Piso, error)
}
