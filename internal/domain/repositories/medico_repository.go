package repositories

import (
	"context"

	"github.com/agendas-medicas/backend/internal/domain/entities"
)

// MedicoRepository reads providers from the DBAMV catalogue
type MedicoRepository interface {
	List(ctx context.Context, filter entities.MedicoFilter) ([]*entities.Medico, error)
	Especialidades(ctx context.Context) ([]*entities.Especialidad, error)
}

// MedicoDirectory reads providers from the remote provider API
type MedicoDirectory interface {
	Medicos(ctx context.Context, situationType string) ([]entities.MedicoExterno, error)
	Especialidades(ctx context.Context) ([]entities.EspecialidadExterna, error)
}
