package repositories

import (
	"context"

	"github.com/agendas-medicas/backend/internal/domain/entities"
)

// AgndAgendaRepository defines storage for EDITOR_CUSTOM.AGND_AGENDA
type AgndAgendaRepository interface {
	List(ctx context.Context) ([]*entities.AgndAgenda, error)
	GetByID(ctx context.Context, id int64) (*entities.AgndAgenda, error)
	Create(ctx context.Context, agenda *entities.AgndAgenda) (int64, error)
	Update(ctx context.Context, id int64, changes entities.AgndAgendaChanges) error
	Delete(ctx context.Context, id int64) error
}
