package repositories

import (
	"context"

	"github.com/agendas-medicas/backend/internal/domain/entities"
)

// AgendaRepository defines the interface for appointment slot storage
type AgendaRepository interface {
	// List returns every slot ordered by date and time, joined with the
	// provider name when the PRESTADOR table is reachable
	List(ctx context.Context) ([]*entities.Agenda, error)

	// GetByID retrieves a slot; NotFound when absent
	GetByID(ctx context.Context, id int64) (*entities.Agenda, error)

	// ListByPrestador returns the slots of one provider
	ListByPrestador(ctx context.Context, codigoPrestador int64) ([]*entities.Agenda, error)

	// Create inserts a slot and returns its new id
	Create(ctx context.Context, agenda *entities.Agenda) (int64, error)

	// Update writes only the supplied columns; NotFound when absent
	Update(ctx context.Context, id int64, changes entities.AgendaChanges) error

	// Delete removes a slot; NotFound when absent
	Delete(ctx context.Context, id int64) error
}
