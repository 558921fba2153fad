package services_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/agendas-medicas/backend/internal/domain/entities"
)

type MockAgendaRepository struct {
	mock.Mock
}

func (m *MockAgendaRepository) List(ctx context.Context) ([]*entities.Agenda, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Agenda), args.Error(1)
}

func (m *MockAgendaRepository) GetByID(ctx context.Context, id int64) (*entities.Agenda, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Agenda), args.Error(1)
}

func (m *MockAgendaRepository) ListByPrestador(ctx context.Context, codigoPrestador int64) ([]*entities.Agenda, error) {
	args := m.Called(ctx, codigoPrestador)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Agenda), args.Error(1)
}

func (m *MockAgendaRepository) Create(ctx context.Context, agenda *entities.Agenda) (int64, error) {
	args := m.Called(ctx, agenda)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAgendaRepository) Update(ctx context.Context, id int64, changes entities.AgendaChanges) error {
	args := m.Called(ctx, id, changes)
	return args.Error(0)
}

func (m *MockAgendaRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockMedicoDirectory struct {
	mock.Mock
}

func (m *MockMedicoDirectory) Medicos(ctx context.Context, situationType string) ([]entities.MedicoExterno, error) {
	args := m.Called(ctx, situationType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.MedicoExterno), args.Error(1)
}

func (m *MockMedicoDirectory) Especialidades(ctx context.Context) ([]entities.EspecialidadExterna, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.EspecialidadExterna), args.Error(1)
}

type MockMedicoRepository struct {
	mock.Mock
}

func (m *MockMedicoRepository) List(ctx context.Context, filter entities.MedicoFilter) ([]*entities.Medico, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Medico), args.Error(1)
}

func (m *MockMedicoRepository) Especialidades(ctx context.Context) ([]*entities.Especialidad, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Especialidad), args.Error(1)
}

type MockAgndAgendaRepository struct {
	mock.Mock
}

func (m *MockAgndAgendaRepository) List(ctx context.Context) ([]*entities.AgndAgenda, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.AgndAgenda), args.Error(1)
}

func (m *MockAgndAgendaRepository) GetByID(ctx context.Context, id int64) (*entities.AgndAgenda, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.AgndAgenda), args.Error(1)
}

func (m *MockAgndAgendaRepository) Create(ctx context.Context, agenda *entities.AgndAgenda) (int64, error) {
	args := m.Called(ctx, agenda)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAgndAgendaRepository) Update(ctx context.Context, id int64, changes entities.AgndAgendaChanges) error {
	args := m.Called(ctx, id, changes)
	return args.Error(0)
}

func (m *MockAgndAgendaRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func ptr[T any](v T) *T {
	return &v
}
