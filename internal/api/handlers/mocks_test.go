package handlers_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/agendas-medicas/backend/internal/application/services"
	"github.com/agendas-medicas/backend/internal/domain/entities"
	"github.com/agendas-medicas/backend/internal/infrastructure/clients/externalapi"
)

type MockAgendaService struct {
	mock.Mock
}

func (m *MockAgendaService) List(ctx context.Context) ([]*entities.Agenda, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Agenda), args.Error(1)
}

func (m *MockAgendaService) Get(ctx context.Context, rawID string) (*entities.Agenda, error) {
	args := m.Called(ctx, rawID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Agenda), args.Error(1)
}

func (m *MockAgendaService) ListByPrestador(ctx context.Context, rawCode string) ([]*entities.Agenda, error) {
	args := m.Called(ctx, rawCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Agenda), args.Error(1)
}

func (m *MockAgendaService) Create(ctx context.Context, in entities.AgendaInput) (*entities.Agenda, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Agenda), args.Error(1)
}

func (m *MockAgendaService) Update(ctx context.Context, rawID string, in entities.AgendaInput) error {
	return m.Called(ctx, rawID, in).Error(0)
}

func (m *MockAgendaService) Cancel(ctx context.Context, rawID, motivo string) error {
	return m.Called(ctx, rawID, motivo).Error(0)
}

func (m *MockAgendaService) Delete(ctx context.Context, rawID string) error {
	return m.Called(ctx, rawID).Error(0)
}

func (m *MockAgendaService) Stats(ctx context.Context) (*entities.AgendaStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.AgendaStats), args.Error(1)
}

type MockMedicoService struct {
	mock.Mock
}

func (m *MockMedicoService) List(ctx context.Context, situationType string) ([]entities.MedicoExterno, error) {
	args := m.Called(ctx, situationType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.MedicoExterno), args.Error(1)
}

func (m *MockMedicoService) Especialidades(ctx context.Context) ([]entities.EspecialidadExterna, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.EspecialidadExterna), args.Error(1)
}

func (m *MockMedicoService) ByEspecialidad(ctx context.Context, especialidad string) (*services.MedicoSearchResult, error) {
	return m.search(ctx, especialidad)
}

func (m *MockMedicoService) ByCodigoItem(ctx context.Context, rawCode string) (*services.MedicoSearchResult, error) {
	return m.search(ctx, rawCode)
}

func (m *MockMedicoService) ByNombre(ctx context.Context, nombre string) (*services.MedicoSearchResult, error) {
	return m.search(ctx, nombre)
}

func (m *MockMedicoService) search(ctx context.Context, value string) (*services.MedicoSearchResult, error) {
	args := m.Called(ctx, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.MedicoSearchResult), args.Error(1)
}

func (m *MockMedicoService) Stats(ctx context.Context) (*entities.MedicoStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.MedicoStats), args.Error(1)
}

type stubExternalAuth struct {
	status   externalapi.TokenStatus
	loginRaw map[string]any
	loginErr error
}

func (s *stubExternalAuth) Status() externalapi.TokenStatus { return s.status }

func (s *stubExternalAuth) Login(ctx context.Context) (map[string]any, error) {
	return s.loginRaw, s.loginErr
}

type stubDirectory struct {
	settings  externalapi.Settings
	medicos   any
	medErr    error
	proxy     *externalapi.ProxyResult
	proxyErr  error
	gotMethod string
	gotPath   string
}

func (s *stubDirectory) Settings() externalapi.Settings { return s.settings }

func (s *stubDirectory) MedicosRaw(ctx context.Context, situationType string) (any, error) {
	return s.medicos, s.medErr
}

func (s *stubDirectory) Proxy(ctx context.Context, method, path string) (*externalapi.ProxyResult, error) {
	s.gotMethod, s.gotPath = method, path
	return s.proxy, s.proxyErr
}

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(ctx context.Context) error { return s.err }
