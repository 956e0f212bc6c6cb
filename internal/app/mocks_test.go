package app_test

import (
	"context"
	"time"

	"github.com/neomorfeo/agencyhub/internal/domain"
)

// --- Mocks ---

type mockClients struct {
	clients map[string]domain.Client
	slugs   map[string]domain.Client
}

func newMockClients() *mockClients {
	return &mockClients{
		clients: make(map[string]domain.Client),
		slugs:   make(map[string]domain.Client),
	}
}

func (m *mockClients) Create(_ context.Context, c domain.Client) error {
	m.clients[c.ID] = c
	m.slugs[c.Slug] = c
	return nil
}

func (m *mockClients) GetByID(_ context.Context, id string) (domain.Client, error) {
	c, ok := m.clients[id]
	if !ok {
		return domain.Client{}, domain.ErrClientNotFound
	}
	return c, nil
}

func (m *mockClients) GetBySlug(_ context.Context, slug string) (domain.Client, error) {
	c, ok := m.slugs[slug]
	if !ok {
		return domain.Client{}, domain.ErrClientNotFound
	}
	return c, nil
}

func (m *mockClients) List(_ context.Context, _ domain.ClientFilter) ([]domain.Client, error) {
	out := make([]domain.Client, 0, len(m.clients))
	for _, c := range m.clients {
		out = append(out, c)
	}
	return out, nil
}

func (m *mockClients) Update(_ context.Context, c domain.Client) error {
	m.clients[c.ID] = c
	m.slugs[c.Slug] = c
	return nil
}

type mockOfferings struct {
	offerings map[string]domain.Offering
}

func newMockOfferings() *mockOfferings {
	return &mockOfferings{offerings: make(map[string]domain.Offering)}
}

func (m *mockOfferings) Create(_ context.Context, o domain.Offering) error {
	m.offerings[o.ID] = o
	return nil
}

func (m *mockOfferings) GetByID(_ context.Context, id string) (domain.Offering, error) {
	o, ok := m.offerings[id]
	if !ok {
		return domain.Offering{}, domain.ErrOfferingNotFound
	}
	return o, nil
}

func (m *mockOfferings) List(_ context.Context, activeOnly bool) ([]domain.Offering, error) {
	out := make([]domain.Offering, 0, len(m.offerings))
	for _, o := range m.offerings {
		if activeOnly && !o.Active {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

type mockServices struct {
	services map[string]domain.Service
	history  map[string][]domain.TransitionRecord
	// stale forces ApplyTransition to report a concurrent change.
	stale bool
}

func newMockServices() *mockServices {
	return &mockServices{
		services: make(map[string]domain.Service),
		history:  make(map[string][]domain.TransitionRecord),
	}
}

func (m *mockServices) Create(ctx context.Context, s domain.Service, r domain.TransitionRecord, hook domain.WriteHook) error {
	if hook != nil {
		if err := hook(ctx); err != nil {
			return err
		}
	}
	m.services[s.ID] = s
	m.history[s.ID] = append(m.history[s.ID], r)
	return nil
}

func (m *mockServices) GetByID(_ context.Context, id string) (domain.Service, error) {
	s, ok := m.services[id]
	if !ok {
		return domain.Service{}, domain.ErrServiceNotFound
	}
	return s, nil
}

func (m *mockServices) List(_ context.Context, f domain.ServiceFilter) ([]domain.Service, error) {
	out := make([]domain.Service, 0, len(m.services))
	for _, s := range m.services {
		if f.ClientID != "" && s.ClientID != f.ClientID {
			continue
		}
		if f.State != nil && s.State != *f.State {
			continue
		}
		if f.ExpiringBefore != nil && (s.ExpiresAt == nil || !s.ExpiresAt.Before(*f.ExpiringBefore)) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

// ApplyTransition mirrors the SQL repository: the hook runs before anything
// is stored and its failure leaves the service untouched.
func (m *mockServices) ApplyTransition(ctx context.Context, s domain.Service, r domain.TransitionRecord, expected domain.ServiceState, hook domain.WriteHook) error {
	stored, ok := m.services[s.ID]
	if !ok {
		return domain.ErrServiceNotFound
	}
	if m.stale || stored.State != expected {
		return &domain.StaleStateError{ServiceID: s.ID, Expected: expected}
	}
	if hook != nil {
		if err := hook(ctx); err != nil {
			return err
		}
	}
	m.services[s.ID] = s
	m.history[s.ID] = append(m.history[s.ID], r)
	return nil
}

func (m *mockServices) History(_ context.Context, id string) ([]domain.TransitionRecord, error) {
	return m.history[id], nil
}

type mockPublisher struct {
	events []domain.LifecycleEvent
	err    error
}

func (m *mockPublisher) Publish(_ context.Context, e domain.LifecycleEvent) error {
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, e)
	return nil
}

// tableValidator resolves transitions straight from the domain table.
type tableValidator struct{}

func (tableValidator) Apply(_ context.Context, current domain.ServiceState, action domain.ServiceAction) (domain.ServiceState, error) {
	next, ok := domain.NextState(current, action)
	if !ok {
		return "", &domain.TransitionError{Action: action, Current: current}
	}
	return next, nil
}

// --- Fixtures ---

var (
	admin  = domain.Actor{ID: "u-admin", Role: domain.RoleAdmin}
	staff  = domain.Actor{ID: "u-staff", Role: domain.RoleStaff}
	client = domain.Actor{ID: "u-client", Role: domain.RoleClient, ClientID: "c-1"}
	other  = domain.Actor{ID: "u-other", Role: domain.RoleClient, ClientID: "c-2"}
)

type fixture struct {
	services  *mockServices
	clients   *mockClients
	offerings *mockOfferings
	publisher *mockPublisher
}

func newFixture() *fixture {
	f := &fixture{
		services:  newMockServices(),
		clients:   newMockClients(),
		offerings: newMockOfferings(),
		publisher: &mockPublisher{},
	}
	f.clients.clients["c-1"] = domain.NewClient("c-1", "Acme", "acme", "ops@acme.test")
	f.clients.clients["c-2"] = domain.NewClient("c-2", "Globex", "globex", "it@globex.test")
	f.offerings.offerings["o-1"] = domain.NewOffering("o-1", "Managed hosting", "", 4900, 30)
	retired := domain.NewOffering("o-old", "Fax relay", "", 100, 30)
	retired.Active = false
	f.offerings.offerings["o-old"] = retired
	return f
}

// seed stores a service directly in the given state.
func (f *fixture) seed(id string, state domain.ServiceState, expiresAt *time.Time) domain.Service {
	s := domain.NewService(id, "c-1", "o-1", "Managed hosting", "")
	s.State = state
	s.ExpiresAt = expiresAt
	f.services.services[id] = s
	return s
}
