package sqlite_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/neomorfeo/agencyhub/internal/adapter/sqlite"
	"github.com/neomorfeo/agencyhub/internal/domain"
)

// newTestStore creates an in-memory SQLite store for testing.
func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func mustCreateClient(t *testing.T, store *sqlite.Store, c domain.Client) {
	t.Helper()
	if err := store.Clients.Create(context.Background(), c); err != nil {
		t.Fatalf("mustCreateClient failed: %v", err)
	}
}

func mustCreateOffering(t *testing.T, store *sqlite.Store, o domain.Offering) {
	t.Helper()
	if err := store.Offerings.Create(context.Background(), o); err != nil {
		t.Fatalf("mustCreateOffering failed: %v", err)
	}
}

// seedService creates client c-1, offering o-1 and a requested service.
func seedService(t *testing.T, store *sqlite.Store, id string) domain.Service {
	t.Helper()
	ctx := context.Background()

	if _, err := store.Clients.GetByID(ctx, "c-1"); err != nil {
		mustCreateClient(t, store, domain.NewClient("c-1", "Acme", "acme", "ops@acme.test"))
		mustCreateOffering(t, store, domain.NewOffering("o-1", "Hosting", "", 4900, 30))
	}

	s := domain.NewService(id, "c-1", "o-1", "Hosting", "")
	rec := domain.TransitionRecord{
		ID: "r-" + id, ServiceID: id, To: domain.StateRequested,
		Action: domain.ActionRequest, ActorID: "u-1", ActorRole: domain.RoleClient,
		CreatedAt: s.CreatedAt,
	}
	if err := store.Services.Create(ctx, s, rec, nil); err != nil {
		t.Fatalf("creating service: %v", err)
	}
	return s
}

// --- Clients ---

func TestClients_CreateAndGetByID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	mustCreateClient(t, store, domain.NewClient("c-1", "Acme Corp", "acme-corp", "ops@acme.test"))

	got, err := store.Clients.GetByID(ctx, "c-1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Name != "Acme Corp" {
		t.Errorf("Name = %q, want %q", got.Name, "Acme Corp")
	}
	if got.Email != "ops@acme.test" {
		t.Errorf("Email = %q, want %q", got.Email, "ops@acme.test")
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt should not be zero")
	}
}

func TestClients_NotFound(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.Clients.GetByID(context.Background(), "nope"); !errors.Is(err, domain.ErrClientNotFound) {
		t.Errorf("expected ErrClientNotFound, got %v", err)
	}
	if _, err := store.Clients.GetBySlug(context.Background(), "nope"); !errors.Is(err, domain.ErrClientNotFound) {
		t.Errorf("expected ErrClientNotFound, got %v", err)
	}
}

func TestClients_DuplicateSlug(t *testing.T) {
	store := newTestStore(t)

	mustCreateClient(t, store, domain.NewClient("c-1", "Acme", "acme", ""))
	err := store.Clients.Create(context.Background(), domain.NewClient("c-2", "Acme 2", "acme", ""))

	var slugErr *domain.SlugConflictError
	if !errors.As(err, &slugErr) {
		t.Fatalf("expected SlugConflictError, got %v", err)
	}
	if slugErr.Slug != "acme" {
		t.Errorf("slug = %q, want %q", slugErr.Slug, "acme")
	}
}

func TestClients_Update(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	c := domain.NewClient("c-1", "Acme", "acme", "")
	mustCreateClient(t, store, c)

	c.Name = "Acme Updated"
	if err := store.Clients.Update(ctx, c); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	got, _ := store.Clients.GetBySlug(ctx, "acme")
	if got.Name != "Acme Updated" {
		t.Errorf("Name = %q, want %q", got.Name, "Acme Updated")
	}

	missing := domain.NewClient("nope", "X", "x", "")
	if err := store.Clients.Update(ctx, missing); !errors.Is(err, domain.ErrClientNotFound) {
		t.Errorf("expected ErrClientNotFound, got %v", err)
	}
}

func TestClients_ListPagination(t *testing.T) {
	store := newTestStore(t)

	for i := range 5 {
		mustCreateClient(t, store, domain.NewClient(fmt.Sprintf("c-%d", i), fmt.Sprintf("Client %d", i), fmt.Sprintf("s-%d", i), ""))
	}

	clients, err := store.Clients.List(context.Background(), domain.ClientFilter{Limit: 2, Offset: 1})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(clients) != 2 {
		t.Fatalf("got %d clients, want 2", len(clients))
	}
	if clients[0].Name != "Client 1" {
		t.Errorf("first = %q, want %q", clients[0].Name, "Client 1")
	}
}

// --- Offerings ---

func TestOfferings_ListActiveOnly(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	mustCreateOffering(t, store, domain.NewOffering("o-1", "Hosting", "managed", 4900, 30))
	retired := domain.NewOffering("o-2", "Fax relay", "", 100, 30)
	retired.Active = false
	mustCreateOffering(t, store, retired)

	active, err := store.Offerings.List(ctx, true)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(active) != 1 || active[0].ID != "o-1" {
		t.Errorf("active = %v, want only o-1", active)
	}

	all, _ := store.Offerings.List(ctx, false)
	if len(all) != 2 {
		t.Errorf("got %d offerings, want 2", len(all))
	}

	got, err := store.Offerings.GetByID(ctx, "o-1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.PriceCents != 4900 || got.TermDays != 30 || !got.Active {
		t.Errorf("offering = %+v", got)
	}

	if _, err := store.Offerings.GetByID(ctx, "nope"); !errors.Is(err, domain.ErrOfferingNotFound) {
		t.Errorf("expected ErrOfferingNotFound, got %v", err)
	}
}

// --- Services ---

func TestServices_CreateAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seedService(t, store, "s-1")

	got, err := store.Services.GetByID(ctx, "s-1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.State != domain.StateRequested {
		t.Errorf("State = %q, want %q", got.State, domain.StateRequested)
	}
	if got.ExpiresAt != nil {
		t.Errorf("ExpiresAt = %v, want nil", got.ExpiresAt)
	}

	history, err := store.Services.History(ctx, "s-1")
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 1 || history[0].Action != domain.ActionRequest {
		t.Errorf("history = %+v", history)
	}
}

func TestServices_GetByID_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Services.GetByID(context.Background(), "nope")
	if !errors.Is(err, domain.ErrServiceNotFound) {
		t.Errorf("expected ErrServiceNotFound, got %v", err)
	}
}

func TestServices_ApplyTransition(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	s := seedService(t, store, "s-1")
	expires := time.Now().UTC().Add(30 * 24 * time.Hour).Truncate(time.Second)
	s.State = domain.StateApproved
	s.ExpiresAt = &expires
	s.UpdatedAt = time.Now().UTC()

	rec := domain.TransitionRecord{
		ID: "r-2", ServiceID: "s-1", From: domain.StateRequested, To: domain.StateApproved,
		Action: domain.ActionApprove, ActorID: "u-admin", ActorRole: domain.RoleAdmin,
		Note: "looks good", CreatedAt: time.Now().UTC(),
	}
	if err := store.Services.ApplyTransition(ctx, s, rec, domain.StateRequested, nil); err != nil {
		t.Fatalf("ApplyTransition failed: %v", err)
	}

	got, _ := store.Services.GetByID(ctx, "s-1")
	if got.State != domain.StateApproved {
		t.Errorf("State = %q, want %q", got.State, domain.StateApproved)
	}
	if got.ExpiresAt == nil || !got.ExpiresAt.Equal(expires) {
		t.Errorf("ExpiresAt = %v, want %v", got.ExpiresAt, expires)
	}

	history, _ := store.Services.History(ctx, "s-1")
	if len(history) != 2 {
		t.Fatalf("got %d history records, want 2", len(history))
	}
	if history[1].Note != "looks good" || history[1].From != domain.StateRequested {
		t.Errorf("history[1] = %+v", history[1])
	}
}

func TestServices_ApplyTransition_Stale(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	s := seedService(t, store, "s-1")
	s.State = domain.StateSuspended
	rec := domain.TransitionRecord{ID: "r-2", ServiceID: "s-1", From: domain.StateActive, To: domain.StateSuspended, Action: domain.ActionSuspend, ActorID: "u", ActorRole: domain.RoleAdmin}

	// Stored state is "requested", not "active".
	err := store.Services.ApplyTransition(ctx, s, rec, domain.StateActive, nil)
	var stale *domain.StaleStateError
	if !errors.As(err, &stale) {
		t.Fatalf("expected StaleStateError, got %v", err)
	}

	history, _ := store.Services.History(ctx, "s-1")
	if len(history) != 1 {
		t.Errorf("history should be untouched, got %d records", len(history))
	}
}

func TestServices_ApplyTransition_NotFound(t *testing.T) {
	store := newTestStore(t)

	s := domain.NewService("nope", "c-1", "o-1", "x", "")
	err := store.Services.ApplyTransition(context.Background(), s, domain.TransitionRecord{ID: "r"}, domain.StateRequested, nil)
	if !errors.Is(err, domain.ErrServiceNotFound) {
		t.Errorf("expected ErrServiceNotFound, got %v", err)
	}
}

func TestServices_ListFilters(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seedService(t, store, "s-1")
	s2 := seedService(t, store, "s-2")

	soon := time.Now().UTC().Add(time.Hour)
	s2.State = domain.StateActive
	s2.ExpiresAt = &soon
	rec := domain.TransitionRecord{ID: "r-x", ServiceID: "s-2", From: domain.StateRequested, To: domain.StateActive, Action: domain.ActionActivate, ActorID: "u", ActorRole: domain.RoleAdmin}
	if err := store.Services.ApplyTransition(ctx, s2, rec, domain.StateRequested, nil); err != nil {
		t.Fatalf("ApplyTransition failed: %v", err)
	}

	active := domain.StateActive
	got, err := store.Services.List(ctx, domain.ServiceFilter{State: &active})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != "s-2" {
		t.Errorf("active = %v, want only s-2", got)
	}

	cutoff := time.Now().UTC().Add(24 * time.Hour)
	got, _ = store.Services.List(ctx, domain.ServiceFilter{ExpiringBefore: &cutoff})
	if len(got) != 1 || got[0].ID != "s-2" {
		t.Errorf("expiring = %v, want only s-2", got)
	}

	got, _ = store.Services.List(ctx, domain.ServiceFilter{ClientID: "c-1"})
	if len(got) != 2 {
		t.Errorf("got %d services for c-1, want 2", len(got))
	}

	got, _ = store.Services.List(ctx, domain.ServiceFilter{ClientID: "c-9"})
	if len(got) != 0 {
		t.Errorf("got %d services for c-9, want 0", len(got))
	}
}

func TestServices_ApplyTransition_HookRunsInTransaction(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	s := seedService(t, store, "s-1")
	s.State = domain.StateApproved
	rec := domain.TransitionRecord{ID: "r-2", ServiceID: "s-1", From: domain.StateRequested, To: domain.StateApproved, Action: domain.ActionApprove, ActorID: "u", ActorRole: domain.RoleAdmin}

	var sawTx bool
	hook := func(ctx context.Context) error {
		tx, ok := sqlite.TxFrom(ctx)
		sawTx = ok
		if !ok {
			return nil
		}
		// The uncommitted write is visible inside the transaction.
		var state string
		if err := tx.QueryRowContext(ctx, `SELECT state FROM services WHERE id = ?`, "s-1").Scan(&state); err != nil {
			return err
		}
		if state != string(domain.StateApproved) {
			return fmt.Errorf("state inside tx = %q", state)
		}
		return nil
	}

	if err := store.Services.ApplyTransition(ctx, s, rec, domain.StateRequested, hook); err != nil {
		t.Fatalf("ApplyTransition failed: %v", err)
	}
	if !sawTx {
		t.Error("hook context should carry the transaction")
	}
}

func TestServices_ApplyTransition_HookFailureRollsBack(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	s := seedService(t, store, "s-1")
	s.State = domain.StateApproved
	rec := domain.TransitionRecord{ID: "r-2", ServiceID: "s-1", From: domain.StateRequested, To: domain.StateApproved, Action: domain.ActionApprove, ActorID: "u", ActorRole: domain.RoleAdmin}

	queueDown := errors.New("queue down")
	err := store.Services.ApplyTransition(ctx, s, rec, domain.StateRequested, func(context.Context) error { return queueDown })
	if !errors.Is(err, queueDown) {
		t.Fatalf("expected hook error, got %v", err)
	}

	got, _ := store.Services.GetByID(ctx, "s-1")
	if got.State != domain.StateRequested {
		t.Errorf("State = %q, want %q after rollback", got.State, domain.StateRequested)
	}
	history, _ := store.Services.History(ctx, "s-1")
	if len(history) != 1 {
		t.Errorf("got %d history records, want 1 after rollback", len(history))
	}
}

func TestServices_Create_HookFailureRollsBack(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	mustCreateClient(t, store, domain.NewClient("c-1", "Acme", "acme", ""))
	mustCreateOffering(t, store, domain.NewOffering("o-1", "Hosting", "", 4900, 30))

	s := domain.NewService("s-1", "c-1", "o-1", "Hosting", "")
	rec := domain.TransitionRecord{ID: "r-1", ServiceID: "s-1", To: domain.StateRequested, Action: domain.ActionRequest, ActorID: "u", ActorRole: domain.RoleClient}

	err := store.Services.Create(ctx, s, rec, func(context.Context) error { return errors.New("queue down") })
	if err == nil {
		t.Fatal("expected hook error")
	}
	if _, err := store.Services.GetByID(ctx, "s-1"); !errors.Is(err, domain.ErrServiceNotFound) {
		t.Errorf("service should not exist after rollback, got %v", err)
	}
}
