package domain

import (
	"context"
	"time"
)

// ClientRepository defines the persistence contract for clients.
type ClientRepository interface {
	Create(ctx context.Context, client Client) error
	GetByID(ctx context.Context, id string) (Client, error)
	GetBySlug(ctx context.Context, slug string) (Client, error)
	List(ctx context.Context, filter ClientFilter) ([]Client, error)
	Update(ctx context.Context, client Client) error
}

// ClientFilter holds optional criteria for listing clients.
type ClientFilter struct {
	Limit  int
	Offset int
}

// OfferingRepository defines the persistence contract for the service catalog.
type OfferingRepository interface {
	Create(ctx context.Context, offering Offering) error
	GetByID(ctx context.Context, id string) (Offering, error)
	List(ctx context.Context, activeOnly bool) ([]Offering, error)
}

// WriteHook runs inside a repository write, after the rows are written and
// before they are committed. An error rolls the whole write back. The ctx it
// receives carries the write's transaction, so adapters sharing the database
// can join it.
type WriteHook func(ctx context.Context) error

// ServiceRepository defines the persistence contract for service instances
// and their transition history. A nil hook is allowed.
type ServiceRepository interface {
	// Create stores a new service together with its initial history record.
	Create(ctx context.Context, service Service, record TransitionRecord, hook WriteHook) error
	GetByID(ctx context.Context, id string) (Service, error)
	List(ctx context.Context, filter ServiceFilter) ([]Service, error)
	// ApplyTransition atomically stores the service's new state and the
	// history record, provided the stored state still equals expected.
	ApplyTransition(ctx context.Context, service Service, record TransitionRecord, expected ServiceState, hook WriteHook) error
	History(ctx context.Context, serviceID string) ([]TransitionRecord, error)
}

// ServiceFilter holds optional criteria for listing services.
type ServiceFilter struct {
	ClientID       string
	State          *ServiceState
	ExpiringBefore *time.Time
	Limit          int
	Offset         int
}

// EventPublisher defines the contract for emitting lifecycle events. Called
// from a WriteHook, the event commits or rolls back with the write.
type EventPublisher interface {
	Publish(ctx context.Context, event LifecycleEvent) error
}

// TransitionValidator checks an action against the lifecycle and returns
// the destination state.
type TransitionValidator interface {
	Apply(ctx context.Context, current ServiceState, action ServiceAction) (ServiceState, error)
}

// Notification is a message addressed to everyone holding a role.
type Notification struct {
	Role      Role
	ClientID  string
	ServiceID string
	Action    ServiceAction
	State     ServiceState
	Message   string
}

// Notifier delivers notifications produced by lifecycle events.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}
