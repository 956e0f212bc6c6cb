package domain

import "time"

// Service is a client's instance of a catalog offering, tracked through the
// lifecycle in Transitions.
type Service struct {
	ID         string
	ClientID   string
	OfferingID string
	Name       string
	State      ServiceState
	Notes      string
	// ExpiresAt is set on activation and renewal; nil before the service
	// has ever been active.
	ExpiresAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewService creates a service in the initial "requested" state.
func NewService(id, clientID, offeringID, name, notes string) Service {
	now := time.Now().UTC()
	return Service{
		ID:         id,
		ClientID:   clientID,
		OfferingID: offeringID,
		Name:       name,
		State:      StateRequested,
		Notes:      notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// TransitionRecord is one entry of a service's audit history.
type TransitionRecord struct {
	ID        string
	ServiceID string
	// From is empty for the record written when the service is requested.
	From      ServiceState
	To        ServiceState
	Action    ServiceAction
	ActorID   string
	ActorRole Role
	Note      string
	CreatedAt time.Time
}

// Actor is the authenticated party performing an operation.
type Actor struct {
	ID   string
	Role Role
	// ClientID links a client user to the client account it acts for.
	ClientID string
}

// SystemActor is the identity used by scheduled jobs.
func SystemActor() Actor {
	return Actor{ID: "system", Role: RoleSystem}
}

// CanAccessClient reports whether the actor may see or act on resources
// belonging to clientID.
func (a Actor) CanAccessClient(clientID string) bool {
	if a.Role != RoleClient {
		return true
	}
	return a.ClientID != "" && a.ClientID == clientID
}

// LifecycleEvent describes an applied transition. It is published as part
// of the write that stores it.
type LifecycleEvent struct {
	Action      ServiceAction
	From        ServiceState
	To          ServiceState
	Service     Service
	Actor       Actor
	NotifyRoles []Role
	OccurredAt  time.Time
}
