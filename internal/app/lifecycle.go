package app

import (
	"context"
	"fmt"
	"time"

	"github.com/neomorfeo/agencyhub/internal/domain"
)

// LifecycleService applies lifecycle actions to stored services.
type LifecycleService struct {
	services  domain.ServiceRepository
	clients   domain.ClientRepository
	offerings domain.OfferingRepository
	publisher domain.EventPublisher
	validator domain.TransitionValidator
	now       func() time.Time
}

// NewLifecycleService creates a service with the given adapters.
func NewLifecycleService(
	services domain.ServiceRepository,
	clients domain.ClientRepository,
	offerings domain.OfferingRepository,
	publisher domain.EventPublisher,
	validator domain.TransitionValidator,
) *LifecycleService {
	return &LifecycleService{
		services:  services,
		clients:   clients,
		offerings: offerings,
		publisher: publisher,
		validator: validator,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Request opens a new service for a client in the "requested" state.
func (s *LifecycleService) Request(ctx context.Context, actor domain.Actor, clientID, offeringID, name, notes string) (domain.Service, error) {
	if !actor.CanAccessClient(clientID) || actor.Role == domain.RoleSystem {
		return domain.Service{}, &domain.ForbiddenError{Action: domain.ActionRequest, Role: actor.Role}
	}

	if _, err := s.clients.GetByID(ctx, clientID); err != nil {
		return domain.Service{}, err
	}

	offering, err := s.offerings.GetByID(ctx, offeringID)
	if err != nil {
		return domain.Service{}, err
	}
	if !offering.Active {
		return domain.Service{}, domain.ErrOfferingInactive
	}
	if name == "" {
		name = offering.Name
	}

	id, err := generateID()
	if err != nil {
		return domain.Service{}, fmt.Errorf("generating service id: %w", err)
	}
	service := domain.NewService(id, clientID, offeringID, name, notes)

	record, err := s.newRecord(service.ID, "", service.State, domain.ActionRequest, actor, notes)
	if err != nil {
		return domain.Service{}, err
	}

	event := domain.LifecycleEvent{
		Action:      domain.ActionRequest,
		To:          service.State,
		Service:     service,
		Actor:       actor,
		NotifyRoles: []domain.Role{domain.RoleAdmin},
		OccurredAt:  record.CreatedAt,
	}
	if err := s.services.Create(ctx, service, record, s.publishHook(event)); err != nil {
		return domain.Service{}, fmt.Errorf("creating service: %w", err)
	}

	return service, nil
}

// Get returns a service the actor is allowed to see.
func (s *LifecycleService) Get(ctx context.Context, actor domain.Actor, id string) (domain.Service, error) {
	service, err := s.services.GetByID(ctx, id)
	if err != nil {
		return domain.Service{}, err
	}
	if !actor.CanAccessClient(service.ClientID) {
		// Do not reveal other clients' services.
		return domain.Service{}, domain.ErrServiceNotFound
	}
	return service, nil
}

// List returns services matching the filter. Clients only ever see their own.
func (s *LifecycleService) List(ctx context.Context, actor domain.Actor, filter domain.ServiceFilter) ([]domain.Service, error) {
	if actor.Role == domain.RoleClient {
		if actor.ClientID == "" {
			return nil, &domain.ForbiddenError{Role: actor.Role}
		}
		filter.ClientID = actor.ClientID
	}
	return s.services.List(ctx, filter)
}

// History returns the transition history of a service.
func (s *LifecycleService) History(ctx context.Context, actor domain.Actor, id string) ([]domain.TransitionRecord, error) {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return nil, err
	}
	return s.services.History(ctx, id)
}

// AvailableActions returns what the actor may do next with a service.
func (s *LifecycleService) AvailableActions(ctx context.Context, actor domain.Actor, id string) (domain.Service, []domain.ServiceAction, error) {
	service, err := s.Get(ctx, actor, id)
	if err != nil {
		return domain.Service{}, nil, err
	}
	return service, domain.ValidNextActions(service.State, actor.Role), nil
}

// Apply authorizes the action for the actor, moves the service to its next
// state and records the change. The write only succeeds if nobody else moved
// the service in between.
func (s *LifecycleService) Apply(ctx context.Context, actor domain.Actor, id string, action domain.ServiceAction, note string) (domain.Service, error) {
	service, err := s.Get(ctx, actor, id)
	if err != nil {
		return domain.Service{}, err
	}

	rule, ok := domain.TransitionFor(service.State, action)
	if !ok {
		return domain.Service{}, &domain.TransitionError{Action: action, Current: service.State}
	}
	if !authorized(actor.Role, service.State, rule) {
		return domain.Service{}, &domain.ForbiddenError{Action: action, Current: service.State, Role: actor.Role}
	}

	next, err := s.validator.Apply(ctx, service.State, action)
	if err != nil {
		return domain.Service{}, err
	}

	previous := service.State
	service.State = next
	service.UpdatedAt = s.now()

	if action == domain.ActionActivate || action == domain.ActionCompleteRenewal {
		offering, err := s.offerings.GetByID(ctx, service.OfferingID)
		if err != nil {
			return domain.Service{}, fmt.Errorf("loading offering %q: %w", service.OfferingID, err)
		}
		expires := expiryFrom(service.UpdatedAt, service.ExpiresAt, offering)
		service.ExpiresAt = &expires
	}

	record, err := s.newRecord(service.ID, previous, next, action, actor, note)
	if err != nil {
		return domain.Service{}, err
	}

	event := domain.LifecycleEvent{
		Action:      action,
		From:        previous,
		To:          next,
		Service:     service,
		Actor:       actor,
		NotifyRoles: rule.NotifyRoles,
		OccurredAt:  record.CreatedAt,
	}
	if err := s.services.ApplyTransition(ctx, service, record, previous, s.publishHook(event)); err != nil {
		return domain.Service{}, fmt.Errorf("applying %q: %w", action, err)
	}

	return service, nil
}

// publishHook publishes event as part of the repository write, so the
// state change and its notifications commit together.
func (s *LifecycleService) publishHook(event domain.LifecycleEvent) domain.WriteHook {
	return func(ctx context.Context) error {
		if err := s.publisher.Publish(ctx, event); err != nil {
			return fmt.Errorf("publishing %q event: %w", event.Action, err)
		}
		return nil
	}
}

func (s *LifecycleService) newRecord(serviceID string, from, to domain.ServiceState, action domain.ServiceAction, actor domain.Actor, note string) (domain.TransitionRecord, error) {
	id, err := generateID()
	if err != nil {
		return domain.TransitionRecord{}, fmt.Errorf("generating record id: %w", err)
	}
	return domain.TransitionRecord{
		ID:        id,
		ServiceID: serviceID,
		From:      from,
		To:        to,
		Action:    action,
		ActorID:   actor.ID,
		ActorRole: actor.Role,
		Note:      note,
		CreatedAt: s.now(),
	}, nil
}

// authorized reports whether role may invoke rule from current. People are
// checked through ValidNextActions; the system role may only run
// system-gated rules.
func authorized(role domain.Role, current domain.ServiceState, rule domain.Transition) bool {
	if role == domain.RoleSystem {
		return rule.RequiredRole == domain.RoleSystem
	}
	for _, a := range domain.ValidNextActions(current, role) {
		if a == rule.Action {
			return true
		}
	}
	return false
}

// expiryFrom extends a still-running term from its current end and starts a
// fresh term otherwise.
func expiryFrom(now time.Time, current *time.Time, offering domain.Offering) time.Time {
	start := now
	if current != nil && current.After(now) {
		start = *current
	}
	return start.Add(offering.Term())
}
