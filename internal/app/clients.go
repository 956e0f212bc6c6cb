package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/neomorfeo/agencyhub/internal/domain"
)

// ClientService manages client accounts.
type ClientService struct {
	repo domain.ClientRepository
}

// NewClientService creates a service over the given repository.
func NewClientService(repo domain.ClientRepository) *ClientService {
	return &ClientService{repo: repo}
}

// Create persists a new client. Only agency staff may open accounts.
func (s *ClientService) Create(ctx context.Context, actor domain.Actor, name, slug, email string) (domain.Client, error) {
	if actor.Role != domain.RoleAdmin && actor.Role != domain.RoleStaff {
		return domain.Client{}, &domain.ForbiddenError{Role: actor.Role}
	}

	// Check slug uniqueness before creating.
	if _, err := s.repo.GetBySlug(ctx, slug); err == nil {
		return domain.Client{}, &domain.SlugConflictError{Slug: slug}
	}

	id, err := generateID()
	if err != nil {
		return domain.Client{}, fmt.Errorf("generating client id: %w", err)
	}

	client := domain.NewClient(id, name, slug, email)
	if err := s.repo.Create(ctx, client); err != nil {
		return domain.Client{}, fmt.Errorf("creating client: %w", err)
	}
	return client, nil
}

// GetByID returns a client the actor is allowed to see.
func (s *ClientService) GetByID(ctx context.Context, actor domain.Actor, id string) (domain.Client, error) {
	if !actor.CanAccessClient(id) {
		return domain.Client{}, domain.ErrClientNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// List returns clients. Client users only see their own account.
func (s *ClientService) List(ctx context.Context, actor domain.Actor, filter domain.ClientFilter) ([]domain.Client, error) {
	if actor.Role == domain.RoleClient {
		c, err := s.GetByID(ctx, actor, actor.ClientID)
		if errors.Is(err, domain.ErrClientNotFound) {
			return []domain.Client{}, nil
		}
		if err != nil {
			return nil, err
		}
		return []domain.Client{c}, nil
	}
	return s.repo.List(ctx, filter)
}

// ClientChanges lists the fields to update; nil fields are left alone.
type ClientChanges struct {
	Name  *string
	Slug  *string
	Email *string
}

// Update edits a client's account. Clients may change their own name and
// email; renaming the slug is reserved to agency staff.
func (s *ClientService) Update(ctx context.Context, actor domain.Actor, id string, changes ClientChanges) (domain.Client, error) {
	client, err := s.GetByID(ctx, actor, id)
	if err != nil {
		return domain.Client{}, err
	}

	if changes.Slug != nil && *changes.Slug != client.Slug {
		if actor.Role != domain.RoleAdmin && actor.Role != domain.RoleStaff {
			return domain.Client{}, &domain.ForbiddenError{Role: actor.Role}
		}
		if other, err := s.repo.GetBySlug(ctx, *changes.Slug); err == nil && other.ID != client.ID {
			return domain.Client{}, &domain.SlugConflictError{Slug: *changes.Slug}
		}
		client.Slug = *changes.Slug
	}
	if changes.Name != nil {
		client.Name = *changes.Name
	}
	if changes.Email != nil {
		client.Email = *changes.Email
	}
	client.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, client); err != nil {
		return domain.Client{}, fmt.Errorf("updating client: %w", err)
	}
	return client, nil
}
