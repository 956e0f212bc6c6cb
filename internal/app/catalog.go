package app

import (
	"context"
	"fmt"

	"github.com/neomorfeo/agencyhub/internal/domain"
)

// CatalogService manages the service catalog.
type CatalogService struct {
	repo domain.OfferingRepository
}

// NewCatalogService creates a service over the given repository.
func NewCatalogService(repo domain.OfferingRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

// Create adds an offering to the catalog. Admin only.
func (s *CatalogService) Create(ctx context.Context, actor domain.Actor, name, description string, priceCents int64, termDays int) (domain.Offering, error) {
	if actor.Role != domain.RoleAdmin {
		return domain.Offering{}, &domain.ForbiddenError{Role: actor.Role}
	}

	id, err := generateID()
	if err != nil {
		return domain.Offering{}, fmt.Errorf("generating offering id: %w", err)
	}

	offering := domain.NewOffering(id, name, description, priceCents, termDays)
	if err := s.repo.Create(ctx, offering); err != nil {
		return domain.Offering{}, fmt.Errorf("creating offering: %w", err)
	}
	return offering, nil
}

// GetByID returns a catalog entry.
func (s *CatalogService) GetByID(ctx context.Context, id string) (domain.Offering, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns the catalog. Clients only see offerings they can order.
func (s *CatalogService) List(ctx context.Context, actor domain.Actor, includeInactive bool) ([]domain.Offering, error) {
	activeOnly := !includeInactive || actor.Role == domain.RoleClient
	return s.repo.List(ctx, activeOnly)
}
