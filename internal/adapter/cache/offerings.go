package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/neomorfeo/agencyhub/internal/domain"
)

// Compile-time check: OfferingRepository implements domain.OfferingRepository.
var _ domain.OfferingRepository = (*OfferingRepository)(nil)

const (
	offeringPrefix  = "offering:"
	listActiveKey   = "offerings:active"
	listAllKey      = "offerings:all"
	cleanupInterval = 10 * time.Minute
)

// OfferingRepository is a read-through cache in front of another offering
// repository. The catalog changes rarely and is read on every request and
// activation.
type OfferingRepository struct {
	next  domain.OfferingRepository
	store *gocache.Cache
}

// NewOfferingRepository caches entries of next for ttl.
func NewOfferingRepository(next domain.OfferingRepository, ttl time.Duration) *OfferingRepository {
	return &OfferingRepository{
		next:  next,
		store: gocache.New(ttl, cleanupInterval),
	}
}

func (r *OfferingRepository) Create(ctx context.Context, o domain.Offering) error {
	if err := r.next.Create(ctx, o); err != nil {
		return err
	}
	r.store.Delete(listActiveKey)
	r.store.Delete(listAllKey)
	r.store.SetDefault(offeringPrefix+o.ID, o)
	return nil
}

func (r *OfferingRepository) GetByID(ctx context.Context, id string) (domain.Offering, error) {
	if v, ok := r.store.Get(offeringPrefix + id); ok {
		return v.(domain.Offering), nil
	}

	o, err := r.next.GetByID(ctx, id)
	if err != nil {
		return domain.Offering{}, err
	}
	r.store.SetDefault(offeringPrefix+id, o)
	return o, nil
}

func (r *OfferingRepository) List(ctx context.Context, activeOnly bool) ([]domain.Offering, error) {
	key := listAllKey
	if activeOnly {
		key = listActiveKey
	}
	if v, ok := r.store.Get(key); ok {
		return clone(v.([]domain.Offering)), nil
	}

	offerings, err := r.next.List(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	r.store.SetDefault(key, clone(offerings))
	return offerings, nil
}

func clone(in []domain.Offering) []domain.Offering {
	out := make([]domain.Offering, len(in))
	copy(out, in)
	return out
}
