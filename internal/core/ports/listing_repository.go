package ports

import (
	"context"

	"github.com/homestay/rental-api/internal/core/domain"
)

// ListingRepository persists listings. FindByID returns
// domain.ErrListingNotFound for unknown or malformed ids. Replace and Delete
// match on both id and owner and return domain.ErrListingNotFound when
// nothing matched.
type ListingRepository interface {
	Create(ctx context.Context, l *domain.Listing) (*domain.Listing, error)
	FindByID(ctx context.Context, id string) (*domain.Listing, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Listing, error)
	ListAll(ctx context.Context) ([]*domain.Listing, error)
	Replace(ctx context.Context, l *domain.Listing) error
	Delete(ctx context.Context, id, ownerID string) error
}

// ListingCache is a read-through cache for single listings. Get returns a
// nil listing on a miss together with the key's current generation; Set
// stores only if that generation is still current, so a read that raced an
// invalidating Delete cannot repopulate stale data.
type ListingCache interface {
	Get(ctx context.Context, id string) (*domain.Listing, int64, error)
	Set(ctx context.Context, l *domain.Listing, generation int64) error
	Delete(ctx context.Context, id string) error
}
