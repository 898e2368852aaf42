package ports

import (
	"context"

	"github.com/homestay/rental-api/internal/core/domain"
)

// ListingInput carries the caller-editable fields of a listing.
type ListingInput struct {
	Name        string
	Address     string
	Photos      []string
	Description string
	Amenities   []string
	ExtraInfo   string
	CheckIn     string
	CheckOut    string
	MaxGuests   int
	Price       float64
}

type ListingService interface {
	Create(ctx context.Context, ownerID string, in ListingInput) (*domain.Listing, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Listing, error)
	ListAll(ctx context.Context) ([]*domain.Listing, error)
	Get(ctx context.Context, id string) (*domain.Listing, error)
	Replace(ctx context.Context, id, callerID string, in ListingInput) error
	Delete(ctx context.Context, id, callerID string) error
}
