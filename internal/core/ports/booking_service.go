package ports

import (
	"context"

	"github.com/homestay/rental-api/internal/core/domain"
)

// BookingInput carries the fields a guest submits when booking.
type BookingInput struct {
	GuestName string
	ListingID string
	CheckIn   string
	CheckOut  string
	Guests    int
	Phone     string
	Price     float64
}

type BookingService interface {
	Create(ctx context.Context, guestID string, in BookingInput) (*domain.Booking, error)
	ListByGuest(ctx context.Context, guestID string) ([]domain.BookingDetail, error)
}
