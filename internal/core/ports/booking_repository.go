package ports

import (
	"context"

	"github.com/homestay/rental-api/internal/core/domain"
)

type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error)
	// ListByGuest returns the guest's bookings joined with their listings.
	// Bookings whose listing no longer exists are omitted.
	ListByGuest(ctx context.Context, guestID string) ([]domain.BookingDetail, error)
}
