package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/homestay/rental-api/internal/core/domain"
	"github.com/homestay/rental-api/internal/core/ports"
	"github.com/homestay/rental-api/internal/pkg/metrics"
)

type bookingEvent struct {
	ID        string `json:"id"`
	GuestID   string `json:"guest"`
	ListingID string `json:"place"`
	CheckIn   string `json:"checkIn"`
	CheckOut  string `json:"checkOut"`
}

// BookingService records reservations. It does not check availability or
// whether the referenced listing still exists.
type BookingService struct {
	repo   ports.BookingRepository
	events ports.EventPublisher
	log    zerolog.Logger
}

func NewBookingService(repo ports.BookingRepository, events ports.EventPublisher, log zerolog.Logger) *BookingService {
	return &BookingService{repo: repo, events: events, log: log}
}

func (s *BookingService) Create(ctx context.Context, guestID string, in ports.BookingInput) (*domain.Booking, error) {
	if guestID == "" {
		return nil, domain.ErrUnauthenticated
	}
	if in.ListingID == "" {
		return nil, domain.ErrInvalidInput
	}

	created, err := s.repo.Create(ctx, &domain.Booking{
		GuestName: in.GuestName,
		GuestID:   guestID,
		ListingID: in.ListingID,
		CheckIn:   in.CheckIn,
		CheckOut:  in.CheckOut,
		Guests:    in.Guests,
		Phone:     in.Phone,
		Price:     in.Price,
	})
	if err != nil {
		s.log.Error().Err(err).Str("guest", guestID).Msg("failed to create booking")
		return nil, err
	}

	metrics.BookingsCreatedTotal.Inc()
	if s.events != nil {
		ev := bookingEvent{
			ID:        created.ID,
			GuestID:   guestID,
			ListingID: created.ListingID,
			CheckIn:   created.CheckIn,
			CheckOut:  created.CheckOut,
		}
		if err := s.events.Publish(ctx, ports.EventBookingCreated, ev); err != nil {
			s.log.Warn().Err(err).Str("booking_id", created.ID).Msg("failed to publish event")
		}
	}

	s.log.Info().Str("booking_id", created.ID).Str("listing_id", created.ListingID).Msg("booking created")
	return created, nil
}

func (s *BookingService) ListByGuest(ctx context.Context, guestID string) ([]domain.BookingDetail, error) {
	if guestID == "" {
		return nil, domain.ErrUnauthenticated
	}
	return s.repo.ListByGuest(ctx, guestID)
}
