package ports

import "context"

const (
	EventListingCreated = "places.created"
	EventListingUpdated = "places.updated"
	EventListingDeleted = "places.deleted"
	EventBookingCreated = "bookings.created"
)

// EventPublisher emits domain events. Publishing is fire-and-forget from the
// caller's point of view.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, payload any) error
}
