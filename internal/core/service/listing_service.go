package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/homestay/rental-api/internal/core/domain"
	"github.com/homestay/rental-api/internal/core/ports"
	"github.com/homestay/rental-api/internal/pkg/metrics"
)

type listingEvent struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner"`
	Name    string `json:"name,omitempty"`
}

// ListingService implements listing CRUD with owner-scoped writes. cache and
// events may be nil, in which case reads go straight to the repository and
// no events are emitted.
type ListingService struct {
	repo    ports.ListingRepository
	cache   ports.ListingCache
	janitor ports.PhotoJanitor
	events  ports.EventPublisher
	log     zerolog.Logger
}

func NewListingService(
	repo ports.ListingRepository,
	cache ports.ListingCache,
	janitor ports.PhotoJanitor,
	events ports.EventPublisher,
	log zerolog.Logger,
) *ListingService {
	return &ListingService{repo: repo, cache: cache, janitor: janitor, events: events, log: log}
}

func (s *ListingService) Create(ctx context.Context, ownerID string, in ports.ListingInput) (*domain.Listing, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthenticated
	}

	created, err := s.repo.Create(ctx, toListing("", ownerID, in))
	if err != nil {
		s.log.Error().Err(err).Str("owner", ownerID).Msg("failed to create listing")
		return nil, err
	}

	metrics.ListingMutationsTotal.WithLabelValues("create").Inc()
	s.publish(ctx, ports.EventListingCreated, listingEvent{ID: created.ID, OwnerID: ownerID, Name: created.Name})
	s.log.Info().Str("listing_id", created.ID).Str("owner", ownerID).Msg("listing created")
	return created, nil
}

func (s *ListingService) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Listing, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthenticated
	}
	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *ListingService) ListAll(ctx context.Context) ([]*domain.Listing, error) {
	return s.repo.ListAll(ctx)
}

// Get reads through the cache when one is configured. Cache failures are
// logged and bypassed. A miss is refilled only if no write invalidated the
// listing while it was being loaded.
func (s *ListingService) Get(ctx context.Context, id string) (*domain.Listing, error) {
	var generation int64
	cacheable := false
	if s.cache != nil {
		cached, gen, err := s.cache.Get(ctx, id)
		switch {
		case err != nil:
			metrics.ListingCacheTotal.WithLabelValues("error").Inc()
			s.log.Warn().Err(err).Str("listing_id", id).Msg("listing cache read failed")
		case cached != nil:
			metrics.ListingCacheTotal.WithLabelValues("hit").Inc()
			return cached, nil
		default:
			metrics.ListingCacheTotal.WithLabelValues("miss").Inc()
			generation, cacheable = gen, true
		}
	}

	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if cacheable {
		if err := s.cache.Set(ctx, l, generation); err != nil {
			s.log.Warn().Err(err).Str("listing_id", id).Msg("listing cache write failed")
		}
	}
	return l, nil
}

// Replace overwrites every editable field of a listing owned by callerID.
// The stored owner is kept regardless of the payload.
func (s *ListingService) Replace(ctx context.Context, id, callerID string, in ports.ListingInput) error {
	existing, err := s.ownedListing(ctx, id, callerID)
	if err != nil {
		return err
	}

	if err := s.repo.Replace(ctx, toListing(existing.ID, existing.OwnerID, in)); err != nil {
		return err
	}
	s.invalidate(ctx, id)

	metrics.ListingMutationsTotal.WithLabelValues("replace").Inc()
	s.publish(ctx, ports.EventListingUpdated, listingEvent{ID: id, OwnerID: existing.OwnerID, Name: in.Name})
	return nil
}

// Delete removes a listing owned by callerID and hands its photos to the
// janitor. Photo removal never affects the outcome.
func (s *ListingService) Delete(ctx context.Context, id, callerID string) error {
	existing, err := s.ownedListing(ctx, id, callerID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id, callerID); err != nil {
		return err
	}
	s.invalidate(ctx, id)

	if len(existing.Photos) > 0 {
		s.janitor.Discard(existing.Photos...)
	}

	metrics.ListingMutationsTotal.WithLabelValues("delete").Inc()
	s.publish(ctx, ports.EventListingDeleted, listingEvent{ID: id, OwnerID: existing.OwnerID})
	s.log.Info().Str("listing_id", id).Int("photos", len(existing.Photos)).Msg("listing deleted")
	return nil
}

func (s *ListingService) ownedListing(ctx context.Context, id, callerID string) (*domain.Listing, error) {
	if callerID == "" {
		return nil, domain.ErrUnauthenticated
	}
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !existing.IsOwnedBy(callerID) {
		s.log.Warn().Str("listing_id", id).Str("caller", callerID).Msg("non-owner listing mutation rejected")
		return nil, domain.ErrForbidden
	}
	return existing, nil
}

func (s *ListingService) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, id); err != nil {
		s.log.Warn().Err(err).Str("listing_id", id).Msg("listing cache invalidation failed")
	}
}

func (s *ListingService) publish(ctx context.Context, subject string, payload any) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, subject, payload); err != nil {
		s.log.Warn().Err(err).Str("subject", subject).Msg("failed to publish event")
	}
}

func toListing(id, ownerID string, in ports.ListingInput) *domain.Listing {
	return &domain.Listing{
		ID:          id,
		OwnerID:     ownerID,
		Name:        in.Name,
		Address:     in.Address,
		Photos:      in.Photos,
		Description: in.Description,
		Amenities:   in.Amenities,
		ExtraInfo:   in.ExtraInfo,
		CheckIn:     in.CheckIn,
		CheckOut:    in.CheckOut,
		MaxGuests:   in.MaxGuests,
		Price:       in.Price,
	}
}
