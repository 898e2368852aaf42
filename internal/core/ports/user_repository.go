package ports

import (
	"context"

	"github.com/homestay/rental-api/internal/core/domain"
)

// UserRepository persists identity records. Lookups that miss return
// domain.ErrUserNotFound; a duplicate username on Create returns
// domain.ErrUserExists.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByGoogleID(ctx context.Context, googleID string) (*domain.User, error)
}
