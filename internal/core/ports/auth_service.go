package ports

import (
	"context"

	"github.com/homestay/rental-api/internal/core/domain"
)

// SessionValidator verifies a session token and returns the identity it carries.
type SessionValidator interface {
	ValidateSession(token string) (*domain.Session, error)
}

type AuthService interface {
	SessionValidator
	Register(ctx context.Context, name, username, password string) error
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
	Profile(ctx context.Context, userID string) (*domain.User, error)
	FederatedLogin(ctx context.Context, profile domain.FederatedProfile) (string, *domain.User, error)
}

// IdentityProvider runs the server side of an OAuth authorization-code flow.
type IdentityProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*domain.FederatedProfile, error)
}
