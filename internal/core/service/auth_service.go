package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/homestay/rental-api/internal/core/domain"
	"github.com/homestay/rental-api/internal/core/ports"
	"github.com/homestay/rental-api/internal/pkg/metrics"
)

const (
	methodLocal  = "local"
	methodGoogle = "google"
)

// AuthService implements registration, login, session validation and the
// federated sign-in used by the Google callback.
type AuthService struct {
	users     ports.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
	log       zerolog.Logger
}

// NewAuthService returns an AuthService signing HS256 tokens with jwtSecret.
// A tokenTTL <= 0 issues tokens without an exp claim; such tokens stay valid
// until the secret is rotated.
func NewAuthService(users ports.UserRepository, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	return &AuthService{users: users, jwtSecret: []byte(jwtSecret), tokenTTL: tokenTTL, log: log}
}

func (s *AuthService) Register(ctx context.Context, name, username, password string) error {
	if username == "" || password == "" {
		return domain.ErrInvalidInput
	}

	_, err := s.users.FindByUsername(ctx, username)
	switch {
	case err == nil:
		return domain.ErrUserExists
	case !errors.Is(err, domain.ErrUserNotFound):
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	// Create reports ErrUserExists itself when a concurrent registration wins
	// the unique index.
	if _, err := s.users.Create(ctx, &domain.User{
		Name:         name,
		Username:     username,
		PasswordHash: string(hash),
	}); err != nil {
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues(methodLocal).Inc()
	s.log.Info().Str("username", username).Msg("user registered")
	return nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidInput
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginsTotal.WithLabelValues(methodLocal, "not_found").Inc()
		}
		return "", nil, err
	}

	// Federated accounts have no hash and cannot log in with a password.
	if user.PasswordHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.LoginsTotal.WithLabelValues(methodLocal, "bad_password").Inc()
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}

	metrics.LoginsTotal.WithLabelValues(methodLocal, "success").Inc()
	return token, user, nil
}

// ValidateSession verifies the token signature and returns the identity it
// embeds. The user store is not consulted.
func (s *AuthService) ValidateSession(token string) (*domain.Session, error) {
	if token == "" {
		return nil, domain.ErrUnauthenticated
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return nil, domain.ErrUnauthenticated
	}

	userID, _ := claims["id"].(string)
	username, _ := claims["username"].(string)
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	return &domain.Session{Username: username, UserID: userID}, nil
}

// Profile re-reads the user so fields absent from the token (display name)
// can be returned.
func (s *AuthService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.FindByID(ctx, userID)
}

// FederatedLogin finds the account linked to the provider id, creating it on
// first sign-in, and issues a session token. An email already owned by a
// local account yields ErrAccountConflict; the accounts are not merged.
func (s *AuthService) FederatedLogin(ctx context.Context, profile domain.FederatedProfile) (string, *domain.User, error) {
	if profile.ProviderID == "" {
		return "", nil, domain.ErrInvalidInput
	}

	user, err := s.users.FindByGoogleID(ctx, profile.ProviderID)
	if errors.Is(err, domain.ErrUserNotFound) {
		user, err = s.createFederatedUser(ctx, profile)
	}
	if err != nil {
		result := "error"
		if errors.Is(err, domain.ErrAccountConflict) {
			result = "conflict"
		}
		metrics.LoginsTotal.WithLabelValues(methodGoogle, result).Inc()
		return "", nil, err
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}

	metrics.LoginsTotal.WithLabelValues(methodGoogle, "success").Inc()
	return token, user, nil
}

func (s *AuthService) createFederatedUser(ctx context.Context, profile domain.FederatedProfile) (*domain.User, error) {
	if profile.Email == "" {
		return nil, domain.ErrInvalidInput
	}

	_, err := s.users.FindByUsername(ctx, profile.Email)
	switch {
	case err == nil:
		s.log.Warn().Str("username", profile.Email).Msg("federated login collides with existing account")
		return nil, domain.ErrAccountConflict
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, err
	}

	user, err := s.users.Create(ctx, &domain.User{
		Name:     profile.DisplayName,
		Username: profile.Email,
		GoogleID: profile.ProviderID,
	})
	if errors.Is(err, domain.ErrUserExists) {
		return nil, domain.ErrAccountConflict
	}
	if err != nil {
		return nil, err
	}

	metrics.RegistrationsTotal.WithLabelValues(methodGoogle).Inc()
	s.log.Info().Str("username", user.Username).Msg("federated user created")
	return user, nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"username": user.Username,
		"id":       user.ID,
		"iat":      now.Unix(),
	}
	if s.tokenTTL > 0 {
		claims["exp"] = now.Add(s.tokenTTL).Unix()
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
