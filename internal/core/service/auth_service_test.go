package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/homestay/rental-api/internal/core/domain"
)

var discardLogger = zerolog.Nop()

type stubUserRepo struct {
	users map[string]*domain.User // keyed by username
	seq   int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.users[user.Username]; exists {
		return nil, domain.ErrUserExists
	}
	r.seq++
	stored := cloneUser(user)
	stored.ID = fmt.Sprintf("user-%d", r.seq)
	r.users[stored.Username] = stored
	return cloneUser(stored), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	if u, ok := r.users[username]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByGoogleID(_ context.Context, googleID string) (*domain.User, error) {
	for _, u := range r.users {
		if u.GoogleID != "" && u.GoogleID == googleID {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func parseClaims(t *testing.T, token, secret string) jwt.MapClaims {
	t.Helper()
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	return claims
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, "secret", 0, discardLogger)

	if err := svc.Register(context.Background(), "Alice", "a@x.com", "p"); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	stored := repo.users["a@x.com"]
	if stored == nil {
		t.Fatalf("expected user to be stored")
	}
	if stored.PasswordHash == "p" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("p")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if stored.Name != "Alice" {
		t.Fatalf("unexpected name: %s", stored.Name)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), "secret", 0, discardLogger)

	if err := svc.Register(context.Background(), "A", "", "pass"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty username, got %v", err)
	}
	if err := svc.Register(context.Background(), "A", "a@x.com", ""); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty password, got %v", err)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), "secret", 0, discardLogger)

	first := svc.Register(context.Background(), "Bob", "bob@x.com", "pass")
	second := svc.Register(context.Background(), "Bob2", "bob@x.com", "pass2")

	if first != nil {
		t.Fatalf("first registration failed: %v", first)
	}
	if !errors.Is(second, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", second)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), "secret", 0, discardLogger)

	if err := svc.Register(context.Background(), "Carol", "carol@x.com", "s3cret"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	token, user, err := svc.Login(context.Background(), "carol@x.com", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user == nil || user.Username != "carol@x.com" {
		t.Fatalf("unexpected user: %+v", user)
	}

	claims := parseClaims(t, token, "secret")
	if claims["username"] != "carol@x.com" || claims["id"] != user.ID {
		t.Fatalf("unexpected claims: %v", claims)
	}
	if _, ok := claims["exp"]; ok {
		t.Fatalf("expected no exp claim when TTL is zero")
	}
}

func TestAuthService_Login_WithTTL(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), "secret", time.Hour, discardLogger)
	_ = svc.Register(context.Background(), "Dan", "dan@x.com", "pw")

	token, _, err := svc.Login(context.Background(), "dan@x.com", "pw")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	claims := parseClaims(t, token, "secret")
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		t.Fatalf("expected exp claim, got %v (%v)", exp, err)
	}
	if time.Until(exp.Time) <= 0 || time.Until(exp.Time) > time.Hour {
		t.Fatalf("unexpected expiry: %v", exp.Time)
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), "secret", 0, discardLogger)
	_ = svc.Register(context.Background(), "Dave", "dave@x.com", "goodpass")

	if _, _, err := svc.Login(context.Background(), "dave@x.com", "badpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UserNotFound(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), "secret", 0, discardLogger)

	if _, _, err := svc.Login(context.Background(), "ghost@x.com", "pass"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_Login_FederatedAccountHasNoPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, "secret", 0, discardLogger)
	_, _ = repo.Create(context.Background(), &domain.User{Name: "G", Username: "g@x.com", GoogleID: "g-1"})

	if _, _, err := svc.Login(context.Background(), "g@x.com", "anything"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_ValidateSession_RoundTrip(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), "secret", 0, discardLogger)
	_ = svc.Register(context.Background(), "Eve", "eve@x.com", "pw")

	token, user, err := svc.Login(context.Background(), "eve@x.com", "pw")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	session, err := svc.ValidateSession(token)
	if err != nil {
		t.Fatalf("ValidateSession failed: %v", err)
	}
	if session.UserID != user.ID || session.Username != "eve@x.com" {
		t.Fatalf("unexpected session: %+v", session)
	}
}

func TestAuthService_ValidateSession_Rejects(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), "secret", 0, discardLogger)

	foreign, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": "x", "id": "user-1",
	}).SignedString([]byte("other-secret"))

	unsigned, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"username": "x", "id": "user-1",
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	noID, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": "x",
	}).SignedString([]byte("secret"))

	expired, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": "x", "id": "user-1", "exp": time.Now().Add(-time.Minute).Unix(),
	}).SignedString([]byte("secret"))

	cases := map[string]string{
		"empty":          "",
		"garbage":        "not-a-token",
		"foreign secret": foreign,
		"alg none":       unsigned,
		"missing id":     noID,
		"expired":        expired,
	}
	for name, token := range cases {
		if _, err := svc.ValidateSession(token); !errors.Is(err, domain.ErrUnauthenticated) {
			t.Errorf("%s: expected ErrUnauthenticated, got %v", name, err)
		}
	}
}

func TestAuthService_Profile(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), "secret", 0, discardLogger)
	_ = svc.Register(context.Background(), "A", "a@x.com", "p")

	token, _, _ := svc.Login(context.Background(), "a@x.com", "p")
	session, err := svc.ValidateSession(token)
	if err != nil {
		t.Fatalf("ValidateSession failed: %v", err)
	}

	user, err := svc.Profile(context.Background(), session.UserID)
	if err != nil {
		t.Fatalf("Profile failed: %v", err)
	}
	if user.Name != "A" || user.Username != "a@x.com" || user.ID != session.UserID {
		t.Fatalf("unexpected profile: %+v", user)
	}
}

func TestAuthService_FederatedLogin_CreatesThenReuses(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, "secret", 0, discardLogger)
	profile := domain.FederatedProfile{ProviderID: "g-42", DisplayName: "Gina", Email: "gina@x.com"}

	token, first, err := svc.FederatedLogin(context.Background(), profile)
	if err != nil {
		t.Fatalf("first federated login failed: %v", err)
	}
	if first.GoogleID != "g-42" || first.Username != "gina@x.com" || first.Name != "Gina" || first.PasswordHash != "" {
		t.Fatalf("unexpected user: %+v", first)
	}
	if session, err := svc.ValidateSession(token); err != nil || session.UserID != first.ID {
		t.Fatalf("token not usable: %+v %v", session, err)
	}

	_, second, err := svc.FederatedLogin(context.Background(), profile)
	if err != nil {
		t.Fatalf("second federated login failed: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected same account, got %s and %s", first.ID, second.ID)
	}
	if len(repo.users) != 1 {
		t.Fatalf("expected one stored user, got %d", len(repo.users))
	}
}

func TestAuthService_FederatedLogin_DoesNotMergeLocalAccount(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, "secret", 0, discardLogger)
	_ = svc.Register(context.Background(), "Local", "shared@x.com", "pw")

	_, _, err := svc.FederatedLogin(context.Background(), domain.FederatedProfile{
		ProviderID: "g-7", DisplayName: "Remote", Email: "shared@x.com",
	})
	if !errors.Is(err, domain.ErrAccountConflict) {
		t.Fatalf("expected ErrAccountConflict, got %v", err)
	}
	if stored := repo.users["shared@x.com"]; stored.GoogleID != "" || stored.Name != "Local" {
		t.Fatalf("local account was modified: %+v", stored)
	}
}

func TestAuthService_FederatedLogin_RequiresIdentity(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), "secret", 0, discardLogger)

	if _, _, err := svc.FederatedLogin(context.Background(), domain.FederatedProfile{Email: "x@x.com"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput without provider id, got %v", err)
	}
	if _, _, err := svc.FederatedLogin(context.Background(), domain.FederatedProfile{ProviderID: "g-1"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput without email, got %v", err)
	}
}
