package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/homestay/rental-api/internal/api/handler"
	"github.com/homestay/rental-api/internal/core/domain"
	"github.com/homestay/rental-api/internal/core/service"
	"github.com/homestay/rental-api/internal/pkg/config"
)

type memoryUsers struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func (m *memoryUsers) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Username == u.Username {
			return nil, domain.ErrUserExists
		}
	}
	cp := *u
	cp.ID = fmt.Sprintf("u%d", len(m.users)+1)
	m.users[cp.ID] = &cp
	return &cp, nil
}

func (m *memoryUsers) find(match func(*domain.User) bool) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *memoryUsers) FindByID(_ context.Context, id string) (*domain.User, error) {
	return m.find(func(u *domain.User) bool { return u.ID == id })
}

func (m *memoryUsers) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	return m.find(func(u *domain.User) bool { return u.Username == username })
}

func (m *memoryUsers) FindByGoogleID(_ context.Context, googleID string) (*domain.User, error) {
	return m.find(func(u *domain.User) bool { return googleID != "" && u.GoogleID == googleID })
}

type memoryListings struct {
	mu     sync.Mutex
	places []*domain.Listing
}

func (m *memoryListings) Create(_ context.Context, l *domain.Listing) (*domain.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *l
	cp.ID = fmt.Sprintf("p%d", len(m.places)+1)
	m.places = append(m.places, &cp)
	return &cp, nil
}

func (m *memoryListings) FindByID(_ context.Context, id string) (*domain.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.places {
		if l.ID == id {
			cp := *l
			return &cp, nil
		}
	}
	return nil, domain.ErrListingNotFound
}

func (m *memoryListings) ListByOwner(_ context.Context, ownerID string) ([]*domain.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*domain.Listing{}
	for _, l := range m.places {
		if l.OwnerID == ownerID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *memoryListings) ListAll(_ context.Context) ([]*domain.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*domain.Listing{}, m.places...), nil
}

func (m *memoryListings) Replace(context.Context, *domain.Listing) error {
	return domain.ErrListingNotFound
}

func (m *memoryListings) Delete(context.Context, string, string) error {
	return domain.ErrListingNotFound
}

func newTestRouter(t *testing.T, mutate func(*config.Config)) http.Handler {
	t.Helper()
	cfg := &config.Config{ClientURL: "http://localhost:5173"}
	cfg.Media.MaxFiles = 10
	cfg.RateLimit = config.RateLimitConfig{Rate: 100, Burst: 100}
	if mutate != nil {
		mutate(cfg)
	}

	log := zerolog.Nop()
	auth := service.NewAuthService(&memoryUsers{users: map[string]*domain.User{}}, "test-secret", 0, log)
	listings := service.NewListingService(&memoryListings{}, nil, nil, nil, log)

	reg := prometheus.NewRegistry()
	return NewRouter(Dependencies{
		Config:     cfg,
		Log:        log,
		Auth:       auth,
		Listings:   listings,
		Cookies:    handler.CookiePolicy{Name: "token", SameSite: http.SameSiteLaxMode},
		Registerer: reg,
		Gatherer:   reg,
	})
}

func do(h http.Handler, method, target, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == "token" && c.Value != "" {
			return c
		}
	}
	t.Fatalf("no session cookie in response: %v", rec.Header())
	return nil
}

func TestRouter_RegisterLoginAndCreateListing(t *testing.T) {
	r := newTestRouter(t, nil)

	rec := do(r, http.MethodPost, "/register", `{"name":"Ann","username":"ann@x.com","password":"pw"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("register: %d %s", rec.Code, rec.Body.String())
	}

	rec = do(r, http.MethodPost, "/login", `{"username":"ann@x.com","password":"pw"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: %d %s", rec.Code, rec.Body.String())
	}
	cookie := sessionCookie(t, rec)

	rec = do(r, http.MethodPost, "/places", `{"name":"Cabin","price":"120"}`, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("create: %d %s", rec.Code, rec.Body.String())
	}

	rec = do(r, http.MethodGet, "/places", "", cookie)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"name":"Cabin"`) {
		t.Fatalf("list mine: %d %s", rec.Code, rec.Body.String())
	}

	rec = do(r, http.MethodGet, "/places/p1", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"owner":"u1"`) {
		t.Fatalf("public get: %d %s", rec.Code, rec.Body.String())
	}

	rec = do(r, http.MethodGet, "/profile", "", cookie)
	if !strings.Contains(rec.Body.String(), `"username":"ann@x.com"`) {
		t.Fatalf("profile: %s", rec.Body.String())
	}
}

func TestRouter_ProtectedRoutesRequireSession(t *testing.T) {
	r := newTestRouter(t, nil)

	routes := []struct{ method, path string }{
		{http.MethodPost, "/places"},
		{http.MethodGet, "/places"},
		{http.MethodPut, "/places"},
		{http.MethodDelete, "/places"},
		{http.MethodPost, "/bookPlace"},
		{http.MethodGet, "/bookings"},
		{http.MethodPost, "/upload"},
		{http.MethodPost, "/deletePhoto"},
	}
	for _, rt := range routes {
		rec := do(r, rt.method, rt.path, "")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: expected 401, got %d", rt.method, rt.path, rec.Code)
		}
	}

	rec := do(r, http.MethodGet, "/bookings", "", &http.Cookie{Name: "token", Value: "forged"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("forged cookie: expected 401, got %d", rec.Code)
	}
}

func TestRouter_ProfileWithoutSessionIsNull(t *testing.T) {
	rec := do(newTestRouter(t, nil), http.MethodGet, "/profile", "")
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "null" {
		t.Fatalf("expected 200 null, got %d %q", rec.Code, rec.Body.String())
	}
}

func TestRouter_Ops(t *testing.T) {
	r := newTestRouter(t, nil)

	if rec := do(r, http.MethodGet, "/health", ""); rec.Code != http.StatusOK {
		t.Fatalf("health: %d", rec.Code)
	}
	if rec := do(r, http.MethodGet, "/health/ready", ""); rec.Code != http.StatusOK {
		t.Fatalf("ready: %d", rec.Code)
	}

	do(r, http.MethodGet, "/allPlaces", "")
	rec := do(r, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "requests_total") {
		t.Fatalf("metrics: %d", rec.Code)
	}

	if rec := do(r, http.MethodGet, "/no-such-route", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown route: expected 404, got %d", rec.Code)
	}
}

func TestRouter_GoogleDisabled(t *testing.T) {
	rec := do(newTestRouter(t, nil), http.MethodGet, "/auth/google", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestRouter_CORSAllowsClientWithCredentials(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/places", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	newTestRouter(t, nil).ServeHTTP(rec, req)

	if rec.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
		t.Fatalf("unexpected allow-origin %q", rec.Header().Get("Access-Control-Allow-Origin"))
	}
	if rec.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Fatal("credentials must be allowed")
	}
}

func TestRouter_LoginIsRateLimited(t *testing.T) {
	r := newTestRouter(t, func(c *config.Config) {
		c.RateLimit = config.RateLimitConfig{Rate: 0.001, Burst: 2}
	})

	var last int
	for i := 0; i < 3; i++ {
		last = do(r, http.MethodPost, "/login", `{"username":"x@x.com","password":"pw"}`).Code
	}
	if last != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after burst, got %d", last)
	}
}

func TestRouter_UploadBodyIsLimited(t *testing.T) {
	r := newTestRouter(t, func(c *config.Config) {
		c.Media.MaxFiles = 1
		c.Media.MaxUploadBytes = 1024
	})

	req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(strings.Repeat("x", 1024+multipartOverhead+1)))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", rec.Code)
	}

	// Within the limit the session check still applies.
	if rec := do(r, http.MethodPost, "/upload", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
