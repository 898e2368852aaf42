// Package oauth implements ports.IdentityProvider for Google sign-in.
package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/homestay/rental-api/internal/core/domain"
)

const defaultUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	CallbackURL  string
}

type Option func(*GoogleProvider)

// WithEndpoint overrides the OAuth endpoints.
func WithEndpoint(ep oauth2.Endpoint) Option {
	return func(p *GoogleProvider) { p.config.Endpoint = ep }
}

// WithUserInfoURL overrides the profile endpoint.
func WithUserInfoURL(u string) Option {
	return func(p *GoogleProvider) { p.userInfoURL = u }
}

// GoogleProvider runs the authorization code flow and resolves the signed-in
// profile.
type GoogleProvider struct {
	config      *oauth2.Config
	userInfoURL string
}

func NewGoogleProvider(cfg GoogleConfig, opts ...Option) *GoogleProvider {
	p := &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.CallbackURL,
			Scopes:       []string{"profile", "email"},
			Endpoint:     google.Endpoint,
		},
		userInfoURL: defaultUserInfoURL,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Enabled reports whether client credentials are configured.
func (p *GoogleProvider) Enabled() bool {
	return p.config.ClientID != "" && p.config.ClientSecret != ""
}

func (p *GoogleProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state)
}

type userInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Exchange trades the authorization code for a token and fetches the
// profile it grants access to.
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*domain.FederatedProfile, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: missing authorization code", domain.ErrUnauthenticated)
	}

	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("oauth exchange: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.config.Client(ctx, token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch userinfo: status %d: %s", resp.StatusCode, body)
	}

	var info userInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}
	if info.ID == "" {
		return nil, errors.New("userinfo: missing id")
	}

	return &domain.FederatedProfile{
		ProviderID:  info.ID,
		DisplayName: info.Name,
		Email:       info.Email,
	}, nil
}
