package oauth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func newFakeGoogle(t *testing.T, userInfoStatus int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.Form.Get("code") != "good-code" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "access-123",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer access-123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(userInfoStatus)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"id":    "g-987",
			"email": "gina@example.com",
			"name":  "Gina",
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestProvider(srv *httptest.Server) *GoogleProvider {
	return NewGoogleProvider(
		GoogleConfig{ClientID: "cid", ClientSecret: "secret", CallbackURL: "http://localhost/auth/google/callback"},
		WithEndpoint(oauth2.Endpoint{
			AuthURL:   srv.URL + "/auth",
			TokenURL:  srv.URL + "/token",
			AuthStyle: oauth2.AuthStyleInParams,
		}),
		WithUserInfoURL(srv.URL+"/userinfo"),
	)
}

func TestGoogleProvider_AuthCodeURL(t *testing.T) {
	p := NewGoogleProvider(GoogleConfig{ClientID: "cid", ClientSecret: "s", CallbackURL: "http://cb"})

	u, err := url.Parse(p.AuthCodeURL("state-1"))
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "accounts.google.com", u.Host)
	assert.Equal(t, "state-1", q.Get("state"))
	assert.Equal(t, "cid", q.Get("client_id"))
	assert.Equal(t, "http://cb", q.Get("redirect_uri"))
	assert.Equal(t, "profile email", q.Get("scope"))
	assert.True(t, p.Enabled())
	assert.False(t, NewGoogleProvider(GoogleConfig{}).Enabled())
}

func TestGoogleProvider_Exchange(t *testing.T) {
	p := newTestProvider(newFakeGoogle(t, http.StatusOK))

	profile, err := p.Exchange(context.Background(), "good-code")
	require.NoError(t, err)
	assert.Equal(t, "g-987", profile.ProviderID)
	assert.Equal(t, "gina@example.com", profile.Email)
	assert.Equal(t, "Gina", profile.DisplayName)
}

func TestGoogleProvider_ExchangeFailures(t *testing.T) {
	p := newTestProvider(newFakeGoogle(t, http.StatusOK))

	_, err := p.Exchange(context.Background(), "")
	assert.Error(t, err)

	_, err = p.Exchange(context.Background(), "bad-code")
	assert.ErrorContains(t, err, "oauth exchange")

	failing := newTestProvider(newFakeGoogle(t, http.StatusInternalServerError))
	_, err = failing.Exchange(context.Background(), "good-code")
	assert.ErrorContains(t, err, "status 500")
}
