package handler

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/homestay/rental-api/internal/core/domain"
	"github.com/homestay/rental-api/internal/core/ports"
)

const (
	oauthStateCookie = "oauth_state"
	oauthStateTTL    = 10 * time.Minute
)

// GoogleHandler runs the browser side of Google sign-in. A nil provider
// disables both routes.
type GoogleHandler struct {
	provider  ports.IdentityProvider
	auth      ports.AuthService
	cookies   CookiePolicy
	clientURL string
	log       zerolog.Logger
}

func NewGoogleHandler(
	provider ports.IdentityProvider,
	auth ports.AuthService,
	cookies CookiePolicy,
	clientURL string,
	log zerolog.Logger,
) *GoogleHandler {
	return &GoogleHandler{provider: provider, auth: auth, cookies: cookies, clientURL: clientURL, log: log}
}

// Begin redirects to the Google consent screen.
//
// @Summary      Start Google sign-in
// @Tags         auth
// @Success      302
// @Failure      503  {object}  errorResponse
// @Router       /auth/google [get]
func (h *GoogleHandler) Begin(c echo.Context) error {
	if h.provider == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "google sign-in is not configured")
	}

	state := uuid.NewString()
	c.SetCookie(&http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/auth/google",
		MaxAge:   int(oauthStateTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return c.Redirect(http.StatusFound, h.provider.AuthCodeURL(state))
}

// Callback completes sign-in, sets the session cookie and returns the
// browser to the client. Failures redirect with an error query parameter.
//
// @Summary      Google sign-in callback
// @Tags         auth
// @Param        state  query  string  true  "OAuth state"
// @Param        code   query  string  true  "Authorization code"
// @Success      302
// @Router       /auth/google/callback [get]
func (h *GoogleHandler) Callback(c echo.Context) error {
	if h.provider == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "google sign-in is not configured")
	}

	c.SetCookie(&http.Cookie{
		Name:     oauthStateCookie,
		Value:    "",
		Path:     "/auth/google",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	if reason := c.QueryParam("error"); reason != "" {
		return h.fail(c, "access_denied")
	}

	stateCookie, err := c.Cookie(oauthStateCookie)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != c.QueryParam("state") {
		h.log.Warn().Str("remote_ip", c.RealIP()).Msg("oauth state mismatch")
		return h.fail(c, "invalid_state")
	}

	ctx := c.Request().Context()
	profile, err := h.provider.Exchange(ctx, c.QueryParam("code"))
	if err != nil {
		h.log.Error().Err(err).Msg("oauth exchange failed")
		return h.fail(c, "login_failed")
	}

	token, _, err := h.auth.FederatedLogin(ctx, *profile)
	switch {
	case errors.Is(err, domain.ErrAccountConflict):
		return h.fail(c, "account_exists")
	case err != nil:
		h.log.Error().Err(err).Msg("federated login failed")
		return h.fail(c, "login_failed")
	}

	c.SetCookie(h.cookies.session(token))
	return c.Redirect(http.StatusFound, h.clientURL)
}

func (h *GoogleHandler) fail(c echo.Context, reason string) error {
	target, err := url.Parse(h.clientURL)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, reason)
	}
	q := target.Query()
	q.Set("error", reason)
	target.RawQuery = q.Encode()
	return c.Redirect(http.StatusFound, target.String())
}
