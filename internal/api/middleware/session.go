package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/homestay/rental-api/internal/core/domain"
	"github.com/homestay/rental-api/internal/core/ports"
)

// SessionKey is the echo context key holding the *domain.Session of the
// caller.
const SessionKey = "session"

// Session validates the session cookie and injects the caller identity into
// context. Requests without a valid cookie are rejected with 401.
func Session(validator ports.SessionValidator, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "User needs to login first.")
			}

			session, err := validator.ValidateSession(cookie.Value)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid session").SetInternal(err)
			}

			c.Set(SessionKey, session)
			return next(c)
		}
	}
}

// SessionFrom returns the session injected by Session, or nil.
func SessionFrom(c echo.Context) *domain.Session {
	s, _ := c.Get(SessionKey).(*domain.Session)
	return s
}
