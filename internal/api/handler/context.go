package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/homestay/rental-api/internal/api/middleware"
	"github.com/homestay/rental-api/internal/core/domain"
)

// ctxSession returns the caller identity injected by the Session middleware
// and fails fast with 401 when the middleware did not run.
func ctxSession(c echo.Context) (*domain.Session, error) {
	s := middleware.SessionFrom(c)
	if s == nil || s.UserID == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "User needs to login first.")
	}
	return s, nil
}

// bindAndValidate binds the request into req and runs the registered
// validator. Both failures are reported as 400.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload").SetInternal(err)
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
