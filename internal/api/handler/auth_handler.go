package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/homestay/rental-api/internal/core/domain"
	"github.com/homestay/rental-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	cookies     CookiePolicy
}

func NewAuthHandler(authService ports.AuthService, cookies CookiePolicy) *AuthHandler {
	return &AuthHandler{authService: authService, cookies: cookies}
}

// Register creates a new local account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      200   {object}  successResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse  "username already taken"
// @Failure      429   {object}  errorResponse
// @Router       /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.authService.Register(c.Request().Context(), req.Name, req.Username, req.Password); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, successResponse{Success: "User Registered Successfully."})
}

// Login verifies credentials and sets the session cookie.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse  "unknown user"
// @Failure      401   {object}  errorResponse  "wrong password"
// @Failure      429   {object}  errorResponse
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	c.SetCookie(h.cookies.session(token))
	return c.JSON(http.StatusOK, loginResponse{
		User:    toUserResponse(user),
		Success: "User Logged in Successfully.",
	})
}

// Profile returns the caller's profile, or null when there is no valid
// session.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  userResponse  "null when not logged in"
// @Router       /profile [get]
func (h *AuthHandler) Profile(c echo.Context) error {
	cookie, err := c.Cookie(h.cookies.name())
	if err != nil || cookie.Value == "" {
		return c.JSON(http.StatusOK, nil)
	}

	session, err := h.authService.ValidateSession(cookie.Value)
	if err != nil {
		return c.JSON(http.StatusOK, nil)
	}

	user, err := h.authService.Profile(c.Request().Context(), session.UserID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return c.JSON(http.StatusOK, nil)
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Logout clears the session cookie. Tokens are not revoked server side.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  successResponse
// @Router       /logout [get]
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(h.cookies.cleared())
	return c.JSON(http.StatusOK, successResponse{Success: "User Logged out Successfully."})
}
