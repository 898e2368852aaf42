package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/homestay/rental-api/internal/core/ports"
)

type BookingHandler struct {
	service ports.BookingService
}

func NewBookingHandler(service ports.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// Create handles POST /bookPlace.
//
// @Summary      Book a listing
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Param        body  body      bookingRequest  true  "Booking details"
// @Success      200   {object}  createdResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /bookPlace [post]
func (h *BookingHandler) Create(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req bookingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	created, err := h.service.Create(c.Request().Context(), session.UserID, req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, createdResponse{Success: "Booking Confirmed.", ID: created.ID})
}

// List handles GET /bookings.
//
// @Summary      List the caller's bookings
// @Tags         bookings
// @Produce      json
// @Success      200  {array}   bookingResponse
// @Failure      401  {object}  errorResponse
// @Router       /bookings [get]
func (h *BookingHandler) List(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	details, err := h.service.ListByGuest(c.Request().Context(), session.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBookingResponses(details))
}
