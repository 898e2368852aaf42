package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/homestay/rental-api/internal/core/ports"
)

// ListingHandler handles HTTP requests for listing operations.
type ListingHandler struct {
	service ports.ListingService
}

func NewListingHandler(service ports.ListingService) *ListingHandler {
	return &ListingHandler{service: service}
}

// Create handles POST /places.
//
// @Summary      Create a listing
// @Tags         places
// @Accept       json
// @Produce      json
// @Param        body  body      listingRequest  true  "Listing fields"
// @Success      200   {object}  createdResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /places [post]
func (h *ListingHandler) Create(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req listingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	created, err := h.service.Create(c.Request().Context(), session.UserID, req.toInput())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, createdResponse{Success: "Place Added Successfully.", ID: created.ID})
}

// ListMine handles GET /places.
//
// @Summary      List the caller's listings
// @Tags         places
// @Produce      json
// @Success      200  {array}   listingResponse
// @Failure      401  {object}  errorResponse
// @Router       /places [get]
func (h *ListingHandler) ListMine(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	listings, err := h.service.ListByOwner(c.Request().Context(), session.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListingResponses(listings))
}

// Replace handles PUT /places. Every editable field is overwritten.
//
// @Summary      Replace a listing
// @Tags         places
// @Accept       json
// @Produce      json
// @Param        body  body      listingRequest  true  "Listing with _id"
// @Success      200   {object}  successResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /places [put]
func (h *ListingHandler) Replace(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req listingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if req.ID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "_id is required")
	}

	if err := h.service.Replace(c.Request().Context(), req.ID, session.UserID, req.toInput()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, successResponse{Success: "Place Updated Successfully."})
}

// Delete handles DELETE /places.
//
// @Summary      Delete a listing
// @Tags         places
// @Accept       json
// @Produce      json
// @Param        body  body      deleteListingRequest  true  "Listing id"
// @Success      200   {object}  successResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /places [delete]
func (h *ListingHandler) Delete(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req deleteListingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), req.ID, session.UserID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, successResponse{Success: "Place Deleted Successfully."})
}

// Get handles GET /places/:id.
//
// @Summary      Get a listing
// @Tags         places
// @Produce      json
// @Param        id   path      string  true  "Listing id"
// @Success      200  {object}  listingResponse
// @Failure      404  {object}  errorResponse
// @Router       /places/{id} [get]
func (h *ListingHandler) Get(c echo.Context) error {
	listing, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListingResponse(listing))
}

// ListAll handles GET /allPlaces.
//
// @Summary      List every listing
// @Tags         places
// @Produce      json
// @Success      200  {array}  listingResponse
// @Router       /allPlaces [get]
func (h *ListingHandler) ListAll(c echo.Context) error {
	listings, err := h.service.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListingResponses(listings))
}
