package handler

import (
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/homestay/rental-api/internal/core/ports"
)

const photosField = "photos"

type MediaHandler struct {
	service  ports.MediaService
	maxFiles int
}

func NewMediaHandler(service ports.MediaService, maxFiles int) *MediaHandler {
	return &MediaHandler{service: service, maxFiles: maxFiles}
}

// Upload handles POST /upload.
//
// @Summary      Upload photos
// @Tags         media
// @Accept       multipart/form-data
// @Produce      json
// @Param        photos  formData  file  true  "One or more image files"
// @Success      200     {array}   string
// @Failure      400     {object}  errorResponse
// @Failure      401     {object}  errorResponse
// @Failure      415     {object}  errorResponse
// @Failure      502     {object}  errorResponse
// @Router       /upload [post]
func (h *MediaHandler) Upload(c echo.Context) error {
	if _, err := ctxSession(c); err != nil {
		return err
	}

	form, err := c.MultipartForm()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "expected multipart form").SetInternal(err)
	}
	headers := form.File[photosField]
	if len(headers) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "no photos uploaded")
	}
	if h.maxFiles > 0 && len(headers) > h.maxFiles {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("at most %d photos per request", h.maxFiles))
	}

	files := make([]multipart.File, 0, len(headers))
	defer func() {
		for _, f := range files {
			_ = f.Close()
		}
	}()

	photos := make([]ports.PhotoUpload, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return fmt.Errorf("open %s: %w", fh.Filename, err)
		}
		files = append(files, f)
		photos = append(photos, ports.PhotoUpload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get(echo.HeaderContentType),
			Size:        fh.Size,
			Body:        f,
		})
	}

	refs, err := h.service.Upload(c.Request().Context(), photos)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, refs)
}

// DeletePhoto handles POST /deletePhoto.
//
// @Summary      Delete a stored photo
// @Tags         media
// @Accept       json
// @Produce      json
// @Param        body  body      deletePhotoRequest  true  "Photo reference or public id"
// @Success      200   {object}  successResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /deletePhoto [post]
func (h *MediaHandler) DeletePhoto(c echo.Context) error {
	if _, err := ctxSession(c); err != nil {
		return err
	}

	var req deletePhotoRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.service.Remove(c.Request().Context(), req.PublicID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, successResponse{Success: "Photo Deleted Successfully."})
}
