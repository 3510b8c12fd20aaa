package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tindaph/tinda-backend/internal/storage"
)

// ImageHandler serves images kept by a store that has no public URLs.
type ImageHandler struct {
	store storage.Reader
}

func NewImageHandler(store storage.Reader) *ImageHandler {
	return &ImageHandler{store: store}
}

func (h *ImageHandler) Get(c echo.Context) error {
	data, contentType, err := h.store.Open(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "image not found"))
		}
		return writeError(c, err, "failed to load image")
	}
	c.Response().Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	return c.Blob(http.StatusOK, contentType, data)
}
