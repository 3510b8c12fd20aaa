package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tindaph/tinda-backend/internal/model"
)

// Catalog returns the fixed option lists the posting and sign-up forms use.
func Catalog(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"categories": append([]string{model.CategoryAll}, model.Categories...),
		"conditions": model.Conditions,
		"locations":  model.PHLocations,
	})
}
