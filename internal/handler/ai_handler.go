package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/tindaph/tinda-backend/internal/ai"
)

type AIHandler struct {
	describer ai.DescriptionGenerator
}

func NewAIHandler(describer ai.DescriptionGenerator) *AIHandler {
	return &AIHandler{describer: describer}
}

type describeRequest struct {
	Title     string `json:"title"`
	Category  string `json:"category"`
	Condition string `json:"condition"`
}

// Describe drafts a listing description. The generator never fails; model
// problems come back as one of its fixed fallback texts.
func (h *AIHandler) Describe(c echo.Context) error {
	var req describeRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid json")
	}
	if strings.TrimSpace(req.Title) == "" {
		return badRequest(c, "title is required")
	}
	text := h.describer.Generate(c.Request().Context(), ai.DescriptionInput{
		Title:     strings.TrimSpace(req.Title),
		Category:  strings.TrimSpace(req.Category),
		Condition: strings.TrimSpace(req.Condition),
	})
	return c.JSON(http.StatusOK, map[string]string{"description": text})
}
