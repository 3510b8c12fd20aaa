package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/tindaph/tinda-backend/internal/service"
)

type ReviewHandler struct {
	svc service.ReviewService
}

func NewReviewHandler(svc service.ReviewService) *ReviewHandler {
	return &ReviewHandler{svc: svc}
}

type CreateReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (h *ReviewHandler) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	list, err := h.svc.List(c.Request().Context(), limit)
	if err != nil {
		return writeError(c, err, "failed to fetch reviews")
	}
	resp := make([]ReviewResponse, 0, len(list))
	for _, r := range list {
		resp = append(resp, ReviewResponse{
			ID:        r.ID,
			UserID:    r.UserID,
			UserName:  r.UserName,
			UserCity:  r.UserCity,
			Rating:    r.Rating,
			Comment:   r.Comment,
			CreatedAt: r.CreatedAt.Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusOK, map[string]any{"reviews": resp})
}

func (h *ReviewHandler) Create(c echo.Context) error {
	var req CreateReviewRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid json")
	}
	sess := session(c)
	r, err := h.svc.Create(c.Request().Context(), sess, req.Rating, req.Comment)
	if err != nil {
		return writeError(c, err, "failed to save review")
	}
	return c.JSON(http.StatusCreated, ReviewResponse{
		ID:        r.ID,
		UserID:    r.UserID,
		UserName:  sess.Name,
		UserCity:  sess.Location.City,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt.Format(time.RFC3339),
	})
}
