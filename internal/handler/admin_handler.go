package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tindaph/tinda-backend/internal/model"
	"github.com/tindaph/tinda-backend/internal/service"
)

type AdminHandler struct {
	svc service.AdminService
}

func NewAdminHandler(svc service.AdminService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

type StatsResponse struct {
	TotalUsers         int64               `json:"totalUsers"`
	TotalListings      int64               `json:"totalListings"`
	TotalVolume        string              `json:"totalVolume"`
	PendingApprovals   int64               `json:"pendingApprovals"`
	TotalViews         int64               `json:"totalViews"`
	ListingsByRegion   []model.CountBucket `json:"listingsByRegion"`
	ListingsByCategory []model.CountBucket `json:"listingsByCategory"`
}

func (h *AdminHandler) Pending(c echo.Context) error {
	list, err := h.svc.Pending(c.Request().Context(), session(c))
	if err != nil {
		return writeError(c, err, "failed to fetch moderation queue")
	}
	return c.JSON(http.StatusOK, map[string]any{"listings": toListingResponses(list)})
}

func (h *AdminHandler) Approve(c echo.Context) error {
	l, err := h.svc.Approve(c.Request().Context(), session(c), c.Param("id"))
	if err != nil {
		return writeError(c, err, "failed to approve listing")
	}
	return c.JSON(http.StatusOK, toListingResponse(l))
}

func (h *AdminHandler) Reject(c echo.Context) error {
	l, err := h.svc.Reject(c.Request().Context(), session(c), c.Param("id"))
	if err != nil {
		return writeError(c, err, "failed to reject listing")
	}
	return c.JSON(http.StatusOK, toListingResponse(l))
}

func (h *AdminHandler) Stats(c echo.Context) error {
	s, err := h.svc.Stats(c.Request().Context(), session(c))
	if err != nil {
		return writeError(c, err, "failed to compute stats")
	}
	resp := StatsResponse{
		TotalUsers:         s.TotalUsers,
		TotalListings:      s.TotalListings,
		TotalVolume:        s.TotalVolume.StringFixed(2),
		PendingApprovals:   s.PendingApprovals,
		TotalViews:         s.TotalViews,
		ListingsByRegion:   s.ListingsByRegion,
		ListingsByCategory: s.ListingsByCategory,
	}
	if resp.ListingsByRegion == nil {
		resp.ListingsByRegion = []model.CountBucket{}
	}
	if resp.ListingsByCategory == nil {
		resp.ListingsByCategory = []model.CountBucket{}
	}
	return c.JSON(http.StatusOK, resp)
}
