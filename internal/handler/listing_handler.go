package handler

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/tindaph/tinda-backend/internal/imaging"
	"github.com/tindaph/tinda-backend/internal/model"
	"github.com/tindaph/tinda-backend/internal/service"
)

type ListingHandler struct {
	svc service.ListingService
}

func NewListingHandler(svc service.ListingService) *ListingHandler {
	return &ListingHandler{svc: svc}
}

type CreateListingRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Condition   string          `json:"condition"`
	Region      string          `json:"region"`
	Province    string          `json:"province"`
	City        string          `json:"city"`
	ImageURLs   []string        `json:"imageUrls"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

func locationOrNil(region, province, city string) *model.Location {
	loc := model.Location{
		Region:   strings.TrimSpace(region),
		Province: strings.TrimSpace(province),
		City:     strings.TrimSpace(city),
	}
	if loc.IsZero() {
		return nil
	}
	return &loc
}

// bindCreate accepts either a multipart form with image files or a JSON body
// that only references image URLs.
func bindCreate(c echo.Context) (service.CreateListingInput, error) {
	ctype := c.Request().Header.Get(echo.HeaderContentType)
	if !strings.HasPrefix(ctype, echo.MIMEMultipartForm) {
		var req CreateListingRequest
		if err := c.Bind(&req); err != nil {
			return service.CreateListingInput{}, fmt.Errorf("invalid json")
		}
		return service.CreateListingInput{
			Title:       req.Title,
			Description: req.Description,
			Price:       req.Price,
			Category:    req.Category,
			Condition:   req.Condition,
			Location:    locationOrNil(req.Region, req.Province, req.City),
			ImageURLs:   req.ImageURLs,
		}, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return service.CreateListingInput{}, fmt.Errorf("invalid multipart form")
	}
	price := decimal.Zero
	if raw := strings.TrimSpace(c.FormValue("price")); raw != "" {
		if price, err = decimal.NewFromString(raw); err != nil {
			return service.CreateListingInput{}, fmt.Errorf("invalid price")
		}
	}
	in := service.CreateListingInput{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Price:       price,
		Category:    c.FormValue("category"),
		Condition:   c.FormValue("condition"),
		Location:    locationOrNil(c.FormValue("region"), c.FormValue("province"), c.FormValue("city")),
		ImageURLs:   form.Value["imageUrls"],
	}
	files := form.File["images"]
	if len(files) > service.MaxImagesPerListing {
		return in, fmt.Errorf("at most %d images per listing", service.MaxImagesPerListing)
	}
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return in, fmt.Errorf("could not read %s", fh.Filename)
		}
		data, err := io.ReadAll(io.LimitReader(f, imaging.MaxInputBytes+1))
		f.Close()
		if err != nil {
			return in, fmt.Errorf("could not read %s", fh.Filename)
		}
		in.Images = append(in.Images, service.ImageUpload{Filename: fh.Filename, Data: data})
	}
	return in, nil
}

func (h *ListingHandler) Create(c echo.Context) error {
	in, err := bindCreate(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	l, err := h.svc.Create(c.Request().Context(), session(c), in)
	if err != nil {
		return writeError(c, err, "failed to create listing")
	}
	return c.JSON(http.StatusCreated, toListingResponse(l))
}

func (h *ListingHandler) Feed(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	list, err := h.svc.Feed(c.Request().Context(), session(c), service.FeedQuery{
		Category: c.QueryParam("category"),
		Search:   c.QueryParam("q"),
		Limit:    limit,
	})
	if err != nil {
		return writeError(c, err, "failed to fetch listings")
	}
	return c.JSON(http.StatusOK, map[string]any{"listings": toListingResponses(list)})
}

func (h *ListingHandler) Trending(c echo.Context) error {
	list, err := h.svc.Trending(c.Request().Context())
	if err != nil {
		return writeError(c, err, "failed to fetch listings")
	}
	return c.JSON(http.StatusOK, map[string]any{"listings": toListingResponses(list)})
}

func (h *ListingHandler) Get(c echo.Context) error {
	l, err := h.svc.Get(c.Request().Context(), session(c), c.Param("id"))
	if err != nil {
		return writeError(c, err, "failed to fetch listing")
	}
	return c.JSON(http.StatusOK, toListingResponse(l))
}

func (h *ListingHandler) Like(c echo.Context) error {
	l, err := h.svc.Like(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err, "failed to like listing")
	}
	return c.JSON(http.StatusOK, map[string]int64{"likes": l.Likes})
}

func (h *ListingHandler) ListMine(c echo.Context) error {
	list, err := h.svc.ListMine(c.Request().Context(), session(c))
	if err != nil {
		return writeError(c, err, "failed to fetch listings")
	}
	return c.JSON(http.StatusOK, map[string]any{"listings": toListingResponses(list)})
}

func (h *ListingHandler) UpdateStatus(c echo.Context) error {
	var req UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid json")
	}
	l, err := h.svc.UpdateStatus(c.Request().Context(), session(c), c.Param("id"), req.Status)
	if err != nil {
		return writeError(c, err, "failed to update listing")
	}
	return c.JSON(http.StatusOK, toListingResponse(l))
}
