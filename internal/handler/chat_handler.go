package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tindaph/tinda-backend/internal/chat"
	"github.com/tindaph/tinda-backend/internal/service"
)

type ChatHandler struct {
	svc service.ChatService
}

func NewChatHandler(svc service.ChatService) *ChatHandler {
	return &ChatHandler{svc: svc}
}

type SendMessageRequest struct {
	ToUserID  string `json:"toUserId"`
	ListingID string `json:"listingId"`
	Body      string `json:"body"`
}

type MarkThreadReadRequest struct {
	ListingID     string `json:"listingId"`
	CounterpartID string `json:"counterpartId"`
}

func (h *ChatHandler) Send(c echo.Context) error {
	var req SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid json")
	}
	m, err := h.svc.SendMessage(c.Request().Context(), session(c), service.SendMessageInput{
		ToUserID:  req.ToUserID,
		ListingID: req.ListingID,
		Body:      req.Body,
	})
	if err != nil {
		return writeError(c, err, "failed to send message")
	}
	return c.JSON(http.StatusCreated, toMessageResponse(m))
}

func (h *ChatHandler) ContactSeller(c echo.Context) error {
	m, err := h.svc.ContactSeller(c.Request().Context(), session(c), c.Param("id"))
	if err != nil {
		return writeError(c, err, "failed to contact seller")
	}
	return c.JSON(http.StatusCreated, toMessageResponse(m))
}

func (h *ChatHandler) Threads(c echo.Context) error {
	threads, err := h.svc.Threads(c.Request().Context(), session(c))
	if err != nil {
		return writeError(c, err, "failed to fetch threads")
	}
	resp := make([]ThreadResponse, 0, len(threads))
	unread := 0
	for i := range threads {
		resp = append(resp, toThreadResponse(&threads[i]))
		unread += threads[i].UnreadCount
	}
	return c.JSON(http.StatusOK, map[string]any{
		"threads":     resp,
		"unreadCount": unread,
	})
}

func (h *ChatHandler) MarkRead(c echo.Context) error {
	var req MarkThreadReadRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid json")
	}
	n, err := h.svc.MarkThreadRead(c.Request().Context(), session(c), chat.ThreadKey{
		ListingID:     req.ListingID,
		CounterpartID: req.CounterpartID,
	})
	if err != nil {
		return writeError(c, err, "failed to mark read")
	}
	return c.JSON(http.StatusOK, map[string]int64{"updated": n})
}
