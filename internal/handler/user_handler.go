package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tindaph/tinda-backend/internal/service"
)

type UserHandler struct {
	svc service.UserService
}

func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

func (h *UserHandler) GetPublic(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return badRequest(c, "invalid id")
	}
	user, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err, "failed to fetch user")
	}
	return c.JSON(http.StatusOK, toPublicUserResponse(user))
}
