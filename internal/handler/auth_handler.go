package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/tindaph/tinda-backend/internal/model"
	"github.com/tindaph/tinda-backend/internal/service"
)

type AuthHandler struct {
	svc service.AuthService
}

func NewAuthHandler(svc service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Region   string `json:"region"`
	Province string `json:"province"`
	City     string `json:"city"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt string       `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

func toAuthResponse(res *service.AuthResult) AuthResponse {
	return AuthResponse{
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt.Format(time.RFC3339),
		User:      toUserResponse(res.User),
	}
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid json")
	}
	res, err := h.svc.SignUp(c.Request().Context(), service.SignUpInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     model.Role(req.Role),
		Location: model.Location{Region: req.Region, Province: req.Province, City: req.City},
	})
	if err != nil {
		return writeError(c, err, "failed to register")
	}
	return c.JSON(http.StatusCreated, toAuthResponse(res))
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid json")
	}
	res, err := h.svc.SignIn(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return writeError(c, err, "failed to sign in")
	}
	return c.JSON(http.StatusOK, toAuthResponse(res))
}

func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.svc.SignOut(c.Request().Context(), session(c)); err != nil {
		return writeError(c, err, "failed to sign out")
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *AuthHandler) Session(c echo.Context) error {
	sess := session(c)
	u, err := h.svc.CurrentUser(c.Request().Context(), sess)
	if err != nil {
		return writeError(c, err, "failed to load session")
	}
	return c.JSON(http.StatusOK, map[string]any{
		"user":      toUserResponse(u),
		"expiresAt": sess.ExpiresAt.Format(time.RFC3339),
	})
}
