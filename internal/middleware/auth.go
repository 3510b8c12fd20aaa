package middleware

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/tindaph/tinda-backend/internal/model"
	"github.com/tindaph/tinda-backend/internal/reqctx"
	"github.com/tindaph/tinda-backend/internal/repository"
	"github.com/tindaph/tinda-backend/internal/service"
)

// SessionKey is the echo context key holding the *model.Session of the
// request, if any.
const SessionKey = "session"

type AuthMiddleware struct {
	svc service.AuthService
}

func NewAuthMiddleware(svc service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{svc: svc}
}

func bearerToken(c echo.Context) string {
	authz := c.Request().Header.Get(echo.HeaderAuthorization)
	if !strings.HasPrefix(authz, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))
}

func deny(c echo.Context, status int, code, message string) error {
	return c.JSON(status, map[string]map[string]string{
		"error": {"code": code, "message": message},
	})
}

func attach(c echo.Context, sess *model.Session) {
	c.Set(SessionKey, sess)
	req := c.Request()
	c.SetRequest(req.WithContext(reqctx.WithUserID(req.Context(), sess.UserID)))
}

// RequireAuth rejects requests without a valid bearer token.
func (m *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := bearerToken(c)
		if token == "" {
			return deny(c, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		}
		sess, err := m.svc.Authenticate(c.Request().Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrUnauthorized):
				return deny(c, http.StatusUnauthorized, "invalid_token", "session is invalid or expired")
			case errors.Is(err, repository.ErrDBNotReady):
				return deny(c, http.StatusServiceUnavailable, "unavailable", "database is not ready")
			}
			log.Printf("[auth] rid=%s stage=authenticate err=%v", reqctx.RID(c.Request().Context()), err)
			return deny(c, http.StatusInternalServerError, "internal_error", "failed to verify session")
		}
		attach(c, sess)
		return next(c)
	}
}

// OptionalAuth resolves a session when a token is sent. A missing or stale
// token leaves the request anonymous.
func (m *AuthMiddleware) OptionalAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if token := bearerToken(c); token != "" {
			if sess, err := m.svc.Authenticate(c.Request().Context(), token); err == nil {
				attach(c, sess)
			}
		}
		return next(c)
	}
}

// RequireRole must run after RequireAuth.
func RequireRole(role model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess := Session(c)
			if sess == nil {
				return deny(c, http.StatusUnauthorized, "unauthorized", "missing session")
			}
			if sess.Role != role {
				return deny(c, http.StatusForbidden, "forbidden", "insufficient role")
			}
			return next(c)
		}
	}
}

// Session returns the request's session or nil for anonymous requests.
func Session(c echo.Context) *model.Session {
	sess, _ := c.Get(SessionKey).(*model.Session)
	return sess
}

// RequestContext copies the id set by echo's RequestID middleware into the
// request context so services can tag their log lines.
func RequestContext(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		rid := c.Response().Header().Get(echo.HeaderXRequestID)
		if rid == "" {
			rid = c.Request().Header.Get(echo.HeaderXRequestID)
		}
		if rid != "" {
			req := c.Request()
			c.SetRequest(req.WithContext(reqctx.WithRID(req.Context(), rid)))
		}
		return next(c)
	}
}
