package server

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/tindaph/tinda-backend/internal/ai"
	"github.com/tindaph/tinda-backend/internal/auth"
	"github.com/tindaph/tinda-backend/internal/config"
	"github.com/tindaph/tinda-backend/internal/handler"
	appmw "github.com/tindaph/tinda-backend/internal/middleware"
	"github.com/tindaph/tinda-backend/internal/model"
	"github.com/tindaph/tinda-backend/internal/repository"
	"github.com/tindaph/tinda-backend/internal/service"
	"github.com/tindaph/tinda-backend/internal/session"
	"github.com/tindaph/tinda-backend/internal/storage"
	"gorm.io/gorm"
)

// Deps are the outside collaborators of the API. Only Config is required;
// DB may be nil and injected later with SetDB.
type Deps struct {
	DB        *gorm.DB
	Config    *config.Config
	Sessions  session.RevocationStore
	Images    storage.ImageStore
	Describer ai.DescriptionGenerator
	External  service.ExternalVerifier
}

type dbSetter interface {
	SetDB(db *gorm.DB)
}

type Server struct {
	e     *echo.Echo
	repos []dbSetter
}

func originAllowed(suffix string) func(string) (bool, error) {
	return func(origin string) (bool, error) {
		low := strings.ToLower(origin)
		if strings.HasPrefix(low, "http://localhost:") || strings.HasPrefix(low, "http://127.0.0.1:") ||
			strings.HasPrefix(low, "https://localhost:") || strings.HasPrefix(low, "https://127.0.0.1:") {
			return true, nil
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false, nil
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return false, nil
		}
		return suffix != "" && strings.HasSuffix(u.Hostname(), suffix), nil
	}
}

func New(deps Deps) *Server {
	cfg := deps.Config
	if deps.Sessions == nil {
		deps.Sessions = session.NewMemoryStore()
	}
	if deps.Images == nil {
		deps.Images = storage.InlineStore{}
	}
	if deps.Describer == nil {
		deps.Describer = ai.NewGeminiDescriptionClient(cfg.GeminiAPIKey, cfg.GeminiModel)
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(appmw.RequestContext)
	e.Use(middleware.Logger())
	e.Use(middleware.BodyLimit("64M"))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		AllowOriginFunc:  originAllowed(cfg.AllowedOriginSuffix),
	}))

	userRepo := repository.NewUserRepository(deps.DB)
	listingRepo := repository.NewListingRepository(deps.DB)
	messageRepo := repository.NewMessageRepository(deps.DB)
	reviewRepo := repository.NewReviewRepository(deps.DB)
	notifRepo := repository.NewNotificationRepository(deps.DB)

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.SessionTTL)
	authSvc := service.NewAuthService(userRepo, tokens, deps.Sessions, deps.External)
	notifSvc := service.NewNotificationService(notifRepo)
	listingSvc := service.NewListingService(listingRepo, deps.Images, notifSvc)
	adminSvc := service.NewAdminService(listingSvc, listingRepo, userRepo)
	chatSvc := service.NewChatService(messageRepo, listingRepo, userRepo, notifSvc)
	reviewSvc := service.NewReviewService(reviewRepo)
	userSvc := service.NewUserService(userRepo)

	authMw := appmw.NewAuthMiddleware(authSvc)
	authHandler := handler.NewAuthHandler(authSvc)
	listingHandler := handler.NewListingHandler(listingSvc)
	adminHandler := handler.NewAdminHandler(adminSvc)
	chatHandler := handler.NewChatHandler(chatSvc)
	reviewHandler := handler.NewReviewHandler(reviewSvc)
	notifHandler := handler.NewNotificationHandler(notifSvc)
	userHandler := handler.NewUserHandler(userSvc)
	aiHandler := handler.NewAIHandler(deps.Describer)

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"ok":         "true",
			"git_sha":    cfg.GitSHA,
			"build_time": cfg.BuildTime,
		})
	})

	api := e.Group("/api")
	api.GET("/catalog", handler.Catalog)

	authGroup := api.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/logout", authHandler.Logout, authMw.RequireAuth)
	authGroup.GET("/session", authHandler.Session, authMw.RequireAuth)

	api.GET("/listings", listingHandler.Feed, authMw.OptionalAuth)
	api.GET("/listings/trending", listingHandler.Trending)
	api.GET("/listings/:id", listingHandler.Get, authMw.OptionalAuth)
	api.POST("/listings", listingHandler.Create, authMw.RequireAuth)
	api.POST("/listings/:id/like", listingHandler.Like)
	api.PATCH("/listings/:id/status", listingHandler.UpdateStatus, authMw.RequireAuth)
	api.POST("/listings/:id/contact", chatHandler.ContactSeller, authMw.RequireAuth)
	api.GET("/me/listings", listingHandler.ListMine, authMw.RequireAuth)

	admin := api.Group("/admin", authMw.RequireAuth, appmw.RequireRole(model.RoleAdmin))
	admin.GET("/listings/pending", adminHandler.Pending)
	admin.POST("/listings/:id/approve", adminHandler.Approve)
	admin.POST("/listings/:id/reject", adminHandler.Reject)
	admin.GET("/stats", adminHandler.Stats)

	api.POST("/messages", chatHandler.Send, authMw.RequireAuth)
	api.GET("/threads", chatHandler.Threads, authMw.RequireAuth)
	api.POST("/threads/read", chatHandler.MarkRead, authMw.RequireAuth)

	api.GET("/reviews", reviewHandler.List)
	api.POST("/reviews", reviewHandler.Create, authMw.RequireAuth)

	api.POST("/ai/description", aiHandler.Describe, authMw.RequireAuth)
	api.GET("/users/:id/public", userHandler.GetPublic)

	api.GET("/notifications", notifHandler.List, authMw.RequireAuth)
	api.POST("/notifications/read", notifHandler.MarkAllRead, authMw.RequireAuth)

	if reader, ok := deps.Images.(storage.Reader); ok {
		api.GET("/images/:id", handler.NewImageHandler(reader).Get)
	}

	return &Server{
		e:     e,
		repos: []dbSetter{userRepo, listingRepo, messageRepo, reviewRepo, notifRepo},
	}
}

func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}

func (s *Server) Handler() http.Handler {
	return s.e
}

// SetDB swaps the connection of every repository. The server starts before
// the database is reachable and answers 503 until this is called.
func (s *Server) SetDB(db *gorm.DB) {
	for _, r := range s.repos {
		r.SetDB(db)
	}
}
