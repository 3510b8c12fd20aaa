package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/tindaph/tinda-backend/internal/ai"
	"github.com/tindaph/tinda-backend/internal/auth"
	"github.com/tindaph/tinda-backend/internal/config"
	"github.com/tindaph/tinda-backend/internal/db"
	"github.com/tindaph/tinda-backend/internal/server"
	"github.com/tindaph/tinda-backend/internal/session"
	"github.com/tindaph/tinda-backend/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := server.Deps{
		Config:    cfg,
		Sessions:  revocationStore(ctx, cfg),
		Describer: ai.NewGeminiDescriptionClient(cfg.GeminiAPIKey, cfg.GeminiModel),
	}

	images, closeImages, err := imageStore(ctx, cfg)
	if err != nil {
		log.Fatalf("image store init error: %v", err)
	}
	defer closeImages()
	deps.Images = images

	if cfg.FirebaseProjectID != "" {
		verifier, err := auth.NewFirebaseVerifier(ctx, cfg.FirebaseProjectID, cfg.CredentialsFile)
		if err != nil {
			log.Printf("firebase init error, external tokens disabled: %v", err)
		} else {
			deps.External = verifier
		}
	}

	srv := server.New(deps)
	addr := ":" + cfg.Port

	errCh := make(chan error, 1)

	go func() {
		log.Printf("starting server on %s", addr)
		errCh <- srv.Start(addr)
	}()

	go func() {
		conn, err := db.Connect(ctx, cfg)
		if err != nil {
			log.Printf("db connect error: %v", err)
			return
		}
		if err := db.Migrate(conn); err != nil {
			log.Printf("auto migrate error: %v", err)
		}
		srv.SetDB(conn)
		log.Printf("database ready driver=%s", cfg.DBDriver)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server stopped: %v", err)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown error: %v", err)
		}
	}
}

// revocationStore uses Redis when configured so sign-outs survive restarts
// and are shared between instances.
func revocationStore(ctx context.Context, cfg *config.Config) session.RevocationStore {
	if cfg.RedisAddr == "" {
		return session.NewMemoryStore()
	}
	rs := session.NewRedisStore(session.RedisOptions{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rs.Ping(pingCtx); err != nil {
		log.Printf("redis ping error, sessions still use redis: %v", err)
	}
	return rs
}

func imageStore(ctx context.Context, cfg *config.Config) (storage.ImageStore, func(), error) {
	switch cfg.ImageStore {
	case config.ImageStoreGCS:
		s, err := storage.NewGCSStore(ctx, cfg.StorageBucket, cfg.CredentialsFile)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	case config.ImageStoreGridFS:
		s, err := storage.NewGridFSStore(ctx, cfg.MongoURI, cfg.MongoDB, "/api/images/")
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close(context.Background()) }, nil
	default:
		return storage.InlineStore{}, func() {}, nil
	}
}
