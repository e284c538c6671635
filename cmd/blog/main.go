// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the blog API server.
// It loads configuration, selects the storage backend, sets up routing, and
// starts the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"techblog/internal/auth"
	"techblog/internal/blog"
	"techblog/internal/config"
	"techblog/internal/database"
	"techblog/internal/handlers"
	"techblog/internal/memory"
	"techblog/internal/middleware"
	"techblog/internal/router"
	"techblog/internal/session"
	"techblog/internal/storage"
	"techblog/internal/store"
)

// backend is everything main needs from a storage backend.
type backend struct {
	repo     blog.Repository
	users    auth.UserStore
	sessions sessionStore
	health   map[string]handlers.Pinger
	uploads  http.Handler
	close    func()
}

type sessionStore interface {
	auth.SessionStore
	TTL() time.Duration
}

func main() {
	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger: JSON in production, text in development.
	var handler slog.Handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	if cfg.Env == "production" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	slog.SetDefault(slog.New(handler))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"backend", cfg.Backend,
	)

	ctx := context.Background()

	var be *backend
	switch cfg.Backend {
	case config.BackendPostgres:
		be, err = openPostgres(ctx, cfg)
	default:
		be, err = openMemory(ctx, cfg)
	}
	if err != nil {
		slog.Error("failed to open backend", "backend", cfg.Backend, "error", err)
		os.Exit(1)
	}
	defer be.close()

	identity := auth.NewService(be.users, be.sessions)

	// Sign-in and sign-up share one per-IP budget on top of account lockout.
	limiter := middleware.NewRateLimiter(20, time.Minute)
	defer limiter.Stop()

	r := router.New(router.Deps{
		Identity:    identity,
		Posts:       handlers.NewPosts(be.repo),
		Categories:  handlers.NewTerms(blog.Categories(be.repo)),
		Tags:        handlers.NewTerms(blog.Tags(be.repo)),
		Comments:    handlers.NewComments(be.repo),
		Auth:        handlers.NewAuth(identity, be.sessions.TTL(), cfg.CookieSecure),
		Health:      handlers.NewHealth(cfg.Backend, be.health),
		Uploads:     be.uploads,
		AuthLimiter: limiter,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

// openMemory builds the mock backend, optionally preloaded with demo data.
func openMemory(ctx context.Context, cfg *config.Config) (*backend, error) {
	blobs := storage.NewMemory("/uploads")
	st := memory.New(memory.WithBlobStore(blobs))

	if cfg.SeedDemo {
		if err := st.Seed(ctx); err != nil {
			return nil, err
		}
		slog.Info("demo data loaded",
			"admin", memory.DemoAdminEmail,
			"author", memory.DemoAuthorEmail,
			"reader", memory.DemoReaderEmail,
		)
	}

	return &backend{
		repo:     st,
		users:    st,
		sessions: session.NewMemory(),
		uploads:  handlers.NewUploads(blobs),
		close:    func() {},
	}, nil
}

// openPostgres connects PostgreSQL, Valkey and (when configured) S3.
func openPostgres(ctx context.Context, cfg *config.Config) (*backend, error) {
	db, err := database.Connect(ctx, cfg.DSN())
	if err != nil {
		return nil, err
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	// Seed development data (no-op if users already exist).
	if cfg.IsDev() {
		if err := database.Seed(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
	}

	valkey, err := session.ConnectValkey(ctx, cfg.ValkeyAddr(), cfg.ValkeyPassword)
	if err != nil {
		db.Close()
		return nil, err
	}

	// Object storage is optional; without it image uploads fail with 503.
	var blobs storage.BlobStore
	s3, err := storage.NewS3(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicURL)
	if err != nil {
		valkey.Close()
		db.Close()
		return nil, err
	}
	if s3 != nil {
		blobs = s3
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	} else {
		slog.Warn("s3 storage not configured, featured image uploads disabled")
	}

	return &backend{
		repo:     store.New(db, blobs),
		users:    store.NewUserStore(db),
		sessions: session.NewValkey(valkey),
		health: map[string]handlers.Pinger{
			"postgres": db,
			"valkey":   valkeyPinger(valkey),
		},
		close: func() {
			valkey.Close()
			db.Close()
		},
	}, nil
}

func valkeyPinger(client *redis.Client) handlers.Pinger {
	return handlers.PingFunc(func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	})
}

var _ handlers.Pinger = (*sql.DB)(nil)
