// Package server exposes password generation over HTTP.
package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/vaultpass/passgen/internal/config"
	"github.com/vaultpass/passgen/internal/handler"
	"github.com/vaultpass/passgen/internal/middleware"
	"github.com/vaultpass/passgen/internal/service"
)

const shutdownTimeout = 10 * time.Second

// NewRouter wires the HTTP routes. The rate limiter's sweeper lives until ctx
// is cancelled. Bearer auth guards the generate route when cfg.JWTSecret is set.
func NewRouter(ctx context.Context, cfg config.Config, svc *service.GeneratorService) http.Handler {
	genHandler := handler.NewGeneratorHandler(svc)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.Logger)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := io.WriteString(w, "ok"); err != nil {
			slog.Debug("health response not written", "error", err)
		}
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst))
		if cfg.JWTSecret != "" {
			r.Use(middleware.BearerAuth(cfg.JWTSecret))
		} else {
			slog.Warn("PASSGEN_JWT_SECRET not set, generate endpoint is unauthenticated")
		}
		r.Post("/api/v1/generate", genHandler.HandleGenerate)
	})

	return r
}

// Run serves the API on cfg.Port until ctx is cancelled, then shuts down
// gracefully.
func Run(ctx context.Context, cfg config.Config, svc *service.GeneratorService) error {
	if err := cfg.ValidateServer(); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           NewRouter(ctx, cfg, svc),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	slog.Info("server stopped")
	return nil
}
