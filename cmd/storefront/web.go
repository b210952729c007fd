package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jaolave/ml-challenge-frontend/internal/answers"
	"github.com/jaolave/ml-challenge-frontend/internal/backend"
	"github.com/jaolave/ml-challenge-frontend/internal/cache"
	"github.com/jaolave/ml-challenge-frontend/internal/config"
	"github.com/jaolave/ml-challenge-frontend/internal/mail"
	"github.com/jaolave/ml-challenge-frontend/internal/page"
	"github.com/jaolave/ml-challenge-frontend/internal/sitemap"
	"github.com/jaolave/ml-challenge-frontend/internal/static"
	"github.com/jaolave/ml-challenge-frontend/internal/templates"
)

func runServer(cfg *config.Config, addr string) error {
	answerCache, err := cache.MakeCache()
	if err != nil {
		return fmt.Errorf("failed to create cache: %w", err)
	}

	catalog, err := backend.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create catalog client: %w", err)
	}

	ctx := context.Background()
	answerService, err := answers.New(ctx, cfg, answerCache)
	if err != nil {
		return fmt.Errorf("failed to create answer service: %w", err)
	}

	static.Init()
	if err := templates.Init(cfg, static.CSSAssetPath); err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}

	mux := http.NewServeMux()
	static.Register(mux)

	pageHandler := page.NewHandler(catalog, answerService, mail.New(cfg))
	pageHandler.Register(mux)

	sitemap.New(catalog, cfg.Site.BaseURL).Register(mux)

	ro := &readyOnce{}
	ro.Add(catalog)
	mux.Handle("/ready", ro)
	mux.Handle("GET /metrics", promhttp.Handler())

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go pageHandler.Sweep(sweepCtx)

	server := &http.Server{
		Addr:    addr,
		Handler: WithMiddleware(mux),
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("serving storefront", "address", addr, "mocks", cfg.Mocks.Enable)
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case sig := <-shutdown:
		slog.Info("shutdown signal received", "signal", sig)
		return gracefulShutdown(server, pageHandler.Wait)
	}
}

func gracefulShutdown(svr *http.Server, drain func()) error {
	// kubernetes gives 30 seconds of grace, leave some slack for the runtime
	ctx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
	defer cancel()

	if err := svr.Shutdown(ctx); err != nil {
		slog.Error("server shutdown error", "error", err)
		if closeErr := svr.Close(); closeErr != nil {
			slog.Error("server close error", "error", closeErr)
		}
		return err
	}

	done := make(chan struct{})
	go func() {
		drain()
		close(done)
	}()

	slog.Info("waiting for background fetches to land")
	select {
	case <-done:
		slog.Info("background work drained")
	case <-ctx.Done():
		slog.Warn("timeout waiting for background work")
		return ctx.Err()
	}
	return nil
}
