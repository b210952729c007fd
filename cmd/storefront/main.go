package main

import (
	"context"
	"flag"
	"log"
	"log/slog"

	"github.com/jaolave/ml-challenge-frontend/internal/config"
	"github.com/jaolave/ml-challenge-frontend/internal/logsink"
	"github.com/jaolave/ml-challenge-frontend/internal/telemetry"
)

func main() {
	var addr string
	flag.StringVar(&addr, "addr", ":8080", "Address to bind")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	ctx := context.Background()
	otelHandler, otelShutdown, err := telemetry.Setup(ctx)
	if err != nil {
		log.Fatalf("failed to set up telemetry: %v", err)
	}
	defer func() {
		if err := otelShutdown(context.Background()); err != nil {
			slog.Error("telemetry shutdown error", "error", err)
		}
	}()

	closeLogs, err := setupLogging(ctx, logsink.FromEnv(), otelHandler)
	if err != nil {
		log.Fatalf("failed to set up logging: %v", err)
	}
	defer closeLogs()

	if err := runServer(cfg, addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
