package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"style-finder/internal/bootstrap"
	"style-finder/internal/shared/config"
	"style-finder/internal/shared/server"
	"style-finder/internal/shared/telemetry"
)

func main() {
	cfg := config.Load("8000")
	telemetry.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.BuildAPI(ctx, cfg)
	if err != nil {
		telemetry.Error("api.bootstrap_failed", map[string]any{"err": err.Error()})
		os.Exit(1)
	}

	if err := server.Run(ctx, server.Addr(cfg.Port), app.Router); err != nil {
		telemetry.Error("api.server_failed", map[string]any{"err": err.Error()})
		os.Exit(1)
	}
}
