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
	if err := run(); err != nil {
		telemetry.Error("web.exit", map[string]any{"err": err.Error()})
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load("8080")
	telemetry.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.BuildWeb(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			telemetry.Warn("web.close_failed", map[string]any{"err": err.Error()})
		}
	}()

	return server.Run(ctx, server.Addr(cfg.Port), app.Router)
}
