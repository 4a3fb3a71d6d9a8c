package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/daybook/adapter/cli"
	identitySession "github.com/felixgeelhaar/daybook/internal/identity/session"
	"github.com/felixgeelhaar/daybook/internal/items/application"
	"github.com/felixgeelhaar/daybook/internal/items/infrastructure/api"
	"github.com/felixgeelhaar/daybook/internal/items/projection"
	itemSession "github.com/felixgeelhaar/daybook/internal/items/session"
	"github.com/felixgeelhaar/daybook/pkg/config"
	"github.com/felixgeelhaar/daybook/pkg/observability"
)

func main() {
	logger := observability.LoggerFromEnv()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		logger.Warn("failed to load config, using defaults", "error", err)
		cfg = &config.Config{AppEnv: "development"}
	}
	if cfg.IsDevelopment() {
		logger = observability.NewLogger(observability.LogConfig{
			Level:  observability.LogLevelDebug,
			Format: observability.LogFormatText,
			Output: os.Stderr,
		})
	}
	cli.SetLogger(logger)

	store := api.NewClient(cfg.APIBaseURL, cfg.HTTPTimeout, api.BreakerConfig{
		MaxRequests:      uint32(cfg.BreakerMaxRequests),
		Interval:         cfg.BreakerInterval,
		Timeout:          cfg.BreakerTimeout,
		FailureThreshold: uint32(cfg.BreakerFailureThreshold),
	}, logger)

	sessions, err := identitySession.Open(ctx, cfg.SessionDBPath)
	if err != nil {
		logger.Error("failed to open session store", "error", err)
		os.Exit(1)
	}
	defer sessions.Close()

	projector := projection.NewProjector()
	controller := itemSession.NewController()
	coordinator := application.NewCoordinator(store, projector, controller, logger)

	cli.SetApp(&cli.App{
		Store:       store,
		Projector:   projector,
		Controller:  controller,
		Coordinator: coordinator,
		Sessions:    sessions,
	})

	cli.Execute(ctx)
}
