package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/barber-dashboard/internal/apiclient"
	"github.com/spec-kit/barber-dashboard/internal/config"
	"github.com/spec-kit/barber-dashboard/internal/observability"
	"github.com/spec-kit/barber-dashboard/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	logger.Info("starting gateway",
		zap.String("env", string(cfg.App.Env)),
		zap.String("version", cfg.App.Version),
	)

	metrics := observability.NewMetrics()
	sdk := web.NewSDK(cfg, logger)
	probe := apiclient.NewProbe(cfg, sdk.Override(), logger)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	web.RegisterMiddlewares(app, logger, metrics)

	web.RegisterRoutes(app, web.RouteConfig{
		Session: web.NewSessionHandler(sdk, logger),
		Agenda:  web.NewAgendaHandler(sdk, logger),
		Health:  web.NewHealthHandler(probe, metrics),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
