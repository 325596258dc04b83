package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gokubot/goku/pkg/config"
	"github.com/gokubot/goku/pkg/dependency_container"
	infraLogger "github.com/gokubot/goku/pkg/infra/logger"
	"github.com/gokubot/goku/pkg/infra/prometheus"
	"github.com/gokubot/goku/pkg/server"
	"github.com/gokubot/goku/pkg/server/router"
	"github.com/gokubot/goku/pkg/version"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func main() {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config"
	}
	if err := config.Load(configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.GetConfig()

	logger, closeLogs, err := infraLogger.NewLogger(infraLogger.DefaultComponent, cfg.Logging)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer closeLogs()
	logger.WithField("version", version.GetInfo().String()).Info("starting goku")

	prometheus.Initialize(cfg.Metrics)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	container, err := dependency_container.NewContainer(ctx, dependency_container.ContainerDI{
		Cfg:    cfg,
		Logger: logger,
	})
	if err != nil {
		logger.WithError(err).Error("failed to build dependency container")
		closeLogs()
		os.Exit(1)
	}
	defer container.Close()

	servers := []server.Server{
		server.NewBotServer(server.BotServerDI{
			Config:  cfg,
			Logger:  logger,
			Routers: []router.ServerRouter{router.NewBotRouter(container.MiddlewareTransport, container.APIMiddlewareTransport, container.HandlerTransport)},
		}),
	}
	if cfg.Metrics.Enabled {
		servers = append(servers, server.NewMetricsServer(cfg, logger))
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		g.Go(srv.Run)
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down servers")
		for _, srv := range servers {
			if err := srv.Shutdown(); err != nil {
				logger.WithError(err).Error("error shutting down server")
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.WithError(err).Error("server failed")
		return
	}
	logger.Info("servers gracefully stopped")
}
