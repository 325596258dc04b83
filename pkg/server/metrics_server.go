package server

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gokubot/goku/pkg/config"
	"github.com/gokubot/goku/pkg/infra/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

const MetricsPath = "/metrics"

// MetricsServer exposes the bot registry on its own port.
type MetricsServer struct {
	config *config.Config
	logger *logrus.Logger
	app    *fiber.App
}

func NewMetricsServer(cfg *config.Config, logger *logrus.Logger) *MetricsServer {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	app.Use(recover.New())

	handler := fasthttpadaptor.NewFastHTTPHandler(
		promhttp.HandlerFor(prometheus.Gatherer(), promhttp.HandlerOpts{}),
	)
	app.Get(MetricsPath, func(c *fiber.Ctx) error {
		handler(c.Context())
		return nil
	})

	return &MetricsServer{
		config: cfg,
		logger: logger,
		app:    app,
	}
}

func (s *MetricsServer) App() *fiber.App {
	return s.app
}

func (s *MetricsServer) Run() error {
	addr := fmt.Sprintf(":%d", s.config.Server.MetricsPort)
	s.logger.WithField("addr", addr).Info("starting metrics server")
	return s.app.Listen(addr)
}

func (s *MetricsServer) Shutdown() error {
	return s.app.Shutdown()
}
