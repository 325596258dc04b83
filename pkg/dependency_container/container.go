package dependency_container

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gokubot/goku/pkg/app/pipeline"
	"github.com/gokubot/goku/pkg/app/routing"
	appstats "github.com/gokubot/goku/pkg/app/stats"
	"github.com/gokubot/goku/pkg/config"
	"github.com/gokubot/goku/pkg/domain/oracle"
	handlers "github.com/gokubot/goku/pkg/handlers/http"
	"github.com/gokubot/goku/pkg/infra/cache"
	"github.com/gokubot/goku/pkg/infra/httpx"
	"github.com/gokubot/goku/pkg/infra/jwt"
	oracleinfra "github.com/gokubot/goku/pkg/infra/oracle"
	"github.com/gokubot/goku/pkg/infra/providers/factory"
	"github.com/gokubot/goku/pkg/ratelimit"
	"github.com/gokubot/goku/pkg/server/middleware"
	"github.com/sirupsen/logrus"
)

type Container struct {
	Limiter                ratelimit.Limiter
	Router                 routing.LanguageRouter
	Oracle                 oracle.Client
	Ledger                 appstats.Ledger
	Pipeline               pipeline.Pipeline
	JWTManager             jwt.Manager
	HandlerTransport       handlers.HandlerTransport
	MiddlewareTransport    *middleware.Transport
	APIMiddlewareTransport *middleware.Transport
	RedisClient            *redis.Client
}

type ContainerDI struct {
	Cfg    *config.Config
	Logger *logrus.Logger
	// ProviderLocator and Oracle are optional; tests inject fakes through them.
	ProviderLocator factory.ProviderLocator
	Oracle          oracle.Client
	Clock           func() time.Time
}

// NewContainer wires the bot. ctx bounds background work such as the
// in-memory limiter janitor.
func NewContainer(ctx context.Context, di ContainerDI) (*Container, error) {
	cfg := di.Cfg
	logger := di.Logger
	clock := di.Clock
	if clock == nil {
		clock = time.Now
	}

	c := &Container{}

	limiter, err := c.newLimiter(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	c.Limiter = limiter

	c.Router = routing.NewLanguageRouter(cfg.Bot, nil)

	c.Oracle = di.Oracle
	if c.Oracle == nil {
		locator := di.ProviderLocator
		if locator == nil {
			locator = factory.NewProviderLocator()
		}
		provider, err := locator.Get(cfg.Oracle.Provider)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to get oracle provider: %w", err)
		}
		breaker := httpx.NewCircuitBreakerWithLogger(
			"oracle-"+cfg.Oracle.Provider,
			cfg.Oracle.BreakerTimeout,
			cfg.Oracle.BreakerMaxFailures,
			logger,
		)
		c.Oracle = oracleinfra.NewClient(provider, cfg.Oracle, breaker, logger)
	}

	c.Ledger = appstats.NewLedger(logger)

	c.Pipeline = pipeline.NewPipeline(
		pipeline.Config{
			BotName: cfg.Bot.BotName,
			Replies: cfg.Replies,
			Clock:   clock,
		},
		c.Limiter,
		c.Router,
		c.Oracle,
		c.Ledger,
		logger,
	)

	c.HandlerTransport = handlers.HandlerTransport{
		RootHandler:         handlers.NewRootHandler(),
		HealthHandler:       handlers.NewHealthHandler(),
		StatusHandler:       handlers.NewStatusHandler(),
		VersionHandler:      handlers.NewGetVersionHandler(),
		PostMessageHandler:  handlers.NewPostMessageHandler(logger, c.Pipeline),
		PostCommandHandler:  handlers.NewPostCommandHandler(logger, c.Pipeline),
		GetUserStatsHandler: handlers.NewGetUserStatsHandler(logger, c.Ledger, clock),
	}
	c.MiddlewareTransport = middleware.NewTransport(
		middleware.NewRequestIDMiddleware(),
		middleware.NewAccessLogMiddleware(logger),
	)

	c.JWTManager = jwt.NewJwtManager(cfg.Auth)
	c.APIMiddlewareTransport = middleware.NewTransport()
	if cfg.Auth.Enabled {
		c.APIMiddlewareTransport.Register(middleware.NewAuthMiddleware(logger, c.JWTManager))
	} else {
		logger.Warn("bot api authentication is disabled")
	}

	logger.WithFields(logrus.Fields{
		"bot_name":     cfg.Bot.BotName,
		"limiter":      cfg.RateLimit.Backend,
		"limit":        cfg.RateLimit.Limit,
		"window":       cfg.RateLimit.Window.String(),
		"oracle":       cfg.Oracle.Provider,
		"oracle_model": cfg.Oracle.Model,
		"detector":     cfg.Bot.Detector,
		"fuzzy_names":  cfg.Bot.FuzzyNames,
		"auth":         cfg.Auth.Enabled,
	}).Info("dependency container ready")

	return c, nil
}

func (c *Container) newLimiter(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (ratelimit.Limiter, error) {
	rl := cfg.RateLimit
	if rl.Backend != ratelimit.BackendRedis {
		limiter := ratelimit.NewMemoryLimiter(rl.Limit, rl.Window)
		limiter.StartJanitor(ctx, cfg.Server.JanitorInterval)
		return limiter, nil
	}

	redisClient, err := cache.NewRedisClient(ctx, cache.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		TLS:      cfg.Redis.TLS,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize redis limiter: %w", err)
	}
	c.RedisClient = redisClient
	return ratelimit.NewRedisLimiter(redisClient, rl.Limit, rl.Window, &ratelimit.RedisLimiterOpts{
		KeyPrefix: rl.KeyPrefix,
		Logger:    logger,
	}), nil
}

func (c *Container) Close() {
	if c.RedisClient != nil {
		_ = c.RedisClient.Close()
	}
}
