package router_test

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gokubot/goku/pkg/app/pipeline/mocks"
	appstats "github.com/gokubot/goku/pkg/app/stats"
	"github.com/gokubot/goku/pkg/common"
	handlers "github.com/gokubot/goku/pkg/handlers/http"
	"github.com/gokubot/goku/pkg/infra/jwt"
	"github.com/gokubot/goku/pkg/server/middleware"
	"github.com/gokubot/goku/pkg/server/router"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func transport() handlers.HandlerTransport {
	logger := logrus.New()
	p := new(mocks.MockPipeline)
	return handlers.HandlerTransport{
		RootHandler:         handlers.NewRootHandler(),
		HealthHandler:       handlers.NewHealthHandler(),
		StatusHandler:       handlers.NewStatusHandler(),
		VersionHandler:      handlers.NewGetVersionHandler(),
		PostMessageHandler:  handlers.NewPostMessageHandler(logger, p),
		PostCommandHandler:  handlers.NewPostCommandHandler(logger, p),
		GetUserStatsHandler: handlers.NewGetUserStatsHandler(logger, appstats.NewLedger(logger), nil),
	}
}

func TestBotRouter_BuildRoutes(t *testing.T) {
	app := fiber.New()
	r := router.NewBotRouter(middleware.NewTransport(middleware.NewRequestIDMiddleware()), nil, transport())
	require.NoError(t, r.BuildRoutes(app))

	for path, status := range map[string]int{
		"/":                       fiber.StatusOK,
		"/health":                 fiber.StatusOK,
		"/status":                 fiber.StatusOK,
		"/version":                fiber.StatusOK,
		"/api/v1/users/404/stats": fiber.StatusNotFound,
	} {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, path, nil))
		require.NoError(t, err)
		assert.Equal(t, status, resp.StatusCode, path)
		assert.NotEmpty(t, resp.Header.Get(common.RequestIDHeader), path)
	}
}

func TestBotRouter_RequiresBotHandlers(t *testing.T) {
	r := router.NewBotRouter(nil, nil, handlers.HandlerTransport{RootHandler: handlers.NewRootHandler()})
	assert.ErrorIs(t, r.BuildRoutes(fiber.New()), router.ErrInvalidHandlerTransport)
}

func TestBotRouter_APIMiddlewareSkipsLiveness(t *testing.T) {
	app := fiber.New()
	auth := middleware.NewAuthMiddleware(logrus.New(), jwt.NewJwtManager(jwt.Config{SecretKey: "test-secret"}))
	r := router.NewBotRouter(nil, middleware.NewTransport(auth), transport())
	require.NoError(t, r.BuildRoutes(app))

	for path, status := range map[string]int{
		"/health":               fiber.StatusOK,
		"/version":              fiber.StatusOK,
		"/api/v1/users/1/stats": fiber.StatusUnauthorized,
	} {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, path, nil))
		require.NoError(t, err)
		assert.Equal(t, status, resp.StatusCode, path)
	}
}
