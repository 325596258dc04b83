package http

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gokubot/goku/pkg/app/pipeline/mocks"
	appstats "github.com/gokubot/goku/pkg/app/stats"
	"github.com/gokubot/goku/pkg/common"
	"github.com/gokubot/goku/pkg/domain/message"
	"github.com/gokubot/goku/pkg/infra/jwt"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func scopedApp(claims *jwt.Claims) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if claims != nil {
			c.Locals(string(common.AuthClaimsKey), claims)
		}
		return c.Next()
	})
	return app
}

func TestUserScope_MessageForAnotherUser(t *testing.T) {
	p := new(mocks.MockPipeline)
	app := scopedApp(&jwt.Claims{UserID: "42"})
	app.Post("/api/v1/messages", NewPostMessageHandler(logrus.New(), p).Handle)

	resp, err := app.Test(newJSONRequest(t, fiber.MethodPost, "/api/v1/messages", map[string]string{
		"user_id": "43",
		"text":    "le chat",
	}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	p.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestUserScope_MessageForOwnUser(t *testing.T) {
	p := new(mocks.MockPipeline)
	p.On("Handle", mock.Anything, mock.Anything).Return(message.Response{Kind: message.KindIgnored})
	app := scopedApp(&jwt.Claims{UserID: "42"})
	app.Post("/api/v1/messages", NewPostMessageHandler(logrus.New(), p).Handle)

	resp, err := app.Test(newJSONRequest(t, fiber.MethodPost, "/api/v1/messages", map[string]string{
		"user_id": "42",
		"text":    "le chat",
	}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	p.AssertExpectations(t)
}

func TestUserScope_TransportTokenActsForAnyone(t *testing.T) {
	p := new(mocks.MockPipeline)
	p.On("HandleCommand", mock.Anything, message.UserID("7"), "help").Return(message.Response{Kind: message.KindCommand})
	app := scopedApp(&jwt.Claims{})
	app.Post("/api/v1/commands/:command", NewPostCommandHandler(logrus.New(), p).Handle)

	resp, err := app.Test(newJSONRequest(t, fiber.MethodPost, "/api/v1/commands/help", map[string]string{"user_id": "7"}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	p.AssertExpectations(t)
}

func TestUserScope_CommandForAnotherUser(t *testing.T) {
	p := new(mocks.MockPipeline)
	app := scopedApp(&jwt.Claims{UserID: "42"})
	app.Post("/api/v1/commands/:command", NewPostCommandHandler(logrus.New(), p).Handle)

	resp, err := app.Test(newJSONRequest(t, fiber.MethodPost, "/api/v1/commands/stats", map[string]string{"user_id": "7"}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	p.AssertNotCalled(t, "HandleCommand", mock.Anything, mock.Anything, mock.Anything)
}

func TestUserScope_StatsForAnotherUser(t *testing.T) {
	ledger := appstats.NewLedger(logrus.New())
	require.NoError(t, ledger.Record("7", 10, time.Now()))

	app := scopedApp(&jwt.Claims{UserID: "42"})
	app.Get("/api/v1/users/:user_id/stats", NewGetUserStatsHandler(logrus.New(), ledger, nil).Handle)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/v1/users/7/stats", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
