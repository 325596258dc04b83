package dependency_container_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gokubot/goku/pkg/app/routing"
	"github.com/gokubot/goku/pkg/config"
	"github.com/gokubot/goku/pkg/dependency_container"
	"github.com/gokubot/goku/pkg/domain/message"
	"github.com/gokubot/goku/pkg/domain/oracle"
	"github.com/gokubot/goku/pkg/domain/oracle/mocks"
	"github.com/gokubot/goku/pkg/infra/jwt"
	oracleinfra "github.com/gokubot/goku/pkg/infra/oracle"
	"github.com/gokubot/goku/pkg/ratelimit"
	"github.com/gokubot/goku/pkg/server/router"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Bot:       routing.Config{BotName: "Goku"},
		RateLimit: ratelimit.Config{Backend: ratelimit.BackendMemory, Limit: 2, Window: time.Minute},
		Oracle:    oracleinfra.Config{Provider: "google", Timeout: time.Second},
	}
}

func postMessage(t *testing.T, app *fiber.App, userID, text string) message.Response {
	t.Helper()
	raw, err := json.Marshal(map[string]string{"user_id": userID, "text": text})
	require.NoError(t, err)
	req := httptest.NewRequest(fiber.MethodPost, "/api/v1/messages", bytes.NewReader(raw))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out message.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestNewContainer_EndToEnd(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	logger, _ := test.NewNullLogger()

	oracleClient := new(mocks.MockOracleClient)
	oracleClient.On("Translate", mock.Anything, oracle.Request{
		SourceText: "le chat",
		SourceLang: message.LanguageFrench,
		TargetLang: message.LanguageArabic,
	}).Return(&oracle.Result{DetectedLanguage: message.LanguageFrench, TranslatedText: "القطة"}, nil)

	c, err := dependency_container.NewContainer(ctx, dependency_container.ContainerDI{
		Cfg:    testConfig(),
		Logger: logger,
		Oracle: oracleClient,
	})
	require.NoError(t, err)
	defer c.Close()
	assert.IsType(t, &ratelimit.MemoryLimiter{}, c.Limiter)

	app := fiber.New()
	require.NoError(t, router.NewBotRouter(c.MiddlewareTransport, c.APIMiddlewareTransport, c.HandlerTransport).BuildRoutes(app))

	got := postMessage(t, app, "42", "le chat")
	assert.Equal(t, message.KindTranslation, got.Kind)
	assert.Equal(t, "القطة", got.Text)

	// limit is two per minute
	assert.Equal(t, message.KindInteractive, postMessage(t, app, "42", "Goku").Kind)
	assert.Equal(t, message.KindRateLimited, postMessage(t, app, "42", "le chat").Kind)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/v1/users/42/stats", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	oracleClient.AssertNumberOfCalls(t, "Translate", 1)
}

func TestNewContainer_UnknownProvider(t *testing.T) {
	logger, _ := test.NewNullLogger()
	cfg := testConfig()
	cfg.Oracle.Provider = "mistral"

	_, err := dependency_container.NewContainer(context.Background(), dependency_container.ContainerDI{
		Cfg:    cfg,
		Logger: logger,
	})
	assert.Error(t, err)
}

func TestNewContainer_AuthGuardsTheAPI(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	logger, _ := test.NewNullLogger()

	cfg := testConfig()
	cfg.Auth = jwt.Config{Enabled: true, SecretKey: "test-secret"}
	oracleClient := new(mocks.MockOracleClient)

	c, err := dependency_container.NewContainer(ctx, dependency_container.ContainerDI{
		Cfg:    cfg,
		Logger: logger,
		Oracle: oracleClient,
	})
	require.NoError(t, err)
	defer c.Close()

	app := fiber.New()
	require.NoError(t, router.NewBotRouter(c.MiddlewareTransport, c.APIMiddlewareTransport, c.HandlerTransport).BuildRoutes(app))

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	raw := []byte(`{"user_id":"42","text":"Goku"}`)
	req := httptest.NewRequest(fiber.MethodPost, "/api/v1/messages", bytes.NewReader(raw))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	token, err := c.JWTManager.CreateToken("telegram", "")
	require.NoError(t, err)
	req = httptest.NewRequest(fiber.MethodPost, "/api/v1/messages", bytes.NewReader(raw))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	oracleClient.AssertNotCalled(t, "Translate", mock.Anything, mock.Anything)
}
