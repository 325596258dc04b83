package middleware_test

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gokubot/goku/pkg/common"
	"github.com/gokubot/goku/pkg/infra/jwt"
	"github.com/gokubot/goku/pkg/server/middleware"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthApp(t *testing.T) (*fiber.App, jwt.Manager) {
	t.Helper()
	mgr := jwt.NewJwtManager(jwt.Config{SecretKey: "test-secret"})
	app := fiber.New()
	middleware.NewTransport(middleware.NewAuthMiddleware(logrus.New(), mgr)).Mount(app)
	app.Get("/", func(c *fiber.Ctx) error {
		claims, ok := c.Locals(string(common.AuthClaimsKey)).(*jwt.Claims)
		if !ok {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.SendString(claims.Subject)
	})
	return app, mgr
}

func TestAuth_ValidToken(t *testing.T) {
	app, mgr := newAuthApp(t)
	token, err := mgr.CreateToken("telegram", "")
	require.NoError(t, err)

	req := httptest.NewRequest(fiber.MethodGet, "/", nil)
	req.Header.Set(common.AuthorizationHeader, common.BearerPrefix+token)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "telegram", string(body))
}

func TestAuth_Rejected(t *testing.T) {
	app, _ := newAuthApp(t)
	other, err := jwt.NewJwtManager(jwt.Config{SecretKey: "other-secret"}).CreateToken("telegram", "")
	require.NoError(t, err)

	tests := map[string]string{
		"missing header": "",
		"basic auth":     "Basic dXNlcjpwYXNz",
		"empty bearer":   common.BearerPrefix,
		"garbage token":  common.BearerPrefix + "not-a-token",
		"foreign secret": common.BearerPrefix + other,
	}
	for name, header := range tests {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, "/", nil)
			if header != "" {
				req.Header.Set(common.AuthorizationHeader, header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		})
	}
}
