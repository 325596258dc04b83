package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gokubot/goku/pkg/common"
	"github.com/gokubot/goku/pkg/infra/jwt"
	"github.com/sirupsen/logrus"
)

type authMiddleware struct {
	logger     *logrus.Logger
	jwtManager jwt.Manager
}

// NewAuthMiddleware requires a bearer token signed with the bot secret and
// stores its claims in the request locals.
func NewAuthMiddleware(logger *logrus.Logger, jwtManager jwt.Manager) Middleware {
	return &authMiddleware{
		logger:     logger,
		jwtManager: jwtManager,
	}
}

func (m *authMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(common.AuthorizationHeader)
		if authHeader == "" {
			m.logger.Debug("no authorization header provided")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "authorization required"})
		}
		if !strings.HasPrefix(authHeader, common.BearerPrefix) {
			m.logger.Debug("invalid authorization header format")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid authorization format"})
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, common.BearerPrefix))
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "empty token provided"})
		}

		claims, err := m.jwtManager.DecodeToken(tokenString)
		if err != nil {
			m.logger.WithError(err).Debug("invalid token")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token"})
		}

		c.Locals(string(common.AuthClaimsKey), claims)
		return c.Next()
	}
}
