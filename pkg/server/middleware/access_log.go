package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gokubot/goku/pkg/common"
	"github.com/sirupsen/logrus"
)

type accessLogMiddleware struct {
	logger *logrus.Logger
}

func NewAccessLogMiddleware(logger *logrus.Logger) Middleware {
	return &accessLogMiddleware{logger: logger}
}

func (m *accessLogMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		fields := logrus.Fields{
			"method":      c.Method(),
			"path":        c.Path(),
			"status":      c.Response().StatusCode(),
			"duration_ms": time.Since(start).Milliseconds(),
		}
		if id, ok := c.Locals(string(common.RequestIDKey)).(string); ok {
			fields["request_id"] = id
		}
		entry := m.logger.WithFields(fields)
		if err != nil {
			entry.WithError(err).Error("request failed")
			return err
		}
		entry.Debug("request handled")
		return nil
	}
}
