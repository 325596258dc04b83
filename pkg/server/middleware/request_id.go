package middleware

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gokubot/goku/pkg/common"
	"github.com/google/uuid"
)

type requestIDMiddleware struct{}

// NewRequestIDMiddleware propagates X-Request-Id, generating one when the
// caller did not send it. The id is stored in the user context so that oracle
// drivers can tag their logs with it.
func NewRequestIDMiddleware() Middleware {
	return &requestIDMiddleware{}
}

func (m *requestIDMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(common.RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Locals(string(common.RequestIDKey), id)
		c.SetUserContext(context.WithValue(c.UserContext(), common.RequestIDKey, id))
		c.Set(common.RequestIDHeader, id)
		return c.Next()
	}
}
