package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gokubot/goku/pkg/common"
	"github.com/gokubot/goku/pkg/infra/jwt"
)

var (
	ErrInvalidJsonPayload = errors.New("invalid JSON payload")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserForbidden      = errors.New("token is not valid for this user")
)

type Handler interface {
	Handle(ctx *fiber.Ctx) error
}

type HandlerTransport struct {
	// Liveness
	RootHandler    Handler
	HealthHandler  Handler
	StatusHandler  Handler
	VersionHandler Handler

	// Bot
	PostMessageHandler  Handler
	PostCommandHandler  Handler
	GetUserStatsHandler Handler
}

// authorizedFor reports whether the caller's token may act for userID. Tokens
// without a user id belong to a chat transport and may act for anyone.
func authorizedFor(c *fiber.Ctx, userID string) bool {
	claims, ok := c.Locals(string(common.AuthClaimsKey)).(*jwt.Claims)
	if !ok || claims.UserID == "" {
		return true
	}
	return claims.UserID == userID
}

func forbidden(c *fiber.Ctx) error {
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": ErrUserForbidden.Error()})
}
