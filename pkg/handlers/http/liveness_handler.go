package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gokubot/goku/pkg/common"
	"github.com/gokubot/goku/pkg/version"
)

const (
	rootText   = "Goku Translation Bot is running!"
	statusText = "OK - Goku bot alive"
)

type rootHandler struct{}

func NewRootHandler() Handler {
	return &rootHandler{}
}

func (h *rootHandler) Handle(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).SendString(rootText)
}

type healthHandler struct{}

func NewHealthHandler() Handler {
	return &healthHandler{}
}

func (h *healthHandler) Handle(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "ok",
		"bot":     common.BotSlug,
		"version": version.Version,
	})
}

// statusHandler answers uptime pingers.
type statusHandler struct{}

func NewStatusHandler() Handler {
	return &statusHandler{}
}

func (h *statusHandler) Handle(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).SendString(statusText)
}
