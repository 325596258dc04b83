package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gokubot/goku/pkg/app/pipeline"
	"github.com/gokubot/goku/pkg/domain/message"
	"github.com/gokubot/goku/pkg/handlers/http/request"
	"github.com/sirupsen/logrus"
)

type postMessageHandler struct {
	logger   *logrus.Logger
	pipeline pipeline.Pipeline
}

func NewPostMessageHandler(logger *logrus.Logger, p pipeline.Pipeline) Handler {
	return &postMessageHandler{
		logger:   logger,
		pipeline: p,
	}
}

// Handle runs one inbound message through the pipeline. Every pipeline
// outcome, rate limiting and oracle failures included, is a 200 carrying the
// text to send back.
func (h *postMessageHandler) Handle(c *fiber.Ctx) error {
	var req request.PostMessageRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.WithError(err).Error("failed to bind request")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrInvalidJsonPayload.Error()})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	userID := strings.TrimSpace(req.UserID)
	if !authorizedFor(c, userID) {
		return forbidden(c)
	}

	msg := message.NewInbound(message.UserID(userID), req.Text, req.BotName)
	resp := h.pipeline.Handle(c.UserContext(), msg)

	h.logger.WithFields(logrus.Fields{
		"message_id": msg.ID,
		"user_id":    msg.UserID,
		"kind":       resp.Kind,
	}).Debug("message handled")

	return c.Status(fiber.StatusOK).JSON(resp)
}
