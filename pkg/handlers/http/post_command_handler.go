package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gokubot/goku/pkg/app/pipeline"
	"github.com/gokubot/goku/pkg/common"
	"github.com/gokubot/goku/pkg/domain/message"
	"github.com/gokubot/goku/pkg/handlers/http/request"
	"github.com/sirupsen/logrus"
)

type postCommandHandler struct {
	logger   *logrus.Logger
	pipeline pipeline.Pipeline
}

func NewPostCommandHandler(logger *logrus.Logger, p pipeline.Pipeline) Handler {
	return &postCommandHandler{
		logger:   logger,
		pipeline: p,
	}
}

func (h *postCommandHandler) Handle(c *fiber.Ctx) error {
	command := c.Params("command")
	if strings.TrimSpace(command) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "command is required"})
	}

	var req request.PostCommandRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			h.logger.WithError(err).Error("failed to bind request")
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrInvalidJsonPayload.Error()})
		}
	}
	if req.UserID == "" {
		req.UserID = c.Get(common.UserIDHeader)
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	userID := strings.TrimSpace(req.UserID)
	if !authorizedFor(c, userID) {
		return forbidden(c)
	}

	resp := h.pipeline.HandleCommand(c.UserContext(), message.UserID(userID), command)
	return c.Status(fiber.StatusOK).JSON(resp)
}
