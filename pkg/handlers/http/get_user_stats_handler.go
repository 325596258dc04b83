package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	appstats "github.com/gokubot/goku/pkg/app/stats"
	"github.com/gokubot/goku/pkg/domain"
	"github.com/gokubot/goku/pkg/domain/message"
	"github.com/gokubot/goku/pkg/handlers/http/response"
	"github.com/sirupsen/logrus"
)

type getUserStatsHandler struct {
	logger *logrus.Logger
	ledger appstats.Ledger
	clock  func() time.Time
}

func NewGetUserStatsHandler(logger *logrus.Logger, ledger appstats.Ledger, clock func() time.Time) Handler {
	if clock == nil {
		clock = time.Now
	}
	return &getUserStatsHandler{
		logger: logger,
		ledger: ledger,
		clock:  clock,
	}
}

func (h *getUserStatsHandler) Handle(c *fiber.Ctx) error {
	userID := message.UserID(c.Params("user_id"))
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "user_id is required"})
	}
	if !authorizedFor(c, string(userID)) {
		return forbidden(c)
	}

	s, err := h.ledger.Get(userID)
	if err != nil {
		if domain.IsNotFoundError(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": ErrUserNotFound.Error()})
		}
		h.logger.WithError(err).WithField("user_id", userID).Error("failed to get user stats")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to get user stats"})
	}

	return c.Status(fiber.StatusOK).JSON(response.NewUserStatsOutput(s, s.Derive(h.clock())))
}
