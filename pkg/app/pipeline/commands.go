package pipeline

import (
	"context"
	"strings"

	"github.com/gokubot/goku/pkg/domain"
	"github.com/gokubot/goku/pkg/domain/message"
	"github.com/gokubot/goku/pkg/infra/prometheus"
	"github.com/sirupsen/logrus"
)

const (
	CommandStart = "start"
	CommandHelp  = "help"
	CommandStats = "stats"
)

// HandleCommand answers bot commands. Commands never consume rate-limit budget.
func (p *pipeline) HandleCommand(_ context.Context, userID message.UserID, command string) message.Response {
	name := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(command), "/"))
	// telegram appends the bot username in groups: /stats@goku_bot
	if at := strings.IndexByte(name, '@'); at >= 0 {
		name = name[:at]
	}

	resp := message.Response{Kind: message.KindCommand}
	switch name {
	case CommandStart:
		resp.Text = p.replies.Start
	case CommandHelp:
		resp.Text = p.replies.Help
	case CommandStats:
		resp.Text = p.statsReply(userID)
	default:
		p.logger.WithFields(logrus.Fields{
			"user_id": userID,
			"command": command,
		}).Debug(domain.ErrUnknownCommand.Error())
		resp.Text = p.replies.Unknown
		name = "unknown"
	}
	prometheus.ObserveCommand(name)
	return resp
}

func (p *pipeline) statsReply(userID message.UserID) string {
	s, err := p.ledger.Get(userID)
	if err != nil {
		if !domain.IsNotFoundError(err) {
			p.logger.WithFields(logrus.Fields{
				"user_id": userID,
				"error":   err.Error(),
			}).Error("failed to load user stats")
		}
		return p.replies.NoStats
	}
	return p.replies.stats(s, s.Derive(p.clock()))
}
