package pipeline

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gokubot/goku/pkg/app/routing"
	appstats "github.com/gokubot/goku/pkg/app/stats"
	"github.com/gokubot/goku/pkg/common/keyedmutex"
	"github.com/gokubot/goku/pkg/domain"
	"github.com/gokubot/goku/pkg/domain/message"
	"github.com/gokubot/goku/pkg/domain/oracle"
	"github.com/gokubot/goku/pkg/infra/prometheus"
	"github.com/gokubot/goku/pkg/ratelimit"
	"github.com/sirupsen/logrus"
)

type Pipeline interface {
	Handle(ctx context.Context, msg message.Inbound) message.Response
	HandleCommand(ctx context.Context, userID message.UserID, command string) message.Response
}

type Config struct {
	BotName string
	Replies Replies
	Clock   func() time.Time
}

type pipeline struct {
	limiter   ratelimit.Limiter
	router    routing.LanguageRouter
	oracle    oracle.Client
	ledger    appstats.Ledger
	sequencer *keyedmutex.KeyedMutex
	logger    *logrus.Logger
	botName   string
	replies   Replies
	clock     func() time.Time
}

func NewPipeline(
	cfg Config,
	limiter ratelimit.Limiter,
	router routing.LanguageRouter,
	oracleClient oracle.Client,
	ledger appstats.Ledger,
	logger *logrus.Logger,
) Pipeline {
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &pipeline{
		limiter:   limiter,
		router:    router,
		oracle:    oracleClient,
		ledger:    ledger,
		sequencer: keyedmutex.New(),
		logger:    logger,
		botName:   cfg.BotName,
		replies:   cfg.Replies.merged(),
		clock:     clock,
	}
}

func (p *pipeline) Handle(ctx context.Context, msg message.Inbound) (resp message.Response) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.WithFields(logrus.Fields{
				"user_id":    msg.UserID,
				"message_id": msg.ID,
				"panic":      fmt.Sprint(r),
				"stack":      string(debug.Stack()),
			}).Error(domain.ErrInvariantViolation.Error())
			resp = p.respond(msg, message.Response{Kind: message.KindFailure, Text: p.replies.Failure})
		}
	}()

	// blank input never reaches per-user state
	if msg.IsBlank() {
		return p.respond(msg, message.Response{Kind: message.KindIgnored, Classification: message.Unrecognized})
	}

	unlock, err := p.sequencer.Lock(ctx, string(msg.UserID))
	if err != nil {
		p.logger.WithFields(logrus.Fields{
			"user_id": msg.UserID,
			"error":   err.Error(),
		}).Warn("message abandoned while waiting for earlier messages of the same user")
		return p.respond(msg, message.Response{Kind: message.KindFailure, Text: p.replies.Failure})
	}
	defer unlock()

	now := p.clock()
	if !p.limiter.Admit(ctx, msg.UserID, now) {
		p.logger.WithFields(logrus.Fields{
			"user_id": msg.UserID,
		}).Info(domain.ErrRateLimitExceeded.Error())
		return p.respond(msg, message.Response{Kind: message.KindRateLimited, Text: p.replies.RateLimited})
	}

	botName := msg.BotName
	if botName == "" {
		botName = p.botName
	}
	cls := p.router.Classify(msg.Text, botName)

	switch {
	case cls.Kind.IsInteractive():
		return p.respond(msg, message.Response{
			Kind:           message.KindInteractive,
			Text:           p.replies.interactive(cls.Kind),
			Classification: cls.Kind,
		})
	case cls.Kind.IsDirection():
		return p.respond(msg, p.translate(ctx, msg, cls, now))
	default:
		return p.respond(msg, message.Response{Kind: message.KindIgnored, Classification: message.Unrecognized})
	}
}

func (p *pipeline) translate(
	ctx context.Context,
	msg message.Inbound,
	cls routing.Classification,
	now time.Time,
) message.Response {
	req := oracle.Request{
		SourceText: cls.Remainder,
		SourceLang: cls.SourceLang,
		TargetLang: cls.TargetLang,
	}

	start := time.Now()
	res, err := p.oracle.Translate(ctx, req)
	if err != nil {
		kind := oracle.KindOf(err)
		prometheus.ObserveOracle(time.Since(start), string(kind))
		p.logger.WithFields(logrus.Fields{
			"user_id":     msg.UserID,
			"message_id":  msg.ID,
			"source_lang": req.SourceLang,
			"kind":        kind,
			"error":       err.Error(),
		}).Error("translation failed")
		return message.Response{
			Kind:           message.KindFailure,
			Text:           p.replies.failure(kind),
			Classification: cls.Kind,
		}
	}
	prometheus.ObserveOracle(time.Since(start), "")
	if res == nil || strings.TrimSpace(res.TranslatedText) == "" {
		p.logger.WithFields(logrus.Fields{
			"user_id":    msg.UserID,
			"message_id": msg.ID,
		}).Error("oracle returned an empty result without error")
		return message.Response{Kind: message.KindFailure, Text: p.replies.Failure, Classification: cls.Kind}
	}

	chars := utf8.RuneCountInString(req.SourceText)
	if err := p.ledger.Record(msg.UserID, chars, now); err != nil {
		p.logger.WithFields(logrus.Fields{
			"user_id": msg.UserID,
			"error":   err.Error(),
		}).Error("failed to record usage")
	}
	prometheus.ObserveCharacters(chars)

	detected := res.DetectedLanguage
	if detected == "" {
		detected = req.SourceLang
	}
	return message.Response{
		Kind:             message.KindTranslation,
		Text:             p.replies.translation(req.SourceText, res),
		Classification:   cls.Kind,
		DetectedLanguage: detected,
		CorrectedText:    res.CorrectedText,
	}
}

func (p *pipeline) respond(msg message.Inbound, resp message.Response) message.Response {
	resp.MessageID = msg.ID
	classification := string(resp.Classification)
	if classification == "" {
		classification = "none"
	}
	prometheus.ObserveMessage(string(resp.Kind), classification)
	return resp
}
