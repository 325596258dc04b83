package oracle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gokubot/goku/pkg/domain/message"
	"github.com/gokubot/goku/pkg/domain/oracle"
	"github.com/gokubot/goku/pkg/infra/httpx"
	"github.com/gokubot/goku/pkg/infra/providers"
	"github.com/sirupsen/logrus"
)

const (
	DefaultBreakerTimeout     = 30 * time.Second
	DefaultBreakerMaxFailures = 5
)

type Config struct {
	Provider           string        `mapstructure:"provider"`
	Model              string        `mapstructure:"model"`
	APIKey             string        `mapstructure:"api_key"`
	Timeout            time.Duration `mapstructure:"timeout"`
	Temperature        float64       `mapstructure:"temperature"`
	MaxTokens          int           `mapstructure:"max_tokens"`
	BreakerTimeout     time.Duration `mapstructure:"breaker_timeout"`
	BreakerMaxFailures uint32        `mapstructure:"breaker_max_failures"`
}

type client struct {
	provider providers.Client
	cfg      Config
	breaker  httpx.CircuitBreaker
	logger   *logrus.Logger
}

// NewClient adapts a completion provider to the translation oracle contract.
// Every call goes through breaker and is bounded by cfg.Timeout.
func NewClient(
	provider providers.Client,
	cfg Config,
	breaker httpx.CircuitBreaker,
	logger *logrus.Logger,
) oracle.Client {
	if breaker == nil {
		breaker = httpx.NewCircuitBreakerWithLogger("oracle", DefaultBreakerTimeout, DefaultBreakerMaxFailures, logger)
	}
	return &client{
		provider: provider,
		cfg:      cfg,
		breaker:  breaker,
		logger:   logger,
	}
}

func (c *client) Translate(ctx context.Context, req oracle.Request) (*oracle.Result, error) {
	if strings.TrimSpace(req.SourceText) == "" {
		return nil, oracle.NewError(oracle.KindMalformed, errors.New("empty source text"))
	}
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	providerCfg := &providers.Config{
		Credentials:  providers.Credentials{ApiKey: c.cfg.APIKey},
		Model:        c.cfg.Model,
		MaxTokens:    c.cfg.MaxTokens,
		Temperature:  c.cfg.Temperature,
		SystemPrompt: systemPrompt,
		Instructions: instructions,
	}
	prompt := BuildPrompt(req)

	start := time.Now()
	var resp *providers.CompletionResponse
	err := c.breaker.Execute(func() error {
		r, err := c.provider.Ask(ctx, providerCfg, prompt)
		if err != nil {
			return err
		}
		resp = r
		return nil
	})
	if err != nil {
		oerr := classify(ctx, err)
		c.logger.WithFields(logrus.Fields{
			"provider": c.cfg.Provider,
			"kind":     oerr.Kind,
			"duration": time.Since(start).String(),
			"error":    err.Error(),
		}).Error("oracle call failed")
		return nil, oerr
	}
	if resp == nil {
		return nil, oracle.NewError(oracle.KindMalformed, errors.New("empty completion"))
	}

	result, err := ParseReply(resp.Response, req)
	if err != nil {
		c.logger.WithFields(logrus.Fields{
			"provider": c.cfg.Provider,
			"model":    resp.Model,
			"error":    err.Error(),
		}).Warn("oracle returned a malformed reply")
		return nil, err
	}

	c.logger.WithFields(logrus.Fields{
		"provider":          c.cfg.Provider,
		"model":             resp.Model,
		"source_lang":       req.SourceLang,
		"target_lang":       req.TargetLang,
		"prompt_tokens":     resp.Usage.PromptTokens,
		"completion_tokens": resp.Usage.CompletionTokens,
		"duration":          time.Since(start).String(),
	}).Debug("oracle call succeeded")
	return result, nil
}

var quotaMarkers = []string{"429", "quota", "resource_exhausted", "rate limit", "too many requests"}

func classify(ctx context.Context, err error) *oracle.Error {
	var oerr *oracle.Error
	if errors.As(err, &oerr) {
		return oerr
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(ctx.Err(), context.DeadlineExceeded):
		return oracle.NewError(oracle.KindTimeout, err)
	case errors.Is(err, context.Canceled), errors.Is(ctx.Err(), context.Canceled):
		return oracle.NewError(oracle.KindTimeout, err)
	case httpx.IsOpen(err):
		return oracle.NewError(oracle.KindUnavailable, err)
	}
	lower := strings.ToLower(err.Error())
	for _, m := range quotaMarkers {
		if strings.Contains(lower, m) {
			return oracle.NewError(oracle.KindQuota, err)
		}
	}
	return oracle.NewError(oracle.KindNetwork, fmt.Errorf("provider call: %w", err))
}

func languageName(lang message.Language) string {
	switch lang {
	case message.LanguageArabic:
		return "Arabic"
	case message.LanguageFrench:
		return "French"
	default:
		return string(lang)
	}
}
