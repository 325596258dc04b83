package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/gokubot/goku/pkg/domain/message"
)

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"

	DefaultLimit  = 20
	DefaultWindow = 60 * time.Second
)

// Limiter admits or rejects a user's request against a sliding window.
// Rejected attempts are never recorded.
type Limiter interface {
	Admit(ctx context.Context, userID message.UserID, now time.Time) bool
}

type Config struct {
	Backend   string        `mapstructure:"backend"`
	Limit     int           `mapstructure:"limit"`
	Window    time.Duration `mapstructure:"window"`
	KeyPrefix string        `mapstructure:"key_prefix"`
}

func (c Config) Validate() error {
	if c.Limit <= 0 {
		return fmt.Errorf("rate limiter requires positive 'limit' value, got %d", c.Limit)
	}
	if c.Window <= 0 {
		return fmt.Errorf("rate limiter requires positive 'window', got %s", c.Window)
	}
	switch c.Backend {
	case "", BackendMemory, BackendRedis:
	default:
		return fmt.Errorf("rate limiter backend must be '%s' or '%s'", BackendMemory, BackendRedis)
	}
	return nil
}

// purge keeps the timestamps strictly newer than now-window.
func purge(stamps []time.Time, now time.Time, window time.Duration) []time.Time {
	cutoff := now.Add(-window)
	kept := stamps[:0]
	for _, ts := range stamps {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	return kept
}
