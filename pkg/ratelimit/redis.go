package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gokubot/goku/pkg/domain/message"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const defaultKeyPrefix = "goku"

type RedisLimiterOpts struct {
	KeyPrefix    string
	UuidProvider func() uuid.UUID
	Logger       *logrus.Logger
}

// RedisLimiter keeps each user's window in a sorted set so that replicas share it.
// Scores are unix milliseconds.
type RedisLimiter struct {
	redis        *redis.Client
	limit        int
	window       time.Duration
	keyPrefix    string
	uuidProvider func() uuid.UUID
	logger       *logrus.Logger
}

func NewRedisLimiter(redisClient *redis.Client, limit int, window time.Duration, opts *RedisLimiterOpts) *RedisLimiter {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}
	l := &RedisLimiter{
		redis:        redisClient,
		limit:        limit,
		window:       window,
		keyPrefix:    defaultKeyPrefix,
		uuidProvider: uuid.New,
		logger:       logrus.StandardLogger(),
	}
	if opts != nil {
		if opts.KeyPrefix != "" {
			l.keyPrefix = opts.KeyPrefix
		}
		if opts.UuidProvider != nil {
			l.uuidProvider = opts.UuidProvider
		}
		if opts.Logger != nil {
			l.logger = opts.Logger
		}
	}
	return l
}

func (l *RedisLimiter) Key(userID message.UserID) string {
	return fmt.Sprintf("ratelimit:%s:%s", l.keyPrefix, userID)
}

// Admit fails open: a redis error admits the request and is logged.
func (l *RedisLimiter) Admit(ctx context.Context, userID message.UserID, now time.Time) bool {
	admitted, err := l.admit(ctx, userID, now)
	if err != nil {
		l.logger.WithFields(logrus.Fields{
			"user_id": userID,
			"error":   err.Error(),
		}).Error("rate limiter backend unavailable, admitting request")
		return true
	}
	return admitted
}

// admit counts then writes in a second round trip. Callers in one process are
// serialized per user; replicas sharing the key can overshoot the limit.
func (l *RedisLimiter) admit(ctx context.Context, userID message.UserID, now time.Time) (bool, error) {
	key := l.Key(userID)
	windowStart := strconv.FormatInt(now.Add(-l.window).UnixMilli(), 10)
	nowScore := now.UnixMilli()

	currentCount, err := l.redis.ZCount(ctx, key, "("+windowStart, strconv.FormatInt(nowScore, 10)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to get window count: %w", err)
	}
	if currentCount >= int64(l.limit) {
		return false, nil
	}

	requestID := fmt.Sprintf("%d:%s", nowScore, l.uuidProvider().String())
	pipe := l.redis.TxPipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", windowStart)
	pipe.ZAdd(ctx, key, &redis.Z{
		Score:  float64(nowScore),
		Member: requestID,
	})
	pipe.Expire(ctx, key, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to execute rate limit pipeline: %w", err)
	}
	return true, nil
}
