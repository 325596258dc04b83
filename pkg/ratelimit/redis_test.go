package ratelimit_test

import (
	"context"
	"errors"
	"io"
	"strconv"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redismock/v8"
	"github.com/gokubot/goku/pkg/ratelimit"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestRedisLimiter_Key(t *testing.T) {
	redisMock, _ := redismock.NewClientMock()
	limiter := ratelimit.NewRedisLimiter(redisMock, 20, time.Minute, &ratelimit.RedisLimiterOpts{KeyPrefix: "test"})
	assert.Equal(t, "ratelimit:test:12345", limiter.Key("12345"))
}

func TestRedisLimiter_Admit_BelowLimit(t *testing.T) {
	redisMock, mock := redismock.NewClientMock()
	mock.MatchExpectationsInOrder(false)

	testKey := "ratelimit:goku:user123"
	testWindow := time.Minute
	fixedTime := time.Unix(1740730536, 0)
	windowStart := strconv.FormatInt(fixedTime.Add(-testWindow).UnixMilli(), 10)
	nowScore := fixedTime.UnixMilli()
	fixedUUID := uuid.MustParse("22222222-2222-2222-2222-222222222222")

	mock.ExpectZCount(testKey, "("+windowStart, strconv.FormatInt(nowScore, 10)).SetVal(5)
	mock.ExpectTxPipeline()
	mock.ExpectZRemRangeByScore(testKey, "0", windowStart).SetVal(1)
	mock.ExpectZAdd(testKey, &redis.Z{
		Score:  float64(nowScore),
		Member: strconv.FormatInt(nowScore, 10) + ":" + fixedUUID.String(),
	}).SetVal(1)
	mock.ExpectExpire(testKey, testWindow).SetVal(true)
	mock.ExpectTxPipelineExec()

	limiter := ratelimit.NewRedisLimiter(redisMock, 20, testWindow, &ratelimit.RedisLimiterOpts{
		UuidProvider: func() uuid.UUID { return fixedUUID },
		Logger:       quietLogger(),
	})

	assert.True(t, limiter.Admit(context.Background(), "user123", fixedTime))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisLimiter_Admit_LimitExceeded(t *testing.T) {
	redisMock, mock := redismock.NewClientMock()

	testKey := "ratelimit:goku:user123"
	testWindow := time.Minute
	fixedTime := time.Unix(1740730536, 0)
	windowStart := strconv.FormatInt(fixedTime.Add(-testWindow).UnixMilli(), 10)

	mock.ExpectZCount(testKey, "("+windowStart, strconv.FormatInt(fixedTime.UnixMilli(), 10)).SetVal(20)

	limiter := ratelimit.NewRedisLimiter(redisMock, 20, testWindow, &ratelimit.RedisLimiterOpts{Logger: quietLogger()})

	assert.False(t, limiter.Admit(context.Background(), "user123", fixedTime))
	// a rejected attempt must not write to the window
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisLimiter_Admit_FailsOpen(t *testing.T) {
	redisMock, mock := redismock.NewClientMock()

	testKey := "ratelimit:goku:user123"
	fixedTime := time.Unix(1740730536, 0)
	windowStart := strconv.FormatInt(fixedTime.Add(-time.Minute).UnixMilli(), 10)

	mock.ExpectZCount(testKey, "("+windowStart, strconv.FormatInt(fixedTime.UnixMilli(), 10)).
		SetErr(errors.New("connection refused"))

	limiter := ratelimit.NewRedisLimiter(redisMock, 20, time.Minute, &ratelimit.RedisLimiterOpts{Logger: quietLogger()})

	assert.True(t, limiter.Admit(context.Background(), "user123", fixedTime))
}
