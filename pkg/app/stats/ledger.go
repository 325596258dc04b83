package stats

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gokubot/goku/pkg/domain"
	"github.com/gokubot/goku/pkg/domain/message"
	"github.com/gokubot/goku/pkg/domain/stats"
	"github.com/sirupsen/logrus"
)

const entityUserStats = "user_stats"

type Ledger interface {
	Record(userID message.UserID, characterCount int, now time.Time) error
	Get(userID message.UserID) (stats.UserStats, error)
	Derive(userID message.UserID, now time.Time) (stats.Derived, error)
	Snapshot() []stats.UserStats
	Count() int
}

type record struct {
	mu    sync.Mutex
	stats stats.UserStats
}

type ledger struct {
	logger  *logrus.Logger
	records sync.Map
	count   atomic.Int64
}

func NewLedger(logger *logrus.Logger) Ledger {
	return &ledger{logger: logger}
}

func (l *ledger) Record(userID message.UserID, characterCount int, now time.Time) error {
	if characterCount < 0 {
		err := fmt.Errorf("%w: negative character count %d for user %s",
			domain.ErrInvariantViolation, characterCount, userID)
		l.logger.WithFields(logrus.Fields{
			"user_id":         userID,
			"character_count": characterCount,
		}).Error(err.Error())
		return err
	}

	fresh := &record{stats: stats.UserStats{UserID: userID, FirstSeenAt: now}}
	v, loaded := l.records.LoadOrStore(userID, fresh)
	if !loaded {
		l.count.Add(1)
	}
	rec, ok := v.(*record)
	if !ok {
		return fmt.Errorf("%w: unexpected record type %T", domain.ErrInvariantViolation, v)
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.stats.TotalTranslations++
	rec.stats.TotalCharacters += int64(characterCount)
	return nil
}

func (l *ledger) Get(userID message.UserID) (stats.UserStats, error) {
	v, ok := l.records.Load(userID)
	if !ok {
		return stats.UserStats{}, domain.NewNotFoundError(entityUserStats, string(userID))
	}
	rec, ok := v.(*record)
	if !ok {
		return stats.UserStats{}, domain.NewNotFoundError(entityUserStats, string(userID))
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return rec.stats, nil
}

func (l *ledger) Derive(userID message.UserID, now time.Time) (stats.Derived, error) {
	s, err := l.Get(userID)
	if err != nil {
		return stats.Derived{}, err
	}
	return s.Derive(now), nil
}

func (l *ledger) Snapshot() []stats.UserStats {
	var out []stats.UserStats
	l.records.Range(func(_, value any) bool {
		if rec, ok := value.(*record); ok {
			rec.mu.Lock()
			out = append(out, rec.stats)
			rec.mu.Unlock()
		}
		return true
	})
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out
}

func (l *ledger) Count() int {
	return int(l.count.Load())
}
