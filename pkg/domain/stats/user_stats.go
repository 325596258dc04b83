package stats

import (
	"time"

	"github.com/gokubot/goku/pkg/domain/message"
)

const day = 24 * time.Hour

type UserStats struct {
	UserID            message.UserID `json:"user_id"`
	TotalTranslations int64          `json:"total_translations"`
	TotalCharacters   int64          `json:"total_characters"`
	FirstSeenAt       time.Time      `json:"first_seen_at"`
}

type Derived struct {
	AveragePerDay float64 `json:"average_per_day"`
	DaysActive    int64   `json:"days_active"`
}

// DaysSince counts whole days elapsed between FirstSeenAt and now, never less than one.
func (s UserStats) DaysSince(now time.Time) int64 {
	days := int64(now.Sub(s.FirstSeenAt) / day)
	if days < 1 {
		return 1
	}
	return days
}

func (s UserStats) Derive(now time.Time) Derived {
	days := s.DaysSince(now)
	return Derived{
		AveragePerDay: float64(s.TotalTranslations) / float64(days),
		DaysActive:    days,
	}
}
