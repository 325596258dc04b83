package response

import (
	"time"

	"github.com/gokubot/goku/pkg/domain/stats"
)

type UserStatsOutput struct {
	UserID            string    `json:"user_id"`
	TotalTranslations int64     `json:"total_translations"`
	TotalCharacters   int64     `json:"total_characters"`
	FirstSeenAt       time.Time `json:"first_seen_at"`
	AveragePerDay     float64   `json:"average_per_day"`
	DaysActive        int64     `json:"days_active"`
}

func NewUserStatsOutput(s stats.UserStats, d stats.Derived) UserStatsOutput {
	return UserStatsOutput{
		UserID:            string(s.UserID),
		TotalTranslations: s.TotalTranslations,
		TotalCharacters:   s.TotalCharacters,
		FirstSeenAt:       s.FirstSeenAt,
		AveragePerDay:     d.AveragePerDay,
		DaysActive:        d.DaysActive,
	}
}
