package services

import (
	"time"

	"github.com/volunteerhub/rewards_service/internal/models"
)

// claimDateSource is the slice of the claim store the streak calculator
// needs: just the dates, newest first.
type claimDateSource interface {
	DatesByType(userID uint, rewardType string, limit int) ([]string, error)
}

// StreakService computes consecutive-day claim counts. It is read-only
// and may observe a slightly stale view under concurrent claims, which
// is fine for a display statistic.
type StreakService struct {
	claims  claimDateSource
	capDays int
	now     func() time.Time
}

func NewStreakService(claims claimDateSource, capDays int) *StreakService {
	return &StreakService{
		claims:  claims,
		capDays: capDays,
		now:     time.Now,
	}
}

// ComputeStreak returns the number of consecutive calendar days ending
// today (UTC) with a daily_quote claim. Zero when today has no claim.
func (s *StreakService) ComputeStreak(userID uint) (int, error) {
	dates, err := s.claims.DatesByType(userID, models.RewardDailyQuote, s.capDays)
	if err != nil {
		return 0, err
	}
	return countConsecutiveDays(dates, models.DateOf(s.now()), s.capDays), nil
}

// countConsecutiveDays walks backwards from today through the claimed
// dates until it hits a gap or the cap.
func countConsecutiveDays(dates []string, today string, capDays int) int {
	claimed := make(map[string]bool, len(dates))
	for _, date := range dates {
		claimed[date] = true
	}

	streak := 0
	day := today
	for streak < capDays && claimed[day] {
		streak++
		day = models.PreviousDate(day)
	}
	return streak
}
