// Package scoring holds the static gamification tables: reward amounts,
// action point values, event scoring inputs, level math and badge
// evaluation. Everything here is immutable and pure; unknown keys are
// rejected instead of defaulting.
package scoring

import (
	"math"
	"sort"

	"github.com/volunteerhub/rewards_service/internal/models"
	"github.com/volunteerhub/rewards_service/pkg/errors"
)

// RewardAmount returns the coin value of a daily reward type.
func RewardAmount(rewardType string) (int64, error) {
	switch rewardType {
	case models.RewardDailyQuote:
		return 10, nil
	case models.RewardLoginBonus:
		return 5, nil
	case models.RewardActivityCompletion:
		return 20, nil
	default:
		return 0, errors.New(errors.ErrCodeValidation, "unknown reward type: "+rewardType)
	}
}

// ActionPoints returns the point value of a statically priced action.
// Event participation is priced by EventPoints at approval time and has
// no entry here.
func ActionPoints(actionType string) (int64, error) {
	switch actionType {
	case models.ActionDailyQuote:
		return 5, nil
	case models.ActionProfileCompleted:
		return 10, nil
	case models.ActionDonationMade:
		return 15, nil
	default:
		return 0, errors.New(errors.ErrCodeValidation, "unknown action type: "+actionType)
	}
}

// Event category constants
const (
	CategoryEnvironment = "environment"
	CategoryEducation   = "education"
	CategoryHealth      = "health"
	CategorySocial      = "social"
	CategoryEmergency   = "emergency"
)

// Difficulty level constants
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// BasePoints returns the per-category base value of an approved event.
func BasePoints(category string) (int64, error) {
	switch category {
	case CategoryEnvironment:
		return 20, nil
	case CategoryEducation:
		return 25, nil
	case CategoryHealth:
		return 30, nil
	case CategorySocial:
		return 15, nil
	case CategoryEmergency:
		return 40, nil
	default:
		return 0, errors.New(errors.ErrCodeValidation, "unknown event category: "+category)
	}
}

// DifficultyMultiplier returns the scoring multiplier for a difficulty
// level.
func DifficultyMultiplier(difficulty string) (float64, error) {
	switch difficulty {
	case DifficultyEasy:
		return 1.0, nil
	case DifficultyMedium:
		return 1.5, nil
	case DifficultyHard:
		return 2.0, nil
	default:
		return 0, errors.New(errors.ErrCodeValidation, "unknown difficulty level: "+difficulty)
	}
}

// EventPoints computes the award for an approved event:
// round(basePoints * difficultyMultiplier * (1 + hoursWorked/10)).
func EventPoints(category, difficulty string, hoursWorked int) (int64, error) {
	base, err := BasePoints(category)
	if err != nil {
		return 0, err
	}
	mult, err := DifficultyMultiplier(difficulty)
	if err != nil {
		return 0, err
	}
	if hoursWorked < 0 {
		return 0, errors.New(errors.ErrCodeValidation, "hours worked must not be negative")
	}

	raw := float64(base) * mult * (1 + float64(hoursWorked)/10)
	return int64(math.Round(raw)), nil
}

// Level returns the level for a point total: floor(total/levelSize) + 1.
func Level(totalPoints, levelSize int64) int {
	if levelSize <= 0 {
		return 1
	}
	return int(totalPoints/levelSize) + 1
}

// LevelProgress returns the percentage of the current level completed.
func LevelProgress(totalPoints, levelSize int64) float64 {
	if levelSize <= 0 {
		return 0
	}
	return float64(totalPoints%levelSize) / float64(levelSize) * 100
}

// EvaluateBadges returns the catalog badges whose threshold is crossed by
// totalPoints and which are not yet owned, in ascending threshold order.
// Calling it again with the returned badges marked as owned yields
// nothing, which is what keeps unlocking idempotent.
func EvaluateBadges(catalog []models.Badge, owned map[uint]bool, totalPoints int64) []models.Badge {
	eligible := make([]models.Badge, 0)
	for _, badge := range catalog {
		if badge.PointThreshold <= totalPoints && !owned[badge.ID] {
			eligible = append(eligible, badge)
		}
	}
	sort.Slice(eligible, func(i, j int) bool {
		return eligible[i].PointThreshold < eligible[j].PointThreshold
	})
	return eligible
}
