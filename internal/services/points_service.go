package services

import (
	"strconv"

	"github.com/volunteerhub/rewards_service/internal/models"
	"github.com/volunteerhub/rewards_service/internal/repositories"
	"github.com/volunteerhub/rewards_service/internal/scoring"
	"github.com/volunteerhub/rewards_service/pkg/logger"
	"github.com/volunteerhub/rewards_service/pkg/metrics"
)

type awardStore interface {
	AddPoints(userID uint, actionType, referenceID string, points int64) (*repositories.AwardResult, error)
	Catalog() ([]models.Badge, error)
	OwnedBadges(userID uint) ([]models.Badge, error)
}

// PointsService resolves point values and applies them through the award
// store. All dedup and badge idempotence lives in the store's atomic
// operation; this layer adds pricing, level math and the retry policy.
type PointsService struct {
	awards    awardStore
	metrics   *metrics.Manager
	levelSize int64
}

func NewPointsService(awards awardStore, m *metrics.Manager, levelSize int64) *PointsService {
	return &PointsService{
		awards:    awards,
		metrics:   m,
		levelSize: levelSize,
	}
}

// ProgressResult is the state returned after an earn operation.
type ProgressResult struct {
	TotalPoints     int64
	Level           int
	ProgressPercent float64
	NewlyUnlocked   []models.Badge
	AllBadges       []models.Badge
	AlreadyRewarded bool
}

// EarnPoints rewards a statically priced action once per (actionType,
// referenceID). A repeat call is a no-op returning the current state.
func (s *PointsService) EarnPoints(userID uint, actionType, referenceID string) (*ProgressResult, error) {
	points, err := scoring.ActionPoints(actionType)
	if err != nil {
		return nil, err
	}
	return s.award(userID, actionType, referenceID, points)
}

// AwardEventPoints rewards participation in an approved event with the
// value computed at approval time. The event id is the dedup reference,
// so re-driving an approval never double-awards.
func (s *PointsService) AwardEventPoints(userID, eventID uint, points int64) (*ProgressResult, error) {
	referenceID := strconv.FormatUint(uint64(eventID), 10)
	return s.award(userID, models.ActionEventParticipation, referenceID, points)
}

// BadgeCollection pairs the full catalog with the badges a user owns,
// both in ascending threshold order.
type BadgeCollection struct {
	Catalog []models.Badge
	Owned   []models.Badge
}

// GetBadgeCollection returns the badge catalog alongside the user's
// owned badges, for the badge gallery view.
func (s *PointsService) GetBadgeCollection(userID uint) (*BadgeCollection, error) {
	catalog, err := s.awards.Catalog()
	if err != nil {
		return nil, err
	}
	owned, err := s.awards.OwnedBadges(userID)
	if err != nil {
		return nil, err
	}
	return &BadgeCollection{Catalog: catalog, Owned: owned}, nil
}

func (s *PointsService) award(userID uint, actionType, referenceID string, points int64) (*ProgressResult, error) {
	state, err := withRetry(s.metrics, "award points", func() (*repositories.AwardResult, error) {
		return s.awards.AddPoints(userID, actionType, referenceID, points)
	})
	if err != nil {
		return nil, err
	}

	if !state.Duplicate {
		if s.metrics != nil {
			s.metrics.PointsAwarded.Add(float64(points))
			s.metrics.BadgesUnlocked.Add(float64(len(state.NewlyUnlocked)))
		}
		logger.Info("Points awarded", "user_id", userID, "action", actionType,
			"reference", referenceID, "points", points, "total", state.TotalPoints)
	}

	return &ProgressResult{
		TotalPoints:     state.TotalPoints,
		Level:           scoring.Level(state.TotalPoints, s.levelSize),
		ProgressPercent: scoring.LevelProgress(state.TotalPoints, s.levelSize),
		NewlyUnlocked:   state.NewlyUnlocked,
		AllBadges:       state.AllBadges,
		AlreadyRewarded: state.Duplicate,
	}, nil
}
