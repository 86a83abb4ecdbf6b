package repositories

import (
	"github.com/volunteerhub/rewards_service/internal/models"
	"github.com/volunteerhub/rewards_service/internal/scoring"
	"github.com/volunteerhub/rewards_service/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PointsRepository struct {
	db *gorm.DB
}

func NewPointsRepository(db *gorm.DB) *PointsRepository {
	return &PointsRepository{db: db}
}

// AwardResult carries the state after an AddPoints call. Duplicate is set
// when the (actionType, referenceID) pair had already been rewarded; in
// that case nothing was mutated and the remaining fields reflect the
// current state.
type AwardResult struct {
	TotalPoints   int64
	NewlyUnlocked []models.Badge
	AllBadges     []models.Badge
	Duplicate     bool
}

// AddPoints rewards an action once: insert the PointAward (the unique
// index rejects repeats), bump the account's total and unlock any newly
// crossed badges, all in one transaction. Duplicate probes go through
// ON CONFLICT DO NOTHING; a rejected plain insert would abort the whole
// Postgres transaction and every later statement in it.
func (r *PointsRepository) AddPoints(userID uint, actionType, referenceID string, points int64) (*AwardResult, error) {
	if points <= 0 {
		return nil, errors.New(errors.ErrCodeValidation, "points must be positive")
	}
	if referenceID == "" {
		return nil, errors.New(errors.ErrCodeValidation, "reference id must not be empty")
	}

	result := &AwardResult{}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		award := &models.PointAward{
			UserID:      userID,
			ActionType:  actionType,
			ReferenceID: referenceID,
			Points:      points,
		}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(award)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Already rewarded: report current state, mutate nothing.
			result.Duplicate = true
			return r.loadState(tx, userID, result)
		}

		account, err := lockAccount(tx, userID)
		if err != nil {
			return err
		}

		result.TotalPoints = account.TotalPoints + points
		if err := tx.Model(account).Update("total_points", result.TotalPoints).Error; err != nil {
			return err
		}

		catalog, err := catalogBadges(tx)
		if err != nil {
			return err
		}
		owned, err := ownedBadgeSet(tx, userID)
		if err != nil {
			return err
		}

		for _, badge := range scoring.EvaluateBadges(catalog, owned, result.TotalPoints) {
			userBadge := &models.UserBadge{UserID: userID, BadgeID: badge.ID}
			grant := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(userBadge)
			if grant.Error != nil {
				return grant.Error
			}
			if grant.RowsAffected == 0 {
				// A concurrent award unlocked it first.
				continue
			}
			result.NewlyUnlocked = append(result.NewlyUnlocked, badge)
		}

		return r.loadOwned(tx, userID, result)
	})

	if err != nil {
		return nil, finishTx(err, "add points")
	}
	return result, nil
}

// loadState fills result with the user's current totals and badges.
func (r *PointsRepository) loadState(tx *gorm.DB, userID uint, result *AwardResult) error {
	var account models.Account
	if err := tx.First(&account, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.New(errors.ErrCodeNotFound, "account not found")
		}
		return err
	}
	result.TotalPoints = account.TotalPoints
	return r.loadOwned(tx, userID, result)
}

func (r *PointsRepository) loadOwned(tx *gorm.DB, userID uint, result *AwardResult) error {
	badges, err := ownedBadges(tx, userID)
	if err != nil {
		return err
	}
	result.AllBadges = badges
	return nil
}

// Catalog returns the full badge catalog in ascending threshold order.
func (r *PointsRepository) Catalog() ([]models.Badge, error) {
	badges, err := catalogBadges(r.db)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get badge catalog")
	}
	return badges, nil
}

// OwnedBadges returns the badges owned by a user.
func (r *PointsRepository) OwnedBadges(userID uint) ([]models.Badge, error) {
	badges, err := ownedBadges(r.db, userID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get owned badges")
	}
	return badges, nil
}

// BadgeCount returns how many badges a user owns.
func (r *PointsRepository) BadgeCount(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.UserBadge{}).Where("user_id = ?", userID).Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeInternalError, "failed to count badges")
	}
	return count, nil
}

func catalogBadges(tx *gorm.DB) ([]models.Badge, error) {
	var badges []models.Badge
	err := tx.Order("point_threshold ASC").Find(&badges).Error
	return badges, err
}

func ownedBadgeSet(tx *gorm.DB, userID uint) (map[uint]bool, error) {
	var badgeIDs []uint
	err := tx.Model(&models.UserBadge{}).
		Where("user_id = ?", userID).
		Pluck("badge_id", &badgeIDs).Error
	if err != nil {
		return nil, err
	}

	owned := make(map[uint]bool, len(badgeIDs))
	for _, id := range badgeIDs {
		owned[id] = true
	}
	return owned, nil
}

func ownedBadges(tx *gorm.DB, userID uint) ([]models.Badge, error) {
	var badges []models.Badge
	err := tx.
		Joins("JOIN user_badges ON user_badges.badge_id = badges.id").
		Where("user_badges.user_id = ?", userID).
		Order("badges.point_threshold ASC").
		Find(&badges).Error
	return badges, err
}
