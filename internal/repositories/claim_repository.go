package repositories

import (
	stderrors "errors"

	"github.com/volunteerhub/rewards_service/internal/models"
	"github.com/volunteerhub/rewards_service/pkg/errors"
	"gorm.io/gorm"
)

type ClaimRepository struct {
	db *gorm.DB
}

func NewClaimRepository(db *gorm.DB) *ClaimRepository {
	return &ClaimRepository{db: db}
}

// CreateWithCredit inserts the claim record and credits the account in a
// single transaction. The unique index on (user_id, claim_date,
// reward_type) is the only duplicate check: when it fires the whole
// transaction rolls back and the caller gets ALREADY_CLAIMED. A claim
// record never survives without its credit, nor the other way around.
func (r *ClaimRepository) CreateWithCredit(userID uint, date, rewardType string, coins int64) (int64, error) {
	var newBalance int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		claim := &models.ClaimRecord{
			UserID:     userID,
			ClaimDate:  date,
			RewardType: rewardType,
			Coins:      coins,
		}
		if err := tx.Create(claim).Error; err != nil {
			if stderrors.Is(err, gorm.ErrDuplicatedKey) {
				return errors.New(errors.ErrCodeAlreadyClaimed,
					"reward already claimed for "+date)
			}
			return err
		}

		account, err := lockAccount(tx, userID)
		if err != nil {
			return err
		}

		newBalance = account.CoinBalance + coins
		if err := tx.Model(account).Update("coin_balance", newBalance).Error; err != nil {
			return err
		}

		return createTransaction(tx, userID, coins, models.TxTypeDailyReward,
			rewardType+" reward for "+date)
	})

	return newBalance, finishTx(err, "create claim")
}

// DatesByType returns the distinct claim dates of one reward type,
// newest first, capped at limit. Used by the streak calculator.
func (r *ClaimRepository) DatesByType(userID uint, rewardType string, limit int) ([]string, error) {
	var dates []string
	err := r.db.Model(&models.ClaimRecord{}).
		Where("user_id = ? AND reward_type = ?", userID, rewardType).
		Order("claim_date DESC").
		Limit(limit).
		Pluck("claim_date", &dates).Error
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get claim dates")
	}
	return dates, nil
}

// ClaimsOnDate returns all of a user's claims for one calendar date.
func (r *ClaimRepository) ClaimsOnDate(userID uint, date string) ([]models.ClaimRecord, error) {
	var claims []models.ClaimRecord
	err := r.db.Where("user_id = ? AND claim_date = ?", userID, date).
		Order("created_at ASC").
		Find(&claims).Error
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get claims for date")
	}
	return claims, nil
}
