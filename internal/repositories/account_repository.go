package repositories

import (
	"github.com/google/uuid"
	"github.com/volunteerhub/rewards_service/internal/models"
	"github.com/volunteerhub/rewards_service/pkg/errors"
	"github.com/volunteerhub/rewards_service/pkg/utils"
	"gorm.io/gorm"
)

type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// CreateWithWelcomeBonus creates a new account, its registration bonus
// record and the welcome credit in one transaction. The account starts
// with the bonus already on its balance.
func (r *AccountRepository) CreateWithWelcomeBonus(bonusCoins int64) (*models.Account, error) {
	account := &models.Account{
		PublicID:    utils.GenerateRandomID(8),
		CoinBalance: bonusCoins,
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(account).Error; err != nil {
			return err
		}

		bonus := &models.RegistrationBonus{
			UserID: account.ID,
			Coins:  bonusCoins,
		}
		if err := tx.Create(bonus).Error; err != nil {
			return err
		}

		if bonusCoins > 0 {
			record := &models.CoinTransaction{
				UserID:          account.ID,
				Amount:          bonusCoins,
				TransactionType: models.TxTypeWelcomeBonus,
				Reference:       uuid.NewString(),
				Description:     "registration welcome bonus",
			}
			if err := tx.Create(record).Error; err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		return nil, finishTx(err, "create account")
	}
	return account, nil
}

// GetByID retrieves an account by ID
func (r *AccountRepository) GetByID(id uint) (*models.Account, error) {
	var account models.Account
	result := r.db.First(&account, id)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "account not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get account")
	}

	return &account, nil
}

// GetByPublicID retrieves an account by its public identifier
func (r *AccountRepository) GetByPublicID(publicID string) (*models.Account, error) {
	var account models.Account
	result := r.db.Where("public_id = ?", publicID).First(&account)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "account not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get account")
	}

	return &account, nil
}

// GetBalance retrieves an account's current coin balance
func (r *AccountRepository) GetBalance(userID uint) (int64, error) {
	var account models.Account
	result := r.db.Select("coin_balance").First(&account, userID)

	if result.Error == gorm.ErrRecordNotFound {
		return 0, errors.New(errors.ErrCodeNotFound, "account not found")
	}
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get balance")
	}

	return account.CoinBalance, nil
}
