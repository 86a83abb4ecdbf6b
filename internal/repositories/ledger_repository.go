package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/volunteerhub/rewards_service/internal/models"
	"github.com/volunteerhub/rewards_service/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LedgerRepository owns every balance mutation. A balance never changes
// without its CoinTransaction record landing in the same transaction.
type LedgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// Credit adds coins to an account and records the transaction as a single
// unit. Returns the new balance.
func (r *LedgerRepository) Credit(userID uint, amount int64, txType, description string) (int64, error) {
	if amount <= 0 {
		return 0, errors.New(errors.ErrCodeValidation, "credit amount must be positive")
	}

	var newBalance int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		account, err := lockAccount(tx, userID)
		if err != nil {
			return err
		}

		newBalance = account.CoinBalance + amount
		if err := tx.Model(account).Update("coin_balance", newBalance).Error; err != nil {
			return err
		}

		return createTransaction(tx, userID, amount, txType, description)
	})

	return newBalance, finishTx(err, "credit account")
}

// Debit removes coins from an account, failing before any mutation when
// the balance does not cover the amount.
func (r *LedgerRepository) Debit(userID uint, amount int64, txType, description string) (int64, error) {
	if amount <= 0 {
		return 0, errors.New(errors.ErrCodeValidation, "debit amount must be positive")
	}

	var newBalance int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		account, err := lockAccount(tx, userID)
		if err != nil {
			return err
		}

		if account.CoinBalance < amount {
			return errors.New(errors.ErrCodeInsufficientFunds,
				fmt.Sprintf("insufficient coins: have %d, need %d", account.CoinBalance, amount))
		}

		newBalance = account.CoinBalance - amount
		if err := tx.Model(account).Update("coin_balance", newBalance).Error; err != nil {
			return err
		}

		return createTransaction(tx, userID, -amount, txType, description)
	})

	return newBalance, finishTx(err, "debit account")
}

// TotalEarned sums all credit records for an account.
func (r *LedgerRepository) TotalEarned(userID uint) (int64, error) {
	var total int64
	err := r.db.Model(&models.CoinTransaction{}).
		Where("user_id = ? AND amount > 0", userID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeInternalError, "failed to sum earned coins")
	}
	return total, nil
}

// History returns the most recent ledger records for an account.
func (r *LedgerRepository) History(userID uint, limit int) ([]models.CoinTransaction, error) {
	var transactions []models.CoinTransaction
	result := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&transactions)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get transaction history")
	}

	return transactions, nil
}

// lockAccount loads an account row under FOR UPDATE so concurrent balance
// mutations for the same account serialize.
func lockAccount(tx *gorm.DB, userID uint) (*models.Account, error) {
	var account models.Account
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&account, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New(errors.ErrCodeNotFound, "account not found")
		}
		return nil, err
	}
	return &account, nil
}

func createTransaction(tx *gorm.DB, userID uint, amount int64, txType, description string) error {
	record := &models.CoinTransaction{
		UserID:          userID,
		Amount:          amount,
		TransactionType: txType,
		Reference:       uuid.NewString(),
		Description:     description,
	}
	return tx.Create(record).Error
}
