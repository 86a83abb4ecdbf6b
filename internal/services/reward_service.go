package services

import (
	"time"

	"github.com/volunteerhub/rewards_service/internal/models"
	"github.com/volunteerhub/rewards_service/internal/scoring"
	"github.com/volunteerhub/rewards_service/internal/security"
	"github.com/volunteerhub/rewards_service/pkg/errors"
	"github.com/volunteerhub/rewards_service/pkg/logger"
	"github.com/volunteerhub/rewards_service/pkg/metrics"
)

type claimStore interface {
	CreateWithCredit(userID uint, date, rewardType string, coins int64) (int64, error)
	ClaimsOnDate(userID uint, date string) ([]models.ClaimRecord, error)
}

type ledgerStore interface {
	Debit(userID uint, amount int64, txType, description string) (int64, error)
	TotalEarned(userID uint) (int64, error)
	History(userID uint, limit int) ([]models.CoinTransaction, error)
}

type balanceSource interface {
	GetBalance(userID uint) (int64, error)
}

type badgeCounter interface {
	BadgeCount(userID uint) (int64, error)
}

// RewardService owns the daily claim flow, coin spending and the reward
// statistics read model.
type RewardService struct {
	claims   claimStore
	ledger   ledgerStore
	accounts balanceSource
	badges   badgeCounter
	streaks  *StreakService
	metrics  *metrics.Manager
	maxSpend int64
	now      func() time.Time
}

func NewRewardService(claims claimStore, ledger ledgerStore, accounts balanceSource,
	badges badgeCounter, streaks *StreakService, m *metrics.Manager, maxSpend int64) *RewardService {
	return &RewardService{
		claims:   claims,
		ledger:   ledger,
		accounts: accounts,
		badges:   badges,
		streaks:  streaks,
		metrics:  m,
		maxSpend: maxSpend,
		now:      time.Now,
	}
}

// ClaimResult is what a successful daily claim returns.
type ClaimResult struct {
	CoinsAwarded int64
	NewBalance   int64
	Date         string
}

// RewardStats is the aggregate read model behind the rewards screen.
type RewardStats struct {
	ActiveBalance int64
	TotalEarned   int64
	TotalSpent    int64
	Streak        int
	BadgeCount    int64
	TodaysClaims  []models.ClaimRecord
}

// ClaimDailyReward issues at most one reward per (user, day, type). The
// duplicate check lives in the storage layer's unique index; this method
// never looks before it leaps.
func (s *RewardService) ClaimDailyReward(userID uint, rewardType string) (*ClaimResult, error) {
	coins, err := scoring.RewardAmount(rewardType)
	if err != nil {
		return nil, err
	}

	date := models.DateOf(s.now())
	newBalance, err := withRetry(s.metrics, "daily claim", func() (int64, error) {
		return s.claims.CreateWithCredit(userID, date, rewardType, coins)
	})
	if err != nil {
		if errors.HasCode(err, errors.ErrCodeAlreadyClaimed) && s.metrics != nil {
			s.metrics.ClaimsDuplicate.Inc()
		}
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.ClaimsGranted.Inc()
		s.metrics.CoinsCredited.Add(float64(coins))
	}
	logger.Info("Daily reward claimed", "user_id", userID, "reward_type", rewardType, "date", date, "coins", coins)

	return &ClaimResult{CoinsAwarded: coins, NewBalance: newBalance, Date: date}, nil
}

// GetRewardStats assembles the dashboard numbers for one account.
func (s *RewardService) GetRewardStats(userID uint) (*RewardStats, error) {
	balance, err := s.accounts.GetBalance(userID)
	if err != nil {
		return nil, err
	}

	earned, err := s.ledger.TotalEarned(userID)
	if err != nil {
		return nil, err
	}

	spent := earned - balance
	if spent < 0 {
		spent = 0
	}

	streak, err := s.streaks.ComputeStreak(userID)
	if err != nil {
		return nil, err
	}

	badgeCount, err := s.badges.BadgeCount(userID)
	if err != nil {
		return nil, err
	}

	todaysClaims, err := s.claims.ClaimsOnDate(userID, models.DateOf(s.now()))
	if err != nil {
		return nil, err
	}

	return &RewardStats{
		ActiveBalance: balance,
		TotalEarned:   earned,
		TotalSpent:    spent,
		Streak:        streak,
		BadgeCount:    badgeCount,
		TodaysClaims:  todaysClaims,
	}, nil
}

// GetCoinHistory returns the account's most recent ledger records,
// newest first.
func (s *RewardService) GetCoinHistory(userID uint, limit int) ([]models.CoinTransaction, error) {
	if limit <= 0 {
		return nil, errors.New(errors.ErrCodeValidation, "history limit must be positive")
	}
	return s.ledger.History(userID, limit)
}

// SpendCoins debits an account for a store purchase.
func (s *RewardService) SpendCoins(userID uint, amount int64, itemRef string) (int64, error) {
	if amount <= 0 {
		return 0, errors.New(errors.ErrCodeValidation, "spend amount must be positive")
	}
	if s.maxSpend > 0 && amount > s.maxSpend {
		return 0, errors.New(errors.ErrCodeValidation, "spend amount exceeds the per-purchase limit")
	}

	itemRef = security.SanitizeString(itemRef)
	if itemRef == "" {
		return 0, errors.New(errors.ErrCodeValidation, "item reference must not be empty")
	}

	newBalance, err := withRetry(s.metrics, "spend coins", func() (int64, error) {
		return s.ledger.Debit(userID, amount, models.TxTypePurchase, "purchase: "+itemRef)
	})
	if err != nil {
		return 0, err
	}

	if s.metrics != nil {
		s.metrics.CoinsSpent.Add(float64(amount))
	}
	logger.Info("Coins spent", "user_id", userID, "amount", amount, "item", itemRef)

	return newBalance, nil
}
