package services

import (
	"github.com/volunteerhub/rewards_service/internal/models"
	"github.com/volunteerhub/rewards_service/pkg/logger"
	"github.com/volunteerhub/rewards_service/pkg/metrics"
)

type accountStore interface {
	CreateWithWelcomeBonus(bonusCoins int64) (*models.Account, error)
	GetByID(id uint) (*models.Account, error)
	GetByPublicID(publicID string) (*models.Account, error)
}

// AccountService creates ledger accounts at registration time. The
// identity collaborator owns everything else about a user; this side
// only knows balances, points and badges.
type AccountService struct {
	accounts     accountStore
	metrics      *metrics.Manager
	welcomeCoins int64
}

func NewAccountService(accounts accountStore, m *metrics.Manager, welcomeCoins int64) *AccountService {
	return &AccountService{
		accounts:     accounts,
		metrics:      m,
		welcomeCoins: welcomeCoins,
	}
}

// Register creates a new account with its registration bonus credited.
func (s *AccountService) Register() (*models.Account, error) {
	account, err := withRetry(s.metrics, "register account", func() (*models.Account, error) {
		return s.accounts.CreateWithWelcomeBonus(s.welcomeCoins)
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil && s.welcomeCoins > 0 {
		s.metrics.CoinsCredited.Add(float64(s.welcomeCoins))
	}
	logger.Info("Account registered", "user_id", account.ID, "public_id", account.PublicID,
		"welcome_coins", s.welcomeCoins)

	return account, nil
}

// GetAccount returns an account by internal id.
func (s *AccountService) GetAccount(userID uint) (*models.Account, error) {
	return s.accounts.GetByID(userID)
}

// GetAccountByPublicID returns an account by its public identifier.
func (s *AccountService) GetAccountByPublicID(publicID string) (*models.Account, error) {
	return s.accounts.GetByPublicID(publicID)
}
