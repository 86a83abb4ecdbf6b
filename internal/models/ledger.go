package models

import (
	"time"
)

// CoinTransaction is the append-only record behind every balance change.
// Amount is signed: positive for credits, negative for debits.
type CoinTransaction struct {
	ID              uint      `gorm:"primaryKey"`
	UserID          uint      `gorm:"not null;index"`
	Account         Account   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Amount          int64     `gorm:"not null"`
	TransactionType string    `gorm:"type:varchar(50);not null;index"`
	Reference       string    `gorm:"type:varchar(36);not null"`
	Description     string    `gorm:"type:text"`
	CreatedAt       time.Time `gorm:"autoCreateTime;index"`
}

// Transaction type constants
const (
	TxTypeDailyReward  = "daily_reward"
	TxTypeWelcomeBonus = "welcome_bonus"
	TxTypeEventAward   = "event_award"
	TxTypePurchase     = "purchase"
)

func (CoinTransaction) TableName() string {
	return "coin_transactions"
}
