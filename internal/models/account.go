package models

import (
	"time"

	"gorm.io/gorm"
)

type Account struct {
	ID          uint      `gorm:"primaryKey"`
	PublicID    string    `gorm:"uniqueIndex;type:varchar(8)"`
	CoinBalance int64     `gorm:"default:0;not null"`
	TotalPoints int64     `gorm:"default:0;not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

// BeforeSave hook guards the non-negativity invariants. The repositories
// never write negative values, this is a last line of defense.
func (a *Account) BeforeSave(tx *gorm.DB) error {
	if a.CoinBalance < 0 {
		return gorm.ErrInvalidData
	}
	if a.TotalPoints < 0 {
		return gorm.ErrInvalidData
	}
	return nil
}

// TableName specifies the table name
func (Account) TableName() string {
	return "accounts"
}
