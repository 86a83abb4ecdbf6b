package models

import (
	"time"
)

// ClaimRecord is one daily reward claim. The composite unique index on
// (user_id, claim_date, reward_type) is the dedup key: concurrent claims
// for the same tuple are serialized by the database, not by the caller.
type ClaimRecord struct {
	ID         uint      `gorm:"primaryKey"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_claim_unique"`
	ClaimDate  string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_claim_unique"`
	RewardType string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_claim_unique"`
	Coins      int64     `gorm:"not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index"`
}

func (ClaimRecord) TableName() string {
	return "claim_records"
}

// RegistrationBonus is created once per account at signup and contributes
// to the lifetime-earned total.
type RegistrationBonus struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;uniqueIndex"`
	Coins     int64     `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (RegistrationBonus) TableName() string {
	return "registration_bonuses"
}

// Reward type constants
const (
	RewardDailyQuote         = "daily_quote"
	RewardLoginBonus         = "login_bonus"
	RewardActivityCompletion = "activity_completion"
)

// claimDateLayout is the calendar-date format stored in ClaimDate.
const claimDateLayout = "2006-01-02"

// DateOf returns t's calendar date anchored to UTC. Days are discrete
// UTC dates, not rolling 24h windows.
func DateOf(t time.Time) string {
	return t.UTC().Format(claimDateLayout)
}

// PreviousDate returns the calendar date one day before date. It assumes
// date is well-formed; a malformed date yields an empty string.
func PreviousDate(date string) string {
	t, err := time.ParseInLocation(claimDateLayout, date, time.UTC)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, -1).Format(claimDateLayout)
}
