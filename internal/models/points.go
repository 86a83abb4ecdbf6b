package models

import (
	"time"
)

// PointAward records one rewarded action. The composite unique index on
// (user_id, action_type, reference_id) makes repeat awards for the same
// reference a no-op.
type PointAward struct {
	ID          uint      `gorm:"primaryKey"`
	UserID      uint      `gorm:"not null;uniqueIndex:idx_award_unique"`
	ActionType  string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_award_unique"`
	ReferenceID string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_award_unique"`
	Points      int64     `gorm:"not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index"`
}

// Action type constants
const (
	ActionDailyQuote         = "daily_quote_read"
	ActionProfileCompleted   = "profile_completed"
	ActionDonationMade       = "donation_made"
	ActionEventParticipation = "event_participation"
)

func (PointAward) TableName() string {
	return "point_awards"
}
