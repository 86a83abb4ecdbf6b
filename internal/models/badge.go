package models

import (
	"time"
)

// Badge is one entry of the static catalog. The catalog is seeded at
// migration time and never mutated at runtime.
type Badge struct {
	ID             uint      `gorm:"primaryKey"`
	Code           string    `gorm:"uniqueIndex;type:varchar(50);not null"`
	Name           string    `gorm:"type:varchar(100);not null"`
	Tier           string    `gorm:"type:varchar(20);not null"`
	PointThreshold int64     `gorm:"not null"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}

func (Badge) TableName() string {
	return "badges"
}

// Badge tier constants
const (
	BadgeTierBronze   = "bronze"
	BadgeTierSilver   = "silver"
	BadgeTierGold     = "gold"
	BadgeTierPlatinum = "platinum"
)

// UserBadge links an account to an owned badge. The composite unique
// index keeps every badge owned at most once.
type UserBadge struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_badge_unique"`
	BadgeID   uint      `gorm:"not null;uniqueIndex:idx_user_badge_unique"`
	AwardedAt time.Time `gorm:"autoCreateTime"`
}

func (UserBadge) TableName() string {
	return "user_badges"
}

// DefaultBadges is the seed catalog, in ascending threshold order.
var DefaultBadges = []Badge{
	{Code: "FIRST_STEPS", Name: "First Steps", Tier: BadgeTierBronze, PointThreshold: 10},
	{Code: "HELPING_HAND", Name: "Helping Hand", Tier: BadgeTierBronze, PointThreshold: 50},
	{Code: "COMMUNITY_FRIEND", Name: "Community Friend", Tier: BadgeTierSilver, PointThreshold: 150},
	{Code: "NEIGHBORHOOD_HERO", Name: "Neighborhood Hero", Tier: BadgeTierSilver, PointThreshold: 400},
	{Code: "CHANGE_MAKER", Name: "Change Maker", Tier: BadgeTierGold, PointThreshold: 1000},
	{Code: "PILLAR_OF_COMMUNITY", Name: "Pillar of the Community", Tier: BadgeTierGold, PointThreshold: 2500},
	{Code: "LIVING_LEGEND", Name: "Living Legend", Tier: BadgeTierPlatinum, PointThreshold: 5000},
}
