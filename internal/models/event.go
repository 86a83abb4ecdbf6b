package models

import (
	"time"

	"gorm.io/gorm"
)

// Event carries the roster bounds and the approval state machine. The
// scoring inputs (Category, DifficultyLevel, HoursWorked) are consumed
// once, at approval time.
type Event struct {
	ID               uint      `gorm:"primaryKey"`
	Title            string    `gorm:"type:varchar(255);not null"`
	MaxParticipants  int       `gorm:"not null"`
	ParticipantCount int       `gorm:"default:0;not null"`
	ApprovalStatus   string    `gorm:"type:varchar(20);default:'pending';not null;index"`
	RejectionReason  string    `gorm:"type:text"`
	Category         string    `gorm:"type:varchar(50);not null"`
	DifficultyLevel  string    `gorm:"type:varchar(20);not null"`
	HoursWorked      int       `gorm:"default:0;not null"`
	CreatedAt        time.Time `gorm:"autoCreateTime"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime"`
}

// Approval status constants
const (
	EventStatusPending  = "pending"
	EventStatusApproved = "approved"
	EventStatusRejected = "rejected"
)

// CanTransition reports whether the approval state machine allows moving
// to target. Pending is the only non-terminal state.
func (e *Event) CanTransition(target string) bool {
	if e.ApprovalStatus != EventStatusPending {
		return false
	}
	return target == EventStatusApproved || target == EventStatusRejected
}

// BeforeSave hook for state validation
func (e *Event) BeforeSave(tx *gorm.DB) error {
	validStatuses := map[string]bool{
		EventStatusPending:  true,
		EventStatusApproved: true,
		EventStatusRejected: true,
	}
	if !validStatuses[e.ApprovalStatus] {
		return gorm.ErrInvalidData
	}

	if e.MaxParticipants < 1 {
		return gorm.ErrInvalidData
	}
	if e.ParticipantCount < 0 || e.ParticipantCount > e.MaxParticipants {
		return gorm.ErrInvalidData
	}

	// A rejection reason only accompanies a rejected event.
	if e.ApprovalStatus == EventStatusRejected && e.RejectionReason == "" {
		return gorm.ErrInvalidData
	}
	if e.ApprovalStatus != EventStatusRejected && e.RejectionReason != "" {
		return gorm.ErrInvalidData
	}

	return nil
}

func (Event) TableName() string {
	return "events"
}

// EventParticipant is one roster slot. The composite unique index keeps
// a user on a roster at most once.
type EventParticipant struct {
	ID       uint      `gorm:"primaryKey"`
	EventID  uint      `gorm:"not null;uniqueIndex:idx_participant_unique"`
	UserID   uint      `gorm:"not null;uniqueIndex:idx_participant_unique"`
	JoinedAt time.Time `gorm:"autoCreateTime"`
}

func (EventParticipant) TableName() string {
	return "event_participants"
}
