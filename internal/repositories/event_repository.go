package repositories

import (
	stderrors "errors"

	"github.com/volunteerhub/rewards_service/internal/models"
	"github.com/volunteerhub/rewards_service/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(event *models.Event) error {
	if err := r.db.Create(event).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to create event")
	}
	return nil
}

func (r *EventRepository) GetByID(id uint) (*models.Event, error) {
	var event models.Event
	if err := r.db.First(&event, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New(errors.ErrCodeNotFound, "event not found")
		}
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get event")
	}
	return &event, nil
}

// Join appends a user to the roster. The event row is locked FOR UPDATE
// so the capacity check and the append are one atomic step: two joins
// racing for the last slot serialize, and the loser gets EVENT_FULL.
// Returns the roster size after the join.
func (r *EventRepository) Join(eventID, userID uint) (int, error) {
	var rosterSize int
	err := r.db.Transaction(func(tx *gorm.DB) error {
		event, err := lockEvent(tx, eventID)
		if err != nil {
			return err
		}

		if event.ParticipantCount >= event.MaxParticipants {
			return errors.New(errors.ErrCodeEventFull, "event roster is full")
		}

		participant := &models.EventParticipant{EventID: eventID, UserID: userID}
		if err := tx.Create(participant).Error; err != nil {
			if stderrors.Is(err, gorm.ErrDuplicatedKey) {
				return errors.New(errors.ErrCodeAlreadyJoined, "user already joined this event")
			}
			return err
		}

		rosterSize = event.ParticipantCount + 1
		return tx.Model(event).Update("participant_count", rosterSize).Error
	})

	return rosterSize, finishTx(err, "join event")
}

// Leave removes a user from the roster outright. Returns the roster size
// after the removal.
func (r *EventRepository) Leave(eventID, userID uint) (int, error) {
	var rosterSize int
	err := r.db.Transaction(func(tx *gorm.DB) error {
		event, err := lockEvent(tx, eventID)
		if err != nil {
			return err
		}

		result := tx.Where("event_id = ? AND user_id = ?", eventID, userID).
			Delete(&models.EventParticipant{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errors.New(errors.ErrCodeNotAParticipant, "user is not a participant of this event")
		}

		rosterSize = event.ParticipantCount - 1
		return tx.Model(event).Update("participant_count", rosterSize).Error
	})

	return rosterSize, finishTx(err, "leave event")
}

// Approve transitions a pending event to approved and stores the scoring
// inputs that produced the award. Terminal states are never left.
func (r *EventRepository) Approve(eventID uint, category, difficulty string, hoursWorked int) (*models.Event, error) {
	var approved *models.Event
	err := r.db.Transaction(func(tx *gorm.DB) error {
		event, err := lockEvent(tx, eventID)
		if err != nil {
			return err
		}

		if !event.CanTransition(models.EventStatusApproved) {
			return errors.New(errors.ErrCodeInvalidTransition,
				"event is not pending, current status: "+event.ApprovalStatus)
		}

		event.ApprovalStatus = models.EventStatusApproved
		event.Category = category
		event.DifficultyLevel = difficulty
		event.HoursWorked = hoursWorked
		if err := tx.Save(event).Error; err != nil {
			return err
		}

		approved = event
		return nil
	})

	if err != nil {
		return nil, finishTx(err, "approve event")
	}
	return approved, nil
}

// Reject transitions a pending event to rejected and stores the reason.
func (r *EventRepository) Reject(eventID uint, reason string) (*models.Event, error) {
	var rejected *models.Event
	err := r.db.Transaction(func(tx *gorm.DB) error {
		event, err := lockEvent(tx, eventID)
		if err != nil {
			return err
		}

		if !event.CanTransition(models.EventStatusRejected) {
			return errors.New(errors.ErrCodeInvalidTransition,
				"event is not pending, current status: "+event.ApprovalStatus)
		}

		event.ApprovalStatus = models.EventStatusRejected
		event.RejectionReason = reason
		if err := tx.Save(event).Error; err != nil {
			return err
		}

		rejected = event
		return nil
	})

	if err != nil {
		return nil, finishTx(err, "reject event")
	}
	return rejected, nil
}

// ParticipantIDs returns the user ids currently on the roster, in join
// order.
func (r *EventRepository) ParticipantIDs(eventID uint) ([]uint, error) {
	var userIDs []uint
	err := r.db.Model(&models.EventParticipant{}).
		Where("event_id = ?", eventID).
		Order("joined_at ASC").
		Pluck("user_id", &userIDs).Error
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get participants")
	}
	return userIDs, nil
}

func lockEvent(tx *gorm.DB, eventID uint) (*models.Event, error) {
	var event models.Event
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&event, eventID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New(errors.ErrCodeNotFound, "event not found")
		}
		return nil, err
	}
	return &event, nil
}
