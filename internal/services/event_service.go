package services

import (
	"github.com/volunteerhub/rewards_service/internal/models"
	"github.com/volunteerhub/rewards_service/internal/scoring"
	"github.com/volunteerhub/rewards_service/internal/security"
	"github.com/volunteerhub/rewards_service/pkg/errors"
	"github.com/volunteerhub/rewards_service/pkg/logger"
	"github.com/volunteerhub/rewards_service/pkg/metrics"
)

type eventStore interface {
	GetByID(id uint) (*models.Event, error)
	Join(eventID, userID uint) (int, error)
	Leave(eventID, userID uint) (int, error)
	Approve(eventID uint, category, difficulty string, hoursWorked int) (*models.Event, error)
	Reject(eventID uint, reason string) (*models.Event, error)
	ParticipantIDs(eventID uint) ([]uint, error)
}

// EventService drives roster membership and the approval state machine,
// handing the computed award to the points engine on approval.
type EventService struct {
	events  eventStore
	points  *PointsService
	metrics *metrics.Manager
}

func NewEventService(events eventStore, points *PointsService, m *metrics.Manager) *EventService {
	return &EventService{
		events:  events,
		points:  points,
		metrics: m,
	}
}

// JoinEvent adds a user to the roster. Returns the roster size after the
// join.
func (s *EventService) JoinEvent(eventID, userID uint) (int, error) {
	size, err := withRetry(s.metrics, "join event", func() (int, error) {
		return s.events.Join(eventID, userID)
	})
	if err != nil {
		if errors.HasCode(err, errors.ErrCodeEventFull) && s.metrics != nil {
			s.metrics.EventsFull.Inc()
		}
		return 0, err
	}

	if s.metrics != nil {
		s.metrics.EventJoins.Inc()
	}
	logger.Info("User joined event", "event_id", eventID, "user_id", userID, "roster_size", size)
	return size, nil
}

// LeaveEvent removes a user from the roster. Returns the roster size
// after the removal.
func (s *EventService) LeaveEvent(eventID, userID uint) (int, error) {
	size, err := withRetry(s.metrics, "leave event", func() (int, error) {
		return s.events.Leave(eventID, userID)
	})
	if err != nil {
		return 0, err
	}

	logger.Info("User left event", "event_id", eventID, "user_id", userID, "roster_size", size)
	return size, nil
}

// GetEvent returns an event, rejection reason included.
func (s *EventService) GetEvent(eventID uint) (*models.Event, error) {
	return s.events.GetByID(eventID)
}

// ApproveEvent transitions a pending event to approved and awards the
// scoring-formula points to every participant. Calling it again on an
// already-approved event re-drives the fan-out with the inputs recorded
// at the original approval, so a fan-out that failed mid-way can be
// completed without double-awarding anyone. Admin only.
func (s *EventService) ApproveEvent(identity *security.Identity, eventID uint,
	category, difficulty string, hoursWorked int) (*models.Event, error) {
	if identity == nil || !identity.IsAdmin() {
		return nil, errors.New(errors.ErrCodeForbidden, "only admins may approve events")
	}

	// Validates category, difficulty and hours before any transition.
	points, err := scoring.EventPoints(category, difficulty, hoursWorked)
	if err != nil {
		return nil, err
	}

	event, err := withRetry(s.metrics, "approve event", func() (*models.Event, error) {
		return s.events.Approve(eventID, category, difficulty, hoursWorked)
	})
	switch {
	case err == nil:
		logger.Info("Event approved", "event_id", eventID, "points", points, "admin_id", identity.UserID)
	case errors.HasCode(err, errors.ErrCodeInvalidTransition):
		current, getErr := s.events.GetByID(eventID)
		if getErr != nil {
			return nil, getErr
		}
		if current.ApprovalStatus != models.EventStatusApproved {
			return nil, err
		}
		// Re-drive with the stored scoring inputs, not the caller's.
		points, err = scoring.EventPoints(current.Category, current.DifficultyLevel, current.HoursWorked)
		if err != nil {
			return nil, err
		}
		event = current
		logger.Info("Re-driving award fan-out for approved event",
			"event_id", eventID, "points", points, "admin_id", identity.UserID)
	default:
		return nil, err
	}

	participants, err := s.events.ParticipantIDs(eventID)
	if err != nil {
		return nil, err
	}

	// Each award is idempotent on (event_participation, eventID), so a
	// failed fan-out can be re-driven without double-awarding.
	for _, userID := range participants {
		if _, err := s.points.AwardEventPoints(userID, eventID, points); err != nil {
			logger.Error("Failed to award event points", "event_id", eventID, "user_id", userID, "error", err)
			return nil, err
		}
	}

	return event, nil
}

// RejectEvent transitions a pending event to rejected, storing the
// reason for later retrieval. Admin only.
func (s *EventService) RejectEvent(identity *security.Identity, eventID uint, reason string) (*models.Event, error) {
	if identity == nil || !identity.IsAdmin() {
		return nil, errors.New(errors.ErrCodeForbidden, "only admins may reject events")
	}

	reason = security.SanitizeReason(reason)
	if reason == "" {
		return nil, errors.New(errors.ErrCodeValidation, "rejection reason must not be empty")
	}

	event, err := withRetry(s.metrics, "reject event", func() (*models.Event, error) {
		return s.events.Reject(eventID, reason)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Event rejected", "event_id", eventID, "reason", reason, "admin_id", identity.UserID)
	return event, nil
}
