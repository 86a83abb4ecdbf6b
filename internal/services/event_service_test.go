package services

import (
	"sync"
	"testing"

	"github.com/volunteerhub/rewards_service/internal/models"
	"github.com/volunteerhub/rewards_service/internal/scoring"
	"github.com/volunteerhub/rewards_service/internal/security"
	"github.com/volunteerhub/rewards_service/pkg/errors"
)

func newTestEventService(events *fakeEventStore, awards *fakeAwardStore) *EventService {
	points := NewPointsService(awards, nil, 100)
	return NewEventService(events, points, nil)
}

func pendingEvent(id uint, capacity int) *models.Event {
	return &models.Event{
		ID:              id,
		Title:           "Park Cleanup",
		MaxParticipants: capacity,
		ApprovalStatus:  models.EventStatusPending,
		Category:        scoring.CategoryEnvironment,
		DifficultyLevel: scoring.DifficultyEasy,
	}
}

var adminIdentity = &security.Identity{UserID: 99, Role: security.RoleAdmin}
var volunteerIdentity = &security.Identity{UserID: 5, Role: security.RoleVolunteer}

func TestJoinEvent(t *testing.T) {
	events := newFakeEventStore()
	events.add(pendingEvent(1, 3))
	svc := newTestEventService(events, newFakeAwardStore(nil))

	size, err := svc.JoinEvent(1, 10)
	if err != nil {
		t.Fatalf("JoinEvent() error = %v", err)
	}
	if size != 1 {
		t.Errorf("roster size = %d, want 1", size)
	}

	size, err = svc.JoinEvent(1, 11)
	if err != nil {
		t.Fatalf("JoinEvent() error = %v", err)
	}
	if size != 2 {
		t.Errorf("roster size = %d, want 2", size)
	}
}

func TestJoinEvent_Errors(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(*fakeEventStore)
		eventID  uint
		userID   uint
		wantCode string
	}{
		{
			name:     "Unknown event",
			setup:    func(f *fakeEventStore) {},
			eventID:  404,
			userID:   1,
			wantCode: errors.ErrCodeNotFound,
		},
		{
			name: "Full roster",
			setup: func(f *fakeEventStore) {
				f.add(pendingEvent(1, 1))
				if _, err := f.Join(1, 50); err != nil {
					t.Fatalf("seed join error = %v", err)
				}
			},
			eventID:  1,
			userID:   2,
			wantCode: errors.ErrCodeEventFull,
		},
		{
			name: "Duplicate join",
			setup: func(f *fakeEventStore) {
				f.add(pendingEvent(1, 5))
				if _, err := f.Join(1, 2); err != nil {
					t.Fatalf("seed join error = %v", err)
				}
			},
			eventID:  1,
			userID:   2,
			wantCode: errors.ErrCodeAlreadyJoined,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := newFakeEventStore()
			tt.setup(events)
			svc := newTestEventService(events, newFakeAwardStore(nil))

			_, err := svc.JoinEvent(tt.eventID, tt.userID)
			if !errors.HasCode(err, tt.wantCode) {
				t.Errorf("JoinEvent() error = %v, want %s", err, tt.wantCode)
			}
		})
	}
}

func TestJoinEvent_ConcurrentLastSlot(t *testing.T) {
	events := newFakeEventStore()
	events.add(pendingEvent(1, 1))
	svc := newTestEventService(events, newFakeAwardStore(nil))

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for _, userID := range []uint{10, 11} {
		wg.Add(1)
		go func(id uint) {
			defer wg.Done()
			_, err := svc.JoinEvent(1, id)
			results <- err
		}(userID)
	}
	wg.Wait()
	close(results)

	successes, fulls := 0, 0
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.HasCode(err, errors.ErrCodeEventFull):
			fulls++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}

	if successes != 1 || fulls != 1 {
		t.Errorf("successes = %d, fulls = %d, want 1 and 1", successes, fulls)
	}

	event, _ := events.GetByID(1)
	if event.ParticipantCount != 1 {
		t.Errorf("ParticipantCount = %d, want 1", event.ParticipantCount)
	}
}

func TestLeaveEvent(t *testing.T) {
	events := newFakeEventStore()
	events.add(pendingEvent(1, 3))
	svc := newTestEventService(events, newFakeAwardStore(nil))

	if _, err := svc.JoinEvent(1, 10); err != nil {
		t.Fatalf("join error = %v", err)
	}

	size, err := svc.LeaveEvent(1, 10)
	if err != nil {
		t.Fatalf("LeaveEvent() error = %v", err)
	}
	if size != 0 {
		t.Errorf("roster size = %d, want 0", size)
	}

	// Leaving again fails, nothing left to remove.
	_, err = svc.LeaveEvent(1, 10)
	if !errors.HasCode(err, errors.ErrCodeNotAParticipant) {
		t.Errorf("second LeaveEvent() error = %v, want %s", err, errors.ErrCodeNotAParticipant)
	}

	// A slot freed by leaving can be rejoined.
	if _, err := svc.JoinEvent(1, 10); err != nil {
		t.Errorf("rejoin after leave error = %v", err)
	}
}

func TestApproveEvent(t *testing.T) {
	events := newFakeEventStore()
	events.add(pendingEvent(1, 5))
	awards := newFakeAwardStore(nil)
	svc := newTestEventService(events, awards)

	for _, userID := range []uint{10, 11, 12} {
		if _, err := svc.JoinEvent(1, userID); err != nil {
			t.Fatalf("join error = %v", err)
		}
	}

	event, err := svc.ApproveEvent(adminIdentity, 1, scoring.CategoryEnvironment, scoring.DifficultyEasy, 5)
	if err != nil {
		t.Fatalf("ApproveEvent() error = %v", err)
	}
	if event.ApprovalStatus != models.EventStatusApproved {
		t.Errorf("status = %q, want %q", event.ApprovalStatus, models.EventStatusApproved)
	}

	// 20 * 1.0 * 1.5 = 30 points for each of the three participants.
	for _, userID := range []uint{10, 11, 12} {
		if got := awards.totals[userID]; got != 30 {
			t.Errorf("participant %d points = %d, want 30", userID, got)
		}
	}
}

func TestApproveEvent_Errors(t *testing.T) {
	tests := []struct {
		name     string
		identity *security.Identity
		status   string
		category string
		wantCode string
	}{
		{
			name:     "Volunteer may not approve",
			identity: volunteerIdentity,
			status:   models.EventStatusPending,
			category: scoring.CategoryEnvironment,
			wantCode: errors.ErrCodeForbidden,
		},
		{
			name:     "Missing identity",
			identity: nil,
			status:   models.EventStatusPending,
			category: scoring.CategoryEnvironment,
			wantCode: errors.ErrCodeForbidden,
		},
		{
			name:     "Unknown category",
			identity: adminIdentity,
			status:   models.EventStatusPending,
			category: "space_exploration",
			wantCode: errors.ErrCodeValidation,
		},
		{
			name:     "Already rejected",
			identity: adminIdentity,
			status:   models.EventStatusRejected,
			category: scoring.CategoryEnvironment,
			wantCode: errors.ErrCodeInvalidTransition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := newFakeEventStore()
			event := pendingEvent(1, 5)
			event.ApprovalStatus = tt.status
			if tt.status == models.EventStatusRejected {
				event.RejectionReason = "seed reason"
			}
			events.add(event)
			svc := newTestEventService(events, newFakeAwardStore(nil))

			_, err := svc.ApproveEvent(tt.identity, 1, tt.category, scoring.DifficultyEasy, 2)
			if !errors.HasCode(err, tt.wantCode) {
				t.Errorf("ApproveEvent() error = %v, want %s", err, tt.wantCode)
			}
		})
	}
}

func TestApproveEvent_RedrivenFanOutAwardsOnce(t *testing.T) {
	events := newFakeEventStore()
	events.add(pendingEvent(1, 5))
	awards := newFakeAwardStore(nil)
	svc := newTestEventService(events, awards)

	if _, err := svc.JoinEvent(1, 10); err != nil {
		t.Fatalf("join error = %v", err)
	}
	if _, err := svc.ApproveEvent(adminIdentity, 1, scoring.CategorySocial, scoring.DifficultyMedium, 0); err != nil {
		t.Fatalf("ApproveEvent() error = %v", err)
	}

	// A second approval succeeds as a re-drive using the stored scoring
	// inputs, not the caller's, and awards nothing extra.
	event, err := svc.ApproveEvent(adminIdentity, 1, scoring.CategoryEnvironment, scoring.DifficultyEasy, 5)
	if err != nil {
		t.Fatalf("second approval error = %v", err)
	}
	if event.ApprovalStatus != models.EventStatusApproved {
		t.Errorf("status = %q, want %q", event.ApprovalStatus, models.EventStatusApproved)
	}

	// 15 * 1.5 * 1.0 = 22.5, rounds to 23. Still just once.
	if got := awards.totals[10]; got != 23 {
		t.Errorf("participant points = %d, want 23", got)
	}
}

func TestApproveEvent_FailedFanOutCanBeRedriven(t *testing.T) {
	events := newFakeEventStore()
	events.add(pendingEvent(1, 5))
	awards := newFakeAwardStore(nil)
	svc := newTestEventService(events, awards)

	for _, userID := range []uint{10, 11} {
		if _, err := svc.JoinEvent(1, userID); err != nil {
			t.Fatalf("join error = %v", err)
		}
	}

	// The award store conflicts twice, so the first participant's award
	// aborts and the fan-out fails after the transition committed.
	awards.conflicts = 2
	_, err := svc.ApproveEvent(adminIdentity, 1, scoring.CategoryEnvironment, scoring.DifficultyEasy, 5)
	if !errors.HasCode(err, errors.ErrCodeTransactionAborted) {
		t.Fatalf("ApproveEvent() error = %v, want %s", err, errors.ErrCodeTransactionAborted)
	}

	event, err := svc.GetEvent(1)
	if err != nil {
		t.Fatalf("GetEvent() error = %v", err)
	}
	if event.ApprovalStatus != models.EventStatusApproved {
		t.Fatalf("status after failed fan-out = %q, want %q", event.ApprovalStatus, models.EventStatusApproved)
	}

	// Re-driving the approval completes the fan-out without touching
	// anyone already awarded.
	if _, err := svc.ApproveEvent(adminIdentity, 1, scoring.CategoryEnvironment, scoring.DifficultyEasy, 5); err != nil {
		t.Fatalf("re-driven ApproveEvent() error = %v", err)
	}
	for _, userID := range []uint{10, 11} {
		if got := awards.totals[userID]; got != 30 {
			t.Errorf("participant %d points = %d, want 30", userID, got)
		}
	}
}

func TestRejectEvent(t *testing.T) {
	events := newFakeEventStore()
	events.add(pendingEvent(1, 5))
	svc := newTestEventService(events, newFakeAwardStore(nil))

	event, err := svc.RejectEvent(adminIdentity, 1, "insufficient detail")
	if err != nil {
		t.Fatalf("RejectEvent() error = %v", err)
	}
	if event.ApprovalStatus != models.EventStatusRejected {
		t.Errorf("status = %q, want %q", event.ApprovalStatus, models.EventStatusRejected)
	}

	// The reason round-trips unchanged on a later read.
	stored, err := svc.GetEvent(1)
	if err != nil {
		t.Fatalf("GetEvent() error = %v", err)
	}
	if stored.ApprovalStatus != models.EventStatusRejected {
		t.Errorf("stored status = %q, want %q", stored.ApprovalStatus, models.EventStatusRejected)
	}
	if stored.RejectionReason != "insufficient detail" {
		t.Errorf("stored reason = %q, want %q", stored.RejectionReason, "insufficient detail")
	}
}

func TestRejectEvent_Errors(t *testing.T) {
	tests := []struct {
		name     string
		identity *security.Identity
		status   string
		reason   string
		wantCode string
	}{
		{
			name:     "Volunteer may not reject",
			identity: volunteerIdentity,
			status:   models.EventStatusPending,
			reason:   "whatever",
			wantCode: errors.ErrCodeForbidden,
		},
		{
			name:     "Empty reason",
			identity: adminIdentity,
			status:   models.EventStatusPending,
			reason:   "   ",
			wantCode: errors.ErrCodeValidation,
		},
		{
			name:     "Already approved",
			identity: adminIdentity,
			status:   models.EventStatusApproved,
			reason:   "too late",
			wantCode: errors.ErrCodeInvalidTransition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := newFakeEventStore()
			event := pendingEvent(1, 5)
			event.ApprovalStatus = tt.status
			events.add(event)
			svc := newTestEventService(events, newFakeAwardStore(nil))

			_, err := svc.RejectEvent(tt.identity, 1, tt.reason)
			if !errors.HasCode(err, tt.wantCode) {
				t.Errorf("RejectEvent() error = %v, want %s", err, tt.wantCode)
			}
		})
	}
}

func TestJoinEvent_RetriesOnceOnConflict(t *testing.T) {
	events := newFakeEventStore()
	events.add(pendingEvent(1, 3))
	events.conflicts = 1
	svc := newTestEventService(events, newFakeAwardStore(nil))

	size, err := svc.JoinEvent(1, 10)
	if err != nil {
		t.Fatalf("JoinEvent() error = %v, want retried success", err)
	}
	if size != 1 {
		t.Errorf("roster size = %d, want 1", size)
	}
}

func TestJoinEvent_AbortsAfterSecondConflict(t *testing.T) {
	events := newFakeEventStore()
	events.add(pendingEvent(1, 3))
	events.conflicts = 2
	svc := newTestEventService(events, newFakeAwardStore(nil))

	_, err := svc.JoinEvent(1, 10)
	if !errors.HasCode(err, errors.ErrCodeTransactionAborted) {
		t.Errorf("JoinEvent() error = %v, want %s", err, errors.ErrCodeTransactionAborted)
	}
}
