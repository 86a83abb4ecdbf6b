package services

import (
	"testing"

	"github.com/volunteerhub/rewards_service/internal/models"
	"github.com/volunteerhub/rewards_service/pkg/errors"
)

var testCatalog = []models.Badge{
	{ID: 1, Code: "FIRST_STEPS", PointThreshold: 10},
	{ID: 2, Code: "HELPING_HAND", PointThreshold: 50},
	{ID: 3, Code: "COMMUNITY_FRIEND", PointThreshold: 150},
}

func TestEarnPoints(t *testing.T) {
	store := newFakeAwardStore(testCatalog)
	svc := NewPointsService(store, nil, 100)

	result, err := svc.EarnPoints(1, models.ActionDonationMade, "donation-42")
	if err != nil {
		t.Fatalf("EarnPoints() error = %v", err)
	}

	if result.TotalPoints != 15 {
		t.Errorf("TotalPoints = %d, want 15", result.TotalPoints)
	}
	if result.Level != 1 {
		t.Errorf("Level = %d, want 1", result.Level)
	}
	if result.ProgressPercent != 15 {
		t.Errorf("ProgressPercent = %v, want 15", result.ProgressPercent)
	}
	if len(result.NewlyUnlocked) != 1 || result.NewlyUnlocked[0].Code != "FIRST_STEPS" {
		t.Errorf("NewlyUnlocked = %v, want [FIRST_STEPS]", result.NewlyUnlocked)
	}
	if result.AlreadyRewarded {
		t.Error("AlreadyRewarded = true on first award")
	}
}

func TestEarnPoints_UnknownAction(t *testing.T) {
	store := newFakeAwardStore(testCatalog)
	svc := NewPointsService(store, nil, 100)

	_, err := svc.EarnPoints(1, "selfie_posted", "ref-1")
	if !errors.HasCode(err, errors.ErrCodeValidation) {
		t.Errorf("EarnPoints() error = %v, want %s", err, errors.ErrCodeValidation)
	}
}

func TestEarnPoints_DuplicateReferenceIsNoOp(t *testing.T) {
	store := newFakeAwardStore(testCatalog)
	svc := NewPointsService(store, nil, 100)

	first, err := svc.EarnPoints(1, models.ActionDonationMade, "donation-42")
	if err != nil {
		t.Fatalf("first EarnPoints() error = %v", err)
	}

	second, err := svc.EarnPoints(1, models.ActionDonationMade, "donation-42")
	if err != nil {
		t.Fatalf("second EarnPoints() error = %v", err)
	}

	if !second.AlreadyRewarded {
		t.Error("AlreadyRewarded = false on repeat award")
	}
	if second.TotalPoints != first.TotalPoints {
		t.Errorf("repeat award changed total: %d -> %d", first.TotalPoints, second.TotalPoints)
	}
	if len(second.NewlyUnlocked) != 0 {
		t.Errorf("repeat award unlocked %d badges, want 0", len(second.NewlyUnlocked))
	}
	// The no-op must still report the current state, badges included.
	if len(second.AllBadges) != 1 || second.AllBadges[0].Code != "FIRST_STEPS" {
		t.Errorf("repeat award AllBadges = %v, want [FIRST_STEPS]", second.AllBadges)
	}
	if second.Level != 1 || second.ProgressPercent != 15 {
		t.Errorf("repeat award level/progress = %d/%v, want 1/15", second.Level, second.ProgressPercent)
	}
}

func TestEarnPoints_BadgeUnlockedExactlyOnce(t *testing.T) {
	store := newFakeAwardStore(testCatalog)
	svc := NewPointsService(store, nil, 100)

	// Cross the 50-point threshold over several distinct donations.
	references := []string{"d1", "d2", "d3", "d4"}
	unlocks := 0
	for _, ref := range references {
		result, err := svc.EarnPoints(1, models.ActionDonationMade, ref)
		if err != nil {
			t.Fatalf("EarnPoints(%s) error = %v", ref, err)
		}
		for _, badge := range result.NewlyUnlocked {
			if badge.Code == "HELPING_HAND" {
				unlocks++
			}
		}
	}

	if unlocks != 1 {
		t.Errorf("HELPING_HAND unlocked %d times, want exactly 1", unlocks)
	}

	// 4 donations at 15 points each.
	final, err := svc.EarnPoints(1, models.ActionProfileCompleted, "profile")
	if err != nil {
		t.Fatalf("EarnPoints() error = %v", err)
	}
	if final.TotalPoints != 70 {
		t.Errorf("TotalPoints = %d, want 70", final.TotalPoints)
	}
	if len(final.AllBadges) != 2 {
		t.Errorf("AllBadges has %d entries, want 2", len(final.AllBadges))
	}
}

func TestEarnPoints_LevelAdvances(t *testing.T) {
	store := newFakeAwardStore(testCatalog)
	store.totals[1] = 95
	svc := NewPointsService(store, nil, 100)

	result, err := svc.EarnPoints(1, models.ActionProfileCompleted, "profile")
	if err != nil {
		t.Fatalf("EarnPoints() error = %v", err)
	}

	if result.TotalPoints != 105 {
		t.Errorf("TotalPoints = %d, want 105", result.TotalPoints)
	}
	if result.Level != 2 {
		t.Errorf("Level = %d, want 2", result.Level)
	}
	if result.ProgressPercent != 5 {
		t.Errorf("ProgressPercent = %v, want 5", result.ProgressPercent)
	}
}

func TestAwardEventPoints(t *testing.T) {
	store := newFakeAwardStore(testCatalog)
	svc := NewPointsService(store, nil, 100)

	first, err := svc.AwardEventPoints(1, 7, 30)
	if err != nil {
		t.Fatalf("AwardEventPoints() error = %v", err)
	}
	if first.TotalPoints != 30 {
		t.Errorf("TotalPoints = %d, want 30", first.TotalPoints)
	}

	// Same event id is a no-op; another event awards again.
	repeat, err := svc.AwardEventPoints(1, 7, 30)
	if err != nil {
		t.Fatalf("repeat AwardEventPoints() error = %v", err)
	}
	if !repeat.AlreadyRewarded || repeat.TotalPoints != 30 {
		t.Errorf("repeat award: AlreadyRewarded=%v total=%d, want true/30", repeat.AlreadyRewarded, repeat.TotalPoints)
	}

	other, err := svc.AwardEventPoints(1, 8, 30)
	if err != nil {
		t.Fatalf("AwardEventPoints() error = %v", err)
	}
	if other.TotalPoints != 60 {
		t.Errorf("TotalPoints = %d, want 60", other.TotalPoints)
	}
}

func TestGetBadgeCollection(t *testing.T) {
	store := newFakeAwardStore(testCatalog)
	svc := NewPointsService(store, nil, 100)

	// 15 points unlocks FIRST_STEPS only.
	if _, err := svc.EarnPoints(1, models.ActionDonationMade, "donation-1"); err != nil {
		t.Fatalf("EarnPoints() error = %v", err)
	}

	collection, err := svc.GetBadgeCollection(1)
	if err != nil {
		t.Fatalf("GetBadgeCollection() error = %v", err)
	}
	if len(collection.Catalog) != len(testCatalog) {
		t.Errorf("Catalog has %d badges, want %d", len(collection.Catalog), len(testCatalog))
	}
	if len(collection.Owned) != 1 || collection.Owned[0].Code != "FIRST_STEPS" {
		t.Errorf("Owned = %v, want [FIRST_STEPS]", collection.Owned)
	}

	// A user with no awards owns nothing but still sees the catalog.
	empty, err := svc.GetBadgeCollection(2)
	if err != nil {
		t.Fatalf("GetBadgeCollection() error = %v", err)
	}
	if len(empty.Owned) != 0 {
		t.Errorf("Owned = %v for fresh user, want none", empty.Owned)
	}
	if len(empty.Catalog) != len(testCatalog) {
		t.Errorf("Catalog has %d badges, want %d", len(empty.Catalog), len(testCatalog))
	}
}

func TestEarnPoints_AbortsAfterSecondConflict(t *testing.T) {
	store := newFakeAwardStore(testCatalog)
	store.conflicts = 2
	svc := NewPointsService(store, nil, 100)

	_, err := svc.EarnPoints(1, models.ActionDonationMade, "donation-1")
	if !errors.HasCode(err, errors.ErrCodeTransactionAborted) {
		t.Errorf("EarnPoints() error = %v, want %s", err, errors.ErrCodeTransactionAborted)
	}
}
