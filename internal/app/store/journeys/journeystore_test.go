package journeystore_test

import (
	"errors"
	"testing"
	"time"

	journeystore "github.com/asceticjourney/journey/internal/app/store/journeys"
	"github.com/asceticjourney/journey/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestGetByUser_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := journeystore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.GetByUser(ctx, primitive.NewObjectID()); !errors.Is(err, journeystore.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestStart_IsIdempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := journeystore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes: %v", err)
	}

	userID := primitive.NewObjectID()
	first, err := store.Start(ctx, userID)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if first.StartDate.IsZero() || first.UserID != userID {
		t.Errorf("journey = %+v", first)
	}

	time.Sleep(5 * time.Millisecond)
	second, err := store.Start(ctx, userID)
	if err != nil {
		t.Fatalf("Start again: %v", err)
	}
	if second.ID != first.ID || !second.StartDate.Equal(first.StartDate) {
		t.Errorf("second Start changed the journey: %+v vs %+v", second, first)
	}
}

func TestGetByUser_CarriesProgress(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := journeystore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	testutil.NewFixtures(t, db).CreateJourney(ctx, userID, start,
		map[string]map[string]bool{"1": {"week1": true}},
		map[string]string{"1": "first light"})

	j, err := store.GetByUser(ctx, userID)
	if err != nil {
		t.Fatalf("GetByUser: %v", err)
	}
	if !j.PracticeCompletions["1"]["week1"] || j.JournalEntries["1"] != "first light" {
		t.Errorf("progress not loaded: %+v", j)
	}
	if !j.StartDate.Equal(start) {
		t.Errorf("StartDate = %v", j.StartDate)
	}
}

func TestEnsure_StartsOnce(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := journeystore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	a, err := store.Ensure(ctx, userID)
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	b, err := store.Ensure(ctx, userID)
	if err != nil {
		t.Fatalf("Ensure again: %v", err)
	}
	if a.ID != b.ID {
		t.Errorf("Ensure created a second journey")
	}
}
