package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/asceticjourney/journey/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// CreateUser inserts a user with the given email.
func (f *Fixtures) CreateUser(ctx context.Context, email string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:        primitive.NewObjectID(),
		Email:     email,
		EmailCI:   text.Fold(email),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateJourney inserts a journey for userID starting at start.
func (f *Fixtures) CreateJourney(ctx context.Context, userID primitive.ObjectID, start time.Time, practices map[string]map[string]bool, journal map[string]string) models.Journey {
	f.t.Helper()

	now := time.Now().UTC()
	j := models.Journey{
		ID:                  primitive.NewObjectID(),
		UserID:              userID,
		StartDate:           start.UTC(),
		PracticeCompletions: practices,
		JournalEntries:      journal,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if _, err := f.db.Collection("journeys").InsertOne(ctx, j); err != nil {
		f.t.Fatalf("failed to create test journey: %v", err)
	}
	return j
}
