package journeystore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/asceticjourney/journey/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when the user has not started a journey.
var ErrNotFound = errors.New("journey not found")

// Store reads journeys and starts new ones. Practice and journal edits are
// owned by the tracking screens and are not written here.
type Store struct {
	c   *mongo.Collection
	now func() time.Time
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("journeys"), now: time.Now}
}

// EnsureIndexes makes user_id unique: one journey per user.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetName("uniq_journeys_user").SetUnique(true),
	})
	return err
}

// GetByUser loads the user's journey.
func (s *Store) GetByUser(ctx context.Context, userID primitive.ObjectID) (*models.Journey, error) {
	var j models.Journey
	if err := s.c.FindOne(ctx, bson.M{"user_id": userID}).Decode(&j); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &j, nil
}

// Start begins a journey for the user if none exists, with StartDate now.
// An existing journey is returned unchanged.
func (s *Store) Start(ctx context.Context, userID primitive.ObjectID) (*models.Journey, error) {
	now := s.now().UTC()
	var j models.Journey
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"user_id": userID},
		bson.M{"$setOnInsert": bson.M{
			"_id":        primitive.NewObjectID(),
			"start_date": now,
			"created_at": now,
			"updated_at": now,
		}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&j)
	if err != nil {
		return nil, fmt.Errorf("start journey: %w", err)
	}
	return &j, nil
}

// Ensure returns the user's journey, starting one if the user has none.
func (s *Store) Ensure(ctx context.Context, userID primitive.ObjectID) (*models.Journey, error) {
	j, err := s.GetByUser(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return s.Start(ctx, userID)
	}
	return j, err
}
