package userstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/asceticjourney/journey/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when no user matches.
var ErrNotFound = errors.New("user not found")

type Store struct {
	c   *mongo.Collection
	now func() time.Time
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users"), now: time.Now}
}

// EnsureIndexes makes the folded email unique.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email_ci", Value: 1}},
		Options: options.Index().SetName("uniq_users_email_ci").SetUnique(true),
	})
	return err
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

// GetByEmail looks up a user by case-insensitive email.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"email_ci": foldEmail(email)})
}

func (s *Store) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, filter).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// FindOrCreate returns the user for email, creating one on first sign-in.
// created reports whether a new user was inserted (sign-up vs sign-in).
func (s *Store) FindOrCreate(ctx context.Context, email string) (u *models.User, created bool, err error) {
	if u, err := s.GetByEmail(ctx, email); err == nil {
		return u, false, nil
	} else if !errors.Is(err, ErrNotFound) {
		return nil, false, fmt.Errorf("lookup user: %w", err)
	}

	now := s.now().UTC()
	nu := models.User{
		ID:        primitive.NewObjectID(),
		Email:     strings.TrimSpace(email),
		EmailCI:   foldEmail(email),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.c.InsertOne(ctx, nu); err != nil {
		if wafflemongo.IsDup(err) {
			// Lost a race with a concurrent sign-up for the same address.
			u, gerr := s.GetByEmail(ctx, email)
			if gerr != nil {
				return nil, false, fmt.Errorf("reload after duplicate: %w", gerr)
			}
			return u, false, nil
		}
		return nil, false, fmt.Errorf("insert user: %w", err)
	}
	return &nu, true, nil
}

// TouchLogin records a successful sign-in.
func (s *Store) TouchLogin(ctx context.Context, id primitive.ObjectID) error {
	now := s.now().UTC()
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"last_login_at": now,
		"updated_at":    now,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func foldEmail(email string) string {
	return text.Fold(strings.TrimSpace(email))
}
