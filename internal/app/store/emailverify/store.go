// internal/app/store/emailverify/store.go
package emailverify

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

const (
	// CodeLength is the length of the fallback sign-in code.
	CodeLength = 6
	// TokenLength is the magic-link token size in bytes (64 hex chars).
	TokenLength = 32
	// DefaultExpiry is how long a link and code stay valid.
	DefaultExpiry = 10 * time.Minute
	// BcryptCost for hashing codes.
	BcryptCost = 10
	// MaxVerifyAttempts caps code guesses per verification.
	MaxVerifyAttempts = 5
	// MaxResends caps new links within ResendWindow.
	MaxResends = 3
	// ResendWindow is the period MaxResends applies to.
	ResendWindow = 10 * time.Minute
)

var (
	// ErrNotFound is returned when a verification is missing, used or expired.
	ErrNotFound = errors.New("verification not found or expired")
	// ErrInvalidCode is returned when the code doesn't match.
	ErrInvalidCode = errors.New("invalid verification code")
	// ErrTooManyAttempts is returned once MaxVerifyAttempts is reached.
	ErrTooManyAttempts = errors.New("too many verification attempts")
	// ErrTooManyResends is returned once MaxResends is reached.
	ErrTooManyResends = errors.New("too many resend requests")
)

// Verification is a pending magic-link sign-in.
type Verification struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	UserID      primitive.ObjectID `bson:"user_id"`
	Email       string             `bson:"email"`
	CodeHash    string             `bson:"code_hash"`
	Token       string             `bson:"token"`
	ExpiresAt   time.Time          `bson:"expires_at"` // TTL index field
	CreatedAt   time.Time          `bson:"created_at"`
	Attempts    int                `bson:"attempts"`
	ResendCount int                `bson:"resend_count"`
	WindowStart time.Time          `bson:"window_start"`
}

// Store manages verification records. At most one live record exists per user.
type Store struct {
	c      *mongo.Collection
	expiry time.Duration
	now    func() time.Time
}

// New creates a Store. A non-positive expiry selects DefaultExpiry.
func New(db *mongo.Database, expiry time.Duration) *Store {
	if expiry <= 0 {
		expiry = DefaultExpiry
	}
	return &Store{
		c:      db.Collection("email_verifications"),
		expiry: expiry,
		now:    time.Now,
	}
}

// Expiry returns how long a verification stays valid.
func (s *Store) Expiry() time.Duration {
	return s.expiry
}

// EnsureIndexes creates the TTL, token and user indexes.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetName("idx_emailverify_expires_ttl").SetExpireAfterSeconds(0),
		},
		{
			Keys:    bson.D{{Key: "token", Value: 1}},
			Options: options.Index().SetName("idx_emailverify_token").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetName("idx_emailverify_user"),
		},
	})
	return err
}

// CreateResult carries the plain secrets to email. Neither is stored.
type CreateResult struct {
	Code        string
	Token       string
	ResendCount int
}

// Create replaces any pending verification for the user with a new one.
// Each call after the first within ResendWindow counts as a resend.
func (s *Store) Create(ctx context.Context, userID primitive.ObjectID, email string) (*CreateResult, error) {
	now := s.now()

	resendCount := 0
	windowStart := now

	var prev Verification
	err := s.c.FindOne(ctx, bson.M{"user_id": userID}).Decode(&prev)
	switch {
	case err == nil:
		if now.Before(prev.WindowStart.Add(ResendWindow)) {
			if prev.ResendCount >= MaxResends {
				return nil, ErrTooManyResends
			}
			windowStart = prev.WindowStart
			resendCount = prev.ResendCount + 1
		}
	case !errors.Is(err, mongo.ErrNoDocuments):
		return nil, fmt.Errorf("find previous verification: %w", err)
	}

	code, err := generateCode()
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash code: %w", err)
	}
	token, err := generateToken()
	if err != nil {
		return nil, err
	}

	if _, err := s.c.DeleteMany(ctx, bson.M{"user_id": userID}); err != nil {
		return nil, fmt.Errorf("clear previous verification: %w", err)
	}

	v := Verification{
		ID:          primitive.NewObjectID(),
		UserID:      userID,
		Email:       email,
		CodeHash:    string(hash),
		Token:       token,
		ExpiresAt:   now.Add(s.expiry),
		CreatedAt:   now,
		ResendCount: resendCount,
		WindowStart: windowStart,
	}
	if _, err := s.c.InsertOne(ctx, v); err != nil {
		return nil, fmt.Errorf("insert verification: %w", err)
	}

	return &CreateResult{Code: code, Token: token, ResendCount: resendCount}, nil
}

// VerifyCode checks a code for the user and consumes the record on success.
// Every call, right or wrong, counts toward MaxVerifyAttempts.
func (s *Store) VerifyCode(ctx context.Context, userID primitive.ObjectID, code string) (*Verification, error) {
	var v Verification
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"user_id": userID, "expires_at": bson.M{"$gt": s.now()}},
		bson.M{"$inc": bson.M{"attempts": 1}},
	).Decode(&v)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load verification: %w", err)
	}

	// v holds the pre-increment document.
	if v.Attempts >= MaxVerifyAttempts {
		return nil, ErrTooManyAttempts
	}
	if err := bcrypt.CompareHashAndPassword([]byte(v.CodeHash), []byte(code)); err != nil {
		return nil, ErrInvalidCode
	}

	if _, err := s.c.DeleteOne(ctx, bson.M{"_id": v.ID}); err != nil {
		return nil, fmt.Errorf("consume verification: %w", err)
	}
	return &v, nil
}

// VerifyToken consumes a magic-link token. Single use: the record is
// removed in the same operation that finds it.
func (s *Store) VerifyToken(ctx context.Context, token string) (*Verification, error) {
	if token == "" {
		return nil, ErrNotFound
	}
	var v Verification
	err := s.c.FindOneAndDelete(ctx, bson.M{
		"token":      token,
		"expires_at": bson.M{"$gt": s.now()},
	}).Decode(&v)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("consume token: %w", err)
	}
	return &v, nil
}

// generateCode returns a uniformly random 6-digit code (100000-999999).
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

func generateToken() (string, error) {
	b := make([]byte, TokenLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
