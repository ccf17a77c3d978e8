// internal/domain/models/journey.go
package models

import (
	"time"

	"github.com/asceticjourney/journey/internal/domain/journey"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Journey is one user's 84-day program. Practice and journal maps are keyed
// by day number as a decimal string ("1".."84"); practice days map
// "week<n>" to whether that week's practice was done.
type Journey struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID primitive.ObjectID `bson:"user_id" json:"user_id"`

	StartDate           time.Time                  `bson:"start_date" json:"start_date"`
	PracticeCompletions map[string]map[string]bool `bson:"practice_completions,omitempty" json:"practice_completions,omitempty"`
	JournalEntries      map[string]string          `bson:"journal_entries,omitempty" json:"journal_entries,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// State returns the aggregator input for this journey.
func (j Journey) State() journey.State {
	return journey.State{
		PracticeCompletions: j.PracticeCompletions,
		JournalEntries:      j.JournalEntries,
		StartDate:           j.StartDate,
	}
}
