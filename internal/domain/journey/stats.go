package journey

import (
	"math"
	"strings"
	"time"
)

// DateLayout matches the long en-US date used on the completion view and card.
const DateLayout = "January 2, 2006"

// State is the externally owned progress a user has recorded.
// Keys of both maps are decimal day numbers; they are not validated.
type State struct {
	PracticeCompletions map[string]map[string]bool
	JournalEntries      map[string]string
	StartDate           time.Time
}

// Statistics are the derived counters shown on screen, on the card and in
// the share text.
type Statistics struct {
	CompletedDays           int    `json:"completedDays"`
	JournalEntries          int    `json:"journalEntries"`
	TotalWords              int    `json:"totalWords"`
	AverageWords            int    `json:"averageWords"`
	TotalPracticesCompleted int    `json:"totalPracticesCompleted"`
	DaysSinceStart          int    `json:"daysSinceStart"`
	StartDate               string `json:"startDate"`
	EndDate                 string `json:"endDate"`
}

// Compute derives Statistics from s as of now. A zero now means the wall clock.
// It is recomputed from scratch on every call.
func Compute(s State, now time.Time) Statistics {
	if now.IsZero() {
		now = time.Now()
	}

	completed := 0
	practices := 0
	for day := 1; day <= ProgramDays; day++ {
		done := practicesDone(s.PracticeCompletions[DayKey(day)], day)
		// Every day still counts each required week it has marked, so a week's
		// practice is counted again on each later day that requires it.
		practices += done
		if done == WeekOf(day) && hasText(s.JournalEntries[DayKey(day)]) {
			completed++
		}
	}

	entries, words := 0, 0
	for _, text := range s.JournalEntries {
		if !hasText(text) {
			continue
		}
		entries++
		words += len(strings.Fields(text))
	}

	avg := 0
	if entries > 0 {
		avg = int(math.Floor(float64(words)/float64(entries) + 0.5))
	}

	loc := now.Location()
	return Statistics{
		CompletedDays:           completed,
		JournalEntries:          entries,
		TotalWords:              words,
		AverageWords:            avg,
		TotalPracticesCompleted: practices,
		DaysSinceStart:          DaysBetween(s.StartDate, now),
		StartDate:               s.StartDate.In(loc).Format(DateLayout),
		EndDate:                 now.Format(DateLayout),
	}
}

// DaysBetween returns ceil((to - from) / 24h).
func DaysBetween(from, to time.Time) int {
	return int(math.Ceil(float64(to.Sub(from)) / float64(24*time.Hour)))
}

// IsCompleted reports whether day has every cumulatively required practice
// marked and a non-empty journal entry.
func IsCompleted(s State, day int) bool {
	if day < 1 || day > ProgramDays {
		return false
	}
	key := DayKey(day)
	return practicesDone(s.PracticeCompletions[key], day) == WeekOf(day) &&
		hasText(s.JournalEntries[key])
}

// CurrentDay is the 1-based program day for now, clamped to [1, ProgramDays].
func CurrentDay(start, now time.Time) int {
	d := int(now.Sub(start)/(24*time.Hour)) + 1
	switch {
	case d < 1:
		return 1
	case d > ProgramDays:
		return ProgramDays
	}
	return d
}

func practicesDone(flags map[string]bool, day int) int {
	n := 0
	for _, week := range RequiredWeeks(day) {
		if flags[WeekKey(week)] {
			n++
		}
	}
	return n
}

func hasText(s string) bool {
	return strings.TrimSpace(s) != ""
}
