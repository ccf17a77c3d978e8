package journey_test

import (
	"strings"
	"testing"
	"time"

	"github.com/asceticjourney/journey/internal/domain/journey"
)

var (
	start = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	end   = time.Date(2025, time.March, 26, 12, 0, 0, 0, time.UTC)
)

// fullDay marks every practice required on day.
func fullDay(day int) map[string]bool {
	m := map[string]bool{}
	for _, w := range journey.RequiredWeeks(day) {
		m[journey.WeekKey(w)] = true
	}
	return m
}

func TestWeekOf(t *testing.T) {
	tests := []struct {
		day  int
		want int
	}{
		{1, 1}, {7, 1}, {8, 2}, {14, 2}, {15, 3}, {84, 12}, {0, 0},
	}
	for _, tt := range tests {
		if got := journey.WeekOf(tt.day); got != tt.want {
			t.Errorf("WeekOf(%d): got %d, want %d", tt.day, got, tt.want)
		}
	}
}

func TestRequiredWeeks_Cumulative(t *testing.T) {
	got := journey.RequiredWeeks(22)
	if len(got) != 4 {
		t.Fatalf("RequiredWeeks(22): got %v, want weeks 1..4", got)
	}
	for i, w := range got {
		if w != i+1 {
			t.Errorf("RequiredWeeks(22)[%d]: got %d, want %d", i, w, i+1)
		}
	}
}

func TestCompute_Empty(t *testing.T) {
	s := journey.Compute(journey.State{
		PracticeCompletions: map[string]map[string]bool{},
		JournalEntries:      map[string]string{},
		StartDate:           start,
	}, end)

	if s.CompletedDays != 0 || s.JournalEntries != 0 || s.TotalWords != 0 ||
		s.AverageWords != 0 || s.TotalPracticesCompleted != 0 {
		t.Errorf("expected all zero counters, got %+v", s)
	}
}

func TestCompute_NilMaps(t *testing.T) {
	s := journey.Compute(journey.State{StartDate: start}, end)
	if s.CompletedDays != 0 || s.AverageWords != 0 {
		t.Errorf("expected zero counters for nil maps, got %+v", s)
	}
}

func TestCompute_JournalWithoutPractices(t *testing.T) {
	s := journey.Compute(journey.State{
		JournalEntries: map[string]string{"1": "hello world"},
		StartDate:      start,
	}, end)

	if s.JournalEntries != 1 {
		t.Errorf("JournalEntries: got %d, want 1", s.JournalEntries)
	}
	if s.TotalWords != 2 {
		t.Errorf("TotalWords: got %d, want 2", s.TotalWords)
	}
	if s.AverageWords != 2 {
		t.Errorf("AverageWords: got %d, want 2", s.AverageWords)
	}
	if s.CompletedDays != 0 {
		t.Errorf("CompletedDays: got %d, want 0 (practices missing)", s.CompletedDays)
	}
}

func TestCompute_DayOneComplete(t *testing.T) {
	s := journey.Compute(journey.State{
		PracticeCompletions: map[string]map[string]bool{"1": {"week1": true}},
		JournalEntries:      map[string]string{"1": "done"},
		StartDate:           start,
	}, end)

	if s.CompletedDays != 1 {
		t.Errorf("CompletedDays: got %d, want 1", s.CompletedDays)
	}
	if s.TotalPracticesCompleted != 1 {
		t.Errorf("TotalPracticesCompleted: got %d, want 1", s.TotalPracticesCompleted)
	}
}

// Day 8 requires weeks 1 and 2, so it contributes two practices. This is the
// cumulative double counting the share number has always shown.
func TestCompute_DayEightCountsBothRequiredWeeks(t *testing.T) {
	s := journey.Compute(journey.State{
		PracticeCompletions: map[string]map[string]bool{"8": {"week1": true, "week2": true}},
		JournalEntries:      map[string]string{"8": "second week"},
		StartDate:           start,
	}, end)

	if s.CompletedDays != 1 {
		t.Errorf("CompletedDays: got %d, want 1", s.CompletedDays)
	}
	if s.TotalPracticesCompleted != 2 {
		t.Errorf("TotalPracticesCompleted: got %d, want 2", s.TotalPracticesCompleted)
	}
}

func TestCompute_FullProgramPracticeTotal(t *testing.T) {
	st := journey.State{
		PracticeCompletions: map[string]map[string]bool{},
		JournalEntries:      map[string]string{},
		StartDate:           start,
	}
	for d := 1; d <= journey.ProgramDays; d++ {
		st.PracticeCompletions[journey.DayKey(d)] = fullDay(d)
		st.JournalEntries[journey.DayKey(d)] = "x"
	}
	s := journey.Compute(st, end)

	if s.CompletedDays != 84 {
		t.Errorf("CompletedDays: got %d, want 84", s.CompletedDays)
	}
	// 7 * (1 + 2 + ... + 12)
	if s.TotalPracticesCompleted != 546 {
		t.Errorf("TotalPracticesCompleted: got %d, want 546", s.TotalPracticesCompleted)
	}
}

func TestCompute_PartialPracticesNotCompleted(t *testing.T) {
	s := journey.Compute(journey.State{
		PracticeCompletions: map[string]map[string]bool{"15": {"week1": true, "week3": true}},
		JournalEntries:      map[string]string{"15": "missing week two"},
		StartDate:           start,
	}, end)

	if s.CompletedDays != 0 {
		t.Errorf("CompletedDays: got %d, want 0", s.CompletedDays)
	}
	if s.TotalPracticesCompleted != 2 {
		t.Errorf("TotalPracticesCompleted: got %d, want 2", s.TotalPracticesCompleted)
	}
}

func TestCompute_WhitespaceJournalIsAbsent(t *testing.T) {
	s := journey.Compute(journey.State{
		PracticeCompletions: map[string]map[string]bool{"1": {"week1": true}},
		JournalEntries:      map[string]string{"1": "  \n\t "},
		StartDate:           start,
	}, end)

	if s.CompletedDays != 0 || s.JournalEntries != 0 || s.TotalWords != 0 {
		t.Errorf("whitespace entry should be absent, got %+v", s)
	}
}

func TestCompute_EntriesOutsideProgramStillCounted(t *testing.T) {
	s := journey.Compute(journey.State{
		JournalEntries: map[string]string{"90": "bonus reflection", "notes": "one"},
		StartDate:      start,
	}, end)

	if s.JournalEntries != 2 {
		t.Errorf("JournalEntries: got %d, want 2", s.JournalEntries)
	}
	if s.TotalWords != 3 {
		t.Errorf("TotalWords: got %d, want 3", s.TotalWords)
	}
}

func TestCompute_AverageRoundsHalfUp(t *testing.T) {
	s := journey.Compute(journey.State{
		JournalEntries: map[string]string{"1": "one two three", "2": "four five"},
		StartDate:      start,
	}, end)

	if s.TotalWords != 5 {
		t.Fatalf("TotalWords: got %d, want 5", s.TotalWords)
	}
	if s.AverageWords != 3 {
		t.Errorf("AverageWords: got %d, want 3 (round(2.5))", s.AverageWords)
	}
}

func TestCompute_WordsSplitOnAnyWhitespace(t *testing.T) {
	s := journey.Compute(journey.State{
		JournalEntries: map[string]string{"3": "  sat\tstill \n\n and   breathed  "},
		StartDate:      start,
	}, end)
	if s.TotalWords != 4 {
		t.Errorf("TotalWords: got %d, want 4", s.TotalWords)
	}
}

func TestCompute_DaysSinceStartRoundsUp(t *testing.T) {
	now := start.Add(83*24*time.Hour + time.Minute)
	s := journey.Compute(journey.State{StartDate: start}, now)
	if s.DaysSinceStart != 84 {
		t.Errorf("DaysSinceStart: got %d, want 84", s.DaysSinceStart)
	}
}

func TestCompute_FormatsDates(t *testing.T) {
	s := journey.Compute(journey.State{StartDate: start}, end)
	if s.StartDate != "January 1, 2025" {
		t.Errorf("StartDate: got %q", s.StartDate)
	}
	if s.EndDate != "March 26, 2025" {
		t.Errorf("EndDate: got %q", s.EndDate)
	}
}

// For every day, completion holds iff all of weeks 1..ceil(d/7) are marked and
// the trimmed journal is non-empty.
func TestIsCompleted_MatchesDefinitionForEveryDay(t *testing.T) {
	for d := 1; d <= journey.ProgramDays; d++ {
		full := journey.State{
			PracticeCompletions: map[string]map[string]bool{journey.DayKey(d): fullDay(d)},
			JournalEntries:      map[string]string{journey.DayKey(d): "entry"},
		}
		if !journey.IsCompleted(full, d) {
			t.Errorf("day %d: expected completed", d)
		}

		missing := fullDay(d)
		delete(missing, journey.WeekKey(journey.WeekOf(d)))
		partial := journey.State{
			PracticeCompletions: map[string]map[string]bool{journey.DayKey(d): missing},
			JournalEntries:      map[string]string{journey.DayKey(d): "entry"},
		}
		if journey.IsCompleted(partial, d) {
			t.Errorf("day %d: completed without its own week", d)
		}

		noJournal := journey.State{
			PracticeCompletions: map[string]map[string]bool{journey.DayKey(d): fullDay(d)},
			JournalEntries:      map[string]string{journey.DayKey(d): " "},
		}
		if journey.IsCompleted(noJournal, d) {
			t.Errorf("day %d: completed without journal", d)
		}
	}
}

func TestCurrentDay_Clamped(t *testing.T) {
	if got := journey.CurrentDay(start, start.Add(-time.Hour)); got != 1 {
		t.Errorf("before start: got %d, want 1", got)
	}
	if got := journey.CurrentDay(start, start.Add(36*time.Hour)); got != 2 {
		t.Errorf("day two: got %d, want 2", got)
	}
	if got := journey.CurrentDay(start, start.Add(400*24*time.Hour)); got != 84 {
		t.Errorf("after end: got %d, want 84", got)
	}
}

func TestShareText(t *testing.T) {
	text := journey.ShareText(journey.Statistics{
		CompletedDays:           80,
		JournalEntries:          82,
		TotalWords:              12345,
		TotalPracticesCompleted: 530,
	})

	for _, want := range []string{
		"I just finished the 84-day ascetic practice program!",
		"80/84 days completed",
		"82 journal entries written",
		"12,345 words journaled",
		"530 practices completed",
		"Start your own journey at asceticjourney.com",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("share text missing %q:\n%s", want, text)
		}
	}
}

func TestFormatCount(t *testing.T) {
	tests := map[int]string{0: "0", 999: "999", 1000: "1,000", 1234567: "1,234,567"}
	for in, want := range tests {
		if got := journey.FormatCount(in); got != want {
			t.Errorf("FormatCount(%d): got %q, want %q", in, got, want)
		}
	}
}

func TestParseState(t *testing.T) {
	st, err := journey.ParseState([]byte(`{
		"practiceCompletions": {"1": {"week1": true}},
		"journalEntries": {"1": "first day"},
		"startDate": "2025-01-01T00:00:00.000Z"
	}`))
	if err != nil {
		t.Fatalf("ParseState: %v", err)
	}
	if !st.StartDate.Equal(start) {
		t.Errorf("StartDate: got %v, want %v", st.StartDate, start)
	}
	if !journey.IsCompleted(st, 1) {
		t.Error("expected day 1 completed")
	}
}

func TestParseState_Errors(t *testing.T) {
	if _, err := journey.ParseState([]byte(`{`)); err == nil {
		t.Error("expected error for malformed JSON")
	}
	if _, err := journey.ParseState([]byte(`{"startDate": "yesterday"}`)); err == nil {
		t.Error("expected error for bad start date")
	}
}
