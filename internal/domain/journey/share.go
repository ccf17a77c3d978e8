package journey

import (
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// ShareTitle accompanies the share text on native share sheets.
	ShareTitle = "Ascetic Journey - Journey Completed!"
	// SiteHost is promoted in the share text and on the card footer.
	SiteHost = "asceticjourney.com"
)

var printer = message.NewPrinter(language.English)

// FormatCount groups digits the way en-US does (12,345).
func FormatCount(n int) string {
	return printer.Sprintf("%d", n)
}

// ShareText is the fixed message used for clipboard and native share payloads.
func ShareText(s Statistics) string {
	return fmt.Sprintf(`I just finished the 84-day ascetic practice program! 🎉

📅 %d/%d days completed
✍️ %d journal entries written
📝 %s words journaled
🏋️ %d practices completed

Start your own journey at %s`,
		s.CompletedDays, ProgramDays,
		s.JournalEntries,
		FormatCount(s.TotalWords),
		s.TotalPracticesCompleted,
		SiteHost,
	)
}

// stateDoc is the JSON shape of exported application state.
type stateDoc struct {
	PracticeCompletions map[string]map[string]bool `json:"practiceCompletions"`
	JournalEntries      map[string]string          `json:"journalEntries"`
	StartDate           string                     `json:"startDate"`
}

var startLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// ParseState decodes exported state:
//
//	{"practiceCompletions": {"1": {"week1": true}}, "journalEntries": {"1": "..."}, "startDate": "2025-01-01T00:00:00.000Z"}
func ParseState(data []byte) (State, error) {
	var doc stateDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return State{}, fmt.Errorf("decode state: %w", err)
	}
	start, err := ParseStartDate(doc.StartDate)
	if err != nil {
		return State{}, err
	}
	return State{
		PracticeCompletions: doc.PracticeCompletions,
		JournalEntries:      doc.JournalEntries,
		StartDate:           start,
	}, nil
}

// ParseStartDate accepts an ISO-8601 timestamp or a bare date.
func ParseStartDate(v string) (time.Time, error) {
	for _, layout := range startLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid start date %q", v)
}
