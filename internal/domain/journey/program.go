// Package journey holds the 84-day program structure and the statistics
// derived from a user's practice completions and journal entries.
package journey

import (
	"fmt"
	"strconv"
)

const (
	// ProgramDays is the fixed length of the journey.
	ProgramDays = 84
	// DaysPerWeek partitions the program into weeks.
	DaysPerWeek = 7
	// ProgramWeeks is ProgramDays / DaysPerWeek.
	ProgramWeeks = ProgramDays / DaysPerWeek
)

// WeekOf returns the 1-based week containing day (ceil(day/7)).
func WeekOf(day int) int {
	if day <= 0 {
		return 0
	}
	return (day + DaysPerWeek - 1) / DaysPerWeek
}

// RequiredWeeks returns the weeks whose practice must be done on day.
// Practices unlock cumulatively, so day 8 requires weeks 1 and 2.
func RequiredWeeks(day int) []int {
	n := WeekOf(day)
	weeks := make([]int, n)
	for i := range weeks {
		weeks[i] = i + 1
	}
	return weeks
}

// WeekKey is the identifier used in a day's practice map ("week3").
func WeekKey(week int) string {
	return fmt.Sprintf("week%d", week)
}

// DayKey is the key used for a day in both practice and journal maps.
func DayKey(day int) string {
	return strconv.Itoa(day)
}
