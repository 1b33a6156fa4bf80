// Package analytics holds the pure computations behind the analytics and badge
// endpoints. Nothing here touches the database; callers load rows and pass them in.
package analytics

import (
	"sort"
	"time"
)

// DateLayout is the calendar-date wire format used across the API.
const DateLayout = "2006-01-02"

// Streak summarises consecutive writing days for one user.
type Streak struct {
	Current   int
	Longest   int
	Total     int
	LastEntry *time.Time
}

// Day truncates t to its calendar date, expressed as UTC midnight so that
// differences between two days are always whole multiples of 24h.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysBetween returns a-b in whole calendar days.
func daysBetween(a, b time.Time) int {
	return int(Day(a).Sub(Day(b)).Hours() / 24)
}

// DistinctDescending normalises dates to calendar days, removes duplicates and
// sorts newest first.
func DistinctDescending(dates []time.Time) []time.Time {
	seen := make(map[time.Time]struct{}, len(dates))
	out := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		day := Day(d)
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		out = append(out, day)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].After(out[j]) })
	return out
}

// ComputeStreak calculates the current and longest streak for the given entry
// dates relative to today. The input may be unordered and contain duplicates.
//
// The current streak counts the contiguous run that starts at the most recent
// entry, provided that entry is today or yesterday. A most recent entry dated
// after today still anchors the run.
func ComputeStreak(dates []time.Time, today time.Time) Streak {
	days := DistinctDescending(dates)
	if len(days) == 0 {
		return Streak{}
	}

	last := days[0]
	s := Streak{Total: len(days), LastEntry: &last}

	if daysBetween(today, last) <= 1 {
		s.Current = 1
		for i := 1; i < len(days); i++ {
			if daysBetween(days[i-1], days[i]) != 1 {
				break
			}
			s.Current++
		}
	}

	run := 1
	s.Longest = 1
	for i := 1; i < len(days); i++ {
		if daysBetween(days[i-1], days[i]) == 1 {
			run++
		} else {
			run = 1
		}
		if run > s.Longest {
			s.Longest = run
		}
	}
	return s
}
