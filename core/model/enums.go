package model

import "strings"

// TimeOfDay is a coarse preference bucket, not a clock time.
type TimeOfDay string

const (
	Morning   TimeOfDay = "morning"
	Afternoon TimeOfDay = "afternoon"
	Evening   TimeOfDay = "evening"
	// AnyTime means the task has no preferred bucket.
	AnyTime TimeOfDay = ""
)

// UnscheduledLabel is the schedule label used for tasks without a preferred time.
const UnscheduledLabel = "Unscheduled"

// ParseTimeOfDay accepts morning, afternoon, evening and the empty string or
// "none"/"unscheduled" for AnyTime. Matching is case-insensitive.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "morning":
		return Morning, nil
	case "afternoon":
		return Afternoon, nil
	case "evening":
		return Evening, nil
	case "", "none", "unscheduled", "any":
		return AnyTime, nil
	default:
		return AnyTime, invalid("preferred time", s, "must be morning, afternoon, evening or none")
	}
}

// Order ranks buckets through the day: morning=1 ... none=4.
func (t TimeOfDay) Order() int {
	switch t {
	case Morning:
		return 1
	case Afternoon:
		return 2
	case Evening:
		return 3
	default:
		return 4
	}
}

// Bucket returns the conflict-detection bucket name.
func (t TimeOfDay) Bucket() string {
	if t == AnyTime {
		return "unscheduled"
	}
	return string(t)
}

// Label returns the schedule label for the bucket.
func (t TimeOfDay) Label() string {
	if t == AnyTime {
		return UnscheduledLabel
	}
	return string(t)
}

func (t TimeOfDay) String() string { return t.Bucket() }

// Frequency defines how often a task recurs.
type Frequency string

const (
	Once    Frequency = "once"
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
)

// ParseFrequency validates s. The empty string maps to Once.
func ParseFrequency(s string) (Frequency, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "once":
		return Once, nil
	case "daily":
		return Daily, nil
	case "weekly":
		return Weekly, nil
	case "monthly":
		return Monthly, nil
	default:
		return Once, invalid("frequency", s, "must be once, daily, weekly or monthly")
	}
}

// IsRecurring reports whether completing the task spawns a next occurrence.
func (f Frequency) IsRecurring() bool {
	switch f {
	case Daily, Weekly, Monthly:
		return true
	default:
		return false
	}
}

// Interval returns the day offset between occurrences. Monthly is a fixed
// 30 days, not calendar-month arithmetic.
func (f Frequency) Interval() (days int) {
	switch f {
	case Daily:
		return 1
	case Weekly:
		return 7
	case Monthly:
		return 30
	default:
		return 0
	}
}
