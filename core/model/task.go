package model

import (
	"fmt"
	"strings"
	"time"
)

const (
	PriorityMin = 1
	PriorityMax = 5
)

// DateLayout is the calendar-date format used in files and reports.
const DateLayout = "2006-01-02"

var now = time.Now

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Today returns the current calendar date.
func Today() time.Time { return Day(now()) }

// Task is a pet care item. Definition fields are treated as immutable once
// constructed; only priority (through SetPriority) and completion change.
type Task struct {
	Name            string
	Category        string
	DurationMinutes int
	PreferredTime   TimeOfDay
	Notes           string
	Frequency       Frequency
	// DueDate is the zero time when the task has no due date.
	DueDate time.Time

	priority  int
	completed bool
}

// TaskOption customises optional Task fields.
type TaskOption func(*Task)

// WithPreferredTime sets the preferred time-of-day bucket.
func WithPreferredTime(t TimeOfDay) TaskOption { return func(tk *Task) { tk.PreferredTime = t } }

// WithNotes attaches free-form notes.
func WithNotes(notes string) TaskOption { return func(tk *Task) { tk.Notes = notes } }

// WithFrequency sets the recurrence. The default is Once.
func WithFrequency(f Frequency) TaskOption { return func(tk *Task) { tk.Frequency = f } }

// WithDueDate sets an explicit due date.
func WithDueDate(d time.Time) TaskOption { return func(tk *Task) { tk.DueDate = Day(d) } }

// WithCompleted sets the initial completion state.
func WithCompleted(done bool) TaskOption { return func(tk *Task) { tk.completed = done } }

// NewTask validates and builds a Task. Recurring tasks without a due date are
// due today.
func NewTask(name, category string, durationMinutes, priority int, opts ...TaskOption) (*Task, error) {
	if durationMinutes <= 0 {
		return nil, invalid("duration", durationMinutes, "must be greater than 0 minutes")
	}
	if err := validatePriority(priority); err != nil {
		return nil, err
	}
	t := &Task{
		Name:            name,
		Category:        category,
		DurationMinutes: durationMinutes,
		Frequency:       Once,
		priority:        priority,
	}
	for _, o := range opts {
		o(t)
	}
	switch t.Frequency {
	case Once, Daily, Weekly, Monthly:
	default:
		return nil, invalid("frequency", t.Frequency, "must be once, daily, weekly or monthly")
	}
	if t.Frequency.IsRecurring() && t.DueDate.IsZero() {
		t.DueDate = Today()
	}
	return t, nil
}

func validatePriority(p int) error {
	if p < PriorityMin || p > PriorityMax {
		return invalid("priority", p, fmt.Sprintf("must be between %d and %d", PriorityMin, PriorityMax))
	}
	return nil
}

// Priority returns the task priority; 5 is the highest.
func (t *Task) Priority() int { return t.priority }

// SetPriority re-validates and updates the priority. On error the task is unchanged.
func (t *Task) SetPriority(p int) error {
	if err := validatePriority(p); err != nil {
		return err
	}
	t.priority = p
	return nil
}

// DurationHours returns the duration in hours.
func (t *Task) DurationHours() float64 { return float64(t.DurationMinutes) / 60.0 }

// HasDueDate reports whether a due date is set.
func (t *Task) HasDueDate() bool { return !t.DueDate.IsZero() }

func (t *Task) IsCompleted() bool { return t.completed }
func (t *Task) MarkComplete()     { t.completed = true }
func (t *Task) MarkIncomplete()   { t.completed = false }

// Complete marks t done and, for recurring tasks, returns the next occurrence.
// The next due date is counted from t's due date, or from today when t has
// none. Once tasks return nil.
func (t *Task) Complete() *Task {
	t.completed = true
	if !t.Frequency.IsRecurring() {
		return nil
	}
	from := t.DueDate
	if from.IsZero() {
		from = Today()
	}
	next := *t
	next.completed = false
	next.DueDate = Day(from).AddDate(0, 0, t.Frequency.Interval())
	return &next
}

// Equal compares the task definitions: name, category, duration, priority and
// frequency. Completion and due date are ignored so pending and completed
// forms of the same task match.
func (t *Task) Equal(o *Task) bool {
	if t == nil || o == nil {
		return t == o
	}
	return t.Name == o.Name &&
		t.Category == o.Category &&
		t.DurationMinutes == o.DurationMinutes &&
		t.priority == o.priority &&
		t.Frequency == o.Frequency
}

// Less orders higher priority first, then shorter duration.
func (t *Task) Less(o *Task) bool {
	if t.priority != o.priority {
		return t.priority > o.priority
	}
	return t.DurationMinutes < o.DurationMinutes
}

// Compare is the three-way form of Less for slices.SortStableFunc.
func Compare(a, b *Task) int {
	switch {
	case a.Less(b):
		return -1
	case b.Less(a):
		return 1
	default:
		return 0
	}
}

func (t *Task) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s, %d min, priority %d", t.Name, t.Category, t.DurationMinutes, t.priority)
	if t.PreferredTime != AnyTime {
		fmt.Fprintf(&b, ", %s", t.PreferredTime)
	}
	if t.Frequency != Once && t.Frequency != "" {
		fmt.Fprintf(&b, ", %s", t.Frequency)
	}
	if t.HasDueDate() {
		fmt.Fprintf(&b, ", due %s", t.DueDate.Format(DateLayout))
	}
	b.WriteString(")")
	if t.completed {
		b.WriteString(" [done]")
	}
	return b.String()
}
