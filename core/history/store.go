package history

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/pawpal/core/model"
	"github.com/kilianp07/pawpal/core/scheduler"
)

// PlanEntry is one scheduled task of a recorded plan.
type PlanEntry struct {
	Label           string `json:"label"`
	Task            string `json:"task"`
	Category        string `json:"category"`
	DurationMinutes int    `json:"duration_minutes"`
	Priority        int    `json:"priority"`
}

// PlanRecord captures one generated plan and how it was reached.
type PlanRecord struct {
	ID             string      `json:"id"`
	Timestamp      time.Time   `json:"timestamp"`
	Date           time.Time   `json:"date"`
	Owner          string      `json:"owner"`
	Pet            string      `json:"pet"`
	Scheduled      []PlanEntry `json:"scheduled"`
	Skipped        []string    `json:"skipped,omitempty"`
	ScheduledHours float64     `json:"scheduled_hours"`
	AvailableHours float64     `json:"available_hours"`
	Feasible       bool        `json:"feasible"`
	Conflicts      []string    `json:"conflicts,omitempty"`
	Explanation    string      `json:"explanation,omitempty"`
}

// NewPlanRecord snapshots d under a fresh id.
func NewPlanRecord(d *scheduler.DailySchedule) PlanRecord {
	rec := PlanRecord{
		ID:             uuid.NewString(),
		Timestamp:      time.Now().UTC(),
		Date:           d.Date,
		ScheduledHours: d.TotalHours(),
		Feasible:       d.IsFeasible(),
		Conflicts:      d.Conflicts(),
		Explanation:    d.Explanation(),
	}
	if d.Owner != nil {
		rec.Owner = d.Owner.Name
		rec.AvailableHours = d.Owner.AvailableHoursPerDay
	}
	if d.Pet != nil {
		rec.Pet = d.Pet.Name
	}
	for _, e := range d.Tasks() {
		rec.Scheduled = append(rec.Scheduled, PlanEntry{
			Label:           e.Label,
			Task:            e.Task.Name,
			Category:        e.Task.Category,
			DurationMinutes: e.Task.DurationMinutes,
			Priority:        e.Task.Priority(),
		})
	}
	for _, t := range d.Skipped() {
		rec.Skipped = append(rec.Skipped, t.Name)
	}
	return rec
}

// Query filters records. Zero fields match everything. Start and End bound
// the plan date, both inclusive.
type Query struct {
	Start time.Time
	End   time.Time
	// TaskName matches, ignoring case, a scheduled or skipped task.
	TaskName string
}

// Matches reports whether r passes every filter of q.
func (q Query) Matches(r PlanRecord) bool {
	day := model.Day(r.Date)
	if !q.Start.IsZero() && day.Before(model.Day(q.Start)) {
		return false
	}
	if !q.End.IsZero() && day.After(model.Day(q.End)) {
		return false
	}
	if q.TaskName == "" {
		return true
	}
	if slices.ContainsFunc(r.Scheduled, func(e PlanEntry) bool { return strings.EqualFold(e.Task, q.TaskName) }) {
		return true
	}
	return slices.ContainsFunc(r.Skipped, func(n string) bool { return strings.EqualFold(n, q.TaskName) })
}

// Store persists PlanRecords and supports querying.
type Store interface {
	Append(ctx context.Context, rec PlanRecord) error
	Query(ctx context.Context, q Query) ([]PlanRecord, error)
	Close() error
}

// NopStore keeps nothing.
type NopStore struct{}

func (NopStore) Append(context.Context, PlanRecord) error            { return nil }
func (NopStore) Query(context.Context, Query) ([]PlanRecord, error) { return nil, nil }
func (NopStore) Close() error                                        { return nil }
