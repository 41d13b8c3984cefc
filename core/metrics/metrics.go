package metrics

import "time"

// PlanEvent summarises one generated daily plan.
type PlanEvent struct {
	PlanID         string
	Date           time.Time
	Owner          string
	Pet            string
	Candidates     int
	Scheduled      int
	Skipped        int
	Conflicts      int
	ScheduledHours float64
	AvailableHours float64
	Utilization    float64
	Feasible       bool
	// BucketHours maps a time-of-day bucket to its scheduled hours.
	BucketHours map[string]float64
	Time        time.Time
}

// PlanSink records generated plans for observability purposes.
type PlanSink interface {
	RecordPlan(ev PlanEvent) error
}

// CompletionEvent is emitted when a task is marked complete.
type CompletionEvent struct {
	Task      string
	Category  string
	Frequency string
	Recurring bool
	// NextDue is zero when no follow-up occurrence was created.
	NextDue time.Time
	Time    time.Time
}

// CompletionRecorder records task completions.
type CompletionRecorder interface {
	RecordCompletion(ev CompletionEvent) error
}

// NopSink discards every event.
type NopSink struct{}

func (NopSink) RecordPlan(PlanEvent) error             { return nil }
func (NopSink) RecordCompletion(CompletionEvent) error { return nil }
