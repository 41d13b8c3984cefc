package scheduler

import (
	"fmt"
	"strings"

	"github.com/kilianp07/pawpal/core/model"
)

// ConflictDetector flags overcrowded or overflowing time buckets. It never
// fails: every finding is an advisory string.
type ConflictDetector struct {
	cfg Config
}

// NewConflictDetector applies defaults to cfg and returns a detector.
func NewConflictDetector(cfg Config) ConflictDetector {
	cfg.SetDefaults()
	return ConflictDetector{cfg: cfg}
}

// PeriodLength returns the typical length in hours of the bucket.
func (d ConflictDetector) PeriodLength(t model.TimeOfDay) float64 {
	switch t {
	case model.Morning:
		return d.cfg.Periods.Morning
	case model.Afternoon:
		return d.cfg.Periods.Afternoon
	case model.Evening:
		return d.cfg.Periods.Evening
	default:
		return d.cfg.Periods.Unscheduled
	}
}

type bucket struct {
	when    model.TimeOfDay
	tasks   []*model.Task
	minutes int
}

// Detect groups tasks by preferred time and returns warnings in order of
// first appearance of each bucket. A bucket holding at most one task never
// conflicts. Reaching the period length exactly is not an overflow.
func (d ConflictDetector) Detect(tasks []*model.Task) []string {
	var order []model.TimeOfDay
	buckets := make(map[model.TimeOfDay]*bucket)
	for _, t := range tasks {
		if t == nil {
			continue
		}
		b, ok := buckets[t.PreferredTime]
		if !ok {
			b = &bucket{when: t.PreferredTime}
			buckets[t.PreferredTime] = b
			order = append(order, t.PreferredTime)
		}
		b.tasks = append(b.tasks, t)
		b.minutes += t.DurationMinutes
	}

	var warnings []string
	for _, when := range order {
		b := buckets[when]
		if len(b.tasks) <= 1 {
			continue
		}
		period := d.PeriodLength(when)
		total := float64(b.minutes) / 60.0
		switch {
		case float64(b.minutes) > period*60:
			warnings = append(warnings, fmt.Sprintf(
				"CONFLICT in %s: %d tasks need %.2fh, which exceeds the typical %.1fh period (%s)",
				when.Bucket(), len(b.tasks), total, period, names(b.tasks)))
		case len(b.tasks) > d.cfg.CrowdingThreshold && when != model.AnyTime:
			warnings = append(warnings, fmt.Sprintf(
				"NOTICE in %s: %d tasks compete for attention in one period (%s); consider spreading them out",
				when.Bucket(), len(b.tasks), names(b.tasks)))
		}
	}
	return warnings
}

func names(tasks []*model.Task) string {
	n := make([]string, len(tasks))
	for i, t := range tasks {
		n[i] = t.Name
	}
	return strings.Join(n, ", ")
}
