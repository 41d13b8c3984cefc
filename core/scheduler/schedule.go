package scheduler

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/kilianp07/pawpal/core/model"
)

// ScheduledTask is one placement in a DailySchedule.
type ScheduledTask struct {
	Label string      `json:"label"`
	Task  *model.Task `json:"-"`
}

// DailySchedule is the ordered plan for one day. Owner and Pet are shared
// read-only references. The total duration is kept in step with every
// AddTask/RemoveTask.
type DailySchedule struct {
	Date  time.Time
	Owner *model.Owner
	Pet   *model.Pet

	entries      []ScheduledTask
	totalMinutes int
	explanation  string
	skipped      []*model.Task
	conflicts    []string
}

// NewDailySchedule returns an empty schedule for date.
func NewDailySchedule(date time.Time, owner *model.Owner, pet *model.Pet) *DailySchedule {
	return &DailySchedule{Date: model.Day(date), Owner: owner, Pet: pet}
}

// AddTask appends task under label. An empty label uses the task's
// preferred time, or "Unscheduled".
func (d *DailySchedule) AddTask(task *model.Task, label string) bool {
	if task == nil {
		return false
	}
	if label == "" {
		label = task.PreferredTime.Label()
	}
	d.entries = append(d.entries, ScheduledTask{Label: label, Task: task})
	d.totalMinutes += task.DurationMinutes
	return true
}

// RemoveTask removes the first entry whose task equals task (completion and
// due date are ignored). It reports whether a match was found.
func (d *DailySchedule) RemoveTask(task *model.Task) bool {
	for i, e := range d.entries {
		if e.Task.Equal(task) {
			d.entries = slices.Delete(d.entries, i, i+1)
			d.totalMinutes -= e.Task.DurationMinutes
			return true
		}
	}
	return false
}

// Tasks returns the placements in insertion order.
func (d *DailySchedule) Tasks() []ScheduledTask { return slices.Clone(d.entries) }

// Len returns the number of scheduled tasks.
func (d *DailySchedule) Len() int { return len(d.entries) }

// TotalHours returns the scheduled duration in hours.
func (d *DailySchedule) TotalHours() float64 { return float64(d.totalMinutes) / 60.0 }

// TotalMinutes returns the scheduled duration in minutes.
func (d *DailySchedule) TotalMinutes() int { return d.totalMinutes }

func (d *DailySchedule) availableHours() float64 {
	if d.Owner == nil {
		return 0
	}
	return d.Owner.AvailableHoursPerDay
}

// IsFeasible reports whether the scheduled time fits the owner's budget.
// Using exactly the whole budget is feasible.
func (d *DailySchedule) IsFeasible() bool {
	return d.TotalHours() <= d.availableHours()
}

// Explanation returns the reasoning trace attached by the scheduler.
func (d *DailySchedule) Explanation() string { return d.explanation }

// Skipped returns the tasks rejected because they did not fit the budget.
func (d *DailySchedule) Skipped() []*model.Task { return slices.Clone(d.skipped) }

// Conflicts returns the advisories raised while the plan was built.
func (d *DailySchedule) Conflicts() []string { return slices.Clone(d.conflicts) }

// DisplayScheduleText renders the schedule as a plain-text report. Tasks
// appear in insertion order.
func (d *DailySchedule) DisplayScheduleText() string {
	var b strings.Builder
	petName, ownerName := "", ""
	if d.Pet != nil {
		petName = d.Pet.Name
	}
	if d.Owner != nil {
		ownerName = d.Owner.Name
	}
	fmt.Fprintf(&b, "Daily Schedule for %s - %s\n", petName, d.Date.Format(model.DateLayout))
	fmt.Fprintf(&b, "Owner: %s (available %.2f hours)\n", ownerName, d.availableHours())
	fmt.Fprintf(&b, "Total scheduled: %.2f hours\n", d.TotalHours())
	if d.IsFeasible() {
		b.WriteString("Feasible: yes\n")
	} else {
		b.WriteString("Feasible: no (over budget)\n")
	}
	for i, e := range d.entries {
		t := e.Task
		fmt.Fprintf(&b, "%d. [%s] %s - %d min (priority %d, %s)\n",
			i+1, e.Label, t.Name, t.DurationMinutes, t.Priority(), t.Category)
	}
	return b.String()
}

func (d *DailySchedule) String() string {
	return fmt.Sprintf("DailySchedule(%s, %d tasks, %.2fh)", d.Date.Format(model.DateLayout), len(d.entries), d.TotalHours())
}
