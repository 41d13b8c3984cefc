package scheduler

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/kilianp07/pawpal/core/logger"
	"github.com/kilianp07/pawpal/core/model"
)

// Scheduler turns the owner's task list into a DailySchedule. It owns the
// task list: CompleteTask appends regenerated recurring tasks to it. A
// Scheduler is meant for a single caller at a time.
type Scheduler struct {
	owner    *model.Owner
	pet      *model.Pet
	tasks    *model.TaskList
	detector ConflictDetector
	logger   logger.Logger

	explanationLog []string
	tracing        bool
}

// New creates a Scheduler. A nil task list starts empty; a nil logger
// discards output.
func New(owner *model.Owner, pet *model.Pet, tasks *model.TaskList, cfg Config, log logger.Logger) *Scheduler {
	if tasks == nil {
		tasks = model.NewTaskList()
	}
	return &Scheduler{
		owner:    owner,
		pet:      pet,
		tasks:    tasks,
		detector: NewConflictDetector(cfg),
		logger:   logger.OrNop(log),
	}
}

// Owner returns the owner the plans are built for.
func (s *Scheduler) Owner() *model.Owner { return s.owner }

// Pet returns the pet the plans are built for.
func (s *Scheduler) Pet() *model.Pet { return s.pet }

// Tasks returns the live task list.
func (s *Scheduler) Tasks() *model.TaskList { return s.tasks }

// explain records a trace line while GeneratePlan runs. Standalone calls to
// the pipeline steps only log it, so ExplainReasoning keeps describing the
// last plan.
func (s *Scheduler) explain(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	if s.tracing {
		s.explanationLog = append(s.explanationLog, line)
	}
	s.logger.Debugf("%s", line)
}

func (s *Scheduler) availableHours() float64 {
	if s.owner == nil {
		return 0
	}
	return s.owner.AvailableHoursPerDay
}

// GeneratePlan builds a fresh schedule for date (today when zero). Completed
// tasks are left out unless includeCompleted is set. It never fails; an
// empty working set yields an empty, feasible schedule.
func (s *Scheduler) GeneratePlan(date time.Time, includeCompleted bool) *DailySchedule {
	if date.IsZero() {
		date = model.Today()
	}
	s.explanationLog = nil
	s.tracing = true
	defer func() { s.tracing = false }()
	ownerName, petName := "", ""
	if s.owner != nil {
		ownerName = s.owner.Name
	}
	if s.pet != nil {
		petName = s.pet.Name
	}
	s.explain("Planning %s for %s (owner %s, %.2f hours available)",
		date.Format(model.DateLayout), petName, ownerName, s.availableHours())

	var working []*model.Task
	if includeCompleted {
		working = s.tasks.All()
		s.explain("Considering all %d tasks, completed ones included", len(working))
	} else {
		working = s.IncompleteTasks()
		s.explain("Considering %d incomplete tasks (%d completed tasks left out)",
			len(working), s.tasks.Len()-len(working))
	}

	prioritized := s.PrioritizeTasks(working)
	selected, skipped := s.fit(prioritized)
	optimized := s.OptimizeSchedule(selected)

	conflicts := s.detector.Detect(optimized)
	if len(conflicts) == 0 {
		s.explain("No scheduling conflicts detected")
	} else {
		s.explain("Detected %d scheduling conflict(s):", len(conflicts))
		for _, c := range conflicts {
			s.explain("  %s", c)
			s.logger.Warnf("%s", c)
		}
	}

	schedule := NewDailySchedule(date, s.owner, s.pet)
	for _, t := range optimized {
		schedule.AddTask(t, t.PreferredTime.Label())
	}
	schedule.skipped = skipped
	schedule.conflicts = conflicts
	schedule.explanation = s.ExplainReasoning()

	s.logger.Infof("plan for %s: %d scheduled, %d skipped, %.2fh used, %d conflicts",
		schedule.Date.Format(model.DateLayout), schedule.Len(), len(skipped), schedule.TotalHours(), len(conflicts))
	return schedule
}

// PrioritizeTasks returns tasks stable-sorted by priority (highest first),
// then duration (shortest first). A nil slice means the incomplete tasks of
// the list. The input is not modified.
func (s *Scheduler) PrioritizeTasks(tasks []*model.Task) []*model.Task {
	if tasks == nil {
		tasks = s.IncompleteTasks()
	}
	sorted := slices.Clone(tasks)
	slices.SortStableFunc(sorted, model.Compare)
	if len(sorted) > 0 {
		top := sorted[0]
		s.explain("Prioritized %d tasks; top task is %q (priority %d, %d min)",
			len(sorted), top.Name, top.Priority(), top.DurationMinutes)
	} else {
		s.explain("No tasks to prioritize")
	}
	return sorted
}

// FitToTimeConstraint walks sorted in order and keeps each task that still
// fits the owner's budget. A rejected task is never reconsidered.
func (s *Scheduler) FitToTimeConstraint(sorted []*model.Task) []*model.Task {
	selected, _ := s.fit(sorted)
	return selected
}

func (s *Scheduler) fit(sorted []*model.Task) (selected, skipped []*model.Task) {
	available := s.availableHours()
	used := 0
	for _, t := range sorted {
		// Same hour comparison as DailySchedule.IsFeasible.
		if float64(used+t.DurationMinutes)/60.0 <= available {
			used += t.DurationMinutes
			selected = append(selected, t)
			s.explain("Included %q (%d min, priority %d); %.2fh used so far",
				t.Name, t.DurationMinutes, t.Priority(), float64(used)/60)
		} else {
			skipped = append(skipped, t)
			s.explain("Skipped %q (%d min, priority %d): only %.2fh left",
				t.Name, t.DurationMinutes, t.Priority(), available-float64(used)/60)
		}
	}
	if available > 0 {
		s.explain("Time used: %.2fh of %.2fh (%.0f%% utilization)",
			float64(used)/60, available, float64(used)/60/available*100)
	} else {
		s.explain("Time used: %.2fh of 0.00h available", float64(used)/60)
	}
	return selected, skipped
}

// OptimizeSchedule re-sorts the selected tasks through the day: bucket order
// (morning, afternoon, evening, unscheduled), then priority descending, then
// duration ascending.
func (s *Scheduler) OptimizeSchedule(selected []*model.Task) []*model.Task {
	ordered := slices.Clone(selected)
	slices.SortFunc(ordered, func(a, b *model.Task) int {
		if a.PreferredTime.Order() != b.PreferredTime.Order() {
			return a.PreferredTime.Order() - b.PreferredTime.Order()
		}
		if a.Priority() != b.Priority() {
			return b.Priority() - a.Priority()
		}
		return a.DurationMinutes - b.DurationMinutes
	})
	if len(ordered) > 0 {
		labels := make([]string, len(ordered))
		for i, t := range ordered {
			labels[i] = t.PreferredTime.Label() + ": " + t.Name
		}
		s.explain("Ordered by time of day: %s", strings.Join(labels, " -> "))
	}
	return ordered
}

// DetectConflicts runs conflict detection on tasks, or on the incomplete
// tasks of the list when tasks is nil.
func (s *Scheduler) DetectConflicts(tasks []*model.Task) []string {
	if tasks == nil {
		tasks = s.IncompleteTasks()
	}
	return s.detector.Detect(tasks)
}

// CompleteTask marks task done. For a recurring task the next occurrence is
// appended to the task list and returned; otherwise it returns nil.
func (s *Scheduler) CompleteTask(task *model.Task) *model.Task {
	next := task.Complete()
	if next == nil {
		s.logger.Infof("completed %q", task.Name)
		return nil
	}
	s.tasks.Append(next)
	s.logger.Infof("completed %q; next %s occurrence due %s",
		task.Name, next.Frequency, next.DueDate.Format(model.DateLayout))
	return next
}

// ExplainReasoning returns the explanation trace of the last plan.
func (s *Scheduler) ExplainReasoning() string {
	return strings.Join(s.explanationLog, "\n")
}
