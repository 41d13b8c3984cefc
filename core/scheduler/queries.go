package scheduler

import (
	"strings"

	"github.com/kilianp07/pawpal/core/model"
)

// IncompleteTasks returns the tasks not yet completed, in list order.
func (s *Scheduler) IncompleteTasks() []*model.Task {
	return s.TasksByCompletion(false)
}

// CompletedTasks returns the completed tasks, in list order.
func (s *Scheduler) CompletedTasks() []*model.Task {
	return s.TasksByCompletion(true)
}

// TasksByCompletion filters on completion state.
func (s *Scheduler) TasksByCompletion(completed bool) []*model.Task {
	return s.tasks.Filter(func(t *model.Task) bool { return t.IsCompleted() == completed })
}

// TasksByFrequency filters on recurrence.
func (s *Scheduler) TasksByFrequency(f model.Frequency) []*model.Task {
	return s.tasks.Filter(func(t *model.Task) bool { return t.Frequency == f })
}

// TasksByCategory filters on category, ignoring case.
func (s *Scheduler) TasksByCategory(category string) []*model.Task {
	return s.tasks.Filter(func(t *model.Task) bool { return strings.EqualFold(t.Category, category) })
}
