package model

import (
	"slices"
	"strings"
)

// TaskList is the owned, ordered task collection a scheduler works on.
// It is not safe for concurrent use.
type TaskList struct {
	tasks []*Task
}

// NewTaskList wraps tasks, keeping their order.
func NewTaskList(tasks ...*Task) *TaskList {
	return &TaskList{tasks: slices.Clone(tasks)}
}

// Append adds t at the end of the list.
func (l *TaskList) Append(t *Task) { l.tasks = append(l.tasks, t) }

// Len returns the number of tasks.
func (l *TaskList) Len() int { return len(l.tasks) }

// All returns the tasks in source order. The slice is a copy; the tasks are shared.
func (l *TaskList) All() []*Task { return slices.Clone(l.tasks) }

// Filter returns the tasks matching keep, in source order.
func (l *TaskList) Filter(keep func(*Task) bool) []*Task {
	var out []*Task
	for _, t := range l.tasks {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

// FindPending returns the first incomplete task whose name matches,
// ignoring case, or nil.
func (l *TaskList) FindPending(name string) *Task {
	for _, t := range l.tasks {
		if !t.completed && strings.EqualFold(t.Name, name) {
			return t
		}
	}
	return nil
}
