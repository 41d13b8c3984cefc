package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/pawpal/core/model"
)

func mustTask(t *testing.T, name, category string, minutes, priority int, opts ...model.TaskOption) *model.Task {
	t.Helper()
	tk, err := model.NewTask(name, category, minutes, priority, opts...)
	require.NoError(t, err)
	return tk
}

func mustOwner(t *testing.T, hours float64) *model.Owner {
	t.Helper()
	o, err := model.NewOwner("Alex", hours)
	require.NoError(t, err)
	return o
}

func TestDailyScheduleAddTask(t *testing.T) {
	d := NewDailySchedule(time.Now(), mustOwner(t, 4), model.NewPet("Buddy", "Dog", 5))
	assert.Equal(t, 0, d.Len())
	assert.Equal(t, 0.0, d.TotalHours())

	feed := mustTask(t, "Feed dog", "feeding", 10, 5)
	walk := mustTask(t, "Walk dog", "walk", 30, 4, model.WithPreferredTime(model.Evening))
	assert.True(t, d.AddTask(feed, "morning"))
	assert.InDelta(t, 10/60.0, d.TotalHours(), 1e-9)
	assert.True(t, d.AddTask(walk, ""))
	assert.InDelta(t, 40/60.0, d.TotalHours(), 1e-9)
	assert.Equal(t, 2, d.Len())

	entries := d.Tasks()
	assert.Equal(t, "morning", entries[0].Label)
	assert.Equal(t, "evening", entries[1].Label)

	brush := mustTask(t, "Brush", "grooming", 5, 2)
	d.AddTask(brush, "")
	assert.Equal(t, model.UnscheduledLabel, d.Tasks()[2].Label)
}

func TestDailyScheduleRemoveTask(t *testing.T) {
	d := NewDailySchedule(time.Now(), mustOwner(t, 4), model.NewPet("Buddy", "Dog", 5))
	morning := mustTask(t, "Morning walk", "walk", 30, 5)
	evening := mustTask(t, "Evening walk", "walk", 30, 4)
	d.AddTask(morning, "morning")
	d.AddTask(evening, "evening")

	// A completed copy of the same definition still matches.
	twin := mustTask(t, "Morning walk", "walk", 30, 5, model.WithCompleted(true))
	assert.True(t, d.RemoveTask(twin))
	assert.Equal(t, 1, d.Len())
	assert.InDelta(t, 0.5, d.TotalHours(), 1e-9)
	assert.Equal(t, "Evening walk", d.Tasks()[0].Task.Name)

	assert.False(t, d.RemoveTask(morning))
	assert.Equal(t, 1, d.Len())
}

func TestDailyScheduleRemoveFirstMatchOnly(t *testing.T) {
	d := NewDailySchedule(time.Now(), mustOwner(t, 4), nil)
	a := mustTask(t, "Feed", "feeding", 10, 5)
	b := mustTask(t, "Feed", "feeding", 10, 5)
	d.AddTask(a, "morning")
	d.AddTask(b, "evening")
	require.True(t, d.RemoveTask(b))
	require.Equal(t, 1, d.Len())
	assert.Equal(t, "evening", d.Tasks()[0].Label)
}

func TestDailyScheduleFeasibility(t *testing.T) {
	d := NewDailySchedule(time.Now(), mustOwner(t, 1), nil)
	d.AddTask(mustTask(t, "a", "x", 30, 3), "")
	d.AddTask(mustTask(t, "b", "x", 30, 3), "")
	assert.True(t, d.IsFeasible(), "exactly the budget is feasible")
	d.AddTask(mustTask(t, "c", "x", 1, 3), "")
	assert.False(t, d.IsFeasible())
}

func TestDisplayScheduleText(t *testing.T) {
	date := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	d := NewDailySchedule(date, mustOwner(t, 2), model.NewPet("Buddy", "Dog", 5))
	d.AddTask(mustTask(t, "Walk", "walk", 30, 5, model.WithPreferredTime(model.Morning)), "")
	d.AddTask(mustTask(t, "Brush", "grooming", 10, 3), "")

	want := "Daily Schedule for Buddy - 2025-01-02\n" +
		"Owner: Alex (available 2.00 hours)\n" +
		"Total scheduled: 0.67 hours\n" +
		"Feasible: yes\n" +
		"1. [morning] Walk - 30 min (priority 5, walk)\n" +
		"2. [Unscheduled] Brush - 10 min (priority 3, grooming)\n"
	assert.Equal(t, want, d.DisplayScheduleText())
	assert.Equal(t, want, d.DisplayScheduleText(), "rendering is deterministic")
}
