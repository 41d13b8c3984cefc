package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/pawpal/core/model"
	"github.com/kilianp07/pawpal/core/scheduler"
)

func day(s string) time.Time {
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func samplePlan(t *testing.T, date time.Time) *scheduler.DailySchedule {
	t.Helper()
	owner, err := model.NewOwner("Jordan", 1)
	require.NoError(t, err)
	walk, err := model.NewTask("Morning walk", "exercise", 30, 5, model.WithPreferredTime(model.Morning))
	require.NoError(t, err)
	feed, err := model.NewTask("Feeding", "feeding", 10, 4, model.WithPreferredTime(model.Evening))
	require.NoError(t, err)
	groom, err := model.NewTask("Grooming", "grooming", 45, 2)
	require.NoError(t, err)
	s := scheduler.New(owner, model.NewPet("Mochi", "dog", 3), model.NewTaskList(walk, feed, groom), scheduler.DefaultConfig(), nil)
	return s.GeneratePlan(date, false)
}

func TestNewPlanRecord(t *testing.T) {
	plan := samplePlan(t, day("2024-03-01"))
	rec := NewPlanRecord(plan)

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "Jordan", rec.Owner)
	assert.Equal(t, "Mochi", rec.Pet)
	assert.Equal(t, day("2024-03-01"), rec.Date)
	require.Len(t, rec.Scheduled, 2)
	assert.Equal(t, PlanEntry{Label: "morning", Task: "Morning walk", Category: "exercise", DurationMinutes: 30, Priority: 5}, rec.Scheduled[0])
	assert.Equal(t, "evening", rec.Scheduled[1].Label)
	assert.Equal(t, []string{"Grooming"}, rec.Skipped)
	assert.InDelta(t, 40.0/60.0, rec.ScheduledHours, 1e-9)
	assert.Equal(t, 1.0, rec.AvailableHours)
	assert.True(t, rec.Feasible)
	assert.Contains(t, rec.Explanation, "Skipped \"Grooming\"")

	other := NewPlanRecord(plan)
	assert.NotEqual(t, rec.ID, other.ID)
}

func TestQueryMatches(t *testing.T) {
	rec := PlanRecord{
		Date:      day("2024-03-05"),
		Scheduled: []PlanEntry{{Task: "Morning walk"}},
		Skipped:   []string{"Grooming"},
	}
	cases := []struct {
		name string
		q    Query
		want bool
	}{
		{"empty", Query{}, true},
		{"start inclusive", Query{Start: day("2024-03-05")}, true},
		{"after start", Query{Start: day("2024-03-06")}, false},
		{"end inclusive", Query{End: day("2024-03-05")}, true},
		{"before end", Query{End: day("2024-03-04")}, false},
		{"end later in the day", Query{End: day("2024-03-05").Add(-time.Hour)}, false},
		{"scheduled task any case", Query{TaskName: "morning WALK"}, true},
		{"skipped task", Query{TaskName: "grooming"}, true},
		{"unknown task", Query{TaskName: "Vet visit"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.q.Matches(rec))
		})
	}
}

// exerciseStore runs the shared contract against one backend.
func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()
	first := NewPlanRecord(samplePlan(t, day("2024-03-01")))
	second := NewPlanRecord(samplePlan(t, day("2024-03-02")))
	third := PlanRecord{ID: "manual", Date: day("2024-03-03"), Scheduled: []PlanEntry{{Task: "Vet visit"}}}
	for _, r := range []PlanRecord{first, second, third} {
		require.NoError(t, store.Append(ctx, r))
	}

	all, err := store.Query(ctx, Query{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{first.ID, second.ID, "manual"}, []string{all[0].ID, all[1].ID, all[2].ID})
	assert.Equal(t, first.Scheduled, all[0].Scheduled)

	ranged, err := store.Query(ctx, Query{Start: day("2024-03-02"), End: day("2024-03-03")})
	require.NoError(t, err)
	require.Len(t, ranged, 2)
	assert.Equal(t, second.ID, ranged[0].ID)

	byTask, err := store.Query(ctx, Query{TaskName: "vet visit"})
	require.NoError(t, err)
	require.Len(t, byTask, 1)
	assert.Equal(t, "manual", byTask[0].ID)
}

func TestJSONLStore(t *testing.T) {
	store, err := NewJSONLStore(filepath.Join(t.TempDir(), "history.jsonl"))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	exerciseStore(t, store)
}

func TestRotatingJSONLStore(t *testing.T) {
	store, err := NewRotatingJSONLStore(filepath.Join(t.TempDir(), "logs", "history.jsonl"), 1, 2, 1)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	exerciseStore(t, store)
}

func TestSQLiteStore(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	exerciseStore(t, store)
}

func TestSQLiteStoreRejectsDuplicateID(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	rec := PlanRecord{ID: "same", Date: day("2024-03-01")}
	require.NoError(t, store.Append(context.Background(), rec))
	assert.Error(t, store.Append(context.Background(), rec))
}

func TestConfigAndOpen(t *testing.T) {
	var cfg Config
	cfg.SetDefaults()
	assert.Equal(t, BackendJSONL, cfg.Backend)
	assert.Equal(t, "pawpal-history.jsonl", cfg.Path)
	require.NoError(t, cfg.Validate())

	sqliteCfg := Config{Backend: BackendSQLite}
	sqliteCfg.SetDefaults()
	assert.Equal(t, "pawpal-history.db", sqliteCfg.Path)

	assert.Error(t, Config{Backend: "postgres", Path: "x"}.Validate())
	assert.Error(t, Config{Backend: BackendJSONL}.Validate())
	assert.Error(t, Config{Backend: BackendJSONL, Path: "x", MaxSizeMB: -1}.Validate())
	assert.NoError(t, Config{Backend: BackendNone}.Validate())

	dir := t.TempDir()
	cases := []struct {
		cfg  Config
		want Store
	}{
		{Config{Backend: BackendNone}, NopStore{}},
		{Config{Backend: BackendJSONL, Path: filepath.Join(dir, "a.jsonl")}, &JSONLStore{}},
		{Config{Backend: BackendJSONL, Path: filepath.Join(dir, "b.jsonl"), MaxSizeMB: 5}, &RotatingJSONLStore{}},
		{Config{Backend: BackendSQLite, Path: filepath.Join(dir, "c.db")}, &SQLiteStore{}},
	}
	for _, tc := range cases {
		s, err := Open(tc.cfg)
		require.NoError(t, err)
		assert.IsType(t, tc.want, s)
		require.NoError(t, s.Close())
	}
	_, err := Open(Config{Backend: "postgres"})
	assert.Error(t, err)
}
