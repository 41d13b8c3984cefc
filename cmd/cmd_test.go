package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTasks = `tasks:
  - name: Morning walk
    category: exercise
    duration_minutes: 30
    priority: 5
    preferred_time: morning
    frequency: daily
    due_date: "2024-03-01"
  - name: Breakfast
    category: feeding
    duration_minutes: 10
    priority: 5
    preferred_time: morning
  - name: Grooming
    category: grooming
    duration_minutes: 90
    priority: 2
`

const testConfig = `owner:
  name: Jordan
  available_hours_per_day: 1
pet:
  name: Mochi
  species: dog
tasks_file: tasks.yaml
history:
  backend: jsonl
  path: history.jsonl
`

func setup(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tasks.yaml"), []byte(testTasks), 0o644))
	path := filepath.Join(dir, "pawpal.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestPlanText(t *testing.T) {
	cfg := setup(t)
	out, err := run(t, "--config", cfg, "plan", "--date", "2024-03-01", "--explain")
	require.NoError(t, err)
	assert.Contains(t, out, "Daily Schedule for Mochi - 2024-03-01")
	assert.Contains(t, out, "1. [morning] Breakfast - 10 min (priority 5, feeding)")
	assert.Contains(t, out, "2. [morning] Morning walk - 30 min (priority 5, exercise)")
	assert.Contains(t, out, "Skipped:\n  - Grooming")
	assert.Contains(t, out, "Time used: 0.67h of 1.00h")
}

func TestPlanJSONAndCSV(t *testing.T) {
	cfg := setup(t)
	out, err := run(t, "-c", cfg, "plan", "--date", "2024-03-01", "--format", "json")
	require.NoError(t, err)
	var doc struct {
		Date  string `json:"date"`
		Tasks []struct {
			Task string `json:"task"`
		} `json:"tasks"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "2024-03-01", doc.Date)
	assert.Len(t, doc.Tasks, 2)

	out, err = run(t, "-c", cfg, "plan", "--date", "2024-03-01", "-f", "csv")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "morning,Breakfast,feeding,10,5", lines[1])
}

func TestPlanFlagErrors(t *testing.T) {
	cfg := setup(t)
	_, err := run(t, "-c", cfg, "plan", "--date", "03/01/2024")
	assert.Error(t, err)
	_, err = run(t, "-c", cfg, "plan", "--format", "xml")
	assert.Error(t, err)
	_, err = run(t, "-c", cfg, "plan", "--publish")
	assert.Error(t, err)
}

func TestCompleteThenHistory(t *testing.T) {
	cfg := setup(t)
	out, err := run(t, "-c", cfg, "complete", "morning", "walk")
	require.NoError(t, err)
	assert.Contains(t, out, "Completed Morning walk")
	assert.Contains(t, out, "Next daily occurrence due 2024-03-02")

	data, err := os.ReadFile(filepath.Join(filepath.Dir(cfg), "tasks.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "name: Morning walk"))

	_, err = run(t, "-c", cfg, "complete", "Vet")
	assert.Error(t, err)

	out, err = run(t, "-c", cfg, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No plans recorded.")

	_, err = run(t, "-c", cfg, "plan", "--date", "2024-03-01")
	require.NoError(t, err)
	_, err = run(t, "-c", cfg, "plan", "--date", "2024-03-05")
	require.NoError(t, err)

	out, err = run(t, "-c", cfg, "history", "--from", "2024-03-02", "--task", "grooming")
	require.NoError(t, err)
	assert.Contains(t, out, "2024-03-05  Mochi")
	assert.NotContains(t, out, "2024-03-01")

	_, err = run(t, "-c", cfg, "history", "--to", "yesterday")
	assert.Error(t, err)
}

func TestConflicts(t *testing.T) {
	cfg := setup(t)
	out, err := run(t, "-c", cfg, "conflicts")
	require.NoError(t, err)
	assert.Equal(t, "No conflicts detected.\n", out)
}
