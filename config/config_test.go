package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/pawpal/core/history"
	"github.com/kilianp07/pawpal/core/model"
	_ "github.com/kilianp07/pawpal/infra/metrics"
)

const sampleYAML = `owner:
  name: Jordan
  available_hours_per_day: 2.5
  preferences:
    walk_style: long
pet:
  name: Mochi
  species: dog
  age: 3
  special_needs: [joint supplement]
tasks_file: tasks.yaml
scheduler:
  periods:
    morning: 3
  crowding_threshold: 4
history:
  backend: sqlite
metrics:
  sinks:
    - type: nop
mqtt:
  broker: "tcp://localhost:1883"
  topic: home/pawpal
  qos: 1
`

func writeConfig(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, "pawpal.yaml", sampleYAML)
	dir := filepath.Dir(path)

	cfg, err := Load(path)
	require.NoError(t, err)

	checks := []struct {
		name string
		got  any
		want any
	}{
		{"owner.name", cfg.Owner.Name, "Jordan"},
		{"owner.hours", cfg.Owner.AvailableHoursPerDay, 2.5},
		{"pet.name", cfg.Pet.Name, "Mochi"},
		{"pet.age", cfg.Pet.Age, 3},
		{"tasks_file", cfg.TasksFile, filepath.Join(dir, "tasks.yaml")},
		{"scheduler.morning", cfg.Scheduler.Periods.Morning, 3.0},
		{"scheduler.evening default", cfg.Scheduler.Periods.Evening, 4.0},
		{"scheduler.crowding", cfg.Scheduler.CrowdingThreshold, 4},
		{"history.backend", cfg.History.Backend, history.BackendSQLite},
		{"history.path", cfg.History.Path, filepath.Join(dir, "pawpal-history.db")},
		{"metrics.sinks", len(cfg.Metrics.Sinks), 1},
		{"metrics.addr", cfg.Metrics.PrometheusAddr, ":9090"},
		{"mqtt.topic", cfg.MQTT.Topic, "home/pawpal"},
		{"mqtt.qos", cfg.MQTT.QoS, byte(1)},
	}
	for _, c := range checks {
		assert.Equal(t, c.want, c.got, c.name)
	}

	owner, err := cfg.Owner.Build()
	require.NoError(t, err)
	assert.Equal(t, "long", owner.Preferences()["walk_style"])
	pet := cfg.Pet.Build()
	assert.Equal(t, []string{"joint supplement"}, pet.SpecialNeeds)
}

func TestLoadSchedulerFile(t *testing.T) {
	path := writeConfig(t, "pawpal.yaml", "owner:\n  name: J\n  available_hours_per_day: 2\npet:\n  name: M\n"+
		"scheduler:\n  periods:\n    morning: 3\nscheduler_file: periods.yaml\n")
	dir := filepath.Dir(path)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "periods.yaml"),
		[]byte("periods:\n  evening: 2.5\ncrowding_threshold: 2\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "periods.yaml"), cfg.SchedulerFile)
	assert.Equal(t, 2.5, cfg.Scheduler.Periods.Evening)
	assert.Equal(t, 4.0, cfg.Scheduler.Periods.Morning, "the file replaces the inline section")
	assert.Equal(t, 2, cfg.Scheduler.CrowdingThreshold)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "periods.yaml"),
		[]byte("periods:\n  evening: 30\n"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)

	require.NoError(t, os.Remove(filepath.Join(dir, "periods.yaml")))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestLoadJSONWithEnvOverrides(t *testing.T) {
	path := writeConfig(t, "pawpal.json", `{"owner":{"name":"Jordan","available_hours_per_day":1},"pet":{"name":"Mochi"},"history":{"backend":"none"}}`)
	t.Setenv("PAWPAL_OWNER__AVAILABLE_HOURS_PER_DAY", "3.5")
	t.Setenv("PAWPAL_SCHEDULER__CROWDING_THRESHOLD", "5")
	t.Setenv("PAWPAL_TASKS_FILE", "/srv/pawpal/tasks.json")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3.5, cfg.Owner.AvailableHoursPerDay)
	assert.Equal(t, 5, cfg.Scheduler.CrowdingThreshold)
	assert.Equal(t, "/srv/pawpal/tasks.json", cfg.TasksFile)
	assert.Equal(t, history.BackendNone, cfg.History.Backend)
	assert.False(t, cfg.MQTT.Enabled())
}

func TestLoadEnvOnly(t *testing.T) {
	t.Setenv("PAWPAL_OWNER__NAME", "Sam")
	t.Setenv("PAWPAL_OWNER__AVAILABLE_HOURS_PER_DAY", "2")
	t.Setenv("PAWPAL_PET__NAME", "Biscuit")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "Sam", cfg.Owner.Name)
	assert.Equal(t, DefaultTasksFile, cfg.TasksFile)
}

func TestLoadErrors(t *testing.T) {
	cases := map[string]struct {
		name string
		data string
	}{
		"format":        {"pawpal.toml", ""},
		"owner missing": {"pawpal.yaml", "pet:\n  name: Mochi\n"},
		"owner hours":   {"pawpal.yaml", "owner:\n  name: J\n  available_hours_per_day: 30\npet:\n  name: Mochi\n"},
		"pet missing":   {"pawpal.yaml", "owner:\n  name: J\n  available_hours_per_day: 2\n"},
		"scheduler":     {"pawpal.yaml", "owner:\n  name: J\n  available_hours_per_day: 2\npet:\n  name: M\nscheduler:\n  periods:\n    morning: 30\n"},
		"history":       {"pawpal.yaml", "owner:\n  name: J\n  available_hours_per_day: 2\npet:\n  name: M\nhistory:\n  backend: redis\n"},
		"metrics":       {"pawpal.yaml", "owner:\n  name: J\n  available_hours_per_day: 2\npet:\n  name: M\nmetrics:\n  sinks:\n    - type: graphite\n"},
		"mqtt qos":      {"pawpal.yaml", "owner:\n  name: J\n  available_hours_per_day: 2\npet:\n  name: M\nmqtt:\n  broker: tcp://x:1883\n  qos: 7\n"},
		"monitoring":    {"pawpal.yaml", "owner:\n  name: J\n  available_hours_per_day: 2\npet:\n  name: M\nmonitoring:\n  traces_sample_rate: 2\n"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.name, tc.data))
			assert.Error(t, err)
		})
	}
}

func TestOwnerBuildValidation(t *testing.T) {
	_, err := OwnerConfig{Name: "J", AvailableHoursPerDay: -1}.Build()
	assert.ErrorIs(t, err, model.ErrValidation)

	t.Setenv("PAWPAL_OWNER__NAME", "Sam")
	t.Setenv("PAWPAL_OWNER__AVAILABLE_HOURS_PER_DAY", "NaN")
	t.Setenv("PAWPAL_PET__NAME", "Biscuit")
	_, err = Load("")
	assert.ErrorIs(t, err, model.ErrValidation)
}
