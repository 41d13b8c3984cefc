package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/pawpal/core/history"
	"github.com/kilianp07/pawpal/core/metrics"
	"github.com/kilianp07/pawpal/core/scheduler"
	"github.com/kilianp07/pawpal/infra/monitoring"
	"github.com/kilianp07/pawpal/infra/mqtt"
)

// EnvPrefix marks environment overrides. A double underscore separates
// nested keys: PAWPAL_OWNER__AVAILABLE_HOURS_PER_DAY=3.
const EnvPrefix = "PAWPAL_"

const DefaultTasksFile = "tasks.yaml"

type Config struct {
	Owner         OwnerConfig       `json:"owner"`
	Pet           PetConfig         `json:"pet"`
	TasksFile     string            `json:"tasks_file"`
	Scheduler     scheduler.Config  `json:"scheduler"`
	// SchedulerFile names a standalone scheduler config (yaml or json) that
	// replaces the scheduler section when set.
	SchedulerFile string            `json:"scheduler_file"`
	History       history.Config    `json:"history"`
	Metrics       metrics.Config    `json:"metrics"`
	MQTT          mqtt.Config       `json:"mqtt"`
	Monitoring    monitoring.Config `json:"monitoring"`
}

// Load reads the file at path, applies environment overrides, fills defaults
// and validates the result. An empty path loads from the environment only.
// Relative file paths in the config are resolved against the config's
// directory.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		ext := strings.ToLower(filepath.Ext(path))
		var parser koanf.Parser
		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if path != "" {
		cfg.resolvePaths(filepath.Dir(path))
	}
	if cfg.SchedulerFile != "" {
		sc, err := scheduler.LoadConfig(cfg.SchedulerFile)
		if err != nil {
			return nil, fmt.Errorf("scheduler_file: %w", err)
		}
		cfg.Scheduler = sc
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults applies defaults to every section.
func (c *Config) SetDefaults() {
	if c.TasksFile == "" {
		c.TasksFile = DefaultTasksFile
	}
	c.Scheduler.SetDefaults()
	c.History.SetDefaults()
	c.Metrics.SetDefaults()
	if c.MQTT.Enabled() {
		c.MQTT.SetDefaults()
	}
}

func (c *Config) resolvePaths(dir string) {
	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}
	c.TasksFile = resolve(c.TasksFile)
	c.SchedulerFile = resolve(c.SchedulerFile)
	if c.History.Backend != history.BackendNone {
		c.History.Path = resolve(c.History.Path)
	}
}

// Validate checks every section and the owner and pet definitions.
func (c Config) Validate() error {
	if _, err := c.Owner.Build(); err != nil {
		return err
	}
	if err := c.Pet.Validate(); err != nil {
		return err
	}
	if err := c.Scheduler.Validate(); err != nil {
		return fmt.Errorf("scheduler: %w", err)
	}
	if err := c.History.Validate(); err != nil {
		return err
	}
	if err := c.Metrics.Validate(); err != nil {
		return err
	}
	if c.MQTT.Enabled() {
		if err := c.MQTT.Validate(); err != nil {
			return err
		}
	}
	return c.Monitoring.Validate()
}
