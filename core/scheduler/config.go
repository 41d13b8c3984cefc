package scheduler

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultPeriodHours      = 4.0
	DefaultUnscheduledHours = 24.0
	DefaultCrowdingLimit    = 3
)

// PeriodLengths holds the typical length in hours of each time bucket.
type PeriodLengths struct {
	Morning     float64 `json:"morning" yaml:"morning"`
	Afternoon   float64 `json:"afternoon" yaml:"afternoon"`
	Evening     float64 `json:"evening" yaml:"evening"`
	Unscheduled float64 `json:"unscheduled" yaml:"unscheduled"`
}

// Config tunes conflict detection.
type Config struct {
	Periods PeriodLengths `json:"periods" yaml:"periods"`
	// CrowdingThreshold is the task count a named bucket may hold before a
	// crowding notice is raised. Zero selects DefaultCrowdingLimit.
	CrowdingThreshold int `json:"crowding_threshold" yaml:"crowding_threshold"`
}

// DefaultConfig returns 4h morning/afternoon/evening periods, a 24h
// unscheduled period and a crowding threshold of 3.
func DefaultConfig() Config {
	var c Config
	c.SetDefaults()
	return c
}

// SetDefaults fills unset fields.
func (c *Config) SetDefaults() {
	if c.Periods.Morning == 0 {
		c.Periods.Morning = DefaultPeriodHours
	}
	if c.Periods.Afternoon == 0 {
		c.Periods.Afternoon = DefaultPeriodHours
	}
	if c.Periods.Evening == 0 {
		c.Periods.Evening = DefaultPeriodHours
	}
	if c.Periods.Unscheduled == 0 {
		c.Periods.Unscheduled = DefaultUnscheduledHours
	}
	if c.CrowdingThreshold == 0 {
		c.CrowdingThreshold = DefaultCrowdingLimit
	}
}

// Validate rejects negative or over-long periods and a negative threshold.
func (c Config) Validate() error {
	for name, h := range map[string]float64{
		"morning":     c.Periods.Morning,
		"afternoon":   c.Periods.Afternoon,
		"evening":     c.Periods.Evening,
		"unscheduled": c.Periods.Unscheduled,
	} {
		if math.IsNaN(h) || h < 0 || h > 24 {
			return fmt.Errorf("period %s must be within [0,24] hours, got %v", name, h)
		}
	}
	if c.CrowdingThreshold < 0 {
		return fmt.Errorf("crowding_threshold must not be negative")
	}
	return nil
}

// LoadConfig loads a Config from a JSON or YAML file, chosen by extension.
func LoadConfig(path string) (Config, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case "yaml", "yml", "json":
	default:
		return Config{}, fmt.Errorf("unsupported config format: .%s", ext)
	}
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer func() { _ = f.Close() }()
	cfg, err := DecodeConfig(f, ext)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// DecodeConfig reads from r to decode a Config.
func DecodeConfig(r io.Reader, format string) (Config, error) {
	var cfg Config
	switch strings.ToLower(format) {
	case "yaml", "yml":
		dec := yaml.NewDecoder(r)
		if err := dec.Decode(&cfg); err != nil {
			return cfg, err
		}
	case "json":
		dec := json.NewDecoder(r)
		if err := dec.Decode(&cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported format: %s", format)
	}
	cfg.SetDefaults()
	return cfg, cfg.Validate()
}
