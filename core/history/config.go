package history

import (
	"fmt"
	"slices"
)

const (
	BackendNone   = "none"
	BackendJSONL  = "jsonl"
	BackendSQLite = "sqlite"
)

// Config selects and configures the history backend.
type Config struct {
	Backend string `json:"backend" yaml:"backend"`
	Path    string `json:"path" yaml:"path"`
	// Rotation applies to the jsonl backend when MaxSizeMB is positive.
	MaxSizeMB  int `json:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int `json:"max_backups" yaml:"max_backups"`
	MaxAgeDays int `json:"max_age_days" yaml:"max_age_days"`
}

// SetDefaults picks the jsonl backend and a per-backend file name.
func (c *Config) SetDefaults() {
	if c.Backend == "" {
		c.Backend = BackendJSONL
	}
	if c.Path == "" {
		switch c.Backend {
		case BackendJSONL:
			c.Path = "pawpal-history.jsonl"
		case BackendSQLite:
			c.Path = "pawpal-history.db"
		}
	}
}

// Validate checks the backend name and rotation settings.
func (c Config) Validate() error {
	if !slices.Contains([]string{BackendNone, BackendJSONL, BackendSQLite}, c.Backend) {
		return fmt.Errorf("history.backend must be none, jsonl or sqlite, got %q", c.Backend)
	}
	if c.Backend != BackendNone && c.Path == "" {
		return fmt.Errorf("history.path is required for the %s backend", c.Backend)
	}
	if c.MaxSizeMB < 0 || c.MaxBackups < 0 || c.MaxAgeDays < 0 {
		return fmt.Errorf("history rotation settings must not be negative")
	}
	return nil
}

// Open returns the Store described by cfg.
func Open(cfg Config) (Store, error) {
	switch cfg.Backend {
	case BackendNone:
		return NopStore{}, nil
	case BackendSQLite:
		s, err := NewSQLiteStore(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite history %s: %w", cfg.Path, err)
		}
		return s, nil
	case BackendJSONL, "":
		if cfg.MaxSizeMB > 0 {
			return NewRotatingJSONLStore(cfg.Path, cfg.MaxSizeMB, cfg.MaxBackups, cfg.MaxAgeDays)
		}
		s, err := NewJSONLStore(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("open jsonl history %s: %w", cfg.Path, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown history backend %q", cfg.Backend)
	}
}
