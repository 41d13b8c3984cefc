package metrics

import (
	"fmt"

	"github.com/kilianp07/pawpal/core/factory"
)

// DefaultPrometheusAddr is where serve-metrics listens when no address is set.
const DefaultPrometheusAddr = ":9090"

// Config defines settings for metrics sinks.
type Config struct {
	Sinks          []factory.ModuleConfig `json:"sinks" yaml:"sinks"`
	PrometheusAddr string                 `json:"prometheus_addr" yaml:"prometheus_addr"`
}

// SetDefaults fills in the Prometheus listen address.
func (c *Config) SetDefaults() {
	if c.PrometheusAddr == "" {
		c.PrometheusAddr = DefaultPrometheusAddr
	}
}

// Validate checks that every sink names a registered type.
func (c Config) Validate() error {
	for i, s := range c.Sinks {
		if s.Type == "" {
			return fmt.Errorf("metrics.sinks[%d]: type is required", i)
		}
		if !sinkRegistry.Has(s.Type) {
			return fmt.Errorf("metrics.sinks[%d]: unknown sink type %q (known: %v)", i, s.Type, sinkRegistry.Types())
		}
	}
	return nil
}
