package metrics

import (
	"github.com/kilianp07/pawpal/core/factory"
	coremetrics "github.com/kilianp07/pawpal/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// init registers built-in metrics sinks.
func init() {
	_ = coremetrics.RegisterPlanSink("nop", func(map[string]any) (coremetrics.PlanSink, error) {
		return coremetrics.NopSink{}, nil
	})

	// The listen address lives in metrics.prometheus_addr; the sink only
	// registers collectors.
	_ = coremetrics.RegisterPlanSink("prometheus", func(map[string]any) (coremetrics.PlanSink, error) {
		return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
	})

	_ = coremetrics.RegisterPlanSink("influx", func(conf map[string]any) (coremetrics.PlanSink, error) {
		var c struct {
			URL    string `json:"url"`
			Token  string `json:"token"`
			Org    string `json:"org"`
			Bucket string `json:"bucket"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewInfluxSinkWithFallback(c.URL, c.Token, c.Org, c.Bucket), nil
	})
}
