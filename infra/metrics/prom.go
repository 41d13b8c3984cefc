package metrics

import (
	"strconv"

	coremetrics "github.com/kilianp07/pawpal/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records planning events in Prometheus metrics.
type PromSink struct {
	plans       *prometheus.CounterVec
	scheduled   prometheus.Counter
	skipped     prometheus.Counter
	conflicts   prometheus.Counter
	utilization prometheus.Gauge
	bucketHours *prometheus.GaugeVec
	completions *prometheus.CounterVec
}

// NewPromSink registers planner metrics on the default Prometheus registerer.
// The HTTP endpoint is started separately with StartPromServer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer. Collectors
// already registered by an earlier sink are reused.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		plans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pawpal_plans_generated_total",
			Help: "Total number of daily plans generated",
		}, []string{"feasible"}),
		scheduled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pawpal_tasks_scheduled_total",
			Help: "Total number of tasks placed in a plan",
		}),
		skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pawpal_tasks_skipped_total",
			Help: "Total number of tasks left out because they did not fit the time budget",
		}),
		conflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pawpal_conflicts_total",
			Help: "Total number of conflict advisories raised",
		}),
		utilization: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pawpal_plan_utilization_ratio",
			Help: "Share of the owner's available time used by the last plan",
		}),
		bucketHours: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "pawpal_plan_bucket_hours",
			Help: "Hours scheduled per time-of-day bucket in the last plan",
		}, []string{"bucket"}),
		completions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pawpal_task_completions_total",
			Help: "Total number of completed tasks",
		}, []string{"frequency"}),
	}

	var err error
	if s.plans, err = register(reg, s.plans); err != nil {
		return nil, err
	}
	if s.scheduled, err = register(reg, s.scheduled); err != nil {
		return nil, err
	}
	if s.skipped, err = register(reg, s.skipped); err != nil {
		return nil, err
	}
	if s.conflicts, err = register(reg, s.conflicts); err != nil {
		return nil, err
	}
	if s.utilization, err = register(reg, s.utilization); err != nil {
		return nil, err
	}
	if s.bucketHours, err = register(reg, s.bucketHours); err != nil {
		return nil, err
	}
	if s.completions, err = register(reg, s.completions); err != nil {
		return nil, err
	}
	return s, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordPlan updates counters and the last-plan gauges.
func (s *PromSink) RecordPlan(ev coremetrics.PlanEvent) error {
	s.plans.WithLabelValues(strconv.FormatBool(ev.Feasible)).Inc()
	s.scheduled.Add(float64(ev.Scheduled))
	s.skipped.Add(float64(ev.Skipped))
	s.conflicts.Add(float64(ev.Conflicts))
	s.utilization.Set(ev.Utilization)
	s.bucketHours.Reset()
	for bucket, h := range ev.BucketHours {
		s.bucketHours.WithLabelValues(bucket).Set(h)
	}
	return nil
}

// RecordCompletion counts a completed task by frequency.
func (s *PromSink) RecordCompletion(ev coremetrics.CompletionEvent) error {
	s.completions.WithLabelValues(ev.Frequency).Inc()
	return nil
}
