// Package metrics defines the observability events emitted by the planner
// and the sinks that record them. A PlanSink receives one PlanEvent per
// generated plan; sinks that also implement CompletionRecorder receive task
// completions. Several sinks are combined with NewMultiSink, which the
// factory helpers build automatically when more than one sink is configured.
package metrics
