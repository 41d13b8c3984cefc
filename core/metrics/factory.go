package metrics

import "github.com/kilianp07/pawpal/core/factory"

var sinkRegistry = factory.NewRegistry[PlanSink]()

// RegisterPlanSink adds a sink factory identified by name.
func RegisterPlanSink(name string, f factory.Factory[PlanSink]) error {
	return sinkRegistry.Register(name, f)
}

// SinkTypes lists the registered sink types.
func SinkTypes() []string { return sinkRegistry.Types() }

// NewPlanSink creates a PlanSink from the provided configuration. No
// configuration yields a NopSink; several yield a MultiSink.
func NewPlanSink(cfgs []factory.ModuleConfig) (PlanSink, error) {
	if len(cfgs) == 0 {
		return NopSink{}, nil
	}
	if len(cfgs) == 1 {
		return sinkRegistry.Create(cfgs[0])
	}
	sinks := make([]PlanSink, len(cfgs))
	for i, c := range cfgs {
		s, err := sinkRegistry.Create(c)
		if err != nil {
			for _, created := range sinks[:i] {
				CloseSink(created)
			}
			return nil, err
		}
		sinks[i] = s
	}
	return NewMultiSink(sinks...), nil
}

// RecordCompletion sends ev to s when it records completions.
func RecordCompletion(s PlanSink, ev CompletionEvent) error {
	if rec, ok := s.(CompletionRecorder); ok {
		return rec.RecordCompletion(ev)
	}
	return nil
}

// Closer is implemented by sinks that hold connections, such as the
// InfluxDB client.
type Closer interface {
	Close()
}

// CloseSink closes s when it holds resources.
func CloseSink(s PlanSink) {
	if c, ok := s.(Closer); ok {
		c.Close()
	}
}
