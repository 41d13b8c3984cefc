// Package factory is a small generic registry that builds pluggable modules
// (metrics sinks, history stores) from configuration. A module is selected
// by its type string and receives its raw settings, which it decodes with
// Decode into a typed struct.
//
//	reg := factory.NewRegistry[metrics.PlanSink]()
//	_ = reg.Register("influx", func(conf map[string]any) (metrics.PlanSink, error) {
//	    var c struct{ URL string `json:"url"` }
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return newInfluxSink(c.URL), nil
//	})
//	sink, err := reg.Create(factory.ModuleConfig{Type: "influx", Conf: map[string]any{"url": "http://influx:8086"}})
package factory
