package metrics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/pawpal/core/metrics"
	"github.com/kilianp07/pawpal/core/model"
	"github.com/kilianp07/pawpal/infra/logger"
)

// InfluxSink writes planning events to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a
// NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.PlanSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordPlan writes one plan_generated point.
func (s *InfluxSink) RecordPlan(ev coremetrics.PlanEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("plan_generated").
		AddTag("plan_id", ev.PlanID).
		AddTag("owner", ev.Owner).
		AddTag("pet", ev.Pet).
		AddTag("feasible", strconv.FormatBool(ev.Feasible)).
		AddField("date", ev.Date.Format(model.DateLayout)).
		AddField("candidates", ev.Candidates).
		AddField("scheduled", ev.Scheduled).
		AddField("skipped", ev.Skipped).
		AddField("conflicts", ev.Conflicts).
		AddField("scheduled_hours", round3(ev.ScheduledHours)).
		AddField("available_hours", round3(ev.AvailableHours)).
		AddField("utilization", round3(ev.Utilization)).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordCompletion writes one task_completed point.
func (s *InfluxSink) RecordCompletion(ev coremetrics.CompletionEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("task_completed").
		AddTag("task", ev.Task).
		AddTag("category", ev.Category).
		AddTag("frequency", ev.Frequency).
		AddField("recurring", ev.Recurring)
	if !ev.NextDue.IsZero() {
		p = p.AddField("next_due", ev.NextDue.Format(model.DateLayout))
	}
	p = p.SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the client resources.
func (s *InfluxSink) Close() { s.client.Close() }

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
