package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kilianp07/pawpal/config"
	"github.com/kilianp07/pawpal/core/history"
	coremetrics "github.com/kilianp07/pawpal/core/metrics"
	"github.com/kilianp07/pawpal/core/model"
	"github.com/kilianp07/pawpal/core/monitoring"
	"github.com/kilianp07/pawpal/core/scheduler"
	"github.com/kilianp07/pawpal/infra/logger"
	"github.com/kilianp07/pawpal/infra/metrics"
	"github.com/kilianp07/pawpal/infra/mqtt"
	"github.com/kilianp07/pawpal/infra/taskfile"
	"github.com/kilianp07/pawpal/pkg/export"
)

// ErrTaskNotFound is returned when no pending task has the requested name.
var ErrTaskNotFound = errors.New("no pending task with that name")

// ErrPublishDisabled is returned when publishing is requested without a broker.
var ErrPublishDisabled = errors.New("mqtt broker not configured")

// Publisher sends plans and completions to a broker.
type Publisher interface {
	PublishPlan(ctx context.Context, doc export.Document) (string, error)
	PublishCompletion(ctx context.Context, task, next *model.Task) (string, error)
	Close()
}

// Service wires the scheduler to the task file, metrics sinks, plan history
// and the optional MQTT publisher.
type Service struct {
	cfg       *config.Config
	sched     *scheduler.Scheduler
	sink      coremetrics.PlanSink
	store     history.Store
	publisher Publisher
	log       logger.Logger
}

// New creates a Service from the configuration. The task file must exist.
func New(cfg *config.Config) (*Service, error) {
	tasks, err := taskfile.Load(cfg.TasksFile)
	if err != nil {
		return nil, fmt.Errorf("tasks: %w", err)
	}
	sink, err := coremetrics.NewPlanSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	store, err := history.Open(cfg.History)
	if err != nil {
		coremetrics.CloseSink(sink)
		return nil, fmt.Errorf("history: %w", err)
	}
	var pub Publisher
	if cfg.MQTT.Enabled() {
		p, err := mqtt.NewPublisher(cfg.MQTT)
		if err != nil {
			_ = store.Close()
			coremetrics.CloseSink(sink)
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
		pub = p
	}
	return NewWithDeps(cfg, tasks, sink, store, pub)
}

// NewWithDeps builds a Service around already constructed collaborators.
// A nil sink or store discards events; a nil publisher disables publishing.
func NewWithDeps(cfg *config.Config, tasks *model.TaskList, sink coremetrics.PlanSink, store history.Store, pub Publisher) (*Service, error) {
	owner, err := cfg.Owner.Build()
	if err != nil {
		return nil, err
	}
	if sink == nil {
		sink = coremetrics.NopSink{}
	}
	if store == nil {
		store = history.NopStore{}
	}
	return &Service{
		cfg:       cfg,
		sched:     scheduler.New(owner, cfg.Pet.Build(), tasks, cfg.Scheduler, logger.New("scheduler")),
		sink:      sink,
		store:     store,
		publisher: pub,
		log:       logger.New("service"),
	}, nil
}

// Scheduler exposes the underlying scheduler for read-only queries.
func (s *Service) Scheduler() *scheduler.Scheduler { return s.sched }

// PlanRequest selects how a plan is generated.
type PlanRequest struct {
	// Date is the day to plan; zero means today.
	Date             time.Time
	IncludeCompleted bool
	// Publish sends the plan to <topic>/plan.
	Publish bool
}

// Plan generates a plan, records it in the history and the metrics sinks
// and optionally publishes it. Metrics failures are logged only.
func (s *Service) Plan(ctx context.Context, req PlanRequest) (*scheduler.DailySchedule, error) {
	if req.Publish && s.publisher == nil {
		return nil, ErrPublishDisabled
	}
	plan := s.sched.GeneratePlan(req.Date, req.IncludeCompleted)
	rec := history.NewPlanRecord(plan)

	candidates := len(s.sched.IncompleteTasks())
	if req.IncludeCompleted {
		candidates = s.sched.Tasks().Len()
	}
	stats := scheduler.Summarize(plan)
	ev := coremetrics.PlanEvent{
		PlanID:         rec.ID,
		Date:           plan.Date,
		Owner:          rec.Owner,
		Pet:            rec.Pet,
		Candidates:     candidates,
		Scheduled:      plan.Len(),
		Skipped:        len(rec.Skipped),
		Conflicts:      len(rec.Conflicts),
		ScheduledHours: plan.TotalHours(),
		AvailableHours: rec.AvailableHours,
		Utilization:    stats.Utilization,
		Feasible:       plan.IsFeasible(),
		BucketHours:    stats.BucketHours,
		Time:           rec.Timestamp,
	}
	if err := s.sink.RecordPlan(ev); err != nil {
		s.log.Warnf("record plan metrics: %v", err)
	}
	if err := s.store.Append(ctx, rec); err != nil {
		monitoring.CaptureException(err, map[string]string{"module": "history", "plan_id": rec.ID})
		return plan, fmt.Errorf("append history: %w", err)
	}
	s.log.Debugw("plan recorded", map[string]any{
		"plan_id":     rec.ID,
		"peak_bucket": stats.PeakBucket,
		"stddev":      stats.StdDevBucketHours,
	})
	if req.Publish {
		id, err := s.publisher.PublishPlan(ctx, export.NewDocument(plan, true))
		if err != nil {
			monitoring.CaptureException(err, map[string]string{"module": "mqtt", "plan_id": rec.ID})
			return plan, fmt.Errorf("publish plan: %w", err)
		}
		s.log.Infof("published plan %s as message %s", rec.ID, id)
	}
	return plan, nil
}

// Conflicts runs conflict detection on the incomplete tasks, or on every
// task when all is set.
func (s *Service) Conflicts(all bool) []string {
	if all {
		return s.sched.DetectConflicts(s.sched.Tasks().All())
	}
	return s.sched.DetectConflicts(nil)
}

// Complete marks the pending task called name done, saves the task file and
// reports the completion. For a recurring task the regenerated occurrence is
// returned as next.
func (s *Service) Complete(ctx context.Context, name string) (task, next *model.Task, err error) {
	task = s.sched.Tasks().FindPending(name)
	if task == nil {
		return nil, nil, fmt.Errorf("%w: %q", ErrTaskNotFound, name)
	}
	next = s.sched.CompleteTask(task)
	if err := taskfile.Save(s.cfg.TasksFile, s.sched.Tasks().All()); err != nil {
		return task, next, fmt.Errorf("save tasks: %w", err)
	}

	ev := coremetrics.CompletionEvent{
		Task:      task.Name,
		Category:  task.Category,
		Frequency: string(task.Frequency),
		Recurring: task.Frequency.IsRecurring(),
		Time:      time.Now().UTC(),
	}
	if next != nil {
		ev.NextDue = next.DueDate
	}
	if err := coremetrics.RecordCompletion(s.sink, ev); err != nil {
		s.log.Warnf("record completion metrics: %v", err)
	}
	if s.publisher != nil {
		if _, err := s.publisher.PublishCompletion(ctx, task, next); err != nil {
			monitoring.CaptureException(err, map[string]string{"module": "mqtt", "task": task.Name})
			return task, next, fmt.Errorf("publish completion: %w", err)
		}
	}
	return task, next, nil
}

// History returns the recorded plans matching q.
func (s *Service) History(ctx context.Context, q history.Query) ([]history.PlanRecord, error) {
	return s.store.Query(ctx, q)
}

// Replan generates today's plan immediately and then on every tick until ctx
// is canceled. Failures are logged and do not stop the loop.
func (s *Service) Replan(ctx context.Context, every time.Duration) {
	defer monitoring.Recover()
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		if _, err := s.Plan(ctx, PlanRequest{}); err != nil {
			s.log.Errorf("replan: %v", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// ServeMetrics exposes /metrics until ctx is canceled. With a positive
// replanEvery the Replan loop runs alongside. It returns only after both
// have stopped, so Close never races an in-flight plan.
func (s *Service) ServeMetrics(ctx context.Context, replanEvery time.Duration) error {
	g, gctx := errgroup.WithContext(ctx)
	if replanEvery > 0 {
		g.Go(func() error {
			s.Replan(gctx, replanEvery)
			return nil
		})
	}
	g.Go(func() error {
		return metrics.StartPromServer(gctx, s.cfg.Metrics.PrometheusAddr)
	})
	return g.Wait()
}

// Close releases the history store, the metrics sinks and the broker
// connection.
func (s *Service) Close() error {
	if s.publisher != nil {
		s.publisher.Close()
	}
	coremetrics.CloseSink(s.sink)
	return s.store.Close()
}
