// Package poller runs Better Stack node operations on cron schedules and
// publishes their results as source events.
package poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dukex/operion-betterstack/pkg/events"
	"github.com/dukex/operion-betterstack/pkg/models"
	"github.com/dukex/operion-betterstack/pkg/protocol"
	"github.com/dukex/operion-betterstack/pkg/workflow"
	"github.com/robfig/cron/v3"
)

var (
	ErrAlreadyStarted = errors.New("poller already started")
	ErrNoCallback     = errors.New("poller requires an event callback")
)

// NodeExecutor runs a node over input items.
type NodeExecutor interface {
	Execute(ctx context.Context, node *models.WorkflowNode, items []models.Item, opts ...workflow.ExecutionOption) (*models.NodeResult, error)
}

type Poller struct {
	executor NodeExecutor
	apiToken string
	logger   *slog.Logger
	now      func() time.Time

	mu       sync.Mutex
	cron     *cron.Cron
	jobs     map[string]cron.EntryID
	callback protocol.SourceEventCallback
	ctx      context.Context
	cancel   context.CancelFunc
}

func NewPoller(executor NodeExecutor, apiToken string, logger *slog.Logger) *Poller {
	return &Poller{
		executor: executor,
		apiToken: apiToken,
		logger:   logger.With("module", "betterstack_poller"),
		now:      time.Now,
		jobs:     make(map[string]cron.EntryID),
	}
}

// Start schedules every enabled job and starts the cron loop. Jobs run until
// Stop is called or ctx is done.
func (p *Poller) Start(ctx context.Context, jobs []Job, callback protocol.SourceEventCallback) error {
	if callback == nil {
		return ErrNoCallback
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cron != nil {
		return ErrAlreadyStarted
	}

	p.callback = callback
	p.ctx, p.cancel = context.WithCancel(ctx)
	p.cron = cron.New(
		cron.WithParser(cronParser),
		cron.WithChain(
			cron.SkipIfStillRunning(cron.DiscardLogger),
			cron.Recover(cron.DiscardLogger),
		),
	)

	for i := range jobs {
		job := jobs[i]

		if job.Disabled {
			p.logger.Info("Poll job is disabled, skipping", "job_id", job.ID)

			continue
		}

		entryID, err := p.cron.AddFunc(job.CronExpression, func() { p.run(job) })
		if err != nil {
			p.cancel()
			p.cron = nil
			p.jobs = make(map[string]cron.EntryID)

			return fmt.Errorf("%w: job %s: %w", ErrInvalidJob, job.ID, err)
		}

		p.jobs[job.ID] = entryID
		p.logger.Info("Scheduled poll job", "job_id", job.ID, "cron", job.CronExpression, "node_type", job.Node.Type)
	}

	p.cron.Start()
	p.logger.Info("Poller started", "jobs", len(p.jobs))

	return nil
}

// Stop halts scheduling and waits for running jobs until ctx is done.
func (p *Poller) Stop(ctx context.Context) error {
	p.mu.Lock()
	c := p.cron
	cancel := p.cancel
	p.cron = nil
	p.jobs = make(map[string]cron.EntryID)
	p.mu.Unlock()

	if c == nil {
		return nil
	}

	p.logger.Info("Stopping poller")

	stopped := c.Stop()

	select {
	case <-stopped.Done():
		cancel()

		return nil
	case <-ctx.Done():
		cancel()

		return ctx.Err()
	}
}

// NextRuns returns the next scheduled run of every scheduled job.
func (p *Poller) NextRuns() map[string]time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()

	runs := make(map[string]time.Time, len(p.jobs))

	if p.cron == nil {
		return runs
	}

	for id, entryID := range p.jobs {
		runs[id] = p.cron.Entry(entryID).Next
	}

	return runs
}

func (p *Poller) run(job Job) {
	p.mu.Lock()
	ctx := p.ctx
	callback := p.callback
	p.mu.Unlock()

	if err := p.RunJob(ctx, job, callback); err != nil {
		p.logger.Error("Failed to publish poll event", "job_id", job.ID, "error", err)
	}
}

// RunJob executes the job once and reports the outcome through callback as a
// poll.completed or poll.failed event. Only callback errors are returned.
func (p *Poller) RunJob(ctx context.Context, job Job, callback protocol.SourceEventCallback) error {
	logger := p.logger.With("job_id", job.ID, "node_type", job.Node.Type)
	startedAt := p.now().UTC()

	result, err := p.executor.Execute(ctx, &job.Node, job.Items,
		workflow.WithAPIToken(p.apiToken),
		workflow.WithLogger(p.logger),
	)

	data := map[string]any{
		"job_id":     job.ID,
		"node_id":    job.Node.ID,
		"node_type":  job.Node.Type,
		"started_at": startedAt.Format(time.RFC3339),
	}

	if err != nil {
		logger.WarnContext(ctx, "Poll job failed", "error", err)

		data["error"] = err.Error()

		return callback(ctx, job.ID, events.ProviderPoller, events.PollFailedEvent, data)
	}

	records := make([]any, 0, len(result.Items))
	for _, item := range result.Items {
		records = append(records, item.JSON)
	}

	data["items"] = records
	data["count"] = len(records)

	logger.InfoContext(ctx, "Poll job completed", "count", len(records))

	return callback(ctx, job.ID, events.ProviderPoller, events.PollCompletedEvent, data)
}
