package jobs

import (
	"context"
	"log/slog"
	"time"

	"canteen/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// StatusProgressionJob runs the status progression tick once a minute.
// Each tick advances orders whose timeline thresholds have passed and
// force-cancels stale ones.
type StatusProgressionJob struct {
	handler commands.ProgressOrdersCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewStatusProgressionJob creates a new job driving the per-minute
// progression tick.
func NewStatusProgressionJob(handler commands.ProgressOrdersCommandHandler, logger *slog.Logger) *StatusProgressionJob {
	return &StatusProgressionJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "status_progression_job"),
	}
}

// Start begins the progression job, ticking at the top of every minute.
func (j *StatusProgressionJob) Start() error {
	_, err := j.cron.AddFunc("0 * * * * *", func() {
		ctx := context.Background()

		cmd, err := commands.NewProgressOrdersCommand(time.Now())
		if err != nil {
			j.logger.ErrorContext(ctx, "Status progression tick could not be built", "error", err)
			return
		}

		if err = j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "Status progression tick failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Status progression job started (running every minute)")
	return nil
}

// Stop stops the progression job.
func (j *StatusProgressionJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Status progression job stopped")
}
