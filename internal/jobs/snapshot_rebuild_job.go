package jobs

import (
	"context"
	"log/slog"

	"canteen/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// SnapshotRebuildJob refreshes the available-items snapshot from the master
// catalog once a day, before the canteen opens.
type SnapshotRebuildJob struct {
	handler commands.RebuildSnapshotCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewSnapshotRebuildJob creates a new job for the daily snapshot rebuild.
func NewSnapshotRebuildJob(handler commands.RebuildSnapshotCommandHandler, logger *slog.Logger) *SnapshotRebuildJob {
	return &SnapshotRebuildJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "snapshot_rebuild_job"),
	}
}

// Start begins the snapshot rebuild job, running daily at 03:00.
func (j *SnapshotRebuildJob) Start() error {
	_, err := j.cron.AddFunc("0 0 3 * * *", func() {
		ctx := context.Background()

		if err := j.handler.Handle(ctx, commands.NewRebuildSnapshotCommand()); err != nil {
			j.logger.ErrorContext(ctx, "Snapshot rebuild failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Snapshot rebuild job started (running daily at 03:00)")
	return nil
}

// Stop stops the snapshot rebuild job.
func (j *SnapshotRebuildJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Snapshot rebuild job stopped")
}
