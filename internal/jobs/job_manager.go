package jobs

import (
	"fmt"
	"log/slog"

	"canteen/internal/core/application/usecases/commands"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	statusProgressionJob *StatusProgressionJob
	snapshotRebuildJob   *SnapshotRebuildJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes command handlers as dependencies to wire up the job execution.
func NewJobManager(
	progressOrdersHandler commands.ProgressOrdersCommandHandler,
	rebuildSnapshotHandler commands.RebuildSnapshotCommandHandler,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		statusProgressionJob: NewStatusProgressionJob(progressOrdersHandler, logger),
		snapshotRebuildJob:   NewSnapshotRebuildJob(rebuildSnapshotHandler, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.statusProgressionJob.Start(); err != nil {
		return fmt.Errorf("failed to start status progression job: %w", err)
	}

	if err := jm.snapshotRebuildJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.statusProgressionJob.Stop()
		return fmt.Errorf("failed to start snapshot rebuild job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.statusProgressionJob.Stop()
	jm.snapshotRebuildJob.Stop()
}
