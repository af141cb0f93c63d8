// Package jobs provides scheduled background tasks for the order lifecycle.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to drive the periodic operations the engine depends on.
//
// # Available Jobs
//
// 1. StatusProgressionJob - Runs every minute to advance orders whose timeline thresholds have passed and to sweep stale orders
// 2. SnapshotRebuildJob - Runs daily at 03:00 to rebuild the available-items snapshot from the master catalog
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(progressOrdersHandler, rebuildSnapshotHandler, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Error Handling
//
// - Tick failures are logged and retried implicitly on the next tick; a missed minute is caught up because progression compares thresholds against the clock rather than counting ticks
// - Failed job starts will stop any already running jobs
package jobs
