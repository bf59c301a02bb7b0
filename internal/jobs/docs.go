// Package jobs provides scheduled background tasks for the dispatch system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required for the dispatch service.
//
// # Available Jobs
//
// 1. OverdueJobMonitor - Runs hourly to report jobs whose scheduled date has passed without completion or cancellation
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(getOverdueJobsHandler, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Scheduling
//
// The overdue monitor uses the "@hourly" cron expression. Overdue detection
// compares calendar dates, so a finer schedule would only repeat the same
// findings within the hour.
//
// # Error Handling
//
// - The monitor logs scan failures and keeps running on its schedule
// - Overdue findings are reported at warn level, one line per job
// - Failed job starts will stop any already running jobs
package jobs
