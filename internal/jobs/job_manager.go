package jobs

import (
	"fmt"
	"log/slog"

	"dispatch/internal/core/application/usecases/queries"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	overdueJobMonitor *OverdueJobMonitor
}

// NewJobManager creates a new job manager with all required jobs.
// Takes query handlers as dependencies to wire up the job execution.
func NewJobManager(
	getOverdueJobsHandler queries.GetOverdueJobsQueryHandler,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		overdueJobMonitor: NewOverdueJobMonitor(getOverdueJobsHandler, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.overdueJobMonitor.Start(); err != nil {
		return fmt.Errorf("failed to start overdue job monitor: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.overdueJobMonitor.Stop()
}
