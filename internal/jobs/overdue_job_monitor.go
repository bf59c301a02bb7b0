package jobs

import (
	"context"
	"log/slog"
	"time"

	"dispatch/internal/core/application/usecases/queries"

	"github.com/robfig/cron/v3"
)

// OverdueJobMonitor periodically scans for jobs whose scheduled date has
// passed without reaching a terminal status and reports them to the log.
// Runs every hour; dispatchers act on the report, the monitor never mutates
// job state itself.
type OverdueJobMonitor struct {
	handler queries.GetOverdueJobsQueryHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewOverdueJobMonitor creates a monitor backed by the overdue jobs query.
func NewOverdueJobMonitor(handler queries.GetOverdueJobsQueryHandler, logger *slog.Logger) *OverdueJobMonitor {
	return &OverdueJobMonitor{
		handler: handler,
		cron:    cron.New(),
		logger:  logger.With("component", "overdue_job_monitor"),
	}
}

// Start begins the hourly overdue scan.
func (m *OverdueJobMonitor) Start() error {
	_, err := m.cron.AddFunc("@hourly", m.scan)
	if err != nil {
		return err
	}

	m.cron.Start()
	m.logger.InfoContext(context.Background(), "Overdue job monitor started (running hourly)")
	return nil
}

// Stop stops the overdue scan.
func (m *OverdueJobMonitor) Stop() {
	m.cron.Stop()
	m.logger.InfoContext(context.Background(), "Overdue job monitor stopped")
}

func (m *OverdueJobMonitor) scan() {
	ctx := context.Background()
	query := queries.NewGetOverdueJobsQuery(time.Now())

	overdue, err := m.handler.Handle(ctx, query)
	if err != nil {
		m.logger.ErrorContext(ctx, "Overdue job scan failed", "error", err)
		return
	}

	if len(overdue) == 0 {
		return
	}

	m.logger.WarnContext(ctx, "Jobs overdue", "count", len(overdue))
	for _, j := range overdue {
		m.logger.WarnContext(ctx, "Job overdue",
			"job_number", j.JobNumber,
			"customer", j.CustomerName,
			"scheduled_date", j.ScheduledDate.Format(time.DateOnly),
			"status", j.Status,
			"priority", j.Priority,
		)
	}
}
