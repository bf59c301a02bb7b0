package queries

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/job"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOverdueJobsQueryHandler finds jobs booked on a past calendar date that
// never reached completion or cancellation. Results are ordered oldest first
// so the most overdue work surfaces at the top.
type GetOverdueJobsQueryHandler struct {
	db *gorm.DB
}

// NewGetOverdueJobsQueryHandler creates a handler for overdue job queries.
// Requires a GORM database connection for query execution.
func NewGetOverdueJobsQueryHandler(db *gorm.DB) GetOverdueJobsQueryHandler {
	return GetOverdueJobsQueryHandler{db: db}
}

// Handle executes the overdue query.
// A job is overdue when its scheduled date is strictly before the query's
// reference date and its status is pending, assigned, or in_progress.
func (h GetOverdueJobsQueryHandler) Handle(
	ctx context.Context,
	query GetOverdueJobsQuery,
) ([]OverdueJobResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	cutoff := job.NormalizeDate(query.AsOf())

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			job_number,
			customer_name,
			scheduled_date,
			status,
			priority
		FROM jobs
		WHERE scheduled_date < ? AND status IN (?, ?, ?)
		ORDER BY scheduled_date, job_number
	`, cutoff, job.StatusPending, job.StatusAssigned, job.StatusInProgress).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	overdue := make([]OverdueJobResponse, 0)

	for rows.Next() {
		var id uuid.UUID
		var jobNumber, customerName string
		var scheduledDate time.Time
		var status, priority int

		if err = rows.Scan(&id, &jobNumber, &customerName, &scheduledDate, &status, &priority); err != nil {
			return nil, err
		}

		jobID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}

		overdue = append(overdue, OverdueJobResponse{
			JobID:         jobID,
			JobNumber:     jobNumber,
			CustomerName:  customerName,
			ScheduledDate: scheduledDate,
			Status:        job.Status(status).String(),
			Priority:      job.Priority(priority).String(),
		})
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return overdue, nil
}
