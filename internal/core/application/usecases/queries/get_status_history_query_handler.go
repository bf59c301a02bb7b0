package queries

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/job"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetStatusHistoryQueryHandler retrieves a job's status change records from
// the database, newest first. The audit trail is append-only, so the result
// is a faithful account of every effective transition.
type GetStatusHistoryQueryHandler struct {
	db *gorm.DB
}

// NewGetStatusHistoryQueryHandler creates a handler for status history queries.
// Requires a GORM database connection for query execution.
func NewGetStatusHistoryQueryHandler(db *gorm.DB) GetStatusHistoryQueryHandler {
	return GetStatusHistoryQueryHandler{db: db}
}

// Handle executes the history query.
// Records are ordered by changed_at descending; ties break on id for a
// stable order.
func (h GetStatusHistoryQueryHandler) Handle(
	ctx context.Context,
	query GetStatusHistoryQuery,
) ([]StatusChangeResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	sql := `
		SELECT
			id,
			job_id,
			old_status,
			new_status,
			changed_by,
			reason,
			changed_at
		FROM job_status_history
		WHERE job_id = ?
		ORDER BY changed_at DESC, id DESC
	`
	args := []any{query.JobID().Bytes()}
	if query.Limit() > 0 {
		sql += " LIMIT ?"
		args = append(args, query.Limit())
	}

	rows, err := h.db.WithContext(ctx).Raw(sql, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]StatusChangeResponse, 0)

	for rows.Next() {
		var id, jobID, changedBy uuid.UUID
		var oldStatus, newStatus int
		var reason string
		var changedAt time.Time

		if err = rows.Scan(&id, &jobID, &oldStatus, &newStatus, &changedBy, &reason, &changedAt); err != nil {
			return nil, err
		}

		recordID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		recordJobID, idErr := kernel.UUIDFromBytes(jobID[:])
		if idErr != nil {
			return nil, idErr
		}
		recordChangedBy, idErr := kernel.UUIDFromBytes(changedBy[:])
		if idErr != nil {
			return nil, idErr
		}

		records = append(records, StatusChangeResponse{
			ID:        recordID,
			JobID:     recordJobID,
			OldStatus: job.Status(oldStatus).String(),
			NewStatus: job.Status(newStatus).String(),
			ChangedBy: recordChangedBy,
			Reason:    reason,
			ChangedAt: changedAt,
		})
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}
