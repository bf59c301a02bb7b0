package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrGetStatusHistoryQueryIsNotConstructed = errors.New(
	"GetStatusHistoryQuery must be created via NewGetStatusHistoryQuery constructor",
)

// GetStatusHistoryQuery retrieves a job's status change audit trail,
// newest first.
type GetStatusHistoryQuery struct {
	jobID kernel.UUID
	limit int

	guard guard.ConstructorGuard
}

// NewGetStatusHistoryQuery creates a query for a job's status history.
// A limit of 0 returns the full history; negative limits are rejected.
func NewGetStatusHistoryQuery(jobID kernel.UUID, limit int) (GetStatusHistoryQuery, error) {
	if err := jobID.Validate(); err != nil {
		return GetStatusHistoryQuery{}, err
	}

	if limit < 0 {
		return GetStatusHistoryQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 0, int(^uint(0)>>1))
	}

	return GetStatusHistoryQuery{
		jobID: jobID,
		limit: limit,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetStatusHistoryQuery) Validate() error {
	return q.guard.Validate(ErrGetStatusHistoryQueryIsNotConstructed)
}

// JobID returns the job whose history is requested.
func (q GetStatusHistoryQuery) JobID() kernel.UUID {
	return q.jobID
}

// Limit returns the maximum number of records to return; 0 means all.
func (q GetStatusHistoryQuery) Limit() int {
	return q.limit
}

// StatusChangeResponse is one entry of a job's status audit trail.
type StatusChangeResponse struct {
	ID        kernel.UUID
	JobID     kernel.UUID
	OldStatus string
	NewStatus string
	ChangedBy kernel.UUID
	Reason    string
	ChangedAt time.Time
}
