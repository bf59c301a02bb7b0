package queries

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/job"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetAllowedTransitionsQueryHandler reads a job's current status and its
// has-assignment fact and evaluates the transition table against them. The
// answer mirrors exactly what a direct status update would accept; moves that
// require the assignment or unassignment orchestrations are not listed.
type GetAllowedTransitionsQueryHandler struct {
	db *gorm.DB
}

// NewGetAllowedTransitionsQueryHandler creates a handler for transition queries.
// Requires a GORM database connection for query execution.
func NewGetAllowedTransitionsQueryHandler(db *gorm.DB) GetAllowedTransitionsQueryHandler {
	return GetAllowedTransitionsQueryHandler{db: db}
}

// Handle executes the query.
// Returns an ObjectNotFoundError when the job does not exist.
func (h GetAllowedTransitionsQueryHandler) Handle(
	ctx context.Context,
	query GetAllowedTransitionsQuery,
) (AllowedTransitionsResponse, error) {
	if err := query.Validate(); err != nil {
		return AllowedTransitionsResponse{}, err
	}

	var status int
	err := h.db.WithContext(ctx).Raw(`
		SELECT status FROM jobs WHERE id = ?
	`, query.JobID().Bytes()).Scan(&status).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AllowedTransitionsResponse{}, errs.NewObjectNotFoundError("jobID", query.JobID())
		}
		return AllowedTransitionsResponse{}, err
	}

	current := job.Status(status)
	if err = current.Validate(); err != nil {
		return AllowedTransitionsResponse{}, errs.NewObjectNotFoundError("jobID", query.JobID())
	}

	var count int64
	err = h.db.WithContext(ctx).Raw(`
		SELECT COUNT(*) FROM assignments WHERE job_id = ?
	`, query.JobID().Bytes()).Scan(&count).Error
	if err != nil {
		return AllowedTransitionsResponse{}, err
	}
	hasAssignment := count > 0

	allowed := current.AllowedTransitions(job.TransitionContext{HasAssignment: hasAssignment})
	names := make([]string, 0, len(allowed))
	for _, s := range allowed {
		names = append(names, s.String())
	}

	return AllowedTransitionsResponse{
		JobID:         query.JobID(),
		CurrentStatus: current.String(),
		HasAssignment: hasAssignment,
		Allowed:       names,
	}, nil
}
