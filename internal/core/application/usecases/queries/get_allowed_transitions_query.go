package queries

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrGetAllowedTransitionsQueryIsNotConstructed = errors.New(
	"GetAllowedTransitionsQuery must be created via NewGetAllowedTransitionsQuery constructor",
)

// GetAllowedTransitionsQuery asks which statuses a job can move to through a
// direct status update, given its current status and whether it holds a
// vehicle assignment. UIs use the answer to enable or disable actions.
type GetAllowedTransitionsQuery struct {
	jobID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetAllowedTransitionsQuery creates a query for a job's reachable statuses.
func NewGetAllowedTransitionsQuery(jobID kernel.UUID) (GetAllowedTransitionsQuery, error) {
	if err := jobID.Validate(); err != nil {
		return GetAllowedTransitionsQuery{}, err
	}

	return GetAllowedTransitionsQuery{
		jobID: jobID,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetAllowedTransitionsQuery) Validate() error {
	return q.guard.Validate(ErrGetAllowedTransitionsQueryIsNotConstructed)
}

// JobID returns the job under consideration.
func (q GetAllowedTransitionsQuery) JobID() kernel.UUID {
	return q.jobID
}

// AllowedTransitionsResponse lists the statuses reachable from the job's
// current status through a direct update.
type AllowedTransitionsResponse struct {
	JobID         kernel.UUID
	CurrentStatus string
	HasAssignment bool
	Allowed       []string
}
