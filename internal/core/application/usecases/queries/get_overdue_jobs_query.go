package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrGetOverdueJobsQueryIsNotConstructed = errors.New(
	"GetOverdueJobsQuery must be created via NewGetOverdueJobsQuery constructor",
)

// GetOverdueJobsQuery retrieves jobs whose scheduled date has passed while
// they are still pending, assigned, or in progress. The overdue monitor runs
// this periodically to surface jobs that slipped through their booked slot.
type GetOverdueJobsQuery struct {
	asOf time.Time

	guard guard.ConstructorGuard
}

// NewGetOverdueJobsQuery creates a query for jobs overdue as of the given
// time. A zero asOf means "now".
func NewGetOverdueJobsQuery(asOf time.Time) GetOverdueJobsQuery {
	if asOf.IsZero() {
		asOf = time.Now()
	}
	return GetOverdueJobsQuery{
		asOf:  asOf.UTC(),
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the query was created through the constructor.
func (q GetOverdueJobsQuery) Validate() error {
	return q.guard.Validate(ErrGetOverdueJobsQueryIsNotConstructed)
}

// AsOf returns the reference time for the overdue cutoff.
func (q GetOverdueJobsQuery) AsOf() time.Time {
	return q.asOf
}

// OverdueJobResponse describes one job past its scheduled date.
type OverdueJobResponse struct {
	JobID         kernel.UUID
	JobNumber     string
	CustomerName  string
	ScheduledDate time.Time
	Status        string
	Priority      string
}
