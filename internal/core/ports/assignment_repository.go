package ports

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"
)

// ErrAssignmentExists is returned by AssignmentRepository.Add when an insert
// collides with an existing assignment for the same job. Under the
// delete-then-insert protocol this only happens when two transactions race
// on the same job.
var ErrAssignmentExists = errors.New("assignment already exists for job")

// AssignmentRepository defines the persistence contract for vehicle-to-job
// bindings. Assignments follow replace-only semantics: there is no Update —
// a reassignment deletes the prior row and inserts a new one inside the same
// transaction. A unique constraint on job_id backs the at-most-one-per-job
// invariant at the storage layer.
type AssignmentRepository interface {
	// Add persists a new assignment row.
	// Fails when an assignment already exists for the same job.
	Add(ctx context.Context, aggregate *assignment.Assignment) error

	// GetByJob retrieves the assignment for a job.
	// Returns an ObjectNotFoundError when the job has no assignment.
	GetByJob(ctx context.Context, jobID kernel.UUID) (*assignment.Assignment, error)

	// HasForJob reports whether an assignment row exists for the job.
	// Used to supply the has-assignment fact to status transition decisions.
	HasForJob(ctx context.Context, jobID kernel.UUID) (bool, error)

	// DeleteByJob removes the assignment for a job if one exists.
	// Deleting a job with no assignment is not an error; the returned bool
	// reports whether a row was actually removed.
	DeleteByJob(ctx context.Context, jobID kernel.UUID) (bool, error)

	// GetBookings returns the bookings (assignments joined with their jobs'
	// scheduling fields) for a vehicle on a calendar date. All bookings are
	// returned including completed and cancelled ones; the availability
	// checker filters inactive bookings. When the authoritative conflict
	// check runs, this must be called inside the mutating transaction after
	// the vehicle row is locked.
	GetBookings(ctx context.Context, vehicleID kernel.UUID, date time.Time) ([]assignment.Booking, error)
}

// StatusHistoryRepository defines the persistence contract for the append-only
// job status audit log. The interface deliberately offers no update or delete
// operations: records are immutable once written.
type StatusHistoryRepository interface {
	// Add appends a status change record.
	Add(ctx context.Context, record *assignment.StatusChangeRecord) error

	// GetByJob returns a job's status change records, newest first.
	// A limit of 0 returns the full history.
	GetByJob(ctx context.Context, jobID kernel.UUID, limit int) ([]*assignment.StatusChangeRecord, error)
}
