// Package assignment provides the Assignment entity binding a job to a
// vehicle, the append-only StatusChangeRecord audit event, and the Booking
// read model used for schedule conflict detection.
//
// Key business rules:
//   - At most one Assignment exists per job; reassignment replaces the row
//   - Assignments are never mutated in place: replacement is delete-then-insert
//     within the same transaction
//   - StatusChangeRecords are immutable and are only ever appended
package assignment

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
)

var (
	// ErrAssignmentIsNotConstructed is returned when an Assignment instance was
	// not created through the NewAssignment or RestoreAssignment factory methods.
	ErrAssignmentIsNotConstructed = errors.New(
		"Assignment must be created via NewAssignment or RestoreAssignment constructor")
)

// Assignment binds exactly one job to exactly one vehicle, optionally with a
// driver. It records who performed the assignment and when.
//
// Assignment is an entity with replace-only semantics: it is created when a
// job transitions into assigned, deleted when the job is unassigned, and a
// reassignment deletes and re-inserts rather than updating.
type Assignment struct {
	id         kernel.UUID
	jobID      kernel.UUID
	vehicleID  kernel.UUID
	driverID   *kernel.UUID
	assignedBy kernel.UUID
	notes      string
	assignedAt time.Time

	isConstructed bool
}

// NewAssignment creates a vehicle-to-job binding.
//
// Parameters:
//   - id: unique identifier for the assignment row
//   - jobID: the job being assigned (must be valid)
//   - vehicleID: the vehicle taking the job (must be valid)
//   - driverID: optional driver reference (validated when present)
//   - assignedBy: the actor performing the assignment (must be valid)
//   - notes: free-text notes (optional)
//   - assignedAt: timestamp of the assignment
func NewAssignment(
	id kernel.UUID,
	jobID kernel.UUID,
	vehicleID kernel.UUID,
	driverID *kernel.UUID,
	assignedBy kernel.UUID,
	notes string,
	assignedAt time.Time,
) (*Assignment, error) {
	if err := errors.Join(
		id.Validate(),
		jobID.Validate(),
		vehicleID.Validate(),
		assignedBy.Validate(),
	); err != nil {
		return nil, err
	}

	if driverID != nil {
		if err := driverID.Validate(); err != nil {
			return nil, err
		}
	}

	return &Assignment{
		id:            id,
		jobID:         jobID,
		vehicleID:     vehicleID,
		driverID:      driverID,
		assignedBy:    assignedBy,
		notes:         notes,
		assignedAt:    assignedAt,
		isConstructed: true,
	}, nil
}

// RestoreAssignment reconstructs an Assignment from persistence.
func RestoreAssignment(
	id kernel.UUID,
	jobID kernel.UUID,
	vehicleID kernel.UUID,
	driverID *kernel.UUID,
	assignedBy kernel.UUID,
	notes string,
	assignedAt time.Time,
) (*Assignment, error) {
	return NewAssignment(id, jobID, vehicleID, driverID, assignedBy, notes, assignedAt)
}

// Validate ensures the Assignment was properly constructed through a factory.
func (a *Assignment) Validate() error {
	if a == nil || !a.isConstructed {
		return ErrAssignmentIsNotConstructed
	}
	return nil
}

// ID returns the assignment's unique identifier.
func (a *Assignment) ID() kernel.UUID {
	return a.id
}

// JobID returns the assigned job's identifier.
func (a *Assignment) JobID() kernel.UUID {
	return a.jobID
}

// VehicleID returns the assigned vehicle's identifier.
func (a *Assignment) VehicleID() kernel.UUID {
	return a.vehicleID
}

// DriverID returns the driver's identifier, or nil when no driver is set.
func (a *Assignment) DriverID() *kernel.UUID {
	return a.driverID
}

// AssignedBy returns the actor who performed the assignment.
func (a *Assignment) AssignedBy() kernel.UUID {
	return a.assignedBy
}

// Notes returns the free-text assignment notes, possibly empty.
func (a *Assignment) Notes() string {
	return a.notes
}

// AssignedAt returns when the assignment was made.
func (a *Assignment) AssignedAt() time.Time {
	return a.assignedAt
}
