// Package assignmentrepo provides persistence for vehicle-to-job assignments.
// Assignments follow replace-only semantics: rows are created and deleted,
// never updated. A unique constraint on job_id enforces at most one
// assignment per job at the storage layer, backing the same invariant the
// application enforces with delete-then-insert.
package assignmentrepo

import (
	"time"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// AssignmentDTO represents the database structure for persisting assignments.
type AssignmentDTO struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	JobID      uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null"`
	VehicleID  uuid.UUID  `gorm:"type:uuid;index"`
	DriverID   *uuid.UUID `gorm:"type:uuid"`
	AssignedBy uuid.UUID  `gorm:"type:uuid"`
	Notes      string
	AssignedAt time.Time
}

// TableName specifies the database table name for assignment entities.
func (AssignmentDTO) TableName() string {
	return "assignments"
}

// fromDomain converts an assignment entity to its database representation.
func fromDomain(aggregate *assignment.Assignment) AssignmentDTO {
	var driverID *uuid.UUID
	if id := aggregate.DriverID(); id != nil {
		raw := id.Bytes()
		driverID = &raw
	}

	return AssignmentDTO{
		ID:         aggregate.ID().Bytes(),
		JobID:      aggregate.JobID().Bytes(),
		VehicleID:  aggregate.VehicleID().Bytes(),
		DriverID:   driverID,
		AssignedBy: aggregate.AssignedBy().Bytes(),
		Notes:      aggregate.Notes(),
		AssignedAt: aggregate.AssignedAt(),
	}
}

// toDomain converts a database DTO to an assignment entity.
func toDomain(dto AssignmentDTO) (*assignment.Assignment, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	jobID, err := kernel.UUIDFromBytes(dto.JobID[:])
	if err != nil {
		return nil, err
	}
	vehicleID, err := kernel.UUIDFromBytes(dto.VehicleID[:])
	if err != nil {
		return nil, err
	}
	assignedBy, err := kernel.UUIDFromBytes(dto.AssignedBy[:])
	if err != nil {
		return nil, err
	}

	var driverID *kernel.UUID
	if dto.DriverID != nil {
		dID, driverErr := kernel.UUIDFromBytes((*dto.DriverID)[:])
		if driverErr != nil {
			return nil, driverErr
		}
		driverID = &dID
	}

	return assignment.RestoreAssignment(id, jobID, vehicleID, driverID, assignedBy, dto.Notes, dto.AssignedAt)
}
