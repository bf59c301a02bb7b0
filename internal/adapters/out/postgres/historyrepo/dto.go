// Package historyrepo persists the append-only job status audit log.
// Records are only ever inserted; there is no update or delete path.
package historyrepo

import (
	"time"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/job"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// StatusChangeDTO represents the database structure for status change records.
type StatusChangeDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	JobID     uuid.UUID `gorm:"type:uuid;index"`
	OldStatus int
	NewStatus int
	ChangedBy uuid.UUID `gorm:"type:uuid"`
	Reason    string
	ChangedAt time.Time `gorm:"index"`
}

// TableName specifies the database table name for status change records.
func (StatusChangeDTO) TableName() string {
	return "job_status_history"
}

// fromDomain converts a status change record to its database representation.
func fromDomain(record *assignment.StatusChangeRecord) StatusChangeDTO {
	return StatusChangeDTO{
		ID:        record.ID().Bytes(),
		JobID:     record.JobID().Bytes(),
		OldStatus: int(record.OldStatus()),
		NewStatus: int(record.NewStatus()),
		ChangedBy: record.ChangedBy().Bytes(),
		Reason:    record.Reason(),
		ChangedAt: record.ChangedAt(),
	}
}

// toDomain converts a database DTO to a status change record.
func toDomain(dto StatusChangeDTO) (*assignment.StatusChangeRecord, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	jobID, err := kernel.UUIDFromBytes(dto.JobID[:])
	if err != nil {
		return nil, err
	}
	changedBy, err := kernel.UUIDFromBytes(dto.ChangedBy[:])
	if err != nil {
		return nil, err
	}

	return assignment.NewStatusChangeRecord(
		id,
		jobID,
		job.Status(dto.OldStatus),
		job.Status(dto.NewStatus),
		changedBy,
		dto.Reason,
		dto.ChangedAt,
	)
}
