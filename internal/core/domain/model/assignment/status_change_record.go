package assignment

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/job"
	"dispatch/internal/core/domain/model/kernel"
)

var (
	// ErrStatusChangeRecordIsNotConstructed is returned when a StatusChangeRecord
	// was not created through the NewStatusChangeRecord factory method.
	ErrStatusChangeRecordIsNotConstructed = errors.New(
		"StatusChangeRecord must be created via NewStatusChangeRecord constructor")
)

// StatusChangeRecord is an immutable, append-only audit event documenting a
// single job status transition. Exactly one record is created per effective
// transition; records are never updated or deleted.
type StatusChangeRecord struct {
	id        kernel.UUID
	jobID     kernel.UUID
	oldStatus job.Status
	newStatus job.Status
	changedBy kernel.UUID
	reason    string
	changedAt time.Time

	isConstructed bool
}

// NewStatusChangeRecord creates an audit event for a status transition.
//
// Parameters:
//   - id: unique identifier for the record
//   - jobID: the job whose status changed
//   - oldStatus, newStatus: the transition endpoints (both must be valid)
//   - changedBy: the actor who requested the change
//   - reason: optional free-text explanation
//   - changedAt: when the change happened
func NewStatusChangeRecord(
	id kernel.UUID,
	jobID kernel.UUID,
	oldStatus job.Status,
	newStatus job.Status,
	changedBy kernel.UUID,
	reason string,
	changedAt time.Time,
) (*StatusChangeRecord, error) {
	if err := errors.Join(
		id.Validate(),
		jobID.Validate(),
		oldStatus.Validate(),
		newStatus.Validate(),
		changedBy.Validate(),
	); err != nil {
		return nil, err
	}

	return &StatusChangeRecord{
		id:            id,
		jobID:         jobID,
		oldStatus:     oldStatus,
		newStatus:     newStatus,
		changedBy:     changedBy,
		reason:        reason,
		changedAt:     changedAt,
		isConstructed: true,
	}, nil
}

// Validate ensures the record was properly constructed through the factory.
func (r *StatusChangeRecord) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrStatusChangeRecordIsNotConstructed
	}
	return nil
}

// ID returns the record's unique identifier.
func (r *StatusChangeRecord) ID() kernel.UUID {
	return r.id
}

// JobID returns the job whose status changed.
func (r *StatusChangeRecord) JobID() kernel.UUID {
	return r.jobID
}

// OldStatus returns the status before the transition.
func (r *StatusChangeRecord) OldStatus() job.Status {
	return r.oldStatus
}

// NewStatus returns the status after the transition.
func (r *StatusChangeRecord) NewStatus() job.Status {
	return r.newStatus
}

// ChangedBy returns the actor who requested the change.
func (r *StatusChangeRecord) ChangedBy() kernel.UUID {
	return r.changedBy
}

// Reason returns the optional explanation for the change.
func (r *StatusChangeRecord) Reason() string {
	return r.reason
}

// ChangedAt returns when the change happened.
func (r *StatusChangeRecord) ChangedAt() time.Time {
	return r.changedAt
}
