// Package jobrepo provides data transfer objects and mapping functions for job persistence.
// This package implements the repository pattern for the job domain aggregate, handling
// the conversion between domain entities and database representations.
package jobrepo

import (
	"time"

	"dispatch/internal/core/domain/model/job"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// JobDTO represents the database structure for persisting job aggregates.
// The scheduling window is stored as seconds since midnight so range
// comparisons stay integer arithmetic; the scheduled date is a plain
// calendar date in UTC.
type JobDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	JobNumber     string    `gorm:"uniqueIndex;not null"`
	CustomerName  string    `gorm:"not null"`
	CustomerPhone string
	Address       string `gorm:"not null"`
	JobType       int
	Priority      int
	ScheduledDate time.Time `gorm:"type:date;index"`
	WindowStart   int       `gorm:"type:integer"`
	WindowEnd     int       `gorm:"type:integer"`
	Status        int       `gorm:"index"`
	CreatedBy     uuid.UUID `gorm:"type:uuid"`
}

// TableName specifies the database table name for job entities.
func (JobDTO) TableName() string {
	return "jobs"
}

// fromDomain converts a job domain aggregate to its database representation.
func fromDomain(aggregate *job.Job) JobDTO {
	return JobDTO{
		ID:            aggregate.ID().Bytes(),
		JobNumber:     aggregate.JobNumber(),
		CustomerName:  aggregate.CustomerName(),
		CustomerPhone: aggregate.CustomerPhone(),
		Address:       aggregate.Address(),
		JobType:       int(aggregate.Type()),
		Priority:      int(aggregate.Priority()),
		ScheduledDate: aggregate.ScheduledDate(),
		WindowStart:   aggregate.Window().Start().Seconds(),
		WindowEnd:     aggregate.Window().End().Seconds(),
		Status:        int(aggregate.Status()),
		CreatedBy:     aggregate.CreatedBy().Bytes(),
	}
}

// toDomain converts a database DTO to a job domain aggregate.
// Reconstructs the aggregate including its status using RestoreJob.
func toDomain(dto JobDTO) (*job.Job, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	createdBy, err := kernel.UUIDFromBytes(dto.CreatedBy[:])
	if err != nil {
		return nil, err
	}

	start, err := kernel.TimeOfDayFromSeconds(dto.WindowStart)
	if err != nil {
		return nil, err
	}
	end, err := kernel.TimeOfDayFromSeconds(dto.WindowEnd)
	if err != nil {
		return nil, err
	}
	window, err := kernel.NewTimeWindow(start, end)
	if err != nil {
		return nil, err
	}

	return job.RestoreJob(
		id,
		dto.JobNumber,
		dto.CustomerName,
		dto.CustomerPhone,
		dto.Address,
		job.Type(dto.JobType),
		job.Priority(dto.Priority),
		dto.ScheduledDate,
		window,
		job.Status(dto.Status),
		createdBy,
	)
}
