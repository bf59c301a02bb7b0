// Package ports defines repository interfaces for the dispatch domain.
// These interfaces establish contracts between the domain layer and infrastructure,
// enabling dependency inversion and testability.
package ports

import (
	"context"

	"dispatch/internal/core/domain/model/job"
	"dispatch/internal/core/domain/model/kernel"
)

// JobRepository defines the persistence contract for job aggregates.
type JobRepository interface {
	// Add persists a new job aggregate to storage.
	// The job must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *job.Job) error

	// Update persists changes to an existing job aggregate.
	// The job must exist in the repository and be valid.
	Update(ctx context.Context, aggregate *job.Job) error

	// Get retrieves a job aggregate by its unique identifier.
	// Returns an ObjectNotFoundError when the job does not exist.
	Get(ctx context.Context, id kernel.UUID) (*job.Job, error)
}
