// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"dispatch/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// JobRepoFactory provides access to the job repository within a transaction.
	JobRepoFactory interface {
		JobRepository() ports.JobRepository
	}

	// VehicleRepoFactory provides access to the vehicle repository within a transaction.
	VehicleRepoFactory interface {
		VehicleRepository() ports.VehicleRepository
	}

	// AssignmentRepoFactory provides access to the assignment repository within a transaction.
	AssignmentRepoFactory interface {
		AssignmentRepository() ports.AssignmentRepository
	}

	// HistoryRepoFactory provides access to the status history repository within a transaction.
	HistoryRepoFactory interface {
		StatusHistoryRepository() ports.StatusHistoryRepository
	}

	// JobUoW manages transactions for job-only operations.
	// Used when commands only modify job aggregates.
	JobUoW interface {
		TxManager
		JobRepoFactory
	}

	// JobUoWFactory creates new job unit of work instances.
	JobUoWFactory interface {
		Create() JobUoW
	}

	// VehicleUoW manages transactions for vehicle-only operations.
	VehicleUoW interface {
		TxManager
		VehicleRepoFactory
	}

	// VehicleUoWFactory creates new vehicle unit of work instances.
	VehicleUoWFactory interface {
		Create() VehicleUoW
	}

	// StatusUoW manages transactions for status update operations, which read
	// the assignment table (for the has-assignment fact) and append history.
	StatusUoW interface {
		TxManager
		JobRepoFactory
		AssignmentRepoFactory
		HistoryRepoFactory
	}

	// StatusUoWFactory creates new status unit of work instances.
	StatusUoWFactory interface {
		Create() StatusUoW
	}

	// AssignUoW manages transactions spanning every aggregate the assignment
	// orchestration touches: the job, the vehicle (locked), the assignment
	// row, and the status history.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   jobRepo := uow.JobRepository()
	//   vehicleRepo := uow.VehicleRepository()
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	AssignUoW interface {
		TxManager
		JobRepoFactory
		VehicleRepoFactory
		AssignmentRepoFactory
		HistoryRepoFactory
	}

	// AssignUoWFactory creates new unit of work instances for assignment operations.
	AssignUoWFactory interface {
		Create() AssignUoW
	}
)
