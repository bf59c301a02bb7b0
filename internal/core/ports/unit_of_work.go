package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
// This ensures proper isolation between concurrent operations.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary.
// It provides transaction control and repository access bound to that
// transaction. Client code must explicitly manage the transaction lifecycle.
//
// The assignment orchestration relies on this boundary for its atomicity
// guarantee: every read and write of a single operation happens inside one
// transaction, committed only on full success and rolled back on any error.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction.
	// Returns error if no active transaction or commit fails.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction.
	// Returns error if no active transaction or rollback fails.
	Rollback(ctx context.Context) error

	// JobRepository returns a JobRepository bound to the current transaction.
	JobRepository() JobRepository

	// VehicleRepository returns a VehicleRepository bound to the current transaction.
	VehicleRepository() VehicleRepository

	// AssignmentRepository returns an AssignmentRepository bound to the current transaction.
	AssignmentRepository() AssignmentRepository

	// StatusHistoryRepository returns a StatusHistoryRepository bound to the current transaction.
	StatusHistoryRepository() StatusHistoryRepository
}
