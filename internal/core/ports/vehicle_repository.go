package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/vehicle"
)

// VehicleRepository defines the persistence contract for vehicle aggregates.
type VehicleRepository interface {
	// Add persists a new vehicle aggregate to storage.
	Add(ctx context.Context, aggregate *vehicle.Vehicle) error

	// Update persists changes to an existing vehicle aggregate.
	Update(ctx context.Context, aggregate *vehicle.Vehicle) error

	// Get retrieves a vehicle aggregate by its unique identifier.
	// Returns an ObjectNotFoundError when the vehicle does not exist.
	Get(ctx context.Context, id kernel.UUID) (*vehicle.Vehicle, error)

	// GetForUpdate retrieves a vehicle and locks its row for the remainder of
	// the enclosing transaction (SELECT ... FOR UPDATE). The assignment
	// orchestration uses this to serialize concurrent booking attempts on the
	// same vehicle: the availability check and the booking insert then execute
	// under the lock, closing the check-then-act race.
	//
	// Must be called inside an active transaction; outside one it degrades to
	// a plain read.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*vehicle.Vehicle, error)
}
