package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrAssignVehicleCommandIsNotConstructed = errors.New(
	"AssignVehicleCommand must be created via NewAssignVehicleCommand constructor",
)

// AssignVehicleCommand represents a request to bind a vehicle to a job.
// The same command serves both initial assignment and reassignment: when the
// job already holds an assignment, the new binding replaces it.
//
// Example:
//
//	cmd, err := NewAssignVehicleCommand(jobID, vehicleID, nil, "rush delivery", dispatcherID)
//	if err != nil {
//	    return fmt.Errorf("invalid assignment request: %w", err)
//	}
//
//	handler := NewAssignVehicleCommandHandler(uowFactory)
//	details, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, services.ErrTimeConflict) {
//	    // the vehicle is already booked for an overlapping window
//	}
type AssignVehicleCommand struct { //nolint:recvcheck //using for validation
	jobID      kernel.UUID
	vehicleID  kernel.UUID
	driverID   *kernel.UUID
	notes      string
	assignedBy kernel.UUID

	guard guard.ConstructorGuard
}

// NewAssignVehicleCommand creates a command to assign a vehicle to a job.
// Validates that the job, vehicle, and actor identifiers are valid UUIDs;
// the driver is optional but validated when present.
func NewAssignVehicleCommand(
	jobID kernel.UUID,
	vehicleID kernel.UUID,
	driverID *kernel.UUID,
	notes string,
	assignedBy kernel.UUID,
) (AssignVehicleCommand, error) {
	cmd := AssignVehicleCommand{
		notes: notes,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setJobID(jobID),
		cmd.setVehicleID(vehicleID),
		cmd.setDriverID(driverID),
		cmd.setAssignedBy(assignedBy),
	); err != nil {
		return AssignVehicleCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrAssignVehicleCommandIsNotConstructed if validation fails.
func (c AssignVehicleCommand) Validate() error {
	return c.guard.Validate(ErrAssignVehicleCommandIsNotConstructed)
}

// JobID returns the job being assigned.
func (c AssignVehicleCommand) JobID() kernel.UUID {
	return c.jobID
}

// VehicleID returns the vehicle taking the job.
func (c AssignVehicleCommand) VehicleID() kernel.UUID {
	return c.vehicleID
}

// DriverID returns the optional driver, or nil.
func (c AssignVehicleCommand) DriverID() *kernel.UUID {
	return c.driverID
}

// Notes returns the free-text assignment notes, possibly empty.
func (c AssignVehicleCommand) Notes() string {
	return c.notes
}

// AssignedBy returns the actor performing the assignment.
func (c AssignVehicleCommand) AssignedBy() kernel.UUID {
	return c.assignedBy
}

func (c *AssignVehicleCommand) setJobID(jobID kernel.UUID) error {
	if err := jobID.Validate(); err != nil {
		return err
	}
	c.jobID = jobID
	return nil
}

func (c *AssignVehicleCommand) setVehicleID(vehicleID kernel.UUID) error {
	if err := vehicleID.Validate(); err != nil {
		return err
	}
	c.vehicleID = vehicleID
	return nil
}

func (c *AssignVehicleCommand) setDriverID(driverID *kernel.UUID) error {
	if driverID == nil {
		return nil
	}
	if err := driverID.Validate(); err != nil {
		return err
	}
	c.driverID = driverID
	return nil
}

func (c *AssignVehicleCommand) setAssignedBy(assignedBy kernel.UUID) error {
	if err := assignedBy.Validate(); err != nil {
		return err
	}
	c.assignedBy = assignedBy
	return nil
}
