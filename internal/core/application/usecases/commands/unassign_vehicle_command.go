package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrUnassignVehicleCommandIsNotConstructed = errors.New(
	"UnassignVehicleCommand must be created via NewUnassignVehicleCommand constructor",
)

// UnassignVehicleCommand represents a request to remove a job's vehicle
// binding and return the job to pending.
type UnassignVehicleCommand struct { //nolint:recvcheck //using for validation
	jobID     kernel.UUID
	changedBy kernel.UUID

	guard guard.ConstructorGuard
}

// NewUnassignVehicleCommand creates a command to unassign a job's vehicle.
// Validates that the job and actor identifiers are valid UUIDs.
func NewUnassignVehicleCommand(jobID, changedBy kernel.UUID) (UnassignVehicleCommand, error) {
	cmd := UnassignVehicleCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setJobID(jobID),
		cmd.setChangedBy(changedBy),
	); err != nil {
		return UnassignVehicleCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrUnassignVehicleCommandIsNotConstructed if validation fails.
func (c UnassignVehicleCommand) Validate() error {
	return c.guard.Validate(ErrUnassignVehicleCommandIsNotConstructed)
}

// JobID returns the job being unassigned.
func (c UnassignVehicleCommand) JobID() kernel.UUID {
	return c.jobID
}

// ChangedBy returns the actor performing the unassignment.
func (c UnassignVehicleCommand) ChangedBy() kernel.UUID {
	return c.changedBy
}

func (c *UnassignVehicleCommand) setJobID(jobID kernel.UUID) error {
	if err := jobID.Validate(); err != nil {
		return err
	}
	c.jobID = jobID
	return nil
}

func (c *UnassignVehicleCommand) setChangedBy(changedBy kernel.UUID) error {
	if err := changedBy.Validate(); err != nil {
		return err
	}
	c.changedBy = changedBy
	return nil
}
