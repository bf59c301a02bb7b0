package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrCreateVehicleCommandIsNotConstructed = errors.New(
	"CreateVehicleCommand must be created via NewCreateVehicleCommand constructor",
)

// CreateVehicleCommand represents a request to register a new vehicle
// in the fleet. Vehicles start out active and assignable.
type CreateVehicleCommand struct { //nolint:recvcheck //using for validation
	vehicleID    kernel.UUID
	name         string
	licensePlate string

	guard guard.ConstructorGuard
}

// NewCreateVehicleCommand creates a command to register a new vehicle.
// Requires a valid identifier, a display name, and a license plate.
func NewCreateVehicleCommand(vehicleID kernel.UUID, name, licensePlate string) (CreateVehicleCommand, error) {
	cmd := CreateVehicleCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setVehicleID(vehicleID),
		cmd.setName(name),
		cmd.setLicensePlate(licensePlate),
	); err != nil {
		return CreateVehicleCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateVehicleCommand) Validate() error {
	return c.guard.Validate(ErrCreateVehicleCommandIsNotConstructed)
}

// VehicleID returns the identifier for the new vehicle.
func (c CreateVehicleCommand) VehicleID() kernel.UUID {
	return c.vehicleID
}

// Name returns the vehicle display name.
func (c CreateVehicleCommand) Name() string {
	return c.name
}

// LicensePlate returns the vehicle registration plate.
func (c CreateVehicleCommand) LicensePlate() string {
	return c.licensePlate
}

func (c *CreateVehicleCommand) setVehicleID(vehicleID kernel.UUID) error {
	if err := vehicleID.Validate(); err != nil {
		return err
	}
	c.vehicleID = vehicleID
	return nil
}

func (c *CreateVehicleCommand) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	c.name = name
	return nil
}

func (c *CreateVehicleCommand) setLicensePlate(licensePlate string) error {
	if licensePlate == "" {
		return errs.NewValueIsRequiredError("license plate")
	}
	c.licensePlate = licensePlate
	return nil
}
