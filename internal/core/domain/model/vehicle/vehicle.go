// Package vehicle provides the Vehicle aggregate for the dispatch system.
// Vehicles are the finite pool of resources that jobs are allocated to;
// an inactive vehicle is out of service and cannot take new assignments.
package vehicle

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

var (
	// ErrVehicleIsNotConstructed is returned when a Vehicle instance was not
	// created through the NewVehicle or RestoreVehicle factory methods.
	ErrVehicleIsNotConstructed = errors.New("Vehicle must be created via NewVehicle or RestoreVehicle constructor")
)

// Vehicle represents a fleet vehicle that can be booked for jobs.
// Many jobs may reference one vehicle over time, but at most one active job
// may occupy any overlapping time window — that invariant is enforced by the
// assignment orchestration, not the aggregate.
type Vehicle struct {
	id           kernel.UUID
	name         string
	licensePlate string
	isActive     bool

	isConstructed bool
}

// NewVehicle creates a new active Vehicle with validation.
//
// Parameters:
//   - id: unique identifier (must be a valid UUID)
//   - name: descriptive name (required)
//   - licensePlate: registration plate (required)
func NewVehicle(id kernel.UUID, name, licensePlate string) (*Vehicle, error) {
	v := &Vehicle{
		isActive:      true,
		isConstructed: true,
	}

	if err := errors.Join(
		v.setID(id),
		v.setName(name),
		v.setLicensePlate(licensePlate),
	); err != nil {
		return nil, err
	}

	return v, nil
}

// RestoreVehicle reconstructs a Vehicle from persistence, including its
// active flag. Used by repositories.
func RestoreVehicle(id kernel.UUID, name, licensePlate string, isActive bool) (*Vehicle, error) {
	v, err := NewVehicle(id, name, licensePlate)
	if err != nil {
		return nil, err
	}

	v.isActive = isActive
	return v, nil
}

// Validate ensures the Vehicle was properly constructed through a factory.
func (v *Vehicle) Validate() error {
	if v == nil || !v.isConstructed {
		return ErrVehicleIsNotConstructed
	}
	return nil
}

// IsEqual compares two vehicles by their unique identifiers.
func (v *Vehicle) IsEqual(other *Vehicle) bool {
	return other != nil && v.id.IsEqual(other.id)
}

// ID returns the vehicle's unique identifier.
func (v *Vehicle) ID() kernel.UUID {
	return v.id
}

// Name returns the vehicle's descriptive name.
func (v *Vehicle) Name() string {
	return v.name
}

// LicensePlate returns the registration plate.
func (v *Vehicle) LicensePlate() string {
	return v.licensePlate
}

// IsActive reports whether the vehicle is in service.
// Inactive vehicles cannot receive new assignments.
func (v *Vehicle) IsActive() bool {
	return v.isActive
}

// Deactivate takes the vehicle out of service.
// Existing assignments are untouched; only new bookings are blocked.
func (v *Vehicle) Deactivate() {
	v.isActive = false
}

// Activate returns the vehicle to service.
func (v *Vehicle) Activate() {
	v.isActive = true
}

func (v *Vehicle) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	v.id = id
	return nil
}

func (v *Vehicle) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("vehicle name")
	}
	v.name = name
	return nil
}

func (v *Vehicle) setLicensePlate(licensePlate string) error {
	if licensePlate == "" {
		return errs.NewValueIsRequiredError("license plate")
	}
	v.licensePlate = licensePlate
	return nil
}
