// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries return optimized read models for specific use cases.
package queries

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/job"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var (
	ErrCheckAvailabilityQueryIsNotConstructed = errors.New(
		"CheckAvailabilityQuery must be created via NewCheckAvailabilityQuery constructor",
	)

	// ErrDateInPast is returned when availability is requested for a calendar
	// date that has already passed.
	ErrDateInPast = errors.New("date must not be in the past")

	// ErrVehicleInactive is returned when availability is requested for a
	// vehicle that has been taken out of service.
	ErrVehicleInactive = errors.New("vehicle is not active")
)

// CheckAvailabilityQuery asks whether a vehicle is free for a time window on
// a calendar date. The answer is advisory: it reflects the schedule at read
// time and may be stale by the time an assignment is attempted. The
// assignment operation re-checks inside its own transaction and remains the
// sole authority.
//
// Example:
//
//	query, err := NewCheckAvailabilityQuery(vehicleID, date, window, nil)
//	if err != nil {
//	    return err
//	}
//
//	result, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return err
//	}
//	if !result.Available {
//	    fmt.Printf("%d conflicting bookings\n", len(result.Conflicts))
//	}
type CheckAvailabilityQuery struct {
	vehicleID    kernel.UUID
	date         time.Time
	window       kernel.TimeWindow
	excludeJobID *kernel.UUID

	guard guard.ConstructorGuard
}

// NewCheckAvailabilityQuery creates a query to check a vehicle's availability.
// The date must not be in the past; excludeJobID, when non-nil, removes that
// job's own booking from consideration (used when moving an existing job).
func NewCheckAvailabilityQuery(
	vehicleID kernel.UUID,
	date time.Time,
	window kernel.TimeWindow,
	excludeJobID *kernel.UUID,
) (CheckAvailabilityQuery, error) {
	if err := vehicleID.Validate(); err != nil {
		return CheckAvailabilityQuery{}, err
	}

	if date.IsZero() {
		return CheckAvailabilityQuery{}, errs.NewValueIsRequiredError("date")
	}

	normalized := job.NormalizeDate(date)
	if normalized.Before(job.NormalizeDate(time.Now())) {
		return CheckAvailabilityQuery{}, fmt.Errorf("%w: %s", ErrDateInPast, normalized.Format(time.DateOnly))
	}

	if err := window.Validate(); err != nil {
		return CheckAvailabilityQuery{}, err
	}

	if excludeJobID != nil {
		if err := excludeJobID.Validate(); err != nil {
			return CheckAvailabilityQuery{}, err
		}
	}

	return CheckAvailabilityQuery{
		vehicleID:    vehicleID,
		date:         normalized,
		window:       window,
		excludeJobID: excludeJobID,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q CheckAvailabilityQuery) Validate() error {
	return q.guard.Validate(ErrCheckAvailabilityQueryIsNotConstructed)
}

// VehicleID returns the vehicle whose schedule is being checked.
func (q CheckAvailabilityQuery) VehicleID() kernel.UUID {
	return q.vehicleID
}

// Date returns the calendar date, normalized to UTC midnight.
func (q CheckAvailabilityQuery) Date() time.Time {
	return q.date
}

// Window returns the requested time window.
func (q CheckAvailabilityQuery) Window() kernel.TimeWindow {
	return q.window
}

// ExcludeJobID returns the job whose own booking is ignored, if any.
func (q CheckAvailabilityQuery) ExcludeJobID() *kernel.UUID {
	return q.excludeJobID
}

// BookingConflictResponse describes one booking that collides with the
// requested window.
type BookingConflictResponse struct {
	JobID        kernel.UUID
	JobNumber    string
	CustomerName string
	Window       kernel.TimeWindow
	Status       string
}

// CheckAvailabilityResponse is the advisory availability answer.
type CheckAvailabilityResponse struct {
	VehicleID kernel.UUID
	Date      time.Time
	Window    kernel.TimeWindow
	Available bool
	Conflicts []BookingConflictResponse
}
