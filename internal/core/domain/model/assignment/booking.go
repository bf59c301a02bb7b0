package assignment

import (
	"dispatch/internal/core/domain/model/job"
	"dispatch/internal/core/domain/model/kernel"
)

// Booking is a read model projecting an assignment joined with its job's
// scheduling fields. Repositories produce Bookings for a vehicle and date;
// the availability checker decides which of them conflict with a requested
// window.
//
// A Booking carries enough detail to render a human-actionable conflict
// message without further lookups.
type Booking struct {
	// JobID identifies the booked job.
	JobID kernel.UUID

	// JobNumber is the human-readable job reference.
	JobNumber string

	// CustomerName is who the booked job is for.
	CustomerName string

	// Window is the booked half-open time window.
	Window kernel.TimeWindow

	// Status is the booked job's current status. Only bookings whose status
	// is active (not completed or cancelled) occupy the schedule.
	Status job.Status

	// DriverID is the booked assignment's driver, if any.
	DriverID *kernel.UUID
}

// IsActive reports whether the booking currently occupies the vehicle's
// schedule.
func (b Booking) IsActive() bool {
	return b.Status.IsActive()
}
