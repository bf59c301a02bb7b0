package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"
)

// ErrTimeConflict is the sentinel wrapped by TimeConflictError.
// Use errors.Is against this value to classify scheduling conflicts.
var ErrTimeConflict = errors.New("time conflict")

// TimeConflictError is returned when a requested window collides with one or
// more active bookings on the same vehicle and date. Conflicts carries the
// colliding bookings ordered by ascending start time.
type TimeConflictError struct {
	VehicleID kernel.UUID
	Window    kernel.TimeWindow
	Conflicts []assignment.Booking
}

// Error formats the conflict with every colliding booking, so the message is
// actionable without further lookups.
func (e *TimeConflictError) Error() string {
	descriptions := make([]string, len(e.Conflicts))
	for i, c := range e.Conflicts {
		descriptions[i] = fmt.Sprintf("%s (%s, %s, %s)", c.JobNumber, c.CustomerName, c.Window, c.Status)
	}
	return fmt.Sprintf("%s: vehicle %s is booked during %s by: %s",
		ErrTimeConflict, e.VehicleID, e.Window, strings.Join(descriptions, "; "))
}

// Unwrap returns the sentinel ErrTimeConflict for errors.Is support.
func (e *TimeConflictError) Unwrap() error {
	return ErrTimeConflict
}

// AvailabilityChecker is a domain service that decides whether a vehicle is
// free for a requested time window given its existing bookings.
//
// Key responsibilities:
//   - Half-open interval overlap detection ([s1,e1) and [s2,e2) conflict
//     iff s1 < e2 && s2 < e1, so touching endpoints never conflict)
//   - Filtering out bookings that no longer occupy the schedule
//     (completed or cancelled jobs)
//   - Excluding a job's own booking so a job can be moved without
//     self-conflicting
//
// The checker is pure: it performs no I/O and holds no state. Callers load
// the candidate bookings (one vehicle, one date) from the repository —
// inside the mutating transaction when the result is authoritative.
//
// Example usage:
//
//	checker := services.NewAvailabilityChecker()
//	bookings, _ := assignmentRepo.GetActiveBookings(ctx, vehicleID, date)
//	if err := checker.EnsureAvailable(vehicleID, window, nil, bookings); err != nil {
//	    var conflictErr *services.TimeConflictError
//	    if errors.As(err, &conflictErr) {
//	        // conflictErr.Conflicts lists the colliding jobs
//	    }
//	}
type AvailabilityChecker struct{}

// NewAvailabilityChecker creates a new AvailabilityChecker instance.
func NewAvailabilityChecker() AvailabilityChecker {
	return AvailabilityChecker{}
}

// FindConflicts returns the bookings that collide with the requested window,
// ordered by ascending start time.
//
// Parameters:
//   - window: the requested half-open window (must be constructed)
//   - excludeJobID: when non-nil, that job's own booking is ignored
//     (used during reassignment of the same job)
//   - bookings: the vehicle's bookings for the date under consideration
//
// Returns:
//   - []assignment.Booking: colliding active bookings, possibly empty
//   - error: validation error if the window was not properly constructed
func (c AvailabilityChecker) FindConflicts(
	window kernel.TimeWindow,
	excludeJobID *kernel.UUID,
	bookings []assignment.Booking,
) ([]assignment.Booking, error) {
	if err := window.Validate(); err != nil {
		return nil, err
	}

	conflicts := make([]assignment.Booking, 0)
	for _, booking := range bookings {
		if !booking.IsActive() {
			continue
		}
		if excludeJobID != nil && booking.JobID.IsEqual(*excludeJobID) {
			continue
		}
		if !window.Overlaps(booking.Window) {
			continue
		}
		conflicts = append(conflicts, booking)
	}

	sort.Slice(conflicts, func(i, j int) bool {
		return conflicts[i].Window.Start().Before(conflicts[j].Window.Start())
	})

	return conflicts, nil
}

// EnsureAvailable verifies the vehicle is free for the requested window.
// Returns a *TimeConflictError carrying the colliding bookings when it is not.
func (c AvailabilityChecker) EnsureAvailable(
	vehicleID kernel.UUID,
	window kernel.TimeWindow,
	excludeJobID *kernel.UUID,
	bookings []assignment.Booking,
) error {
	conflicts, err := c.FindConflicts(window, excludeJobID, bookings)
	if err != nil {
		return err
	}

	if len(conflicts) > 0 {
		return &TimeConflictError{
			VehicleID: vehicleID,
			Window:    window,
			Conflicts: conflicts,
		}
	}

	return nil
}
