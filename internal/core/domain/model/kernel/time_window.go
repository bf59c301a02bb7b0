package kernel

import (
	"fmt"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// ErrTimeWindowIsNotConstructed is returned when attempting to use an improperly
// initialized TimeWindow. Windows must be created via NewTimeWindow to guarantee
// the start-before-end invariant.
var ErrTimeWindowIsNotConstructed = errs.NewValueIsRequiredError(
	"time window must be created via NewTimeWindow constructor")

// TimeWindow represents a half-open interval [start, end) within a single day.
// The end instant is excluded, so a window ending at 12:00:00 does not overlap
// a window starting at 12:00:00 — back-to-back bookings are allowed.
//
// TimeWindow is an immutable value object. The zero value is invalid and fails
// Validate; use NewTimeWindow to create instances.
//
// Example:
//
//	start, _ := kernel.NewTimeOfDay(9, 0, 0)
//	end, _ := kernel.NewTimeOfDay(12, 0, 0)
//	window, err := kernel.NewTimeWindow(start, end)
//	if err != nil {
//	    // Handle validation error
//	}
//	fmt.Println(window) // Output: [09:00:00, 12:00:00)
type TimeWindow struct {
	start TimeOfDay
	end   TimeOfDay
	guard guard.ConstructorGuard
}

// NewTimeWindow creates a TimeWindow from start and end times of day.
// The start must be strictly earlier than the end; zero-length and inverted
// windows are rejected.
//
// Returns:
//   - TimeWindow: the validated window
//   - error: ValueIsInvalidError if start >= end
func NewTimeWindow(start, end TimeOfDay) (TimeWindow, error) {
	if !start.Before(end) {
		return TimeWindow{}, errs.NewValueIsInvalidErrorWithCause(
			"time window",
			fmt.Errorf("start %s must be before end %s", start, end),
		)
	}

	return TimeWindow{
		start: start,
		end:   end,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// ParseTimeWindow creates a TimeWindow from "HH:MM:SS" start and end strings.
// Convenience constructor for the HTTP and persistence boundaries.
func ParseTimeWindow(start, end string) (TimeWindow, error) {
	startTime, err := ParseTimeOfDay(start)
	if err != nil {
		return TimeWindow{}, err
	}

	endTime, err := ParseTimeOfDay(end)
	if err != nil {
		return TimeWindow{}, err
	}

	return NewTimeWindow(startTime, endTime)
}

// Validate ensures the TimeWindow was created via NewTimeWindow.
// Returns ErrTimeWindowIsNotConstructed for zero-value windows.
func (w TimeWindow) Validate() error {
	return w.guard.Validate(ErrTimeWindowIsNotConstructed)
}

// Start returns the inclusive start of the window.
func (w TimeWindow) Start() TimeOfDay {
	return w.start
}

// End returns the exclusive end of the window.
func (w TimeWindow) End() TimeOfDay {
	return w.end
}

// Overlaps reports whether two half-open windows intersect.
// Windows [s1, e1) and [s2, e2) overlap iff s1 < e2 && s2 < e1, so windows
// that merely touch at a boundary do not overlap.
//
// Example:
//
//	morning, _ := kernel.ParseTimeWindow("09:00:00", "12:00:00")
//	midday, _ := kernel.ParseTimeWindow("12:00:00", "14:00:00")
//	fmt.Println(morning.Overlaps(midday)) // Output: false
func (w TimeWindow) Overlaps(other TimeWindow) bool {
	return w.start.Before(other.end) && other.start.Before(w.end)
}

// IsEqual reports whether two windows cover the same interval.
func (w TimeWindow) IsEqual(other TimeWindow) bool {
	return w.start.IsEqual(other.start) && w.end.IsEqual(other.end)
}

// String returns the "[HH:MM:SS, HH:MM:SS)" representation.
// Implements fmt.Stringer.
func (w TimeWindow) String() string {
	return fmt.Sprintf("[%s, %s)", w.start, w.end)
}
