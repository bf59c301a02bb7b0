package kernel

import (
	"fmt"
	"time"

	"dispatch/internal/pkg/errs"
)

const (
	// MaxHour is the maximum valid hour component of a TimeOfDay.
	MaxHour = 23
	// MaxMinute is the maximum valid minute component of a TimeOfDay.
	MaxMinute = 59
	// MaxSecond is the maximum valid second component of a TimeOfDay.
	MaxSecond = 59

	secondsPerMinute = 60
	secondsPerHour   = 60 * secondsPerMinute
)

// timeOfDayLayout is the wire format for times of day ("15:04:05").
const timeOfDayLayout = "15:04:05"

// TimeOfDay represents a clock time within a single calendar day, with second
// precision and no date or timezone component. It is an immutable value object
// used to express the boundaries of scheduling windows.
//
// TimeOfDay is stored as seconds since midnight, so the zero value is a valid
// midnight (00:00:00). Ordering comparisons are total and deterministic.
//
// Example:
//
//	start, err := kernel.NewTimeOfDay(9, 0, 0)
//	if err != nil {
//	    // Handle validation error
//	}
//	fmt.Println(start) // Output: 09:00:00
type TimeOfDay struct {
	seconds int
}

// NewTimeOfDay creates a TimeOfDay from hour, minute, and second components.
// Each component is validated against its calendar bounds.
//
// Parameters:
//   - hour: 0..23
//   - minute: 0..59
//   - second: 0..59
//
// Returns:
//   - TimeOfDay: the validated clock time
//   - error: ValueIsOutOfRangeError if any component is outside its bounds
func NewTimeOfDay(hour, minute, second int) (TimeOfDay, error) {
	if hour < 0 || hour > MaxHour {
		return TimeOfDay{}, errs.NewValueIsOutOfRangeError("hour", hour, 0, MaxHour)
	}
	if minute < 0 || minute > MaxMinute {
		return TimeOfDay{}, errs.NewValueIsOutOfRangeError("minute", minute, 0, MaxMinute)
	}
	if second < 0 || second > MaxSecond {
		return TimeOfDay{}, errs.NewValueIsOutOfRangeError("second", second, 0, MaxSecond)
	}

	return TimeOfDay{
		seconds: hour*secondsPerHour + minute*secondsPerMinute + second,
	}, nil
}

// ParseTimeOfDay parses a clock time in "HH:MM:SS" format.
// This is the format used on the wire and in the database.
//
// Example:
//
//	t, err := kernel.ParseTimeOfDay("09:30:00")
//	if err != nil {
//	    return fmt.Errorf("invalid start time: %w", err)
//	}
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parsed, err := time.Parse(timeOfDayLayout, s)
	if err != nil {
		return TimeOfDay{}, errs.NewValueIsInvalidErrorWithCause("time of day", err)
	}

	return NewTimeOfDay(parsed.Hour(), parsed.Minute(), parsed.Second())
}

// TimeOfDayFromSeconds creates a TimeOfDay from a seconds-since-midnight value.
// Used when reconstructing value objects from persistence.
func TimeOfDayFromSeconds(seconds int) (TimeOfDay, error) {
	if seconds < 0 || seconds >= 24*secondsPerHour {
		return TimeOfDay{}, errs.NewValueIsOutOfRangeError("seconds", seconds, 0, 24*secondsPerHour-1)
	}
	return TimeOfDay{seconds: seconds}, nil
}

// Hour returns the hour component (0..23).
func (t TimeOfDay) Hour() int {
	return t.seconds / secondsPerHour
}

// Minute returns the minute component (0..59).
func (t TimeOfDay) Minute() int {
	return (t.seconds % secondsPerHour) / secondsPerMinute
}

// Second returns the second component (0..59).
func (t TimeOfDay) Second() int {
	return t.seconds % secondsPerMinute
}

// Seconds returns the time as seconds since midnight.
// Used by the persistence layer for a compact, ordering-friendly representation.
func (t TimeOfDay) Seconds() int {
	return t.seconds
}

// Before reports whether t is strictly earlier than other.
func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t.seconds < other.seconds
}

// IsEqual reports whether two times of day represent the same instant.
func (t TimeOfDay) IsEqual(other TimeOfDay) bool {
	return t.seconds == other.seconds
}

// String returns the "HH:MM:SS" representation.
// Implements fmt.Stringer.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour(), t.Minute(), t.Second())
}
