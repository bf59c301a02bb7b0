package job

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Priority expresses scheduling urgency for a job.
type Priority int

const (
	// PriorityUnknown represents an invalid or undefined priority.
	PriorityUnknown Priority = iota

	// PriorityLow jobs can be scheduled opportunistically.
	PriorityLow

	// PriorityNormal is the default priority for new jobs.
	PriorityNormal

	// PriorityHigh jobs should be scheduled ahead of normal work.
	PriorityHigh

	// PriorityUrgent jobs need same-day attention.
	PriorityUrgent
)

func getPriorityStrings() map[Priority]string {
	return map[Priority]string{
		PriorityLow:    "low",
		PriorityNormal: "normal",
		PriorityHigh:   "high",
		PriorityUrgent: "urgent",
	}
}

// PriorityFromString parses the wire representation of a priority.
func PriorityFromString(s string) (Priority, error) {
	for priority, str := range getPriorityStrings() {
		if str == s {
			return priority, nil
		}
	}
	return PriorityUnknown, errs.NewValueIsInvalidErrorWithCause(
		"priority",
		fmt.Errorf("%q is not a valid priority", s),
	)
}

// Validate checks if the Priority value is valid.
func (p Priority) Validate() error {
	if _, ok := getPriorityStrings()[p]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("priority", fmt.Errorf("%d is not a valid priority", p))
	}
	return nil
}

// String returns the wire representation of the priority.
func (p Priority) String() string {
	if str, ok := getPriorityStrings()[p]; ok {
		return str
	}
	return "unknown"
}
