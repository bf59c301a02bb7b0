package job

import (
	"errors"
	"fmt"
	"strings"

	"dispatch/internal/pkg/errs"
)

var (
	// ErrInvalidTransition is the sentinel wrapped by InvalidTransitionError.
	// Use errors.Is against this value to classify transition rejections.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrMissingAssignment is returned when a transition requires the job to
	// hold a vehicle assignment and it does not.
	ErrMissingAssignment = errors.New("job has no vehicle assignment")
)

// Status represents the lifecycle state of a job.
// It implements a state machine with defined transitions to ensure
// jobs follow the correct scheduling workflow.
//
// State transitions:
//
//	pending ───> assigned ───> in_progress ───> completed
//	   │  ▲          │              │
//	   │  └──────────┤ (unassign)   │
//	   ▼             ▼              ▼
//	cancelled <──────┴──────────────┘
//	   │
//	   └───> pending (reopen)
//
// completed is terminal: no transition ever leaves it.
//
// Status is a value object that validates state transitions and provides
// string representations for persistence and display.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	StatusUnknown Status = iota

	// StatusPending is the initial status when a job is first created.
	// Jobs in this status are waiting for a vehicle assignment.
	StatusPending

	// StatusAssigned indicates the job has a vehicle assignment.
	// Jobs can be reassigned to a different vehicle while in this status.
	StatusAssigned

	// StatusInProgress indicates work on the job has started.
	// Requires an existing vehicle assignment.
	StatusInProgress

	// StatusCompleted indicates the job has finished successfully.
	// This is a terminal state with no further transitions allowed.
	StatusCompleted

	// StatusCancelled indicates the job was called off.
	// Cancelled jobs can be reopened back to pending.
	StatusCancelled
)

// Via identifies the path through which a transition back to pending is taken.
// Direct status updates cannot move a job to pending; the move must be an
// explicit unassignment (from assigned) or an explicit reopen (from cancelled).
// The discriminator is structural so intent is never inferred from reason text.
type Via int

const (
	// ViaDirect is an ordinary status update requested by a caller.
	ViaDirect Via = iota

	// ViaUnassign marks the transition performed by the unassignment
	// orchestration when it removes a job's vehicle binding.
	ViaUnassign

	// ViaReopen marks the explicit reopening of a cancelled job.
	ViaReopen
)

// TransitionContext carries the cross-entity facts a transition decision
// depends on. The state machine performs no I/O; callers supply the facts.
type TransitionContext struct {
	// HasAssignment reports whether an assignment row currently exists for the job.
	HasAssignment bool

	// Via identifies the orchestration path requesting the transition.
	Via Via
}

// InvalidTransitionError is returned when a requested status change is not
// permitted from the current status. Allowed carries the set of statuses the
// job could legally move to, for actionable error reporting.
type InvalidTransitionError struct {
	From    Status
	To      Status
	Allowed []Status
}

// Error formats the rejection including the allowed target set.
func (e *InvalidTransitionError) Error() string {
	allowed := make([]string, len(e.Allowed))
	for i, s := range e.Allowed {
		allowed[i] = s.String()
	}
	return fmt.Sprintf("%s: cannot change status from %s to %s (allowed: %s)",
		ErrInvalidTransition, e.From, e.To, strings.Join(allowed, ", "))
}

// Unwrap returns the sentinel ErrInvalidTransition for errors.Is support.
func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// getStatusStrings returns a map of Status values to their string representations.
// All statuses are included for string conversion.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:    "unknown",
		StatusPending:    "pending",
		StatusAssigned:   "assigned",
		StatusInProgress: "in_progress",
		StatusCompleted:  "completed",
		StatusCancelled:  "cancelled",
	}
}

// getValidStatusStrings returns a map of only valid Status values.
// Only valid statuses are included to support validation and parsing.
func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // StatusUnknown is intentionally excluded as it's invalid
	return map[Status]string{
		StatusPending:    "pending",
		StatusAssigned:   "assigned",
		StatusInProgress: "in_progress",
		StatusCompleted:  "completed",
		StatusCancelled:  "cancelled",
	}
}

// StatusFromString parses the wire representation of a status.
// Accepts exactly the lowercase forms produced by String: "pending",
// "assigned", "in_progress", "completed", "cancelled".
//
// Returns:
//   - Status: the parsed status
//   - error: ValueIsInvalidError if the string names no valid status
func StatusFromString(s string) (Status, error) {
	for status, str := range getValidStatusStrings() {
		if str == s {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause(
		"status",
		fmt.Errorf("%q is not a valid status", s),
	)
}

// Validate checks if the Status value is valid.
//
// Valid statuses are: pending, assigned, in_progress, completed, cancelled.
// StatusUnknown (0) and any other values are invalid.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire representation of the status.
// Implements fmt.Stringer and is safe to call on any Status value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether the status admits no outgoing transitions.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted
}

// IsActive reports whether an assignment on a job with this status occupies
// the vehicle's schedule. Completed and cancelled jobs release their slot.
func (s Status) IsActive() bool {
	return s != StatusCompleted && s != StatusCancelled
}

// AllowedTransitions returns the statuses reachable from s through a direct
// status update, given the supplied context. Moves that require a dedicated
// orchestration path (assigned -> pending via unassignment) are excluded;
// reopening a cancelled job is a direct update and is included.
//
// The returned slice is in declaration order and never nil.
func (s Status) AllowedTransitions(ctx TransitionContext) []Status {
	allowed := make([]Status, 0, 2)

	switch s {
	case StatusPending:
		allowed = append(allowed, StatusAssigned, StatusCancelled)
	case StatusAssigned:
		if ctx.HasAssignment {
			allowed = append(allowed, StatusInProgress)
		}
		allowed = append(allowed, StatusCancelled)
	case StatusInProgress:
		allowed = append(allowed, StatusCompleted, StatusCancelled)
	case StatusCancelled:
		allowed = append(allowed, StatusPending)
	case StatusCompleted, StatusUnknown:
		// terminal or invalid: nothing reachable
	}

	return allowed
}

// Transition decides whether a move from s to target is legal under ctx and
// returns the resulting status.
//
// Rules enforced beyond the raw table:
//   - target == s is a no-op success (idempotent update), not an error
//   - assigned and in_progress require an existing assignment (ErrMissingAssignment)
//   - completed is reachable only from in_progress
//   - completed has no outgoing transitions
//   - pending is reachable only from assigned via ViaUnassign or from
//     cancelled via ViaReopen (or a direct reopen request)
//
// Transition is a pure decision function: it performs no I/O and has no
// knowledge of persistence.
func (s Status) Transition(target Status, ctx TransitionContext) (Status, error) {
	if err := s.Validate(); err != nil {
		return StatusUnknown, err
	}
	if err := target.Validate(); err != nil {
		return StatusUnknown, err
	}

	if s == target {
		return s, nil
	}

	invalid := &InvalidTransitionError{
		From:    s,
		To:      target,
		Allowed: s.AllowedTransitions(ctx),
	}

	// Terminal states reject everything before any guard is consulted.
	if s.IsTerminal() {
		return StatusUnknown, invalid
	}

	// Starting work without a vehicle binding is a missing-assignment
	// failure regardless of the current status.
	if target == StatusInProgress && !ctx.HasAssignment {
		return StatusUnknown, ErrMissingAssignment
	}

	if !s.canTransitionTo(target, ctx) {
		return StatusUnknown, invalid
	}

	if target == StatusAssigned && !ctx.HasAssignment {
		return StatusUnknown, ErrMissingAssignment
	}

	return target, nil
}

// canTransitionTo is the raw from->to table, including the via-restricted
// edges back to pending.
func (s Status) canTransitionTo(target Status, ctx TransitionContext) bool {
	switch s {
	case StatusPending:
		return target == StatusAssigned || target == StatusCancelled
	case StatusAssigned:
		if target == StatusPending {
			return ctx.Via == ViaUnassign
		}
		return target == StatusInProgress || target == StatusCancelled
	case StatusInProgress:
		return target == StatusCompleted || target == StatusCancelled
	case StatusCancelled:
		return target == StatusPending && (ctx.Via == ViaReopen || ctx.Via == ViaDirect)
	case StatusCompleted, StatusUnknown:
		return false
	}
	return false
}
