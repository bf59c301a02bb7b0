package job

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

var (
	// ErrJobIsNotConstructed is returned when a Job instance was not created through
	// the NewJob or RestoreJob factory methods. This ensures all jobs are properly validated.
	ErrJobIsNotConstructed = errors.New("Job must be created via NewJob or RestoreJob constructor")
)

// Job represents a time-boxed work order in the system. It is the aggregate root
// that manages the job lifecycle from creation through assignment to completion.
//
// Job follows these invariants:
//   - Must have a valid unique identifier and job number
//   - Must have a customer name and a scheduled calendar date
//   - The scheduling window is a validated half-open interval (start < end)
//   - Status transitions follow the rules enforced by Status.Transition
//   - Can only be created through NewJob or RestoreJob
//
// The Job struct uses private fields to ensure encapsulation and maintains
// its invariants through validated methods.
type Job struct {
	// id is the unique identifier for the job
	id kernel.UUID

	// jobNumber is the human-readable reference shown in conflicts and reports
	jobNumber string

	// customerName identifies who the work is for
	customerName string

	// customerPhone is the customer's contact number (optional)
	customerPhone string

	// address is where the work takes place
	address string

	// jobType categorizes the work
	jobType Type

	// priority expresses scheduling urgency
	priority Priority

	// scheduledDate is the calendar date the job is booked on (UTC midnight)
	scheduledDate time.Time

	// window is the half-open [start, end) working window on scheduledDate
	window kernel.TimeWindow

	// status is the current state in the job lifecycle
	status Status

	// createdBy references the user who created the job
	createdBy kernel.UUID

	// isConstructed ensures the job was created via a constructor
	isConstructed bool
}

// NewJob creates a new Job in pending status with validation. This is the only
// way to create a fresh Job, ensuring all business invariants hold from the start.
//
// Parameters:
//   - id: unique identifier (must be a valid UUID)
//   - jobNumber: human-readable reference (required)
//   - customerName: customer the work is for (required)
//   - customerPhone: contact number (optional)
//   - address: work site address (required)
//   - jobType: kind of work (must be valid)
//   - priority: scheduling urgency (must be valid)
//   - scheduledDate: calendar date of the booking (required; normalized to UTC midnight)
//   - window: validated half-open working window
//   - createdBy: user creating the job (must be a valid UUID)
//
// Returns:
//   - *Job: the created job in pending status if all validations pass
//   - error: joined validation errors otherwise
func NewJob(
	id kernel.UUID,
	jobNumber string,
	customerName string,
	customerPhone string,
	address string,
	jobType Type,
	priority Priority,
	scheduledDate time.Time,
	window kernel.TimeWindow,
	createdBy kernel.UUID,
) (*Job, error) {
	j := &Job{
		status:        StatusPending,
		customerPhone: customerPhone,
		isConstructed: true,
	}

	if err := errors.Join(
		j.setID(id),
		j.setJobNumber(jobNumber),
		j.setCustomerName(customerName),
		j.setAddress(address),
		j.setType(jobType),
		j.setPriority(priority),
		j.setScheduledDate(scheduledDate),
		j.setWindow(window),
		j.setCreatedBy(createdBy),
	); err != nil {
		return nil, err
	}

	return j, nil
}

// RestoreJob reconstructs a Job from persistence, including its current status.
// Used by repositories; performs the same field validation as NewJob plus a
// status validity check.
func RestoreJob(
	id kernel.UUID,
	jobNumber string,
	customerName string,
	customerPhone string,
	address string,
	jobType Type,
	priority Priority,
	scheduledDate time.Time,
	window kernel.TimeWindow,
	status Status,
	createdBy kernel.UUID,
) (*Job, error) {
	j, err := NewJob(id, jobNumber, customerName, customerPhone, address,
		jobType, priority, scheduledDate, window, createdBy)
	if err != nil {
		return nil, err
	}

	if err = status.Validate(); err != nil {
		return nil, err
	}
	j.status = status

	return j, nil
}

// Validate ensures the Job instance was properly constructed through a factory.
// This prevents bypassing validation by directly instantiating the struct.
func (j *Job) Validate() error {
	if j == nil || !j.isConstructed {
		return ErrJobIsNotConstructed
	}
	return nil
}

// IsEqual compares two jobs by their unique identifiers.
func (j *Job) IsEqual(other *Job) bool {
	return other != nil && j.id.IsEqual(other.id)
}

// ID returns the job's unique identifier.
func (j *Job) ID() kernel.UUID {
	return j.id
}

// JobNumber returns the human-readable job reference.
func (j *Job) JobNumber() string {
	return j.jobNumber
}

// CustomerName returns the customer the work is for.
func (j *Job) CustomerName() string {
	return j.customerName
}

// CustomerPhone returns the customer's contact number, possibly empty.
func (j *Job) CustomerPhone() string {
	return j.customerPhone
}

// Address returns the work site address.
func (j *Job) Address() string {
	return j.address
}

// Type returns the kind of work the job represents.
func (j *Job) Type() Type {
	return j.jobType
}

// Priority returns the job's scheduling urgency.
func (j *Job) Priority() Priority {
	return j.priority
}

// ScheduledDate returns the booking date normalized to UTC midnight.
func (j *Job) ScheduledDate() time.Time {
	return j.scheduledDate
}

// Window returns the job's half-open working window.
func (j *Job) Window() kernel.TimeWindow {
	return j.window
}

// Status returns the current status of the job.
func (j *Job) Status() Status {
	return j.status
}

// CreatedBy returns the user who created the job.
func (j *Job) CreatedBy() kernel.UUID {
	return j.createdBy
}

// ChangeStatus transitions the job to the target status under the supplied
// context. A same-status request succeeds without effect. The returned bool
// reports whether the status actually changed, so callers can decide whether
// a history record is due.
//
// Example:
//
//	changed, err := j.ChangeStatus(job.StatusInProgress, job.TransitionContext{HasAssignment: true})
//	if err != nil {
//	    // InvalidTransitionError or ErrMissingAssignment
//	}
func (j *Job) ChangeStatus(target Status, ctx TransitionContext) (bool, error) {
	newStatus, err := j.status.Transition(target, ctx)
	if err != nil {
		return false, err
	}

	if newStatus == j.status {
		return false, nil
	}

	j.status = newStatus
	return true, nil
}

// MarkAssigned transitions the job into assigned status as part of the
// assignment orchestration. The caller guarantees the assignment row exists.
func (j *Job) MarkAssigned() (bool, error) {
	return j.ChangeStatus(StatusAssigned, TransitionContext{HasAssignment: true})
}

// MarkUnassigned transitions the job back to pending as part of the
// unassignment orchestration.
func (j *Job) MarkUnassigned() (bool, error) {
	return j.ChangeStatus(StatusPending, TransitionContext{Via: ViaUnassign})
}

func (j *Job) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	j.id = id
	return nil
}

func (j *Job) setJobNumber(jobNumber string) error {
	if jobNumber == "" {
		return errs.NewValueIsRequiredError("job number")
	}
	j.jobNumber = jobNumber
	return nil
}

func (j *Job) setCustomerName(customerName string) error {
	if customerName == "" {
		return errs.NewValueIsRequiredError("customer name")
	}
	j.customerName = customerName
	return nil
}

func (j *Job) setAddress(address string) error {
	if address == "" {
		return errs.NewValueIsRequiredError("address")
	}
	j.address = address
	return nil
}

func (j *Job) setType(jobType Type) error {
	if err := jobType.Validate(); err != nil {
		return err
	}
	j.jobType = jobType
	return nil
}

func (j *Job) setPriority(priority Priority) error {
	if err := priority.Validate(); err != nil {
		return err
	}
	j.priority = priority
	return nil
}

func (j *Job) setScheduledDate(scheduledDate time.Time) error {
	if scheduledDate.IsZero() {
		return errs.NewValueIsRequiredError("scheduled date")
	}
	j.scheduledDate = NormalizeDate(scheduledDate)
	return nil
}

func (j *Job) setWindow(window kernel.TimeWindow) error {
	if err := window.Validate(); err != nil {
		return err
	}
	j.window = window
	return nil
}

func (j *Job) setCreatedBy(createdBy kernel.UUID) error {
	if err := createdBy.Validate(); err != nil {
		return err
	}
	j.createdBy = createdBy
	return nil
}

// NormalizeDate truncates a timestamp to its UTC calendar date.
// All scheduled dates are stored and compared in this form.
func NormalizeDate(t time.Time) time.Time {
	utc := t.UTC()
	return time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
}
