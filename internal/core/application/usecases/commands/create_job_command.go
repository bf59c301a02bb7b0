package commands

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
	ErrCreateJobCommandIsNotConstructed = errors.New(
		"CreateJobCommand must be created via NewCreateJobCommand constructor",
	)
	// ErrScheduledDateInPast is returned when a job is booked on a date that
	// has already passed. Schedulers must not book historical slots.
	ErrScheduledDateInPast = errors.New("scheduled date must not be in the past")
)

// CreateJobCommand represents a request to register a new work order.
// New jobs always start in pending status and carry a validated half-open
// scheduling window on a future (or current) calendar date.
type CreateJobCommand struct { //nolint:recvcheck //using for validation
	jobID         kernel.UUID
	jobNumber     string
	customerName  string
	customerPhone string
	address       string
	jobType       job.Type
	priority      job.Priority
	scheduledDate time.Time
	window        kernel.TimeWindow
	createdBy     kernel.UUID

	guard guard.ConstructorGuard
}

// NewCreateJobCommand creates a command to register a new job.
// Validates identifiers, required fields, enum values, the scheduling window,
// and that the scheduled date is not in the past relative to the wall clock.
func NewCreateJobCommand(
	jobID kernel.UUID,
	jobNumber string,
	customerName string,
	customerPhone string,
	address string,
	jobType job.Type,
	priority job.Priority,
	scheduledDate time.Time,
	window kernel.TimeWindow,
	createdBy kernel.UUID,
) (CreateJobCommand, error) {
	cmd := CreateJobCommand{
		customerPhone: customerPhone,
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setJobID(jobID),
		cmd.setJobNumber(jobNumber),
		cmd.setCustomerName(customerName),
		cmd.setAddress(address),
		cmd.setJobType(jobType),
		cmd.setPriority(priority),
		cmd.setScheduledDate(scheduledDate),
		cmd.setWindow(window),
		cmd.setCreatedBy(createdBy),
	); err != nil {
		return CreateJobCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateJobCommandIsNotConstructed if validation fails.
func (c CreateJobCommand) Validate() error {
	return c.guard.Validate(ErrCreateJobCommandIsNotConstructed)
}

// JobID returns the identifier for the new job.
func (c CreateJobCommand) JobID() kernel.UUID {
	return c.jobID
}

// JobNumber returns the human-readable job reference.
func (c CreateJobCommand) JobNumber() string {
	return c.jobNumber
}

// CustomerName returns the customer the work is for.
func (c CreateJobCommand) CustomerName() string {
	return c.customerName
}

// CustomerPhone returns the optional customer contact number.
func (c CreateJobCommand) CustomerPhone() string {
	return c.customerPhone
}

// Address returns the work site address.
func (c CreateJobCommand) Address() string {
	return c.address
}

// JobType returns the kind of work.
func (c CreateJobCommand) JobType() job.Type {
	return c.jobType
}

// Priority returns the scheduling urgency.
func (c CreateJobCommand) Priority() job.Priority {
	return c.priority
}

// ScheduledDate returns the booking date normalized to UTC midnight.
func (c CreateJobCommand) ScheduledDate() time.Time {
	return c.scheduledDate
}

// Window returns the requested working window.
func (c CreateJobCommand) Window() kernel.TimeWindow {
	return c.window
}

// CreatedBy returns the user creating the job.
func (c CreateJobCommand) CreatedBy() kernel.UUID {
	return c.createdBy
}

func (c *CreateJobCommand) setJobID(jobID kernel.UUID) error {
	if err := jobID.Validate(); err != nil {
		return err
	}
	c.jobID = jobID
	return nil
}

func (c *CreateJobCommand) setJobNumber(jobNumber string) error {
	if jobNumber == "" {
		return errs.NewValueIsRequiredError("job number")
	}
	c.jobNumber = jobNumber
	return nil
}

func (c *CreateJobCommand) setCustomerName(customerName string) error {
	if customerName == "" {
		return errs.NewValueIsRequiredError("customer name")
	}
	c.customerName = customerName
	return nil
}

func (c *CreateJobCommand) setAddress(address string) error {
	if address == "" {
		return errs.NewValueIsRequiredError("address")
	}
	c.address = address
	return nil
}

func (c *CreateJobCommand) setJobType(jobType job.Type) error {
	if err := jobType.Validate(); err != nil {
		return err
	}
	c.jobType = jobType
	return nil
}

func (c *CreateJobCommand) setPriority(priority job.Priority) error {
	if err := priority.Validate(); err != nil {
		return err
	}
	c.priority = priority
	return nil
}

func (c *CreateJobCommand) setScheduledDate(scheduledDate time.Time) error {
	if scheduledDate.IsZero() {
		return errs.NewValueIsRequiredError("scheduled date")
	}

	normalized := job.NormalizeDate(scheduledDate)
	today := job.NormalizeDate(time.Now())
	if normalized.Before(today) {
		return fmt.Errorf("%w: %s", ErrScheduledDateInPast, normalized.Format(time.DateOnly))
	}

	c.scheduledDate = normalized
	return nil
}

func (c *CreateJobCommand) setWindow(window kernel.TimeWindow) error {
	if err := window.Validate(); err != nil {
		return err
	}
	c.window = window
	return nil
}

func (c *CreateJobCommand) setCreatedBy(createdBy kernel.UUID) error {
	if err := createdBy.Validate(); err != nil {
		return err
	}
	c.createdBy = createdBy
	return nil
}
