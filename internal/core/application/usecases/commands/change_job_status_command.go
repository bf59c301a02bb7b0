package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/job"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrChangeJobStatusCommandIsNotConstructed = errors.New(
	"ChangeJobStatusCommand must be created via NewChangeJobStatusCommand constructor",
)

// ChangeJobStatusCommand represents a request to move a job to a new
// lifecycle status. Legality of the move is decided by the job status state
// machine, not by this command.
//
// Example:
//
//	cmd, err := NewChangeJobStatusCommand(jobID, job.StatusInProgress, technicianID, "crew on site")
//	if err != nil {
//	    return err
//	}
//
//	handler := NewChangeJobStatusCommandHandler(uowFactory)
//	result, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, job.ErrMissingAssignment) {
//	    // cannot start work without a vehicle
//	}
type ChangeJobStatusCommand struct { //nolint:recvcheck //using for validation
	jobID     kernel.UUID
	target    job.Status
	changedBy kernel.UUID
	reason    string

	guard guard.ConstructorGuard
}

// NewChangeJobStatusCommand creates a command to change a job's status.
// Validates the identifiers and that the target is a valid status value;
// whether the transition itself is legal is decided at handling time.
func NewChangeJobStatusCommand(
	jobID kernel.UUID,
	target job.Status,
	changedBy kernel.UUID,
	reason string,
) (ChangeJobStatusCommand, error) {
	cmd := ChangeJobStatusCommand{
		reason: reason,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setJobID(jobID),
		cmd.setTarget(target),
		cmd.setChangedBy(changedBy),
	); err != nil {
		return ChangeJobStatusCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrChangeJobStatusCommandIsNotConstructed if validation fails.
func (c ChangeJobStatusCommand) Validate() error {
	return c.guard.Validate(ErrChangeJobStatusCommandIsNotConstructed)
}

// JobID returns the job whose status is changing.
func (c ChangeJobStatusCommand) JobID() kernel.UUID {
	return c.jobID
}

// Target returns the requested status.
func (c ChangeJobStatusCommand) Target() job.Status {
	return c.target
}

// ChangedBy returns the actor requesting the change.
func (c ChangeJobStatusCommand) ChangedBy() kernel.UUID {
	return c.changedBy
}

// Reason returns the optional free-text explanation.
func (c ChangeJobStatusCommand) Reason() string {
	return c.reason
}

func (c *ChangeJobStatusCommand) setJobID(jobID kernel.UUID) error {
	if err := jobID.Validate(); err != nil {
		return err
	}
	c.jobID = jobID
	return nil
}

func (c *ChangeJobStatusCommand) setTarget(target job.Status) error {
	if err := target.Validate(); err != nil {
		return err
	}
	c.target = target
	return nil
}

func (c *ChangeJobStatusCommand) setChangedBy(changedBy kernel.UUID) error {
	if err := changedBy.Validate(); err != nil {
		return err
	}
	c.changedBy = changedBy
	return nil
}
