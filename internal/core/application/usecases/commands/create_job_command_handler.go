package commands

import (
	"context"

	"dispatch/internal/core/domain/model/job"
)

// CreateJobCommandHandler handles the business logic for job registration.
// Creates new jobs in "pending" status, ready for vehicle assignment.
//
// Example:
//
//	handler := NewCreateJobCommandHandler(uowFactory)
//	cmd, _ := NewCreateJobCommand(kernel.NewUUID(), "JOB-1042", "Acme Corp", "",
//	    "12 Harbor Rd", job.TypeInstallation, job.PriorityNormal, date, window, userID)
//
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("job creation failed: %w", err)
//	}
type CreateJobCommandHandler struct {
	uowFactory JobUoWFactory
}

// NewCreateJobCommandHandler creates a handler for job registration operations.
// Requires a JobUoWFactory for transactional persistence.
func NewCreateJobCommandHandler(uowFactory JobUoWFactory) CreateJobCommandHandler {
	return CreateJobCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the job creation command.
// Builds the aggregate in "pending" status and persists it transactionally.
func (h *CreateJobCommandHandler) Handle(ctx context.Context, cmd CreateJobCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	newJob, err := job.NewJob(
		cmd.JobID(),
		cmd.JobNumber(),
		cmd.CustomerName(),
		cmd.CustomerPhone(),
		cmd.Address(),
		cmd.JobType(),
		cmd.Priority(),
		cmd.ScheduledDate(),
		cmd.Window(),
		cmd.CreatedBy(),
	)
	if err != nil {
		return err
	}

	if err = uow.JobRepository().Add(ctx, newJob); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
