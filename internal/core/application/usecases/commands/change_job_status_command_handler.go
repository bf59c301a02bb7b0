package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/job"
	"dispatch/internal/core/domain/model/kernel"
)

// ChangeJobStatusResult reports the outcome of a status update.
// When the request was an idempotent same-status update, Changed is false
// and no status change record was written.
type ChangeJobStatusResult struct {
	JobID     kernel.UUID
	JobNumber string
	OldStatus job.Status
	NewStatus job.Status
	Changed   bool
}

// ChangeJobStatusCommandHandler applies lifecycle transitions to jobs.
// It loads the has-assignment fact, delegates the decision to the job status
// state machine, and persists the new status together with an append-only
// status change record — all within one transaction.
//
// A request to move a cancelled job back to pending is treated as an explicit
// reopen; the stale assignment row, if any, is removed so a pending job never
// holds a binding. Moving an assigned job back to pending is reserved for the
// unassignment orchestration and is rejected here.
type ChangeJobStatusCommandHandler struct {
	uowFactory StatusUoWFactory
}

// NewChangeJobStatusCommandHandler creates a handler for status update operations.
func NewChangeJobStatusCommandHandler(uowFactory StatusUoWFactory) ChangeJobStatusCommandHandler {
	return ChangeJobStatusCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the status change command.
// Returns the transition outcome; on any error the transaction is rolled back
// and no partial effect persists.
func (h ChangeJobStatusCommandHandler) Handle(ctx context.Context, command ChangeJobStatusCommand) (ChangeJobStatusResult, error) {
	if err := command.Validate(); err != nil {
		return ChangeJobStatusResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return ChangeJobStatusResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	jobRepo := uow.JobRepository()
	assignmentRepo := uow.AssignmentRepository()
	historyRepo := uow.StatusHistoryRepository()

	theJob, err := jobRepo.Get(ctx, command.JobID())
	if err != nil {
		return ChangeJobStatusResult{}, err
	}

	hasAssignment, err := assignmentRepo.HasForJob(ctx, theJob.ID())
	if err != nil {
		return ChangeJobStatusResult{}, err
	}

	oldStatus := theJob.Status()

	via := job.ViaDirect
	if oldStatus == job.StatusCancelled && command.Target() == job.StatusPending {
		via = job.ViaReopen
	}

	changed, err := theJob.ChangeStatus(command.Target(), job.TransitionContext{
		HasAssignment: hasAssignment,
		Via:           via,
	})
	if err != nil {
		return ChangeJobStatusResult{}, err
	}

	if changed {
		// A reopened job returns to the unassigned pool; drop any binding
		// left over from before the cancellation.
		if via == job.ViaReopen && hasAssignment {
			if _, err = assignmentRepo.DeleteByJob(ctx, theJob.ID()); err != nil {
				return ChangeJobStatusResult{}, err
			}
		}

		if err = jobRepo.Update(ctx, theJob); err != nil {
			return ChangeJobStatusResult{}, err
		}

		record, recordErr := assignment.NewStatusChangeRecord(
			kernel.NewUUID(),
			theJob.ID(),
			oldStatus,
			theJob.Status(),
			command.ChangedBy(),
			command.Reason(),
			time.Now().UTC(),
		)
		if recordErr != nil {
			return ChangeJobStatusResult{}, recordErr
		}

		if err = historyRepo.Add(ctx, record); err != nil {
			return ChangeJobStatusResult{}, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return ChangeJobStatusResult{}, err
	}

	return ChangeJobStatusResult{
		JobID:     theJob.ID(),
		JobNumber: theJob.JobNumber(),
		OldStatus: oldStatus,
		NewStatus: theJob.Status(),
		Changed:   changed,
	}, nil
}
