package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/job"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

var (
	// ErrNotAssigned is returned when unassignment is requested for a job
	// that has no vehicle assignment.
	ErrNotAssigned = errors.New("job has no vehicle assigned")

	// ErrCannotUnassign is returned when the job's status forbids removing
	// its assignment (work already started or finished).
	ErrCannotUnassign = errors.New("job cannot be unassigned in its current status")
)

// UnassignVehicleCommandHandler removes a job's vehicle binding.
//
// The orchestration runs as one atomic transaction: it requires an existing
// assignment, forbids unassignment of in-progress or completed jobs, deletes
// the assignment row, transitions the job back to pending through the
// explicit unassignment path, and appends a status change record.
type UnassignVehicleCommandHandler struct {
	uowFactory AssignUoWFactory
}

// NewUnassignVehicleCommandHandler creates a handler for unassignment operations.
func NewUnassignVehicleCommandHandler(uowFactory AssignUoWFactory) UnassignVehicleCommandHandler {
	return UnassignVehicleCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the unassignment command.
// Returns ErrNotAssigned when no assignment exists and ErrCannotUnassign when
// the job is in progress or completed. On any error the transaction is rolled
// back and no partial effect persists.
func (h UnassignVehicleCommandHandler) Handle(ctx context.Context, command UnassignVehicleCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	jobRepo := uow.JobRepository()
	assignmentRepo := uow.AssignmentRepository()
	historyRepo := uow.StatusHistoryRepository()

	theJob, err := jobRepo.Get(ctx, command.JobID())
	if err != nil {
		return err
	}

	oldStatus := theJob.Status()
	if oldStatus == job.StatusInProgress || oldStatus == job.StatusCompleted {
		return fmt.Errorf("%w: job %s is %s", ErrCannotUnassign, theJob.JobNumber(), oldStatus)
	}

	if _, err = assignmentRepo.GetByJob(ctx, theJob.ID()); err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return fmt.Errorf("%w: job %s", ErrNotAssigned, theJob.JobNumber())
		}
		return err
	}

	if _, err = assignmentRepo.DeleteByJob(ctx, theJob.ID()); err != nil {
		return err
	}

	// Only an assigned job changes status; a cancelled job keeps its status
	// and merely loses the stale binding.
	changed := false
	if oldStatus == job.StatusAssigned {
		if changed, err = theJob.MarkUnassigned(); err != nil {
			return err
		}
	}

	if changed {
		if err = jobRepo.Update(ctx, theJob); err != nil {
			return err
		}

		record, recordErr := assignment.NewStatusChangeRecord(
			kernel.NewUUID(),
			theJob.ID(),
			oldStatus,
			theJob.Status(),
			command.ChangedBy(),
			"vehicle unassigned",
			time.Now().UTC(),
		)
		if recordErr != nil {
			return recordErr
		}

		if err = historyRepo.Add(ctx, record); err != nil {
			return err
		}
	}

	return uow.Commit(ctx)
}
