package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/job"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"
)

var (
	// ErrAssignmentNotAllowed is returned when the job's current status
	// precludes assignment. Only pending and assigned jobs can take a vehicle.
	ErrAssignmentNotAllowed = errors.New("job status does not allow assignment")

	// ErrVehicleInactive is returned when the target vehicle is out of service.
	ErrVehicleInactive = errors.New("vehicle is not active")
)

// AssignmentDetails is the joined view returned after a successful assignment.
type AssignmentDetails struct {
	AssignmentID  kernel.UUID
	JobID         kernel.UUID
	JobNumber     string
	JobStatus     job.Status
	ScheduledDate time.Time
	Window        kernel.TimeWindow
	VehicleID     kernel.UUID
	VehicleName   string
	LicensePlate  string
	DriverID      *kernel.UUID
	AssignedBy    kernel.UUID
	Notes         string
	AssignedAt    time.Time
}

// AssignVehicleCommandHandler orchestrates the vehicle assignment process.
// It is the only component permitted to mutate assignment state.
//
// The orchestration runs as one atomic transaction:
//  1. Load the job; only pending or assigned jobs may take a vehicle
//  2. Load the vehicle with a row lock and require it to be active
//  3. Check availability against the vehicle's bookings for the job's date,
//     excluding the job's own prior booking
//  4. Replace any prior assignment row (delete then insert)
//  5. Transition the job to assigned and append a status change record
//
// Locking the vehicle row before reading its bookings serializes concurrent
// booking attempts on the same vehicle: of two racing transactions, the
// second blocks on the lock and then observes the first one's booking, so a
// double-booking cannot commit. Any failure at any step rolls the whole
// transaction back — partial assignment is never observable.
//
// Example:
//
//	handler := NewAssignVehicleCommandHandler(uowFactory)
//	details, err := handler.Handle(ctx, cmd)
//	var conflictErr *services.TimeConflictError
//	switch {
//	case errors.As(err, &conflictErr):
//	    // 409: conflictErr.Conflicts lists the colliding jobs
//	case errors.Is(err, ErrAssignmentNotAllowed), errors.Is(err, ErrVehicleInactive):
//	    // 400
//	case err != nil:
//	    // other failure
//	}
type AssignVehicleCommandHandler struct {
	uowFactory AssignUoWFactory
	checker    services.AvailabilityChecker
}

// NewAssignVehicleCommandHandler creates a handler for vehicle assignment operations.
// Requires an AssignUoWFactory for coordinating transactional updates across repositories.
func NewAssignVehicleCommandHandler(uowFactory AssignUoWFactory) AssignVehicleCommandHandler {
	return AssignVehicleCommandHandler{
		uowFactory: uowFactory,
		checker:    services.NewAvailabilityChecker(),
	}
}

// Handle processes the vehicle assignment command.
// Returns the joined assignment view on success; on any error the transaction
// is rolled back and no partial effect persists.
func (h AssignVehicleCommandHandler) Handle(ctx context.Context, command AssignVehicleCommand) (AssignmentDetails, error) {
	if err := command.Validate(); err != nil {
		return AssignmentDetails{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return AssignmentDetails{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	jobRepo := uow.JobRepository()
	vehicleRepo := uow.VehicleRepository()
	assignmentRepo := uow.AssignmentRepository()
	historyRepo := uow.StatusHistoryRepository()

	theJob, err := jobRepo.Get(ctx, command.JobID())
	if err != nil {
		return AssignmentDetails{}, err
	}

	oldStatus := theJob.Status()
	if oldStatus != job.StatusPending && oldStatus != job.StatusAssigned {
		return AssignmentDetails{}, fmt.Errorf("%w: job %s is %s",
			ErrAssignmentNotAllowed, theJob.JobNumber(), oldStatus)
	}

	theVehicle, err := vehicleRepo.GetForUpdate(ctx, command.VehicleID())
	if err != nil {
		return AssignmentDetails{}, err
	}
	if !theVehicle.IsActive() {
		return AssignmentDetails{}, fmt.Errorf("%w: vehicle %s", ErrVehicleInactive, theVehicle.Name())
	}

	bookings, err := assignmentRepo.GetBookings(ctx, theVehicle.ID(), theJob.ScheduledDate())
	if err != nil {
		return AssignmentDetails{}, err
	}

	excludeJobID := theJob.ID()
	if err = h.checker.EnsureAvailable(theVehicle.ID(), theJob.Window(), &excludeJobID, bookings); err != nil {
		return AssignmentDetails{}, err
	}

	// Replace semantics: a job holds at most one assignment row.
	if _, err = assignmentRepo.DeleteByJob(ctx, theJob.ID()); err != nil {
		return AssignmentDetails{}, err
	}

	newAssignment, err := assignment.NewAssignment(
		kernel.NewUUID(),
		theJob.ID(),
		theVehicle.ID(),
		command.DriverID(),
		command.AssignedBy(),
		command.Notes(),
		time.Now().UTC(),
	)
	if err != nil {
		return AssignmentDetails{}, err
	}

	if err = assignmentRepo.Add(ctx, newAssignment); err != nil {
		return AssignmentDetails{}, err
	}

	changed, err := theJob.MarkAssigned()
	if err != nil {
		return AssignmentDetails{}, err
	}

	if changed {
		if err = jobRepo.Update(ctx, theJob); err != nil {
			return AssignmentDetails{}, err
		}

		record, recordErr := assignment.NewStatusChangeRecord(
			kernel.NewUUID(),
			theJob.ID(),
			oldStatus,
			theJob.Status(),
			command.AssignedBy(),
			fmt.Sprintf("assigned to vehicle %s", theVehicle.Name()),
			time.Now().UTC(),
		)
		if recordErr != nil {
			return AssignmentDetails{}, recordErr
		}

		if err = historyRepo.Add(ctx, record); err != nil {
			return AssignmentDetails{}, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return AssignmentDetails{}, err
	}

	return AssignmentDetails{
		AssignmentID:  newAssignment.ID(),
		JobID:         theJob.ID(),
		JobNumber:     theJob.JobNumber(),
		JobStatus:     theJob.Status(),
		ScheduledDate: theJob.ScheduledDate(),
		Window:        theJob.Window(),
		VehicleID:     theVehicle.ID(),
		VehicleName:   theVehicle.Name(),
		LicensePlate:  theVehicle.LicensePlate(),
		DriverID:      newAssignment.DriverID(),
		AssignedBy:    newAssignment.AssignedBy(),
		Notes:         newAssignment.Notes(),
		AssignedAt:    newAssignment.AssignedAt(),
	}, nil
}
