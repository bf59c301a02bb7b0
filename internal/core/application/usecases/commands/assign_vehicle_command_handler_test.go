package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/job"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/vehicle"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockJobRepository struct{ mock.Mock }

func (m *MockJobRepository) Add(ctx context.Context, j *job.Job) error {
	args := m.Called(ctx, j)
	return args.Error(0)
}

func (m *MockJobRepository) Update(ctx context.Context, j *job.Job) error {
	args := m.Called(ctx, j)
	return args.Error(0)
}

func (m *MockJobRepository) Get(ctx context.Context, id kernel.UUID) (*job.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*job.Job), args.Error(1)
}

type MockVehicleRepository struct{ mock.Mock }

func (m *MockVehicleRepository) Add(ctx context.Context, v *vehicle.Vehicle) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *MockVehicleRepository) Update(ctx context.Context, v *vehicle.Vehicle) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *MockVehicleRepository) Get(ctx context.Context, id kernel.UUID) (*vehicle.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vehicle.Vehicle), args.Error(1)
}

func (m *MockVehicleRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*vehicle.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vehicle.Vehicle), args.Error(1)
}

type MockAssignmentRepository struct{ mock.Mock }

func (m *MockAssignmentRepository) Add(ctx context.Context, a *assignment.Assignment) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAssignmentRepository) GetByJob(ctx context.Context, jobID kernel.UUID) (*assignment.Assignment, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*assignment.Assignment), args.Error(1)
}

func (m *MockAssignmentRepository) HasForJob(ctx context.Context, jobID kernel.UUID) (bool, error) {
	args := m.Called(ctx, jobID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAssignmentRepository) DeleteByJob(ctx context.Context, jobID kernel.UUID) (bool, error) {
	args := m.Called(ctx, jobID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAssignmentRepository) GetBookings(
	ctx context.Context,
	vehicleID kernel.UUID,
	date time.Time,
) ([]assignment.Booking, error) {
	args := m.Called(ctx, vehicleID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]assignment.Booking), args.Error(1)
}

type MockStatusHistoryRepository struct{ mock.Mock }

func (m *MockStatusHistoryRepository) Add(ctx context.Context, r *assignment.StatusChangeRecord) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockStatusHistoryRepository) GetByJob(
	ctx context.Context,
	jobID kernel.UUID,
	limit int,
) ([]*assignment.StatusChangeRecord, error) {
	args := m.Called(ctx, jobID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*assignment.StatusChangeRecord), args.Error(1)
}

type MockAssignUoW struct{ mock.Mock }

func (m *MockAssignUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockAssignUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockAssignUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockAssignUoW) JobRepository() ports.JobRepository {
	args := m.Called()
	return args.Get(0).(ports.JobRepository)
}

func (m *MockAssignUoW) VehicleRepository() ports.VehicleRepository {
	args := m.Called()
	return args.Get(0).(ports.VehicleRepository)
}

func (m *MockAssignUoW) AssignmentRepository() ports.AssignmentRepository {
	args := m.Called()
	return args.Get(0).(ports.AssignmentRepository)
}

func (m *MockAssignUoW) StatusHistoryRepository() ports.StatusHistoryRepository {
	args := m.Called()
	return args.Get(0).(ports.StatusHistoryRepository)
}

type MockAssignUoWFactory struct{ mock.Mock }

func (m *MockAssignUoWFactory) Create() commands.AssignUoW {
	args := m.Called()
	return args.Get(0).(commands.AssignUoW)
}

func testWindow(t *testing.T, start, end string) kernel.TimeWindow {
	t.Helper()
	w, err := kernel.ParseTimeWindow(start, end)
	require.NoError(t, err)
	return w
}

func testJob(t *testing.T, id kernel.UUID, status job.Status, window kernel.TimeWindow) *job.Job {
	t.Helper()
	date := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	j, err := job.RestoreJob(
		id, "JOB-1042", "Acme Corp", "+15550100", "12 Harbor Rd",
		job.TypeInstallation, job.PriorityNormal, date, window, status, kernel.NewUUID(),
	)
	require.NoError(t, err)
	return j
}

type assignMocks struct {
	jobRepo        *MockJobRepository
	vehicleRepo    *MockVehicleRepository
	assignmentRepo *MockAssignmentRepository
	historyRepo    *MockStatusHistoryRepository
	uow            *MockAssignUoW
	factory        *MockAssignUoWFactory
}

func newAssignMocks() assignMocks {
	return assignMocks{
		jobRepo:        new(MockJobRepository),
		vehicleRepo:    new(MockVehicleRepository),
		assignmentRepo: new(MockAssignmentRepository),
		historyRepo:    new(MockStatusHistoryRepository),
		uow:            new(MockAssignUoW),
		factory:        new(MockAssignUoWFactory),
	}
}

// repoCalls returns the expectations every handler run sets up before any
// repository work: the transaction begin plus the four repository getters.
func (a assignMocks) repoCalls(ctx context.Context) []*mock.Call {
	return []*mock.Call{
		a.uow.On("Begin", ctx).Return(nil).Once(),
		a.uow.On("JobRepository").Return(a.jobRepo).Once(),
		a.uow.On("VehicleRepository").Return(a.vehicleRepo).Once(),
		a.uow.On("AssignmentRepository").Return(a.assignmentRepo).Once(),
		a.uow.On("StatusHistoryRepository").Return(a.historyRepo).Once(),
	}
}

func TestAssignVehicleCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()

	jobID := kernel.NewUUID()
	vehicleID := kernel.NewUUID()
	assignedBy := kernel.NewUUID()

	cmd, err := commands.NewAssignVehicleCommand(jobID, vehicleID, nil, "gate code 4411", assignedBy)
	require.NoError(t, err)

	window := testWindow(t, "09:00:00", "12:00:00")
	pendingJob := testJob(t, jobID, job.StatusPending, window)
	activeVehicle, err := vehicle.NewVehicle(vehicleID, "Van 7", "XYZ-1234")
	require.NoError(t, err)

	m := newAssignMocks()
	mock.InOrder(append(m.repoCalls(ctx),
		m.jobRepo.On("Get", ctx, jobID).Return(pendingJob, nil).Once(),
		m.vehicleRepo.On("GetForUpdate", ctx, vehicleID).Return(activeVehicle, nil).Once(),
		m.assignmentRepo.On("GetBookings", ctx, vehicleID, pendingJob.ScheduledDate()).
			Return([]assignment.Booking{}, nil).Once(),
		m.assignmentRepo.On("DeleteByJob", ctx, jobID).Return(false, nil).Once(),
		m.assignmentRepo.On("Add", ctx, mock.AnythingOfType("*assignment.Assignment")).Return(nil).Once(),
		m.jobRepo.On("Update", ctx, mock.AnythingOfType("*job.Job")).Return(nil).Once(),
		m.historyRepo.On("Add", ctx, mock.AnythingOfType("*assignment.StatusChangeRecord")).Return(nil).Once(),
		m.uow.On("Commit", ctx).Return(nil).Once(),
		m.uow.On("Rollback", ctx).Return(nil).Once(),
	)...)
	m.factory.On("Create").Return(m.uow).Once()

	handler := commands.NewAssignVehicleCommandHandler(m.factory)
	details, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, jobID, details.JobID)
	assert.Equal(t, "JOB-1042", details.JobNumber)
	assert.Equal(t, job.StatusAssigned, details.JobStatus)
	assert.Equal(t, vehicleID, details.VehicleID)
	assert.Equal(t, "Van 7", details.VehicleName)
	assert.Equal(t, "XYZ-1234", details.LicensePlate)
	assert.Nil(t, details.DriverID)
	assert.Equal(t, "gate code 4411", details.Notes)
	assert.Equal(t, assignedBy, details.AssignedBy)

	m.jobRepo.AssertExpectations(t)
	m.vehicleRepo.AssertExpectations(t)
	m.assignmentRepo.AssertExpectations(t)
	m.historyRepo.AssertExpectations(t)
	m.uow.AssertExpectations(t)
	m.factory.AssertExpectations(t)
}

func TestAssignVehicleCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	cmd := commands.AssignVehicleCommand{} // not constructed properly

	factory := new(MockAssignUoWFactory)
	handler := commands.NewAssignVehicleCommandHandler(factory)
	_, err := handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, commands.ErrAssignVehicleCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}

func TestAssignVehicleCommandHandler_Handle_BeginError(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewAssignVehicleCommand(kernel.NewUUID(), kernel.NewUUID(), nil, "", kernel.NewUUID())
	require.NoError(t, err)

	uow := new(MockAssignUoW)
	factory := new(MockAssignUoWFactory)

	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(errors.New("begin error")).Once(),
	)

	handler := commands.NewAssignVehicleCommandHandler(factory)
	_, err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.EqualError(t, err, "begin error")
}

func TestAssignVehicleCommandHandler_Handle_JobNotFound(t *testing.T) {
	ctx := t.Context()

	jobID := kernel.NewUUID()
	cmd, err := commands.NewAssignVehicleCommand(jobID, kernel.NewUUID(), nil, "", kernel.NewUUID())
	require.NoError(t, err)

	m := newAssignMocks()
	mock.InOrder(append(m.repoCalls(ctx),
		m.jobRepo.On("Get", ctx, jobID).Return(nil, errs.NewObjectNotFoundError("jobID", jobID)).Once(),
		m.uow.On("Rollback", ctx).Return(nil).Once(),
	)...)
	m.factory.On("Create").Return(m.uow).Once()

	handler := commands.NewAssignVehicleCommandHandler(m.factory)
	_, err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	m.uow.AssertNotCalled(t, "Commit")
}

func TestAssignVehicleCommandHandler_Handle_StatusDoesNotAllowAssignment(t *testing.T) {
	ctx := t.Context()

	jobID := kernel.NewUUID()
	cmd, err := commands.NewAssignVehicleCommand(jobID, kernel.NewUUID(), nil, "", kernel.NewUUID())
	require.NoError(t, err)

	window := testWindow(t, "09:00:00", "12:00:00")
	startedJob := testJob(t, jobID, job.StatusInProgress, window)

	m := newAssignMocks()
	mock.InOrder(append(m.repoCalls(ctx),
		m.jobRepo.On("Get", ctx, jobID).Return(startedJob, nil).Once(),
		m.uow.On("Rollback", ctx).Return(nil).Once(),
	)...)
	m.factory.On("Create").Return(m.uow).Once()

	handler := commands.NewAssignVehicleCommandHandler(m.factory)
	_, err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, commands.ErrAssignmentNotAllowed)
	m.vehicleRepo.AssertNotCalled(t, "GetForUpdate")
	m.uow.AssertNotCalled(t, "Commit")
}

func TestAssignVehicleCommandHandler_Handle_VehicleInactive(t *testing.T) {
	ctx := t.Context()

	jobID := kernel.NewUUID()
	vehicleID := kernel.NewUUID()
	cmd, err := commands.NewAssignVehicleCommand(jobID, vehicleID, nil, "", kernel.NewUUID())
	require.NoError(t, err)

	window := testWindow(t, "09:00:00", "12:00:00")
	pendingJob := testJob(t, jobID, job.StatusPending, window)
	retiredVehicle, err := vehicle.RestoreVehicle(vehicleID, "Van 3", "ABC-9876", false)
	require.NoError(t, err)

	m := newAssignMocks()
	mock.InOrder(append(m.repoCalls(ctx),
		m.jobRepo.On("Get", ctx, jobID).Return(pendingJob, nil).Once(),
		m.vehicleRepo.On("GetForUpdate", ctx, vehicleID).Return(retiredVehicle, nil).Once(),
		m.uow.On("Rollback", ctx).Return(nil).Once(),
	)...)
	m.factory.On("Create").Return(m.uow).Once()

	handler := commands.NewAssignVehicleCommandHandler(m.factory)
	_, err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, commands.ErrVehicleInactive)
	m.assignmentRepo.AssertNotCalled(t, "GetBookings")
	m.uow.AssertNotCalled(t, "Commit")
}

func TestAssignVehicleCommandHandler_Handle_TimeConflictRollsBack(t *testing.T) {
	ctx := t.Context()

	jobID := kernel.NewUUID()
	vehicleID := kernel.NewUUID()
	cmd, err := commands.NewAssignVehicleCommand(jobID, vehicleID, nil, "", kernel.NewUUID())
	require.NoError(t, err)

	window := testWindow(t, "09:00:00", "12:00:00")
	pendingJob := testJob(t, jobID, job.StatusPending, window)
	activeVehicle, err := vehicle.NewVehicle(vehicleID, "Van 7", "XYZ-1234")
	require.NoError(t, err)

	// Another job already occupies 10:00-14:00 on this vehicle and date.
	bookings := []assignment.Booking{{
		JobID:        kernel.NewUUID(),
		JobNumber:    "JOB-0007",
		CustomerName: "Globex",
		Window:       testWindow(t, "10:00:00", "14:00:00"),
		Status:       job.StatusAssigned,
	}}

	m := newAssignMocks()
	mock.InOrder(append(m.repoCalls(ctx),
		m.jobRepo.On("Get", ctx, jobID).Return(pendingJob, nil).Once(),
		m.vehicleRepo.On("GetForUpdate", ctx, vehicleID).Return(activeVehicle, nil).Once(),
		m.assignmentRepo.On("GetBookings", ctx, vehicleID, pendingJob.ScheduledDate()).
			Return(bookings, nil).Once(),
		m.uow.On("Rollback", ctx).Return(nil).Once(),
	)...)
	m.factory.On("Create").Return(m.uow).Once()

	handler := commands.NewAssignVehicleCommandHandler(m.factory)
	_, err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, services.ErrTimeConflict)

	var conflictErr *services.TimeConflictError
	require.ErrorAs(t, err, &conflictErr)
	require.Len(t, conflictErr.Conflicts, 1)
	assert.Equal(t, "JOB-0007", conflictErr.Conflicts[0].JobNumber)

	m.assignmentRepo.AssertNotCalled(t, "Add")
	m.jobRepo.AssertNotCalled(t, "Update")
	m.uow.AssertNotCalled(t, "Commit")
}

func TestAssignVehicleCommandHandler_Handle_AdjacentWindowsDoNotConflict(t *testing.T) {
	ctx := t.Context()

	jobID := kernel.NewUUID()
	vehicleID := kernel.NewUUID()
	cmd, err := commands.NewAssignVehicleCommand(jobID, vehicleID, nil, "", kernel.NewUUID())
	require.NoError(t, err)

	window := testWindow(t, "09:00:00", "12:00:00")
	pendingJob := testJob(t, jobID, job.StatusPending, window)
	activeVehicle, err := vehicle.NewVehicle(vehicleID, "Van 7", "XYZ-1234")
	require.NoError(t, err)

	// Back-to-back booking ending exactly when the new window starts.
	bookings := []assignment.Booking{{
		JobID:        kernel.NewUUID(),
		JobNumber:    "JOB-0007",
		CustomerName: "Globex",
		Window:       testWindow(t, "06:00:00", "09:00:00"),
		Status:       job.StatusAssigned,
	}}

	m := newAssignMocks()
	mock.InOrder(append(m.repoCalls(ctx),
		m.jobRepo.On("Get", ctx, jobID).Return(pendingJob, nil).Once(),
		m.vehicleRepo.On("GetForUpdate", ctx, vehicleID).Return(activeVehicle, nil).Once(),
		m.assignmentRepo.On("GetBookings", ctx, vehicleID, pendingJob.ScheduledDate()).
			Return(bookings, nil).Once(),
		m.assignmentRepo.On("DeleteByJob", ctx, jobID).Return(false, nil).Once(),
		m.assignmentRepo.On("Add", ctx, mock.AnythingOfType("*assignment.Assignment")).Return(nil).Once(),
		m.jobRepo.On("Update", ctx, mock.AnythingOfType("*job.Job")).Return(nil).Once(),
		m.historyRepo.On("Add", ctx, mock.AnythingOfType("*assignment.StatusChangeRecord")).Return(nil).Once(),
		m.uow.On("Commit", ctx).Return(nil).Once(),
		m.uow.On("Rollback", ctx).Return(nil).Once(),
	)...)
	m.factory.On("Create").Return(m.uow).Once()

	handler := commands.NewAssignVehicleCommandHandler(m.factory)
	details, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, job.StatusAssigned, details.JobStatus)
}

func TestAssignVehicleCommandHandler_Handle_ReassignReplacesOwnBooking(t *testing.T) {
	ctx := t.Context()

	jobID := kernel.NewUUID()
	vehicleID := kernel.NewUUID()
	driverID := kernel.NewUUID()
	cmd, err := commands.NewAssignVehicleCommand(jobID, vehicleID, &driverID, "", kernel.NewUUID())
	require.NoError(t, err)

	window := testWindow(t, "09:00:00", "12:00:00")
	assignedJob := testJob(t, jobID, job.StatusAssigned, window)
	activeVehicle, err := vehicle.NewVehicle(vehicleID, "Van 7", "XYZ-1234")
	require.NoError(t, err)

	// The only booking on the vehicle is the job's own prior one; it must not
	// conflict with itself during a reassignment.
	bookings := []assignment.Booking{{
		JobID:        jobID,
		JobNumber:    "JOB-1042",
		CustomerName: "Acme Corp",
		Window:       window,
		Status:       job.StatusAssigned,
	}}

	m := newAssignMocks()
	mock.InOrder(append(m.repoCalls(ctx),
		m.jobRepo.On("Get", ctx, jobID).Return(assignedJob, nil).Once(),
		m.vehicleRepo.On("GetForUpdate", ctx, vehicleID).Return(activeVehicle, nil).Once(),
		m.assignmentRepo.On("GetBookings", ctx, vehicleID, assignedJob.ScheduledDate()).
			Return(bookings, nil).Once(),
		m.assignmentRepo.On("DeleteByJob", ctx, jobID).Return(true, nil).Once(),
		m.assignmentRepo.On("Add", ctx, mock.AnythingOfType("*assignment.Assignment")).Return(nil).Once(),
		m.uow.On("Commit", ctx).Return(nil).Once(),
		m.uow.On("Rollback", ctx).Return(nil).Once(),
	)...)
	m.factory.On("Create").Return(m.uow).Once()

	handler := commands.NewAssignVehicleCommandHandler(m.factory)
	details, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, job.StatusAssigned, details.JobStatus)
	require.NotNil(t, details.DriverID)
	assert.Equal(t, driverID, *details.DriverID)

	// The job was already assigned: no status change, no history entry.
	m.jobRepo.AssertNotCalled(t, "Update")
	m.historyRepo.AssertNotCalled(t, "Add")
}

func TestAssignVehicleCommandHandler_Handle_CommitError(t *testing.T) {
	ctx := t.Context()

	jobID := kernel.NewUUID()
	vehicleID := kernel.NewUUID()
	cmd, err := commands.NewAssignVehicleCommand(jobID, vehicleID, nil, "", kernel.NewUUID())
	require.NoError(t, err)

	window := testWindow(t, "09:00:00", "12:00:00")
	pendingJob := testJob(t, jobID, job.StatusPending, window)
	activeVehicle, err := vehicle.NewVehicle(vehicleID, "Van 7", "XYZ-1234")
	require.NoError(t, err)

	m := newAssignMocks()
	mock.InOrder(append(m.repoCalls(ctx),
		m.jobRepo.On("Get", ctx, jobID).Return(pendingJob, nil).Once(),
		m.vehicleRepo.On("GetForUpdate", ctx, vehicleID).Return(activeVehicle, nil).Once(),
		m.assignmentRepo.On("GetBookings", ctx, vehicleID, pendingJob.ScheduledDate()).
			Return([]assignment.Booking{}, nil).Once(),
		m.assignmentRepo.On("DeleteByJob", ctx, jobID).Return(false, nil).Once(),
		m.assignmentRepo.On("Add", ctx, mock.AnythingOfType("*assignment.Assignment")).Return(nil).Once(),
		m.jobRepo.On("Update", ctx, mock.AnythingOfType("*job.Job")).Return(nil).Once(),
		m.historyRepo.On("Add", ctx, mock.AnythingOfType("*assignment.StatusChangeRecord")).Return(nil).Once(),
		m.uow.On("Commit", ctx).Return(errors.New("commit error")).Once(),
		m.uow.On("Rollback", ctx).Return(nil).Once(),
	)...)
	m.factory.On("Create").Return(m.uow).Once()

	handler := commands.NewAssignVehicleCommandHandler(m.factory)
	_, err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.EqualError(t, err, "commit error")
}
