package queries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/job"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CheckAvailabilityQueryHandler answers advisory availability questions by
// loading a vehicle's bookings for a date and running the same overlap rules
// the assignment operation enforces: half-open windows, inactive bookings
// ignored, the excluded job's own booking skipped. The vehicle itself is
// verified first: it must exist and be in service.
//
// The handler reads outside any locking transaction, so a concurrent
// assignment can invalidate the answer at any moment.
type CheckAvailabilityQueryHandler struct {
	db      *gorm.DB
	checker services.AvailabilityChecker
}

// NewCheckAvailabilityQueryHandler creates a handler for availability checks.
// Requires a GORM database connection for query execution.
func NewCheckAvailabilityQueryHandler(db *gorm.DB) CheckAvailabilityQueryHandler {
	return CheckAvailabilityQueryHandler{
		db:      db,
		checker: services.NewAvailabilityChecker(),
	}
}

// Handle executes the availability check.
// The vehicle must exist and be in service; an unknown vehicle returns an
// ObjectNotFoundError and an out-of-service one returns ErrVehicleInactive.
// Returns the conflicting bookings ordered by ascending start time; Available
// is true when that list is empty.
func (h CheckAvailabilityQueryHandler) Handle(
	ctx context.Context,
	query CheckAvailabilityQuery,
) (CheckAvailabilityResponse, error) {
	if err := query.Validate(); err != nil {
		return CheckAvailabilityResponse{}, err
	}

	var isActive bool
	err := h.db.WithContext(ctx).Raw(`
		SELECT is_active FROM vehicles WHERE id = ?
	`, query.VehicleID().Bytes()).Row().Scan(&isActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CheckAvailabilityResponse{}, errs.NewObjectNotFoundError("vehicle", query.VehicleID().String())
		}
		return CheckAvailabilityResponse{}, err
	}
	if !isActive {
		return CheckAvailabilityResponse{}, fmt.Errorf("%w: %s", ErrVehicleInactive, query.VehicleID())
	}

	bookings := make([]assignment.Booking, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			j.id,
			j.job_number,
			j.customer_name,
			j.window_start,
			j.window_end,
			j.status
		FROM assignments a
		JOIN jobs j ON j.id = a.job_id
		WHERE a.vehicle_id = ? AND j.scheduled_date = ?
		ORDER BY j.window_start
	`, query.VehicleID().Bytes(), query.Date()).Rows()
	if err != nil {
		return CheckAvailabilityResponse{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		var jobNumber, customerName string
		var windowStart, windowEnd, status int

		if err = rows.Scan(&id, &jobNumber, &customerName, &windowStart, &windowEnd, &status); err != nil {
			return CheckAvailabilityResponse{}, err
		}

		jobID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return CheckAvailabilityResponse{}, idErr
		}

		window, windowErr := windowFromSeconds(windowStart, windowEnd)
		if windowErr != nil {
			return CheckAvailabilityResponse{}, windowErr
		}

		bookings = append(bookings, assignment.Booking{
			JobID:        jobID,
			JobNumber:    jobNumber,
			CustomerName: customerName,
			Window:       window,
			Status:       job.Status(status),
		})
	}

	if err = rows.Err(); err != nil {
		return CheckAvailabilityResponse{}, err
	}

	conflicts, err := h.checker.FindConflicts(query.Window(), query.ExcludeJobID(), bookings)
	if err != nil {
		return CheckAvailabilityResponse{}, err
	}

	response := CheckAvailabilityResponse{
		VehicleID: query.VehicleID(),
		Date:      query.Date(),
		Window:    query.Window(),
		Available: len(conflicts) == 0,
		Conflicts: make([]BookingConflictResponse, 0, len(conflicts)),
	}

	for _, c := range conflicts {
		response.Conflicts = append(response.Conflicts, BookingConflictResponse{
			JobID:        c.JobID,
			JobNumber:    c.JobNumber,
			CustomerName: c.CustomerName,
			Window:       c.Window,
			Status:       c.Status.String(),
		})
	}

	return response, nil
}

// windowFromSeconds rebuilds a TimeWindow from its persisted seconds-since-midnight bounds.
func windowFromSeconds(start, end int) (kernel.TimeWindow, error) {
	startTime, err := kernel.TimeOfDayFromSeconds(start)
	if err != nil {
		return kernel.TimeWindow{}, err
	}

	endTime, err := kernel.TimeOfDayFromSeconds(end)
	if err != nil {
		return kernel.TimeWindow{}, err
	}

	return kernel.NewTimeWindow(startTime, endTime)
}
