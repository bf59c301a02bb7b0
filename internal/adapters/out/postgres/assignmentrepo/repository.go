package assignmentrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/job"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Postgres error codes surfaced by constraint enforcement.
const (
	codeUniqueViolation    = "23505"
	codeExclusionViolation = "23P01"
)

// GormAssignmentRepository implements AssignmentRepository using GORM.
type GormAssignmentRepository struct {
	db *gorm.DB
}

// NewGormAssignmentRepository creates a new GORM assignment repository.
func NewGormAssignmentRepository(db *gorm.DB) *GormAssignmentRepository {
	return &GormAssignmentRepository{db: db}
}

// Add saves a new assignment row.
// A constraint violation on job_id maps to ports.ErrAssignmentExists.
func (r *GormAssignmentRepository) Add(ctx context.Context, aggregate *assignment.Assignment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) &&
			(pgErr.Code == codeUniqueViolation || pgErr.Code == codeExclusionViolation) {
			return fmt.Errorf("%w: %s", ports.ErrAssignmentExists, aggregate.JobID())
		}
		return err
	}

	return nil
}

// GetByJob retrieves the assignment for a job.
func (r *GormAssignmentRepository) GetByJob(ctx context.Context, jobID kernel.UUID) (*assignment.Assignment, error) {
	if err := jobID.Validate(); err != nil {
		return nil, err
	}

	var dto AssignmentDTO
	if err := r.db.WithContext(ctx).First(&dto, "job_id = ?", jobID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("assignment for job", jobID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// HasForJob reports whether an assignment row exists for the job.
func (r *GormAssignmentRepository) HasForJob(ctx context.Context, jobID kernel.UUID) (bool, error) {
	if err := jobID.Validate(); err != nil {
		return false, err
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&AssignmentDTO{}).
		Where("job_id = ?", jobID.Bytes()).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// DeleteByJob removes the assignment for a job if one exists.
// Returns whether a row was actually removed; deleting a job without an
// assignment is not an error.
func (r *GormAssignmentRepository) DeleteByJob(ctx context.Context, jobID kernel.UUID) (bool, error) {
	if err := jobID.Validate(); err != nil {
		return false, err
	}

	result := r.db.WithContext(ctx).Delete(&AssignmentDTO{}, "job_id = ?", jobID.Bytes())
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

// GetBookings returns the assignments on a vehicle for a calendar date joined
// with their jobs' scheduling fields. Completed and cancelled bookings are
// included; the availability checker filters them. Run inside the mutating
// transaction, after the vehicle row lock, when the result must be
// authoritative.
func (r *GormAssignmentRepository) GetBookings(
	ctx context.Context,
	vehicleID kernel.UUID,
	date time.Time,
) ([]assignment.Booking, error) {
	if err := vehicleID.Validate(); err != nil {
		return nil, err
	}

	rows, err := r.db.WithContext(ctx).Raw(`
		SELECT
			j.id,
			j.job_number,
			j.customer_name,
			j.window_start,
			j.window_end,
			j.status,
			a.driver_id
		FROM assignments a
		JOIN jobs j ON j.id = a.job_id
		WHERE a.vehicle_id = ? AND j.scheduled_date = ?
		ORDER BY j.window_start
	`, vehicleID.Bytes(), job.NormalizeDate(date)).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]assignment.Booking, 0)

	for rows.Next() {
		var id uuid.UUID
		var driverID *uuid.UUID
		var jobNumber, customerName string
		var windowStart, windowEnd, status int

		if err = rows.Scan(&id, &jobNumber, &customerName, &windowStart, &windowEnd, &status, &driverID); err != nil {
			return nil, err
		}

		jobID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}

		start, timeErr := kernel.TimeOfDayFromSeconds(windowStart)
		if timeErr != nil {
			return nil, timeErr
		}
		end, timeErr := kernel.TimeOfDayFromSeconds(windowEnd)
		if timeErr != nil {
			return nil, timeErr
		}
		window, windowErr := kernel.NewTimeWindow(start, end)
		if windowErr != nil {
			return nil, windowErr
		}

		var bookingDriverID *kernel.UUID
		if driverID != nil {
			dID, driverErr := kernel.UUIDFromBytes((*driverID)[:])
			if driverErr != nil {
				return nil, driverErr
			}
			bookingDriverID = &dID
		}

		bookings = append(bookings, assignment.Booking{
			JobID:        jobID,
			JobNumber:    jobNumber,
			CustomerName: customerName,
			Window:       window,
			Status:       job.Status(status),
			DriverID:     bookingDriverID,
		})
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return bookings, nil
}
