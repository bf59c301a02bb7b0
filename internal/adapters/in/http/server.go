package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/job"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server implements the HTTP API for job scheduling and vehicle assignment.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createJobHandler       commands.CreateJobCommandHandler
	createVehicleHandler   commands.CreateVehicleCommandHandler
	assignVehicleHandler   commands.AssignVehicleCommandHandler
	unassignVehicleHandler commands.UnassignVehicleCommandHandler
	changeJobStatusHandler commands.ChangeJobStatusCommandHandler

	// Query handlers
	checkAvailabilityHandler     queries.CheckAvailabilityQueryHandler
	getStatusHistoryHandler      queries.GetStatusHistoryQueryHandler
	getAllowedTransitionsHandler queries.GetAllowedTransitionsQueryHandler
	getOverdueJobsHandler        queries.GetOverdueJobsQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createJobHandler commands.CreateJobCommandHandler,
	createVehicleHandler commands.CreateVehicleCommandHandler,
	assignVehicleHandler commands.AssignVehicleCommandHandler,
	unassignVehicleHandler commands.UnassignVehicleCommandHandler,
	changeJobStatusHandler commands.ChangeJobStatusCommandHandler,
	checkAvailabilityHandler queries.CheckAvailabilityQueryHandler,
	getStatusHistoryHandler queries.GetStatusHistoryQueryHandler,
	getAllowedTransitionsHandler queries.GetAllowedTransitionsQueryHandler,
	getOverdueJobsHandler queries.GetOverdueJobsQueryHandler,
) *Server {
	return &Server{
		createJobHandler:             createJobHandler,
		createVehicleHandler:         createVehicleHandler,
		assignVehicleHandler:         assignVehicleHandler,
		unassignVehicleHandler:       unassignVehicleHandler,
		changeJobStatusHandler:       changeJobStatusHandler,
		checkAvailabilityHandler:     checkAvailabilityHandler,
		getStatusHistoryHandler:      getStatusHistoryHandler,
		getAllowedTransitionsHandler: getAllowedTransitionsHandler,
		getOverdueJobsHandler:        getOverdueJobsHandler,
	}
}

// RegisterRoutes attaches all API endpoints to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/jobs", s.CreateJob)
	api.GET("/jobs/overdue", s.GetOverdueJobs)
	api.PUT("/jobs/:id/status", s.ChangeJobStatus)
	api.GET("/jobs/:id/transitions", s.GetAllowedTransitions)
	api.GET("/jobs/:id/history", s.GetStatusHistory)
	api.POST("/jobs/:id/assignment", s.AssignVehicle)
	api.PUT("/jobs/:id/assignment", s.AssignVehicle)
	api.DELETE("/jobs/:id/assignment", s.UnassignVehicle)

	api.POST("/vehicles", s.CreateVehicle)
	api.GET("/vehicles/:id/availability", s.CheckAvailability)
}

// ErrorResponse is the JSON body returned for failed requests.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ConflictDetail describes one booking colliding with a requested window.
type ConflictDetail struct {
	JobID        string `json:"job_id"`
	JobNumber    string `json:"job_number"`
	CustomerName string `json:"customer_name"`
	Window       string `json:"window"`
	Status       string `json:"status"`
}

// ConflictResponse is the JSON body returned when an assignment collides with
// existing bookings.
type ConflictResponse struct {
	Code      int              `json:"code"`
	Message   string           `json:"message"`
	Conflicts []ConflictDetail `json:"conflicts"`
}

// CreateJobRequest is the request body for POST /api/v1/jobs.
type CreateJobRequest struct {
	JobNumber     string `json:"job_number"`
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
	Address       string `json:"address"`
	JobType       string `json:"job_type"`
	Priority      string `json:"priority"`
	ScheduledDate string `json:"scheduled_date"`
	WindowStart   string `json:"window_start"`
	WindowEnd     string `json:"window_end"`
	CreatedBy     string `json:"created_by"`
}

// CreateJob handles POST /api/v1/jobs - registers a new job in pending status.
func (s *Server) CreateJob(ctx echo.Context) error {
	var req CreateJobRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	jobType, err := job.TypeFromString(req.JobType)
	if err != nil {
		return badRequest(ctx, "Invalid job type: "+req.JobType)
	}

	priority, err := job.PriorityFromString(req.Priority)
	if err != nil {
		return badRequest(ctx, "Invalid priority: "+req.Priority)
	}

	scheduledDate, err := time.Parse(time.DateOnly, req.ScheduledDate)
	if err != nil {
		return badRequest(ctx, "Invalid scheduled date, expected YYYY-MM-DD")
	}

	window, err := kernel.ParseTimeWindow(req.WindowStart, req.WindowEnd)
	if err != nil {
		return badRequest(ctx, "Invalid time window: "+err.Error())
	}

	createdBy, err := kernel.UUIDFromString(req.CreatedBy)
	if err != nil {
		return badRequest(ctx, "Invalid created_by identifier")
	}

	jobID := kernel.NewUUID()
	cmd, err := commands.NewCreateJobCommand(
		jobID, req.JobNumber, req.CustomerName, req.CustomerPhone, req.Address,
		jobType, priority, scheduledDate, window, createdBy,
	)
	if err != nil {
		return badRequest(ctx, "Invalid job data: "+err.Error())
	}

	if handleErr := s.createJobHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return s.errorResponse(ctx, handleErr)
	}

	return ctx.JSON(http.StatusCreated, map[string]string{"id": jobID.String()})
}

// CreateVehicleRequest is the request body for POST /api/v1/vehicles.
type CreateVehicleRequest struct {
	Name         string `json:"name"`
	LicensePlate string `json:"license_plate"`
}

// CreateVehicle handles POST /api/v1/vehicles - registers a new active vehicle.
func (s *Server) CreateVehicle(ctx echo.Context) error {
	var req CreateVehicleRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	vehicleID := kernel.NewUUID()
	cmd, err := commands.NewCreateVehicleCommand(vehicleID, req.Name, req.LicensePlate)
	if err != nil {
		return badRequest(ctx, "Invalid vehicle data: "+err.Error())
	}

	if handleErr := s.createVehicleHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return s.errorResponse(ctx, handleErr)
	}

	return ctx.JSON(http.StatusCreated, map[string]string{"id": vehicleID.String()})
}

// AssignVehicleRequest is the request body for POST /api/v1/jobs/:id/assignment.
type AssignVehicleRequest struct {
	VehicleID  string  `json:"vehicle_id"`
	DriverID   *string `json:"driver_id,omitempty"`
	Notes      string  `json:"notes"`
	AssignedBy string  `json:"assigned_by"`
}

// AssignmentResponse is the JSON projection of a completed assignment.
type AssignmentResponse struct {
	AssignmentID  string  `json:"assignment_id"`
	JobID         string  `json:"job_id"`
	JobNumber     string  `json:"job_number"`
	JobStatus     string  `json:"job_status"`
	ScheduledDate string  `json:"scheduled_date"`
	WindowStart   string  `json:"window_start"`
	WindowEnd     string  `json:"window_end"`
	VehicleID     string  `json:"vehicle_id"`
	VehicleName   string  `json:"vehicle_name"`
	LicensePlate  string  `json:"license_plate"`
	DriverID      *string `json:"driver_id,omitempty"`
	AssignedBy    string  `json:"assigned_by"`
	Notes         string  `json:"notes,omitempty"`
	AssignedAt    string  `json:"assigned_at"`
}

// AssignVehicle handles POST and PUT /api/v1/jobs/:id/assignment - books a
// vehicle for a job. PUT reassigns an already-assigned job: the handler's
// replace semantics drop the prior booking and the job's own booking is
// excluded from the conflict check, so moving a job to another vehicle or
// window is the same operation as the initial assignment.
func (s *Server) AssignVehicle(ctx echo.Context) error {
	jobID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid job identifier")
	}

	var req AssignVehicleRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	vehicleID, err := kernel.UUIDFromString(req.VehicleID)
	if err != nil {
		return badRequest(ctx, "Invalid vehicle identifier")
	}

	assignedBy, err := kernel.UUIDFromString(req.AssignedBy)
	if err != nil {
		return badRequest(ctx, "Invalid assigned_by identifier")
	}

	var driverID *kernel.UUID
	if req.DriverID != nil {
		parsed, parseErr := kernel.UUIDFromString(*req.DriverID)
		if parseErr != nil {
			return badRequest(ctx, "Invalid driver identifier")
		}
		driverID = &parsed
	}

	cmd, err := commands.NewAssignVehicleCommand(jobID, vehicleID, driverID, req.Notes, assignedBy)
	if err != nil {
		return badRequest(ctx, "Invalid assignment data: "+err.Error())
	}

	details, err := s.assignVehicleHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	response := AssignmentResponse{
		AssignmentID:  details.AssignmentID.String(),
		JobID:         details.JobID.String(),
		JobNumber:     details.JobNumber,
		JobStatus:     details.JobStatus.String(),
		ScheduledDate: details.ScheduledDate.Format(time.DateOnly),
		WindowStart:   details.Window.Start().String(),
		WindowEnd:     details.Window.End().String(),
		VehicleID:     details.VehicleID.String(),
		VehicleName:   details.VehicleName,
		LicensePlate:  details.LicensePlate,
		AssignedBy:    details.AssignedBy.String(),
		Notes:         details.Notes,
		AssignedAt:    details.AssignedAt.Format(time.RFC3339),
	}
	if details.DriverID != nil {
		driver := details.DriverID.String()
		response.DriverID = &driver
	}

	return ctx.JSON(http.StatusCreated, response)
}

// UnassignVehicleRequest is the request body for DELETE /api/v1/jobs/:id/assignment.
type UnassignVehicleRequest struct {
	ChangedBy string `json:"changed_by"`
}

// UnassignVehicle handles DELETE /api/v1/jobs/:id/assignment - releases a job's vehicle.
func (s *Server) UnassignVehicle(ctx echo.Context) error {
	jobID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid job identifier")
	}

	var req UnassignVehicleRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	changedBy, err := kernel.UUIDFromString(req.ChangedBy)
	if err != nil {
		return badRequest(ctx, "Invalid changed_by identifier")
	}

	cmd, err := commands.NewUnassignVehicleCommand(jobID, changedBy)
	if err != nil {
		return badRequest(ctx, "Invalid unassignment data: "+err.Error())
	}

	if handleErr := s.unassignVehicleHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return s.errorResponse(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// ChangeJobStatusRequest is the request body for PUT /api/v1/jobs/:id/status.
type ChangeJobStatusRequest struct {
	Status    string `json:"status"`
	ChangedBy string `json:"changed_by"`
	Reason    string `json:"reason"`
}

// ChangeJobStatusResponse reports the outcome of a status change request.
type ChangeJobStatusResponse struct {
	JobID     string `json:"job_id"`
	JobNumber string `json:"job_number"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
	Changed   bool   `json:"changed"`
}

// ChangeJobStatus handles PUT /api/v1/jobs/:id/status - moves a job through
// its lifecycle.
func (s *Server) ChangeJobStatus(ctx echo.Context) error {
	jobID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid job identifier")
	}

	var req ChangeJobStatusRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	target, err := job.StatusFromString(req.Status)
	if err != nil {
		return badRequest(ctx, "Invalid status: "+req.Status)
	}

	changedBy, err := kernel.UUIDFromString(req.ChangedBy)
	if err != nil {
		return badRequest(ctx, "Invalid changed_by identifier")
	}

	cmd, err := commands.NewChangeJobStatusCommand(jobID, target, changedBy, req.Reason)
	if err != nil {
		return badRequest(ctx, "Invalid status change data: "+err.Error())
	}

	result, err := s.changeJobStatusHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusOK, ChangeJobStatusResponse{
		JobID:     result.JobID.String(),
		JobNumber: result.JobNumber,
		OldStatus: result.OldStatus.String(),
		NewStatus: result.NewStatus.String(),
		Changed:   result.Changed,
	})
}

// TransitionsResponse lists the statuses a job may move to next.
type TransitionsResponse struct {
	JobID         string   `json:"job_id"`
	CurrentStatus string   `json:"current_status"`
	HasAssignment bool     `json:"has_assignment"`
	Allowed       []string `json:"allowed"`
}

// GetAllowedTransitions handles GET /api/v1/jobs/:id/transitions.
func (s *Server) GetAllowedTransitions(ctx echo.Context) error {
	jobID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid job identifier")
	}

	query, err := queries.NewGetAllowedTransitionsQuery(jobID)
	if err != nil {
		return badRequest(ctx, "Invalid query: "+err.Error())
	}

	result, err := s.getAllowedTransitionsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusOK, TransitionsResponse{
		JobID:         result.JobID.String(),
		CurrentStatus: result.CurrentStatus,
		HasAssignment: result.HasAssignment,
		Allowed:       result.Allowed,
	})
}

// StatusChangeEntry is one record of a job's status audit log.
type StatusChangeEntry struct {
	ID        string `json:"id"`
	JobID     string `json:"job_id"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
	ChangedBy string `json:"changed_by"`
	Reason    string `json:"reason,omitempty"`
	ChangedAt string `json:"changed_at"`
}

// GetStatusHistory handles GET /api/v1/jobs/:id/history - returns the job's
// status audit log, newest first. An optional limit query parameter caps the
// number of records.
func (s *Server) GetStatusHistory(ctx echo.Context) error {
	jobID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid job identifier")
	}

	limit := 0
	if raw := ctx.QueryParam("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil {
			return badRequest(ctx, "Invalid limit parameter")
		}
	}

	query, err := queries.NewGetStatusHistoryQuery(jobID, limit)
	if err != nil {
		return badRequest(ctx, "Invalid query: "+err.Error())
	}

	records, err := s.getStatusHistoryHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	response := make([]StatusChangeEntry, len(records))
	for i, record := range records {
		response[i] = StatusChangeEntry{
			ID:        record.ID.String(),
			JobID:     record.JobID.String(),
			OldStatus: record.OldStatus,
			NewStatus: record.NewStatus,
			ChangedBy: record.ChangedBy.String(),
			Reason:    record.Reason,
			ChangedAt: record.ChangedAt.Format(time.RFC3339),
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// AvailabilityResponse is the advisory availability answer for a vehicle.
type AvailabilityResponse struct {
	VehicleID   string           `json:"vehicle_id"`
	Date        string           `json:"date"`
	WindowStart string           `json:"window_start"`
	WindowEnd   string           `json:"window_end"`
	Available   bool             `json:"available"`
	Conflicts   []ConflictDetail `json:"conflicts"`
}

// CheckAvailability handles GET /api/v1/vehicles/:id/availability - reports
// whether a vehicle is free for a window. The answer is advisory: the
// authoritative check runs inside the assignment transaction.
func (s *Server) CheckAvailability(ctx echo.Context) error {
	vehicleID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid vehicle identifier")
	}

	date, err := time.Parse(time.DateOnly, ctx.QueryParam("date"))
	if err != nil {
		return badRequest(ctx, "Invalid date, expected YYYY-MM-DD")
	}

	window, err := kernel.ParseTimeWindow(ctx.QueryParam("window_start"), ctx.QueryParam("window_end"))
	if err != nil {
		return badRequest(ctx, "Invalid time window: "+err.Error())
	}

	var excludeJobID *kernel.UUID
	if raw := ctx.QueryParam("exclude_job_id"); raw != "" {
		parsed, parseErr := kernel.UUIDFromString(raw)
		if parseErr != nil {
			return badRequest(ctx, "Invalid exclude_job_id parameter")
		}
		excludeJobID = &parsed
	}

	query, err := queries.NewCheckAvailabilityQuery(vehicleID, date, window, excludeJobID)
	if err != nil {
		return badRequest(ctx, "Invalid query: "+err.Error())
	}

	result, err := s.checkAvailabilityHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	conflicts := make([]ConflictDetail, len(result.Conflicts))
	for i, conflict := range result.Conflicts {
		conflicts[i] = ConflictDetail{
			JobID:        conflict.JobID.String(),
			JobNumber:    conflict.JobNumber,
			CustomerName: conflict.CustomerName,
			Window:       conflict.Window.String(),
			Status:       conflict.Status,
		}
	}

	return ctx.JSON(http.StatusOK, AvailabilityResponse{
		VehicleID:   result.VehicleID.String(),
		Date:        result.Date.Format(time.DateOnly),
		WindowStart: result.Window.Start().String(),
		WindowEnd:   result.Window.End().String(),
		Available:   result.Available,
		Conflicts:   conflicts,
	})
}

// OverdueJobEntry is one job scheduled before the cutoff date that never
// reached a terminal status.
type OverdueJobEntry struct {
	JobID         string `json:"job_id"`
	JobNumber     string `json:"job_number"`
	CustomerName  string `json:"customer_name"`
	ScheduledDate string `json:"scheduled_date"`
	Status        string `json:"status"`
	Priority      string `json:"priority"`
}

// GetOverdueJobs handles GET /api/v1/jobs/overdue - lists jobs whose scheduled
// date has passed without completion or cancellation. An optional as_of query
// parameter overrides the cutoff.
func (s *Server) GetOverdueJobs(ctx echo.Context) error {
	var asOf time.Time
	if raw := ctx.QueryParam("as_of"); raw != "" {
		parsed, parseErr := time.Parse(time.DateOnly, raw)
		if parseErr != nil {
			return badRequest(ctx, "Invalid as_of, expected YYYY-MM-DD")
		}
		asOf = parsed
	}

	query := queries.NewGetOverdueJobsQuery(asOf)

	jobs, err := s.getOverdueJobsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	response := make([]OverdueJobEntry, len(jobs))
	for i, overdueJob := range jobs {
		response[i] = OverdueJobEntry{
			JobID:         overdueJob.JobID.String(),
			JobNumber:     overdueJob.JobNumber,
			CustomerName:  overdueJob.CustomerName,
			ScheduledDate: overdueJob.ScheduledDate.Format(time.DateOnly),
			Status:        overdueJob.Status,
			Priority:      overdueJob.Priority,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// errorResponse maps use case errors to HTTP status codes.
func (s *Server) errorResponse(ctx echo.Context, err error) error {
	var conflictErr *services.TimeConflictError
	if errors.As(err, &conflictErr) {
		conflicts := make([]ConflictDetail, len(conflictErr.Conflicts))
		for i, booking := range conflictErr.Conflicts {
			conflicts[i] = ConflictDetail{
				JobID:        booking.JobID.String(),
				JobNumber:    booking.JobNumber,
				CustomerName: booking.CustomerName,
				Window:       booking.Window.String(),
				Status:       booking.Status.String(),
			}
		}
		return ctx.JSON(http.StatusConflict, ConflictResponse{
			Code:      http.StatusConflict,
			Message:   err.Error(),
			Conflicts: conflicts,
		})
	}

	switch {
	case errors.Is(err, services.ErrTimeConflict),
		errors.Is(err, ports.ErrAssignmentExists):
		return ctx.JSON(http.StatusConflict, ErrorResponse{
			Code:    http.StatusConflict,
			Message: err.Error(),
		})

	case errors.Is(err, errs.ErrObjectNotFound):
		return ctx.JSON(http.StatusNotFound, ErrorResponse{
			Code:    http.StatusNotFound,
			Message: err.Error(),
		})

	case errors.Is(err, job.ErrInvalidTransition),
		errors.Is(err, job.ErrMissingAssignment),
		errors.Is(err, commands.ErrAssignmentNotAllowed),
		errors.Is(err, commands.ErrVehicleInactive),
		errors.Is(err, commands.ErrNotAssigned),
		errors.Is(err, commands.ErrCannotUnassign),
		errors.Is(err, commands.ErrScheduledDateInPast),
		errors.Is(err, queries.ErrDateInPast),
		errors.Is(err, queries.ErrVehicleInactive),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return badRequest(ctx, err.Error())

	default:
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    http.StatusInternalServerError,
			Message: "Internal server error",
		})
	}
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}
