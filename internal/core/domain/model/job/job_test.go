package job_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/job"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustWindow(t *testing.T, start, end string) kernel.TimeWindow {
	t.Helper()
	w, err := kernel.ParseTimeWindow(start, end)
	require.NoError(t, err)
	return w
}

func validJobArgs(t *testing.T) (kernel.UUID, time.Time, kernel.TimeWindow, kernel.UUID) {
	t.Helper()
	return kernel.NewUUID(),
		time.Date(2026, 9, 15, 14, 30, 0, 0, time.UTC),
		mustWindow(t, "09:00:00", "12:00:00"),
		kernel.NewUUID()
}

func TestNewJob_ValidInput(t *testing.T) {
	id, date, window, createdBy := validJobArgs(t)

	j, err := job.NewJob(id, "JOB-1042", "Acme Corp", "+15550100", "12 Harbor Rd",
		job.TypeInstallation, job.PriorityHigh, date, window, createdBy)

	require.NoError(t, err)
	assert.Equal(t, id, j.ID())
	assert.Equal(t, "JOB-1042", j.JobNumber())
	assert.Equal(t, "Acme Corp", j.CustomerName())
	assert.Equal(t, "+15550100", j.CustomerPhone())
	assert.Equal(t, "12 Harbor Rd", j.Address())
	assert.Equal(t, job.TypeInstallation, j.Type())
	assert.Equal(t, job.PriorityHigh, j.Priority())
	assert.Equal(t, job.StatusPending, j.Status())
	assert.Equal(t, createdBy, j.CreatedBy())
	assert.True(t, window.IsEqual(j.Window()))
	require.NoError(t, j.Validate())
}

func TestNewJob_NormalizesScheduledDate(t *testing.T) {
	id, _, window, createdBy := validJobArgs(t)

	loc := time.FixedZone("UTC+3", 3*60*60)
	late := time.Date(2026, 9, 15, 1, 30, 0, 0, loc) // 2026-09-14 22:30 UTC

	j, err := job.NewJob(id, "JOB-1", "Acme Corp", "", "12 Harbor Rd",
		job.TypeDelivery, job.PriorityNormal, late, window, createdBy)

	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC), j.ScheduledDate())
}

func TestNewJob_MissingRequiredFields(t *testing.T) {
	id, date, window, createdBy := validJobArgs(t)

	tests := []struct {
		name string
		call func() (*job.Job, error)
	}{
		{"empty job number", func() (*job.Job, error) {
			return job.NewJob(id, "", "Acme Corp", "", "12 Harbor Rd",
				job.TypeDelivery, job.PriorityNormal, date, window, createdBy)
		}},
		{"empty customer name", func() (*job.Job, error) {
			return job.NewJob(id, "JOB-1", "", "", "12 Harbor Rd",
				job.TypeDelivery, job.PriorityNormal, date, window, createdBy)
		}},
		{"empty address", func() (*job.Job, error) {
			return job.NewJob(id, "JOB-1", "Acme Corp", "", "",
				job.TypeDelivery, job.PriorityNormal, date, window, createdBy)
		}},
		{"zero date", func() (*job.Job, error) {
			return job.NewJob(id, "JOB-1", "Acme Corp", "", "12 Harbor Rd",
				job.TypeDelivery, job.PriorityNormal, time.Time{}, window, createdBy)
		}},
		{"invalid type", func() (*job.Job, error) {
			return job.NewJob(id, "JOB-1", "Acme Corp", "", "12 Harbor Rd",
				job.TypeUnknown, job.PriorityNormal, date, window, createdBy)
		}},
		{"invalid priority", func() (*job.Job, error) {
			return job.NewJob(id, "JOB-1", "Acme Corp", "", "12 Harbor Rd",
				job.TypeDelivery, job.PriorityUnknown, date, window, createdBy)
		}},
		{"unconstructed window", func() (*job.Job, error) {
			return job.NewJob(id, "JOB-1", "Acme Corp", "", "12 Harbor Rd",
				job.TypeDelivery, job.PriorityNormal, date, kernel.TimeWindow{}, createdBy)
		}},
		{"invalid creator", func() (*job.Job, error) {
			return job.NewJob(id, "JOB-1", "Acme Corp", "", "12 Harbor Rd",
				job.TypeDelivery, job.PriorityNormal, date, window, kernel.UUID{})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j, err := tt.call()
			require.Error(t, err)
			assert.Nil(t, j)
		})
	}
}

func TestRestoreJob_RestoresStatus(t *testing.T) {
	id, date, window, createdBy := validJobArgs(t)

	j, err := job.RestoreJob(id, "JOB-1042", "Acme Corp", "", "12 Harbor Rd",
		job.TypeMaintenance, job.PriorityUrgent, date, window, job.StatusInProgress, createdBy)

	require.NoError(t, err)
	assert.Equal(t, job.StatusInProgress, j.Status())
}

func TestRestoreJob_InvalidStatus(t *testing.T) {
	id, date, window, createdBy := validJobArgs(t)

	_, err := job.RestoreJob(id, "JOB-1042", "Acme Corp", "", "12 Harbor Rd",
		job.TypeMaintenance, job.PriorityUrgent, date, window, job.StatusUnknown, createdBy)

	require.Error(t, err)
}

func TestJob_Validate_NotConstructed(t *testing.T) {
	var j job.Job
	err := j.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, job.ErrJobIsNotConstructed)

	var nilJob *job.Job
	require.ErrorIs(t, nilJob.Validate(), job.ErrJobIsNotConstructed)
}

func TestJob_ChangeStatus(t *testing.T) {
	id, date, window, createdBy := validJobArgs(t)

	t.Run("should report change on a real transition", func(t *testing.T) {
		j, err := job.NewJob(id, "JOB-1", "Acme Corp", "", "12 Harbor Rd",
			job.TypeDelivery, job.PriorityNormal, date, window, createdBy)
		require.NoError(t, err)

		changed, err := j.ChangeStatus(job.StatusCancelled, job.TransitionContext{})
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, job.StatusCancelled, j.Status())
	})

	t.Run("should report no change on a same-status request", func(t *testing.T) {
		j, err := job.NewJob(id, "JOB-1", "Acme Corp", "", "12 Harbor Rd",
			job.TypeDelivery, job.PriorityNormal, date, window, createdBy)
		require.NoError(t, err)

		changed, err := j.ChangeStatus(job.StatusPending, job.TransitionContext{})
		require.NoError(t, err)
		assert.False(t, changed)
		assert.Equal(t, job.StatusPending, j.Status())
	})

	t.Run("should keep status on rejection", func(t *testing.T) {
		j, err := job.NewJob(id, "JOB-1", "Acme Corp", "", "12 Harbor Rd",
			job.TypeDelivery, job.PriorityNormal, date, window, createdBy)
		require.NoError(t, err)

		changed, err := j.ChangeStatus(job.StatusCompleted, job.TransitionContext{})
		require.Error(t, err)
		assert.False(t, changed)
		assert.Equal(t, job.StatusPending, j.Status())
	})
}

func TestJob_MarkAssigned_MarkUnassigned(t *testing.T) {
	id, date, window, createdBy := validJobArgs(t)

	j, err := job.NewJob(id, "JOB-1", "Acme Corp", "", "12 Harbor Rd",
		job.TypeDelivery, job.PriorityNormal, date, window, createdBy)
	require.NoError(t, err)

	changed, err := j.MarkAssigned()
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, job.StatusAssigned, j.Status())

	// Assigning again is idempotent.
	changed, err = j.MarkAssigned()
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = j.MarkUnassigned()
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, job.StatusPending, j.Status())
}

func TestJob_IsEqual(t *testing.T) {
	id, date, window, createdBy := validJobArgs(t)

	j1, err := job.NewJob(id, "JOB-1", "Acme Corp", "", "12 Harbor Rd",
		job.TypeDelivery, job.PriorityNormal, date, window, createdBy)
	require.NoError(t, err)

	j2, err := job.RestoreJob(id, "JOB-1", "Acme Corp", "", "12 Harbor Rd",
		job.TypeDelivery, job.PriorityNormal, date, window, job.StatusCancelled, createdBy)
	require.NoError(t, err)

	assert.True(t, j1.IsEqual(j2))
	assert.False(t, j1.IsEqual(nil))
}

func TestNormalizeDate(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	ts := time.Date(2026, 9, 14, 23, 45, 0, 0, loc) // 2026-09-15 04:45 UTC
	assert.Equal(t, time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC), job.NormalizeDate(ts))
}

func TestTypeFromString(t *testing.T) {
	for typ, s := range map[job.Type]string{
		job.TypeInstallation: "installation",
		job.TypeDelivery:     "delivery",
		job.TypeMaintenance:  "maintenance",
	} {
		parsed, err := job.TypeFromString(s)
		require.NoError(t, err)
		assert.Equal(t, typ, parsed)
		assert.Equal(t, s, typ.String())
	}

	_, err := job.TypeFromString("repair")
	require.Error(t, err)
}

func TestPriorityFromString(t *testing.T) {
	for priority, s := range map[job.Priority]string{
		job.PriorityLow:    "low",
		job.PriorityNormal: "normal",
		job.PriorityHigh:   "high",
		job.PriorityUrgent: "urgent",
	} {
		parsed, err := job.PriorityFromString(s)
		require.NoError(t, err)
		assert.Equal(t, priority, parsed)
		assert.Equal(t, s, priority.String())
	}

	_, err := job.PriorityFromString("asap")
	require.Error(t, err)
}
