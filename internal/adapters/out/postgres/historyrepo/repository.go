package historyrepo

import (
	"context"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"

	"gorm.io/gorm"
)

// GormStatusHistoryRepository implements StatusHistoryRepository using GORM.
type GormStatusHistoryRepository struct {
	db *gorm.DB
}

// NewGormStatusHistoryRepository creates a new GORM status history repository.
func NewGormStatusHistoryRepository(db *gorm.DB) *GormStatusHistoryRepository {
	return &GormStatusHistoryRepository{db: db}
}

// Add appends a status change record.
func (r *GormStatusHistoryRepository) Add(ctx context.Context, record *assignment.StatusChangeRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}

	dto := fromDomain(record)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// GetByJob returns a job's status change records, newest first.
// A limit of 0 returns the full history.
func (r *GormStatusHistoryRepository) GetByJob(
	ctx context.Context,
	jobID kernel.UUID,
	limit int,
) ([]*assignment.StatusChangeRecord, error) {
	if err := jobID.Validate(); err != nil {
		return nil, err
	}

	tx := r.db.WithContext(ctx).
		Where("job_id = ?", jobID.Bytes()).
		Order("changed_at DESC, id DESC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}

	var dtos []StatusChangeDTO
	if err := tx.Find(&dtos).Error; err != nil {
		return nil, err
	}

	records := make([]*assignment.StatusChangeRecord, 0, len(dtos))
	for _, dto := range dtos {
		record, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}
