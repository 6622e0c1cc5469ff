package repository

import (
	"context"
	"time"

	"fleetpoints/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UploadLogRepository interface {
	Create(ctx context.Context, l *model.UploadLog) error
	// Finalize stamps the completion time and writes the final counts.
	// Called exactly once per log.
	Finalize(ctx context.Context, id uuid.UUID, ok, fail int, processedAt time.Time) error
	List(ctx context.Context) ([]model.UploadLog, error)
}

type uploadLogRepo struct{ db *gorm.DB }

func NewUploadLogRepository(db *gorm.DB) UploadLogRepository { return &uploadLogRepo{db: db} }

func (r *uploadLogRepo) Create(ctx context.Context, l *model.UploadLog) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *uploadLogRepo) Finalize(ctx context.Context, id uuid.UUID, ok, fail int, processedAt time.Time) error {
	return r.db.WithContext(ctx).Model(&model.UploadLog{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"ok":           ok,
			"fail":         fail,
			"processed_at": processedAt,
		}).Error
}

func (r *uploadLogRepo) List(ctx context.Context) ([]model.UploadLog, error) {
	var logs []model.UploadLog
	err := r.db.WithContext(ctx).Order("uploaded_at DESC").Find(&logs).Error
	return logs, err
}
