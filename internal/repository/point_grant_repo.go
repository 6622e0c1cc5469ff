package repository

import (
	"context"

	"fleetpoints/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PointGrantRepository interface {
	Create(ctx context.Context, g *model.PointGrant) error
	ListByDriver(ctx context.Context, driverID uuid.UUID) ([]model.PointGrant, error)
}

type pointGrantRepo struct{ db *gorm.DB }

func NewPointGrantRepository(db *gorm.DB) PointGrantRepository { return &pointGrantRepo{db: db} }

func (r *pointGrantRepo) Create(ctx context.Context, g *model.PointGrant) error {
	return r.db.WithContext(ctx).Create(g).Error
}

func (r *pointGrantRepo) ListByDriver(ctx context.Context, driverID uuid.UUID) ([]model.PointGrant, error) {
	var grants []model.PointGrant
	err := r.db.WithContext(ctx).Where("driver_id = ?", driverID).
		Order("created_at DESC").Find(&grants).Error
	return grants, err
}
