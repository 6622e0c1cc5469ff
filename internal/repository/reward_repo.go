package repository

import (
	"context"

	"fleetpoints/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RewardRepository interface {
	Create(ctx context.Context, rw *model.Reward) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Reward, error)
	List(ctx context.Context, includeInactive bool) ([]model.Reward, error)
	Update(ctx context.Context, rw *model.Reward) error
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// Used inside the redemption transaction.
	FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Reward, error)
	// DecrementStockTx takes one unit off the shelf only while stock remains.
	// Returns the number of rows updated: 0 means the last unit is gone.
	DecrementStockTx(tx *gorm.DB, id uuid.UUID) (int64, error)
	CountRedemptionsTx(tx *gorm.DB, driverID, rewardID uuid.UUID) (int64, error)
	CreateRedemptionTx(tx *gorm.DB, rd *model.Redemption) error

	CountRedemptions(ctx context.Context, driverID, rewardID uuid.UUID) (int64, error)
	ListRedemptionsByDriver(ctx context.Context, driverID uuid.UUID) ([]model.Redemption, error)

	DB() *gorm.DB
}

type rewardRepo struct{ db *gorm.DB }

func NewRewardRepository(db *gorm.DB) RewardRepository { return &rewardRepo{db: db} }

func (r *rewardRepo) DB() *gorm.DB { return r.db }

func (r *rewardRepo) Create(ctx context.Context, rw *model.Reward) error {
	return r.db.WithContext(ctx).Create(rw).Error
}

func (r *rewardRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Reward, error) {
	var rw model.Reward
	err := r.db.WithContext(ctx).First(&rw, id).Error
	return &rw, err
}

func (r *rewardRepo) List(ctx context.Context, includeInactive bool) ([]model.Reward, error) {
	var rewards []model.Reward
	q := r.db.WithContext(ctx)
	if !includeInactive {
		q = q.Where("active = true")
	}
	err := q.Order("name ASC").Find(&rewards).Error
	return rewards, err
}

func (r *rewardRepo) Update(ctx context.Context, rw *model.Reward) error {
	return r.db.WithContext(ctx).Save(rw).Error
}

func (r *rewardRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Reward{}).Where("id = ?", id).Update("active", false).Error
}

func (r *rewardRepo) FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Reward, error) {
	var rw model.Reward
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&rw, id).Error
	return &rw, err
}

func (r *rewardRepo) DecrementStockTx(tx *gorm.DB, id uuid.UUID) (int64, error) {
	res := tx.Model(&model.Reward{}).
		Where("id = ? AND stock > 0", id).
		Update("stock", gorm.Expr("stock - 1"))
	return res.RowsAffected, res.Error
}

func (r *rewardRepo) CountRedemptionsTx(tx *gorm.DB, driverID, rewardID uuid.UUID) (int64, error) {
	var n int64
	err := tx.Model(&model.Redemption{}).
		Where("driver_id = ? AND reward_id = ?", driverID, rewardID).
		Count(&n).Error
	return n, err
}

func (r *rewardRepo) CreateRedemptionTx(tx *gorm.DB, rd *model.Redemption) error {
	return tx.Create(rd).Error
}

func (r *rewardRepo) CountRedemptions(ctx context.Context, driverID, rewardID uuid.UUID) (int64, error) {
	return r.CountRedemptionsTx(r.db.WithContext(ctx), driverID, rewardID)
}

func (r *rewardRepo) ListRedemptionsByDriver(ctx context.Context, driverID uuid.UUID) ([]model.Redemption, error) {
	var rds []model.Redemption
	err := r.db.WithContext(ctx).Preload("Reward").
		Where("driver_id = ?", driverID).
		Order("created_at DESC").
		Find(&rds).Error
	return rds, err
}
