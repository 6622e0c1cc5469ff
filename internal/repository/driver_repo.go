package repository

import (
	"context"

	"fleetpoints/internal/dto"
	"fleetpoints/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DriverRepository defines the data access contract for driver records.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type DriverRepository interface {
	Create(ctx context.Context, d *model.Driver) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Driver, error)
	FindByEmail(ctx context.Context, email string) (*model.Driver, error)
	// FindByLicense tries the primary badge field first, then the legacy
	// alias carried over from the old fleet system. First match wins.
	FindByLicense(ctx context.Context, license string) (*model.Driver, error)
	List(ctx context.Context, filter dto.DriverFilter) ([]model.Driver, int64, error)
	Update(ctx context.Context, d *model.Driver) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Reactivate(ctx context.Context, id uuid.UUID) error

	// AddPoints applies a signed delta as an atomic in-database increment.
	// The balance is never overwritten wholesale; interleaving with a
	// concurrent redemption cannot lose either write.
	AddPoints(ctx context.Context, id uuid.UUID, delta int) error

	// Used inside transactions — callers must pass the tx instance.
	FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Driver, error)
	// DeductPointsTx decrements the balance only when it stays non-negative.
	// Returns the number of rows updated: 0 means insufficient points.
	DeductPointsTx(tx *gorm.DB, id uuid.UUID, cost int) (int64, error)
	AddPointsTx(tx *gorm.DB, id uuid.UUID, delta int) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type driverRepo struct{ db *gorm.DB }

func NewDriverRepository(db *gorm.DB) DriverRepository { return &driverRepo{db: db} }

func (r *driverRepo) DB() *gorm.DB { return r.db }

func (r *driverRepo) Create(ctx context.Context, d *model.Driver) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *driverRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Driver, error) {
	var d model.Driver
	err := r.db.WithContext(ctx).First(&d, id).Error
	return &d, err
}

func (r *driverRepo) FindByEmail(ctx context.Context, email string) (*model.Driver, error) {
	var d model.Driver
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = LOWER(?) AND active = true", email).
		First(&d).Error
	return &d, err
}

func (r *driverRepo) FindByLicense(ctx context.Context, license string) (*model.Driver, error) {
	var d model.Driver
	err := r.db.WithContext(ctx).Where("license = ?", license).First(&d).Error
	if err == nil {
		return &d, nil
	}
	err = r.db.WithContext(ctx).Where("legacy_license = ?", license).First(&d).Error
	return &d, err
}

func (r *driverRepo) List(ctx context.Context, filter dto.DriverFilter) ([]model.Driver, int64, error) {
	var drivers []model.Driver
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Driver{})

	switch filter.Active {
	case "false":
		q = q.Where("active = false")
	case "all":
		// no filter
	default:
		q = q.Where("active = true")
	}

	if filter.Q != "" {
		like := "%" + filter.Q + "%"
		q = q.Where(
			"first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ? OR phone ILIKE ? OR license ILIKE ? OR legacy_license ILIKE ?",
			like, like, like, like, like, like,
		)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("first_name ASC").Limit(filter.Limit).Offset(offset).Find(&drivers).Error
	return drivers, total, err
}

func (r *driverRepo) Update(ctx context.Context, d *model.Driver) error {
	return r.db.WithContext(ctx).Save(d).Error
}

func (r *driverRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Driver{}).Where("id = ?", id).Update("active", false).Error
}

func (r *driverRepo) Reactivate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Driver{}).Where("id = ?", id).Update("active", true).Error
}

func (r *driverRepo) AddPoints(ctx context.Context, id uuid.UUID, delta int) error {
	return r.db.WithContext(ctx).Model(&model.Driver{}).Where("id = ?", id).
		Update("points", gorm.Expr("points + ?", delta)).Error
}

func (r *driverRepo) FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Driver, error) {
	var d model.Driver
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&d, id).Error
	return &d, err
}

func (r *driverRepo) DeductPointsTx(tx *gorm.DB, id uuid.UUID, cost int) (int64, error) {
	res := tx.Model(&model.Driver{}).
		Where("id = ? AND points >= ?", id, cost).
		Update("points", gorm.Expr("points - ?", cost))
	return res.RowsAffected, res.Error
}

func (r *driverRepo) AddPointsTx(tx *gorm.DB, id uuid.UUID, delta int) error {
	return tx.Model(&model.Driver{}).Where("id = ?", id).
		Update("points", gorm.Expr("points + ?", delta)).Error
}
