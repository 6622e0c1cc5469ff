package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"fleetpoints/internal/dto"
	"fleetpoints/internal/model"
	"fleetpoints/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────
// In-memory repositories. The Tx variants keep the guarded-update semantics of
// the real SQL (condition checked under a lock, RowsAffected reported) so the
// races the services defend against can be reproduced without a database.
// DB() returns nil, which makes runTx call straight through.

type stubDriverRepo struct {
	mu      sync.Mutex
	drivers map[uuid.UUID]*model.Driver

	// failAddPointsFor makes AddPointsTx fail for one driver, to simulate a
	// chunk commit going wrong mid-import.
	failAddPointsFor uuid.UUID
}

func newStubDriverRepo() *stubDriverRepo {
	return &stubDriverRepo{drivers: make(map[uuid.UUID]*model.Driver)}
}

func (r *stubDriverRepo) add(d *model.Driver) *model.Driver {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	r.drivers[d.ID] = d
	return d
}

func (r *stubDriverRepo) Create(_ context.Context, d *model.Driver) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.add(d)
	return nil
}

func (r *stubDriverRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Driver, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.drivers[id]
	if !ok {
		return nil, errors.New("not found")
	}
	cp := *d
	return &cp, nil
}

func (r *stubDriverRepo) FindByEmail(_ context.Context, email string) (*model.Driver, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.drivers {
		if d.Email == email && d.Active {
			cp := *d
			return &cp, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *stubDriverRepo) FindByLicense(_ context.Context, license string) (*model.Driver, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.drivers {
		if d.License == license {
			cp := *d
			return &cp, nil
		}
	}
	for _, d := range r.drivers {
		if d.LegacyLicense == license {
			cp := *d
			cp.License = cp.LegacyLicense
			return &cp, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *stubDriverRepo) List(_ context.Context, _ dto.DriverFilter) ([]model.Driver, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Driver
	for _, d := range r.drivers {
		out = append(out, *d)
	}
	return out, int64(len(out)), nil
}

func (r *stubDriverRepo) Update(_ context.Context, d *model.Driver) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.drivers[d.ID]; !ok {
		return errors.New("not found")
	}
	cp := *d
	r.drivers[d.ID] = &cp
	return nil
}

func (r *stubDriverRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.drivers[id]; ok {
		d.Active = false
	}
	return nil
}

func (r *stubDriverRepo) Reactivate(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.drivers[id]; ok {
		d.Active = true
	}
	return nil
}

func (r *stubDriverRepo) AddPoints(_ context.Context, id uuid.UUID, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.drivers[id]
	if !ok {
		return errors.New("not found")
	}
	d.Points += delta
	return nil
}

func (r *stubDriverRepo) FindForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Driver, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubDriverRepo) DeductPointsTx(_ *gorm.DB, id uuid.UUID, cost int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.drivers[id]
	if !ok || d.Points < cost {
		return 0, nil
	}
	d.Points -= cost
	return 1, nil
}

func (r *stubDriverRepo) AddPointsTx(_ *gorm.DB, id uuid.UUID, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id == r.failAddPointsFor && r.failAddPointsFor != uuid.Nil {
		return errors.New("simulated write failure")
	}
	d, ok := r.drivers[id]
	if !ok {
		return errors.New("not found")
	}
	d.Points += delta
	return nil
}

func (r *stubDriverRepo) DB() *gorm.DB { return nil }

func (r *stubDriverRepo) points(id uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.drivers[id].Points
}

var _ repository.DriverRepository = (*stubDriverRepo)(nil)

type stubRewardRepo struct {
	mu          sync.Mutex
	rewards     map[uuid.UUID]*model.Reward
	redemptions []model.Redemption
}

func newStubRewardRepo() *stubRewardRepo {
	return &stubRewardRepo{rewards: make(map[uuid.UUID]*model.Reward)}
}

func (r *stubRewardRepo) add(rw *model.Reward) *model.Reward {
	if rw.ID == uuid.Nil {
		rw.ID = uuid.New()
	}
	r.rewards[rw.ID] = rw
	return rw
}

func (r *stubRewardRepo) Create(_ context.Context, rw *model.Reward) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.add(rw)
	return nil
}

func (r *stubRewardRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Reward, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rw, ok := r.rewards[id]
	if !ok {
		return nil, errors.New("not found")
	}
	cp := *rw
	return &cp, nil
}

func (r *stubRewardRepo) List(_ context.Context, includeInactive bool) ([]model.Reward, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Reward
	for _, rw := range r.rewards {
		if includeInactive || rw.Active {
			out = append(out, *rw)
		}
	}
	return out, nil
}

func (r *stubRewardRepo) Update(_ context.Context, rw *model.Reward) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *rw
	r.rewards[rw.ID] = &cp
	return nil
}

func (r *stubRewardRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rw, ok := r.rewards[id]; ok {
		rw.Active = false
	}
	return nil
}

func (r *stubRewardRepo) FindForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Reward, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubRewardRepo) DecrementStockTx(_ *gorm.DB, id uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rw, ok := r.rewards[id]
	if !ok || rw.Stock == nil || *rw.Stock <= 0 {
		return 0, nil
	}
	*rw.Stock--
	return 1, nil
}

func (r *stubRewardRepo) CountRedemptionsTx(_ *gorm.DB, driverID, rewardID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, rd := range r.redemptions {
		if rd.DriverID == driverID && rd.RewardID == rewardID {
			n++
		}
	}
	return n, nil
}

func (r *stubRewardRepo) CreateRedemptionTx(_ *gorm.DB, rd *model.Redemption) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rd.ID == uuid.Nil {
		rd.ID = uuid.New()
	}
	if rd.CreatedAt.IsZero() {
		rd.CreatedAt = time.Now()
	}
	r.redemptions = append(r.redemptions, *rd)
	return nil
}

func (r *stubRewardRepo) CountRedemptions(ctx context.Context, driverID, rewardID uuid.UUID) (int64, error) {
	return r.CountRedemptionsTx(nil, driverID, rewardID)
}

func (r *stubRewardRepo) ListRedemptionsByDriver(_ context.Context, driverID uuid.UUID) ([]model.Redemption, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Redemption
	for _, rd := range r.redemptions {
		if rd.DriverID == driverID {
			cp := rd
			if rw, ok := r.rewards[rd.RewardID]; ok {
				rwCp := *rw
				cp.Reward = &rwCp
			}
			out = append(out, cp)
		}
	}
	return out, nil
}

func (r *stubRewardRepo) DB() *gorm.DB { return nil }

var _ repository.RewardRepository = (*stubRewardRepo)(nil)

type stubUploadRepo struct {
	mu   sync.Mutex
	logs []*model.UploadLog
}

func (r *stubUploadRepo) Create(_ context.Context, l *model.UploadLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	cp := *l
	r.logs = append(r.logs, &cp)
	return nil
}

func (r *stubUploadRepo) Finalize(_ context.Context, id uuid.UUID, ok, fail int, processedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.logs {
		if l.ID == id {
			l.OK = ok
			l.Fail = fail
			l.ProcessedAt = &processedAt
			return nil
		}
	}
	return errors.New("not found")
}

func (r *stubUploadRepo) List(_ context.Context) ([]model.UploadLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.UploadLog, 0, len(r.logs))
	for _, l := range r.logs {
		out = append(out, *l)
	}
	return out, nil
}

var _ repository.UploadLogRepository = (*stubUploadRepo)(nil)

type stubGrantRepo struct {
	mu     sync.Mutex
	grants []model.PointGrant
}

func (r *stubGrantRepo) Create(_ context.Context, g *model.PointGrant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	r.grants = append(r.grants, *g)
	return nil
}

func (r *stubGrantRepo) ListByDriver(_ context.Context, driverID uuid.UUID) ([]model.PointGrant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.PointGrant
	for _, g := range r.grants {
		if g.DriverID == driverID {
			out = append(out, g)
		}
	}
	return out, nil
}

var _ repository.PointGrantRepository = (*stubGrantRepo)(nil)

// stubBlobStore records uploads; optionally fails.
type stubBlobStore struct {
	mu   sync.Mutex
	keys []string
	fail bool
}

func (s *stubBlobStore) Put(_ context.Context, key, _ string, _ []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return "", errors.New("blob store unavailable")
	}
	s.keys = append(s.keys, key)
	return "https://blobs.test/" + key, nil
}
