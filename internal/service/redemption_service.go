package service

import (
	"context"
	"time"

	"fleetpoints/internal/dto"
	"fleetpoints/internal/model"
	"fleetpoints/internal/repository"
	"fleetpoints/internal/worker"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RedemptionService interface {
	Redeem(ctx context.Context, driverID, rewardID uuid.UUID) (*dto.RedemptionResponse, error)
	History(ctx context.Context, driverID uuid.UUID) ([]dto.RedemptionResponse, error)
}

type redemptionService struct {
	drivers    repository.DriverRepository
	rewards    repository.RewardRepository
	dispatcher *worker.Dispatcher
}

func NewRedemptionService(
	drivers repository.DriverRepository,
	rewards repository.RewardRepository,
	dispatcher *worker.Dispatcher,
) RedemptionService {
	return &redemptionService{drivers: drivers, rewards: rewards, dispatcher: dispatcher}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── Redeem ───────────────────────────────────────────────────────────────────
// One ACID transaction:
//   1. Lock driver and reward rows
//   2. Check balance, per-user limit, stock
//   3. Guarded balance decrement (points must stay non-negative)
//   4. Guarded stock decrement when the reward tracks stock
//   5. Insert the redemption record
// The redemption record is written inside the same transaction as the
// decrements so the per-user limit check can never observe a balance deduction
// without its matching history entry.
//
// Redeem is NOT idempotent: two calls with the same arguments produce two
// deductions. Callers must prevent duplicate submission.

func (s *redemptionService) Redeem(ctx context.Context, driverID, rewardID uuid.UUID) (*dto.RedemptionResponse, error) {
	var (
		redemption   model.Redemption
		driver       *model.Driver
		reward       *model.Reward
		balanceAfter int
	)

	txErr := runTx(ctx, s.rewards.DB(), func(tx *gorm.DB) error {
		var err error

		driver, err = s.drivers.FindForUpdateTx(tx, driverID)
		if err != nil {
			return ErrDriverNotFound
		}

		reward, err = s.rewards.FindForUpdateTx(tx, rewardID)
		if err != nil || !reward.Active {
			return ErrRewardNotFound
		}

		if driver.Points < reward.PointCost {
			return ErrInsufficientPoints
		}

		if reward.PerUserLimit != nil {
			prior, err := s.rewards.CountRedemptionsTx(tx, driverID, rewardID)
			if err != nil {
				return err
			}
			if prior >= int64(*reward.PerUserLimit) {
				return ErrLimitReached
			}
		}

		if reward.Stock != nil && *reward.Stock <= 0 {
			return ErrOutOfStock
		}

		// Guarded decrements re-validate against fresh state at write time,
		// so a concurrent redemption that slipped past the reads above still
		// cannot double-spend points or over-sell the last unit.
		n, err := s.drivers.DeductPointsTx(tx, driverID, reward.PointCost)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrInsufficientPoints
		}

		if reward.Stock != nil {
			n, err := s.rewards.DecrementStockTx(tx, rewardID)
			if err != nil {
				return err
			}
			if n == 0 {
				return ErrOutOfStock
			}
		}

		redemption = model.Redemption{
			DriverID:    driverID,
			RewardID:    rewardID,
			PointsSpent: reward.PointCost,
		}
		if err := s.rewards.CreateRedemptionTx(tx, &redemption); err != nil {
			return err
		}

		balanceAfter = driver.Points - reward.PointCost
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	// Voucher PDF + email — best-effort, fire & forget.
	if s.dispatcher != nil {
		_ = s.dispatcher.EnqueueReceipt(ctx, worker.ReceiptJobPayload{
			RedemptionID: redemption.ID.String(),
			DriverName:   driver.FullName(),
			DriverEmail:  driver.Email,
			RewardName:   reward.Name,
			PointsSpent:  reward.PointCost,
			RedeemedAt:   time.Now(),
		})
	}

	return &dto.RedemptionResponse{
		ID:           redemption.ID.String(),
		RewardID:     rewardID.String(),
		RewardName:   reward.Name,
		PointsSpent:  reward.PointCost,
		BalanceAfter: balanceAfter,
		CreatedAt:    redemption.CreatedAt.Format(time.RFC3339),
	}, nil
}

func (s *redemptionService) History(ctx context.Context, driverID uuid.UUID) ([]dto.RedemptionResponse, error) {
	redemptions, err := s.rewards.ListRedemptionsByDriver(ctx, driverID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.RedemptionResponse, 0, len(redemptions))
	for _, rd := range redemptions {
		item := dto.RedemptionResponse{
			ID:          rd.ID.String(),
			RewardID:    rd.RewardID.String(),
			PointsSpent: rd.PointsSpent,
			CreatedAt:   rd.CreatedAt.Format(time.RFC3339),
		}
		if rd.Reward != nil {
			item.RewardName = rd.Reward.Name
		}
		resp = append(resp, item)
	}
	return resp, nil
}
