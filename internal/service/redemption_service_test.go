package service

import (
	"context"
	"sync"
	"testing"

	"fleetpoints/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func TestRedeem_Success(t *testing.T) {
	drivers := newStubDriverRepo()
	rewards := newStubRewardRepo()
	driver := drivers.add(&model.Driver{FirstName: "Ana", Email: "ana@fleet.test", Points: 500, Active: true})
	reward := rewards.add(&model.Reward{Name: "Fuel card", PointCost: 200, Stock: intPtr(3), Active: true})

	svc := NewRedemptionService(drivers, rewards, nil)
	resp, err := svc.Redeem(context.Background(), driver.ID, reward.ID)

	require.NoError(t, err)
	assert.Equal(t, "Fuel card", resp.RewardName)
	assert.Equal(t, 200, resp.PointsSpent)
	assert.Equal(t, 300, resp.BalanceAfter)
	assert.Equal(t, 300, drivers.points(driver.ID))
	assert.Equal(t, 2, *rewards.rewards[reward.ID].Stock)
	assert.Len(t, rewards.redemptions, 1)
}

func TestRedeem_InsufficientPoints(t *testing.T) {
	drivers := newStubDriverRepo()
	rewards := newStubRewardRepo()
	driver := drivers.add(&model.Driver{FirstName: "Ana", Points: 50, Active: true})
	reward := rewards.add(&model.Reward{Name: "Fuel card", PointCost: 200, Active: true})

	svc := NewRedemptionService(drivers, rewards, nil)
	_, err := svc.Redeem(context.Background(), driver.ID, reward.ID)

	assert.ErrorIs(t, err, ErrInsufficientPoints)
	assert.Equal(t, 50, drivers.points(driver.ID))
	assert.Empty(t, rewards.redemptions)
}

func TestRedeem_ExactBalanceSucceeds(t *testing.T) {
	drivers := newStubDriverRepo()
	rewards := newStubRewardRepo()
	driver := drivers.add(&model.Driver{FirstName: "Ana", Points: 200, Active: true})
	reward := rewards.add(&model.Reward{Name: "Fuel card", PointCost: 200, Active: true})

	svc := NewRedemptionService(drivers, rewards, nil)
	resp, err := svc.Redeem(context.Background(), driver.ID, reward.ID)

	require.NoError(t, err)
	assert.Equal(t, 0, resp.BalanceAfter)
	assert.Equal(t, 0, drivers.points(driver.ID))
}

func TestRedeem_PerUserLimit(t *testing.T) {
	drivers := newStubDriverRepo()
	rewards := newStubRewardRepo()
	driver := drivers.add(&model.Driver{FirstName: "Ana", Points: 1000, Active: true})
	reward := rewards.add(&model.Reward{Name: "Car wash", PointCost: 100, PerUserLimit: intPtr(2), Active: true})

	svc := NewRedemptionService(drivers, rewards, nil)
	ctx := context.Background()

	_, err := svc.Redeem(ctx, driver.ID, reward.ID)
	require.NoError(t, err)
	_, err = svc.Redeem(ctx, driver.ID, reward.ID)
	require.NoError(t, err)

	_, err = svc.Redeem(ctx, driver.ID, reward.ID)
	assert.ErrorIs(t, err, ErrLimitReached)
	assert.Equal(t, 800, drivers.points(driver.ID))
	assert.Len(t, rewards.redemptions, 2)
}

func TestRedeem_OutOfStock(t *testing.T) {
	drivers := newStubDriverRepo()
	rewards := newStubRewardRepo()
	driver := drivers.add(&model.Driver{FirstName: "Ana", Points: 500, Active: true})
	reward := rewards.add(&model.Reward{Name: "Headset", PointCost: 100, Stock: intPtr(0), Active: true})

	svc := NewRedemptionService(drivers, rewards, nil)
	_, err := svc.Redeem(context.Background(), driver.ID, reward.ID)

	assert.ErrorIs(t, err, ErrOutOfStock)
	assert.Equal(t, 500, drivers.points(driver.ID))
	assert.Empty(t, rewards.redemptions)
}

func TestRedeem_UnlimitedStock(t *testing.T) {
	drivers := newStubDriverRepo()
	rewards := newStubRewardRepo()
	driver := drivers.add(&model.Driver{FirstName: "Ana", Points: 500, Active: true})
	reward := rewards.add(&model.Reward{Name: "Badge sticker", PointCost: 10, Active: true}) // Stock nil

	svc := NewRedemptionService(drivers, rewards, nil)
	for i := 0; i < 5; i++ {
		_, err := svc.Redeem(context.Background(), driver.ID, reward.ID)
		require.NoError(t, err)
	}
	assert.Equal(t, 450, drivers.points(driver.ID))
}

func TestRedeem_InactiveReward(t *testing.T) {
	drivers := newStubDriverRepo()
	rewards := newStubRewardRepo()
	driver := drivers.add(&model.Driver{FirstName: "Ana", Points: 500, Active: true})
	reward := rewards.add(&model.Reward{Name: "Retired", PointCost: 100, Active: false})

	svc := NewRedemptionService(drivers, rewards, nil)
	_, err := svc.Redeem(context.Background(), driver.ID, reward.ID)

	assert.ErrorIs(t, err, ErrRewardNotFound)
}

// Two drivers race for the last unit. The guarded stock decrement must hand it
// to exactly one of them.
func TestRedeem_LastUnitRace(t *testing.T) {
	drivers := newStubDriverRepo()
	rewards := newStubRewardRepo()
	d1 := drivers.add(&model.Driver{FirstName: "Ana", Points: 500, Active: true})
	d2 := drivers.add(&model.Driver{FirstName: "Bruno", Points: 500, Active: true})
	reward := rewards.add(&model.Reward{Name: "Dashcam", PointCost: 100, Stock: intPtr(1), Active: true})

	svc := NewRedemptionService(drivers, rewards, nil)

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for _, id := range []uuid.UUID{d1.ID, d2.ID} {
		wg.Add(1)
		go func(driverID uuid.UUID) {
			defer wg.Done()
			_, err := svc.Redeem(context.Background(), driverID, reward.ID)
			results <- err
		}(id)
	}
	wg.Wait()
	close(results)

	var okCount, stockErrCount int
	for err := range results {
		switch {
		case err == nil:
			okCount++
		case err == ErrOutOfStock:
			stockErrCount++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, okCount)
	assert.Equal(t, 1, stockErrCount)
	assert.Equal(t, 0, *rewards.rewards[reward.ID].Stock)
	assert.Len(t, rewards.redemptions, 1)
}

func TestHistory_NewestHasRewardName(t *testing.T) {
	drivers := newStubDriverRepo()
	rewards := newStubRewardRepo()
	driver := drivers.add(&model.Driver{FirstName: "Ana", Points: 500, Active: true})
	reward := rewards.add(&model.Reward{Name: "Fuel card", PointCost: 100, Active: true})

	svc := NewRedemptionService(drivers, rewards, nil)
	_, err := svc.Redeem(context.Background(), driver.ID, reward.ID)
	require.NoError(t, err)

	items, err := svc.History(context.Background(), driver.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Fuel card", items[0].RewardName)
	assert.Equal(t, 100, items[0].PointsSpent)
}
