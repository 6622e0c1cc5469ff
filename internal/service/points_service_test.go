package service

import (
	"context"
	"testing"

	"fleetpoints/internal/dto"
	"fleetpoints/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrant_AdjustsBalanceAndRecords(t *testing.T) {
	drivers := newStubDriverRepo()
	grants := &stubGrantRepo{}
	ana := drivers.add(&model.Driver{FirstName: "Ana", Points: 100, Active: true})
	admin := uuid.New()

	svc := NewPointsService(drivers, grants)
	resp, err := svc.Grant(context.Background(), dto.GrantPointsRequest{
		DriverID:    ana.ID.String(),
		Points:      -40,
		Description: "damaged equipment",
	}, admin)
	require.NoError(t, err)

	assert.Equal(t, 60, resp.Points)
	require.Len(t, grants.grants, 1)
	assert.Equal(t, -40, grants.grants[0].Points)
	assert.Equal(t, admin, grants.grants[0].GrantedBy)
}

func TestGrant_UnknownDriver(t *testing.T) {
	svc := NewPointsService(newStubDriverRepo(), &stubGrantRepo{})
	_, err := svc.Grant(context.Background(), dto.GrantPointsRequest{
		DriverID: uuid.New().String(), Points: 10, Description: "weekly bonus",
	}, uuid.New())
	assert.ErrorIs(t, err, ErrDriverNotFound)
}

func TestDriverUpdate_PointsDeltaLeavesGrantTrail(t *testing.T) {
	drivers := newStubDriverRepo()
	grants := &stubGrantRepo{}
	ana := drivers.add(&model.Driver{FirstName: "Ana", Points: 100, Active: true})
	admin := uuid.New()

	svc := NewDriverService(drivers, grants, &stubBlobStore{})
	resp, err := svc.Update(context.Background(), ana.ID, dto.UpdateDriverRequest{
		Phone:       "555999888",
		PointsDelta: 25,
	}, admin)
	require.NoError(t, err)

	assert.Equal(t, "555999888", resp.Phone)
	assert.Equal(t, 125, resp.Points)
	require.Len(t, grants.grants, 1)
	assert.Equal(t, 25, grants.grants[0].Points)
}

func TestDriverUpdate_NoDeltaNoGrant(t *testing.T) {
	drivers := newStubDriverRepo()
	grants := &stubGrantRepo{}
	ana := drivers.add(&model.Driver{FirstName: "Ana", Points: 100, Active: true})

	svc := NewDriverService(drivers, grants, &stubBlobStore{})
	_, err := svc.Update(context.Background(), ana.ID, dto.UpdateDriverRequest{FirstName: "Anna"}, uuid.New())
	require.NoError(t, err)

	assert.Empty(t, grants.grants)
	assert.Equal(t, 100, drivers.points(ana.ID))
}
