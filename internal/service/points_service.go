package service

import (
	"context"

	"fleetpoints/internal/dto"
	"fleetpoints/internal/model"
	"fleetpoints/internal/repository"

	"github.com/google/uuid"
)

type PointsService interface {
	// Grant applies a manual adjustment to one driver and records who did it.
	Grant(ctx context.Context, req dto.GrantPointsRequest, grantedBy uuid.UUID) (*dto.DriverResponse, error)
	History(ctx context.Context, driverID uuid.UUID) ([]model.PointGrant, error)
}

type pointsService struct {
	drivers repository.DriverRepository
	grants  repository.PointGrantRepository
}

func NewPointsService(drivers repository.DriverRepository, grants repository.PointGrantRepository) PointsService {
	return &pointsService{drivers: drivers, grants: grants}
}

func (s *pointsService) Grant(ctx context.Context, req dto.GrantPointsRequest, grantedBy uuid.UUID) (*dto.DriverResponse, error) {
	driverID, err := uuid.Parse(req.DriverID)
	if err != nil {
		return nil, ErrDriverNotFound
	}
	if _, err := s.drivers.FindByID(ctx, driverID); err != nil {
		return nil, ErrDriverNotFound
	}

	if err := s.drivers.AddPoints(ctx, driverID, req.Points); err != nil {
		return nil, err
	}
	grant := &model.PointGrant{
		DriverID:    driverID,
		Points:      req.Points,
		Description: req.Description,
		GrantedBy:   grantedBy,
	}
	if err := s.grants.Create(ctx, grant); err != nil {
		return nil, err
	}

	driver, err := s.drivers.FindByID(ctx, driverID)
	if err != nil {
		return nil, err
	}
	resp := driverToResponse(driver)
	return &resp, nil
}

func (s *pointsService) History(ctx context.Context, driverID uuid.UUID) ([]model.PointGrant, error) {
	return s.grants.ListByDriver(ctx, driverID)
}
