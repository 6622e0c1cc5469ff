package service

import (
	"context"
	"encoding/json"
	"time"

	"fleetpoints/internal/dto"
	"fleetpoints/internal/model"
	"fleetpoints/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	rewardCatalogKey = "rewards:catalog"
	rewardCatalogTTL = 60 * time.Second
)

type RewardService interface {
	Create(ctx context.Context, req dto.CreateRewardRequest) (*dto.RewardResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateRewardRequest) (*dto.RewardResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*dto.RewardResponse, error)
	// List returns every reward, active or not. Admin surface.
	List(ctx context.Context) ([]dto.RewardResponse, error)
	// Catalog returns active rewards with the caller's redemption counts.
	// The reward list itself is served from a short-lived cache.
	Catalog(ctx context.Context, driverID uuid.UUID) ([]dto.RewardResponse, error)
}

type rewardService struct {
	repo repository.RewardRepository
	rdb  *redis.Client
}

func NewRewardService(repo repository.RewardRepository, rdb *redis.Client) RewardService {
	return &rewardService{repo: repo, rdb: rdb}
}

func (s *rewardService) Create(ctx context.Context, req dto.CreateRewardRequest) (*dto.RewardResponse, error) {
	reward := &model.Reward{
		Name:         req.Name,
		Description:  req.Description,
		ImageURL:     req.ImageURL,
		PointCost:    req.PointCost,
		Stock:        req.Stock,
		PerUserLimit: req.PerUserLimit,
		Active:       true,
	}
	if err := s.repo.Create(ctx, reward); err != nil {
		return nil, err
	}
	s.invalidateCatalog(ctx)
	resp := rewardToResponse(reward)
	return &resp, nil
}

func (s *rewardService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateRewardRequest) (*dto.RewardResponse, error) {
	reward, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrRewardNotFound
	}

	if req.Name != "" {
		reward.Name = req.Name
	}
	if req.Description != nil {
		reward.Description = *req.Description
	}
	if req.ImageURL != nil {
		reward.ImageURL = *req.ImageURL
	}
	if req.PointCost > 0 {
		reward.PointCost = req.PointCost
	}
	if req.Stock != nil {
		reward.Stock = req.Stock
	}
	if req.PerUserLimit != nil {
		reward.PerUserLimit = req.PerUserLimit
	}
	if req.Active != nil {
		reward.Active = *req.Active
	}

	if err := s.repo.Update(ctx, reward); err != nil {
		return nil, err
	}
	s.invalidateCatalog(ctx)
	resp := rewardToResponse(reward)
	return &resp, nil
}

func (s *rewardService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return ErrRewardNotFound
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.invalidateCatalog(ctx)
	return nil
}

func (s *rewardService) Get(ctx context.Context, id uuid.UUID) (*dto.RewardResponse, error) {
	reward, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrRewardNotFound
	}
	resp := rewardToResponse(reward)
	return &resp, nil
}

func (s *rewardService) List(ctx context.Context) ([]dto.RewardResponse, error) {
	rewards, err := s.repo.List(ctx, true)
	if err != nil {
		return nil, err
	}
	items := make([]dto.RewardResponse, 0, len(rewards))
	for i := range rewards {
		items = append(items, rewardToResponse(&rewards[i]))
	}
	return items, nil
}

func (s *rewardService) Catalog(ctx context.Context, driverID uuid.UUID) ([]dto.RewardResponse, error) {
	items, err := s.activeRewards(ctx)
	if err != nil {
		return nil, err
	}

	// Per-driver counts are cheap and never cached; the shared list is.
	for i := range items {
		rid, err := uuid.Parse(items[i].ID)
		if err != nil {
			continue
		}
		n, err := s.repo.CountRedemptions(ctx, driverID, rid)
		if err != nil {
			return nil, err
		}
		items[i].Redeemed = int(n)
	}
	return items, nil
}

func (s *rewardService) activeRewards(ctx context.Context) ([]dto.RewardResponse, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, rewardCatalogKey).Result(); err == nil {
			var items []dto.RewardResponse
			if err := json.Unmarshal([]byte(cached), &items); err == nil {
				return items, nil
			}
		}
	}

	rewards, err := s.repo.List(ctx, false)
	if err != nil {
		return nil, err
	}
	items := make([]dto.RewardResponse, 0, len(rewards))
	for i := range rewards {
		items = append(items, rewardToResponse(&rewards[i]))
	}

	if s.rdb != nil {
		if data, err := json.Marshal(items); err == nil {
			if err := s.rdb.Set(ctx, rewardCatalogKey, data, rewardCatalogTTL).Err(); err != nil {
				log.Warn().Err(err).Msg("reward catalog cache write failed")
			}
		}
	}
	return items, nil
}

func (s *rewardService) invalidateCatalog(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, rewardCatalogKey).Err(); err != nil {
		log.Warn().Err(err).Msg("reward catalog cache invalidation failed")
	}
}

func rewardToResponse(r *model.Reward) dto.RewardResponse {
	return dto.RewardResponse{
		ID:           r.ID.String(),
		Name:         r.Name,
		Description:  r.Description,
		PointCost:    r.PointCost,
		ImageURL:     r.ImageURL,
		Stock:        r.Stock,
		PerUserLimit: r.PerUserLimit,
		Active:       r.Active,
	}
}
