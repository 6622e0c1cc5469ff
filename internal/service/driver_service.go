package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"time"

	"fleetpoints/internal/dto"
	"fleetpoints/internal/model"
	"fleetpoints/internal/repository"

	"github.com/google/uuid"
)

type DriverService interface {
	List(ctx context.Context, filter dto.DriverFilter) (*dto.DriverListResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.DriverResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateDriverRequest, actorID uuid.UUID) (*dto.DriverResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	Reactivate(ctx context.Context, id uuid.UUID) error

	UpdateProfile(ctx context.Context, id uuid.UUID, req dto.UpdateProfileRequest) (*dto.DriverResponse, error)
	UploadAvatar(ctx context.Context, id uuid.UUID, header *multipart.FileHeader) (*dto.DriverResponse, error)
}

type driverService struct {
	repo   repository.DriverRepository
	grants repository.PointGrantRepository
	blobs  BlobPutter
}

func NewDriverService(repo repository.DriverRepository, grants repository.PointGrantRepository, blobs BlobPutter) DriverService {
	return &driverService{repo: repo, grants: grants, blobs: blobs}
}

func (s *driverService) List(ctx context.Context, filter dto.DriverFilter) (*dto.DriverListResponse, error) {
	drivers, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.DriverResponse, 0, len(drivers))
	for i := range drivers {
		items = append(items, driverToResponse(&drivers[i]))
	}
	return &dto.DriverListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *driverService) Get(ctx context.Context, id uuid.UUID) (*dto.DriverResponse, error) {
	driver, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrDriverNotFound
	}
	resp := driverToResponse(driver)
	return &resp, nil
}

func (s *driverService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateDriverRequest, actorID uuid.UUID) (*dto.DriverResponse, error) {
	driver, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrDriverNotFound
	}

	if req.FirstName != "" {
		driver.FirstName = req.FirstName
	}
	if req.LastName != "" {
		driver.LastName = req.LastName
	}
	if req.Phone != "" {
		driver.Phone = req.Phone
	}
	if req.Address != "" {
		driver.Address = req.Address
	}
	if req.License != "" {
		driver.License = req.License
	}
	if req.AvatarURL != "" {
		driver.AvatarURL = req.AvatarURL
	}
	if err := s.repo.Update(ctx, driver); err != nil {
		return nil, err
	}

	// Point adjustments go through the atomic increment, never a blind write
	// of the loaded balance, and leave a grant record behind.
	if req.PointsDelta != 0 {
		if err := s.repo.AddPoints(ctx, driver.ID, req.PointsDelta); err != nil {
			return nil, err
		}
		grant := &model.PointGrant{
			DriverID:    driver.ID,
			Points:      req.PointsDelta,
			Description: "manual adjustment",
			GrantedBy:   actorID,
		}
		if err := s.grants.Create(ctx, grant); err != nil {
			return nil, err
		}
		driver, err = s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
	}

	resp := driverToResponse(driver)
	return &resp, nil
}

func (s *driverService) Deactivate(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return ErrDriverNotFound
	}
	return s.repo.SoftDelete(ctx, id)
}

func (s *driverService) Reactivate(ctx context.Context, id uuid.UUID) error {
	return s.repo.Reactivate(ctx, id)
}

func (s *driverService) UpdateProfile(ctx context.Context, id uuid.UUID, req dto.UpdateProfileRequest) (*dto.DriverResponse, error) {
	driver, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrDriverNotFound
	}
	if req.FirstName != "" {
		driver.FirstName = req.FirstName
	}
	if req.LastName != "" {
		driver.LastName = req.LastName
	}
	if req.Phone != "" {
		driver.Phone = req.Phone
	}
	if req.Address != "" {
		driver.Address = req.Address
	}
	if err := s.repo.Update(ctx, driver); err != nil {
		return nil, err
	}
	resp := driverToResponse(driver)
	return &resp, nil
}

func (s *driverService) UploadAvatar(ctx context.Context, id uuid.UUID, header *multipart.FileHeader) (*dto.DriverResponse, error) {
	driver, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrDriverNotFound
	}

	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("avatars/%s_%d%s", driver.ID, time.Now().Unix(), filepath.Ext(header.Filename))
	contentType := header.Header.Get("Content-Type")
	url, err := s.blobs.Put(ctx, key, contentType, data)
	if err != nil {
		return nil, err
	}

	driver.AvatarURL = url
	if err := s.repo.Update(ctx, driver); err != nil {
		return nil, err
	}
	resp := driverToResponse(driver)
	return &resp, nil
}
