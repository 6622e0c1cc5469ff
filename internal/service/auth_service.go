package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fleetpoints/internal/config"
	"fleetpoints/internal/dto"
	"fleetpoints/internal/model"
	"fleetpoints/internal/repository"
	"fleetpoints/internal/worker"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.DriverResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
	// ForgotPassword enqueues a reset email; it never discloses whether the
	// address has an account.
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

type authService struct {
	repo       repository.DriverRepository
	cfg        *config.Config
	dispatcher *worker.Dispatcher
}

func NewAuthService(repo repository.DriverRepository, cfg *config.Config, dispatcher *worker.Dispatcher) AuthService {
	return &authService{repo: repo, cfg: cfg, dispatcher: dispatcher}
}

func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.DriverResponse, error) {
	if _, err := s.repo.FindByEmail(ctx, req.Email); err == nil {
		return nil, errors.New("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, err
	}
	driver := &model.Driver{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		Email:        req.Email,
		PasswordHash: string(hash),
		License:      req.License,
		Role:         "driver",
		Active:       true,
	}
	if err := s.repo.Create(ctx, driver); err != nil {
		return nil, err
	}
	resp := driverToResponse(driver)
	return &resp, nil
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	driver, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, errors.New("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(driver.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.New("invalid credentials")
	}

	return s.issueTokens(driver)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	claims, err := s.parseToken(refreshToken)
	if err != nil {
		return nil, errors.New("refresh token invalid or expired")
	}
	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return nil, errors.New("malformed token")
	}
	uid, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, errors.New("malformed token")
	}

	driver, err := s.repo.FindByID(ctx, uid)
	if err != nil || !driver.Active {
		return nil, errors.New("account not found or inactive")
	}

	return s.issueTokens(driver)
}

func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	driver, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		// Silently succeed — no account enumeration.
		return nil
	}

	token, err := s.generateToken(driver, "reset", time.Duration(s.cfg.ResetTokenMinutes)*time.Minute)
	if err != nil {
		return err
	}

	if s.dispatcher != nil {
		return s.dispatcher.EnqueueEmail(ctx, worker.EmailJobPayload{
			ToEmail: driver.Email,
			Subject: "FleetPoints password reset",
			Body: fmt.Sprintf(
				"Hello %s,\n\nUse the link below to reset your password. It expires in %d minutes.\n\n%s/reset-password?token=%s\n",
				driver.FirstName, s.cfg.ResetTokenMinutes, s.cfg.Domain, token,
			),
		})
	}
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, token, newPassword string) error {
	claims, err := s.parseToken(token)
	if err != nil {
		return errors.New("reset token invalid or expired")
	}
	if purpose, _ := claims["purpose"].(string); purpose != "reset" {
		return errors.New("reset token invalid or expired")
	}
	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return errors.New("malformed token")
	}
	uid, err := uuid.Parse(userIDStr)
	if err != nil {
		return errors.New("malformed token")
	}

	driver, err := s.repo.FindByID(ctx, uid)
	if err != nil || !driver.Active {
		return errors.New("account not found or inactive")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), 12)
	if err != nil {
		return err
	}
	driver.PasswordHash = string(hash)
	return s.repo.Update(ctx, driver)
}

func (s *authService) issueTokens(driver *model.Driver) (*dto.LoginResponse, error) {
	accessToken, err := s.generateToken(driver, "access", time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.generateToken(driver, "refresh", time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		Driver:       driverToResponse(driver),
	}, nil
}

func (s *authService) generateToken(driver *model.Driver, purpose string, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": driver.ID.String(),
		"email":   driver.Email,
		"role":    driver.Role,
		"purpose": purpose,
		"exp":     time.Now().Add(duration).Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *authService) parseToken(tokenStr string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}
	return claims, nil
}

func driverToResponse(d *model.Driver) dto.DriverResponse {
	return dto.DriverResponse{
		ID:        d.ID.String(),
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Phone:     d.Phone,
		Address:   d.Address,
		Email:     d.Email,
		AvatarURL: d.AvatarURL,
		License:   d.License,
		Points:    d.Points,
		Role:      d.Role,
		Active:    d.Active,
	}
}
