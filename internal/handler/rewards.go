package handler

import (
	"net/http"

	"fleetpoints/internal/apierror"
	"fleetpoints/internal/dto"
	"fleetpoints/internal/middleware"
	"fleetpoints/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RewardsHandler struct{ svc service.RewardService }

func NewRewardsHandler(svc service.RewardService) *RewardsHandler {
	return &RewardsHandler{svc: svc}
}

// Catalog godoc
// @Summary      Browse the reward catalog
// @Description  Active rewards only, with the caller's redemption counts.
// @Tags         rewards
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.RewardResponse
// @Router       /v1/rewards [get]
func (h *RewardsHandler) Catalog(c *gin.Context) {
	claims := middleware.GetClaims(c)
	driverID, _ := uuid.Parse(claims.UserID)

	items, err := h.svc.Catalog(c.Request.Context(), driverID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to load catalog"))
		return
	}
	c.JSON(http.StatusOK, items)
}

// List godoc
// @Summary      List all rewards, inactive included
// @Tags         rewards
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.RewardResponse
// @Router       /v1/admin/rewards [get]
func (h *RewardsHandler) List(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list rewards"))
		return
	}
	c.JSON(http.StatusOK, items)
}

// Get godoc
// @Summary      Fetch one reward
// @Tags         rewards
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Reward UUID"
// @Success      200 {object} dto.RewardResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/admin/rewards/{id} [get]
func (h *RewardsHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Reward not found"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Create godoc
// @Summary      Create a reward
// @Tags         rewards
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateRewardRequest true "Reward details"
// @Success      201  {object} dto.RewardResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/admin/rewards [post]
func (h *RewardsHandler) Create(c *gin.Context) {
	var req dto.CreateRewardRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Update godoc
// @Summary      Edit a reward
// @Tags         rewards
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                  true "Reward UUID"
// @Param        body body dto.UpdateRewardRequest true "Fields to change"
// @Success      200  {object} dto.RewardResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/admin/rewards/{id} [patch]
func (h *RewardsHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	var req dto.UpdateRewardRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Reward not found"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete godoc
// @Summary      Retire a reward
// @Description  Soft delete; existing redemption history is preserved.
// @Tags         rewards
// @Security     BearerAuth
// @Param        id path string true "Reward UUID"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /v1/admin/rewards/{id} [delete]
func (h *RewardsHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Reward not found"))
		return
	}
	c.Status(http.StatusNoContent)
}
