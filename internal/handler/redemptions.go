package handler

import (
	"errors"
	"net/http"

	"fleetpoints/internal/apierror"
	"fleetpoints/internal/dto"
	"fleetpoints/internal/middleware"
	"fleetpoints/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RedemptionsHandler struct{ svc service.RedemptionService }

func NewRedemptionsHandler(svc service.RedemptionService) *RedemptionsHandler {
	return &RedemptionsHandler{svc: svc}
}

// Redeem godoc
// @Summary      Redeem a reward
// @Description  Atomically checks balance, per-driver limit and stock, then debits the balance and records the redemption.
// @Tags         redemptions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.RedeemRequest true "Reward to claim"
// @Success      201  {object} dto.RedemptionResponse
// @Failure      404  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError "Insufficient points, limit reached or out of stock"
// @Router       /v1/redemptions [post]
func (h *RedemptionsHandler) Redeem(c *gin.Context) {
	var req dto.RedeemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	rewardID, err := uuid.Parse(req.RewardID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid reward ID"))
		return
	}
	claims := middleware.GetClaims(c)
	driverID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Redeem(c.Request.Context(), driverID, rewardID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDriverNotFound), errors.Is(err, service.ErrRewardNotFound):
			c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		case errors.Is(err, service.ErrInsufficientPoints),
			errors.Is(err, service.ErrLimitReached),
			errors.Is(err, service.ErrOutOfStock):
			c.JSON(http.StatusConflict, apierror.New(err.Error()))
		default:
			c.JSON(http.StatusInternalServerError, apierror.New("Redemption failed"))
		}
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// History godoc
// @Summary      Own redemption history, newest first
// @Tags         redemptions
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.RedemptionResponse
// @Router       /v1/redemptions [get]
func (h *RedemptionsHandler) History(c *gin.Context) {
	claims := middleware.GetClaims(c)
	driverID, _ := uuid.Parse(claims.UserID)

	items, err := h.svc.History(c.Request.Context(), driverID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to load history"))
		return
	}
	c.JSON(http.StatusOK, items)
}
