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

type PointsHandler struct{ svc service.PointsService }

func NewPointsHandler(svc service.PointsService) *PointsHandler {
	return &PointsHandler{svc: svc}
}

// Grant godoc
// @Summary      Manually adjust a driver balance
// @Description  Points may be negative. Every grant records the acting admin.
// @Tags         points
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.GrantPointsRequest true "Adjustment"
// @Success      200  {object} dto.DriverResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/admin/points/grant [post]
func (h *PointsHandler) Grant(c *gin.Context) {
	var req dto.GrantPointsRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	grantedBy, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Grant(c.Request.Context(), req, grantedBy)
	if err != nil {
		if errors.Is(err, service.ErrDriverNotFound) {
			c.JSON(http.StatusNotFound, apierror.New("Driver not found"))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DriverHistory godoc
// @Summary      Grant history of one driver, newest first
// @Tags         points
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Driver UUID"
// @Success      200 {array} model.PointGrant
// @Failure      400 {object} apierror.APIError
// @Router       /v1/admin/points/{id}/history [get]
func (h *PointsHandler) DriverHistory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	items, err := h.svc.History(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to load grant history"))
		return
	}
	c.JSON(http.StatusOK, items)
}
