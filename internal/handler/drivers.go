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

type DriversHandler struct{ svc service.DriverService }

func NewDriversHandler(svc service.DriverService) *DriversHandler {
	return &DriversHandler{svc: svc}
}

// List godoc
// @Summary      List drivers
// @Tags         drivers
// @Produce      json
// @Security     BearerAuth
// @Param        q      query string false "Match name, email, phone or license"
// @Param        active query string false "false | all (default: active only)"
// @Param        page   query int    false "Page (default 1)"
// @Param        limit  query int    false "Rows per page (default 50)"
// @Success      200    {object} dto.DriverListResponse
// @Failure      400    {object} apierror.APIError
// @Router       /v1/drivers [get]
func (h *DriversHandler) List(c *gin.Context) {
	var filter dto.DriverFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list drivers"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary      Fetch one driver
// @Tags         drivers
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Driver UUID"
// @Success      200 {object} dto.DriverResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/drivers/{id} [get]
func (h *DriversHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Driver not found"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary      Edit a driver
// @Description  points_delta, when non-zero, adjusts the balance atomically and leaves a grant record.
// @Tags         drivers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                  true "Driver UUID"
// @Param        body body dto.UpdateDriverRequest true "Fields to change"
// @Success      200  {object} dto.DriverResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/drivers/{id} [patch]
func (h *DriversHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	var req dto.UpdateDriverRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	actorID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Update(c.Request.Context(), id, req, actorID)
	if err != nil {
		if err == service.ErrDriverNotFound {
			c.JSON(http.StatusNotFound, apierror.New("Driver not found"))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Deactivate godoc
// @Summary      Deactivate a driver
// @Tags         drivers
// @Security     BearerAuth
// @Param        id path string true "Driver UUID"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /v1/drivers/{id} [delete]
func (h *DriversHandler) Deactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	if err := h.svc.Deactivate(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Driver not found"))
		return
	}
	c.Status(http.StatusNoContent)
}

// Reactivate godoc
// @Summary      Reactivate a driver
// @Tags         drivers
// @Security     BearerAuth
// @Param        id path string true "Driver UUID"
// @Success      204
// @Failure      400 {object} apierror.APIError
// @Router       /v1/drivers/{id}/reactivate [post]
func (h *DriversHandler) Reactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	if err := h.svc.Reactivate(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}
