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

// AccountHandler serves the authenticated driver's own resources.
type AccountHandler struct {
	drivers service.DriverService
}

func NewAccountHandler(drivers service.DriverService) *AccountHandler {
	return &AccountHandler{drivers: drivers}
}

// Me godoc
// @Summary      Current account
// @Tags         account
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.DriverResponse
// @Router       /v1/me [get]
func (h *AccountHandler) Me(c *gin.Context) {
	claims := middleware.GetClaims(c)
	id, _ := uuid.Parse(claims.UserID)

	resp, err := h.drivers.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Account not found"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateProfile godoc
// @Summary      Update own profile
// @Description  Points, role and license cannot be changed here.
// @Tags         account
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.UpdateProfileRequest true "Profile fields"
// @Success      200 {object} dto.DriverResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/me [patch]
func (h *AccountHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	id, _ := uuid.Parse(claims.UserID)

	resp, err := h.drivers.UpdateProfile(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UploadAvatar godoc
// @Summary      Upload a profile picture
// @Tags         account
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file formData file true "Image file"
// @Success      200 {object} dto.DriverResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/me/avatar [post]
func (h *AccountHandler) UploadAvatar(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Missing file field"))
		return
	}
	claims := middleware.GetClaims(c)
	id, _ := uuid.Parse(claims.UserID)

	resp, err := h.drivers.UploadAvatar(c.Request.Context(), id, header)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
