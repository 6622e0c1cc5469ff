package handler

import (
	"io"
	"net/http"

	"fleetpoints/internal/apierror"
	"fleetpoints/internal/middleware"
	"fleetpoints/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// 10 MB is far above any realistic point sheet.
const maxImportSize = 10 << 20

type ImportsHandler struct{ svc service.ImportService }

func NewImportsHandler(svc service.ImportService) *ImportsHandler {
	return &ImportsHandler{svc: svc}
}

func readImportFile(c *gin.Context) ([]byte, string, bool) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Missing file field"))
		return nil, "", false
	}
	if header.Size > maxImportSize {
		c.JSON(http.StatusRequestEntityTooLarge, apierror.New("File too large"))
		return nil, "", false
	}
	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Unreadable file"))
		return nil, "", false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Unreadable file"))
		return nil, "", false
	}
	return data, header.Filename, true
}

// Preview godoc
// @Summary      Dry-run a point sheet
// @Description  Parses the CSV/XLSX and echoes the rows back; nothing is written.
// @Tags         imports
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file formData file true "CSV or XLSX point sheet"
// @Success      200  {object} dto.ImportPreviewResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/admin/imports/preview [post]
func (h *ImportsHandler) Preview(c *gin.Context) {
	data, filename, ok := readImportFile(c)
	if !ok {
		return
	}
	resp, err := h.svc.Preview(data, filename)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Process godoc
// @Summary      Apply a point sheet
// @Description  Archives the file, resolves each row to a driver and commits balance increments in bounded batches.
// @Tags         imports
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file formData file true "CSV or XLSX point sheet"
// @Success      200  {object} dto.ImportSummary
// @Failure      400  {object} apierror.APIError
// @Router       /v1/admin/imports [post]
func (h *ImportsHandler) Process(c *gin.Context) {
	data, filename, ok := readImportFile(c)
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)
	byID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Process(c.Request.Context(), data, filename, byID, claims.Email)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// History godoc
// @Summary      Upload audit log, newest first
// @Tags         imports
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.UploadLogResponse
// @Router       /v1/admin/imports [get]
func (h *ImportsHandler) History(c *gin.Context) {
	items, err := h.svc.History(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to load upload history"))
		return
	}
	c.JSON(http.StatusOK, items)
}
