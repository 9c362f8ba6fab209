package handlers

import (
	"fmt"
	"net/http"

	"busfee/internal/pkg/consts"
	"busfee/internal/service/export"

	"github.com/gin-gonic/gin"
)

type ExportHandler struct {
	service export.ExportServiceInterface
}

func NewExportHandler(service export.ExportServiceInterface) *ExportHandler {
	return &ExportHandler{service: service}
}

func (h *ExportHandler) ExportStudents(c *gin.Context) {
	data, err := h.service.ExportStudents(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to export data")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", consts.ExportFileName))
	c.Data(http.StatusOK, consts.ExportContentType, data)
}

func (h *ExportHandler) DeliverExport(c *gin.Context) {
	result, err := h.service.DeliverExport(c.Request.Context())
	if err != nil {
		if result != nil {
			c.JSON(http.StatusBadGateway, gin.H{"success": false, "message": "Export delivery incomplete", "data": result})
			return
		}
		respondError(c, err, "Failed to export data")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": result})
}
