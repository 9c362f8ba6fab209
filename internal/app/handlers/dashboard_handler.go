package handlers

import (
	"net/http"

	"busfee/internal/service/dashboard"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	service dashboard.DashboardServiceInterface
}

func NewDashboardHandler(service dashboard.DashboardServiceInterface) *DashboardHandler {
	return &DashboardHandler{service: service}
}

func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	resp, err := h.service.GetDashboard(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to fetch dashboard data")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DashboardHandler) GetPaymentsDashboard(c *gin.Context) {
	resp, err := h.service.GetPaymentsDashboard(c.Request.Context())
	if err != nil {
		respondError(c, err, "Server error fetching dashboard")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": resp})
}

func (h *DashboardHandler) GetReport(c *gin.Context) {
	resp, err := h.service.GetReport(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to fetch report")
		return
	}
	c.JSON(http.StatusOK, resp)
}
