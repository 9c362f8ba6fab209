package handlers

import (
	"net/http"

	"busfee/internal/pkg/apperrors"
	"busfee/internal/service/settings"

	"github.com/gin-gonic/gin"
)

type SettingsHandler struct {
	service settings.SettingsServiceInterface
}

func NewSettingsHandler(service settings.SettingsServiceInterface) *SettingsHandler {
	return &SettingsHandler{service: service}
}

func (h *SettingsHandler) GetSettings(c *gin.Context) {
	s, err := h.service.GetSettings(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to fetch settings")
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var body settings.SettingsUpdate
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, apperrors.Validation(err), "Failed to update settings")
		return
	}
	s, err := h.service.UpdateSettings(c.Request.Context(), body)
	if err != nil {
		respondError(c, err, "Failed to update settings")
		return
	}
	c.JSON(http.StatusOK, s)
}
