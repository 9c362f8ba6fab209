package handlers

import (
	"net/http"

	"busfee/internal/service/reminder"

	"github.com/gin-gonic/gin"
)

type ReminderHandler struct {
	service reminder.ReminderServiceInterface
}

func NewReminderHandler(service reminder.ReminderServiceInterface) *ReminderHandler {
	return &ReminderHandler{service: service}
}

func (h *ReminderHandler) SendReminders(c *gin.Context) {
	resp, err := h.service.SendReminders(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to send reminders")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": resp})
}
