package handlers

import (
	"net/http"

	"busfee/internal/pkg/log_messages"
	"busfee/internal/service/eventretry"

	"github.com/gin-gonic/gin"
)

type EventRetryHandler struct {
	service eventretry.EventRetryServiceInterface
}

func NewEventRetryHandler(service eventretry.EventRetryServiceInterface) *EventRetryHandler {
	return &EventRetryHandler{service: service}
}

func (h *EventRetryHandler) RetryPaymentEvents(c *gin.Context) {
	response := h.service.RetryPaymentEvents(c.Request.Context())

	if response.ErrorMsg == "" {
		if len(response.SuccessIDs) == 0 && len(response.FailedIDs) == 0 {
			response.Message = log_messages.NoPaymentEventsInDuration
		}
		c.JSON(http.StatusOK, response)
		return
	}

	if len(response.SuccessIDs) > 0 {
		c.JSON(http.StatusOK, response)
		return
	}

	if response.ErrorMsg == eventretry.ErrKafkaDisabled.Error() {
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}
	c.JSON(http.StatusInternalServerError, response)
}
