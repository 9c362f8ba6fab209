package handlers

import (
	"net/http"
	"time"

	"busfee/internal/service/rollover"

	"github.com/gin-gonic/gin"
)

type RolloverHandler struct {
	service rollover.RolloverServiceInterface
	now     func() time.Time
}

func NewRolloverHandler(service rollover.RolloverServiceInterface) *RolloverHandler {
	return &RolloverHandler{service: service, now: time.Now}
}

// RunRollover answers 500 only when the sweep failed before rolling anyone.
func (h *RolloverHandler) RunRollover(c *gin.Context) {
	response := h.service.RunMonthlyRollover(c.Request.Context(), h.now())

	if response.ErrorMsg == "" || len(response.RolledIDs) > 0 || len(response.SkippedIDs) > 0 {
		c.JSON(http.StatusOK, response)
		return
	}
	c.JSON(http.StatusInternalServerError, response)
}
