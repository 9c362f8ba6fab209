package handlers

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"

	"busfee/internal/service/payment"

	"github.com/gin-gonic/gin"
)

type paymentBody struct {
	Amount json.RawMessage `json:"amount"`
	Mode   string          `json:"mode"`
	Period string          `json:"period"`
}

// parseAmount accepts a JSON number or a numeric string.
func parseAmount(raw json.RawMessage) (float64, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, errAmountNotNumber
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, errAmountNotNumber
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(n) {
		return 0, errAmountNotNumber
	}
	return n, nil
}

type PaymentHandler struct {
	service payment.PaymentServiceInterface
}

func NewPaymentHandler(service payment.PaymentServiceInterface) *PaymentHandler {
	return &PaymentHandler{service: service}
}

func (h *PaymentHandler) RecordPayment(c *gin.Context) {
	var body paymentBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, errAmountNotNumber, "")
		return
	}
	amount, err := parseAmount(body.Amount)
	if err != nil {
		respondError(c, err, "")
		return
	}
	id, err := parseID(c)
	if err != nil {
		respondError(c, err, "")
		return
	}

	result, err := h.service.RecordPayment(c.Request.Context(), id, payment.PaymentRequest{
		Amount: amount,
		Mode:   body.Mode,
		Period: body.Period,
	})
	if err != nil {
		respondError(c, err, "Server error processing payment")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Payment recorded successfully",
		"data": gin.H{
			"student": result.Student,
			"payment": result.Payment,
			"stats":   result.Stats,
		},
	})
}

func (h *PaymentHandler) ResetTotals(c *gin.Context) {
	result, err := h.service.ResetTotals(c.Request.Context())
	if err != nil {
		respondError(c, err, "Server error resetting totals")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "All totals reset to 0",
		"data":    result,
	})
}
