package handlers

import (
	"errors"
	"net/http"

	"busfee/internal/pkg/apperrors"
	"busfee/internal/pkg/log_messages"
	"busfee/internal/pkg/logger"
	"busfee/internal/service/eventretry"
	"busfee/internal/service/ledger"
	"busfee/internal/service/reminder"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	msgStudentNotFound    = "Student not found"
	msgAmountNotNumber    = "Amount must be a valid number"
	msgAmountNotPositive  = "Amount must be positive"
	msgInvalidPaymentMode = "Payment mode must be Cash, UPI or Bank Transfer"
	msgUnauthorized       = "Unauthorized"
)

var errAmountNotNumber = errors.New(msgAmountNotNumber)

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errAmountNotNumber),
		errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrInvalidPaymentMode),
		errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrStudentNotFound),
		errors.Is(err, apperrors.ErrInvalidID):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, reminder.ErrNotificationsDisabled),
		errors.Is(err, eventretry.ErrKafkaDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func messageFor(err error, fallback string) string {
	switch {
	case errors.Is(err, errAmountNotNumber):
		return msgAmountNotNumber
	case errors.Is(err, ledger.ErrInvalidAmount):
		return msgAmountNotPositive
	case errors.Is(err, ledger.ErrInvalidPaymentMode):
		return msgInvalidPaymentMode
	case errors.Is(err, apperrors.ErrStudentNotFound), errors.Is(err, apperrors.ErrInvalidID):
		return msgStudentNotFound
	case errors.Is(err, apperrors.ErrUnauthorized):
		return msgUnauthorized
	}
	if statusFor(err) == http.StatusInternalServerError {
		return fallback
	}
	return err.Error()
}

// respondError writes {"success": false, ...}. Server errors carry only the
// fallback message; the cause goes to the log.
func respondError(c *gin.Context, err error, fallback string) {
	status := statusFor(err)
	body := gin.H{"success": false, "message": messageFor(err, fallback)}
	if status == http.StatusInternalServerError {
		logger.CtxError(c.Request.Context(), fallback, err)
	} else {
		body["error"] = err.Error()
	}
	c.JSON(status, body)
}

func parseID(c *gin.Context) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		logger.CtxWarn(c.Request.Context(), log_messages.InvalidObjectID)
		return primitive.NilObjectID, apperrors.ErrInvalidID
	}
	return id, nil
}
