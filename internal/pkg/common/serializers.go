package common

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"time"

	"busfee/internal/pkg/store/models"
	"busfee/internal/service/ledger"

	"github.com/google/uuid"
)

// NewPaymentEvent builds the outbox entry for a payment already applied to
// student's ledger.
func NewPaymentEvent(student *models.Student, record ledger.PaymentRecord, now time.Time) *models.PaymentEvent {
	return &models.PaymentEvent{
		EventID:             uuid.NewString(),
		StudentID:           student.ID,
		StudentName:         student.Name,
		Amount:              record.Amount,
		CreditPortion:       record.CreditPortion,
		Mode:                record.Mode,
		Period:              record.Period,
		DueAfter:            student.DueAmount,
		ExtraAfter:          student.ExtraPaid,
		TotalCollectedAfter: student.TotalCollected,
		PaidAt:              record.Date,
		PublishedToKafka:    false,
		CreatedAt:           now,
	}
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// PaymentEventRecord lays out one event as a CSV row.
func PaymentEventRecord(event *models.PaymentEvent) []string {
	return []string{
		event.EventID,
		event.StudentID.Hex(),
		event.StudentName,
		formatAmount(event.Amount),
		formatAmount(event.CreditPortion),
		string(event.Mode),
		event.Period,
		formatAmount(event.DueAfter),
		formatAmount(event.ExtraAfter),
		formatAmount(event.TotalCollectedAfter),
		event.PaidAt.UTC().Format(time.RFC3339),
	}
}

// SerializePaymentEvent renders event as a single CSV line without the
// trailing newline.
func SerializePaymentEvent(event *models.PaymentEvent) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(PaymentEventRecord(event)); err != nil {
		return nil, err
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
