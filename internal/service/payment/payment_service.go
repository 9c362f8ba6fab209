package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"busfee/internal/pkg/apperrors"
	"busfee/internal/pkg/common"
	"busfee/internal/pkg/consts"
	mongodb "busfee/internal/pkg/db/mongo"
	"busfee/internal/pkg/log_messages"
	"busfee/internal/pkg/logger"
	"busfee/internal/pkg/otel"
	"busfee/internal/pkg/pubsub"
	"busfee/internal/pkg/store/models"
	"busfee/internal/service/interfaces"
	"busfee/internal/service/ledger"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// TxRunner runs cb inside a storage transaction and commits when cb returns
// without error.
type TxRunner func(ctx context.Context, cb func(txCtx context.Context) (interface{}, error)) (interface{}, error)

// MongoTxRunner runs callbacks in a MongoDB session transaction.
func MongoTxRunner(mc *mongodb.MongoClient) TxRunner {
	return func(ctx context.Context, cb func(txCtx context.Context) (interface{}, error)) (interface{}, error) {
		session, err := mc.Client.StartSession()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", log_messages.FailedToStartSession, err)
		}
		defer session.EndSession(context.Background())

		return session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
			return cb(sc)
		})
	}
}

type PaymentRequest struct {
	Amount float64
	Mode   string
	Period string
}

type PaymentResult struct {
	Student *models.Student      `json:"student"`
	Payment ledger.PaymentRecord `json:"payment"`
	Stats   *models.Stats        `json:"stats"`
}

type ResetResult struct {
	StudentsReset int64 `json:"studentsReset"`
	StatsReset    int   `json:"statsReset"`
}

type PaymentServiceInterface interface {
	RecordPayment(ctx context.Context, studentID primitive.ObjectID, req PaymentRequest) (*PaymentResult, error)
	ResetTotals(ctx context.Context) (*ResetResult, error)
}

type PaymentService struct {
	StudentsRepo      interfaces.StudentsRepoInterface
	StatsRepo         interfaces.StatsRepoInterface
	EventsRepo        interfaces.PaymentEventsRepoInterface
	kafkaProducer     interfaces.PaymentEventPublisher
	notifier          interfaces.NotificationPublisher
	notificationTopic string
	maxRetries        int
	runTransaction    TxRunner
	now               func() time.Time
}

var _ PaymentServiceInterface = (*PaymentService)(nil)

type Options struct {
	KafkaProducer     interfaces.PaymentEventPublisher
	Notifier          interfaces.NotificationPublisher
	NotificationTopic string
	MaxRetries        int
}

func NewPaymentService(
	studentsRepo interfaces.StudentsRepoInterface,
	statsRepo interfaces.StatsRepoInterface,
	eventsRepo interfaces.PaymentEventsRepoInterface,
	runTransaction TxRunner,
	opts Options,
) *PaymentService {
	maxRetries := opts.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &PaymentService{
		StudentsRepo:      studentsRepo,
		StatsRepo:         statsRepo,
		EventsRepo:        eventsRepo,
		kafkaProducer:     opts.KafkaProducer,
		notifier:          opts.Notifier,
		notificationTopic: opts.NotificationTopic,
		maxRetries:        maxRetries,
		runTransaction:    runTransaction,
		now:               time.Now,
	}
}

type committedPayment struct {
	student *models.Student
	record  ledger.PaymentRecord
	stats   *models.Stats
	event   *models.PaymentEvent
}

// RecordPayment applies one payment to a student's ledger. The ledger write,
// the global counter increment and the outbox entry commit together; Kafka and
// the receipt notification follow the commit and never fail the payment.
func (s *PaymentService) RecordPayment(ctx context.Context, studentID primitive.ObjectID,
	req PaymentRequest) (*PaymentResult, error) {
	ctx, span := otel.GetTracer().Start(ctx, "RecordPayment")
	defer span.End()

	if err := ledger.ValidateAmount(req.Amount); err != nil {
		logger.CtxWarn(ctx, log_messages.PaymentRejected, slog.String("reason", err.Error()))
		return nil, err
	}
	mode, err := ledger.ParsePaymentMode(req.Mode)
	if err != nil {
		logger.CtxWarn(ctx, log_messages.PaymentRejected, slog.String("reason", err.Error()))
		return nil, err
	}

	var committed *committedPayment
	// one first attempt plus up to maxRetries retries on version conflicts
	for attempt := 1; attempt <= s.maxRetries+1; attempt++ {
		committed, err = s.applyInTransaction(ctx, studentID, req.Amount, mode, req.Period)
		if err == nil {
			break
		}
		if !errors.Is(err, apperrors.ErrVersionConflict) {
			return nil, err
		}
		logger.CtxWarn(ctx, log_messages.PaymentRetryOnConflict,
			slog.String("studentId", studentID.Hex()),
			slog.Int("attempt", attempt))
	}
	if err != nil {
		logger.CtxError(ctx, log_messages.PaymentRetriesExhausted, err, slog.String("studentId", studentID.Hex()))
		return nil, &apperrors.PersistenceError{Op: log_messages.PaymentRetriesExhausted, Err: err}
	}

	logger.CtxInfo(ctx, log_messages.PaymentRecorded,
		slog.String("studentId", studentID.Hex()),
		slog.Float64("amount", req.Amount),
		slog.Float64("dueAfter", committed.student.DueAmount),
		slog.Float64("extraAfter", committed.student.ExtraPaid))

	s.publishPaymentEvent(ctx, committed.event)
	s.publishReceipt(ctx, committed.student, committed.record)

	return &PaymentResult{
		Student: committed.student,
		Payment: committed.record,
		Stats:   committed.stats,
	}, nil
}

func (s *PaymentService) applyInTransaction(ctx context.Context, studentID primitive.ObjectID,
	amount float64, mode ledger.PaymentMode, period string) (*committedPayment, error) {

	result, err := s.runTransaction(ctx, func(txCtx context.Context) (interface{}, error) {
		student, err := s.StudentsRepo.GetStudentByID(txCtx, studentID)
		if err != nil {
			return nil, err
		}

		now := s.now()
		updated, record, err := ledger.ApplyPayment(student.StudentLedger, amount, mode, period, now)
		if err != nil {
			return nil, err
		}
		if err := s.StudentsRepo.SaveLedger(txCtx, student.ID, student.Version, updated); err != nil {
			return nil, err
		}
		student.StudentLedger = updated
		student.Version++
		student.UpdatedAt = now

		stats, err := s.StatsRepo.IncrementTotalCollected(txCtx, amount)
		if err != nil {
			return nil, err
		}

		event := common.NewPaymentEvent(student, record, now)
		eventID, err := s.EventsRepo.CreateEvent(txCtx, event)
		if err != nil {
			return nil, err
		}
		event.ID = eventID

		return &committedPayment{student: student, record: record, stats: stats, event: event}, nil
	})
	if err != nil {
		return nil, err
	}
	committed, ok := result.(*committedPayment)
	if !ok {
		return nil, fmt.Errorf("unexpected transaction result %T", result)
	}
	return committed, nil
}

func (s *PaymentService) publishPaymentEvent(ctx context.Context, event *models.PaymentEvent) {
	if s.kafkaProducer == nil || event == nil {
		return
	}
	payload, err := common.SerializePaymentEvent(event)
	if err != nil {
		logger.CtxError(ctx, log_messages.FailedToWriteRecordToCSV, err, slog.String("eventId", event.EventID))
		return
	}
	if err := s.kafkaProducer.Publish(ctx, event.StudentID.Hex(), payload); err != nil {
		logger.CtxError(ctx, log_messages.ErrorPublishingPaymentEvent, err, slog.String("eventId", event.EventID))
		return
	}
	if err := s.EventsRepo.MarkPublished(ctx, event.ID); err != nil {
		logger.CtxError(ctx, log_messages.ErrorMarkingEventPublished, err, slog.String("eventId", event.EventID))
	}
}

func (s *PaymentService) publishReceipt(ctx context.Context, student *models.Student, record ledger.PaymentRecord) {
	if s.notifier == nil || s.notificationTopic == "" {
		return
	}
	msg := pubsub.NotificationMessage{
		NotificationType: consts.NotificationReceipt,
		StudentID:        student.ID.Hex(),
		StudentName:      student.Name,
		Recipient:        student.ContactInfo,
		Amount:           record.Amount,
		Message: fmt.Sprintf("Received %s %.2f for %s. Due now %.2f.",
			record.Mode, record.Amount, student.Name, student.DueAmount),
		PublishedAt: s.now(),
	}
	if err := s.notifier.PublishJSON(ctx, s.notificationTopic, msg, msg.Attributes()); err != nil {
		logger.CtxError(ctx, log_messages.ErrorPublishingReceipt, err, slog.String("studentId", student.ID.Hex()))
	}
}

// ResetTotals zeroes every student's collected total and credit and the
// global counter.
func (s *PaymentService) ResetTotals(ctx context.Context) (*ResetResult, error) {
	n, err := s.StudentsRepo.ResetTotals(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.StatsRepo.ResetTotalCollected(ctx); err != nil {
		return nil, err
	}
	logger.CtxInfo(ctx, log_messages.TotalsReset, slog.Int64("studentsReset", n))
	return &ResetResult{StudentsReset: n, StatsReset: 1}, nil
}
