package eventretry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"busfee/internal/pkg/common"
	"busfee/internal/pkg/config"
	"busfee/internal/pkg/log_messages"
	"busfee/internal/pkg/logger"
	"busfee/internal/pkg/store/models"
	"busfee/internal/service/interfaces"

	"go.mongodb.org/mongo-driver/mongo"
)

var ErrKafkaDisabled = errors.New("kafka publishing is disabled")

type EventRetryServiceInterface interface {
	RetryPaymentEvents(ctx context.Context) *EventRetryResponse
}

// EventRetryService republishes outbox entries whose post-commit publish
// failed.
type EventRetryService struct {
	EventsRepo    interfaces.PaymentEventsRepoInterface
	kafkaProducer interfaces.PaymentEventPublisher
	workerConfig  config.EventRetryConfig
	cursorHandler *EventCursorHandler
}

var _ EventRetryServiceInterface = (*EventRetryService)(nil)

type EventCursorHandler struct{}

func (h *EventCursorHandler) StreamDocuments(
	ctx context.Context,
	cursor *mongo.Cursor,
	docChan chan<- models.PaymentEvent,
	errorChan chan<- error,
) {
	defer close(docChan)

	hasDocuments := false

	for cursor.Next(ctx) {
		hasDocuments = true
		var doc models.PaymentEvent
		if err := cursor.Decode(&doc); err != nil {
			logger.CtxError(ctx, log_messages.ErrorDecodingDocument, err)
			continue
		}

		select {
		case docChan <- doc:
		case <-ctx.Done():
			return
		}
	}

	if !hasDocuments {
		logger.CtxInfo(ctx, log_messages.NoPaymentEventsInDuration)
	}

	if err := cursor.Err(); err != nil {
		select {
		case errorChan <- fmt.Errorf(log_messages.CursorError, err):
		case <-ctx.Done():
		default:
			logger.CtxError(ctx, log_messages.ErrorChannelFullLogging, err)
		}
	}
}

func NewEventRetryService(
	eventsRepo interfaces.PaymentEventsRepoInterface,
	kafkaProducer interfaces.PaymentEventPublisher,
	cfg config.EventRetryConfig,
) *EventRetryService {
	return &EventRetryService{
		EventsRepo:    eventsRepo,
		kafkaProducer: kafkaProducer,
		workerConfig:  cfg,
		cursorHandler: &EventCursorHandler{},
	}
}

func (es *EventRetryService) setupChannelsAndWorkers(
	ctx context.Context,
	response *EventRetryResponse,
) (chan models.PaymentEvent, chan []string, chan []string, chan error, chan struct{}, *sync.WaitGroup, *[]error,
	context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)

	bufferSize := es.workerConfig.BufferSize

	docChan := make(chan models.PaymentEvent, bufferSize)
	successChan := make(chan []string, bufferSize)
	failureChan := make(chan []string, bufferSize)
	errorChan := make(chan error, bufferSize)

	var wg sync.WaitGroup
	for i := 0; i < es.workerConfig.WorkerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			es.processDocumentsWorker(ctx, docChan, successChan, failureChan, errorChan)
		}()
	}

	resultsDone := make(chan struct{})
	var resultErrors []error

	go es.collectResults(ctx, response, successChan, failureChan, errorChan, resultsDone, &resultErrors)

	return docChan, successChan, failureChan, errorChan, resultsDone, &wg, &resultErrors, cancel
}

func (es *EventRetryService) collectResults(
	ctx context.Context,
	response *EventRetryResponse,
	successChan chan []string,
	failureChan chan []string,
	errorChan chan error,
	resultsDone chan struct{},
	resultErrors *[]error,
) {
	defer close(resultsDone)

	closedCount := 0
	const totalChannels = 3

	for closedCount < totalChannels {
		select {
		case successIDs, ok := <-successChan:
			if !ok {
				successChan = nil
				closedCount++
				continue
			}
			response.SuccessIDs = append(response.SuccessIDs, successIDs...)

		case failedIDs, ok := <-failureChan:
			if !ok {
				failureChan = nil
				closedCount++
				continue
			}
			response.FailedIDs = append(response.FailedIDs, failedIDs...)

		case err, ok := <-errorChan:
			if !ok {
				errorChan = nil
				closedCount++
				continue
			}
			*resultErrors = append(*resultErrors, err)
			if response.ErrorMsg == "" {
				response.SetError(err)
			}
		}
	}
}

func (es *EventRetryService) RetryPaymentEvents(ctx context.Context) *EventRetryResponse {
	response := &EventRetryResponse{
		SuccessIDs: []string{},
		FailedIDs:  []string{},
	}
	if es.kafkaProducer == nil {
		response.SetError(ErrKafkaDisabled)
		return response
	}
	if es.workerConfig.WorkerCount <= 0 {
		logger.CtxError(ctx, log_messages.NoWorkerConfigured, errors.New(log_messages.NoWorkerConfigured))
		response.SetError(errors.New(log_messages.NoWorkerConfigured))
		return response
	}

	cursor, err := es.EventsRepo.GetUnpublishedEventsCursor(ctx, es.workerConfig.RetryStartDate,
		es.workerConfig.MongoBatchSize)
	if err != nil {
		logger.CtxError(ctx, log_messages.FailedToGetUnpublishedEvents, err)
		response.SetError(err)
		return response
	}
	if cursor == nil {
		return response
	}
	defer func() {
		if err := cursor.Close(ctx); err != nil {
			logger.CtxError(ctx, log_messages.ErrorClosingCursor, err)
		}
	}()

	docChan, successChan, failureChan, errorChan, resultsDone, wg, resultErrors, cancel :=
		es.setupChannelsAndWorkers(ctx, response)
	defer cancel()

	es.cursorHandler.StreamDocuments(ctx, cursor, docChan, errorChan)
	wg.Wait()
	close(successChan)
	close(failureChan)
	close(errorChan)
	<-resultsDone

	response.Message = fmt.Sprintf("published %d payment events, %d failed",
		len(response.SuccessIDs), len(response.FailedIDs))
	logger.CtxInfo(ctx, log_messages.PaymentEventRetryCompleted,
		slog.Int("successCount", len(response.SuccessIDs)),
		slog.Int("failureCount", len(response.FailedIDs)),
		slog.Int("errorCount", len(*resultErrors)))

	if len(*resultErrors) > 0 {
		logger.CtxWarn(ctx, log_messages.MultipleErrorsOccurredDuringRetry,
			slog.Int("errorCount", len(*resultErrors)))
		for i, err := range *resultErrors {
			logger.CtxError(ctx, fmt.Sprintf("Error %d", i+1), err)
		}
	}

	return response
}

func (es *EventRetryService) processAndPublishBatch(
	ctx context.Context,
	batch []models.PaymentEvent,
	successChan chan<- []string,
	failureChan chan<- []string,
	errorChan chan<- error,
) {
	if len(batch) == 0 {
		return
	}

	successIDs := make([]string, 0, len(batch))
	failedIDs := make([]string, 0, len(batch))

	for i := range batch {
		event := &batch[i]
		payload, err := common.SerializePaymentEvent(event)
		if err != nil {
			logger.CtxError(ctx, log_messages.FailedToWriteRecordToCSV, err, slog.String("eventId", event.EventID))
			failedIDs = append(failedIDs, event.ID.Hex())
			continue
		}

		if err := es.kafkaProducer.Publish(ctx, event.StudentID.Hex(), payload); err != nil {
			failedIDs = append(failedIDs, event.ID.Hex())
			select {
			case errorChan <- err:
			case <-ctx.Done():
				return
			default:
				logger.CtxError(ctx, log_messages.ErrorChannelFullLogging, err)
			}
			continue
		}
		successIDs = append(successIDs, event.ID.Hex())
	}

	es.handleSuccessIDs(ctx, successIDs, failedIDs, successChan, failureChan, errorChan)
}

func (es *EventRetryService) handleSuccessIDs(
	ctx context.Context,
	successIDs []string,
	failedIDs []string,
	successChan chan<- []string,
	failureChan chan<- []string,
	errorChan chan<- error,
) {
	if len(successIDs) > 0 {
		logger.CtxInfo(ctx, log_messages.EventsPublishedToKafkaSuccessfully, slog.Any("successIDs", successIDs))

		select {
		case successChan <- successIDs:
		case <-ctx.Done():
			return
		}

		failedUpdateIDs, err := es.EventsRepo.UpdatePublishedToKafkaInBulk(ctx, successIDs)
		if err != nil {
			logger.CtxError(ctx, log_messages.ErrorUpdatingKafkaFlag, err, slog.Any("successIDs", successIDs))
			select {
			case errorChan <- fmt.Errorf("%s: %w", log_messages.ErrorUpdatingKafkaFlag, err):
			case <-ctx.Done():
				return
			}
		} else if len(failedUpdateIDs) > 0 {
			logger.CtxWarn(ctx, log_messages.SomeEventsFailedToUpdateKafkaFlag,
				slog.Any("failedUpdateIDs", failedUpdateIDs),
				slog.Int("totalFailed", len(failedUpdateIDs)))
		}
	}

	if len(failedIDs) > 0 {
		logger.CtxWarn(ctx, log_messages.EventsFailedToPublishToKafka, slog.Any("failedIDs", failedIDs))
		select {
		case failureChan <- failedIDs:
		case <-ctx.Done():
			return
		}
	}
}

func (es *EventRetryService) processDocumentsWorker(
	ctx context.Context,
	docChan <-chan models.PaymentEvent,
	successChan chan<- []string,
	failureChan chan<- []string,
	errorChan chan<- error,
) {
	maxBatchSize := es.workerConfig.MaxBatchSize
	if maxBatchSize <= 0 {
		maxBatchSize = 1
	}
	flushInterval := es.workerConfig.FlushInterval
	if flushInterval <= 0 {
		flushInterval = time.Second
	}
	batch := make([]models.PaymentEvent, 0, maxBatchSize)

	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	for {
		select {
		case doc, ok := <-docChan:
			if !ok {
				es.processAndPublishBatch(ctx, batch, successChan, failureChan, errorChan)
				return
			}

			batch = append(batch, doc)
			if len(batch) >= maxBatchSize {
				es.processAndPublishBatch(ctx, batch, successChan, failureChan, errorChan)
				batch = batch[:0]
			}

		case <-ticker.C:
			if len(batch) > 0 {
				es.processAndPublishBatch(ctx, batch, successChan, failureChan, errorChan)
				batch = batch[:0]
			}

		case <-ctx.Done():
			if len(batch) > 0 {
				es.processAndPublishBatch(ctx, batch, successChan, failureChan, errorChan)
			}
			return
		}
	}
}
