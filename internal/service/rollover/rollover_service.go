package rollover

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"busfee/internal/pkg/config"
	"busfee/internal/pkg/consts"
	"busfee/internal/pkg/gcs"
	"busfee/internal/pkg/log_messages"
	"busfee/internal/pkg/logger"
	"busfee/internal/pkg/otel"
	"busfee/internal/pkg/store/models"
	"busfee/internal/service/interfaces"
	"busfee/internal/service/ledger"

	"go.mongodb.org/mongo-driver/mongo"
)

type RolloverServiceInterface interface {
	RunMonthlyRollover(ctx context.Context, now time.Time) *RolloverResponse
}

type RolloverService struct {
	StudentsRepo  interfaces.StudentsRepoInterface
	gcsClient     gcs.GcsInterface
	workerConfig  config.RolloverConfig
	cursorHandler *StudentCursorHandler
}

var _ RolloverServiceInterface = (*RolloverService)(nil)

type StudentCursorHandler struct{}

func (h *StudentCursorHandler) StreamDocuments(
	ctx context.Context,
	cursor *mongo.Cursor,
	docChan chan<- models.Student,
	errorChan chan<- error,
) {
	defer close(docChan)

	hasDocuments := false

	for cursor.Next(ctx) {
		hasDocuments = true
		var doc models.Student
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
		logger.CtxInfo(ctx, log_messages.RolloverNoActiveStudents)
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

// NewRolloverService wires the sweep. gcsClient may be nil, in which case no
// summary is archived.
func NewRolloverService(studentsRepo interfaces.StudentsRepoInterface, gcsClient gcs.GcsInterface,
	cfg config.RolloverConfig) *RolloverService {
	return &RolloverService{
		StudentsRepo:  studentsRepo,
		gcsClient:     gcsClient,
		workerConfig:  cfg,
		cursorHandler: &StudentCursorHandler{},
	}
}

type sweepChannels struct {
	docs    chan models.Student
	rolled  chan string
	skipped chan string
	failed  chan string
	errs    chan error
	done    chan struct{}
}

func (rs *RolloverService) setupChannelsAndWorkers(
	ctx context.Context,
	now time.Time,
	response *RolloverResponse,
) (*sweepChannels, *sync.WaitGroup, *[]error) {
	bufferSize := rs.workerConfig.BufferSize

	ch := &sweepChannels{
		docs:    make(chan models.Student, bufferSize),
		rolled:  make(chan string, bufferSize),
		skipped: make(chan string, bufferSize),
		failed:  make(chan string, bufferSize),
		errs:    make(chan error, bufferSize),
		done:    make(chan struct{}),
	}

	var wg sync.WaitGroup
	for i := 0; i < rs.workerConfig.WorkerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rs.rolloverWorker(ctx, now, ch)
		}()
	}

	var resultErrors []error
	go rs.collectResults(ctx, response, ch, &resultErrors)

	return ch, &wg, &resultErrors
}

func (rs *RolloverService) collectResults(
	ctx context.Context,
	response *RolloverResponse,
	ch *sweepChannels,
	resultErrors *[]error,
) {
	defer close(ch.done)

	rolled, skipped, failed, errs := ch.rolled, ch.skipped, ch.failed, ch.errs
	closedCount := 0
	const totalChannels = 4

	for closedCount < totalChannels {
		select {
		case id, ok := <-rolled:
			if !ok {
				rolled = nil
				closedCount++
				continue
			}
			response.RolledIDs = append(response.RolledIDs, id)

		case id, ok := <-skipped:
			if !ok {
				skipped = nil
				closedCount++
				continue
			}
			response.SkippedIDs = append(response.SkippedIDs, id)

		case id, ok := <-failed:
			if !ok {
				failed = nil
				closedCount++
				continue
			}
			response.FailedIDs = append(response.FailedIDs, id)

		case err, ok := <-errs:
			if !ok {
				errs = nil
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

// RunMonthlyRollover moves every active student into the period containing
// now. A student that cannot be written is reported as failed and the sweep
// carries on with the rest.
func (rs *RolloverService) RunMonthlyRollover(ctx context.Context, now time.Time) *RolloverResponse {
	ctx, span := otel.GetTracer().Start(ctx, "RunMonthlyRollover")
	defer span.End()

	response := &RolloverResponse{
		RolledIDs:  []string{},
		SkippedIDs: []string{},
		FailedIDs:  []string{},
	}
	if rs.workerConfig.WorkerCount <= 0 {
		logger.CtxError(ctx, log_messages.NoWorkerConfigured, errors.New(log_messages.NoWorkerConfigured))
		response.SetError(errors.New(log_messages.NoWorkerConfigured))
		return response
	}

	logger.CtxInfo(ctx, log_messages.RolloverStarted, slog.String("period", now.UTC().Format(consts.RolloverPeriod)))

	cursor, err := rs.StudentsRepo.GetActiveStudentsCursor(ctx, rs.workerConfig.MongoBatchSize)
	if err != nil {
		response.SetError(err)
		return response
	}
	if cursor == nil {
		logger.CtxInfo(ctx, log_messages.RolloverNoActiveStudents)
		return response
	}
	defer func() {
		if err := cursor.Close(ctx); err != nil {
			logger.CtxError(ctx, log_messages.ErrorClosingCursor, err)
		}
	}()

	ch, wg, resultErrors := rs.setupChannelsAndWorkers(ctx, now, response)

	rs.cursorHandler.StreamDocuments(ctx, cursor, ch.docs, ch.errs)
	wg.Wait()
	close(ch.rolled)
	close(ch.skipped)
	close(ch.failed)
	close(ch.errs)
	<-ch.done

	response.Message = fmt.Sprintf("rolled over %d students, skipped %d, failed %d",
		len(response.RolledIDs), len(response.SkippedIDs), len(response.FailedIDs))
	logger.CtxInfo(ctx, log_messages.RolloverCompleted,
		slog.Int("rolledCount", len(response.RolledIDs)),
		slog.Int("skippedCount", len(response.SkippedIDs)),
		slog.Int("failedCount", len(response.FailedIDs)),
		slog.Int("errorCount", len(*resultErrors)))

	if len(*resultErrors) > 1 {
		for i, err := range *resultErrors {
			logger.CtxError(ctx, fmt.Sprintf("Error %d", i+1), err)
		}
	}

	rs.archiveSummary(ctx, now, response)
	return response
}

func (rs *RolloverService) rolloverWorker(ctx context.Context, now time.Time, ch *sweepChannels) {
	for {
		select {
		case student, ok := <-ch.docs:
			if !ok {
				return
			}
			rs.rolloverStudent(ctx, now, student, ch)
		case <-ctx.Done():
			return
		}
	}
}

func (rs *RolloverService) rolloverStudent(ctx context.Context, now time.Time, student models.Student, ch *sweepChannels) {
	id := student.ID.Hex()

	updated, applied := ledger.Rollover(student.StudentLedger, now)
	if !applied {
		send(ctx, ch.skipped, id)
		return
	}

	if err := rs.StudentsRepo.SaveLedger(ctx, student.ID, student.Version, updated); err != nil {
		logger.CtxWarn(ctx, log_messages.RolloverStudentFailed,
			slog.String("studentId", id),
			slog.String("error", err.Error()))
		send(ctx, ch.failed, id)
		select {
		case ch.errs <- fmt.Errorf("student %s: %w", id, err):
		case <-ctx.Done():
		default:
			logger.CtxError(ctx, log_messages.ErrorChannelFullLogging, err)
		}
		return
	}
	send(ctx, ch.rolled, id)
}

func send(ctx context.Context, c chan<- string, id string) {
	select {
	case c <- id:
	case <-ctx.Done():
	}
}

func (rs *RolloverService) archiveSummary(ctx context.Context, now time.Time, response *RolloverResponse) {
	if rs.gcsClient == nil {
		return
	}
	period := now.UTC().Format(consts.RolloverPeriod)
	summary := RolloverSummary{
		Period:       period,
		RolledCount:  len(response.RolledIDs),
		SkippedCount: len(response.SkippedIDs),
		FailedCount:  len(response.FailedIDs),
		FailedIDs:    response.FailedIDs,
		Error:        response.ErrorMsg,
		CompletedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	objectName := fmt.Sprintf("%s/%s.json", consts.GCSRolloverFolder, period)
	if err := rs.gcsClient.UploadJSON(ctx, objectName, summary); err != nil {
		logger.CtxError(ctx, log_messages.ErrorArchivingRollover, err, slog.String("object", objectName))
	}
}
