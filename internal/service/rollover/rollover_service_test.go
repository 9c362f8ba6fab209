package rollover

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"busfee/internal/pkg/apperrors"
	"busfee/internal/pkg/config"
	"busfee/internal/pkg/consts"
	"busfee/internal/pkg/log_messages"
	"busfee/internal/pkg/store/models"
	"busfee/internal/service/ledger"
	"busfee/internal/service/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var sweepNow = time.Date(2024, time.August, 1, 0, 0, 0, 0, time.UTC)

func testConfig() config.RolloverConfig {
	return config.RolloverConfig{
		Enabled:        true,
		Schedule:       "0 0 1 * *",
		WorkerCount:    3,
		BufferSize:     4,
		MongoBatchSize: 10,
		Timeout:        time.Minute,
	}
}

func studentDoc(fee, extra float64, lastRollover *time.Time) models.Student {
	return models.Student{
		ID: primitive.NewObjectID(),
		StudentProfile: models.StudentProfile{
			Name:   "student",
			Status: consts.StudentStatusActive,
		},
		StudentLedger: ledger.StudentLedger{
			MonthlyFee:     fee,
			ExtraPaid:      extra,
			PaymentStatus:  ledger.StatusCompleted,
			LastRolloverAt: lastRollover,
		},
		Version: 2,
	}
}

func cursorOf(t *testing.T, students ...models.Student) *mongo.Cursor {
	t.Helper()
	docs := make([]interface{}, 0, len(students))
	for _, s := range students {
		docs = append(docs, s)
	}
	cursor, err := mongo.NewCursorFromDocuments(docs, nil, nil)
	require.NoError(t, err)
	return cursor
}

func TestRunMonthlyRollover_MixedOutcomes(t *testing.T) {
	july := time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)
	thisMonth := time.Date(2024, time.August, 1, 0, 0, 0, 0, time.UTC)

	owes := studentDoc(1000, 300, &july)
	covered := studentDoc(1000, 2500, nil)
	alreadyRolled := studentDoc(1000, 0, &thisMonth)
	conflicting := studentDoc(500, 0, &july)

	repo := new(mocks.MockStudentsRepo)
	repo.On("GetActiveStudentsCursor", mock.Anything, int32(10)).
		Return(cursorOf(t, owes, covered, alreadyRolled, conflicting), nil)
	repo.On("SaveLedger", mock.Anything, owes.ID, int64(2), mock.MatchedBy(func(l ledger.StudentLedger) bool {
		return l.DueAmount == 700 && l.ExtraPaid == 0 && l.PaymentStatus == ledger.StatusPending
	})).Return(nil)
	repo.On("SaveLedger", mock.Anything, covered.ID, int64(2), mock.MatchedBy(func(l ledger.StudentLedger) bool {
		return l.DueAmount == 0 && l.ExtraPaid == 1500 && l.LastRolloverAt != nil
	})).Return(nil)
	repo.On("SaveLedger", mock.Anything, conflicting.ID, int64(2), mock.Anything).Return(apperrors.ErrVersionConflict)

	gcsClient := &mocks.MockGCS{}
	svc := NewRolloverService(repo, gcsClient, testConfig())

	resp := svc.RunMonthlyRollover(context.Background(), sweepNow)

	assert.ElementsMatch(t, []string{owes.ID.Hex(), covered.ID.Hex()}, resp.RolledIDs)
	assert.Equal(t, []string{alreadyRolled.ID.Hex()}, resp.SkippedIDs)
	assert.Equal(t, []string{conflicting.ID.Hex()}, resp.FailedIDs)
	assert.Contains(t, resp.ErrorMsg, conflicting.ID.Hex())
	assert.Equal(t, "rolled over 2 students, skipped 1, failed 1", resp.Message)
	repo.AssertExpectations(t)

	raw, ok := gcsClient.Objects["rollover/2024-08.json"]
	require.True(t, ok)
	var summary RolloverSummary
	require.NoError(t, json.Unmarshal(raw, &summary))
	assert.Equal(t, "2024-08", summary.Period)
	assert.Equal(t, 2, summary.RolledCount)
	assert.Equal(t, 1, summary.SkippedCount)
	assert.Equal(t, []string{conflicting.ID.Hex()}, summary.FailedIDs)
}

func TestRunMonthlyRollover_NoWorkers(t *testing.T) {
	repo := new(mocks.MockStudentsRepo)
	cfg := testConfig()
	cfg.WorkerCount = 0

	resp := NewRolloverService(repo, nil, cfg).RunMonthlyRollover(context.Background(), sweepNow)

	assert.Equal(t, log_messages.NoWorkerConfigured, resp.ErrorMsg)
	repo.AssertNotCalled(t, "GetActiveStudentsCursor", mock.Anything, mock.Anything)
}

func TestRunMonthlyRollover_CursorError(t *testing.T) {
	repo := new(mocks.MockStudentsRepo)
	repo.On("GetActiveStudentsCursor", mock.Anything, int32(10)).Return(nil, errors.New("find failed"))

	resp := NewRolloverService(repo, nil, testConfig()).RunMonthlyRollover(context.Background(), sweepNow)

	assert.Equal(t, "find failed", resp.ErrorMsg)
	assert.Empty(t, resp.RolledIDs)
}

func TestRunMonthlyRollover_NoStudents(t *testing.T) {
	repo := new(mocks.MockStudentsRepo)
	repo.On("GetActiveStudentsCursor", mock.Anything, int32(10)).Return(cursorOf(t), nil)

	resp := NewRolloverService(repo, nil, testConfig()).RunMonthlyRollover(context.Background(), sweepNow)

	assert.Empty(t, resp.ErrorMsg)
	assert.Empty(t, resp.RolledIDs)
	assert.Empty(t, resp.FailedIDs)
	assert.Equal(t, "rolled over 0 students, skipped 0, failed 0", resp.Message)
}

func TestRunMonthlyRollover_ArchiveFailureIsNotFatal(t *testing.T) {
	s := studentDoc(800, 0, nil)
	repo := new(mocks.MockStudentsRepo)
	repo.On("GetActiveStudentsCursor", mock.Anything, int32(10)).Return(cursorOf(t, s), nil)
	repo.On("SaveLedger", mock.Anything, s.ID, int64(2), mock.Anything).Return(nil)

	gcsClient := &mocks.MockGCS{Err: errors.New("precondition failed")}
	resp := NewRolloverService(repo, gcsClient, testConfig()).RunMonthlyRollover(context.Background(), sweepNow)

	assert.Equal(t, []string{s.ID.Hex()}, resp.RolledIDs)
	assert.Empty(t, resp.ErrorMsg)
}
