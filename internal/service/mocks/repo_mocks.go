// Package mocks holds testify mocks of the service-layer interfaces shared by
// the service and handler tests.
package mocks

import (
	"context"
	"time"

	"busfee/internal/pkg/store/models"
	"busfee/internal/service/ledger"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type MockStudentsRepo struct {
	mock.Mock
}

func (m *MockStudentsRepo) CreateStudent(ctx context.Context, student *models.Student) (primitive.ObjectID, error) {
	args := m.Called(ctx, student)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockStudentsRepo) GetStudentByID(ctx context.Context, id primitive.ObjectID) (*models.Student, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Student), args.Error(1)
}

func (m *MockStudentsRepo) ListStudents(ctx context.Context) ([]models.Student, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Student), args.Error(1)
}

func (m *MockStudentsRepo) ListActiveStudents(ctx context.Context) ([]models.Student, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Student), args.Error(1)
}

func (m *MockStudentsRepo) ListActivePendingStudents(ctx context.Context) ([]models.Student, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Student), args.Error(1)
}

func (m *MockStudentsRepo) UpdateProfile(ctx context.Context, id primitive.ObjectID, profile models.StudentProfile,
	monthlyFee float64) (*models.Student, error) {
	args := m.Called(ctx, id, profile, monthlyFee)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Student), args.Error(1)
}

func (m *MockStudentsRepo) DeleteStudent(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStudentsRepo) SaveLedger(ctx context.Context, id primitive.ObjectID, expectedVersion int64,
	l ledger.StudentLedger) error {
	args := m.Called(ctx, id, expectedVersion, l)
	return args.Error(0)
}

func (m *MockStudentsRepo) GetActiveStudentsCursor(ctx context.Context, batchSize int32) (*mongo.Cursor, error) {
	args := m.Called(ctx, batchSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mongo.Cursor), args.Error(1)
}

func (m *MockStudentsRepo) ResetTotals(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStudentsRepo) CountStudents(ctx context.Context, activeOnly bool) (int64, error) {
	args := m.Called(ctx, activeOnly)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStudentsRepo) CountPendingStudents(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStudentsRepo) SumDueAmount(ctx context.Context, activeOnly bool) (float64, error) {
	args := m.Called(ctx, activeOnly)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockStudentsRepo) SumLastPaymentsSince(ctx context.Context, since time.Time) (float64, error) {
	args := m.Called(ctx, since)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockStudentsRepo) SumPaymentsSince(ctx context.Context, since time.Time) (float64, error) {
	args := m.Called(ctx, since)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockStudentsRepo) RecentPayments(ctx context.Context, limit int64) ([]models.RecentPayment, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.RecentPayment), args.Error(1)
}

func (m *MockStudentsRepo) RecentPaymentEntries(ctx context.Context, limit int64) ([]models.PaymentEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PaymentEntry), args.Error(1)
}

type MockStatsRepo struct {
	mock.Mock
}

func (m *MockStatsRepo) IncrementTotalCollected(ctx context.Context, amount float64) (*models.Stats, error) {
	args := m.Called(ctx, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Stats), args.Error(1)
}

func (m *MockStatsRepo) GetStats(ctx context.Context) (*models.Stats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Stats), args.Error(1)
}

func (m *MockStatsRepo) ResetTotalCollected(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockSettingsRepo struct {
	mock.Mock
}

func (m *MockSettingsRepo) GetOrCreateSettings(ctx context.Context, defaults models.Settings) (*models.Settings, error) {
	args := m.Called(ctx, defaults)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Settings), args.Error(1)
}

func (m *MockSettingsRepo) SaveSettings(ctx context.Context, settings models.Settings) (*models.Settings, error) {
	args := m.Called(ctx, settings)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Settings), args.Error(1)
}

type MockPaymentEventsRepo struct {
	mock.Mock
}

func (m *MockPaymentEventsRepo) CreateEvent(ctx context.Context, event *models.PaymentEvent) (primitive.ObjectID, error) {
	args := m.Called(ctx, event)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockPaymentEventsRepo) MarkPublished(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPaymentEventsRepo) GetUnpublishedEventsCursor(ctx context.Context, since string,
	batchSize int32) (*mongo.Cursor, error) {
	args := m.Called(ctx, since, batchSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mongo.Cursor), args.Error(1)
}

func (m *MockPaymentEventsRepo) UpdatePublishedToKafkaInBulk(ctx context.Context, eventIDs []string) ([]string, error) {
	args := m.Called(ctx, eventIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
