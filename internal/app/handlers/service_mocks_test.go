package handlers

import (
	"context"
	"time"

	"busfee/internal/pkg/store/models"
	"busfee/internal/service/auth"
	"busfee/internal/service/dashboard"
	"busfee/internal/service/eventretry"
	"busfee/internal/service/export"
	"busfee/internal/service/payment"
	"busfee/internal/service/reminder"
	"busfee/internal/service/rollover"
	"busfee/internal/service/settings"
	"busfee/internal/service/student"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MockStudentService struct{ mock.Mock }

func (m *MockStudentService) CreateStudent(ctx context.Context, req student.StudentRequest) (*models.Student, error) {
	args := m.Called(ctx, req)
	s, _ := args.Get(0).(*models.Student)
	return s, args.Error(1)
}

func (m *MockStudentService) ListStudents(ctx context.Context) ([]models.Student, error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).([]models.Student)
	return s, args.Error(1)
}

func (m *MockStudentService) GetStudent(ctx context.Context, id primitive.ObjectID) (*models.Student, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*models.Student)
	return s, args.Error(1)
}

func (m *MockStudentService) UpdateStudent(ctx context.Context, id primitive.ObjectID, body []byte) (*models.Student, error) {
	args := m.Called(ctx, id, body)
	s, _ := args.Get(0).(*models.Student)
	return s, args.Error(1)
}

func (m *MockStudentService) DeleteStudent(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}

type MockPaymentService struct{ mock.Mock }

func (m *MockPaymentService) RecordPayment(ctx context.Context, id primitive.ObjectID,
	req payment.PaymentRequest) (*payment.PaymentResult, error) {
	args := m.Called(ctx, id, req)
	r, _ := args.Get(0).(*payment.PaymentResult)
	return r, args.Error(1)
}

func (m *MockPaymentService) ResetTotals(ctx context.Context) (*payment.ResetResult, error) {
	args := m.Called(ctx)
	r, _ := args.Get(0).(*payment.ResetResult)
	return r, args.Error(1)
}

type MockExportService struct{ mock.Mock }

func (m *MockExportService) ExportStudents(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	b, _ := args.Get(0).([]byte)
	return b, args.Error(1)
}

func (m *MockExportService) DeliverExport(ctx context.Context) (*export.DeliveryResult, error) {
	args := m.Called(ctx)
	r, _ := args.Get(0).(*export.DeliveryResult)
	return r, args.Error(1)
}

type MockDashboardService struct{ mock.Mock }

func (m *MockDashboardService) GetDashboard(ctx context.Context) (*dashboard.DashboardResponse, error) {
	args := m.Called(ctx)
	r, _ := args.Get(0).(*dashboard.DashboardResponse)
	return r, args.Error(1)
}

func (m *MockDashboardService) GetPaymentsDashboard(ctx context.Context) (*dashboard.PaymentsDashboardResponse, error) {
	args := m.Called(ctx)
	r, _ := args.Get(0).(*dashboard.PaymentsDashboardResponse)
	return r, args.Error(1)
}

func (m *MockDashboardService) GetReport(ctx context.Context) (*dashboard.ReportResponse, error) {
	args := m.Called(ctx)
	r, _ := args.Get(0).(*dashboard.ReportResponse)
	return r, args.Error(1)
}

type MockSettingsService struct{ mock.Mock }

func (m *MockSettingsService) GetSettings(ctx context.Context) (*models.Settings, error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).(*models.Settings)
	return s, args.Error(1)
}

func (m *MockSettingsService) UpdateSettings(ctx context.Context, update settings.SettingsUpdate) (*models.Settings, error) {
	args := m.Called(ctx, update)
	s, _ := args.Get(0).(*models.Settings)
	return s, args.Error(1)
}

type MockReminderService struct{ mock.Mock }

func (m *MockReminderService) SendReminders(ctx context.Context) (*reminder.ReminderResponse, error) {
	args := m.Called(ctx)
	r, _ := args.Get(0).(*reminder.ReminderResponse)
	return r, args.Error(1)
}

type MockRolloverService struct{ mock.Mock }

func (m *MockRolloverService) RunMonthlyRollover(ctx context.Context, now time.Time) *rollover.RolloverResponse {
	return m.Called(ctx, now).Get(0).(*rollover.RolloverResponse)
}

type MockEventRetryService struct{ mock.Mock }

func (m *MockEventRetryService) RetryPaymentEvents(ctx context.Context) *eventretry.EventRetryResponse {
	return m.Called(ctx).Get(0).(*eventretry.EventRetryResponse)
}

type MockAuthService struct{ mock.Mock }

func (m *MockAuthService) Login(ctx context.Context, username, password string) (*auth.Session, error) {
	args := m.Called(ctx, username, password)
	s, _ := args.Get(0).(*auth.Session)
	return s, args.Error(1)
}

func (m *MockAuthService) ValidateToken(token string) (*auth.Claims, error) {
	args := m.Called(token)
	c, _ := args.Get(0).(*auth.Claims)
	return c, args.Error(1)
}

func (m *MockAuthService) SessionTTL() time.Duration {
	return m.Called().Get(0).(time.Duration)
}
