package handlers

import (
	"errors"
	"net/http"
	"testing"

	"busfee/internal/service/dashboard"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestDashboardHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("dashboard is returned unwrapped", func(t *testing.T) {
		svc := new(MockDashboardService)
		svc.On("GetDashboard", mock.Anything).Return(&dashboard.DashboardResponse{
			Stats: dashboard.DashboardStats{TotalStudents: 4, PendingDues: 1500},
		}, nil)

		c, w := newTestContext(http.MethodGet, "/api/dashboard", "")
		NewDashboardHandler(svc).GetDashboard(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"stats":{"totalStudents":4`)
		assert.NotContains(t, w.Body.String(), `"success"`)
	})

	t.Run("payments dashboard is wrapped", func(t *testing.T) {
		svc := new(MockDashboardService)
		svc.On("GetPaymentsDashboard", mock.Anything).Return(&dashboard.PaymentsDashboardResponse{
			Stats: dashboard.PaymentsDashboardStats{PendingDues: 2},
		}, nil)

		c, w := newTestContext(http.MethodGet, "/api/payments/dashboard", "")
		NewDashboardHandler(svc).GetPaymentsDashboard(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"success":true`)
		assert.Contains(t, w.Body.String(), `"pendingDues":2`)
	})

	t.Run("report", func(t *testing.T) {
		svc := new(MockDashboardService)
		svc.On("GetReport", mock.Anything).Return(&dashboard.ReportResponse{
			KeyMetrics: dashboard.KeyMetrics{CollectionRate: "75.0"},
		}, nil)

		c, w := newTestContext(http.MethodGet, "/api/reports", "")
		NewDashboardHandler(svc).GetReport(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"collectionRate":"75.0"`)
	})

	t.Run("failure", func(t *testing.T) {
		svc := new(MockDashboardService)
		svc.On("GetReport", mock.Anything).Return(nil, errors.New("aggregate failed"))

		c, w := newTestContext(http.MethodGet, "/api/reports", "")
		NewDashboardHandler(svc).GetReport(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "aggregate failed")
	})
}
