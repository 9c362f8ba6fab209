package router

import (
	"busfee/internal/app/handlers"
	"busfee/internal/app/middleware"
	"busfee/internal/service/auth"
	"busfee/internal/service/dashboard"
	"busfee/internal/service/eventretry"
	"busfee/internal/service/export"
	"busfee/internal/service/payment"
	"busfee/internal/service/reminder"
	"busfee/internal/service/rollover"
	"busfee/internal/service/settings"
	"busfee/internal/service/student"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Services is everything the route table dispatches to. Auth may be nil, in
// which case the API is left open and the login routes are not mounted.
type Services struct {
	Students   student.StudentServiceInterface
	Payments   payment.PaymentServiceInterface
	Export     export.ExportServiceInterface
	Dashboard  dashboard.DashboardServiceInterface
	Settings   settings.SettingsServiceInterface
	Reminders  reminder.ReminderServiceInterface
	Rollover   rollover.RolloverServiceInterface
	EventRetry eventretry.EventRetryServiceInterface
	Auth       auth.AuthServiceInterface
}

func SetupRouter(serviceName string, services Services) *gin.Engine {
	server := gin.Default()
	server.Use(otelgin.Middleware(serviceName))
	server.Use(middleware.AttachRequestDetails())

	healthCheckHandler := handlers.NewHealthCheckHandler()
	server.GET("/health", healthCheckHandler.HealthCheck)

	api := server.Group("/api")

	if services.Auth != nil {
		authHandler := handlers.NewAuthHandler(services.Auth)
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/logout", authHandler.Logout)
		api.Use(middleware.RequireSession(services.Auth))
	}

	studentHandler := handlers.NewStudentHandler(services.Students)
	exportHandler := handlers.NewExportHandler(services.Export)
	api.GET("/students", studentHandler.ListStudents)
	api.POST("/students", studentHandler.CreateStudent)
	api.GET("/students/export", exportHandler.ExportStudents)
	api.POST("/students/export/deliver", exportHandler.DeliverExport)
	api.GET("/students/:id", studentHandler.GetStudent)
	api.PUT("/students/:id", studentHandler.UpdateStudent)
	api.DELETE("/students/:id", studentHandler.DeleteStudent)

	paymentHandler := handlers.NewPaymentHandler(services.Payments)
	dashboardHandler := handlers.NewDashboardHandler(services.Dashboard)
	eventRetryHandler := handlers.NewEventRetryHandler(services.EventRetry)
	api.POST("/payments/:id/pay", paymentHandler.RecordPayment)
	api.POST("/payments/reset-total", paymentHandler.ResetTotals)
	api.GET("/payments/dashboard", dashboardHandler.GetPaymentsDashboard)
	api.GET("/payments/events/retry", eventRetryHandler.RetryPaymentEvents)

	api.GET("/dashboard", dashboardHandler.GetDashboard)
	api.GET("/reports", dashboardHandler.GetReport)

	settingsHandler := handlers.NewSettingsHandler(services.Settings)
	api.GET("/settings", settingsHandler.GetSettings)
	api.PUT("/settings", settingsHandler.UpdateSettings)

	reminderHandler := handlers.NewReminderHandler(services.Reminders)
	api.POST("/reminders/send", reminderHandler.SendReminders)

	rolloverHandler := handlers.NewRolloverHandler(services.Rollover)
	api.POST("/rollover/run", rolloverHandler.RunRollover)

	return server
}
