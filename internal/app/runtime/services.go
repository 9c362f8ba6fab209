package runtime

import (
	"busfee/internal/app/router"
	"busfee/internal/pkg/store/impl/payment_events"
	"busfee/internal/pkg/store/impl/settings"
	"busfee/internal/pkg/store/impl/stats"
	"busfee/internal/pkg/store/impl/students"
	"busfee/internal/pkg/store/repository"
	"busfee/internal/service/auth"
	"busfee/internal/service/dashboard"
	"busfee/internal/service/eventretry"
	"busfee/internal/service/export"
	"busfee/internal/service/interfaces"
	"busfee/internal/service/payment"
	"busfee/internal/service/reminder"
	"busfee/internal/service/rollover"
	settingsservice "busfee/internal/service/settings"
	"busfee/internal/service/student"
)

// buildServices wires repositories and optional clients into the services.
// Disabled clients are passed as nil interfaces, never as typed nil pointers.
func buildServices(a *App) (router.Services, error) {
	studentsRepo := students.NewStudentsRepository(a.MongoClient)
	statsRepo := stats.NewStatsRepository(a.MongoClient)
	settingsRepo := settings.NewSettingsRepository(a.MongoClient)
	eventsRepo := payment_events.NewPaymentEventsRepository(a.MongoClient)

	var kafkaPublisher interfaces.PaymentEventPublisher
	if a.KafkaProducer != nil {
		kafkaPublisher = a.KafkaProducer
	}
	var notifier interfaces.NotificationPublisher
	if a.PubSubPublisher != nil {
		notifier = a.PubSubPublisher
	}
	var redisStore interfaces.RedisStoreOperations
	if a.RedisClient != nil {
		redisStore = repository.NewRedisStoreAdapter(a.RedisClient.Client)
	}
	var sftpUploader export.Uploader
	if a.SFTPUploader != nil {
		sftpUploader = a.SFTPUploader
	}

	settingsService := settingsservice.NewSettingsService(settingsRepo)

	services := router.Services{
		Students: student.NewStudentService(studentsRepo),
		Payments: payment.NewPaymentService(studentsRepo, statsRepo, eventsRepo,
			payment.MongoTxRunner(a.MongoClient), payment.Options{
				KafkaProducer:     kafkaPublisher,
				Notifier:          notifier,
				NotificationTopic: a.Cfg.PubSub.NotificationTopic,
				MaxRetries:        a.Cfg.Payment.MaxRetries,
			}),
		Export:     export.NewExportService(studentsRepo, sftpUploader, a.GcsClient),
		Dashboard:  dashboard.NewDashboardService(studentsRepo, statsRepo),
		Settings:   settingsService,
		Reminders:  reminder.NewReminderService(studentsRepo, settingsService, redisStore, notifier, a.Cfg.PubSub.NotificationTopic),
		Rollover:   rollover.NewRolloverService(studentsRepo, a.GcsClient, a.Cfg.Rollover),
		EventRetry: eventretry.NewEventRetryService(eventsRepo, kafkaPublisher, a.Cfg.EventRetry),
	}

	if a.Cfg.Auth.Enabled {
		authService, err := auth.NewAuthService(a.Cfg.Auth)
		if err != nil {
			return router.Services{}, err
		}
		services.Auth = authService
	}
	return services, nil
}
