package log_messages

const (
	ServerStartFailure         = "failed to start server"
	ServerExiting              = "Server exiting"
	FailedLoadingConfiguration = "Failed to load configuration"
	ConfigLoadedSuccessfully   = "Configuration loaded successfully"
	CleanupStarted             = "Starting cleanup of resources..."
	CleanupCompleted           = "All resources cleaned up successfully"
	FailedInitializingApp      = "failed to initialize app"
	AppStoppedWithError        = "app stopped with error"
	ServerStarted              = "HTTP server listening"
	RolloverSchedulerDisabled  = "Rollover scheduler disabled"
	FailedCreatingKafka        = "Failure in Kafka producer creation"
	FailedConnectingRedis      = "Failed to connect to Redis"
	FailedCreatingGCS          = "Failed to create GCS client"
	FailedCreatingSFTP         = "Failed to create SFTP uploader"
	FailedCreatingAuth         = "Failed to initialize auth service"
	FailedSettingUpTracing     = "Failed to set up tracing"
	EnvFileNotLoaded           = "No .env file loaded, relying on process environment"

	// Mongo
	FailedToConnectMongo     = "Failed to connect to MongoDB"
	MongoPingFailed          = "MongoDB ping failed"
	MongoConnected           = "Successfully connected to MongoDB"
	FailedToStartSession     = "failed to start MongoDB session"
	ErrorDecodingDocument    = "error decoding document"
	ErrorClosingCursor       = "error closing cursor"
	CursorError              = "cursor error: %w"
	ErrorChannelFullLogging  = "error channel full, logging error instead"
	InvalidObjectID          = "invalid object id"
	InvalidDurationFormat    = "invalid retry start date format"
	StudentNotFoundForID     = "No student found for id"
	ErrorFindingStudent      = "Error finding student by id"
	ErrorCreatingStudent     = "Failed to create student"
	StudentCreated           = "Created student"
	ErrorUpdatingStudent     = "Failed to update student"
	ErrorDeletingStudent     = "Failed to delete student"
	ErrorListingStudents     = "Failed to list students"
	ErrorSavingLedger        = "Failed to save student ledger"
	LedgerVersionConflict    = "Student ledger changed concurrently"
	ErrorResettingTotals     = "Failed to reset student totals"
	ErrorAggregatingPayments = "Failed to aggregate payment history"
	ErrorCountingStudents    = "Failed to count students"

	// Stats and settings
	ErrorIncrementingStats = "Failed to increment global collected counter"
	ErrorReadingStats      = "Failed to read global stats"
	ErrorResettingStats    = "Failed to reset global stats"
	ErrorReadingSettings   = "Failed to read settings"
	ErrorUpsertingSettings = "Failed to upsert settings"
	DefaultSettingsCreated = "Default settings document created"

	// Payments
	PaymentRecorded             = "Payment recorded"
	PaymentRejected             = "Payment rejected"
	PaymentRetryOnConflict      = "Retrying payment after concurrent ledger update"
	PaymentRetriesExhausted     = "payment retries exhausted"
	ErrorCreatingPaymentEvent   = "Failed to create payment event entry"
	ErrorPublishingPaymentEvent = "Failed to publish payment event to Kafka"
	ErrorMarkingEventPublished  = "Failed to mark payment event as published"
	ErrorPublishingReceipt      = "Failed to publish payment receipt notification"
	TotalsReset                 = "All totals reset to 0"

	// Rollover
	RolloverStarted          = "Monthly rollover started"
	RolloverCompleted        = "Monthly rollover completed"
	RolloverStudentFailed    = "Rollover failed for student, continuing"
	RolloverNoActiveStudents = "No active students to roll over"
	NoWorkerConfigured       = "no worker configured"
	ErrorArchivingRollover   = "Failed to archive rollover summary"
	RolloverScheduled        = "Monthly rollover scheduled"
	InvalidCronSchedule      = "invalid rollover schedule"

	// Payment event retry
	NoPaymentEventsInDuration          = "No unpublished payment events in the given duration"
	PaymentEventRetryCompleted         = "Payment event retry processing completed"
	MultipleErrorsOccurredDuringRetry  = "Multiple errors occurred during payment event retry"
	FailedToWriteRecordToCSV           = "failed to write record to CSV"
	ErrorFlushingCSVWriter             = "error flushing CSV writer"
	ErrorUpdatingKafkaFlag             = "error updating Kafka flag in database for payment events"
	SomeEventsFailedToUpdateKafkaFlag  = "Some payment events failed to update Kafka flag"
	EventsPublishedToKafkaSuccessfully = "Payment events published to Kafka successfully"
	EventsFailedToPublishToKafka       = "Payment events failed to publish to Kafka"
	FailedToGetUnpublishedEvents       = "Failed to get unpublished payment events"

	// Kafka
	KafkaProducerCreated     = "Kafka producer created successfully"
	KafkaProducerDisabled    = "Kafka disabled, payment events stay in the outbox"
	FailedToProduceKafka     = "Failed to produce Kafka message"
	KafkaDeliveryTimeout     = "timeout waiting for Kafka delivery report"
	KafkaUnexpectedEventType = "unexpected event type"

	// Pub/Sub
	PubsubPublisherCreated   = "PubSub publisher created successfully"
	FailedCreatingPubsub     = "Failed creating PubSub client"
	ErrorMarshallingJSON     = "error marshalling JSON"
	PubsubDisabled           = "PubSub disabled, notifications are not published"
	ReminderPublished        = "Fee reminder published"
	ReminderSkippedThrottled = "Fee reminder skipped, already sent within reminder window"
	ErrorPublishingReminder  = "Failed to publish fee reminder"
	ErrorThrottlingReminder  = "Failed to set reminder marker"

	// GCS
	ErrorClosingGCSClient     = "error closing GCS client"
	ErrorUploadingToGCSBucket = "error uploading to GCS bucket"
	ErrorClosingGCSWriter     = "error closing GCS writer"
	UploadedToGCSBucket       = "Uploaded to GCS bucket"
	GCSClientClosed           = "GCS client closed successfully"

	// SFTP
	ErrorDialingSFTP      = "failed to dial SSH"
	ErrorCreatingSFTP     = "failed to create SFTP client"
	UploadedToSFTP        = "Uploaded file to SFTP"
	ErrorUploadingToSFTP  = "Failed to upload file to SFTP"
	ErrorParsingHostKey   = "failed to parse SFTP host key"
	ExportDeliveryStarted = "Delivering students export"

	// Export
	ErrorBuildingWorkbook = "Failed to build students workbook"
	ErrorWritingWorkbook  = "Failed to write students workbook"

	// Auth
	LoginFailed          = "Login failed"
	LoginSucceeded       = "Login succeeded"
	InvalidSessionToken  = "Invalid or expired session token"
	MissingSessionToken  = "Authorization token not provided"
	ErrorHashingPassword = "failed to hash admin password"

	// Redis
	RedisConnected   = "Successfully connected to Redis"
	RedisPingFailed  = "Redis ping failed"
	ErrorBuildingTLS = "Failed to build TLS config"

	// HTTP
	RequestCompleted = "Request completed"

	// Tracing
	OtelConnectionError = "OTLP connection error"
	OtelDisabled        = "Tracing disabled"
)
