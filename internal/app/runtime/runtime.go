package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"busfee/internal/app/router"
	"busfee/internal/pkg/cleanup"
	"busfee/internal/pkg/config"
	"busfee/internal/pkg/db/mongo"
	"busfee/internal/pkg/db/redis"
	"busfee/internal/pkg/gcs"
	"busfee/internal/pkg/kafka"
	"busfee/internal/pkg/log_messages"
	"busfee/internal/pkg/logger"
	"busfee/internal/pkg/otel"
	"busfee/internal/pkg/pubsub"
	"busfee/internal/pkg/sftp"
	"busfee/internal/service/rollover"
)

var (
	loadConfig     = config.LoadFromConfig
	connectMongoDB = mongo.ConnectToMongoDB
	connectRedisDB = func(ctx context.Context, cfg config.RedisConfig) (*redis.RedisClient, error) {
		return redis.ConnectToRedis(ctx, cfg, nil)
	}
	newKafkaProducer   = kafka.NewKafkaProducer
	newPubSubPublisher = func(ctx context.Context, projectID string) (*pubsub.PubSubPublisher, error) {
		return pubsub.NewPubSubPublisher(ctx, projectID)
	}
	newGCSClient = func(ctx context.Context, bucketName string) (gcs.GcsInterface, error) {
		return gcs.NewGCSClient(ctx, bucketName)
	}
	newSFTPUploader = sftp.NewUploader
	setupTracing    = otel.Setup
)

// App encapsulates application resources and lifecycle. Optional clients
// stay nil when their config section is disabled.
type App struct {
	Cfg             *config.AppConfig
	MongoClient     *mongo.MongoClient
	RedisClient     *redis.RedisClient
	KafkaProducer   *kafka.KafkaProducer
	PubSubPublisher *pubsub.PubSubPublisher
	GcsClient       gcs.GcsInterface
	SFTPUploader    *sftp.Uploader
	TracerShutdown  otel.ShutdownFunc
	Scheduler       *rollover.Scheduler
	HTTPServer      *http.Server
	Services        router.Services
}

func New(ctx context.Context) (*App, error) {
	cfg, err := loadConfig()
	if err != nil {
		logger.CtxError(ctx, log_messages.FailedLoadingConfiguration, err)
		return nil, err
	}
	logger.Init(cfg.Logging.LogLevel)

	a := &App{Cfg: cfg}
	if err := a.connect(ctx); err != nil {
		a.Shutdown(ctx)
		return nil, err
	}

	services, err := buildServices(a)
	if err != nil {
		logger.CtxError(ctx, log_messages.FailedCreatingAuth, err)
		a.Shutdown(ctx)
		return nil, err
	}
	a.Services = services
	return a, nil
}

func (a *App) connect(ctx context.Context) error {
	cfg := a.Cfg

	if cfg.Otel.Enabled {
		shutdown, err := setupTracing(ctx, cfg.Otel.ServiceName, cfg.Otel.CollectorURL)
		if err != nil {
			logger.CtxError(ctx, log_messages.FailedSettingUpTracing, err)
			return err
		}
		a.TracerShutdown = shutdown
	} else {
		logger.CtxInfo(ctx, log_messages.OtelDisabled)
	}

	mClient, err := connectMongoDB(ctx, cfg.Mongo)
	if err != nil {
		logger.CtxError(ctx, log_messages.FailedToConnectMongo, err)
		return err
	}
	a.MongoClient = mClient

	if cfg.Redis.Enabled {
		rClient, err := connectRedisDB(ctx, cfg.Redis)
		if err != nil {
			logger.CtxError(ctx, log_messages.FailedConnectingRedis, err)
			return err
		}
		a.RedisClient = rClient
	}

	if cfg.Kafka.Enabled {
		producer, err := newKafkaProducer(cfg.Kafka)
		if err != nil {
			logger.CtxError(ctx, log_messages.FailedCreatingKafka, err)
			return err
		}
		a.KafkaProducer = producer
	} else {
		logger.CtxInfo(ctx, log_messages.KafkaProducerDisabled)
	}

	if cfg.PubSub.Enabled {
		publisher, err := newPubSubPublisher(ctx, cfg.PubSub.ProjectID)
		if err != nil {
			return err
		}
		a.PubSubPublisher = publisher
	} else {
		logger.CtxInfo(ctx, log_messages.PubsubDisabled)
	}

	if cfg.GCS.BucketName != "" {
		gcsClient, err := newGCSClient(ctx, cfg.GCS.BucketName)
		if err != nil {
			logger.CtxError(ctx, log_messages.FailedCreatingGCS, err)
			return err
		}
		a.GcsClient = gcsClient
	}

	if cfg.SFTP.Enabled {
		uploader, err := newSFTPUploader(cfg.SFTP)
		if err != nil {
			logger.CtxError(ctx, log_messages.FailedCreatingSFTP, err)
			return err
		}
		a.SFTPUploader = uploader
	}
	return nil
}

// Run starts the rollover scheduler and HTTP server, then blocks until
// SIGINT/SIGTERM.
func (a *App) Run(ctx context.Context) error {
	if a.Cfg.Rollover.Enabled {
		scheduler, err := rollover.NewScheduler(a.Services.Rollover, a.Cfg.Rollover)
		if err != nil {
			a.Shutdown(ctx)
			return err
		}
		scheduler.Start()
		a.Scheduler = scheduler
	} else {
		logger.CtxInfo(ctx, log_messages.RolloverSchedulerDisabled)
	}

	engine := router.SetupRouter(a.Cfg.Otel.ServiceName, a.Services)
	a.HTTPServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", a.Cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.CtxInfo(ctx, log_messages.ServerStarted, slog.String("addr", a.HTTPServer.Addr))
		if err := a.HTTPServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.CtxError(ctx, log_messages.ServerStartFailure, err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
	case <-ctx.Done():
	}

	a.Shutdown(context.WithoutCancel(ctx))
	logger.CtxInfo(ctx, log_messages.ServerExiting)
	return nil
}

// Shutdown gracefully closes all resources with bounded timeouts.
func (a *App) Shutdown(ctx context.Context) {
	r := cleanup.Resources{
		Server:         a.HTTPServer,
		KafkaProducer:  a.KafkaProducer,
		GCSClient:      a.GcsClient,
		MongoClient:    a.MongoClient,
		RedisClient:    a.RedisClient,
		TracerShutdown: a.TracerShutdown,
	}
	if a.Scheduler != nil {
		r.Scheduler = a.Scheduler
	}
	if a.PubSubPublisher != nil {
		r.PubSubPublisher = a.PubSubPublisher
	}
	cleanup.CleanupResources(ctx, r)
}
