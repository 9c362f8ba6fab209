package cleanup

import (
	"context"
	"net/http"
	"time"

	"busfee/internal/pkg/db/mongo"
	"busfee/internal/pkg/db/redis"
	"busfee/internal/pkg/gcs"
	"busfee/internal/pkg/kafka"
	"busfee/internal/pkg/log_messages"
	"busfee/internal/pkg/logger"
	"busfee/internal/pkg/otel"
)

const (
	mongoDisconnectTimeout = 5 * time.Second
	serverShutdownTimeout  = 8 * time.Second
	schedulerStopTimeout   = 30 * time.Second
)

// Resources lists everything the process may have opened. Nil members are
// skipped.
type Resources struct {
	Server          *http.Server
	Scheduler       interface{ Stop() context.Context }
	PubSubPublisher interface{ Close() error }
	KafkaProducer   *kafka.KafkaProducer
	GCSClient       gcs.GcsInterface
	MongoClient     *mongo.MongoClient
	RedisClient     *redis.RedisClient
	TracerShutdown  otel.ShutdownFunc
}

// CleanupResources stops intake first (HTTP, cron), then the outbound
// clients, then the stores.
func CleanupResources(ctx context.Context, r Resources) {
	logger.CtxInfo(ctx, log_messages.CleanupStarted)

	cleanupHTTPServer(ctx, r.Server)
	cleanupScheduler(ctx, r.Scheduler)
	cleanupPubSubResource(ctx, r.PubSubPublisher, "PubSub publisher")
	cleanupKafkaResource(ctx, r.KafkaProducer)
	cleanupGCSResource(ctx, r.GCSClient)
	cleanupMongoResource(ctx, r.MongoClient)
	cleanupRedisResource(ctx, r.RedisClient)
	cleanupTracer(ctx, r.TracerShutdown)

	logger.CtxInfo(ctx, log_messages.CleanupCompleted)
}

func cleanupHTTPServer(ctx context.Context, server *http.Server) {
	if server == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, serverShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.CtxError(ctx, "Failed to shutdown HTTP server", err)
	} else {
		logger.CtxInfo(ctx, "HTTP server shutdown successfully")
	}
}

// cleanupScheduler waits for a running rollover to finish.
func cleanupScheduler(ctx context.Context, scheduler interface{ Stop() context.Context }) {
	if scheduler == nil {
		return
	}
	select {
	case <-scheduler.Stop().Done():
		logger.CtxInfo(ctx, "Rollover scheduler stopped")
	case <-time.After(schedulerStopTimeout):
		logger.CtxWarn(ctx, "Timed out waiting for running rollover to finish")
	case <-ctx.Done():
	}
}

func cleanupPubSubResource(ctx context.Context, resource interface{ Close() error }, resourceName string) {
	if resource == nil {
		return
	}
	if err := resource.Close(); err != nil {
		logger.CtxError(ctx, "Failed to close "+resourceName, err)
	} else {
		logger.CtxInfo(ctx, resourceName+" closed successfully")
	}
}

func cleanupKafkaResource(ctx context.Context, kafkaProducer *kafka.KafkaProducer) {
	if kafkaProducer == nil {
		return
	}
	if err := kafkaProducer.Close(); err != nil {
		logger.CtxError(ctx, "Failed to close Kafka producer", err)
	} else {
		logger.CtxInfo(ctx, "Kafka producer closed successfully")
	}
}

func cleanupGCSResource(ctx context.Context, gcsClient gcs.GcsInterface) {
	if gcsClient == nil {
		return
	}
	gcsClient.Close(ctx)
	logger.CtxInfo(ctx, log_messages.GCSClientClosed)
}

func cleanupMongoResource(ctx context.Context, mongoClient *mongo.MongoClient) {
	if mongoClient == nil || mongoClient.Client == nil {
		return
	}
	mongoCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), mongoDisconnectTimeout)
	defer cancel()
	if err := mongoClient.Client.Disconnect(mongoCtx); err != nil {
		logger.CtxError(mongoCtx, "Failed to disconnect MongoDB client", err)
	} else {
		logger.CtxInfo(mongoCtx, "MongoDB client disconnected successfully")
	}
}

func cleanupRedisResource(ctx context.Context, redisClient *redis.RedisClient) {
	if redisClient == nil || redisClient.Client == nil {
		return
	}
	if err := redis.Disconnect(redisClient.Client); err != nil {
		logger.CtxError(ctx, "Failed to close Redis client", err)
	} else {
		logger.CtxInfo(ctx, "Redis client closed successfully")
	}
}

func cleanupTracer(ctx context.Context, shutdown otel.ShutdownFunc) {
	if shutdown == nil {
		return
	}
	if err := shutdown(context.WithoutCancel(ctx)); err != nil {
		logger.CtxError(ctx, "Failed to shutdown tracer provider", err)
	}
}
