package interfaces

import "context"

// PublisherInterface defines the methods we need from pubsub.Publisher
type PublisherInterface interface {
	Publish(ctx context.Context, msg []byte, attrs map[string]string) error
}

// PubSubPublisherClientInterface defines the methods we need from pubsub.Client for publishing
type PubSubPublisherClientInterface interface {
	Publisher(topic string) PublisherInterface
	Close() error
}

// NotificationPublisher is what services use to hand notifications to Pub/Sub.
type NotificationPublisher interface {
	PublishJSON(ctx context.Context, topic string, payload interface{}, attrs map[string]string) error
}
