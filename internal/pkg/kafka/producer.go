package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"busfee/internal/pkg/config"
	"busfee/internal/pkg/log_messages"
	"busfee/internal/pkg/logger"
	"busfee/internal/service/interfaces"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
)

const (
	deliveryTimeout = 10 * time.Second
	flushTimeoutMs  = 5000
)

// ProducerInterface defines the interface for Kafka producer operations.
type ProducerInterface interface {
	Produce(msg *kafka.Message, deliveryChan chan kafka.Event) error
	Flush(timeoutMs int) int
	Close()
}

// KafkaProducer publishes payment events to the configured topic.
type KafkaProducer struct {
	producer ProducerInterface
	topic    string
	timeout  time.Duration
}

var _ interfaces.PaymentEventPublisher = (*KafkaProducer)(nil)

func NewKafkaProducer(cfg config.KafkaConfig) (*KafkaProducer, error) {
	kafkaConfig := &kafka.ConfigMap{
		"bootstrap.servers": cfg.Server,
		"client.id":         cfg.ClientID,
	}
	if cfg.SecurityProtocol != "" {
		_ = kafkaConfig.SetKey("security.protocol", cfg.SecurityProtocol)
	}
	if cfg.SASLMechanism != "" {
		_ = kafkaConfig.SetKey("sasl.mechanisms", cfg.SASLMechanism)
		_ = kafkaConfig.SetKey("sasl.username", cfg.SASLUsername)
		_ = kafkaConfig.SetKey("sasl.password", cfg.SASLPassword)
	}

	producer, err := kafka.NewProducer(kafkaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	logger.Info(log_messages.KafkaProducerCreated, slog.String("topic", cfg.PaymentTopic))

	return &KafkaProducer{
		producer: producer,
		topic:    cfg.PaymentTopic,
		timeout:  deliveryTimeout,
	}, nil
}

// Publish sends msg and waits for its delivery report. Messages for the same
// key land on the same partition, so a student's events stay ordered.
func (kp *KafkaProducer) Publish(ctx context.Context, key string, msg []byte) error {
	deliveryChan := make(chan kafka.Event, 1)

	message := &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &kp.topic, Partition: kafka.PartitionAny},
		Value:          msg,
	}
	if key != "" {
		message.Key = []byte(key)
	}

	if err := kp.producer.Produce(message, deliveryChan); err != nil {
		logger.CtxError(ctx, log_messages.FailedToProduceKafka, err)
		return err
	}

	timeout := kp.timeout
	if timeout <= 0 {
		timeout = deliveryTimeout
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case ev := <-deliveryChan:
		m, ok := ev.(*kafka.Message)
		if !ok {
			return fmt.Errorf("%s: %T", log_messages.KafkaUnexpectedEventType, ev)
		}
		if m.TopicPartition.Error != nil {
			return fmt.Errorf("delivery failed: %w", m.TopicPartition.Error)
		}
	case <-timer.C:
		return errors.New(log_messages.KafkaDeliveryTimeout)
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

// Close flushes and closes the Kafka producer.
func (kp *KafkaProducer) Close() error {
	kp.producer.Flush(flushTimeoutMs)
	kp.producer.Close()
	return nil
}
