package interfaces

import "context"

// PaymentEventPublisher sends one payment event keyed by student id.
type PaymentEventPublisher interface {
	Publish(ctx context.Context, key string, msg []byte) error
}
