package interfaces

import (
	"context"

	"busfee/internal/pkg/store/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type PaymentEventsRepoInterface interface {
	CreateEvent(ctx context.Context, event *models.PaymentEvent) (primitive.ObjectID, error)
	MarkPublished(ctx context.Context, id primitive.ObjectID) error
	GetUnpublishedEventsCursor(ctx context.Context, since string, batchSize int32) (*mongo.Cursor, error)
	UpdatePublishedToKafkaInBulk(ctx context.Context, eventIDs []string) ([]string, error)
}
