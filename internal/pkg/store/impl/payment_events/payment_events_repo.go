package payment_events

import (
	"context"
	"log/slog"
	"time"

	"busfee/internal/pkg/apperrors"
	"busfee/internal/pkg/consts"
	mongodb "busfee/internal/pkg/db/mongo"
	"busfee/internal/pkg/log_messages"
	"busfee/internal/pkg/logger"
	"busfee/internal/pkg/store/models"
	"busfee/internal/pkg/store/repository"
	"busfee/internal/service/interfaces"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PaymentEventsRepository is the payment outbox.
type PaymentEventsRepository struct {
	repo       *repository.MongoRepository[models.PaymentEvent]
	create     func(ctx context.Context, document interface{}) (*mongo.InsertOneResult, error)
	updateOne  func(ctx context.Context, filter interface{}, update interface{}) error
	updateMany func(ctx context.Context, filter interface{}, update interface{}) (*mongo.UpdateResult, error)
	find       func(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.PaymentEvent, error)
	now        func() time.Time
}

var _ interfaces.PaymentEventsRepoInterface = (*PaymentEventsRepository)(nil)

func NewPaymentEventsRepository(client *mongodb.MongoClient) interfaces.PaymentEventsRepoInterface {
	collection := client.Database.Collection(consts.PaymentEventsCollection)
	return newPaymentEventsRepository(repository.NewMongoRepository[models.PaymentEvent](collection))
}

func newPaymentEventsRepository(repo *repository.MongoRepository[models.PaymentEvent]) *PaymentEventsRepository {
	r := &PaymentEventsRepository{
		repo: repo,
		now:  time.Now,
	}
	r.create = repo.Create
	r.updateOne = repo.UpdateOne
	r.updateMany = repo.UpdateMany
	r.find = repo.Find
	return r
}

func (r *PaymentEventsRepository) CreateEvent(ctx context.Context, event *models.PaymentEvent) (primitive.ObjectID, error) {
	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	if _, err := r.create(ctx, event); err != nil {
		logger.CtxError(ctx, log_messages.ErrorCreatingPaymentEvent, err,
			slog.String("studentId", event.StudentID.Hex()))
		return primitive.ObjectID{}, apperrors.Persistence("create payment event", err)
	}
	return event.ID, nil
}

func (r *PaymentEventsRepository) MarkPublished(ctx context.Context, id primitive.ObjectID) error {
	if err := r.updateOne(ctx, bson.M{"_id": id}, bson.M{"publishedToKafka": true}); err != nil {
		logger.CtxError(ctx, log_messages.ErrorMarkingEventPublished, err, slog.String("eventId", id.Hex()))
		return err
	}
	return nil
}

// ParseRetryStart resolves the retry window start. A yyyy-mm-dd value is an
// absolute date; anything else must be a duration counted back from now.
func ParseRetryStart(since string, now time.Time) (time.Time, error) {
	if t, err := time.Parse(consts.DateFormat, since); err == nil {
		return t, nil
	}
	d, err := time.ParseDuration(since)
	if err != nil {
		return time.Time{}, err
	}
	if d < 0 {
		d = -d
	}
	return now.Add(-d), nil
}

func (r *PaymentEventsRepository) GetUnpublishedEventsCursor(ctx context.Context,
	since string, batchSize int32) (*mongo.Cursor, error) {

	threshold, err := ParseRetryStart(since, r.now())
	if err != nil {
		logger.CtxError(ctx, log_messages.InvalidDurationFormat, err, slog.String("since", since))
		return nil, err
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{
			{Key: "publishedToKafka", Value: false},
			{Key: "createdAt", Value: bson.D{{Key: "$gte", Value: threshold}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: 1}}}},
	}
	opts := options.Aggregate().SetBatchSize(batchSize)

	cursor, err := r.repo.GetCollection().Aggregate(ctx, pipeline, opts)
	if err != nil {
		logger.CtxError(ctx, log_messages.FailedToGetUnpublishedEvents, err)
		return nil, err
	}
	return cursor, nil
}

// UpdatePublishedToKafkaInBulk flags the given events as published and
// returns the ids whose flag is still unset afterwards.
func (r *PaymentEventsRepository) UpdatePublishedToKafkaInBulk(ctx context.Context,
	eventIDs []string) ([]string, error) {

	objectIDs := make([]primitive.ObjectID, len(eventIDs))
	for i, id := range eventIDs {
		objectID, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			logger.CtxError(ctx, log_messages.InvalidObjectID, err, slog.String("id", id))
			return nil, err
		}
		objectIDs[i] = objectID
	}

	filter := bson.M{"_id": bson.M{"$in": objectIDs}}
	update := bson.M{"$set": bson.M{"publishedToKafka": true}}

	result, err := r.updateMany(ctx, filter, update)
	if err != nil {
		return nil, err
	}

	failed := []string{}
	if result.MatchedCount != int64(len(objectIDs)) || result.MatchedCount != result.ModifiedCount {
		stillUnset := bson.M{
			"_id":              bson.M{"$in": objectIDs},
			"publishedToKafka": bson.M{"$ne": true},
		}
		events, err := r.find(ctx, stillUnset)
		if err != nil {
			return nil, err
		}
		for i := range events {
			failed = append(failed, events[i].ID.Hex())
		}
	}
	if len(failed) > 0 {
		logger.CtxWarn(ctx, log_messages.SomeEventsFailedToUpdateKafkaFlag, slog.Any("failedIds", failed))
	}
	return failed, nil
}
