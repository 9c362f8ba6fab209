package stats

import (
	"context"
	"errors"
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
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// StatsRepository keeps the single global counters document.
type StatsRepository struct {
	repo             *repository.MongoRepository[models.Stats]
	findOne          func(ctx context.Context, filter interface{}, opt *options.FindOneOptions) (models.Stats, error)
	findOneAndUpdate func(ctx context.Context, filter interface{}, update interface{},
		opts *options.FindOneAndUpdateOptions) (models.Stats, error)
	now func() time.Time
}

var _ interfaces.StatsRepoInterface = (*StatsRepository)(nil)

func NewStatsRepository(client *mongodb.MongoClient) interfaces.StatsRepoInterface {
	collection := client.Database.Collection(consts.StatsCollection)
	repo := repository.NewMongoRepository[models.Stats](collection)
	return &StatsRepository{
		repo:             repo,
		findOne:          repo.FindOne,
		findOneAndUpdate: repo.FindOneAndUpdate,
		now:              time.Now,
	}
}

func upsertAfter() *options.FindOneAndUpdateOptions {
	return options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
}

// IncrementTotalCollected atomically adds amount to the global counter,
// creating the document on first use.
func (r *StatsRepository) IncrementTotalCollected(ctx context.Context, amount float64) (*models.Stats, error) {
	update := bson.M{
		"$inc": bson.M{"totalCollected": amount},
		"$set": bson.M{"updatedAt": r.now()},
	}
	stats, err := r.findOneAndUpdate(ctx, bson.M{"_id": consts.GlobalStatsID}, update, upsertAfter())
	if err != nil {
		logger.CtxError(ctx, log_messages.ErrorIncrementingStats, err)
		return nil, apperrors.Persistence("increment stats", err)
	}
	return &stats, nil
}

// GetStats returns zeroed stats when the document was never written.
func (r *StatsRepository) GetStats(ctx context.Context) (*models.Stats, error) {
	stats, err := r.findOne(ctx, bson.M{"_id": consts.GlobalStatsID}, nil)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return &models.Stats{ID: consts.GlobalStatsID}, nil
		}
		logger.CtxError(ctx, log_messages.ErrorReadingStats, err)
		return nil, apperrors.Persistence("read stats", err)
	}
	return &stats, nil
}

func (r *StatsRepository) ResetTotalCollected(ctx context.Context) error {
	update := bson.M{"$set": bson.M{"totalCollected": 0.0, "updatedAt": r.now()}}
	if _, err := r.findOneAndUpdate(ctx, bson.M{"_id": consts.GlobalStatsID}, update, upsertAfter()); err != nil {
		logger.CtxError(ctx, log_messages.ErrorResettingStats, err)
		return apperrors.Persistence("reset stats", err)
	}
	return nil
}
