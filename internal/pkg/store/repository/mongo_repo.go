package repository

import (
	"context"

	"busfee/internal/service/interfaces"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoRepository[T any] struct {
	collection interfaces.MongoRepositoryInterface
}

func NewMongoRepository[T any](collection interfaces.MongoRepositoryInterface) *MongoRepository[T] {
	return &MongoRepository[T]{collection: collection}
}

func (r *MongoRepository[T]) GetCollection() interfaces.MongoRepositoryInterface {
	return r.collection
}

func (r *MongoRepository[T]) Create(ctx context.Context, document interface{}) (*mongo.InsertOneResult, error) {
	result, err := r.collection.InsertOne(ctx, document)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// FindOne reads a document by filter
func (r *MongoRepository[T]) FindOne(ctx context.Context, filter interface{}, opt *options.FindOneOptions) (T, error) {
	var result T
	if err := r.collection.FindOne(ctx, filter, opt).Decode(&result); err != nil {
		return result, err
	}
	return result, nil
}

// FindOneAndUpdate applies a raw update document and decodes the document
// selected by opts (before or after the update).
func (r *MongoRepository[T]) FindOneAndUpdate(
	ctx context.Context,
	filter interface{},
	update interface{},
	opts *options.FindOneAndUpdateOptions,
) (T, error) {
	var result T
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&result); err != nil {
		return result, err
	}
	return result, nil
}

// Aggregate decodes the first document of the pipeline output.
func (r *MongoRepository[T]) Aggregate(ctx context.Context, pipeline interface{}, result interface{}) error {
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	if cursor.Next(ctx) {
		return cursor.Decode(result)
	}
	if err := cursor.Err(); err != nil {
		return err
	}
	return mongo.ErrNoDocuments
}

// UpdateOne wraps update in $set
func (r *MongoRepository[T]) UpdateOne(ctx context.Context, filter interface{}, update interface{}) error {
	_, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": update})
	return err
}

// UpdateOneRaw sends update as given, for operator mixes like $set with $inc.
func (r *MongoRepository[T]) UpdateOneRaw(
	ctx context.Context,
	filter interface{},
	update interface{},
	opts ...*options.UpdateOptions,
) (*mongo.UpdateResult, error) {
	return r.collection.UpdateOne(ctx, filter, update, opts...)
}

func (r *MongoRepository[T]) Delete(ctx context.Context, filter interface{}) (*mongo.DeleteResult, error) {
	return r.collection.DeleteOne(ctx, filter)
}

func (r *MongoRepository[T]) FindAll(ctx context.Context, opts ...*options.FindOptions) ([]T, error) {
	return r.Find(ctx, bson.M{}, opts...)
}

func (r *MongoRepository[T]) CountDocuments(ctx context.Context, filter interface{}) (int64, error) {
	return r.collection.CountDocuments(ctx, filter)
}

func (r *MongoRepository[T]) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := r.collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	results := make([]T, 0)
	for cursor.Next(ctx) {
		var entity T
		if err := cursor.Decode(&entity); err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *MongoRepository[T]) UpdateMany(
	ctx context.Context,
	filter interface{},
	update interface{},
) (*mongo.UpdateResult, error) {
	return r.collection.UpdateMany(ctx, filter, update)
}

func (r *MongoRepository[T]) AggregateAll(ctx context.Context, pipeline interface{}, result interface{}) error {
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	return cursor.All(ctx, result)
}
