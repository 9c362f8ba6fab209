package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TestModel struct {
	Name string
	Fee  float64
}

type MockMongoRepo struct {
	mock.Mock
}

func (m *MockMongoRepo) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	args := m.Called(ctx, document, opts)
	return args.Get(0).(*mongo.InsertOneResult), args.Error(1)
}

func (m *MockMongoRepo) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult {
	args := m.Called(ctx, filter, opts)
	return args.Get(0).(*mongo.SingleResult)
}

func (m *MockMongoRepo) FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{}, opts ...*options.FindOneAndUpdateOptions) *mongo.SingleResult {
	args := m.Called(ctx, filter, update, opts)
	return args.Get(0).(*mongo.SingleResult)
}

func (m *MockMongoRepo) Aggregate(ctx context.Context, pipeline interface{}, opts ...*options.AggregateOptions) (*mongo.Cursor, error) {
	args := m.Called(ctx, pipeline, opts)
	return args.Get(0).(*mongo.Cursor), args.Error(1)
}

func (m *MockMongoRepo) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	args := m.Called(ctx, filter, update, opts)
	return args.Get(0).(*mongo.UpdateResult), args.Error(1)
}

func (m *MockMongoRepo) UpdateMany(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	args := m.Called(ctx, filter, update, opts)
	return args.Get(0).(*mongo.UpdateResult), args.Error(1)
}

func (m *MockMongoRepo) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	args := m.Called(ctx, filter, opts)
	return args.Get(0).(*mongo.DeleteResult), args.Error(1)
}

func (m *MockMongoRepo) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error) {
	args := m.Called(ctx, filter, opts)
	return args.Get(0).(*mongo.Cursor), args.Error(1)
}

func (m *MockMongoRepo) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	args := m.Called(ctx, filter, opts)
	return args.Get(0).(int64), args.Error(1)
}

func TestCreate(t *testing.T) {
	mockRepo := new(MockMongoRepo)
	repo := NewMongoRepository[TestModel](mockRepo)
	doc := TestModel{Name: "Asha"}

	mockRepo.On("InsertOne", mock.Anything, doc, mock.Anything).
		Return(&mongo.InsertOneResult{InsertedID: "id1"}, nil)

	res, err := repo.Create(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, "id1", res.InsertedID)
}

func TestCreate_Error(t *testing.T) {
	mockRepo := new(MockMongoRepo)
	repo := NewMongoRepository[TestModel](mockRepo)

	mockRepo.On("InsertOne", mock.Anything, mock.Anything, mock.Anything).
		Return((*mongo.InsertOneResult)(nil), assert.AnError)

	res, err := repo.Create(context.Background(), TestModel{})
	assert.ErrorIs(t, err, assert.AnError)
	assert.Nil(t, res)
}

func TestFindOne(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockMongoRepo)
		repo := NewMongoRepository[TestModel](mockRepo)

		expected := TestModel{Name: "Ravi", Fee: 1200}
		mockRepo.On("FindOne", mock.Anything, mock.Anything, mock.Anything).
			Return(mongo.NewSingleResultFromDocument(expected, nil, nil))

		result, err := repo.FindOne(context.Background(), bson.M{"Name": "Ravi"}, nil)
		require.NoError(t, err)
		assert.Equal(t, expected, result)
	})

	t.Run("Error", func(t *testing.T) {
		mockRepo := new(MockMongoRepo)
		repo := NewMongoRepository[TestModel](mockRepo)

		mockRepo.On("FindOne", mock.Anything, mock.Anything, mock.Anything).
			Return(mongo.NewSingleResultFromDocument(bson.D{}, mongo.ErrNoDocuments, nil))

		_, err := repo.FindOne(context.Background(), bson.M{}, nil)
		assert.ErrorIs(t, err, mongo.ErrNoDocuments)
	})
}

func TestFindOneAndUpdate(t *testing.T) {
	mockRepo := new(MockMongoRepo)
	repo := NewMongoRepository[TestModel](mockRepo)

	update := bson.M{"$inc": bson.M{"Fee": 100}}
	mockRepo.On("FindOneAndUpdate", mock.Anything, bson.M{"_id": "global"}, update, mock.Anything).
		Return(mongo.NewSingleResultFromDocument(TestModel{Name: "stats", Fee: 1100}, nil, nil))

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	got, err := repo.FindOneAndUpdate(context.Background(), bson.M{"_id": "global"}, update, opts)
	require.NoError(t, err)
	assert.Equal(t, 1100.0, got.Fee)
	mockRepo.AssertExpectations(t)
}

func TestUpdateOne_WrapsSet(t *testing.T) {
	mockRepo := new(MockMongoRepo)
	repo := NewMongoRepository[TestModel](mockRepo)

	filter := bson.M{"Name": "Asha"}
	mockRepo.On("UpdateOne", mock.Anything, filter, bson.M{"$set": bson.M{"Fee": 900}}, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 1}, nil)

	assert.NoError(t, repo.UpdateOne(context.Background(), filter, bson.M{"Fee": 900}))
	mockRepo.AssertExpectations(t)
}

func TestUpdateOneRaw(t *testing.T) {
	mockRepo := new(MockMongoRepo)
	repo := NewMongoRepository[TestModel](mockRepo)

	update := bson.M{"$set": bson.M{"Fee": 1}, "$inc": bson.M{"version": 1}}
	mockRepo.On("UpdateOne", mock.Anything, mock.Anything, update, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 0}, nil)

	res, err := repo.UpdateOneRaw(context.Background(), bson.M{}, update)
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.MatchedCount)
}

func TestUpdateMany(t *testing.T) {
	mockRepo := new(MockMongoRepo)
	repo := NewMongoRepository[TestModel](mockRepo)

	update := bson.M{"$set": bson.M{"Fee": 0}}
	mockRepo.On("UpdateMany", mock.Anything, bson.M{}, update, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 3, ModifiedCount: 3}, nil)

	res, err := repo.UpdateMany(context.Background(), bson.M{}, update)
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.ModifiedCount)
}

func TestDelete(t *testing.T) {
	mockRepo := new(MockMongoRepo)
	repo := NewMongoRepository[TestModel](mockRepo)

	mockRepo.On("DeleteOne", mock.Anything, bson.M{"Name": "x"}, mock.Anything).
		Return(&mongo.DeleteResult{DeletedCount: 1}, nil)

	res, err := repo.Delete(context.Background(), bson.M{"Name": "x"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.DeletedCount)
}

func TestCountDocuments(t *testing.T) {
	mockRepo := new(MockMongoRepo)
	repo := NewMongoRepository[TestModel](mockRepo)

	mockRepo.On("CountDocuments", mock.Anything, bson.M{"status": "active"}, mock.Anything).Return(int64(7), nil)

	n, err := repo.CountDocuments(context.Background(), bson.M{"status": "active"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
}

func TestFind(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockMongoRepo)
		repo := NewMongoRepository[TestModel](mockRepo)

		cursor, _ := mongo.NewCursorFromDocuments([]interface{}{
			bson.M{"Name": "A", "Fee": 1},
			bson.M{"Name": "B", "Fee": 2},
		}, nil, nil)
		mockRepo.On("Find", mock.Anything, bson.M{}, mock.Anything).Return(cursor, nil)

		results, err := repo.FindAll(context.Background())
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "B", results[1].Name)
	})

	t.Run("Empty result is an empty slice", func(t *testing.T) {
		mockRepo := new(MockMongoRepo)
		repo := NewMongoRepository[TestModel](mockRepo)

		cursor, _ := mongo.NewCursorFromDocuments([]interface{}{}, nil, nil)
		mockRepo.On("Find", mock.Anything, mock.Anything, mock.Anything).Return(cursor, nil)

		results, err := repo.Find(context.Background(), bson.M{"Name": "none"})
		require.NoError(t, err)
		assert.NotNil(t, results)
		assert.Empty(t, results)
	})

	t.Run("Error", func(t *testing.T) {
		mockRepo := new(MockMongoRepo)
		repo := NewMongoRepository[TestModel](mockRepo)

		mockRepo.On("Find", mock.Anything, mock.Anything, mock.Anything).
			Return((*mongo.Cursor)(nil), assert.AnError)

		results, err := repo.Find(context.Background(), bson.M{})
		assert.Error(t, err)
		assert.Nil(t, results)
	})
}

func TestAggregate(t *testing.T) {
	t.Run("first document", func(t *testing.T) {
		mockRepo := new(MockMongoRepo)
		repo := NewMongoRepository[TestModel](mockRepo)

		cursor, _ := mongo.NewCursorFromDocuments([]interface{}{bson.M{"Name": "sum", "Fee": 4200}}, nil, nil)
		mockRepo.On("Aggregate", mock.Anything, mock.Anything, mock.Anything).Return(cursor, nil)

		var result TestModel
		require.NoError(t, repo.Aggregate(context.Background(), bson.A{}, &result))
		assert.Equal(t, 4200.0, result.Fee)
	})

	t.Run("no documents", func(t *testing.T) {
		mockRepo := new(MockMongoRepo)
		repo := NewMongoRepository[TestModel](mockRepo)

		cursor, _ := mongo.NewCursorFromDocuments([]interface{}{}, nil, nil)
		mockRepo.On("Aggregate", mock.Anything, mock.Anything, mock.Anything).Return(cursor, nil)

		var result TestModel
		assert.Equal(t, mongo.ErrNoDocuments, repo.Aggregate(context.Background(), bson.A{}, &result))
	})

	t.Run("error before cursor", func(t *testing.T) {
		mockRepo := new(MockMongoRepo)
		repo := NewMongoRepository[TestModel](mockRepo)

		mockRepo.On("Aggregate", mock.Anything, mock.Anything, mock.Anything).
			Return((*mongo.Cursor)(nil), assert.AnError)

		var result TestModel
		assert.Error(t, repo.Aggregate(context.Background(), bson.A{}, &result))
	})
}

func TestAggregateAll(t *testing.T) {
	mockRepo := new(MockMongoRepo)
	repo := NewMongoRepository[TestModel](mockRepo)

	cursor, _ := mongo.NewCursorFromDocuments([]interface{}{
		bson.M{"Name": "A", "Fee": 20},
		bson.M{"Name": "B", "Fee": 25},
	}, nil, nil)
	mockRepo.On("Aggregate", mock.Anything, mock.Anything, mock.Anything).Return(cursor, nil)

	var results []TestModel
	require.NoError(t, repo.AggregateAll(context.Background(), bson.A{}, &results))
	assert.Len(t, results, 2)
}

func TestGetCollection(t *testing.T) {
	mockRepo := new(MockMongoRepo)
	repo := NewMongoRepository[TestModel](mockRepo)

	assert.Equal(t, mockRepo, repo.GetCollection())
}
