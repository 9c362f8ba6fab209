package students

import (
	"context"
	"errors"
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
	"busfee/internal/service/ledger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// StudentsRepository implements the StudentsRepoInterface
type StudentsRepository struct {
	repo             *repository.MongoRepository[models.Student]
	create           func(ctx context.Context, document interface{}) (*mongo.InsertOneResult, error)
	findOne          func(ctx context.Context, filter interface{}, opt *options.FindOneOptions) (models.Student, error)
	find             func(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Student, error)
	findOneAndUpdate func(ctx context.Context, filter interface{}, update interface{},
		opts *options.FindOneAndUpdateOptions) (models.Student, error)
	updateOneRaw func(ctx context.Context, filter interface{}, update interface{},
		opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	updateMany     func(ctx context.Context, filter interface{}, update interface{}) (*mongo.UpdateResult, error)
	deleteOne      func(ctx context.Context, filter interface{}) (*mongo.DeleteResult, error)
	countDocuments func(ctx context.Context, filter interface{}) (int64, error)
	aggregate      func(ctx context.Context, pipeline interface{}, result interface{}) error
	aggregateAll   func(ctx context.Context, pipeline interface{}, result interface{}) error
	now            func() time.Time
}

// Ensure StudentsRepository implements the StudentsRepoInterface
var _ interfaces.StudentsRepoInterface = (*StudentsRepository)(nil)

func NewStudentsRepository(client *mongodb.MongoClient) interfaces.StudentsRepoInterface {
	collection := client.Database.Collection(consts.StudentsCollection)
	return newStudentsRepository(repository.NewMongoRepository[models.Student](collection))
}

func newStudentsRepository(repo *repository.MongoRepository[models.Student]) *StudentsRepository {
	return &StudentsRepository{
		repo:             repo,
		create:           repo.Create,
		findOne:          repo.FindOne,
		find:             repo.Find,
		findOneAndUpdate: repo.FindOneAndUpdate,
		updateOneRaw:     repo.UpdateOneRaw,
		updateMany:       repo.UpdateMany,
		deleteOne:        repo.Delete,
		countDocuments:   repo.CountDocuments,
		aggregate:        repo.Aggregate,
		aggregateAll:     repo.AggregateAll,
		now:              time.Now,
	}
}

func (r *StudentsRepository) CreateStudent(ctx context.Context, student *models.Student) (primitive.ObjectID, error) {
	if student.ID.IsZero() {
		student.ID = primitive.NewObjectID()
	}
	result, err := r.create(ctx, student)
	if err != nil {
		logger.CtxError(ctx, log_messages.ErrorCreatingStudent, err, slog.String("name", student.Name))
		return primitive.ObjectID{}, apperrors.Persistence("create student", err)
	}
	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		id = student.ID
	}
	logger.CtxInfo(ctx, log_messages.StudentCreated, slog.String("studentId", id.Hex()))
	return id, nil
}

func (r *StudentsRepository) GetStudentByID(ctx context.Context, id primitive.ObjectID) (*models.Student, error) {
	student, err := r.findOne(ctx, bson.M{"_id": id}, nil)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			logger.CtxWarn(ctx, log_messages.StudentNotFoundForID, slog.String("studentId", id.Hex()))
			return nil, apperrors.ErrStudentNotFound
		}
		logger.CtxError(ctx, log_messages.ErrorFindingStudent, err, slog.String("studentId", id.Hex()))
		return nil, apperrors.Persistence("find student", err)
	}
	return &student, nil
}

func (r *StudentsRepository) list(ctx context.Context, filter bson.M) ([]models.Student, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	students, err := r.find(ctx, filter, opts)
	if err != nil {
		logger.CtxError(ctx, log_messages.ErrorListingStudents, err)
		return nil, apperrors.Persistence("list students", err)
	}
	return students, nil
}

func (r *StudentsRepository) ListStudents(ctx context.Context) ([]models.Student, error) {
	return r.list(ctx, bson.M{})
}

func (r *StudentsRepository) ListActiveStudents(ctx context.Context) ([]models.Student, error) {
	return r.list(ctx, bson.M{"status": consts.StudentStatusActive})
}

func (r *StudentsRepository) ListActivePendingStudents(ctx context.Context) ([]models.Student, error) {
	return r.list(ctx, bson.M{
		"status":    consts.StudentStatusActive,
		"dueAmount": bson.M{"$gt": 0},
	})
}

// UpdateProfile replaces the editable profile fields and the monthly fee. The
// new fee takes effect at the next rollover; due and credit are left alone.
func (r *StudentsRepository) UpdateProfile(
	ctx context.Context,
	id primitive.ObjectID,
	profile models.StudentProfile,
	monthlyFee float64,
) (*models.Student, error) {
	set := bson.M{
		"name":                 profile.Name,
		"class":                profile.Class,
		"schoolName":           profile.SchoolName,
		"pickupLocation":       profile.PickupLocation,
		"dropLocation":         profile.DropLocation,
		"contactInfo":          profile.ContactInfo,
		"status":               profile.Status,
		"fathersName":          profile.FathersName,
		"mothersName":          profile.MothersName,
		"gender":               profile.Gender,
		"dob":                  profile.DOB,
		"address":              profile.Address,
		"dateOfJoining":        profile.DateOfJoining,
		"fathersContactNumber": profile.FathersContactNumber,
		"monthlyFee":           monthlyFee,
		"updatedAt":            r.now(),
	}
	update := bson.M{"$set": set, "$inc": bson.M{"version": 1}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	student, err := r.findOneAndUpdate(ctx, bson.M{"_id": id}, update, opts)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			logger.CtxWarn(ctx, log_messages.StudentNotFoundForID, slog.String("studentId", id.Hex()))
			return nil, apperrors.ErrStudentNotFound
		}
		logger.CtxError(ctx, log_messages.ErrorUpdatingStudent, err, slog.String("studentId", id.Hex()))
		return nil, apperrors.Persistence("update student", err)
	}
	return &student, nil
}

func (r *StudentsRepository) DeleteStudent(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.deleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		logger.CtxError(ctx, log_messages.ErrorDeletingStudent, err, slog.String("studentId", id.Hex()))
		return apperrors.Persistence("delete student", err)
	}
	if result.DeletedCount == 0 {
		logger.CtxWarn(ctx, log_messages.StudentNotFoundForID, slog.String("studentId", id.Hex()))
		return apperrors.ErrStudentNotFound
	}
	return nil
}

func (r *StudentsRepository) SaveLedger(
	ctx context.Context,
	id primitive.ObjectID,
	expectedVersion int64,
	l ledger.StudentLedger,
) error {
	filter := bson.M{"_id": id, "version": expectedVersion}
	update := bson.M{
		"$set": bson.M{
			"monthlyFee":     l.MonthlyFee,
			"dueAmount":      l.DueAmount,
			"extraPaid":      l.ExtraPaid,
			"totalCollected": l.TotalCollected,
			"paymentStatus":  l.PaymentStatus,
			"paymentHistory": l.PaymentHistory,
			"lastPayment":    l.LastPayment,
			"lastRolloverAt": l.LastRolloverAt,
			"updatedAt":      r.now(),
		},
		"$inc": bson.M{"version": 1},
	}

	result, err := r.updateOneRaw(ctx, filter, update)
	if err != nil {
		logger.CtxError(ctx, log_messages.ErrorSavingLedger, err, slog.String("studentId", id.Hex()))
		return apperrors.Persistence("save ledger", err)
	}
	if result.MatchedCount == 0 {
		logger.CtxWarn(ctx, log_messages.LedgerVersionConflict,
			slog.String("studentId", id.Hex()),
			slog.Int64("expectedVersion", expectedVersion))
		return apperrors.ErrVersionConflict
	}
	return nil
}

func (r *StudentsRepository) GetActiveStudentsCursor(ctx context.Context, batchSize int32) (*mongo.Cursor, error) {
	opts := options.Find().SetBatchSize(batchSize)
	cursor, err := r.repo.GetCollection().Find(ctx, bson.M{"status": consts.StudentStatusActive}, opts)
	if err != nil {
		logger.CtxError(ctx, log_messages.ErrorListingStudents, err)
		return nil, apperrors.Persistence("stream active students", err)
	}
	return cursor, nil
}

func (r *StudentsRepository) ResetTotals(ctx context.Context) (int64, error) {
	update := bson.M{"$set": bson.M{
		"totalCollected": 0.0,
		"extraPaid":      0.0,
		"updatedAt":      r.now(),
	}}
	result, err := r.updateMany(ctx, bson.M{}, update)
	if err != nil {
		logger.CtxError(ctx, log_messages.ErrorResettingTotals, err)
		return 0, apperrors.Persistence("reset totals", err)
	}
	return result.MatchedCount, nil
}

func activeFilter(activeOnly bool) bson.M {
	if activeOnly {
		return bson.M{"status": consts.StudentStatusActive}
	}
	return bson.M{}
}

func (r *StudentsRepository) CountStudents(ctx context.Context, activeOnly bool) (int64, error) {
	n, err := r.countDocuments(ctx, activeFilter(activeOnly))
	if err != nil {
		logger.CtxError(ctx, log_messages.ErrorCountingStudents, err)
		return 0, apperrors.Persistence("count students", err)
	}
	return n, nil
}

func (r *StudentsRepository) CountPendingStudents(ctx context.Context) (int64, error) {
	n, err := r.countDocuments(ctx, bson.M{"paymentStatus": ledger.StatusPending})
	if err != nil {
		logger.CtxError(ctx, log_messages.ErrorCountingStudents, err)
		return 0, apperrors.Persistence("count pending students", err)
	}
	return n, nil
}

// sum runs a pipeline ending in a single null-keyed $group. An empty input
// yields 0.
func (r *StudentsRepository) sum(ctx context.Context, op string, pipeline mongo.Pipeline) (float64, error) {
	var result models.SumResult
	if err := r.aggregate(ctx, pipeline, &result); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, nil
		}
		logger.CtxError(ctx, log_messages.ErrorAggregatingPayments, err, slog.String("op", op))
		return 0, apperrors.Persistence(op, err)
	}
	return result.Total, nil
}

func groupTotal(field string) bson.D {
	return bson.D{{Key: "$group", Value: bson.D{
		{Key: "_id", Value: nil},
		{Key: "total", Value: bson.D{{Key: "$sum", Value: field}}},
	}}}
}

func (r *StudentsRepository) SumDueAmount(ctx context.Context, activeOnly bool) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: activeFilter(activeOnly)}},
		groupTotal("$dueAmount"),
	}
	return r.sum(ctx, "sum due amount", pipeline)
}

func (r *StudentsRepository) SumLastPaymentsSince(ctx context.Context, since time.Time) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{
			{Key: "status", Value: consts.StudentStatusActive},
			{Key: "lastPayment.date", Value: bson.D{{Key: "$gte", Value: since}}},
		}}},
		groupTotal("$lastPayment.amount"),
	}
	return r.sum(ctx, "sum last payments", pipeline)
}

func (r *StudentsRepository) SumPaymentsSince(ctx context.Context, since time.Time) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$unwind", Value: "$paymentHistory"}},
		{{Key: "$match", Value: bson.D{{Key: "paymentHistory.date", Value: bson.D{{Key: "$gte", Value: since}}}}}},
		groupTotal("$paymentHistory.amount"),
	}
	return r.sum(ctx, "sum payments", pipeline)
}

func recentPaymentsPipeline(match bson.M, limit int64, date interface{}) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$unwind", Value: "$paymentHistory"}},
		{{Key: "$sort", Value: bson.D{{Key: "paymentHistory.date", Value: -1}}}},
		{{Key: "$limit", Value: limit}},
		{{Key: "$project", Value: bson.D{
			{Key: "studentName", Value: "$name"},
			{Key: "amount", Value: "$paymentHistory.amount"},
			{Key: "date", Value: date},
			{Key: "mode", Value: "$paymentHistory.mode"},
			{Key: "dueAmount", Value: "$dueAmount"},
		}}},
	}
}

// RecentPayments returns the newest history entries of active students with
// the date rendered as yyyy-mm-dd.
func (r *StudentsRepository) RecentPayments(ctx context.Context, limit int64) ([]models.RecentPayment, error) {
	date := bson.D{{Key: "$dateToString", Value: bson.D{
		{Key: "format", Value: consts.MongoDateFormat},
		{Key: "date", Value: "$paymentHistory.date"},
	}}}
	results := make([]models.RecentPayment, 0, limit)
	pipeline := recentPaymentsPipeline(bson.M{"status": consts.StudentStatusActive}, limit, date)
	if err := r.aggregateAll(ctx, pipeline, &results); err != nil {
		logger.CtxError(ctx, log_messages.ErrorAggregatingPayments, err)
		return nil, apperrors.Persistence("recent payments", err)
	}
	return results, nil
}

// RecentPaymentEntries returns the newest history entries across all students.
func (r *StudentsRepository) RecentPaymentEntries(ctx context.Context, limit int64) ([]models.PaymentEntry, error) {
	results := make([]models.PaymentEntry, 0, limit)
	pipeline := recentPaymentsPipeline(bson.M{}, limit, "$paymentHistory.date")
	if err := r.aggregateAll(ctx, pipeline, &results); err != nil {
		logger.CtxError(ctx, log_messages.ErrorAggregatingPayments, err)
		return nil, apperrors.Persistence("recent payment entries", err)
	}
	return results, nil
}

