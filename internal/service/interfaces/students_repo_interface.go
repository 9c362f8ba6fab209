package interfaces

import (
	"context"
	"time"

	"busfee/internal/pkg/store/models"
	"busfee/internal/service/ledger"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type StudentsRepoInterface interface {
	CreateStudent(ctx context.Context, student *models.Student) (primitive.ObjectID, error)
	GetStudentByID(ctx context.Context, id primitive.ObjectID) (*models.Student, error)
	ListStudents(ctx context.Context) ([]models.Student, error)
	ListActiveStudents(ctx context.Context) ([]models.Student, error)
	ListActivePendingStudents(ctx context.Context) ([]models.Student, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, profile models.StudentProfile,
		monthlyFee float64) (*models.Student, error)
	DeleteStudent(ctx context.Context, id primitive.ObjectID) error

	// SaveLedger writes l only if the stored version still equals expectedVersion.
	SaveLedger(ctx context.Context, id primitive.ObjectID, expectedVersion int64, l ledger.StudentLedger) error
	GetActiveStudentsCursor(ctx context.Context, batchSize int32) (*mongo.Cursor, error)
	ResetTotals(ctx context.Context) (int64, error)

	CountStudents(ctx context.Context, activeOnly bool) (int64, error)
	CountPendingStudents(ctx context.Context) (int64, error)
	SumDueAmount(ctx context.Context, activeOnly bool) (float64, error)
	SumLastPaymentsSince(ctx context.Context, since time.Time) (float64, error)
	SumPaymentsSince(ctx context.Context, since time.Time) (float64, error)
	RecentPayments(ctx context.Context, limit int64) ([]models.RecentPayment, error)
	RecentPaymentEntries(ctx context.Context, limit int64) ([]models.PaymentEntry, error)
}
