package student

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"busfee/internal/pkg/apperrors"
	"busfee/internal/pkg/consts"
	"busfee/internal/pkg/log_messages"
	"busfee/internal/pkg/logger"
	"busfee/internal/pkg/store/models"
	"busfee/internal/service/interfaces"
	"busfee/internal/service/ledger"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var validate = validator.New()

type StudentServiceInterface interface {
	CreateStudent(ctx context.Context, req StudentRequest) (*models.Student, error)
	ListStudents(ctx context.Context) ([]models.Student, error)
	GetStudent(ctx context.Context, id primitive.ObjectID) (*models.Student, error)
	UpdateStudent(ctx context.Context, id primitive.ObjectID, body []byte) (*models.Student, error)
	DeleteStudent(ctx context.Context, id primitive.ObjectID) error
}

type StudentService struct {
	StudentsRepo interfaces.StudentsRepoInterface
	now          func() time.Time
}

var _ StudentServiceInterface = (*StudentService)(nil)

func NewStudentService(studentsRepo interfaces.StudentsRepoInterface) *StudentService {
	return &StudentService{StudentsRepo: studentsRepo, now: time.Now}
}

func validateRequest(req *StudentRequest) error {
	if req.Status == "" {
		req.Status = consts.StudentStatusActive
	}
	if err := validate.Struct(req); err != nil {
		return apperrors.Validation(err)
	}
	return nil
}

// CreateStudent enrols a student. The opening due is charged from the join
// date when one is given.
func (s *StudentService) CreateStudent(ctx context.Context, req StudentRequest) (*models.Student, error) {
	if err := validateRequest(&req); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	profile := req.Profile()
	student := &models.Student{
		StudentProfile: profile,
		StudentLedger:  ledger.NewLedger(*req.MonthlyFee, profile.DateOfJoining, now),
		Version:        1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	id, err := s.StudentsRepo.CreateStudent(ctx, student)
	if err != nil {
		return nil, err
	}
	student.ID = id
	logger.CtxInfo(ctx, log_messages.StudentCreated,
		slog.String("studentId", id.Hex()),
		slog.Float64("dueAmount", student.DueAmount))
	return student, nil
}

func (s *StudentService) ListStudents(ctx context.Context) ([]models.Student, error) {
	return s.StudentsRepo.ListStudents(ctx)
}

func (s *StudentService) GetStudent(ctx context.Context, id primitive.ObjectID) (*models.Student, error) {
	return s.StudentsRepo.GetStudentByID(ctx, id)
}

// UpdateStudent merges body over the stored profile. Ledger fields in the
// body are ignored; only payments and rollover move the ledger.
func (s *StudentService) UpdateStudent(ctx context.Context, id primitive.ObjectID, body []byte) (*models.Student, error) {
	existing, err := s.StudentsRepo.GetStudentByID(ctx, id)
	if err != nil {
		return nil, err
	}

	req := requestFromStudent(existing)
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, apperrors.Validation(err)
	}
	if err := validateRequest(&req); err != nil {
		return nil, err
	}

	return s.StudentsRepo.UpdateProfile(ctx, id, req.Profile(), *req.MonthlyFee)
}

func (s *StudentService) DeleteStudent(ctx context.Context, id primitive.ObjectID) error {
	return s.StudentsRepo.DeleteStudent(ctx, id)
}
