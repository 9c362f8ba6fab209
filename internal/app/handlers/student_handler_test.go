package handlers

import (
	"errors"
	"net/http"
	"testing"

	"busfee/internal/pkg/apperrors"
	"busfee/internal/pkg/store/models"
	"busfee/internal/service/student"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStudentHandler_CreateStudent(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("created", func(t *testing.T) {
		svc := new(MockStudentService)
		fee := 1200.0
		svc.On("CreateStudent", mock.Anything, mock.MatchedBy(func(r student.StudentRequest) bool {
			return r.Name == "Asha" && r.MonthlyFee != nil && *r.MonthlyFee == fee
		})).Return(&models.Student{StudentProfile: models.StudentProfile{Name: "Asha"}}, nil)

		c, w := newTestContext(http.MethodPost, "/api/students", `{"name":"Asha","monthlyFee":1200}`)
		NewStudentHandler(svc).CreateStudent(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"name":"Asha"`)
		svc.AssertExpectations(t)
	})

	t.Run("malformed body", func(t *testing.T) {
		svc := new(MockStudentService)
		c, w := newTestContext(http.MethodPost, "/api/students", `{"name":`)
		NewStudentHandler(svc).CreateStudent(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "CreateStudent", mock.Anything, mock.Anything)
	})

	t.Run("validation error", func(t *testing.T) {
		svc := new(MockStudentService)
		svc.On("CreateStudent", mock.Anything, mock.Anything).
			Return(nil, apperrors.Validation(errors.New("name is required")))

		c, w := newTestContext(http.MethodPost, "/api/students", `{}`)
		NewStudentHandler(svc).CreateStudent(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "name is required")
	})
}

func TestStudentHandler_ListStudents(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("ok", func(t *testing.T) {
		svc := new(MockStudentService)
		svc.On("ListStudents", mock.Anything).Return([]models.Student{{}, {}}, nil)

		c, w := newTestContext(http.MethodGet, "/api/students", "")
		NewStudentHandler(svc).ListStudents(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, byte('['), w.Body.Bytes()[0])
	})

	t.Run("store failure", func(t *testing.T) {
		svc := new(MockStudentService)
		svc.On("ListStudents", mock.Anything).Return(nil, errors.New("timeout"))

		c, w := newTestContext(http.MethodGet, "/api/students", "")
		NewStudentHandler(svc).ListStudents(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "Failed to fetch students")
	})
}

func TestStudentHandler_GetStudent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	id := primitive.NewObjectID()

	t.Run("found", func(t *testing.T) {
		svc := new(MockStudentService)
		svc.On("GetStudent", mock.Anything, id).Return(&models.Student{ID: id}, nil)

		c, w := newTestContext(http.MethodGet, "/", "", gin.Param{Key: "id", Value: id.Hex()})
		NewStudentHandler(svc).GetStudent(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), id.Hex())
	})

	t.Run("not found", func(t *testing.T) {
		svc := new(MockStudentService)
		svc.On("GetStudent", mock.Anything, id).Return(nil, apperrors.ErrStudentNotFound)

		c, w := newTestContext(http.MethodGet, "/", "", gin.Param{Key: "id", Value: id.Hex()})
		NewStudentHandler(svc).GetStudent(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), msgStudentNotFound)
	})

	t.Run("invalid id", func(t *testing.T) {
		svc := new(MockStudentService)
		c, w := newTestContext(http.MethodGet, "/", "", gin.Param{Key: "id", Value: "123"})
		NewStudentHandler(svc).GetStudent(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
		svc.AssertNotCalled(t, "GetStudent", mock.Anything, mock.Anything)
	})
}

func TestStudentHandler_UpdateStudent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	id := primitive.NewObjectID()
	body := `{"class":"5B"}`

	svc := new(MockStudentService)
	svc.On("UpdateStudent", mock.Anything, id, []byte(body)).
		Return(&models.Student{ID: id, StudentProfile: models.StudentProfile{Class: "5B"}}, nil)

	c, w := newTestContext(http.MethodPut, "/", body, gin.Param{Key: "id", Value: id.Hex()})
	NewStudentHandler(svc).UpdateStudent(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"class":"5B"`)
	svc.AssertExpectations(t)
}

func TestStudentHandler_DeleteStudent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	id := primitive.NewObjectID()

	t.Run("deleted", func(t *testing.T) {
		svc := new(MockStudentService)
		svc.On("DeleteStudent", mock.Anything, id).Return(nil)

		c, w := newTestContext(http.MethodDelete, "/", "", gin.Param{Key: "id", Value: id.Hex()})
		NewStudentHandler(svc).DeleteStudent(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"message":"Student deleted"}`, w.Body.String())
	})

	t.Run("missing", func(t *testing.T) {
		svc := new(MockStudentService)
		svc.On("DeleteStudent", mock.Anything, id).Return(apperrors.ErrStudentNotFound)

		c, w := newTestContext(http.MethodDelete, "/", "", gin.Param{Key: "id", Value: id.Hex()})
		NewStudentHandler(svc).DeleteStudent(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
