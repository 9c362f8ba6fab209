package handlers

import (
	"io"
	"net/http"

	"busfee/internal/pkg/apperrors"
	"busfee/internal/service/student"

	"github.com/gin-gonic/gin"
)

type StudentHandler struct {
	service student.StudentServiceInterface
}

func NewStudentHandler(service student.StudentServiceInterface) *StudentHandler {
	return &StudentHandler{service: service}
}

func (h *StudentHandler) CreateStudent(c *gin.Context) {
	var body student.StudentRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, apperrors.Validation(err), "Failed to create student")
		return
	}
	created, err := h.service.CreateStudent(c.Request.Context(), body)
	if err != nil {
		respondError(c, err, "Failed to create student")
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *StudentHandler) ListStudents(c *gin.Context) {
	students, err := h.service.ListStudents(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to fetch students")
		return
	}
	c.JSON(http.StatusOK, students)
}

func (h *StudentHandler) GetStudent(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err, "")
		return
	}
	s, err := h.service.GetStudent(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to fetch student")
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *StudentHandler) UpdateStudent(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err, "")
		return
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondError(c, apperrors.Validation(err), "Failed to update student")
		return
	}
	updated, err := h.service.UpdateStudent(c.Request.Context(), id, body)
	if err != nil {
		respondError(c, err, "Failed to update student")
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *StudentHandler) DeleteStudent(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err, "")
		return
	}
	if err := h.service.DeleteStudent(c.Request.Context(), id); err != nil {
		respondError(c, err, "Failed to delete student")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Student deleted"})
}
