package handler

import (
	"fmt"
	"net/http"

	"school-library-backend/internal/domains/student/model"
	"school-library-backend/internal/domains/student/service"
	"school-library-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service service.ServiceInterface
}

func NewHandler(service service.ServiceInterface) *Handler {
	return &Handler{service: service}
}

// ListStudents - GET /api/students?search=
func (h *Handler) ListStudents(c *gin.Context) {
	students, err := h.service.ListStudents(c.Request.Context(), model.StudentFilter{Search: c.Query("search")})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, students)
}

// GetStudent - GET /api/students/:id
func (h *Handler) GetStudent(c *gin.Context) {
	student, err := h.service.GetStudent(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, student)
}

// CreateStudent - POST /api/students
func (h *Handler) CreateStudent(c *gin.Context) {
	var req model.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, fmt.Sprintf("Invalid request data: %v", err))
		return
	}

	student, err := h.service.CreateStudent(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, student)
}

// UpdateStudent - PUT/PATCH /api/students/:id
func (h *Handler) UpdateStudent(c *gin.Context) {
	var req model.UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, fmt.Sprintf("Invalid request data: %v", err))
		return
	}

	student, err := h.service.UpdateStudent(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, student)
}

// DeleteStudent - DELETE /api/students/:id
func (h *Handler) DeleteStudent(c *gin.Context) {
	id := c.Param("id")

	result, err := h.service.DeleteStudent(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	if !result.Deleted {
		response.FromError(c, model.NewStudentNotFoundError(id))
		return
	}
	c.Status(http.StatusNoContent)
}

// GetBorrowCount - GET /api/students/:id/borrow-count
func (h *Handler) GetBorrowCount(c *gin.Context) {
	result, err := h.service.GetBorrowCount(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}
