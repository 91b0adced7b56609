package handlers

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gravadigital/encuentro-api/internal/domain/course"
	"github.com/gravadigital/encuentro-api/internal/logger"
	"github.com/gravadigital/encuentro-api/internal/response"
	"github.com/gravadigital/encuentro-api/internal/storage/postgres"
)

type CourseHandler struct {
	courseRepo postgres.CourseRepository
	log        *log.Logger
}

func NewCourseHandler(courseRepo postgres.CourseRepository) *CourseHandler {
	return &CourseHandler{
		courseRepo: courseRepo,
		log:        logger.Handler("course"),
	}
}

type createCourseRequest struct {
	Name         string `json:"name" binding:"required"`
	Department   string `json:"department" binding:"required"`
	Organization string `json:"organization" binding:"required"`
}

// CreateCourse handles POST /api/v1/course
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var req createCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "name, department and organization are required")
		return
	}

	record := &course.Course{
		Name:         req.Name,
		Department:   req.Department,
		Organization: req.Organization,
	}
	if err := h.courseRepo.Create(c.Request.Context(), record); err != nil {
		h.log.Error("failed to create course", "error", err)
		response.Internal(c, "internal server error")
		return
	}

	response.Success(c, http.StatusCreated, "course created", record)
}

// GetAllCourses handles GET /api/v1/course
func (h *CourseHandler) GetAllCourses(c *gin.Context) {
	courses, err := h.courseRepo.GetAll(c.Request.Context())
	if err != nil {
		h.log.Error("failed to list courses", "error", err)
		response.Internal(c, "internal server error")
		return
	}

	response.Success(c, http.StatusOK, "", courses)
}

// GetCourse handles GET /api/v1/course/:id
func (h *CourseHandler) GetCourse(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid course id")
		return
	}

	record, err := h.courseRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, postgres.ErrCourseNotFound) {
			response.NotFound(c, "course not found")
			return
		}
		h.log.Error("failed to get course", "id", id, "error", err)
		response.Internal(c, "internal server error")
		return
	}

	response.Success(c, http.StatusOK, "", record)
}
