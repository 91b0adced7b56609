package handlers

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/gravadigital/encuentro-api/internal/domain/user"
	"github.com/gravadigital/encuentro-api/internal/logger"
	"github.com/gravadigital/encuentro-api/internal/response"
	"github.com/gravadigital/encuentro-api/internal/storage/postgres"
)

type UserHandler struct {
	userRepo   postgres.UserRepository
	courseRepo postgres.CourseRepository
	log        *log.Logger
}

func NewUserHandler(userRepo postgres.UserRepository, courseRepo postgres.CourseRepository) *UserHandler {
	return &UserHandler{
		userRepo:   userRepo,
		courseRepo: courseRepo,
		log:        logger.Handler("user"),
	}
}

// GetAllUsers handles GET /api/v1/users
func (h *UserHandler) GetAllUsers(c *gin.Context) {
	users, err := h.userRepo.GetAll(c.Request.Context())
	if err != nil {
		h.log.Error("failed to list users", "error", err)
		response.Internal(c, "internal server error")
		return
	}

	response.Success(c, http.StatusOK, "", users)
}

// GetUser handles GET /api/v1/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}

	u, err := h.userRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		h.log.Error("failed to get user", "id", id, "error", err)
		response.Internal(c, "internal server error")
		return
	}

	response.Success(c, http.StatusOK, "", u)
}

type updateUserRequest struct {
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	CourseID *uuid.UUID `json:"course_id"`
	Mottos   []string   `json:"mottos"`
}

// UpdateUser handles PUT /api/v1/users/:id. A referenced course must exist,
// matching the explicit resolve-at-point-of-need contract.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request payload")
		return
	}

	existing, err := h.userRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		response.Internal(c, "internal server error")
		return
	}

	if req.Name != "" {
		existing.Name = req.Name
	}
	if req.Email != "" {
		existing.Email = req.Email
	}
	if req.Mottos != nil {
		existing.Mottos = pq.StringArray(req.Mottos)
	}

	if req.CourseID != nil {
		course, err := h.courseRepo.GetByID(c.Request.Context(), *req.CourseID)
		if err != nil {
			if errors.Is(err, postgres.ErrCourseNotFound) {
				response.NotFound(c, "course not found")
				return
			}
			response.Internal(c, "internal server error")
			return
		}
		existing.CourseID = &course.ID
	}

	if err := h.userRepo.Update(c.Request.Context(), existing); err != nil {
		if errors.Is(err, user.ErrEmailExists) {
			response.Error(c, http.StatusConflict, "email_exists", "an account with this email already exists")
			return
		}
		h.log.Error("failed to update user", "id", id, "error", err)
		response.Internal(c, "internal server error")
		return
	}

	response.Success(c, http.StatusOK, "user updated", existing)
}

// DeleteUser handles DELETE /api/v1/users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}

	if err := h.userRepo.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		h.log.Error("failed to delete user", "id", id, "error", err)
		response.Internal(c, "internal server error")
		return
	}

	response.Success(c, http.StatusOK, "user deleted", nil)
}

// GetUserCount handles GET /api/v1/users/get/count
func (h *UserHandler) GetUserCount(c *gin.Context) {
	count, err := h.userRepo.Count(c.Request.Context())
	if err != nil {
		h.log.Error("failed to count users", "error", err)
		response.Internal(c, "internal server error")
		return
	}

	response.Success(c, http.StatusOK, "", gin.H{"user_count": count})
}
