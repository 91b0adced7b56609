package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gravadigital/encuentro-api/internal/domain/course"
	"github.com/gravadigital/encuentro-api/internal/logger"
)

// ErrCourseNotFound is returned when no course matches the lookup.
var ErrCourseNotFound = errors.New("course not found")

// PostgresCourseRepository implements CourseRepository using GORM
type PostgresCourseRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewPostgresCourseRepository creates a new PostgreSQL course repository
func NewPostgresCourseRepository(db *gorm.DB) *PostgresCourseRepository {
	return &PostgresCourseRepository{
		db:  db,
		log: logger.Repository("course"),
	}
}

func (r *PostgresCourseRepository) Create(ctx context.Context, c *course.Course) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("course validation failed: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		r.log.Error("failed to create course", "name", c.Name, "error", err)
		return fmt.Errorf("failed to create course: %w", err)
	}

	r.log.Info("course created", "id", c.ID, "name", c.Name)
	return nil
}

func (r *PostgresCourseRepository) GetByID(ctx context.Context, id uuid.UUID) (*course.Course, error) {
	var c course.Course
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		r.log.Error("failed to get course by id", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get course by id: %w", err)
	}
	return &c, nil
}

func (r *PostgresCourseRepository) GetAll(ctx context.Context) ([]*course.Course, error) {
	var courses []*course.Course
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&courses).Error; err != nil {
		r.log.Error("failed to get all courses", "error", err)
		return nil, fmt.Errorf("failed to get all courses: %w", err)
	}
	return courses, nil
}
