package postgres

import (
	"fmt"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"

	"github.com/gravadigital/encuentro-api/internal/config"
	"github.com/gravadigital/encuentro-api/internal/logger"
)

// Container bundles the repositories behind one connection.
type Container struct {
	db            *gorm.DB
	log           *log.Logger
	userRepo      UserRepository
	eventRepo     EventRepository
	courseRepo    CourseRepository
	sentimentRepo SentimentRepository
}

// NewContainer connects to the database, runs migrations and initializes all
// repositories.
func NewContainer(cfg *config.Config) (*Container, error) {
	log := logger.Repository("postgres_container")
	log.Info("Initializing PostgreSQL repository container...")

	db, err := Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	container := NewContainerWithDB(db)
	if err := container.Health(); err != nil {
		return nil, fmt.Errorf("container health check failed: %w", err)
	}

	log.Info("PostgreSQL repository container initialized successfully")
	return container, nil
}

// NewContainerWithDB creates a container with an existing database connection
func NewContainerWithDB(db *gorm.DB) *Container {
	return &Container{
		db:            db,
		log:           logger.Repository("postgres_container"),
		userRepo:      NewPostgresUserRepository(db),
		eventRepo:     NewPostgresEventRepository(db),
		courseRepo:    NewPostgresCourseRepository(db),
		sentimentRepo: NewPostgresSentimentRepository(db),
	}
}

// Users returns the user repository
func (c *Container) Users() UserRepository {
	return c.userRepo
}

// Events returns the event repository
func (c *Container) Events() EventRepository {
	return c.eventRepo
}

// Courses returns the course repository
func (c *Container) Courses() CourseRepository {
	return c.courseRepo
}

// Sentiments returns the sentiment repository
func (c *Container) Sentiments() SentimentRepository {
	return c.sentimentRepo
}

// Health checks the underlying connection
func (c *Container) Health() error {
	return HealthCheck(c.db)
}

// Close closes the underlying connection
func (c *Container) Close() error {
	return Close(c.db)
}
