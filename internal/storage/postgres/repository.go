package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/gravadigital/encuentro-api/internal/domain/course"
	"github.com/gravadigital/encuentro-api/internal/domain/event"
	"github.com/gravadigital/encuentro-api/internal/domain/sentiment"
	"github.com/gravadigital/encuentro-api/internal/domain/user"
)

// UserRepository define los métodos para interactuar con los usuarios en la DB.
// Lookup misses return user.ErrNotFound; inserts hitting the unique email
// index return user.ErrEmailExists.
type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	GetAll(ctx context.Context) ([]*user.User, error)
	Update(ctx context.Context, u *user.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

// EventRepository define los métodos para interactuar con los eventos.
// Create persists the event and its attachment list in one write; Update
// patches scalar fields and appends new attachments in one transaction.
type EventRepository interface {
	Create(ctx context.Context, e *event.Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*event.Event, error)
	GetAll(ctx context.Context) ([]*event.Event, error)
	Update(ctx context.Context, id uuid.UUID, patch map[string]interface{}, newAttachments []event.Attachment) (*event.Event, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CourseRepository define los métodos para interactuar con los cursos.
type CourseRepository interface {
	Create(ctx context.Context, c *course.Course) error
	GetByID(ctx context.Context, id uuid.UUID) (*course.Course, error)
	GetAll(ctx context.Context) ([]*course.Course, error)
}

// SentimentRepository define los métodos para interactuar con los análisis de
// sentimiento almacenados.
type SentimentRepository interface {
	Create(ctx context.Context, s *sentiment.Sentiment) error
	GetAll(ctx context.Context) ([]*sentiment.Sentiment, error)
}
