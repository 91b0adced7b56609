package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gravadigital/encuentro-api/internal/domain/event"
	"github.com/gravadigital/encuentro-api/internal/logger"
)

// ErrEventNotFound is returned when no event matches the lookup.
var ErrEventNotFound = errors.New("event not found")

// PostgresEventRepository implements EventRepository using GORM
type PostgresEventRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewPostgresEventRepository creates a new PostgreSQL event repository
func NewPostgresEventRepository(db *gorm.DB) *PostgresEventRepository {
	return &PostgresEventRepository{
		db:  db,
		log: logger.Repository("event"),
	}
}

// Create persists the event together with its attachment list in a single
// write. GORM inserts the association rows inside one transaction, so the
// record and its attachment list can never diverge on creation.
func (r *PostgresEventRepository) Create(ctx context.Context, e *event.Event) error {
	r.log.Debug("creating event", "name", e.Name, "attachments", len(e.Attachments))

	if err := e.Validate(); err != nil {
		return fmt.Errorf("event validation failed: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(e).Error; err != nil {
		r.log.Error("failed to create event", "name", e.Name, "error", err)
		return fmt.Errorf("failed to create event: %w", err)
	}

	r.log.Info("event created", "id", e.ID, "attachments", len(e.Attachments))
	return nil
}

func (r *PostgresEventRepository) GetByID(ctx context.Context, id uuid.UUID) (*event.Event, error) {
	var e event.Event
	err := r.db.WithContext(ctx).
		Preload("Attachments", func(db *gorm.DB) *gorm.DB {
			return db.Order("event_attachments.position ASC")
		}).
		First(&e, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		r.log.Error("failed to get event by id", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get event by id: %w", err)
	}
	return &e, nil
}

func (r *PostgresEventRepository) GetAll(ctx context.Context) ([]*event.Event, error) {
	var events []*event.Event
	err := r.db.WithContext(ctx).
		Preload("Attachments", func(db *gorm.DB) *gorm.DB {
			return db.Order("event_attachments.position ASC")
		}).
		Order("start_at DESC").
		Find(&events).Error
	if err != nil {
		r.log.Error("failed to get all events", "error", err)
		return nil, fmt.Errorf("failed to get all events: %w", err)
	}
	return events, nil
}

// Update patches the given scalar columns and appends new attachments after
// the existing ones, in one transaction. Fields absent from the patch keep
// their stored values and existing attachments are never touched.
func (r *PostgresEventRepository) Update(ctx context.Context, id uuid.UUID, patch map[string]interface{}, newAttachments []event.Attachment) (*event.Event, error) {
	r.log.Debug("updating event", "id", id, "patched_fields", len(patch), "new_attachments", len(newAttachments))

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing event.Event
		if err := tx.Preload("Attachments").First(&existing, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}
			return fmt.Errorf("failed to load event for update: %w", err)
		}

		if len(patch) > 0 {
			if err := tx.Model(&event.Event{}).Where("id = ?", id).Updates(patch).Error; err != nil {
				return fmt.Errorf("failed to patch event: %w", err)
			}
		}

		if len(newAttachments) > 0 {
			next := len(existing.Attachments)
			for i := range newAttachments {
				newAttachments[i].EventID = id
				newAttachments[i].Position = next + i
			}
			if err := tx.Create(&newAttachments).Error; err != nil {
				return fmt.Errorf("failed to append attachments: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrEventNotFound) {
			r.log.Error("failed to update event", "id", id, "error", err)
		}
		return nil, err
	}

	updated, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	r.log.Info("event updated", "id", id, "attachments", len(updated.Attachments))
	return updated, nil
}

// Delete removes the event record. The caller is responsible for releasing
// the remote blobs first; attachment rows go with the event via the cascade.
func (r *PostgresEventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&event.Event{}, "id = ?", id)
	if result.Error != nil {
		r.log.Error("failed to delete event", "id", id, "error", result.Error)
		return fmt.Errorf("failed to delete event: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrEventNotFound
	}

	r.log.Info("event deleted", "id", id)
	return nil
}
