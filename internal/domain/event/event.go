package event

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Event is a published campus event. Its attachment list references blobs in
// the external object store: the list must never name a blob that does not
// exist remotely, and must include every blob the uploader reported as
// created for this event.
type Event struct {
	ID            uuid.UUID    `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Name          string       `json:"name" gorm:"not null"`
	Description   string       `json:"description" gorm:"not null"`
	Location      string       `json:"location" gorm:"not null"`
	StartAt       time.Time    `json:"start_at" gorm:"not null"`
	EndAt         time.Time    `json:"end_at" gorm:"not null"`
	OrganizerID   uuid.UUID    `json:"organizer_id" gorm:"type:uuid;not null"`
	OrganizerName string       `json:"organizer_name" gorm:"not null"`
	Organization  string       `json:"organization" gorm:"not null"`
	Attachments   []Attachment `json:"attachments" gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time    `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time    `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName overrides the table name used by GORM
func (Event) TableName() string {
	return "events"
}

// BeforeCreate sets a UUID before creating the record
func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// Attachment references one binary object in the external store. Attachments
// are owned by exactly one event, appended in upload order, and removed only
// together with the owning event.
type Attachment struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	EventID  uuid.UUID `json:"event_id" gorm:"type:uuid;not null;index"`
	RemoteID string    `json:"remote_id" gorm:"not null"`
	URL      string    `json:"url" gorm:"not null"`
	Position int       `json:"position" gorm:"not null"`
}

// TableName overrides the table name used by GORM
func (Attachment) TableName() string {
	return "event_attachments"
}

// BeforeCreate sets a UUID before creating the record
func (a *Attachment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// RemoteIDs returns the remote object ids of the event's attachments, in
// stored order.
func (e *Event) RemoteIDs() []string {
	ids := make([]string, len(e.Attachments))
	for i, a := range e.Attachments {
		ids[i] = a.RemoteID
	}
	return ids
}

// MissingFields lists the required scalar fields that are empty. Used to
// reject a create before any upload is attempted.
func (e *Event) MissingFields() []string {
	var missing []string
	if e.Name == "" {
		missing = append(missing, "name")
	}
	if e.Description == "" {
		missing = append(missing, "description")
	}
	if e.Location == "" {
		missing = append(missing, "location")
	}
	if e.StartAt.IsZero() {
		missing = append(missing, "start_at")
	}
	if e.EndAt.IsZero() {
		missing = append(missing, "end_at")
	}
	if e.OrganizerID == uuid.Nil {
		missing = append(missing, "organizer_id")
	}
	if e.OrganizerName == "" {
		missing = append(missing, "organizer_name")
	}
	if e.Organization == "" {
		missing = append(missing, "organization")
	}
	return missing
}

// Validate checks if the event data is valid
func (e *Event) Validate() error {
	if missing := e.MissingFields(); len(missing) > 0 {
		return fmt.Errorf("missing required fields: %v", missing)
	}
	if e.EndAt.Before(e.StartAt) {
		return fmt.Errorf("end_at must be after start_at")
	}
	return nil
}
