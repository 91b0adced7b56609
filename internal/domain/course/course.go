package course

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Course is a plain catalog record referenced by user profiles.
type Course struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Name         string    `json:"name" gorm:"not null"`
	Department   string    `json:"department" gorm:"not null"`
	Organization string    `json:"organization" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName overrides the table name used by GORM
func (Course) TableName() string {
	return "courses"
}

// BeforeCreate sets a UUID before creating the record
func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Validate checks if the course data is valid
func (c *Course) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("name is required")
	}
	if c.Department == "" {
		return fmt.Errorf("department is required")
	}
	if c.Organization == "" {
		return fmt.Errorf("organization is required")
	}
	return nil
}
