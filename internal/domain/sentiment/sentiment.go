package sentiment

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Sentiment stores one analyzed message together with the result returned by
// the external analysis API.
type Sentiment struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Message   string    `json:"message" gorm:"not null"`
	Label     string    `json:"label" gorm:"not null"`
	Score     float64   `json:"score" gorm:"not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName overrides the table name used by GORM
func (Sentiment) TableName() string {
	return "sentiments"
}

// BeforeCreate sets a UUID before creating the record
func (s *Sentiment) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Result is the outcome of one analysis call against the external API.
type Result struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}
