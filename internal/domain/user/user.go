package user

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Sentinel errors mapped by the storage layer so callers do not depend on
// driver-specific error types.
var (
	// ErrNotFound is returned when no user matches the lookup.
	ErrNotFound = errors.New("user not found")
	// ErrEmailExists is returned when an insert hits the unique email index.
	ErrEmailExists = errors.New("user with this email already exists")
)

// User is an account that can authenticate with local credentials or through
// a federated identity. Federated accounts have an empty password hash.
type User struct {
	ID           uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Name         string         `json:"name" gorm:"not null"`
	Email        string         `json:"email" gorm:"not null;uniqueIndex"`
	PasswordHash string         `json:"-" gorm:"column:password_hash"`
	CourseID     *uuid.UUID     `json:"course_id,omitempty" gorm:"type:uuid"`
	Organization string         `json:"organization,omitempty"`
	Mottos       pq.StringArray `json:"mottos,omitempty" gorm:"type:text[]"`
	IsAdmin      bool           `json:"is_admin" gorm:"not null;default:false"`
	CreatedAt    time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName overrides the table name used by GORM
func (User) TableName() string {
	return "users"
}

// BeforeCreate sets a UUID before creating the record
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// New creates a user with local credentials already hashed by the caller.
func New(name, email, passwordHash string) *User {
	return &User{
		ID:           uuid.New(),
		Name:         name,
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
}

// NewFederated creates a user record for a first-time federated login. The
// profile is completed later (course selection), matching the original flow.
func NewFederated(name, email string) *User {
	return &User{
		ID:        uuid.New(),
		Name:      name,
		Email:     strings.ToLower(strings.TrimSpace(email)),
		CreatedAt: time.Now(),
	}
}

// IsProfileComplete reports whether the user has selected a course.
func (u *User) IsProfileComplete() bool {
	return u.CourseID != nil
}

// Validate checks if the user data is valid
func (u *User) Validate() error {
	if u.Name == "" {
		return fmt.Errorf("name is required")
	}
	if u.Email == "" {
		return fmt.Errorf("email is required")
	}
	if !strings.Contains(u.Email, "@") {
		return fmt.Errorf("email must have a valid format")
	}
	return nil
}
