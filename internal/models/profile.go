package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profile is the public face of a user. Its ID equals the user's ID.
type Profile struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	FullName     *string   `gorm:"type:text" json:"full_name,omitempty"`
	Username     *string   `gorm:"type:text" json:"username,omitempty"`
	DepartmentID *string   `gorm:"type:uuid" json:"department_id,omitempty"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Student is created once per student account at sign-up.
type Student struct {
	ID                 string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID             string    `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	RollNumber         string    `gorm:"type:text;not null" json:"roll_number"`
	Program            *string   `gorm:"type:text" json:"program,omitempty"`
	Section            *string   `gorm:"type:text" json:"section,omitempty"`
	YearOfStudy        *int      `json:"year_of_study,omitempty"`
	ContactNumber      *string   `gorm:"type:text" json:"contact_number,omitempty"`
	IsAnonymousDefault bool      `gorm:"not null;default:false" json:"is_anonymous_default"`
	CreatedAt          time.Time `json:"created_at"`
}

func (s *Student) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return
}

// Administrator carries staff-only attributes.
type Administrator struct {
	ID             string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         string    `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	DepartmentID   *string   `gorm:"type:uuid" json:"department_id,omitempty"`
	Designation    *string   `gorm:"type:text" json:"designation,omitempty"`
	AuthorityLevel int       `gorm:"not null;default:1" json:"authority_level"`
	CreatedAt      time.Time `json:"created_at"`
}

func (a *Administrator) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return
}
