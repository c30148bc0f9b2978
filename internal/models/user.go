package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User holds login credentials. Everything else about a person lives in Profile.
type User struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string    `gorm:"type:text;not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"type:text;not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BeforeCreate assigns a UUID when the caller has not set one.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}

// AppRole is the app_role enum stored in user_roles.
type AppRole string

const (
	RoleStudent           AppRole = "student"
	RoleDepartmentOfficer AppRole = "department_officer"
	RoleAdmin             AppRole = "admin"
	RoleOmbudsperson      AppRole = "ombudsperson"
	RoleCompanyRep        AppRole = "company_rep"
)

// Valid reports whether r is a member of the enum.
func (r AppRole) Valid() bool {
	switch r {
	case RoleStudent, RoleDepartmentOfficer, RoleAdmin, RoleOmbudsperson, RoleCompanyRep:
		return true
	}
	return false
}

// Elevated reports whether r grants access to the administrative dashboard.
func (r AppRole) Elevated() bool {
	return r == RoleAdmin || r == RoleOmbudsperson || r == RoleDepartmentOfficer
}

// UserRole grants a role to a user. A user may hold several roles.
type UserRole struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_user_role" json:"user_id"`
	Role      AppRole   `gorm:"type:text;not null;uniqueIndex:idx_user_role" json:"role"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

func (r *UserRole) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return
}
