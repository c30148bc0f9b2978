package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Department is reference data used for assignment and SLA policy.
// The JSON policy columns are read by staff tooling, never by the submission path.
type Department struct {
	ID                 string         `gorm:"type:uuid;primaryKey" json:"id"`
	Name               string         `gorm:"type:text;not null;uniqueIndex" json:"name"`
	Email              *string        `gorm:"type:text" json:"email,omitempty"`
	SLAHoursByCategory datatypes.JSON `json:"sla_hours_by_category,omitempty"`
	PriorityThresholds datatypes.JSON `json:"priority_thresholds,omitempty"`
	EscalationPolicy   datatypes.JSON `json:"escalation_policy,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
}

func (d *Department) BeforeCreate(tx *gorm.DB) (err error) {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	return
}

// Company is an external contractor complaints can be assigned to.
type Company struct {
	ID                string     `gorm:"type:uuid;primaryKey" json:"id"`
	Name              string     `gorm:"type:text;not null" json:"name"`
	ServiceCategory   *string    `gorm:"type:text" json:"service_category,omitempty"`
	ContactPerson     *string    `gorm:"type:text" json:"contact_person,omitempty"`
	Email             *string    `gorm:"type:text" json:"email,omitempty"`
	Phone             *string    `gorm:"type:text" json:"phone,omitempty"`
	Address           *string    `gorm:"type:text" json:"address,omitempty"`
	IsVerified        bool       `gorm:"not null;default:false" json:"is_verified"`
	ContractValidTill *time.Time `json:"contract_valid_till,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

func (c *Company) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}
