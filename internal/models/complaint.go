package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Category is the complaint_category enum.
type Category string

const (
	CategoryAcademic       Category = "Academic"
	CategoryHostel         Category = "Hostel"
	CategoryInfrastructure Category = "Infrastructure"
	CategorySafety         Category = "Safety"
	CategoryAdministration Category = "Administration"
	CategoryOther          Category = "Other"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryAcademic,
	CategoryHostel,
	CategoryInfrastructure,
	CategorySafety,
	CategoryAdministration,
	CategoryOther,
}

// Valid reports whether c is a member of the enum.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Priority is the complaint_priority enum.
type Priority string

const (
	PriorityLow      Priority = "Low"
	PriorityMedium   Priority = "Medium"
	PriorityHigh     Priority = "High"
	PriorityCritical Priority = "Critical"
)

// Valid reports whether p is a member of the enum.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// Complaint is a single grievance submitted through the portal.
// TrackingID is the public handle; ID stays internal.
type Complaint struct {
	// ID is the internal primary key (UUID).
	ID string `gorm:"type:uuid;primaryKey" json:"id"`
	// TrackingID is the human-readable identifier, e.g. EN-2024-00123.
	TrackingID string `gorm:"type:text;not null;uniqueIndex" json:"tracking_id"`

	Title       string   `gorm:"type:text;not null" json:"title"`
	Description string   `gorm:"type:text;not null" json:"description"`
	Category    Category `gorm:"type:text;not null;index" json:"category"`
	Subcategory *string  `gorm:"type:text" json:"subcategory,omitempty"`
	Status      Status   `gorm:"type:text;not null;default:'Submitted';index" json:"status"`
	Priority    Priority `gorm:"type:text;not null;default:'Low'" json:"priority"`

	// SubmitterUserID is nil for anonymous submissions.
	SubmitterUserID *string `gorm:"type:uuid;index" json:"submitter_user_id,omitempty"`
	// SubmitterPseudonymHash links anonymous submissions back to a submitter without storing the id.
	SubmitterPseudonymHash *string `gorm:"type:text;index" json:"-"`

	// DepartmentAssigned references departments.id.
	DepartmentAssigned *string     `gorm:"type:uuid;index" json:"department_assigned,omitempty"`
	Department         *Department `gorm:"foreignKey:DepartmentAssigned;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`
	// AssignedToCompany references companies.id.
	AssignedToCompany *string  `gorm:"type:uuid;index" json:"assigned_to_company,omitempty"`
	Company           *Company `gorm:"foreignKey:AssignedToCompany;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`

	SubmittedAt time.Time  `gorm:"not null;index" json:"submitted_at"`
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty"`
	AssignedAt  *time.Time `json:"assigned_at,omitempty"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
	ClosedAt    *time.Time `json:"closed_at,omitempty"`
	SLADeadline *time.Time `json:"sla_deadline,omitempty"`

	AutoEscalated     bool     `gorm:"not null;default:false" json:"auto_escalated"`
	EscalationLevel   int      `gorm:"not null;default:0" json:"escalation_level"`
	SentimentScore    *float64 `json:"sentiment_score,omitempty"`
	ImmutableHash     *string  `gorm:"type:text" json:"immutable_hash,omitempty"`
	ResolutionSummary *string  `gorm:"type:text" json:"resolution_summary,omitempty"`

	// Attachments is an opaque JSON document owned by the uploader.
	Attachments datatypes.JSON `json:"attachments,omitempty"`
}

// BeforeCreate assigns a UUID when the caller has not set one.
func (c *Complaint) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}
