package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditAction is the audit_action enum.
type AuditAction string

const (
	AuditSubmit   AuditAction = "Submit"
	AuditReview   AuditAction = "Review"
	AuditAssign   AuditAction = "Assign"
	AuditResolve  AuditAction = "Resolve"
	AuditClose    AuditAction = "Close"
	AuditReopen   AuditAction = "Reopen"
	AuditEscalate AuditAction = "Escalate"
	AuditFeedback AuditAction = "Feedback"
)

// AuditLog records one lifecycle event of a complaint. Rows are append-only.
type AuditLog struct {
	ID          string      `gorm:"type:uuid;primaryKey" json:"id"`
	ComplaintID string      `gorm:"type:uuid;not null;index" json:"complaint_id"`
	Complaint   *Complaint  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	ActorUserID *string     `gorm:"type:uuid" json:"actor_user_id,omitempty"`
	Action      AuditAction `gorm:"type:text;not null" json:"action"`
	// Details is a free-form snapshot, e.g. {"from":"Submitted","to":"Reviewed"}.
	Details   datatypes.JSON `json:"details,omitempty"`
	Timestamp time.Time      `gorm:"not null;index" json:"timestamp"`
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.Timestamp.IsZero() {
		a.Timestamp = time.Now().UTC()
	}
	return
}
