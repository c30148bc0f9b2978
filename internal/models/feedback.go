package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FeedbackStatus is the feedback_status enum.
type FeedbackStatus string

const (
	FeedbackResolved   FeedbackStatus = "Resolved"
	FeedbackUnresolved FeedbackStatus = "Unresolved"
	FeedbackPartial    FeedbackStatus = "Partial"
)

func (s FeedbackStatus) Valid() bool {
	return s == FeedbackResolved || s == FeedbackUnresolved || s == FeedbackPartial
}

// Feedback is the submitter's verdict on a resolved complaint.
type Feedback struct {
	ID             string         `gorm:"type:uuid;primaryKey" json:"id"`
	ComplaintID    string         `gorm:"type:uuid;not null;index" json:"complaint_id"`
	Complaint      *Complaint     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	FeedbackStatus FeedbackStatus `gorm:"type:text;not null" json:"feedback_status"`
	Rating         *int           `json:"rating,omitempty"`
	Comments       *string        `gorm:"type:text" json:"comments,omitempty"`
	Reopened       bool           `gorm:"not null;default:false" json:"reopened"`
	SubmittedAt    time.Time      `json:"submitted_at"`
}

func (f *Feedback) BeforeCreate(tx *gorm.DB) (err error) {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	if f.SubmittedAt.IsZero() {
		f.SubmittedAt = time.Now().UTC()
	}
	return
}
