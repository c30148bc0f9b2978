package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"ethereal/backend/internal/models"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreateComplaint inserts a single complaint row. Constraint failures come back classified.
func (s *Service) CreateComplaint(ctx context.Context, complaint *models.Complaint) error {
	if complaint.Status == "" {
		complaint.Status = models.StatusSubmitted
	}
	if complaint.SubmittedAt.IsZero() {
		complaint.SubmittedAt = s.now()
	}

	if err := s.DB.WithContext(ctx).Create(complaint).Error; err != nil {
		s.Logger.Warn("failed to save complaint",
			zap.String("tracking_id", complaint.TrackingID), zap.Error(err))
		return Classify(err)
	}
	return nil
}

// GetComplaintByTrackingID looks up one complaint by its exact tracking id.
func (s *Service) GetComplaintByTrackingID(ctx context.Context, trackingID string) (*models.Complaint, error) {
	var complaint models.Complaint
	err := s.DB.WithContext(ctx).Where("tracking_id = ?", trackingID).First(&complaint).Error
	if err != nil {
		return nil, Classify(err)
	}
	return &complaint, nil
}

// ListComplaintsBySubmitter returns the user's complaints, newest first.
func (s *Service) ListComplaintsBySubmitter(ctx context.Context, userID string) ([]models.Complaint, error) {
	var complaints []models.Complaint
	err := s.DB.WithContext(ctx).
		Where("submitter_user_id = ?", userID).
		Order("submitted_at desc").
		Find(&complaints).Error
	if err != nil {
		return nil, Classify(err)
	}
	return complaints, nil
}

// ListComplaints returns all complaints, newest first. limit <= 0 means no limit.
func (s *Service) ListComplaints(ctx context.Context, limit int) ([]models.Complaint, error) {
	var complaints []models.Complaint
	q := s.DB.WithContext(ctx).Order("submitted_at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&complaints).Error; err != nil {
		return nil, Classify(err)
	}
	return complaints, nil
}

// UpdateComplaintStatus moves a complaint along the lifecycle and records the
// audit entry in the same transaction.
func (s *Service) UpdateComplaintStatus(ctx context.Context, trackingID string, to models.Status, actorID, note string) (*models.Complaint, error) {
	var complaint models.Complaint
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("tracking_id = ?", trackingID).
			First(&complaint).Error; err != nil {
			return err
		}
		from := complaint.Status
		if err := s.applyTransition(tx, &complaint, to); err != nil {
			return err
		}
		return s.writeAudit(tx, complaint.ID, actorID, to.AuditAction(), map[string]interface{}{
			"from": from,
			"to":   to,
			"note": note,
		})
	})
	if err != nil {
		return nil, Classify(err)
	}
	return &complaint, nil
}

// applyTransition checks the lifecycle table and stamps the matching timestamp.
func (s *Service) applyTransition(tx *gorm.DB, complaint *models.Complaint, to models.Status) error {
	if !complaint.Status.CanTransitionTo(to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, complaint.Status, to)
	}

	now := s.now()
	updates := map[string]interface{}{"status": to}
	switch to {
	case models.StatusReviewed:
		updates["reviewed_at"] = now
	case models.StatusAssigned:
		updates["assigned_at"] = now
	case models.StatusResolved:
		updates["resolved_at"] = now
	case models.StatusClosed:
		updates["closed_at"] = now
	case models.StatusEscalated:
		updates["escalation_level"] = gorm.Expr("escalation_level + 1")
	}

	if err := tx.Model(&models.Complaint{}).Where("id = ?", complaint.ID).Updates(updates).Error; err != nil {
		return err
	}
	return tx.Where("id = ?", complaint.ID).First(complaint).Error
}

// WriteAuditLog appends one audit row.
func (s *Service) WriteAuditLog(ctx context.Context, entry *models.AuditLog) error {
	return Classify(s.DB.WithContext(ctx).Create(entry).Error)
}

func (s *Service) writeAudit(tx *gorm.DB, complaintID, actorID string, action models.AuditAction, details map[string]interface{}) error {
	payload, err := json.Marshal(details)
	if err != nil {
		return err
	}
	entry := &models.AuditLog{
		ComplaintID: complaintID,
		Action:      action,
		Details:     datatypes.JSON(payload),
		Timestamp:   s.now(),
	}
	if actorID != "" {
		entry.ActorUserID = &actorID
	}
	return tx.Create(entry).Error
}

// ListAuditLogs returns a complaint's history, oldest first.
func (s *Service) ListAuditLogs(ctx context.Context, complaintID string) ([]models.AuditLog, error) {
	var entries []models.AuditLog
	err := s.DB.WithContext(ctx).
		Where("complaint_id = ?", complaintID).
		Order("timestamp asc").
		Find(&entries).Error
	if err != nil {
		return nil, Classify(err)
	}
	return entries, nil
}

// SaveFeedback stores the submitter's feedback, reopening the complaint when asked.
func (s *Service) SaveFeedback(ctx context.Context, feedback *models.Feedback, actorID string) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(feedback).Error; err != nil {
			return err
		}
		if err := s.writeAudit(tx, feedback.ComplaintID, actorID, models.AuditFeedback, map[string]interface{}{
			"feedback_status": feedback.FeedbackStatus,
			"rating":          feedback.Rating,
		}); err != nil {
			return err
		}
		if !feedback.Reopened {
			return nil
		}

		var complaint models.Complaint
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", feedback.ComplaintID).
			First(&complaint).Error; err != nil {
			return err
		}
		from := complaint.Status
		if err := s.applyTransition(tx, &complaint, models.StatusReopened); err != nil {
			return err
		}
		return s.writeAudit(tx, complaint.ID, actorID, models.AuditReopen, map[string]interface{}{
			"from": from,
			"to":   models.StatusReopened,
			"note": "reopened by submitter feedback",
		})
	})
	return Classify(err)
}

// ListDepartments returns reference departments ordered by name.
func (s *Service) ListDepartments(ctx context.Context) ([]models.Department, error) {
	var departments []models.Department
	if err := s.DB.WithContext(ctx).Order("name asc").Find(&departments).Error; err != nil {
		return nil, Classify(err)
	}
	return departments, nil
}

// SaveDepartment upserts a department.
func (s *Service) SaveDepartment(ctx context.Context, department *models.Department) error {
	return Classify(s.DB.WithContext(ctx).Save(department).Error)
}
