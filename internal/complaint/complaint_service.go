// Package complaint provides the core logic for handling complaints:
// submission, public tracking, dashboards and lifecycle changes.
package complaint

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"ethereal/backend/internal/config"
	"ethereal/backend/internal/models"
	"ethereal/backend/internal/retry"
	"ethereal/backend/internal/storage"

	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// Store is the part of storage.Storage the complaint service uses.
type Store interface {
	CreateComplaint(ctx context.Context, complaint *models.Complaint) error
	GetComplaintByTrackingID(ctx context.Context, trackingID string) (*models.Complaint, error)
	ListComplaintsBySubmitter(ctx context.Context, userID string) ([]models.Complaint, error)
	ListComplaints(ctx context.Context, limit int) ([]models.Complaint, error)
	UpdateComplaintStatus(ctx context.Context, trackingID string, to models.Status, actorID, note string) (*models.Complaint, error)
	NextTrackingID(ctx context.Context) (string, error)
	WriteAuditLog(ctx context.Context, entry *models.AuditLog) error
	ListAuditLogs(ctx context.Context, complaintID string) ([]models.AuditLog, error)
	SaveFeedback(ctx context.Context, feedback *models.Feedback, actorID string) error
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
}

// Service handles the business logic for complaints.
type Service struct {
	Storage       Store
	Policy        retry.Policy
	Logger        *zap.Logger
	PseudonymSalt string
}

// DefaultPolicy retries tracking id conflicts: 3 attempts, 500ms * attempt between them.
func DefaultPolicy() retry.Policy {
	return retry.Policy{
		MaxAttempts: config.SubmitMaxAttempts,
		Delay:       retry.Linear(config.SubmitBackoffBase),
		Retryable: func(err error) bool {
			return errors.Is(err, storage.ErrUniqueViolation)
		},
	}
}

// NewService creates a new complaint service.
func NewService(s Store, logger *zap.Logger, pseudonymSalt string) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		Storage:       s,
		Policy:        DefaultPolicy(),
		Logger:        logger,
		PseudonymSalt: pseudonymSalt,
	}
}

// SubmitResult is what the form shows after a successful submission.
type SubmitResult struct {
	Complaint     *models.Complaint `json:"complaint"`
	TrackingID    string            `json:"tracking_id"`
	RedirectTo    string            `json:"redirect_to"`
	RedirectAfter time.Duration     `json:"redirect_after"`
}

// Submit validates the form and inserts one complaint, retrying tracking id conflicts.
func (s *Service) Submit(ctx context.Context, submitterID string, in SubmitInput) (*SubmitResult, error) {
	if submitterID == "" {
		return nil, ErrMissingSubmitter
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	complaint := &models.Complaint{
		Title:       strings.TrimSpace(in.Title),
		Description: ComposeDescription(in.Description, in.Building),
		Category:    in.Category,
		Status:      models.StatusSubmitted,
		Priority:    models.PriorityLow,
		SubmittedAt: time.Now().UTC(),
	}
	if dept := strings.TrimSpace(in.Department); dept != "" {
		complaint.DepartmentAssigned = &dept
	}
	if in.Anonymous {
		hash := s.pseudonym(submitterID)
		complaint.SubmitterPseudonymHash = &hash
	} else {
		complaint.SubmitterUserID = &submitterID
	}

	err := s.Policy.Do(ctx, func(ctx context.Context, attempt int) error {
		trackingID, err := s.Storage.NextTrackingID(ctx)
		if err != nil {
			return err
		}
		complaint.TrackingID = trackingID

		if err := s.Storage.CreateComplaint(ctx, complaint); err != nil {
			s.Logger.Warn("complaint insert failed",
				zap.Int("attempt", attempt),
				zap.String("tracking_id", trackingID),
				zap.Error(err))
			return err
		}
		return nil
	})
	if err != nil {
		return nil, s.submitError(err, complaint)
	}

	s.audit(ctx, complaint.ID, submitterID, in.Anonymous, models.AuditSubmit, map[string]interface{}{
		"to": models.StatusSubmitted,
	})
	s.Logger.Info("complaint submitted",
		zap.String("tracking_id", complaint.TrackingID),
		zap.String("category", string(complaint.Category)))

	return &SubmitResult{
		Complaint:     complaint,
		TrackingID:    complaint.TrackingID,
		RedirectTo:    config.SubmitRedirectTo,
		RedirectAfter: config.SubmitRedirectIn,
	}, nil
}

// submitError turns a failed insert into the error the form reports.
func (s *Service) submitError(err error, complaint *models.Complaint) error {
	var exhausted *retry.ExhaustedError
	if errors.As(err, &exhausted) {
		msg := strings.ToLower(exhausted.Last.Error())
		if strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique") {
			return fmt.Errorf("%w: %w", ErrDuplicateTrackingID, exhausted.Last)
		}
		return fmt.Errorf("%w: %w", ErrUnexpected, exhausted.Last)
	}

	if errors.Is(err, storage.ErrForeignKeyViolation) {
		constraint := strings.ToLower(storage.ConstraintName(err))
		if strings.Contains(constraint, "department") || (constraint == "" && complaint.DepartmentAssigned != nil) {
			return fmt.Errorf("%w: %w", ErrInvalidDepartment, err)
		}
	}
	return err
}

func (s *Service) pseudonym(userID string) string {
	sum := sha256.Sum256([]byte(s.PseudonymSalt + ":" + userID))
	return hex.EncodeToString(sum[:])
}

// audit writes a best-effort audit row; failures are logged, never returned.
func (s *Service) audit(ctx context.Context, complaintID, actorID string, anonymous bool, action models.AuditAction, details map[string]interface{}) {
	payload, err := json.Marshal(details)
	if err != nil {
		s.Logger.Warn("audit details not encodable", zap.Error(err))
		return
	}
	entry := &models.AuditLog{
		ComplaintID: complaintID,
		Action:      action,
		Details:     datatypes.JSON(payload),
	}
	if actorID != "" && !anonymous {
		entry.ActorUserID = &actorID
	}
	if err := s.Storage.WriteAuditLog(ctx, entry); err != nil {
		s.Logger.Warn("failed to write audit log",
			zap.String("complaint_id", complaintID),
			zap.String("action", string(action)),
			zap.Error(err))
	}
}
