package complaint

import (
	"context"
	"errors"
	"strings"

	"ethereal/backend/internal/analysis"
	"ethereal/backend/internal/config"
	"ethereal/backend/internal/models"
	"ethereal/backend/internal/storage"

	"go.uber.org/zap"
)

// StudentDashboard is the submitter's own view.
type StudentDashboard struct {
	Profile    *models.Profile    `json:"profile,omitempty"`
	Complaints []models.Complaint `json:"complaints"`
	Counts     analysis.Counts    `json:"counts"`
}

// AdminDashboard covers every complaint; the list is capped, the counts are not.
type AdminDashboard struct {
	Profile    *models.Profile    `json:"profile,omitempty"`
	Complaints []models.Complaint `json:"complaints"`
	Counts     analysis.Counts    `json:"counts"`
}

// StudentDashboard loads the user's complaints, newest first.
func (s *Service) StudentDashboard(ctx context.Context, userID string) (*StudentDashboard, error) {
	profile, err := s.Storage.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	complaints, err := s.Storage.ListComplaintsBySubmitter(ctx, userID)
	if err != nil {
		return nil, err
	}
	if complaints == nil {
		complaints = []models.Complaint{}
	}
	return &StudentDashboard{
		Profile:    profile,
		Complaints: complaints,
		Counts:     analysis.Summarize(complaints),
	}, nil
}

// AdminDashboard loads all complaints and shows the newest page.
func (s *Service) AdminDashboard(ctx context.Context, userID string) (*AdminDashboard, error) {
	profile, err := s.Storage.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	complaints, err := s.Storage.ListComplaints(ctx, 0)
	if err != nil {
		return nil, err
	}

	page := complaints
	if len(page) > config.AdminPageSize {
		page = page[:config.AdminPageSize]
	}
	if page == nil {
		page = []models.Complaint{}
	}
	return &AdminDashboard{
		Profile:    profile,
		Complaints: page,
		Counts:     analysis.Summarize(complaints),
	}, nil
}

// Transition moves a complaint to a new status on behalf of staff.
func (s *Service) Transition(ctx context.Context, actorID, trackingID string, to models.Status, note string) (*models.Complaint, error) {
	if !to.Valid() {
		return nil, ErrInvalidStatus
	}
	normalized := NormalizeTrackingID(trackingID)
	if normalized == "" {
		return nil, ErrMissingTrackingID
	}

	complaint, err := s.Storage.UpdateComplaintStatus(ctx, normalized, to, actorID, strings.TrimSpace(note))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrComplaintNotFound
	}
	if err != nil {
		return nil, err
	}

	s.Logger.Info("complaint status changed",
		zap.String("tracking_id", normalized),
		zap.String("status", string(to)),
		zap.String("actor", actorID))
	return complaint, nil
}

// FeedbackInput is the submitter's post-resolution verdict.
type FeedbackInput struct {
	Status   models.FeedbackStatus `json:"feedback_status"`
	Rating   *int                  `json:"rating,omitempty"`
	Comments string                `json:"comments,omitempty"`
	Reopen   bool                  `json:"reopen,omitempty"`
}

// SubmitFeedback records feedback from the complaint's submitter.
func (s *Service) SubmitFeedback(ctx context.Context, userID, trackingID string, in FeedbackInput) (*models.Feedback, error) {
	if !in.Status.Valid() {
		return nil, ErrInvalidFeedback
	}
	if in.Rating != nil && (*in.Rating < 1 || *in.Rating > 5) {
		return nil, ErrInvalidRating
	}

	complaint, err := s.Track(ctx, trackingID)
	if err != nil {
		return nil, err
	}
	if complaint == nil {
		return nil, ErrComplaintNotFound
	}
	anonymous, ok := s.submittedBy(complaint, userID)
	if !ok {
		return nil, ErrForbidden
	}
	if complaint.Status != models.StatusResolved && complaint.Status != models.StatusClosed {
		return nil, ErrNotResolved
	}

	feedback := &models.Feedback{
		ComplaintID:    complaint.ID,
		FeedbackStatus: in.Status,
		Rating:         in.Rating,
		Reopened:       in.Reopen,
	}
	if c := strings.TrimSpace(in.Comments); c != "" {
		feedback.Comments = &c
	}
	actorID := userID
	if anonymous {
		actorID = ""
	}
	if err := s.Storage.SaveFeedback(ctx, feedback, actorID); err != nil {
		return nil, err
	}
	return feedback, nil
}

// submittedBy reports whether userID filed the complaint, either openly or
// through the pseudonym hash. anonymous is true for the latter.
func (s *Service) submittedBy(c *models.Complaint, userID string) (anonymous, ok bool) {
	if userID == "" {
		return false, false
	}
	if c.SubmitterUserID != nil {
		return false, *c.SubmitterUserID == userID
	}
	if c.SubmitterPseudonymHash != nil {
		return true, *c.SubmitterPseudonymHash == s.pseudonym(userID)
	}
	return false, false
}
