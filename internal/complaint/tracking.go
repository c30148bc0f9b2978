package complaint

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"ethereal/backend/internal/models"
	"ethereal/backend/internal/storage"

	"go.uber.org/zap"
)

// Track looks a complaint up by tracking id, ignoring case.
// A miss is not an error: it returns nil, nil.
func (s *Service) Track(ctx context.Context, trackingID string) (*models.Complaint, error) {
	normalized := NormalizeTrackingID(trackingID)
	if normalized == "" {
		return nil, ErrMissingTrackingID
	}

	complaint, err := s.Storage.GetComplaintByTrackingID(ctx, normalized)
	if errors.Is(err, storage.ErrNotFound) {
		s.Logger.Debug("tracking id not found", zap.String("tracking_id", normalized))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return complaint, nil
}

// TimelineStep is one persisted lifecycle event.
type TimelineStep struct {
	Action models.AuditAction `json:"action"`
	Status models.Status      `json:"status,omitempty"`
	Note   string             `json:"note,omitempty"`
	At     time.Time          `json:"at"`
}

// Timeline lists the complaint's audit history, oldest first.
func (s *Service) Timeline(ctx context.Context, complaint *models.Complaint) ([]TimelineStep, error) {
	entries, err := s.Storage.ListAuditLogs(ctx, complaint.ID)
	if err != nil {
		return nil, err
	}

	steps := make([]TimelineStep, 0, len(entries))
	for _, e := range entries {
		step := TimelineStep{Action: e.Action, At: e.Timestamp}
		if len(e.Details) > 0 {
			var details struct {
				To   models.Status `json:"to"`
				Note string        `json:"note"`
			}
			if err := json.Unmarshal(e.Details, &details); err == nil {
				step.Status = details.To
				step.Note = details.Note
			}
		}
		steps = append(steps, step)
	}
	return steps, nil
}
