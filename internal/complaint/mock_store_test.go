package complaint

import (
	"context"

	"ethereal/backend/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockStore is a testify mock for Store.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) CreateComplaint(ctx context.Context, c *models.Complaint) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockStore) GetComplaintByTrackingID(ctx context.Context, trackingID string) (*models.Complaint, error) {
	args := m.Called(ctx, trackingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Complaint), args.Error(1)
}

func (m *MockStore) ListComplaintsBySubmitter(ctx context.Context, userID string) ([]models.Complaint, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Complaint), args.Error(1)
}

func (m *MockStore) ListComplaints(ctx context.Context, limit int) ([]models.Complaint, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Complaint), args.Error(1)
}

func (m *MockStore) UpdateComplaintStatus(ctx context.Context, trackingID string, to models.Status, actorID, note string) (*models.Complaint, error) {
	args := m.Called(ctx, trackingID, to, actorID, note)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Complaint), args.Error(1)
}

func (m *MockStore) NextTrackingID(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockStore) WriteAuditLog(ctx context.Context, entry *models.AuditLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockStore) ListAuditLogs(ctx context.Context, complaintID string) ([]models.AuditLog, error) {
	args := m.Called(ctx, complaintID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AuditLog), args.Error(1)
}

func (m *MockStore) SaveFeedback(ctx context.Context, fb *models.Feedback, actorID string) error {
	args := m.Called(ctx, fb, actorID)
	return args.Error(0)
}

func (m *MockStore) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}
