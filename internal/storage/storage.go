// Package storage is the persistence layer: PostgreSQL through gorm for rows,
// Redis for counters, sessions and auth-state fan-out.
package storage

import (
	"context"
	"time"

	"ethereal/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Storage is everything the services need from the data layer.
type Storage interface {
	CreateComplaint(ctx context.Context, complaint *models.Complaint) error
	GetComplaintByTrackingID(ctx context.Context, trackingID string) (*models.Complaint, error)
	ListComplaintsBySubmitter(ctx context.Context, userID string) ([]models.Complaint, error)
	ListComplaints(ctx context.Context, limit int) ([]models.Complaint, error)
	UpdateComplaintStatus(ctx context.Context, trackingID string, to models.Status, actorID, note string) (*models.Complaint, error)
	NextTrackingID(ctx context.Context) (string, error)

	WriteAuditLog(ctx context.Context, entry *models.AuditLog) error
	ListAuditLogs(ctx context.Context, complaintID string) ([]models.AuditLog, error)
	SaveFeedback(ctx context.Context, feedback *models.Feedback, actorID string) error

	RegisterAccount(ctx context.Context, user *models.User, profile *models.Profile, student *models.Student, roles ...models.AppRole) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	UpdateUserEmail(ctx context.Context, userID, email string) error
	UpdateUserPassword(ctx context.Context, userID, passwordHash string) error
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
	AddRole(ctx context.Context, userID string, role models.AppRole) error
	GetUserRoles(ctx context.Context, userID string) ([]models.AppRole, error)

	ListDepartments(ctx context.Context) ([]models.Department, error)
	SaveDepartment(ctx context.Context, department *models.Department) error

	SaveSession(ctx context.Context, jti, userID string, ttl time.Duration) error
	SessionActive(ctx context.Context, jti string) (bool, error)
	RevokeSession(ctx context.Context, jti string) error

	PublishAuthEvent(ctx context.Context, event models.AuthEvent) error
	SubscribeAuthEvents(ctx context.Context) (<-chan models.AuthEvent, error)
}

// Service implements Storage. Redis is optional: without it tracking ids fall
// back to random suffixes, sessions are not revocable and auth events stay local.
type Service struct {
	DB     *gorm.DB
	Redis  *redis.Client
	Logger *zap.Logger

	now func() time.Time
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		DB:     db,
		Redis:  rdb,
		Logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Migrate creates or updates every table.
func (s *Service) Migrate() error {
	return s.DB.AutoMigrate(models.All()...)
}
