package storage

import (
	"context"
	"testing"
	"time"

	"ethereal/backend/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestService returns a Service on a private in-memory SQLite database.
// rdb may be nil.
func newTestService(t *testing.T, rdb *redis.Client) *Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps every query on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	s := NewStorageService(db, rdb, nil)
	require.NoError(t, s.Migrate())
	return s
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return mr, rdb
}

func seedComplaint(t *testing.T, s *Service, trackingID string, submitter *string, at time.Time) *models.Complaint {
	t.Helper()
	c := &models.Complaint{
		TrackingID:      trackingID,
		Title:           "Broken projector",
		Description:     "Room 101 projector flickers",
		Category:        models.CategoryInfrastructure,
		Priority:        models.PriorityLow,
		SubmitterUserID: submitter,
		SubmittedAt:     at,
	}
	require.NoError(t, s.CreateComplaint(context.Background(), c))
	return c
}

func strPtr(s string) *string { return &s }

func TestCreateComplaint_DefaultsAndLookup(t *testing.T) {
	s := newTestService(t, nil)
	ctx := context.Background()

	c := &models.Complaint{
		TrackingID:  "EN-2024-00001",
		Title:       "Wifi down",
		Description: "Hostel B",
		Category:    models.CategoryHostel,
		Priority:    models.PriorityLow,
	}
	require.NoError(t, s.CreateComplaint(ctx, c))
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, models.StatusSubmitted, c.Status)
	assert.False(t, c.SubmittedAt.IsZero())

	got, err := s.GetComplaintByTrackingID(ctx, "EN-2024-00001")
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)
	assert.Equal(t, models.CategoryHostel, got.Category)

	_, err = s.GetComplaintByTrackingID(ctx, "EN-2024-99999")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateComplaint_DuplicateTrackingIDIsUniqueViolation(t *testing.T) {
	s := newTestService(t, nil)
	seedComplaint(t, s, "EN-2024-00007", nil, time.Now())

	dup := &models.Complaint{
		TrackingID:  "EN-2024-00007",
		Title:       "Other",
		Description: "Other",
		Category:    models.CategoryOther,
		Priority:    models.PriorityLow,
	}
	err := s.CreateComplaint(context.Background(), dup)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUniqueViolation)
	assert.NotErrorIs(t, err, ErrForeignKeyViolation)
}

func TestCreateComplaint_UnknownDepartmentIsForeignKeyViolation(t *testing.T) {
	s := newTestService(t, nil)

	c := &models.Complaint{
		TrackingID:         "EN-2024-00008",
		Title:              "Exam clash",
		Description:        "Two exams at 9am",
		Category:           models.CategoryAcademic,
		Priority:           models.PriorityLow,
		DepartmentAssigned: strPtr("7a0c5a55-4f35-4d8e-9d7c-000000000000"),
	}
	err := s.CreateComplaint(context.Background(), c)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrForeignKeyViolation)
}

func TestListComplaints_OrderAndLimit(t *testing.T) {
	s := newTestService(t, nil)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	alice, bob := "11111111-1111-1111-1111-111111111111", "22222222-2222-2222-2222-222222222222"

	seedComplaint(t, s, "EN-2024-00001", &alice, base)
	seedComplaint(t, s, "EN-2024-00002", &bob, base.Add(time.Hour))
	seedComplaint(t, s, "EN-2024-00003", &alice, base.Add(2*time.Hour))

	mine, err := s.ListComplaintsBySubmitter(ctx, alice)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "EN-2024-00003", mine[0].TrackingID, "newest first")
	assert.Equal(t, "EN-2024-00001", mine[1].TrackingID)

	all, err := s.ListComplaints(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	capped, err := s.ListComplaints(ctx, 2)
	require.NoError(t, err)
	require.Len(t, capped, 2)
	assert.Equal(t, "EN-2024-00003", capped[0].TrackingID)
}

func TestUpdateComplaintStatus_WritesAuditAndStamps(t *testing.T) {
	s := newTestService(t, nil)
	ctx := context.Background()
	c := seedComplaint(t, s, "EN-2024-00010", nil, time.Now())

	updated, err := s.UpdateComplaintStatus(ctx, c.TrackingID, models.StatusReviewed, "", "triaged")
	require.NoError(t, err)
	assert.Equal(t, models.StatusReviewed, updated.Status)
	assert.NotNil(t, updated.ReviewedAt)

	updated, err = s.UpdateComplaintStatus(ctx, c.TrackingID, models.StatusEscalated, "", "")
	require.NoError(t, err)
	assert.Equal(t, 1, updated.EscalationLevel)

	entries, err := s.ListAuditLogs(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, models.AuditReview, entries[0].Action)
	assert.Equal(t, models.AuditEscalate, entries[1].Action)
	assert.Contains(t, string(entries[0].Details), "triaged")
}

func TestUpdateComplaintStatus_RejectsInvalidTransition(t *testing.T) {
	s := newTestService(t, nil)
	ctx := context.Background()
	c := seedComplaint(t, s, "EN-2024-00011", nil, time.Now())

	_, err := s.UpdateComplaintStatus(ctx, c.TrackingID, models.StatusClosed, "", "")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	entries, err := s.ListAuditLogs(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, entries, "failed transition leaves no audit row")

	_, err = s.UpdateComplaintStatus(ctx, "EN-0000-00000", models.StatusReviewed, "", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveFeedback_ReopensComplaint(t *testing.T) {
	s := newTestService(t, nil)
	ctx := context.Background()
	c := seedComplaint(t, s, "EN-2024-00012", nil, time.Now())
	for _, to := range []models.Status{models.StatusReviewed, models.StatusAssigned, models.StatusInProgress, models.StatusResolved} {
		_, err := s.UpdateComplaintStatus(ctx, c.TrackingID, to, "", "")
		require.NoError(t, err)
	}

	rating := 2
	fb := &models.Feedback{ComplaintID: c.ID, FeedbackStatus: models.FeedbackUnresolved, Rating: &rating, Reopened: true}
	require.NoError(t, s.SaveFeedback(ctx, fb, ""))

	got, err := s.GetComplaintByTrackingID(ctx, c.TrackingID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusReopened, got.Status)

	entries, err := s.ListAuditLogs(ctx, c.ID)
	require.NoError(t, err)
	last := entries[len(entries)-1]
	assert.Equal(t, models.AuditReopen, last.Action)
}

func TestRegisterAccount_AndRoles(t *testing.T) {
	s := newTestService(t, nil)
	ctx := context.Background()

	user := &models.User{Email: "alice@uni.edu", PasswordHash: "hash"}
	profile := &models.Profile{FullName: strPtr("Alice")}
	student := &models.Student{RollNumber: "CS-042"}
	require.NoError(t, s.RegisterAccount(ctx, user, profile, student, models.RoleStudent))

	assert.Equal(t, user.ID, profile.ID)
	assert.Equal(t, user.ID, student.UserID)

	got, err := s.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Alice", *got.FullName)

	require.NoError(t, s.AddRole(ctx, user.ID, models.RoleOmbudsperson))
	require.NoError(t, s.AddRole(ctx, user.ID, models.RoleOmbudsperson), "granting twice is a no-op")

	roles, err := s.GetUserRoles(ctx, user.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []models.AppRole{models.RoleStudent, models.RoleOmbudsperson}, roles)

	// Duplicate email rolls back the whole registration.
	again := &models.User{Email: "alice@uni.edu", PasswordHash: "hash"}
	err = s.RegisterAccount(ctx, again, &models.Profile{}, nil, models.RoleStudent)
	assert.ErrorIs(t, err, ErrUniqueViolation)
}

func TestUpdateUser_EmailPasswordAndMissing(t *testing.T) {
	s := newTestService(t, nil)
	ctx := context.Background()
	user := &models.User{Email: "bob@uni.edu", PasswordHash: "old"}
	require.NoError(t, s.RegisterAccount(ctx, user, nil, nil))

	require.NoError(t, s.UpdateUserEmail(ctx, user.ID, "robert@uni.edu"))
	require.NoError(t, s.UpdateUserPassword(ctx, user.ID, "new"))

	got, err := s.GetUserByEmail(ctx, "robert@uni.edu")
	require.NoError(t, err)
	assert.Equal(t, "new", got.PasswordHash)

	assert.ErrorIs(t, s.UpdateUserEmail(ctx, "missing", "x@uni.edu"), ErrNotFound)

	profile, err := s.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, profile)
}

func TestDepartments(t *testing.T) {
	s := newTestService(t, nil)
	ctx := context.Background()
	require.NoError(t, s.SaveDepartment(ctx, &models.Department{Name: "Physics"}))
	require.NoError(t, s.SaveDepartment(ctx, &models.Department{Name: "Chemistry"}))

	depts, err := s.ListDepartments(ctx)
	require.NoError(t, err)
	require.Len(t, depts, 2)
	assert.Equal(t, "Chemistry", depts[0].Name)
}
