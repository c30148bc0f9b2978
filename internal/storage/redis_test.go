package storage

import (
	"context"
	"regexp"
	"testing"
	"time"

	"ethereal/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var trackingPattern = regexp.MustCompile(`^EN-\d{4}-\d{5}$`)

func TestNextTrackingID_Sequence(t *testing.T) {
	_, rdb := newTestRedis(t)
	s := newTestService(t, rdb)
	s.now = func() time.Time { return time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC) }

	first, err := s.NextTrackingID(context.Background())
	require.NoError(t, err)
	second, err := s.NextTrackingID(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "EN-2024-00001", first)
	assert.Equal(t, "EN-2024-00002", second)
}

func TestNextTrackingID_ResumesAfterCounterLoss(t *testing.T) {
	mr, rdb := newTestRedis(t)
	s := newTestService(t, rdb)
	s.now = func() time.Time { return time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		id, err := s.NextTrackingID(ctx)
		require.NoError(t, err)
		seedComplaint(t, s, id, nil, s.now())
	}
	// a random-suffix id stored while Redis was absent
	seedComplaint(t, s, "EN-2024-00042", nil, s.now())
	// other years do not affect the 2024 counter
	seedComplaint(t, s, "EN-2023-00900", nil, s.now())

	mr.FlushAll()

	next, err := s.NextTrackingID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "EN-2024-00043", next)

	next, err = s.NextTrackingID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "EN-2024-00044", next)
}

func TestNextTrackingID_RandomWithoutRedis(t *testing.T) {
	s := newTestService(t, nil)
	id, err := s.NextTrackingID(context.Background())
	require.NoError(t, err)
	assert.Regexp(t, trackingPattern, id)
}

func TestNextTrackingID_FallsBackWhenRedisDown(t *testing.T) {
	mr, rdb := newTestRedis(t)
	s := newTestService(t, rdb)
	mr.Close()

	id, err := s.NextTrackingID(context.Background())
	require.NoError(t, err)
	assert.Regexp(t, trackingPattern, id)
}

func TestFormatTrackingID(t *testing.T) {
	assert.Equal(t, "EN-2024-00123", FormatTrackingID(2024, 123))
	assert.Equal(t, "EN-2025-123456", FormatTrackingID(2025, 123456))
}

func TestSessions_Lifecycle(t *testing.T) {
	mr, rdb := newTestRedis(t)
	s := newTestService(t, rdb)
	ctx := context.Background()

	require.NoError(t, s.SaveSession(ctx, "jti-1", "user-1", time.Hour))
	active, err := s.SessionActive(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, active)

	require.NoError(t, s.RevokeSession(ctx, "jti-1"))
	active, err = s.SessionActive(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, active)

	require.NoError(t, s.SaveSession(ctx, "jti-2", "user-1", time.Minute))
	mr.FastForward(2 * time.Minute)
	active, err = s.SessionActive(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, active, "expired sessions are inactive")
}

func TestSessions_WithoutRedisAcceptSignature(t *testing.T) {
	s := newTestService(t, nil)
	ctx := context.Background()
	assert.NoError(t, s.SaveSession(ctx, "jti", "user", time.Hour))
	active, err := s.SessionActive(ctx, "jti")
	require.NoError(t, err)
	assert.True(t, active)
	assert.NoError(t, s.RevokeSession(ctx, "jti"))
}

func TestAuthEvents_PublishSubscribe(t *testing.T) {
	_, rdb := newTestRedis(t)
	s := newTestService(t, rdb)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := s.SubscribeAuthEvents(ctx)
	require.NoError(t, err)

	sent := models.AuthEvent{Type: models.EventSignedOut, UserID: "user-1", Route: "/auth", At: time.Now().UTC().Truncate(time.Second)}
	require.NoError(t, s.PublishAuthEvent(ctx, sent))

	select {
	case got := <-events:
		assert.Equal(t, sent.Type, got.Type)
		assert.Equal(t, sent.UserID, got.UserID)
		assert.Equal(t, "/auth", got.Route)
	case <-time.After(2 * time.Second):
		t.Fatal("auth event not delivered")
	}

	cancel()
	select {
	case _, ok := <-events:
		assert.False(t, ok, "channel closes after cancel")
	case <-time.After(2 * time.Second):
		t.Fatal("subscription did not stop")
	}
}

func TestAuthEvents_UnavailableWithoutRedis(t *testing.T) {
	s := newTestService(t, nil)
	assert.ErrorIs(t, s.PublishAuthEvent(context.Background(), models.AuthEvent{}), ErrPubSubUnavailable)
	_, err := s.SubscribeAuthEvents(context.Background())
	assert.ErrorIs(t, err, ErrPubSubUnavailable)
}
