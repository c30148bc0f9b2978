package telegram

import (
	"context"
	"errors"
	"testing"
	"time"

	"ethereal/backend/internal/complaint"
	"ethereal/backend/internal/localization"
	"ethereal/backend/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []string
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg.Text)
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeSender) last() string {
	if len(f.sent) == 0 {
		return ""
	}
	return f.sent[len(f.sent)-1]
}

type MockTracker struct {
	mock.Mock
}

func (m *MockTracker) Track(ctx context.Context, trackingID string) (*models.Complaint, error) {
	args := m.Called(ctx, trackingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Complaint), args.Error(1)
}

func (m *MockTracker) Timeline(ctx context.Context, c *models.Complaint) ([]complaint.TimelineStep, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]complaint.TimelineStep), args.Error(1)
}

func newTestBot(t *testing.T) (*BotService, *fakeSender, *MockTracker) {
	t.Helper()
	loc, err := localization.Default()
	require.NoError(t, err)
	sender := &fakeSender{}
	tracker := new(MockTracker)
	return NewBotServiceWithSender(sender, tracker, loc, nil), sender, tracker
}

func command(text, lang string) tgbotapi.Update {
	length := len(text)
	for i, r := range text {
		if r == ' ' {
			length = i
			break
		}
	}
	return tgbotapi.Update{
		Message: &tgbotapi.Message{
			Text: text,
			Entities: []tgbotapi.MessageEntity{
				{Type: "bot_command", Offset: 0, Length: length},
			},
			From: &tgbotapi.User{ID: 42, LanguageCode: lang},
			Chat: tgbotapi.Chat{ID: 42},
		},
	}
}

func text(body string) tgbotapi.Update {
	return tgbotapi.Update{
		Message: &tgbotapi.Message{
			Text: body,
			From: &tgbotapi.User{ID: 42},
			Chat: tgbotapi.Chat{ID: 42},
		},
	}
}

func TestHandleUpdate_Track(t *testing.T) {
	bot, sender, tracker := newTestBot(t)
	ctx := context.Background()

	found := &models.Complaint{
		TrackingID:  "EN-2024-00123",
		Title:       "Leaking roof",
		Category:    models.CategoryInfrastructure,
		Status:      models.StatusReviewed,
		Priority:    models.PriorityLow,
		SubmittedAt: time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC),
	}
	tracker.On("Track", ctx, "en-2024-00123").Return(found, nil)
	tracker.On("Timeline", ctx, found).Return([]complaint.TimelineStep{
		{Action: models.AuditSubmit, Status: models.StatusSubmitted, At: found.SubmittedAt},
		{Action: models.AuditReview, Status: models.StatusReviewed, At: found.SubmittedAt.Add(time.Hour)},
	}, nil)

	bot.HandleUpdate(ctx, command("/track en-2024-00123", "en"))

	out := sender.last()
	assert.Contains(t, out, "Complaint EN-2024-00123")
	assert.Contains(t, out, "Status: Reviewed")
	assert.Contains(t, out, "Submitted: 02 May 2024")
	assert.Contains(t, out, "Review (Reviewed)")
}

func TestHandleUpdate_TrackMissAndUsage(t *testing.T) {
	bot, sender, tracker := newTestBot(t)
	ctx := context.Background()

	tracker.On("Track", ctx, "EN-2024-99999").Return(nil, nil)

	bot.HandleUpdate(ctx, command("/track EN-2024-99999", "en"))
	assert.Contains(t, sender.last(), "No complaint found")

	bot.HandleUpdate(ctx, command("/track", "en"))
	assert.Contains(t, sender.last(), "Usage: /track")
	tracker.AssertNumberOfCalls(t, "Track", 1)
}

func TestHandleUpdate_BareTrackingID(t *testing.T) {
	bot, sender, tracker := newTestBot(t)
	ctx := context.Background()

	tracker.On("Track", ctx, "en-2024-00001").Return(nil, errors.New("db down"))

	bot.HandleUpdate(ctx, text("en-2024-00001"))
	assert.Contains(t, sender.last(), "unexpected error")

	bot.HandleUpdate(ctx, text("hello there"))
	assert.Contains(t, sender.last(), "/track")
}

func TestHandleUpdate_Language(t *testing.T) {
	bot, sender, _ := newTestBot(t)
	ctx := context.Background()

	bot.HandleUpdate(ctx, command("/start", "uk"))
	assert.Contains(t, sender.last(), "Вітаємо")

	bot.HandleUpdate(ctx, command("/language en", "uk"))
	bot.HandleUpdate(ctx, command("/help", "uk"))
	assert.Contains(t, sender.last(), "Commands:")

	bot.HandleUpdate(ctx, command("/language fr", "uk"))
	assert.Contains(t, sender.last(), "/language")

	bot.HandleUpdate(ctx, command("/weather", "en"))
	assert.Contains(t, sender.last(), "Unknown command")
}
