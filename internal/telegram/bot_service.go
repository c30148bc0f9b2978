// Package telegram runs a Telegram bot that answers public tracking lookups.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"ethereal/backend/internal/complaint"
	"ethereal/backend/internal/localization"
	"ethereal/backend/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Sender is the part of *tgbotapi.BotAPI the bot replies through.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Tracker looks complaints up by tracking id.
type Tracker interface {
	Track(ctx context.Context, trackingID string) (*models.Complaint, error)
	Timeline(ctx context.Context, c *models.Complaint) ([]complaint.TimelineStep, error)
}

// BotService receives Telegram updates and answers /track lookups.
type BotService struct {
	BotAPI    *tgbotapi.BotAPI
	Sender    Sender
	Tracker   Tracker
	Localizer *localization.Localizer
	Logger    *zap.Logger

	mu        sync.RWMutex
	languages map[int64]string
}

// NewBotService authorizes the bot token.
func NewBotService(token string, tracker Tracker, localizer *localization.Localizer, logger *zap.Logger) (*BotService, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("authorize telegram bot: %w", err)
	}
	bot.Debug = false

	s := NewBotServiceWithSender(bot, tracker, localizer, logger)
	s.BotAPI = bot
	s.Logger.Info("telegram bot authorized", zap.String("username", bot.Self.UserName))
	return s, nil
}

// NewBotServiceWithSender builds a bot around any Sender.
func NewBotServiceWithSender(sender Sender, tracker Tracker, localizer *localization.Localizer, logger *zap.Logger) *BotService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BotService{
		Sender:    sender,
		Tracker:   tracker,
		Localizer: localizer,
		Logger:    logger,
		languages: make(map[int64]string),
	}
}

// Run is the main loop for receiving Telegram updates. It returns when ctx is done.
func (s *BotService) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := s.BotAPI.GetUpdatesChan(u)
	defer s.BotAPI.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			s.HandleUpdate(ctx, update)
		}
	}
}

// HandleUpdate answers one update.
func (s *BotService) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil {
		return
	}
	chatID := msg.Chat.ID
	lang := s.language(msg)

	if !msg.IsCommand() {
		text := strings.TrimSpace(msg.Text)
		if looksLikeTrackingID(text) {
			s.reply(chatID, s.lookup(ctx, lang, text))
			return
		}
		s.reply(chatID, s.Localizer.GetString(lang, "bot_help"))
		return
	}

	switch msg.Command() {
	case "start":
		s.reply(chatID, s.Localizer.GetString(lang, "bot_welcome"))
	case "help":
		s.reply(chatID, s.Localizer.GetString(lang, "bot_help"))
	case "track":
		id := strings.TrimSpace(msg.CommandArguments())
		if id == "" {
			s.reply(chatID, s.Localizer.GetString(lang, "bot_track_usage"))
			return
		}
		s.reply(chatID, s.lookup(ctx, lang, id))
	case "language":
		s.handleLanguageCommand(chatID, msg.CommandArguments())
	default:
		s.reply(chatID, s.Localizer.GetString(lang, "bot_unknown_command"))
	}
}

// lookup renders the status card for a tracking id.
func (s *BotService) lookup(ctx context.Context, lang, trackingID string) string {
	found, err := s.Tracker.Track(ctx, trackingID)
	if errors.Is(err, complaint.ErrMissingTrackingID) {
		return s.Localizer.GetString(lang, "bot_track_usage")
	}
	if err != nil {
		s.Logger.Error("telegram tracking lookup failed", zap.String("tracking_id", trackingID), zap.Error(err))
		return s.Localizer.GetString(lang, "unexpected_error")
	}
	if found == nil {
		return s.Localizer.GetString(lang, "complaint_not_found")
	}

	var b strings.Builder
	b.WriteString(s.Localizer.Format(lang, "bot_status",
		found.TrackingID,
		found.Title,
		found.Category,
		found.Status,
		found.Priority,
		found.SubmittedAt.Format("02 Jan 2006"),
	))

	steps, err := s.Tracker.Timeline(ctx, found)
	if err != nil {
		s.Logger.Warn("telegram timeline unavailable", zap.String("tracking_id", found.TrackingID), zap.Error(err))
		return b.String()
	}
	if len(steps) > 0 {
		b.WriteString("\n")
	}
	for _, step := range steps {
		b.WriteString("\n")
		b.WriteString(step.At.Format("02 Jan 15:04"))
		b.WriteString(" - ")
		b.WriteString(string(step.Action))
		if step.Status != "" {
			b.WriteString(" (" + string(step.Status) + ")")
		}
	}
	return b.String()
}

// handleLanguageCommand switches the chat language: /language ua.
func (s *BotService) handleLanguageCommand(chatID int64, arg string) {
	lang := strings.ToLower(strings.TrimSpace(arg))
	supported := false
	for _, l := range s.Localizer.Languages() {
		if l == lang {
			supported = true
			break
		}
	}
	if !supported {
		s.reply(chatID, "/language "+strings.Join(s.Localizer.Languages(), " | "))
		return
	}

	s.mu.Lock()
	s.languages[chatID] = lang
	s.mu.Unlock()
	s.reply(chatID, s.Localizer.GetString(lang, "bot_welcome"))
}

// language is the chat's chosen language, else the sender's client language.
func (s *BotService) language(msg *tgbotapi.Message) string {
	s.mu.RLock()
	lang, ok := s.languages[msg.Chat.ID]
	s.mu.RUnlock()
	if ok {
		return lang
	}
	if msg.From != nil {
		return s.Localizer.Pick(msg.From.LanguageCode)
	}
	return localization.DefaultLanguage
}

func (s *BotService) reply(chatID int64, text string) {
	if _, err := s.Sender.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		s.Logger.Warn("failed to send telegram message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// looksLikeTrackingID accepts bare ids such as "en-2024-00123".
func looksLikeTrackingID(text string) bool {
	return strings.HasPrefix(complaint.NormalizeTrackingID(text), "EN-") && !strings.ContainsAny(text, " \n")
}
