package services

import (
	"context"
	"fmt"
	"html"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"ydadvisory/internal/models"
	"ydadvisory/internal/valuation"
)

// Notifier pings the firm about new activity.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// TelegramNotifier posts HTML messages to one admin chat. A nil bot or zero
// chat id turns it into a no-op.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	log    *zap.Logger
}

// NewTelegramNotifier connects to the bot API. An empty token returns a
// disabled notifier.
func NewTelegramNotifier(token string, chatID int64, log *zap.Logger) (*TelegramNotifier, error) {
	return NewTelegramNotifierWithEndpoint(token, tgbotapi.APIEndpoint, chatID, http.DefaultClient, log)
}

func NewTelegramNotifierWithEndpoint(token, endpoint string, chatID int64, client tgbotapi.HTTPClient, log *zap.Logger) (*TelegramNotifier, error) {
	if log == nil {
		log = zap.NewNop()
	}
	n := &TelegramNotifier{chatID: chatID, log: log}
	if token == "" {
		return n, nil
	}
	bot, err := tgbotapi.NewBotAPIWithClient(token, endpoint, client)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	n.bot = bot
	log.Info("telegram notifier ready", zap.String("bot", bot.Self.UserName))
	return n, nil
}

func (n *TelegramNotifier) Enabled() bool {
	return n != nil && n.bot != nil && n.chatID != 0
}

func (n *TelegramNotifier) Notify(_ context.Context, text string) error {
	if !n.Enabled() {
		if n != nil {
			n.log.Debug("telegram skip: token or chat id empty")
		}
		return nil
	}
	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram sendMessage failed: %w", err)
	}
	return nil
}

func contactMessage(c *models.Contact) string {
	return fmt.Sprintf("<b>New enquiry</b>\n%s &lt;%s&gt;\n%s\n\n%s",
		html.EscapeString(c.Name), html.EscapeString(c.Email),
		html.EscapeString(c.Subject), html.EscapeString(c.Message))
}

func valuationMessage(s valuation.Snapshot) string {
	company := s.Answers.CompanyName
	if company == "" {
		company = "Unknown company"
	}
	return fmt.Sprintf("<b>Valuation computed</b>\n%s (%s, %s)\n%s\n%s",
		html.EscapeString(company), html.EscapeString(s.Answers.Industry),
		html.EscapeString(s.Answers.Country), valuation.FormatRange(s.Range),
		html.EscapeString(s.Answers.Email))
}
