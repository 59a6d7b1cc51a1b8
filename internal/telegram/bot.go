package telegram

import (
	"encoding/json"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"monteCarloDash/internal/dashboard"
	"monteCarloDash/internal/logger"
)

type Bot struct {
	api *tgbotapi.BotAPI
	h   *Handlers
}

// NewBot connects to Telegram and points the webhook at webhookURL. usage
// may be nil.
func NewBot(token, webhookURL string, svc *dashboard.Service, usage UsageSource) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	webhook, err := tgbotapi.NewWebhook(webhookURL)
	if err != nil {
		return nil, err
	}
	if _, err := api.Request(webhook); err != nil {
		return nil, err
	}
	logger.With("telegram").WithField("url", webhookURL).Info("webhook set")

	return &Bot{api: api, h: NewHandlers(api, svc, usage)}, nil
}

// Webhook HTTP handler (registered at /telegram/webhook)
func (b *Bot) WebhookHandler(w http.ResponseWriter, r *http.Request) {
	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "bad update", 400)
		return
	}
	if update.Message != nil {
		logger.With("telegram").WithField("chat_id", update.Message.Chat.ID).
			WithField("text", update.Message.Text).Debug("webhook message")
		go b.h.HandleMessage(update.Message)
	}
	w.WriteHeader(http.StatusOK)
}
