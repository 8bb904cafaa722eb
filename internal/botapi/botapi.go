// Package botapi is the HTTP Bot API transport, built on
// telegram-bot-api/v5 with long polling.
package botapi

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/pavelc4/aether-dl-bot/internal/bot"
	"github.com/pavelc4/aether-dl-bot/internal/chat"
	"github.com/pavelc4/aether-dl-bot/pkg/client"
	"github.com/pavelc4/aether-dl-bot/pkg/logger"
)

const (
	updateTimeout = 60
	maxMessageAge = 5 * time.Minute
)

type Transport struct {
	api  *tgbotapi.BotAPI
	msgr *Messenger
}

// New connects to the Bot API at apiURL (the public endpoint when empty)
// and verifies the token with getMe.
func New(token, apiURL string) (*Transport, error) {
	endpoint := tgbotapi.APIEndpoint
	if apiURL != "" {
		endpoint = strings.TrimRight(apiURL, "/") + "/bot%s/%s"
	}

	api, err := tgbotapi.NewBotAPIWithClient(token, endpoint, client.Bot())
	if err != nil {
		return nil, fmt.Errorf("bot api login failed: %w", err)
	}
	logger.Info("Bot API connected", "username", api.Self.UserName, "id", api.Self.ID)

	return &Transport{api: api, msgr: &Messenger{api: api}}, nil
}

func (t *Transport) Name() string {
	return "botapi"
}

func (t *Transport) Messenger() chat.Messenger {
	return t.msgr
}

func (t *Transport) Run(ctx context.Context, dispatch bot.Dispatch) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = updateTimeout

	updates := t.api.GetUpdatesChan(u)
	defer t.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Bot API polling stopped")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			msg := update.Message
			if msg == nil {
				continue
			}
			if time.Since(msg.Time()) > maxMessageAge {
				logger.Debug("Ignoring old message", "msg_id", msg.MessageID)
				continue
			}
			dispatch(ctx, toMessage(msg))
		}
	}
}

func toMessage(m *tgbotapi.Message) *chat.Message {
	msg := &chat.Message{
		ID:     m.MessageID,
		ChatID: m.Chat.ID,
		Text:   m.Text,
		Date:   m.Time(),
	}
	if m.From != nil {
		msg.SenderID = m.From.ID
		msg.SenderName = strings.TrimSpace(m.From.FirstName + " " + m.From.LastName)
	}
	return msg
}
