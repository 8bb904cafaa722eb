package botapi

import (
	"context"
	"fmt"
	"html"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/pavelc4/aether-dl-bot/internal/chat"
)

// Messenger answers through the Bot API. The library has no context
// support, so ctx is only checked before each request.
type Messenger struct {
	api *tgbotapi.BotAPI
}

func (m *Messenger) Reply(ctx context.Context, to *chat.Message, text chat.Text) (*chat.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := tgbotapi.NewMessage(to.ChatID, renderHTML(text))
	out.ParseMode = tgbotapi.ModeHTML
	out.ReplyToMessageID = to.ID

	sent, err := m.api.Send(out)
	if err != nil {
		return nil, fmt.Errorf("send message failed: %w", err)
	}
	return &chat.Message{ID: sent.MessageID, ChatID: sent.Chat.ID, Text: sent.Text}, nil
}

func (m *Messenger) Edit(ctx context.Context, msg *chat.Message, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := m.api.Request(tgbotapi.NewEditMessageText(msg.ChatID, msg.ID, text)); err != nil {
		return fmt.Errorf("edit message %d failed: %w", msg.ID, err)
	}
	return nil
}

func (m *Messenger) Delete(ctx context.Context, msg *chat.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := m.api.Request(tgbotapi.NewDeleteMessage(msg.ChatID, msg.ID)); err != nil {
		return fmt.Errorf("delete message %d failed: %w", msg.ID, err)
	}
	return nil
}

func (m *Messenger) SendVideo(ctx context.Context, to *chat.Message, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	v := tgbotapi.NewVideo(to.ChatID, tgbotapi.FilePath(path))
	v.SupportsStreaming = true
	v.ReplyToMessageID = to.ID
	if _, err := m.api.Send(v); err != nil {
		return fmt.Errorf("send video failed: %w", err)
	}
	return nil
}

func (m *Messenger) SendDocument(ctx context.Context, to *chat.Message, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d := tgbotapi.NewDocument(to.ChatID, tgbotapi.FilePath(path))
	d.ReplyToMessageID = to.ID
	if _, err := m.api.Send(d); err != nil {
		return fmt.Errorf("send document failed: %w", err)
	}
	return nil
}

func renderHTML(text chat.Text) string {
	var b strings.Builder
	for _, s := range text {
		escaped := html.EscapeString(s.Text)
		if s.Bold {
			b.WriteString("<b>" + escaped + "</b>")
		} else {
			b.WriteString(escaped)
		}
	}
	return b.String()
}
