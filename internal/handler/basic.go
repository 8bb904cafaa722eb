package handler

import (
	"context"
	"strings"

	"github.com/pavelc4/aether-dl-bot/internal/chat"
)

type BasicHandler struct {
	msgr chat.Messenger
}

func NewBasicHandler(msgr chat.Messenger) *BasicHandler {
	return &BasicHandler{msgr: msgr}
}

func (h *BasicHandler) HandleStart(ctx context.Context, msg *chat.Message) error {
	_, err := h.msgr.Reply(ctx, msg, startText(msg.SenderName))
	return err
}

func startText(name string) chat.Text {
	name = strings.TrimSpace(name)
	if name == "" {
		name = fallbackName
	}
	return chat.Text{
		{Text: "Hi "},
		chat.Bold(name),
		{Text: textStartBody},
	}
}
