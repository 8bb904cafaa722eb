package bot

import (
	"context"
	"strings"

	"github.com/pavelc4/aether-dl-bot/internal/chat"
	"github.com/pavelc4/aether-dl-bot/internal/provider"
	"github.com/pavelc4/aether-dl-bot/pkg/logger"
)

type StartHandler interface {
	HandleStart(ctx context.Context, msg *chat.Message) error
}

type URLHandler interface {
	Handle(ctx context.Context, msg *chat.Message, url string) error
}

type Router struct {
	start    StartHandler
	download URLHandler
}

func NewRouter(start StartHandler, dl URLHandler) *Router {
	return &Router{
		start:    start,
		download: dl,
	}
}

// HandleMessage routes /start to the greeting and any text containing a URL
// to the downloader. Everything else is ignored.
func (r *Router) HandleMessage(ctx context.Context, msg *chat.Message) error {
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return nil
	}
	logger.Debug("HandleMessage called", "id", msg.ID, "text", text)

	if command(text) == "/start" {
		return r.start.HandleStart(ctx, msg)
	}

	if url := provider.ExtractURL(text); url != "" {
		return r.download.Handle(ctx, msg, url)
	}

	return nil
}

// command returns the leading command token without its @botname suffix,
// or "" when text is not a command.
func command(text string) string {
	if !strings.HasPrefix(text, "/") {
		return ""
	}
	cmd := strings.Fields(text)[0]
	if idx := strings.Index(cmd, "@"); idx != -1 {
		cmd = cmd[:idx]
	}
	return strings.ToLower(cmd)
}
