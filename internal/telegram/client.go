// Package telegram is the MTProto transport, built on gotd/td. It logs in
// as a bot with BOT_TOKEN and needs APP_ID/APP_HASH from my.telegram.org.
package telegram

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/gotd/td/session"
	"github.com/gotd/td/telegram"
	"github.com/gotd/td/tg"

	"github.com/pavelc4/aether-dl-bot/internal/bot"
	"github.com/pavelc4/aether-dl-bot/internal/chat"
	"github.com/pavelc4/aether-dl-bot/pkg/logger"
	"github.com/pavelc4/aether-dl-bot/pkg/utils"
)

type Options struct {
	AppID      int
	AppHash    string
	BotToken   string
	SessionDir string
}

type Client struct {
	client     *telegram.Client
	dispatcher tg.UpdateDispatcher
	token      string
	msgr       *Messenger
}

func NewClient(opts Options) (*Client, error) {
	if err := utils.EnsureDir(opts.SessionDir); err != nil {
		return nil, err
	}
	dispatcher := tg.NewUpdateDispatcher()

	client := telegram.NewClient(opts.AppID, opts.AppHash, telegram.Options{
		SessionStorage: &session.FileStorage{Path: filepath.Join(opts.SessionDir, "session.json")},
		UpdateHandler:  dispatcher,
	})

	return &Client{
		client:     client,
		dispatcher: dispatcher,
		token:      opts.BotToken,
		msgr:       NewMessenger(client.API()),
	}, nil
}

func (c *Client) Name() string {
	return "mtproto"
}

func (c *Client) Messenger() chat.Messenger {
	return c.msgr
}

// Run registers the message handlers, logs in and blocks until ctx ends.
func (c *Client) Run(ctx context.Context, dispatch bot.Dispatch) error {
	c.dispatcher.OnNewMessage(func(_ context.Context, e tg.Entities, update *tg.UpdateNewMessage) error {
		c.deliver(ctx, e, update.Message, dispatch)
		return nil
	})
	c.dispatcher.OnNewChannelMessage(func(_ context.Context, e tg.Entities, update *tg.UpdateNewChannelMessage) error {
		c.deliver(ctx, e, update.Message, dispatch)
		return nil
	})

	err := c.client.Run(ctx, func(ctx context.Context) error {
		status, err := c.client.Auth().Status(ctx)
		if err != nil {
			return fmt.Errorf("auth status failed: %w", err)
		}

		if !status.Authorized {
			if _, err := c.client.Auth().Bot(ctx, c.token); err != nil {
				return fmt.Errorf("bot login failed: %w", err)
			}
		}

		me, err := c.client.Self(ctx)
		if err != nil {
			return fmt.Errorf("get self failed: %w", err)
		}

		logger.Info("Telegram client connected", "username", me.Username, "id", me.ID)

		<-ctx.Done()
		return nil
	})
	if ctx.Err() != nil {
		// Shutdown, not a failure.
		return nil
	}
	return err
}

func (c *Client) deliver(ctx context.Context, e tg.Entities, m tg.MessageClass, dispatch bot.Dispatch) {
	msg, ok := m.(*tg.Message)
	if !ok {
		return
	}
	converted, err := ToMessage(e, msg)
	if err != nil {
		logger.Warn("Skipping message", "id", msg.ID, "error", err)
		return
	}
	if converted == nil {
		return
	}
	dispatch(ctx, converted)
}
