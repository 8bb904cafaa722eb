package middleware

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/pavelc4/aether-dl-bot/internal/chat"
	"github.com/pavelc4/aether-dl-bot/internal/report"
	"github.com/pavelc4/aether-dl-bot/pkg/logger"
)

type Handler func(ctx context.Context, msg *chat.Message) error

type Middleware func(Handler) Handler

// Chain wraps h so that the first middleware is the outermost.
func Chain(h Handler, middlewares ...Middleware) Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

func Recover(next Handler) Handler {
	return func(ctx context.Context, msg *chat.Message) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("Panic recovered", "error", r, "stack", string(debug.Stack()))
				err = fmt.Errorf("panic: %v", r)
				report.CaptureError(err, map[string]string{"stage": "panic"})
			}
		}()
		return next(ctx, msg)
	}
}

func Logger(name string) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, msg *chat.Message) error {
			start := time.Now()

			defer func() {
				duration := time.Since(start)
				if duration > 100*time.Millisecond {
					logger.Info("Handler completed (slow)", "name", name, "msg_id", msg.ID, "duration", duration)
				} else {
					logger.Debug("Handler completed", "name", name, "msg_id", msg.ID, "duration", duration)
				}
			}()

			return next(ctx, msg)
		}
	}
}

// OwnerOnly drops every message whose sender is not ownerID. Nothing is sent
// back to the sender.
func OwnerOnly(ownerID int64) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, msg *chat.Message) error {
			if ownerID == 0 || msg.SenderID != ownerID {
				logger.Warn("Blocked access", "user_id", msg.SenderID)
				return nil
			}
			return next(ctx, msg)
		}
	}
}
