package bot

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/pavelc4/aether-dl-bot/internal/chat"
	"github.com/pavelc4/aether-dl-bot/internal/middleware"
	"github.com/pavelc4/aether-dl-bot/pkg/logger"
)

// Dispatch is called by a transport for every incoming message.
type Dispatch func(ctx context.Context, msg *chat.Message)

// Transport receives updates from Telegram and answers through Messenger.
type Transport interface {
	Name() string
	Messenger() chat.Messenger
	Run(ctx context.Context, dispatch Dispatch) error
}

type Bot struct {
	transport Transport
	handler   middleware.Handler
	sem       *semaphore.Weighted
	wg        sync.WaitGroup
}

func New(t Transport, h middleware.Handler, maxConcurrent int) *Bot {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Bot{
		transport: t,
		handler:   h,
		sem:       semaphore.NewWeighted(int64(maxConcurrent)),
	}
}

// Run blocks until the transport stops, then waits for handlers still in
// flight.
func (b *Bot) Run(ctx context.Context) error {
	logger.Info("Starting transport", "transport", b.transport.Name())
	err := b.transport.Run(ctx, b.dispatch)
	b.wg.Wait()
	return err
}

// dispatch runs the handler on its own goroutine so a long download never
// stalls the update loop. It blocks while maxConcurrent handlers are busy.
func (b *Bot) dispatch(ctx context.Context, msg *chat.Message) {
	if ctx.Err() != nil {
		return
	}
	if err := b.sem.Acquire(ctx, 1); err != nil {
		logger.Warn("Dropping update", "msg_id", msg.ID, "error", err)
		return
	}

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		defer b.sem.Release(1)

		if err := b.handler(ctx, msg); err != nil {
			logger.Error("OnMessage failed", "msg_id", msg.ID, "error", err)
		}
	}()
}
