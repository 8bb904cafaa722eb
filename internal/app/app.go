package app

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/pavelc4/aether-dl-bot/config"
	"github.com/pavelc4/aether-dl-bot/internal/bot"
	"github.com/pavelc4/aether-dl-bot/internal/botapi"
	"github.com/pavelc4/aether-dl-bot/internal/extractor"
	"github.com/pavelc4/aether-dl-bot/internal/handler"
	"github.com/pavelc4/aether-dl-bot/internal/middleware"
	"github.com/pavelc4/aether-dl-bot/internal/stats"
	"github.com/pavelc4/aether-dl-bot/internal/telegram"
	"github.com/pavelc4/aether-dl-bot/pkg/logger"
	"github.com/pavelc4/aether-dl-bot/pkg/utils"
	"github.com/pavelc4/aether-dl-bot/pkg/worker"
)

type App struct {
	Bot *bot.Bot
	Cfg *config.Config

	pool *worker.Pool
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := prepareDownloadDir(ctx, cfg); err != nil {
		return nil, err
	}

	yt := extractor.NewYtDlp(extractor.Options{
		Dir:     cfg.DownloadDir,
		Format:  cfg.YtdlpFormat,
		Output:  cfg.YtdlpOutput,
		Cookies: cfg.YtdlpCookies,
	})
	if cfg.YtdlpInstall {
		if err := yt.Install(ctx); err != nil {
			return nil, err
		}
	}

	transport, err := newTransport(cfg)
	if err != nil {
		return nil, err
	}

	return build(cfg, transport, yt), nil
}

func prepareDownloadDir(ctx context.Context, cfg *config.Config) error {
	if err := utils.EnsureDir(cfg.DownloadDir); err != nil {
		return err
	}
	if cfg.ShouldCleanOnStart() {
		utils.CleanupDir(ctx, cfg.DownloadDir, extractor.JobDirPrefix+"*")
	}
	stats.HostSnapshot(cfg.DownloadDir).Log()
	return nil
}

func newTransport(cfg *config.Config) (bot.Transport, error) {
	if cfg.UseMTProto() {
		logger.Info("Using MTProto transport", "session_dir", cfg.SessionDir)
		c, err := telegram.NewClient(telegram.Options{
			AppID:      cfg.AppID,
			AppHash:    cfg.AppHash,
			BotToken:   cfg.BotToken,
			SessionDir: cfg.SessionDir,
		})
		if err != nil {
			return nil, fmt.Errorf("mtproto transport: %w", err)
		}
		return c, nil
	}

	logger.Info("Using Bot API transport", "api_url", cfg.TelegramAPIURL)
	t, err := botapi.New(cfg.BotToken, cfg.TelegramAPIURL)
	if err != nil {
		return nil, fmt.Errorf("bot api transport: %w", err)
	}
	return t, nil
}

func build(cfg *config.Config, transport bot.Transport, ex extractor.Extractor) *App {
	pool := worker.NewPool(cfg.DownloadWorkers)
	logger.Info("Download workers ready", "workers", pool.Size())

	msgr := transport.Messenger()
	basicHandler := handler.NewBasicHandler(msgr)
	dlHandler := handler.NewDownloadHandler(msgr, ex, pool, handler.DownloadConfig{
		VideoLimit: cfg.VideoSizeLimit(),
		Transport:  transport.Name(),
	})

	router := bot.NewRouter(basicHandler, dlHandler)
	h := middleware.Chain(router.HandleMessage,
		middleware.Recover,
		middleware.Logger("OnNewMessage"),
		middleware.OwnerOnly(cfg.OwnerID),
	)

	logger.Info("Application initialized successfully", "owner_id", cfg.OwnerID)
	return &App{
		Bot:  bot.New(transport, h, cfg.MaxConcurrentUpdates),
		Cfg:  cfg,
		pool: pool,
	}
}

// Run serves updates until ctx ends or the transport fails, then stops the
// worker pool.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		return a.Bot.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		a.pool.Stop()
		return nil
	})

	err := g.Wait()
	stats.GetSnapshot().Log()
	return err
}
