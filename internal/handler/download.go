package handler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pavelc4/aether-dl-bot/internal/chat"
	"github.com/pavelc4/aether-dl-bot/internal/extractor"
	"github.com/pavelc4/aether-dl-bot/internal/report"
	"github.com/pavelc4/aether-dl-bot/internal/stats"
	"github.com/pavelc4/aether-dl-bot/pkg/logger"
	"github.com/pavelc4/aether-dl-bot/pkg/utils"
	"github.com/pavelc4/aether-dl-bot/pkg/worker"
)

const cleanupTimeout = 30 * time.Second

// DownloadHandler fetches the media behind a URL and sends it back to the
// chat it came from.
type DownloadHandler struct {
	msgr       chat.Messenger
	extractor  extractor.Extractor
	pool       *worker.Pool
	videoLimit int64
	transport  string
}

type DownloadConfig struct {
	// VideoLimit is the size in bytes below which the file is sent as a
	// playable video. Larger files go out as documents.
	VideoLimit int64
	// Transport names the messenger in reports.
	Transport string
}

func NewDownloadHandler(msgr chat.Messenger, ex extractor.Extractor, pool *worker.Pool, cfg DownloadConfig) *DownloadHandler {
	return &DownloadHandler{
		msgr:       msgr,
		extractor:  ex,
		pool:       pool,
		videoLimit: cfg.VideoLimit,
		transport:  cfg.Transport,
	}
}

type stageError struct {
	stage string
	err   error
}

func (e *stageError) Error() string { return e.stage + ": " + e.err.Error() }
func (e *stageError) Unwrap() error { return e.err }

func (h *DownloadHandler) Handle(ctx context.Context, msg *chat.Message, url string) error {
	logger.Info("DownloadHandler Handle called", "url", url, "msg_id", msg.ID)

	status, err := h.msgr.Reply(ctx, msg, chat.Plain(textDownloading))
	if err != nil {
		return fmt.Errorf("send status failed: %w", err)
	}

	start := time.Now()
	var file *extractor.File
	defer func() {
		removeFile(file)
		cctx, cancel := cleanupContext(ctx)
		defer cancel()
		if err := h.msgr.Delete(cctx, status); err != nil {
			logger.Error("Failed to delete status message", "msg_id", status.ID, "error", err)
		}
	}()

	file, kind, size, err := h.fetchAndSend(ctx, msg, status, url)
	if err != nil {
		stage := "download"
		var se *stageError
		if errors.As(err, &se) {
			stage = se.stage
		}
		logger.ErrorWithDuration("Error processing video", start, "url", url, "stage", stage, "error", err)
		report.CaptureError(err, map[string]string{"stage": stage, "transport": h.transport})
		stats.RecordDownload(stats.KindFailed, 0, time.Since(start))

		cctx, cancel := cleanupContext(ctx)
		defer cancel()
		if _, rerr := h.msgr.Reply(cctx, msg, chat.Plain(textFailed)); rerr != nil {
			logger.Error("Failed to send error reply", "error", rerr)
		}
		return nil
	}

	stats.RecordDownload(kind, size, time.Since(start))
	logger.InfoWithDuration("Media sent", start, "file", file.Name(), "size", utils.FormatFileSize(size))
	return nil
}

// fetchAndSend returns the file even on failure so the caller can remove it.
func (h *DownloadHandler) fetchAndSend(ctx context.Context, msg, status *chat.Message, url string) (*extractor.File, stats.Kind, int64, error) {
	file, err := worker.DoOrDiscard(ctx, h.pool, func() (*extractor.File, error) {
		return h.extractor.Download(ctx, url)
	}, removeFile)
	if err != nil {
		return file, stats.KindFailed, 0, &stageError{"download", err}
	}

	if err := h.msgr.Edit(ctx, status, textUploading); err != nil {
		logger.Warn("Failed to edit status message", "msg_id", status.ID, "error", err)
	}

	size, err := file.Size()
	if err != nil {
		return file, stats.KindFailed, 0, &stageError{"upload", err}
	}

	kind := h.classify(size)
	if kind == stats.KindVideo {
		err = h.msgr.SendVideo(ctx, msg, file.Path)
	} else {
		err = h.msgr.SendDocument(ctx, msg, file.Path)
	}
	if err != nil {
		return file, stats.KindFailed, size, &stageError{"upload", err}
	}
	return file, kind, size, nil
}

// cleanupContext outlives a cancelled ctx so the status message is still
// deleted and the apology still sent during shutdown.
func cleanupContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
}

func removeFile(f *extractor.File) {
	if err := f.Remove(); err != nil {
		logger.Warn("Failed to remove download", "path", f.Path, "error", err)
	}
}

func (h *DownloadHandler) classify(size int64) stats.Kind {
	if size < h.videoLimit {
		return stats.KindVideo
	}
	return stats.KindDocument
}
