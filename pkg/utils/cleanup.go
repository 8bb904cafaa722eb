package utils

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pavelc4/aether-dl-bot/pkg/logger"
)

// EnsureDir creates dir and its parents when missing.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	return nil
}

// RemoveFile deletes a single downloaded file. A file that is already gone
// is not an error.
func RemoveFile(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("Failed to remove file", "path", path, "error", err)
		return err
	}
	return nil
}

// CleanupDir removes the entries inside dir whose names match pattern (a
// filepath.Match pattern), keeping dir itself and everything else in it. It
// stops early when ctx is done and returns how many entries were removed.
func CleanupDir(ctx context.Context, dir, pattern string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warn("Failed to read directory", "dir", dir, "error", err)
		}
		return 0
	}

	cleaned := 0
	for _, entry := range entries {
		select {
		case <-ctx.Done():
			logger.Warn("Cleanup cancelled", "dir", dir, "cleaned", cleaned)
			return cleaned
		default:
		}

		matched, err := filepath.Match(pattern, entry.Name())
		if err != nil {
			logger.Warn("Bad cleanup pattern", "pattern", pattern, "error", err)
			return cleaned
		}
		if !matched {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			logger.Warn("Failed to remove leftover", "path", path, "error", err)
			continue
		}
		cleaned++
		logger.Debug("Removed leftover", "path", path)
	}

	if cleaned > 0 {
		logger.Info("Download directory cleaned", "dir", dir, "removed", cleaned)
	}
	return cleaned
}
