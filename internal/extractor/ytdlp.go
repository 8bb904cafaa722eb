package extractor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lrstanley/go-ytdlp"
	"github.com/pavelc4/aether-dl-bot/pkg/logger"
)

type Options struct {
	// Dir receives one subdirectory per download.
	Dir string
	// Format is the yt-dlp format selector.
	Format string
	// Output is the file name template inside the download's directory.
	Output string
	// Cookies is an optional Netscape cookies file.
	Cookies string
}

// YtDlp drives the yt-dlp binary through go-ytdlp.
type YtDlp struct {
	opts Options
}

func NewYtDlp(opts Options) *YtDlp {
	return &YtDlp{opts: opts}
}

// Install makes sure a usable yt-dlp binary is available, downloading it
// into the user cache when needed.
func (y *YtDlp) Install(ctx context.Context) error {
	start := time.Now()
	if _, err := ytdlp.Install(ctx, nil); err != nil {
		return fmt.Errorf("install yt-dlp: %w", err)
	}
	logger.InfoWithDuration("yt-dlp ready", start)
	return nil
}

func (y *YtDlp) command(jobDir string) *ytdlp.Command {
	cmd := ytdlp.New().
		Format(y.opts.Format).
		Output(filepath.Join(jobDir, y.opts.Output)).
		NoPlaylist().
		NoSimulate().
		Print("after_move:filepath")

	if y.opts.Cookies != "" {
		if _, err := os.Stat(y.opts.Cookies); err == nil {
			cmd = cmd.Cookies(y.opts.Cookies)
		} else {
			logger.Warn("Cookie file not found", "path", y.opts.Cookies)
		}
	}
	return cmd
}

func (y *YtDlp) Download(ctx context.Context, url string) (*File, error) {
	jobDir, err := os.MkdirTemp(y.opts.Dir, JobDirPrefix)
	if err != nil {
		return nil, fmt.Errorf("create job directory: %w", err)
	}
	file := &File{dir: jobDir}

	start := time.Now()
	logger.Info("Starting download", "url", url, "dir", jobDir)

	res, err := y.command(jobDir).Run(ctx, url)
	if err != nil {
		_ = file.Remove()
		if res != nil && res.Stderr != "" {
			return nil, fmt.Errorf("yt-dlp failed: %w: %s", err, lastLine(res.Stderr))
		}
		return nil, fmt.Errorf("yt-dlp failed: %w", err)
	}

	path, err := printedPath(res.Stdout)
	if err != nil {
		_ = file.Remove()
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		_ = file.Remove()
		return nil, fmt.Errorf("downloaded file missing: %w", err)
	}

	file.Path = path
	logger.InfoWithDuration("Download finished", start, "file", file.Name())
	return file, nil
}

// printedPath picks the file path yt-dlp printed after moving the final
// file into place. It is the last non-empty line of stdout.
func printedPath(stdout string) (string, error) {
	line := lastLine(stdout)
	if line == "" || line == "NA" {
		return "", ErrNoOutput
	}
	return line, nil
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			return l
		}
	}
	return ""
}

var _ Extractor = (*YtDlp)(nil)
