// Package extractor turns a page URL into a media file on local disk.
package extractor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pavelc4/aether-dl-bot/pkg/utils"
)

var ErrNoOutput = errors.New("extractor produced no file")

// JobDirPrefix starts the name of every per-download directory created
// inside the download dir. Nothing else there belongs to the bot.
const JobDirPrefix = "dl-"

// Extractor downloads the best available media for url. Implementations
// block until the file is complete.
type Extractor interface {
	Download(ctx context.Context, url string) (*File, error)
}

// File is a downloaded media file. Remove deletes it together with the
// per-download directory it was written to, if any.
type File struct {
	Path string
	dir  string
}

func NewFile(path string) *File {
	return &File{Path: path}
}

func (f *File) Name() string {
	return filepath.Base(f.Path)
}

func (f *File) Size() (int64, error) {
	st, err := os.Stat(f.Path)
	if err != nil {
		return 0, fmt.Errorf("stat %s: %w", f.Path, err)
	}
	return st.Size(), nil
}

func (f *File) Remove() error {
	if f == nil {
		return nil
	}
	if f.dir != "" {
		return os.RemoveAll(f.dir)
	}
	return utils.RemoveFile(f.Path)
}

var extToMIME = map[string]string{
	".mp4":  "video/mp4",
	".m4v":  "video/mp4",
	".webm": "video/webm",
	".mov":  "video/quicktime",
	".mkv":  "video/x-matroska",
	".mp3":  "audio/mpeg",
	".m4a":  "audio/mp4",
	".gif":  "image/gif",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// MIMEType guesses the content type from the file extension and falls back
// to video/mp4, the container the default format selector prefers.
func MIMEType(path string) string {
	if mime, ok := extToMIME[strings.ToLower(filepath.Ext(path))]; ok {
		return mime
	}
	return "video/mp4"
}
