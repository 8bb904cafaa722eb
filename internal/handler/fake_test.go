package handler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pavelc4/aether-dl-bot/internal/chat"
	"github.com/pavelc4/aether-dl-bot/internal/extractor"
)

// fakeMessenger records every call as a short event string.
type fakeMessenger struct {
	mu      sync.Mutex
	events  []string
	replies []chat.Text
	nextID  int
	live    map[int]bool

	failVideo bool
}

func newFakeMessenger() *fakeMessenger {
	return &fakeMessenger{nextID: 100, live: map[int]bool{}}
}

func (f *fakeMessenger) record(format string, args ...any) {
	f.events = append(f.events, fmt.Sprintf(format, args...))
}

func (f *fakeMessenger) Reply(ctx context.Context, to *chat.Message, text chat.Text) (*chat.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.nextID++
	f.live[f.nextID] = true
	f.replies = append(f.replies, text)
	f.record("reply %d: %s", to.ID, text.String())
	return &chat.Message{ID: f.nextID, ChatID: to.ChatID, Text: text.String()}, nil
}

func (f *fakeMessenger) Edit(ctx context.Context, msg *chat.Message, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	f.record("edit %d: %s", msg.ID, text)
	return nil
}

func (f *fakeMessenger) Delete(ctx context.Context, msg *chat.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	delete(f.live, msg.ID)
	f.record("delete %d", msg.ID)
	return nil
}

func (f *fakeMessenger) SendVideo(ctx context.Context, to *chat.Message, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		return err
	}
	if f.failVideo {
		return errors.New("request entity too large")
	}
	f.record("video %d: %s", to.ID, filepath.Base(path))
	return nil
}

func (f *fakeMessenger) SendDocument(ctx context.Context, to *chat.Message, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		return err
	}
	f.record("document %d: %s", to.ID, filepath.Base(path))
	return nil
}

// fakeExtractor writes a sparse file of the requested size. When started is
// set it is closed on entry and Download waits for release.
type fakeExtractor struct {
	dir  string
	name string
	size int64
	err  error

	started chan struct{}
	release chan struct{}

	mu    sync.Mutex
	paths []string
	urls  []string
}

func (f *fakeExtractor) Download(_ context.Context, url string) (*extractor.File, error) {
	if f.started != nil {
		close(f.started)
		<-f.release
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.urls = append(f.urls, url)
	if f.err != nil {
		return nil, f.err
	}
	path := filepath.Join(f.dir, f.name)
	out, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer out.Close()
	if err := out.Truncate(f.size); err != nil {
		return nil, err
	}
	f.paths = append(f.paths, path)
	return extractor.NewFile(path), nil
}
