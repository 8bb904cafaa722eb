package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
)

const (
	Reset  = "\033[0m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Cyan   = "\033[36m"
	Gray   = "\033[90m"
)

const tag = "[AETHER-DL]"

var levelStyles = map[slog.Level]struct {
	color string
	label string
}{
	slog.LevelDebug: {Gray, "DEBUG"},
	slog.LevelInfo:  {Green, "INFO "},
	slog.LevelWarn:  {Yellow, "WARN "},
	slog.LevelError: {Red, "ERROR"},
}

var (
	Log   *slog.Logger
	level = new(slog.LevelVar)
)

// PrettyHandler writes one coloured line per record. Attributes bound with
// WithAttrs are printed before the record's own attributes.
type PrettyHandler struct {
	out        io.Writer
	level      slog.Leveler
	mu         *sync.Mutex
	timeFormat string
	attrs      []slog.Attr
}

func NewPrettyHandler(out io.Writer, level slog.Leveler, timeFormat string) *PrettyHandler {
	if timeFormat == "" {
		timeFormat = "2006-01-02 15:04:05"
	}
	return &PrettyHandler{
		out:        out,
		level:      level,
		mu:         &sync.Mutex{},
		timeFormat: timeFormat,
	}
}

func (h *PrettyHandler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= h.level.Level()
}

func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	style, ok := levelStyles[r.Level]
	if !ok {
		style = levelStyles[slog.LevelInfo]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s%s%s %s %s|%s %s%s%s %s|%s %s",
		Cyan, tag, Reset,
		r.Time.Format(h.timeFormat),
		Gray, Reset,
		style.color, style.label, Reset,
		Gray, Reset,
		r.Message,
	)

	writeAttr := func(a slog.Attr) bool {
		fmt.Fprintf(&b, " %s%s%s=%v", Cyan, a.Key, Reset, a.Value.Any())
		return true
	}
	for _, a := range h.attrs {
		writeAttr(a)
	}
	r.Attrs(writeAttr)
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, b.String())
	return err
}

func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &clone
}

func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	return h
}

func init() {
	level.Set(slog.LevelInfo)
	Log = slog.New(NewPrettyHandler(os.Stdout, level, ""))
	slog.SetDefault(Log)
}

// SetLevel accepts debug, info, warn or error. Unknown names keep the
// current level and return an error.
func SetLevel(name string) error {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		level.Set(slog.LevelDebug)
	case "", "info":
		level.Set(slog.LevelInfo)
	case "warn", "warning":
		level.Set(slog.LevelWarn)
	case "error":
		level.Set(slog.LevelError)
	default:
		return fmt.Errorf("unknown log level %q", name)
	}
	return nil
}

func Info(msg string, args ...any) {
	Log.Info(msg, args...)
}

func Error(msg string, args ...any) {
	Log.Error(msg, args...)
}

func Debug(msg string, args ...any) {
	Log.Debug(msg, args...)
}

func Warn(msg string, args ...any) {
	Log.Warn(msg, args...)
}

func InfoWithDuration(msg string, start time.Time, args ...any) {
	args = append(args, "duration", time.Since(start).Round(time.Millisecond))
	Log.Info(msg, args...)
}

func ErrorWithDuration(msg string, start time.Time, args ...any) {
	args = append(args, "duration", time.Since(start).Round(time.Millisecond))
	Log.Error(msg, args...)
}
