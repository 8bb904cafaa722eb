package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var envKeys = []string{
	"CONFIG_FILE", "BOT_TOKEN", "OWNER_ID", "APP_ID", "APP_HASH", "SESSION_DIR",
	"TELEGRAM_API_URL", "DOWNLOAD_DIR", "VIDEO_SIZE_LIMIT_MB", "DOWNLOAD_WORKERS",
	"CLEAN_ON_START", "YTDLP_FORMAT", "YTDLP_OUTPUT", "YTDLP_COOKIES", "YTDLP_INSTALL",
	"MAX_CONCURRENT_UPDATES", "LOG_LEVEL", "SENTRY_DSN", "SENTRY_ENVIRONMENT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func boolPtr(b bool) *bool { return &b }

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("OWNER_ID", "42")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}

	want := &Config{
		BotToken:             "123:abc",
		OwnerID:              42,
		SessionDir:           DefaultSessionDir,
		DownloadDir:          DefaultDownloadDir,
		VideoSizeLimitMB:     50,
		DownloadWorkers:      runtime.NumCPU(),
		CleanOnStart:         boolPtr(true),
		YtdlpFormat:          DefaultYtdlpFormat,
		YtdlpOutput:          DefaultYtdlpOutput,
		MaxConcurrentUpdates: DefaultMaxConcurrentUpdates,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
	if cfg.UseMTProto() {
		t.Error("UseMTProto() = true without APP_ID/APP_HASH")
	}
	if got := cfg.VideoSizeLimit(); got != 50*1024*1024 {
		t.Errorf("VideoSizeLimit() = %d", got)
	}
}

func TestLoadErrors(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"missing token", map[string]string{"OWNER_ID": "1"}, "BOT_TOKEN is not set"},
		{"missing owner", map[string]string{"BOT_TOKEN": "t"}, "OWNER_ID is not set"},
		{"bad owner", map[string]string{"BOT_TOKEN": "t", "OWNER_ID": "me"}, "invalid OWNER_ID"},
		{"half mtproto", map[string]string{"BOT_TOKEN": "t", "OWNER_ID": "1", "APP_ID": "5"}, "APP_ID and APP_HASH"},
		{"bad workers", map[string]string{"BOT_TOKEN": "t", "OWNER_ID": "1", "DOWNLOAD_WORKERS": "many"}, "invalid DOWNLOAD_WORKERS"},
		{"negative limit", map[string]string{"BOT_TOKEN": "t", "OWNER_ID": "1", "VIDEO_SIZE_LIMIT_MB": "-1"}, "VIDEO_SIZE_LIMIT_MB"},
		{"bad bool", map[string]string{"BOT_TOKEN": "t", "OWNER_ID": "1", "CLEAN_ON_START": "sometimes"}, "invalid CLEAN_ON_START"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if err == nil {
				t.Fatal("Load() returned nil error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("Load() error = %q, want it to contain %q", err, tc.want)
			}
		})
	}
}

func TestLoadFileWithEnvOverride(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := `bot_token: from-file
owner_id: 7
app_id: 12345
app_hash: deadbeef
download_dir: /tmp/videos
video_size_limit_mb: 20
clean_on_start: false
log_level: debug
`
	if err := os.WriteFile(path, []byte(yml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("OWNER_ID", "99")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}

	if cfg.BotToken != "from-file" {
		t.Errorf("BotToken = %q", cfg.BotToken)
	}
	if cfg.OwnerID != 99 {
		t.Errorf("OwnerID = %d, want env override 99", cfg.OwnerID)
	}
	if !cfg.UseMTProto() {
		t.Error("UseMTProto() = false with app_id/app_hash in file")
	}
	if cfg.DownloadDir != "/tmp/videos" || cfg.VideoSizeLimit() != 20<<20 {
		t.Errorf("download settings = %q %d", cfg.DownloadDir, cfg.VideoSizeLimit())
	}
	if cfg.ShouldCleanOnStart() {
		t.Error("ShouldCleanOnStart() = true, file disabled it")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))
	if _, err := Load(); err == nil {
		t.Fatal("Load() with missing CONFIG_FILE returned nil error")
	}
}
