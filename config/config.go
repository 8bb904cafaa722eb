package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDownloadDir          = "downloads"
	DefaultSessionDir           = "session"
	DefaultVideoSizeLimitMB     = 50
	DefaultMaxConcurrentUpdates = 16
	DefaultYtdlpFormat          = "bestvideo[ext=mp4]+bestaudio[ext=m4a]/best[ext=mp4]/best"
	DefaultYtdlpOutput          = "%(title)s.%(ext)s"
)

// Config holds all application configuration. Values come from an optional
// YAML file named by CONFIG_FILE, then from the environment (and .env).
type Config struct {
	// Telegram
	BotToken       string `yaml:"bot_token"`
	OwnerID        int64  `yaml:"owner_id"`
	AppID          int    `yaml:"app_id"`
	AppHash        string `yaml:"app_hash"`
	SessionDir     string `yaml:"session_dir"`
	TelegramAPIURL string `yaml:"telegram_api_url"`

	// Downloads
	DownloadDir      string `yaml:"download_dir"`
	VideoSizeLimitMB int    `yaml:"video_size_limit_mb"`
	DownloadWorkers  int    `yaml:"download_workers"`
	CleanOnStart     *bool  `yaml:"clean_on_start"`

	// yt-dlp
	YtdlpFormat  string `yaml:"ytdlp_format"`
	YtdlpOutput  string `yaml:"ytdlp_output"`
	YtdlpCookies string `yaml:"ytdlp_cookies"`
	YtdlpInstall bool   `yaml:"ytdlp_install"`

	// Dispatch
	MaxConcurrentUpdates int `yaml:"max_concurrent_updates"`

	// Observability
	LogLevel          string `yaml:"log_level"`
	SentryDSN         string `yaml:"sentry_dsn"`
	SentryEnvironment string `yaml:"sentry_environment"`
}

// Load reads .env (when present), the YAML file named by CONFIG_FILE (when
// set) and the environment, applies defaults and validates the result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) loadEnv() error {
	setString(&c.BotToken, "BOT_TOKEN")
	setString(&c.AppHash, "APP_HASH")
	setString(&c.SessionDir, "SESSION_DIR")
	setString(&c.TelegramAPIURL, "TELEGRAM_API_URL")
	setString(&c.DownloadDir, "DOWNLOAD_DIR")
	setString(&c.YtdlpFormat, "YTDLP_FORMAT")
	setString(&c.YtdlpOutput, "YTDLP_OUTPUT")
	setString(&c.YtdlpCookies, "YTDLP_COOKIES")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.SentryDSN, "SENTRY_DSN")
	setString(&c.SentryEnvironment, "SENTRY_ENVIRONMENT")

	if v, ok := lookup("OWNER_ID"); ok {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid OWNER_ID %q: %w", v, err)
		}
		c.OwnerID = id
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"APP_ID", &c.AppID},
		{"VIDEO_SIZE_LIMIT_MB", &c.VideoSizeLimitMB},
		{"DOWNLOAD_WORKERS", &c.DownloadWorkers},
		{"MAX_CONCURRENT_UPDATES", &c.MaxConcurrentUpdates},
	}
	for _, it := range ints {
		v, ok := lookup(it.key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", it.key, v, err)
		}
		*it.dst = n
	}

	if v, ok := lookup("YTDLP_INSTALL"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid YTDLP_INSTALL %q: %w", v, err)
		}
		c.YtdlpInstall = b
	}
	if v, ok := lookup("CLEAN_ON_START"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid CLEAN_ON_START %q: %w", v, err)
		}
		c.CleanOnStart = &b
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.DownloadDir == "" {
		c.DownloadDir = DefaultDownloadDir
	}
	if c.SessionDir == "" {
		c.SessionDir = DefaultSessionDir
	}
	if c.VideoSizeLimitMB == 0 {
		c.VideoSizeLimitMB = DefaultVideoSizeLimitMB
	}
	if c.DownloadWorkers == 0 {
		c.DownloadWorkers = runtime.NumCPU()
	}
	if c.MaxConcurrentUpdates == 0 {
		c.MaxConcurrentUpdates = DefaultMaxConcurrentUpdates
	}
	if c.YtdlpFormat == "" {
		c.YtdlpFormat = DefaultYtdlpFormat
	}
	if c.YtdlpOutput == "" {
		c.YtdlpOutput = DefaultYtdlpOutput
	}
	if c.CleanOnStart == nil {
		clean := true
		c.CleanOnStart = &clean
	}
}

func (c *Config) Validate() error {
	if c.BotToken == "" {
		return errors.New("BOT_TOKEN is not set")
	}
	if c.OwnerID == 0 {
		return errors.New("OWNER_ID is not set")
	}
	if (c.AppID == 0) != (c.AppHash == "") {
		return errors.New("APP_ID and APP_HASH must be set together")
	}
	if c.VideoSizeLimitMB < 0 {
		return fmt.Errorf("VIDEO_SIZE_LIMIT_MB must be positive, got %d", c.VideoSizeLimitMB)
	}
	if c.DownloadWorkers < 0 {
		return fmt.Errorf("DOWNLOAD_WORKERS must be positive, got %d", c.DownloadWorkers)
	}
	if c.MaxConcurrentUpdates < 0 {
		return fmt.Errorf("MAX_CONCURRENT_UPDATES must be positive, got %d", c.MaxConcurrentUpdates)
	}
	return nil
}

// UseMTProto reports whether the gotd transport should be used instead of
// the HTTP Bot API.
func (c *Config) UseMTProto() bool {
	return c.AppID != 0 && c.AppHash != ""
}

func (c *Config) VideoSizeLimit() int64 {
	return int64(c.VideoSizeLimitMB) << 20
}

func (c *Config) ShouldCleanOnStart() bool {
	return c.CleanOnStart == nil || *c.CleanOnStart
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func setString(dst *string, key string) {
	if v, ok := lookup(key); ok {
		*dst = v
	}
}
