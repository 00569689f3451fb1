package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"ytnotify/internal/notifier"
	logx "ytnotify/pkg/logx"
)

// Defaults applied by Load when a field is left empty.
const (
	DefaultSource        = SourceFeed
	DefaultStorageDriver = "file"
	DefaultStatePath     = "last_video.txt"
	DefaultParseMode     = "MarkdownV2"
	DefaultHTTPTimeout   = 15 * time.Second
	DefaultLogFilePath   = "youtube_to_telegram.log"
)

// Parse reads and strictly decodes a JSON or YAML config file.
// Unknown keys and trailing data are rejected.
func Parse(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	jb, format, err := coerceToJSONBytes(path, b)
	if err != nil {
		return nil, err
	}

	var cfg Config
	dec := json.NewDecoder(bytes.NewReader(jb))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("%s config %s: %w", format, path, err)
	}
	// reject trailing tokens (e.g. concatenated JSON)
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return nil, fmt.Errorf("invalid config: trailing data")
		}
		return nil, err
	}
	return &cfg, nil
}

// Load builds the effective configuration: the optional file at path (empty
// path means environment only), overlaid with env, then defaults.
// The result is not validated; call Validate before any I/O.
func Load(path string, env Env) (*Config, error) {
	cfg := &Config{}
	if strings.TrimSpace(path) != "" {
		parsed, err := Parse(path)
		if err != nil {
			return nil, err
		}
		cfg = parsed
	}
	if env == nil {
		env = MapEnv(nil)
	}
	if err := applyEnv(cfg, env); err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config, env Env) error {
	str := func(key string, dst *string) {
		if v, ok := env(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}

	str(EnvChannelID, &cfg.YouTube.ChannelID)
	str(EnvAPIKey, &cfg.YouTube.APIKey)
	str(EnvSource, &cfg.YouTube.Source)
	str(EnvBotToken, &cfg.Telegram.Token)
	str(EnvChatID, &cfg.Telegram.ChatID)
	str(EnvParseMode, &cfg.Telegram.ParseMode)
	str(EnvStorageDriver, &cfg.Storage.Driver)
	str(EnvStateFile, &cfg.Storage.Path)
	str(EnvHTTPTimeout, &cfg.HTTP.Timeout)
	str(EnvLogLevel, &cfg.Logging.Level)

	if v, ok := env(EnvAllowRepost); ok {
		cfg.Notify.AllowRepost = parseFlag(v)
	}
	if v, ok := env(EnvThreadID); ok && strings.TrimSpace(v) != "" {
		id, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: invalid thread id %q: %w", EnvThreadID, v, err)
		}
		cfg.Telegram.ThreadID = id
	}
	if v, ok := env(EnvLogFile); ok && strings.TrimSpace(v) != "" {
		cfg.Logging.File.Enabled = true
		cfg.Logging.File.Path = strings.TrimSpace(v)
	}
	return nil
}

// parseFlag accepts "true" and "1" (case-insensitive); anything else is false.
func parseFlag(v string) bool {
	v = strings.TrimSpace(v)
	return strings.EqualFold(v, "true") || v == "1"
}

func applyDefaults(cfg *Config) {
	cfg.YouTube.Source = strings.ToLower(strings.TrimSpace(cfg.YouTube.Source))
	if cfg.YouTube.Source == "" {
		cfg.YouTube.Source = DefaultSource
	}
	cfg.Storage.Driver = strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = DefaultStorageDriver
	}
	if cfg.Storage.Driver == DefaultStorageDriver && strings.TrimSpace(cfg.Storage.Path) == "" {
		cfg.Storage.Path = DefaultStatePath
	}
	if strings.TrimSpace(cfg.Storage.Key) == "" {
		cfg.Storage.Key = cfg.YouTube.ChannelID
	}
	if strings.TrimSpace(cfg.Telegram.ParseMode) == "" {
		cfg.Telegram.ParseMode = DefaultParseMode
	}
	if cfg.Telegram.RatePerSec <= 0 {
		cfg.Telegram.RatePerSec = 1
	}
	if cfg.Logging.File.Enabled && strings.TrimSpace(cfg.Logging.File.Path) == "" {
		cfg.Logging.File.Path = DefaultLogFilePath
	}
}

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Validate checks required settings. It performs no I/O.
func (c *Config) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if strings.TrimSpace(c.YouTube.ChannelID) == "" {
		add("youtube.channel_id is required (%s)", EnvChannelID)
	}
	switch c.YouTube.Source {
	case SourceFeed:
	case SourceAPI:
		if strings.TrimSpace(c.YouTube.APIKey) == "" {
			add("youtube.api_key is required when youtube.source=api (%s)", EnvAPIKey)
		}
	default:
		add("youtube.source: unknown source %q", c.YouTube.Source)
	}

	if strings.TrimSpace(c.Telegram.Token) == "" {
		add("telegram.token is required (%s)", EnvBotToken)
	}
	if strings.TrimSpace(c.Telegram.ChatID) == "" {
		add("telegram.chat_id is required (%s)", EnvChatID)
	}
	if c.Telegram.ThreadID < 0 {
		add("telegram.thread_id must be >= 0")
	}
	if _, ok := parseModes[strings.ToLower(strings.TrimSpace(c.Telegram.ParseMode))]; !ok {
		add("telegram.parse_mode: unknown mode %q", c.Telegram.ParseMode)
	}

	if _, err := ParseDurationField("http.timeout", c.HTTP.Timeout); err != nil {
		add("%v", err)
	}

	switch c.Storage.Driver {
	case "file", "sqlite", "sqlite3", "postgres", "gcs":
		if strings.TrimSpace(c.Storage.Path) == "" {
			add("storage.path is required when storage.driver=%s", c.Storage.Driver)
		}
	default:
		add("storage.driver: unknown driver %q", c.Storage.Driver)
	}
	if _, err := ParseDurationField("storage.busy_timeout", c.Storage.BusyTimeout); err != nil {
		add("%v", err)
	}

	if _, err := notifier.NewFormatter(c.Telegram.ParseModeName(), c.Notify.Template, c.YouTube.ChannelID); err != nil {
		add("%v", err)
	}

	if !logx.ValidLevel(c.Logging.Level) {
		add("logging.level: unknown level %q", c.Logging.Level)
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

var parseModes = map[string]string{
	"markdownv2": "MarkdownV2",
	"markdown":   "Markdown",
	"html":       "HTML",
	"none":       "",
}

// ParseModeName returns the canonical Telegram parse mode ("" for plain text).
func (t TelegramConfig) ParseModeName() string {
	return parseModes[strings.ToLower(strings.TrimSpace(t.ParseMode))]
}
