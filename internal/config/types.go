package config

// Config is the full ytnotify configuration.
//
// It is built once at startup (file, then environment overlay, then defaults)
// and passed by value into the components that need it.
type Config struct {
	YouTube  YouTubeConfig  `json:"youtube"`
	Telegram TelegramConfig `json:"telegram"`
	Notify   NotifyConfig   `json:"notify"`
	HTTP     HTTPConfig     `json:"http"`
	Storage  StorageConfig  `json:"storage"`
	Logging  LoggingConfig  `json:"logging"`
}

// Source names.
const (
	SourceFeed = "feed"
	SourceAPI  = "api"
)

// YouTubeConfig selects the channel and how its latest video is fetched.
//
// Source is "feed" (public Atom feed, no credentials) or "api"
// (Data API search, requires APIKey).
type YouTubeConfig struct {
	ChannelID   string `json:"channel_id"`
	Source      string `json:"source,omitempty"`
	APIKey      string `json:"api_key,omitempty"` // do not log
	FeedURL     string `json:"feed_url,omitempty"`
	APIEndpoint string `json:"api_endpoint,omitempty"`
}

type TelegramConfig struct {
	Token string `json:"token"` // do not log
	// ChatID is a numeric chat id ("-100123...") or a public @username.
	ChatID   string `json:"chat_id"`
	ThreadID int    `json:"thread_id,omitempty"`
	// APIURL overrides the Bot API base (default https://api.telegram.org).
	APIURL string `json:"api_url,omitempty"`
	// ParseMode is one of MarkdownV2 (default), Markdown, HTML or none.
	ParseMode      string `json:"parse_mode,omitempty"`
	DisablePreview bool   `json:"disable_preview,omitempty"`
	// RatePerSec paces chunked sends of long messages. Default 1.
	RatePerSec int `json:"rate_per_sec,omitempty"`
}

type NotifyConfig struct {
	// AllowRepost disables deduplication: the latest video is always sent.
	AllowRepost bool `json:"allow_repost"`
	// Template is an optional text/template for the message body.
	Template string `json:"template,omitempty"`
}

type HTTPConfig struct {
	// Timeout is a Go duration string bounding each outbound call. Default "15s".
	Timeout   string `json:"timeout,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
}

// StorageConfig controls where the last notified video id is kept.
//
// Example:
//
//	"storage": { "driver": "file", "path": "./last_video.txt" }
type StorageConfig struct {
	Driver string `json:"driver,omitempty"`
	// Path is a file path (file, sqlite), a DSN (postgres) or a gs://bucket/object URL (gcs).
	Path string `json:"path,omitempty"`
	// Key namespaces keyed drivers (sqlite, postgres). Defaults to the channel id.
	Key         string `json:"key,omitempty"`
	BusyTimeout string `json:"busy_timeout,omitempty"` // Go duration string (sqlite)
}

type LoggingConfig struct {
	Level   string      `json:"level,omitempty"`
	Console *bool       `json:"console,omitempty"`
	File    LoggingFile `json:"file,omitempty"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path,omitempty"`
}

// ConsoleEnabled reports whether console logging is on (default true).
func (l LoggingConfig) ConsoleEnabled() bool {
	return l.Console == nil || *l.Console
}
