package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables recognised by Load.
const (
	EnvChannelID     = "CHANNEL_ID"
	EnvAPIKey        = "YOUTUBE_API_KEY"
	EnvBotToken      = "TELEGRAM_BOT_TOKEN"
	EnvChatID        = "TELEGRAM_CHAT_ID"
	EnvAllowRepost   = "ALLOW_REPOST"
	EnvThreadID      = "TELEGRAM_THREAD_ID"
	EnvParseMode     = "TELEGRAM_PARSE_MODE"
	EnvSource        = "YTNOTIFY_SOURCE"
	EnvStorageDriver = "YTNOTIFY_STORAGE_DRIVER"
	EnvStateFile     = "YTNOTIFY_STATE_FILE"
	EnvHTTPTimeout   = "YTNOTIFY_HTTP_TIMEOUT"
	EnvLogLevel      = "YTNOTIFY_LOG_LEVEL"
	EnvLogFile       = "YTNOTIFY_LOG_FILE"
)

// Env looks up a single variable, like os.LookupEnv.
type Env func(key string) (string, bool)

// MapEnv serves lookups from a fixed map.
func MapEnv(m map[string]string) Env {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

// ProcessEnv reads the process environment first and falls back to
// dotenv values, so exported variables always win over the file.
func ProcessEnv(dotenv map[string]string) Env {
	return Overlay(os.LookupEnv, dotenv)
}

// Overlay serves lookups from primary and falls back to values.
func Overlay(primary Env, values map[string]string) Env {
	return func(key string) (string, bool) {
		if primary != nil {
			if v, ok := primary(key); ok {
				return v, true
			}
		}
		v, ok := values[key]
		return v, ok
	}
}

// ReadDotenv parses a dotenv file without touching the process environment.
// A missing file yields an empty map unless required is set.
func ReadDotenv(path string, required bool) (map[string]string, error) {
	m, err := godotenv.Read(path)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, err
	}
	return m, nil
}
