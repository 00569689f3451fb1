package app

import (
	"strings"
	"time"

	"ytnotify/internal/config"
	"ytnotify/internal/storage"
)

func mapStorageConfig(cfg *config.Config) (storage.Config, error) {
	sc := cfg.Storage
	driver := strings.ToLower(strings.TrimSpace(sc.Driver))
	if driver == "" {
		driver = config.DefaultStorageDriver
	}
	out := storage.Config{
		Driver: driver,
		Path:   strings.TrimSpace(sc.Path),
		Key:    strings.TrimSpace(sc.Key),
	}
	if out.Key == "" {
		out.Key = strings.TrimSpace(cfg.YouTube.ChannelID)
	}
	if driver == "sqlite" || driver == "sqlite3" {
		busy, err := config.ParseDurationOrDefault("storage.busy_timeout", sc.BusyTimeout, time.Second)
		if err != nil {
			return storage.Config{}, err
		}
		out.BusyTimeout = busy
	}
	return out, nil
}
