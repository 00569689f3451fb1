package storage

import (
	"context"
	"errors"
	"strings"

	logx "ytnotify/pkg/logx"
)

// Store keeps the last announced video id.
type Store interface {
	// Load returns the stored id, or "" if none has been saved.
	Load(ctx context.Context) (string, error)
	// Save replaces the stored id.
	Save(ctx context.Context, videoID string) error
	Close() error
}

// Open initializes the configured store.
func Open(ctx context.Context, cfg Config, log logx.Logger) (Store, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	if log.IsZero() {
		log = logx.Nop()
	}
	log = log.With(logx.String("driver", driver))

	switch driver {
	case "", "file":
		return openFile(cfg, log)
	case "sqlite", "sqlite3":
		return openSQLite(ctx, cfg, log)
	case "postgres", "postgresql":
		return openPostgres(ctx, cfg, log)
	case "gcs":
		return openGCS(ctx, cfg, log)
	default:
		return nil, errors.New("unknown storage driver: " + driver)
	}
}

func keyOrDefault(k string) string {
	k = strings.TrimSpace(k)
	if k == "" {
		return "default"
	}
	return k
}
