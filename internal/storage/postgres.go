package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	logx "ytnotify/pkg/logx"
)

const postgresSchema = `CREATE TABLE IF NOT EXISTS ytnotify_state (
  key        TEXT PRIMARY KEY,
  video_id   TEXT NOT NULL,
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

type postgresStore struct {
	pool *pgxpool.Pool
	log  logx.Logger
	key  string
}

func openPostgres(ctx context.Context, cfg Config, log logx.Logger) (Store, error) {
	dsn := strings.TrimSpace(cfg.Path)
	if dsn == "" {
		return nil, errors.New("storage.path (postgres connection string) is required")
	}
	pc, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	// One statement per run; a single connection is enough.
	pc.MaxConns = 1
	pc.MinConns = 0

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate postgres: %w", err)
	}

	log.Debug("postgres store ready", logx.String("host", pc.ConnConfig.Host))
	return &postgresStore{pool: pool, log: log, key: keyOrDefault(cfg.Key)}, nil
}

func (s *postgresStore) Load(ctx context.Context) (string, error) {
	if s.pool == nil {
		return "", ErrClosed
	}
	var id string
	err := s.pool.QueryRow(ctx, `SELECT video_id FROM ytnotify_state WHERE key = $1`, s.key).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(id), nil
}

func (s *postgresStore) Save(ctx context.Context, videoID string) error {
	if s.pool == nil {
		return ErrClosed
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO ytnotify_state(key, video_id, updated_at) VALUES($1, $2, now())
		 ON CONFLICT(key) DO UPDATE SET video_id = EXCLUDED.video_id, updated_at = now()`,
		s.key, strings.TrimSpace(videoID),
	)
	return err
}

func (s *postgresStore) Close() error {
	if s.pool != nil {
		s.pool.Close()
		s.pool = nil
	}
	return nil
}
