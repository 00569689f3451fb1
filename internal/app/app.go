package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"ytnotify/internal/config"
	"ytnotify/internal/notifier"
	"ytnotify/internal/source"
	"ytnotify/internal/storage"
	kit "ytnotify/internal/transport"
	telegram "ytnotify/internal/transport/telegram/adapter"
	logx "ytnotify/pkg/logx"
)

// Options are process-level switches that do not belong in the config file.
type Options struct {
	DryRun  bool
	Version string
}

// App owns every component of one run.
type App struct {
	cfg   *config.Config
	runID string

	root logx.Logger // run_id only; components add their own comp
	log  logx.Logger
	logs *logx.Service

	store  storage.Store
	src    source.Source
	sender kit.Sender
	notif  *notifier.Service
}

// New builds all components from a validated config. It performs no network
// I/O except opening remote state stores (postgres, gcs).
func New(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	if cfg == nil {
		return nil, errors.New("app: nil config")
	}

	logSvc, log := logx.New(logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.ConsoleEnabled(),
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
	})
	runID := uuid.NewString()
	log = log.With(logx.String("run_id", runID))

	a := &App{cfg: cfg, runID: runID, root: log, log: log.With(logx.String("comp", "app")), logs: logSvc}
	if err := a.build(ctx, opts); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) build(ctx context.Context, opts Options) error {
	cfg := a.cfg
	timeout := cfg.HTTPTimeout()
	ua := strings.TrimSpace(cfg.HTTP.UserAgent)
	if ua == "" {
		ua = "ytnotify/" + versionOr(opts.Version, "dev")
	}

	// Formatter first: a bad template is a config error and must fail before
	// any store is opened.
	parseMode := cfg.Telegram.ParseModeName()
	format, err := notifier.NewFormatter(parseMode, cfg.Notify.Template, cfg.YouTube.ChannelID)
	if err != nil {
		return fmt.Errorf("%w: %v", config.ErrInvalid, err)
	}

	srcOpts := source.Options{Timeout: timeout, UserAgent: ua}
	switch cfg.YouTube.Source {
	case config.SourceAPI:
		a.src, err = source.NewAPI(ctx, source.APIConfig{
			ChannelID: cfg.YouTube.ChannelID,
			APIKey:    cfg.YouTube.APIKey,
			Endpoint:  cfg.YouTube.APIEndpoint,
		}, srcOpts)
	default:
		a.src, err = source.NewFeed(cfg.YouTube.ChannelID, cfg.YouTube.FeedURL,
			&http.Client{Timeout: timeout}, srcOpts)
	}
	if err != nil {
		return err
	}

	sender, err := telegram.New(telegram.Config{
		Token:      cfg.Telegram.Token,
		APIURL:     cfg.Telegram.APIURL,
		Timeout:    timeout,
		RatePerSec: cfg.Telegram.RatePerSec,
	}, a.root.With(logx.String("comp", "telegram")))
	if err != nil {
		return err
	}
	a.sender = sender

	sc, err := mapStorageConfig(cfg)
	if err != nil {
		return err
	}
	octx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	st, err := storage.Open(octx, sc, a.root.With(logx.String("comp", "storage")))
	if err != nil {
		return fmt.Errorf("open state store (%s): %w", sc.Driver, err)
	}
	a.store = st

	a.notif = notifier.New(notifier.Config{
		Target: kit.ChatTarget{ChatID: cfg.Telegram.ChatID, ThreadID: cfg.Telegram.ThreadID},
		Send: kit.SendOptions{
			ParseMode:      parseMode,
			DisablePreview: cfg.Telegram.DisablePreview,
		},
		AllowRepost: cfg.Notify.AllowRepost,
		DryRun:      opts.DryRun,
		Timeout:     timeout,
	}, a.src, a.sender, a.store, format, a.root.With(logx.String("comp", "notifier")))

	a.log.Debug("app ready",
		logx.String("source", a.src.Name()),
		logx.String("storage", sc.Driver),
		logx.String("parse_mode", parseMode),
		logx.Bool("allow_repost", cfg.Notify.AllowRepost),
		logx.Bool("dry_run", opts.DryRun),
	)
	return nil
}

// RunID identifies this invocation in logs.
func (a *App) RunID() string { return a.runID }

// Logger returns the configured root logger.
func (a *App) Logger() logx.Logger { return a.log }

// Run performs one poll.
func (a *App) Run(ctx context.Context) notifier.Result {
	start := time.Now()
	a.log.Info("run started", logx.String("channel_id", a.cfg.YouTube.ChannelID))
	res := a.notif.Run(ctx)
	a.log.Info("run finished",
		logx.String("outcome", res.Outcome.String()),
		logx.Duration("took", time.Since(start)),
	)
	return res
}

// Close releases the state store and flushes the log file.
func (a *App) Close() error {
	var errs []error
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close store: %w", err))
		}
		a.store = nil
	}
	if a.logs != nil {
		if err := a.logs.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close logs: %w", err))
		}
		a.logs = nil
	}
	return errors.Join(errs...)
}

func versionOr(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return strings.TrimSpace(v)
}
