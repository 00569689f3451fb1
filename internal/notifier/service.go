package notifier

import (
	"context"
	"errors"
	"time"

	"ytnotify/internal/source"
	"ytnotify/internal/storage"
	kit "ytnotify/internal/transport"
	logx "ytnotify/pkg/logx"
)

// Outcome is how a run ended.
type Outcome int

const (
	OutcomeNoVideo Outcome = iota + 1
	OutcomeFetchFailed
	OutcomeUnchanged
	OutcomeSent
	OutcomeSendFailed
	OutcomeDryRun
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNoVideo:
		return "no_video"
	case OutcomeFetchFailed:
		return "fetch_failed"
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeSent:
		return "sent"
	case OutcomeSendFailed:
		return "send_failed"
	case OutcomeDryRun:
		return "dry_run"
	default:
		return "unknown"
	}
}

// Result describes one run. Err is the fetch, render or send error behind a
// failed outcome; StateErr is a save error after a successful send.
type Result struct {
	Outcome  Outcome
	Video    *source.Video
	Message  string
	Err      error
	StateErr error
}

type Config struct {
	Target      kit.ChatTarget
	Send        kit.SendOptions
	AllowRepost bool
	DryRun      bool
	// Timeout bounds each outbound call (fetch, load, send, save).
	Timeout time.Duration
}

// Service wires one source, one sender and one store.
// A Service is meant to be run once per process but tolerates repeated runs.
type Service struct {
	log    logx.Logger
	src    source.Source
	sender kit.Sender
	store  storage.Store
	format *Formatter
	cfg    Config
}

func New(cfg Config, src source.Source, sender kit.Sender, store storage.Store, format *Formatter, log logx.Logger) *Service {
	if log.IsZero() {
		log = logx.Nop()
	}
	if format == nil {
		format, _ = NewFormatter(cfg.Send.ParseMode, "", "")
	}
	return &Service{
		log:    log,
		src:    src,
		sender: sender,
		store:  store,
		format: format,
		cfg:    cfg,
	}
}

func (s *Service) Run(ctx context.Context) Result {
	start := time.Now()
	log := s.log.With(logx.String("source", s.src.Name()))

	fctx, cancel := s.bounded(ctx)
	v, err := s.src.Latest(fctx)
	cancel()
	if errors.Is(err, source.ErrNoVideo) {
		log.Info("no video found", logx.Err(err))
		return Result{Outcome: OutcomeNoVideo}
	}
	if err != nil {
		log.Error("fetch latest video failed", logx.Err(err), logx.Duration("took", time.Since(start)))
		return Result{Outcome: OutcomeFetchFailed, Err: err}
	}
	log = log.With(logx.String("video_id", v.ID))

	last := s.loadState(ctx, log)
	if !ShouldNotify(v.ID, last, s.cfg.AllowRepost) {
		log.Info("no new video", logx.String("last_id", last))
		return Result{Outcome: OutcomeUnchanged, Video: v}
	}

	msg, err := s.format.Render(v)
	if err != nil {
		log.Error("render message failed", logx.Err(err))
		return Result{Outcome: OutcomeSendFailed, Video: v, Err: err}
	}

	if s.cfg.DryRun {
		log.Info("dry run: message not sent", logx.String("url", v.URL), logx.String("message", msg))
		return Result{Outcome: OutcomeDryRun, Video: v, Message: msg}
	}

	sctx, cancel := s.bounded(ctx)
	send := s.cfg.Send
	ref, err := s.sender.SendText(sctx, s.cfg.Target, msg, &send)
	cancel()
	if err != nil {
		log.Error("send notification failed", logx.Err(err))
		return Result{Outcome: OutcomeSendFailed, Video: v, Message: msg, Err: err}
	}
	log.Info("notification sent",
		logx.String("url", v.URL),
		logx.Int("message_id", ref.MessageID),
		logx.Bool("repost", v.ID == last),
	)

	res := Result{Outcome: OutcomeSent, Video: v, Message: msg}
	if err := s.saveState(ctx, v.ID); err != nil {
		log.Error("save state failed; next run may announce this video again", logx.Err(err))
		res.StateErr = err
	}
	return res
}

// loadState treats every read error as "nothing recorded".
func (s *Service) loadState(ctx context.Context, log logx.Logger) string {
	lctx, cancel := s.bounded(ctx)
	defer cancel()
	last, err := s.store.Load(lctx)
	if err != nil {
		log.Warn("load state failed; treating as empty", logx.Err(err))
		return ""
	}
	return last
}

// saveState runs even if ctx was cancelled after the send went through.
func (s *Service) saveState(ctx context.Context, id string) error {
	sctx, cancel := s.bounded(context.WithoutCancel(ctx))
	defer cancel()
	return s.store.Save(sctx, id)
}

func (s *Service) bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.cfg.Timeout)
}
