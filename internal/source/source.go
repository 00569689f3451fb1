// Package source fetches the most recent video of a YouTube channel.
//
// Two interchangeable backends implement Source: Feed reads the public Atom
// feed and needs no credentials, API queries the Data API search endpoint and
// needs an API key.
package source

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Source returns the latest video published by one channel.
type Source interface {
	// Name identifies the backend in logs ("feed", "api").
	Name() string
	// Latest returns the newest video, ErrNoVideo when there is none,
	// or a *FetchError when the upstream could not be read.
	Latest(ctx context.Context) (*Video, error)
}

// Video is a reference to a single upload. Title and Published may be empty.
type Video struct {
	ID        string
	URL       string
	Title     string
	Published time.Time
}

// ErrNoVideo means the channel has no usable latest video.
var ErrNoVideo = errors.New("no video found")

// Kind classifies fetch failures.
type Kind int

const (
	KindNetwork Kind = iota + 1
	KindStatus
	KindMalformed
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindStatus:
		return "status"
	case KindMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// FetchError reports a failed fetch. None of these are fatal to a run.
type FetchError struct {
	Source     string
	Kind       Kind
	StatusCode int // set for KindStatus
	Err        error
}

func (e *FetchError) Error() string {
	if e.Kind == KindStatus {
		return fmt.Sprintf("%s fetch: unexpected status %d: %v", e.Source, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s fetch (%s): %v", e.Source, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsKind reports whether err is a *FetchError of the given kind.
func IsKind(err error, k Kind) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Kind == k
}

// Options are shared by both backends.
type Options struct {
	// Timeout bounds each Latest call. Zero means no extra bound beyond ctx.
	Timeout   time.Duration
	UserAgent string
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// watchURL is the canonical page for a video id.
func watchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

// shortURL is the youtu.be short link for a video id.
func shortURL(id string) string {
	return "https://youtu.be/" + id
}
