package source

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/url"
	"strings"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// API queries the YouTube Data API v3 search endpoint:
// channelId=<id>, part=snippet,id, order=date, maxResults=1.
type API struct {
	channelID string
	svc       *youtube.Service
	opts      Options
}

var _ Source = (*API)(nil)

// APIConfig configures the Data API backend.
type APIConfig struct {
	ChannelID string
	APIKey    string // do not log
	// Endpoint overrides the API base URL (e.g. for tests). Empty uses the library default.
	Endpoint string
}

func NewAPI(ctx context.Context, cfg APIConfig, opts Options) (*API, error) {
	channelID := strings.TrimSpace(cfg.ChannelID)
	if channelID == "" {
		return nil, errors.New("api: channel id is empty")
	}
	key := strings.TrimSpace(cfg.APIKey)
	if key == "" {
		return nil, errors.New("api: api key is empty")
	}

	clientOpts := []option.ClientOption{option.WithAPIKey(key)}
	if ep := strings.TrimSpace(cfg.Endpoint); ep != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(ep))
	}
	if opts.UserAgent != "" {
		clientOpts = append(clientOpts, option.WithUserAgent(opts.UserAgent))
	}
	svc, err := youtube.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("api: create youtube service: %w", err)
	}
	return &API{channelID: channelID, svc: svc, opts: opts}, nil
}

func (a *API) Name() string { return "api" }

func (a *API) Latest(ctx context.Context) (*Video, error) {
	ctx, cancel := withTimeout(ctx, a.opts.Timeout)
	defer cancel()

	resp, err := a.svc.Search.List([]string{"snippet", "id"}).
		ChannelId(a.channelID).
		Order("date").
		MaxResults(1).
		Context(ctx).
		Do()
	if err != nil {
		return nil, a.classify(err)
	}
	if resp == nil || len(resp.Items) == 0 || resp.Items[0] == nil {
		return nil, ErrNoVideo
	}

	item := resp.Items[0]
	if item.Id == nil || strings.TrimSpace(item.Id.VideoId) == "" {
		kind := "unknown"
		if item.Id != nil && item.Id.Kind != "" {
			kind = item.Id.Kind
		}
		return nil, fmt.Errorf("%w: latest search result is %s, not a video", ErrNoVideo, kind)
	}

	id := strings.TrimSpace(item.Id.VideoId)
	v := &Video{ID: id, URL: shortURL(id)}
	if sn := item.Snippet; sn != nil {
		// The Data API returns HTML-escaped titles.
		v.Title = strings.TrimSpace(html.UnescapeString(sn.Title))
		if ts, err := time.Parse(time.RFC3339, sn.PublishedAt); err == nil {
			v.Published = ts.UTC()
		}
	}
	return v, nil
}

func (a *API) classify(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return &FetchError{Source: a.Name(), Kind: KindStatus, StatusCode: gerr.Code, Err: err}
	}
	var uerr *url.Error
	if errors.As(err, &uerr) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &FetchError{Source: a.Name(), Kind: KindNetwork, Err: err}
	}
	// Anything else comes from decoding the response body.
	return &FetchError{Source: a.Name(), Kind: KindMalformed, Err: err}
}
