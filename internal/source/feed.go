package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/mmcdole/gofeed"
)

// DefaultFeedURL is the public per-channel Atom feed.
const DefaultFeedURL = "https://www.youtube.com/feeds/videos.xml"

const maxFeedBytes = 8 << 20

// Feed reads a channel's public Atom feed.
type Feed struct {
	channelID string
	feedURL   string
	client    *http.Client
	opts      Options
}

var _ Source = (*Feed)(nil)

// NewFeed builds a feed backend. baseURL may be empty for DefaultFeedURL;
// client may be nil for a client bounded by opts.Timeout.
func NewFeed(channelID, baseURL string, client *http.Client, opts Options) (*Feed, error) {
	channelID = strings.TrimSpace(channelID)
	if channelID == "" {
		return nil, errors.New("feed: channel id is empty")
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultFeedURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("feed: invalid feed url %q: %w", baseURL, err)
	}
	q := u.Query()
	q.Set("channel_id", channelID)
	u.RawQuery = q.Encode()

	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	return &Feed{channelID: channelID, feedURL: u.String(), client: client, opts: opts}, nil
}

func (f *Feed) Name() string { return "feed" }

// URL returns the fully templated feed URL.
func (f *Feed) URL() string { return f.feedURL }

func (f *Feed) Latest(ctx context.Context) (*Video, error) {
	ctx, cancel := withTimeout(ctx, f.opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.feedURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/atom+xml, application/xml;q=0.9, */*;q=0.1")
	if f.opts.UserAgent != "" {
		req.Header.Set("User-Agent", f.opts.UserAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{Source: f.Name(), Kind: KindNetwork, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &FetchError{
			Source:     f.Name(),
			Kind:       KindStatus,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%s: %s", resp.Status, strings.TrimSpace(string(snippet))),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return nil, &FetchError{Source: f.Name(), Kind: KindNetwork, Err: fmt.Errorf("read body: %w", err)}
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, &FetchError{Source: f.Name(), Kind: KindMalformed, Err: errors.New("empty response body")}
	}

	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, &FetchError{Source: f.Name(), Kind: KindMalformed, Err: err}
	}
	if len(feed.Items) == 0 || feed.Items[0] == nil {
		return nil, ErrNoVideo
	}

	// YouTube lists the newest upload first.
	return videoFromItem(feed.Items[0])
}

func videoFromItem(it *gofeed.Item) (*Video, error) {
	id := ""
	if vals, ok := it.Extensions["yt"]["videoId"]; ok && len(vals) > 0 {
		id = strings.TrimSpace(vals[0].Value)
	}
	if id == "" {
		// Atom entry ids look like "yt:video:<id>".
		guid := strings.TrimSpace(it.GUID)
		if i := strings.LastIndex(guid, ":"); i >= 0 {
			guid = guid[i+1:]
		}
		id = guid
	}
	if id == "" {
		return nil, fmt.Errorf("%w: newest feed entry has no id", ErrNoVideo)
	}

	v := &Video{
		ID:    id,
		URL:   strings.TrimSpace(it.Link),
		Title: strings.TrimSpace(it.Title),
	}
	if v.URL == "" {
		v.URL = watchURL(id)
	}
	if it.PublishedParsed != nil {
		v.Published = it.PublishedParsed.UTC()
	} else if it.UpdatedParsed != nil {
		v.Published = it.UpdatedParsed.UTC()
	}
	return v, nil
}

