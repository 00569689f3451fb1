package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const channelFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns:yt="http://www.youtube.com/xml/schemas/2015" xmlns:media="http://search.yahoo.com/mrss/" xmlns="http://www.w3.org/2005/Atom">
 <id>yt:channel:UC123</id>
 <yt:channelId>UC123</yt:channelId>
 <title>Example Channel</title>
 <published>2019-01-01T00:00:00+00:00</published>
 <entry>
  <id>yt:video:abc123</id>
  <yt:videoId>abc123</yt:videoId>
  <yt:channelId>UC123</yt:channelId>
  <title>Launch Video</title>
  <link rel="alternate" href="https://www.youtube.com/watch?v=abc123"/>
  <published>2024-05-01T10:00:00+00:00</published>
  <updated>2024-05-01T11:00:00+00:00</updated>
 </entry>
 <entry>
  <id>yt:video:older1</id>
  <yt:videoId>older1</yt:videoId>
  <title>Older Video</title>
  <link rel="alternate" href="https://www.youtube.com/watch?v=older1"/>
  <published>2024-04-01T10:00:00+00:00</published>
 </entry>
</feed>`

const emptyFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
 <id>yt:channel:UC123</id>
 <title>Quiet Channel</title>
</feed>`

func serve(t *testing.T, status int, body string) (*httptest.Server, *string) {
	t.Helper()
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &gotQuery
}

func TestFeedLatest(t *testing.T) {
	srv, q := serve(t, http.StatusOK, channelFeed)
	f, err := NewFeed("UC123", srv.URL+"/feeds/videos.xml", nil, Options{Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("NewFeed: %v", err)
	}

	v, err := f.Latest(context.Background())
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if v.ID != "abc123" || v.URL != "https://www.youtube.com/watch?v=abc123" || v.Title != "Launch Video" {
		t.Fatalf("unexpected video: %+v", v)
	}
	if want := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC); !v.Published.Equal(want) {
		t.Fatalf("published = %v, want %v", v.Published, want)
	}
	if *q != "channel_id=UC123" {
		t.Fatalf("query = %q", *q)
	}
}

func TestFeedIDFallsBackToEntryID(t *testing.T) {
	body := `<?xml version="1.0"?><feed xmlns="http://www.w3.org/2005/Atom"><title>x</title>
<entry><id>yt:video:xyz789</id><title>No Extension</title></entry></feed>`
	srv, _ := serve(t, http.StatusOK, body)
	f, err := NewFeed("UC123", srv.URL, nil, Options{})
	if err != nil {
		t.Fatalf("NewFeed: %v", err)
	}
	v, err := f.Latest(context.Background())
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if v.ID != "xyz789" {
		t.Fatalf("id = %q, want xyz789", v.ID)
	}
	if v.URL != "https://www.youtube.com/watch?v=xyz789" {
		t.Fatalf("url = %q", v.URL)
	}
}

func TestFeedNoEntries(t *testing.T) {
	srv, _ := serve(t, http.StatusOK, emptyFeed)
	f, _ := NewFeed("UC123", srv.URL, nil, Options{})
	if _, err := f.Latest(context.Background()); !errors.Is(err, ErrNoVideo) {
		t.Fatalf("expected ErrNoVideo, got %v", err)
	}
}

func TestFeedFailureKinds(t *testing.T) {
	t.Run("status", func(t *testing.T) {
		srv, _ := serve(t, http.StatusInternalServerError, "<html>oops</html>")
		f, _ := NewFeed("UC123", srv.URL, nil, Options{})
		_, err := f.Latest(context.Background())
		var fe *FetchError
		if !errors.As(err, &fe) || fe.Kind != KindStatus || fe.StatusCode != 500 {
			t.Fatalf("expected status FetchError, got %v", err)
		}
	})
	t.Run("empty body", func(t *testing.T) {
		srv, _ := serve(t, http.StatusOK, "  \n")
		f, _ := NewFeed("UC123", srv.URL, nil, Options{})
		if _, err := f.Latest(context.Background()); !IsKind(err, KindMalformed) {
			t.Fatalf("expected malformed, got %v", err)
		}
	})
	t.Run("garbage", func(t *testing.T) {
		srv, _ := serve(t, http.StatusOK, "this is not a feed")
		f, _ := NewFeed("UC123", srv.URL, nil, Options{})
		if _, err := f.Latest(context.Background()); !IsKind(err, KindMalformed) {
			t.Fatalf("expected malformed, got %v", err)
		}
	})
	t.Run("network", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		base := srv.URL
		srv.Close()
		f, _ := NewFeed("UC123", base, nil, Options{Timeout: time.Second})
		if _, err := f.Latest(context.Background()); !IsKind(err, KindNetwork) {
			t.Fatalf("expected network, got %v", err)
		}
	})
}

func TestNewFeedRejectsEmptyChannel(t *testing.T) {
	if _, err := NewFeed("  ", "", nil, Options{}); err == nil {
		t.Fatalf("expected error for empty channel id")
	}
	f, err := NewFeed("UC9", "", nil, Options{})
	if err != nil {
		t.Fatalf("NewFeed: %v", err)
	}
	if f.URL() != DefaultFeedURL+"?channel_id=UC9" {
		t.Fatalf("url = %q", f.URL())
	}
}
