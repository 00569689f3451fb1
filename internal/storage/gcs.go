package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"cloud.google.com/go/storage"

	logx "ytnotify/pkg/logx"
)

// maxGCSObjectBytes caps how much of the object is read; an id is tiny.
const maxGCSObjectBytes = 4 << 10

// gcsStore keeps the id as the content of one Cloud Storage object.
// Credentials come from Application Default Credentials; STORAGE_EMULATOR_HOST
// is honoured by the client library.
type gcsStore struct {
	client *storage.Client
	log    logx.Logger
	bucket string
	object string
}

func openGCS(ctx context.Context, cfg Config, log logx.Logger) (Store, error) {
	bucket, object, err := parseGCSPath(cfg.Path)
	if err != nil {
		return nil, err
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	log.Debug("gcs store ready", logx.String("bucket", bucket), logx.String("object", object))
	return &gcsStore{client: client, log: log, bucket: bucket, object: object}, nil
}

// parseGCSPath splits "gs://bucket/path/to/object".
func parseGCSPath(raw string) (bucket, object string, err error) {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("invalid gcs path %q: %w", raw, err)
	}
	if u.Scheme != "gs" {
		return "", "", fmt.Errorf("invalid gcs path %q: scheme must be gs://", raw)
	}
	bucket = u.Host
	object = strings.TrimPrefix(u.Path, "/")
	if bucket == "" || object == "" || strings.HasSuffix(object, "/") {
		return "", "", fmt.Errorf("invalid gcs path %q: want gs://bucket/object", raw)
	}
	return bucket, object, nil
}

func (s *gcsStore) obj() *storage.ObjectHandle {
	return s.client.Bucket(s.bucket).Object(s.object)
}

func (s *gcsStore) Load(ctx context.Context) (string, error) {
	if s.client == nil {
		return "", ErrClosed
	}
	r, err := s.obj().NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("open gs://%s/%s: %w", s.bucket, s.object, err)
	}
	defer r.Close()
	b, err := io.ReadAll(io.LimitReader(r, maxGCSObjectBytes))
	if err != nil {
		return "", fmt.Errorf("read gs://%s/%s: %w", s.bucket, s.object, err)
	}
	return strings.TrimSpace(string(b)), nil
}

func (s *gcsStore) Save(ctx context.Context, videoID string) error {
	if s.client == nil {
		return ErrClosed
	}
	w := s.obj().NewWriter(ctx)
	w.ContentType = "text/plain; charset=utf-8"
	if _, err := io.WriteString(w, strings.TrimSpace(videoID)); err != nil {
		if closeErr := w.Close(); closeErr != nil {
			s.log.Warn("close gcs writer after error failed", logx.Err(closeErr))
		}
		return fmt.Errorf("write to storage: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close storage writer: %w", err)
	}
	return nil
}

func (s *gcsStore) Close() error {
	if s.client == nil {
		return nil
	}
	err := s.client.Close()
	s.client = nil
	return err
}
