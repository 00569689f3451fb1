package storage

import (
	"errors"
	"time"
)

var ErrClosed = errors.New("storage closed")

// Config configures storage.
//
// Path is interpreted per driver: a file path (file, sqlite), a connection
// string (postgres) or a gs://bucket/object URL (gcs).
type Config struct {
	Driver string
	Path   string
	// Key identifies the row for keyed drivers (sqlite, postgres).
	Key         string
	BusyTimeout time.Duration // sqlite only; 0 means default
}
