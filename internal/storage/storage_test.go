package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	logx "ytnotify/pkg/logx"
)

func TestFileStoreMissingIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "last_video.txt")
	st, err := Open(context.Background(), Config{Driver: "file", Path: path}, logx.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer st.Close()

	got, err := st.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != "" {
		t.Fatalf("expected empty state, got %q", got)
	}
}

func TestFileStoreSaveReplacesAndTrims(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "last_video.txt")
	if err := os.WriteFile(path, []byte("  old123 \n"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}

	st, err := Open(ctx, Config{Driver: "file", Path: path}, logx.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if got, _ := st.Load(ctx); got != "old123" {
		t.Fatalf("Load = %q, want old123", got)
	}
	if err := st.Save(ctx, "new456"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(b) != "new456" {
		t.Fatalf("file content = %q", b)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}

	_ = st.Close()
	if _, err := st.Load(ctx); !errors.Is(err, ErrClosed) {
		t.Fatalf("Load after Close: %v", err)
	}
}

func TestFileStoreUnreadable(t *testing.T) {
	dir := t.TempDir()
	// A directory at the state path cannot be read as a file.
	st, err := Open(context.Background(), Config{Driver: "file", Path: dir}, logx.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := st.Load(context.Background()); err == nil {
		t.Fatalf("expected read error for directory path")
	}
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")

	st, err := Open(ctx, Config{Driver: "sqlite", Path: path, Key: "UC1"}, logx.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if got, err := st.Load(ctx); err != nil || got != "" {
		t.Fatalf("fresh Load = %q, %v", got, err)
	}
	if err := st.Save(ctx, "a1"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := st.Save(ctx, "b2"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Keys are independent; reopen to check durability.
	other, err := Open(ctx, Config{Driver: "sqlite", Path: path, Key: "UC2"}, logx.Nop())
	if err != nil {
		t.Fatalf("Open other: %v", err)
	}
	defer other.Close()
	if got, _ := other.Load(ctx); got != "" {
		t.Fatalf("other key Load = %q", got)
	}

	again, err := Open(ctx, Config{Driver: "sqlite3", Path: path, Key: "UC1"}, logx.Nop())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer again.Close()
	if got, _ := again.Load(ctx); got != "b2" {
		t.Fatalf("reopened Load = %q, want b2", got)
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), Config{Driver: "redis", Path: "x"}, logx.Nop()); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}

func TestParseGCSPath(t *testing.T) {
	b, o, err := parseGCSPath("gs://my-bucket/state/UC1.txt")
	if err != nil {
		t.Fatalf("parseGCSPath: %v", err)
	}
	if b != "my-bucket" || o != "state/UC1.txt" {
		t.Fatalf("got %q %q", b, o)
	}
	for _, bad := range []string{"", "s3://b/o", "gs://bucket", "gs://bucket/", "gs:///object", "gs://b/dir/"} {
		if _, _, err := parseGCSPath(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}
