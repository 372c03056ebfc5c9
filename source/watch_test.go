package source

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func waitForSignal(t *testing.T, changes <-chan struct{}, what string) {
	t.Helper()

	select {
	case <-changes:
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "query.yaml")
	if err := os.WriteFile(path, []byte("page: 1\n"), 0o600); err != nil {
		t.Fatalf("cannot write file: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	w := NewFileWatcher(logger, path)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx, changes) }()

	waitForSignal(t, changes, "initial signal")

	if err := os.WriteFile(path, []byte("page: 2\n"), 0o600); err != nil {
		t.Fatalf("cannot write file: %v", err)
	}
	waitForSignal(t, changes, "write signal")

	// Replacing the file through a rename must be noticed as well.
	tmp := filepath.Join(dir, "query.yaml.tmp")
	if err := os.WriteFile(tmp, []byte("page: 3\n"), 0o600); err != nil {
		t.Fatalf("cannot write file: %v", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatalf("cannot rename file: %v", err)
	}
	waitForSignal(t, changes, "replace signal")

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for watcher to stop")
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	w := NewFileWatcher(logger, filepath.Join(t.TempDir(), "missing", "query.yaml"))

	if err := w.Watch(context.Background(), make(chan struct{}, 1)); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}
