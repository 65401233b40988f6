package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestStartWatcherReportsWrites(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "css"), 0755); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates, err := StartWatcher(ctx, dir)
	if err != nil {
		t.Fatalf("StartWatcher: %v", err)
	}

	target := filepath.Join(dir, "css", "a.scss")
	if err := os.WriteFile(target, []byte("a{}"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case p := <-updates:
		if p != target {
			t.Errorf("got change for %s, want %s", p, target)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestStartWatcherMissingFolder(t *testing.T) {
	if _, err := StartWatcher(context.Background(), filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected an error for a missing folder")
	}
}

func TestStartWatcherStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	updates, err := StartWatcher(ctx, t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	cancel()

	select {
	case _, ok := <-updates:
		if ok {
			t.Fatal("expected the channel to be closed")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
