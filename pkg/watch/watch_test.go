package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchBuildDirsFindsBuildFiles(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "pkg")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sub, "BUILD.bazel"), []byte(""), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Stop()

	if err := w.watchBuildDirs(); err != nil {
		t.Fatalf("watchBuildDirs: %v", err)
	}
	if got := w.watcher.WatchList(); len(got) != 1 || got[0] != sub {
		t.Errorf("watched dirs = %v, want [%s]", got, sub)
	}
}

func TestDebounceBatchesRapidEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	in := make(chan string, 10)
	out := make(chan Event, 10)

	go debounce(ctx, in, out, 20*time.Millisecond, time.Second)

	in <- "a/BUILD"
	in <- "b/BUILD.bazel"

	select {
	case ev := <-out:
		if len(ev.Paths) != 2 {
			t.Errorf("got %d paths, want 2 batched together", len(ev.Paths))
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for debounced event")
	}
	cancel()
}

func TestIsBuildFile(t *testing.T) {
	if !isBuildFile("BUILD") || !isBuildFile("BUILD.bazel") {
		t.Error("expected BUILD and BUILD.bazel to be recognized")
	}
	if isBuildFile("build.go") {
		t.Error("build.go should not be recognized as a BUILD file")
	}
}
