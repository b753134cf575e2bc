// Package watch implements the --watch mode: it watches a workspace's
// BUILD/BUILD.bazel files and notifies a debounced channel of batched
// change events, adapted from the teacher's pkg/watcher.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ritzau/bazeldeps/pkg/logging"
)

// Event is a batch of BUILD-file paths that changed together.
type Event struct {
	Paths     []string
	Timestamp time.Time
}

// Watcher watches a workspace for BUILD/BUILD.bazel changes.
type Watcher struct {
	watcher   *fsnotify.Watcher
	workspace string
	raw       chan string
	events    chan Event
}

// New creates a Watcher rooted at workspace. Call Start to begin
// watching and Events to receive debounced batches.
func New(workspace string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: failed to create fsnotify watcher: %w", err)
	}
	return &Watcher{
		watcher:   fw,
		workspace: workspace,
		raw:       make(chan string, 100),
		events:    make(chan Event, 10),
	}, nil
}

// Start walks the workspace watching every directory containing a
// BUILD or BUILD.bazel file, then begins debouncing and emitting
// batched events until ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.watchBuildDirs(); err != nil {
		return err
	}
	logging.Info("watch: monitoring workspace", "path", w.workspace)

	go w.consumeFsEvents(ctx)
	go debounce(ctx, w.raw, w.events, 200*time.Millisecond, 2*time.Second)
	return nil
}

func (w *Watcher) watchBuildDirs() error {
	dirs := make(map[string]bool)
	err := filepath.Walk(w.workspace, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() && strings.HasPrefix(info.Name(), "bazel-") {
			return filepath.SkipDir
		}
		if !info.IsDir() && isBuildFile(info.Name()) {
			dirs[filepath.Dir(path)] = true
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("watch: failed to walk workspace: %w", err)
	}
	for dir := range dirs {
		if err := w.watcher.Add(dir); err != nil {
			logging.Warn("watch: failed to watch directory", "path", dir, "error", err)
		}
	}
	logging.Info("watch: monitoring BUILD directories", "count", len(dirs))
	return nil
}

func isBuildFile(name string) bool {
	return name == "BUILD" || name == "BUILD.bazel"
}

func (w *Watcher) consumeFsEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.watcher.Close()
			close(w.raw)
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if isBuildFile(filepath.Base(ev.Name)) {
				w.raw <- ev.Name
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Error("watch: fsnotify error", "error", err)
		}
	}
}

// Events returns the channel of debounced change batches.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Stop closes the underlying fsnotify watcher.
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}
