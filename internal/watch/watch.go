// Package watch notifies hosts when an attached repository changes on disk,
// so caches built over agent results can be invalidated. Events are
// debounced because a single git operation touches several files.
package watch

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/otboss/gitgud/internal/debounce"
)

const DefaultDelay = 350 * time.Millisecond

// Notifier watches a repository's git directory and emits one signal per
// debounced burst of filesystem events.
type Notifier struct {
	watcher  *fsnotify.Watcher
	debounce *debounce.Debouncer
	changes  chan struct{}

	closeOnce sync.Once
}

// New starts watching the repository at repoPath. A non-positive delay uses
// DefaultDelay.
func New(repoPath string, delay time.Duration) (*Notifier, error) {
	if delay <= 0 {
		delay = DefaultDelay
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	for _, path := range watchPaths(repoPath) {
		slog.Debug("adding path to FS watcher", slog.String("path", path))
		if err := watcher.Add(path); err != nil {
			err := errors.Join(err, watcher.Close())
			return nil, fmt.Errorf("watch %s: %w", path, err)
		}
	}
	n := &Notifier{
		watcher: watcher,
		changes: make(chan struct{}, 1),
	}
	n.debounce = debounce.New(delay, func() {
		select {
		case n.changes <- struct{}{}:
		default:
		}
	})
	go n.loop()
	return n, nil
}

// Changes signals at most once per debounce window after repository files
// changed. The channel is never closed while the notifier is open.
func (n *Notifier) Changes() <-chan struct{} { return n.changes }

func (n *Notifier) Close() error {
	var err error
	n.closeOnce.Do(func() {
		n.debounce.Stop()
		err = n.watcher.Close()
	})
	return err
}

func (n *Notifier) loop() {
	for {
		select {
		case ev, ok := <-n.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if shouldIgnorePath(ev.Name) {
				continue
			}
			slog.Debug("fsnotify event",
				slog.String("op", ev.Op.String()),
				slog.String("path", ev.Name),
			)
			n.debounce.Trigger()
		case err, ok := <-n.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("fsnotify error", slog.Any("error", err))
		}
	}
}

// watchPaths picks the directories whose direct children reflect ref and
// HEAD updates. fsnotify does not recurse, so the refs subdirectories are
// added individually when present.
func watchPaths(root string) []string {
	if root == "" {
		return nil
	}
	gitDir := filepath.Join(root, ".git")
	if info, err := os.Stat(gitDir); err != nil || !info.IsDir() {
		// Bare repository: the root is the git directory.
		gitDir = root
	}
	paths := []string{gitDir}
	for _, sub := range []string{"refs", filepath.Join("refs", "heads"), filepath.Join("refs", "tags")} {
		path := filepath.Join(gitDir, sub)
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			paths = append(paths, path)
		}
	}
	return paths
}

func shouldIgnorePath(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".lock" || ext == ".ipc"
}
