// Package watch runs post-actions when their targets appear in a build directory.
// It lets the hook follow a build system that cannot call it directly.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Norgate-AV/dpkhook/internal/hook"
	"github.com/Norgate-AV/dpkhook/internal/logger"
)

// DefaultDebounce is how long a target must stay quiet before its actions run
const DefaultDebounce = 500 * time.Millisecond

// Watcher monitors a build directory and fires the actions registered on the
// files written to it. Actions run one at a time on the Run goroutine.
type Watcher struct {
	dir        string
	debounce   time.Duration
	fsw        *fsnotify.Watcher
	dispatcher *hook.Dispatcher
}

// New creates a watcher for dir
func New(dir string, debounce time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve watch directory: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	return &Watcher{
		dir:        abs,
		debounce:   debounce,
		fsw:        fsw,
		dispatcher: hook.NewDispatcher(),
	}, nil
}

// AddPostAction registers action to run after target is created or written
func (w *Watcher) AddPostAction(target string, action hook.Action) {
	w.dispatcher.AddPostAction(target, action)
}

// Close releases the underlying file watcher
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Run watches until ctx is done. The directory is created if the build has
// not produced it yet. A failing action is logged and watching continues.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.Close()

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create watch directory: %w", err)
	}

	if err := w.fsw.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch directory %s: %w", w.dir, err)
	}

	logger.Infof(ctx, "Watching %s", w.dir)

	var (
		pending []string
		timer   *time.Timer
		timerC  <-chan time.Time
	)

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}

			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}

			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}

			if !w.dispatcher.Has(event.Name) {
				continue
			}

			logger.Debugf(ctx, "Artifact changed: %s", event.Name)
			pending = appendUnique(pending, event.Name)

			if timer != nil {
				timer.Stop()
			}

			timer = time.NewTimer(w.debounce)
			timerC = timer.C

		case <-timerC:
			for _, target := range pending {
				if err := w.dispatcher.Fire(ctx, target); err != nil {
					logger.Errorf(ctx, "%v", err)
				}
			}

			pending = nil
			timer, timerC = nil, nil

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}

			logger.Warnf(ctx, "Watcher error: %v", err)
		}
	}
}

func appendUnique(targets []string, target string) []string {
	for _, t := range targets {
		if t == target {
			return targets
		}
	}

	return append(targets, target)
}
