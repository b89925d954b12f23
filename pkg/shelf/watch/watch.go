// Package watch provides filesystem watching for continuous organizing.
// New files landing in the base directory are picked up as they settle
// and run through the same per-item pipeline as a one-shot organize.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jamesainslie/shelf/pkg/shelf/logging"
	"github.com/jamesainslie/shelf/pkg/shelf/organizer"
	"github.com/jamesainslie/shelf/pkg/shelf/types"
)

// DefaultSettle is how long a file must stay quiet before it is
// considered fully written. Downloads arrive in many write bursts, so
// the timer resets on every write.
const DefaultSettle = 2 * time.Second

// Watcher watches the base directory and organizes files as they settle.
// Only the top level is watched; subdirectories are never descended into,
// matching one-shot organize behavior.
type Watcher struct {
	cfg       organizer.Config
	processor *organizer.Processor
	watcher   *fsnotify.Watcher
	filter    *regexp.Regexp
	settle    time.Duration
	logger    *logging.Logger

	mu     sync.Mutex
	timers map[string]*time.Timer
	closed bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithSettle overrides the settle window.
func WithSettle(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.settle = d
		}
	}
}

// New creates a Watcher for the given run configuration.
func New(cfg organizer.Config, opts ...Option) (*Watcher, error) {
	if info, err := os.Stat(cfg.BaseDir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", organizer.ErrBaseDir, cfg.BaseDir)
	}
	if info, err := os.Stat(cfg.OutputDir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", organizer.ErrOutputDir, cfg.OutputDir)
	}

	pattern := cfg.FileFilter
	if pattern == "" {
		pattern = ".*"
	}
	filter, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid file filter %q: %w", cfg.FileFilter, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		cfg:       cfg,
		processor: organizer.NewProcessor(cfg),
		watcher:   fsw,
		filter:    filter,
		settle:    DefaultSettle,
		logger:    logging.Get("watch"),
		timers:    make(map[string]*time.Timer),
	}
	for _, opt := range opts {
		opt(w)
	}

	if err := fsw.Add(cfg.BaseDir); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", cfg.BaseDir, err)
	}

	return w, nil
}

// Run starts the event loop. It blocks until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	w.logger.Info("watching", "dir", w.cfg.BaseDir, "settle", w.settle)

	for {
		select {
		case <-ctx.Done():
			w.drainTimers()
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", "error", err)
		}
	}
}

// handleEvent resets the settle timer for created or written files.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return
	}

	name := filepath.Base(event.Name)
	if !w.filter.MatchString(name) {
		return
	}

	info, err := os.Lstat(event.Name)
	if err != nil || !info.Mode().IsRegular() {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}

	if timer, ok := w.timers[event.Name]; ok {
		timer.Reset(w.settle)
		return
	}

	path := event.Name
	w.timers[path] = time.AfterFunc(w.settle, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()
		w.settled(path)
	})
}

// settled runs the per-item pipeline for a file that stopped changing.
func (w *Watcher) settled(path string) {
	info, err := os.Lstat(path)
	if err != nil || !info.Mode().IsRegular() {
		// Vanished or replaced while settling.
		return
	}

	item := types.SourceItem{
		Name:    filepath.Base(path),
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
		Mode:    info.Mode(),
	}

	outcome := w.processor.Process(item)
	if outcome.Action == types.ActionFailed {
		w.logger.Error("item failed", "name", item.Name, "error", outcome.Error)
	} else {
		w.logger.Info("item processed", "name", item.Name, "action", outcome.Action, "destination", outcome.Destination)
	}

	if w.cfg.OnItem != nil {
		w.cfg.OnItem(outcome)
	}
}

// drainTimers stops all pending settle timers.
func (w *Watcher) drainTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, timer := range w.timers {
		timer.Stop()
		delete(w.timers, path)
	}
}

// Close stops watching and releases resources.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	w.drainTimers()
	return w.watcher.Close()
}
