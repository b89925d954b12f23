// Package organizer implements the classification-and-placement pipeline:
// it enumerates a base directory, derives a grouping key per entry, and
// extracts or relocates each entry into a two-level destination hierarchy
// using a bounded worker pool.
package organizer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/jamesainslie/shelf/pkg/shelf/logging"
	"github.com/jamesainslie/shelf/pkg/shelf/types"
	"golang.org/x/sync/errgroup"
)

// lockFileName is the advisory lock taken inside the output directory so
// two execute-mode runs cannot interleave writes to the same tree.
const lockFileName = ".shelf.lock"

// Precondition errors; these abort the run with zero items processed.
var (
	// ErrBaseDir indicates the base directory is missing or unreadable.
	ErrBaseDir = errors.New("base directory is invalid or inaccessible")

	// ErrOutputDir indicates the output directory does not exist.
	ErrOutputDir = errors.New("output directory does not exist")

	// ErrLocked indicates another execute-mode run holds the output lock.
	ErrLocked = errors.New("another organize run is in progress")
)

// Run organizes every matching entry of the base directory. It returns a
// summary of all item outcomes; per-item failures never fail the run.
// Only precondition failures (unreadable base directory, missing output
// directory, bad filter, held lock) yield an error, with zero items
// processed.
func Run(ctx context.Context, cfg Config) (*types.Summary, error) {
	logger := logging.Get("organizer")
	start := time.Now()

	filter, err := compileFilter(cfg.FileFilter)
	if err != nil {
		return nil, err
	}

	if info, err := os.Stat(cfg.OutputDir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrOutputDir, cfg.OutputDir)
	}

	items, err := scanItems(cfg.BaseDir, filter)
	if err != nil {
		return nil, err
	}

	if !cfg.Simulate && len(items) > 0 {
		lock := flock.New(filepath.Join(cfg.OutputDir, lockFileName))
		locked, err := lock.TryLock()
		if err != nil {
			return nil, fmt.Errorf("acquiring output lock: %w", err)
		}
		if !locked {
			return nil, fmt.Errorf("%w: %s", ErrLocked, cfg.OutputDir)
		}
		defer func() { _ = lock.Unlock() }()
	}

	workers := workerCount(len(items), cfg.maxWorkers())
	logger.Info("organize run starting",
		"base_dir", cfg.BaseDir, "output_dir", cfg.OutputDir,
		"items", len(items), "workers", workers, "simulate", cfg.Simulate)

	summary := &types.Summary{
		BaseDir:   cfg.BaseDir,
		OutputDir: cfg.OutputDir,
		Simulate:  cfg.Simulate,
		Workers:   workers,
	}

	proc := NewProcessor(cfg)

	var mu sync.Mutex
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))

	for _, item := range items {
		// Items are independent; a cancelled context only stops
		// dispatching new ones.
		if ctx.Err() != nil {
			recordOutcome(summary, &mu, cfg, types.Outcome{
				Item:   item,
				Action: types.ActionSkipped,
			})
			continue
		}

		g.Go(func() error {
			recordOutcome(summary, &mu, cfg, proc.Process(item))
			return nil
		})
	}

	_ = g.Wait()

	summary.Elapsed = time.Since(start)
	logger.Info("organize run finished",
		"succeeded", summary.Succeeded, "simulated", summary.Simulated,
		"failed", summary.Failed, "skipped", summary.Skipped,
		"elapsed", summary.Elapsed)

	return summary, nil
}

// recordOutcome appends an outcome under the lock and fires the
// completion callback.
func recordOutcome(summary *types.Summary, mu *sync.Mutex, cfg Config, o types.Outcome) {
	mu.Lock()
	summary.Add(o)
	mu.Unlock()

	if cfg.OnItem != nil {
		cfg.OnItem(o)
	}
}

// scanItems lists the direct non-directory entries of baseDir whose
// names match the filter. The listing is non-recursive on purpose:
// anything already in a subdirectory is considered organized.
func scanItems(baseDir string, filter *regexp.Regexp) ([]types.SourceItem, error) {
	entries, err := os.ReadDir(baseDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrBaseDir, baseDir, err)
	}

	items := make([]types.SourceItem, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || entry.Name() == lockFileName {
			continue
		}
		if !filter.MatchString(entry.Name()) {
			continue
		}

		path := filepath.Join(baseDir, entry.Name())
		if entry.Type()&fs.ModeSymlink != 0 {
			// Follow the link: a symlink to a directory is treated as a
			// directory, not an item. Broken links fall through.
			if target, err := os.Stat(path); err == nil && target.IsDir() {
				continue
			}
		}

		info, err := entry.Info()
		if err != nil {
			// The entry vanished between listing and stat; skip it.
			continue
		}

		items = append(items, types.SourceItem{
			Name:    entry.Name(),
			Path:    path,
			Size:    info.Size(),
			ModTime: info.ModTime(),
			Mode:    info.Mode(),
		})
	}

	return items, nil
}

// compileFilter compiles the name filter, defaulting to match-everything.
func compileFilter(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		pattern = ".*"
	}
	filter, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid file filter %q: %w", pattern, err)
	}
	return filter, nil
}

// workerCount bounds the pool by item count, CPU count, and the
// configured cap.
func workerCount(items, configured int) int {
	return min(items, runtime.NumCPU(), configured)
}
