package organizer

import (
	"time"

	"github.com/jamesainslie/shelf/pkg/shelf/archive"
	"github.com/jamesainslie/shelf/pkg/shelf/types"
)

// DefaultMaxWorkers is the worker cap applied when none is configured.
const DefaultMaxWorkers = 4

// Config holds everything one organize run needs. It is read-only for
// the duration of the run; runs sharing nothing are independently
// testable and safe to execute in parallel.
type Config struct {
	// BaseDir is the directory whose entries are organized.
	BaseDir string

	// OutputDir is the destination root. It must already exist.
	OutputDir string

	// Simulate computes and logs planned actions without mutating
	// the filesystem.
	Simulate bool

	// Integrity enables checksum reporting for archives.
	Integrity bool

	// Password is handed to archive kinds that accept one.
	Password string

	// FileFilter is a regular expression tested against each entry
	// name. Empty matches everything.
	FileFilter string

	// MaxWorkers caps the worker pool. The effective count is
	// min(item count, CPU count, MaxWorkers).
	MaxWorkers int

	// RetryAttempts overrides the extraction retry count. Zero uses
	// the archive package default.
	RetryAttempts int

	// RetryDelay overrides the pause between extraction attempts.
	// Only consulted when RetryAttempts is non-zero.
	RetryDelay time.Duration

	// OnItem, if set, is called once per completed item. It must be
	// safe to call from multiple goroutines.
	OnItem func(types.Outcome)
}

// dispatcher builds the archive dispatcher for this run's settings.
func (c Config) dispatcher() *archive.Dispatcher {
	d := archive.NewDispatcher(c.Password)
	if c.RetryAttempts > 0 {
		d = d.WithRetry(c.RetryAttempts, c.RetryDelay)
	}
	return d
}

// maxWorkers returns the configured cap, defaulted.
func (c Config) maxWorkers() int {
	if c.MaxWorkers < 1 {
		return DefaultMaxWorkers
	}
	return c.MaxWorkers
}
