package archive

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jamesainslie/shelf/pkg/shelf/logging"
)

// logger is the package-level logger for extraction operations.
var logger = logging.Get("archive")

// Extraction defaults.
const (
	// DefaultAttempts is the total number of extraction attempts.
	DefaultAttempts = 3

	// DefaultDelay is the fixed pause between extraction attempts.
	// Freshly downloaded files are often briefly locked by virus
	// scanners or still settling on network mounts.
	DefaultDelay = 2 * time.Second
)

// ErrUnsupported is returned when extraction is requested for a path
// whose extension is not a supported archive kind.
var ErrUnsupported = errors.New("unsupported archive format")

// extractFunc unpacks one archive into destDir. The password is ignored
// by kinds that do not support one.
type extractFunc func(path, destDir, password string) error

// extractors binds each kind to its extraction strategy.
var extractors = map[Kind]extractFunc{
	KindTar:      extractTarKind,
	KindTarGzip:  extractTarKind,
	KindTarBzip2: extractTarKind,
	KindTarXz:    extractTarKind,
	KindZip:      extractZip,
	KindSevenZip: extractSevenZip,
	KindRar:      extractRar,
	KindGzip:     extractStreamKind,
	KindBzip2:    extractStreamKind,
	KindXz:       extractStreamKind,
}

// Dispatcher extracts archives with a bounded retry policy. The zero
// value is not usable; construct with NewDispatcher.
type Dispatcher struct {
	password string
	attempts int
	delay    time.Duration
}

// NewDispatcher returns a dispatcher using the default retry policy.
// The password, if non-empty, is passed to every kind that accepts one.
func NewDispatcher(password string) *Dispatcher {
	return &Dispatcher{
		password: password,
		attempts: DefaultAttempts,
		delay:    DefaultDelay,
	}
}

// WithRetry overrides the retry policy. Tests use short delays.
func (d *Dispatcher) WithRetry(attempts int, delay time.Duration) *Dispatcher {
	d.attempts = attempts
	d.delay = delay
	return d
}

// IsArchive reports whether the path is a supported archive.
func (d *Dispatcher) IsArchive(path string) bool {
	return IsArchive(path)
}

// Extract unpacks the archive at path into destDir, retrying transient
// failures. It returns the number of attempts made and the final error.
// Partial output from a failed attempt is overwritten by the next one.
func (d *Dispatcher) Extract(path, destDir string) (int, error) {
	kind := KindOf(path)
	fn, ok := extractors[kind]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(path))
	}

	attempts, err := Retry(d.attempts, d.delay, func() error {
		extractErr := fn(path, destDir, d.password)
		if extractErr != nil {
			logger.Warn("extraction attempt failed",
				"path", path, "kind", kind.String(), "error", extractErr)
		}
		return extractErr
	})
	if err != nil {
		return attempts, fmt.Errorf("extracting %s archive %q: %w", kind, path, err)
	}

	return attempts, nil
}

// memberPath resolves an archive member name inside destDir, rejecting
// names that would escape it.
func memberPath(destDir, name string) (string, error) {
	path := filepath.Join(destDir, name)
	cleanDest := filepath.Clean(destDir)
	if path != cleanDest && !strings.HasPrefix(path, cleanDest+string(os.PathSeparator)) {
		return "", fmt.Errorf("archive member %q escapes destination", name)
	}
	return path, nil
}

// writeMember writes one extracted file, truncating any partial output
// left by a previous attempt.
func writeMember(path string, mode os.FileMode, r io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating member directory: %w", err)
	}

	if mode.Perm() == 0 {
		mode = 0o644
	}

	out, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode.Perm())
	if err != nil {
		return fmt.Errorf("creating member file: %w", err)
	}

	if _, err := io.Copy(out, r); err != nil {
		_ = out.Close()
		return fmt.Errorf("writing member file: %w", err)
	}

	return out.Close()
}
