package organizer

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jamesainslie/shelf/pkg/shelf/types"
)

// Target is the pair of destination directories for one grouping key.
// SpecificDir is always a direct child of GroupDir.
type Target struct {
	// GroupDir is outputRoot/<library>.
	GroupDir string

	// SpecificDir is GroupDir/<library>[-<version>].
	SpecificDir string
}

// Plan computes the destination directories for a grouping key without
// touching the filesystem.
func Plan(key types.GroupingKey, outputRoot string) Target {
	groupDir := filepath.Join(outputRoot, key.Library)
	return Target{
		GroupDir:    groupDir,
		SpecificDir: filepath.Join(groupDir, key.DirName()),
	}
}

// Ensure creates both target directories if missing. Pre-existing
// directories are success, so concurrent items resolving to the same
// group directory never see a race error. A collision with a non-directory
// entry fails, and fails only the calling item.
func Ensure(target Target) error {
	if err := os.MkdirAll(target.SpecificDir, 0o755); err != nil {
		return fmt.Errorf("creating destination %q: %w", target.SpecificDir, err)
	}
	return nil
}
