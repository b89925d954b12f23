// Package types provides core data types for the shelf downloads organizer.
// It includes structures for source items, grouping keys, per-item outcomes,
// and run summaries, along with utility functions for formatting file sizes.
package types

import (
	"os"
	"time"

	"github.com/dustin/go-humanize"
)

// SourceItem is a non-directory entry discovered in the base directory.
// Items are materialized once per run from a directory listing and are
// immutable afterwards.
type SourceItem struct {
	// Name is the base name of the entry.
	Name string `json:"name"`

	// Path is the absolute path to the entry.
	Path string `json:"path"`

	// Size is the size in bytes, read at scan time.
	Size int64 `json:"size"`

	// ModTime is the last modification time of the entry.
	ModTime time.Time `json:"mod_time"`

	// Mode is the entry's permission and mode bits.
	Mode os.FileMode `json:"mode"`
}

// HumanSize returns the item size formatted as a human-readable string.
func (s *SourceItem) HumanSize() string {
	return FormatSize(s.Size)
}

// GroupingKey is the (library, version) pair derived from a file name.
// It is a pure function of the name: identical names always produce
// identical keys.
type GroupingKey struct {
	// Library is the leading alphanumeric run of the normalized name.
	Library string `json:"library"`

	// Version is the dotted numeric run following the library, if any.
	Version string `json:"version,omitempty"`
}

// DirName returns the specific directory name for the key:
// "library-version" when a version was matched, otherwise just the library.
func (k GroupingKey) DirName() string {
	if k.Version == "" {
		return k.Library
	}
	return k.Library + "-" + k.Version
}

// Action describes what was done (or would be done) with an item.
type Action string

// Possible item actions.
const (
	// ActionExtracted means the archive was unpacked into its destination.
	ActionExtracted Action = "extracted"

	// ActionMoved means the file was relocated into its destination.
	ActionMoved Action = "moved"

	// ActionSimulatedExtract means extraction was planned but not performed.
	ActionSimulatedExtract Action = "simulated_extract"

	// ActionSimulatedMove means a move was planned but not performed.
	ActionSimulatedMove Action = "simulated_move"

	// ActionSkipped means the item was intentionally left alone.
	ActionSkipped Action = "skipped"

	// ActionFailed means processing the item failed.
	ActionFailed Action = "failed"
)

// Simulated reports whether the action is a simulate-mode action.
func (a Action) Simulated() bool {
	return a == ActionSimulatedExtract || a == ActionSimulatedMove
}

// Planned returns the action with any simulate tag removed, so that
// simulate and execute runs over the same input can be compared.
func (a Action) Planned() Action {
	switch a {
	case ActionSimulatedExtract:
		return ActionExtracted
	case ActionSimulatedMove:
		return ActionMoved
	default:
		return a
	}
}

// Outcome is the result of processing a single item. It is produced once
// per item and immutable after creation.
type Outcome struct {
	// Item is the processed source item.
	Item SourceItem `json:"item"`

	// Key is the grouping key derived from the item name.
	Key GroupingKey `json:"key"`

	// Action is what happened to the item.
	Action Action `json:"action"`

	// Destination is the specific directory the item was (or would be)
	// placed into.
	Destination string `json:"destination,omitempty"`

	// Attempts is the number of extraction attempts made, if any.
	Attempts int `json:"attempts,omitempty"`

	// Checksums holds the integrity digests of the archive, keyed by
	// algorithm name (MD5, SHA256, SHA512). Only set when integrity
	// checking is enabled and succeeded.
	Checksums map[string]string `json:"checksums,omitempty"`

	// Err carries the failure for ActionFailed outcomes.
	Err error `json:"-"`

	// Error is the string form of Err for serialization.
	Error string `json:"error,omitempty"`
}

// Summary aggregates the outcomes of one organize run.
type Summary struct {
	// BaseDir is the directory that was organized.
	BaseDir string `json:"base_dir"`

	// OutputDir is the destination root.
	OutputDir string `json:"output_dir"`

	// Simulate reports whether this was a dry run.
	Simulate bool `json:"simulate"`

	// Outcomes contains one entry per processed item, in completion order.
	Outcomes []Outcome `json:"outcomes"`

	// Succeeded is the number of items extracted or moved.
	Succeeded int `json:"succeeded"`

	// Simulated is the number of items with simulate-mode actions.
	Simulated int `json:"simulated"`

	// Failed is the number of items that could not be processed.
	Failed int `json:"failed"`

	// Skipped is the number of items intentionally left alone.
	Skipped int `json:"skipped"`

	// TotalBytes is the combined size of all processed items.
	TotalBytes int64 `json:"total_bytes"`

	// Elapsed is the total run duration.
	Elapsed time.Duration `json:"elapsed"`

	// Workers is the number of workers the run used.
	Workers int `json:"workers"`
}

// Add records an outcome in the summary and updates the counters.
func (s *Summary) Add(o Outcome) {
	s.Outcomes = append(s.Outcomes, o)
	s.TotalBytes += o.Item.Size

	switch {
	case o.Action == ActionFailed:
		s.Failed++
	case o.Action == ActionSkipped:
		s.Skipped++
	case o.Action.Simulated():
		s.Simulated++
	default:
		s.Succeeded++
	}
}

// Total returns the number of recorded outcomes.
func (s *Summary) Total() int {
	return len(s.Outcomes)
}

// FormatSize converts a size in bytes to a human-readable string using
// binary (IEC) units for consistency with common filesystem tools.
func FormatSize(bytes int64) string {
	return humanize.IBytes(uint64(bytes))
}
