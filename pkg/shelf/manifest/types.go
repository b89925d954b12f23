// Package manifest provides run history logging for organizer operations.
package manifest

import (
	"time"

	"github.com/jamesainslie/shelf/pkg/shelf/types"
)

// OperationType represents the type of operation.
type OperationType string

const (
	// OpOrganize represents an executed organize run.
	OpOrganize OperationType = "organize"
	// OpSimulate represents a simulated organize run.
	OpSimulate OperationType = "simulate"
)

// Entry represents a single manifest entry.
type Entry struct {
	ID        string        `json:"id"`
	Timestamp time.Time     `json:"timestamp"`
	Operation OperationType `json:"operation"`
	BaseDir   string        `json:"base_dir"`
	OutputDir string        `json:"output_dir"`
	Files     []FileRecord  `json:"files"`
	Summary   Summary       `json:"summary"`
}

// FileRecord represents one processed item in the manifest.
type FileRecord struct {
	Name        string            `json:"name"`
	Source      string            `json:"source"`
	Destination string            `json:"destination,omitempty"`
	Action      types.Action      `json:"action"`
	Size        int64             `json:"size"`
	Attempts    int               `json:"attempts,omitempty"`
	Checksums   map[string]string `json:"checksums,omitempty"`
	Error       string            `json:"error,omitempty"`
}

// Summary contains run totals.
type Summary struct {
	TotalFiles int64 `json:"total_files"`
	TotalBytes int64 `json:"total_bytes"`
	Failed     int64 `json:"failed"`
}

// RecordOutcome converts a processing outcome into a manifest record.
func RecordOutcome(o types.Outcome) FileRecord {
	return FileRecord{
		Name:        o.Item.Name,
		Source:      o.Item.Path,
		Destination: o.Destination,
		Action:      o.Action,
		Size:        o.Item.Size,
		Attempts:    o.Attempts,
		Checksums:   o.Checksums,
		Error:       o.Error,
	}
}
