package output

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/jamesainslie/shelf/pkg/shelf/types"
)

// jsonOutput represents the full JSON output structure.
type jsonOutput struct {
	Items []jsonItem `json:"items"`
	Meta  jsonMeta   `json:"meta"`
}

// jsonItem represents one processed item in JSON output.
type jsonItem struct {
	Name        string            `json:"name"`
	Path        string            `json:"path"`
	Size        int64             `json:"size"`
	SizeHuman   string            `json:"size_human"`
	Library     string            `json:"library"`
	Version     string            `json:"version,omitempty"`
	Action      types.Action      `json:"action"`
	Destination string            `json:"destination,omitempty"`
	Attempts    int               `json:"attempts,omitempty"`
	Checksums   map[string]string `json:"checksums,omitempty"`
	Error       string            `json:"error,omitempty"`
}

// jsonMeta represents run metadata in JSON output.
type jsonMeta struct {
	BaseDir    string `json:"base_dir"`
	OutputDir  string `json:"output_dir"`
	Simulate   bool   `json:"simulate"`
	Succeeded  int    `json:"succeeded"`
	Simulated  int    `json:"simulated"`
	Failed     int    `json:"failed"`
	Skipped    int    `json:"skipped"`
	TotalItems int    `json:"total_items"`
	TotalBytes int64  `json:"total_bytes"`
	Workers    int    `json:"workers"`
	Elapsed    string `json:"elapsed"`
}

// JSONFormatter formats output as a single indented JSON object.
// It produces a complete JSON document with items and meta sections.
type JSONFormatter struct{}

// Format writes the formatted summary to the buffer.
func (f *JSONFormatter) Format(w *bytes.Buffer, s *types.Summary) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(buildJSONOutput(s))
}

// buildJSONOutput converts a Summary to the JSON output structure.
func buildJSONOutput(s *types.Summary) jsonOutput {
	items := make([]jsonItem, len(s.Outcomes))
	for i, o := range s.Outcomes {
		items[i] = buildJSONItem(o)
	}

	meta := jsonMeta{
		BaseDir:    s.BaseDir,
		OutputDir:  s.OutputDir,
		Simulate:   s.Simulate,
		Succeeded:  s.Succeeded,
		Simulated:  s.Simulated,
		Failed:     s.Failed,
		Skipped:    s.Skipped,
		TotalItems: s.Total(),
		TotalBytes: s.TotalBytes,
		Workers:    s.Workers,
		Elapsed:    formatDurationString(s.Elapsed),
	}

	return jsonOutput{Items: items, Meta: meta}
}

// buildJSONItem converts one outcome to its JSON form.
func buildJSONItem(o types.Outcome) jsonItem {
	return jsonItem{
		Name:        o.Item.Name,
		Path:        o.Item.Path,
		Size:        o.Item.Size,
		SizeHuman:   types.FormatSize(o.Item.Size),
		Library:     o.Key.Library,
		Version:     o.Key.Version,
		Action:      o.Action,
		Destination: o.Destination,
		Attempts:    o.Attempts,
		Checksums:   o.Checksums,
		Error:       o.Error,
	}
}

// formatDurationString formats a duration as a string for structured output.
func formatDurationString(d time.Duration) string {
	if d == 0 {
		return ""
	}
	return d.String()
}

func init() {
	Register("json", func() Formatter {
		return &JSONFormatter{}
	})
}

// Ensure JSONFormatter implements Formatter.
var _ Formatter = (*JSONFormatter)(nil)

// JSONLFormatter formats output as newline-delimited JSON (one object per line).
// Each item is written as a compact JSON object on its own line.
// This format is suitable for streaming processing with tools like jq.
type JSONLFormatter struct{}

// Format writes the formatted summary to the buffer.
func (f *JSONLFormatter) Format(w *bytes.Buffer, s *types.Summary) error {
	for _, o := range s.Outcomes {
		data, err := json.Marshal(buildJSONItem(o))
		if err != nil {
			return err
		}
		w.Write(data)
		w.WriteByte('\n')
	}
	return nil
}

func init() {
	Register("jsonl", func() Formatter {
		return &JSONLFormatter{}
	})
}

// Ensure JSONLFormatter implements Formatter.
var _ Formatter = (*JSONLFormatter)(nil)
