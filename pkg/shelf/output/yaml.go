package output

import (
	"bytes"

	"gopkg.in/yaml.v3"

	"github.com/jamesainslie/shelf/pkg/shelf/types"
)

// yamlOutput represents the full YAML output structure.
type yamlOutput struct {
	Items []yamlItem `yaml:"items"`
	Meta  yamlMeta   `yaml:"meta"`
}

// yamlItem represents one processed item in YAML output.
type yamlItem struct {
	Name        string            `yaml:"name"`
	Path        string            `yaml:"path"`
	Size        int64             `yaml:"size"`
	SizeHuman   string            `yaml:"size_human"`
	Library     string            `yaml:"library"`
	Version     string            `yaml:"version,omitempty"`
	Action      string            `yaml:"action"`
	Destination string            `yaml:"destination,omitempty"`
	Attempts    int               `yaml:"attempts,omitempty"`
	Checksums   map[string]string `yaml:"checksums,omitempty"`
	Error       string            `yaml:"error,omitempty"`
}

// yamlMeta represents run metadata in YAML output.
type yamlMeta struct {
	BaseDir    string `yaml:"base_dir"`
	OutputDir  string `yaml:"output_dir"`
	Simulate   bool   `yaml:"simulate"`
	Succeeded  int    `yaml:"succeeded"`
	Simulated  int    `yaml:"simulated"`
	Failed     int    `yaml:"failed"`
	Skipped    int    `yaml:"skipped"`
	TotalItems int    `yaml:"total_items"`
	TotalBytes int64  `yaml:"total_bytes"`
	Workers    int    `yaml:"workers"`
	Elapsed    string `yaml:"elapsed"`
}

// YAMLFormatter formats output as YAML.
// It produces the same structure as JSONFormatter but in YAML format.
type YAMLFormatter struct{}

// Format writes the formatted summary to the buffer.
func (f *YAMLFormatter) Format(w *bytes.Buffer, s *types.Summary) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(buildYAMLOutput(s)); err != nil {
		return err
	}
	return encoder.Close()
}

// buildYAMLOutput converts a Summary to the YAML output structure.
func buildYAMLOutput(s *types.Summary) yamlOutput {
	items := make([]yamlItem, len(s.Outcomes))
	for i, o := range s.Outcomes {
		items[i] = yamlItem{
			Name:        o.Item.Name,
			Path:        o.Item.Path,
			Size:        o.Item.Size,
			SizeHuman:   types.FormatSize(o.Item.Size),
			Library:     o.Key.Library,
			Version:     o.Key.Version,
			Action:      string(o.Action),
			Destination: o.Destination,
			Attempts:    o.Attempts,
			Checksums:   o.Checksums,
			Error:       o.Error,
		}
	}

	meta := yamlMeta{
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

	return yamlOutput{Items: items, Meta: meta}
}

func init() {
	Register("yaml", func() Formatter {
		return &YAMLFormatter{}
	})
}

// Ensure YAMLFormatter implements Formatter.
var _ Formatter = (*YAMLFormatter)(nil)
