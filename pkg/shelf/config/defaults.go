// Package config provides configuration management for the shelf
// downloads organizer.
package config

// Default configuration values for shelf.
const (
	// DefaultBaseDir is the directory organized when none is specified.
	DefaultBaseDir = "~/Downloads"

	// DefaultOutputDir is the destination root for organized files.
	DefaultOutputDir = "~/Organized"

	// DefaultFileFilter matches every entry name.
	DefaultFileFilter = ".*"

	// DefaultMaxWorkers caps the per-run worker pool.
	DefaultMaxWorkers = 4

	// DefaultRetentionDays is the default number of days to retain
	// run manifests.
	DefaultRetentionDays = 30

	// PasswordPrompt is the sentinel password value that makes the CLI
	// ask for the real password interactively.
	PasswordPrompt = "PROMPT"
)
