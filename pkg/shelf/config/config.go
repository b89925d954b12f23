package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// RotationConfig configures log file rotation.
type RotationConfig struct {
	MaxSize    string `mapstructure:"max_size"`
	MaxAge     int    `mapstructure:"max_age"`
	MaxBackups int    `mapstructure:"max_backups"`
	Daily      bool   `mapstructure:"daily"`
}

// LoggingConfig configures application logging.
type LoggingConfig struct {
	Level      string            `mapstructure:"level"`
	Path       string            `mapstructure:"path"`
	Rotation   RotationConfig    `mapstructure:"rotation"`
	Components map[string]string `mapstructure:"components"`
}

// ManifestConfig configures run history manifests.
type ManifestConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	Path          string `mapstructure:"path"`
	RetentionDays int    `mapstructure:"retention_days"`
}

// Config represents the application configuration.
type Config struct {
	BaseDir    string         `mapstructure:"base_dir"`
	OutputDir  string         `mapstructure:"output_dir"`
	Simulate   bool           `mapstructure:"simulate"`
	Integrity  bool           `mapstructure:"integrity"`
	Password   string         `mapstructure:"password"`
	FileFilter string         `mapstructure:"file_filter"`
	MaxWorkers int            `mapstructure:"max_workers"`
	Manifest   ManifestConfig `mapstructure:"manifest"`
	Logging    LoggingConfig  `mapstructure:"logging"`
}

// Load loads configuration from file and environment variables.
// Config file locations (in order of precedence):
//   - $XDG_CONFIG_HOME/shelf/config.yaml
//   - $HOME/.config/shelf/config.yaml
//
// Environment variables are prefixed with SHELF_ (e.g., SHELF_BASE_DIR).
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		v.AddConfigPath(filepath.Join(xdgConfigHome, "shelf"))
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}
	v.AddConfigPath(filepath.Join(homeDir, ".config", "shelf"))

	v.SetEnvPrefix("SHELF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, homeDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is acceptable; we use defaults.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.BaseDir, err = ExpandPath(cfg.BaseDir); err != nil {
		return nil, err
	}
	if cfg.OutputDir, err = ExpandPath(cfg.OutputDir); err != nil {
		return nil, err
	}
	if cfg.Manifest.Path, err = ExpandPath(cfg.Manifest.Path); err != nil {
		return nil, err
	}

	cfg.BaseDir = ResolveBaseDir(cfg.BaseDir)

	return &cfg, nil
}

// setDefaults registers all default values on the viper instance.
func setDefaults(v *viper.Viper, homeDir string) {
	v.SetDefault("base_dir", DefaultBaseDir)
	v.SetDefault("output_dir", DefaultOutputDir)
	v.SetDefault("simulate", false)
	v.SetDefault("integrity", false)
	v.SetDefault("password", "")
	v.SetDefault("file_filter", DefaultFileFilter)
	v.SetDefault("max_workers", DefaultMaxWorkers)

	v.SetDefault("manifest.enabled", true)
	v.SetDefault("manifest.path", filepath.Join(homeDir, ".config", "shelf", ".manifest"))
	v.SetDefault("manifest.retention_days", DefaultRetentionDays)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.path", "")
	v.SetDefault("logging.rotation.max_size", "10MB")
	v.SetDefault("logging.rotation.max_age", 30)
	v.SetDefault("logging.rotation.max_backups", 5)
	v.SetDefault("logging.rotation.daily", true)
	v.SetDefault("logging.components", map[string]string{
		"organizer": "info",
		"archive":   "info",
		"watch":     "info",
	})
}

// Validate checks that the loaded configuration can drive a run.
func (c *Config) Validate() error {
	if c.BaseDir == "" {
		return errors.New("base_dir must not be empty")
	}
	if c.OutputDir == "" {
		return errors.New("output_dir must not be empty")
	}
	if info, err := os.Stat(c.OutputDir); err != nil || !info.IsDir() {
		return fmt.Errorf("invalid output directory path: %s", c.OutputDir)
	}
	return nil
}

// ResolveBaseDir handles the Downloads/downloads casing split on Linux:
// if the configured directory does not exist but a sibling with the
// other casing does, that sibling is used.
func ResolveBaseDir(baseDir string) string {
	if _, err := os.Stat(baseDir); err == nil {
		return baseDir
	}

	parent := filepath.Dir(baseDir)
	for _, candidate := range []string{"Downloads", "downloads"} {
		path := filepath.Join(parent, candidate)
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			return path
		}
	}

	return baseDir
}

// ConfigDir returns the configuration directory path.
func ConfigDir() (string, error) {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, "shelf"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", "shelf"), nil
}

// EnsureConfigDir creates the config directory if it doesn't exist.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return nil
}

// WriteDefault writes a default config file if none exists.
// Returns nil if a config file already exists.
func WriteDefault() error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}

	configDir, err := ConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.yaml")

	if _, err := os.Stat(configPath); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to check config file: %w", err)
	}

	defaultConfig := fmt.Sprintf(`# Shelf Downloads Organizer Configuration

# Directory to organize
base_dir: %s

# Destination root for organized files (must exist)
output_dir: %s

# Compute planned actions without touching the filesystem
simulate: false

# Report MD5/SHA256/SHA512 checksums for extracted archives
integrity: false

# Password for encrypted archives; use PROMPT to be asked interactively
password: ""

# Regular expression tested against entry names
file_filter: "%s"

# Worker pool cap; the effective count never exceeds item or CPU count
max_workers: %d

# Run history manifests
manifest:
  enabled: true
  retention_days: %d

# Logging configuration
logging:
  # Log level: debug, info, warn, error
  level: info
  # Log file path (empty means use default: $XDG_STATE_HOME/shelf/shelf.log)
  path: ""
  rotation:
    max_size: 10MB
    max_age: 30       # days
    max_backups: 5
    daily: true
  # Per-component log levels
  components:
    organizer: info
    archive: info
    watch: info
`, DefaultBaseDir, DefaultOutputDir, DefaultFileFilter, DefaultMaxWorkers, DefaultRetentionDays)

	if err := os.WriteFile(configPath, []byte(defaultConfig), 0o644); err != nil {
		return fmt.Errorf("failed to write default config: %w", err)
	}

	return nil
}

// ExpandPath expands ~ in a path to the user's home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, path[1:]), nil
}

// StateDir returns $XDG_STATE_HOME/shelf/ for log files.
func StateDir() string {
	return filepath.Join(xdg.StateHome, "shelf")
}

// DefaultLogPath returns the default log file path.
func DefaultLogPath() string {
	return filepath.Join(StateDir(), "shelf.log")
}
