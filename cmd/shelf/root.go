package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesainslie/shelf/pkg/shelf/config"
	"github.com/jamesainslie/shelf/pkg/shelf/logging"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "shelf [dir]",
		Short: "Organize downloaded files into per-library directories",
		Long: `Shelf tidies a downloads directory: each file is grouped by the
library name and version parsed from its file name, archives are
extracted into their destination, and plain files are moved there.

Examples:
  shelf                        # Organize ~/Downloads
  shelf ~/Incoming             # Organize a specific directory
  shelf -n                     # Simulate without touching files
  shelf -f '\.zip$'            # Only process zip files
  shelf --integrity            # Report archive checksums
  shelf watch                  # Keep organizing as files arrive
  shelf history                # View past runs`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runOrganize,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/shelf/config.yaml)")
	rootCmd.PersistentFlags().StringP("output-dir", "O", "", "destination root for organized files")
	rootCmd.PersistentFlags().BoolP("simulate", "n", false, "compute actions without touching the filesystem")
	rootCmd.PersistentFlags().Bool("integrity", false, "report MD5/SHA256/SHA512 checksums for archives")
	rootCmd.PersistentFlags().StringP("password", "p", "", "archive password (use PROMPT to be asked)")
	rootCmd.PersistentFlags().StringP("filter", "f", "", "regular expression tested against file names")
	rootCmd.PersistentFlags().IntP("workers", "w", 0, "worker pool cap (0=default)")
	rootCmd.PersistentFlags().StringP("format", "o", "pretty", "output format (pretty, plain, json, jsonl, yaml)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "minimal output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug output")

	// Bind flags to viper
	_ = viper.BindPFlag("output_dir", rootCmd.PersistentFlags().Lookup("output-dir"))
	_ = viper.BindPFlag("simulate", rootCmd.PersistentFlags().Lookup("simulate"))
	_ = viper.BindPFlag("integrity", rootCmd.PersistentFlags().Lookup("integrity"))
	_ = viper.BindPFlag("password", rootCmd.PersistentFlags().Lookup("password"))
	_ = viper.BindPFlag("file_filter", rootCmd.PersistentFlags().Lookup("filter"))
	_ = viper.BindPFlag("max_workers", rootCmd.PersistentFlags().Lookup("workers"))
	_ = viper.BindPFlag("format", rootCmd.PersistentFlags().Lookup("format"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads in config file and environment variables.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")

		// Add config paths in order of precedence
		if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
			viper.AddConfigPath(filepath.Join(xdgConfigHome, "shelf"))
		}

		homeDir, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(homeDir, ".config", "shelf"))
		}
	}

	// Environment variables use the SHELF_ prefix
	viper.SetEnvPrefix("SHELF")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	// Set defaults from config package
	viper.SetDefault("base_dir", config.DefaultBaseDir)
	viper.SetDefault("output_dir", config.DefaultOutputDir)
	viper.SetDefault("file_filter", config.DefaultFileFilter)
	viper.SetDefault("max_workers", config.DefaultMaxWorkers)
	viper.SetDefault("manifest.enabled", true)
	viper.SetDefault("manifest.retention_days", config.DefaultRetentionDays)
	viper.SetDefault("logging.level", "info")

	// Read config file (ignore if not found)
	_ = viper.ReadInConfig()
}

// initLogging sets up file logging based on the merged configuration.
func initLogging() error {
	cfg := logging.Config{
		Level:      viper.GetString("logging.level"),
		Path:       viper.GetString("logging.path"),
		Components: viper.GetStringMapString("logging.components"),
	}
	if getVerbose() {
		cfg.Level = "debug"
		cfg.ConsoleLevel = "debug"
	}

	return logging.Init(cfg)
}

// Execute runs the root command.
func Execute() error {
	defer func() { _ = logging.Close() }()
	return rootCmd.Execute()
}

// getVerbose returns true if verbose mode is enabled.
func getVerbose() bool {
	return viper.GetBool("verbose")
}

// getQuiet returns true if quiet mode is enabled.
func getQuiet() bool {
	return viper.GetBool("quiet")
}

// printInfo prints a message if quiet mode is not enabled.
func printInfo(format string, args ...interface{}) {
	if !getQuiet() {
		fmt.Printf(format+"\n", args...)
	}
}

// printError prints an error message to stderr.
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
