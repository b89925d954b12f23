package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/jamesainslie/shelf/pkg/shelf/config"
	"github.com/jamesainslie/shelf/pkg/shelf/organizer"
	"github.com/jamesainslie/shelf/pkg/shelf/output"
	"github.com/jamesainslie/shelf/pkg/shelf/types"
)

// runOrganize is the main organize command handler.
func runOrganize(cmd *cobra.Command, args []string) error {
	if err := initLogging(); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	runCfg, err := buildRunConfig(args)
	if err != nil {
		return err
	}

	formatter, err := output.Get(viper.GetString("format"))
	if err != nil {
		return fmt.Errorf("unknown output format %q: available formats are %v",
			viper.GetString("format"), output.Available())
	}

	// Progress feedback only makes sense on a human-facing terminal.
	var bar *progressbar.ProgressBar
	if !getQuiet() && viper.GetString("format") == "pretty" {
		verb := "Organizing"
		if runCfg.Simulate {
			verb = "Simulating"
		}
		bar = progressbar.Default(-1, verb)
		runCfg.OnItem = func(types.Outcome) {
			_ = bar.Add(1)
		}
	}

	// Handle interrupt signal for graceful shutdown.
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		<-sigChan
		printInfo("\nInterrupted, stopping...")
		cancel()
	}()

	summary, err := organizer.Run(ctx, runCfg)
	if bar != nil {
		_ = bar.Finish()
	}
	if err != nil {
		if errors.Is(err, organizer.ErrLocked) {
			return fmt.Errorf("another run is already organizing %s", runCfg.OutputDir)
		}
		return err
	}

	logRunManifest(summary)

	var buf bytes.Buffer
	if err := formatter.Format(&buf, summary); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	fmt.Print(buf.String())

	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d items failed", summary.Failed, summary.Total())
	}
	return nil
}

// buildRunConfig assembles a run configuration from flags, environment,
// and the config file.
func buildRunConfig(args []string) (organizer.Config, error) {
	baseDir := viper.GetString("base_dir")
	if len(args) > 0 {
		baseDir = args[0]
	}

	baseDir, err := config.ExpandPath(baseDir)
	if err != nil {
		return organizer.Config{}, fmt.Errorf("failed to expand path: %w", err)
	}
	baseDir = config.ResolveBaseDir(baseDir)
	if baseDir, err = filepath.Abs(baseDir); err != nil {
		return organizer.Config{}, fmt.Errorf("failed to resolve path: %w", err)
	}

	outputDir, err := config.ExpandPath(viper.GetString("output_dir"))
	if err != nil {
		return organizer.Config{}, fmt.Errorf("failed to expand path: %w", err)
	}
	if outputDir, err = filepath.Abs(outputDir); err != nil {
		return organizer.Config{}, fmt.Errorf("failed to resolve path: %w", err)
	}

	simulate := viper.GetBool("simulate")

	// The destination root is created up front so the default
	// ~/Organized works on first use; per-group directories are the
	// run's own responsibility. A simulate run must not touch disk.
	if !simulate {
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return organizer.Config{}, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	password := viper.GetString("password")
	if password == config.PasswordPrompt {
		if password, err = promptPassword(); err != nil {
			return organizer.Config{}, err
		}
	}

	return organizer.Config{
		BaseDir:    baseDir,
		OutputDir:  outputDir,
		Simulate:   simulate,
		Integrity:  viper.GetBool("integrity"),
		Password:   password,
		FileFilter: viper.GetString("file_filter"),
		MaxWorkers: viper.GetInt("max_workers"),
	}, nil
}

// promptPassword reads an archive password from the terminal without echo.
func promptPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("password prompt requires a terminal; pass --password instead")
	}

	fmt.Fprint(os.Stderr, "Archive password: ")
	secret, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(secret), nil
}

// logRunManifest records the run in the history manifest. Failures are
// reported but never fail the run itself.
func logRunManifest(summary *types.Summary) {
	if !viper.GetBool("manifest.enabled") {
		return
	}

	m, err := getManifest()
	if err != nil {
		printError("failed to open run history: %v", err)
		return
	}
	if err := m.EnsureDir(); err != nil {
		printError("failed to create run history directory: %v", err)
		return
	}
	if _, err := m.LogRun(summary); err != nil {
		printError("failed to record run history: %v", err)
	}
}
