package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/shelf/pkg/shelf/types"
	"github.com/jamesainslie/shelf/pkg/shelf/watch"
)

var watchSettle time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Continuously organize files as they arrive",
	Long: `Watch the base directory and organize each new file once it has
finished downloading. A file is processed after it stops changing for
the settle window.

Press Ctrl-C to stop watching.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchSettle, "settle", watch.DefaultSettle,
		"how long a file must stay unchanged before it is organized")
	rootCmd.AddCommand(watchCmd)
}

// runWatch runs the continuous organizing loop.
func runWatch(cmd *cobra.Command, args []string) error {
	if err := initLogging(); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	runCfg, err := buildRunConfig(args)
	if err != nil {
		return err
	}
	runCfg.OnItem = func(o types.Outcome) {
		switch o.Action {
		case types.ActionFailed:
			printError("%s: %s", o.Item.Name, o.Error)
		default:
			printInfo("%s  %s -> %s", o.Action, o.Item.Name, o.Destination)
		}
	}

	w, err := watch.New(runCfg, watch.WithSettle(watchSettle))
	if err != nil {
		return err
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		<-sigChan
		printInfo("\nStopping watch...")
		cancel()
	}()

	printInfo("Watching %s (settle %s). Press Ctrl-C to stop.", runCfg.BaseDir, watchSettle)

	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
