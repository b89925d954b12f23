package organizer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jamesainslie/shelf/pkg/shelf/archive"
	"github.com/jamesainslie/shelf/pkg/shelf/grouping"
	"github.com/jamesainslie/shelf/pkg/shelf/integrity"
	"github.com/jamesainslie/shelf/pkg/shelf/logging"
	"github.com/jamesainslie/shelf/pkg/shelf/types"
)

// Processor handles one item at a time: derive the grouping key, plan
// and ensure placement, then extract or move. All failures are caught at
// the item boundary and turned into a Failed outcome; a bad item never
// affects its siblings.
type Processor struct {
	cfg        Config
	dispatcher *archive.Dispatcher
	logger     *logging.Logger
}

// NewProcessor creates a processor for one run's configuration.
func NewProcessor(cfg Config) *Processor {
	return &Processor{
		cfg:        cfg,
		dispatcher: cfg.dispatcher(),
		logger:     logging.Get("organizer"),
	}
}

// Process runs the full per-item pipeline and reports the outcome.
// In simulate mode only read-only inspection and logging happen; the
// planned action is computed identically to execute mode.
func (p *Processor) Process(item types.SourceItem) types.Outcome {
	key := grouping.Simplify(item.Name)
	target := Plan(key, p.cfg.OutputDir)

	outcome := types.Outcome{
		Item:        item,
		Key:         key,
		Destination: target.SpecificDir,
	}

	if !p.cfg.Simulate {
		if err := Ensure(target); err != nil {
			return p.fail(outcome, err)
		}
	}

	if p.dispatcher.IsArchive(item.Path) {
		return p.processArchive(item, target, outcome)
	}
	return p.processPlain(item, target, outcome)
}

// processArchive extracts the item, optionally hashes it, and removes
// the source only after extraction succeeded.
func (p *Processor) processArchive(item types.SourceItem, target Target, outcome types.Outcome) types.Outcome {
	if p.cfg.Simulate {
		p.logger.Info("simulating extraction", "name", item.Name, "dest", target.SpecificDir)
		outcome.Action = types.ActionSimulatedExtract
		return outcome
	}

	attempts, err := p.dispatcher.Extract(item.Path, target.SpecificDir)
	outcome.Attempts = attempts
	if err != nil {
		// The source archive stays in place when extraction never succeeded.
		return p.fail(outcome, err)
	}

	if p.cfg.Integrity {
		sums, hashErr := integrity.Hash(item.Path)
		if hashErr != nil {
			// Integrity reporting is advisory; the extraction stands.
			p.logger.Warn("integrity check failed", "name", item.Name, "error", hashErr)
		} else {
			outcome.Checksums = sums
			p.logger.Info("integrity check", "name", item.Name,
				"md5", sums[integrity.AlgMD5], "sha256", sums[integrity.AlgSHA256])
		}
	}

	if err := os.Remove(item.Path); err != nil {
		p.logger.Warn("could not remove extracted archive", "path", item.Path, "error", err)
	}

	p.logger.Info("extracted", "name", item.Name, "dest", target.SpecificDir, "attempts", attempts)
	outcome.Action = types.ActionExtracted
	return outcome
}

// processPlain moves a non-archive item into its specific directory.
func (p *Processor) processPlain(item types.SourceItem, target Target, outcome types.Outcome) types.Outcome {
	if p.cfg.Simulate {
		p.logger.Info("simulating move", "name", item.Name, "dest", target.SpecificDir)
		outcome.Action = types.ActionSimulatedMove
		return outcome
	}

	dest := filepath.Join(target.SpecificDir, item.Name)
	if err := moveFile(item.Path, dest); err != nil {
		return p.fail(outcome, err)
	}

	p.logger.Info("moved", "name", item.Name, "dest", target.SpecificDir)
	outcome.Action = types.ActionMoved
	return outcome
}

// fail marks the outcome failed, logs it, and keeps the run going.
func (p *Processor) fail(outcome types.Outcome, err error) types.Outcome {
	p.logger.Error("failed to process item", "name", outcome.Item.Name, "error", err)
	outcome.Action = types.ActionFailed
	outcome.Err = err
	outcome.Error = err.Error()
	return outcome
}

// moveFile relocates src to dst, falling back to copy-and-remove when
// rename fails because src and dst live on different filesystems.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening source for move: %w", err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat source for move: %w", err)
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("creating move destination: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return fmt.Errorf("copying across filesystems: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing move destination: %w", err)
	}

	if err := os.Remove(src); err != nil {
		return fmt.Errorf("removing source after copy: %w", err)
	}
	return nil
}
