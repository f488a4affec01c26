// Command scanforge is the entrypoint for the scanner-to-searchable-PDF
// CLI. It parses flags, validates config, and either runs system check
// (--check) or the acquire/process/deliver pipeline.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/inkfold/scanforge/internal/check"
	"github.com/inkfold/scanforge/internal/config"
	"github.com/inkfold/scanforge/internal/device"
	"github.com/inkfold/scanforge/internal/display"
	"github.com/inkfold/scanforge/internal/logging"
	"github.com/inkfold/scanforge/internal/pipeline"
	"github.com/inkfold/scanforge/internal/rename"
	"github.com/inkfold/scanforge/internal/scan"
	"github.com/inkfold/scanforge/internal/stage"
	"github.com/inkfold/scanforge/internal/term"
)

// version is set at build time via -ldflags (e.g. Makefile).
var version = "1.0.0-dev"

func main() {
	os.Exit(run())
}

func run() int {
	cfg := config.DefaultConfig()
	if err := config.ParseFlags(&cfg, os.Args[1:], version); err != nil {
		fmt.Fprintf(os.Stderr, "scanforge: %v\n", err)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "scanforge: %v\n", err)
		return 1
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "scanforge: %v\n", err)
		return 1
	}
	defer log.Close()

	display.PrintBanner()

	if cfg.CheckOnly {
		check.RunCheck(log)
		return 0
	}

	stages, err := stage.FromConfig(&cfg)
	if err != nil {
		log.Error("%v", err)
		return 1
	}

	scanner, err := device.New(cfg.Backend)
	if err != nil {
		log.Error("%v", err)
		return 1
	}
	if cfg.Device != "" {
		scanner.Device = cfg.Device
	}
	if cfg.HasFilter(config.FilterUnpaper) {
		// unpaper reads raw pnm, so the scanner has to produce it.
		scanner.Filetype = "pnm"
	}
	scanner.Config = device.ScanConfig{
		Papersize:  cfg.Papersize,
		Mode:       cfg.Mode,
		Resolution: cfg.Resolution,
		Source:     cfg.Source,
	}
	for _, warning := range scanner.CheckConfig() {
		log.Warn("%s", warning)
	}

	// A missing tool is fatal even in a dry run.
	if err := check.CheckDeps(stages); err != nil {
		log.Error("%v", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// An explicit output name anchors everything next to it; without one
	// the run works inside a holding directory and names interactively at
	// the end.
	outputName := cfg.OutputName
	holdDir := ""
	if outputName == "" {
		holdDir, err = holdingDir(cfg.DryRun)
		if err != nil {
			log.Error("Cannot create holding directory: %v", err)
			return 1
		}
		outputName = filepath.Join(holdDir, "scan")
		log.Info("Working in %s", holdDir)
	}

	if cfg.DryRun {
		log.Warn("DRY RUN, commands are shown but nothing is executed")
	}

	var prompter term.Prompter
	if cfg.Batch || holdDir != "" || cfg.Verify {
		lp := term.NewLinePrompter()
		defer lp.Close()
		prompter = lp
	}

	acq := &scan.Acquirer{
		Scanner: scanner,
		Runner:  stage.ExecRunner{},
		Log:     log,
		DryRun:  cfg.DryRun,
	}
	force := cfg.CleanLevel >= config.CleanForceRescan

	files, scanned, err := acquire(ctx, acq, prompter, &cfg, outputName, force)
	if err != nil {
		if errors.Is(err, scan.ErrAborted) {
			log.Warn("%v", err)
		} else {
			log.Error("%v", err)
		}
		return 1
	}

	files, err = acq.ApplyTrim(files, cfg.TrimLast, scanned)
	if err != nil {
		log.Error("%v", err)
		return 1
	}

	engine := &pipeline.Engine{
		Stages: stages,
		Runner: stage.ExecRunner{},
		Log:    log,
		DryRun: cfg.DryRun,
		Clean:  cfg.CleanLevel,
	}
	deliverables, err := engine.Run(ctx, files, outputName)
	if err != nil {
		log.Error("%v", err)
		return 1
	}

	for _, d := range deliverables {
		log.Success("Written %s (%s)", d, display.FileSizeLabel(d))
	}

	if cfg.DryRun {
		log.Warn("Dry run complete, nothing was executed")
		return 1
	}

	return settle(log, prompter, &cfg, deliverables, holdDir)
}

// acquire runs either a single acquisition or the interactive batch loop.
func acquire(ctx context.Context, acq *scan.Acquirer, prompter term.Prompter, cfg *config.Config, outputName string, force bool) ([]string, bool, error) {
	base := acq.Base(outputName)
	if !cfg.Batch {
		return acq.Acquire(ctx, base, force)
	}
	session := &scan.Session{Acq: acq, Prompter: prompter, Force: force}
	files, err := session.Run(ctx, base)
	return files, session.Scanned(), err
}

// settle runs the post-pipeline interaction: interactive renaming when the
// run was unnamed, otherwise an optional verification pass.
func settle(log *logging.Logger, prompter term.Prompter, cfg *config.Config, deliverables []string, holdDir string) int {
	r := &rename.Renamer{
		Prompter: prompter,
		Starter:  rename.ExecStarter{},
		Log:      log,
		Preview:  cfg.Verify,
	}

	if holdDir != "" {
		renamed, err := r.Rename(deliverables)
		if err != nil {
			log.Error("%v", err)
			return 1
		}
		if err := r.Finish(holdDir, len(deliverables), renamed, cfg.CleanLevel); err != nil {
			log.Error("%v", err)
			return 1
		}
		return 0
	}

	if cfg.Verify {
		if err := r.Verify(deliverables); err != nil {
			log.Error("%v", err)
			return 1
		}
	}
	return 0
}

// holdingDir produces the temporary working directory for unnamed runs.
// Dry runs only need a plausible path, nothing is created.
func holdingDir(dryRun bool) (string, error) {
	if dryRun {
		return filepath.Join(os.TempDir(), "scanforge"), nil
	}
	return os.MkdirTemp("", "scanforge-")
}
