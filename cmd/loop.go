package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/IgorBuilds/3mf-Looper/internal/config"
	"github.com/IgorBuilds/3mf-Looper/internal/log"
	"github.com/IgorBuilds/3mf-Looper/internal/loopspec"
	"github.com/IgorBuilds/3mf-Looper/internal/pipeline"
	"github.com/IgorBuilds/3mf-Looper/internal/ui"
)

// runLoop implements the looping run behind the root command.
//
// Sequence:
//  1. Reject contradictory selection flags before any I/O.
//  2. Parse the loop specifier from the first argument.
//  3. Load config from 3mf-looper.yaml; apply CLI flag overrides.
//  4. Pick prompt capabilities from the terminal state.
//  5. Hand everything to the pipeline.
//  6. Treat a cancelled run as a clean exit; reveal the output on success.
func runLoop(cmd *cobra.Command, args []string) error {
	// Step 1: contradictory flags are a usage error, caught before any I/O.
	if rootFlags.all && rootFlags.first {
		return errors.New("--all and --first are mutually exclusive")
	}

	// Step 2: parse the loop specifier.
	spec, err := loopspec.Parse(args[0])
	if err != nil {
		return err
	}

	// Step 3: load config; a missing file means defaults, not an error.
	cfg, err := loadRunConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("reveal") {
		cfg.RevealOutput = rootFlags.reveal
	}

	// Step 4: prompts need a real terminal on both ends.
	rc := &pipeline.RunContext{
		Spec:        spec,
		Inputs:      args[1:],
		SelectAll:   rootFlags.all,
		SelectFirst: rootFlags.first,
		Config:      cfg,
	}
	if interactiveTerminal() {
		rc.Selector = ui.Interactive{}
		rc.Confirmer = ui.Interactive{}
	} else {
		rc.Selector = ui.Headless{}
		rc.Confirmer = ui.Headless{}
	}

	// Step 5: run the pipeline.
	run, err := pipeline.Run(context.Background(), rc)
	if err != nil {
		if errors.Is(err, ui.ErrCancelled) {
			log.Info("cancelled, nothing was written")
			return nil
		}
		return err
	}

	// Step 6: open the output folder when asked to. A reveal failure never
	// fails the run; the archive is already on disk.
	if cfg.RevealOutput {
		if err := ui.Reveal(filepath.Dir(run.OutputPath), cfg.RevealCommand); err != nil {
			log.Warning(fmt.Sprintf("could not open output folder: %v", err))
		}
	}
	return nil
}

// loadRunConfig resolves the config path from the --config flag or the
// working directory and loads it.
func loadRunConfig() (*config.LooperConfig, error) {
	path := rootFlags.configPath
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
		path = filepath.Join(wd, config.DefaultFileName)
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// interactiveTerminal reports whether both stdin and stdout are terminals.
// Prompts are only offered when they are; otherwise the headless policy
// applies.
func interactiveTerminal() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
}
