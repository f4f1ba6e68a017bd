// Package pipeline sequences one full looping run: indexing inputs,
// selecting and extracting toolpath members, analyzing their content,
// computing the loop plan, rewriting the toolpath, and rebuilding the
// output archive. Every step runs sequentially; a failure at any step
// skips the rest and proceeds straight to workspace cleanup.
package pipeline

import (
	"github.com/IgorBuilds/3mf-Looper/internal/config"
	"github.com/IgorBuilds/3mf-Looper/internal/types"
	"github.com/IgorBuilds/3mf-Looper/internal/ui"
)

// RunContext carries everything one run needs. It is assembled by the
// command layer before Run is called and never mutated afterwards.
type RunContext struct {
	// Spec is the parsed loop target.
	Spec types.LoopSpec

	// Inputs are the archive paths in command-line order. The first input
	// determines the output archive's structure and location.
	Inputs []string

	// SelectAll and SelectFirst force the multi-candidate selection
	// without prompting. At most one is set; the command layer rejects
	// the combination before any I/O.
	SelectAll   bool
	SelectFirst bool

	// Config is the loaded configuration with flag overrides applied.
	Config *config.LooperConfig

	// Selector and Confirmer are the prompt capabilities matching the
	// run's TTY state.
	Selector  ui.Selector
	Confirmer ui.Confirmer
}
