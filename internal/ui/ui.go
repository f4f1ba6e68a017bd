// Package ui provides the prompt capabilities the pipeline depends on:
// selecting toolpath members and confirming oversized outputs. The
// pipeline never talks to a terminal directly; the command layer hands it
// a Selector and a Confirmer matching the TTY state of the run.
package ui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/IgorBuilds/3mf-Looper/internal/log"
)

// ErrAmbiguousSelection is returned when an input holds several toolpath
// candidates and nothing picks between them in a non-interactive run.
var ErrAmbiguousSelection = errors.New("multiple toolpath files found; pass --all or --first, or run interactively")

// ErrCancelled is returned when the user dismisses a prompt. It is
// expected behavior, not a defect; the caller exits cleanly.
var ErrCancelled = errors.New("cancelled by user")

// Prompt styles shared by the selection and confirmation models.
var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Selector picks which toolpath members of one input get looped.
type Selector interface {
	SelectToolpaths(input string, names []string) ([]string, error)
}

// Confirmer answers a yes/no question before an expensive step.
type Confirmer interface {
	Confirm(question string) (bool, error)
}

// Headless is the non-interactive policy: ambiguous selections are
// refused outright and confirmations proceed automatically.
type Headless struct{}

// SelectToolpaths never guesses between multiple candidates.
func (Headless) SelectToolpaths(input string, names []string) ([]string, error) {
	if len(names) > 1 {
		return nil, fmt.Errorf("%s: %w", input, ErrAmbiguousSelection)
	}
	return names, nil
}

// Confirm proceeds without asking, leaving a warning in the log.
func (Headless) Confirm(question string) (bool, error) {
	log.Warning(question + " (proceeding; non-interactive run)")
	return true, nil
}

// Interactive implements both capabilities with terminal prompts.
type Interactive struct{}
