package pipeline

import (
	"errors"
	"fmt"

	"github.com/IgorBuilds/3mf-Looper/internal/report"
	"github.com/IgorBuilds/3mf-Looper/internal/types"
)

// ErrNoInputs is returned when the command line names no archives.
var ErrNoInputs = errors.New("no input files given")

// InputError reports an input path that cannot be processed.
type InputError struct {
	Path   string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("input %s: %s", e.Path, e.Reason)
}

// ZeroLoopsError is returned when the computed repetition count comes out
// below one. It carries the measured per-loop totals so the message can
// tell the user exactly what was found in their files.
type ZeroLoopsError struct {
	PerLoopMinutes float64
	PerLoopGrams   float64
	Spec           types.LoopSpec
}

func (e *ZeroLoopsError) Error() string {
	switch e.Spec.Kind {
	case types.SpecTime:
		return fmt.Sprintf(
			"a target of %s fits zero loops: one loop takes %s; raise the target or add more files",
			report.FormatDuration(e.Spec.Minutes), report.FormatDuration(e.PerLoopMinutes))
	case types.SpecMass:
		return fmt.Sprintf(
			"a target of %s fits zero loops: one loop uses %s; raise the target or add more files",
			report.FormatMass(e.Spec.Grams), report.FormatMass(e.PerLoopGrams))
	default:
		return "loop count must be at least 1"
	}
}
