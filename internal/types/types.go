// Package types defines all shared structs and typed constants used by the
// 3mf-Looper pipeline. Sizes read from archive metadata are modelled as
// *uint64 throughout: archives vary in what they expose, and every consumer
// must handle absence explicitly rather than assume presence.
package types

// ---------------------------------------------------------------------------
// Loop specifier
// ---------------------------------------------------------------------------

// SpecKind discriminates the three loop-specifier grammars.
type SpecKind string

const (
	// SpecCount repeats the job a fixed number of times ("3").
	SpecCount SpecKind = "count"
	// SpecTime fills a target duration ("12h", "90m", "2d").
	SpecTime SpecKind = "time"
	// SpecMass consumes a target amount of filament ("500g", "1.5kg").
	SpecMass SpecKind = "mass"
)

// LoopSpec is the normalized loop target parsed from the first CLI argument.
// Exactly one interpretation is active, selected by Kind:
//
//	SpecCount: Count holds the repetition count (>= 1)
//	SpecTime:  Minutes holds the target duration in minutes (> 0)
//	SpecMass:  Grams holds the target filament mass in grams (> 0)
//
// A LoopSpec is produced once by loopspec.Parse and never mutated.
type LoopSpec struct {
	Kind    SpecKind
	Count   uint32
	Minutes float64
	Grams   float64
}

// ---------------------------------------------------------------------------
// Archive discovery
// ---------------------------------------------------------------------------

// ToolpathCandidate is one toolpath member found directly under the archive's
// metadata directory. Name is the entry name exactly as stored in the archive
// (after path normalization). Either size may be nil when the archive does
// not expose it.
type ToolpathCandidate struct {
	Name             string
	CompressedSize   *uint64
	UncompressedSize *uint64
}

// SourceFile pairs an on-disk toolpath file with the display name written
// into loop markers. The pipeline builds one ordered slice of these across
// all inputs; that order is the LoopWriter contract.
type SourceFile struct {
	Path        string
	DisplayName string
}

// ---------------------------------------------------------------------------
// Analysis and planning
// ---------------------------------------------------------------------------

// Analysis holds the per-file measurements extracted by the toolpath
// analyzer. Zero values are valid results, not failures: a file with no
// recognizable time or filament markers analyzes to {0, 0} and the
// repetition computation is what rejects zero totals.
type Analysis struct {
	// Minutes is the print duration from the first M73 remaining-time
	// directive in the file.
	Minutes uint32
	// Grams is the summed filament mass from the last "filament used [g]"
	// comment in the file.
	Grams float64
}

// Add returns the element-wise sum of a and other. Used to fold per-file
// analyses into per-loop totals.
func (a Analysis) Add(other Analysis) Analysis {
	return Analysis{
		Minutes: a.Minutes + other.Minutes,
		Grams:   a.Grams + other.Grams,
	}
}

// LoopPlan is the resolved execution plan derived from a LoopSpec and the
// per-loop totals. Repetitions is always >= 1; a plan that would compute to
// zero loops fails before anything is written.
type LoopPlan struct {
	Repetitions  uint32
	TotalMinutes float64
	TotalGrams   float64
}

// ---------------------------------------------------------------------------
// Run reporting
// ---------------------------------------------------------------------------

// RunReport collects everything the end-of-run summary prints. It is
// assembled incrementally by the pipeline as states complete.
type RunReport struct {
	// RunID is the unique identifier for this run, also used to name the
	// working directory under the temp root.
	RunID string
	// Inputs are the archive paths in CLI order.
	Inputs []string
	// Sources are the selected toolpath files in loop order.
	Sources []SourceFile
	// Plan is the resolved repetition plan.
	Plan LoopPlan
	// EstimatedBytes is the predicted output archive size, nil when the
	// size metadata needed for the prediction was absent.
	EstimatedBytes *int64
	// ActualBytes is the measured size of the built archive.
	ActualBytes int64
	// OutputPath is the final archive location.
	OutputPath string
}
