package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/IgorBuilds/3mf-Looper/internal/archive"
	"github.com/IgorBuilds/3mf-Looper/internal/estimate"
	"github.com/IgorBuilds/3mf-Looper/internal/gcode"
	"github.com/IgorBuilds/3mf-Looper/internal/log"
	"github.com/IgorBuilds/3mf-Looper/internal/report"
	"github.com/IgorBuilds/3mf-Looper/internal/types"
	"github.com/IgorBuilds/3mf-Looper/internal/ui"
	"github.com/IgorBuilds/3mf-Looper/internal/workspace"
)

// inputState accumulates everything the pipeline learns about one input as
// the states advance. The slice of these is built once, in command-line
// order, and filled in phase by phase.
type inputState struct {
	path        string                             // archive path as given on the command line
	archiveSize int64                              // size of the archive file itself
	sizes       map[string]types.ToolpathCandidate // per-member size columns
	members     []string                           // selected member names, archive order
	extractDir  string                             // where this input was extracted
	metaDir     string                             // resolved metadata directory inside extractDir
	sources     []types.SourceFile                 // on-disk paths of the selected members
}

// Run executes one complete looping run against the assembled context:
//
//  1. Validate every input path.
//  2. Create the working directory (cleaned up unconditionally).
//  3. Index each archive and resolve which members get looped.
//  4. Extract every input and locate its metadata directory.
//  5. Analyze the selected toolpaths and sum per-loop totals.
//  6. Compute the repetition plan from the loop specifier.
//  7. Estimate the output size and confirm oversized outputs.
//  8. Rewrite the first input's toolpath with the looped content.
//  9. Rebuild the archive next to the first input and report.
//
// A declined confirmation returns ui.ErrCancelled; the caller treats that
// as a clean exit, not a failure.
func Run(ctx context.Context, rc *RunContext) (*types.RunReport, error) {
	// Step 1: validate the command line before touching any archive.
	if err := ValidateInputs(rc.Inputs, rc.Config.LargeInputWarnBytes()); err != nil {
		return nil, err
	}

	// Step 2: create the working directory. From here on cleanup always
	// runs; a cleanup failure is logged, never returned.
	ws, err := workspace.New(rc.Config.TempRoot)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := ws.Cleanup(); cerr != nil {
			log.Warning(fmt.Sprintf("could not remove working directory %s: %v", ws.Root(), cerr))
		}
	}()

	// Step 3: index each archive and pick the members to loop.
	log.Section("Scanning archives")
	states, err := indexInputs(rc.Inputs)
	if err != nil {
		return nil, err
	}
	if err := chooseMembers(rc, states); err != nil {
		return nil, err
	}

	// Step 4: extract every input and locate its toolpath files on disk.
	log.Section("Extracting")
	if err := extractInputs(ctx, ws, states); err != nil {
		return nil, err
	}

	// Step 5: analyze the toolpaths and sum the per-loop totals.
	log.Section("Analyzing toolpaths")
	sources, perLoop, err := analyzeSources(states)
	if err != nil {
		return nil, err
	}
	log.Info(fmt.Sprintf("One loop: %s, %s",
		report.FormatDuration(float64(perLoop.Minutes)), report.FormatMass(perLoop.Grams)))

	// Step 6: turn the specifier into a concrete repetition count.
	plan, err := ComputePlan(rc.Spec, perLoop)
	if err != nil {
		return nil, err
	}
	log.Info(fmt.Sprintf("Looping %d time(s) for %s of print time and %s of filament",
		plan.Repetitions, report.FormatDuration(plan.TotalMinutes), report.FormatMass(plan.TotalGrams)))

	// Step 7: estimate the output size and get confirmation when it is
	// large. The estimate is advisory; absent size metadata skips it.
	estimated := predictOutputSize(states, plan.Repetitions)
	if estimated != nil && *estimated > rc.Config.LargeOutputConfirmBytes() {
		question := fmt.Sprintf("Estimated output is %s. Continue?", report.FormatBytes(*estimated))
		ok, err := rc.Confirmer.Confirm(question)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ui.ErrCancelled
		}
	}

	// Step 8: rewrite the first input's primary toolpath in place with the
	// looped content, then drop the other replaced members from its tree.
	log.Section("Writing loops")
	first := states[0]
	dest := first.sources[0].Path
	if err := gcode.WriteLooped(dest, sources, plan.Repetitions, rc.Config.CopyBufferBytes()); err != nil {
		return nil, err
	}
	for _, src := range first.sources[1:] {
		if err := os.Remove(src.Path); err != nil {
			return nil, fmt.Errorf("removing replaced toolpath: %w", err)
		}
	}
	log.Success(fmt.Sprintf("Wrote %d loops to %s", plan.Repetitions, filepath.Base(dest)))

	// Step 9: rebuild the archive next to the first input and report.
	log.Section("Building archive")
	outPath := filepath.Join(filepath.Dir(first.path), OutputName(plan, first.path))
	if err := archive.Build(first.extractDir, outPath); err != nil {
		return nil, err
	}
	info, err := os.Stat(outPath)
	if err != nil {
		return nil, fmt.Errorf("reading built archive size: %w", err)
	}

	run := &types.RunReport{
		RunID:          ws.ID(),
		Inputs:         rc.Inputs,
		Sources:        sources,
		Plan:           plan,
		EstimatedBytes: estimated,
		ActualBytes:    info.Size(),
		OutputPath:     outPath,
	}
	report.PrintRunSummary(*run)
	return run, nil
}

// ---------------------------------------------------------------------------
// Indexing and selection
// ---------------------------------------------------------------------------

// indexInputs opens each archive just long enough to list its toolpath
// candidates and their size columns.
func indexInputs(inputs []string) ([]*inputState, error) {
	states := make([]*inputState, 0, len(inputs))
	for _, p := range inputs {
		st, err := indexOne(p)
		if err != nil {
			return nil, err
		}
		states = append(states, st)
	}
	return states, nil
}

func indexOne(p string) (*inputState, error) {
	info, err := os.Stat(p)
	if err != nil {
		return nil, &InputError{Path: p, Reason: err.Error()}
	}

	a, err := archive.Open(p)
	if err != nil {
		return nil, &InputError{Path: p, Reason: err.Error()}
	}
	defer a.Close()

	names, err := a.ListToolpaths()
	if err != nil {
		return nil, err
	}
	log.Info(fmt.Sprintf("%s: %d toolpath file(s)", filepath.Base(p), len(names)))

	return &inputState{
		path:        p,
		archiveSize: info.Size(),
		sizes:       a.SizesOf(),
		members:     names,
	}, nil
}

// chooseMembers narrows each input's candidate list to the members that
// will be looped. The --all and --first flags decide without prompting; a
// single candidate needs no decision; anything else goes to the Selector.
func chooseMembers(rc *RunContext, states []*inputState) error {
	for _, st := range states {
		switch {
		case rc.SelectAll || len(st.members) == 1:
			// keep the full candidate list
		case rc.SelectFirst:
			st.members = st.members[:1]
		default:
			chosen, err := rc.Selector.SelectToolpaths(filepath.Base(st.path), st.members)
			if err != nil {
				return err
			}
			if len(chosen) == 0 {
				return fmt.Errorf("%s: %w", filepath.Base(st.path), ui.ErrCancelled)
			}
			st.members = chosen
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Extraction and analysis
// ---------------------------------------------------------------------------

// extractInputs unpacks every input into its own working subdirectory and
// resolves the selected members to on-disk paths via the extracted
// metadata directory.
func extractInputs(ctx context.Context, ws *workspace.Workspace, states []*inputState) error {
	for i, st := range states {
		dir, err := ws.InputDir(i)
		if err != nil {
			return err
		}
		if err := archive.Extract(ctx, st.path, dir); err != nil {
			return &InputError{Path: st.path, Reason: err.Error()}
		}
		st.extractDir = dir

		st.metaDir, err = archive.FindMetadataDir(dir)
		if err != nil {
			return &InputError{Path: st.path, Reason: err.Error()}
		}

		for _, name := range st.members {
			onDisk := filepath.Join(st.metaDir, archive.MemberBase(name))
			if _, err := os.Stat(onDisk); err != nil {
				return &InputError{Path: st.path, Reason: fmt.Sprintf("extracted member %s: %v", name, err)}
			}
			st.sources = append(st.sources, types.SourceFile{
				Path:        onDisk,
				DisplayName: displayName(st, name),
			})
		}
	}
	return nil
}

// displayName labels one selected member in loop markers and the output
// header. The archive's file name alone is enough when it contributes a
// single member; with several, the member name disambiguates.
func displayName(st *inputState, member string) string {
	base := filepath.Base(st.path)
	if len(st.members) == 1 {
		return base
	}
	return fmt.Sprintf("%s (%s)", base, archive.MemberBase(member))
}

// analyzeSources measures every selected toolpath and folds the results
// into per-loop totals. Sources that already carry a loop header are
// processed anyway, with a warning: looping looped content multiplies it.
func analyzeSources(states []*inputState) ([]types.SourceFile, types.Analysis, error) {
	var sources []types.SourceFile
	var perLoop types.Analysis

	for _, st := range states {
		for _, src := range st.sources {
			looped, err := gcode.HasLoopHeader(src.Path)
			if err != nil {
				return nil, types.Analysis{}, err
			}
			if looped {
				log.Warning(fmt.Sprintf("%s was already looped; looping it again multiplies its loops", src.DisplayName))
			}

			a, err := gcode.Analyze(src.Path)
			if err != nil {
				return nil, types.Analysis{}, err
			}
			log.Info(fmt.Sprintf("%s: %s, %s", src.DisplayName,
				report.FormatDuration(float64(a.Minutes)), report.FormatMass(a.Grams)))

			perLoop = perLoop.Add(a)
			sources = append(sources, src)
		}
	}
	return sources, perLoop, nil
}

// ---------------------------------------------------------------------------
// Estimation
// ---------------------------------------------------------------------------

// predictOutputSize runs the size estimator over the resolved selection.
// The replaced members are the first input's, since only that archive is
// rebuilt; every selected member across all inputs contributes content.
func predictOutputSize(states []*inputState, repetitions uint32) *int64 {
	first := states[0]

	var replaced []types.ToolpathCandidate
	for _, name := range first.members {
		replaced = append(replaced, first.sizes[name])
	}

	var selected []types.ToolpathCandidate
	for _, st := range states {
		for _, name := range st.members {
			selected = append(selected, st.sizes[name])
		}
	}

	return estimate.Predict(first.archiveSize, replaced, selected, repetitions)
}
