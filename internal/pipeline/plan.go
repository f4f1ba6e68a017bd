package pipeline

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/IgorBuilds/3mf-Looper/internal/report"
	"github.com/IgorBuilds/3mf-Looper/internal/types"
)

// ComputePlan derives the loop plan from the specifier and the summed
// per-loop totals.
//
// A count specifier is taken verbatim. Time and mass specifiers divide the
// target by the matching per-loop total and round down, so the planned run
// never exceeds the target. A per-loop total of zero cannot be divided by
// and fails before the division, with the same error a sub-one result
// produces.
func ComputePlan(spec types.LoopSpec, perLoop types.Analysis) (types.LoopPlan, error) {
	zero := func() error {
		return &ZeroLoopsError{
			PerLoopMinutes: float64(perLoop.Minutes),
			PerLoopGrams:   perLoop.Grams,
			Spec:           spec,
		}
	}

	var reps uint32
	switch spec.Kind {
	case types.SpecCount:
		reps = spec.Count
	case types.SpecTime:
		if perLoop.Minutes == 0 {
			return types.LoopPlan{}, zero()
		}
		reps = floorToUint32(spec.Minutes / float64(perLoop.Minutes))
	case types.SpecMass:
		if perLoop.Grams == 0 {
			return types.LoopPlan{}, zero()
		}
		reps = floorToUint32(spec.Grams / perLoop.Grams)
	default:
		return types.LoopPlan{}, fmt.Errorf("unknown specifier kind %q", spec.Kind)
	}

	if reps < 1 {
		return types.LoopPlan{}, zero()
	}

	return types.LoopPlan{
		Repetitions:  reps,
		TotalMinutes: float64(perLoop.Minutes) * float64(reps),
		TotalGrams:   perLoop.Grams * float64(reps),
	}, nil
}

func floorToUint32(f float64) uint32 {
	f = math.Floor(f)
	if f > math.MaxUint32 {
		return math.MaxUint32
	}
	if f < 0 {
		return 0
	}
	return uint32(f)
}

// OutputName builds the output archive's file name from the resolved plan
// and the first input's path:
//
//	Loop X {reps} - {duration} - {mass} - {base}.gcode.3mf
//
// where base is the first input's file name with its extension and any
// trailing ".gcode" stripped, so "benchy.gcode.3mf" contributes "benchy".
// The prefix guarantees the name never collides with the input itself.
func OutputName(plan types.LoopPlan, firstInput string) string {
	base := filepath.Base(firstInput)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.TrimSuffix(base, ".gcode")

	return fmt.Sprintf("Loop X %d - %s - %s - %s.gcode.3mf",
		plan.Repetitions,
		report.FormatDuration(plan.TotalMinutes),
		report.FormatMass(plan.TotalGrams),
		base)
}
