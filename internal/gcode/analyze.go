// Package gcode streams toolpath files: analyzing embedded time and
// filament estimates, writing looped copies with marker comments, and
// detecting markers left by a previous run. No operation in this package
// loads a whole toolpath file into memory.
package gcode

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/IgorBuilds/3mf-Looper/internal/types"
)

// maxLineBytes bounds a single scanned line. Toolpath lines are short;
// the headroom covers embedded thumbnail comments.
const maxLineBytes = 1 << 20

// decimal matches one non-negative decimal number with a capture group.
const decimal = `(\d+(?:\.\d+)?)`

var (
	// timeRe matches a remaining-time directive: M73 P<digits> R<minutes>.
	// The M73 token is case-sensitive; whitespace between tokens is flexible.
	timeRe = regexp.MustCompile(`^\s*M73\s+P\d+\s+R(\d+)`)

	// filamentRe matches a slicer filament summary comment with exactly
	// four comma-separated values, e.g. "; filament used [g] = 1.0, 2.0, 3.0, 4.0".
	filamentRe = regexp.MustCompile(
		`^\s*;\s*filament used \[g\]\s*=\s*` + decimal +
			`\s*,\s*` + decimal + `\s*,\s*` + decimal + `\s*,\s*` + decimal + `\s*$`)
)

// Analyze streams the toolpath at path line by line and extracts its
// embedded print-time and filament-mass estimates.
//
// Time: the FIRST line matching an M73 remaining-time directive sets
// Minutes; later matches are ignored. Filament: the LAST line matching a
// filament summary comment wins; its four values are summed into Grams.
// A file with no matching lines yields zero values without error.
func Analyze(path string) (types.Analysis, error) {
	f, err := os.Open(path)
	if err != nil {
		return types.Analysis{}, fmt.Errorf("opening toolpath %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	var (
		analysis     types.Analysis
		timeFound    bool
		lastFilament []string
	)

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
	for scanner.Scan() {
		line := scanner.Text()
		if !timeFound {
			if m := timeRe.FindStringSubmatch(line); m != nil {
				if minutes, err := strconv.ParseUint(m[1], 10, 32); err == nil {
					analysis.Minutes = uint32(minutes)
					timeFound = true
				}
			}
		}
		if m := filamentRe.FindStringSubmatch(line); m != nil {
			lastFilament = m[1:5]
		}
	}
	if err := scanner.Err(); err != nil {
		return types.Analysis{}, fmt.Errorf("scanning toolpath %s: %w", filepath.Base(path), err)
	}

	for _, v := range lastFilament {
		grams, _ := strconv.ParseFloat(v, 64)
		analysis.Grams += grams
	}
	return analysis, nil
}
