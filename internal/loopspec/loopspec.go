// Package loopspec parses the loop-target argument into a normalized
// LoopSpec. Three grammars are recognized, tried in order:
//
//	bare positive integer      → repeat count        ("3")
//	<number>[mhd]              → target duration     ("90m", "12h", "2d")
//	<number>(g|kg)             → target filament use ("500g", "1.5kg")
//
// Unit suffixes are case-insensitive. A token matching none of the three
// forms, trailing garbage included, is rejected as a whole; the caller
// must refuse the run before doing any I/O.
package loopspec

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/IgorBuilds/3mf-Looper/internal/types"
)

const (
	minutesPerHour = 60
	minutesPerDay  = 24 * 60
	gramsPerKilo   = 1000
)

var (
	countRe = regexp.MustCompile(`^\d+$`)
	timeRe  = regexp.MustCompile(`(?i)^(\d+(?:\.\d+)?)([mhd])$`)
	massRe  = regexp.MustCompile(`(?i)^(\d+(?:\.\d+)?)(kg|g)$`)
)

// ErrInvalidSpecifier reports a token that matches none of the three
// specifier grammars, or matches one with an out-of-range value.
type ErrInvalidSpecifier struct {
	Token  string
	Reason string
}

func (e *ErrInvalidSpecifier) Error() string {
	return fmt.Sprintf("invalid loop specifier %q: %s", e.Token, e.Reason)
}

// Parse converts token into a LoopSpec.
//
// Count values must fit uint32 and be at least 1. Time and mass targets must
// be strictly positive after unit conversion (hours ×60, days ×1440, kg
// ×1000). All failures return *ErrInvalidSpecifier.
func Parse(token string) (types.LoopSpec, error) {
	if countRe.MatchString(token) {
		n, err := strconv.ParseUint(token, 10, 32)
		if err != nil {
			return types.LoopSpec{}, &ErrInvalidSpecifier{Token: token, Reason: "count does not fit in 32 bits"}
		}
		if n < 1 {
			return types.LoopSpec{}, &ErrInvalidSpecifier{Token: token, Reason: "count must be at least 1"}
		}
		return types.LoopSpec{Kind: types.SpecCount, Count: uint32(n)}, nil
	}

	if m := timeRe.FindStringSubmatch(token); m != nil {
		value, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return types.LoopSpec{}, &ErrInvalidSpecifier{Token: token, Reason: "unparseable duration value"}
		}
		minutes := value
		switch m[2] {
		case "h", "H":
			minutes = value * minutesPerHour
		case "d", "D":
			minutes = value * minutesPerDay
		}
		if minutes <= 0 {
			return types.LoopSpec{}, &ErrInvalidSpecifier{Token: token, Reason: "duration must be greater than zero"}
		}
		return types.LoopSpec{Kind: types.SpecTime, Minutes: minutes}, nil
	}

	if m := massRe.FindStringSubmatch(token); m != nil {
		value, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return types.LoopSpec{}, &ErrInvalidSpecifier{Token: token, Reason: "unparseable mass value"}
		}
		grams := value
		if len(m[2]) == 2 { // kg suffix in either case
			grams = value * gramsPerKilo
		}
		if grams <= 0 {
			return types.LoopSpec{}, &ErrInvalidSpecifier{Token: token, Reason: "mass must be greater than zero"}
		}
		return types.LoopSpec{Kind: types.SpecMass, Grams: grams}, nil
	}

	return types.LoopSpec{}, &ErrInvalidSpecifier{
		Token:  token,
		Reason: "expected a count (3), a duration (90m, 12h, 2d), or a mass (500g, 1.5kg)",
	}
}
