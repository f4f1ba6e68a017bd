// Package report provides run summary output and the formatting helpers
// shared between summaries and output file names.
package report

import (
	"fmt"

	"github.com/IgorBuilds/3mf-Looper/internal/types"
)

// minutesPerDay and minutesPerHour split a minute total into display units.
const (
	minutesPerHour = 60
	minutesPerDay  = 24 * minutesPerHour
)

// FormatDuration renders whole minutes in the tiered form used by both the
// run summary and the output file name. Examples: "45m", "4h30m", "2d4h30m".
func FormatDuration(totalMinutes float64) string {
	m := int64(totalMinutes)
	if m < 0 {
		m = 0
	}
	d := m / minutesPerDay
	h := (m % minutesPerDay) / minutesPerHour
	mm := m % minutesPerHour

	switch {
	case d > 0:
		return fmt.Sprintf("%dd%dh%dm", d, h, mm)
	case h > 0:
		return fmt.Sprintf("%dh%dm", h, mm)
	default:
		return fmt.Sprintf("%dm", mm)
	}
}

// FormatMass renders grams as kilograms with two decimals from one
// kilogram up, otherwise as whole grams. Examples: "750g", "1.50kg".
func FormatMass(grams float64) string {
	if grams >= 1000 {
		return fmt.Sprintf("%.2fkg", grams/1000)
	}
	return fmt.Sprintf("%.0fg", grams)
}

// FormatBytes renders a byte count with binary-unit suffixes.
func FormatBytes(n int64) string {
	const (
		kib = int64(1) << 10
		mib = int64(1) << 20
		gib = int64(1) << 30
	)
	switch {
	case n >= gib:
		return fmt.Sprintf("%.2f GiB", float64(n)/float64(gib))
	case n >= mib:
		return fmt.Sprintf("%.1f MiB", float64(n)/float64(mib))
	case n >= kib:
		return fmt.Sprintf("%.1f KiB", float64(n)/float64(kib))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

// PrintRunSummary prints a box-draw table to stdout summarizing a
// completed run: repetition count, total print time and filament mass,
// estimated versus measured archive size, and the output location.
func PrintRunSummary(r types.RunReport) {
	const line = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"
	fmt.Printf("\n%s\n", line)
	fmt.Println("RUN SUMMARY")
	fmt.Printf("%s\n", line)
	fmt.Printf("  %-22s %s\n", "Run ID:", r.RunID)
	fmt.Printf("  %-22s %d\n", "Inputs:", len(r.Inputs))
	fmt.Printf("  %-22s %d\n", "Loops:", r.Plan.Repetitions)
	fmt.Printf("  %-22s %s\n", "Total Print Time:", FormatDuration(r.Plan.TotalMinutes))
	fmt.Printf("  %-22s %s\n", "Total Filament:", FormatMass(r.Plan.TotalGrams))
	if r.EstimatedBytes != nil {
		fmt.Printf("  %-22s %s\n", "Estimated Size:", FormatBytes(*r.EstimatedBytes))
	}
	fmt.Printf("  %-22s %s\n", "Actual Size:", FormatBytes(r.ActualBytes))
	fmt.Printf("  %-22s %s\n", "Output:", r.OutputPath)
	fmt.Printf("%s\n\n", line)
}
