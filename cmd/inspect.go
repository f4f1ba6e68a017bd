package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/IgorBuilds/3mf-Looper/internal/archive"
	"github.com/IgorBuilds/3mf-Looper/internal/config"
	"github.com/IgorBuilds/3mf-Looper/internal/gcode"
	"github.com/IgorBuilds/3mf-Looper/internal/log"
	"github.com/IgorBuilds/3mf-Looper/internal/report"
	"github.com/IgorBuilds/3mf-Looper/internal/workspace"
)

var inspectFlags struct {
	jsonOut bool
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.3mf> [file.3mf...]",
	Short: "List toolpath files and their measurements without writing anything",
	Long: `Inspect opens each archive, lists its toolpath files with their stored
sizes, and reports the print time and filament usage found in each one.
Nothing is modified; files that were already looped are flagged.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectFlags.jsonOut, "json", false, "emit the report as JSON")
}

// inspectReport is one input's inspection result.
type inspectReport struct {
	Input     string            `json:"input"`
	Toolpaths []inspectToolpath `json:"toolpaths"`
}

// inspectToolpath is one toolpath member's measurements. Size fields are
// omitted when the archive does not expose them.
type inspectToolpath struct {
	Name             string  `json:"name"`
	CompressedSize   *uint64 `json:"compressed_size,omitempty"`
	UncompressedSize *uint64 `json:"uncompressed_size,omitempty"`
	PrintMinutes     uint32  `json:"print_minutes"`
	FilamentGrams    float64 `json:"filament_grams"`
	Looped           bool    `json:"looped"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := loadRunConfig()
	if err != nil {
		return err
	}

	reports, err := inspectInputs(context.Background(), args, cfg)
	if err != nil {
		return err
	}

	if inspectFlags.jsonOut {
		out, err := json.MarshalIndent(reports, "", "  ")
		if err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	printInspectReports(reports)
	return nil
}

// inspectInputs measures every toolpath member of every input. Reading the
// M73 and filament comments needs the file on disk, so each input is
// extracted into a working directory that is removed before returning.
func inspectInputs(ctx context.Context, inputs []string, cfg *config.LooperConfig) ([]inspectReport, error) {
	ws, err := workspace.New(cfg.TempRoot)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := ws.Cleanup(); cerr != nil {
			log.Warning(fmt.Sprintf("could not remove working directory %s: %v", ws.Root(), cerr))
		}
	}()

	var reports []inspectReport
	for i, p := range inputs {
		rep, err := inspectOne(ctx, ws, i, p)
		if err != nil {
			return nil, err
		}
		reports = append(reports, rep)
	}
	return reports, nil
}

func inspectOne(ctx context.Context, ws *workspace.Workspace, i int, p string) (inspectReport, error) {
	a, err := archive.Open(p)
	if err != nil {
		return inspectReport{}, err
	}
	names, err := a.ListToolpaths()
	if err != nil {
		a.Close()
		return inspectReport{}, err
	}
	sizes := a.SizesOf()
	a.Close()

	dir, err := ws.InputDir(i)
	if err != nil {
		return inspectReport{}, err
	}
	if err := archive.Extract(ctx, p, dir); err != nil {
		return inspectReport{}, fmt.Errorf("extracting %s: %w", filepath.Base(p), err)
	}
	metaDir, err := archive.FindMetadataDir(dir)
	if err != nil {
		return inspectReport{}, fmt.Errorf("%s: %w", filepath.Base(p), err)
	}

	rep := inspectReport{Input: p}
	for _, name := range names {
		onDisk := filepath.Join(metaDir, archive.MemberBase(name))

		analysis, err := gcode.Analyze(onDisk)
		if err != nil {
			return inspectReport{}, err
		}
		looped, err := gcode.HasLoopHeader(onDisk)
		if err != nil {
			return inspectReport{}, err
		}

		tp := inspectToolpath{
			Name:          name,
			PrintMinutes:  analysis.Minutes,
			FilamentGrams: analysis.Grams,
			Looped:        looped,
		}
		if c, ok := sizes[name]; ok {
			tp.CompressedSize = c.CompressedSize
			tp.UncompressedSize = c.UncompressedSize
		}
		rep.Toolpaths = append(rep.Toolpaths, tp)
	}
	return rep, nil
}

func printInspectReports(reports []inspectReport) {
	for _, rep := range reports {
		log.Section(filepath.Base(rep.Input))
		for _, tp := range rep.Toolpaths {
			size := "unknown size"
			if tp.UncompressedSize != nil {
				size = report.FormatBytes(int64(*tp.UncompressedSize))
			}
			line := fmt.Sprintf("%-34s %10s %8s %8s", tp.Name, size,
				report.FormatDuration(float64(tp.PrintMinutes)),
				report.FormatMass(tp.FilamentGrams))
			if tp.Looped {
				line += "  (already looped)"
			}
			fmt.Println(line)
		}
	}
}
