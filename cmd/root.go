package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "v1.2.0"

var rootFlags struct {
	all        bool
	first      bool
	reveal     bool
	configPath string
}

var rootCmd = &cobra.Command{
	Use:   "3mf-looper <loop-spec> <file.3mf> [file.3mf...]",
	Short: "Duplicate a 3MF project's toolpath for hands-off repeated printing",
	Long: `3mf-looper rewrites the G-code payload inside a sliced .3mf project so the
job prints multiple times in a row without anyone touching the printer.

The loop specifier decides how many times:

  3mf-looper 5 benchy.gcode.3mf       loop exactly 5 times
  3mf-looper 12h benchy.gcode.3mf     as many loops as fit in 12 hours
  3mf-looper 500g benchy.gcode.3mf    as many loops as 500g of filament allows

With several inputs, every selected toolpath joins each loop and the output
archive keeps the first input's structure. The input files are never
modified; the looped copy lands next to the first input.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runLoop,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = version
	rootCmd.Flags().BoolVar(&rootFlags.all, "all", false, "loop every toolpath file without prompting")
	rootCmd.Flags().BoolVar(&rootFlags.first, "first", false, "loop only the first toolpath file without prompting")
	rootCmd.Flags().BoolVar(&rootFlags.reveal, "reveal", false, "open the output folder after a successful run")
	rootCmd.PersistentFlags().StringVar(&rootFlags.configPath, "config", "", "path to 3mf-looper.yaml (default: current directory)")
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(initCmd)
}
