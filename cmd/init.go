package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/IgorBuilds/3mf-Looper/internal/config"
	"github.com/IgorBuilds/3mf-Looper/internal/log"
)

var initFlags struct {
	force bool
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter 3mf-looper.yaml in the current directory",
	Long:  "Write a starter 3mf-looper.yaml with every setting at its default and a comment explaining it.",
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initFlags.force, "force", false, "overwrite an existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	dir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}
	return initConfigFile(dir, initFlags.force)
}

// initConfigFile is the testable core of the init command.
func initConfigFile(dir string, force bool) error {
	path := filepath.Join(dir, config.DefaultFileName)
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists; use --force to overwrite", config.DefaultFileName)
		}
	}
	if err := os.WriteFile(path, []byte(looperYAMLContent()), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", config.DefaultFileName, err)
	}
	log.Success(fmt.Sprintf("created %s", path))
	return nil
}

// looperYAMLContent returns the starter config file content with inline
// comments and every key pre-filled with its default.
func looperYAMLContent() string {
	return fmt.Sprintf(`# 3mf-looper.yaml looper configuration
large_input_warn_mib: %d     # warn when an input archive exceeds this many MiB
large_output_confirm_gib: %d   # ask before building an output estimated over this many GiB
copy_buffer_kib: %d          # chunk size for streaming toolpath bytes
temp_root: ""                 # working directories go here; empty means the OS temp dir
reveal_output: false          # open the output folder after a successful run
reveal_command: ""            # custom file-manager command; empty means the platform default
`, config.DefaultLargeInputWarnMiB, config.DefaultLargeOutputConfirmGiB, config.DefaultCopyBufferKiB)
}
