// Package config provides LooperConfig loading for the looper CLI.
// Config is read from 3mf-looper.yaml in the working directory. A missing
// file returns sane defaults without error. CLI flags (bound via cobra)
// override config file values at the highest precedence by mutating the
// returned struct after loading.
package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is the config file looked up in the working directory
// when no --config flag is given.
const DefaultFileName = "3mf-looper.yaml"

// Default values for LooperConfig fields.
const (
	DefaultLargeInputWarnMiB     = 100
	DefaultLargeOutputConfirmGiB = 1
	DefaultCopyBufferKiB         = 512
	DefaultTempRoot              = ""
	DefaultRevealOutput          = false
	DefaultRevealCommand         = ""
)

// Byte multipliers for the size-valued config fields.
const (
	bytesPerKiB = int64(1) << 10
	bytesPerMiB = int64(1) << 20
	bytesPerGiB = int64(1) << 30
)

// LooperConfig holds all configuration for the looper CLI.
// It is read from 3mf-looper.yaml in the working directory. CLI flags
// override it at the highest precedence by being applied after LoadConfig
// returns.
type LooperConfig struct {
	// LargeInputWarnMiB is the input archive size above which a warning
	// is printed before processing continues.
	LargeInputWarnMiB int `yaml:"large_input_warn_mib"`
	// LargeOutputConfirmGiB is the estimated output size above which an
	// interactive run asks for confirmation before building.
	LargeOutputConfirmGiB int `yaml:"large_output_confirm_gib"`
	// CopyBufferKiB is the chunk size used when streaming toolpath bytes.
	CopyBufferKiB int `yaml:"copy_buffer_kib"`
	// TempRoot is the directory workspaces are created under.
	// Empty means the operating system temp directory.
	TempRoot string `yaml:"temp_root"`
	// RevealOutput opens the output file's folder after a successful run.
	RevealOutput bool `yaml:"reveal_output"`
	// RevealCommand overrides the platform file-manager command used by
	// RevealOutput. Empty means the platform default.
	RevealCommand string `yaml:"reveal_command"`
}

// LargeInputWarnBytes returns the input-size warning threshold in bytes.
func (c *LooperConfig) LargeInputWarnBytes() int64 {
	return int64(c.LargeInputWarnMiB) * bytesPerMiB
}

// LargeOutputConfirmBytes returns the output-size confirmation threshold in bytes.
func (c *LooperConfig) LargeOutputConfirmBytes() int64 {
	return int64(c.LargeOutputConfirmGiB) * bytesPerGiB
}

// CopyBufferBytes returns the streaming copy buffer size in bytes.
func (c *LooperConfig) CopyBufferBytes() int {
	return int(int64(c.CopyBufferKiB) * bytesPerKiB)
}

// defaults returns a LooperConfig populated with sane defaults.
func defaults() LooperConfig {
	return LooperConfig{
		LargeInputWarnMiB:     DefaultLargeInputWarnMiB,
		LargeOutputConfirmGiB: DefaultLargeOutputConfirmGiB,
		CopyBufferKiB:         DefaultCopyBufferKiB,
		TempRoot:              DefaultTempRoot,
		RevealOutput:          DefaultRevealOutput,
		RevealCommand:         DefaultRevealCommand,
	}
}

// partialConfig is used during YAML parsing to distinguish between a field
// being absent (nil pointer) and a field being explicitly set to its zero value.
type partialConfig struct {
	LargeInputWarnMiB     *int    `yaml:"large_input_warn_mib"`
	LargeOutputConfirmGiB *int    `yaml:"large_output_confirm_gib"`
	CopyBufferKiB         *int    `yaml:"copy_buffer_kib"`
	TempRoot              *string `yaml:"temp_root"`
	RevealOutput          *bool   `yaml:"reveal_output"`
	RevealCommand         *string `yaml:"reveal_command"`
}

// LoadConfig reads 3mf-looper.yaml at path and returns a LooperConfig.
// If the file does not exist, defaults are returned without error.
// Fields absent from the file are filled with their default values.
// Fields present in the file override the corresponding default.
//
// CLI flag override pattern: cobra binds flags to the returned *LooperConfig
// after this call, giving flags the highest precedence automatically.
func LoadConfig(path string) (*LooperConfig, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &cfg, nil
		}
		return nil, err
	}

	var partial partialConfig
	if err := yaml.Unmarshal(data, &partial); err != nil {
		return nil, err
	}

	if partial.LargeInputWarnMiB != nil {
		cfg.LargeInputWarnMiB = *partial.LargeInputWarnMiB
	}
	if partial.LargeOutputConfirmGiB != nil {
		cfg.LargeOutputConfirmGiB = *partial.LargeOutputConfirmGiB
	}
	if partial.CopyBufferKiB != nil {
		cfg.CopyBufferKiB = *partial.CopyBufferKiB
	}
	if partial.TempRoot != nil {
		cfg.TempRoot = *partial.TempRoot
	}
	if partial.RevealOutput != nil {
		cfg.RevealOutput = *partial.RevealOutput
	}
	if partial.RevealCommand != nil {
		cfg.RevealCommand = *partial.RevealCommand
	}

	return &cfg, nil
}
