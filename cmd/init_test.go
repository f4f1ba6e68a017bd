package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/IgorBuilds/3mf-Looper/internal/config"
)

func TestInitConfigFile_CreatesConfig(t *testing.T) {
	dir := t.TempDir()

	if err := initConfigFile(dir, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	path := filepath.Join(dir, config.DefaultFileName)
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not created: %v", err)
	}

	// The generated file must load back as valid config with defaults.
	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("generated config does not load: %v", err)
	}
	if cfg.LargeInputWarnMiB != config.DefaultLargeInputWarnMiB {
		t.Errorf("LargeInputWarnMiB = %d, want the default %d", cfg.LargeInputWarnMiB, config.DefaultLargeInputWarnMiB)
	}
	if cfg.CopyBufferKiB != config.DefaultCopyBufferKiB {
		t.Errorf("CopyBufferKiB = %d, want the default %d", cfg.CopyBufferKiB, config.DefaultCopyBufferKiB)
	}
}

func TestInitConfigFile_GuardsExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, config.DefaultFileName)
	if err := os.WriteFile(path, []byte("temp_root: /custom\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := initConfigFile(dir, false)
	if err == nil {
		t.Fatal("expected an error when the config file already exists")
	}
	if !strings.Contains(err.Error(), config.DefaultFileName) {
		t.Errorf("error does not name the existing file: %v", err)
	}

	// The existing file is untouched.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "temp_root: /custom\n" {
		t.Error("existing config file was modified")
	}
}

func TestInitConfigFile_ForceOverwrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, config.DefaultFileName)
	if err := os.WriteFile(path, []byte("old content"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := initConfigFile(dir, true); err != nil {
		t.Fatalf("unexpected error with force=true: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) == "old content" {
		t.Error("config file was not overwritten with --force")
	}
}

func TestLooperYAMLContent_HasInlineComments(t *testing.T) {
	content := looperYAMLContent()
	requiredKeys := []string{
		"large_input_warn_mib:",
		"large_output_confirm_gib:",
		"copy_buffer_kib:",
		"temp_root:",
		"reveal_output:",
		"reveal_command:",
	}
	for _, key := range requiredKeys {
		if !strings.Contains(content, key) {
			t.Errorf("starter config missing key %q", key)
		}
	}
	// Every key line should carry an inline comment.
	for _, line := range strings.Split(content, "\n") {
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.Contains(line, ":") && !strings.Contains(line, "#") {
			t.Errorf("key line missing inline comment: %q", line)
		}
	}
}
