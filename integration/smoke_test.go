package integration

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// looperBinaryPath holds the path to the binary built during TestMain. It
// is set once before tests run and read by test functions.
var looperBinaryPath string

func TestMain(m *testing.M) {
	// Delegate to a helper so that deferred cleanup runs before os.Exit.
	// (Deferred functions are skipped when os.Exit is called directly.)
	os.Exit(buildAndRun(m))
}

// buildAndRun builds the looper binary, stores its path in
// looperBinaryPath, runs the test suite, and returns the exit code.
func buildAndRun(m *testing.M) int {
	binDir, err := os.MkdirTemp("", "looper-smoke-bin-*")
	if err != nil {
		fmt.Fprintf(os.Stderr, "TestMain: create bin dir: %v\n", err)
		return 1
	}
	defer os.RemoveAll(binDir)

	looperBin := filepath.Join(binDir, "3mf-looper")
	if runtime.GOOS == "windows" {
		looperBin += ".exe"
	}

	// When go test runs, the working directory is the package source
	// directory (integration/). The module root is its parent.
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "TestMain: getwd: %v\n", err)
		return 1
	}
	moduleRoot := filepath.Dir(cwd)

	buildCmd := exec.Command("go", "build", "-o", looperBin, ".")
	buildCmd.Dir = moduleRoot
	buildOut, buildErr := buildCmd.CombinedOutput()
	if buildErr != nil {
		fmt.Fprintf(os.Stderr, "TestMain: build binary: %v\n%s\n", buildErr, string(buildOut))
		return 1
	}

	looperBinaryPath = looperBin
	return m.Run()
}

// ---------------------------------------------------------------------------
// Smoke tests
// ---------------------------------------------------------------------------

// TestSmokeLoopCount runs the binary against a fabricated single-plate
// project and verifies the looped output archive end to end.
func TestSmokeLoopCount(t *testing.T) {
	projectDir := t.TempDir()
	input := filepath.Join(projectDir, "benchy.gcode.3mf")
	writeProjectArchive(t, input, []archiveMember{
		{"[Content_Types].xml", "<Types/>"},
		{"Metadata/plate_1.gcode", "M73 P0 R30\nG28\nG1 X10 Y10 ; smoke-move\n; filament used [g] = 10.0, 0.0, 0.0, 0.0\n"},
		{"3D/3dmodel.model", "<model/>"},
	})

	runCmd := exec.Command(looperBinaryPath, "3", input)
	runCmd.Dir = projectDir
	output, err := runCmd.CombinedOutput()
	t.Logf("looper output:\n%s", string(output))
	if err != nil {
		t.Fatalf("looper run failed: %v\noutput:\n%s", err, string(output))
	}

	outPath := filepath.Join(projectDir, "Loop X 3 - 1h30m - 30g - benchy.gcode.3mf")
	if _, err := os.Stat(outPath); err != nil {
		t.Fatalf("output archive missing: %v", err)
	}

	looped := readArchiveMember(t, outPath, "Metadata/plate_1.gcode")
	if got := strings.Count(looped, "smoke-move"); got != 3 {
		t.Errorf("toolpath content appears %d times, want 3", got)
	}
	if !strings.HasPrefix(looped, "; 3mf-Looper: File modified at ") {
		t.Error("looped toolpath does not start with the modification header")
	}
	if !strings.Contains(looped, "Starting loop 2") || !strings.Contains(looped, "Starting loop 3") {
		t.Error("loop markers missing from the looped toolpath")
	}

	// The input archive itself is untouched.
	original := readArchiveMember(t, input, "Metadata/plate_1.gcode")
	if strings.Contains(original, "Starting loop") {
		t.Error("input archive was modified")
	}

	// The run summary names the output.
	if !strings.Contains(string(output), "RUN SUMMARY") {
		t.Error("run summary not printed")
	}
}

// TestSmokeAmbiguousSelection verifies that a multi-plate archive without
// a selection flag fails cleanly in a non-interactive run.
func TestSmokeAmbiguousSelection(t *testing.T) {
	projectDir := t.TempDir()
	input := filepath.Join(projectDir, "multi.3mf")
	writeProjectArchive(t, input, []archiveMember{
		{"Metadata/plate_1.gcode", "M73 P0 R10\n; filament used [g] = 1.0, 0.0, 0.0, 0.0\n"},
		{"Metadata/plate_2.gcode", "M73 P0 R20\n; filament used [g] = 2.0, 0.0, 0.0, 0.0\n"},
	})

	runCmd := exec.Command(looperBinaryPath, "2", input)
	runCmd.Dir = projectDir
	output, err := runCmd.CombinedOutput()
	t.Logf("looper output:\n%s", string(output))
	if err == nil {
		t.Fatal("expected a non-zero exit for an ambiguous selection")
	}
	if !strings.Contains(string(output), "--all") || !strings.Contains(string(output), "--first") {
		t.Errorf("error output does not point at the selection flags:\n%s", output)
	}

	// --first resolves the ambiguity.
	runCmd = exec.Command(looperBinaryPath, "2", "--first", input)
	runCmd.Dir = projectDir
	output, err = runCmd.CombinedOutput()
	if err != nil {
		t.Fatalf("looper run with --first failed: %v\noutput:\n%s", err, string(output))
	}
}

// TestSmokeInspectJSON verifies the machine-readable inspection report.
func TestSmokeInspectJSON(t *testing.T) {
	projectDir := t.TempDir()
	input := filepath.Join(projectDir, "job.3mf")
	writeProjectArchive(t, input, []archiveMember{
		{"Metadata/plate_1.gcode", "M73 P0 R45\nG28\n; filament used [g] = 12.5, 0.0, 0.0, 0.0\n"},
	})

	runCmd := exec.Command(looperBinaryPath, "inspect", "--json", input)
	runCmd.Dir = projectDir
	output, err := runCmd.Output()
	if err != nil {
		t.Fatalf("inspect failed: %v", err)
	}

	var reports []struct {
		Input     string `json:"input"`
		Toolpaths []struct {
			Name          string  `json:"name"`
			PrintMinutes  uint32  `json:"print_minutes"`
			FilamentGrams float64 `json:"filament_grams"`
			Looped        bool    `json:"looped"`
		} `json:"toolpaths"`
	}
	if err := json.Unmarshal(output, &reports); err != nil {
		t.Fatalf("inspect output is not valid JSON: %v\n%s", err, output)
	}

	if len(reports) != 1 || len(reports[0].Toolpaths) != 1 {
		t.Fatalf("unexpected report shape: %+v", reports)
	}
	tp := reports[0].Toolpaths[0]
	if tp.Name != "Metadata/plate_1.gcode" || tp.PrintMinutes != 45 || tp.FilamentGrams != 12.5 || tp.Looped {
		t.Errorf("unexpected toolpath report: %+v", tp)
	}
}

// TestSmokeZeroLoops verifies the exit code and message when the target
// fits no loops.
func TestSmokeZeroLoops(t *testing.T) {
	projectDir := t.TempDir()
	input := filepath.Join(projectDir, "job.3mf")
	writeProjectArchive(t, input, []archiveMember{
		{"Metadata/plate_1.gcode", "M73 P0 R90\n; filament used [g] = 10.0, 0.0, 0.0, 0.0\n"},
	})

	// 90 minutes per loop cannot fit a one-hour target.
	runCmd := exec.Command(looperBinaryPath, "1h", input)
	runCmd.Dir = projectDir
	output, err := runCmd.CombinedOutput()
	if err == nil {
		t.Fatal("expected a non-zero exit for a zero-loop plan")
	}
	if !strings.Contains(string(output), "zero loops") {
		t.Errorf("error output does not explain the zero-loop plan:\n%s", output)
	}
	if matches, _ := filepath.Glob(filepath.Join(projectDir, "Loop X *")); len(matches) != 0 {
		t.Errorf("output archives left behind: %v", matches)
	}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// archiveMember is one fixture entry, written in order.
type archiveMember struct {
	name string
	body string
}

func writeProjectArchive(t *testing.T, path string, members []archiveMember) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	for _, m := range members {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: m.name, Method: zip.Deflate})
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(m.body)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
}

func readArchiveMember(t *testing.T, zipPath, member string) string {
	t.Helper()
	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		t.Fatal(err)
	}
	defer zr.Close()
	for _, f := range zr.File {
		if f.Name != member {
			continue
		}
		r, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		defer r.Close()
		data, err := io.ReadAll(r)
		if err != nil {
			t.Fatal(err)
		}
		return string(data)
	}
	t.Fatalf("member %q not found in %s", member, zipPath)
	return ""
}
