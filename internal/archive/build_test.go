package archive_test

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/IgorBuilds/3mf-Looper/internal/archive"
)

// writeTree creates the given relative-path files under root.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, body := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestBuild_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "work")
	files := map[string]string{
		"[Content_Types].xml":    "<Types/>",
		"Metadata/plate_1.gcode": "G1 X0\nG1 X10\n",
		"3D/3dmodel.model":       "<model/>",
	}
	writeTree(t, src, files)

	out := filepath.Join(dir, "out.3mf")
	if err := archive.Build(src, out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r, err := zip.OpenReader(out)
	if err != nil {
		t.Fatalf("output is not a readable archive: %v", err)
	}
	defer r.Close()

	got := make(map[string]string)
	for _, f := range r.File {
		if f.Method != zip.Deflate {
			t.Errorf("member %s method = %d, want Deflate", f.Name, f.Method)
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatal(err)
		}
		got[f.Name] = string(data)
	}

	for rel, want := range files {
		if got[rel] != want {
			t.Errorf("member %s = %q, want %q", rel, got[rel], want)
		}
	}
	// No wrapping top-level folder: the source dir's own name never appears.
	for name := range got {
		if filepath.IsAbs(name) || name == "work" || strings.HasPrefix(name, "work/") {
			t.Errorf("member %q wraps the source directory name", name)
		}
	}
}

func TestBuild_NoTempLeftover(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "work")
	writeTree(t, src, map[string]string{"Metadata/plate.gcode": "G1\n"})

	out := filepath.Join(dir, "out.3mf")
	if err := archive.Build(src, out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := os.Stat(out); err != nil {
		t.Errorf("output missing after successful build: %v", err)
	}
	if _, err := os.Stat(out + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temporary file left behind after successful build")
	}
}

func TestBuild_MissingSourceDir(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.3mf")

	err := archive.Build(filepath.Join(dir, "absent"), out)
	if err == nil {
		t.Fatal("expected error for missing source directory, got nil")
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Error("failed build must not leave an output archive")
	}
	if _, statErr := os.Stat(out + ".tmp"); !os.IsNotExist(statErr) {
		t.Error("failed build must remove its temporary file")
	}
}
