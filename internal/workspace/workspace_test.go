package workspace_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/IgorBuilds/3mf-Looper/internal/workspace"
)

func TestNew_UniqueRoots(t *testing.T) {
	tempRoot := t.TempDir()

	a, err := workspace.New(tempRoot)
	if err != nil {
		t.Fatal(err)
	}
	b, err := workspace.New(tempRoot)
	if err != nil {
		t.Fatal(err)
	}

	if a.Root() == b.Root() {
		t.Errorf("two runs share the working root %q", a.Root())
	}
	for _, w := range []*workspace.Workspace{a, b} {
		if filepath.Dir(w.Root()) != tempRoot {
			t.Errorf("root %q not directly under %q", w.Root(), tempRoot)
		}
		if !strings.HasPrefix(filepath.Base(w.Root()), "3mf-looper-") {
			t.Errorf("root %q missing the 3mf-looper- prefix", w.Root())
		}
		if info, err := os.Stat(w.Root()); err != nil || !info.IsDir() {
			t.Errorf("root %q does not exist as a directory: %v", w.Root(), err)
		}
		if w.ID() == "" {
			t.Error("workspace has an empty run ID")
		}
	}
}

func TestNew_EmptyTempRootUsesOSDefault(t *testing.T) {
	w, err := workspace.New("")
	if err != nil {
		t.Fatal(err)
	}
	defer w.Cleanup() //nolint:errcheck

	if filepath.Dir(w.Root()) != os.TempDir() {
		t.Errorf("root %q not under the OS temp directory %q", w.Root(), os.TempDir())
	}
}

func TestInputDir(t *testing.T) {
	w, err := workspace.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	first, err := w.InputDir(0)
	if err != nil {
		t.Fatal(err)
	}
	second, err := w.InputDir(1)
	if err != nil {
		t.Fatal(err)
	}

	if first == second {
		t.Error("distinct inputs share an extraction directory")
	}
	again, err := w.InputDir(0)
	if err != nil {
		t.Fatal(err)
	}
	if again != first {
		t.Errorf("InputDir(0) unstable: %q then %q", first, again)
	}
	for _, dir := range []string{first, second} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Errorf("input dir %q does not exist as a directory: %v", dir, err)
		}
		if !strings.HasPrefix(dir, w.Root()) {
			t.Errorf("input dir %q outside the working root %q", dir, w.Root())
		}
	}
}

func TestCleanup(t *testing.T) {
	w, err := workspace.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.InputDir(0); err != nil {
		t.Fatal(err)
	}

	if err := w.Cleanup(); err != nil {
		t.Fatalf("unexpected cleanup error: %v", err)
	}
	if _, err := os.Stat(w.Root()); !os.IsNotExist(err) {
		t.Error("working root still present after cleanup")
	}
	// Cleanup is safe to repeat.
	if err := w.Cleanup(); err != nil {
		t.Errorf("second cleanup errored: %v", err)
	}
}
