// Package workspace manages the per-run temporary directory tree.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
)

// Workspace is the temporary working root for one run. Every run owns its
// root exclusively; no run ever shares or reuses another run's root.
type Workspace struct {
	id   string
	root string
}

// New creates a uniquely named working root under tempRoot. An empty
// tempRoot falls back to the operating system temp directory.
func New(tempRoot string) (*Workspace, error) {
	if tempRoot == "" {
		tempRoot = os.TempDir()
	}
	id := uuid.NewString()
	root := filepath.Join(tempRoot, "3mf-looper-"+id)
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating working directory: %w", err)
	}
	return &Workspace{id: id, root: root}, nil
}

// ID returns the unique run identifier embedded in the root's name.
func (w *Workspace) ID() string { return w.id }

// Root returns the working root path.
func (w *Workspace) Root() string { return w.root }

// InputDir returns the extraction directory for the i-th input, creating
// it if needed.
func (w *Workspace) InputDir(i int) (string, error) {
	dir := filepath.Join(w.root, "input_"+strconv.Itoa(i))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating input directory: %w", err)
	}
	return dir, nil
}

// Cleanup removes the working root recursively. The error is returned for
// logging only; cleanup failure must never mask a primary failure or block
// process exit.
func (w *Workspace) Cleanup() error {
	return os.RemoveAll(w.root)
}
