// Package archive provides ZIP container access for 3mf project files:
// indexing toolpath members, extracting full contents to a working
// directory, and rebuilding a directory tree into a new archive.
package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/IgorBuilds/3mf-Looper/internal/types"
)

// MetadataDirName is the fixed top-level directory toolpath members must
// live under. Matching is case-insensitive on read.
const MetadataDirName = "Metadata"

// ToolpathExt is the extension identifying toolpath members, matched
// case-insensitively.
const ToolpathExt = ".gcode"

// ErrNoToolpaths is returned when an archive has no toolpath members
// directly under the metadata directory.
var ErrNoToolpaths = errors.New("no toolpath files found under the metadata directory")

// ErrNoMetadataDir is returned when an extracted archive has no metadata
// directory at its root.
var ErrNoMetadataDir = errors.New("metadata directory not found in extracted archive")

// Archive is an opened zip container. It holds no in-memory copy of member
// contents; entries are enumerated lazily from the central directory.
type Archive struct {
	path   string
	reader *zip.ReadCloser
}

// Open opens the zip archive at path for indexing.
func Open(path string) (*Archive, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening archive %s: %w", filepath.Base(path), err)
	}
	return &Archive{path: path, reader: r}, nil
}

// Close releases the archive's file handle.
func (a *Archive) Close() error {
	return a.reader.Close()
}

// ListToolpaths returns the names of all toolpath members directly under
// the metadata directory, in archive enumeration order (never sorted).
// Names are returned exactly as stored. Returns ErrNoToolpaths when no
// member matches.
func (a *Archive) ListToolpaths() ([]string, error) {
	var names []string
	for _, f := range a.reader.File {
		if isToolpathEntry(f) {
			names = append(names, f.Name)
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%s: %w", filepath.Base(a.path), ErrNoToolpaths)
	}
	return names, nil
}

// SizesOf returns compressed and uncompressed sizes for every toolpath
// member, keyed by stored name. Size fields are pointers because not every
// archive source exposes both columns; consumers must handle absence.
func (a *Archive) SizesOf() map[string]types.ToolpathCandidate {
	sizes := make(map[string]types.ToolpathCandidate)
	for _, f := range a.reader.File {
		if !isToolpathEntry(f) {
			continue
		}
		comp := f.CompressedSize64
		uncomp := f.UncompressedSize64
		sizes[f.Name] = types.ToolpathCandidate{
			Name:             f.Name,
			CompressedSize:   &comp,
			UncompressedSize: &uncomp,
		}
	}
	return sizes
}

// isToolpathEntry reports whether f is a regular file directly under the
// metadata directory with a toolpath extension.
func isToolpathEntry(f *zip.File) bool {
	if f.FileInfo().IsDir() {
		return false
	}
	first, second, ok := splitEntryName(f.Name)
	if !ok {
		return false
	}
	return strings.EqualFold(first, MetadataDirName) &&
		strings.HasSuffix(strings.ToLower(second), ToolpathExt)
}

// MemberBase returns the file-name segment of a stored member name,
// tolerating backslash separators. Callers use it to locate the member on
// disk after extraction.
func MemberBase(name string) string {
	if _, second, ok := splitEntryName(name); ok {
		return second
	}
	n := strings.ReplaceAll(name, "\\", "/")
	return filepath.Base(n)
}

// splitEntryName normalizes a stored entry name (backslash to slash, strip
// leading "./" and "/") and splits it into exactly two path segments.
// ok is false when the name does not have exactly two non-empty segments.
func splitEntryName(name string) (first, second string, ok bool) {
	n := strings.ReplaceAll(name, "\\", "/")
	n = strings.TrimPrefix(n, "./")
	n = strings.TrimPrefix(n, "/")
	parts := strings.Split(n, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// FindMetadataDir locates the metadata directory at the root of an
// extracted archive. The canonical spelling is tried first, then a
// case-insensitive scan of the root's entries. Returns ErrNoMetadataDir
// when no directory matches.
func FindMetadataDir(extractedRoot string) (string, error) {
	exact := filepath.Join(extractedRoot, MetadataDirName)
	if info, err := os.Stat(exact); err == nil && info.IsDir() {
		return exact, nil
	}

	entries, err := os.ReadDir(extractedRoot)
	if err != nil {
		return "", fmt.Errorf("reading extracted root: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() && strings.EqualFold(e.Name(), MetadataDirName) {
			return filepath.Join(extractedRoot, e.Name()), nil
		}
	}
	return "", ErrNoMetadataDir
}
