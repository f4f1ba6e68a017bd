package gcode

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// HasLoopHeader reports whether the toolpath at path was already produced
// by a complete looping run, by checking whether the file begins with a
// loop header line. Only the first bytes are read.
func HasLoopHeader(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("opening toolpath %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	buf := make([]byte, len(headerPrefix))
	if _, err := io.ReadFull(f, buf); err != nil {
		// A file shorter than the prefix cannot carry a loop header.
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return false, nil
		}
		return false, fmt.Errorf("reading toolpath %s: %w", filepath.Base(path), err)
	}
	return string(buf) == headerPrefix, nil
}
