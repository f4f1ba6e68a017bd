package gcode

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/IgorBuilds/3mf-Looper/internal/types"
)

// ToolIdentity is the name embedded in every generated marker comment.
const ToolIdentity = "3mf-Looper"

// timestampLayout is the local-time format used in the loop header.
const timestampLayout = "2006-01-02 15:04:05"

// headerPrefix is the invariant start of a loop header line, shared with
// the fingerprint check.
const headerPrefix = "; " + ToolIdentity + ": File modified at "

// Now returns the wall-clock time stamped into loop headers. It is a
// package-level variable so tests can pin it.
var Now = time.Now

// LoopHeader returns the header line written at both the start and the end
// of a looped toolpath file. Emitting the identical line twice gives a
// cheap structural fingerprint for "was this file produced by a complete
// run".
func LoopHeader(repetitions uint32, displayNames []string, at time.Time) string {
	return fmt.Sprintf("%s%s for %d loops for files: %s",
		headerPrefix, at.Format(timestampLayout), repetitions, strings.Join(displayNames, ", "))
}

// WriteLooped streams repetitions copies of the given sources, in order,
// into the file at destPath. The output carries the loop header first and
// last, a loop marker before every repetition after the first, and a file
// marker before every source in every repetition; source bytes are copied
// verbatim between markers.
//
// Content is written to a temporary sibling and atomically renamed over
// destPath only after the stream is fully flushed, so an interrupted run
// never leaves destPath half-written. Copying is chunked with bufSize-byte
// buffers; at most one source and the destination are buffered at a time,
// regardless of file sizes.
//
// The caller guarantees repetitions >= 1 and at least one source.
func WriteLooped(destPath string, sources []types.SourceFile, repetitions uint32, bufSize int) error {
	names := make([]string, len(sources))
	for i, s := range sources {
		names[i] = s.DisplayName
	}
	header := LoopHeader(repetitions, names, Now())

	tmpPath := destPath + ".tmp"
	out, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", tmpPath, err)
	}

	err = writeLoops(out, header, sources, repetitions, bufSize)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmpPath) //nolint:errcheck
		return fmt.Errorf("writing looped toolpath: %w", err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath) //nolint:errcheck
		return fmt.Errorf("renaming looped toolpath into place: %w", err)
	}
	return nil
}

// writeLoops emits the complete marker-and-content stream to w and flushes.
func writeLoops(w io.Writer, header string, sources []types.SourceFile, repetitions uint32, bufSize int) error {
	bw := bufio.NewWriterSize(w, bufSize)
	copyBuf := make([]byte, bufSize)

	if _, err := fmt.Fprintf(bw, "%s\n", header); err != nil {
		return err
	}
	for i := uint32(1); i <= repetitions; i++ {
		if i > 1 {
			if _, err := fmt.Fprintf(bw, "; %s: Starting loop %d\n", ToolIdentity, i); err != nil {
				return err
			}
		}
		for _, src := range sources {
			if _, err := fmt.Fprintf(bw, "; %s: Starting loop %d for %q\n", ToolIdentity, i, src.DisplayName); err != nil {
				return err
			}
			if err := copyChunked(bw, src.Path, copyBuf); err != nil {
				return err
			}
		}
	}
	if _, err := fmt.Fprintf(bw, "\n%s\n", header); err != nil {
		return err
	}
	return bw.Flush()
}

// copyChunked streams the file at path into w one buffer at a time. The
// write side applies backpressure: a full destination buffer drains before
// the next source chunk is read.
func copyChunked(w io.Writer, path string, buf []byte) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening source %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	for {
		n, readErr := f.Read(buf)
		if n > 0 {
			if _, err := w.Write(buf[:n]); err != nil {
				return fmt.Errorf("copying %s: %w", filepath.Base(path), err)
			}
		}
		if readErr == io.EOF {
			return nil
		}
		if readErr != nil {
			return fmt.Errorf("reading %s: %w", filepath.Base(path), readErr)
		}
	}
}
