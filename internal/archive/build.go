package archive

import (
	"archive/zip"
	"compress/flate"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/IgorBuilds/3mf-Looper/internal/log"
)

// Build streams the full contents of srcDir into a new ZIP archive at
// outPath, preserving relative paths without a wrapping top-level folder.
// Members are deflated at maximum compression. The archive is written to a
// temporary sibling first and renamed over outPath only after a fully
// successful build; a failed build removes the partial file.
//
// A file that vanishes between the directory walk and archiving is logged
// as a warning and skipped; any other error aborts the build.
func Build(srcDir, outPath string) error {
	// A missing source root is a hard error, not a vanished-entry skip.
	if _, err := os.Stat(srcDir); err != nil {
		return fmt.Errorf("reading source directory: %w", err)
	}

	tmpPath := outPath + ".tmp"
	out, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("creating archive %s: %w", tmpPath, err)
	}

	zw := zip.NewWriter(out)
	zw.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, flate.BestCompression)
	})

	buildErr := filepath.Walk(srcDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				log.Warning(fmt.Sprintf("Entry vanished during archiving, skipping: %s", path))
				return nil
			}
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		return addMember(zw, path, rel, info)
	})

	if closeErr := zw.Close(); buildErr == nil {
		buildErr = closeErr
	}
	if closeErr := out.Close(); buildErr == nil {
		buildErr = closeErr
	}

	if buildErr != nil {
		os.Remove(tmpPath) //nolint:errcheck
		return fmt.Errorf("building archive %s: %w", filepath.Base(outPath), buildErr)
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		os.Remove(tmpPath) //nolint:errcheck
		return fmt.Errorf("renaming archive into place: %w", err)
	}
	return nil
}

// addMember deflates one file into the archive under the slash-separated
// relative name rel. A source that vanished since the walk is skipped with
// a warning.
func addMember(zw *zip.Writer, path, rel string, info os.FileInfo) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warning(fmt.Sprintf("File vanished during archiving, skipping: %s", rel))
			return nil
		}
		return err
	}
	defer f.Close()

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	header.Name = filepath.ToSlash(rel)
	header.Method = zip.Deflate

	w, err := zw.CreateHeader(header)
	if err != nil {
		return err
	}

	_, err = io.Copy(w, f)
	return err
}
