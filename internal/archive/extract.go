package archive

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/saracen/fastzip"
)

// Extract streams every member of the archive at archivePath into destDir,
// preserving relative paths. Members are written straight to disk; nothing
// is materialized in memory beyond the decompressor's own buffering.
// Extraction runs with a single worker so exactly one file operation is in
// flight at a time.
func Extract(ctx context.Context, archivePath, destDir string) error {
	extractor, err := fastzip.NewExtractor(archivePath, destDir,
		fastzip.WithExtractorConcurrency(1))
	if err != nil {
		return fmt.Errorf("opening archive %s for extraction: %w", filepath.Base(archivePath), err)
	}
	defer extractor.Close()

	if err := extractor.Extract(ctx); err != nil {
		return fmt.Errorf("extracting %s: %w", filepath.Base(archivePath), err)
	}
	return nil
}
