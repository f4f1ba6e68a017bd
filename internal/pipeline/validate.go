package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/IgorBuilds/3mf-Looper/internal/log"
	"github.com/IgorBuilds/3mf-Looper/internal/report"
)

// ValidateInputs checks every input path before any archive is opened:
//
//   - at least one input must be given
//   - every input must exist and be a regular file
//   - a non-.3mf extension warns but does not reject
//   - an input over warnBytes warns that processing may take a while
//
// The first failing path aborts the run; warnings never do.
func ValidateInputs(paths []string, warnBytes int64) error {
	if len(paths) == 0 {
		return ErrNoInputs
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			if os.IsNotExist(err) {
				return &InputError{Path: p, Reason: "file not found"}
			}
			return &InputError{Path: p, Reason: err.Error()}
		}
		if info.IsDir() {
			return &InputError{Path: p, Reason: "is a directory, not a project archive"}
		}
		if !strings.EqualFold(filepath.Ext(p), ".3mf") {
			log.Warning(fmt.Sprintf("%s does not end in .3mf, attempting to process it anyway", filepath.Base(p)))
		}
		if warnBytes > 0 && info.Size() > warnBytes {
			log.Warning(fmt.Sprintf("%s is %s, processing may take a while", filepath.Base(p), report.FormatBytes(info.Size())))
		}
	}

	return nil
}
