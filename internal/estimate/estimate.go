// Package estimate predicts the size of the output archive without
// performing real compression, which would be expensive for large inputs.
package estimate

import (
	"math"

	"github.com/IgorBuilds/3mf-Looper/internal/types"
)

// fallbackRatio is assumed when member sizes cannot derive a real
// compression ratio.
const fallbackRatio = 0.5

// Predict estimates the final archive size in bytes: the original archive
// size, minus the compressed bytes of the members being replaced, plus the
// looped member's projected compressed size. The projection multiplies the
// per-loop uncompressed bytes by the repetition count and a compression
// ratio derived from the selected members' own size columns.
//
// Returns nil when required size metadata is absent. Estimation is
// advisory and never blocks a run.
func Predict(archiveSize int64, replaced, selected []types.ToolpathCandidate, repetitions uint32) *int64 {
	var removedCompressed uint64
	for _, c := range replaced {
		if c.CompressedSize == nil {
			return nil
		}
		removedCompressed += *c.CompressedSize
	}

	var perLoopUncompressed uint64
	for _, c := range selected {
		if c.UncompressedSize == nil {
			return nil
		}
		perLoopUncompressed += *c.UncompressedSize
	}

	newUncompressed := float64(perLoopUncompressed) * float64(repetitions)
	newCompressed := int64(math.Ceil(newUncompressed * deriveRatio(selected)))

	estimate := archiveSize - int64(removedCompressed) + newCompressed
	return &estimate
}

// deriveRatio computes total compressed over total uncompressed bytes
// across the selected members, falling back when either column is
// incomplete or the uncompressed total is zero.
func deriveRatio(selected []types.ToolpathCandidate) float64 {
	var compressed, uncompressed uint64
	for _, c := range selected {
		if c.CompressedSize == nil || c.UncompressedSize == nil {
			return fallbackRatio
		}
		compressed += *c.CompressedSize
		uncompressed += *c.UncompressedSize
	}
	if uncompressed == 0 {
		return fallbackRatio
	}
	return float64(compressed) / float64(uncompressed)
}
