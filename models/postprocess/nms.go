package postprocess

import (
	"sort"

	"github.com/cameraapp/go-vision/images"
)

// ApplyGreedyNMS performs greedy Non-Maximum Suppression over a candidate
// detection list.
//
// Candidates are stably sorted by descending confidence, then the highest
// remaining candidate is kept and every remaining candidate whose IoU against
// it reaches iouThreshold is suppressed. Suppression is class-agnostic:
// overlapping boxes of different classes suppress each other too. The output
// preserves selection order, so confidences are non-increasing.
//
// Arguments:
//   - detections: The candidate detections. The input slice is not modified.
//   - iouThreshold: Overlap ratio at or above which a candidate is suppressed.
//
// Returns:
//   - Kept detections in selection order. Nil input yields an empty slice.
func ApplyGreedyNMS(detections []Detection, iouThreshold float32) []Detection {
	n := len(detections)
	if n == 0 {
		return []Detection{}
	}

	sorted := make([]Detection, n)
	copy(sorted, detections)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Confidence > sorted[j].Confidence
	})

	kept := make([]Detection, 0, n)
	used := make([]bool, n)

	for i := 0; i < n; i++ {
		if used[i] {
			continue
		}

		anchor := sorted[i]
		kept = append(kept, anchor)
		used[i] = true

		for j := i + 1; j < n; j++ {
			if used[j] {
				continue
			}
			if images.CalculateIoU(anchor.Box, sorted[j].Box) >= iouThreshold {
				used[j] = true
			}
		}
	}

	return kept
}
