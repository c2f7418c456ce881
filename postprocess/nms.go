// Package postprocess - cross-tile Non-Maximum Suppression for oriented
// bounding boxes.
package postprocess

import (
	"sort"

	"github.com/geoscan-ai/go-obb/detection"
	"github.com/geoscan-ai/go-obb/images"
)

// NMSConfig defines parameters for oriented-box Non-Maximum Suppression.
type NMSConfig struct {
	// IoUThreshold is the overlap threshold above which a lower-confidence
	// detection of the same class is suppressed.
	IoUThreshold float32 `json:"iou_threshold"`
}

// DefaultNMSConfig returns the suppression threshold used for cross-tile
// duplicate removal.
func DefaultNMSConfig() NMSConfig {
	return NMSConfig{IoUThreshold: 0.45}
}

// SuppressOBB filters duplicate oriented-box detections using greedy
// class-aware Non-Maximum Suppression.
//
// This runs once over the full accumulated detection set of all tiles, never
// per tile: true duplicates live at tile-overlap boundaries. Detections are
// visited in descending confidence order; a detection is dropped when an
// already-kept, higher-confidence detection of the same class overlaps it
// beyond the threshold. Cross-class detections never suppress each other.
//
// Overlap uses the axis-aligned IoU of each box's bounding square (side
// max(w, h), centered on the box center) as an approximation of rotated
// polygon IoU. Exact confidence ties keep the original generation order:
// the sort is stable, so the earlier-produced detection wins.
//
// Arguments:
//   - detections: The accumulated detections from all tiles.
//   - config: Suppression parameters.
//
// Returns:
//   - The kept detections, highest confidence first. An empty input yields
//     an empty result.
func SuppressOBB(detections []detection.Detection, config NMSConfig) []detection.Detection {
	n := len(detections)
	if n == 0 {
		return nil
	}

	sorted := make([]detection.Detection, n)
	copy(sorted, detections)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Confidence > sorted[j].Confidence
	})

	squares := make([]images.Rect, n)
	for i, d := range sorted {
		squares[i] = boundingSquare(d)
	}

	kept := make([]detection.Detection, 0, n)
	used := make([]bool, n)

	for i := 0; i < n; i++ {
		if used[i] {
			continue
		}

		kept = append(kept, sorted[i])
		used[i] = true

		for j := i + 1; j < n; j++ {
			if used[j] {
				continue
			}
			if sorted[j].ClassID != sorted[i].ClassID {
				continue
			}
			if images.CalculateIoU(squares[i], squares[j]) > config.IoUThreshold {
				used[j] = true
			}
		}
	}

	return kept
}

// boundingSquare returns the axis-aligned square centered on the box, with
// half-side max(w, h)/2. Rotation-independent, so a box and its duplicate
// detected at a different angle in an overlapping tile still match.
func boundingSquare(d detection.Detection) images.Rect {
	r := d.W
	if d.H > r {
		r = d.H
	}
	r /= 2
	return images.Rect{X1: d.CX - r, Y1: d.CY - r, X2: d.CX + r, Y2: d.CY + r}
}
