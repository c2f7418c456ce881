package geo

import "github.com/geoscan-ai/go-obb/detection"

// Set pairs one image's detections with that image's geo reference.
// Detections from two different references are comparable only in the shared
// geographic space, never by direct pixel comparison.
type Set struct {
	Detections []detection.Detection
	Ref        GeoReference
}

// GeoDetection is a detection annotated with its geographic corner polygon,
// computed through the reference of the image it came from.
type GeoDetection struct {
	detection.Detection
	// Corners are the four oriented-box corners in geographic coordinates.
	Corners [4]GeoPoint
	// Bounds are the axis-aligned geographic bounds of the corners.
	Bounds Bounds
}

// MergeConfig defines parameters for cross-image deduplication.
type MergeConfig struct {
	// IoUThreshold is the geographic-bounds overlap above which two
	// same-class detections are considered the same object.
	IoUThreshold float64 `json:"iou_threshold"`
}

// DefaultMergeConfig returns the threshold used for merging overlapping
// flight passes.
func DefaultMergeConfig() MergeConfig {
	return MergeConfig{IoUThreshold: 0.5}
}

// Merge combines two geo-referenced detection sets, removing duplicates by
// geographic IoU.
//
// The result starts as a copy of the first set. Each second-set detection is
// compared, in geographic space, against every same-class entry already in
// the result; class identity is a hard gate checked before any IoU
// computation. Among the entries exceeding the threshold the strongest
// overlap is the match, and that entry is replaced only when the newcomer's
// confidence is strictly greater - the first occurrence wins on ties -
// otherwise the newcomer is dropped. Unmatched detections are appended as
// new objects.
//
// Empty sets are valid: two empty sets merge to an empty result, and one
// empty set passes the other through unchanged.
//
// Arguments:
//   - first, second: The two (detections, reference) pairs.
//   - config: Merge parameters.
//
// Returns:
//   - []GeoDetection: The merged, deduplicated result.
//   - error: ErrDegenerateGeoReference if either reference has a
//     non-positive pixel scale.
func Merge(first, second Set, config MergeConfig) ([]GeoDetection, error) {
	if err := first.Ref.Validate(); err != nil {
		return nil, err
	}
	if err := second.Ref.Validate(); err != nil {
		return nil, err
	}

	merged := make([]GeoDetection, 0, len(first.Detections)+len(second.Detections))
	for _, d := range first.Detections {
		merged = append(merged, newGeoDetection(d, first.Ref))
	}

	for _, d := range second.Detections {
		candidate := newGeoDetection(d, second.Ref)

		best := -1
		bestIoU := config.IoUThreshold
		for j := range merged {
			if merged[j].ClassID != candidate.ClassID {
				continue
			}
			if iou := merged[j].Bounds.IoU(candidate.Bounds); iou > bestIoU {
				bestIoU = iou
				best = j
			}
		}
		if best < 0 {
			merged = append(merged, candidate)
			continue
		}
		// Same object seen from both images: keep the more confident
		// record, replacing rather than mutating.
		if candidate.Confidence > merged[best].Confidence {
			merged[best] = candidate
		}
	}

	return merged, nil
}

func newGeoDetection(d detection.Detection, ref GeoReference) GeoDetection {
	corners := ref.DetectionCorners(d)
	return GeoDetection{
		Detection: d,
		Corners:   corners,
		Bounds:    cornerBounds(corners),
	}
}
