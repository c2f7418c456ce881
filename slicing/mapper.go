package slicing

import "github.com/geoscan-ai/go-obb/detection"

// ToImageSpace maps tile-local model-space detections back into source-image
// pixel space by inverting the letterbox transform and adding the tile
// offset. Rotation is invariant under uniform scale and translation, so the
// angle passes through unchanged.
//
// The function is pure and total: it returns a fresh slice and never fails.
func ToImageSpace(detections []detection.Detection, spec TileSpec) []detection.Detection {
	mapped := make([]detection.Detection, len(detections))
	for i, d := range detections {
		d.CX = (d.CX-spec.PadX)/spec.Scale + float32(spec.OffsetX)
		d.CY = (d.CY-spec.PadY)/spec.Scale + float32(spec.OffsetY)
		d.W = d.W / spec.Scale
		d.H = d.H / spec.Scale
		mapped[i] = d
	}
	return mapped
}
