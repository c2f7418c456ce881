// Package detection - oriented bounding-box detection records.
package detection

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/geoscan-ai/go-obb/images"
)

// Detection represents a detected object as an oriented bounding box.
//
// The box is defined by its center, size, and a rotation angle in radians
// about the center. Records are immutable after creation: suppression and
// merging replace entries, they never mutate them in place.
type Detection struct {
	// ClassID is a non-negative index into the label set.
	ClassID int
	// ClassName is derived from ClassID.
	ClassName string
	// Confidence is the detection score in [0, 1].
	Confidence float32
	// CX, CY are the box center in pixel units.
	CX, CY float32
	// W, H are the box extents in pixel units.
	W, H float32
	// Angle is the rotation of the box about its center, in radians.
	Angle float32
}

// Corners computes the four corners of the oriented box.
//
// The unrotated corners are ordered top-left, top-right, bottom-right,
// bottom-left relative to the box center; each is rotated by Angle and
// translated to the center. The computation is pure: calling it twice on the
// same Detection yields identical output, and non-finite inputs propagate
// as non-finite outputs.
//
// Returns:
//   - [4]images.Point: The rotated corners in the fixed order.
func (d Detection) Corners() [4]images.Point {
	halfW := d.W / 2
	halfH := d.H / 2
	sin := math32.Sin(d.Angle)
	cos := math32.Cos(d.Angle)

	local := [4]images.Point{
		{X: -halfW, Y: -halfH},
		{X: halfW, Y: -halfH},
		{X: halfW, Y: halfH},
		{X: -halfW, Y: halfH},
	}

	var corners [4]images.Point
	for i, p := range local {
		corners[i] = images.Point{
			X: p.X*cos - p.Y*sin + d.CX,
			Y: p.X*sin + p.Y*cos + d.CY,
		}
	}
	return corners
}

// Bounds returns the axis-aligned bounds of the rotated corners.
func (d Detection) Bounds() images.Rect {
	c := d.Corners()
	return images.BoundingRect(c[:])
}

func (d Detection) String() string {
	return fmt.Sprintf("Object %s (confidence %f): center (%f, %f), size (%f, %f), angle %f",
		d.ClassName, d.Confidence, d.CX, d.CY, d.W, d.H, d.Angle)
}
