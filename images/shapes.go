// Package images - geometry primitives for detection boxes.
package images

// Point is a 2D point in pixel coordinates.
type Point struct {
	X, Y float32
}

// Rect is a lightweight axis-aligned bounding box.
type Rect struct {
	// X2,Y2 are exclusive (like image.Rectangle).
	X1, Y1, X2, Y2 float32
}

// Width returns the width of the rectangle.
func (r Rect) Width() float32 {
	return r.X2 - r.X1
}

// Height returns the height of the rectangle.
func (r Rect) Height() float32 {
	return r.Y2 - r.Y1
}

// Area returns the area of the rectangle.
func (r Rect) Area() float32 {
	return r.Width() * r.Height()
}

// CalculateIoU computes the Intersection over Union of two axis-aligned
// rectangles.
//
// IoU is the fundamental overlap metric used for duplicate removal in object
// detection: intersection area divided by union area, in [0, 1]. A value of
// 1.0 means the rectangles are identical, 0.0 means they are disjoint.
//
// Degenerate rectangles (zero union area) never match: the result is 0.0, so
// callers do not have to guard against division by zero.
//
// Arguments:
//   - r: The first rectangle.
//   - o: The other rectangle to compare against.
//
// Returns:
//   - float32: A value between 0.0 and 1.0 representing the IoU score.
func CalculateIoU(r, o Rect) float32 {
	// The intersection's top-left corner is the maximum of the starting
	// coordinates, its bottom-right the minimum of the ending coordinates.
	ix1 := max(r.X1, o.X1)
	iy1 := max(r.Y1, o.Y1)
	ix2 := min(r.X2, o.X2)
	iy2 := min(r.Y2, o.Y2)

	interW := ix2 - ix1
	interH := iy2 - iy1
	if interW <= 0 || interH <= 0 {
		return 0.0
	}
	interArea := interW * interH

	// Inclusion-exclusion: Union(A, B) = Area(A) + Area(B) - Intersection(A, B)
	unionArea := r.Area() + o.Area() - interArea
	if unionArea <= 0 {
		return 0.0
	}

	return interArea / unionArea
}

// BoundingRect computes the axis-aligned bounds of a point set via a min/max
// reduction. An empty point set yields the zero Rect.
func BoundingRect(points []Point) Rect {
	if len(points) == 0 {
		return Rect{}
	}
	b := Rect{X1: points[0].X, Y1: points[0].Y, X2: points[0].X, Y2: points[0].Y}
	for _, p := range points[1:] {
		b.X1 = min(b.X1, p.X)
		b.Y1 = min(b.Y1, p.Y)
		b.X2 = max(b.X2, p.X)
		b.Y2 = max(b.Y2, p.Y)
	}
	return b
}
