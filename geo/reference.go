// Package geo - affine geo-referencing and cross-image detection merging.
//
// The geo-referencing model is the minimal tie-point + pixel-scale affine
// transform: pixel (0,0) maps to a known geographic coordinate and pixel
// steps map to geographic distance. Coordinate reference systems requiring
// non-affine reprojection are out of scope.
package geo

import (
	"github.com/pkg/errors"

	"github.com/geoscan-ai/go-obb/detection"
)

// ErrDegenerateGeoReference indicates a zero or negative pixel scale, which
// makes the affine transform meaningless. It must be rejected before any
// geographic computation is attempted.
var ErrDegenerateGeoReference = errors.New("degenerate geo reference: pixel scale must be strictly positive")

// GeoPoint is a point in geographic coordinates. Geographic math is carried
// in float64: projected coordinates reach magnitudes where float32 loses
// sub-meter precision.
type GeoPoint struct {
	X, Y float64
}

// GeoReference attaches an affine pixel-to-geographic transform to one
// raster image.
type GeoReference struct {
	// TiePoint is the geographic coordinate that pixel (0,0) maps to.
	TiePoint GeoPoint `json:"tie_point"`
	// PixelScale is the geographic-units-per-pixel step along x and y.
	// Both components must be strictly positive.
	PixelScale GeoPoint `json:"pixel_scale"`
	// EPSG identifies the coordinate reference system; 0 when the raster
	// carries no recognizable CRS.
	EPSG int `json:"epsg,omitempty"`
}

// Validate rejects degenerate references.
func (r GeoReference) Validate() error {
	if r.PixelScale.X <= 0 || r.PixelScale.Y <= 0 {
		return errors.Wrapf(ErrDegenerateGeoReference, "pixel scale (%g, %g)",
			r.PixelScale.X, r.PixelScale.Y)
	}
	return nil
}

// PixelToGeo converts a pixel coordinate to geographic coordinates.
//
// The y axis inverts: pixel rows increase downward while geographic y
// increases upward. Pure and total given a valid reference.
func (r GeoReference) PixelToGeo(px, py float64) GeoPoint {
	return GeoPoint{
		X: r.TiePoint.X + px*r.PixelScale.X,
		Y: r.TiePoint.Y - py*r.PixelScale.Y,
	}
}

// Bounds is an axis-aligned box in geographic coordinates.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
}

// IoU computes the Intersection over Union of two geographic bounds,
// returning 0 when the union area is 0.
func (b Bounds) IoU(o Bounds) float64 {
	ix1 := max(b.MinX, o.MinX)
	iy1 := max(b.MinY, o.MinY)
	ix2 := min(b.MaxX, o.MaxX)
	iy2 := min(b.MaxY, o.MaxY)

	interW := ix2 - ix1
	interH := iy2 - iy1
	if interW <= 0 || interH <= 0 {
		return 0
	}
	inter := interW * interH

	union := (b.MaxX-b.MinX)*(b.MaxY-b.MinY) + (o.MaxX-o.MinX)*(o.MaxY-o.MinY) - inter
	if union <= 0 {
		return 0
	}
	return inter / union
}

// DetectionCorners converts a detection's oriented-box corners to geographic
// coordinates via this reference.
func (r GeoReference) DetectionCorners(d detection.Detection) [4]GeoPoint {
	pixel := d.Corners()
	var geo [4]GeoPoint
	for i, p := range pixel {
		geo[i] = r.PixelToGeo(float64(p.X), float64(p.Y))
	}
	return geo
}

// cornerBounds is a min/max reduction over four geographic corners.
func cornerBounds(corners [4]GeoPoint) Bounds {
	b := Bounds{MinX: corners[0].X, MinY: corners[0].Y, MaxX: corners[0].X, MaxY: corners[0].Y}
	for _, p := range corners[1:] {
		b.MinX = min(b.MinX, p.X)
		b.MinY = min(b.MinY, p.Y)
		b.MaxX = max(b.MaxX, p.X)
		b.MaxY = max(b.MaxY, p.Y)
	}
	return b
}
