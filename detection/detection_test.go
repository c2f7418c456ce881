package detection

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geoscan-ai/go-obb/images"
)

// TestCornersUnrotated validates corner placement for an axis-aligned box.
func TestCornersUnrotated(t *testing.T) {
	d := Detection{CX: 100, CY: 50, W: 40, H: 20, Angle: 0}

	c := d.Corners()
	assert.Equal(t, images.Point{X: 80, Y: 40}, c[0], "top-left")
	assert.Equal(t, images.Point{X: 120, Y: 40}, c[1], "top-right")
	assert.Equal(t, images.Point{X: 120, Y: 60}, c[2], "bottom-right")
	assert.Equal(t, images.Point{X: 80, Y: 60}, c[3], "bottom-left")
}

// TestCornersRotationPreservesDistance checks that rotation does not change
// the distance of any corner from the box center.
func TestCornersRotationPreservesDistance(t *testing.T) {
	d := Detection{CX: 10, CY: 20, W: 30, H: 14}
	expected := math.Sqrt(15*15 + 7*7)

	for _, angle := range []float32{0, 0.3, math.Pi / 4, math.Pi / 2, 3.0} {
		d.Angle = angle
		for i, p := range d.Corners() {
			dist := math.Hypot(float64(p.X-d.CX), float64(p.Y-d.CY))
			assert.InDelta(t, expected, dist, 1e-3,
				"corner %d at angle %f should stay on the circumscribed circle", i, angle)
		}
	}
}

// TestCornersQuarterTurn rotates a box 90 degrees and checks the corners land
// where the swapped extents put them.
func TestCornersQuarterTurn(t *testing.T) {
	d := Detection{CX: 0, CY: 0, W: 10, H: 4, Angle: math.Pi / 2}

	c := d.Corners()
	// Local (-5,-2) maps to (2,-5) under a quarter turn.
	assert.InDelta(t, 2, c[0].X, 1e-4)
	assert.InDelta(t, -5, c[0].Y, 1e-4)
	assert.InDelta(t, -2, c[2].X, 1e-4)
	assert.InDelta(t, 5, c[2].Y, 1e-4)
}

func TestCornersIdempotent(t *testing.T) {
	d := Detection{CX: 5, CY: 7, W: 3, H: 9, Angle: 1.2}
	assert.Equal(t, d.Corners(), d.Corners())
}

func TestBounds(t *testing.T) {
	d := Detection{CX: 50, CY: 50, W: 20, H: 10, Angle: 0}
	assert.Equal(t, images.Rect{X1: 40, Y1: 45, X2: 60, Y2: 55}, d.Bounds())
}

func TestFromRawCandidates(t *testing.T) {
	raw := []RawCandidate{
		{100, 200, 30, 15, 0.5, 0.9, 2},
		{50, 60, 10, 10, 0, 0.1, 0}, // below floor
		{10, 20, 5, 5, 1.0, 0.25, 14},
	}

	dets := FromRawCandidates(raw, 0.25)
	require.Len(t, dets, 2, "candidates below the confidence floor are dropped")

	assert.Equal(t, 2, dets[0].ClassID)
	assert.Equal(t, "storage tank", dets[0].ClassName)
	assert.Equal(t, float32(0.9), dets[0].Confidence)
	assert.Equal(t, float32(100), dets[0].CX)
	assert.Equal(t, float32(0.5), dets[0].Angle)

	assert.Equal(t, "swimming pool", dets[1].ClassName)
	assert.Equal(t, float32(0.25), dets[1].Confidence, "floor is inclusive")
}

func TestFromRawCandidatesEmpty(t *testing.T) {
	assert.Empty(t, FromRawCandidates(nil, 0.25))
}

func TestClassName(t *testing.T) {
	assert.Equal(t, "plane", ClassName(0))
	assert.Equal(t, "helicopter", ClassName(11))
	assert.Equal(t, "unknown_99", ClassName(99))
	assert.Equal(t, "unknown_-1", ClassName(-1))
}
