package pipeline

import (
	"context"
	"image"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geoscan-ai/go-obb/detection"
	"github.com/geoscan-ai/go-obb/slicing"
)

// stubEngine returns scripted candidates per tile, in tile order.
type stubEngine struct {
	perTile [][]detection.RawCandidate
	err     error
	calls   int
}

func (s *stubEngine) Infer(_ context.Context, _ *slicing.ModelInput) ([]detection.RawCandidate, error) {
	if s.err != nil {
		return nil, s.err
	}
	call := s.calls
	s.calls++
	if call < len(s.perTile) {
		return s.perTile[call], nil
	}
	return nil, nil
}

func (s *stubEngine) Close() error { return nil }

func testConfig(tileSize int) Config {
	cfg := DefaultConfig()
	cfg.Slicing.TileSize = tileSize
	cfg.Slicing.SliceThreshold = tileSize
	cfg.Slicing.Overlap = 0.0
	return cfg
}

// TestRunSingleTile runs a small image as one tile and checks the detection
// comes back mapped into source-image pixel space.
func TestRunSingleTile(t *testing.T) {
	// 100x100 image letterboxed into 128: scale 1.28, no padding.
	engine := &stubEngine{perTile: [][]detection.RawCandidate{
		{{64, 64, 12.8, 12.8, 0.3, 0.9, 2}},
	}}
	detector := NewDetector(engine, testConfig(128))

	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	dets, err := detector.Run(context.Background(), img, nil)
	require.NoError(t, err)
	require.Len(t, dets, 1)

	d := dets[0]
	assert.InDelta(t, 50, d.CX, 1e-3)
	assert.InDelta(t, 50, d.CY, 1e-3)
	assert.InDelta(t, 10, d.W, 1e-3)
	assert.Equal(t, float32(0.3), d.Angle)
	assert.Equal(t, "storage tank", d.ClassName)
	assert.Equal(t, 1, engine.calls)
}

// TestRunConfidenceFloor drops candidates scoring below the configured floor.
func TestRunConfidenceFloor(t *testing.T) {
	engine := &stubEngine{perTile: [][]detection.RawCandidate{
		{
			{64, 64, 10, 10, 0, 0.1, 0},
			{20, 20, 10, 10, 0, 0.9, 0},
		},
	}}
	detector := NewDetector(engine, testConfig(128))

	img := image.NewRGBA(image.Rect(0, 0, 128, 128))
	dets, err := detector.Run(context.Background(), img, nil)
	require.NoError(t, err)
	require.Len(t, dets, 1)
	assert.Equal(t, float32(0.9), dets[0].Confidence)
}

// TestRunCrossTileDedup scripts four tiles each reporting the same physical
// object near the shared grid corner; one global suppression pass keeps only
// the most confident copy.
func TestRunCrossTileDedup(t *testing.T) {
	// 200x200 image, 100px tiles, no overlap: each tile maps 1:1 with no
	// padding, so model coordinates offset directly into image space.
	engine := &stubEngine{perTile: [][]detection.RawCandidate{
		{{99, 99, 40, 40, 0, 0.6, 0}},
		{{1, 99, 40, 40, 0, 0.7, 0}},
		{{99, 1, 40, 40, 0, 0.8, 0}},
		{{1, 1, 40, 40, 0, 0.9, 0}},
	}}
	detector := NewDetector(engine, testConfig(100))

	img := image.NewRGBA(image.Rect(0, 0, 200, 200))
	dets, err := detector.Run(context.Background(), img, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, engine.calls)

	require.Len(t, dets, 1, "the four per-tile copies collapse to one object")
	assert.Equal(t, float32(0.9), dets[0].Confidence)
	assert.InDelta(t, 101, dets[0].CX, 1e-3)
	assert.InDelta(t, 101, dets[0].CY, 1e-3)
}

// TestRunProgress checks the callback fires once per tile with a running
// count.
func TestRunProgress(t *testing.T) {
	engine := &stubEngine{}
	detector := NewDetector(engine, testConfig(100))

	var done []int
	total := 0
	progress := func(d, tot int) {
		done = append(done, d)
		total = tot
	}

	img := image.NewRGBA(image.Rect(0, 0, 200, 200))
	_, err := detector.Run(context.Background(), img, progress)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3, 4}, done)
	assert.Equal(t, 4, total)
}

func TestRunEngineErrorAborts(t *testing.T) {
	engine := &stubEngine{err: errors.New("session lost")}
	detector := NewDetector(engine, testConfig(100))

	img := image.NewRGBA(image.Rect(0, 0, 200, 200))
	_, err := detector.Run(context.Background(), img, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session lost")
}

func TestRunCanceledContext(t *testing.T) {
	engine := &stubEngine{}
	detector := NewDetector(engine, testConfig(100))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	img := image.NewRGBA(image.Rect(0, 0, 200, 200))
	_, err := detector.Run(ctx, img, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunNilImage(t *testing.T) {
	detector := NewDetector(&stubEngine{}, testConfig(100))
	_, err := detector.Run(context.Background(), nil, nil)
	assert.Error(t, err)
}

func TestRunEmptyResult(t *testing.T) {
	detector := NewDetector(&stubEngine{}, testConfig(128))
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))

	dets, err := detector.Run(context.Background(), img, nil)
	require.NoError(t, err)
	assert.Empty(t, dets)
}
