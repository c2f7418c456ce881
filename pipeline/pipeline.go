// Package pipeline ties tiling, inference and suppression into one
// detection pass over a full-resolution image.
package pipeline

import (
	"context"
	"image"

	"github.com/pkg/errors"

	"github.com/geoscan-ai/go-obb/detection"
	"github.com/geoscan-ai/go-obb/inference"
	"github.com/geoscan-ai/go-obb/postprocess"
	"github.com/geoscan-ai/go-obb/slicing"
)

// Config controls a detection run.
type Config struct {
	Slicing         slicing.Config        `json:"slicing"`
	ConfidenceFloor float32               `json:"confidence_floor"`
	NMS             postprocess.NMSConfig `json:"nms"`
}

// DefaultConfig returns the settings used for aerial imagery.
func DefaultConfig() Config {
	return Config{
		Slicing:         slicing.DefaultConfig(),
		ConfidenceFloor: 0.25,
		NMS:             postprocess.DefaultNMSConfig(),
	}
}

// Progress is called after each tile completes. done counts finished tiles,
// total is the tile count for the whole image.
type Progress func(done, total int)

// Detector runs the tiled detection pipeline over a single engine.
// The engine is never invoked concurrently.
type Detector struct {
	config Config
	engine inference.Engine
}

// NewDetector wraps an inference engine with tiling and suppression.
func NewDetector(engine inference.Engine, config Config) *Detector {
	return &Detector{config: config, engine: engine}
}

// Run detects oriented boxes across the whole image. Each tile is
// letterboxed, run through the engine and remapped into full-image pixel
// space; one global suppression pass then removes duplicates from tile
// overlap. Results carry full-image pixel coordinates.
func (d *Detector) Run(ctx context.Context, img image.Image, progress Progress) ([]detection.Detection, error) {
	if img == nil {
		return nil, errors.New("nil image")
	}

	bounds := img.Bounds()
	tiles := slicing.Plan(bounds.Dx(), bounds.Dy(), d.config.Slicing)

	var all []detection.Detection
	for i := range tiles {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		spec := &tiles[i]
		input, err := slicing.Letterbox(img, spec, d.config.Slicing.TileSize)
		if err != nil {
			return nil, errors.Wrapf(err, "tile %d preprocess failed", i)
		}

		raw, err := d.engine.Infer(ctx, input)
		if err != nil {
			return nil, errors.Wrapf(err, "tile %d inference failed", i)
		}

		dets := detection.FromRawCandidates(raw, d.config.ConfidenceFloor)
		all = append(all, slicing.ToImageSpace(dets, *spec)...)

		if progress != nil {
			progress(i+1, len(tiles))
		}
	}

	return postprocess.SuppressOBB(all, d.config.NMS), nil
}
