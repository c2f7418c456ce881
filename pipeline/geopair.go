package pipeline

import (
	"context"

	"github.com/pkg/errors"

	"github.com/geoscan-ai/go-obb/geo"
)

// RunGeoPair detects over two georeferenced rasters of the same area and
// merges the results in projected coordinates, keeping the higher-confidence
// copy of each duplicated object.
func (d *Detector) RunGeoPair(ctx context.Context, first, second *geo.Raster, config geo.MergeConfig, progress Progress) ([]geo.GeoDetection, error) {
	if first == nil || second == nil {
		return nil, errors.New("nil raster")
	}

	firstDets, err := d.Run(ctx, first.Image, progress)
	if err != nil {
		return nil, errors.Wrap(err, "first raster detection failed")
	}
	secondDets, err := d.Run(ctx, second.Image, progress)
	if err != nil {
		return nil, errors.Wrap(err, "second raster detection failed")
	}

	return geo.Merge(
		geo.Set{Detections: firstDets, Ref: first.Ref},
		geo.Set{Detections: secondDets, Ref: second.Ref},
		config,
	)
}
