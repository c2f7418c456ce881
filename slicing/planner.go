// Package slicing - tile-grid planning and letterbox preprocessing for
// running a fixed-input-size model over arbitrary-size rasters.
package slicing

import "math"

// Config defines the tiling parameters for one pipeline run.
type Config struct {
	// TileSize is the square model input size S.
	TileSize int `json:"tile_size"`
	// SliceThreshold is the image dimension above which tiling is required.
	// Images at or below the threshold in both dimensions run as one tile.
	SliceThreshold int `json:"slice_threshold"`
	// Overlap is the nominal fraction of overlap between adjacent tiles.
	Overlap float64 `json:"overlap"`
}

// DefaultConfig returns tiling parameters suited to typical aerial rasters.
func DefaultConfig() Config {
	return Config{
		TileSize:       1024,
		SliceThreshold: 1024,
		Overlap:        0.25,
	}
}

// TileSpec describes one tile: its source-image region and, once the region
// has been letterboxed, the scale and padding needed to invert the mapping.
type TileSpec struct {
	// OffsetX, OffsetY are the tile origin in source-image pixels.
	OffsetX, OffsetY int
	// Width, Height are the tile extent in source-image pixels.
	Width, Height int
	// Scale, PadX, PadY are the letterbox parameters, filled by Letterbox.
	Scale      float32
	PadX, PadY float32
}

// Plan decides whether single-pass or grid inference is needed and computes
// the tile grid.
//
// When both image dimensions fit the slice threshold the plan is a single
// tile covering the whole image with zero crop offset. Otherwise tiles of
// size cfg.TileSize are laid out with stride round(S*(1-overlap)); origins
// are clamped so no tile extends past the image edge, which guarantees full
// coverage at the cost of the last row/column overlapping its neighbor by
// more than the nominal fraction.
//
// The returned order is row-major and deterministic; suppression downstream
// is order-independent, but progress reporting relies on a stable sequence.
func Plan(imageWidth, imageHeight int, cfg Config) []TileSpec {
	if imageWidth <= cfg.SliceThreshold && imageHeight <= cfg.SliceThreshold {
		return []TileSpec{{Width: imageWidth, Height: imageHeight}}
	}

	stride := int(math.Round(float64(cfg.TileSize) * (1 - cfg.Overlap)))
	if stride < 1 {
		stride = 1
	}

	cols := tileCount(imageWidth, cfg.TileSize, stride)
	rows := tileCount(imageHeight, cfg.TileSize, stride)

	specs := make([]TileSpec, 0, cols*rows)
	for ty := 0; ty < rows; ty++ {
		oy := clampOrigin(ty*stride, imageHeight, cfg.TileSize)
		for tx := 0; tx < cols; tx++ {
			ox := clampOrigin(tx*stride, imageWidth, cfg.TileSize)
			specs = append(specs, TileSpec{
				OffsetX: ox,
				OffsetY: oy,
				Width:   min(cfg.TileSize, imageWidth-ox),
				Height:  min(cfg.TileSize, imageHeight-oy),
			})
		}
	}
	return specs
}

// tileCount returns max(1, ceil((dim-tile)/stride)+1), guaranteeing coverage
// with overlap rather than gaps.
func tileCount(dim, tile, stride int) int {
	if dim <= tile {
		return 1
	}
	return int(math.Ceil(float64(dim-tile)/float64(stride))) + 1
}

// clampOrigin keeps the tile inside the image edge.
func clampOrigin(origin, dim, tile int) int {
	if origin > dim-tile {
		origin = dim - tile
	}
	if origin < 0 {
		origin = 0
	}
	return origin
}
