package slicing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPlanSingleTile checks that images within the slice threshold run as a
// single full-image pass.
func TestPlanSingleTile(t *testing.T) {
	tests := []struct {
		name   string
		width  int
		height int
	}{
		{name: "exactly at threshold", width: 1024, height: 1024},
		{name: "small image", width: 640, height: 480},
		{name: "one pixel", width: 1, height: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tiles := Plan(tt.width, tt.height, DefaultConfig())
			require.Len(t, tiles, 1)
			assert.Equal(t, 0, tiles[0].OffsetX)
			assert.Equal(t, 0, tiles[0].OffsetY)
			assert.Equal(t, tt.width, tiles[0].Width)
			assert.Equal(t, tt.height, tiles[0].Height)
		})
	}
}

// TestPlanGridDimensions validates the stride and count formulas on a tall
// raster that needs tiling in one dimension only.
func TestPlanGridDimensions(t *testing.T) {
	cfg := DefaultConfig() // tile 1024, overlap 0.25 -> stride 768

	// 1024 wide fits one column; 2000 tall needs ceil((2000-1024)/768)+1 = 3 rows.
	tiles := Plan(1024, 2000, cfg)
	require.Len(t, tiles, 3)

	assert.Equal(t, 0, tiles[0].OffsetY)
	assert.Equal(t, 768, tiles[1].OffsetY)
	// Last row clamps to the image edge instead of extending past it.
	assert.Equal(t, 2000-1024, tiles[2].OffsetY)

	for i, tile := range tiles {
		assert.Equal(t, 0, tile.OffsetX, "tile %d", i)
		assert.Equal(t, 1024, tile.Width, "tile %d", i)
		assert.Equal(t, 1024, tile.Height, "tile %d", i)
	}
}

// TestPlanRowMajorOrder checks the deterministic tile ordering on a 2x2 grid.
func TestPlanRowMajorOrder(t *testing.T) {
	cfg := Config{TileSize: 100, SliceThreshold: 100, Overlap: 0.0}

	tiles := Plan(200, 200, cfg)
	require.Len(t, tiles, 4)
	assert.Equal(t, [2]int{0, 0}, [2]int{tiles[0].OffsetX, tiles[0].OffsetY})
	assert.Equal(t, [2]int{100, 0}, [2]int{tiles[1].OffsetX, tiles[1].OffsetY})
	assert.Equal(t, [2]int{0, 100}, [2]int{tiles[2].OffsetX, tiles[2].OffsetY})
	assert.Equal(t, [2]int{100, 100}, [2]int{tiles[3].OffsetX, tiles[3].OffsetY})
}

// TestPlanFullCoverage verifies that every pixel of the raster is covered by
// at least one tile, across a range of awkward sizes.
func TestPlanFullCoverage(t *testing.T) {
	cfg := Config{TileSize: 256, SliceThreshold: 256, Overlap: 0.25}

	sizes := [][2]int{{257, 300}, {1000, 513}, {2048, 2048}, {300, 3000}}
	for _, size := range sizes {
		w, h := size[0], size[1]
		tiles := Plan(w, h, cfg)

		covered := make([]bool, w*h)
		for _, tile := range tiles {
			assert.LessOrEqual(t, tile.OffsetX+tile.Width, w)
			assert.LessOrEqual(t, tile.OffsetY+tile.Height, h)
			for y := tile.OffsetY; y < tile.OffsetY+tile.Height; y++ {
				for x := tile.OffsetX; x < tile.OffsetX+tile.Width; x++ {
					covered[y*w+x] = true
				}
			}
		}
		for i, c := range covered {
			if !c {
				t.Fatalf("pixel (%d, %d) of %dx%d raster not covered", i%w, i/w, w, h)
			}
		}
	}
}

// TestPlanNarrowDimension checks a raster wide enough to tile horizontally
// but narrower than the tile size vertically.
func TestPlanNarrowDimension(t *testing.T) {
	cfg := Config{TileSize: 512, SliceThreshold: 512, Overlap: 0.25}

	tiles := Plan(2000, 300, cfg)
	require.NotEmpty(t, tiles)
	for _, tile := range tiles {
		assert.Equal(t, 0, tile.OffsetY)
		assert.Equal(t, 300, tile.Height, "tile extent is clipped to the image")
	}
}
