package renderer

import (
	"image"
	"testing"
)

func TestNewTileGrid(t *testing.T) {
	// 400x225 with 64x64 tiles is 7 columns by 4 rows
	width, height, tileSize := 400, 225, 64
	tiles := NewTileGrid(width, height, tileSize)

	if len(tiles) != 28 {
		t.Errorf("Expected 28 tiles, got %d", len(tiles))
	}

	// Tiles cover the image without gaps or overlaps
	covered := make([][]bool, height)
	for y := range covered {
		covered[y] = make([]bool, width)
	}

	for id, tile := range tiles {
		if tile.ID != id {
			t.Errorf("Expected tile ID %d, got %d", id, tile.ID)
		}
		for y := tile.Bounds.Min.Y; y < tile.Bounds.Max.Y; y++ {
			for x := tile.Bounds.Min.X; x < tile.Bounds.Max.X; x++ {
				if x >= width || y >= height {
					t.Fatalf("Tile %d extends beyond image bounds at (%d,%d)", tile.ID, x, y)
				}
				if covered[y][x] {
					t.Errorf("Pixel (%d,%d) is covered by multiple tiles", x, y)
				}
				covered[y][x] = true
			}
		}
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !covered[y][x] {
				t.Errorf("Pixel (%d,%d) is not covered by any tile", x, y)
			}
		}
	}

	last := tiles[len(tiles)-1].Bounds
	if last != image.Rect(384, 192, 400, 225) {
		t.Errorf("Expected clipped corner tile, got %v", last)
	}
}

func TestNewTileGrid_EdgeCases(t *testing.T) {
	tests := []struct {
		name     string
		width    int
		height   int
		tileSize int
		expected int
	}{
		{"empty width", 0, 10, 4, 0},
		{"empty height", 10, 0, 4, 0},
		{"single pixel", 1, 1, 32, 1},
		{"exact fit", 64, 64, 32, 4},
		{"default tile size", 64, 32, 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tiles := NewTileGrid(tt.width, tt.height, tt.tileSize)
			if len(tiles) != tt.expected {
				t.Errorf("Expected %d tiles, got %d", tt.expected, len(tiles))
			}
		})
	}
}
