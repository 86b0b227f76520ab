package render

import (
	"fmt"
	"image"
	"image/png"
	"io"

	"golang.org/x/image/draw"

	"github.com/nottu2584/lazy-map-sub003/internal/battlemap"
)

// Image renders the grid at one pixel per tile.
func Image(grid *battlemap.MapGrid) *image.RGBA {
	elevMin, elevRange := elevationBounds(grid)
	img := image.NewRGBA(image.Rect(0, 0, grid.Width, grid.Height))
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			img.SetRGBA(x, y, tileColor(grid.At(x, y), elevMin, elevRange))
		}
	}
	return img
}

// Upscale enlarges a tile image by an integer factor with hard tile edges.
func Upscale(img *image.RGBA, factor int) *image.RGBA {
	if factor <= 1 {
		return img
	}
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(out, out.Bounds(), img, b, draw.Src, nil)
	return out
}

// WritePNG encodes the grid as a PNG, scaled so each tile covers
// scale x scale pixels.
func WritePNG(w io.Writer, grid *battlemap.MapGrid, scale int) error {
	if scale < 1 {
		return fmt.Errorf("render: scale %d out of range", scale)
	}
	img := Upscale(Image(grid), scale)
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("render: encode png: %w", err)
	}
	return nil
}

// elevationBounds finds the grid's elevation span for relief shading.
func elevationBounds(grid *battlemap.MapGrid) (min, span float64) {
	min = grid.At(0, 0).Elevation
	max := min
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			e := grid.At(x, y).Elevation
			if e < min {
				min = e
			}
			if e > max {
				max = e
			}
		}
	}
	return min, max - min
}
