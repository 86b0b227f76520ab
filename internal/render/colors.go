// Package render turns an assembled map grid into ASCII art or an image.
// Rendering is read-only over the grid; nothing here feeds back into
// generation.
package render

import (
	"image/color"

	"github.com/nottu2584/lazy-map-sub003/internal/battlemap"
)

var groundColors = map[battlemap.GroundType]color.RGBA{
	battlemap.GroundGrass:     {R: 96, G: 128, B: 56, A: 255},
	battlemap.GroundMeadow:    {R: 120, G: 150, B: 64, A: 255},
	battlemap.GroundScrub:     {R: 104, G: 118, B: 52, A: 255},
	battlemap.GroundForest:    {R: 52, G: 84, B: 40, A: 255},
	battlemap.GroundRock:      {R: 118, G: 112, B: 100, A: 255},
	battlemap.GroundSand:      {R: 196, G: 176, B: 120, A: 255},
	battlemap.GroundMud:       {R: 110, G: 88, B: 58, A: 255},
	battlemap.GroundMarsh:     {R: 72, G: 96, B: 66, A: 255},
	battlemap.GroundWater:     {R: 46, G: 84, B: 134, A: 255},
	battlemap.GroundRoad:      {R: 140, G: 126, B: 100, A: 255},
	battlemap.GroundCourtyard: {R: 156, G: 144, B: 120, A: 255},
	battlemap.GroundSnow:      {R: 222, G: 226, B: 230, A: 255},
}

var objectColors = map[battlemap.ObjectType]color.RGBA{
	battlemap.ObjectTree:       {R: 30, G: 58, B: 26, A: 255},
	battlemap.ObjectBoulder:    {R: 90, G: 86, B: 78, A: 255},
	battlemap.ObjectWall:       {R: 70, G: 62, B: 50, A: 255},
	battlemap.ObjectRuinedWall: {R: 92, G: 84, B: 72, A: 255},
	battlemap.ObjectBridge:     {R: 124, G: 96, B: 58, A: 255},
	battlemap.ObjectWell:       {R: 80, G: 88, B: 96, A: 255},
	battlemap.ObjectShrine:     {R: 150, G: 140, B: 118, A: 255},
	battlemap.ObjectSpring:     {R: 90, G: 140, B: 180, A: 255},
}

// tileColor resolves the display colour of one tile: the object colour when
// an object is present, else the ground colour shaded by elevation so the
// relief reads at a glance.
func tileColor(t battlemap.Tile, elevMin, elevRange float64) color.RGBA {
	if c, ok := objectColors[t.Object]; ok {
		return c
	}
	c := groundColors[t.Ground]
	if t.Ground == battlemap.GroundWater || elevRange <= 0 {
		return c
	}
	// Shade from 0.75 at the lowest tile to 1.15 at the highest.
	rel := (t.Elevation - elevMin) / elevRange
	f := 0.75 + rel*0.4
	return color.RGBA{
		R: scaleChannel(c.R, f),
		G: scaleChannel(c.G, f),
		B: scaleChannel(c.B, f),
		A: 255,
	}
}

func scaleChannel(v uint8, f float64) uint8 {
	s := float64(v) * f
	if s > 255 {
		return 255
	}
	return uint8(s)
}
