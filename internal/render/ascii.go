package render

import (
	"strings"

	"github.com/nottu2584/lazy-map-sub003/internal/battlemap"
)

var groundRunes = map[battlemap.GroundType]rune{
	battlemap.GroundGrass:     '.',
	battlemap.GroundMeadow:    ',',
	battlemap.GroundScrub:     ';',
	battlemap.GroundForest:    ':',
	battlemap.GroundRock:      'r',
	battlemap.GroundSand:      's',
	battlemap.GroundMud:       'm',
	battlemap.GroundMarsh:     'w',
	battlemap.GroundWater:     '~',
	battlemap.GroundRoad:      '=',
	battlemap.GroundCourtyard: '_',
	battlemap.GroundSnow:      '*',
}

var objectRunes = map[battlemap.ObjectType]rune{
	battlemap.ObjectTree:       'T',
	battlemap.ObjectBoulder:    'O',
	battlemap.ObjectWall:       '#',
	battlemap.ObjectRuinedWall: '%',
	battlemap.ObjectBridge:     'B',
	battlemap.ObjectWell:       'U',
	battlemap.ObjectShrine:     '^',
	battlemap.ObjectSpring:     'o',
}

// ASCII renders the grid one rune per tile, rows separated by newlines.
// Objects draw over their ground.
func ASCII(grid *battlemap.MapGrid) string {
	var b strings.Builder
	b.Grow((grid.Width + 1) * grid.Height)
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			t := grid.At(x, y)
			r, ok := objectRunes[t.Object]
			if !ok {
				r, ok = groundRunes[t.Ground]
				if !ok {
					r = '?'
				}
			}
			b.WriteRune(r)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
