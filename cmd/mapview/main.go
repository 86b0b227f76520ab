package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/nottu2584/lazy-map-sub003/internal/battlemap"
	"github.com/nottu2584/lazy-map-sub003/internal/render"
	"github.com/nottu2584/lazy-map-sub003/internal/rng"
)

const tilePixels = 8

var biomeCycle = []battlemap.Biome{
	battlemap.BiomeForest,
	battlemap.BiomeGrassland,
	battlemap.BiomeDesert,
	battlemap.BiomeMountain,
	battlemap.BiomeSwamp,
	battlemap.BiomeTundra,
	battlemap.BiomeCoast,
}

// Viewer regenerates and displays maps interactively. R draws a fresh seed,
// Tab cycles the biome, H hides the HUD.
type Viewer struct {
	gen    *battlemap.Generator
	width  int
	height int
	dev    battlemap.DevelopmentLevel
	zone   battlemap.ElevationZone

	biomeIdx int
	seed     int64
	mapImage *ebiten.Image
	status   string
	showHUD  bool

	prevKeys map[ebiten.Key]bool
}

func newViewer(width, height int, dev battlemap.DevelopmentLevel, zone battlemap.ElevationZone, seed int64) (*Viewer, error) {
	v := &Viewer{
		gen:      battlemap.NewGenerator(),
		width:    width,
		height:   height,
		dev:      dev,
		zone:     zone,
		seed:     seed,
		showHUD:  true,
		prevKeys: map[ebiten.Key]bool{},
	}
	if err := v.regenerate(); err != nil {
		return nil, err
	}
	return v, nil
}

// regenerate rebuilds the displayed map from the viewer's current settings.
func (v *Viewer) regenerate() error {
	ctx, err := battlemap.NewContext(biomeCycle[v.biomeIdx], v.dev, v.zone)
	if err != nil {
		return err
	}
	bundle, err := v.gen.Generate(v.width, v.height, ctx, v.seed)
	if err != nil {
		return err
	}
	grid, err := battlemap.ConvertToTiles(v.width, v.height, bundle, ctx, v.seed, v.gen.Engine())
	if err != nil {
		return err
	}
	img := render.Upscale(render.Image(grid), tilePixels)
	v.mapImage = ebiten.NewImageFromImage(img)
	v.status = fmt.Sprintf("seed=%d biome=%s development=%s elevation=%s",
		grid.Seed, ctx.Biome, ctx.Development, ctx.Zone)
	return nil
}

func (v *Viewer) Update() error {
	currentKeys := map[ebiten.Key]bool{}
	pressed := func(k ebiten.Key) bool {
		currentKeys[k] = ebiten.IsKeyPressed(k)
		return currentKeys[k] && !v.prevKeys[k]
	}

	dirty := false
	if pressed(ebiten.KeyR) {
		v.seed = rng.RandomSeed()
		dirty = true
	}
	if pressed(ebiten.KeyTab) {
		v.biomeIdx = (v.biomeIdx + 1) % len(biomeCycle)
		dirty = true
	}
	if pressed(ebiten.KeyH) {
		v.showHUD = !v.showHUD
	}
	v.prevKeys = currentKeys

	if dirty {
		if err := v.regenerate(); err != nil {
			return err
		}
	}
	return nil
}

func (v *Viewer) Draw(screen *ebiten.Image) {
	screen.DrawImage(v.mapImage, nil)
	if v.showHUD {
		ebitenutil.DebugPrint(screen, v.status+"\n[R] reseed  [Tab] biome  [H] hide")
	}
}

func (v *Viewer) Layout(_, _ int) (int, int) {
	return v.width * tilePixels, v.height * tilePixels
}

func main() {
	var width int
	var height int
	var development string
	var elevation string
	var seed int64

	flag.IntVar(&width, "width", 80, "map width in tiles")
	flag.IntVar(&height, "height", 60, "map height in tiles")
	flag.StringVar(&development, "development", "settled", "development level")
	flag.StringVar(&elevation, "elevation", "lowland", "elevation zone")
	flag.Int64Var(&seed, "seed", 0, "numeric seed; 0 draws a random one")
	flag.Parse()

	if seed == 0 {
		seed = rng.RandomSeed()
	}

	v, err := newViewer(width, height,
		battlemap.DevelopmentLevel(development), battlemap.ElevationZone(elevation), seed)
	if err != nil {
		log.Fatal(err)
	}

	ebiten.SetWindowTitle("Battle Map Viewer")
	ebiten.SetWindowSize(width*tilePixels, height*tilePixels)
	if err := ebiten.RunGame(v); err != nil {
		log.Fatal(err)
	}
}
