package battlemap

import (
	"fmt"

	"github.com/nottu2584/lazy-map-sub003/internal/rng"
)

// GroundType identifies the base surface of a grid tile.
type GroundType uint8

const (
	GroundGrass     GroundType = iota // default open ground
	GroundMeadow                      // ground-cover grass and herbs
	GroundScrub                       // understory brush
	GroundForest                      // leaf-litter forest floor
	GroundRock                        // exposed bedrock, thin soil
	GroundSand                        // arid loose ground
	GroundMud                         // wet churned ground
	GroundMarsh                       // saturated wetland
	GroundWater                       // open water
	GroundRoad                        // packed road surface
	GroundCourtyard                   // building interior / yard
	GroundSnow                        // tundra and alpine cover
	groundTypeCount                   // sentinel
)

// ObjectType identifies an object occupying a grid tile.
type ObjectType uint8

const (
	ObjectNone       ObjectType = iota
	ObjectTree                  // single tree trunk
	ObjectBoulder               // micro-terrain rock feature
	ObjectWall                  // building perimeter
	ObjectRuinedWall            // collapsed building perimeter
	ObjectBridge                // road crossing over water
	ObjectWell                  // decorative structure
	ObjectShrine                // decorative structure
	ObjectSpring                // groundwater emergence
	objectTypeCount             // sentinel
)

// TileFlags is a bitfield of per-tile annotations.
type TileFlags uint16

const (
	FlagIndoor      TileFlags = 1 << iota // inside a building footprint
	FlagRidge                             // locally high ground
	FlagValley                            // locally low ground
	FlagSpringTile                        // hydrology spring
	FlagHazard                            // overlapping hazard feature
	FlagResource                          // overlapping resource feature
	FlagLandmark                          // overlapping landmark feature
	FlagTactical                          // overlapping tactical feature
	FlagConcealment                       // vegetation dense enough to hide in
)

// Tile is one assembled cell of the final grid, combining every layer's
// verdict for that coordinate.
type Tile struct {
	Ground    GroundType
	Object    ObjectType
	Flags     TileFlags
	Elevation float64 // metres, from the topography layer
	Moisture  float64 // 0-1, from the hydrology layer
	Canopy    CanopyDensity
}

// MapGrid is the immutable assembled output: regenerating from the same
// (dimensions, context, seed) reconstructs an identical grid.
type MapGrid struct {
	ID       string
	Width    int
	Height   int
	CellSize float64 // feet per tile side
	Tiles    [][]Tile
	Seed     int64
	Meta     Metadata
}

// At returns a copy of the tile at (x,y).
func (m *MapGrid) At(x, y int) Tile {
	return m.Tiles[y][x]
}

// groundMovementMul returns the movement speed multiplier for a ground
// type. Lower is slower; impassability comes from the object, not the
// ground.
func groundMovementMul(g GroundType) float64 {
	switch g {
	case GroundGrass, GroundMeadow, GroundRoad, GroundCourtyard:
		return 1.0
	case GroundScrub:
		return 0.8
	case GroundForest:
		return 0.9
	case GroundRock:
		return 0.85
	case GroundSand:
		return 0.75
	case GroundMud:
		return 0.6
	case GroundMarsh:
		return 0.45
	case GroundWater:
		return 0.3
	case GroundSnow:
		return 0.7
	default:
		return 1.0
	}
}

// groundCoverValue returns the innate concealment of a ground type.
func groundCoverValue(g GroundType) float64 {
	switch g {
	case GroundScrub:
		return 0.1
	case GroundForest:
		return 0.15
	case GroundMarsh:
		return 0.1
	default:
		return 0
	}
}

// objectBlocksMovement reports whether the object is impassable.
func objectBlocksMovement(o ObjectType) bool {
	switch o {
	case ObjectTree, ObjectBoulder, ObjectWall, ObjectWell, ObjectShrine:
		return true
	default:
		return false
	}
}

// objectCoverValue returns the cover fraction an object provides.
func objectCoverValue(o ObjectType) float64 {
	switch o {
	case ObjectTree:
		return 0.4
	case ObjectBoulder:
		return 0.45
	case ObjectWall:
		return 0.7
	case ObjectRuinedWall:
		return 0.35
	case ObjectWell:
		return 0.3
	case ObjectShrine:
		return 0.25
	default:
		return 0
	}
}

// MovementCost returns a tile's movement multiplier; 0 means impassable.
func (t Tile) MovementCost() float64 {
	if objectBlocksMovement(t.Object) {
		return 0
	}
	return groundMovementMul(t.Ground)
}

// CoverValue returns a tile's combined cover fraction, capped at 0.9.
func (t Tile) CoverValue() float64 {
	v := groundCoverValue(t.Ground) + objectCoverValue(t.Object)
	if t.Flags&FlagConcealment != 0 {
		v += 0.2
	}
	if v > 0.9 {
		v = 0.9
	}
	return v
}

// ConvertToTiles assembles the final grid from a layer bundle. Tile
// identity flows bottom-up (geology through structures); discrete features
// are overlaid last, with the compatibility engine resolving any tile where
// two features land.
func ConvertToTiles(width, height int, bundle *LayerBundle, ctx Context, seed int64, engine *CompatibilityEngine) (*MapGrid, error) {
	if bundle == nil || bundle.Width != width || bundle.Height != height {
		return nil, fmt.Errorf("bundle dimensions do not match request %dx%d", width, height)
	}
	normalized, _ := rng.NormalizeSeed(seed)

	grid := &MapGrid{
		ID:       fmt.Sprintf("map-%d-%dx%d", normalized, width, height),
		Width:    width,
		Height:   height,
		CellSize: tileSideFeet,
		Seed:     normalized,
		Meta:     bundle.Meta,
		Tiles:    make([][]Tile, height),
	}
	for y := range grid.Tiles {
		grid.Tiles[y] = make([]Tile, width)
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			grid.Tiles[y][x] = baseTile(bundle, ctx, x, y)
		}
	}

	stampStructures(grid, bundle)
	if err := overlayFeatures(grid, bundle, engine, normalized); err != nil {
		return nil, err
	}
	return grid, nil
}

// baseTile folds the per-tile layer records into one grid cell.
func baseTile(bundle *LayerBundle, ctx Context, x, y int) Tile {
	i := tileIndex(bundle.Width, x, y)
	geo := bundle.Geology.Tiles[i]
	topo := bundle.Topography.Tiles[i]
	hydro := bundle.Hydrology.Tiles[i]
	veg := bundle.Vegetation.Tiles[i]

	t := Tile{
		Elevation: topo.Elevation,
		Moisture:  hydro.Moisture,
		Canopy:    veg.Density,
	}
	if topo.IsRidge {
		t.Flags |= FlagRidge
	}
	if topo.IsValley {
		t.Flags |= FlagValley
	}

	switch {
	case hydro.WaterDepth > 0:
		t.Ground = GroundWater
	case veg.Type == VegWetland:
		t.Ground = GroundMarsh
	case hydro.Class == MoistureWet && geo.SoilDepth > 0.5:
		t.Ground = GroundMud
	case geo.SoilDepth < 0.3:
		t.Ground = GroundRock
	case ctx.Biome == BiomeDesert && veg.Type == VegNone:
		t.Ground = GroundSand
	case (ctx.Biome == BiomeTundra || ctx.Zone == ZoneAlpine) && veg.Type == VegNone:
		t.Ground = GroundSnow
	case veg.Type == VegDenseWood || veg.Type == VegForest:
		t.Ground = GroundForest
	case veg.Type == VegShrubland || veg.Type == VegOpenWood:
		t.Ground = GroundScrub
	case veg.HasGroundCover:
		t.Ground = GroundMeadow
	default:
		t.Ground = GroundGrass
	}

	if veg.HasTree {
		t.Object = ObjectTree
	}
	if hydro.IsSpring {
		t.Object = ObjectSpring
		t.Flags |= FlagSpringTile
	}
	if veg.HasUnderstory && veg.Density == CanopyDense {
		t.Flags |= FlagConcealment
	}
	return t
}

// stampStructures writes buildings, roads, bridges, decorations and
// geological micro-features onto the grid. Structures override vegetation
// on their own tiles; the structures stage already guaranteed the ground
// was buildable.
func stampStructures(grid *MapGrid, bundle *LayerBundle) {
	for _, mf := range bundle.Geology.Features {
		t := &grid.Tiles[mf.Pos.Y][mf.Pos.X]
		if t.Object == ObjectNone && t.Ground != GroundWater {
			t.Object = ObjectBoulder
		}
	}

	for _, seg := range bundle.Structures.Roads {
		half := seg.Width / 2
		for _, p := range seg.Points {
			for dy := -half; dy <= half; dy++ {
				for dx := -half; dx <= half; dx++ {
					x, y := p.X+dx, p.Y+dy
					if x < 0 || x >= grid.Width || y < 0 || y >= grid.Height {
						continue
					}
					t := &grid.Tiles[y][x]
					if t.Ground == GroundWater {
						continue // bridges handle crossings
					}
					t.Ground = GroundRoad
					t.Object = ObjectNone
				}
			}
		}
	}

	for _, b := range bundle.Structures.Bridges {
		t := &grid.Tiles[b.Pos.Y][b.Pos.X]
		t.Object = ObjectBridge
	}

	for _, b := range bundle.Structures.Buildings {
		ruined := b.Condition == "ruined"
		for y := b.Bounds.Y; y < b.Bounds.Y+b.Bounds.H; y++ {
			for x := b.Bounds.X; x < b.Bounds.X+b.Bounds.W; x++ {
				t := &grid.Tiles[y][x]
				perimeter := x == b.Bounds.X || x == b.Bounds.X+b.Bounds.W-1 ||
					y == b.Bounds.Y || y == b.Bounds.Y+b.Bounds.H-1
				t.Ground = GroundCourtyard
				t.Flags |= FlagIndoor
				if perimeter {
					if ruined {
						t.Object = ObjectRuinedWall
					} else {
						t.Object = ObjectWall
					}
				} else {
					t.Object = ObjectNone
				}
			}
		}
		// Door: one gap in the south wall.
		door := doorPoint(b.Bounds)
		if door.Y-1 >= 0 && door.Y-1 < grid.Height && door.X >= 0 && door.X < grid.Width {
			grid.Tiles[door.Y-1][door.X].Object = ObjectNone
		}
	}

	for _, d := range bundle.Structures.Decorations {
		t := &grid.Tiles[d.Pos.Y][d.Pos.X]
		if t.Object != ObjectNone || t.Flags&FlagIndoor != 0 {
			continue
		}
		if d.Type == "well" {
			t.Object = ObjectWell
		} else {
			t.Object = ObjectShrine
		}
	}
}

// overlayFeatures applies the discrete feature layer. Every feature flags
// its tiles; where two features overlap, the compatibility engine decides
// whether they coexist, and an incompatible pair keeps only the dominant
// feature's flags.
func overlayFeatures(grid *MapGrid, bundle *LayerBundle, engine *CompatibilityEngine, seed int64) error {
	if engine == nil {
		engine = NewCompatibilityEngine(0.5)
	}
	// Mixing rolls come from a dedicated stream so grid assembly cannot
	// disturb the generation streams.
	mixStream := rng.NewLCG(rng.SubSeed(seed, "feature-mixing"))

	all := make([]Feature, 0,
		len(bundle.Features.Hazards)+len(bundle.Features.Resources)+
			len(bundle.Features.Landmarks)+len(bundle.Features.TacticalFeatures))
	all = append(all, bundle.Features.Hazards...)
	all = append(all, bundle.Features.Resources...)
	all = append(all, bundle.Features.Landmarks...)
	all = append(all, bundle.Features.TacticalFeatures...)

	occupant := make(map[Point]Feature)
	for _, f := range all {
		for y := f.Bounds.Y; y < f.Bounds.Y+f.Bounds.H; y++ {
			for x := f.Bounds.X; x < f.Bounds.X+f.Bounds.W; x++ {
				if x < 0 || x >= grid.Width || y < 0 || y >= grid.Height {
					continue
				}
				p := Point{X: x, Y: y}
				winner := f
				if prev, ok := occupant[p]; ok {
					in := engine.Resolve(prev, f, mixStream)
					if in.Coexist {
						applyFeatureFlag(&grid.Tiles[y][x], prev)
						applyFeatureFlag(&grid.Tiles[y][x], f)
						occupant[p] = pickByID(prev, f, in.DominantID)
						continue
					}
					winner = pickByID(prev, f, in.DominantID)
					clearFeatureFlags(&grid.Tiles[y][x])
				}
				occupant[p] = winner
				applyFeatureFlag(&grid.Tiles[y][x], winner)
			}
		}
	}
	return nil
}

func pickByID(a, b Feature, id string) Feature {
	if a.ID == id {
		return a
	}
	return b
}

// applyFeatureFlag marks a tile with the flag class of a feature.
func applyFeatureFlag(t *Tile, f Feature) {
	switch {
	case f.Natural != nil && f.Natural.Hazardous:
		t.Flags |= FlagHazard
	case f.Category == CategoryCultural:
		t.Flags |= FlagLandmark
	case f.Type == "choke-point" || f.Type == "overwatch" || f.Type == "concealment":
		t.Flags |= FlagTactical
	default:
		t.Flags |= FlagResource
	}
}

// clearFeatureFlags removes feature-derived flags before re-applying the
// winner of an incompatible overlap.
func clearFeatureFlags(t *Tile) {
	t.Flags &^= FlagHazard | FlagResource | FlagLandmark | FlagTactical
}
