package battlemap

import (
	"reflect"
	"testing"
)

// emptyBundle builds a bundle of blank layers for targeted stamping tests.
func emptyBundle(width, height int) *LayerBundle {
	n := width * height
	return &LayerBundle{
		Width:  width,
		Height: height,
		Geology: &GeologyLayer{
			Width: width, Height: height, Tiles: make([]GeologyTile, n),
		},
		Topography: &TopographyLayer{
			Width: width, Height: height, Tiles: make([]TopographyTile, n),
		},
		Hydrology: &HydrologyLayer{
			Width: width, Height: height, Tiles: make([]HydrologyTile, n),
		},
		Vegetation: &VegetationLayer{
			Width: width, Height: height, Tiles: make([]VegetationTile, n),
		},
		Structures: &StructuresLayer{Width: width, Height: height},
		Features:   &FeaturesLayer{},
	}
}

func gridContext(t *testing.T) Context {
	t.Helper()
	return testContext(t, BiomeGrassland, DevSettled, ZoneLowland)
}

func TestConvertToTiles_DimensionMismatch(t *testing.T) {
	bundle := emptyBundle(10, 10)
	if _, err := ConvertToTiles(12, 10, bundle, gridContext(t), 1, nil); err == nil {
		t.Fatal("mismatched width accepted")
	}
	if _, err := ConvertToTiles(10, 10, nil, gridContext(t), 1, nil); err == nil {
		t.Fatal("nil bundle accepted")
	}
}

func TestConvertToTiles_IDAndCellSize(t *testing.T) {
	bundle := emptyBundle(10, 12)
	grid, err := ConvertToTiles(10, 12, bundle, gridContext(t), 12345, nil)
	if err != nil {
		t.Fatalf("ConvertToTiles: %v", err)
	}
	if grid.ID != "map-12345-10x12" {
		t.Fatalf("grid ID = %q, want map-12345-10x12", grid.ID)
	}
	if grid.CellSize != 5 {
		t.Fatalf("cell size = %f, want 5", grid.CellSize)
	}
	if grid.Seed != 12345 {
		t.Fatalf("grid seed = %d, want 12345", grid.Seed)
	}
}

func TestConvertToTiles_GroundFolding(t *testing.T) {
	bundle := emptyBundle(8, 8)
	for i := range bundle.Geology.Tiles {
		bundle.Geology.Tiles[i].SoilDepth = 1.0
	}
	set := func(x, y int, f func(i int)) { f(tileIndex(8, x, y)) }

	set(1, 1, func(i int) { bundle.Hydrology.Tiles[i].WaterDepth = 0.5 })
	set(2, 1, func(i int) { bundle.Vegetation.Tiles[i].Type = VegWetland })
	set(3, 1, func(i int) { bundle.Geology.Tiles[i].SoilDepth = 0.1 })
	set(4, 1, func(i int) { bundle.Vegetation.Tiles[i].Type = VegForest })
	set(5, 1, func(i int) { bundle.Vegetation.Tiles[i].Type = VegShrubland })
	set(6, 1, func(i int) { bundle.Vegetation.Tiles[i].HasGroundCover = true })

	grid, err := ConvertToTiles(8, 8, bundle, gridContext(t), 1, nil)
	if err != nil {
		t.Fatalf("ConvertToTiles: %v", err)
	}

	cases := []struct {
		x, y int
		want GroundType
	}{
		{1, 1, GroundWater},
		{2, 1, GroundMarsh},
		{3, 1, GroundRock},
		{4, 1, GroundForest},
		{5, 1, GroundScrub},
		{6, 1, GroundMeadow},
		{7, 7, GroundGrass},
	}
	for _, tc := range cases {
		if got := grid.At(tc.x, tc.y).Ground; got != tc.want {
			t.Errorf("ground at (%d,%d) = %d, want %d", tc.x, tc.y, got, tc.want)
		}
	}
}

func TestConvertToTiles_BuildingStamp(t *testing.T) {
	bundle := emptyBundle(12, 12)
	b := Building{
		ID:        "building-1-1234",
		Bounds:    Rect{X: 4, Y: 4, W: 4, H: 3},
		Kind:      "house",
		Condition: "intact",
	}
	bundle.Structures.Buildings = []Building{b}

	grid, err := ConvertToTiles(12, 12, bundle, gridContext(t), 1, nil)
	if err != nil {
		t.Fatalf("ConvertToTiles: %v", err)
	}

	for y := 4; y < 7; y++ {
		for x := 4; x < 8; x++ {
			tile := grid.At(x, y)
			if tile.Ground != GroundCourtyard {
				t.Fatalf("building tile (%d,%d) ground = %d, want courtyard", x, y, tile.Ground)
			}
			if tile.Flags&FlagIndoor == 0 {
				t.Fatalf("building tile (%d,%d) missing indoor flag", x, y)
			}
			perimeter := x == 4 || x == 7 || y == 4 || y == 6
			door := doorPoint(b.Bounds)
			isDoor := x == door.X && y == door.Y-1
			switch {
			case isDoor:
				if tile.Object != ObjectNone {
					t.Fatalf("door tile (%d,%d) blocked by object %d", x, y, tile.Object)
				}
			case perimeter:
				if tile.Object != ObjectWall {
					t.Fatalf("perimeter tile (%d,%d) object = %d, want wall", x, y, tile.Object)
				}
			default:
				if tile.Object != ObjectNone {
					t.Fatalf("interior tile (%d,%d) object = %d, want none", x, y, tile.Object)
				}
			}
		}
	}
}

func TestConvertToTiles_RuinedBuildingWalls(t *testing.T) {
	bundle := emptyBundle(12, 12)
	bundle.Structures.Buildings = []Building{{
		ID:        "building-1-1234",
		Bounds:    Rect{X: 3, Y: 3, W: 3, H: 3},
		Condition: "ruined",
	}}
	grid, err := ConvertToTiles(12, 12, bundle, gridContext(t), 1, nil)
	if err != nil {
		t.Fatalf("ConvertToTiles: %v", err)
	}
	if got := grid.At(3, 3).Object; got != ObjectRuinedWall {
		t.Fatalf("ruined corner object = %d, want ruined wall", got)
	}
}

func TestConvertToTiles_RoadsAndBridges(t *testing.T) {
	bundle := emptyBundle(12, 12)
	for y := 0; y < 12; y++ {
		bundle.Hydrology.Tiles[tileIndex(12, 6, y)].WaterDepth = 0.4
	}
	pts := appendLine(nil, Point{X: 2, Y: 5}, Point{X: 10, Y: 5})
	bundle.Structures.Roads = []RoadSegment{{ID: "road-1-1234", Points: pts, Width: 1, Material: "dirt"}}
	bundle.Structures.Bridges = []Bridge{{ID: "bridge-1-1234", Pos: Point{X: 6, Y: 5}, Material: "timber"}}

	grid, err := ConvertToTiles(12, 12, bundle, gridContext(t), 1, nil)
	if err != nil {
		t.Fatalf("ConvertToTiles: %v", err)
	}

	if got := grid.At(3, 5).Ground; got != GroundRoad {
		t.Fatalf("road tile ground = %d, want road", got)
	}
	// The crossing keeps its water ground and gains a bridge object.
	crossing := grid.At(6, 5)
	if crossing.Ground != GroundWater {
		t.Fatalf("crossing ground = %d, want water", crossing.Ground)
	}
	if crossing.Object != ObjectBridge {
		t.Fatalf("crossing object = %d, want bridge", crossing.Object)
	}
	if crossing.MovementCost() == 0 {
		t.Fatal("bridge tile should be passable")
	}
}

func TestConvertToTiles_FeatureFlags(t *testing.T) {
	bundle := emptyBundle(10, 10)
	bundle.Features.Hazards = []Feature{{
		ID:       "hazard-1-1234",
		Category: CategoryNatural,
		Type:     "flood-zone",
		Bounds:   Rect{X: 2, Y: 2, W: 2, H: 2},
		Priority: 4,
		Natural:  &NaturalAttrs{Hazardous: true},
	}}
	bundle.Features.Landmarks = []Feature{{
		ID:       "landmark-1-1234",
		Category: CategoryCultural,
		Type:     "cairn",
		Bounds:   Rect{X: 6, Y: 6, W: 1, H: 1},
		Priority: 2,
		Cultural: &CulturalAttrs{Significance: "waymark"},
	}}

	grid, err := ConvertToTiles(10, 10, bundle, gridContext(t), 1, nil)
	if err != nil {
		t.Fatalf("ConvertToTiles: %v", err)
	}
	if grid.At(2, 2).Flags&FlagHazard == 0 {
		t.Fatal("hazard tile missing hazard flag")
	}
	if grid.At(6, 6).Flags&FlagLandmark == 0 {
		t.Fatal("landmark tile missing landmark flag")
	}
	if grid.At(0, 0).Flags&(FlagHazard|FlagLandmark) != 0 {
		t.Fatal("unrelated tile carries feature flags")
	}
}

func TestConvertToTiles_IncompatibleOverlapKeepsDominant(t *testing.T) {
	bundle := emptyBundle(10, 10)
	// flood-zone vs road is incompatible; the hazard's higher priority wins
	// regardless of mixing probability.
	bundle.Features.Hazards = []Feature{{
		ID:       "hazard-1-1234",
		Category: CategoryNatural,
		Type:     "flood-zone",
		Bounds:   Rect{X: 4, Y: 4, W: 1, H: 1},
		Priority: 5,
		Natural:  &NaturalAttrs{Hazardous: true},
	}}
	bundle.Features.TacticalFeatures = []Feature{{
		ID:       "tactical-1-1234",
		Category: CategoryArtificial,
		Type:     "road",
		Bounds:   Rect{X: 4, Y: 4, W: 1, H: 1},
		Priority: 1,
	}}

	grid, err := ConvertToTiles(10, 10, bundle, gridContext(t), 1, NewCompatibilityEngine(1.0))
	if err != nil {
		t.Fatalf("ConvertToTiles: %v", err)
	}
	tile := grid.At(4, 4)
	if tile.Flags&FlagHazard == 0 {
		t.Fatal("dominant hazard flag missing after incompatible overlap")
	}
	if tile.Flags&(FlagResource|FlagTactical) != 0 {
		t.Fatal("subordinate feature's flags survived an incompatible overlap")
	}
}

func TestConvertToTiles_Deterministic(t *testing.T) {
	ctx := testContext(t, BiomeForest, DevSettled, ZoneFoothills)
	g := NewGenerator()
	bundle, err := g.Generate(30, 30, ctx, 24680)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	a, err := ConvertToTiles(30, 30, bundle, ctx, 24680, NewCompatibilityEngine(0.5))
	if err != nil {
		t.Fatalf("ConvertToTiles: %v", err)
	}
	b, err := ConvertToTiles(30, 30, bundle, ctx, 24680, NewCompatibilityEngine(0.5))
	if err != nil {
		t.Fatalf("ConvertToTiles (repeat): %v", err)
	}
	if !reflect.DeepEqual(a.Tiles, b.Tiles) {
		t.Fatal("grid assembly diverged for identical inputs")
	}

	// A fully regenerated bundle converts to the same grid.
	bundle2, err := g.Generate(30, 30, ctx, 24680)
	if err != nil {
		t.Fatalf("Generate (repeat): %v", err)
	}
	c, err := ConvertToTiles(30, 30, bundle2, ctx, 24680, NewCompatibilityEngine(0.5))
	if err != nil {
		t.Fatalf("ConvertToTiles: %v", err)
	}
	if !reflect.DeepEqual(a.Tiles, c.Tiles) {
		t.Fatal("grid differs when rebuilt from a regenerated bundle")
	}
}

func TestTile_MovementCost(t *testing.T) {
	cases := []struct {
		tile Tile
		want float64
	}{
		{Tile{Ground: GroundGrass}, 1.0},
		{Tile{Ground: GroundMarsh}, 0.45},
		{Tile{Ground: GroundGrass, Object: ObjectWall}, 0},
		{Tile{Ground: GroundRoad, Object: ObjectBoulder}, 0},
		{Tile{Ground: GroundWater, Object: ObjectBridge}, 0.3},
	}
	for _, tc := range cases {
		if got := tc.tile.MovementCost(); got != tc.want {
			t.Errorf("MovementCost(%+v) = %f, want %f", tc.tile, got, tc.want)
		}
	}
}

func TestTile_CoverValueCapped(t *testing.T) {
	open := Tile{Ground: GroundGrass}
	if got := open.CoverValue(); got != 0 {
		t.Fatalf("open ground cover = %f, want 0", got)
	}
	wall := Tile{Ground: GroundForest, Object: ObjectWall, Flags: FlagConcealment}
	if got := wall.CoverValue(); got != 0.9 {
		t.Fatalf("stacked cover = %f, want capped 0.9", got)
	}
	tree := Tile{Ground: GroundForest, Object: ObjectTree}
	if got := tree.CoverValue(); got < 0.54 || got > 0.56 {
		t.Fatalf("forest tree cover = %f, want 0.55", got)
	}
}
