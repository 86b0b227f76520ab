package battlemap

import (
	"reflect"
	"testing"

	"github.com/nottu2584/lazy-map-sub003/internal/rng"
)

func featureBundle(width, height int) (*LayerBundle, *rng.IDGenerator) {
	b := emptyBundle(width, height)
	ids := rng.NewIDGenerator(rng.NewCoordinated(1))
	return b, ids
}

func TestCollectHazards_FromMicroFeaturesAndWetland(t *testing.T) {
	bundle, ids := featureBundle(10, 10)
	bundle.Geology.Features = []MicroFeature{
		{Type: "sinkhole", Pos: Point{X: 2, Y: 2}},
		{Type: "scree", Pos: Point{X: 3, Y: 3}},
		{Type: "karst-pavement", Pos: Point{X: 4, Y: 4}}, // not a hazard
	}
	i := tileIndex(10, 5, 5)
	bundle.Hydrology.Tiles[i].IsPool = true
	bundle.Hydrology.Tiles[i].WaterDepth = 0.4
	j := tileIndex(10, 6, 6)
	bundle.Hydrology.Tiles[j].Class = MoistureSaturated
	bundle.Vegetation.Tiles[j].Type = VegWetland

	layer := &FeaturesLayer{}
	collectHazards(layer, bundle, ids)

	types := make(map[string]int)
	for _, h := range layer.Hazards {
		types[h.Type]++
		if h.Category != CategoryNatural {
			t.Fatalf("hazard %s category = %s, want natural", h.ID, h.Category)
		}
		if h.Natural == nil || !h.Natural.Hazardous {
			t.Fatalf("hazard %s missing hazardous payload", h.ID)
		}
	}
	want := map[string]int{"sinkhole": 1, "rockfall": 1, "flood-zone": 1, "bog": 1}
	if !reflect.DeepEqual(types, want) {
		t.Fatalf("hazard types = %v, want %v", types, want)
	}
}

func TestCollectResources_Rules(t *testing.T) {
	bundle, ids := featureBundle(10, 10)

	// Large patch yields timber; a small one does not.
	big := make([]Point, 25)
	for k := range big {
		big[k] = Point{X: k % 5, Y: k / 5}
	}
	bundle.Vegetation.ForestPatches = []ForestPatch{
		{ID: "patch-1-1111", Tiles: big},
		{ID: "patch-2-2222", Tiles: []Point{{X: 8, Y: 8}}},
	}
	bundle.Vegetation.Clearings = []Clearing{{Center: Point{X: 7, Y: 2}, Radius: 1}}

	ore := tileIndex(10, 1, 8)
	bundle.Geology.Tiles[ore].Formation = RockGranite
	bundle.Geology.Tiles[ore].FractureIntensity = 0.9
	bundle.Geology.Tiles[ore].SoilDepth = 0.1
	quarry := tileIndex(10, 2, 8)
	bundle.Geology.Tiles[quarry].Formation = RockLimestone
	bundle.Geology.Tiles[quarry].FractureIntensity = 0.05
	bundle.Geology.Tiles[quarry].SoilDepth = 0.1
	// Buried rock is not harvestable even when fractured.
	buried := tileIndex(10, 3, 8)
	bundle.Geology.Tiles[buried].Formation = RockGranite
	bundle.Geology.Tiles[buried].FractureIntensity = 0.9
	bundle.Geology.Tiles[buried].SoilDepth = 1.0

	layer := &FeaturesLayer{}
	collectResources(layer, bundle, ids)

	types := make(map[string]int)
	for _, r := range layer.Resources {
		types[r.Type]++
	}
	if types["timber-stand"] != 1 {
		t.Fatalf("timber stands = %d, want 1", types["timber-stand"])
	}
	if types["ore-vein"] != 1 {
		t.Fatalf("ore veins = %d, want 1", types["ore-vein"])
	}
	if types["quarry-site"] != 1 {
		t.Fatalf("quarry sites = %d, want 1", types["quarry-site"])
	}
	if types["herb-patch"] != 1 {
		t.Fatalf("herb patches = %d, want 1", types["herb-patch"])
	}
}

func TestCollectLandmarks_TallestTreeAndCap(t *testing.T) {
	bundle, ids := featureBundle(20, 20)
	bundle.Vegetation.Trees = []Tree{
		{ID: "tree-1-1111", Pos: Point{X: 3, Y: 3}, Height: 25},
		{ID: "tree-2-2222", Pos: Point{X: 9, Y: 9}, Height: 60},
		{ID: "tree-3-3333", Pos: Point{X: 5, Y: 5}, Height: 40},
	}
	// Every interior tile is a ridge: the cap must hold.
	for i := range bundle.Topography.Tiles {
		bundle.Topography.Tiles[i].IsRidge = true
	}

	layer := &FeaturesLayer{}
	collectLandmarks(layer, bundle, 42, ids, defaultFeaturesConfig)

	if len(layer.Landmarks) == 0 {
		t.Fatal("no landmarks placed")
	}
	first := layer.Landmarks[0]
	if first.Type != "ancient-tree" {
		t.Fatalf("first landmark = %s, want ancient-tree", first.Type)
	}
	if first.Bounds.X != 9 || first.Bounds.Y != 9 {
		t.Fatalf("ancient tree at (%d,%d), want the tallest tree's tile (9,9)", first.Bounds.X, first.Bounds.Y)
	}
	others := len(layer.Landmarks) - 1
	if others > defaultFeaturesConfig.MaxLandmarks {
		t.Fatalf("placed %d gated landmarks, cap is %d", others, defaultFeaturesConfig.MaxLandmarks)
	}
	for _, l := range layer.Landmarks {
		if l.Category != CategoryCultural || l.Cultural == nil {
			t.Fatalf("landmark %s missing cultural payload", l.ID)
		}
	}
}

func TestCollectTactical_Rules(t *testing.T) {
	bundle, ids := featureBundle(10, 10)
	bundle.Structures.Bridges = []Bridge{{ID: "bridge-1-1111", Pos: Point{X: 4, Y: 4}, Material: "timber"}}

	ow := tileIndex(10, 2, 2)
	bundle.Topography.Tiles[ow].IsRidge = true
	bundle.Topography.Tiles[ow].Slope = 8
	// Ridge under canopy gives no overwatch.
	blocked := tileIndex(10, 3, 2)
	bundle.Topography.Tiles[blocked].IsRidge = true
	bundle.Topography.Tiles[blocked].Slope = 8
	bundle.Vegetation.Tiles[blocked].Density = CanopyModerate

	hide := tileIndex(10, 7, 7)
	bundle.Vegetation.Tiles[hide].HasUnderstory = true
	bundle.Vegetation.Tiles[hide].Density = CanopyDense

	layer := &FeaturesLayer{}
	collectTactical(layer, bundle, ids)

	types := make(map[string][]Feature)
	for _, f := range layer.TacticalFeatures {
		types[f.Type] = append(types[f.Type], f)
	}
	if n := len(types["choke-point"]); n != 1 {
		t.Fatalf("choke points = %d, want 1", n)
	}
	if got := types["choke-point"][0].Bounds; got.X != 4 || got.Y != 4 {
		t.Fatalf("choke point at (%d,%d), want the bridge tile (4,4)", got.X, got.Y)
	}
	if n := len(types["overwatch"]); n != 1 {
		t.Fatalf("overwatch positions = %d, want 1", n)
	}
	if n := len(types["concealment"]); n != 1 {
		t.Fatalf("concealment thickets = %d, want 1", n)
	}
}

func TestGenerateFeatures_Deterministic(t *testing.T) {
	ctx := testContext(t, BiomeMountain, DevSettled, ZoneHighland)
	g := NewGenerator()

	a, err := g.Generate(40, 40, ctx, 1357)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	b, err := g.Generate(40, 40, ctx, 1357)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !reflect.DeepEqual(a.Features, b.Features) {
		t.Fatal("features layer diverged for identical inputs")
	}
}
