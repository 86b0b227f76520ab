package battlemap

import (
	"reflect"
	"testing"

	"github.com/nottu2584/lazy-map-sub003/internal/rng"
)

func testContext(t *testing.T, b Biome, d DevelopmentLevel, z ElevationZone) Context {
	t.Helper()
	ctx, err := NewContext(b, d, z)
	if err != nil {
		t.Fatalf("test context invalid: %v", err)
	}
	return ctx
}

func TestGenerateGeology_Deterministic(t *testing.T) {
	ctx := testContext(t, BiomeForest, DevRural, ZoneLowland)
	gen := func() *GeologyLayer {
		streams := rng.NewCoordinated(12345)
		ids := rng.NewIDGenerator(streams)
		return generateGeology(30, 30, ctx, streams, ids, defaultGeologyConfig)
	}
	a, b := gen(), gen()
	if !reflect.DeepEqual(a, b) {
		t.Fatal("geology layers diverged for identical inputs")
	}
}

func TestGenerateGeology_FormationsFromBiomeSet(t *testing.T) {
	ctx := testContext(t, BiomeDesert, DevWilderness, ZoneLowland)
	streams := rng.NewCoordinated(777)
	ids := rng.NewIDGenerator(streams)
	layer := generateGeology(25, 25, ctx, streams, ids, defaultGeologyConfig)

	allowed, _ := biomeRockWeights(BiomeDesert)
	allowedSet := make(map[RockType]bool)
	for _, r := range allowed {
		allowedSet[r] = true
	}
	for i, tile := range layer.Tiles {
		if !allowedSet[tile.Formation] {
			t.Fatalf("tile %d formation %s not in desert rock set", i, tile.Formation)
		}
		if tile.SoilDepth < 0 {
			t.Fatalf("tile %d negative soil depth %f", i, tile.SoilDepth)
		}
		if tile.FractureIntensity < 0 || tile.FractureIntensity > 1 {
			t.Fatalf("tile %d fracture intensity %f outside [0,1]", i, tile.FractureIntensity)
		}
		if tile.Permeability <= 0 || tile.Permeability > 1 {
			t.Fatalf("tile %d permeability %f outside (0,1]", i, tile.Permeability)
		}
	}
}

func TestMicroFeatureLookup_PureAndConsistent(t *testing.T) {
	a := microFeatureLookup(RockLimestone, WeatheringKarst)
	b := microFeatureLookup(RockLimestone, WeatheringKarst)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("micro feature lookup not stable")
	}
	if len(a) == 0 {
		t.Fatal("karst limestone should produce micro feature candidates")
	}
	// Mismatched combinations yield nothing rather than inventing forms.
	if got := microFeatureLookup(RockGranite, WeatheringKarst); got != nil {
		t.Fatalf("granite+karst = %v, want nil", got)
	}
}

func TestGenerateGeology_MicroFeaturesOnEligibleRock(t *testing.T) {
	ctx := testContext(t, BiomeMountain, DevWilderness, ZoneHighland)
	streams := rng.NewCoordinated(4242)
	ids := rng.NewIDGenerator(streams)
	layer := generateGeology(60, 60, ctx, streams, ids, defaultGeologyConfig)

	for _, mf := range layer.Features {
		tile := layer.At(mf.Pos.X, mf.Pos.Y)
		candidates := microFeatureLookup(tile.Formation, tile.Weathering)
		found := false
		for _, c := range candidates {
			if c == mf.Type {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("feature %s at (%d,%d) not producible by %s/%s",
				mf.Type, mf.Pos.X, mf.Pos.Y, tile.Formation, tile.Weathering)
		}
	}
}
