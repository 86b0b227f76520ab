package battlemap

import (
	"reflect"
	"testing"

	"github.com/nottu2584/lazy-map-sub003/internal/rng"
)

func flatTopography(width, height int, elevation float64) *TopographyLayer {
	l := &TopographyLayer{
		Width:  width,
		Height: height,
		Tiles:  make([]TopographyTile, width*height),
	}
	for i := range l.Tiles {
		l.Tiles[i].Elevation = elevation
	}
	return l
}

func TestSlopeDegrees(t *testing.T) {
	if got := slopeDegrees(0, 0); got != 0 {
		t.Fatalf("flat slope = %f, want 0", got)
	}
	// Gradient of 1 m/m is a 45° slope.
	got := slopeDegrees(1, 0)
	if got < 44.9 || got > 45.1 {
		t.Fatalf("unit gradient slope = %f, want 45", got)
	}
}

func TestAspectFromGradient_Flat(t *testing.T) {
	if a := aspectFromGradient(0, 0); a != AspectFlat {
		t.Fatalf("flat aspect = %s, want flat", a)
	}
}

func TestAspectFromGradient_Directions(t *testing.T) {
	// The gradient points uphill and y grows south, so terrain rising to
	// the west (dzdx < 0) drains east, terrain rising to the north
	// (dzdy < 0) drains south.
	cases := []struct {
		dzdx, dzdy float64
		want       SlopeAspect
	}{
		{-1, 0, AspectE},
		{1, 0, AspectW},
		{0, -1, AspectS},
		{0, 1, AspectN},
		{-1, -1, AspectSE},
		{1, 1, AspectNW},
		{1, -1, AspectSW},
		{-1, 1, AspectNE},
	}
	for _, tc := range cases {
		if got := aspectFromGradient(tc.dzdx, tc.dzdy); got != tc.want {
			t.Errorf("aspectFromGradient(%v, %v) = %s, want %s", tc.dzdx, tc.dzdy, got, tc.want)
		}
	}
}

func TestCurvature_FlatFieldIsZero(t *testing.T) {
	l := flatTopography(5, 5, 100)
	if c := curvature(l, 2, 2); c != 0 {
		t.Fatalf("flat curvature = %f, want 0", c)
	}
	// A spike sits above its neighbourhood.
	l.Tiles[tileIndex(5, 2, 2)].Elevation = 110
	if c := curvature(l, 2, 2); c <= 0 {
		t.Fatalf("spike curvature = %f, want > 0", c)
	}
}

func TestGenerateTopography_Deterministic(t *testing.T) {
	ctx, _ := NewContext(BiomeMountain, DevWilderness, ZoneHighland)
	gen := func() *TopographyLayer {
		streams := rng.NewCoordinated(555)
		ids := rng.NewIDGenerator(streams)
		geo := generateGeology(25, 25, ctx, streams, ids, defaultGeologyConfig)
		return generateTopography(geo, ctx, streams, defaultTopographyConfig)
	}
	if !reflect.DeepEqual(gen(), gen()) {
		t.Fatal("topography layers diverged for identical inputs")
	}
}

func TestGenerateTopography_ZoneOrdering(t *testing.T) {
	// Mean elevation must rise with the elevation zone.
	mean := func(zone ElevationZone) float64 {
		ctx, _ := NewContext(BiomeMountain, DevWilderness, zone)
		streams := rng.NewCoordinated(999)
		ids := rng.NewIDGenerator(streams)
		geo := generateGeology(30, 30, ctx, streams, ids, defaultGeologyConfig)
		topo := generateTopography(geo, ctx, streams, defaultTopographyConfig)
		sum := 0.0
		for _, tile := range topo.Tiles {
			sum += tile.Elevation
		}
		return sum / float64(len(topo.Tiles))
	}
	lowland := mean(ZoneLowland)
	alpine := mean(ZoneAlpine)
	if alpine <= lowland {
		t.Fatalf("alpine mean %f should exceed lowland mean %f", alpine, lowland)
	}
}

func TestGenerateTopography_DetailOnlyWhenEnabled(t *testing.T) {
	ctx, _ := NewContext(BiomeForest, DevWilderness, ZoneLowland)
	run := func(detail bool) *TopographyLayer {
		streams := rng.NewCoordinated(31415)
		ids := rng.NewIDGenerator(streams)
		geo := generateGeology(20, 20, ctx, streams, ids, defaultGeologyConfig)
		cfg := defaultTopographyConfig
		cfg.ExtraDetail = detail
		return generateTopography(geo, ctx, streams, cfg)
	}
	base := run(false)
	again := run(false)
	if !reflect.DeepEqual(base, again) {
		t.Fatal("detail-off runs diverged")
	}
	detailed := run(true)
	if reflect.DeepEqual(base, detailed) {
		t.Fatal("enabling the detail octave changed nothing")
	}
}

func TestGenerateTopography_RidgeValleyExclusive(t *testing.T) {
	ctx, _ := NewContext(BiomeMountain, DevWilderness, ZoneAlpine)
	streams := rng.NewCoordinated(2718)
	ids := rng.NewIDGenerator(streams)
	geo := generateGeology(40, 40, ctx, streams, ids, defaultGeologyConfig)
	topo := generateTopography(geo, ctx, streams, defaultTopographyConfig)
	for i, tile := range topo.Tiles {
		if tile.IsRidge && tile.IsValley {
			t.Fatalf("tile %d flagged both ridge and valley", i)
		}
		if tile.Slope < 0 || tile.Slope >= 90 {
			t.Fatalf("tile %d slope %f outside [0,90)", i, tile.Slope)
		}
	}
}
