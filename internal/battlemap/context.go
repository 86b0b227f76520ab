// Package battlemap implements the deterministic tactical map generation
// pipeline: six ordered layer generators (geology, topography, hydrology,
// vegetation, structures, features), a feature compatibility engine that
// resolves overlapping map features, and the tile-grid assembly that turns
// layer data into a playable grid.
//
// Generation is a pure function of (width, height, context, seed). All
// randomness flows from the rng package's coordinated sub-streams; nothing
// in this package reads the clock, the environment, or any global generator.
package battlemap

import "fmt"

// Biome is the large-scale ecological setting of a map.
type Biome string

const (
	BiomeForest    Biome = "forest"
	BiomeGrassland Biome = "grassland"
	BiomeDesert    Biome = "desert"
	BiomeMountain  Biome = "mountain"
	BiomeSwamp     Biome = "swamp"
	BiomeTundra    Biome = "tundra"
	BiomeCoast     Biome = "coast"
)

// DevelopmentLevel describes how built-up the mapped area is.
type DevelopmentLevel string

const (
	DevWilderness DevelopmentLevel = "wilderness"
	DevFrontier   DevelopmentLevel = "frontier"
	DevRural      DevelopmentLevel = "rural"
	DevSettled    DevelopmentLevel = "settled"
	DevUrban      DevelopmentLevel = "urban"
	DevRuins      DevelopmentLevel = "ruins"
)

// ElevationZone places the map within a broad altitude band.
type ElevationZone string

const (
	ZoneLowland   ElevationZone = "lowland"
	ZoneFoothills ElevationZone = "foothills"
	ZoneHighland  ElevationZone = "highland"
	ZoneAlpine    ElevationZone = "alpine"
)

var (
	validBiomes = []Biome{
		BiomeForest, BiomeGrassland, BiomeDesert, BiomeMountain,
		BiomeSwamp, BiomeTundra, BiomeCoast,
	}
	validDevelopments = []DevelopmentLevel{
		DevWilderness, DevFrontier, DevRural, DevSettled, DevUrban, DevRuins,
	}
	validZones = []ElevationZone{
		ZoneLowland, ZoneFoothills, ZoneHighland, ZoneAlpine,
	}
)

// Context is the immutable categorical triple that biases every generation
// stage's weighting tables. It never carries numeric tuning; those live in
// the per-stage config structs.
type Context struct {
	Biome       Biome
	Development DevelopmentLevel
	Zone        ElevationZone
}

// NewContext validates the triple and returns ErrInvalidContext (wrapped
// with the offending value and the accepted set) on any unknown member.
func NewContext(biome Biome, dev DevelopmentLevel, zone ElevationZone) (Context, error) {
	if !containsBiome(biome) {
		return Context{}, fmt.Errorf("%w: biome %q (valid: %v)", ErrInvalidContext, biome, validBiomes)
	}
	if !containsDev(dev) {
		return Context{}, fmt.Errorf("%w: development level %q (valid: %v)", ErrInvalidContext, dev, validDevelopments)
	}
	if !containsZone(zone) {
		return Context{}, fmt.Errorf("%w: elevation zone %q (valid: %v)", ErrInvalidContext, zone, validZones)
	}
	return Context{Biome: biome, Development: dev, Zone: zone}, nil
}

func containsBiome(b Biome) bool {
	for _, v := range validBiomes {
		if v == b {
			return true
		}
	}
	return false
}

func containsDev(d DevelopmentLevel) bool {
	for _, v := range validDevelopments {
		if v == d {
			return true
		}
	}
	return false
}

func containsZone(z ElevationZone) bool {
	for _, v := range validZones {
		if v == z {
			return true
		}
	}
	return false
}

// baseVegetationCoverage is the target forest coverage fraction per biome.
func baseVegetationCoverage(b Biome) float64 {
	switch b {
	case BiomeForest:
		return 0.65
	case BiomeGrassland:
		return 0.15
	case BiomeDesert:
		return 0.04
	case BiomeMountain:
		return 0.25
	case BiomeSwamp:
		return 0.45
	case BiomeTundra:
		return 0.08
	case BiomeCoast:
		return 0.20
	default:
		return 0.20
	}
}

// biomeVegetationBase is the base of the vegetation potential field.
func biomeVegetationBase(b Biome) float64 {
	switch b {
	case BiomeForest:
		return 0.9
	case BiomeGrassland:
		return 0.5
	case BiomeDesert:
		return 0.1
	case BiomeMountain:
		return 0.4
	case BiomeSwamp:
		return 0.75
	case BiomeTundra:
		return 0.2
	case BiomeCoast:
		return 0.5
	default:
		return 0.5
	}
}

// zoneBaseElevation returns the base elevation in metres for an elevation
// zone, before noise modulation.
func zoneBaseElevation(z ElevationZone) float64 {
	switch z {
	case ZoneLowland:
		return 40
	case ZoneFoothills:
		return 220
	case ZoneHighland:
		return 600
	case ZoneAlpine:
		return 1400
	default:
		return 40
	}
}

// zoneElevationVariance scales how strongly noise perturbs base elevation.
func zoneElevationVariance(z ElevationZone) float64 {
	switch z {
	case ZoneLowland:
		return 12
	case ZoneFoothills:
		return 45
	case ZoneHighland:
		return 110
	case ZoneAlpine:
		return 240
	default:
		return 12
	}
}

// zoneVegetationPenalty damps vegetation potential at altitude.
func zoneVegetationPenalty(z ElevationZone) float64 {
	switch z {
	case ZoneLowland:
		return 1.0
	case ZoneFoothills:
		return 0.9
	case ZoneHighland:
		return 0.7
	case ZoneAlpine:
		return 0.35
	default:
		return 1.0
	}
}

// developmentBuildingCount returns how many building sites the structures
// stage tries to fill at a development level, scaled by map area.
func developmentBuildingCount(d DevelopmentLevel, width, height int) int {
	area := width * height
	base := 0
	switch d {
	case DevWilderness:
		base = 0
	case DevFrontier:
		base = 1
	case DevRural:
		base = 3
	case DevSettled:
		base = 6
	case DevUrban:
		base = 12
	case DevRuins:
		base = 5
	}
	scaled := base * area / 2500 // tuned for a 50x50 reference map
	if base > 0 && scaled < 1 {
		scaled = 1
	}
	return scaled
}
