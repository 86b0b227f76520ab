package battlemap

import "github.com/nottu2584/lazy-map-sub003/internal/rng"

// geologyConfig holds tuneable parameters for the geology stage.
type geologyConfig struct {
	FormationScale float64 // noise scale for the formation field (smaller = broader)
	SoilScale      float64 // noise scale for soil depth variation
	FractureScale  float64 // noise scale for fracture intensity
	MicroChance    float64 // per-eligible-tile chance of a micro-terrain feature
}

var defaultGeologyConfig = geologyConfig{
	FormationScale: 0.035,
	SoilScale:      0.09,
	FractureScale:  0.13,
	MicroChance:    0.012,
}

// rockProfile is the static description of one rock type.
type rockProfile struct {
	Minerals     string
	JointPattern string
	Weathering   WeatheringPattern
	Permeability float64
	SoilFactor   float64 // scales soil accumulation over this rock
}

var rockProfiles = map[RockType]rockProfile{
	RockGranite:   {"quartz-feldspar-mica", "orthogonal", WeatheringBlocky, 0.15, 0.8},
	RockLimestone: {"calcite", "bedding-plane", WeatheringKarst, 0.7, 1.0},
	RockSandstone: {"quartz-cemented", "cross-bedded", WeatheringSculpted, 0.6, 1.1},
	RockBasalt:    {"plagioclase-pyroxene", "hexagonal", WeatheringColumnar, 0.25, 0.7},
	RockShale:     {"clay-minerals", "laminar", WeatheringFissile, 0.1, 1.3},
	RockMarble:    {"recrystallized-calcite", "massive", WeatheringGranular, 0.35, 0.9},
}

// biomeRockWeights orders rock types by likelihood per biome. The formation
// noise value indexes into the cumulative weights, so coherent noise regions
// become coherent formations.
func biomeRockWeights(b Biome) ([]RockType, []float64) {
	switch b {
	case BiomeMountain:
		return []RockType{RockGranite, RockBasalt, RockShale, RockMarble},
			[]float64{0.45, 0.25, 0.18, 0.12}
	case BiomeDesert:
		return []RockType{RockSandstone, RockLimestone, RockShale},
			[]float64{0.55, 0.28, 0.17}
	case BiomeSwamp:
		return []RockType{RockShale, RockLimestone, RockSandstone},
			[]float64{0.5, 0.3, 0.2}
	case BiomeCoast:
		return []RockType{RockLimestone, RockSandstone, RockShale},
			[]float64{0.45, 0.35, 0.2}
	case BiomeTundra:
		return []RockType{RockGranite, RockShale, RockBasalt},
			[]float64{0.5, 0.3, 0.2}
	default: // forest, grassland
		return []RockType{RockLimestone, RockGranite, RockSandstone, RockShale},
			[]float64{0.35, 0.25, 0.25, 0.15}
	}
}

// microFeatureLookup maps (rock type, weathering) to the micro-terrain
// features that formation can produce. A pure lookup: same inputs, same
// candidates, in a fixed order.
func microFeatureLookup(rock RockType, w WeatheringPattern) []string {
	switch {
	case rock == RockLimestone && w == WeatheringKarst:
		return []string{"sinkhole", "karst-pavement", "slot-canyon"}
	case rock == RockSandstone && w == WeatheringSculpted:
		return []string{"tower", "dome", "slot-canyon"}
	case rock == RockGranite && w == WeatheringBlocky:
		return []string{"tower", "dome", "scree"}
	case rock == RockBasalt && w == WeatheringColumnar:
		return []string{"tower", "scree"}
	case rock == RockShale && w == WeatheringFissile:
		return []string{"scree"}
	case rock == RockMarble && w == WeatheringGranular:
		return []string{"dome"}
	default:
		return nil
	}
}

// generateGeology assigns each tile a rock formation from large-scale
// coherent noise on the terrain sub-stream, derives soil depth, fracture
// intensity and permeability, then places micro-terrain features via the
// (rock, weathering) lookup.
func generateGeology(width, height int, ctx Context, streams *rng.Coordinated, ids *rng.IDGenerator, cfg geologyConfig) *GeologyLayer {
	stream := streams.Stream(rng.StreamTerrain)
	formationSeed := int64(stream.NextInt(1, rng.SeedMax))
	soilSeed := int64(stream.NextInt(1, rng.SeedMax))
	fractureSeed := int64(stream.NextInt(1, rng.SeedMax))

	rocks, weights := biomeRockWeights(ctx.Biome)
	cumulative := make([]float64, len(weights))
	sum := 0.0
	for i, w := range weights {
		sum += w
		cumulative[i] = sum
	}

	layer := &GeologyLayer{
		Width:  width,
		Height: height,
		Tiles:  make([]GeologyTile, width*height),
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			fx := float64(x) * cfg.FormationScale
			fy := float64(y) * cfg.FormationScale
			formationNoise := fractalNoise2D(fx, fy, formationSeed, 3)

			rock := rocks[len(rocks)-1]
			for i, c := range cumulative {
				if formationNoise*sum <= c {
					rock = rocks[i]
					break
				}
			}
			profile := rockProfiles[rock]

			soilNoise := valueNoise2D(float64(x)*cfg.SoilScale, float64(y)*cfg.SoilScale, soilSeed)
			fractureNoise := valueNoise2D(float64(x)*cfg.FractureScale, float64(y)*cfg.FractureScale, fractureSeed)

			layer.Tiles[tileIndex(width, x, y)] = GeologyTile{
				Formation:         rock,
				Minerals:          profile.Minerals,
				JointPattern:      profile.JointPattern,
				Weathering:        profile.Weathering,
				SoilDepth:         soilNoise * 4.0 * profile.SoilFactor,
				FractureIntensity: fractureNoise,
				Permeability:      profile.Permeability,
			}
		}
	}

	placeMicroFeatures(layer, ctx, formationSeed, ids, cfg)
	return layer
}

// placeMicroFeatures walks the grid in row-major order and drops micro
// features where the formation supports them. The gate is a per-tile hash,
// so placement at one tile never shifts placement at another.
func placeMicroFeatures(layer *GeologyLayer, ctx Context, seed int64, ids *rng.IDGenerator, cfg geologyConfig) {
	for y := 0; y < layer.Height; y++ {
		for x := 0; x < layer.Width; x++ {
			t := layer.Tiles[tileIndex(layer.Width, x, y)]
			candidates := microFeatureLookup(t.Formation, t.Weathering)
			if len(candidates) == 0 {
				continue
			}
			// Heavily fractured rock erodes into landforms more readily.
			chance := cfg.MicroChance * (0.5 + t.FractureIntensity)
			if tileHash01(x, y, seed, 0x6e0) >= chance {
				continue
			}
			pick := int(tileHash01(x, y, seed, 0x6e1) * float64(len(candidates)))
			if pick >= len(candidates) {
				pick = len(candidates) - 1
			}
			layer.Features = append(layer.Features, MicroFeature{
				ID:   ids.Next("geo"),
				Type: candidates[pick],
				Pos:  Point{X: x, Y: y},
			})
		}
	}
}
