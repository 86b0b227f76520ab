package battlemap

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nottu2584/lazy-map-sub003/internal/rng"
)

// Generator runs the six-stage map pipeline. A Generator is cheap and
// stateless between runs: every Generate call builds its own stream
// hierarchy, so independent requests share nothing and may run in parallel.
type Generator struct {
	log     *logrus.Logger
	mixProb float64

	geoCfg    geologyConfig
	topoCfg   topographyConfig
	hydroCfg  hydrologyConfig
	vegCfg    vegetationConfig
	structCfg structuresConfig
	featCfg   featuresConfig
}

// Option configures a Generator at construction.
type Option func(*Generator)

// WithLogger attaches a logger for per-stage progress metrics. Metrics are
// observability only; they never influence generation. A nil logger keeps
// the default silent one.
func WithLogger(l *logrus.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.log = l
		}
	}
}

// WithMixingProbability sets the compatibility engine's blending chance.
func WithMixingProbability(p float64) Option {
	return func(g *Generator) { g.mixProb = clamp01(p) }
}

// WithElevationDetail enables the extra elevation noise octave. It is off
// unless a caller asks for it explicitly.
func WithElevationDetail(enabled bool) Option {
	return func(g *Generator) { g.topoCfg.ExtraDetail = enabled }
}

// Engine returns a compatibility engine built from the generator's mixing
// probability, for use when assembling the final grid.
func (g *Generator) Engine() *CompatibilityEngine {
	return NewCompatibilityEngine(g.mixProb)
}

// NewGenerator creates a Generator with the default stage configs.
func NewGenerator(opts ...Option) *Generator {
	silent := logrus.New()
	silent.SetOutput(io.Discard)
	g := &Generator{
		log:       silent,
		mixProb:   0.5,
		geoCfg:    defaultGeologyConfig,
		topoCfg:   defaultTopographyConfig,
		hydroCfg:  defaultHydrologyConfig,
		vegCfg:    defaultVegetationConfig,
		structCfg: defaultStructuresConfig,
		featCfg:   defaultFeaturesConfig,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate runs the full pipeline for (width, height, ctx, seed) and
// returns the ordered layer bundle. Identical inputs always produce
// identical layers. Dimension and context validation happens before any
// stage executes; a stage failure aborts the run with the stage's name and
// no partial data.
func (g *Generator) Generate(width, height int, ctx Context, seed int64) (*LayerBundle, error) {
	if err := validateDimensions(width, height); err != nil {
		return nil, err
	}
	// Contexts built directly (not via NewContext) get validated here so
	// bad values fail fast rather than producing a skewed map.
	if _, err := NewContext(ctx.Biome, ctx.Development, ctx.Zone); err != nil {
		return nil, err
	}

	normalized, adjusted := rng.NormalizeSeed(seed)
	if adjusted {
		g.log.WithFields(logrus.Fields{
			"given": seed,
			"used":  normalized,
		}).Warn("seed adjusted into canonical range")
	}

	streams := rng.NewCoordinated(normalized)
	ids := rng.NewIDGenerator(streams)

	bundle := &LayerBundle{
		Width:  width,
		Height: height,
		Meta: Metadata{
			Seed:         normalized,
			SeedAdjusted: adjusted,
			Context:      ctx,
		},
	}

	type stage struct {
		name string
		run  func() error
	}
	stages := []stage{
		{"geology", func() error {
			bundle.Geology = generateGeology(width, height, ctx, streams, ids, g.geoCfg)
			return nil
		}},
		{"topography", func() error {
			bundle.Topography = generateTopography(bundle.Geology, ctx, streams, g.topoCfg)
			return nil
		}},
		{"hydrology", func() error {
			bundle.Hydrology = generateHydrology(bundle.Topography, bundle.Geology, ctx, streams, ids, g.hydroCfg)
			return nil
		}},
		{"vegetation", func() error {
			bundle.Vegetation = generateVegetation(bundle.Hydrology, bundle.Topography, bundle.Geology, ctx, streams, ids, g.vegCfg)
			return nil
		}},
		{"structures", func() error {
			bundle.Structures = generateStructures(bundle.Vegetation, bundle.Hydrology, bundle.Topography, ctx, streams, ids, g.structCfg)
			return nil
		}},
		{"features", func() error {
			bundle.Features = generateFeatures(bundle, ctx, streams, ids, g.featCfg)
			return nil
		}},
	}

	for _, s := range stages {
		start := time.Now()
		if err := s.run(); err != nil {
			return nil, &StageError{Stage: s.name, Err: err}
		}
		metrics := StageMetrics{
			Stage:    s.name,
			Duration: time.Since(start).Nanoseconds(),
			Counts:   stageCounts(s.name, bundle),
		}
		bundle.Meta.Stages = append(bundle.Meta.Stages, metrics)

		fields := logrus.Fields{"stage": s.name, "duration": time.Duration(metrics.Duration)}
		for k, v := range metrics.Counts {
			fields[k] = v
		}
		g.log.WithFields(fields).Info("stage complete")
	}
	return bundle, nil
}

// stageCounts extracts the observability counts for a finished stage.
func stageCounts(name string, b *LayerBundle) map[string]int {
	switch name {
	case "geology":
		return map[string]int{"microFeatures": len(b.Geology.Features)}
	case "topography":
		ridges, valleys := 0, 0
		for _, t := range b.Topography.Tiles {
			if t.IsRidge {
				ridges++
			}
			if t.IsValley {
				valleys++
			}
		}
		return map[string]int{"ridgeTiles": ridges, "valleyTiles": valleys}
	case "hydrology":
		return map[string]int{
			"streams": len(b.Hydrology.Streams),
			"springs": len(b.Hydrology.Springs),
		}
	case "vegetation":
		return map[string]int{
			"trees":         len(b.Vegetation.Trees),
			"forestPatches": len(b.Vegetation.ForestPatches),
			"clearings":     len(b.Vegetation.Clearings),
		}
	case "structures":
		return map[string]int{
			"buildings": len(b.Structures.Buildings),
			"roads":     len(b.Structures.Roads),
			"bridges":   len(b.Structures.Bridges),
		}
	case "features":
		return map[string]int{
			"hazards":   len(b.Features.Hazards),
			"resources": len(b.Features.Resources),
			"landmarks": len(b.Features.Landmarks),
			"tactical":  len(b.Features.TacticalFeatures),
		}
	default:
		return nil
	}
}
