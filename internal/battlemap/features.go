package battlemap

import "github.com/nottu2584/lazy-map-sub003/internal/rng"

// FeatureCategory is the top-level classification of a discrete map feature.
type FeatureCategory string

const (
	CategoryRelief     FeatureCategory = "relief"
	CategoryNatural    FeatureCategory = "natural"
	CategoryArtificial FeatureCategory = "artificial"
	CategoryCultural   FeatureCategory = "cultural"
)

// Per-category payloads. A Feature carries exactly one of these, selected by
// its Category; consumers switch exhaustively on Category rather than
// type-asserting.

// ReliefAttrs describes a landform overlay.
type ReliefAttrs struct {
	HeightDelta float64 // metres added to or carved from the terrain
	Passable    bool
}

// NaturalAttrs describes a living or hydrological overlay.
type NaturalAttrs struct {
	Concealment float64 // 0-1
	Hazardous   bool
}

// ArtificialAttrs describes a built overlay.
type ArtificialAttrs struct {
	Material string
	Intact   bool
}

// CulturalAttrs describes a site of significance.
type CulturalAttrs struct {
	Significance string // shrine, waymark, memorial
}

// Feature is a discrete overlay, independent of the per-tile layer arrays;
// the grid assembly applies features afterwards, consulting the
// compatibility engine when two features overlap.
type Feature struct {
	ID       string
	Category FeatureCategory
	Type     string
	Bounds   Rect
	Priority int

	Relief     *ReliefAttrs
	Natural    *NaturalAttrs
	Artificial *ArtificialAttrs
	Cultural   *CulturalAttrs
}

// featuresConfig holds tuneable parameters for the features stage.
type featuresConfig struct {
	LandmarkChance float64 // per-candidate landmark probability
	MaxLandmarks   int
}

var defaultFeaturesConfig = featuresConfig{
	LandmarkChance: 0.3,
	MaxLandmarks:   4,
}

// generateFeatures derives hazards, resources, landmarks and tactical
// features from every earlier layer. It reads all prior layers and writes
// none of them.
func generateFeatures(bundle *LayerBundle, ctx Context, streams *rng.Coordinated, ids *rng.IDGenerator, cfg featuresConfig) *FeaturesLayer {
	stream := streams.Stream(rng.StreamFeatures)
	landmarkSeed := int64(stream.NextInt(1, rng.SeedMax))

	layer := &FeaturesLayer{}
	collectHazards(layer, bundle, ids)
	collectResources(layer, bundle, ids)
	collectLandmarks(layer, bundle, landmarkSeed, ids, cfg)
	collectTactical(layer, bundle, ids)
	return layer
}

// collectHazards turns dangerous terrain into discrete hazard features:
// geological sinkholes, scree rockfall zones, saturated bogs and pools deep
// enough to flood.
func collectHazards(layer *FeaturesLayer, bundle *LayerBundle, ids *rng.IDGenerator) {
	for _, mf := range bundle.Geology.Features {
		var kind string
		switch mf.Type {
		case "sinkhole":
			kind = "sinkhole"
		case "scree":
			kind = "rockfall"
		default:
			continue
		}
		layer.Hazards = append(layer.Hazards, Feature{
			ID:       ids.Next("hazard"),
			Category: CategoryNatural,
			Type:     kind,
			Bounds:   Rect{X: mf.Pos.X, Y: mf.Pos.Y, W: 1, H: 1},
			Priority: 4,
			Natural:  &NaturalAttrs{Hazardous: true},
		})
	}
	width, height := bundle.Width, bundle.Height
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			h := bundle.Hydrology.Tiles[tileIndex(width, x, y)]
			switch {
			case h.IsPool && h.WaterDepth >= 0.3:
				layer.Hazards = append(layer.Hazards, Feature{
					ID:       ids.Next("hazard"),
					Category: CategoryNatural,
					Type:     "flood-zone",
					Bounds:   Rect{X: x, Y: y, W: 1, H: 1},
					Priority: 3,
					Natural:  &NaturalAttrs{Hazardous: true},
				})
			case h.Class == MoistureSaturated && h.WaterDepth == 0 &&
				bundle.Vegetation.Tiles[tileIndex(width, x, y)].Type == VegWetland:
				layer.Hazards = append(layer.Hazards, Feature{
					ID:       ids.Next("hazard"),
					Category: CategoryNatural,
					Type:     "bog",
					Bounds:   Rect{X: x, Y: y, W: 1, H: 1},
					Priority: 2,
					Natural:  &NaturalAttrs{Hazardous: true, Concealment: 0.2},
				})
			}
		}
	}
}

// collectResources marks harvestable assets: timber at large forest
// patches, quarries and ore where bare resistant rock is exposed, herbs at
// clearing centres.
func collectResources(layer *FeaturesLayer, bundle *LayerBundle, ids *rng.IDGenerator) {
	for _, p := range bundle.Vegetation.ForestPatches {
		if len(p.Tiles) < 20 {
			continue
		}
		c := p.Tiles[len(p.Tiles)/2]
		layer.Resources = append(layer.Resources, Feature{
			ID:       ids.Next("resource"),
			Category: CategoryNatural,
			Type:     "timber-stand",
			Bounds:   Rect{X: c.X, Y: c.Y, W: 1, H: 1},
			Priority: 1,
			Natural:  &NaturalAttrs{Concealment: 0.4},
		})
	}
	width, height := bundle.Width, bundle.Height
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			g := bundle.Geology.Tiles[tileIndex(width, x, y)]
			if g.SoilDepth >= 0.3 {
				continue
			}
			switch {
			case (g.Formation == RockGranite || g.Formation == RockBasalt) && g.FractureIntensity > 0.85:
				layer.Resources = append(layer.Resources, Feature{
					ID:       ids.Next("resource"),
					Category: CategoryNatural,
					Type:     "ore-vein",
					Bounds:   Rect{X: x, Y: y, W: 1, H: 1},
					Priority: 1,
					Natural:  &NaturalAttrs{},
				})
			case (g.Formation == RockLimestone || g.Formation == RockMarble) && g.FractureIntensity < 0.15:
				layer.Resources = append(layer.Resources, Feature{
					ID:       ids.Next("resource"),
					Category: CategoryNatural,
					Type:     "quarry-site",
					Bounds:   Rect{X: x, Y: y, W: 1, H: 1},
					Priority: 1,
					Natural:  &NaturalAttrs{},
				})
			}
		}
	}
	for _, c := range bundle.Vegetation.Clearings {
		layer.Resources = append(layer.Resources, Feature{
			ID:       ids.Next("resource"),
			Category: CategoryNatural,
			Type:     "herb-patch",
			Bounds:   Rect{X: c.Center.X, Y: c.Center.Y, W: 1, H: 1},
			Priority: 1,
			Natural:  &NaturalAttrs{Concealment: 0.1},
		})
	}
}

// collectLandmarks places cultural landmarks: the tallest tree on the map
// becomes an ancient tree, ridge peaks take cairns, and open ground may
// host a standing stone, hash-gated so placement stays order-independent.
func collectLandmarks(layer *FeaturesLayer, bundle *LayerBundle, seed int64, ids *rng.IDGenerator, cfg featuresConfig) {
	if len(bundle.Vegetation.Trees) > 0 {
		best := 0
		for i, t := range bundle.Vegetation.Trees {
			if t.Height > bundle.Vegetation.Trees[best].Height {
				best = i
			}
		}
		t := bundle.Vegetation.Trees[best]
		layer.Landmarks = append(layer.Landmarks, Feature{
			ID:       ids.Next("landmark"),
			Category: CategoryCultural,
			Type:     "ancient-tree",
			Bounds:   Rect{X: t.Pos.X, Y: t.Pos.Y, W: 1, H: 1},
			Priority: 2,
			Cultural: &CulturalAttrs{Significance: "waymark"},
		})
	}

	width, height := bundle.Width, bundle.Height
	placed := 0
	for y := 1; y < height-1 && placed < cfg.MaxLandmarks; y++ {
		for x := 1; x < width-1 && placed < cfg.MaxLandmarks; x++ {
			i := tileIndex(width, x, y)
			t := bundle.Topography.Tiles[i]
			veg := bundle.Vegetation.Tiles[i]
			switch {
			case t.IsRidge && tileHash01(x, y, seed, 0xc1) < cfg.LandmarkChance:
				layer.Landmarks = append(layer.Landmarks, Feature{
					ID:       ids.Next("landmark"),
					Category: CategoryCultural,
					Type:     "cairn",
					Bounds:   Rect{X: x, Y: y, W: 1, H: 1},
					Priority: 2,
					Cultural: &CulturalAttrs{Significance: "waymark"},
				})
				placed++
			case veg.Type == VegNone && t.Slope < 5 && tileHash01(x, y, seed, 0xc2) < cfg.LandmarkChance*0.2:
				layer.Landmarks = append(layer.Landmarks, Feature{
					ID:       ids.Next("landmark"),
					Category: CategoryCultural,
					Type:     "standing-stone",
					Bounds:   Rect{X: x, Y: y, W: 1, H: 1},
					Priority: 2,
					Cultural: &CulturalAttrs{Significance: "memorial"},
				})
				placed++
			}
		}
	}
}

// collectTactical derives play-relevant annotations: bridges are choke
// points, high ridges with standing room are overwatch positions, and
// understory thickets give concealment.
func collectTactical(layer *FeaturesLayer, bundle *LayerBundle, ids *rng.IDGenerator) {
	for _, b := range bundle.Structures.Bridges {
		layer.TacticalFeatures = append(layer.TacticalFeatures, Feature{
			ID:         ids.Next("tactical"),
			Category:   CategoryArtificial,
			Type:       "choke-point",
			Bounds:     Rect{X: b.Pos.X, Y: b.Pos.Y, W: 1, H: 1},
			Priority:   3,
			Artificial: &ArtificialAttrs{Material: b.Material, Intact: true},
		})
	}
	width, height := bundle.Width, bundle.Height
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := tileIndex(width, x, y)
			t := bundle.Topography.Tiles[i]
			veg := bundle.Vegetation.Tiles[i]
			switch {
			case t.IsRidge && t.Slope < 15 && veg.Density == CanopyNone:
				layer.TacticalFeatures = append(layer.TacticalFeatures, Feature{
					ID:       ids.Next("tactical"),
					Category: CategoryRelief,
					Type:     "overwatch",
					Bounds:   Rect{X: x, Y: y, W: 1, H: 1},
					Priority: 2,
					Relief:   &ReliefAttrs{HeightDelta: 0, Passable: true},
				})
			case veg.HasUnderstory && veg.Density == CanopyDense:
				layer.TacticalFeatures = append(layer.TacticalFeatures, Feature{
					ID:       ids.Next("tactical"),
					Category: CategoryNatural,
					Type:     "concealment",
					Bounds:   Rect{X: x, Y: y, W: 1, H: 1},
					Priority: 1,
					Natural:  &NaturalAttrs{Concealment: 0.6},
				})
			}
		}
	}
}
