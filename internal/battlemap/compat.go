package battlemap

import "github.com/nottu2584/lazy-map-sub003/internal/rng"

// CompatLevel orders how well two overlapping features coexist on a tile.
type CompatLevel int

const (
	Incompatible CompatLevel = iota
	Neutral
	Compatible
	Synergistic
)

func (l CompatLevel) String() string {
	switch l {
	case Incompatible:
		return "incompatible"
	case Neutral:
		return "neutral"
	case Compatible:
		return "compatible"
	case Synergistic:
		return "synergistic"
	default:
		return "unknown"
	}
}

// Aspect names one dimension of a feature interaction: which feature's
// identity shows through for that dimension.
type Aspect string

const (
	AspectTerrain  Aspect = "terrain"
	AspectHeight   Aspect = "height"
	AspectMovement Aspect = "movement"
	AspectBlocking Aspect = "blocking"
	AspectVisual   Aspect = "visual"
)

var allAspects = []Aspect{AspectTerrain, AspectHeight, AspectMovement, AspectBlocking, AspectVisual}

// BlendMode selects how two features' heights combine.
type BlendMode string

const (
	BlendAdd      BlendMode = "add"
	BlendAverage  BlendMode = "average"
	BlendMax      BlendMode = "max"
	BlendDominant BlendMode = "dominant"
)

// pairKey is an unordered pair of type names.
type pairKey struct {
	a, b string
}

func makePair(a, b string) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{a: a, b: b}
}

// typePairLevels pins the specific (type, type) compatibility entries. The
// table is consulted before the category fallback; anything listed nowhere
// is neutral.
var typePairLevels = map[pairKey]CompatLevel{
	makePair("mountain", "forest"): Synergistic,
	makePair("valley", "river"):    Synergistic,
	makePair("river", "bridge"):    Synergistic,
	makePair("hill", "watchtower"): Synergistic,
	makePair("clearing", "shrine"): Compatible,
	makePair("forest", "trail"):    Compatible,
	makePair("ridge", "cairn"):     Compatible,
	makePair("cliff", "road"):      Incompatible,
	makePair("river", "building"):  Incompatible,
	makePair("lake", "building"):   Incompatible,
	makePair("cliff", "building"):  Incompatible,
	makePair("sinkhole", "road"):   Incompatible,
	makePair("bog", "building"):    Incompatible,
	makePair("flood-zone", "road"): Incompatible,
	makePair("marsh", "road"):      Incompatible,
	makePair("scree", "road"):      Incompatible,
}

// categoryPairLevels is the coarse fallback keyed by category pair.
var categoryPairLevels = map[pairKey]CompatLevel{
	makePair(string(CategoryRelief), string(CategoryNatural)):      Compatible,
	makePair(string(CategoryCultural), string(CategoryArtificial)): Compatible,
}

// Interaction is the resolved outcome of two overlapping features.
type Interaction struct {
	Level       CompatLevel
	Coexist     bool              // false: only the dominant feature renders
	DominantID  string            // winner when not coexisting
	AspectOwner map[Aspect]string // feature ID owning each aspect
	HeightBlend BlendMode
}

// CompatibilityEngine resolves overlaps between discrete features. Mixing
// is probabilistic: even a compatible pair only blends when the mixing roll
// passes; incompatible pairs never coexist.
type CompatibilityEngine struct {
	mixProbability float64
}

// NewCompatibilityEngine creates an engine with the given mixing
// probability, clamped to [0,1].
func NewCompatibilityEngine(mixProbability float64) *CompatibilityEngine {
	return &CompatibilityEngine{mixProbability: clamp01(mixProbability)}
}

// Level returns the compatibility classification for two features: the
// specific type pair if listed, else the category pair, else Neutral.
func (e *CompatibilityEngine) Level(a, b Feature) CompatLevel {
	if lvl, ok := typePairLevels[makePair(a.Type, b.Type)]; ok {
		return lvl
	}
	if lvl, ok := categoryPairLevels[makePair(string(a.Category), string(b.Category))]; ok {
		return lvl
	}
	return Neutral
}

// Resolve decides how two overlapping features combine. The higher-priority
// feature is the dominance baseline; ties break on ID so resolution is
// deterministic.
func (e *CompatibilityEngine) Resolve(a, b Feature, stream *rng.LCG) Interaction {
	lvl := e.Level(a, b)
	dom, sub := a, b
	if b.Priority > a.Priority || (b.Priority == a.Priority && b.ID < a.ID) {
		dom, sub = b, a
	}

	in := Interaction{
		Level:       lvl,
		DominantID:  dom.ID,
		AspectOwner: make(map[Aspect]string, len(allAspects)),
	}

	if lvl == Incompatible || !stream.NextBool(e.mixProbability) {
		// Dominant-only: one identity, no blending.
		in.Coexist = false
		in.HeightBlend = BlendDominant
		for _, asp := range allAspects {
			in.AspectOwner[asp] = dom.ID
		}
		return in
	}

	in.Coexist = true
	switch lvl {
	case Synergistic:
		in.HeightBlend = BlendAdd
	case Compatible:
		in.HeightBlend = BlendMax
	default:
		in.HeightBlend = BlendAverage
	}

	// The dominant feature keeps the structural aspects; the subordinate
	// one shows through visually and, for natural overlays, on terrain.
	in.AspectOwner[AspectHeight] = dom.ID
	in.AspectOwner[AspectMovement] = dom.ID
	in.AspectOwner[AspectBlocking] = dom.ID
	in.AspectOwner[AspectVisual] = sub.ID
	if sub.Category == CategoryNatural {
		in.AspectOwner[AspectTerrain] = sub.ID
	} else {
		in.AspectOwner[AspectTerrain] = dom.ID
	}
	return in
}
