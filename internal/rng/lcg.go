// Package rng provides the deterministic randomness infrastructure for map
// generation: a linear congruential generator, named per-concern sub-streams
// derived from a single master seed, and reproducible entity identifiers.
//
// Everything in this package is a pure function of its seed. Two generators
// built from the same seed produce identical sequences forever, which is the
// property the whole map pipeline rests on: a stored (width, height, context,
// seed) tuple fully reconstructs a map.
package rng

// LCG multiplier/increment follow the classic glibc constants; state is
// masked to 31 bits so values stay inside [0, 2^31-1].
const (
	lcgMultiplier = 1103515245
	lcgIncrement  = 12345
	lcgMask       = 0x7fffffff
)

// SeedMax is the largest valid normalized seed value.
const SeedMax = lcgMask // 2^31 - 1

// LCG is a linear congruential generator. The zero value is NOT usable;
// construct with NewLCG so the state is normalized into the valid range.
type LCG struct {
	state int64
}

// NewLCG creates a generator from a seed. The seed is normalized into
// [1, 2^31-1] via NormalizeSeed, so any integer is accepted.
func NewLCG(seed int64) *LCG {
	s, _ := NormalizeSeed(seed)
	return &LCG{state: s}
}

// Next advances the generator and returns a float64 in [0, 1]. The upper
// bound is inclusive: when the state lands on the mask value the quotient is
// exactly 1, so callers deriving indices must clamp.
func (g *LCG) Next() float64 {
	g.state = (g.state*lcgMultiplier + lcgIncrement) & lcgMask
	return float64(g.state) / float64(lcgMask)
}

// NextInt returns a uniformly distributed integer in [min, max] inclusive.
// If max < min the bounds are swapped.
func (g *LCG) NextInt(min, max int) int {
	if max < min {
		min, max = max, min
	}
	span := max - min + 1
	i := int(g.Next() * float64(span))
	if i >= span {
		i = span - 1
	}
	return min + i
}

// NextFloat returns a float64 in [min, max).
func (g *LCG) NextFloat(min, max float64) float64 {
	return min + g.Next()*(max-min)
}

// NextBool returns true with the given probability.
func (g *LCG) NextBool(probability float64) bool {
	return g.Next() < probability
}

// ChoiceIndex returns an index in [0, n), or -1 when n <= 0.
func (g *LCG) ChoiceIndex(n int) int {
	if n <= 0 {
		return -1
	}
	i := int(g.Next() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}

// ChoiceString picks one element of items, or "" when items is empty.
func (g *LCG) ChoiceString(items []string) string {
	i := g.ChoiceIndex(len(items))
	if i < 0 {
		return ""
	}
	return items[i]
}

// Shuffle permutes n elements in place using Fisher-Yates, consuming exactly
// n-1 draws so the stream position stays predictable.
func (g *LCG) Shuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := g.NextInt(0, i)
		swap(i, j)
	}
}

// State exposes the raw generator state. Only tests should need this.
func (g *LCG) State() int64 {
	return g.state
}
