package rng

import "fmt"

// IDGenerator issues reproducible entity identifiers of the form
// "<kind>-<n>-<suffix>": a per-kind sequential counter plus a random suffix
// drawn from the "ids" sub-stream. Two generators built over the same master
// seed hand out identical ID sequences for identical request orders.
type IDGenerator struct {
	stream   *LCG
	counters map[string]int
}

// NewIDGenerator creates an ID generator over the given coordinated streams.
func NewIDGenerator(c *Coordinated) *IDGenerator {
	return &IDGenerator{
		stream:   c.Stream(StreamIDs),
		counters: make(map[string]int),
	}
}

// Next returns the next identifier for an entity kind ("tree", "building",
// "stream", ...).
func (g *IDGenerator) Next(kind string) string {
	g.counters[kind]++
	suffix := g.stream.NextInt(1000, 9999)
	return fmt.Sprintf("%s-%d-%d", kind, g.counters[kind], suffix)
}

// Count reports how many IDs have been issued for a kind.
func (g *IDGenerator) Count(kind string) int {
	return g.counters[kind]
}
