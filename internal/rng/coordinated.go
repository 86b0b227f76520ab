package rng

// Stream labels used by the generation pipeline. Each concern draws from its
// own sub-stream so consuming extra values in one stage never shifts the
// sequence seen by another.
const (
	StreamTerrain   = "terrain"
	StreamElevation = "elevation"
	StreamForests   = "forests"
	StreamRivers    = "rivers"
	StreamRoads     = "roads"
	StreamBuildings = "buildings"
	StreamFeatures  = "features"
	StreamIDs       = "ids"
)

// Coordinated owns one master stream and a set of named sub-streams, all
// derived from a single master seed. Sub-streams are created lazily; a
// stream's seed depends only on (masterSeed, name), never on which other
// streams exist or how much they have been consumed.
type Coordinated struct {
	masterSeed int64
	master     *LCG
	streams    map[string]*LCG
}

// NewCoordinated builds the stream hierarchy for a master seed. The seed is
// normalized on the way in.
func NewCoordinated(masterSeed int64) *Coordinated {
	s, _ := NormalizeSeed(masterSeed)
	return &Coordinated{
		masterSeed: s,
		master:     NewLCG(s),
		streams:    make(map[string]*LCG),
	}
}

// MasterSeed returns the normalized master seed.
func (c *Coordinated) MasterSeed() int64 {
	return c.masterSeed
}

// Master returns the master stream.
func (c *Coordinated) Master() *LCG {
	return c.master
}

// Stream returns the named sub-stream, creating it on first use.
func (c *Coordinated) Stream(name string) *LCG {
	if g, ok := c.streams[name]; ok {
		return g
	}
	g := NewLCG(SubSeed(c.masterSeed, name))
	c.streams[name] = g
	return g
}

// StreamSeed reports the seed a named sub-stream starts from, without
// creating or advancing the stream.
func (c *Coordinated) StreamSeed(name string) int64 {
	return SubSeed(c.masterSeed, name)
}
