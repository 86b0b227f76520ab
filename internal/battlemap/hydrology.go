package battlemap

import (
	"math"
	"sort"

	"github.com/nottu2584/lazy-map-sub003/internal/rng"
)

// hydrologyConfig holds tuneable parameters for the water stage.
type hydrologyConfig struct {
	StreamThreshold  float64 // accumulation fraction of map area that starts a stream
	SpringChance     float64 // per-candidate-tile spring probability
	MaxSprings       int     // hard cap per map
	PoolMoistureMin  float64 // accumulated moisture needed to fill a depression
	MoistureDecay    float64 // tiles over which moisture halves away from water
	PermeabilityWet  float64 // permeability below which ground holds water
}

var defaultHydrologyConfig = hydrologyConfig{
	StreamThreshold: 0.02,
	SpringChance:    0.05,
	MaxSprings:      6,
	PoolMoistureMin: 0.55,
	MoistureDecay:   6.0,
	PermeabilityWet: 0.4,
}

// biomeWetness biases the moisture field per biome.
func biomeWetness(b Biome) float64 {
	switch b {
	case BiomeSwamp:
		return 0.35
	case BiomeCoast:
		return 0.2
	case BiomeForest:
		return 0.12
	case BiomeGrassland:
		return 0.05
	case BiomeTundra:
		return 0.08
	case BiomeMountain:
		return 0.05
	case BiomeDesert:
		return -0.2
	default:
		return 0
	}
}

// d8Offsets are the eight neighbour directions used for flow routing.
var d8Offsets = [8][2]int{
	{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1},
}

// generateHydrology routes flow over the topography via D8 steepest
// descent, accumulates flow into streams, seeds springs on tight rock above
// the median elevation, fills depressions into pools, and derives per-tile
// moisture as a decay function of distance to water.
func generateHydrology(topo *TopographyLayer, geo *GeologyLayer, ctx Context, streams *rng.Coordinated, ids *rng.IDGenerator, cfg hydrologyConfig) *HydrologyLayer {
	width, height := topo.Width, topo.Height
	n := width * height
	stream := streams.Stream(rng.StreamRivers)
	springSeed := int64(stream.NextInt(1, rng.SeedMax))

	layer := &HydrologyLayer{
		Width:  width,
		Height: height,
		Tiles:  make([]HydrologyTile, n),
	}

	// Flow direction: index of the steepest lower neighbour, -1 for pits.
	flowTo := make([]int, n)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := tileIndex(width, x, y)
			flowTo[i] = steepestDescent(topo, x, y)
		}
	}

	// Flow accumulation: visit tiles from highest to lowest so every
	// upstream contribution lands before its receiver is read.
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ea := topo.Tiles[order[a]].Elevation
		eb := topo.Tiles[order[b]].Elevation
		if ea != eb {
			return ea > eb
		}
		return order[a] < order[b]
	})
	accum := make([]float64, n)
	for i := range accum {
		accum[i] = 1
	}
	for _, i := range order {
		if flowTo[i] >= 0 {
			accum[flowTo[i]] += accum[i]
		}
	}

	// Springs: low-permeability rock above the median elevation forces
	// groundwater to the surface.
	median := medianElevation(topo)
	elevMin, elevMax := elevationRange(topo)
	for y := 0; y < height && len(layer.Springs) < cfg.MaxSprings; y++ {
		for x := 0; x < width && len(layer.Springs) < cfg.MaxSprings; x++ {
			i := tileIndex(width, x, y)
			g := geo.Tiles[i]
			if g.Permeability > cfg.PermeabilityWet {
				continue
			}
			if topo.Tiles[i].Elevation <= median {
				continue
			}
			if tileHash01(x, y, springSeed, 0x59) >= cfg.SpringChance {
				continue
			}
			layer.Tiles[i].IsSpring = true
			layer.Tiles[i].WaterDepth = 0.1
			layer.Springs = append(layer.Springs, Spring{
				ID:  ids.Next("spring"),
				Pos: Point{X: x, Y: y},
			})
		}
	}

	// Streams: trace polylines from high-accumulation points (and springs)
	// downhill to a map edge or basin.
	threshold := cfg.StreamThreshold * float64(n)
	if threshold < 4 {
		threshold = 4
	}
	sources := collectStreamSources(layer, flowTo, accum, threshold, width, height)
	traced := make([]bool, n)
	for _, src := range sources {
		pts := traceStream(flowTo, traced, src, width)
		if len(pts) < 3 {
			continue
		}
		orderN := streamOrder(accum[src], threshold)
		s := Stream{ID: ids.Next("stream"), Order: orderN, Points: pts}
		layer.Streams = append(layer.Streams, s)
		depth := 0.2 + 0.15*float64(orderN)
		for _, p := range pts {
			t := &layer.Tiles[tileIndex(width, p.X, p.Y)]
			if t.WaterDepth < depth {
				t.WaterDepth = depth
			}
		}
	}

	// Pools: depressions where enough moisture accumulates stand as open
	// water or wetland.
	wetness := biomeWetness(ctx.Biome)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := tileIndex(width, x, y)
			if flowTo[i] >= 0 || layer.Tiles[i].WaterDepth > 0 {
				continue
			}
			pooled := math.Min(1, accum[i]/threshold)*0.6 + wetness
			if pooled < cfg.PoolMoistureMin {
				continue
			}
			layer.Tiles[i].IsPool = true
			layer.Tiles[i].WaterDepth = 0.3
		}
	}

	computeMoisture(layer, topo, geo, wetness, elevMin, elevMax, cfg)
	return layer
}

// steepestDescent returns the flat index of the lowest strictly-lower
// neighbour of (x,y), or -1 when the tile is a pit or flat.
func steepestDescent(topo *TopographyLayer, x, y int) int {
	here := topo.At(x, y).Elevation
	best := -1
	bestDrop := 0.0
	for _, d := range d8Offsets {
		nx, ny := x+d[0], y+d[1]
		if nx < 0 || nx >= topo.Width || ny < 0 || ny >= topo.Height {
			continue
		}
		drop := here - topo.At(nx, ny).Elevation
		// Diagonals cover more ground for the same drop.
		if d[0] != 0 && d[1] != 0 {
			drop /= math.Sqrt2
		}
		if drop > bestDrop {
			bestDrop = drop
			best = tileIndex(topo.Width, nx, ny)
		}
	}
	return best
}

// collectStreamSources returns source tiles in deterministic row-major
// order: spring tiles first, then accumulation peaks past the threshold
// whose upstream side is below threshold (so each channel starts once).
func collectStreamSources(layer *HydrologyLayer, flowTo []int, accum []float64, threshold float64, width, height int) []int {
	var sources []int
	seen := make([]bool, len(accum))
	for _, sp := range layer.Springs {
		i := tileIndex(width, sp.Pos.X, sp.Pos.Y)
		sources = append(sources, i)
		seen[i] = true
	}
	// Receivers above threshold whose every upstream contributor is below
	// it mark where channelized flow begins.
	inflowMax := make([]float64, len(accum))
	for i, to := range flowTo {
		if to >= 0 && accum[i] > inflowMax[to] {
			inflowMax[to] = accum[i]
		}
	}
	for i := range accum {
		if seen[i] || accum[i] < threshold || inflowMax[i] >= threshold {
			continue
		}
		sources = append(sources, i)
	}
	return sources
}

// traceStream follows flow direction from src to a map edge or basin,
// stopping if it merges into an already-traced channel.
func traceStream(flowTo []int, traced []bool, src, width int) []Point {
	var pts []Point
	i := src
	for i >= 0 && !traced[i] {
		traced[i] = true
		pts = append(pts, Point{X: i % width, Y: i / width})
		i = flowTo[i]
	}
	if i >= 0 {
		// Join point with the channel we merged into.
		pts = append(pts, Point{X: i % width, Y: i / width})
	}
	return pts
}

// streamOrder buckets accumulation into a small Strahler-like order.
func streamOrder(accumulation, threshold float64) int {
	order := 1
	for accumulation > threshold*4 && order < 5 {
		accumulation /= 4
		order++
	}
	return order
}

// computeMoisture fills per-tile moisture from distance to the nearest
// water tile (exponential decay), relative elevation and rock permeability,
// then buckets it into the six moisture classes.
func computeMoisture(layer *HydrologyLayer, topo *TopographyLayer, geo *GeologyLayer, wetness, elevMin, elevMax float64, cfg hydrologyConfig) {
	width, height := layer.Width, layer.Height
	dist := waterDistanceField(layer)
	elevSpan := elevMax - elevMin
	if elevSpan <= 0 {
		elevSpan = 1
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := tileIndex(width, x, y)
			t := &layer.Tiles[i]

			waterTerm := math.Exp(-float64(dist[i]) / cfg.MoistureDecay)
			relElev := (topo.Tiles[i].Elevation - elevMin) / elevSpan
			elevTerm := (1 - relElev) * 0.25
			permTerm := (1 - geo.Tiles[i].Permeability) * 0.15

			m := 0.55*waterTerm + elevTerm + permTerm + wetness
			if t.WaterDepth > 0 {
				m = 1
			}
			t.Moisture = clamp01(m)
			t.Class = classifyMoisture(t.Moisture)
		}
	}
}

// waterDistanceField is a multi-source BFS from every water tile, in tile
// steps (8-connected). Tiles on maps with no water at all sit at a large
// sentinel distance.
func waterDistanceField(layer *HydrologyLayer) []int {
	n := layer.Width * layer.Height
	dist := make([]int, n)
	queue := make([]int, 0, n)
	for i := range dist {
		if layer.Tiles[i].WaterDepth > 0 {
			dist[i] = 0
			queue = append(queue, i)
		} else {
			dist[i] = 1 << 20
		}
	}
	for head := 0; head < len(queue); head++ {
		i := queue[head]
		x, y := i%layer.Width, i/layer.Width
		for _, d := range d8Offsets {
			nx, ny := x+d[0], y+d[1]
			if nx < 0 || nx >= layer.Width || ny < 0 || ny >= layer.Height {
				continue
			}
			j := tileIndex(layer.Width, nx, ny)
			if dist[j] > dist[i]+1 {
				dist[j] = dist[i] + 1
				queue = append(queue, j)
			}
		}
	}
	return dist
}

// classifyMoisture buckets a 0-1 moisture value into the six named classes.
func classifyMoisture(m float64) MoistureClass {
	switch {
	case m < 0.12:
		return MoistureArid
	case m < 0.3:
		return MoistureDry
	case m < 0.5:
		return MoistureModerate
	case m < 0.7:
		return MoistureMoist
	case m < 0.9:
		return MoistureWet
	default:
		return MoistureSaturated
	}
}

func medianElevation(topo *TopographyLayer) float64 {
	elevs := make([]float64, len(topo.Tiles))
	for i, t := range topo.Tiles {
		elevs[i] = t.Elevation
	}
	sort.Float64s(elevs)
	return elevs[len(elevs)/2]
}

func elevationRange(topo *TopographyLayer) (lo, hi float64) {
	lo, hi = topo.Tiles[0].Elevation, topo.Tiles[0].Elevation
	for _, t := range topo.Tiles {
		if t.Elevation < lo {
			lo = t.Elevation
		}
		if t.Elevation > hi {
			hi = t.Elevation
		}
	}
	return lo, hi
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
