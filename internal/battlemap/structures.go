package battlemap

import (
	"sort"

	"github.com/nottu2584/lazy-map-sub003/internal/rng"
)

// structuresConfig holds tuneable parameters for the structures stage.
type structuresConfig struct {
	MaxSlope        float64 // degrees above which a tile is unbuildable
	FlatSlope       float64 // degrees below which the flatness bonus applies
	WaterBonusRange int     // tiles within which nearby water scores a bonus
	RoadWidth       int
	SideRoadWidth   int
	DecorationScale float64 // noise scale for the decoration field
	DecorationMin   float64 // noise threshold for placing a decoration
}

var defaultStructuresConfig = structuresConfig{
	MaxSlope:        35,
	FlatSlope:       5,
	WaterBonusRange: 3,
	RoadWidth:       2,
	SideRoadWidth:   1,
	DecorationScale: 0.15,
	DecorationMin:   0.7,
}

// buildingTemplate pairs a footprint with a structure kind.
type buildingTemplate struct {
	Kind string
	W, H int
}

var buildingTemplates = []buildingTemplate{
	{"house", 3, 3},
	{"house", 3, 4},
	{"barn", 4, 5},
	{"hall", 5, 4},
	{"watchtower", 2, 2},
}

// siteCandidate is one scored prospective building anchor.
type siteCandidate struct {
	Pos     Point
	Quality float64
}

// generateStructures places buildings on scored sites, lays a road network
// between them, inserts bridges where roads cross open water, and scatters
// decorative structures. At the wilderness development level the layer stays
// empty: no buildings, roads or decorations.
func generateStructures(veg *VegetationLayer, hydro *HydrologyLayer, topo *TopographyLayer, ctx Context, streams *rng.Coordinated, ids *rng.IDGenerator, cfg structuresConfig) *StructuresLayer {
	width, height := topo.Width, topo.Height
	layer := &StructuresLayer{Width: width, Height: height}

	wanted := developmentBuildingCount(ctx.Development, width, height)
	if wanted > 0 {
		placeBuildings(layer, veg, hydro, topo, ctx, streams, ids, cfg, wanted)
	}
	if len(layer.Buildings) > 0 {
		layRoads(layer, hydro, streams, ids, cfg)
		placeDecorations(layer, veg, ctx, streams, ids, cfg)
	}
	return layer
}

// tileBuildable rejects tiles that are flooded, too steep or under dense
// canopy.
func tileBuildable(veg *VegetationLayer, hydro *HydrologyLayer, topo *TopographyLayer, x, y int, cfg structuresConfig) bool {
	i := tileIndex(topo.Width, x, y)
	if hydro.Tiles[i].WaterDepth > 0 {
		return false
	}
	if topo.Tiles[i].Slope > cfg.MaxSlope {
		return false
	}
	if veg.Tiles[i].Density == CanopyDense {
		return false
	}
	return true
}

// scoreSite scores a buildable anchor tile. Survivors of the rejection
// checks start level and collect bonuses: +0.3 inside a clearing, +0.2 when
// nearly flat, +0.2 with water in reach.
func scoreSite(veg *VegetationLayer, hydro *HydrologyLayer, topo *TopographyLayer, x, y int, cfg structuresConfig) float64 {
	i := tileIndex(topo.Width, x, y)
	score := 0.3

	for _, c := range veg.Clearings {
		dx, dy := x-c.Center.X, y-c.Center.Y
		if dx*dx+dy*dy <= c.Radius*c.Radius {
			score += 0.3
			break
		}
	}
	if topo.Tiles[i].Slope < cfg.FlatSlope {
		score += 0.2
	}
	if waterWithin(hydro, x, y, cfg.WaterBonusRange) {
		score += 0.2
	}
	return score
}

// waterWithin reports open water within r tiles (Chebyshev) of (x,y).
func waterWithin(hydro *HydrologyLayer, x, y, r int) bool {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			nx, ny := x+dx, y+dy
			if nx < 0 || nx >= hydro.Width || ny < 0 || ny >= hydro.Height {
				continue
			}
			if hydro.Tiles[tileIndex(hydro.Width, nx, ny)].WaterDepth > 0 {
				return true
			}
		}
	}
	return false
}

// rankSites scores every buildable anchor and returns candidates sorted by
// descending quality; ties break on position so the ranking is stable.
func rankSites(veg *VegetationLayer, hydro *HydrologyLayer, topo *TopographyLayer, cfg structuresConfig) []siteCandidate {
	var sites []siteCandidate
	for y := 1; y < topo.Height-1; y++ {
		for x := 1; x < topo.Width-1; x++ {
			if !tileBuildable(veg, hydro, topo, x, y, cfg) {
				continue
			}
			sites = append(sites, siteCandidate{
				Pos:     Point{X: x, Y: y},
				Quality: scoreSite(veg, hydro, topo, x, y, cfg),
			})
		}
	}
	sort.SliceStable(sites, func(a, b int) bool {
		if sites[a].Quality != sites[b].Quality {
			return sites[a].Quality > sites[b].Quality
		}
		if sites[a].Pos.Y != sites[b].Pos.Y {
			return sites[a].Pos.Y < sites[b].Pos.Y
		}
		return sites[a].Pos.X < sites[b].Pos.X
	})
	return sites
}

// footprintBuildable confirms the whole prospective building block fits and
// every tile in it survives the rejection checks.
func footprintBuildable(veg *VegetationLayer, hydro *HydrologyLayer, topo *TopographyLayer, r Rect, cfg structuresConfig) bool {
	if r.X < 1 || r.Y < 1 || r.X+r.W >= topo.Width-1 || r.Y+r.H >= topo.Height-1 {
		return false
	}
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			if !tileBuildable(veg, hydro, topo, x, y, cfg) {
				return false
			}
		}
	}
	return true
}

// placeBuildings consumes the ranked site list until the development-driven
// count is met, skipping footprints that overlap earlier placements.
func placeBuildings(layer *StructuresLayer, veg *VegetationLayer, hydro *HydrologyLayer, topo *TopographyLayer, ctx Context, streams *rng.Coordinated, ids *rng.IDGenerator, cfg structuresConfig, wanted int) {
	stream := streams.Stream(rng.StreamBuildings)
	sites := rankSites(veg, hydro, topo, cfg)

	for _, site := range sites {
		if len(layer.Buildings) >= wanted {
			break
		}
		tpl := buildingTemplates[stream.ChoiceIndex(len(buildingTemplates))]
		footprint := Rect{X: site.Pos.X, Y: site.Pos.Y, W: tpl.W, H: tpl.H}
		if !footprintBuildable(veg, hydro, topo, footprint, cfg) {
			continue
		}
		// Keep a one-tile gap between buildings.
		grown := Rect{X: footprint.X - 1, Y: footprint.Y - 1, W: footprint.W + 2, H: footprint.H + 2}
		overlap := false
		for _, b := range layer.Buildings {
			if grown.Overlaps(b.Bounds) {
				overlap = true
				break
			}
		}
		if overlap {
			continue
		}
		layer.Buildings = append(layer.Buildings, Building{
			ID:        ids.Next("building"),
			Bounds:    footprint,
			Kind:      tpl.Kind,
			Material:  buildingMaterial(ctx, stream),
			Condition: buildingCondition(ctx.Development, stream),
			Quality:   site.Quality,
		})
	}
}

// buildingMaterial picks a construction material weighted by context.
func buildingMaterial(ctx Context, stream *rng.LCG) string {
	switch ctx.Biome {
	case BiomeForest, BiomeSwamp:
		if stream.NextBool(0.75) {
			return "timber"
		}
		return "stone"
	case BiomeMountain, BiomeTundra:
		if stream.NextBool(0.8) {
			return "stone"
		}
		return "timber"
	case BiomeDesert:
		if stream.NextBool(0.7) {
			return "adobe"
		}
		return "stone"
	default:
		if stream.NextBool(0.5) {
			return "timber"
		}
		return "stone"
	}
}

// buildingCondition derives structural condition from development level.
// Ruins always force a degraded state.
func buildingCondition(dev DevelopmentLevel, stream *rng.LCG) string {
	if dev == DevRuins {
		if stream.NextBool(0.6) {
			return "ruined"
		}
		return "degraded"
	}
	switch {
	case stream.NextBool(0.6):
		return "intact"
	case stream.NextBool(0.7):
		return "worn"
	default:
		return "degraded"
	}
}

// layRoads connects buildings with grid-aligned polyline roads: each
// building links to the road network anchor (the first building's door),
// and the network reaches the nearest map edge. Bridges appear wherever a
// road tile crosses open water.
func layRoads(layer *StructuresLayer, hydro *HydrologyLayer, streams *rng.Coordinated, ids *rng.IDGenerator, cfg structuresConfig) {
	stream := streams.Stream(rng.StreamRoads)
	if len(layer.Buildings) == 0 {
		return
	}

	anchor := doorPoint(layer.Buildings[0].Bounds)

	// Trunk road: anchor to the nearest edge, jittered choice between the
	// two closest edges so maps don't all exit the same way.
	edge := nearestEdgePoint(anchor, layer.Width, layer.Height, stream)
	trunk := lShapedPath(anchor, edge, stream.NextBool(0.5))
	addRoad(layer, hydro, ids, trunk, cfg.RoadWidth, "packed-earth")

	// Spurs: every further building joins the anchor.
	for _, b := range layer.Buildings[1:] {
		from := doorPoint(b.Bounds)
		spur := lShapedPath(from, anchor, stream.NextBool(0.5))
		addRoad(layer, hydro, ids, spur, cfg.SideRoadWidth, "dirt")
	}
}

// doorPoint is the tile just south of a building footprint's centre.
func doorPoint(r Rect) Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H}
}

// nearestEdgePoint projects p onto the closest map edge, with the choice
// randomized between horizontal and vertical exits when both are close.
func nearestEdgePoint(p Point, width, height int, stream *rng.LCG) Point {
	dLeft, dRight := p.X, width-1-p.X
	dTop, dBottom := p.Y, height-1-p.Y
	horiz := minInt(dLeft, dRight) <= minInt(dTop, dBottom)
	if stream.NextBool(0.3) {
		horiz = !horiz
	}
	if horiz {
		if dLeft <= dRight {
			return Point{X: 0, Y: p.Y}
		}
		return Point{X: width - 1, Y: p.Y}
	}
	if dTop <= dBottom {
		return Point{X: p.X, Y: 0}
	}
	return Point{X: p.X, Y: height - 1}
}

// lShapedPath joins two points with one horizontal and one vertical run.
func lShapedPath(a, b Point, horizontalFirst bool) []Point {
	var pts []Point
	if horizontalFirst {
		pts = appendLine(pts, a, Point{X: b.X, Y: a.Y})
		pts = appendLine(pts, Point{X: b.X, Y: a.Y}, b)
	} else {
		pts = appendLine(pts, a, Point{X: a.X, Y: b.Y})
		pts = appendLine(pts, Point{X: a.X, Y: b.Y}, b)
	}
	return pts
}

// appendLine appends the axis-aligned tiles from a to b inclusive, skipping
// a duplicate join point.
func appendLine(pts []Point, a, b Point) []Point {
	stepX := signInt(b.X - a.X)
	stepY := signInt(b.Y - a.Y)
	p := a
	if len(pts) > 0 && pts[len(pts)-1] == a {
		p = Point{X: a.X + stepX, Y: a.Y + stepY}
	}
	for {
		pts = append(pts, p)
		if p == b {
			return pts
		}
		p = Point{X: p.X + stepX, Y: p.Y + stepY}
	}
}

// addRoad records a road segment and inserts a bridge on every water tile
// the segment crosses.
func addRoad(layer *StructuresLayer, hydro *HydrologyLayer, ids *rng.IDGenerator, pts []Point, width int, material string) {
	if len(pts) < 2 {
		return
	}
	seg := RoadSegment{
		ID:       ids.Next("road"),
		Points:   pts,
		Width:    width,
		Material: material,
	}
	layer.Roads = append(layer.Roads, seg)
	for _, p := range pts {
		if p.X < 0 || p.X >= hydro.Width || p.Y < 0 || p.Y >= hydro.Height {
			continue
		}
		if hydro.Tiles[tileIndex(hydro.Width, p.X, p.Y)].WaterDepth > 0 {
			layer.Bridges = append(layer.Bridges, Bridge{
				ID:       ids.Next("bridge"),
				Pos:      p,
				Material: "timber",
			})
		}
	}
}

// placeDecorations scatters wells and shrines near buildings and clearings
// via a noise-thresholded proximity rule. Wilderness maps never reach here;
// they have no buildings.
func placeDecorations(layer *StructuresLayer, veg *VegetationLayer, ctx Context, streams *rng.Coordinated, ids *rng.IDGenerator, cfg structuresConfig) {
	if ctx.Development == DevWilderness {
		return
	}
	stream := streams.Stream(rng.StreamBuildings)
	decoSeed := int64(stream.NextInt(1, rng.SeedMax))

	anchors := make([]Point, 0, len(layer.Buildings)+len(veg.Clearings))
	for _, b := range layer.Buildings {
		anchors = append(anchors, doorPoint(b.Bounds))
	}
	for _, c := range veg.Clearings {
		anchors = append(anchors, c.Center)
	}

	for _, a := range anchors {
		for dy := -2; dy <= 2; dy++ {
			for dx := -2; dx <= 2; dx++ {
				x, y := a.X+dx, a.Y+dy
				if x < 0 || x >= layer.Width || y < 0 || y >= layer.Height {
					continue
				}
				nv := valueNoise2D(float64(x)*cfg.DecorationScale, float64(y)*cfg.DecorationScale, decoSeed)
				if nv < cfg.DecorationMin {
					continue
				}
				if decorationOccupied(layer, x, y) {
					continue
				}
				kind := "well"
				if tileHash01(x, y, decoSeed, 0x9a) > 0.5 {
					kind = "shrine"
				}
				layer.Decorations = append(layer.Decorations, Decoration{
					ID:   ids.Next("decoration"),
					Type: kind,
					Pos:  Point{X: x, Y: y},
				})
			}
		}
	}
}

// decorationOccupied rejects decoration tiles already claimed by a building
// footprint or another decoration.
func decorationOccupied(layer *StructuresLayer, x, y int) bool {
	for _, b := range layer.Buildings {
		if b.Bounds.Contains(x, y) {
			return true
		}
	}
	for _, d := range layer.Decorations {
		if d.Pos.X == x && d.Pos.Y == y {
			return true
		}
	}
	return false
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func signInt(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
