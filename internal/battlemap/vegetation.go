package battlemap

import (
	"math"

	"github.com/nottu2584/lazy-map-sub003/internal/rng"
)

// vegetationConfig holds tuneable parameters for the vegetation stage.
type vegetationConfig struct {
	MaskScale         float64 // noise scale for the forest patch mask
	SmoothingPasses   int     // majority-rule CA passes over the mask
	TreeChance        float64 // base per-tile tree probability inside forest
	OpenTreeChance    float64 // lone-tree probability outside forest
	UnderstoryChance  float64 // understory probability inside forest
	GroundCoverChance float64 // universal low-density ground cover
	SurveyRadius      int     // basal-area survey radius, tiles
	ClearingRingMin   int     // tree tiles required in the outer ring
	ClearingMaxRadius int     // cap on detected clearing radius
	InosculationRate  float64 // chance adjacent same-species trees fuse
}

var defaultVegetationConfig = vegetationConfig{
	MaskScale:         0.07,
	SmoothingPasses:   3,
	TreeChance:        0.4,
	OpenTreeChance:    0.02,
	UnderstoryChance:  0.35,
	GroundCoverChance: 0.08,
	SurveyRadius:      3,
	ClearingRingMin:   5,
	ClearingMaxRadius: 5,
	InosculationRate:  0.12,
}

// Basal-area density bands, in ft² of trunk cross-section per acre. These
// are the forestry survey thresholds the renderer and classifier both key
// off, so they are pinned.
const (
	basalAreaSparse   = 10.0
	basalAreaModerate = 50.0
	basalAreaDense    = 110.0
	squareFeetPerAcre = 43560.0
	tileSideFeet      = 5.0
)

// biomeSpecies lists candidate tree species per biome, primary first.
func biomeSpecies(b Biome) []string {
	switch b {
	case BiomeForest:
		return []string{"oak", "beech", "ash", "holly"}
	case BiomeGrassland:
		return []string{"hawthorn", "oak", "elm"}
	case BiomeDesert:
		return []string{"acacia", "tamarisk"}
	case BiomeMountain:
		return []string{"pine", "fir", "rowan"}
	case BiomeSwamp:
		return []string{"willow", "alder", "cypress"}
	case BiomeTundra:
		return []string{"dwarf-birch", "willow"}
	case BiomeCoast:
		return []string{"pine", "oak", "juniper"}
	default:
		return []string{"oak"}
	}
}

// moistureVegetationFactor scales vegetation potential by moisture class.
// Growth peaks at moist ground and falls off on both the dry and the
// waterlogged end.
func moistureVegetationFactor(c MoistureClass) float64 {
	switch c {
	case MoistureArid:
		return 0.1
	case MoistureDry:
		return 0.45
	case MoistureModerate:
		return 0.8
	case MoistureMoist:
		return 1.0
	case MoistureWet:
		return 0.95
	case MoistureSaturated:
		return 0.7
	default:
		return 0.5
	}
}

// slopeVegetationPenalty damps the potential field on steep ground.
func slopeVegetationPenalty(slopeDeg float64) float64 {
	switch {
	case slopeDeg > 60:
		return 0.1
	case slopeDeg > 40:
		return 0.3
	case slopeDeg > 20:
		return 0.7
	default:
		return 1.0
	}
}

// soilVegetationPenalty damps the potential field over thin soil.
func soilVegetationPenalty(soilDepth float64) float64 {
	switch {
	case soilDepth < 0.5:
		return 0.2
	case soilDepth < 2:
		return 0.6
	default:
		return 1.0
	}
}

// generateVegetation builds the vegetation layer: a potential field, a
// CA-smoothed forest patch mask, hash-gated plant placement, basal-area
// canopy classification and clearing detection.
func generateVegetation(hydro *HydrologyLayer, topo *TopographyLayer, geo *GeologyLayer, ctx Context, streams *rng.Coordinated, ids *rng.IDGenerator, cfg vegetationConfig) *VegetationLayer {
	width, height := topo.Width, topo.Height
	n := width * height
	stream := streams.Stream(rng.StreamForests)
	maskSeed := int64(stream.NextInt(1, rng.SeedMax))
	plantSeed := int64(stream.NextInt(1, rng.SeedMax))

	layer := &VegetationLayer{
		Width:  width,
		Height: height,
		Tiles:  make([]VegetationTile, n),
	}

	// 1. Potential field.
	potential := make([]float64, n)
	base := biomeVegetationBase(ctx.Biome)
	zonePenalty := zoneVegetationPenalty(ctx.Zone)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := tileIndex(width, x, y)
			if hydro.Tiles[i].WaterDepth > 0 {
				potential[i] = 0
				continue
			}
			potential[i] = base *
				moistureVegetationFactor(hydro.Tiles[i].Class) *
				slopeVegetationPenalty(topo.Tiles[i].Slope) *
				soilVegetationPenalty(geo.Tiles[i].SoilDepth) *
				zonePenalty
		}
	}

	// 2. Forest patch mask: thresholded noise biased by potential, then a
	// fixed number of majority-rule smoothing passes.
	targetCoverage := baseVegetationCoverage(ctx.Biome)
	mask := make([]bool, n)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := tileIndex(width, x, y)
			if potential[i] <= 0.3 {
				continue
			}
			nv := valueNoise2D(float64(x)*cfg.MaskScale, float64(y)*cfg.MaskScale, maskSeed)
			threshold := (1 - targetCoverage) - potential[i]*0.3
			mask[i] = nv > threshold
		}
	}
	for p := 0; p < cfg.SmoothingPasses; p++ {
		mask = smoothForestMask(mask, width, height)
	}
	// Water can never carry forest, whatever the smoothing decided.
	for i := range mask {
		if hydro.Tiles[i].WaterDepth > 0 {
			mask[i] = false
		}
	}

	// 3. Plant placement: three independent hash-gated rolls per tile.
	treeAt := make([]int, n) // index into layer.Trees, -1 if none
	for i := range treeAt {
		treeAt[i] = -1
	}
	species := biomeSpecies(ctx.Biome)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := tileIndex(width, x, y)
			t := &layer.Tiles[i]
			t.InPatch = mask[i]
			if hydro.Tiles[i].WaterDepth > 0 {
				continue
			}

			treeP := cfg.OpenTreeChance * potential[i]
			if mask[i] {
				treeP = cfg.TreeChance + 0.3*potential[i]
			}
			if tileHash01(x, y, plantSeed, 0x71) < treeP {
				// One tree per tile at most; properties come from the
				// forests sub-stream in fixed row-major order.
				sp := stream.ChoiceString(species)
				diameter := stream.NextFloat(0.5, 3.0)
				tree := Tree{
					ID:            ids.Next("tree"),
					Pos:           Point{X: x, Y: y},
					Species:       sp,
					TrunkDiameter: diameter,
					Height:        20 + diameter*22 + stream.NextFloat(0, 15),
				}
				treeAt[i] = len(layer.Trees)
				layer.Trees = append(layer.Trees, tree)
				t.HasTree = true
			}
			if mask[i] && tileHash01(x, y, plantSeed, 0x72) < cfg.UnderstoryChance {
				t.HasUnderstory = true
			}
			if tileHash01(x, y, plantSeed, 0x73) < cfg.GroundCoverChance*math.Max(0.25, potential[i]) {
				t.HasGroundCover = true
			}
		}
	}

	// 4. Canopy density from the forestry basal-area survey.
	surveyBasalArea(layer, treeAt, cfg.SurveyRadius)
	classifyVegetation(layer, hydro, treeAt)

	// 5. Clearings, patches, inosculation graph.
	layer.Clearings = detectClearings(layer, treeAt, ids, cfg)
	layer.ForestPatches = collectForestPatches(layer, mask, ids)
	layer.Inosculations = inosculationPairs(layer, treeAt, plantSeed, cfg.InosculationRate)
	return layer
}

// smoothForestMask runs one majority-rule cellular automaton pass over the
// 8-neighbourhood: 5 or more forest neighbours force forest, 2 or fewer
// force open ground, anything between leaves the tile unchanged. Edge tiles
// simply have fewer neighbours.
func smoothForestMask(mask []bool, width, height int) []bool {
	out := make([]bool, len(mask))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := tileIndex(width, x, y)
			count := 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					nx, ny := x+dx, y+dy
					if nx < 0 || nx >= width || ny < 0 || ny >= height {
						continue
					}
					if mask[tileIndex(width, nx, ny)] {
						count++
					}
				}
			}
			switch {
			case count >= 5:
				out[i] = true
			case count <= 2:
				out[i] = false
			default:
				out[i] = mask[i]
			}
		}
	}
	return out
}

// surveyBasalArea computes, for every tile, the ft²/acre basal area of all
// trees within the survey radius: sum of pi*(d/2)^2 per tree, normalized by
// the survey circle's area. This survey metric, not raw tree count, drives
// density classification.
func surveyBasalArea(layer *VegetationLayer, treeAt []int, radius int) {
	width, height := layer.Width, layer.Height
	surveyAreaFt2 := math.Pi * math.Pow(float64(radius)*tileSideFeet, 2)
	r2 := radius * radius
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			total := 0.0
			for dy := -radius; dy <= radius; dy++ {
				for dx := -radius; dx <= radius; dx++ {
					if dx*dx+dy*dy > r2 {
						continue
					}
					nx, ny := x+dx, y+dy
					if nx < 0 || nx >= width || ny < 0 || ny >= height {
						continue
					}
					ti := treeAt[tileIndex(width, nx, ny)]
					if ti < 0 {
						continue
					}
					d := layer.Trees[ti].TrunkDiameter
					total += math.Pi * (d / 2) * (d / 2)
				}
			}
			t := &layer.Tiles[tileIndex(width, x, y)]
			t.BasalArea = total / surveyAreaFt2 * squareFeetPerAcre
			t.Density = classifyBasalArea(t.BasalArea)
		}
	}
}

// classifyBasalArea buckets a ft²/acre value into the pinned density bands.
func classifyBasalArea(ba float64) CanopyDensity {
	switch {
	case ba >= basalAreaDense:
		return CanopyDense
	case ba >= basalAreaModerate:
		return CanopyModerate
	case ba >= basalAreaSparse:
		return CanopySparse
	default:
		return CanopyNone
	}
}

// classifyVegetation assigns every tile a vegetation type, canopy height
// and dominant species from the survey results.
func classifyVegetation(layer *VegetationLayer, hydro *HydrologyLayer, treeAt []int) {
	width, height := layer.Width, layer.Height
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := tileIndex(width, x, y)
			t := &layer.Tiles[i]

			if hydro.Tiles[i].WaterDepth > 0 {
				t.Type = VegNone
				continue
			}
			if hydro.Tiles[i].Class == MoistureSaturated && (t.HasGroundCover || t.HasUnderstory || t.InPatch) {
				t.Type = VegWetland
			} else {
				switch t.Density {
				case CanopyDense:
					t.Type = VegDenseWood
				case CanopyModerate:
					t.Type = VegForest
				case CanopySparse:
					t.Type = VegOpenWood
				default:
					switch {
					case t.HasUnderstory:
						t.Type = VegShrubland
					case t.HasGroundCover:
						t.Type = VegGrass
					default:
						t.Type = VegNone
					}
				}
			}

			// Canopy height and dominant species come from the immediate
			// neighbourhood rather than the wider survey circle.
			best := 0.0
			dominant := ""
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nx, ny := x+dx, y+dy
					if nx < 0 || nx >= width || ny < 0 || ny >= height {
						continue
					}
					ti := treeAt[tileIndex(width, nx, ny)]
					if ti < 0 {
						continue
					}
					tr := layer.Trees[ti]
					if tr.Height > best {
						best = tr.Height
						dominant = tr.Species
					}
				}
			}
			t.CanopyHeight = best
			t.DominantSpecies = dominant
		}
	}
}

// detectClearings finds treeless tiles ringed by forest: a candidate needs
// at least ClearingRingMin tree tiles in the ring at Chebyshev distance 2
// (the inner 3x3 excluded). The clearing radius then grows along 8 sampled
// rays until a ray hits a tree or the cap.
func detectClearings(layer *VegetationLayer, treeAt []int, ids *rng.IDGenerator, cfg vegetationConfig) []Clearing {
	width, height := layer.Width, layer.Height
	var clearings []Clearing
	claimed := make([]bool, width*height)

	for y := 2; y < height-2; y++ {
		for x := 2; x < width-2; x++ {
			i := tileIndex(width, x, y)
			if treeAt[i] >= 0 || claimed[i] {
				continue
			}
			ring := 0
			for dy := -2; dy <= 2; dy++ {
				for dx := -2; dx <= 2; dx++ {
					if dx >= -1 && dx <= 1 && dy >= -1 && dy <= 1 {
						continue // inner 3x3 excluded
					}
					if treeAt[tileIndex(width, x+dx, y+dy)] >= 0 {
						ring++
					}
				}
			}
			if ring < cfg.ClearingRingMin {
				continue
			}

			radius := clearingRadius(layer, treeAt, x, y, cfg.ClearingMaxRadius)
			if radius < 1 {
				continue
			}
			clearings = append(clearings, Clearing{
				ID:     ids.Next("clearing"),
				Center: Point{X: x, Y: y},
				Radius: radius,
			})
			// Claim the clearing's area so overlapping candidates don't
			// produce a pile of duplicates.
			for dy := -radius; dy <= radius; dy++ {
				for dx := -radius; dx <= radius; dx++ {
					nx, ny := x+dx, y+dy
					if nx >= 0 && nx < width && ny >= 0 && ny < height {
						claimed[tileIndex(width, nx, ny)] = true
					}
				}
			}
		}
	}
	return clearings
}

// clearingRadius grows outward along 8 sampled rays until a tree tile stops
// a ray or the cap is reached; the clearing radius is the shortest ray.
func clearingRadius(layer *VegetationLayer, treeAt []int, cx, cy, maxRadius int) int {
	width, height := layer.Width, layer.Height
	shortest := maxRadius
	for _, d := range d8Offsets {
		r := 0
		for r < maxRadius {
			nx, ny := cx+d[0]*(r+1), cy+d[1]*(r+1)
			if nx < 0 || nx >= width || ny < 0 || ny >= height {
				break
			}
			if treeAt[tileIndex(width, nx, ny)] >= 0 {
				break
			}
			r++
		}
		if r < shortest {
			shortest = r
		}
	}
	return shortest
}

// collectForestPatches labels 4-connected components of the forest mask.
func collectForestPatches(layer *VegetationLayer, mask []bool, ids *rng.IDGenerator) []ForestPatch {
	width, height := layer.Width, layer.Height
	visited := make([]bool, width*height)
	var patches []ForestPatch

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			start := tileIndex(width, x, y)
			if !mask[start] || visited[start] {
				continue
			}
			// Flood fill.
			var tiles []Point
			queue := []int{start}
			visited[start] = true
			minX, minY, maxX, maxY := x, y, x, y
			for head := 0; head < len(queue); head++ {
				i := queue[head]
				px, py := i%width, i/width
				tiles = append(tiles, Point{X: px, Y: py})
				if px < minX {
					minX = px
				}
				if py < minY {
					minY = py
				}
				if px > maxX {
					maxX = px
				}
				if py > maxY {
					maxY = py
				}
				for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
					nx, ny := px+d[0], py+d[1]
					if nx < 0 || nx >= width || ny < 0 || ny >= height {
						continue
					}
					j := tileIndex(width, nx, ny)
					if mask[j] && !visited[j] {
						visited[j] = true
						queue = append(queue, j)
					}
				}
			}
			patches = append(patches, ForestPatch{
				ID:     ids.Next("patch"),
				Tiles:  tiles,
				Bounds: Rect{X: minX, Y: minY, W: maxX - minX + 1, H: maxY - minY + 1},
			})
		}
	}
	return patches
}

// inosculationPairs records adjacent same-species trees whose trunks have
// grown together, as an adjacency list of ID pairs. Each unordered pair is
// recorded once (east/south scan).
func inosculationPairs(layer *VegetationLayer, treeAt []int, seed int64, rate float64) [][2]string {
	width, height := layer.Width, layer.Height
	var pairs [][2]string
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			a := treeAt[tileIndex(width, x, y)]
			if a < 0 {
				continue
			}
			for _, d := range [2][2]int{{1, 0}, {0, 1}} {
				nx, ny := x+d[0], y+d[1]
				if nx >= width || ny >= height {
					continue
				}
				b := treeAt[tileIndex(width, nx, ny)]
				if b < 0 || layer.Trees[a].Species != layer.Trees[b].Species {
					continue
				}
				if tileHash01(x*3+d[0], y*3+d[1], seed, 0x74) < rate {
					pairs = append(pairs, [2]string{layer.Trees[a].ID, layer.Trees[b].ID})
				}
			}
		}
	}
	return pairs
}
