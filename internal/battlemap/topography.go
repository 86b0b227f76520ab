package battlemap

import (
	"math"

	"github.com/nottu2584/lazy-map-sub003/internal/rng"
)

// tileSpacing is the ground distance covered by one tile, in metres. The map
// is fine-grained tabletop scale (a 5 ft square per tile).
const tileSpacing = 1.5

// topographyConfig holds tuneable parameters for the relief stage.
type topographyConfig struct {
	NoiseScale     float64 // scale for the main elevation noise pass
	Multiplier     float64 // final scaling on the noise contribution
	DetailScale    float64 // scale for the optional extra detail octave
	DetailStrength float64 // metres contributed by the detail octave
	ExtraDetail    bool    // extra noise term; never enabled silently
	RidgeThreshold float64 // curvature (m) above which a tile is a ridge
}

var defaultTopographyConfig = topographyConfig{
	NoiseScale:     0.045,
	Multiplier:     1.0,
	DetailScale:    0.2,
	DetailStrength: 3.0,
	ExtraDetail:    false,
	RidgeThreshold: 1.2,
}

// generateTopography derives elevation, slope, aspect and ridge/valley flags
// from the geology layer plus a second noise pass on the elevation
// sub-stream. Hard rock with shallow soil stands slightly proud of the
// surrounding terrain, so formation boundaries read as relief.
func generateTopography(geo *GeologyLayer, ctx Context, streams *rng.Coordinated, cfg topographyConfig) *TopographyLayer {
	stream := streams.Stream(rng.StreamElevation)
	elevSeed := int64(stream.NextInt(1, rng.SeedMax))
	detailSeed := int64(stream.NextInt(1, rng.SeedMax))

	width, height := geo.Width, geo.Height
	base := zoneBaseElevation(ctx.Zone)
	variance := zoneElevationVariance(ctx.Zone)

	layer := &TopographyLayer{
		Width:  width,
		Height: height,
		Tiles:  make([]TopographyTile, width*height),
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			g := geo.At(x, y)
			n := fractalNoise2D(float64(x)*cfg.NoiseScale, float64(y)*cfg.NoiseScale, elevSeed, 4)
			elev := base + (n-0.5)*2*variance*cfg.Multiplier

			// Resistant, thinly-soiled rock stands proud; deep soil fills in.
			hardness := 1.0 - rockProfiles[g.Formation].Permeability
			elev += hardness * 4.0
			elev -= g.SoilDepth * 0.5

			if cfg.ExtraDetail {
				d := valueNoise2D(float64(x)*cfg.DetailScale, float64(y)*cfg.DetailScale, detailSeed)
				elev += (d - 0.5) * 2 * cfg.DetailStrength
			}
			layer.Tiles[tileIndex(width, x, y)].Elevation = elev
		}
	}

	// Second pass: slope, aspect and curvature flags need the finished
	// elevation field.
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			dzdx, dzdy := elevationGradient(layer, x, y)
			t := &layer.Tiles[tileIndex(width, x, y)]
			t.Slope = slopeDegrees(dzdx, dzdy)
			t.Aspect = aspectFromGradient(dzdx, dzdy)

			curv := curvature(layer, x, y)
			t.IsRidge = curv > cfg.RidgeThreshold
			t.IsValley = curv < -cfg.RidgeThreshold
		}
	}
	return layer
}

// elevationGradient computes central differences in metres per metre,
// falling back to one-sided differences at the map edge.
func elevationGradient(l *TopographyLayer, x, y int) (dzdx, dzdy float64) {
	east := clampInt(x+1, 0, l.Width-1)
	west := clampInt(x-1, 0, l.Width-1)
	south := clampInt(y+1, 0, l.Height-1)
	north := clampInt(y-1, 0, l.Height-1)

	dx := float64(east-west) * tileSpacing
	dy := float64(south-north) * tileSpacing
	if dx > 0 {
		dzdx = (l.At(east, y).Elevation - l.At(west, y).Elevation) / dx
	}
	if dy > 0 {
		dzdy = (l.At(x, south).Elevation - l.At(x, north).Elevation) / dy
	}
	return dzdx, dzdy
}

// slopeDegrees converts a gradient to a slope angle in degrees.
func slopeDegrees(dzdx, dzdy float64) float64 {
	return math.Atan(math.Hypot(dzdx, dzdy)) * 180 / math.Pi
}

// aspectFromGradient maps the downslope direction onto 8 compass points.
// Near-flat tiles report AspectFlat.
func aspectFromGradient(dzdx, dzdy float64) SlopeAspect {
	if math.Hypot(dzdx, dzdy) < 0.01 {
		return AspectFlat
	}
	// Downhill direction is the negative gradient. y grows south, so the
	// downhill angle reads 0° = east, 90° = south, clockwise on screen.
	angle := math.Atan2(dzdy, dzdx) // uphill angle, radians
	deg := angle*180/math.Pi + 180  // flip to downhill
	deg = math.Mod(deg+360, 360)
	switch {
	case deg < 22.5 || deg >= 337.5:
		return AspectE
	case deg < 67.5:
		return AspectSE
	case deg < 112.5:
		return AspectS
	case deg < 157.5:
		return AspectSW
	case deg < 202.5:
		return AspectW
	case deg < 247.5:
		return AspectNW
	case deg < 292.5:
		return AspectN
	default:
		return AspectNE
	}
}

// curvature is the signed difference between a tile's elevation and the mean
// of its 8 neighbours. Positive = locally high (ridge candidate).
func curvature(l *TopographyLayer, x, y int) float64 {
	sum := 0.0
	count := 0
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ny := x+dx, y+dy
			if nx < 0 || nx >= l.Width || ny < 0 || ny >= l.Height {
				continue
			}
			sum += l.At(nx, ny).Elevation
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return l.At(x, y).Elevation - sum/float64(count)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
