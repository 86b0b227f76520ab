package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/atotto/clipboard"

	"github.com/nottu2584/lazy-map-sub003/internal/battlemap"
	"github.com/nottu2584/lazy-map-sub003/internal/logging"
	"github.com/nottu2584/lazy-map-sub003/internal/render"
	"github.com/nottu2584/lazy-map-sub003/internal/rng"
)

func main() {
	var width int
	var height int
	var biome string
	var development string
	var elevation string
	var seed int64
	var seedString string
	var pngPath string
	var scale int
	var ascii bool
	var copyReport bool
	var runs int
	var mix float64
	var detail bool

	flag.IntVar(&width, "width", 50, "map width in tiles")
	flag.IntVar(&height, "height", 50, "map height in tiles")
	flag.StringVar(&biome, "biome", "forest", "biome (forest, grassland, desert, mountain, swamp, tundra, coast)")
	flag.StringVar(&development, "development", "wilderness", "development level (wilderness, frontier, rural, settled, urban, ruins)")
	flag.StringVar(&elevation, "elevation", "lowland", "elevation zone (lowland, foothills, highland, alpine)")
	flag.Int64Var(&seed, "seed", 0, "numeric seed; 0 draws a random one")
	flag.StringVar(&seedString, "seed-string", "", "text seed; overrides -seed")
	flag.StringVar(&pngPath, "png", "", "write a PNG of the map to this path")
	flag.IntVar(&scale, "scale", 8, "pixels per tile in the PNG")
	flag.BoolVar(&ascii, "ascii", false, "print an ASCII rendering of the map")
	flag.BoolVar(&copyReport, "copy", false, "copy the generation report to the clipboard")
	flag.IntVar(&runs, "runs", 1, "repeat generation and verify runs agree")
	flag.Float64Var(&mix, "mix", 0.5, "feature mixing probability")
	flag.BoolVar(&detail, "detail", false, "enable the extra elevation noise octave")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		os.Exit(1)
	}

	ctx, err := battlemap.NewContext(
		battlemap.Biome(strings.ToLower(biome)),
		battlemap.DevelopmentLevel(strings.ToLower(development)),
		battlemap.ElevationZone(strings.ToLower(elevation)),
	)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}

	useSeed, seedSource := resolveSeed(seed, seedString)

	log := logging.NewFromEnv()
	gen := battlemap.NewGenerator(
		battlemap.WithLogger(log),
		battlemap.WithMixingProbability(mix),
		battlemap.WithElevationDetail(detail),
	)

	start := time.Now()
	bundle, err := gen.Generate(width, height, ctx, useSeed)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}
	grid, err := battlemap.ConvertToTiles(width, height, bundle, ctx, useSeed, gen.Engine())
	if err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}
	elapsed := time.Since(start)

	report := buildReport(grid, bundle, seedSource, elapsed)
	fmt.Print(report)

	if runs > 1 {
		if err := verifyRuns(gen, width, height, ctx, useSeed, grid, runs); err != nil {
			fmt.Printf("error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("determinism: runs=%d identical=true\n", runs)
	}

	if ascii {
		fmt.Println()
		fmt.Print(render.ASCII(grid))
	}

	if pngPath != "" {
		if err := writePNGFile(pngPath, grid, scale); err != nil {
			fmt.Printf("error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("wrote %s\n", pngPath)
	}

	if copyReport {
		if err := clipboard.WriteAll(report); err != nil {
			fmt.Printf("error: clipboard: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("report copied to clipboard")
	}
}

// resolveSeed picks the effective seed: a text seed wins over the numeric
// flag, and an absent seed draws a random one.
func resolveSeed(seed int64, seedString string) (int64, string) {
	if seedString != "" {
		return rng.SeedFromString(seedString), fmt.Sprintf("string %q", seedString)
	}
	if seed != 0 {
		return seed, "flag"
	}
	return rng.RandomSeed(), "random"
}

// buildReport renders the key=value generation summary.
func buildReport(grid *battlemap.MapGrid, bundle *battlemap.LayerBundle, seedSource string, elapsed time.Duration) string {
	var b strings.Builder
	fmt.Fprintf(&b, "=== Battle Map Report ===\n")
	fmt.Fprintf(&b, "map=%s size=%dx%d cell=%.0fft\n", grid.ID, grid.Width, grid.Height, grid.CellSize)
	fmt.Fprintf(&b, "seed=%d source=%s adjusted=%v elapsed=%s\n",
		grid.Seed, seedSource, bundle.Meta.SeedAdjusted, elapsed.Round(time.Millisecond))
	fmt.Fprintf(&b, "context: biome=%s development=%s elevation=%s\n",
		bundle.Meta.Context.Biome, bundle.Meta.Context.Development, bundle.Meta.Context.Zone)
	for _, s := range bundle.Meta.Stages {
		fmt.Fprintf(&b, "stage=%s duration=%s", s.Stage, time.Duration(s.Duration).Round(time.Microsecond))
		for _, k := range sortedCountKeys(s.Counts) {
			fmt.Fprintf(&b, " %s=%d", k, s.Counts[k])
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func sortedCountKeys(counts map[string]int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// verifyRuns regenerates the map and confirms every run assembles an
// identical grid, comparing the full tile data rather than a rendering.
func verifyRuns(gen *battlemap.Generator, width, height int, ctx battlemap.Context, seed int64, first *battlemap.MapGrid, runs int) error {
	want, err := json.Marshal(first.Tiles)
	if err != nil {
		return fmt.Errorf("marshal grid: %w", err)
	}
	for i := 2; i <= runs; i++ {
		bundle, err := gen.Generate(width, height, ctx, seed)
		if err != nil {
			return fmt.Errorf("run %d: %w", i, err)
		}
		grid, err := battlemap.ConvertToTiles(width, height, bundle, ctx, seed, gen.Engine())
		if err != nil {
			return fmt.Errorf("run %d: %w", i, err)
		}
		got, err := json.Marshal(grid.Tiles)
		if err != nil {
			return fmt.Errorf("run %d: marshal grid: %w", i, err)
		}
		if !bytes.Equal(got, want) {
			return fmt.Errorf("run %d produced a different map", i)
		}
	}
	return nil
}

func writePNGFile(path string, grid *battlemap.MapGrid, scale int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render.WritePNG(f, grid, scale); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
