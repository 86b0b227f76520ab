package battlemap

// Point is an integer tile coordinate, 0-based, x growing east and y south.
type Point struct {
	X int
	Y int
}

// Rect is an axis-aligned tile-space rectangle. W and H are in tiles.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the tile (x,y) lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Overlaps reports whether two rectangles share at least one tile.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.X+o.W && r.X+r.W > o.X && r.Y < o.Y+o.H && r.Y+r.H > o.Y
}

// grid index helper shared by every layer: row-major, index = y*width + x.
func tileIndex(width, x, y int) int {
	return y*width + x
}

// --- Geology ---

// RockType identifies the dominant rock of a formation.
type RockType string

const (
	RockGranite   RockType = "granite"
	RockLimestone RockType = "limestone"
	RockSandstone RockType = "sandstone"
	RockBasalt    RockType = "basalt"
	RockShale     RockType = "shale"
	RockMarble    RockType = "marble"
)

// WeatheringPattern describes how a formation erodes.
type WeatheringPattern string

const (
	WeatheringBlocky    WeatheringPattern = "blocky"
	WeatheringKarst     WeatheringPattern = "karst"
	WeatheringGranular  WeatheringPattern = "granular"
	WeatheringColumnar  WeatheringPattern = "columnar"
	WeatheringFissile   WeatheringPattern = "fissile"
	WeatheringSculpted  WeatheringPattern = "sculpted"
)

// GeologyTile is the per-tile geology record.
type GeologyTile struct {
	Formation         RockType
	Minerals          string
	JointPattern      string
	Weathering        WeatheringPattern
	SoilDepth         float64 // metres of soil over bedrock
	FractureIntensity float64 // 0-1
	Permeability      float64 // 0-1, how readily water passes through
}

// MicroFeature is a small geological landform derived from formation type.
type MicroFeature struct {
	ID   string
	Type string // tower, sinkhole, dome, slot-canyon, scree, karst-pavement
	Pos  Point
}

// GeologyLayer is the output of the geology stage.
type GeologyLayer struct {
	Width  int
	Height int
	Tiles  []GeologyTile // row-major
	// Micro-terrain features placed on top of the formation field.
	Features []MicroFeature
}

// At returns the geology record for (x,y).
func (l *GeologyLayer) At(x, y int) GeologyTile {
	return l.Tiles[tileIndex(l.Width, x, y)]
}

// --- Topography ---

// SlopeAspect is an 8-way compass facing for a slope.
type SlopeAspect string

const (
	AspectN    SlopeAspect = "N"
	AspectNE   SlopeAspect = "NE"
	AspectE    SlopeAspect = "E"
	AspectSE   SlopeAspect = "SE"
	AspectS    SlopeAspect = "S"
	AspectSW   SlopeAspect = "SW"
	AspectW    SlopeAspect = "W"
	AspectNW   SlopeAspect = "NW"
	AspectFlat SlopeAspect = "flat"
)

// TopographyTile is the per-tile relief record.
type TopographyTile struct {
	Elevation float64 // metres
	Slope     float64 // degrees
	Aspect    SlopeAspect
	IsRidge   bool
	IsValley  bool
}

// TopographyLayer is the output of the topography stage.
type TopographyLayer struct {
	Width  int
	Height int
	Tiles  []TopographyTile
}

// At returns the topography record for (x,y).
func (l *TopographyLayer) At(x, y int) TopographyTile {
	return l.Tiles[tileIndex(l.Width, x, y)]
}

// --- Hydrology ---

// MoistureClass buckets per-tile moisture into six named bands.
type MoistureClass string

const (
	MoistureArid      MoistureClass = "arid"
	MoistureDry       MoistureClass = "dry"
	MoistureModerate  MoistureClass = "moderate"
	MoistureMoist     MoistureClass = "moist"
	MoistureWet       MoistureClass = "wet"
	MoistureSaturated MoistureClass = "saturated"
)

// HydrologyTile is the per-tile water record.
type HydrologyTile struct {
	WaterDepth float64 // metres; 0 means dry
	Moisture   float64 // 0-1
	Class      MoistureClass
	IsSpring   bool
	IsPool     bool
}

// Stream is a watercourse polyline traced from a source to an edge or basin.
type Stream struct {
	ID     string
	Order  int // Strahler-style order at the source accumulation point
	Points []Point
}

// Spring marks a groundwater emergence tile.
type Spring struct {
	ID  string
	Pos Point
}

// HydrologyLayer is the output of the hydrology stage.
type HydrologyLayer struct {
	Width   int
	Height  int
	Tiles   []HydrologyTile
	Streams []Stream
	Springs []Spring
}

// At returns the hydrology record for (x,y).
func (l *HydrologyLayer) At(x, y int) HydrologyTile {
	return l.Tiles[tileIndex(l.Width, x, y)]
}

// HasWater reports whether the tile carries standing or flowing water.
func (l *HydrologyLayer) HasWater(x, y int) bool {
	return l.Tiles[tileIndex(l.Width, x, y)].WaterDepth > 0
}

// --- Vegetation ---

// VegetationType classifies the plant community of a tile.
type VegetationType string

const (
	VegNone      VegetationType = "none"
	VegGrass     VegetationType = "grass"
	VegShrubland VegetationType = "shrubland"
	VegOpenWood  VegetationType = "open-woodland"
	VegForest    VegetationType = "forest"
	VegDenseWood VegetationType = "dense-forest"
	VegWetland   VegetationType = "wetland"
)

// CanopyDensity is the basal-area derived density band.
type CanopyDensity string

const (
	CanopyNone     CanopyDensity = "none"
	CanopySparse   CanopyDensity = "sparse"
	CanopyModerate CanopyDensity = "moderate"
	CanopyDense    CanopyDensity = "dense"
)

// Tree is a single placed tree. At most one tree occupies a tile.
type Tree struct {
	ID            string
	Pos           Point
	Species       string
	TrunkDiameter float64 // feet
	Height        float64 // feet
}

// VegetationTile is the per-tile vegetation record.
type VegetationTile struct {
	Type            VegetationType
	CanopyHeight    float64 // feet; 0 outside forest
	Density         CanopyDensity
	BasalArea       float64 // ft²/acre in the survey neighbourhood
	DominantSpecies string
	HasTree         bool
	HasUnderstory   bool
	HasGroundCover  bool
	InPatch         bool // part of a contiguous forest patch
}

// ForestPatch is a contiguous run of forest-mask tiles.
type ForestPatch struct {
	ID     string
	Tiles  []Point
	Bounds Rect
}

// Clearing is a treeless opening surrounded by forest.
type Clearing struct {
	ID     string
	Center Point
	Radius int // tiles, capped at clearingMaxRadius
}

// VegetationLayer is the output of the vegetation stage.
type VegetationLayer struct {
	Width         int
	Height        int
	Tiles         []VegetationTile
	Trees         []Tree
	ForestPatches []ForestPatch
	Clearings     []Clearing
	// Inosculations records pairs of adjacent same-species trees whose
	// trunks have grown together, as an adjacency list of tree IDs.
	Inosculations [][2]string
}

// At returns the vegetation record for (x,y).
func (l *VegetationLayer) At(x, y int) VegetationTile {
	return l.Tiles[tileIndex(l.Width, x, y)]
}

// --- Structures ---

// Building is one placed structure with its full footprint.
type Building struct {
	ID        string
	Bounds    Rect
	Kind      string // house, barn, watchtower, hall
	Material  string
	Condition string // intact, worn, degraded, ruined
	Quality   float64
}

// RoadSegment is a polyline road piece.
type RoadSegment struct {
	ID       string
	Points   []Point
	Width    int
	Material string
}

// Bridge is inserted wherever a road segment crosses open water.
type Bridge struct {
	ID       string
	Pos      Point
	Material string
}

// Decoration is a small flavour structure (well, shrine) placed near
// buildings or clearings.
type Decoration struct {
	ID   string
	Type string // well, shrine
	Pos  Point
}

// StructuresLayer is the output of the structures stage.
type StructuresLayer struct {
	Width       int
	Height      int
	Buildings   []Building
	Roads       []RoadSegment
	Bridges     []Bridge
	Decorations []Decoration
}

// --- Features ---

// FeaturesLayer is the output of the features stage: discrete overlays kept
// separate from the per-tile arrays and applied during grid assembly.
type FeaturesLayer struct {
	Hazards          []Feature
	Resources        []Feature
	Landmarks        []Feature
	TacticalFeatures []Feature
}

// --- Bundle ---

// StageMetrics carries observability counts for one stage. Metrics never
// feed back into generation.
type StageMetrics struct {
	Stage    string
	Duration int64 // nanoseconds
	Counts   map[string]int
}

// Metadata describes one generation run.
type Metadata struct {
	Seed         int64
	SeedAdjusted bool
	Context      Context
	Stages       []StageMetrics
}

// LayerBundle is the ordered output of a full pipeline run. Regenerating
// with the same (width, height, context, seed) reproduces an identical
// bundle, metadata timings aside.
type LayerBundle struct {
	Width      int
	Height     int
	Geology    *GeologyLayer
	Topography *TopographyLayer
	Hydrology  *HydrologyLayer
	Vegetation *VegetationLayer
	Structures *StructuresLayer
	Features   *FeaturesLayer
	Meta       Metadata
}
