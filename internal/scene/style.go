package scene

import "github.com/couchcryptid/donor-map/internal/domain"

// Brand palette.
const (
	PrimaryRed   = "#ED1B2E"
	SecondaryRed = "#B31E29"
	DarkRed      = "#8B1A1E"
	Gray         = "#6D6E70"
	LightGray    = "#D7D7D8"
	White        = "#FFFFFF"
	Black        = "#231F20"
)

const fontFamily = "Arial, sans-serif"

// CategoryColors maps each gift category to its swatch, pale to dark.
var CategoryColors = map[string]string{
	domain.Category5K:      "#FFE6E8",
	domain.Category5KTo7K:  "#FFB3B8",
	domain.Category7KTo10K: "#FF8088",
	domain.Category10KTo15: "#FF4D58",
	domain.Category15KTo25: PrimaryRed,
	domain.Category25KTo50: SecondaryRed,
	domain.Category50KTo1M: DarkRed,
	domain.CategoryOver100: "#4A0E0E",
}

// markerColorScale colors individual markers by gift amount.
var markerColorScale = [][2]any{
	{0, "#FFE6E8"},
	{0.2, "#FFB3B8"},
	{0.4, "#FF8088"},
	{0.6, "#FF4D58"},
	{0.8, PrimaryRed},
	{1, DarkRed},
}

// densityColorScale starts from white so sparse areas fade into the basemap.
// Shared by the heatmap and choropleth.
var densityColorScale = [][2]any{
	{0, White},
	{0.2, "#FFE6E8"},
	{0.4, "#FFB3B8"},
	{0.6, "#FF8088"},
	{0.8, PrimaryRed},
	{1, DarkRed},
}

// clusterSteps is the 7-step ring color progression for marker clusters.
var clusterSteps = []string{"#FFE6E8", "#FFB3B8", "#FF8088", "#FF4D58", PrimaryRed, SecondaryRed, DarkRed}

// Style holds the display tuning shared by every builder. None of these
// values affect which records are drawn.
type Style struct {
	MapStyle       string
	Height         int
	NearZoom       float64
	FarZoom        float64
	ZoomThreshold  int // views larger than this use FarZoom
	MarkerSize     int
	PointSize      int
	ClusterRadius  int // pixels
	ClusterMaxZoom int // clustering turns off above this zoom
	HeatmapRadius  int
	Center         Coordinate // used when the view is empty
}

// DefaultStyle returns the dashboard's standard look.
func DefaultStyle() Style {
	return Style{
		MapStyle:       "carto-positron",
		Height:         700,
		NearZoom:       5,
		FarZoom:        3,
		ZoomThreshold:  100,
		MarkerSize:     10,
		PointSize:      6,
		ClusterRadius:  40,
		ClusterMaxZoom: 10,
		HeatmapRadius:  20,
		Center:         Coordinate{Lon: -98.5795, Lat: 39.8283},
	}
}
