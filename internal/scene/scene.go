// Package scene turns a filtered donor view into a declarative map figure.
//
// A Scene is a plain JSON-ready tree in the shape plotly.js expects from
// Plotly.newPlot: {"data": [...traces], "layout": {...}}, plus a "meta" block
// the dashboard page reads for its legend. Builders are pure functions of the
// view and a Style; they never touch the canonical table.
package scene

import (
	"github.com/couchcryptid/donor-map/internal/domain"
	"github.com/paulmach/orb"
)

// Scene is a serializable figure description.
type Scene map[string]any

// Mode selects a map builder.
type Mode string

const (
	ModeCluster    Mode = "cluster"
	ModeHeatmap    Mode = "heatmap"
	ModeChoropleth Mode = "choropleth"
	ModePoint      Mode = "point"
)

// ParseMode maps a request value to a Mode. Anything unrecognized, including
// the empty string, selects ModePoint.
func ParseMode(s string) Mode {
	switch m := Mode(s); m {
	case ModeCluster, ModeHeatmap, ModeChoropleth, ModePoint:
		return m
	default:
		return ModePoint
	}
}

// Builder renders a view into a Scene.
type Builder func(view domain.View, style Style) Scene

var builders = map[Mode]Builder{
	ModeCluster:    Cluster,
	ModeHeatmap:    Heatmap,
	ModeChoropleth: Choropleth,
	ModePoint:      Point,
}

// Build renders view with the builder for mode.
func Build(mode Mode, view domain.View, style Style) Scene {
	b, ok := builders[mode]
	if !ok {
		b = Point
	}
	return b(view, style)
}

// Coordinate is a lon/lat pair serialized the way mapbox layouts expect.
type Coordinate struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// Center returns the mean location of the view, or fallback when the view is
// empty.
func Center(view domain.View, fallback Coordinate) Coordinate {
	if len(view) == 0 {
		return fallback
	}
	var lon, lat float64
	for _, r := range view {
		lon += r.Lon()
		lat += r.Lat()
	}
	n := float64(len(view))
	return Coordinate{Lon: lon / n, Lat: lat / n}
}

// Zoom picks a closer zoom for small views.
func Zoom(view domain.View, style Style) float64 {
	if len(view) > style.ZoomThreshold {
		return style.FarZoom
	}
	return style.NearZoom
}

// bounds returns the bounding box of the view as [[minLon, minLat], [maxLon, maxLat]],
// or nil for an empty view.
func bounds(view domain.View) [][2]float64 {
	if len(view) == 0 {
		return nil
	}
	mp := make(orb.MultiPoint, len(view))
	for i, r := range view {
		mp[i] = r.Location
	}
	b := mp.Bound()
	return [][2]float64{{b.Min.Lon(), b.Min.Lat()}, {b.Max.Lon(), b.Max.Lat()}}
}

// coordinates splits the view into parallel lon/lat/amount arrays. The arrays
// are non-nil so empty views serialize as [] rather than null.
func coordinates(view domain.View) (lons, lats, amounts []float64) {
	lons = make([]float64, len(view))
	lats = make([]float64, len(view))
	amounts = make([]float64, len(view))
	for i, r := range view {
		lons[i] = r.Lon()
		lats[i] = r.Lat()
		amounts[i] = r.Amount()
	}
	return lons, lats, amounts
}

func title(text string) map[string]any {
	return map[string]any{
		"text": text,
		"font": map[string]any{"size": 24, "color": PrimaryRed, "family": fontFamily},
	}
}

func margin(top int) map[string]any {
	return map[string]any{"r": 0, "t": top, "l": 0, "b": 0}
}

// mapboxLayout is the layout shared by the tile-based modes.
func mapboxLayout(view domain.View, style Style, titleText string) map[string]any {
	return map[string]any{
		"mapbox": map[string]any{
			"style":  style.MapStyle,
			"center": Center(view, style.Center),
			"zoom":   Zoom(view, style),
		},
		"height": style.Height,
		"margin": margin(40),
		"title":  title(titleText),
	}
}

func colorbar(titleText string, tickFormat string) map[string]any {
	cb := map[string]any{
		"title": map[string]any{
			"text": titleText,
			"font": map[string]any{"color": DarkRed},
		},
		"tickfont":   map[string]any{"color": Gray},
		"tickprefix": "$",
	}
	if tickFormat != "" {
		cb["tickformat"] = tickFormat
	}
	return cb
}

func meta(mode Mode, view domain.View) map[string]any {
	return map[string]any{
		"mode":            mode,
		"record_count":    len(view),
		"bounds":          bounds(view),
		"category_colors": CategoryColors,
	}
}
