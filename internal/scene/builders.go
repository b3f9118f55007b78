package scene

import (
	"fmt"
	"math"

	"github.com/couchcryptid/donor-map/internal/domain"
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// Cluster draws one marker per gift, colored by amount, grouped into
// clusters until the map is zoomed past ClusterMaxZoom.
func Cluster(view domain.View, style Style) Scene {
	lons, lats, amounts := coordinates(view)

	trace := map[string]any{
		"type": "scattermapbox",
		"lon":  lons,
		"lat":  lats,
		"mode": "markers",
		"marker": map[string]any{
			"size":       style.MarkerSize,
			"color":      amounts,
			"colorscale": markerColorScale,
			"showscale":  true,
			"colorbar":   colorbar("Gift Amount", ",.0f"),
			"opacity":    0.8,
		},
		"text":          hoverTexts(view, detailedHover),
		"hovertemplate": "%{text}<extra></extra>",
		"cluster": map[string]any{
			"enabled": true,
			"size":    style.ClusterRadius,
			"step":    1,
			"color":   clusterSteps,
			"opacity": 0.8,
			"maxzoom": style.ClusterMaxZoom,
		},
		"showlegend": false,
	}

	layout := mapboxLayout(view, style, "American Red Cross Donor Map")
	layout["showlegend"] = true
	layout["legend"] = map[string]any{
		"yanchor":     "top",
		"y":           0.99,
		"xanchor":     "left",
		"x":           0.01,
		"bgcolor":     "rgba(255,255,255,0.9)",
		"bordercolor": PrimaryRed,
		"borderwidth": 2,
	}
	layout["hoverlabel"] = map[string]any{
		"bgcolor":     "white",
		"font":        map[string]any{"size": 12, "family": fontFamily},
		"bordercolor": PrimaryRed,
	}

	return Scene{
		"data":   []any{trace},
		"layout": layout,
		"meta":   meta(ModeCluster, view),
	}
}

// Heatmap draws a density surface weighted by gift amount.
func Heatmap(view domain.View, style Style) Scene {
	lons, lats, amounts := coordinates(view)

	trace := map[string]any{
		"type":       "densitymapbox",
		"lon":        lons,
		"lat":        lats,
		"z":          amounts,
		"radius":     style.HeatmapRadius,
		"colorscale": densityColorScale,
		"showscale":  true,
		"colorbar":   colorbar("Gift Amount", ""),
	}

	return Scene{
		"data":   []any{trace},
		"layout": mapboxLayout(view, style, "American Red Cross Donor Heatmap"),
		"meta":   meta(ModeHeatmap, view),
	}
}

// Choropleth fills each state by its summed gifts. Records without a state
// are left out.
func Choropleth(view domain.View, style Style) Scene {
	aggs := domain.AggregateByState(view)

	locations := make([]string, len(aggs))
	totals := make([]float64, len(aggs))
	counts := make([]int, len(aggs))
	text := make([]string, len(aggs))
	for i, agg := range aggs {
		locations[i] = agg.State
		totals[i] = finiteFloat(agg.Total)
		counts[i] = agg.Count
		text[i] = fmt.Sprintf("%s<br>Donors: %s<br>Total: %s",
			agg.State, humanize.Comma(int64(agg.Count)), domain.FormatWholeCurrency(agg.Total))
	}

	trace := map[string]any{
		"type":          "choropleth",
		"locations":     locations,
		"z":             totals,
		"customdata":    counts,
		"locationmode":  "USA-states",
		"colorscale":    densityColorScale,
		"text":          text,
		"hovertemplate": "%{text}<extra></extra>",
		"colorbar":      colorbar("Total Donations", ""),
	}

	layout := map[string]any{
		"geo": map[string]any{
			"scope":      "usa",
			"projection": map[string]any{"type": "albers usa"},
			"showlakes":  true,
			"lakecolor":  "rgb(255, 255, 255)",
		},
		"height": style.Height,
		"margin": margin(60),
		"title":  title("American Red Cross Donations by State"),
	}

	return Scene{
		"data":   []any{trace},
		"layout": layout,
		"meta":   meta(ModeChoropleth, view),
	}
}

// Point draws a small fixed-color marker per gift with no clustering.
func Point(view domain.View, style Style) Scene {
	lons, lats, _ := coordinates(view)

	trace := map[string]any{
		"type": "scattermapbox",
		"lon":  lons,
		"lat":  lats,
		"mode": "markers",
		"marker": map[string]any{
			"size":    style.PointSize,
			"color":   PrimaryRed,
			"opacity": 0.7,
		},
		"text":          hoverTexts(view, simpleHover),
		"hovertemplate": "%{text}<extra></extra>",
	}

	return Scene{
		"data":   []any{trace},
		"layout": mapboxLayout(view, style, "American Red Cross Donor Locations"),
		"meta":   meta(ModePoint, view),
	}
}

// finiteFloat converts a sum for plotting, saturating at the float64 range so
// the figure always encodes.
func finiteFloat(d decimal.Decimal) float64 {
	f := d.InexactFloat64()
	switch {
	case math.IsInf(f, 1):
		return math.MaxFloat64
	case math.IsInf(f, -1):
		return -math.MaxFloat64
	}
	return f
}
