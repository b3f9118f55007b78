package scene

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/couchcryptid/donor-map/internal/domain"
	"github.com/paulmach/orb"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gift(state, city string, lon, lat float64, amount int64) domain.DonationRecord {
	d := decimal.NewFromInt(amount)
	return domain.DonationRecord{
		Location:     orb.Point{lon, lat},
		GiftAmount:   d,
		GiftCategory: domain.CategorizeGift(d),
		State:        state,
		City:         city,
	}
}

func testView() domain.View {
	return domain.NewTable([]domain.DonationRecord{
		gift("CA", "Los Angeles", -118, 34, 6000),
		gift("CA", "San Diego", -117, 33, 20000),
		gift("NY", "Albany", -74, 43, 100),
		gift("", "", -100, 40, 50),
	}).All()
}

func trace(t *testing.T, s Scene) map[string]any {
	t.Helper()
	data, ok := s["data"].([]any)
	require.True(t, ok)
	require.Len(t, data, 1)
	tr, ok := data[0].(map[string]any)
	require.True(t, ok)
	return tr
}

func layout(t *testing.T, s Scene) map[string]any {
	t.Helper()
	l, ok := s["layout"].(map[string]any)
	require.True(t, ok)
	return l
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		input    string
		expected Mode
	}{
		{"cluster", ModeCluster},
		{"heatmap", ModeHeatmap},
		{"choropleth", ModeChoropleth},
		{"point", ModePoint},
		{"", ModePoint},
		{"3d-globe", ModePoint},
		{"CLUSTER", ModePoint},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseMode(tt.input))
		})
	}
}

func TestCenter(t *testing.T) {
	style := DefaultStyle()

	t.Run("empty view uses fallback", func(t *testing.T) {
		assert.Equal(t, Coordinate{Lon: -98.5795, Lat: 39.8283}, Center(nil, style.Center))
	})

	t.Run("mean of records", func(t *testing.T) {
		c := Center(testView(), style.Center)
		assert.InDelta(t, -102.25, c.Lon, 1e-9)
		assert.InDelta(t, 37.5, c.Lat, 1e-9)
	})
}

func TestZoom(t *testing.T) {
	style := DefaultStyle()

	assert.Equal(t, style.NearZoom, Zoom(testView(), style))
	assert.Equal(t, style.NearZoom, Zoom(nil, style))

	big := make(domain.View, style.ZoomThreshold+1)
	assert.Equal(t, style.FarZoom, Zoom(big, style))
}

func TestBuild_EveryModeHandlesEmptyView(t *testing.T) {
	for _, mode := range []Mode{ModeCluster, ModeHeatmap, ModeChoropleth, ModePoint} {
		t.Run(string(mode), func(t *testing.T) {
			s := Build(mode, domain.View{}, DefaultStyle())

			data, err := json.Marshal(s)
			require.NoError(t, err)
			assert.NotContains(t, string(data), `"lon":null`)
			assert.NotContains(t, string(data), `"locations":null`)

			m, ok := s["meta"].(map[string]any)
			require.True(t, ok)
			assert.Equal(t, mode, m["mode"])
			assert.Equal(t, 0, m["record_count"])
		})
	}
}

func TestBuild_UnknownModeFallsBackToPoint(t *testing.T) {
	s := Build(Mode("bogus"), testView(), DefaultStyle())

	assert.Equal(t, ModePoint, s["meta"].(map[string]any)["mode"])
}

func TestCluster(t *testing.T) {
	style := DefaultStyle()
	s := Cluster(testView(), style)

	tr := trace(t, s)
	assert.Equal(t, "scattermapbox", tr["type"])
	assert.Len(t, tr["lon"], 4)
	assert.Equal(t, []float64{6000, 20000, 100, 50}, tr["marker"].(map[string]any)["color"])

	cluster := tr["cluster"].(map[string]any)
	assert.Equal(t, true, cluster["enabled"])
	assert.Equal(t, style.ClusterRadius, cluster["size"])
	assert.Equal(t, style.ClusterMaxZoom, cluster["maxzoom"])
	assert.Len(t, cluster["color"], 7)

	cb := tr["marker"].(map[string]any)["colorbar"].(map[string]any)
	assert.Equal(t, "$", cb["tickprefix"])
	assert.Equal(t, ",.0f", cb["tickformat"])

	text := tr["text"].([]string)
	assert.Equal(t, "<b>Los Angeles, CA</b><br>Gift: $6,000.00", text[0])
	assert.Equal(t, "<b>Unknown location</b><br>Gift: $50.00", text[3])

	l := layout(t, s)
	assert.Equal(t, "American Red Cross Donor Map", l["title"].(map[string]any)["text"])
	assert.Equal(t, style.NearZoom, l["mapbox"].(map[string]any)["zoom"])
}

func TestDetailedHover(t *testing.T) {
	r := gift("IL", "Chicago", -87.6, 41.9, 12500)
	r.DonorID = "D-1042"
	r.StreetAddress = "1 Main St"

	assert.Equal(t,
		"<b>Chicago, IL</b><br>Gift: $12,500.00<br>Donor #: D-1042<br>Address: 1 Main St",
		detailedHover(&r))

	r.StreetAddress = ""
	assert.Equal(t, "<b>Chicago, IL</b><br>Gift: $12,500.00<br>Donor #: D-1042", detailedHover(&r))
}

func TestHeatmap(t *testing.T) {
	style := DefaultStyle()
	s := Heatmap(testView(), style)

	tr := trace(t, s)
	assert.Equal(t, "densitymapbox", tr["type"])
	assert.Equal(t, style.HeatmapRadius, tr["radius"])
	assert.Equal(t, []float64{6000, 20000, 100, 50}, tr["z"])
	assert.Equal(t, true, tr["showscale"])
	assert.Equal(t, "American Red Cross Donor Heatmap", layout(t, s)["title"].(map[string]any)["text"])
}

func TestChoropleth(t *testing.T) {
	s := Choropleth(testView(), DefaultStyle())

	tr := trace(t, s)
	assert.Equal(t, "choropleth", tr["type"])
	assert.Equal(t, "USA-states", tr["locationmode"])
	assert.Equal(t, []string{"CA", "NY"}, tr["locations"])
	assert.Equal(t, []float64{26000, 100}, tr["z"])
	assert.Equal(t, []int{2, 1}, tr["customdata"])
	assert.Equal(t, []string{
		"CA<br>Donors: 2<br>Total: $26,000",
		"NY<br>Donors: 1<br>Total: $100",
	}, tr["text"])

	geo := layout(t, s)["geo"].(map[string]any)
	assert.Equal(t, "usa", geo["scope"])
}

// The choropleth per-state totals must match the aggregator's per-state
// totals for the same view.
func TestChoropleth_MatchesAggregator(t *testing.T) {
	view := testView()
	tr := trace(t, Choropleth(view, DefaultStyle()))

	locations := tr["locations"].([]string)
	z := tr["z"].([]float64)

	want := make(map[string]float64)
	for _, agg := range domain.Summarize(view).TopStates {
		want[agg.State] = agg.Total.InexactFloat64()
	}
	got := make(map[string]float64)
	for i, st := range locations {
		got[st] = z[i]
	}
	assert.Equal(t, want, got)
}

func TestPoint(t *testing.T) {
	s := Point(testView(), DefaultStyle())

	tr := trace(t, s)
	assert.Equal(t, "scattermapbox", tr["type"])
	assert.NotContains(t, tr, "cluster")
	marker := tr["marker"].(map[string]any)
	assert.Equal(t, PrimaryRed, marker["color"])
	assert.Equal(t, "San Diego, CA<br>$20,000.00", tr["text"].([]string)[1])
	assert.Equal(t, "American Red Cross Donor Locations", layout(t, s)["title"].(map[string]any)["text"])
}

func TestMetaBounds(t *testing.T) {
	m := Point(testView(), DefaultStyle())["meta"].(map[string]any)

	assert.Equal(t, [][2]float64{{-118, 33}, {-74, 43}}, m["bounds"])
	assert.Nil(t, bounds(nil))
}

func TestChoropleth_StateTotalBeyondFloat64Encodes(t *testing.T) {
	var records []domain.DonationRecord
	for range 2 {
		rec, err := domain.NormalizeRow(domain.RawRow{
			domain.ColGiftAmount: "1.5e308",
			domain.ColLongitude:  "-118",
			domain.ColLatitude:   "34",
			domain.ColState:      "CA",
		})
		require.NoError(t, err)
		records = append(records, rec)
	}
	view := domain.NewTable(records).All()

	s := Choropleth(view, DefaultStyle())
	_, err := json.Marshal(s)

	require.NoError(t, err)
	assert.Equal(t, []float64{math.MaxFloat64}, trace(t, s)["z"])
}
