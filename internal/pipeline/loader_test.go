package pipeline_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/couchcryptid/donor-map/internal/domain"
	"github.com/couchcryptid/donor-map/internal/observability"
	"github.com/couchcryptid/donor-map/internal/pipeline"
	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockSource struct {
	rows []domain.RawRow
	err  error
}

func (m *mockSource) ReadRows(_ context.Context) ([]domain.RawRow, error) {
	return m.rows, m.err
}

type mockGeocoder struct {
	result domain.GeocodingResult
	err    error
	calls  int
}

func (m *mockGeocoder) ReverseGeocode(_ context.Context, _, _ float64) (domain.GeocodingResult, error) {
	m.calls++
	return m.result, m.err
}

func newTestMetrics() *observability.Metrics {
	// Use a fresh registry to avoid "already registered" panics in tests.
	return observability.NewMetricsForTesting()
}

func row(amount, lon, lat, state, city string) domain.RawRow {
	return domain.RawRow{
		domain.ColGiftAmount: amount,
		domain.ColLongitude:  lon,
		domain.ColLatitude:   lat,
		domain.ColState:      state,
		domain.ColCity:       city,
	}
}

// --- tests ---

func TestLoader_Load_DropsAndCounts(t *testing.T) {
	src := &mockSource{rows: []domain.RawRow{
		row("$6,000", "-118.24", "34.05", "CA", "Los Angeles"),
		row("$20,000", "-117.16", "32.72", "ca", "San Diego"),
		row("$100", "", "42.65", "NY", "Albany"),
		row("lots", "-73.76", "42.65", "NY", "Albany"),
		row("$50", "-73.76", "42.65", "NY", "Albany"),
	}}
	metrics := newTestMetrics()

	table, report, err := pipeline.NewLoader(src, nil, slog.Default(), metrics).Load(context.Background())
	require.NoError(t, err)

	want := pipeline.LoadReport{Rows: 5, Kept: 3, MissingLocation: 1, InvalidAmount: 1}
	if diff := cmp.Diff(want, report); diff != "" {
		t.Fatalf("report mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 2, report.Dropped())
	assert.Equal(t, 3, table.Len())
	assert.Equal(t, []string{"CA", "NY"}, table.States())

	assert.InDelta(t, 3, testutil.ToFloat64(metrics.RecordsLoaded), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.RowsDropped.WithLabelValues("missing_location")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.RowsDropped.WithLabelValues("invalid_amount")), 0)
}

func TestLoader_Load_SourceError(t *testing.T) {
	src := &mockSource{err: errors.New("disk gone")}

	table, _, err := pipeline.NewLoader(src, nil, slog.Default(), newTestMetrics()).Load(context.Background())

	require.Error(t, err)
	assert.Nil(t, table)
	assert.Contains(t, err.Error(), "disk gone")
}

func TestLoader_Load_Empty(t *testing.T) {
	table, report, err := pipeline.NewLoader(&mockSource{}, nil, slog.Default(), newTestMetrics()).Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())
	assert.Equal(t, 0, report.Rows)
	assert.Empty(t, table.States())
}

func TestLoader_Load_GeocodesUnplacedRows(t *testing.T) {
	src := &mockSource{rows: []domain.RawRow{
		row("$100", "-87.63", "41.88", "", ""),
		row("$200", "-87.63", "41.88", "IL", ""),
	}}
	geo := &mockGeocoder{result: domain.GeocodingResult{City: "Chicago", State: "IL", ZIP: "60601"}}

	table, report, err := pipeline.NewLoader(src, geo, slog.Default(), newTestMetrics()).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, geo.calls, "rows with a state are not looked up")
	assert.Equal(t, 1, report.Geocoded)

	all := table.All()
	require.Len(t, all, 2)
	assert.Equal(t, "Chicago", all[0].City)
	assert.Equal(t, "reverse", all[0].GeoSource)
	assert.Equal(t, "original", all[1].GeoSource)
}

func TestLoader_Load_GeocodeFailureKeepsRecord(t *testing.T) {
	src := &mockSource{rows: []domain.RawRow{row("$100", "-87.63", "41.88", "", "")}}
	geo := &mockGeocoder{err: errors.New("rate limited")}

	table, report, err := pipeline.NewLoader(src, geo, slog.Default(), newTestMetrics()).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, table.Len())
	assert.Equal(t, 1, report.GeocodeFailed)
	assert.Equal(t, "failed", table.All()[0].GeoSource)
}
