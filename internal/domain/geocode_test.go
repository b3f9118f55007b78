package domain

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
)

// --- mock geocoder ---

type mockGeocoder struct {
	result GeocodingResult
	err    error
	calls  int
}

func (m *mockGeocoder) ReverseGeocode(_ context.Context, _, _ float64) (GeocodingResult, error) {
	m.calls++
	return m.result, m.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func unresolvedRecord() DonationRecord {
	return DonationRecord{
		ID:        "gift-1",
		Location:  orb.Point{-87.6298, 41.8781},
		ZIP:       "60601",
		GeoSource: "original",
	}
}

// --- tests ---

func TestEnrichWithGeocoding_NilGeocoder(t *testing.T) {
	rec := unresolvedRecord()

	result := EnrichWithGeocoding(context.Background(), rec, nil, discardLogger())

	assert.Equal(t, rec, result)
}

func TestEnrichWithGeocoding_ReverseFillsMissingFields(t *testing.T) {
	geo := &mockGeocoder{
		result: GeocodingResult{
			FormattedAddress: "Chicago, Illinois 60602, United States",
			City:             "Chicago",
			State:            "IL",
			ZIP:              "60602",
			Confidence:       1,
		},
	}

	result := EnrichWithGeocoding(context.Background(), unresolvedRecord(), geo, discardLogger())

	assert.Equal(t, "IL", result.State)
	assert.Equal(t, "Chicago", result.City)
	assert.Equal(t, "60601", result.ZIP, "row ZIP must not be overwritten")
	assert.Equal(t, "reverse", result.GeoSource)
	assert.Equal(t, 1, geo.calls)
}

func TestEnrichWithGeocoding_SkipsResolvedRecords(t *testing.T) {
	geo := &mockGeocoder{result: GeocodingResult{State: "IL", City: "Chicago"}}

	rec := unresolvedRecord()
	rec.City = "Evanston"

	result := EnrichWithGeocoding(context.Background(), rec, geo, discardLogger())

	assert.Equal(t, "Evanston", result.City)
	assert.Empty(t, result.State)
	assert.Equal(t, 0, geo.calls)
}

func TestEnrichWithGeocoding_Error(t *testing.T) {
	geo := &mockGeocoder{err: errors.New("timeout")}

	result := EnrichWithGeocoding(context.Background(), unresolvedRecord(), geo, discardLogger())

	assert.Equal(t, "failed", result.GeoSource)
	assert.Empty(t, result.State)
}

func TestEnrichWithGeocoding_EmptyResult(t *testing.T) {
	geo := &mockGeocoder{result: GeocodingResult{}}

	result := EnrichWithGeocoding(context.Background(), unresolvedRecord(), geo, discardLogger())

	assert.Equal(t, "original", result.GeoSource)
	assert.Empty(t, result.State)
	assert.Empty(t, result.City)
}
