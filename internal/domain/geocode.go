package domain

import (
	"context"
	"log/slog"
)

// NeedsGeocoding reports whether a record has neither a state nor a city
// from its own columns.
func NeedsGeocoding(rec DonationRecord) bool {
	return rec.State == "" && rec.City == ""
}

// EnrichWithGeocoding fills missing state, city and ZIP from a reverse
// lookup of the record's coordinates. Fields already resolved from the row
// are never overwritten. If geocoder is nil or the record already has a
// state or city, it is returned unchanged; lookup failures set GeoSource to
// "failed" and keep the record.
func EnrichWithGeocoding(ctx context.Context, rec DonationRecord, geocoder Geocoder, logger *slog.Logger) DonationRecord {
	if geocoder == nil || !NeedsGeocoding(rec) {
		return rec
	}

	result, err := geocoder.ReverseGeocode(ctx, rec.Lat(), rec.Lon())
	if err != nil {
		logger.Warn("reverse geocoding failed",
			"record_id", rec.ID,
			"lat", rec.Lat(),
			"lon", rec.Lon(),
			"error", err,
		)
		rec.GeoSource = "failed"
		return rec
	}
	if result.State == "" && result.City == "" {
		return rec
	}

	rec.State = result.State
	rec.City = result.City
	if rec.ZIP == "" {
		rec.ZIP = result.ZIP
	}
	rec.GeoSource = "reverse"
	return rec
}
