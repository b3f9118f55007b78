package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/donor-map/internal/domain"
	"github.com/couchcryptid/donor-map/internal/observability"
)

// RowSource reads every raw row from the donor export.
type RowSource interface {
	ReadRows(ctx context.Context) ([]domain.RawRow, error)
}

// LoadReport summarizes one table build.
type LoadReport struct {
	Rows            int
	Kept            int
	MissingLocation int
	InvalidAmount   int
	Geocoded        int
	GeocodeFailed   int
}

// Dropped is the number of rows excluded from the table.
func (r LoadReport) Dropped() int {
	return r.MissingLocation + r.InvalidAmount
}

// Loader builds the canonical table: read, normalize, optionally geocode,
// freeze.
type Loader struct {
	source   RowSource
	geocoder domain.Geocoder
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewLoader creates a Loader. Pass a nil geocoder to disable enrichment.
func NewLoader(source RowSource, geocoder domain.Geocoder, logger *slog.Logger, metrics *observability.Metrics) *Loader {
	return &Loader{
		source:   source,
		geocoder: geocoder,
		logger:   logger,
		metrics:  metrics,
	}
}

// Load reads the source and returns the frozen table. Rows that fail
// normalization are dropped and counted; only source errors are returned.
func (l *Loader) Load(ctx context.Context) (*domain.Table, LoadReport, error) {
	rows, err := l.source.ReadRows(ctx)
	if err != nil {
		return nil, LoadReport{}, fmt.Errorf("load donor table: %w", err)
	}

	report := LoadReport{Rows: len(rows)}
	records := make([]domain.DonationRecord, 0, len(rows))
	for i, row := range rows {
		rec, err := domain.NormalizeRow(row)
		if err != nil {
			l.countDrop(&report, err)
			l.logger.Debug("row dropped", "row", i+1, "error", err)
			continue
		}

		if l.geocoder != nil && domain.NeedsGeocoding(rec) {
			rec = domain.EnrichWithGeocoding(ctx, rec, l.geocoder, l.logger)
			switch rec.GeoSource {
			case "reverse":
				report.Geocoded++
			case "failed":
				report.GeocodeFailed++
			}
		}
		records = append(records, rec)
	}
	report.Kept = len(records)

	table := domain.NewTable(records)
	l.metrics.RecordsLoaded.Set(float64(table.Len()))
	l.logger.Info("donor table loaded",
		"rows", report.Rows,
		"kept", report.Kept,
		"dropped", report.Dropped(),
		"missing_location", report.MissingLocation,
		"invalid_amount", report.InvalidAmount,
		"geocoded", report.Geocoded,
		"states", len(table.States()),
		"loaded_at", table.LoadedAt(),
	)
	return table, report, nil
}

func (l *Loader) countDrop(report *LoadReport, err error) {
	switch {
	case errors.Is(err, domain.ErrMissingLocation):
		report.MissingLocation++
		l.metrics.RowsDropped.WithLabelValues("missing_location").Inc()
	case errors.Is(err, domain.ErrInvalidAmount):
		report.InvalidAmount++
		l.metrics.RowsDropped.WithLabelValues("invalid_amount").Inc()
	}
}
