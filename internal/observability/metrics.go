package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the donor map service.
type Metrics struct {
	// Table load metrics.
	RecordsLoaded prometheus.Gauge
	RowsDropped   *prometheus.CounterVec // labels: reason={missing_location,invalid_amount}

	// Dashboard request metrics.
	DataRequests    *prometheus.CounterVec // labels: map_type={cluster,heatmap,choropleth,point}
	FilteredRecords prometheus.Histogram
	RequestDuration prometheus.Histogram

	// Kafka export metrics.
	RecordsExported     prometheus.Counter
	ExportErrors        prometheus.Counter
	ExportBatchDuration prometheus.Histogram

	// Geocoding metrics.
	GeocodeRequests    *prometheus.CounterVec // labels: outcome={success,error,empty}
	GeocodeCache       *prometheus.CounterVec // labels: result={hit,miss}
	GeocodeAPIDuration prometheus.Histogram
	GeocodeEnabled     prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.RecordsLoaded,
		m.RowsDropped,
		m.DataRequests,
		m.FilteredRecords,
		m.RequestDuration,
		m.RecordsExported,
		m.ExportErrors,
		m.ExportBatchDuration,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.GeocodeAPIDuration,
		m.GeocodeEnabled,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RecordsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "donor_map",
			Name:      "records_loaded",
			Help:      "Donation records held in the canonical table.",
		}),
		RowsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "donor_map",
			Name:      "rows_dropped_total",
			Help:      "Source rows rejected during normalization, by reason.",
		}, []string{"reason"}),
		DataRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "donor_map",
			Name:      "data_requests_total",
			Help:      "Dashboard data requests by map type.",
		}, []string{"map_type"}),
		FilteredRecords: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "donor_map",
			Name:      "filtered_records",
			Help:      "Records remaining after filters per request.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}),
		RequestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "donor_map",
			Name:      "data_request_duration_seconds",
			Help:      "Time to filter, aggregate and build a map scene.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		RecordsExported: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "donor_map",
			Name:      "records_exported_total",
			Help:      "Records published to the export topic.",
		}),
		ExportErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "donor_map",
			Name:      "export_errors_total",
			Help:      "Failed export batch writes.",
		}),
		ExportBatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "donor_map",
			Name:      "export_batch_duration_seconds",
			Help:      "Duration of one export batch write.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "donor_map",
			Name:      "geocode_requests_total",
			Help:      "Reverse geocoding API requests by outcome.",
		}, []string{"outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "donor_map",
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by result.",
		}, []string{"result"}),
		GeocodeAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "donor_map",
			Name:      "geocode_api_duration_seconds",
			Help:      "Mapbox API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		GeocodeEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "donor_map",
			Name:      "geocode_enabled",
			Help:      "1 when geocoding enrichment is enabled, 0 otherwise.",
		}),
	}
}
