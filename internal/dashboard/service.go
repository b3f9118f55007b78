// Package dashboard answers dashboard data requests: it filters the canonical
// table, summarizes the result, and renders the selected map.
package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"time"

	"github.com/couchcryptid/donor-map/internal/domain"
	"github.com/couchcryptid/donor-map/internal/observability"
	"github.com/couchcryptid/donor-map/internal/scene"
	"github.com/jonboulle/clockwork"
)

// FilterOptions lists the values the page offers in its filter controls.
type FilterOptions struct {
	States         []string `json:"states"`
	Cities         []string `json:"cities"`
	GiftCategories []string `json:"gift_categories"`
}

// Response is the /api/data payload.
type Response struct {
	Map         scene.Scene    `json:"map"`
	Stats       domain.Summary `json:"stats"`
	Filters     FilterOptions  `json:"filters"`
	GeneratedAt time.Time      `json:"generated_at"`
}

// Service serves requests against a single immutable table.
type Service struct {
	table   *domain.Table
	style   scene.Style
	clock   clockwork.Clock
	logger  *slog.Logger
	metrics *observability.Metrics
}

// New creates a Service. A nil clock uses real time.
func New(table *domain.Table, style scene.Style, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Service {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Service{
		table:   table,
		style:   style,
		clock:   clock,
		logger:  logger,
		metrics: metrics,
	}
}

// CheckReadiness reports whether a table is attached.
func (s *Service) CheckReadiness(_ context.Context) error {
	if s.table == nil {
		return errors.New("donor table not loaded")
	}
	return nil
}

// Query applies the filters and map type in q and assembles the response.
// It never fails: malformed bounds are ignored and unknown map types render
// as a point map.
func (s *Service) Query(q url.Values) Response {
	start := s.clock.Now()

	filter := domain.ParseFilter(q)
	mode := scene.ParseMode(q.Get("map_type"))
	view := filter.Apply(s.table.All())

	resp := Response{
		Map:   scene.Build(mode, view, s.style),
		Stats: domain.Summarize(view),
		Filters: FilterOptions{
			States:         s.table.States(),
			Cities:         view.Cities(),
			GiftCategories: domain.GiftCategories(),
		},
		GeneratedAt: s.clock.Now().UTC(),
	}

	s.metrics.DataRequests.WithLabelValues(string(mode)).Inc()
	s.metrics.FilteredRecords.Observe(float64(len(view)))
	s.metrics.RequestDuration.Observe(s.clock.Since(start).Seconds())
	s.logger.Debug("data request served",
		"map_type", mode,
		"state", filter.State,
		"city", filter.City,
		"gift_category", filter.GiftCategory,
		"records", len(view),
	)

	return resp
}
