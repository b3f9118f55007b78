// Package httpadapter serves the dashboard page, its data API, and the
// operational endpoints.
package httpadapter

import (
	"context"
	_ "embed"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/donor-map/internal/dashboard"
	"github.com/couchcryptid/donor-map/internal/domain"
	"github.com/couchcryptid/donor-map/internal/scene"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:embed web/index.html
var indexHTML string

var indexTemplate = template.Must(template.New("index").Parse(indexHTML))

// DataService answers /api/data queries.
type DataService interface {
	Query(q url.Values) dashboard.Response
}

// pageData is rendered into the dashboard page.
type pageData struct {
	Title          string
	MapTypes       []scene.Mode
	GiftCategories []string
}

// Server exposes the dashboard, health, readiness, and metrics HTTP endpoints.
type Server struct {
	httpServer *http.Server
	data       DataService
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /, /api/data, /healthz, /readyz,
// and /metrics routes.
func NewServer(addr string, data DataService, ready sharedobs.ReadinessChecker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		data:   data,
		logger: logger,
	}

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /api/data", s.handleData)
	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := indexTemplate.Execute(w, pageData{
		Title:          "Donor Map",
		MapTypes:       []scene.Mode{scene.ModePoint, scene.ModeCluster, scene.ModeHeatmap, scene.ModeChoropleth},
		GiftCategories: domain.GiftCategories(),
	})
	if err != nil {
		s.logger.Error("render index failed", "error", err)
	}
}

// handleData never rejects a query: bad parameters degrade to defaults.
func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	body, err := json.Marshal(s.data.Query(r.URL.Query()))
	if err != nil {
		s.logger.Error("encode data response failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(body)
}
