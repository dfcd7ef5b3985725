package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/india-cartogram/internal/domain"
)

// LayoutProvider derives layouts of the current dataset.
type LayoutProvider interface {
	Options() domain.Options
	Layout(opts domain.Options) (domain.LayoutResult, error)
}

// Server exposes health, readiness, metrics, and the layout API.
type Server struct {
	httpServer *http.Server
	layouts    LayoutProvider
	catalog    domain.Catalog
	threshold  float64
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics, and /api routes.
// threshold is the container width below which layouts switch to sequential mode.
func NewServer(addr string, ready sharedobs.ReadinessChecker, layouts LayoutProvider, catalog domain.Catalog, threshold float64, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		layouts:   layouts,
		catalog:   catalog,
		threshold: threshold,
		logger:    logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/meta", s.handleMeta)
	mux.HandleFunc("GET /api/layout", s.handleLayout)
	mux.HandleFunc("GET /api/regions/{code}", s.handleRegion)
	mux.HandleFunc("GET /api/regions/{code}/trend", s.handleTrend)
	mux.HandleFunc("GET /api/regions/{code}/points/{day}", s.handlePoint)

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
