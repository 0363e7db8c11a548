package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/adfharrison1/go-graph-index/pkg/api"
	"github.com/adfharrison1/go-graph-index/pkg/indexing"
	"github.com/adfharrison1/go-graph-index/pkg/registry"
	"github.com/adfharrison1/go-graph-index/pkg/storage"
)

// Server holds references to the registry, index engine, router, etc.
type Server struct {
	router   *mux.Router
	registry *registry.Registry
	engine   *indexing.Engine
	saver    *storage.Saver
	metrics  *prometheus.Registry
	logger   *slog.Logger

	snapshotFile     string
	snapshotInterval time.Duration
}

type Option func(*Server)

// WithSnapshots enables loading and saving engine snapshots at filename.
// A positive interval also saves in the background.
func WithSnapshots(filename string, interval time.Duration) Option {
	return func(s *Server) {
		s.snapshotFile = filename
		s.snapshotInterval = interval
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new instance of Server for the classes in reg.
func NewServer(reg *registry.Registry, options ...Option) *Server {
	s := &Server{
		router:   mux.NewRouter(),
		registry: reg,
		metrics:  prometheus.NewRegistry(),
		logger:   slog.Default(),
	}
	for _, option := range options {
		option(s)
	}

	s.metrics.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	s.engine = indexing.NewEngine(reg,
		indexing.WithLogger(s.logger),
		indexing.WithMetrics(indexing.NewMetrics(s.metrics)),
	)
	if s.snapshotFile != "" {
		s.saver = storage.NewSaver(s.engine, s.snapshotFile, s.snapshotInterval, s.logger)
	}

	// Define HTTP routes
	api.NewHandler(s.engine, reg, s.logger).RegisterRoutes(s.router)
	s.router.Handle("/metrics", promhttp.HandlerFor(s.metrics, promhttp.HandlerOpts{})).Methods("GET")

	// Use the logging middleware for all routes
	s.router.Use(s.requestLoggerMiddleware)

	// Customize NotFoundHandler to log 404s
	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Warn("no route found", "method", r.Method, "path", r.URL.Path)
		api.WriteJSONError(w, http.StatusNotFound, fmt.Sprintf("no route for %s %s", r.Method, r.URL.Path))
	})

	return s
}

// requestLoggerMiddleware logs the method, URL path, and duration for each request.
func (s *Server) requestLoggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("request", "method", r.Method, "path", r.URL.Path, "took", time.Since(start))
	})
}

// Start loads the last snapshot, if any, and starts background saves.
func (s *Server) Start() error {
	if s.saver == nil {
		return nil
	}
	loaded, err := storage.LoadSnapshot(s.snapshotFile, s.engine)
	if err != nil {
		return fmt.Errorf("could not load snapshot %s: %w", s.snapshotFile, err)
	}
	if loaded {
		s.logger.Info("snapshot loaded", "file", s.snapshotFile, "indexes", len(s.engine.Indexes()))
	}
	s.saver.StartBackgroundWorkers()
	return nil
}

// Stop stops background saves, writes a final snapshot and releases the engine.
func (s *Server) Stop() error {
	var saveErr error
	if s.saver != nil {
		s.saver.StopBackgroundWorkers()
		saveErr = s.saver.Save()
	}
	if err := s.engine.Close(); err != nil {
		s.logger.Error("closing index engine failed", "error", err)
	}
	return saveErr
}

// Engine exposes the index engine
func (s *Server) Engine() *indexing.Engine {
	return s.engine
}

// Router exposes the internal mux.Router.
func (s *Server) Router() http.Handler {
	return s.router
}
