package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/couchcryptid/glacier-data-etl/internal/domain"
	"github.com/couchcryptid/glacier-data-etl/internal/pipeline"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const defaultRankingSize = 10

// Catalog answers glacier queries against the currently loaded collection.
type Catalog interface {
	sharedobs.ReadinessChecker
	Names() ([]string, error)
	FilterByCode(pattern string) ([]string, error)
	Ranking(n int, reverse bool) ([]domain.GlacierSnapshot, error)
}

// Server exposes health, readiness, metrics, and glacier query endpoints.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics,
// /glaciers, and /glaciers/ranking routes.
func NewServer(addr string, catalog Catalog, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(catalog))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /glaciers", s.handleGlaciers(catalog))
	mux.HandleFunc("GET /glaciers/ranking", s.handleRanking(catalog))

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

type namesResponse struct {
	Count int      `json:"count"`
	Names []string `json:"names"`
}

type rankingResponse struct {
	Count    int                      `json:"count"`
	Glaciers []domain.GlacierSnapshot `json:"glaciers"`
}

// handleGlaciers lists glacier names, filtered by ?code= when present.
func (s *Server) handleGlaciers(catalog Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		var (
			names []string
			err   error
		)
		if q.Has("code") {
			names, err = catalog.FilterByCode(q.Get("code"))
		} else {
			names, err = catalog.Names()
		}
		if err != nil {
			s.writeCatalogError(w, err)
			return
		}
		sharedobs.WriteJSON(w, http.StatusOK, namesResponse{Count: len(names), Names: names})
	}
}

// handleRanking returns up to ?n= glaciers ordered by latest mass balance,
// highest first when ?reverse=true.
func (s *Server) handleRanking(catalog Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		n := defaultRankingSize
		if v := q.Get("n"); v != "" {
			parsed, err := strconv.Atoi(v)
			if err != nil || parsed < 0 {
				writeError(w, http.StatusBadRequest, "n must be a non-negative integer")
				return
			}
			n = parsed
		}

		reverse := false
		if v := q.Get("reverse"); v != "" {
			parsed, err := strconv.ParseBool(v)
			if err != nil {
				writeError(w, http.StatusBadRequest, "reverse must be a boolean")
				return
			}
			reverse = parsed
		}

		glaciers, err := catalog.Ranking(n, reverse)
		if err != nil {
			s.writeCatalogError(w, err)
			return
		}
		sharedobs.WriteJSON(w, http.StatusOK, rankingResponse{Count: len(glaciers), Glaciers: glaciers})
	}
}

func (s *Server) writeCatalogError(w http.ResponseWriter, err error) {
	if errors.Is(err, pipeline.ErrNotReady) {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	s.logger.Error("catalog query failed", "error", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func writeError(w http.ResponseWriter, status int, msg string) {
	sharedobs.WriteJSON(w, status, map[string]string{"error": msg})
}
