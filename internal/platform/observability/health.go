package observability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	db "github.com/motorlist/eventbrite-harvester/internal/storage"
)

const (
	shutdownTimeout   = 5 * time.Second
	readHeaderTimeout = 10 * time.Second
	statsRunLimit     = 20
	dropStatsWindow   = 7 * 24 * time.Hour
	dropStatsLimit    = 25
)

// Server exposes health checks, run stats and Prometheus metrics. The
// database is optional; without it readiness is unconditional and /stats
// serves an empty list.
type Server struct {
	db     *db.DB
	port   int
	logger *zerolog.Logger
}

func NewServer(database *db.DB, port int, logger *zerolog.Logger) *Server {
	return &Server{
		db:     database,
		port:   port,
		logger: logger,
	}
}

func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprint(w, "OK")
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if s.db != nil {
			if err := s.db.Ping(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = fmt.Fprintf(w, "DB error: %v", err)

				return
			}
		}

		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprint(w, "OK")
	})

	mux.HandleFunc("/stats", s.handleStats)
	mux.HandleFunc("/stats/drops", s.handleDropStats)

	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)

		defer cancel()

		//nolint:errcheck,contextcheck // shutdown in signal handler is best-effort, non-inherited context intentional
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info().Int("port", s.port).Msg("Health check server starting")

	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

// handleStats serves the most recent harvest runs as JSON.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if s.db == nil {
		_, _ = fmt.Fprint(w, "[]")

		return
	}

	runs, err := s.db.GetRecentRuns(r.Context(), statsRunLimit)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load recent runs for stats")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = fmt.Fprint(w, `{"error":"failed to load runs"}`)

		return
	}

	if err := json.NewEncoder(w).Encode(runs); err != nil {
		s.logger.Error().Err(err).Msg("Failed to encode stats response")
	}
}

// handleDropStats serves drop reason counts over the last week, a quick view
// of why events are falling out of the harvest.
func (s *Server) handleDropStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if s.db == nil {
		_, _ = fmt.Fprint(w, "[]")

		return
	}

	stats, err := s.db.GetDropReasonStats(r.Context(), time.Now().Add(-dropStatsWindow), dropStatsLimit)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load drop reason stats")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = fmt.Fprint(w, `{"error":"failed to load drop stats"}`)

		return
	}

	if err := json.NewEncoder(w).Encode(stats); err != nil {
		s.logger.Error().Err(err).Msg("Failed to encode drop stats response")
	}
}
