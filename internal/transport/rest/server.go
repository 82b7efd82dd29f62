package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	logger *slog.Logger
	srv    *http.Server
}

// New - HTTP side port with health, game statistics and Prometheus metrics.
func New(logger *slog.Logger, port string, results resultReader, gatherer prometheus.Gatherer) *Server {
	log := logger.With("component", "http_server")

	return &Server{
		logger: log,
		srv: &http.Server{
			Addr:         ":" + port,
			Handler:      NewRouter(log, results, gatherer),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  30 * time.Second,
		},
	}
}

func NewRouter(logger *slog.Logger, results resultReader, gatherer prometheus.Gatherer) http.Handler {
	h := newHandlers(logger, results)

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)

	router.Get("/ping", h.PingHandler)
	router.Get("/stats", h.StatsHandler)
	router.Get("/results", h.RecentResultsHandler)
	router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return router
}

// Start - serves until ctx is done, then shuts down gracefully.
func (that *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := that.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := that.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}

	that.logger.Info("HTTP server stopped")

	return nil
}
