package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/rocketscienceinc/tictactoe-tcp/internal/entity"
)

const (
	defaultRecentLimit = 10
	maxRecentLimit     = 100
)

type resultReader interface {
	Recent(ctx context.Context, limit int64) ([]*entity.Result, error)
	Stats(ctx context.Context) (*entity.Stats, error)
}

type handlers struct {
	logger  *slog.Logger
	results resultReader
}

func newHandlers(logger *slog.Logger, results resultReader) *handlers {
	return &handlers{
		logger:  logger,
		results: results,
	}
}

func (that *handlers) PingHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

// StatsHandler - win and draw counters of every recorded game.
func (that *handlers) StatsHandler(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "StatsHandler")

	stats, err := that.results.Stats(r.Context())
	if err != nil {
		log.Error("failed to get stats", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	that.writeJSON(w, stats)
}

// RecentResultsHandler - latest finished games, newest first, `?limit=` up to 100.
func (that *handlers) RecentResultsHandler(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "RecentResultsHandler")

	limit := int64(defaultRecentLimit)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}

		limit = min(parsed, maxRecentLimit)
	}

	results, err := that.results.Recent(r.Context(), limit)
	if err != nil {
		log.Error("failed to get recent results", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if results == nil {
		results = []*entity.Result{}
	}

	that.writeJSON(w, results)
}

func (that *handlers) writeJSON(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
