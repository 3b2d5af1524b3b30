package handler

import (
	"context"
	"net/http"

	"github.com/clipsense/clipsense/internal/api/response"
	"github.com/clipsense/clipsense/internal/store"
)

// StatsProvider defines the interface the stats handler depends on.
type StatsProvider interface {
	Stats(ctx context.Context) (*store.Stats, error)
}

// NewStatsHandler returns an http.HandlerFunc for GET /api/v1/stats.
func NewStatsHandler(svc StatsProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.Stats(r.Context())
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"An unexpected error occurred", nil)
			return
		}
		response.JSON(w, stats)
	}
}
