package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/clipsense/clipsense/internal/api/response"
	"github.com/clipsense/clipsense/internal/store"
	"github.com/clipsense/clipsense/pkg/models"
)

// AnalysisReader defines the interface the read handlers depend on.
type AnalysisReader interface {
	GetAnalysis(ctx context.Context, contentID string) (*models.AnalysisRecord, error)
	ListAnalyses(ctx context.Context, filter store.ListFilter) ([]*models.AnalysisRecord, error)
	CountAnalyses(ctx context.Context, filter store.ListFilter) (int, error)
}

// NewGetAnalysisHandler returns an http.HandlerFunc for
// GET /api/v1/analyses/{contentID}.
func NewGetAnalysisHandler(svc AnalysisReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		contentID := chi.URLParam(r, "contentID")
		if contentID == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "contentID is required", nil)
			return
		}

		record, err := svc.GetAnalysis(r.Context(), contentID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				response.Error(w, http.StatusNotFound, "NOT_FOUND",
					"No analysis found for this content", nil)
				return
			}
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"An unexpected error occurred", nil)
			return
		}

		response.JSON(w, record)
	}
}

// NewListAnalysesHandler returns an http.HandlerFunc for GET /api/v1/analyses.
// Supported query parameters: sentiment, topic, limit, offset.
func NewListAnalysesHandler(svc AnalysisReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, ok := parseListFilter(w, r)
		if !ok {
			return
		}

		records, err := svc.ListAnalyses(r.Context(), filter)
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"An unexpected error occurred", nil)
			return
		}

		total, err := svc.CountAnalyses(r.Context(), filter)
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"An unexpected error occurred", nil)
			return
		}

		normalized := filter.Normalized()
		response.Collection(w, records, response.PaginationMeta{
			Limit:   normalized.Limit,
			Offset:  normalized.Offset,
			Total:   total,
			HasNext: normalized.Offset+len(records) < total,
		})
	}
}

func parseListFilter(w http.ResponseWriter, r *http.Request) (store.ListFilter, bool) {
	q := r.URL.Query()
	filter := store.ListFilter{
		Sentiment: q.Get("sentiment"),
		Topic:     q.Get("topic"),
	}

	if filter.Sentiment != "" && !models.ValidSentiment(filter.Sentiment) {
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
			"sentiment must be one of positive, neutral, negative", nil)
		return store.ListFilter{}, false
	}

	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"limit must be a non-negative integer", nil)
			return store.ListFilter{}, false
		}
		filter.Limit = limit
	}
	if v := q.Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil || offset < 0 {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"offset must be a non-negative integer", nil)
			return store.ListFilter{}, false
		}
		filter.Offset = offset
	}

	return filter, true
}
