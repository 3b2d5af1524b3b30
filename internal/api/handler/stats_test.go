package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clipsense/clipsense/internal/store"
)

type mockStats struct {
	stats *store.Stats
	err   error
}

func (m *mockStats) Stats(_ context.Context) (*store.Stats, error) {
	return m.stats, m.err
}

func TestStatsHandler_Success(t *testing.T) {
	svc := &mockStats{stats: &store.Stats{
		Total:             10,
		Successful:        8,
		Failed:            2,
		AverageConfidence: 77.5,
		SentimentDistribution: map[string]int{
			"positive": 5, "neutral": 2, "negative": 1,
		},
	}}

	rec := getReq(t, NewStatsHandler(svc), "/api/v1/stats")

	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeData(t, rec)
	assert.Equal(t, float64(10), data["total_analyses"])
	assert.Equal(t, float64(8), data["successful_analyses"])
	assert.Equal(t, 77.5, data["average_confidence"])
}

func TestStatsHandler_Error(t *testing.T) {
	svc := &mockStats{err: errors.New("db down")}

	rec := getReq(t, NewStatsHandler(svc), "/api/v1/stats")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "INTERNAL_ERROR", decodeErrCode(t, rec))
}
