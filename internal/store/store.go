package store

import (
	"context"
	"errors"

	"github.com/clipsense/clipsense/pkg/models"
)

var ErrNotFound = errors.New("resource not found")

// maxListLimit caps page sizes for List and the default applies when the
// caller passes no limit.
const (
	maxListLimit     = 200
	defaultListLimit = 50
)

// Store is the data access interface for analysis records. All database
// operations go through here. Upsert is the sole write path.
type Store interface {
	Ping(ctx context.Context) error
	Exists(ctx context.Context, contentID string) (bool, error)
	Get(ctx context.Context, contentID string) (*models.AnalysisRecord, error)
	Upsert(ctx context.Context, record *models.AnalysisRecord) (*models.AnalysisRecord, error)
	List(ctx context.Context, filter ListFilter) ([]*models.AnalysisRecord, error)
	Count(ctx context.Context, filter ListFilter) (int, error)
	Stats(ctx context.Context) (*Stats, error)
}

// ListFilter narrows List and Count. Error records are always excluded.
type ListFilter struct {
	Sentiment string
	Topic     string
	Limit     int
	Offset    int
}

// Normalized returns the filter with pagination bounds applied.
func (f ListFilter) Normalized() ListFilter {
	if f.Limit <= 0 {
		f.Limit = defaultListLimit
	}
	if f.Limit > maxListLimit {
		f.Limit = maxListLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}

// Stats is the aggregate view over all analysis records. Confidence and
// sentiment aggregates cover successful records only.
type Stats struct {
	Total                 int            `json:"total_analyses"`
	Successful            int            `json:"successful_analyses"`
	Failed                int            `json:"failed_analyses"`
	AverageConfidence     float64        `json:"average_confidence"`
	SentimentDistribution map[string]int `json:"sentiment_distribution"`
	RecentCount           int            `json:"recent_analyses"`
	TopTopics             []TopicCount   `json:"top_topics"`
}

// TopicCount is one entry of the ranked top-topics list.
type TopicCount struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}
