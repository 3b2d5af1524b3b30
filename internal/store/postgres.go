package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clipsense/clipsense/pkg/models"
)

const recordColumns = `id, content_id, summary, topics, sentiment, confidence, provider, model,
	 processing_duration_seconds, transcript_excerpt, error_message, created_at, updated_at`

// PostgresStore implements the Store interface using pgx/v5.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) Exists(ctx context.Context, contentID string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM analysis_records WHERE content_id = $1)`, contentID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check record exists: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) Get(ctx context.Context, contentID string) (*models.AnalysisRecord, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+recordColumns+` FROM analysis_records WHERE content_id = $1`, contentID)

	record, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get record: %w", err)
	}
	return record, nil
}

// Upsert inserts or overwrites the record keyed by content_id in a single
// statement. created_at is set once; updated_at is refreshed on every call.
func (s *PostgresStore) Upsert(ctx context.Context, record *models.AnalysisRecord) (*models.AnalysisRecord, error) {
	topicsJSON, err := json.Marshal(topicsOrEmpty(record.Topics))
	if err != nil {
		return nil, fmt.Errorf("encode topics: %w", err)
	}

	row := s.pool.QueryRow(ctx,
		`INSERT INTO analysis_records
		   (id, content_id, summary, topics, sentiment, confidence, provider, model,
		    processing_duration_seconds, transcript_excerpt, error_message, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		 ON CONFLICT (content_id) DO UPDATE SET
		   summary = EXCLUDED.summary,
		   topics = EXCLUDED.topics,
		   sentiment = EXCLUDED.sentiment,
		   confidence = EXCLUDED.confidence,
		   provider = EXCLUDED.provider,
		   model = EXCLUDED.model,
		   processing_duration_seconds = EXCLUDED.processing_duration_seconds,
		   transcript_excerpt = EXCLUDED.transcript_excerpt,
		   error_message = EXCLUDED.error_message,
		   updated_at = NOW()
		 RETURNING `+recordColumns,
		record.ID, record.ContentID, record.Summary, topicsJSON, record.Sentiment,
		record.Confidence, record.Provider, record.Model, record.ProcessingDuration,
		record.TranscriptExcerpt, record.ErrorMessage)

	saved, err := scanRecord(row)
	if err != nil {
		return nil, fmt.Errorf("upsert record: %w", err)
	}
	return saved, nil
}

func (s *PostgresStore) List(ctx context.Context, filter ListFilter) ([]*models.AnalysisRecord, error) {
	filter = filter.Normalized()
	where, args := buildFilter(filter)

	query := fmt.Sprintf(
		`SELECT `+recordColumns+` FROM analysis_records WHERE %s
		 ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	records := []*models.AnalysisRecord{}
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func (s *PostgresStore) Count(ctx context.Context, filter ListFilter) (int, error) {
	where, args := buildFilter(filter)

	var total int
	err := s.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM analysis_records WHERE "+where, args...).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return total, nil
}

func (s *PostgresStore) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{
		SentimentDistribution: map[string]int{
			models.SentimentPositive: 0,
			models.SentimentNeutral:  0,
			models.SentimentNegative: 0,
		},
		TopTopics: []TopicCount{},
	}

	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE error_message IS NULL),
		        COALESCE(AVG(confidence) FILTER (WHERE error_message IS NULL), 0),
		        COUNT(*) FILTER (WHERE created_at >= NOW() - INTERVAL '24 hours')
		 FROM analysis_records`,
	).Scan(&stats.Total, &stats.Successful, &stats.AverageConfidence, &stats.RecentCount)
	if err != nil {
		return nil, fmt.Errorf("aggregate stats: %w", err)
	}
	stats.Failed = stats.Total - stats.Successful
	stats.AverageConfidence = math.Round(stats.AverageConfidence*100) / 100

	rows, err := s.pool.Query(ctx,
		`SELECT sentiment, COUNT(*) FROM analysis_records
		 WHERE error_message IS NULL AND sentiment IS NOT NULL
		 GROUP BY sentiment`)
	if err != nil {
		return nil, fmt.Errorf("sentiment distribution: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var sentiment string
		var count int
		if err := rows.Scan(&sentiment, &count); err != nil {
			return nil, fmt.Errorf("scan sentiment distribution: %w", err)
		}
		stats.SentimentDistribution[sentiment] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	topicRows, err := s.pool.Query(ctx,
		`SELECT t.topic, COUNT(*) AS count
		 FROM analysis_records, jsonb_array_elements_text(topics) AS t(topic)
		 WHERE error_message IS NULL
		 GROUP BY t.topic
		 ORDER BY count DESC, t.topic ASC
		 LIMIT 10`)
	if err != nil {
		return nil, fmt.Errorf("top topics: %w", err)
	}
	defer topicRows.Close()
	for topicRows.Next() {
		var tc TopicCount
		if err := topicRows.Scan(&tc.Topic, &tc.Count); err != nil {
			return nil, fmt.Errorf("scan top topic: %w", err)
		}
		stats.TopTopics = append(stats.TopTopics, tc)
	}
	return stats, topicRows.Err()
}

// buildFilter returns the WHERE clause and args shared by List and Count.
// Error records never appear in listings.
func buildFilter(filter ListFilter) (string, []any) {
	conditions := []string{"error_message IS NULL"}
	var args []any

	if filter.Sentiment != "" {
		args = append(args, filter.Sentiment)
		conditions = append(conditions, fmt.Sprintf("sentiment = $%d", len(args)))
	}
	if filter.Topic != "" {
		args = append(args, filter.Topic)
		conditions = append(conditions, fmt.Sprintf("topics ? $%d", len(args)))
	}

	return strings.Join(conditions, " AND "), args
}

func topicsOrEmpty(topics []string) []string {
	if topics == nil {
		return []string{}
	}
	return topics
}

// scanRecord reads one analysis record row, decoding the jsonb topics
// column.
func scanRecord(row pgx.Row) (*models.AnalysisRecord, error) {
	var r models.AnalysisRecord
	var topicsJSON []byte

	err := row.Scan(&r.ID, &r.ContentID, &r.Summary, &topicsJSON, &r.Sentiment,
		&r.Confidence, &r.Provider, &r.Model, &r.ProcessingDuration,
		&r.TranscriptExcerpt, &r.ErrorMessage, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(topicsJSON, &r.Topics); err != nil {
		return nil, fmt.Errorf("decode topics: %w", err)
	}
	if r.Topics == nil {
		r.Topics = []string{}
	}
	return &r, nil
}

// Compile-time check that PostgresStore implements Store.
var _ Store = (*PostgresStore)(nil)
