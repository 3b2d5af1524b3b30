package models

import (
	"time"

	"github.com/google/uuid"
)

// Sentiment classification values. Confidence is always on the 0-100
// integer scale.
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// ValidSentiment reports whether s is one of the three recognized
// sentiment values.
func ValidSentiment(s string) bool {
	return s == SentimentPositive || s == SentimentNeutral || s == SentimentNegative
}

// AnalysisRecord holds the persisted analysis for one piece of content.
// ContentID is the idempotency key: at most one record exists per content
// ID, and the store's upsert is the only write path. A record is either a
// success record (ErrorMessage nil, Summary set) or an error record
// (ErrorMessage set, analysis fields at zero defaults).
type AnalysisRecord struct {
	ID                 uuid.UUID `db:"id"                          json:"id"`
	ContentID          string    `db:"content_id"                  json:"content_id"`
	Summary            *string   `db:"summary"                     json:"summary,omitempty"`
	Topics             []string  `db:"topics"                      json:"topics"`
	Sentiment          *string   `db:"sentiment"                   json:"sentiment,omitempty"`
	Confidence         int       `db:"confidence"                  json:"confidence"`
	Provider           string    `db:"provider"                    json:"provider"`
	Model              *string   `db:"model"                       json:"model,omitempty"`
	ProcessingDuration float64   `db:"processing_duration_seconds" json:"processing_duration_seconds"`
	TranscriptExcerpt  *string   `db:"transcript_excerpt"          json:"transcript_excerpt,omitempty"`
	ErrorMessage       *string   `db:"error_message"               json:"error_message,omitempty"`
	CreatedAt          time.Time `db:"created_at"                  json:"created_at"`
	UpdatedAt          time.Time `db:"updated_at"                  json:"updated_at"`
}

// IsError reports whether the record captures a failed processing attempt.
func (r *AnalysisRecord) IsError() bool {
	return r.ErrorMessage != nil
}
