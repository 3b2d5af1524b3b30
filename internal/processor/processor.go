// Package processor orchestrates transcript extraction, LLM analysis, and
// persistence for a single piece of content.
package processor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/clipsense/clipsense/internal/analysis"
	"github.com/clipsense/clipsense/internal/cache"
	"github.com/clipsense/clipsense/internal/extract"
	"github.com/clipsense/clipsense/internal/store"
	"github.com/clipsense/clipsense/pkg/models"
)

const (
	maxExcerptChars = 1000

	recordCacheTTL = 5 * time.Minute
	statsCacheTTL  = 30 * time.Second
)

// Resolver selects an LLM provider by name. An empty name or "auto" picks
// the best available provider.
type Resolver interface {
	Resolve(ctx context.Context, name string) (models.Provider, error)
}

// Request describes one processing job.
type Request struct {
	ContentID  string `json:"content_id"`
	ContentURL string `json:"content_url"`
	Platform   string `json:"platform,omitempty"`
	Provider   string `json:"provider,omitempty"`
	Force      bool   `json:"force_reprocess,omitempty"`
}

// Response is the outcome of a processing attempt. Process always returns
// one: failures are reported through Success and Message, never as an error.
type Response struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Cached  bool                   `json:"cached"`
	Data    *models.AnalysisRecord `json:"data,omitempty"`
}

// Processor runs the extract-analyze-persist pipeline.
type Processor struct {
	store     store.Store
	cache     cache.Cache
	resolver  Resolver
	extractor extract.Extractor
}

// New creates a Processor.
func New(st store.Store, c cache.Cache, resolver Resolver, extractor extract.Extractor) *Processor {
	return &Processor{
		store:     st,
		cache:     c,
		resolver:  resolver,
		extractor: extractor,
	}
}

// Process analyzes the content named by req. When a record already exists
// for the content ID and Force is unset, the stored record is returned
// without re-running the pipeline. Every failure past that point is
// captured as an error record keyed by the same content ID.
func (p *Processor) Process(ctx context.Context, req Request) *Response {
	start := time.Now()
	log := slog.With("content_id", req.ContentID)

	if !req.Force {
		existing, err := p.store.Get(ctx, req.ContentID)
		if err == nil {
			log.Info("returning stored analysis")
			return &Response{
				Success: !existing.IsError(),
				Message: "Analysis retrieved from cache",
				Cached:  true,
				Data:    existing,
			}
		}
		if !errors.Is(err, store.ErrNotFound) {
			log.Error("lookup failed", "error", err)
			return p.fail(ctx, req, start, fmt.Sprintf("Database lookup failed: %v", err))
		}
	}

	transcript, err := p.extractor.Extract(ctx, req.ContentURL, req.Platform)
	if err != nil {
		log.Error("transcript extraction failed", "error", err)
		return p.fail(ctx, req, start, fmt.Sprintf("Transcript extraction failed: %v", err))
	}
	if transcript == "" {
		log.Warn("no transcript available")
		return p.fail(ctx, req, start, "No transcript available")
	}

	provider, err := p.resolver.Resolve(ctx, req.Provider)
	if err != nil {
		log.Error("provider resolution failed", "provider", req.Provider, "error", err)
		return p.fail(ctx, req, start, fmt.Sprintf("LLM backend unavailable: %v", err))
	}

	result, err := analysis.NewEngine(provider).Analyze(ctx, transcript)
	if err != nil {
		log.Error("analysis failed", "provider", provider.Name(), "error", err)
		return p.fail(ctx, req, start, fmt.Sprintf("Analysis failed: %v", err))
	}

	record := &models.AnalysisRecord{
		ID:                 uuid.New(),
		ContentID:          req.ContentID,
		Summary:            &result.Summary,
		Topics:             result.Topics,
		Sentiment:          &result.Sentiment,
		Confidence:         result.Confidence,
		Provider:           provider.Name(),
		ProcessingDuration: time.Since(start).Seconds(),
		TranscriptExcerpt:  ptr(truncateString(transcript, maxExcerptChars)),
	}
	if result.Model != "" {
		record.Model = &result.Model
	}

	saved, err := p.store.Upsert(ctx, record)
	if err != nil {
		log.Error("failed to persist analysis", "error", err)
		return p.fail(ctx, req, start, fmt.Sprintf("Failed to save analysis: %v", err))
	}
	p.invalidate(ctx, req.ContentID)

	log.Info("content analyzed",
		"provider", saved.Provider,
		"sentiment", result.Sentiment,
		"topics", len(result.Topics),
		"duration_secs", saved.ProcessingDuration)

	return &Response{
		Success: true,
		Message: "Content analyzed successfully",
		Data:    saved,
	}
}

// Reprocess forces a fresh analysis regardless of any stored record.
func (p *Processor) Reprocess(ctx context.Context, req Request) *Response {
	req.Force = true
	return p.Process(ctx, req)
}

// fail records a processing failure as an error record for the content ID.
// When even the error record cannot be written the failure is logged and
// the response still carries the message.
func (p *Processor) fail(ctx context.Context, req Request, start time.Time, message string) *Response {
	record := &models.AnalysisRecord{
		ID:                 uuid.New(),
		ContentID:          req.ContentID,
		Topics:             []string{},
		ProcessingDuration: time.Since(start).Seconds(),
		ErrorMessage:       &message,
	}

	saved, err := p.store.Upsert(ctx, record)
	if err != nil {
		slog.Error("failed to persist error record",
			"content_id", req.ContentID, "message", message, "error", err)
		return &Response{Success: false, Message: message}
	}
	p.invalidate(ctx, req.ContentID)

	return &Response{Success: false, Message: message, Data: saved}
}

// GetAnalysis returns the stored record for a content ID, reading through
// the cache. Cache failures degrade to a direct store read.
func (p *Processor) GetAnalysis(ctx context.Context, contentID string) (*models.AnalysisRecord, error) {
	key := cache.RecordKey(contentID)

	if raw, ok, err := p.cache.Get(ctx, key); err != nil {
		slog.Warn("cache read failed", "key", key, "error", err)
	} else if ok {
		var record models.AnalysisRecord
		if err := json.Unmarshal(raw, &record); err == nil {
			return &record, nil
		}
		slog.Warn("dropping undecodable cache entry", "key", key)
	}

	record, err := p.store.Get(ctx, contentID)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(record); err == nil {
		if err := p.cache.Set(ctx, key, raw, recordCacheTTL); err != nil {
			slog.Warn("cache write failed", "key", key, "error", err)
		}
	}
	return record, nil
}

// ListAnalyses returns stored records matching the filter.
func (p *Processor) ListAnalyses(ctx context.Context, filter store.ListFilter) ([]*models.AnalysisRecord, error) {
	return p.store.List(ctx, filter)
}

// CountAnalyses returns the number of records matching the filter.
func (p *Processor) CountAnalyses(ctx context.Context, filter store.ListFilter) (int, error) {
	return p.store.Count(ctx, filter)
}

// Stats returns the aggregate view, cached briefly to keep the stats
// endpoint cheap under polling.
func (p *Processor) Stats(ctx context.Context) (*store.Stats, error) {
	key := cache.StatsKey()

	if raw, ok, err := p.cache.Get(ctx, key); err != nil {
		slog.Warn("cache read failed", "key", key, "error", err)
	} else if ok {
		var stats store.Stats
		if err := json.Unmarshal(raw, &stats); err == nil {
			return &stats, nil
		}
	}

	stats, err := p.store.Stats(ctx)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(stats); err == nil {
		if err := p.cache.Set(ctx, key, raw, statsCacheTTL); err != nil {
			slog.Warn("cache write failed", "key", key, "error", err)
		}
	}
	return stats, nil
}

// invalidate drops cached views made stale by a write. Cache errors are
// logged, not returned.
func (p *Processor) invalidate(ctx context.Context, contentID string) {
	for _, key := range []string{cache.RecordKey(contentID), cache.StatsKey()} {
		if err := p.cache.Delete(ctx, key); err != nil {
			slog.Warn("cache invalidation failed", "key", key, "error", err)
		}
	}
}

// truncateString limits s to max runes without splitting a multi-byte
// character.
func truncateString(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func ptr(s string) *string {
	return &s
}
