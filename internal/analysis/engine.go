// Package analysis builds prompts for the three content analyses and parses
// model output into structured fields with layered fallbacks.
package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/clipsense/clipsense/pkg/models"
)

const summaryPrompt = `Please provide a concise summary of the following media content.
Focus on the main topics, key points, and overall message.
Keep the summary under 200 words and make it informative.

Content: %s`

const topicsPrompt = `Analyze the following media content and identify the main topics discussed.
Return a JSON array of topic strings, limited to the 5 most relevant topics.
Make topics specific and descriptive.

Content: %s

Response format: ["topic1", "topic2", "topic3", "topic4", "topic5"]`

const sentimentPrompt = `Analyze the sentiment of the following media content.
Classify it as one of: positive, neutral, or negative.
Also provide a confidence score from 0-100.

Content: %s

Response format: {"sentiment": "positive|neutral|negative", "confidence": 85}`

// Result is the combined output of the three sub-analyses.
type Result struct {
	Summary    string
	Topics     []string
	Sentiment  string
	Confidence int
	Model      string
	Usage      models.Usage
}

// Engine runs the summary, topics, and sentiment analyses against one
// provider.
type Engine struct {
	provider models.Provider
}

// NewEngine creates an Engine bound to the given provider.
func NewEngine(provider models.Provider) *Engine {
	return &Engine{provider: provider}
}

// Analyze runs all three sub-analyses over content. A summary failure is
// fatal and aborts the attempt; topic and sentiment failures degrade to
// empty topics and neutral sentiment at zero confidence.
func (e *Engine) Analyze(ctx context.Context, content string) (Result, error) {
	result := Result{
		Topics:    []string{},
		Sentiment: models.SentimentNeutral,
	}

	summary, err := e.provider.Generate(ctx, fmt.Sprintf(summaryPrompt, content), models.GenerateOptions{})
	if err != nil {
		return Result{}, fmt.Errorf("summary generation failed: %w", err)
	}
	result.Summary = strings.TrimSpace(summary.Text)
	result.Model = summary.Model
	result.Usage = summary.Usage

	topics, err := e.provider.Generate(ctx, fmt.Sprintf(topicsPrompt, content), models.GenerateOptions{})
	if err != nil {
		slog.Warn("topic extraction failed, defaulting to no topics",
			"provider", e.provider.Name(), "error", err)
	} else {
		result.Topics = parseTopics(topics.Text)
	}

	sentiment, err := e.provider.Generate(ctx, fmt.Sprintf(sentimentPrompt, content), models.GenerateOptions{})
	if err != nil {
		slog.Warn("sentiment analysis failed, defaulting to neutral",
			"provider", e.provider.Name(), "error", err)
		result.Confidence = 0
	} else {
		result.Sentiment, result.Confidence = parseSentiment(sentiment.Text)
	}

	return result, nil
}
