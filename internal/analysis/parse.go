package analysis

import (
	"encoding/json"
	"math"
	"regexp"
	"strings"

	"github.com/clipsense/clipsense/pkg/models"
)

const (
	maxTopics          = 5
	tieConfidence      = 70
	minKeywordLen      = 4
	maxTopicLen        = 50
	fallbackFloor      = 50
	fallbackCeiling    = 90
	fallbackPerKeyword = 10
)

var wordPattern = regexp.MustCompile(`\b[A-Za-z]{4,}\b`)

// stopWords are excluded from last-resort keyword topic extraction.
var stopWords = map[string]bool{
	"this": true, "that": true, "with": true, "from": true, "they": true,
	"know": true, "want": true, "been": true, "good": true, "much": true,
	"some": true, "time": true, "very": true, "when": true, "come": true,
	"here": true, "just": true, "like": true, "long": true, "make": true,
	"many": true, "over": true, "such": true, "take": true, "than": true,
	"them": true, "well": true, "were": true, "will": true, "would": true,
	"about": true, "after": true, "again": true, "before": true, "could": true,
	"first": true, "found": true, "great": true, "never": true, "other": true,
	"right": true, "should": true, "still": true, "those": true, "under": true,
	"where": true, "while": true, "these": true, "through": true, "during": true,
	"without": true, "another": true, "because": true, "between": true,
	"against": true, "nothing": true, "someone": true, "everyone": true,
	"something": true,
}

// Keyword lists for the sentiment fallback classifier. Matching is by
// substring over the lowercased response text.
var (
	positiveWords = []string{
		"positive", "good", "great", "excellent", "amazing", "wonderful",
		"fantastic", "awesome", "love", "best", "happy", "excited", "optimistic",
	}
	negativeWords = []string{
		"negative", "bad", "terrible", "awful", "horrible", "worst",
		"hate", "sad", "angry", "disappointed", "frustrated", "pessimistic",
	}
)

// parseTopics extracts up to five topic strings from a model response.
// Parse order: strict JSON array, then comma-delimited text, then bare
// keyword extraction.
func parseTopics(text string) []string {
	text = stripCodeFence(strings.TrimSpace(text))

	if strings.HasPrefix(text, "[") && strings.HasSuffix(text, "]") {
		var parsed []string
		if err := json.Unmarshal([]byte(text), &parsed); err == nil {
			topics := make([]string, 0, maxTopics)
			for _, t := range parsed {
				t = strings.TrimSpace(t)
				if t != "" {
					topics = append(topics, t)
				}
				if len(topics) == maxTopics {
					break
				}
			}
			return topics
		}
	}

	if strings.Contains(text, ",") {
		var topics []string
		for _, part := range strings.Split(text, ",") {
			topic := strings.Trim(strings.TrimSpace(part), `"'[]`)
			if len(topic) > 1 && len(topic) < maxTopicLen {
				topics = append(topics, topic)
			}
		}
		if len(topics) > maxTopics {
			topics = topics[:maxTopics]
		}
		if len(topics) > 0 {
			return topics
		}
	}

	return extractKeywords(text)
}

// extractKeywords is the last-resort topic path: alphabetic tokens of four
// or more letters, minus stop words, de-duplicated in first-seen order.
func extractKeywords(text string) []string {
	words := wordPattern.FindAllString(strings.ToLower(text), -1)

	seen := make(map[string]bool)
	var topics []string
	for _, w := range words {
		if stopWords[w] || seen[w] {
			continue
		}
		seen[w] = true
		topics = append(topics, w)
		if len(topics) == maxTopics {
			break
		}
	}
	return topics
}

// parseSentiment extracts a sentiment classification and 0-100 confidence
// from a model response. A strict JSON object is tried first; anything else
// falls through to the keyword classifier.
func parseSentiment(text string) (string, int) {
	trimmed := stripCodeFence(strings.TrimSpace(text))

	if strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}") {
		var parsed struct {
			Sentiment  string  `json:"sentiment"`
			Confidence float64 `json:"confidence"`
		}
		if err := json.Unmarshal([]byte(trimmed), &parsed); err == nil && models.ValidSentiment(parsed.Sentiment) {
			return parsed.Sentiment, normalizeConfidence(parsed.Confidence)
		}
	}

	return classifyByKeywords(text)
}

// classifyByKeywords counts positive and negative keyword hits; the side
// with more hits wins with confidence 50 + 10 per hit, capped at 90. Ties
// (including zero hits) are neutral at the fixed default confidence.
func classifyByKeywords(text string) (string, int) {
	lower := strings.ToLower(text)

	var positive, negative int
	for _, w := range positiveWords {
		if strings.Contains(lower, w) {
			positive++
		}
	}
	for _, w := range negativeWords {
		if strings.Contains(lower, w) {
			negative++
		}
	}

	switch {
	case positive > negative:
		return models.SentimentPositive, fallbackConfidence(positive)
	case negative > positive:
		return models.SentimentNegative, fallbackConfidence(negative)
	default:
		return models.SentimentNeutral, tieConfidence
	}
}

func fallbackConfidence(hits int) int {
	c := fallbackFloor + fallbackPerKeyword*hits
	if c > fallbackCeiling {
		return fallbackCeiling
	}
	return c
}

// normalizeConfidence converts a reported confidence to the canonical 0-100
// integer scale. Values in [0, 1] are treated as fractions; everything else
// is rounded and clamped.
func normalizeConfidence(v float64) int {
	if v >= 0 && v <= 1 {
		v *= 100
	}
	c := int(math.Round(v))
	if c < 0 {
		return 0
	}
	if c > 100 {
		return 100
	}
	return c
}

// stripCodeFence removes a surrounding markdown code fence, which chat
// models often wrap JSON responses in.
func stripCodeFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}
