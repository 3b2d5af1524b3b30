// Package models contains shared data models used across the clipsense codebase.
package models

import (
	"context"
	"errors"
	"time"
)

// Provider failure kinds. Every provider implementation wraps its failures
// in exactly one of these so callers can branch with errors.Is.
var (
	ErrProviderUnavailable = errors.New("llm provider unavailable")
	ErrRequestTimeout      = errors.New("llm request timeout")
	ErrRequestFailed       = errors.New("llm request failed")
	ErrInvalidResponse     = errors.New("llm provider returned invalid response")
)

// Provider is the core interface that all LLM integrations must implement.
// Callers depend on this interface, never on a concrete provider.
type Provider interface {
	// Generate sends a single prompt and returns the model's text output.
	// One attempt per call; retry policy belongs to the caller.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (Generation, error)
	// Available reports whether the provider can serve requests. It must be
	// cheap: credential presence for hosted APIs, a lightweight reachability
	// probe for local daemons. Never a generation call.
	Available(ctx context.Context) bool
	// Name returns the provider identifier (e.g., "mistral", "ollama").
	Name() string
}

// GenerateOptions carries optional per-call overrides. Zero values mean
// "use the provider's configured defaults".
type GenerateOptions struct {
	Model       string
	Temperature *float64
	MaxTokens   int
}

// Generation is the output of a single Generate call.
type Generation struct {
	Text     string
	Model    string
	Usage    Usage
	Duration time.Duration
}

// Usage reports token consumption for a generation, when the provider
// exposes it.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}
