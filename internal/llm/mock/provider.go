// Package mock provides a models.Provider double for tests.
package mock

import (
	"context"
	"time"

	"github.com/clipsense/clipsense/pkg/models"
)

// Provider satisfies models.Provider for testing.
type Provider struct {
	Name_         string
	GenerateFunc  func(ctx context.Context, prompt string, opts models.GenerateOptions) (models.Generation, error)
	AvailableFunc func(ctx context.Context) bool
}

func (p *Provider) Name() string { return p.Name_ }

func (p *Provider) Available(ctx context.Context) bool {
	if p.AvailableFunc != nil {
		return p.AvailableFunc(ctx)
	}
	return true
}

func (p *Provider) Generate(ctx context.Context, prompt string, opts models.GenerateOptions) (models.Generation, error) {
	if p.GenerateFunc != nil {
		return p.GenerateFunc(ctx, prompt, opts)
	}
	return models.Generation{}, nil
}

// NewProvider returns a Provider with sensible default responses.
func NewProvider() *Provider {
	return &Provider{
		Name_: "mock",
		GenerateFunc: func(_ context.Context, _ string, _ models.GenerateOptions) (models.Generation, error) {
			return models.Generation{
				Text:     "Mock generation for testing",
				Model:    "mock-v1",
				Usage:    models.Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
				Duration: 5 * time.Millisecond,
			}, nil
		},
	}
}

// NewFailingProvider returns a Provider whose Generate always returns err.
func NewFailingProvider(err error) *Provider {
	return &Provider{
		Name_: "mock-failing",
		GenerateFunc: func(_ context.Context, _ string, _ models.GenerateOptions) (models.Generation, error) {
			return models.Generation{}, err
		},
	}
}

// NewScriptedProvider returns a Provider that replies to successive Generate
// calls with the given results in order, repeating the last one when
// exhausted. Each result is either an error or a text response.
func NewScriptedProvider(results ...Result) *Provider {
	i := 0
	return &Provider{
		Name_: "mock-scripted",
		GenerateFunc: func(_ context.Context, _ string, _ models.GenerateOptions) (models.Generation, error) {
			r := results[len(results)-1]
			if i < len(results) {
				r = results[i]
				i++
			}
			if r.Err != nil {
				return models.Generation{}, r.Err
			}
			return models.Generation{Text: r.Text, Model: "mock-v1"}, nil
		},
	}
}

// Result is one scripted Generate outcome.
type Result struct {
	Text string
	Err  error
}

// Compile-time check that Provider implements models.Provider.
var _ models.Provider = (*Provider)(nil)
