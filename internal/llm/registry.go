// Package llm provides the provider registry used to select a backend for
// analysis calls.
package llm

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/clipsense/clipsense/internal/config"
	"github.com/clipsense/clipsense/internal/llm/mistral"
	"github.com/clipsense/clipsense/internal/llm/ollama"
	"github.com/clipsense/clipsense/internal/llm/openrouter"
	"github.com/clipsense/clipsense/pkg/models"
)

var (
	ErrNoProviderAvailable = errors.New("no llm provider available")
	ErrUnknownProvider     = errors.New("unknown llm provider")
)

// priority is the fixed resolution order for "auto": first available wins.
var priority = []string{"mistral", "openrouter", "ollama"}

// Registry constructs and hands out providers. Construction is lazy so that
// startup does not validate credentials for providers that are never used.
// Safe for concurrent use.
type Registry struct {
	cfg config.LLMConfig

	mu        sync.Mutex
	providers map[string]models.Provider
}

// NewRegistry creates a registry over the configured providers.
func NewRegistry(cfg config.LLMConfig) *Registry {
	return &Registry{
		cfg:       cfg,
		providers: make(map[string]models.Provider),
	}
}

// Get returns the named provider, constructing it on first use.
func (r *Registry) Get(name string) (models.Provider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.providers[name]; ok {
		return p, nil
	}

	var p models.Provider
	switch name {
	case "mistral":
		p = mistral.NewClient(r.cfg.Mistral)
	case "openrouter":
		p = openrouter.NewClient(r.cfg.OpenRouter)
	case "ollama":
		p = ollama.NewClient(r.cfg.Ollama)
	default:
		return nil, fmt.Errorf("%w: %q must be one of mistral, openrouter, ollama", ErrUnknownProvider, name)
	}

	r.providers[name] = p
	return p, nil
}

// BestAvailable returns the first available provider in priority order
// (mistral, then openrouter, then ollama).
func (r *Registry) BestAvailable(ctx context.Context) (models.Provider, error) {
	for _, name := range priority {
		p, err := r.Get(name)
		if err != nil {
			return nil, err
		}
		if p.Available(ctx) {
			return p, nil
		}
	}
	return nil, ErrNoProviderAvailable
}

// Resolve returns a usable provider for the given name. An empty name or
// "auto" resolves via BestAvailable; a concrete name must name a provider
// that is currently available.
func (r *Registry) Resolve(ctx context.Context, name string) (models.Provider, error) {
	if name == "" || name == "auto" {
		return r.BestAvailable(ctx)
	}

	p, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	if !p.Available(ctx) {
		return nil, fmt.Errorf("%w: %s is not available", models.ErrProviderUnavailable, name)
	}
	return p, nil
}

// AvailableProviders lists the names of currently available providers in
// priority order, for health reporting.
func (r *Registry) AvailableProviders(ctx context.Context) []string {
	var available []string
	for _, name := range priority {
		p, err := r.Get(name)
		if err != nil {
			continue
		}
		if p.Available(ctx) {
			available = append(available, name)
		}
	}
	return available
}
