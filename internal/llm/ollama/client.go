// Package ollama implements models.Provider against a local Ollama daemon.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/clipsense/clipsense/internal/config"
	"github.com/clipsense/clipsense/pkg/models"
)

const probeTimeout = 5 * time.Second

// Client implements models.Provider using Ollama's HTTP API.
type Client struct {
	cfg    config.OllamaConfig
	client *http.Client
}

// NewClient creates a new Ollama client.
func NewClient(cfg config.OllamaConfig) *Client {
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *Client) Name() string { return "ollama" }

// Available probes the daemon by listing installed models. The probe uses
// its own short timeout so an unreachable daemon fails fast.
func (c *Client) Available(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(probeCtx, http.MethodGet, c.cfg.BaseURL+"/api/tags", nil)
	if err != nil {
		return false
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}

func (c *Client) Generate(ctx context.Context, prompt string, opts models.GenerateOptions) (models.Generation, error) {
	model := c.cfg.Model
	if opts.Model != "" {
		model = opts.Model
	}
	temperature := c.cfg.Temperature
	if opts.Temperature != nil {
		temperature = *opts.Temperature
	}
	maxTokens := c.cfg.MaxTokens
	if opts.MaxTokens > 0 {
		maxTokens = opts.MaxTokens
	}

	body, err := json.Marshal(generateRequest{
		Model:  model,
		Prompt: prompt,
		Stream: false,
		Options: generateOptions{
			Temperature: temperature,
			NumPredict:  maxTokens,
		},
	})
	if err != nil {
		return models.Generation{}, fmt.Errorf("encoding ollama request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return models.Generation{}, fmt.Errorf("building ollama request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.client.Do(httpReq)
	if err != nil {
		return models.Generation{}, classifyError("ollama", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.Generation{}, fmt.Errorf("%w: ollama API status %d", models.ErrRequestFailed, resp.StatusCode)
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return models.Generation{}, fmt.Errorf("%w: decoding ollama response: %v", models.ErrInvalidResponse, err)
	}

	respModel := genResp.Model
	if respModel == "" {
		respModel = model
	}

	return models.Generation{
		Text:  genResp.Response,
		Model: respModel,
		Usage: models.Usage{
			PromptTokens:     genResp.PromptEvalCount,
			CompletionTokens: genResp.EvalCount,
			TotalTokens:      genResp.PromptEvalCount + genResp.EvalCount,
		},
		Duration: time.Since(start),
	}, nil
}

// classifyError maps transport-level errors to provider failure kinds.
// Connection refusal means the daemon is not running.
func classifyError(provider string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %s: %v", models.ErrRequestTimeout, provider, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return fmt.Errorf("%w: %s: %v", models.ErrRequestTimeout, provider, err)
		}
		return fmt.Errorf("%w: %s: %v", models.ErrProviderUnavailable, provider, err)
	}

	return fmt.Errorf("%w: %s: %v", models.ErrRequestFailed, provider, err)
}

// --- Ollama wire types ---

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

type generateResponse struct {
	Model           string `json:"model"`
	Response        string `json:"response"`
	PromptEvalCount int    `json:"prompt_eval_count"`
	EvalCount       int    `json:"eval_count"`
}

// Compile-time check that Client implements Provider.
var _ models.Provider = (*Client)(nil)
