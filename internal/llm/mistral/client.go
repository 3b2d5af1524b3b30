// Package mistral implements models.Provider against the Mistral AI
// chat-completions API.
package mistral

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

const systemPrompt = "You are a helpful assistant that analyzes media content."

// Client implements models.Provider using the Mistral API.
type Client struct {
	cfg    config.MistralConfig
	client *http.Client
}

// NewClient creates a new Mistral client.
func NewClient(cfg config.MistralConfig) *Client {
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *Client) Name() string { return "mistral" }

// Available reports credential presence. No network call is made.
func (c *Client) Available(_ context.Context) bool {
	return c.cfg.APIKey != ""
}

func (c *Client) Generate(ctx context.Context, prompt string, opts models.GenerateOptions) (models.Generation, error) {
	if c.cfg.APIKey == "" {
		return models.Generation{}, fmt.Errorf("%w: mistral API key not configured", models.ErrProviderUnavailable)
	}

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

	body, err := json.Marshal(chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
		Stream:      false,
	})
	if err != nil {
		return models.Generation{}, fmt.Errorf("encoding mistral request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIURL, bytes.NewReader(body))
	if err != nil {
		return models.Generation{}, fmt.Errorf("building mistral request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.client.Do(httpReq)
	if err != nil {
		return models.Generation{}, classifyError("mistral", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.Generation{}, fmt.Errorf("%w: mistral API status %d", models.ErrRequestFailed, resp.StatusCode)
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return models.Generation{}, fmt.Errorf("%w: decoding mistral response: %v", models.ErrInvalidResponse, err)
	}
	if len(chatResp.Choices) == 0 {
		return models.Generation{}, fmt.Errorf("%w: mistral response has no choices", models.ErrInvalidResponse)
	}

	respModel := chatResp.Model
	if respModel == "" {
		respModel = model
	}

	return models.Generation{
		Text:     chatResp.Choices[0].Message.Content,
		Model:    respModel,
		Usage:    chatResp.Usage,
		Duration: time.Since(start),
	}, nil
}

// classifyError maps transport-level errors to provider failure kinds.
func classifyError(provider string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %s: %v", models.ErrRequestTimeout, provider, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %s: %v", models.ErrRequestTimeout, provider, err)
	}

	return fmt.Errorf("%w: %s: %v", models.ErrRequestFailed, provider, err)
}

// --- chat-completions wire types ---

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	Stream      bool          `json:"stream"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage models.Usage `json:"usage"`
}

// Compile-time check that Client implements Provider.
var _ models.Provider = (*Client)(nil)
