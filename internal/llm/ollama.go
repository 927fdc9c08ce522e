package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/theronnieguidry/teachers-assistant/internal/types"
)

// OllamaClient implements Client for a locally hosted Ollama server (the free
// variant). It requires no payment and cannot generate images.
type OllamaClient struct {
	config *Config
	http   *http.Client
}

// NewOllamaClient creates a client for the configured Ollama host.
func NewOllamaClient(config *Config) *OllamaClient {
	return &OllamaClient{
		config: config,
		http:   &http.Client{Timeout: 120 * time.Second},
	}
}

// ollamaRequest is the /api/generate request body.
type ollamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
	Format string `json:"format,omitempty"`
}

// ollamaResponse is the non-streaming /api/generate response body.
type ollamaResponse struct {
	Response        string `json:"response"`
	PromptEvalCount int    `json:"prompt_eval_count"`
	EvalCount       int    `json:"eval_count"`
}

// Complete generates text content using the specified model tier
func (c *OllamaClient) Complete(ctx context.Context, prompt string, tier ModelTier) (*Completion, error) {
	return c.generate(ctx, prompt, tier, "")
}

// CompleteJSON generates JSON content using the specified model tier
func (c *OllamaClient) CompleteJSON(ctx context.Context, prompt string, tier ModelTier) (*Completion, error) {
	completion, err := c.generate(ctx, prompt, tier, "json")
	if err != nil {
		return nil, err
	}
	completion.Content = CleanJSONBlock(completion.Content)
	return completion, nil
}

func (c *OllamaClient) generate(ctx context.Context, prompt string, tier ModelTier, format string) (*Completion, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return nil, &ProviderError{Message: fmt.Sprintf("no model configured for tier %s", tier)}
	}

	body, err := json.Marshal(ollamaRequest{
		Model:  modelName,
		Prompt: prompt,
		Stream: false,
		Format: format,
	})
	if err != nil {
		return nil, &ProviderError{Message: "failed to encode request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.OllamaHost+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return nil, &ProviderError{Message: "failed to build request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &ProviderError{Message: "ollama request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &ProviderError{Message: fmt.Sprintf("ollama returned %d: %s", resp.StatusCode, string(data))}
	}

	var parsed ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, &ProviderError{Message: "failed to decode ollama response", Cause: err}
	}

	return &Completion{
		Content: parsed.Response,
		Usage: types.TokenUsage{
			Input:  parsed.PromptEvalCount,
			Output: parsed.EvalCount,
		},
	}, nil
}

// CompleteImage always fails: the local variant has no image capability.
func (c *OllamaClient) CompleteImage(_ context.Context, _ ImageRequest) ([]byte, error) {
	return nil, &ProviderError{Message: "local variant does not support image generation"}
}

// CostCredits always returns zero: the local variant is free.
func (c *OllamaClient) CostCredits(_ types.TokenUsage) int { return 0 }

// RequiresPayment reports whether this variant charges credits.
func (c *OllamaClient) RequiresPayment() bool { return false }

// SupportsImages reports whether this variant can generate images.
func (c *OllamaClient) SupportsImages() bool { return false }

// IsAvailable pings the Ollama server.
func (c *OllamaClient) IsAvailable(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.OllamaHost+"/api/tags", nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	defer func() { _ = resp.Body.Close() }()
	return resp.StatusCode == http.StatusOK
}

// Close releases resources held by the client
func (c *OllamaClient) Close() error { return nil }
