package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/theronnieguidry/teachers-assistant/internal/types"
)

// Completion is the result of one text-completion call.
type Completion struct {
	Content string
	Usage   types.TokenUsage
}

// ImageRequest describes one image-completion call.
type ImageRequest struct {
	Description string
	Style       string
	Grade       string
}

// Client is an abstraction over capability backends.
type Client interface {
	// Complete generates text content using the specified model tier
	Complete(ctx context.Context, prompt string, tier ModelTier) (*Completion, error)
	// CompleteJSON generates JSON content using the specified model tier
	CompleteJSON(ctx context.Context, prompt string, tier ModelTier) (*Completion, error)
	// CompleteImage generates one image and returns its binary content
	CompleteImage(ctx context.Context, req ImageRequest) ([]byte, error)
	// CostCredits converts accumulated token usage into credits
	CostCredits(usage types.TokenUsage) int
	// RequiresPayment reports whether this variant charges credits
	RequiresPayment() bool
	// SupportsImages reports whether this variant can generate images
	SupportsImages() bool
	// IsAvailable reports whether the backend is reachable
	IsAvailable(ctx context.Context) bool
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a capability client for the configured variant.
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig(VariantCloud)
	}

	switch config.Variant {
	case VariantLocal:
		return NewOllamaClient(config), nil
	default:
		return NewGeminiClient(ctx, config, apiKey)
	}
}

// GeminiClient implements Client for Google Gemini (the paid cloud variant).
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, &ProviderError{Message: "API key is required"}
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, &ProviderError{Message: "failed to create Gemini client", Cause: err}
	}

	return &GeminiClient{client: client, config: config}, nil
}

// Complete generates text content using the specified model tier
func (c *GeminiClient) Complete(ctx context.Context, prompt string, tier ModelTier) (*Completion, error) {
	return c.generate(ctx, prompt, tier, "")
}

// CompleteJSON generates JSON content using the specified model tier
func (c *GeminiClient) CompleteJSON(ctx context.Context, prompt string, tier ModelTier) (*Completion, error) {
	completion, err := c.generate(ctx, prompt, tier, "application/json")
	if err != nil {
		return nil, err
	}
	completion.Content = CleanJSONBlock(completion.Content)
	return completion, nil
}

func (c *GeminiClient) generate(ctx context.Context, prompt string, tier ModelTier, mimeType string) (*Completion, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return nil, &ProviderError{Message: fmt.Sprintf("no model configured for tier %s", tier)}
	}

	model := c.client.GenerativeModel(modelName)
	model.SetTemperature(0.2) // Low temperature for consistent output
	if mimeType != "" {
		model.ResponseMIMEType = mimeType
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, &ProviderError{Message: "failed to generate content", Cause: err}
	}

	text, err := extractTextFromResponse(resp)
	if err != nil {
		return nil, err
	}

	return &Completion{Content: text, Usage: extractUsage(resp)}, nil
}

// CompleteImage generates one image using the configured image model.
func (c *GeminiClient) CompleteImage(ctx context.Context, req ImageRequest) ([]byte, error) {
	if c.config.ImageModel == "" {
		return nil, &ProviderError{Message: "no image model configured"}
	}

	prompt := buildImagePrompt(req)
	model := c.client.GenerativeModel(c.config.ImageModel)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, &ProviderError{Message: "failed to generate image", Cause: err}
	}

	return extractImageFromResponse(resp)
}

// CostCredits converts token usage into credits: 1 credit per 1000 input
// tokens plus 3 per 1000 output tokens, minimum 1 when any tokens were spent.
func (c *GeminiClient) CostCredits(usage types.TokenUsage) int {
	if usage.Input == 0 && usage.Output == 0 {
		return 0
	}
	credits := (usage.Input + 999) / 1000
	credits += 3 * ((usage.Output + 999) / 1000)
	if credits < 1 {
		credits = 1
	}
	return credits
}

// RequiresPayment reports whether this variant charges credits.
func (c *GeminiClient) RequiresPayment() bool { return true }

// SupportsImages reports whether this variant can generate images.
func (c *GeminiClient) SupportsImages() bool { return c.config.ImageModel != "" }

// IsAvailable reports whether the backend is reachable. The Gemini SDK has no
// ping endpoint, so a constructed client is considered available.
func (c *GeminiClient) IsAvailable(_ context.Context) bool { return c.client != nil }

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// buildImagePrompt renders an ImageRequest into a single generation prompt.
func buildImagePrompt(req ImageRequest) string {
	var sb strings.Builder
	sb.WriteString("Generate a single classroom-appropriate illustration for a printed worksheet.\n")
	sb.WriteString("Subject of the image: ")
	sb.WriteString(req.Description)
	sb.WriteString("\n")
	if req.Style != "" {
		sb.WriteString("Art style: " + req.Style + "\n")
	}
	if req.Grade != "" {
		sb.WriteString("Audience: " + req.Grade + " students\n")
	}
	sb.WriteString("No text inside the image. Plain background suitable for black-and-white printing.")
	return sb.String()
}

// extractTextFromResponse extracts text from a Gemini API response
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", &ProviderError{Message: "no candidates in response"}
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", &ProviderError{Message: "no content in response"}
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", &ProviderError{Message: "no text parts in response"}
	}

	return strings.Join(parts, ""), nil
}

// extractImageFromResponse extracts the first inline image blob from a response.
func extractImageFromResponse(resp *genai.GenerateContentResponse) ([]byte, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, &ProviderError{Message: "no candidates in image response"}
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if blob, ok := part.(genai.Blob); ok && len(blob.Data) > 0 {
			return blob.Data, nil
		}
	}
	return nil, &ProviderError{Message: "no image data in response"}
}

// extractUsage reads token counts from the response metadata.
func extractUsage(resp *genai.GenerateContentResponse) types.TokenUsage {
	if resp.UsageMetadata == nil {
		return types.TokenUsage{}
	}
	return types.TokenUsage{
		Input:  int(resp.UsageMetadata.PromptTokenCount),
		Output: int(resp.UsageMetadata.CandidatesTokenCount),
	}
}
