// Package llm provides the AI capability provider abstraction: text and image
// completion against an interchangeable backend variant, with token and
// credit-cost accounting.
package llm

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite is for simple tasks: prompt polishing, classification
	TierLite ModelTier = "lite"
	// TierStandard is for moderate reasoning: plan building, structured output
	TierStandard ModelTier = "standard"
	// TierAdvanced is for complex reasoning: plan repair, lesson structuring
	TierAdvanced ModelTier = "advanced"
)

// Variant identifies a capability backend.
type Variant string

// Capability variants
const (
	// VariantCloud is the paid Gemini backend (text + image)
	VariantCloud Variant = "cloud"
	// VariantLocal is the free Ollama backend (text only)
	VariantLocal Variant = "local"
)

// Config holds the model configuration for one capability variant.
type Config struct {
	Variant    Variant
	Models     map[ModelTier]string
	ImageModel string // empty when the variant cannot generate images
	OllamaHost string // local variant only
}

// DefaultConfig returns the default configuration for a variant.
func DefaultConfig(variant Variant) *Config {
	switch variant {
	case VariantLocal:
		return &Config{
			Variant: VariantLocal,
			Models: map[ModelTier]string{
				TierLite:     "llama3.2:3b",
				TierStandard: "llama3.1:8b",
				TierAdvanced: "llama3.1:8b",
			},
			OllamaHost: "http://localhost:11434",
		}
	default:
		return &Config{
			Variant: VariantCloud,
			Models: map[ModelTier]string{
				TierLite:     "gemini-2.5-flash-lite",
				TierStandard: "gemini-2.5-flash",
				TierAdvanced: "gemini-2.5-pro",
			},
			ImageModel: "gemini-2.0-flash-preview-image-generation",
		}
	}
}

// GetModel returns the model name for a given tier with a fallback chain.
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}
